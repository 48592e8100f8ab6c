package notifications

import (
	"fmt"
	"strings"
)

// OffsetUnit is the display unit for a config's event offset.
type OffsetUnit string

const (
	UnitMinutes OffsetUnit = "minutes"
	UnitHours   OffsetUnit = "hours"
	UnitDays    OffsetUnit = "days"
)

// Timeframe says whether the offset counts before or after the event.
type Timeframe string

const (
	BeforeEvent Timeframe = "before"
	AfterEvent  Timeframe = "after"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 60 * 24
)

// Offset is the editable decomposition of a signed offset-minutes value.
type Offset struct {
	Value     int        `json:"value"`
	Unit      OffsetUnit `json:"unit"`
	Timeframe Timeframe  `json:"timeframe"`
}

// DecomposeOffset splits signed offset minutes into the largest unit that
// divides it evenly, matching how the editor presents the value.
func DecomposeOffset(minutes int) Offset {
	abs := minutes
	if abs < 0 {
		abs = -abs
	}

	off := Offset{Timeframe: AfterEvent}
	if minutes < 0 {
		off.Timeframe = BeforeEvent
	}

	switch {
	case abs > 0 && abs%minutesPerDay == 0:
		off.Value = abs / minutesPerDay
		off.Unit = UnitDays
	case abs > 0 && abs%minutesPerHour == 0:
		off.Value = abs / minutesPerHour
		off.Unit = UnitHours
	default:
		off.Value = abs
		off.Unit = UnitMinutes
	}
	return off
}

// Minutes recomposes the signed offset-minutes value.
func (o Offset) Minutes() int {
	multiplier := 1
	switch o.Unit {
	case UnitHours:
		multiplier = minutesPerHour
	case UnitDays:
		multiplier = minutesPerDay
	}
	minutes := o.Value * multiplier
	if o.Timeframe == BeforeEvent {
		return -minutes
	}
	return minutes
}

// FormatOffset renders a signed offset for display, e.g. "1 day, 2 hours
// before event".
func FormatOffset(minutes int) string {
	if minutes == 0 {
		return "at time of event"
	}

	abs := minutes
	timeframe := "after event"
	if minutes < 0 {
		abs = -minutes
		timeframe = "before event"
	}

	days := abs / minutesPerDay
	hours := (abs % minutesPerDay) / minutesPerHour
	mins := abs % minutesPerHour

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", days, plural("day", days)))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, plural("hour", hours)))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", mins, plural("minute", mins)))
	}

	return strings.Join(parts, ", ") + " " + timeframe
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// FormatFilters renders a config's appointment-state filters for display.
func FormatFilters(cfg Config) string {
	var filters []string
	if cfg.ApplyIfPaymentStatus != nil {
		filters = append(filters, fmt.Sprintf("payment: %s", *cfg.ApplyIfPaymentStatus))
	}
	if cfg.ApplyIfConfirmationStatus != nil {
		filters = append(filters, fmt.Sprintf("confirmation: %s", *cfg.ApplyIfConfirmationStatus))
	}
	return strings.Join(filters, ", ")
}

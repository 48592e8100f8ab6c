package dashboard

import (
	"fmt"
	"time"
)

// InteractionLog is one recorded bot conversation, as reported by the
// platform API.
type InteractionLog struct {
	ID           string    `json:"id"`
	BotID        string    `json:"botId"`
	Timestamp    time.Time `json:"timestamp"`
	Channel      string    `json:"channel"`
	HumanHandoff bool      `json:"humanHandoff"`
	Outcome      string    `json:"outcome"`
	SessionID    string    `json:"sessionId"`
}

// DailyCount is one day's interaction volume.
type DailyCount struct {
	Day   time.Time `json:"-"`
	Label string    `json:"day"`
	Count int       `json:"count"`
}

// Stats are the derived aggregates the dashboard charts consume.
type Stats struct {
	BotID          string         `json:"bot_id"`
	PeriodStart    string         `json:"period_start"`
	PeriodEnd      string         `json:"period_end"`
	TotalSessions  int            `json:"total_sessions"`
	HandoffCount   int            `json:"handoff_count"`
	HandoffRatePct float64        `json:"handoff_rate_pct"`
	ByChannel      map[string]int `json:"by_channel"`
	ByOutcome      map[string]int `json:"by_outcome"`
	Daily          []DailyCount   `json:"daily"`
}

// Compute derives dashboard aggregates from interaction logs over [start, end).
// Days with no interactions are zero-filled so charts stay continuous.
func Compute(botID string, logs []InteractionLog, start, end time.Time) (Stats, error) {
	if !end.After(start) {
		return Stats{}, fmt.Errorf("dashboard: invalid time range")
	}

	stats := Stats{
		BotID:       botID,
		PeriodStart: start.UTC().Format(time.RFC3339),
		PeriodEnd:   end.UTC().Format(time.RFC3339),
		ByChannel:   map[string]int{},
		ByOutcome:   map[string]int{},
	}

	counts := map[string]int{}
	for _, l := range logs {
		ts := l.Timestamp.UTC()
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		stats.TotalSessions++
		if l.HumanHandoff {
			stats.HandoffCount++
		}
		stats.ByChannel[l.Channel]++
		stats.ByOutcome[l.Outcome]++
		counts[ts.Format("2006-01-02")]++
	}

	if stats.TotalSessions > 0 {
		stats.HandoffRatePct = float64(stats.HandoffCount) / float64(stats.TotalSessions) * 100.0
	}

	stats.Daily = fillMissingDays(counts, start, end)
	return stats, nil
}

func fillMissingDays(counts map[string]int, start, end time.Time) []DailyCount {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if end.After(endDay) {
		endDay = endDay.AddDate(0, 0, 1)
	}

	out := make([]DailyCount, 0, int(endDay.Sub(startDay).Hours()/24))
	for day := startDay; day.Before(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		out = append(out, DailyCount{
			Day:   day,
			Label: key,
			Count: counts[key],
		})
	}
	return out
}

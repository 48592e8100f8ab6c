package notifications

import "time"

// Type enumerates the automated notification kinds the platform evaluates.
type Type string

const (
	TypeAppointmentReminder      Type = "appointment_reminder"
	TypePaymentReminder          Type = "payment_reminder"
	TypePreProcedureInstructions Type = "pre_procedure_instructions"
	TypePostProcedureFollowup    Type = "post_procedure_followup"
	TypeBirthdayGreeting         Type = "birthday_greeting"
	TypeNoShowFollowup           Type = "no_show_followup"
	TypeReactivationCampaign     Type = "reactivation_campaign"
	TypeMarketingPromo           Type = "marketing_promo"
)

// PaymentStatus and ConfirmationStatus are appointment attributes a config
// may filter on before firing.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pendiente"
	PaymentPaid    PaymentStatus = "pagado"
)

type ConfirmationStatus string

const (
	ConfirmationScheduled ConfirmationStatus = "agendada"
	ConfirmationConfirmed ConfirmationStatus = "confirmada"
	ConfirmationDone      ConfirmationStatus = "realizada"
	ConfirmationCancelled ConfirmationStatus = "cancelada"
)

// Config is an automated notification rule: which template fires, how far
// before or after the event, and under which appointment-state filters.
// OffsetMinutes is signed: negative means before the event.
type Config struct {
	ID                        int64               `json:"id"`
	BotID                     string              `json:"bot_id"`
	NotificationType          Type                `json:"notification_type"`
	TemplateID                int64               `json:"template_id"`
	OffsetMinutes             int                 `json:"offset_minutes"`
	IsActive                  bool                `json:"is_active"`
	ApplyIfPaymentStatus      *PaymentStatus      `json:"apply_if_payment_status,omitempty"`
	ApplyIfConfirmationStatus *ConfirmationStatus `json:"apply_if_confirmation_status,omitempty"`
}

// Queue item delivery states, owned by the platform.
const (
	QueuePending   = "PENDING"
	QueueSent      = "SENT"
	QueueFailed    = "FAILED"
	QueueCancelled = "CANCELLED"
	QueueSkipped   = "SKIPPED"
)

// QueueItem is a read-only, per-contact delivery attempt record populated by
// the platform as a side effect of campaign execution or config evaluation.
type QueueItem struct {
	ID               int64          `json:"id"`
	BotID            string         `json:"bot_id"`
	NotificationType string         `json:"notification_type"`
	TemplateName     string         `json:"template_name"`
	ContactPhone     string         `json:"contact_phone"`
	SendAt           time.Time      `json:"send_at"`
	Params           map[int]string `json:"params"`
	Status           string         `json:"status"`
}

package campaigns

// Event types broadcast to connected console clients.
const (
	EventCampaignExecuted = "campaign_executed"
	EventContactsAdded    = "campaign_contacts_added"
	EventCampaignDeleted  = "campaign_deleted"
	EventQueueRefreshed   = "queue_refreshed"
)

// Event describes a campaign lifecycle change worth pushing to clients.
type Event struct {
	Type       string `json:"type"`
	BotID      string `json:"bot_id"`
	CampaignID int64  `json:"campaign_id,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// EventPublisher pushes events to whoever is listening. Implementations must
// not block.
type EventPublisher interface {
	Publish(event Event)
}

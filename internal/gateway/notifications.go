package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/botfleet/console/internal/campaigns"
	"github.com/botfleet/console/internal/notifications"
)

// ListTemplates returns the bot's notification templates.
func (c *Client) ListTemplates(ctx context.Context, botID string) ([]campaigns.Template, error) {
	var out []campaigns.Template
	path := fmt.Sprintf("/bots/%s/notifications/templates", url.PathEscape(botID))
	if err := c.do(ctx, "list_templates", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SyncMetaTemplates asks the platform to re-pull templates from the provider.
func (c *Client) SyncMetaTemplates(ctx context.Context, botID string) error {
	path := fmt.Sprintf("/bots/%s/notifications/templates/sync-meta", url.PathEscape(botID))
	return c.do(ctx, "sync_meta_templates", http.MethodPost, path, nil, struct{}{}, nil)
}

// GetTemplateDetail returns a template with its parameter list.
func (c *Client) GetTemplateDetail(ctx context.Context, botID string, templateID int64) (*campaigns.TemplateDetail, error) {
	var out campaigns.TemplateDetail
	path := fmt.Sprintf("/bots/%s/notifications/templates/%d", url.PathEscape(botID), templateID)
	if err := c.do(ctx, "get_template_detail", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTemplateParameters persists template-level parameter assignments.
func (c *Client) UpdateTemplateParameters(ctx context.Context, botID string, templateID int64, params []campaigns.Parameter) error {
	path := fmt.Sprintf("/bots/%s/notifications/templates/%d/parameters", url.PathEscape(botID), templateID)
	body := struct {
		Parameters []campaigns.Parameter `json:"parameters"`
	}{Parameters: params}
	return c.do(ctx, "update_template_parameters", http.MethodPut, path, nil, body, nil)
}

// ListNotificationConfigs returns the bot's automated notification rules.
func (c *Client) ListNotificationConfigs(ctx context.Context, botID string) ([]notifications.Config, error) {
	var out []notifications.Config
	path := fmt.Sprintf("/bots/%s/notifications/configs", url.PathEscape(botID))
	if err := c.do(ctx, "list_notification_configs", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveNotificationConfig creates (id zero) or updates a notification rule.
func (c *Client) SaveNotificationConfig(ctx context.Context, cfg notifications.Config) (*notifications.Config, error) {
	var out notifications.Config
	var err error
	if cfg.ID == 0 {
		path := fmt.Sprintf("/bots/%s/notifications/configs", url.PathEscape(cfg.BotID))
		err = c.do(ctx, "create_notification_config", http.MethodPost, path, nil, cfg, &out)
	} else {
		path := fmt.Sprintf("/bots/%s/notifications/configs/%d", url.PathEscape(cfg.BotID), cfg.ID)
		err = c.do(ctx, "update_notification_config", http.MethodPut, path, nil, cfg, &out)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNotificationConfig removes a notification rule.
func (c *Client) DeleteNotificationConfig(ctx context.Context, botID string, configID int64) error {
	path := fmt.Sprintf("/bots/%s/notifications/configs/%d", url.PathEscape(botID), configID)
	return c.do(ctx, "delete_notification_config", http.MethodDelete, path, nil, nil, nil)
}

// ListCampaigns returns the bot's campaigns.
func (c *Client) ListCampaigns(ctx context.Context, botID string) ([]campaigns.Campaign, error) {
	var out []campaigns.Campaign
	path := fmt.Sprintf("/bots/%s/notifications/campaigns", url.PathEscape(botID))
	if err := c.do(ctx, "list_campaigns", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCampaign creates a campaign in DRAFT bound to a template.
func (c *Client) CreateCampaign(ctx context.Context, botID, name string, templateID int64) (*campaigns.Campaign, error) {
	var out campaigns.Campaign
	path := fmt.Sprintf("/bots/%s/notifications/campaigns", url.PathEscape(botID))
	body := struct {
		Name       string `json:"name"`
		TemplateID int64  `json:"template_id"`
	}{Name: name, TemplateID: templateID}
	if err := c.do(ctx, "create_campaign", http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCampaign returns a single campaign with its parameter overrides.
func (c *Client) GetCampaign(ctx context.Context, botID string, campaignID int64) (*campaigns.Campaign, error) {
	var out campaigns.Campaign
	path := fmt.Sprintf("/bots/%s/notifications/campaigns/%d", url.PathEscape(botID), campaignID)
	if err := c.do(ctx, "get_campaign", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameCampaign updates a campaign's name.
func (c *Client) RenameCampaign(ctx context.Context, botID string, campaignID int64, name string) (*campaigns.Campaign, error) {
	var out campaigns.Campaign
	path := fmt.Sprintf("/bots/%s/notifications/campaigns/%d", url.PathEscape(botID), campaignID)
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, "rename_campaign", http.MethodPut, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCampaignParameters persists campaign-level parameter overrides.
func (c *Client) UpdateCampaignParameters(ctx context.Context, botID string, campaignID int64, overrides []campaigns.ParameterOverride) error {
	path := fmt.Sprintf("/bots/%s/notifications/campaigns/%d/parameters", url.PathEscape(botID), campaignID)
	body := struct {
		Parameters []campaigns.ParameterOverride `json:"parameters"`
	}{Parameters: overrides}
	return c.do(ctx, "update_campaign_parameters", http.MethodPut, path, nil, body, nil)
}

// DeleteCampaign removes a campaign and its enrolled contacts.
func (c *Client) DeleteCampaign(ctx context.Context, botID string, campaignID int64) error {
	path := fmt.Sprintf("/bots/%s/notifications/campaigns/%d", url.PathEscape(botID), campaignID)
	return c.do(ctx, "delete_campaign", http.MethodDelete, path, nil, nil, nil)
}

// ListCampaignContacts returns the contacts enrolled in a campaign.
func (c *Client) ListCampaignContacts(ctx context.Context, botID string, campaignID int64) ([]campaigns.Contact, error) {
	var out []campaigns.Contact
	path := fmt.Sprintf("/bots/%s/notifications/campaigns/%d/contacts", url.PathEscape(botID), campaignID)
	if err := c.do(ctx, "list_campaign_contacts", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCampaignContacts submits a batch of enrollments with resolved params.
func (c *Client) AddCampaignContacts(ctx context.Context, botID string, campaignID int64, enrollments []campaigns.Enrollment) error {
	path := fmt.Sprintf("/bots/%s/notifications/campaigns/%d/contacts", url.PathEscape(botID), campaignID)
	body := struct {
		Contacts []campaigns.Enrollment `json:"contacts"`
	}{Contacts: enrollments}
	return c.do(ctx, "add_campaign_contacts", http.MethodPost, path, nil, body, nil)
}

// ExecuteCampaign asks the platform to run a campaign. The returned status is
// authoritative.
func (c *Client) ExecuteCampaign(ctx context.Context, botID string, campaignID int64) (*campaigns.ExecuteResult, error) {
	var out campaigns.ExecuteResult
	path := fmt.Sprintf("/bots/%s/notifications/campaigns/%d/run", url.PathEscape(botID), campaignID)
	if err := c.do(ctx, "execute_campaign", http.MethodPost, path, nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPendingQueue returns the most recent delivery queue entries.
func (c *Client) ListPendingQueue(ctx context.Context, botID string, limit int) ([]notifications.QueueItem, error) {
	if limit <= 0 {
		limit = 100
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var out []notifications.QueueItem
	path := fmt.Sprintf("/bots/%s/notifications/queue/pending", url.PathEscape(botID))
	if err := c.do(ctx, "list_pending_queue", http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package campaigns

import "time"

// Status is the campaign lifecycle state. READY is assigned by the platform
// backend; the console never sets it.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusReady     Status = "READY"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFinished  Status = "FINISHED"
)

// Terminal reports whether the status is immutable.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFinished
}

// Editable reports whether campaign sub-resources may still be mutated.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusReady
}

// AssignType says where a template parameter's value comes from.
type AssignType string

const (
	AssignFixedValue   AssignType = "fixed_value"
	AssignContactField AssignType = "contact_field"
)

// Template is a provider notification template. Only APPROVED templates are
// usable in campaigns.
type Template struct {
	ID       int64  `json:"id"`
	BotID    string `json:"bot_id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status"`
}

// TemplateStatusApproved is the provider approval state required for sending.
const TemplateStatusApproved = "APPROVED"

// Approved reports whether the template may be bound to a campaign.
func (t Template) Approved() bool { return t.Status == TemplateStatusApproved }

// Parameter is a placeholder position in a template body. The parameter list
// is append-only on the platform side; the console only edits the assignment.
type Parameter struct {
	ID            int64      `json:"id"`
	ParamIndex    int        `json:"param_index"`
	ComponentType string     `json:"component_type"`
	ParamKey      string     `json:"param_key"`
	ParamName     string     `json:"param_name,omitempty"`
	ParamExample  string     `json:"param_example,omitempty"`
	AssignType    AssignType `json:"assign_type,omitempty"`
	AssignValue   string     `json:"assign_value,omitempty"`
}

// Assigned reports whether both assignment fields are set.
func (p Parameter) Assigned() bool {
	return p.AssignType != "" && p.AssignValue != ""
}

// TemplateDetail is a template with its ordered parameter list.
type TemplateDetail struct {
	Template
	Parameters []Parameter `json:"parameters"`
}

// ParameterOverride is a campaign-level assignment that shadows the
// template's default for one parameter.
type ParameterOverride struct {
	TemplateParamID int64      `json:"template_param_id"`
	AssignType      AssignType `json:"assign_type"`
	AssignValue     string     `json:"assign_value"`
}

// Campaign is a batch outbound-notification job bound to one template.
type Campaign struct {
	ID            int64               `json:"id"`
	BotID         string              `json:"bot_id"`
	Name          string              `json:"name"`
	TemplateID    int64               `json:"template_id"`
	Status        Status              `json:"status"`
	ScheduledAt   *time.Time          `json:"scheduled_at,omitempty"`
	TotalContacts int                 `json:"total_contacts"`
	CreatedAt     *time.Time          `json:"created_at,omitempty"`
	UpdatedAt     *time.Time          `json:"updated_at,omitempty"`
	Parameters    []ParameterOverride `json:"parameters,omitempty"`
}

// Contact is a contact enrolled in a campaign, with its resolved parameter
// values and per-contact delivery status.
type Contact struct {
	ID         int64          `json:"id"`
	CampaignID int64          `json:"campaign_id"`
	Phone      string         `json:"contact_phone"`
	Params     map[int]string `json:"params"`
	Status     string         `json:"status"`
}

// Enrollment is one contact submitted to the platform when adding contacts
// to a campaign, carrying its already-resolved parameter map.
type Enrollment struct {
	PhoneNumber string         `json:"phone_number"`
	Params      map[int]string `json:"params"`
}

// ExecuteResult is the platform's authoritative response to an execute
// request. CampaignStatus is the only source of the post-execute status.
type ExecuteResult struct {
	Message        string `json:"message"`
	TotalContacts  int    `json:"total_contacts"`
	CampaignStatus Status `json:"campaign_status"`
}

// Detail is a fully-assembled campaign view: the campaign, its enrolled
// contacts, and its template with campaign-level overrides merged in.
type Detail struct {
	Campaign
	Contacts []Contact       `json:"contacts"`
	Template *TemplateDetail `json:"template"`
}

// MergeOverrides projects campaign-level parameter overrides onto the
// template's parameters, matching by template parameter id. Parameters
// without an override keep the template default.
func MergeOverrides(params []Parameter, overrides []ParameterOverride) []Parameter {
	if len(overrides) == 0 {
		return params
	}
	byID := make(map[int64]ParameterOverride, len(overrides))
	for _, o := range overrides {
		byID[o.TemplateParamID] = o
	}
	merged := make([]Parameter, len(params))
	for i, p := range params {
		if o, ok := byID[p.ID]; ok {
			p.AssignType = o.AssignType
			p.AssignValue = o.AssignValue
		}
		merged[i] = p
	}
	return merged
}

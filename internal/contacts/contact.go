package contacts

import "time"

// Contact is a bot-wide contact record sourced from the platform CRM sync.
type Contact struct {
	ID          string    `json:"contact_id"`
	BotID       string    `json:"bot_id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Field names that campaign template parameters may project from a contact.
const (
	FieldName        = "name"
	FieldPhoneNumber = "phone_number"
	FieldEmail       = "email"
)

// Fields lists the projectable contact attributes, in display order.
func Fields() []string {
	return []string{FieldName, FieldPhoneNumber, FieldEmail}
}

// Field returns the named attribute of the contact. Unknown names yield "".
func (c Contact) Field(name string) string {
	switch name {
	case FieldName:
		return c.Name
	case FieldPhoneNumber:
		return c.PhoneNumber
	case FieldEmail:
		return c.Email
	}
	return ""
}

// ImportResult summarises a CSV contact import performed by the platform.
type ImportResult struct {
	TotalRows         int      `json:"total_rows"`
	SuccessfulImports int      `json:"successful_imports"`
	FailedImports     int      `json:"failed_imports"`
	Errors            []string `json:"errors"`
}

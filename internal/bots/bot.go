package bots

// Type classifies what kind of business a bot serves. Immutable after creation.
type Type string

const (
	TypeProduct         Type = "product"
	TypeAppointment     Type = "appointment"
	TypeRepair          Type = "repair"
	TypeAestheticClinic Type = "aesthetic_clinic"
)

// Valid reports whether t is one of the known bot types.
func (t Type) Valid() bool {
	switch t {
	case TypeProduct, TypeAppointment, TypeRepair, TypeAestheticClinic:
		return true
	}
	return false
}

// Bot is a configured chatbot deployment as reported by the platform API.
type Bot struct {
	ID      string `json:"bot_id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Status  string `json:"status"`
	Type    Type   `json:"botType"`

	// Feature flags
	UserKnowledgeBaseEnabled bool `json:"userKnowledgeBaseEnabled"`
}

// Role is the signed-in actor's role on the console.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Actor identifies the signed-in console user.
type Actor struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	Role             Role     `json:"role"`
	AccessibleBotIDs []string `json:"accessibleBotIds"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

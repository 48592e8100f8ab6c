package console

import "github.com/botfleet/console/internal/bots"

// View is a named console surface. Every view carries a validity predicate
// over the selected bot's type and feature flags; the session keeps the
// active view consistent with that predicate at all times.
type View string

const (
	ViewDashboard           View = "dashboard"
	ViewKnowledge           View = "knowledge"
	ViewPortfolio           View = "portfolio"
	ViewBusinessRules       View = "business_rules"
	ViewPatientAppointments View = "patient_appointments"
	ViewServiceOrders       View = "service_orders"
	ViewProcedures          View = "procedures"
	ViewProfessionals       View = "professionals"
	ViewCalendars           View = "calendars"
	ViewNotifications       View = "notifications"
	ViewUserKnowledgeBase   View = "user_knowledge_base"
	ViewPrompts             View = "prompts"
	ViewContacts            View = "contacts"
	ViewLinks               View = "links"
	ViewAdmin               View = "admin"
)

// Known reports whether v is one of the defined views.
func (v View) Known() bool {
	switch v {
	case ViewDashboard, ViewKnowledge, ViewPortfolio, ViewBusinessRules,
		ViewPatientAppointments, ViewServiceOrders, ViewProcedures,
		ViewProfessionals, ViewCalendars, ViewNotifications,
		ViewUserKnowledgeBase, ViewPrompts, ViewContacts, ViewLinks, ViewAdmin:
		return true
	}
	return false
}

// AdminOnly reports whether v requires the admin role.
func (v View) AdminOnly() bool { return v == ViewAdmin }

// ValidFor reports whether the view may be active for the given bot. The
// dashboard, admin, links and contacts views are valid for any bot, selected
// or not; every other view requires a selected bot of the right type or with
// the right feature flag.
func (v View) ValidFor(b *bots.Bot) bool {
	switch v {
	case ViewDashboard, ViewAdmin, ViewLinks, ViewContacts:
		return true
	}
	if b == nil {
		return false
	}
	switch v {
	case ViewPortfolio:
		return b.Type == bots.TypeProduct
	case ViewBusinessRules:
		return b.Type == bots.TypeProduct || b.Type == bots.TypeAestheticClinic
	case ViewPatientAppointments, ViewProcedures, ViewProfessionals,
		ViewCalendars, ViewNotifications:
		return b.Type == bots.TypeAestheticClinic
	case ViewServiceOrders:
		return b.Type == bots.TypeRepair
	case ViewUserKnowledgeBase:
		return b.UserKnowledgeBaseEnabled
	case ViewKnowledge, ViewPrompts:
		return b.Type != bots.TypeAestheticClinic
	}
	return false
}

package campaigns

import (
	"strings"

	"github.com/botfleet/console/internal/contacts"
)

// ResolveParams computes the per-contact parameter value map for one contact,
// keyed by the template's param_index. Fixed values pass through as literals;
// contact-field assignments project the named attribute off this specific
// contact. Unassigned parameters are omitted.
func ResolveParams(contact contacts.Contact, params []Parameter) map[int]string {
	resolved := make(map[int]string, len(params))
	for _, p := range params {
		switch p.AssignType {
		case AssignFixedValue:
			resolved[p.ParamIndex] = p.AssignValue
		case AssignContactField:
			if p.AssignValue != "" {
				resolved[p.ParamIndex] = contact.Field(p.AssignValue)
			}
		}
	}
	return resolved
}

// CandidateContacts returns the bot contacts not yet enrolled in the
// campaign, matched by phone number. An optional search term narrows the list
// by name or phone substring.
func CandidateContacts(directory []contacts.Contact, enrolled []Contact, search string) []contacts.Contact {
	taken := make(map[string]struct{}, len(enrolled))
	for _, e := range enrolled {
		taken[e.Phone] = struct{}{}
	}

	out := make([]contacts.Contact, 0, len(directory))
	for _, c := range directory {
		if _, ok := taken[c.PhoneNumber]; ok {
			continue
		}
		if search != "" && !matchesSearch(c, search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesSearch(c contacts.Contact, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(c.PhoneNumber, term)
}

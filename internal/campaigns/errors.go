package campaigns

import "errors"

// Validation failures surfaced to the console as distinct, human-readable
// reasons. Each one blocks the attempted operation entirely.
var (
	// ErrWrongStatus: execution requires DRAFT or READY.
	ErrWrongStatus = errors.New("campaigns: campaign is not in an executable status")

	// ErrNoContacts: execution requires at least one enrolled contact.
	ErrNoContacts = errors.New("campaigns: campaign has no contacts")

	// ErrMissingParams: every template parameter needs an assignment before
	// execution.
	ErrMissingParams = errors.New("campaigns: one or more template parameters lack an assignment")

	// ErrNotEditable: sub-resources may only change while DRAFT or READY.
	ErrNotEditable = errors.New("campaigns: campaign is no longer editable")

	// ErrNoSelection: the operation needs an open campaign.
	ErrNoSelection = errors.New("campaigns: no campaign selected")

	// ErrNameRequired: campaign creation needs a non-empty name.
	ErrNameRequired = errors.New("campaigns: campaign name is required")

	// ErrTemplateNotApproved: campaigns bind only to APPROVED templates.
	ErrTemplateNotApproved = errors.New("campaigns: template is not approved for sending")

	// ErrNothingPending: confirm/cancel without a prior request.
	ErrNothingPending = errors.New("campaigns: no pending request to confirm")

	// ErrExecutionInFlight: a prior execute request has not resolved yet.
	ErrExecutionInFlight = errors.New("campaigns: an execution is already in flight")

	// ErrSuperseded: the load completed after a newer one started and its
	// result was discarded.
	ErrSuperseded = errors.New("campaigns: load superseded by a newer one")
)

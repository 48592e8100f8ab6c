package campaigns

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/botfleet/console/internal/contacts"
	"github.com/botfleet/console/internal/notifications"
	"github.com/botfleet/console/internal/observability/metrics"
	"github.com/botfleet/console/pkg/logging"
)

// SubView is the active pane of the notifications screen.
type SubView string

const (
	SubViewTemplates SubView = "templates"
	SubViewConfigs   SubView = "configs"
	SubViewCampaigns SubView = "campaigns"
	SubViewQueue     SubView = "queue"
)

// Valid reports whether v is a known sub-view.
func (v SubView) Valid() bool {
	switch v {
	case SubViewTemplates, SubViewConfigs, SubViewCampaigns, SubViewQueue:
		return true
	}
	return false
}

// Gateway is the slice of the platform API the workflow consumes.
type Gateway interface {
	ListTemplates(ctx context.Context, botID string) ([]Template, error)
	GetTemplateDetail(ctx context.Context, botID string, templateID int64) (*TemplateDetail, error)
	SyncMetaTemplates(ctx context.Context, botID string) error
	UpdateTemplateParameters(ctx context.Context, botID string, templateID int64, params []Parameter) error
	ListCampaigns(ctx context.Context, botID string) ([]Campaign, error)
	CreateCampaign(ctx context.Context, botID, name string, templateID int64) (*Campaign, error)
	GetCampaign(ctx context.Context, botID string, campaignID int64) (*Campaign, error)
	RenameCampaign(ctx context.Context, botID string, campaignID int64, name string) (*Campaign, error)
	UpdateCampaignParameters(ctx context.Context, botID string, campaignID int64, overrides []ParameterOverride) error
	DeleteCampaign(ctx context.Context, botID string, campaignID int64) error
	ListCampaignContacts(ctx context.Context, botID string, campaignID int64) ([]Contact, error)
	AddCampaignContacts(ctx context.Context, botID string, campaignID int64, enrollments []Enrollment) error
	ExecuteCampaign(ctx context.Context, botID string, campaignID int64) (*ExecuteResult, error)
	ListPendingQueue(ctx context.Context, botID string, limit int) ([]notifications.QueueItem, error)
}

// ContactDirectory provides the bot-wide contact list.
type ContactDirectory interface {
	ListContacts(ctx context.Context, botID string) ([]contacts.Contact, error)
}

// Workflow drives one bot's campaigns through their lifecycle and keeps the
// derived console state (lists, open campaign, sub-view, queue) consistent
// with the platform. Local state changes only after a successful remote
// acknowledgment; the two-phase request/confirm gestures are purely local
// until confirmed.
type Workflow struct {
	botID      string
	gw         Gateway
	directory  ContactDirectory
	logger     *logging.Logger
	metrics    *metrics.CampaignMetrics
	events     EventPublisher
	queueLimit int

	mu             sync.Mutex
	templates      []Template
	campaigns      []Campaign
	queue          []notifications.QueueItem
	subView        SubView
	selected       *Detail
	pendingExecute *Campaign
	pendingDelete  *Campaign
	executing      bool

	// Generation counters discard completions superseded by a newer load.
	refreshGen int
	selectGen  int
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

func WithCampaignMetrics(m *metrics.CampaignMetrics) WorkflowOption {
	return func(w *Workflow) { w.metrics = m }
}

func WithEventPublisher(p EventPublisher) WorkflowOption {
	return func(w *Workflow) { w.events = p }
}

func WithQueueLimit(limit int) WorkflowOption {
	return func(w *Workflow) { w.queueLimit = limit }
}

// NewWorkflow creates a campaign workflow controller scoped to one bot.
func NewWorkflow(botID string, gw Gateway, directory ContactDirectory, logger *logging.Logger, opts ...WorkflowOption) *Workflow {
	if logger == nil {
		logger = logging.Default()
	}
	w := &Workflow{
		botID:      botID,
		gw:         gw,
		directory:  directory,
		logger:     logger,
		queueLimit: 100,
		subView:    SubViewCampaigns,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BotID returns the bot this workflow is scoped to.
func (w *Workflow) BotID() string { return w.botID }

// Refresh reloads templates, campaigns and the delivery queue concurrently.
// Any single failure fails the whole refresh and publishes nothing. A refresh
// superseded by a newer one discards its result.
func (w *Workflow) Refresh(ctx context.Context) error {
	w.mu.Lock()
	w.refreshGen++
	gen := w.refreshGen
	w.mu.Unlock()

	var (
		templates []Template
		list      []Campaign
		queue     []notifications.QueueItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		templates, err = w.gw.ListTemplates(gctx, w.botID)
		return err
	})
	g.Go(func() error {
		var err error
		list, err = w.gw.ListCampaigns(gctx, w.botID)
		return err
	})
	g.Go(func() error {
		var err error
		queue, err = w.gw.ListPendingQueue(gctx, w.botID, w.queueLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("campaigns: refresh bot %s: %w", w.botID, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.refreshGen {
		w.logger.Debug("discarding stale campaign refresh", "bot_id", w.botID)
		return nil
	}
	w.templates = templates
	w.campaigns = list
	w.queue = queue
	return nil
}

// SyncTemplates asks the platform to re-import templates from the messaging
// provider, then reloads the local template list.
func (w *Workflow) SyncTemplates(ctx context.Context) error {
	if err := w.gw.SyncMetaTemplates(ctx, w.botID); err != nil {
		return fmt.Errorf("campaigns: sync templates for bot %s: %w", w.botID, err)
	}
	templates, err := w.gw.ListTemplates(ctx, w.botID)
	if err != nil {
		return fmt.Errorf("campaigns: reload templates for bot %s: %w", w.botID, err)
	}
	w.mu.Lock()
	w.templates = templates
	w.mu.Unlock()
	return nil
}

// UpdateTemplateDefaults persists default parameter values on a template.
// When the open campaign uses that template it is re-opened so the merged
// parameter view stays current.
func (w *Workflow) UpdateTemplateDefaults(ctx context.Context, templateID int64, params []Parameter) error {
	if err := w.gw.UpdateTemplateParameters(ctx, w.botID, templateID, params); err != nil {
		return fmt.Errorf("campaigns: update template %d defaults: %w", templateID, err)
	}
	w.mu.Lock()
	var reopen int64
	if w.selected != nil && w.selected.TemplateID == templateID {
		reopen = w.selected.ID
	}
	w.mu.Unlock()
	if reopen != 0 {
		if _, err := w.Select(ctx, reopen); err != nil {
			return err
		}
	}
	return nil
}

// Templates returns the last loaded template list.
func (w *Workflow) Templates() []Template {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Template(nil), w.templates...)
}

// ApprovedTemplates returns only templates usable in campaigns.
func (w *Workflow) ApprovedTemplates() []Template {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Template, 0, len(w.templates))
	for _, t := range w.templates {
		if t.Approved() {
			out = append(out, t)
		}
	}
	return out
}

// Campaigns returns the last loaded campaign list.
func (w *Workflow) Campaigns() []Campaign {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Campaign(nil), w.campaigns...)
}

// Queue returns the last loaded delivery queue snapshot.
func (w *Workflow) Queue() []notifications.QueueItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]notifications.QueueItem(nil), w.queue...)
}

// SubView returns the active notifications pane.
func (w *Workflow) SubView() SubView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.subView
}

// SetSubView switches the active notifications pane.
func (w *Workflow) SetSubView(v SubView) error {
	if !v.Valid() {
		return fmt.Errorf("campaigns: unknown sub-view %q", v)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subView = v
	return nil
}

// Selected returns a copy of the open campaign detail, or nil.
func (w *Workflow) Selected() *Detail {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected.clone()
}

// Select opens one campaign: the campaign, its contacts and its template
// detail are fetched concurrently and joined fail-fast, then campaign-level
// parameter overrides are merged onto the template parameters. The prior
// selection is cleared first; on any failure no partial selection is
// published. A load that finishes after a newer one started is discarded and
// returns ErrSuperseded.
func (w *Workflow) Select(ctx context.Context, campaignID int64) (*Detail, error) {
	w.mu.Lock()
	w.selected = nil
	w.selectGen++
	gen := w.selectGen
	w.mu.Unlock()

	var (
		campaign *Campaign
		enrolled []Contact
		template *TemplateDetail
	)

	// The template fetch needs the campaign's template id, so the campaign
	// comes first; contacts load alongside the rest.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := w.gw.GetCampaign(gctx, w.botID, campaignID)
		if err != nil {
			return err
		}
		campaign = c
		t, err := w.gw.GetTemplateDetail(gctx, w.botID, c.TemplateID)
		if err != nil {
			return err
		}
		template = t
		return nil
	})
	g.Go(func() error {
		cs, err := w.gw.ListCampaignContacts(gctx, w.botID, campaignID)
		if err != nil {
			return err
		}
		enrolled = cs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("campaigns: load campaign %d: %w", campaignID, err)
	}

	template.Parameters = MergeOverrides(template.Parameters, campaign.Parameters)

	detail := &Detail{
		Campaign: *campaign,
		Contacts: enrolled,
		Template: template,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.selectGen {
		w.logger.Debug("discarding stale campaign selection", "bot_id", w.botID, "campaign_id", campaignID)
		return nil, ErrSuperseded
	}
	w.selected = detail
	return detail.clone(), nil
}

// Deselect returns to the campaign list.
func (w *Workflow) Deselect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = nil
	w.pendingExecute = nil
}

// Create makes a new DRAFT campaign bound to an approved template, re-fetches
// the campaign list, and opens the new campaign.
func (w *Workflow) Create(ctx context.Context, name string, templateID int64) (*Detail, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if !w.templateApproved(templateID) {
		return nil, ErrTemplateNotApproved
	}

	created, err := w.gw.CreateCampaign(ctx, w.botID, name, templateID)
	if err != nil {
		return nil, fmt.Errorf("campaigns: create: %w", err)
	}

	list, err := w.gw.ListCampaigns(ctx, w.botID)
	if err != nil {
		return nil, fmt.Errorf("campaigns: re-fetch after create: %w", err)
	}
	w.mu.Lock()
	w.campaigns = list
	w.mu.Unlock()

	return w.Select(ctx, created.ID)
}

// Rename updates the open campaign's name and reconciles from the response.
func (w *Workflow) Rename(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	w.mu.Lock()
	if w.selected == nil {
		w.mu.Unlock()
		return ErrNoSelection
	}
	id := w.selected.ID
	w.mu.Unlock()

	updated, err := w.gw.RenameCampaign(ctx, w.botID, id, name)
	if err != nil {
		return fmt.Errorf("campaigns: rename: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected != nil && w.selected.ID == id {
		w.selected.Name = updated.Name
	}
	for i := range w.campaigns {
		if w.campaigns[i].ID == id {
			w.campaigns[i].Name = updated.Name
		}
	}
	return nil
}

func (w *Workflow) templateApproved(templateID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.templates {
		if t.ID == templateID {
			return t.Approved()
		}
	}
	return false
}

// Ready reports whether the open campaign could be executed as-is: at least
// one contact, and every template parameter fully assigned (vacuously true
// with zero parameters). False with no open campaign.
func (w *Workflow) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected.ready()
}

func (d *Detail) ready() bool {
	if d == nil {
		return false
	}
	if len(d.Contacts) == 0 {
		return false
	}
	if d.Template == nil {
		return true
	}
	for _, p := range d.Template.Parameters {
		if !p.Assigned() {
			return false
		}
	}
	return true
}

// CheckExecutable validates the open campaign for execution. Failures are
// reported in precedence order: status, then contacts, then parameters.
func (w *Workflow) CheckExecutable() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected.checkExecutable()
}

func (d *Detail) checkExecutable() error {
	if d == nil {
		return ErrNoSelection
	}
	if !d.Status.Editable() {
		return ErrWrongStatus
	}
	if len(d.Contacts) == 0 {
		return ErrNoContacts
	}
	if d.Template != nil {
		for _, p := range d.Template.Parameters {
			if !p.Assigned() {
				return ErrMissingParams
			}
		}
	}
	return nil
}

// Candidates lists bot contacts not yet enrolled in the open campaign,
// optionally narrowed by a search term.
func (w *Workflow) Candidates(ctx context.Context, search string) ([]contacts.Contact, error) {
	w.mu.Lock()
	if w.selected == nil {
		w.mu.Unlock()
		return nil, ErrNoSelection
	}
	enrolled := append([]Contact(nil), w.selected.Contacts...)
	w.mu.Unlock()

	directory, err := w.directory.ListContacts(ctx, w.botID)
	if err != nil {
		return nil, fmt.Errorf("campaigns: list contacts: %w", err)
	}
	return CandidateContacts(directory, enrolled, search), nil
}

// AddContacts resolves each contact's parameter values against the current
// assignments, submits the batch, and reloads the campaign detail in full so
// local state reflects the read-back rather than an optimistic merge.
func (w *Workflow) AddContacts(ctx context.Context, selected []contacts.Contact) error {
	if len(selected) == 0 {
		return nil
	}

	w.mu.Lock()
	if w.selected == nil {
		w.mu.Unlock()
		return ErrNoSelection
	}
	if !w.selected.Status.Editable() {
		w.mu.Unlock()
		return ErrNotEditable
	}
	id := w.selected.ID
	var params []Parameter
	if w.selected.Template != nil {
		params = append([]Parameter(nil), w.selected.Template.Parameters...)
	}
	w.mu.Unlock()

	enrollments := make([]Enrollment, 0, len(selected))
	for _, c := range selected {
		enrollments = append(enrollments, Enrollment{
			PhoneNumber: c.PhoneNumber,
			Params:      ResolveParams(c, params),
		})
	}

	if err := w.gw.AddCampaignContacts(ctx, w.botID, id, enrollments); err != nil {
		return fmt.Errorf("campaigns: add contacts: %w", err)
	}
	w.metrics.AddContactsEnrolled(len(enrollments))
	w.publish(Event{Type: EventContactsAdded, BotID: w.botID, CampaignID: id, Count: len(enrollments)})

	if _, err := w.Select(ctx, id); err != nil {
		return fmt.Errorf("campaigns: reload after add contacts: %w", err)
	}
	return nil
}

// SetParameterAssignment edits one parameter's assignment on the open
// campaign's in-memory copy. Persist with SaveParameterMappings.
func (w *Workflow) SetParameterAssignment(templateParamID int64, at AssignType, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil || w.selected.Template == nil {
		return ErrNoSelection
	}
	if !w.selected.Status.Editable() {
		return ErrNotEditable
	}
	for i := range w.selected.Template.Parameters {
		if w.selected.Template.Parameters[i].ID == templateParamID {
			w.selected.Template.Parameters[i].AssignType = at
			w.selected.Template.Parameters[i].AssignValue = value
			return nil
		}
	}
	return fmt.Errorf("campaigns: unknown template parameter %d", templateParamID)
}

// SaveParameterMappings persists the fully-assigned parameter overrides of
// the open campaign.
func (w *Workflow) SaveParameterMappings(ctx context.Context) error {
	w.mu.Lock()
	if w.selected == nil || w.selected.Template == nil {
		w.mu.Unlock()
		return ErrNoSelection
	}
	if !w.selected.Status.Editable() {
		w.mu.Unlock()
		return ErrNotEditable
	}
	id := w.selected.ID
	overrides := make([]ParameterOverride, 0, len(w.selected.Template.Parameters))
	for _, p := range w.selected.Template.Parameters {
		if p.Assigned() {
			overrides = append(overrides, ParameterOverride{
				TemplateParamID: p.ID,
				AssignType:      p.AssignType,
				AssignValue:     p.AssignValue,
			})
		}
	}
	w.mu.Unlock()

	if err := w.gw.UpdateCampaignParameters(ctx, w.botID, id, overrides); err != nil {
		return fmt.Errorf("campaigns: save parameter mappings: %w", err)
	}
	return nil
}

// RequestExecute validates the open campaign and stages it for execution.
// The campaign runs only after ConfirmExecute.
func (w *Workflow) RequestExecute() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.executing {
		return ErrExecutionInFlight
	}
	if err := w.selected.checkExecutable(); err != nil {
		return err
	}
	staged := w.selected.Campaign
	w.pendingExecute = &staged
	return nil
}

// CancelExecute drops the staged execution request.
func (w *Workflow) CancelExecute() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingExecute = nil
}

// PendingExecute returns the campaign staged for execution, if any.
func (w *Workflow) PendingExecute() *Campaign {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pendingExecute == nil {
		return nil
	}
	staged := *w.pendingExecute
	return &staged
}

// ConfirmExecute issues the execute call for the staged campaign. On success
// the local status of the open campaign and its list entry is taken from the
// response's authoritative campaign status, the active sub-view switches to
// the queue, and the queue listing refreshes. On failure nothing moves.
func (w *Workflow) ConfirmExecute(ctx context.Context) (*ExecuteResult, error) {
	w.mu.Lock()
	if w.pendingExecute == nil {
		w.mu.Unlock()
		return nil, ErrNothingPending
	}
	if w.executing {
		w.mu.Unlock()
		return nil, ErrExecutionInFlight
	}
	staged := *w.pendingExecute
	w.pendingExecute = nil
	w.executing = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.executing = false
		w.mu.Unlock()
	}()

	res, err := w.gw.ExecuteCampaign(ctx, w.botID, staged.ID)
	if err != nil {
		w.metrics.ObserveExecution("error")
		return nil, fmt.Errorf("campaigns: execute campaign %d: %w", staged.ID, err)
	}
	w.metrics.ObserveExecution("ok")

	w.mu.Lock()
	if w.selected != nil && w.selected.ID == staged.ID {
		w.selected.Status = res.CampaignStatus
	}
	for i := range w.campaigns {
		if w.campaigns[i].ID == staged.ID {
			w.campaigns[i].Status = res.CampaignStatus
		}
	}
	w.subView = SubViewQueue
	w.mu.Unlock()

	w.publish(Event{Type: EventCampaignExecuted, BotID: w.botID, CampaignID: staged.ID, Count: res.TotalContacts})

	if err := w.RefreshQueue(ctx); err != nil {
		// The execution itself succeeded; a queue listing failure is
		// reported but does not undo it.
		w.logger.Error("queue refresh after execute failed", "bot_id", w.botID, "error", err)
	}
	return res, nil
}

// RefreshQueue reloads only the delivery queue snapshot.
func (w *Workflow) RefreshQueue(ctx context.Context) error {
	items, err := w.gw.ListPendingQueue(ctx, w.botID, w.queueLimit)
	if err != nil {
		return fmt.Errorf("campaigns: refresh queue: %w", err)
	}
	w.mu.Lock()
	w.queue = items
	w.mu.Unlock()
	w.publish(Event{Type: EventQueueRefreshed, BotID: w.botID, Count: len(items)})
	return nil
}

// RequestDelete stages a campaign for deletion.
func (w *Workflow) RequestDelete(campaignID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.campaigns {
		if w.campaigns[i].ID == campaignID {
			staged := w.campaigns[i]
			w.pendingDelete = &staged
			return nil
		}
	}
	return fmt.Errorf("campaigns: unknown campaign %d", campaignID)
}

// CancelDelete drops the staged deletion.
func (w *Workflow) CancelDelete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingDelete = nil
}

// PendingDelete returns the campaign staged for deletion, if any.
func (w *Workflow) PendingDelete() *Campaign {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pendingDelete == nil {
		return nil
	}
	staged := *w.pendingDelete
	return &staged
}

// ConfirmDelete deletes the staged campaign. On success it leaves the local
// list without the campaign and, when the open campaign was the one deleted,
// returns to the campaign list.
func (w *Workflow) ConfirmDelete(ctx context.Context) error {
	w.mu.Lock()
	if w.pendingDelete == nil {
		w.mu.Unlock()
		return ErrNothingPending
	}
	staged := *w.pendingDelete
	w.pendingDelete = nil
	w.mu.Unlock()

	if err := w.gw.DeleteCampaign(ctx, w.botID, staged.ID); err != nil {
		return fmt.Errorf("campaigns: delete campaign %d: %w", staged.ID, err)
	}

	w.mu.Lock()
	kept := w.campaigns[:0]
	for _, c := range w.campaigns {
		if c.ID != staged.ID {
			kept = append(kept, c)
		}
	}
	w.campaigns = kept
	if w.selected != nil && w.selected.ID == staged.ID {
		w.selected = nil
	}
	w.mu.Unlock()

	w.publish(Event{Type: EventCampaignDeleted, BotID: w.botID, CampaignID: staged.ID})
	return nil
}

func (w *Workflow) publish(evt Event) {
	if w.events != nil {
		w.events.Publish(evt)
	}
}

// clone deep-copies a detail so callers can edit or inspect without holding
// the workflow lock.
func (d *Detail) clone() *Detail {
	if d == nil {
		return nil
	}
	out := *d
	out.Contacts = append([]Contact(nil), d.Contacts...)
	if d.Template != nil {
		t := *d.Template
		t.Parameters = append([]Parameter(nil), d.Template.Parameters...)
		out.Template = &t
	}
	out.Parameters = append([]ParameterOverride(nil), d.Parameters...)
	return &out
}

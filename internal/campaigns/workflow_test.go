package campaigns

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botfleet/console/internal/contacts"
	"github.com/botfleet/console/internal/notifications"
)

type mockGateway struct {
	mu sync.Mutex

	templates []Template
	list      []Campaign
	queue     []notifications.QueueItem
	campaign  *Campaign
	enrolled  []Contact
	template  *TemplateDetail

	campaignErr error
	contactsErr error
	templateErr error
	listErr     error
	queueErr    error
	addErr      error
	executeErr  error
	deleteErr   error

	executeRes *ExecuteResult

	added         [][]Enrollment
	deleted       []int64
	savedParams   [][]ParameterOverride
	queueCalls    int
	syncCalls     int
	savedDefaults map[int64][]Parameter
}

func (m *mockGateway) SyncMetaTemplates(ctx context.Context, botID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncCalls++
	return nil
}

func (m *mockGateway) UpdateTemplateParameters(ctx context.Context, botID string, templateID int64, params []Parameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.savedDefaults == nil {
		m.savedDefaults = make(map[int64][]Parameter)
	}
	m.savedDefaults[templateID] = params
	return nil
}

func (m *mockGateway) ListTemplates(ctx context.Context, botID string) ([]Template, error) {
	return m.templates, nil
}

func (m *mockGateway) GetTemplateDetail(ctx context.Context, botID string, templateID int64) (*TemplateDetail, error) {
	if m.templateErr != nil {
		return nil, m.templateErr
	}
	t := *m.template
	t.Parameters = append([]Parameter(nil), m.template.Parameters...)
	return &t, nil
}

func (m *mockGateway) ListCampaigns(ctx context.Context, botID string) ([]Campaign, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]Campaign(nil), m.list...), nil
}

func (m *mockGateway) CreateCampaign(ctx context.Context, botID, name string, templateID int64) (*Campaign, error) {
	c := Campaign{ID: 99, BotID: botID, Name: name, TemplateID: templateID, Status: StatusDraft}
	m.mu.Lock()
	m.list = append(m.list, c)
	m.campaign = &c
	m.mu.Unlock()
	return &c, nil
}

func (m *mockGateway) GetCampaign(ctx context.Context, botID string, campaignID int64) (*Campaign, error) {
	if m.campaignErr != nil {
		return nil, m.campaignErr
	}
	c := *m.campaign
	return &c, nil
}

func (m *mockGateway) RenameCampaign(ctx context.Context, botID string, campaignID int64, name string) (*Campaign, error) {
	c := *m.campaign
	c.Name = name
	return &c, nil
}

func (m *mockGateway) UpdateCampaignParameters(ctx context.Context, botID string, campaignID int64, overrides []ParameterOverride) error {
	m.mu.Lock()
	m.savedParams = append(m.savedParams, overrides)
	m.mu.Unlock()
	return nil
}

func (m *mockGateway) DeleteCampaign(ctx context.Context, botID string, campaignID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	m.deleted = append(m.deleted, campaignID)
	m.mu.Unlock()
	return nil
}

func (m *mockGateway) ListCampaignContacts(ctx context.Context, botID string, campaignID int64) ([]Contact, error) {
	if m.contactsErr != nil {
		return nil, m.contactsErr
	}
	return append([]Contact(nil), m.enrolled...), nil
}

func (m *mockGateway) AddCampaignContacts(ctx context.Context, botID string, campaignID int64, enrollments []Enrollment) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	m.added = append(m.added, enrollments)
	for _, e := range enrollments {
		m.enrolled = append(m.enrolled, Contact{CampaignID: campaignID, Phone: e.PhoneNumber, Params: e.Params, Status: "PENDING"})
	}
	m.mu.Unlock()
	return nil
}

func (m *mockGateway) ExecuteCampaign(ctx context.Context, botID string, campaignID int64) (*ExecuteResult, error) {
	if m.executeErr != nil {
		return nil, m.executeErr
	}
	return m.executeRes, nil
}

func (m *mockGateway) ListPendingQueue(ctx context.Context, botID string, limit int) ([]notifications.QueueItem, error) {
	if m.queueErr != nil {
		return nil, m.queueErr
	}
	m.mu.Lock()
	m.queueCalls++
	m.mu.Unlock()
	return append([]notifications.QueueItem(nil), m.queue...), nil
}

type mockDirectory struct {
	contacts []contacts.Contact
	err      error
}

func (m *mockDirectory) ListContacts(ctx context.Context, botID string) ([]contacts.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]contacts.Contact(nil), m.contacts...), nil
}

type capturedEvents struct {
	mu     sync.Mutex
	events []Event
}

func (c *capturedEvents) Publish(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func newTestGateway() *mockGateway {
	return &mockGateway{
		templates: []Template{
			{ID: 10, Name: "welcome", Status: TemplateStatusApproved},
			{ID: 11, Name: "draft_tpl", Status: "PENDING"},
		},
		list: []Campaign{
			{ID: 1, BotID: "bot-1", Name: "spring promo", TemplateID: 10, Status: StatusDraft},
		},
		campaign: &Campaign{ID: 1, BotID: "bot-1", Name: "spring promo", TemplateID: 10, Status: StatusDraft},
		template: &TemplateDetail{
			Template: Template{ID: 10, Name: "welcome", Status: TemplateStatusApproved},
			Parameters: []Parameter{
				{ID: 100, ParamIndex: 0},
				{ID: 101, ParamIndex: 1},
			},
		},
	}
}

func newTestWorkflow(t *testing.T, gw *mockGateway) *Workflow {
	t.Helper()
	return NewWorkflow("bot-1", gw, &mockDirectory{}, nil)
}

func TestSelectMergesOverrides(t *testing.T) {
	gw := newTestGateway()
	gw.campaign.Parameters = []ParameterOverride{
		{TemplateParamID: 100, AssignType: AssignFixedValue, AssignValue: "Hello"},
	}
	w := newTestWorkflow(t, gw)

	detail, err := w.Select(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.NotNil(t, detail.Template)

	assert.Equal(t, AssignFixedValue, detail.Template.Parameters[0].AssignType)
	assert.Equal(t, "Hello", detail.Template.Parameters[0].AssignValue)
	// The second parameter has no override and keeps the template default.
	assert.Empty(t, detail.Template.Parameters[1].AssignType)
}

func TestSelectFailFastJoin(t *testing.T) {
	gw := newTestGateway()
	gw.templateErr = errors.New("template store down")
	w := newTestWorkflow(t, gw)

	_, err := w.Select(context.Background(), 1)
	require.Error(t, err)
	assert.Nil(t, w.Selected(), "no partial selection may be published")
}

func TestSelectClearsPriorSelectionOnFailure(t *testing.T) {
	gw := newTestGateway()
	w := newTestWorkflow(t, gw)

	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, w.Selected())

	gw.campaignErr = errors.New("gone")
	_, err = w.Select(context.Background(), 1)
	require.Error(t, err)
	assert.Nil(t, w.Selected())
}

func TestReadiness(t *testing.T) {
	assigned := []Parameter{
		{ID: 100, ParamIndex: 0, AssignType: AssignFixedValue, AssignValue: "Hi"},
	}
	unassigned := []Parameter{{ID: 100, ParamIndex: 0}}

	tests := []struct {
		name     string
		contacts []Contact
		params   []Parameter
		want     bool
	}{
		{"no contacts, params assigned", nil, assigned, false},
		{"no contacts, no params", nil, nil, false},
		{"contacts, params assigned", []Contact{{Phone: "+100"}}, assigned, true},
		{"contacts, params unassigned", []Contact{{Phone: "+100"}}, unassigned, false},
		{"contacts, zero params", []Contact{{Phone: "+100"}}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway()
			gw.enrolled = tt.contacts
			gw.template.Parameters = tt.params
			w := newTestWorkflow(t, gw)
			_, err := w.Select(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.Ready())
		})
	}
}

func TestReadyFalseWithoutSelection(t *testing.T) {
	w := newTestWorkflow(t, newTestGateway())
	assert.False(t, w.Ready())
}

func TestEligibilityGatePrecedence(t *testing.T) {
	// A RUNNING campaign with contacts and fully assigned parameters must
	// still fail on status.
	gw := newTestGateway()
	gw.campaign.Status = StatusRunning
	gw.enrolled = []Contact{{Phone: "+100"}}
	gw.template.Parameters = []Parameter{
		{ID: 100, ParamIndex: 0, AssignType: AssignFixedValue, AssignValue: "Hi"},
	}
	w := newTestWorkflow(t, gw)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	assert.ErrorIs(t, w.CheckExecutable(), ErrWrongStatus)
	assert.ErrorIs(t, w.RequestExecute(), ErrWrongStatus)
}

func TestEligibilityDistinctFailures(t *testing.T) {
	t.Run("no contacts", func(t *testing.T) {
		gw := newTestGateway()
		gw.template.Parameters = nil
		w := newTestWorkflow(t, gw)
		_, err := w.Select(context.Background(), 1)
		require.NoError(t, err)
		assert.ErrorIs(t, w.CheckExecutable(), ErrNoContacts)
	})

	t.Run("missing parameter assignment", func(t *testing.T) {
		gw := newTestGateway()
		gw.enrolled = []Contact{{Phone: "+100"}}
		w := newTestWorkflow(t, gw)
		_, err := w.Select(context.Background(), 1)
		require.NoError(t, err)
		assert.ErrorIs(t, w.CheckExecutable(), ErrMissingParams)
	})

	t.Run("eligible", func(t *testing.T) {
		gw := newTestGateway()
		gw.enrolled = []Contact{{Phone: "+100"}}
		gw.template.Parameters = []Parameter{
			{ID: 100, ParamIndex: 0, AssignType: AssignContactField, AssignValue: "name"},
		}
		w := newTestWorkflow(t, gw)
		_, err := w.Select(context.Background(), 1)
		require.NoError(t, err)
		assert.NoError(t, w.CheckExecutable())
	})
}

func TestCandidateExclusion(t *testing.T) {
	gw := newTestGateway()
	gw.enrolled = []Contact{{Phone: "+100"}}
	dir := &mockDirectory{contacts: []contacts.Contact{
		{ID: "c1", Name: "Ana", PhoneNumber: "+100"},
		{ID: "c2", Name: "Bruno", PhoneNumber: "+200"},
	}}
	w := NewWorkflow("bot-1", gw, dir, nil)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	got, err := w.Candidates(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "+200", got[0].PhoneNumber)
}

func TestCandidateSearch(t *testing.T) {
	gw := newTestGateway()
	dir := &mockDirectory{contacts: []contacts.Contact{
		{ID: "c1", Name: "Ana Silva", PhoneNumber: "+100"},
		{ID: "c2", Name: "Bruno", PhoneNumber: "+200"},
	}}
	w := NewWorkflow("bot-1", gw, dir, nil)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	got, err := w.Candidates(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	got, err = w.Candidates(context.Background(), "+200")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0].ID)
}

func TestAddContactsResolvesAndReloads(t *testing.T) {
	gw := newTestGateway()
	gw.campaign.Parameters = []ParameterOverride{
		{TemplateParamID: 100, AssignType: AssignFixedValue, AssignValue: "Hello"},
		{TemplateParamID: 101, AssignType: AssignContactField, AssignValue: "name"},
	}
	events := &capturedEvents{}
	w := NewWorkflow("bot-1", gw, &mockDirectory{}, nil, WithEventPublisher(events))
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	err = w.AddContacts(context.Background(), []contacts.Contact{
		{ID: "c1", Name: "Ana", PhoneNumber: "+100"},
	})
	require.NoError(t, err)

	require.Len(t, gw.added, 1)
	require.Len(t, gw.added[0], 1)
	assert.Equal(t, "+100", gw.added[0][0].PhoneNumber)
	assert.Equal(t, map[int]string{0: "Hello", 1: "Ana"}, gw.added[0][0].Params)

	// Read-your-writes: the detail was reloaded and now contains the contact.
	detail := w.Selected()
	require.NotNil(t, detail)
	require.Len(t, detail.Contacts, 1)
	assert.Equal(t, "+100", detail.Contacts[0].Phone)

	events.mu.Lock()
	defer events.mu.Unlock()
	require.NotEmpty(t, events.events)
	assert.Equal(t, EventContactsAdded, events.events[0].Type)
}

func TestAddContactsRemoteFailureLeavesStateUntouched(t *testing.T) {
	gw := newTestGateway()
	w := newTestWorkflow(t, gw)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	gw.addErr = errors.New("platform rejected batch")
	err = w.AddContacts(context.Background(), []contacts.Contact{{PhoneNumber: "+100"}})
	require.Error(t, err)

	detail := w.Selected()
	require.NotNil(t, detail)
	assert.Empty(t, detail.Contacts)
}

func TestExecuteHappyPath(t *testing.T) {
	gw := newTestGateway()
	gw.enrolled = []Contact{{Phone: "+100"}}
	gw.template.Parameters = nil
	gw.executeRes = &ExecuteResult{Message: "queued", TotalContacts: 1, CampaignStatus: StatusRunning}
	gw.queue = []notifications.QueueItem{{ID: 1, Status: notifications.QueuePending}}
	events := &capturedEvents{}
	w := NewWorkflow("bot-1", gw, &mockDirectory{}, nil, WithEventPublisher(events))
	require.NoError(t, w.Refresh(context.Background()))
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, w.RequestExecute())
	require.NotNil(t, w.PendingExecute())

	res, err := w.ConfirmExecute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, res.CampaignStatus)

	// Status comes from the authoritative response, on both the open
	// campaign and the list entry.
	assert.Equal(t, StatusRunning, w.Selected().Status)
	assert.Equal(t, StatusRunning, w.Campaigns()[0].Status)
	assert.Equal(t, SubViewQueue, w.SubView())
	assert.Len(t, w.Queue(), 1)
	assert.Nil(t, w.PendingExecute())
}

func TestExecuteFailureIsNotOptimistic(t *testing.T) {
	gw := newTestGateway()
	gw.enrolled = []Contact{{Phone: "+100"}}
	gw.template.Parameters = nil
	gw.executeErr = errors.New("provider outage")
	w := newTestWorkflow(t, gw)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, w.RequestExecute())
	_, err = w.ConfirmExecute(context.Background())
	require.Error(t, err)

	assert.Equal(t, StatusDraft, w.Selected().Status, "status must not advance")
	assert.Equal(t, SubViewCampaigns, w.SubView(), "must not switch to queue view")
}

func TestExecuteCancel(t *testing.T) {
	gw := newTestGateway()
	gw.enrolled = []Contact{{Phone: "+100"}}
	gw.template.Parameters = nil
	w := newTestWorkflow(t, gw)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, w.RequestExecute())
	w.CancelExecute()
	assert.Nil(t, w.PendingExecute())

	_, err = w.ConfirmExecute(context.Background())
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestDeleteTwoPhase(t *testing.T) {
	gw := newTestGateway()
	w := newTestWorkflow(t, gw)
	require.NoError(t, w.Refresh(context.Background()))
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, w.RequestDelete(1))
	require.NotNil(t, w.PendingDelete())
	require.NoError(t, w.ConfirmDelete(context.Background()))

	assert.Equal(t, []int64{1}, gw.deleted)
	assert.Empty(t, w.Campaigns())
	assert.Nil(t, w.Selected(), "deleting the open campaign returns to the list")
}

func TestDeleteFailureKeepsCampaign(t *testing.T) {
	gw := newTestGateway()
	gw.deleteErr = errors.New("conflict")
	w := newTestWorkflow(t, gw)
	require.NoError(t, w.Refresh(context.Background()))

	require.NoError(t, w.RequestDelete(1))
	require.Error(t, w.ConfirmDelete(context.Background()))
	assert.Len(t, w.Campaigns(), 1)
}

func TestCreateValidations(t *testing.T) {
	gw := newTestGateway()
	w := newTestWorkflow(t, gw)
	require.NoError(t, w.Refresh(context.Background()))

	_, err := w.Create(context.Background(), "  ", 10)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = w.Create(context.Background(), "promo", 11)
	assert.ErrorIs(t, err, ErrTemplateNotApproved)

	_, err = w.Create(context.Background(), "promo", 404)
	assert.ErrorIs(t, err, ErrTemplateNotApproved)
}

func TestCreateOpensNewCampaign(t *testing.T) {
	gw := newTestGateway()
	w := newTestWorkflow(t, gw)
	require.NoError(t, w.Refresh(context.Background()))

	detail, err := w.Create(context.Background(), "promo", 10)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, int64(99), detail.ID)
	assert.Equal(t, StatusDraft, detail.Status)
	assert.Len(t, w.Campaigns(), 2)
}

func TestSaveParameterMappingsSubmitsOnlyAssigned(t *testing.T) {
	gw := newTestGateway()
	w := newTestWorkflow(t, gw)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, w.SetParameterAssignment(100, AssignFixedValue, "Hello"))
	require.NoError(t, w.SaveParameterMappings(context.Background()))

	require.Len(t, gw.savedParams, 1)
	require.Len(t, gw.savedParams[0], 1)
	assert.Equal(t, int64(100), gw.savedParams[0][0].TemplateParamID)
	assert.Equal(t, "Hello", gw.savedParams[0][0].AssignValue)
}

func TestMutationsBlockedOnTerminalStatus(t *testing.T) {
	gw := newTestGateway()
	gw.campaign.Status = StatusCompleted
	w := newTestWorkflow(t, gw)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	assert.ErrorIs(t, w.AddContacts(context.Background(), []contacts.Contact{{PhoneNumber: "+1"}}), ErrNotEditable)
	assert.ErrorIs(t, w.SetParameterAssignment(100, AssignFixedValue, "x"), ErrNotEditable)
	assert.ErrorIs(t, w.SaveParameterMappings(context.Background()), ErrNotEditable)
}

func TestRefreshFailFast(t *testing.T) {
	gw := newTestGateway()
	gw.queueErr = errors.New("queue endpoint down")
	w := newTestWorkflow(t, gw)

	require.Error(t, w.Refresh(context.Background()))
	assert.Empty(t, w.Campaigns(), "failed refresh publishes nothing")
	assert.Empty(t, w.Templates())
}

func TestSyncTemplatesReloadsList(t *testing.T) {
	gw := newTestGateway()
	w := newTestWorkflow(t, gw)
	require.NoError(t, w.Refresh(context.Background()))

	gw.mu.Lock()
	gw.templates = append(gw.templates, Template{ID: 12, Name: "imported", Status: TemplateStatusApproved})
	gw.mu.Unlock()

	require.NoError(t, w.SyncTemplates(context.Background()))
	assert.Equal(t, 1, gw.syncCalls)
	assert.Len(t, w.Templates(), 3)
}

func TestUpdateTemplateDefaultsReopensSelection(t *testing.T) {
	gw := newTestGateway()
	w := newTestWorkflow(t, gw)
	_, err := w.Select(context.Background(), 1)
	require.NoError(t, err)

	params := []Parameter{{ID: 100, ParamIndex: 0, AssignType: AssignFixedValue, AssignValue: "Hi"}}
	require.NoError(t, w.UpdateTemplateDefaults(context.Background(), 10, params))

	assert.Equal(t, params, gw.savedDefaults[10])
	require.NotNil(t, w.Selected(), "selection survives a template default update")
}

// gatedTemplatesGateway blocks its first ListTemplates call until released,
// so a test can let a later refresh complete first.
type gatedTemplatesGateway struct {
	*mockGateway
	started chan struct{}
	release chan struct{}
	stale   []Template

	gateMu    sync.Mutex
	gateCalls int
}

func (g *gatedTemplatesGateway) ListTemplates(ctx context.Context, botID string) ([]Template, error) {
	g.gateMu.Lock()
	g.gateCalls++
	call := g.gateCalls
	g.gateMu.Unlock()
	if call == 1 {
		close(g.started)
		<-g.release
		return g.stale, nil
	}
	return g.mockGateway.ListTemplates(ctx, botID)
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	gw := &gatedTemplatesGateway{
		mockGateway: newTestGateway(),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
		stale:       []Template{{ID: 99, Name: "outdated", Status: TemplateStatusApproved}},
	}
	w := NewWorkflow("bot-1", gw, &mockDirectory{}, nil)

	done := make(chan error, 1)
	go func() { done <- w.Refresh(context.Background()) }()
	<-gw.started

	// A second refresh starts after the first and finishes before it.
	require.NoError(t, w.Refresh(context.Background()))
	require.Len(t, w.Templates(), 2)

	close(gw.release)
	require.NoError(t, <-done)

	assert.Len(t, w.Templates(), 2, "the superseded refresh must not overwrite the newer snapshot")
}

// gatedCampaignGateway blocks its first GetCampaign call until released.
type gatedCampaignGateway struct {
	*mockGateway
	started chan struct{}
	release chan struct{}

	gateMu    sync.Mutex
	gateCalls int
}

func (g *gatedCampaignGateway) GetCampaign(ctx context.Context, botID string, campaignID int64) (*Campaign, error) {
	g.gateMu.Lock()
	g.gateCalls++
	call := g.gateCalls
	g.gateMu.Unlock()
	if call == 1 {
		close(g.started)
		<-g.release
	}
	return g.mockGateway.GetCampaign(ctx, botID, campaignID)
}

func TestStaleSelectReturnsSuperseded(t *testing.T) {
	gw := &gatedCampaignGateway{
		mockGateway: newTestGateway(),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	w := NewWorkflow("bot-1", gw, &mockDirectory{}, nil)

	type loadResult struct {
		detail *Detail
		err    error
	}
	done := make(chan loadResult, 1)
	go func() {
		d, err := w.Select(context.Background(), 1)
		done <- loadResult{detail: d, err: err}
	}()
	<-gw.started

	fresh, err := w.Select(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, fresh)

	close(gw.release)
	stale := <-done
	assert.Nil(t, stale.detail)
	assert.ErrorIs(t, stale.err, ErrSuperseded)

	require.NotNil(t, w.Selected(), "the newer selection stays published")
}

func TestSubViewValidation(t *testing.T) {
	w := newTestWorkflow(t, newTestGateway())
	assert.Equal(t, SubViewCampaigns, w.SubView())
	require.NoError(t, w.SetSubView(SubViewQueue))
	assert.Equal(t, SubViewQueue, w.SubView())
	assert.Error(t, w.SetSubView(SubView("charts")))
}

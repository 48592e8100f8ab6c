package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/botfleet/console/internal/campaigns"
	"github.com/botfleet/console/internal/contacts"
	"github.com/botfleet/console/internal/notifications"
	"github.com/botfleet/console/internal/observability/metrics"
	"github.com/botfleet/console/pkg/logging"
)

// CampaignHandler exposes the campaign workflow over HTTP. One workflow
// instance exists per bot; it carries the bot's templates, campaign list,
// queue snapshot and the currently open campaign.
type CampaignHandler struct {
	gw         campaigns.Gateway
	directory  campaigns.ContactDirectory
	logger     *logging.Logger
	metrics    *metrics.CampaignMetrics
	events     campaigns.EventPublisher
	queueLimit int

	mu        sync.Mutex
	workflows map[string]*campaigns.Workflow
}

// NewCampaignHandler creates a campaign handler.
func NewCampaignHandler(gw campaigns.Gateway, directory campaigns.ContactDirectory, logger *logging.Logger, m *metrics.CampaignMetrics, events campaigns.EventPublisher, queueLimit int) *CampaignHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CampaignHandler{
		gw:         gw,
		directory:  directory,
		logger:     logger,
		metrics:    m,
		events:     events,
		queueLimit: queueLimit,
		workflows:  make(map[string]*campaigns.Workflow),
	}
}

func (h *CampaignHandler) workflow(botID string) *campaigns.Workflow {
	h.mu.Lock()
	defer h.mu.Unlock()
	if w, ok := h.workflows[botID]; ok {
		return w
	}
	opts := []campaigns.WorkflowOption{
		campaigns.WithCampaignMetrics(h.metrics),
	}
	if h.events != nil {
		opts = append(opts, campaigns.WithEventPublisher(h.events))
	}
	if h.queueLimit > 0 {
		opts = append(opts, campaigns.WithQueueLimit(h.queueLimit))
	}
	w := campaigns.NewWorkflow(botID, h.gw, h.directory, h.logger, opts...)
	h.workflows[botID] = w
	return w
}

func campaignID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "campaignID"), 10, 64)
	return id, err == nil && id > 0
}

// ensureSelected makes the workflow's open campaign the one addressed by the
// route, loading it if a different campaign (or none) is open.
func (h *CampaignHandler) ensureSelected(w *campaigns.Workflow, r *http.Request, id int64) error {
	if sel := w.Selected(); sel != nil && sel.ID == id {
		return nil
	}
	_, err := w.Select(r.Context(), id)
	return err
}

type overviewResponse struct {
	Templates []campaigns.Template      `json:"templates"`
	Campaigns []campaigns.Campaign      `json:"campaigns"`
	Queue     []notifications.QueueItem `json:"queue"`
	SubView   campaigns.SubView         `json:"sub_view"`
}

// Refresh reloads templates, campaigns and queue for the bot.
func (h *CampaignHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := wf.Refresh(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeOverview(w, wf)
}

// Overview returns the last loaded workflow state.
func (h *CampaignHandler) Overview(w http.ResponseWriter, r *http.Request) {
	h.writeOverview(w, h.workflow(chi.URLParam(r, "botID")))
}

func (h *CampaignHandler) writeOverview(w http.ResponseWriter, wf *campaigns.Workflow) {
	writeJSON(w, http.StatusOK, overviewResponse{
		Templates: wf.Templates(),
		Campaigns: wf.Campaigns(),
		Queue:     wf.Queue(),
		SubView:   wf.SubView(),
	})
}

// SetSubView switches the notifications pane.
func (h *CampaignHandler) SetSubView(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SubView campaigns.SubView `json:"sub_view"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := wf.SetSubView(body.SubView); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]campaigns.SubView{"sub_view": wf.SubView()})
}

// SyncTemplates re-imports provider templates and returns the refreshed
// overview.
func (h *CampaignHandler) SyncTemplates(w http.ResponseWriter, r *http.Request) {
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := wf.SyncTemplates(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeOverview(w, wf)
}

// SaveTemplateDefaults updates default parameter values on a template.
func (h *CampaignHandler) SaveTemplateDefaults(w http.ResponseWriter, r *http.Request) {
	templateID, err := strconv.ParseInt(chi.URLParam(r, "templateID"), 10, 64)
	if err != nil || templateID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}
	var body struct {
		Parameters []campaigns.Parameter `json:"parameters"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := wf.UpdateTemplateDefaults(r.Context(), templateID, body.Parameters); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]campaigns.Template{"templates": wf.Templates()})
}

// Create makes a new draft campaign and opens it.
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string `json:"name"`
		TemplateID int64  `json:"template_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	detail, err := wf.Create(r.Context(), body.Name, body.TemplateID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

type detailResponse struct {
	*campaigns.Detail
	Ready bool `json:"ready"`
}

// Open loads one campaign in full and returns it with its readiness flag.
func (h *CampaignHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	detail, err := wf.Select(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailResponse{Detail: detail, Ready: wf.Ready()})
}

// Rename updates the open campaign's name.
func (h *CampaignHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := h.ensureSelected(wf, r, id); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := wf.Rename(r.Context(), body.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf.Selected())
}

// Candidates lists bot contacts not yet enrolled in the campaign.
func (h *CampaignHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := h.ensureSelected(wf, r, id); err != nil {
		writeDomainError(w, err)
		return
	}
	list, err := wf.Candidates(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AddContacts enrolls the posted contacts with resolved parameter values.
func (h *CampaignHandler) AddContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	var body struct {
		Contacts []contacts.Contact `json:"contacts"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := h.ensureSelected(wf, r, id); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := wf.AddContacts(r.Context(), body.Contacts); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailResponse{Detail: wf.Selected(), Ready: wf.Ready()})
}

// SaveParameters applies the posted parameter assignments and persists them.
func (h *CampaignHandler) SaveParameters(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	var body struct {
		Parameters []campaigns.ParameterOverride `json:"parameters"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := h.ensureSelected(wf, r, id); err != nil {
		writeDomainError(w, err)
		return
	}
	for _, p := range body.Parameters {
		if err := wf.SetParameterAssignment(p.TemplateParamID, p.AssignType, p.AssignValue); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	if err := wf.SaveParameterMappings(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailResponse{Detail: wf.Selected(), Ready: wf.Ready()})
}

// RequestExecute validates and stages an execution.
func (h *CampaignHandler) RequestExecute(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := h.ensureSelected(wf, r, id); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := wf.RequestExecute(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf.PendingExecute())
}

// ConfirmExecute runs the staged execution.
func (h *CampaignHandler) ConfirmExecute(w http.ResponseWriter, r *http.Request) {
	wf := h.workflow(chi.URLParam(r, "botID"))
	res, err := wf.ConfirmExecute(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CancelExecute drops the staged execution.
func (h *CampaignHandler) CancelExecute(w http.ResponseWriter, r *http.Request) {
	h.workflow(chi.URLParam(r, "botID")).CancelExecute()
	w.WriteHeader(http.StatusNoContent)
}

// RequestDelete stages a campaign deletion.
func (h *CampaignHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := wf.RequestDelete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, wf.PendingDelete())
}

// ConfirmDelete deletes the staged campaign.
func (h *CampaignHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := wf.ConfirmDelete(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CancelDelete drops the staged deletion.
func (h *CampaignHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	h.workflow(chi.URLParam(r, "botID")).CancelDelete()
	w.WriteHeader(http.StatusNoContent)
}

// Queue refreshes and returns the delivery queue snapshot.
func (h *CampaignHandler) Queue(w http.ResponseWriter, r *http.Request) {
	wf := h.workflow(chi.URLParam(r, "botID"))
	if err := wf.RefreshQueue(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf.Queue())
}

package handler

import (
	"net/http"

	"realtyflow/internal/model"
	"realtyflow/internal/questionnaire"
	"realtyflow/internal/service"
	"realtyflow/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// WizardHandler handles questionnaire and wizard session endpoints
type WizardHandler struct {
	wizardSvc *service.WizardService
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(wizardSvc *service.WizardService) *WizardHandler {
	return &WizardHandler{wizardSvc: wizardSvc}
}

// QuestionnaireResponse describes a questionnaire to clients
type QuestionnaireResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Sections []model.Section `json:"sections,omitempty"`
}

// StartWizardRequest is the request body for starting a wizard
type StartWizardRequest struct {
	QuestionnaireID string `json:"questionnaireId"`
}

// ToggleRequest is the request body for toggling a multi-choice option
type ToggleRequest struct {
	Option string `json:"option"`
}

// ListQuestionnaires handles GET /v1/questionnaires
func (h *WizardHandler) ListQuestionnaires(w http.ResponseWriter, r *http.Request) {
	qs := h.wizardSvc.Questionnaires()
	resp := make([]QuestionnaireResponse, 0, len(qs))
	for _, q := range qs {
		resp = append(resp, QuestionnaireResponse{ID: q.ID, Title: q.Title})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetQuestionnaire handles GET /v1/questionnaires/{questionnaireId}
func (h *WizardHandler) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	q, err := h.wizardSvc.Questionnaire(mux.Vars(r)["questionnaireId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, describe(q))
}

func describe(q *questionnaire.Questionnaire) QuestionnaireResponse {
	return QuestionnaireResponse{ID: q.ID, Title: q.Title, Sections: q.Sections()}
}

// Start handles POST /v1/wizards
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartWizardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.wizardSvc.Start(r.Context(), middleware.GetAgentID(r.Context()), req.QuestionnaireID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// List handles GET /v1/wizards
func (h *WizardHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.wizardSvc.List(r.Context(), middleware.GetAgentID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Get handles GET /v1/wizards/{sessionId}
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Get(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// SetAnswer handles PUT /v1/wizards/{sessionId}/answers/{questionId}
func (h *WizardHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	var v model.Value
	if err := decodeBody(r, &v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vars := mux.Vars(r)
	view, err := h.wizardSvc.SetAnswer(r.Context(), middleware.GetAgentID(r.Context()), vars["sessionId"], vars["questionId"], v)
	h.respond(w, view, err)
}

// Toggle handles POST /v1/wizards/{sessionId}/answers/{questionId}/toggle
func (h *WizardHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeBody(r, &req); err != nil || req.Option == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vars := mux.Vars(r)
	view, err := h.wizardSvc.ToggleOption(r.Context(), middleware.GetAgentID(r.Context()), vars["sessionId"], vars["questionId"], req.Option)
	h.respond(w, view, err)
}

// Advance handles POST /v1/wizards/{sessionId}/next
func (h *WizardHandler) Advance(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Advance(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Retreat handles POST /v1/wizards/{sessionId}/back
func (h *WizardHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Retreat(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Save handles POST /v1/wizards/{sessionId}/save
func (h *WizardHandler) Save(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Save(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Restore handles POST /v1/wizards/{sessionId}/restore
func (h *WizardHandler) Restore(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Restore(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Reset handles POST /v1/wizards/{sessionId}/reset
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.wizardSvc.Reset(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Submit handles POST /v1/wizards/{sessionId}/submit
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sub, err := h.wizardSvc.Submit(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Submission handles GET /v1/wizards/{sessionId}/submission
func (h *WizardHandler) Submission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.wizardSvc.Submission(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Cancel handles DELETE /v1/wizards/{sessionId}
func (h *WizardHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.wizardSvc.Cancel(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["sessionId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WizardHandler) respond(w http.ResponseWriter, view *model.WizardView, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

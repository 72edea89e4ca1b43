package handler

import (
	"net/http"

	"realtyflow/internal/model"
	"realtyflow/internal/service"
	"realtyflow/internal/transport/rest/middleware"
)

// AutomationHandler handles the AI media tools and lead auto-responses
type AutomationHandler struct {
	automationSvc *service.AutomationService
}

// NewAutomationHandler creates a new automation handler
func NewAutomationHandler(automationSvc *service.AutomationService) *AutomationHandler {
	return &AutomationHandler{automationSvc: automationSvc}
}

type EnhanceRequest struct {
	File model.FileRef `json:"file"`
	Mode string        `json:"mode"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type AutoResponseRequest struct {
	LeadIDs []string `json:"leadIds"`
	Message string   `json:"message"`
}

// Enhance handles POST /v1/automation/enhance
func (h *AutomationHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if err := decodeBody(r, &req); err != nil || req.File.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res := h.automationSvc.EnhanceMedia(r.Context(), middleware.GetAgentID(r.Context()), req.File, req.Mode)
	writeResult(w, res)
}

// Generate handles POST /v1/automation/generate
func (h *AutomationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res := h.automationSvc.GenerateImage(r.Context(), middleware.GetAgentID(r.Context()), req.Prompt)
	writeResult(w, res)
}

// AutoRespond handles POST /v1/automation/auto-responses
func (h *AutomationHandler) AutoRespond(w http.ResponseWriter, r *http.Request) {
	var req AutoResponseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	results, err := h.automationSvc.SendAutoResponses(r.Context(), middleware.GetAgentID(r.Context()), req.LeadIDs, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// A failed action is still a completed request; the status is in the body
func writeResult(w http.ResponseWriter, res model.ActionResult) {
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

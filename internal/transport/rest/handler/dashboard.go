package handler

import (
	"net/http"

	"realtyflow/internal/listing"
	"realtyflow/internal/model"
	"realtyflow/internal/service"
	"realtyflow/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// DashboardHandler handles the lead, comment and post tables
type DashboardHandler struct {
	dashboardSvc *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardSvc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// BulkDeleteRequest is the request body for bulk deletes
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteResponse reports how many rows were deleted
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// LeadStatusRequest is the request body for changing a lead's status
type LeadStatusRequest struct {
	Status model.LeadStatus `json:"status"`
}

// ReplyRequest is the request body for replying to a comment
type ReplyRequest struct {
	Reply string `json:"reply"`
}

// CreatePostRequest is the request body for creating a post from a wizard
type CreatePostRequest struct {
	SessionID string `json:"sessionId"`
}

func parseQuery(w http.ResponseWriter, r *http.Request) (listing.Query, bool) {
	q, err := listing.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	return q, true
}

func (h *DashboardHandler) bulkDelete(w http.ResponseWriter, r *http.Request, del func(ownerID string, ids []string) (int64, error)) {
	var req BulkDeleteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	n, err := del(middleware.GetAgentID(r.Context()), req.IDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BulkDeleteResponse{Deleted: n})
}

// ListLeads handles GET /v1/leads
func (h *DashboardHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	page, err := h.dashboardSvc.ListLeads(r.Context(), middleware.GetAgentID(r.Context()), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetLead handles GET /v1/leads/{id}
func (h *DashboardHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.dashboardSvc.GetLead(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// UpdateLeadStatus handles PATCH /v1/leads/{id}/status
func (h *DashboardHandler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	var req LeadStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lead, err := h.dashboardSvc.UpdateLeadStatus(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// DeleteLead handles DELETE /v1/leads/{id}
func (h *DashboardHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardSvc.DeleteLead(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteLeads handles POST /v1/leads/bulk-delete
func (h *DashboardHandler) BulkDeleteLeads(w http.ResponseWriter, r *http.Request) {
	h.bulkDelete(w, r, func(ownerID string, ids []string) (int64, error) {
		return h.dashboardSvc.BulkDeleteLeads(r.Context(), ownerID, ids)
	})
}

// ListComments handles GET /v1/comments
func (h *DashboardHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	page, err := h.dashboardSvc.ListComments(r.Context(), middleware.GetAgentID(r.Context()), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetComment handles GET /v1/comments/{id}
func (h *DashboardHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.dashboardSvc.GetComment(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// ReplyToComment handles POST /v1/comments/{id}/reply
func (h *DashboardHandler) ReplyToComment(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	comment, err := h.dashboardSvc.ReplyToComment(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["id"], req.Reply)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /v1/comments/{id}
func (h *DashboardHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardSvc.DeleteComment(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteComments handles POST /v1/comments/bulk-delete
func (h *DashboardHandler) BulkDeleteComments(w http.ResponseWriter, r *http.Request) {
	h.bulkDelete(w, r, func(ownerID string, ids []string) (int64, error) {
		return h.dashboardSvc.BulkDeleteComments(r.Context(), ownerID, ids)
	})
}

// ListPosts handles GET /v1/posts
func (h *DashboardHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}
	page, err := h.dashboardSvc.ListPosts(r.Context(), middleware.GetAgentID(r.Context()), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetPost handles GET /v1/posts/{id}
func (h *DashboardHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.dashboardSvc.GetPost(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /v1/posts
func (h *DashboardHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decodeBody(r, &req); err != nil || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	post, err := h.dashboardSvc.CreatePostFromSubmission(r.Context(), middleware.GetAgentID(r.Context()), req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// DeletePost handles DELETE /v1/posts/{id}
func (h *DashboardHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboardSvc.DeletePost(r.Context(), middleware.GetAgentID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeletePosts handles POST /v1/posts/bulk-delete
func (h *DashboardHandler) BulkDeletePosts(w http.ResponseWriter, r *http.Request) {
	h.bulkDelete(w, r, func(ownerID string, ids []string) (int64, error) {
		return h.dashboardSvc.BulkDeletePosts(r.Context(), ownerID, ids)
	})
}

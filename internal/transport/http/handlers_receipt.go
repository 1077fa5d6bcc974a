package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitparty/backend/internal/apperr"
	"github.com/splitparty/backend/internal/middleware"
	"github.com/splitparty/backend/internal/service"
)

// ReceiptHandler wires receipt assignment and reporting endpoints.
type ReceiptHandler struct {
	receipts    *service.ReceiptService
	assignments *service.AssignmentService
}

// NewReceiptHandler constructs a receipt handler.
func NewReceiptHandler(receipts *service.ReceiptService, assignments *service.AssignmentService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts, assignments: assignments}
}

// Register mounts receipt endpoints. All of them require authentication.
func (h *ReceiptHandler) Register(r chi.Router) {
	r.Post("/receipts/{id}/assign", h.handleAssign)
	r.Post("/receipts/{id}/not-participating", h.handleNotParticipating)
	r.Get("/receipts/{id}/status", h.handleStatus)
	r.Get("/receipts/{id}/summary", h.handleSummary)
}

type assignRequest struct {
	ItemIDs []string `json:"item_ids"`
}

func (h *ReceiptHandler) handleAssign(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperr.ErrUnauthorized)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid request body"))
		return
	}

	if err := h.assignments.ReplaceClaims(r.Context(), chi.URLParam(r, "id"), userID, req.ItemIDs); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Assigned successfully"})
}

// handleNotParticipating is assign with an empty item list: it clears the
// caller's claims on the receipt.
func (h *ReceiptHandler) handleNotParticipating(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperr.ErrUnauthorized)
		return
	}

	if err := h.assignments.ReplaceClaims(r.Context(), chi.URLParam(r, "id"), userID, nil); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Assigned successfully"})
}

func (h *ReceiptHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperr.ErrUnauthorized)
		return
	}

	status, err := h.assignments.Status(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *ReceiptHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperr.ErrUnauthorized)
		return
	}

	summary, err := h.assignments.Summary(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

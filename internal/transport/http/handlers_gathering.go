package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/splitparty/backend/internal/apperr"
	"github.com/splitparty/backend/internal/middleware"
	"github.com/splitparty/backend/internal/service"
)

// GatheringHandler wires gathering and receipt-creation endpoints.
type GatheringHandler struct {
	gatherings *service.GatheringService
	receipts   *service.ReceiptService
}

// NewGatheringHandler constructs a gathering handler.
func NewGatheringHandler(gatherings *service.GatheringService, receipts *service.ReceiptService) *GatheringHandler {
	return &GatheringHandler{gatherings: gatherings, receipts: receipts}
}

// Register mounts gathering endpoints. All of them require authentication.
func (h *GatheringHandler) Register(r chi.Router) {
	r.Post("/gatherings", h.handleCreate)
	r.Post("/gatherings/{id}/join", h.handleJoin)
	r.Post("/gatherings/{id}/receipts", h.handleAddReceipt)
}

type createGatheringRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *GatheringHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperr.ErrUnauthorized)
		return
	}

	var req createGatheringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid request body"))
		return
	}

	gathering, err := h.gatherings.Create(r.Context(), req.Name, req.Description, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, gatheringResponse{
		ID:          gathering.ID,
		Name:        gathering.Name,
		Description: gathering.Description,
		OwnerID:     gathering.OwnerID,
	})
}

func (h *GatheringHandler) handleJoin(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperr.ErrUnauthorized)
		return
	}

	if err := h.gatherings.Join(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Joined successfully"})
}

type addReceiptItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type addReceiptRequest struct {
	Name     string           `json:"name"`
	Currency string           `json:"currency"`
	Items    []addReceiptItem `json:"items"`
}

func (h *GatheringHandler) handleAddReceipt(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, apperr.ErrUnauthorized)
		return
	}

	var req addReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid request body"))
		return
	}

	items := make([]service.NewItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.NewItem{Name: item.Name, Price: item.Price}
	}

	receipt, err := h.receipts.AddReceipt(r.Context(), chi.URLParam(r, "id"), userID, req.Name, req.Currency, items)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReceiptResponse(receipt))
}

package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/splitparty/backend/internal/apperr"
	"github.com/splitparty/backend/internal/models"
	"github.com/splitparty/backend/internal/service"
)

// userResponse is the public shape of an account.
type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Verified bool   `json:"verified"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Verified: u.Verified,
	}
}

// gatheringResponse is the public shape of a gathering.
type gatheringResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

// receiptItemResponse is the public shape of a line item.
type receiptItemResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// receiptResponse is the public shape of a receipt with its items.
type receiptResponse struct {
	ID          string                `json:"id"`
	GatheringID string                `json:"gathering_id"`
	Name        string                `json:"name"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Currency    string                `json:"currency"`
	CreatedBy   string                `json:"created_by"`
	Items       []receiptItemResponse `json:"items"`
}

func toReceiptResponse(r *models.Receipt) receiptResponse {
	items := make([]receiptItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = receiptItemResponse{ID: item.ID, Name: item.Name, Price: item.Price}
	}
	return receiptResponse{
		ID:          r.ID,
		GatheringID: r.GatheringID,
		Name:        r.Name,
		TotalAmount: r.TotalAmount,
		Currency:    r.Currency,
		CreatedBy:   r.CreatedBy,
		Items:       items,
	}
}

// summaryUserResponse is one participant's entry in a receipt summary.
type summaryUserResponse struct {
	UserID    string          `json:"user_id"`
	Nickname  string          `json:"nickname"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// summaryResponse is the full receipt summary.
type summaryResponse struct {
	Items           []receiptItemResponse `json:"items"`
	TotalPaidByUser []summaryUserResponse `json:"total_paid_by_user"`
}

func toSummaryResponse(s *service.Summary) summaryResponse {
	items := make([]receiptItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = receiptItemResponse{ID: item.ID, Name: item.Name, Price: item.Price}
	}
	users := make([]summaryUserResponse, len(s.PerUserTotals))
	for i, u := range s.PerUserTotals {
		users[i] = summaryUserResponse{UserID: u.UserID, Nickname: u.Nickname, TotalPaid: u.TotalPaid}
	}
	return summaryResponse{Items: items, TotalPaidByUser: users}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes domain error translation to HTTP responses so every
// handler produces the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var invalidItem *apperr.InvalidItemError
	var validation *apperr.ValidationError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, apperr.ErrAlreadyMember):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, service.ErrNotVerified):
		status = http.StatusForbidden
		message = err.Error()
	case errors.As(err, &invalidItem):
		status = http.StatusBadRequest
		message = invalidItem.Error()
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		message = validation.Message
	default:
		slog.Error("internal error", "error", err)
	}

	writeJSON(w, status, map[string]string{"error": message})
}

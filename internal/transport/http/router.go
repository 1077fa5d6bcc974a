// Package httptransport is the thin HTTP layer. Handlers delegate to the
// domain services without embedding business logic so transport concerns
// stay isolated.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitparty/backend/internal/auth"
	"github.com/splitparty/backend/internal/middleware"
	"github.com/splitparty/backend/internal/service"
)

// NewRouter wires all endpoints. Account endpoints are public; everything
// touching gatherings and receipts sits behind the JWT middleware, which is
// the sole source of the caller's identity.
func NewRouter(
	jwtManager *auth.JWTManager,
	authSvc *service.AuthService,
	gatheringSvc *service.GatheringService,
	receiptSvc *service.ReceiptService,
	assignmentSvc *service.AssignmentService,
) http.Handler {
	authHandler := NewAuthHandler(authSvc)
	gatheringHandler := NewGatheringHandler(gatheringSvc, receiptSvc)
	receiptHandler := NewReceiptHandler(receiptSvc, assignmentSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogging)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authHandler.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager))
		authHandler.RegisterAuthenticated(r)
		gatheringHandler.Register(r)
		receiptHandler.Register(r)
	})

	return r
}

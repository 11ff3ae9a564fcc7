package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"onboard/internal/journal"
	"onboard/internal/session"
	"onboard/pkg/platform/httputil"
)

// NewRouter wires the presentation-layer contract onto chi. Handlers stay
// thin: decode, delegate to the session's orchestrator, translate errors.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Tracing)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleSnapshot)
			r.Delete("/", h.handleEndSession)
			r.Get("/journal", h.handleJournal)

			r.Post("/phone", h.handleSubmitPhone)
			r.Post("/otp", h.handleSubmitOTP)
			r.Post("/otp/resend", h.handleResend)
			r.Post("/verification/channel", h.handleChooseChannel)
			r.Post("/verification/consent", h.handleConsent)
			r.Post("/verification/cancel", h.handleCancel)
			r.Post("/details/confirm", h.handleConfirmDetails)
			r.Post("/terms", h.handleAcceptTerms)
			r.Post("/profile", h.handleSubmitProfile)
			r.Post("/restart", h.handleRestart)
		})
	})

	return r
}

// Handler is the thin HTTP layer over the session registry. Business logic
// lives in the orchestrator; transport concerns stay here.
type Handler struct {
	registry *session.Registry
	journal  journal.Store
	logger   *slog.Logger
}

func NewHandler(registry *session.Registry, journalStore journal.Store, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		journal:  journalStore,
		logger:   logger,
	}
}

// withSession resolves the session path parameter, writing the error response
// itself when the session is unknown.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return sess, true
}

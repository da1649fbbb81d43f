package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"taobao-orders/backend/internal/config"
	"taobao-orders/backend/internal/dateformat"
	"taobao-orders/backend/internal/domain/orders"
	"taobao-orders/backend/internal/domain/signin"
	"taobao-orders/backend/internal/middleware"
)

type RouterDeps struct {
	Cfg       config.Config
	Logger    zerolog.Logger
	Verifier  middleware.TokenVerifier
	SignInSvc *signin.Service
	OrdersSvc *orders.Service
	// Exporter is nil when no bucket is configured.
	Exporter  *orders.Exporter
	Formatter *dateformat.Formatter
	// KeepAlive is the SSE comment interval; zero uses 25s.
	KeepAlive time.Duration
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Formatter == nil {
		d.Formatter = dateformat.Default
	}
	if d.KeepAlive <= 0 {
		d.KeepAlive = 25 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	auth := &authHandlers{svc: d.SignInSvc}
	oh := &orderHandlers{
		svc:       d.OrdersSvc,
		exporter:  d.Exporter,
		formatter: d.Formatter,
		keepAlive: d.KeepAlive,
	}

	// The browser completes the Google popup and posts the resulting ID token.
	r.Post("/v1/auth/google", auth.signInWithGoogle)

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.Verifier))

		pr.Get("/v1/me", auth.me)
		pr.Post("/v1/auth/sign-out", auth.signOut)

		pr.Get("/v1/orders", oh.list)
		pr.Get("/v1/orders/user-ids", oh.userIDs)
		pr.Get("/v1/orders/stream", oh.stream)
		pr.Put("/v1/orders/{userId}/items/{orderId}/manual-price", oh.updateManualPrice)

		if d.Exporter != nil {
			pr.With(middleware.RequireRole(d.Cfg.PriceOverrideRole)).
				Post("/v1/orders/{userId}/export", oh.export)
		}
	})

	return r
}

func mapSignInError(err error) (int, string) {
	switch {
	case signin.IsErrBadRequest(err):
		return 400, err.Error()
	case signin.IsErrUnauthorized(err):
		return 401, err.Error()
	case signin.IsErrProviderNotAllowed(err):
		return 403, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapOrdersError(err error) (int, string) {
	switch {
	case orders.IsErrBadRequest(err):
		return 400, err.Error()
	case orders.IsErrUnauthorized(err):
		return 401, err.Error()
	case orders.IsErrForbidden(err):
		return 403, err.Error()
	case orders.IsErrNotFound(err):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}

// Package api wires the SubTranslate guard HTTP surface: CSRF token
// issuance and verification, the request gate that protects every
// state-changing API route, session authentication and the projects
// endpoints behind it.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/subtranslate/guard/config"
	"github.com/subtranslate/guard/csrf"
	"github.com/subtranslate/guard/project"
	"github.com/subtranslate/guard/ratelimit"
)

type API struct {
	router   chi.Router
	server   *http.Server
	cfg      *config.Config
	logger   *zap.SugaredLogger
	issuer   *csrf.Issuer
	cookies  *csrf.CookieCodec
	limiter  ratelimit.Limiter
	projects project.Store
}

func NewAPI(cfg *config.Config, logger *zap.SugaredLogger, limiter ratelimit.Limiter, projects project.Store) *API {
	a := &API{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		issuer: csrf.NewIssuer(csrf.IssuerConfig{
			TTL: cfg.CSRFTokenTTL,
		}),
		cookies:  csrf.NewCookieCodec(cfg.CSRFSecret, cfg.SecureCookies),
		limiter:  limiter,
		projects: projects,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(a.requestID)
	a.router.Use(a.requestLogger)
	a.router.Use(a.securityHeaders)

	a.router.Get("/health", a.handleHealth)
	a.router.Handle("/metrics", promhttp.Handler())

	a.router.Route("/api", func(r chi.Router) {
		r.Use(a.csrfGate)

		r.With(a.rateLimit).Get("/csrf", a.handleIssueToken)
		r.With(a.rateLimit).Post("/csrf/verify", a.handleVerifyToken)

		r.Route("/projects", func(pr chi.Router) {
			pr.Use(a.jwtAuth)
			pr.Post("/", a.handleCreateProject)
			pr.Get("/", a.handleListProjects)
			pr.Get("/{id}", a.handleGetProject)
			pr.Put("/{id}", a.handleUpdateProject)
			pr.Delete("/{id}", a.handleDeleteProject)
		})
	})
}

// Handler exposes the router, mainly for tests.
func (a *API) Handler() http.Handler {
	return a.router
}

func (a *API) Start(addr string) error {
	a.server = &http.Server{
		Addr:    addr,
		Handler: a.router,
	}
	return a.server.ListenAndServe()
}

func (a *API) Stop(ctx context.Context) error {
	if a.server != nil {
		return a.server.Shutdown(ctx)
	}
	return nil
}

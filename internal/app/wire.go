package app

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/propcodes/platform/internal/auth"
	"github.com/propcodes/platform/internal/guard"
	"github.com/propcodes/platform/internal/handler"
	adminhandler "github.com/propcodes/platform/internal/handler/admin"
	"github.com/propcodes/platform/internal/infra"
	"github.com/propcodes/platform/internal/repository"
	"github.com/propcodes/platform/internal/service"
)

// DB is the database handle the router needs: transactions plus a ping for /health.
// *repository.PgDatabase satisfies it.
type DB interface {
	repository.Database
	Ping(ctx context.Context) error
}

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	DB     DB
	JWTMgr *auth.JWTManager
	Logger *slog.Logger
	// Metrics is optional; nil disables /metrics and request instrumentation.
	Metrics *infra.Metrics

	CORSAllowedOrigins string
	SecureCookie       bool

	// Per-IP limits; a non-positive rate disables the limiter. The vote
	// settings also govern analytics events, with a separate bucket.
	VoteRateLimit  float64
	VoteRateBurst  int
	LoginRateLimit float64
	LoginRateBurst int
}

// RouterDepsFromConfig fills the config-derived fields of RouterDeps.
func RouterDepsFromConfig(cfg *infra.Config) RouterDeps {
	return RouterDeps{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookie:       cfg.IsProduction(),
		VoteRateLimit:      cfg.VoteRateLimit,
		VoteRateBurst:      cfg.VoteRateBurst,
		LoginRateLimit:     cfg.LoginRateLimit,
		LoginRateBurst:     cfg.LoginRateBurst,
	}
}

func newLimiter(name string, rps float64, burst int) *guard.RateLimiter {
	if rps <= 0 {
		return nil
	}
	return guard.NewRateLimiter(name, rps, burst)
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	db := deps.DB
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	var recorder service.Recorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}

	// Repositories
	adminRepo := repository.NewPgAdminUserRepository()
	dealRepo := repository.NewDealRepository()
	voteRepo := repository.NewVoteRepository()
	analyticsRepo := repository.NewAnalyticsRepository()
	bookRepo := repository.NewBookRepository()
	newsletterRepo := repository.NewNewsletterRepository()
	outboxRepo := repository.NewOutboxRepository()
	attemptRepo := repository.NewLoginAttemptRepository()

	// Guards
	lockout := guard.NewLockout(db, attemptRepo, logger)
	voteLimiter := newLimiter("votes", deps.VoteRateLimit, deps.VoteRateBurst)
	analyticsLimiter := newLimiter("analytics", deps.VoteRateLimit, deps.VoteRateBurst)
	loginLimiter := newLimiter("admin_login", deps.LoginRateLimit, deps.LoginRateBurst)

	// Services
	authSvc := service.NewAuthService(db, adminRepo, jwtMgr, lockout, recorder, logger)
	dealSvc := service.NewDealService(db, dealRepo, logger)
	voteSvc := service.NewVoteService(db, dealRepo, voteRepo, outboxRepo, recorder)
	analyticsSvc := service.NewAnalyticsService(db, analyticsRepo, outboxRepo, recorder)
	bookSvc := service.NewBookService(db, bookRepo, logger)
	newsletterSvc := service.NewNewsletterService(db, newsletterRepo, logger)
	contactSvc := service.NewContactService(logger)

	// Handlers
	voteHandler := handler.NewVoteHandler(voteSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	dealHandler := handler.NewDealHandler(dealSvc)
	newsletterHandler := handler.NewNewsletterHandler(newsletterSvc)

	// Admin handlers
	authAdmin := adminhandler.NewAuthHandler(authSvc, deps.SecureCookie)
	dealAdmin := adminhandler.NewDealAdminHandler(dealSvc)
	bookAdmin := adminhandler.NewBookAdminHandler(bookSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	if deps.Metrics != nil {
		r.Use(handler.Metrics(deps.Metrics))
	}
	r.Use(handler.CORSWithOrigins(deps.CORSAllowedOrigins))

	// Prometheus exposition is text, not JSON.
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(handler.JSONContentType)

		// Health (no auth)
		r.Get("/health", handler.HealthHandler(func(ctx context.Context) error {
			return infra.HealthCheck(ctx, db)
		}, logger))

		// Public catalogue
		r.Get("/deals", dealHandler.List)
		r.Get("/deals/{slug}", dealHandler.Get)
		r.Get("/books", handler.ListBooks(bookSvc))

		// Anonymous feedback
		r.Get("/votes", voteHandler.List)
		r.With(handler.RateLimit(voteLimiter)).Post("/votes", voteHandler.Submit)
		r.Get("/analytics", analyticsHandler.Stats)
		r.With(handler.RateLimit(analyticsLimiter)).Post("/analytics", analyticsHandler.Record)

		r.Post("/newsletter", newsletterHandler.Subscribe)
		r.Post("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)
		r.Post("/contact", handler.SubmitContact(contactSvc))

		r.Route("/admin", func(r chi.Router) {
			// Session endpoints (no auth)
			r.With(handler.RateLimit(loginLimiter)).Post("/login", authAdmin.Login)
			r.Post("/logout", authAdmin.Logout)
			r.Get("/check", authAdmin.Check)

			// Admin-authenticated routes
			r.Group(func(r chi.Router) {
				r.Use(auth.AuthenticateAdmin(jwtMgr))

				r.Post("/update-password", authAdmin.UpdatePassword)
				r.Get("/deals", dealAdmin.List)
				r.Get("/books", bookAdmin.List)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(auth.WriteRoles()...))

					r.Post("/deals", dealAdmin.Create)
					r.Put("/deals", dealAdmin.Update)
					r.Delete("/deals", dealAdmin.Delete)

					r.Post("/books", bookAdmin.Create)
					r.Delete("/books", bookAdmin.Delete)
				})
			})
		})
	})

	return r
}

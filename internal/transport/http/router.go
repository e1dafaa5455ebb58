package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tasktrack-api/internal/application/auth"
	"github.com/tasktrack-api/internal/application/category"
	"github.com/tasktrack-api/internal/application/feature"
	"github.com/tasktrack-api/internal/application/project"
	"github.com/tasktrack-api/internal/application/task"
	"github.com/tasktrack-api/internal/application/ticket"
	"github.com/tasktrack-api/internal/application/user"
	"github.com/tasktrack-api/internal/config"
	"github.com/tasktrack-api/internal/transport/http/handler"
	appmiddleware "github.com/tasktrack-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handler.ExposeInternalErrors = !cfg.IsProduction()

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:   deps.UserRepo,
		Mailer:     deps.Mailer,
		Tokens:     deps.JWTProvider,
		HMACSecret: cfg.HMACCodeSecret,
		CodeExpiry: cfg.CodeExpiry,
		Logger:     log,
	})
	userSvc := user.NewService(deps.UserRepo)
	categorySvc := category.NewService(deps.CategoryRepo)
	projectSvc := project.NewService(deps.ProjectRepo)
	taskSvc := task.NewService(deps.TaskRepo)
	ticketSvc := ticket.NewService(deps.TicketRepo, deps.S3Store)
	featureSvc := feature.NewService(deps.FeatureRepo)

	healthH := handler.NewHealthHandler()
	csrfH := handler.NewCSRFHandler(cfg.IsProduction())
	authH := handler.NewAuthHandler(authSvc, cfg.TokenExpiry, cfg.IsProduction())
	userH := handler.NewUserHandler(userSvc)
	categoryH := handler.NewCategoryHandler(categorySvc)
	projectH := handler.NewProjectHandler(projectSvc)
	taskH := handler.NewTaskHandler(taskSvc)
	ticketH := handler.NewTicketHandler(ticketSvc)
	featureH := handler.NewFeatureHandler(featureSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health", healthH.Check)
		r.Get("/csrf-token", csrfH.Token)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Patch("/auth/send-verification-code", authH.SendVerificationCode)
		r.With(sensitiveRL.Limit).Patch("/auth/verify-verification-code", authH.VerifyVerificationCode)
		r.With(sensitiveRL.Limit).Patch("/auth/send-forgot-password-code", authH.SendForgotPasswordCode)
		r.With(sensitiveRL.Limit).Patch("/auth/verify-forgot-password-code", authH.VerifyForgotPasswordCode)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)
			r.Get("/auth/current-user", authH.CurrentUser)
			r.Patch("/auth/change-password", authH.ChangePassword)

			r.Get("/categories", categoryH.List)
			r.Post("/categories", categoryH.Create)
			r.Get("/categories/{id}", categoryH.Get)
			r.Put("/categories/{id}", categoryH.Update)
			r.Delete("/categories/{id}", categoryH.Delete)

			r.Get("/projects", projectH.List)
			r.Post("/projects", projectH.Create)
			r.Get("/projects/{id}", projectH.Get)
			r.Put("/projects/{id}", projectH.Update)
			r.Delete("/projects/{id}", projectH.Delete)

			r.Get("/tasks", taskH.List)
			r.Post("/tasks", taskH.Create)
			r.Get("/tasks/{id}", taskH.Get)
			r.Put("/tasks/{id}", taskH.Update)
			r.Delete("/tasks/{id}", taskH.Delete)
			r.Get("/dashboard/tasks", taskH.Summary)

			r.Get("/tickets", ticketH.List)
			r.Post("/tickets", ticketH.Create)
			r.Get("/tickets/{id}", ticketH.Get)
			r.Put("/tickets/{id}", ticketH.Update)
			r.Delete("/tickets/{id}", ticketH.Delete)
			r.Post("/tickets/{id}/attachment", ticketH.UploadAttachment)
			r.Get("/tickets/{id}/attachment", ticketH.DownloadAttachment)
			r.Delete("/tickets/{id}/attachment", ticketH.DeleteAttachment)

			r.Get("/features", featureH.List)
			r.Post("/features", featureH.Create)
			r.Get("/features/{id}", featureH.Get)
			r.Put("/features/{id}", featureH.Update)
			r.Post("/features/{id}/vote", featureH.Vote)
			r.Delete("/features/{id}", featureH.Delete)

			// Admin-only routes. RequireAdmin re-reads the user record so a
			// demoted admin loses access before their token expires.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireAdmin(deps.UserRepo))

				r.Get("/users", userH.List)
				r.Get("/users/{id}", userH.Get)
				r.Delete("/users/{id}", userH.Delete)
			})
		})
	})

	return r
}

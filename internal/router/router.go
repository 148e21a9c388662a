package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studytrack-backend/internal/handlers"
	"studytrack-backend/internal/middleware"
	"studytrack-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	practiceHandler *handlers.PracticeHandler,
	goalHandler *handlers.GoalHandler,
	studySessionHandler *handlers.StudySessionHandler,
	dashboardHandler *handlers.DashboardHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Get("/health", healthHandler.Get)

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			// ──── Catalog Routes ────
			r.Get("/subjects", catalogHandler.ListSubjects)
			r.Get("/subjects/{id}/topics", catalogHandler.ListTopics)
			r.Get("/topics/{id}/notes", catalogHandler.ListNotes)
			r.Get("/topics/{id}/questions", catalogHandler.ListQuestions)

			// ──── Practice Routes ────
			r.Post("/topics/{id}/practice", practiceHandler.Start)
			r.Route("/practice", func(r chi.Router) {
				r.Get("/results", practiceHandler.Results)
				r.Get("/{id}", practiceHandler.Get)
				r.Delete("/{id}", practiceHandler.Leave)
				r.Post("/{id}/select", practiceHandler.Select)
				r.Post("/{id}/submit", practiceHandler.Submit)
				r.Post("/{id}/advance", practiceHandler.Advance)
				r.Post("/{id}/reset", practiceHandler.Reset)
			})

			// ──── Goal Routes ────
			r.Route("/goals", func(r chi.Router) {
				r.Get("/", goalHandler.List)
				r.Post("/", goalHandler.Create)
				r.Put("/{id}", goalHandler.Update)
				r.Put("/{id}/status", goalHandler.UpdateStatus)
				r.Delete("/{id}", goalHandler.Delete)
			})

			// ──── Study Session Routes ────
			r.Route("/study-sessions", func(r chi.Router) {
				r.Get("/", studySessionHandler.List)
				r.Get("/active", studySessionHandler.Active)
				r.Get("/overview", studySessionHandler.Overview)
				r.Post("/start", studySessionHandler.Start)
				r.Post("/{id}/end", studySessionHandler.End)
			})

			// ──── Dashboard Routes ────
			r.Get("/dashboard", dashboardHandler.Get)

			// ──── User & Settings Routes ────
			r.Route("/user", func(r chi.Router) {
				r.Get("/me", userHandler.GetMe)
				r.Put("/me", userHandler.UpdateMe)
				r.Put("/password", userHandler.ChangePassword)
				r.Delete("/me", userHandler.DeleteMe)
				r.Get("/settings", userHandler.GetSettings)
				r.Put("/settings", userHandler.UpdateSettings)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}

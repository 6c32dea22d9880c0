package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/campmatch/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Services Services
	Resetter Resetter
	Health   HealthChecker

	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRF              middleware.CSRFConfig

	// MetricsHandler が設定されている場合は /metrics で公開する。
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → CSRF → (Session) → (RateLimit)
//
// セッションが必要なルートはグループにまとめ、ログイン前の401はSessionMiddlewareが返す。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRF))

	appHandler := NewAppHandler(deps.Services, deps.Resetter, deps.Health)
	authHandler := NewAuthHandler(deps.Services)
	profileHandler := NewProfileHandler(deps.Services)
	threadHandler := NewThreadHandler(deps.Services)
	eventHandler := NewEventHandler(deps.Services)

	r.Get("/health", appHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- ログイン不要のルート ---
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRF))
	r.Get("/api/campsites", appHandler.ListCampsites)
	r.Get("/api/theme", appHandler.GetTheme)
	r.Post("/api/theme/toggle", appHandler.ToggleTheme)
	r.Post("/api/reset", appHandler.Reset)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.AuthMiddleware())
			}
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
		})
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)
	})

	// --- ログインが必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(sessionSource{deps.Services}))

		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", profileHandler.GetProfile)
			r.Put("/", profileHandler.UpdateProfile)
			r.Post("/locate", profileHandler.Locate)

			r.Get("/favorites", profileHandler.ListFavorites)
			r.Post("/favorites", profileHandler.AddFavorite)
			r.Delete("/favorites/{index}", profileHandler.RemoveFavorite)
		})

		r.Get("/api/suggestions", profileHandler.Suggestions)

		r.Route("/api/threads", func(r chi.Router) {
			r.Get("/", threadHandler.ListThreads)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", threadHandler.GetThread)
				r.Post("/messages", threadHandler.SendMessage)
				r.Delete("/pending", threadHandler.AbandonThread)
			})
		})

		r.Route("/api/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.Post("/", eventHandler.CreateEvent)
			r.Get("/draft", eventHandler.Draft)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", eventHandler.DeleteEvent)
				r.Post("/visibility", eventHandler.ToggleVisibility)
			})
		})
	})

	return r
}

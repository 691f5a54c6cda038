package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/safety-quiz/internal/auth"
	"github.com/mind-engage/safety-quiz/internal/pipeline"
	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/rbac"
	"github.com/mind-engage/safety-quiz/internal/results"
	"github.com/mind-engage/safety-quiz/internal/storage"
)

type Deps struct {
	Auth         *auth.AuthService
	Directory    *auth.Directory
	Banks        BankSource
	Sessions     quiz.Store
	Pipeline     *pipeline.Pipeline
	Artifacts    storage.BlobStore
	Results      results.Sink
	DefaultCount int
	CORSOrigins  []string
	Timeout      time.Duration
}

func NewRouter(d Deps) http.Handler {
	if d.Timeout <= 0 {
		d.Timeout = 60 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(d.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Directory))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.RequireAny(rbac.PermBanksView, rbac.PermQuizPrepare)).
			Get("/banks", ListBanksHandler(d.Banks))
		pr.With(rbac.RequireAny(rbac.PermBanksView, rbac.PermQuizPrepare)).
			Get("/banks/{bankID}/topics", BankTopicsHandler(d.Banks))

		pr.With(rbac.Require(rbac.PermQuizPrepare)).
			Post("/sessions", CreateSessionHandler(d.Sessions, d.Banks, d.DefaultCount))
		pr.With(rbac.Require(rbac.PermQuizPrepare)).
			Post("/sessions/{id}/prepare", PrepareSessionHandler(d.Sessions, d.Banks, d.DefaultCount))
		pr.With(rbac.Require(rbac.PermQuizAnswer)).
			Get("/sessions/{id}", GetSessionHandler(d.Sessions))
		pr.With(rbac.Require(rbac.PermQuizPrepare)).
			Delete("/sessions/{id}", DeleteSessionHandler(d.Sessions))
		pr.With(rbac.Require(rbac.PermQuizAnswer)).
			Put("/sessions/{id}/answers", AnswerHandler(d.Sessions))
		pr.With(rbac.Require(rbac.PermQuizCorrect)).
			Post("/sessions/{id}/correct", CorrectHandler(d.Sessions, d.Pipeline))

		pr.With(rbac.Require(rbac.PermArtifactDownload)).
			Get("/sessions/{id}/artifacts", ListArtifactsHandler(d.Sessions, d.Artifacts))
		pr.With(rbac.Require(rbac.PermArtifactDownload)).
			Get("/sessions/{id}/artifacts/{name}", DownloadArtifactHandler(d.Sessions, d.Artifacts))

		pr.With(rbac.Require(rbac.PermResultsList)).
			Get("/results", ListResultsHandler(d.Results))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := d.Banks.List(); err != nil {
			http.Error(w, "banks unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})
	return r
}

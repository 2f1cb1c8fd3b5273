package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/icasuniversity/portal-backend/internal/api/handlers"
	"github.com/icasuniversity/portal-backend/internal/api/middleware"
	"github.com/icasuniversity/portal-backend/internal/config"
	"github.com/icasuniversity/portal-backend/internal/llm"
	"github.com/icasuniversity/portal-backend/internal/summarize"
	"github.com/icasuniversity/portal-backend/internal/transcribe"
)

type Router struct {
	mux *chi.Mux
	cfg *config.Config
}

func NewRouter(cfg *config.Config) *Router {
	return &Router{mux: chi.NewRouter(), cfg: cfg}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", handlers.FilenameHeader},
		MaxAge:         3600,
	}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.cfg.Server.PingMessage, rt.cfg.STT.APIKey != "", rt.cfg.LLM.APIKey != "")
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Outbound provider clients. A missing credential leaves the client
	// nil; the affected endpoints then fail per request, not at startup.
	var chat llm.ChatCompleter
	if rt.cfg.LLM.APIKey != "" {
		chat = llm.NewOpenRouterClient(llm.Config{
			APIKey:  rt.cfg.LLM.APIKey,
			BaseURL: rt.cfg.LLM.BaseURL,
			Referer: rt.cfg.LLM.Referer,
			Title:   rt.cfg.LLM.Title,
		})
	}

	stt := transcribe.NewClient(transcribe.Config{
		APIKey:   rt.cfg.STT.APIKey,
		BaseURL:  rt.cfg.STT.BaseURL,
		Model:    rt.cfg.STT.Model,
		Language: rt.cfg.STT.Language,
	})

	summarizer := summarize.New(chat, summarize.Config{
		Models:         rt.cfg.LLM.Models,
		Temperature:    float32(rt.cfg.LLM.Temperature),
		MaxTokens:      rt.cfg.LLM.MaxTokens,
		AttemptTimeout: rt.cfg.LLM.AttemptTimeout,
	})

	delegateH := handlers.NewDelegateHandler(stt, summarizer, rt.cfg.Upload.MaxBytes)
	transferH := handlers.NewTransferHandler(chat)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", health.Ping)
		r.Post("/transfer/assistant", transferH.Assist)
		r.Post("/delegate/summary", delegateH.Summary)
	})

	return r
}

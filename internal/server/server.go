package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/vitormoschetta/go-pharmacy-assistant/internal/completion"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/config"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/datastore"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/knowledge"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/service"
)

// Assistant é o que os handlers HTTP e o MCP precisam do serviço
type Assistant interface {
	Ask(ctx context.Context, message string) (string, error)
	KnowledgeBase(ctx context.Context) string
}

// Server representa o servidor HTTP com todas as dependências
type Server struct {
	Assistant      Assistant
	Logger         *logrus.Entry
	Addr           string
	RequestTimeout time.Duration
	RedactErrors   bool
	Router         chi.Router
}

// NewServer cria os clientes (Supabase e Gemini) uma única vez e monta o
// Assistant compartilhado por todas as requisições
func NewServer(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (*Server, error) {
	assistant, err := NewAssistant(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(cfg, assistant, logger), nil
}

// NewAssistant conecta datastore, base de conhecimento e modelo
func NewAssistant(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (*service.Assistant, error) {
	store := datastore.NewClient(cfg.Datastore.URL, cfg.Datastore.Key, cfg.Datastore.Timeout,
		logger.WithField("component", "datastore"))

	var source knowledge.Source = knowledge.NewBuilder(store, logger.WithField("component", "knowledge"))
	source = knowledge.WithCache(source, cfg.Knowledge.CacheTTL)

	llm, err := completion.NewGemini(ctx, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"model":       cfg.LLM.Model,
		"temperature": cfg.LLM.Temperature,
		"cache_ttl":   cfg.Knowledge.CacheTTL.String(),
		"strict":      cfg.Knowledge.Strict,
	}).Info("Assistant initialized")

	return service.NewAssistant(source, llm, logger.WithField("component", "assistant"),
		service.WithStrictKnowledge(cfg.Knowledge.Strict)), nil
}

// New monta o Server a partir de um Assistant já construído
func New(cfg *config.Config, assistant Assistant, logger *logrus.Entry) *Server {
	return &Server{
		Assistant:      assistant,
		Logger:         logger,
		Addr:           cfg.Addr(),
		RequestTimeout: cfg.Server.RequestTimeout,
		RedactErrors:   cfg.Server.RedactErrors,
	}
}

// SetupRouter configura as rotas e middlewares do Chi
func (s *Server) SetupRouter(
	handleRoot func(http.ResponseWriter, *http.Request),
	handleHealth func(http.ResponseWriter, *http.Request),
	handleAsk func(http.ResponseWriter, *http.Request),
) {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)
	r.Group(func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.RequestTimeout))
		}
		r.Post("/ask", handleAsk)
	})

	// O transporte streamable do MCP mantém conexões abertas (GET/SSE), por
	// isso fica fora do timeout
	r.Handle("/mcp", NewMCPHandler(s.Assistant, s.Logger.WithField("component", "mcp")))

	s.Router = r
}

// Start inicia o servidor HTTP com graceful shutdown
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:        s.Addr,
		Handler:     s.Router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)

	// Goroutine para iniciar o servidor
	go func() {
		s.Logger.Info("╔════════════════════════════════════════════════════╗")
		s.Logger.Info("║   Medzo Shop Pharmacy Assistant                    ║")
		s.Logger.Info("╚════════════════════════════════════════════════════╝")
		s.Logger.Infof("🚀 HTTP server listening on %s", s.Addr)
		s.Logger.Info("📌 Endpoints: POST /ask, GET /health, GET /, /mcp")
		s.Logger.Info(`💡 curl -X POST http://localhost` + s.Addr + `/ask -H "Content-Type: application/json" -d '{"message":"Do you have paracetamol?"}'`)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Aguardar sinal de interrupção ou falha do listener
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.Logger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.Logger.Info("✅ Server stopped gracefully")
	return nil
}

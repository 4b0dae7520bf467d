package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vitormoschetta/go-pharmacy-assistant/internal/config"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/handler"
	"github.com/vitormoschetta/go-pharmacy-assistant/internal/server"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "pharmacy-assistant")

	if err := godotenv.Load(); err != nil {
		entry.Warn(".env file not found or could not be loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(logger, entry).ExecuteContext(ctx); err != nil {
		entry.Fatal(err)
	}
}

func newRootCmd(logger *logrus.Logger, entry *logrus.Entry) *cobra.Command {
	root := &cobra.Command{
		Use:           "pharmacy-assistant",
		Short:         "Medzo Shop pharmacy assistant backed by Supabase and Gemini",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), logger, entry)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), logger, entry)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "knowledge",
		Short: "Print the current knowledge base and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			assistant, err := server.NewAssistant(cmd.Context(), cfg, entry)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), assistant.KnowledgeBase(cmd.Context()))
			return nil
		},
	})

	return root
}

func loadConfig(logger *logrus.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)
	return cfg, nil
}

func runServe(ctx context.Context, logger *logrus.Logger, entry *logrus.Entry) error {
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	// Criar servidor
	srv, err := server.NewServer(ctx, cfg, entry)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Criar handlers
	h := handler.NewHandler(srv)

	// Configurar rotas com os handlers
	srv.SetupRouter(h.HandleRoot, h.HandleHealth, h.HandleAsk)

	// Iniciar servidor
	return srv.Start(ctx)
}

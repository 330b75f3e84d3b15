package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/PmSerg/social-media-agent-system/agent"
	"github.com/PmSerg/social-media-agent-system/completion"
	"github.com/PmSerg/social-media-agent-system/record"
	"github.com/PmSerg/social-media-agent-system/search"
	"github.com/PmSerg/social-media-agent-system/webhook"
	"github.com/PmSerg/social-media-agent-system/workflow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the content agency HTTP server",
	Long: `Starts the HTTP API: POST /execute-command runs a workflow command in the
background, GET /commands lists available commands, and GET /tasks/{id}
returns a task's record. Progress is streamed to the caller's webhook URL.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	runner, store, err := buildRunner(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewServer(runner, store, cfg, log).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "provider", cfg.Provider, "commands_dir", cfg.CommandsDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRunner assembles the workflow runner and its collaborators from
// configuration. Both the HTTP server and the MCP server run on top of it.
func buildRunner(ctx context.Context, cfg *Config, log *slog.Logger) (*workflow.Runner, record.Store, error) {
	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store := newStore(cfg, log)
	searcher := search.NewClient(cfg.SerpAPIKey, search.WithLogger(log))
	notifier := webhook.NewSender(webhook.DefaultConfig(cfg.WebhookBaseURL), webhook.WithLogger(log))

	runner := workflow.NewRunner(
		workflow.NewLoader(cfg.CommandsDir),
		store,
		notifier,
		[]agent.Agent{
			agent.NewResearch(completer, searcher, log),
			agent.NewCopywriter(completer, log),
		},
		workflow.WithRunnerLogger(log),
	)
	return runner, store, nil
}

// newCompleter selects the completion provider from configuration.
func newCompleter(ctx context.Context, cfg *Config) (completion.Completer, error) {
	switch cfg.Provider {
	case "openai":
		var opts []completion.OpenAIOption
		if cfg.Model != "" {
			opts = append(opts, completion.WithOpenAIModel(cfg.Model))
		}
		return completion.NewOpenAI(cfg.OpenAIKey, opts...), nil
	case "anthropic":
		var opts []completion.AnthropicOption
		if cfg.Model != "" {
			opts = append(opts, completion.WithAnthropicModel(cfg.Model))
		}
		return completion.NewAnthropic(cfg.AnthropicKey, opts...), nil
	case "google":
		var opts []completion.GoogleOption
		if cfg.Model != "" {
			opts = append(opts, completion.WithGoogleModel(cfg.Model))
		}
		return completion.NewGoogle(ctx, cfg.GoogleKey, opts...)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// newStore uses the hosted record store when credentials are configured and
// falls back to the in-memory store otherwise.
func newStore(cfg *Config, log *slog.Logger) record.Store {
	if cfg.NotionToken != "" {
		return record.NewClient(cfg.NotionToken, cfg.NotionDatabase)
	}
	log.Warn("NOTION_TOKEN not set, task records are in-memory only")
	return record.NewMemory()
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"autobot/internal/archive"
	"autobot/internal/config"
	"autobot/internal/dispatch"
	"autobot/internal/eval"
	"autobot/internal/events"
	"autobot/internal/llm"
	"autobot/internal/session"
	"autobot/internal/store"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var kv store.KV = store.NewMemory()
	if cfg.StorePath != "" {
		sqlite, err := store.NewSQLite(cfg.StorePath)
		if err != nil {
			logger.Error("open store failed", "error", err)
			os.Exit(1)
		}
		defer sqlite.Close()
		kv = sqlite
	}

	deps := dispatch.Deps{
		Sessions: session.NewManager(kv, cfg.SessionTTL, cfg.ContextWindow),
		Logger:   logger,
		MaxTurns: cfg.MaxTurns,
	}

	if cfg.RequireLLMKey() == nil {
		provider, err := llm.NewProvider(llm.Config{
			Provider:         strings.ToLower(cfg.LLMProvider),
			Model:            cfg.LLMModel,
			OpenAIBaseURL:    cfg.OpenAIBaseURL,
			OpenAIAPIKey:     cfg.OpenAIAPIKey,
			AnthropicBaseURL: cfg.AnthropicBaseURL,
			AnthropicAPIKey:  cfg.AnthropicAPIKey,
		})
		if err != nil {
			logger.Error("init llm provider failed", "error", err)
			os.Exit(1)
		}
		deps.Analyzer = eval.NewConversationAnalyzer(provider, cfg.LLMTimeout)
	} else {
		logger.Info("delegated evaluation disabled, no llm credentials")
	}

	if cfg.DBDSN != "" {
		archiveStore, err := archive.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("connect archive failed", "error", err)
			os.Exit(1)
		}
		defer archiveStore.Close()
		if err := archiveStore.Migrate(ctx); err != nil {
			logger.Error("migrate archive failed", "error", err)
			os.Exit(1)
		}
		deps.Archive = archiveStore
	}

	if cfg.MQTTBrokerURL != "" {
		notifier := events.NewNotifier(events.Config{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, logger)
		if err := notifier.Start(ctx); err != nil {
			logger.Error("start event notifier failed", "error", err)
			os.Exit(1)
		}
		deps.Notifier = notifier
	}

	d := dispatch.New(deps)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/v1/command", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Entrada string `json:"entrada"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(body.Entrada) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "entrada is required"})
			return
		}

		out, err := d.Process(req.Context(), body.Entrada)
		if err != nil {
			if errors.Is(err, dispatch.ErrInvalidCommand) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
				return
			}
			logger.Error("command failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"respuesta": out,
			"estado":    string(d.State()),
			"sesion_id": d.SesionID(),
		})
	})

	r.Get("/api/{run}", func(w http.ResponseWriter, req *http.Request) {
		run := chi.URLParam(req, "run")
		result, ok := d.Result(run)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"report": result.Narrative})
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("autobot server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

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

const banner = `CHATBOT EVALUADOR DE AGENTES

Sistema de evaluación de agentes de servicio al cliente mediante
simulación de clientes con diferentes personalidades y canales.

Escriba "COMENZAR TEST" para iniciar una evaluación.
Escriba "salir" para terminar el programa.

`

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

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

	fmt.Print(banner)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if lower := strings.ToLower(input); lower == "salir" || lower == "exit" || lower == "quit" {
			fmt.Println("\n¡Hasta luego! Gracias por usar el Evaluador de Agentes.")
			return
		}

		wasRunning := d.State() == dispatch.EnPrueba
		out, err := d.Process(ctx, input)
		if err != nil {
			if errors.Is(err, dispatch.ErrInvalidCommand) {
				fmt.Println(err.Error())
				continue
			}
			logger.Error("command failed", "error", err)
			continue
		}
		fmt.Println("\n" + out)

		if wasRunning && d.State() == dispatch.Finalizado {
			saveReport(d, logger)
		}
	}
}

// saveReport writes the structured report of the just-finished run to a
// timestamped file in the working directory.
func saveReport(d *dispatch.Dispatcher, logger *slog.Logger) {
	result, ok := d.Result(d.SesionID())
	if !ok {
		return
	}
	raw, err := json.MarshalIndent(result.Heuristic, "", "  ")
	if err != nil {
		logger.Error("encode report failed", "error", err)
		return
	}
	filename := fmt.Sprintf("evaluacion_%s.json", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filename, raw, 0o644); err != nil {
		logger.Error("write report failed", "file", filename, "error", err)
		return
	}
	fmt.Printf("\nInforme JSON guardado en: %s\n", filename)
}

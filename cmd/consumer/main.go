// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

// Command consumer is the entry point for the Askora event consumer worker.
//
// It subscribes one consumer per topic within a shared consumer group,
// dispatches events to the handlers (notification fan-out, audit persistence,
// search hooks), and commits offsets after every delivery attempt.
//
// The worker shares the API server's configuration surface and connects to
// the same Postgres instance for the eventlog schema.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/askora/askora/internal/events"
	"github.com/askora/askora/internal/platform/config"
	platformkafka "github.com/askora/askora/internal/platform/kafka"
	pgstore "github.com/askora/askora/internal/platform/postgres"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "askora-consumer"))
	slog.SetDefault(log)

	log.Info("[Askora] consumer_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "askora-consumer"))
		slog.SetDefault(log)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Kafka Topics ───────────────────────────────────────────────────
	must(log, platformkafka.EnsureTopics(startupCtx, cfg.KafkaBrokers, events.TopicSpecs(), log),
		"ensure kafka topics")

	// ── 5. Handler Wiring ─────────────────────────────────────────────────
	eventStore := events.NewPostgresStore(pool)
	handlers := events.NewHandlers(eventStore, eventStore, eventStore, log)

	// ── 6. Consumers ──────────────────────────────────────────────────────
	// One reader per topic, all in the same consumer group. Each runs its own
	// fetch/dispatch/commit loop until the run context is cancelled.
	runCtx, runCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer runCancel()

	topics := []string{
		events.TopicUserEvents,
		events.TopicQuestionEvents,
		events.TopicAnswerEvents,
		events.TopicEngagementEvents,
		events.TopicNotificationEvents,
		events.TopicAuditLogEvents,
	}

	var group sync.WaitGroup
	for _, topic := range topics {
		reader, err := platformkafka.NewReader(cfg.KafkaBrokers, topic, cfg.KafkaGroupID)
		must(log, err, "create kafka reader for "+topic)

		consumer := events.NewConsumer(reader, topic, handlers, log)

		group.Add(1)
		go func(topic string) {
			defer group.Done()
			defer func() {
				if cerr := reader.Close(); cerr != nil {
					log.Error("kafka reader close error",
						slog.String("topic", topic),
						slog.Any("error", cerr),
					)
				}
			}()

			if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("consumer stopped with error",
					slog.String("topic", topic),
					slog.Any("error", err),
				)
				runCancel()
			}
		}(topic)
	}

	log.Info("consumers_running", slog.Int("topics", len(topics)))

	<-runCtx.Done()
	log.Info("shutdown signal received, draining consumers")

	group.Wait()
	log.Info("consumer stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/askora/askora/internal/platform/metrics"
)

// MessageFetcher is the slice of kafka.Reader the consumer depends on.
type MessageFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// EventHandler receives fully-decoded events, one method per topic.
type EventHandler interface {
	HandleUserEvent(ctx context.Context, event UserEvent) error
	HandleQuestionEvent(ctx context.Context, event QuestionEvent) error
	HandleAnswerEvent(ctx context.Context, event AnswerEvent) error
	HandleEngagementEvent(ctx context.Context, event EngagementEvent) error
	HandleNotificationEvent(ctx context.Context, event NotificationEvent) error
	HandleAuditLogEvent(ctx context.Context, event AuditLogEvent) error
}

// Consumer runs a fetch → dispatch → commit loop over one topic.
//
// # Delivery Semantics
//
// At-least-once, no retry: every fetched message is committed, whether its
// handler succeeded, failed, or the event type was unknown. A handler failure
// is logged and counted but never blocks the partition. Redelivery after a
// rebalance performs the side effect again; handlers are not deduplicated.
type Consumer struct {
	reader  MessageFetcher
	topic   string
	handler EventHandler
	logger  *slog.Logger
}

// NewConsumer wires a reader for one topic to its handler.
func NewConsumer(reader MessageFetcher, topic string, handler EventHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:  reader,
		topic:   topic,
		handler: handler,
		logger:  logger.With(slog.String("topic", topic)),
	}
}

// Run consumes messages until the context is cancelled or the reader closes.
func (consumer *Consumer) Run(ctx context.Context) error {
	consumer.logger.InfoContext(ctx, "consumer_started")

	for {
		message, err := consumer.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				consumer.logger.InfoContext(ctx, "consumer_stopped")
				return nil
			}
			return fmt.Errorf("events: fetch failed on %s: %w", consumer.topic, err)
		}

		consumer.dispatch(ctx, message)

		// Commit unconditionally: failed handlers and unknown types are
		// dropped, never redelivered by our own offset management.
		if err := consumer.reader.CommitMessages(ctx, message); err != nil {
			consumer.logger.ErrorContext(ctx, "consumer_commit_failed",
				slog.Int64("offset", message.Offset),
				slog.Any("error", err),
			)
		}
	}
}

// dispatch decodes one raw message and routes it to the handler.
func (consumer *Consumer) dispatch(ctx context.Context, message kafka.Message) {
	var peek envelope
	if err := json.Unmarshal(message.Value, &peek); err != nil {
		consumer.logger.WarnContext(ctx, "event_undecodable",
			slog.Int64("offset", message.Offset),
			slog.Any("error", err),
		)
		metrics.IncEventDropped(consumer.topic)
		return
	}

	known, handlerErr := consumer.route(ctx, peek.EventType, message.Value)
	if !known {
		consumer.logger.WarnContext(ctx, "event_type_unknown",
			slog.String("event_type", peek.EventType),
			slog.Int64("offset", message.Offset),
		)
		metrics.IncEventDropped(consumer.topic)
		return
	}

	metrics.IncEventConsumed(consumer.topic, peek.EventType)

	if handlerErr != nil {
		consumer.logger.ErrorContext(ctx, "event_handler_failed",
			slog.String("event_type", peek.EventType),
			slog.Int64("offset", message.Offset),
			slog.Any("error", handlerErr),
		)
		metrics.IncEventHandlerFailure(consumer.topic)
	}
}

// route decodes the payload for a known event type and invokes the handler.
// known is false when the type does not belong on this topic.
func (consumer *Consumer) route(ctx context.Context, eventType string, raw []byte) (known bool, handlerErr error) {
	switch consumer.topic {

	case TopicUserEvents:
		switch eventType {
		case TypeUserSignedUp, TypeUserProfileUpdated:
			var event UserEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				return true, err
			}
			return true, consumer.handler.HandleUserEvent(ctx, event)
		}

	case TopicQuestionEvents:
		switch eventType {
		case TypeQuestionCreated, TypeQuestionEdited, TypeQuestionDeleted:
			var event QuestionEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				return true, err
			}
			return true, consumer.handler.HandleQuestionEvent(ctx, event)
		}

	case TopicAnswerEvents:
		switch eventType {
		case TypeAnswerCreated, TypeAnswerMarkedAccepted:
			var event AnswerEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				return true, err
			}
			return true, consumer.handler.HandleAnswerEvent(ctx, event)
		}

	case TopicEngagementEvents:
		switch eventType {
		case TypeQuestionLiked, TypeUserFollowedTag:
			var event EngagementEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				return true, err
			}
			return true, consumer.handler.HandleEngagementEvent(ctx, event)
		}

	case TopicNotificationEvents:
		if eventType == TypeNotification {
			var event NotificationEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				return true, err
			}
			return true, consumer.handler.HandleNotificationEvent(ctx, event)
		}

	case TopicAuditLogEvents:
		if eventType == TypeAuditLog {
			var event AuditLogEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				return true, err
			}
			return true, consumer.handler.HandleAuditLogEvent(ctx, event)
		}
	}

	return false, nil
}

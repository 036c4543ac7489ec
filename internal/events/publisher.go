// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/askora/askora/internal/platform/metrics"
)

// MessageWriter is the slice of kafka.Writer the publisher depends on.
//
// # Why an interface?
//
// Services publish through this interface, so tests can capture messages with
// an in-memory fake instead of a broker.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher serializes domain events and writes them to Kafka.
//
// # Fire-and-Forget Contract
//
// Publication happens after the repository save and its outcome never reaches
// the caller: a failed write is logged and counted, but the HTTP request that
// caused it still succeeds. There is no outbox and no rollback on publish
// failure, so a crash between save and publish loses the event.
type Publisher struct {
	writer MessageWriter
	logger *slog.Logger
}

// NewPublisher creates a Publisher on top of a configured writer.
func NewPublisher(writer MessageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

// publish marshals a payload and writes it keyed by the aggregate ID.
func (publisher *Publisher) publish(ctx context.Context, topic string, aggregateID int64, eventType string, payload interface{}) {
	value, err := json.Marshal(payload)
	if err != nil {
		publisher.logger.ErrorContext(ctx, "event_marshal_failed",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.Any("error", err),
		)
		metrics.IncEventPublishFailure(topic)
		return
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(aggregateID, 10)),
		Value: value,
	}

	if err := publisher.writer.WriteMessages(ctx, message); err != nil {
		publisher.logger.ErrorContext(ctx, "event_publish_failed",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.Int64("aggregate_id", aggregateID),
			slog.Any("error", err),
		)
		metrics.IncEventPublishFailure(topic)
		return
	}

	metrics.IncEventPublished(topic, eventType)
	publisher.logger.DebugContext(ctx, "event_published",
		slog.String("topic", topic),
		slog.String("event_type", eventType),
		slog.Int64("aggregate_id", aggregateID),
	)
}

// # User Events

// PublishUserSignedUp announces a completed registration.
func (publisher *Publisher) PublishUserSignedUp(ctx context.Context, userID int64, username, email string) {
	publisher.publish(ctx, TopicUserEvents, userID, TypeUserSignedUp, UserEvent{
		EventType: TypeUserSignedUp,
		UserID:    userID,
		Username:  username,
		Email:     email,
		Timestamp: time.Now(),
	})
}

// PublishUserProfileUpdated announces a profile change.
func (publisher *Publisher) PublishUserProfileUpdated(ctx context.Context, userID int64, username, email string) {
	publisher.publish(ctx, TopicUserEvents, userID, TypeUserProfileUpdated, UserEvent{
		EventType: TypeUserProfileUpdated,
		UserID:    userID,
		Username:  username,
		Email:     email,
		Timestamp: time.Now(),
	})
}

// # Question Events

// PublishQuestionCreated announces a new question.
func (publisher *Publisher) PublishQuestionCreated(ctx context.Context, questionID, userID int64, title string) {
	publisher.publish(ctx, TopicQuestionEvents, questionID, TypeQuestionCreated, QuestionEvent{
		EventType:  TypeQuestionCreated,
		QuestionID: questionID,
		UserID:     userID,
		Title:      title,
		Timestamp:  time.Now(),
	})
}

// PublishQuestionEdited announces an edit to an existing question.
func (publisher *Publisher) PublishQuestionEdited(ctx context.Context, questionID, userID int64, title string) {
	publisher.publish(ctx, TopicQuestionEvents, questionID, TypeQuestionEdited, QuestionEvent{
		EventType:  TypeQuestionEdited,
		QuestionID: questionID,
		UserID:     userID,
		Title:      title,
		Timestamp:  time.Now(),
	})
}

// PublishQuestionDeleted announces a question removal.
func (publisher *Publisher) PublishQuestionDeleted(ctx context.Context, questionID, userID int64, title string) {
	publisher.publish(ctx, TopicQuestionEvents, questionID, TypeQuestionDeleted, QuestionEvent{
		EventType:  TypeQuestionDeleted,
		QuestionID: questionID,
		UserID:     userID,
		Title:      title,
		Timestamp:  time.Now(),
	})
}

// # Answer Events

// PublishAnswerCreated announces a new answer on a question.
func (publisher *Publisher) PublishAnswerCreated(ctx context.Context, answerID, questionID, userID int64) {
	publisher.publish(ctx, TopicAnswerEvents, answerID, TypeAnswerCreated, AnswerEvent{
		EventType:  TypeAnswerCreated,
		AnswerID:   answerID,
		QuestionID: questionID,
		UserID:     userID,
		Timestamp:  time.Now(),
	})
}

// PublishAnswerMarkedAccepted announces that the question author accepted an answer.
func (publisher *Publisher) PublishAnswerMarkedAccepted(ctx context.Context, answerID, questionID, userID int64) {
	publisher.publish(ctx, TopicAnswerEvents, answerID, TypeAnswerMarkedAccepted, AnswerEvent{
		EventType:  TypeAnswerMarkedAccepted,
		AnswerID:   answerID,
		QuestionID: questionID,
		UserID:     userID,
		Timestamp:  time.Now(),
	})
}

// # Engagement Events

// PublishQuestionLiked announces a like on a question.
func (publisher *Publisher) PublishQuestionLiked(ctx context.Context, userID, questionID int64) {
	publisher.publish(ctx, TopicEngagementEvents, userID, TypeQuestionLiked, EngagementEvent{
		EventType:  TypeQuestionLiked,
		UserID:     userID,
		QuestionID: questionID,
		Timestamp:  time.Now(),
	})
}

// PublishUserFollowedTag announces that a user followed a tag.
func (publisher *Publisher) PublishUserFollowedTag(ctx context.Context, userID, tagID int64, tagName string) {
	publisher.publish(ctx, TopicEngagementEvents, userID, TypeUserFollowedTag, EngagementEvent{
		EventType: TypeUserFollowedTag,
		UserID:    userID,
		TagID:     tagID,
		TagName:   tagName,
		Timestamp: time.Now(),
	})
}

// # Notification & Audit Events

// PublishNotification requests a notification row for a user.
func (publisher *Publisher) PublishNotification(ctx context.Context, userID int64, notificationType, message string) {
	publisher.publish(ctx, TopicNotificationEvents, userID, TypeNotification, NotificationEvent{
		EventType:        TypeNotification,
		UserID:           userID,
		NotificationType: notificationType,
		Message:          message,
		Timestamp:        time.Now(),
	})
}

// PublishAuditLog records a sensitive action on the audit stream.
func (publisher *Publisher) PublishAuditLog(ctx context.Context, userID int64, action, resourceType string, resourceID int64, details string) {
	publisher.publish(ctx, TopicAuditLogEvents, userID, TypeAuditLog, AuditLogEvent{
		EventType:    TypeAuditLog,
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		Timestamp:    time.Now(),
	})
}

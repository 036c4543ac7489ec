// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package events

import (
	"context"
	"fmt"
	"log/slog"
)

// Handlers is the production [EventHandler]: it materializes notifications
// and audit entries, and logs the index/cache hooks that have no persistent
// side effect yet.
type Handlers struct {
	notifications NotificationStore
	audits        AuditStore
	authors       AuthorDirectory
	logger        *slog.Logger
}

// NewHandlers wires the consumer-side stores into an event handler.
func NewHandlers(notifications NotificationStore, audits AuditStore, authors AuthorDirectory, logger *slog.Logger) *Handlers {
	return &Handlers{
		notifications: notifications,
		audits:        audits,
		authors:       authors,
		logger:        logger,
	}
}

// HandleUserEvent materializes a welcome notification for new signups and
// logs profile updates for downstream cache invalidation.
func (handlers *Handlers) HandleUserEvent(ctx context.Context, event UserEvent) error {
	switch event.EventType {
	case TypeUserSignedUp:
		return handlers.notifications.CreateNotification(ctx, &Notification{
			UserID:    event.UserID,
			Type:      NotificationWelcome,
			Message:   fmt.Sprintf("Welcome to Askora, %s!", event.Username),
			CreatedAt: event.Timestamp,
		})

	case TypeUserProfileUpdated:
		// Profile search re-indexing hook. Index service is not built yet.
		handlers.logger.InfoContext(ctx, "profile_update_observed",
			slog.Int64("user_id", event.UserID),
			slog.String("username", event.Username),
		)
		return nil
	}

	return nil
}

// HandleQuestionEvent logs the search-index hook for question changes.
func (handlers *Handlers) HandleQuestionEvent(ctx context.Context, event QuestionEvent) error {
	handlers.logger.InfoContext(ctx, "question_event_observed",
		slog.String("event_type", event.EventType),
		slog.Int64("question_id", event.QuestionID),
		slog.Int64("user_id", event.UserID),
	)
	return nil
}

// HandleAnswerEvent notifies the interested party of answer activity.
//
// ANSWER_CREATED addresses the question author; ANSWER_MARKED_ACCEPTED
// addresses the answer author. Self-answers still notify (matches the
// upstream behavior).
func (handlers *Handlers) HandleAnswerEvent(ctx context.Context, event AnswerEvent) error {
	switch event.EventType {
	case TypeAnswerCreated:
		questionAuthorID, err := handlers.authors.QuestionAuthor(ctx, event.QuestionID)
		if err != nil {
			return fmt.Errorf("events: resolving question author: %w", err)
		}

		return handlers.notifications.CreateNotification(ctx, &Notification{
			UserID:    questionAuthorID,
			Type:      NotificationNewAnswer,
			Message:   "Your question received a new answer.",
			CreatedAt: event.Timestamp,
		})

	case TypeAnswerMarkedAccepted:
		answerAuthorID, err := handlers.authors.AnswerAuthor(ctx, event.AnswerID)
		if err != nil {
			return fmt.Errorf("events: resolving answer author: %w", err)
		}

		return handlers.notifications.CreateNotification(ctx, &Notification{
			UserID:    answerAuthorID,
			Type:      NotificationAnswerAccepted,
			Message:   "Your answer was marked as accepted.",
			CreatedAt: event.Timestamp,
		})
	}

	return nil
}

// HandleEngagementEvent logs like and follow activity for trend counters.
func (handlers *Handlers) HandleEngagementEvent(ctx context.Context, event EngagementEvent) error {
	handlers.logger.InfoContext(ctx, "engagement_observed",
		slog.String("event_type", event.EventType),
		slog.Int64("user_id", event.UserID),
		slog.Int64("question_id", event.QuestionID),
		slog.Int64("tag_id", event.TagID),
	)
	return nil
}

// HandleNotificationEvent persists an explicit notification request.
func (handlers *Handlers) HandleNotificationEvent(ctx context.Context, event NotificationEvent) error {
	return handlers.notifications.CreateNotification(ctx, &Notification{
		UserID:    event.UserID,
		Type:      event.NotificationType,
		Message:   event.Message,
		CreatedAt: event.Timestamp,
	})
}

// HandleAuditLogEvent persists an audit trail row.
func (handlers *Handlers) HandleAuditLogEvent(ctx context.Context, event AuditLogEvent) error {
	return handlers.audits.CreateAuditEntry(ctx, &AuditEntry{
		UserID:       event.UserID,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Details:      event.Details,
		OccurredAt:   event.Timestamp,
	})
}

// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package events defines the domain event wire contract and the publish/consume
machinery around it.

Every state change that matters outside the request that caused it is fanned
out as a JSON event on one of six Kafka topics. Consumers materialize
notifications and audit entries from the stream; the HTTP API never writes
those tables directly.

Wire Contract:

  - Topics and partition counts are fixed (see TopicSpecs).
  - Payload field names are camelCase and stable across services.
  - The partition key is the aggregate ID rendered as a decimal string, so
    all events for one aggregate stay ordered on one partition.
*/
package events

import (
	"time"

	platformkafka "github.com/askora/askora/internal/platform/kafka"
)

// # Topics

const (
	TopicUserEvents         = "user-events"
	TopicQuestionEvents     = "question-events"
	TopicAnswerEvents       = "answer-events"
	TopicEngagementEvents   = "engagement-events"
	TopicNotificationEvents = "notification-events"
	TopicAuditLogEvents     = "audit-log-events"
)

// Retention windows in milliseconds.
const (
	retentionWeek  = int64(7 * 24 * time.Hour / time.Millisecond)
	retentionMonth = int64(30 * 24 * time.Hour / time.Millisecond)
)

// TopicSpecs declares every topic the platform depends on, with the
// partition counts and retention the cluster must provide.
func TopicSpecs() []platformkafka.TopicSpec {
	return []platformkafka.TopicSpec{
		{Name: TopicUserEvents, Partitions: 3, RetentionMS: retentionWeek},
		{Name: TopicQuestionEvents, Partitions: 5, RetentionMS: retentionWeek},
		{Name: TopicAnswerEvents, Partitions: 5, RetentionMS: retentionWeek},
		{Name: TopicEngagementEvents, Partitions: 3, RetentionMS: retentionWeek},
		{Name: TopicNotificationEvents, Partitions: 3, RetentionMS: retentionWeek},
		{Name: TopicAuditLogEvents, Partitions: 1, RetentionMS: retentionMonth},
	}
}

// # Event Types

const (
	TypeUserSignedUp         = "USER_SIGNED_UP"
	TypeUserProfileUpdated   = "USER_PROFILE_UPDATED"
	TypeQuestionCreated      = "QUESTION_CREATED"
	TypeQuestionEdited       = "QUESTION_EDITED"
	TypeQuestionDeleted      = "QUESTION_DELETED"
	TypeAnswerCreated        = "ANSWER_CREATED"
	TypeAnswerMarkedAccepted = "ANSWER_MARKED_ACCEPTED"
	TypeUserFollowedTag      = "USER_FOLLOWED_TAG"
	TypeQuestionLiked        = "QUESTION_LIKED"
	TypeNotification         = "NOTIFICATION"
	TypeAuditLog             = "AUDIT_LOG"
)

// # Payload Shapes

// UserEvent travels on user-events for account lifecycle changes.
type UserEvent struct {
	EventType string    `json:"eventType"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// QuestionEvent travels on question-events for question lifecycle changes.
type QuestionEvent struct {
	EventType  string    `json:"eventType"`
	QuestionID int64     `json:"questionId"`
	UserID     int64     `json:"userId"`
	Title      string    `json:"title"`
	Timestamp  time.Time `json:"timestamp"`
}

// AnswerEvent travels on answer-events for answer creation and acceptance.
type AnswerEvent struct {
	EventType  string    `json:"eventType"`
	AnswerID   int64     `json:"answerId"`
	QuestionID int64     `json:"questionId"`
	UserID     int64     `json:"userId"`
	Timestamp  time.Time `json:"timestamp"`
}

// EngagementEvent travels on engagement-events for likes and tag follows.
//
// QuestionID is set for QUESTION_LIKED; TagID/TagName for USER_FOLLOWED_TAG.
type EngagementEvent struct {
	EventType  string    `json:"eventType"`
	UserID     int64     `json:"userId"`
	QuestionID int64     `json:"questionId,omitempty"`
	TagID      int64     `json:"tagId,omitempty"`
	TagName    string    `json:"tagName,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NotificationEvent travels on notification-events and is materialized into
// a notification row by the consumer.
type NotificationEvent struct {
	EventType        string    `json:"eventType"`
	UserID           int64     `json:"userId"`
	NotificationType string    `json:"notificationType"`
	Message          string    `json:"message"`
	Timestamp        time.Time `json:"timestamp"`
}

// AuditLogEvent travels on audit-log-events and is materialized into an
// audit entry row by the consumer.
type AuditLogEvent struct {
	EventType    string    `json:"eventType"`
	UserID       int64     `json:"userId"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType"`
	ResourceID   int64     `json:"resourceId"`
	Details      string    `json:"details"`
	Timestamp    time.Time `json:"timestamp"`
}

// envelope is the minimal shape peeked at during dispatch to route a raw
// message before full decoding.
type envelope struct {
	EventType string `json:"eventType"`
}

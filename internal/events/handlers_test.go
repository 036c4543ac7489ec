// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/events"
)

// memoryStore is an in-memory NotificationStore + AuditStore + AuthorDirectory.
type memoryStore struct {
	notifications   []*events.Notification
	audits          []*events.AuditEntry
	questionAuthors map[int64]int64
	answerAuthors   map[int64]int64
}

func (s *memoryStore) CreateNotification(ctx context.Context, notification *events.Notification) error {
	notification.ID = int64(len(s.notifications) + 1)
	s.notifications = append(s.notifications, notification)
	return nil
}

func (s *memoryStore) CreateAuditEntry(ctx context.Context, entry *events.AuditEntry) error {
	entry.ID = int64(len(s.audits) + 1)
	s.audits = append(s.audits, entry)
	return nil
}

func (s *memoryStore) QuestionAuthor(ctx context.Context, questionID int64) (int64, error) {
	return s.questionAuthors[questionID], nil
}

func (s *memoryStore) AnswerAuthor(ctx context.Context, answerID int64) (int64, error) {
	return s.answerAuthors[answerID], nil
}

func TestHandlers_SignupCreatesWelcomeNotification(t *testing.T) {
	store := &memoryStore{}
	handlers := events.NewHandlers(store, store, store, discardLogger())

	err := handlers.HandleUserEvent(context.Background(), events.UserEvent{
		EventType: events.TypeUserSignedUp,
		UserID:    3,
		Username:  "quinn",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, int64(3), store.notifications[0].UserID)
	assert.Equal(t, events.NotificationWelcome, store.notifications[0].Type)
	assert.Contains(t, store.notifications[0].Message, "quinn")
}

func TestHandlers_AnswerCreatedNotifiesQuestionAuthor(t *testing.T) {
	store := &memoryStore{questionAuthors: map[int64]int64{10: 77}}
	handlers := events.NewHandlers(store, store, store, discardLogger())

	err := handlers.HandleAnswerEvent(context.Background(), events.AnswerEvent{
		EventType:  events.TypeAnswerCreated,
		AnswerID:   55,
		QuestionID: 10,
		UserID:     2,
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, int64(77), store.notifications[0].UserID)
	assert.Equal(t, events.NotificationNewAnswer, store.notifications[0].Type)
}

func TestHandlers_AcceptedAnswerNotifiesAnswerAuthor(t *testing.T) {
	store := &memoryStore{answerAuthors: map[int64]int64{55: 2}}
	handlers := events.NewHandlers(store, store, store, discardLogger())

	err := handlers.HandleAnswerEvent(context.Background(), events.AnswerEvent{
		EventType:  events.TypeAnswerMarkedAccepted,
		AnswerID:   55,
		QuestionID: 10,
		UserID:     77,
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, int64(2), store.notifications[0].UserID)
	assert.Equal(t, events.NotificationAnswerAccepted, store.notifications[0].Type)
}

func TestHandlers_AuditLogPersisted(t *testing.T) {
	store := &memoryStore{}
	handlers := events.NewHandlers(store, store, store, discardLogger())

	err := handlers.HandleAuditLogEvent(context.Background(), events.AuditLogEvent{
		EventType:    events.TypeAuditLog,
		UserID:       4,
		Action:       "DELETE",
		ResourceType: "QUESTION",
		ResourceID:   9,
		Details:      "removed by moderator",
		Timestamp:    time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, store.audits, 1)
	assert.Equal(t, "DELETE", store.audits[0].Action)
	assert.Equal(t, int64(9), store.audits[0].ResourceID)
}

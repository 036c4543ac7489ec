// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/events"
)

// scriptedReader feeds a fixed sequence of messages, then reports cancellation
// (as a closed reader would), and records every commit.
type scriptedReader struct {
	messages  []kafka.Message
	position  int
	committed []kafka.Message
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.position >= len(r.messages) {
		return kafka.Message{}, context.Canceled
	}
	message := r.messages[r.position]
	r.position++
	return message, nil
}

func (r *scriptedReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

// recordingHandler counts handled events per method.
type recordingHandler struct {
	userEvents         []events.UserEvent
	answerEvents       []events.AnswerEvent
	notificationEvents []events.NotificationEvent
	failWith           error
}

func (h *recordingHandler) HandleUserEvent(ctx context.Context, event events.UserEvent) error {
	h.userEvents = append(h.userEvents, event)
	return h.failWith
}

func (h *recordingHandler) HandleQuestionEvent(ctx context.Context, event events.QuestionEvent) error {
	return h.failWith
}

func (h *recordingHandler) HandleAnswerEvent(ctx context.Context, event events.AnswerEvent) error {
	h.answerEvents = append(h.answerEvents, event)
	return h.failWith
}

func (h *recordingHandler) HandleEngagementEvent(ctx context.Context, event events.EngagementEvent) error {
	return h.failWith
}

func (h *recordingHandler) HandleNotificationEvent(ctx context.Context, event events.NotificationEvent) error {
	h.notificationEvents = append(h.notificationEvents, event)
	return h.failWith
}

func (h *recordingHandler) HandleAuditLogEvent(ctx context.Context, event events.AuditLogEvent) error {
	return h.failWith
}

func message(t *testing.T, topic string, offset int64, payload interface{}) kafka.Message {
	t.Helper()
	value, err := json.Marshal(payload)
	require.NoError(t, err)
	return kafka.Message{Topic: topic, Offset: offset, Value: value}
}

func TestConsumer_DispatchesAnswerCreated(t *testing.T) {
	reader := &scriptedReader{messages: []kafka.Message{
		message(t, events.TopicAnswerEvents, 0, events.AnswerEvent{
			EventType:  events.TypeAnswerCreated,
			AnswerID:   55,
			QuestionID: 10,
			UserID:     2,
			Timestamp:  time.Now(),
		}),
	}}
	handler := &recordingHandler{}
	consumer := events.NewConsumer(reader, events.TopicAnswerEvents, handler, discardLogger())

	require.NoError(t, consumer.Run(context.Background()))

	require.Len(t, handler.answerEvents, 1)
	assert.Equal(t, int64(10), handler.answerEvents[0].QuestionID)
	assert.Equal(t, int64(2), handler.answerEvents[0].UserID)
	assert.Len(t, reader.committed, 1)
}

func TestConsumer_UnknownEventType_WarnsAndContinues(t *testing.T) {
	reader := &scriptedReader{messages: []kafka.Message{
		message(t, events.TopicUserEvents, 0, map[string]interface{}{
			"eventType": "USER_TELEPORTED",
			"userId":    1,
		}),
		message(t, events.TopicUserEvents, 1, events.UserEvent{
			EventType: events.TypeUserSignedUp,
			UserID:    2,
			Username:  "quinn",
			Timestamp: time.Now(),
		}),
	}}
	handler := &recordingHandler{}
	consumer := events.NewConsumer(reader, events.TopicUserEvents, handler, discardLogger())

	require.NoError(t, consumer.Run(context.Background()))

	// The unknown event is dropped; the loop keeps going and both offsets commit.
	require.Len(t, handler.userEvents, 1)
	assert.Equal(t, int64(2), handler.userEvents[0].UserID)
	assert.Len(t, reader.committed, 2)
}

func TestConsumer_HandlerError_StillCommits(t *testing.T) {
	reader := &scriptedReader{messages: []kafka.Message{
		message(t, events.TopicNotificationEvents, 0, events.NotificationEvent{
			EventType:        events.TypeNotification,
			UserID:           9,
			NotificationType: events.NotificationWelcome,
			Message:          "hi",
			Timestamp:        time.Now(),
		}),
	}}
	handler := &recordingHandler{failWith: assert.AnError}
	consumer := events.NewConsumer(reader, events.TopicNotificationEvents, handler, discardLogger())

	require.NoError(t, consumer.Run(context.Background()))

	// No retry and no DLQ: the failed message's offset is committed anyway.
	assert.Len(t, reader.committed, 1)
}

func TestConsumer_DuplicateDelivery_SideEffectTwice(t *testing.T) {
	duplicate := message(t, events.TopicAnswerEvents, 3, events.AnswerEvent{
		EventType:  events.TypeAnswerCreated,
		AnswerID:   55,
		QuestionID: 10,
		UserID:     2,
		Timestamp:  time.Now(),
	})
	reader := &scriptedReader{messages: []kafka.Message{duplicate, duplicate}}
	handler := &recordingHandler{}
	consumer := events.NewConsumer(reader, events.TopicAnswerEvents, handler, discardLogger())

	require.NoError(t, consumer.Run(context.Background()))

	// At-least-once delivery with no dedup: the handler runs once per delivery.
	assert.Len(t, handler.answerEvents, 2)
}

func TestConsumer_UndecodablePayload_Dropped(t *testing.T) {
	reader := &scriptedReader{messages: []kafka.Message{
		{Topic: events.TopicAuditLogEvents, Offset: 0, Value: []byte("not json")},
	}}
	handler := &recordingHandler{}
	consumer := events.NewConsumer(reader, events.TopicAuditLogEvents, handler, discardLogger())

	require.NoError(t, consumer.Run(context.Background()))

	assert.Len(t, reader.committed, 1)
}

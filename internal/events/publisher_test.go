// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askora/askora/internal/events"
)

// captureWriter records every message instead of talking to a broker.
type captureWriter struct {
	messages []kafka.Message
	err      error
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishAnswerCreated_ExactlyOneMessage(t *testing.T) {
	writer := &captureWriter{}
	publisher := events.NewPublisher(writer, discardLogger())

	publisher.PublishAnswerCreated(context.Background(), 55, 10, 2)

	require.Len(t, writer.messages, 1)
	message := writer.messages[0]

	assert.Equal(t, events.TopicAnswerEvents, message.Topic)
	assert.Equal(t, "55", string(message.Key))

	var event events.AnswerEvent
	require.NoError(t, json.Unmarshal(message.Value, &event))
	assert.Equal(t, events.TypeAnswerCreated, event.EventType)
	assert.Equal(t, int64(55), event.AnswerID)
	assert.Equal(t, int64(10), event.QuestionID)
	assert.Equal(t, int64(2), event.UserID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestPublish_WireFieldNames(t *testing.T) {
	writer := &captureWriter{}
	publisher := events.NewPublisher(writer, discardLogger())

	publisher.PublishUserSignedUp(context.Background(), 3, "quinn", "quinn@askora.app")

	require.Len(t, writer.messages, 1)

	// Field names are a cross-service contract; decode into a raw map to pin them.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &raw))
	assert.Contains(t, raw, "eventType")
	assert.Contains(t, raw, "userId")
	assert.Contains(t, raw, "username")
	assert.Contains(t, raw, "email")
	assert.Contains(t, raw, "timestamp")
	assert.Equal(t, "USER_SIGNED_UP", raw["eventType"])
}

func TestPublish_PartitionKeyIsAggregateID(t *testing.T) {
	writer := &captureWriter{}
	publisher := events.NewPublisher(writer, discardLogger())

	publisher.PublishQuestionCreated(context.Background(), 9001, 4, "How do goroutines work?")
	publisher.PublishQuestionLiked(context.Background(), 4, 9001)
	publisher.PublishAuditLog(context.Background(), 4, "CREATE", "QUESTION", 9001, "created")

	require.Len(t, writer.messages, 3)
	assert.Equal(t, "9001", string(writer.messages[0].Key)) // keyed by question
	assert.Equal(t, "4", string(writer.messages[1].Key))    // keyed by user
	assert.Equal(t, "4", string(writer.messages[2].Key))    // keyed by user
}

func TestPublish_BrokerErrorIsSwallowed(t *testing.T) {
	writer := &captureWriter{err: errors.New("broker unreachable")}
	publisher := events.NewPublisher(writer, discardLogger())

	// The publisher must not panic or surface the error to the caller.
	assert.NotPanics(t, func() {
		publisher.PublishNotification(context.Background(), 1, events.NotificationWelcome, "hi")
	})
	assert.Empty(t, writer.messages)
}

// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

/*
Package kafka provides managed producers and consumers for the event bus.

It wraps segmentio/kafka-go with the delivery settings every Askora binary
shares, so domain code never configures brokers, balancers, or batching.

Delivery Contract:

  - Ordering: Hash balancer keys messages by aggregate ID, keeping all events
    for one aggregate on one partition.
  - Durability: RequiredAcks=all, 3 write attempts.
  - Throughput: 10ms linger with 32KiB batches, snappy-compressed.
*/
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/askora/askora/internal/platform/constants"
)

// Producer write-path tuning.
const (
	producerMaxAttempts  = 3
	producerBatchTimeout = 10 * time.Millisecond
	producerBatchBytes   = 32768
)

// Consumer fetch sizing.
const (
	consumerMinBytes = 1e3
	consumerMaxBytes = 10e6
)

// TopicSpec declares the shape of a topic the application depends on.
type TopicSpec struct {
	Name        string
	Partitions  int
	RetentionMS int64
}

// NewWriter builds the shared producer used for all outbound domain events.
//
// A single writer serves every topic; each message names its own topic.
func NewWriter(brokers []string) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		MaxAttempts:  producerMaxAttempts,
		BatchTimeout: producerBatchTimeout,
		BatchBytes:   producerBatchBytes,
		Compression:  kafka.Snappy,
		Transport: &kafka.Transport{
			ClientID: constants.AppName,
		},
	}

	return writer, nil
}

// NewReader builds a consumer-group reader for a single topic.
func NewReader(brokers []string, topic, groupID string) (*kafka.Reader, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if groupID == "" {
		return nil, errors.New("kafka: consumer group ID is required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: consumerMinBytes,
		MaxBytes: consumerMaxBytes,
	})

	return reader, nil
}

// EnsureTopics creates every declared topic on the cluster controller.
//
// Already-existing topics are tolerated, so all binaries can call this at
// startup regardless of boot order.
func EnsureTopics(ctx context.Context, brokers []string, specs []TopicSpec, logger *slog.Logger) error {
	if len(brokers) == 0 {
		return errors.New("kafka: at least one broker is required")
	}

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("kafka: failed to dial broker: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("kafka: failed to find controller: %w", err)
	}

	controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	controllerConn, err := kafka.DialContext(ctx, "tcp", controllerAddr)
	if err != nil {
		return fmt.Errorf("kafka: failed to dial controller: %w", err)
	}
	defer controllerConn.Close()

	configs := make([]kafka.TopicConfig, 0, len(specs))
	for _, spec := range specs {
		configs = append(configs, kafka.TopicConfig{
			Topic:             spec.Name,
			NumPartitions:     spec.Partitions,
			ReplicationFactor: 1,
			ConfigEntries: []kafka.ConfigEntry{
				{ConfigName: "retention.ms", ConfigValue: strconv.FormatInt(spec.RetentionMS, 10)},
			},
		})
	}

	if err := controllerConn.CreateTopics(configs...); err != nil {
		if errors.Is(err, kafka.TopicAlreadyExists) {
			logger.Debug("kafka topics already exist")
			return nil
		}
		return fmt.Errorf("kafka: failed to create topics: %w", err)
	}

	for _, spec := range specs {
		logger.Info("kafka topic ensured",
			slog.String("topic", spec.Name),
			slog.Int("partitions", spec.Partitions),
		)
	}

	return nil
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/config"
	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the Writer depends on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer exports committed alert snapshots to a Kafka topic.
// It implements pipeline.Sink.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		WriteTimeout: cfg.FetchTimeout,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one snapshot as a single message keyed by the source name,
// so snapshots from the same source stay ordered within a partition.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write snapshot %s: %w", snap.ID, err)
	}
	w.logger.Debug("snapshot published", "snapshot_id", snap.ID, "alerts", len(snap.Alerts))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.Source),
		Value: data,
		Time:  snap.FetchedAt,
		Headers: []kafkago.Header{
			{Key: "snapshot_id", Value: []byte(snap.ID)},
			{Key: "status", Value: []byte(snap.Status)},
			{Key: "seq", Value: []byte(strconv.FormatUint(snap.Seq, 10))},
			{Key: "fetched_at", Value: []byte(snap.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}

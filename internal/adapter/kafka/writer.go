package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lyndonwx/dashboard-service/internal/config"
	"github.com/lyndonwx/dashboard-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes accepted precipitation reports to the reports topic so
// downstream archival can consume them.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured reports topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes a single report event.
func (w *Writer) Publish(ctx context.Context, report domain.PrecipReport) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish report %s: %w", report.ID, err)
	}
	w.logger.Debug("report event published", "report_id", report.ID, "station", report.Station)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a PrecipReport into a Kafka message keyed by
// report ID, so replays of the same report land on the same partition.
func serializeToMessage(report domain.PrecipReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte(report.Station)},
			{Key: "submitted_at", Value: []byte(report.SubmittedAt.Format(time.RFC3339))},
		},
	}, nil
}

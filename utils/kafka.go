package utils

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sam0786-xyz/technova-backend/config"
)

var attendanceWriter *kafka.Writer

// AttendanceEvent is the message published on every successful check-in.
// The notification consumer turns it into in-app + push notifications.
type AttendanceEvent struct {
	UserID     uint      `json:"user_id"`
	EventID    uint      `json:"event_id"`
	EventTitle string    `json:"event_title"`
	XPAwarded  int       `json:"xp_awarded"`
	CheckedIn  time.Time `json:"checked_in_at"`
}

// InitializeKafka sets up the attendance-events writer. Kafka being down
// must never block check-ins, so the writer is fire-and-forget.
func InitializeKafka(cfg *config.Config) {
	if cfg.KafkaBrokers == "" {
		log.Println("ℹ️ KAFKA_BROKERS not set, attendance stream disabled")
		return
	}

	attendanceWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
		Topic:        cfg.KafkaAttendanceTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}

	log.Printf("✅ Kafka attendance writer ready (topic=%s)", cfg.KafkaAttendanceTopic)
}

// PublishAttendanceEvent emits one check-in to the stream. Best-effort:
// errors are logged and swallowed.
func PublishAttendanceEvent(ctx context.Context, ev AttendanceEvent) {
	if attendanceWriter == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("⚠️ Kafka marshal failed: %v", err)
		return
	}

	err = attendanceWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.EventID), 10)),
		Value: payload,
	})
	if err != nil {
		log.Printf("⚠️ Kafka publish failed: %v", err)
	}
}

// NewAttendanceReader builds the consumer used by the notification worker.
func NewAttendanceReader(cfg *config.Config) *kafka.Reader {
	if cfg.KafkaBrokers == "" {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		Topic:    cfg.KafkaAttendanceTopic,
		GroupID:  "notification-service",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

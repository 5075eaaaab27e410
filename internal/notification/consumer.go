package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/sam0786-xyz/technova-backend/utils"
)

// Consumer turns attendance-stream messages into notifications. It runs as
// a background goroutine for the lifetime of the process.
type Consumer struct {
	reader *kafka.Reader
	svc    Service
}

func NewConsumer(reader *kafka.Reader, svc Service) *Consumer {
	return &Consumer{reader: reader, svc: svc}
}

// Run blocks until the context is cancelled. A nil reader (Kafka disabled)
// returns immediately.
func (c *Consumer) Run(ctx context.Context) {
	if c.reader == nil {
		return
	}
	defer c.reader.Close()

	log.Println("✅ Notification consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("⚠️ Attendance stream read failed: %v", err)
			continue
		}

		var ev utils.AttendanceEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Printf("⚠️ Dropping malformed attendance message: %v", err)
			continue
		}

		title := "Check-in confirmed"
		body := fmt.Sprintf("You earned %d XP at %s. Keep it up!", ev.XPAwarded, ev.EventTitle)
		if err := c.svc.Notify(ctx, ev.UserID, &ev.EventID, title, body); err != nil {
			log.Printf("⚠️ Notification for user %d failed: %v", ev.UserID, err)
		}
	}
}

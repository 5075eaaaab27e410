package utils

import (
	"strings"
	"testing"

	"github.com/sam0786-xyz/technova-backend/config"
)

func TestSendWithoutSMTPConfigIsSkippedNotFailed(t *testing.T) {
	// Delivery must degrade to a no-op when SMTP is unconfigured, so a
	// bare dev environment never fails registrations over email.
	mailer := NewSMTPMailer(&config.Config{})
	if err := mailer.Send("someone@example.com", "subject", "<p>body</p>"); err != nil {
		t.Fatalf("Send without SMTP config: %v", err)
	}
}

func TestTicketEmailBodyEmbedsQR(t *testing.T) {
	body := TicketEmailBody("Asha Rao", "Cloud Native Day", "data:image/png;base64,abc")
	for _, want := range []string{"Asha Rao", "Cloud Native Day", `src="data:image/png;base64,abc"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

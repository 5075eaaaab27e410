package registration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/sam0786-xyz/technova-backend/config"
)

// PaymentGateway is the slice of the payment provider the ledger needs:
// create an order, verify a completed payment's signature.
type PaymentGateway interface {
	CreateOrder(amountMinor int64, notes map[string]interface{}) (orderID string, err error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type razorpayGateway struct {
	client *razorpay.Client
	secret string
}

func NewRazorpayGateway(cfg *config.Config) PaymentGateway {
	return &razorpayGateway{
		client: razorpay.NewClient(cfg.RazorpayKey, cfg.RazorpaySecret),
		secret: cfg.RazorpaySecret,
	}
}

func (g *razorpayGateway) CreateOrder(amountMinor int64, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":          amountMinor,
		"currency":        "INR",
		"payment_capture": 1,
		"notes":           notes,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order creation failed: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return "", errors.New("unable to extract order_id from Razorpay response")
	}
	return orderID, nil
}

// VerifySignature checks the HMAC-SHA256 of "orderID|paymentID" that
// Razorpay hands back after a successful checkout.
func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

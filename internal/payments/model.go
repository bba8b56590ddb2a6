package payments

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

type Payment struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SubscriptionID *string   `json:"subscription_id,omitempty"`
	Amount         float64   `json:"amount"`
	PaymentMethod  string    `json:"payment_method"`
	TransactionID  string    `json:"transaction_id"`
	PromoCode      string    `json:"promo_code,omitempty"`
	Discount       float64   `json:"discount"`
	Status         string    `json:"status"` // pending, completed, failed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTransactionID mints a transaction reference, a millisecond
// timestamp plus nine random base36 characters.
func NewTransactionID() string {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return fmt.Sprintf("TXN%d%s", time.Now().UnixMilli(), b.String())
}

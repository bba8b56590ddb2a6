package payments

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
	"github.com/sudo-init-do/gigmarket/internal/tasks"
)

// Payments settle after a short simulated gateway delay.
const settlementDelay = 2 * time.Second

const promoDiscountPercent = 10

type processPaymentRequest struct {
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod  string  `json:"payment_method" validate:"required,oneof=easypaisa jazzcash card"`
	SubscriptionID *string `json:"subscription_id"`
	PromoCode      string  `json:"promo_code"`
}

// Process records a pending payment and schedules its settlement. A promo
// code takes a flat percentage off the amount.
func Process(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)

	req := new(processPaymentRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Invalid payment",
			"message": "Provide a positive amount and a supported payment method",
		})
	}

	var discount float64
	amount := req.Amount
	if req.PromoCode != "" {
		discount = req.Amount * promoDiscountPercent / 100
		amount = req.Amount - discount
	}

	p := &Payment{
		ID:             uuid.New().String(),
		UserID:         userID,
		SubscriptionID: req.SubscriptionID,
		Amount:         amount,
		PaymentMethod:  req.PaymentMethod,
		TransactionID:  NewTransactionID(),
		PromoCode:      req.PromoCode,
		Discount:       discount,
		Status:         "pending",
	}

	err := db.Conn.QueryRow(context.Background(),
		`INSERT INTO payments (id, user_id, subscription_id, amount, payment_method,
			transaction_id, promo_code, discount, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.SubscriptionID, p.Amount, p.PaymentMethod,
		p.TransactionID, p.PromoCode, p.Discount, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.Logger().Errorf("process payment: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to process payment"})
	}

	if err := tasks.EnqueuePaymentCompletion(p.ID, settlementDelay); err != nil {
		c.Logger().Errorf("schedule settlement: %v", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":        true,
		"message":        "Payment is being processed",
		"transaction_id": p.TransactionID,
		"amount":         p.Amount,
		"payment":        p,
	})
}

const paymentColumns = `id, user_id, subscription_id, amount, payment_method,
	transaction_id, COALESCE(promo_code, ''), discount, status, created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	p := new(Payment)
	err := row.Scan(
		&p.ID, &p.UserID, &p.SubscriptionID, &p.Amount, &p.PaymentMethod,
		&p.TransactionID, &p.PromoCode, &p.Discount, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// History lists the caller's payments, newest first.
func History(c echo.Context) error {
	userID := c.Param("userId")
	if tokenUser, _ := c.Get("user_id").(string); tokenUser != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "You can only view your own payment history"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		c.Logger().Errorf("payment history: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get payment history"})
	}
	defer rows.Close()

	history := []*Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			c.Logger().Errorf("scan payment: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get payment history"})
		}
		history = append(history, p)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "payments": history})
}

// Verify reports the settlement status of one transaction.
func Verify(c echo.Context) error {
	transactionID := c.Param("transactionId")

	var status string
	var amount float64
	err := db.Conn.QueryRow(context.Background(),
		`SELECT status, amount FROM payments WHERE transaction_id = $1`, transactionID,
	).Scan(&status, &amount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found", "message": "Transaction does not exist"})
		}
		c.Logger().Errorf("verify payment: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to verify payment"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"status":         status,
		"amount":         amount,
		"transaction_id": transactionID,
	})
}

// Fees returns the fee breakdown for an order amount without moving
// money, for checkout previews.
func Fees(c echo.Context) error {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	breakdown, err := CalculateFees(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid amount", "message": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "fees": breakdown})
}

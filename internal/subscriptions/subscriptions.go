package subscriptions

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

// Sellers past this annual order volume can skip the subscription.
const eligibilityOrdersThreshold = 1000.0

type Subscription struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Plan              string    `json:"plan"`   // essential, premium
	Status            string    `json:"status"` // active, cancelled, expired
	Price             float64   `json:"price"`
	BillingCycle      string    `json:"billing_cycle"` // monthly, yearly
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	AutoRenew         bool      `json:"auto_renew"`
	PaymentMethod     string    `json:"payment_method"` // easypaisa, jazzcash, card
	AnnualOrdersValue float64   `json:"annual_orders_value"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

const subscriptionColumns = `id, user_id, plan, status, price, billing_cycle,
	start_date, end_date, auto_renew, payment_method, annual_orders_value,
	created_at, updated_at`

func scanSubscription(row pgx.Row) (*Subscription, error) {
	s := new(Subscription)
	err := row.Scan(
		&s.ID, &s.UserID, &s.Plan, &s.Status, &s.Price, &s.BillingCycle,
		&s.StartDate, &s.EndDate, &s.AutoRenew, &s.PaymentMethod,
		&s.AnnualOrdersValue, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the caller's active subscription.
func Get(c echo.Context) error {
	userID := c.Param("userId")
	if tokenUser, _ := c.Get("user_id").(string); tokenUser != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "You can only view your own subscription"})
	}

	s, err := scanSubscription(db.Conn.QueryRow(context.Background(),
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE user_id = $1 AND status = 'active'
		 ORDER BY created_at DESC LIMIT 1`, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found", "message": "No active subscription found"})
		}
		c.Logger().Errorf("get subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get subscription"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "subscription": s})
}

type createSubscriptionRequest struct {
	UserID        string  `json:"user_id" validate:"required"`
	Plan          string  `json:"plan" validate:"required,oneof=essential premium"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	BillingCycle  string  `json:"billing_cycle" validate:"required,oneof=monthly yearly"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=easypaisa jazzcash card"`
	AutoRenew     bool    `json:"auto_renew"`
}

// Create starts a subscription and flips the user's subscription status
// in the same transaction. One active subscription per user.
func Create(c echo.Context) error {
	req := new(createSubscriptionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Missing required fields",
			"message": "Please provide user_id, plan, price, billing_cycle and payment_method",
		})
	}

	ctx := context.Background()

	// The user must exist before the insert, or the FK on
	// subscriptions.user_id surfaces as a 500 instead of a 404.
	var userExists bool
	if err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, req.UserID,
	).Scan(&userExists); err != nil {
		c.Logger().Errorf("create subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create subscription"})
	}
	if !userExists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "User does not exist"})
	}

	var exists bool
	if err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE user_id = $1 AND status = 'active')`,
		req.UserID,
	).Scan(&exists); err != nil {
		c.Logger().Errorf("create subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create subscription"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Subscription exists",
			"message": "User already has an active subscription",
		})
	}

	now := time.Now()
	end := now.AddDate(0, 1, 0)
	if req.BillingCycle == "yearly" {
		end = now.AddDate(1, 0, 0)
	}

	s := &Subscription{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Plan:          req.Plan,
		Status:        "active",
		Price:         req.Price,
		BillingCycle:  req.BillingCycle,
		StartDate:     now,
		EndDate:       end,
		AutoRenew:     req.AutoRenew,
		PaymentMethod: req.PaymentMethod,
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		c.Logger().Errorf("create subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create subscription"})
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO subscriptions (id, user_id, plan, status, price, billing_cycle,
			start_date, end_date, auto_renew, payment_method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at, updated_at`,
		s.ID, s.UserID, s.Plan, s.Status, s.Price, s.BillingCycle,
		s.StartDate, s.EndDate, s.AutoRenew, s.PaymentMethod,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		c.Logger().Errorf("create subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create subscription"})
	}

	res, err := tx.Exec(ctx,
		`UPDATE users SET subscription_status = 'premium', subscription_id = $2, updated_at = NOW()
		 WHERE id = $1`, s.UserID, s.ID)
	if err != nil || res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "User does not exist"})
	}

	if err := tx.Commit(ctx); err != nil {
		c.Logger().Errorf("create subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create subscription"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Subscription created successfully",
		"subscription": s,
	})
}

// Cancel ends a subscription and turns off auto renewal. The user's
// status follows in the same transaction.
func Cancel(c echo.Context) error {
	subscriptionID := c.Param("subscriptionId")

	ctx := context.Background()

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		c.Logger().Errorf("cancel subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to cancel subscription"})
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx,
		`UPDATE subscriptions SET status = 'cancelled', auto_renew = FALSE, updated_at = NOW()
		 WHERE id = $1 RETURNING user_id`, subscriptionID,
	).Scan(&userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found", "message": "Subscription does not exist"})
		}
		c.Logger().Errorf("cancel subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to cancel subscription"})
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET subscription_status = 'cancelled', updated_at = NOW() WHERE id = $1`,
		userID); err != nil {
		c.Logger().Errorf("cancel subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to cancel subscription"})
	}

	if err := tx.Commit(ctx); err != nil {
		c.Logger().Errorf("cancel subscription: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to cancel subscription"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Subscription cancelled successfully"})
}

// CheckEligibility reports whether a seller must subscribe to keep
// selling. Sellers clearing the annual order volume threshold are exempt.
func CheckEligibility(c echo.Context) error {
	userID := c.Param("userId")

	ctx := context.Background()

	var exists bool
	if err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists); err != nil || !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found", "message": "User does not exist"})
	}

	var ordersValue float64
	var hasActive bool
	err := db.Conn.QueryRow(ctx,
		`SELECT annual_orders_value, TRUE FROM subscriptions
		 WHERE user_id = $1 AND status = 'active'
		 ORDER BY created_at DESC LIMIT 1`, userID,
	).Scan(&ordersValue, &hasActive)
	if err != nil && err != pgx.ErrNoRows {
		c.Logger().Errorf("check eligibility: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to check eligibility"})
	}

	eligible := !hasActive || ordersValue >= eligibilityOrdersThreshold

	return c.JSON(http.StatusOK, echo.Map{
		"success":               true,
		"eligible":              eligible,
		"current_orders_value":  ordersValue,
		"required_orders_value": eligibilityOrdersThreshold,
	})
}

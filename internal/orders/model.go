package orders

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	StatusActive     = "active"
	StatusInRevision = "in_revision"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Deliverable is one work submission by the seller.
type Deliverable struct {
	Message     string    `json:"message"`
	Files       []string  `json:"files"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RevisionRequest records the buyer asking for changes.
type RevisionRequest struct {
	Message     string    `json:"message"`
	RequestedAt time.Time `json:"requested_at"`
}

type Order struct {
	OrderID        string `json:"order_id"`
	GigID          string `json:"gig_id"`
	GigTitle       string `json:"gig_title"`
	SellerID       string `json:"seller_id"`
	SellerUsername string `json:"seller_username"`
	BuyerID        string `json:"buyer_id"`
	BuyerUsername  string `json:"buyer_username"`

	Package      string  `json:"package"` // basic, standard, premium
	Price        float64 `json:"price"`
	DeliveryTime int     `json:"delivery_time"`
	Description  string  `json:"description"`
	Requirements string  `json:"requirements"`

	Status             string            `json:"status"`
	Deliverables       []Deliverable     `json:"deliverables"`
	RevisionRequests   []RevisionRequest `json:"revision_requests"`
	DueDate            time.Time         `json:"due_date"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrderID mints a human-readable order reference, a millisecond
// timestamp plus a random suffix.
func NewOrderID() string {
	return fmt.Sprintf("ORD%d%d", time.Now().UnixMilli(), rand.IntN(1000))
}

// DueDate is the delivery deadline counted in whole days from placement.
func DueDate(now time.Time, deliveryDays int) time.Time {
	return now.AddDate(0, 0, deliveryDays)
}

// CanSubmitWork reports whether an order is in a state that accepts a
// delivery. Completed and cancelled orders are closed for submissions.
func CanSubmitWork(status string) bool {
	return status == StatusActive || status == StatusInRevision
}

func jsonValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

const orderColumns = `order_id, gig_id, gig_title, seller_id, seller_username,
	buyer_id, buyer_username, package, price, delivery_time, description, requirements,
	status, deliverables, revision_requests, due_date, completed_at, cancelled_at,
	COALESCE(cancellation_reason, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	o := new(Order)
	err := row.Scan(
		&o.OrderID, &o.GigID, &o.GigTitle, &o.SellerID, &o.SellerUsername,
		&o.BuyerID, &o.BuyerUsername, &o.Package, &o.Price, &o.DeliveryTime,
		&o.Description, &o.Requirements,
		&o.Status, &o.Deliverables, &o.RevisionRequests, &o.DueDate,
		&o.CompletedAt, &o.CancelledAt, &o.CancellationReason,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if o.Deliverables == nil {
		o.Deliverables = []Deliverable{}
	}
	if o.RevisionRequests == nil {
		o.RevisionRequests = []RevisionRequest{}
	}
	return o, nil
}

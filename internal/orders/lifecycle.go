package orders

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
	"github.com/sudo-init-do/gigmarket/internal/uploads"
)

const (
	maxDeliverableFiles = 10
	maxDeliverableSize  = 50 << 20
)

// SubmitWork records a seller delivery and marks the order completed.
// Acceptance is implicit: the buyer reopens the order with a revision
// request if the work falls short.
func SubmitWork(c echo.Context) error {
	orderID := c.Param("orderId")

	ctx := context.Background()

	var sellerID, buyerID, status string
	err := db.Conn.QueryRow(ctx,
		`SELECT seller_id, buyer_id, status FROM orders WHERE order_id = $1`, orderID,
	).Scan(&sellerID, &buyerID, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found", "message": "Order does not exist"})
		}
		c.Logger().Errorf("submit work: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to submit work"})
	}
	if userID, _ := c.Get("user_id").(string); userID != sellerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "Only the order's seller can submit work"})
	}
	if !CanSubmitWork(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Invalid order status",
			"message": "Work can only be submitted for active or in-revision orders",
		})
	}

	message := c.FormValue("message")

	var files []string
	if form, err := c.MultipartForm(); err == nil {
		attachments := form.File["files"]
		if len(attachments) > maxDeliverableFiles {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Too many files", "message": "A maximum of 10 files is allowed"})
		}
		for _, fh := range attachments {
			if fh.Size > maxDeliverableSize {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "File too large", "message": "Each file must be 50MB or less"})
			}
			path, err := uploads.SaveFile(fh, "deliverables", "deliverable")
			if err != nil {
				c.Logger().Errorf("save deliverable: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to save uploaded file"})
			}
			files = append(files, path)
		}
	}
	if files == nil {
		files = []string{}
	}

	deliverable := Deliverable{Message: message, Files: files, SubmittedAt: time.Now()}

	o, err := scanOrder(db.Conn.QueryRow(ctx,
		`UPDATE orders SET
			deliverables = deliverables || $2::jsonb,
			status = 'completed',
			completed_at = NOW(),
			updated_at = NOW()
		 WHERE order_id = $1
		 RETURNING `+orderColumns,
		orderID, jsonValue([]Deliverable{deliverable})))
	if err != nil {
		c.Logger().Errorf("submit work: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to submit work"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Work submitted successfully",
		"order":   o,
	})
}

type revisionRequest struct {
	Message string `json:"message" validate:"required"`
}

// RequestRevision reopens an order for rework, from any state. Only the
// buyer can ask for changes.
func RequestRevision(c echo.Context) error {
	orderID := c.Param("orderId")

	req := new(revisionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing message", "message": "A revision message is required"})
	}

	ctx := context.Background()

	var buyerID string
	err := db.Conn.QueryRow(ctx, `SELECT buyer_id FROM orders WHERE order_id = $1`, orderID).Scan(&buyerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found", "message": "Order does not exist"})
		}
		c.Logger().Errorf("request revision: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to request revision"})
	}
	if userID, _ := c.Get("user_id").(string); userID != buyerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "Only the order's buyer can request a revision"})
	}

	revision := RevisionRequest{Message: req.Message, RequestedAt: time.Now()}

	o, err := scanOrder(db.Conn.QueryRow(ctx,
		`UPDATE orders SET
			revision_requests = revision_requests || $2::jsonb,
			status = 'in_revision',
			updated_at = NOW()
		 WHERE order_id = $1
		 RETURNING `+orderColumns,
		orderID, jsonValue([]RevisionRequest{revision})))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found", "message": "Order does not exist"})
		}
		c.Logger().Errorf("request revision: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to request revision"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Revision requested successfully",
		"order":   o,
	})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel closes an order with an optional reason, from any state. Either
// party can cancel.
func Cancel(c echo.Context) error {
	orderID := c.Param("orderId")

	req := new(cancelRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := context.Background()

	var sellerID, buyerID string
	err := db.Conn.QueryRow(ctx, `SELECT seller_id, buyer_id FROM orders WHERE order_id = $1`, orderID).Scan(&sellerID, &buyerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found", "message": "Order does not exist"})
		}
		c.Logger().Errorf("cancel order: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to cancel order"})
	}
	if userID, _ := c.Get("user_id").(string); userID != sellerID && userID != buyerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "Only the order's buyer or seller can cancel it"})
	}

	o, err := scanOrder(db.Conn.QueryRow(ctx,
		`UPDATE orders SET
			status = 'cancelled',
			cancelled_at = NOW(),
			cancellation_reason = $2,
			updated_at = NOW()
		 WHERE order_id = $1
		 RETURNING `+orderColumns,
		orderID, req.Reason))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found", "message": "Order does not exist"})
		}
		c.Logger().Errorf("cancel order: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to cancel order"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Order cancelled successfully",
		"order":   o,
	})
}

package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/gigmarket/internal/db"
	"github.com/sudo-init-do/gigmarket/internal/db/dbtest"
	"github.com/sudo-init-do/gigmarket/internal/validation"
)

func seedOrder(t *testing.T, orderID, sellerID, buyerID, status string) {
	t.Helper()
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO orders (order_id, gig_id, gig_title, seller_id, buyer_id,
			package, price, delivery_time, status, due_date)
		 VALUES ($1, 'g1', 'logo design', $2, $3, 'basic', 50, 3, $4, NOW() + INTERVAL '3 days')`,
		orderID, sellerID, buyerID, status)
	require.NoError(t, err)
}

func submitRequest(e *echo.Echo, orderID, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("message=all+done"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderId")
	c.SetParamValues(orderID)
	c.Set("user_id", userID)
	return c, rec
}

// A delivery completes the order outright, whether it is the first
// submission or a rework after a revision request.
func TestSubmitWorkCompletesOrder(t *testing.T) {
	dbtest.Setup(t)
	e := echo.New()

	for _, status := range []string{StatusActive, StatusInRevision} {
		orderID := NewOrderID()
		seedOrder(t, orderID, "s1", "b1", status)

		c, rec := submitRequest(e, orderID, "s1")
		require.NoError(t, SubmitWork(c))
		require.Equal(t, http.StatusOK, rec.Code, "from status %s", status)

		var body struct {
			Order Order `json:"order"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, StatusCompleted, body.Order.Status)
		assert.NotNil(t, body.Order.CompletedAt)
		require.Len(t, body.Order.Deliverables, 1)
		assert.Equal(t, "all done", body.Order.Deliverables[0].Message)
	}
}

func TestSubmitWorkRejectsClosedOrders(t *testing.T) {
	dbtest.Setup(t)
	e := echo.New()

	for _, status := range []string{StatusCompleted, StatusCancelled} {
		orderID := NewOrderID()
		seedOrder(t, orderID, "s1", "b1", status)

		c, rec := submitRequest(e, orderID, "s1")
		require.NoError(t, SubmitWork(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "from status %s", status)
	}
}

func TestLifecycleOwnership(t *testing.T) {
	dbtest.Setup(t)
	e := echo.New()
	e.Validator = validation.New()

	seedOrder(t, "ORD1", "s1", "b1", StatusActive)

	// Only the seller delivers.
	c, rec := submitRequest(e, "ORD1", "b1")
	require.NoError(t, SubmitWork(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	jsonReq := func(handler echo.HandlerFunc, userID, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("orderId")
		c.SetParamValues("ORD1")
		c.Set("user_id", userID)
		require.NoError(t, handler(c))
		return rec
	}

	// Only the buyer reopens.
	assert.Equal(t, http.StatusForbidden, jsonReq(RequestRevision, "s1", `{"message":"redo"}`).Code)

	// Outsiders cancel nothing; either party can.
	assert.Equal(t, http.StatusForbidden, jsonReq(Cancel, "stranger", `{"reason":"nope"}`).Code)
	assert.Equal(t, http.StatusOK, jsonReq(Cancel, "b1", `{"reason":"changed my mind"}`).Code)

	var status string
	require.NoError(t, db.Conn.QueryRow(context.Background(),
		`SELECT status FROM orders WHERE order_id = 'ORD1'`).Scan(&status))
	assert.Equal(t, StatusCancelled, status)
}

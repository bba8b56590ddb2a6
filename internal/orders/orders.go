package orders

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

type createOrderRequest struct {
	GigID          string  `json:"gig_id" validate:"required"`
	GigTitle       string  `json:"gig_title" validate:"required"`
	SellerID       string  `json:"seller_id" validate:"required"`
	SellerUsername string  `json:"seller_username" validate:"required"`
	BuyerID        string  `json:"buyer_id" validate:"required"`
	BuyerUsername  string  `json:"buyer_username" validate:"required"`
	Package        string  `json:"package" validate:"required,oneof=basic standard premium"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	DeliveryTime   int     `json:"delivery_time" validate:"required,gt=0"`
	Description    string  `json:"description"`
	Requirements   string  `json:"requirements"`
}

// Create places an order for one gig package. The due date is computed
// from the package delivery time; the order starts active.
func Create(c echo.Context) error {
	req := new(createOrderRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Missing required fields",
			"message": "Please provide gig, seller, buyer, package, price and delivery time",
		})
	}

	now := time.Now()
	o := &Order{
		OrderID:          NewOrderID(),
		GigID:            req.GigID,
		GigTitle:         req.GigTitle,
		SellerID:         req.SellerID,
		SellerUsername:   req.SellerUsername,
		BuyerID:          req.BuyerID,
		BuyerUsername:    req.BuyerUsername,
		Package:          req.Package,
		Price:            req.Price,
		DeliveryTime:     req.DeliveryTime,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Status:           StatusActive,
		Deliverables:     []Deliverable{},
		RevisionRequests: []RevisionRequest{},
		DueDate:          DueDate(now, req.DeliveryTime),
	}

	err := db.Conn.QueryRow(context.Background(),
		`INSERT INTO orders (order_id, gig_id, gig_title, seller_id, seller_username,
			buyer_id, buyer_username, package, price, delivery_time, description,
			requirements, status, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at, updated_at`,
		o.OrderID, o.GigID, o.GigTitle, o.SellerID, o.SellerUsername,
		o.BuyerID, o.BuyerUsername, o.Package, o.Price, o.DeliveryTime,
		o.Description, o.Requirements, o.Status, o.DueDate,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		c.Logger().Errorf("create order: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create order"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Order created successfully",
		"order":   o,
	})
}

// Get returns one order by its reference.
func Get(c echo.Context) error {
	orderID := c.Param("orderId")

	o, err := scanOrder(db.Conn.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found", "message": "Order does not exist"})
		}
		c.Logger().Errorf("get order: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get order"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": o})
}

func listOrders(c echo.Context, column, id string) error {
	rows, err := db.Conn.Query(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE `+column+` = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		c.Logger().Errorf("list orders: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get orders"})
	}
	defer rows.Close()

	ordersList := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			c.Logger().Errorf("scan order: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get orders"})
		}
		ordersList = append(ordersList, o)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": ordersList})
}

// ListBySeller returns a seller's orders, newest first.
func ListBySeller(c echo.Context) error {
	return listOrders(c, "seller_id", c.Param("sellerId"))
}

// ListByBuyer returns a buyer's orders, newest first.
func ListByBuyer(c echo.Context) error {
	return listOrders(c, "buyer_id", c.Param("buyerId"))
}

package gigs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

const featuredLimit = 12

// Featured returns the top active gigs ranked by demand, for the landing
// page carousel.
func Featured(c echo.Context) error {
	query := fmt.Sprintf(
		`SELECT %s%s FROM gigs g JOIN users u ON u.id = g.seller_id
		 WHERE g.is_active AND g.status = 'active'
		 ORDER BY g.orders_count DESC, g.saves DESC LIMIT %d`,
		prefixed(gigColumns), sellerJoinColumns, featuredLimit)

	rows, err := db.Conn.Query(context.Background(), query)
	if err != nil {
		c.Logger().Errorf("featured gigs: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get featured gigs"})
	}
	defer rows.Close()

	gigsList := []*Gig{}
	for rows.Next() {
		g, err := scanGigWithSeller(rows)
		if err != nil {
			c.Logger().Errorf("scan gig: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get featured gigs"})
		}
		gigsList = append(gigsList, g)
	}

	return c.JSON(http.StatusOK, echo.Map{"gigs": gigsList})
}

package gigs

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

// TrackSave bumps the save counter. The endpoint always reports success;
// a lost save count is not worth surfacing to the client.
func TrackSave(c echo.Context) error {
	gigID := c.Param("id")

	if _, err := db.Conn.Exec(context.Background(),
		`UPDATE gigs SET saves = saves + 1 WHERE id = $1`, gigID); err != nil {
		c.Logger().Errorf("save count: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Save count updated"})
}

// TrackOrder bumps the order counter and recomputes the stored conversion
// rate in the same statement, so concurrent orders never clobber each
// other's rate.
func TrackOrder(c echo.Context) error {
	gigID := c.Param("id")

	res, err := db.Conn.Exec(context.Background(),
		`UPDATE gigs SET
			orders_count = orders_count + 1,
			conversion_rate = CASE
				WHEN clicks > 0 THEN to_char(round((orders_count + 1)::numeric / clicks * 100, 2), 'FM999999990.00')
				ELSE conversion_rate
			END,
			updated_at = NOW()
		 WHERE id = $1`, gigID)
	if err != nil {
		c.Logger().Errorf("order count: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to update order count"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Gig not found", "message": "Gig does not exist"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Order count updated"})
}

// loadViews fetches the per-day view history for a set of gigs.
func loadViews(ctx context.Context, gigIDs []string) (map[string][]DailyView, error) {
	rows, err := db.Conn.Query(ctx,
		`SELECT gig_id, to_char(view_date, 'YYYY-MM-DD'), count
		 FROM gig_views WHERE gig_id = ANY($1) ORDER BY view_date`, gigIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make(map[string][]DailyView, len(gigIDs))
	for rows.Next() {
		var gigID string
		var v DailyView
		if err := rows.Scan(&gigID, &v.Date, &v.Count); err != nil {
			return nil, err
		}
		views[gigID] = append(views[gigID], v)
	}
	return views, rows.Err()
}

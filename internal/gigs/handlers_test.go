package gigs

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

func seedSeller(t *testing.T, id, username string) {
	t.Helper()
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO users (id, username, email, password, user_type)
		 VALUES ($1, $2, $3, 'x', 'seller')`,
		id, username, username+"@example.com")
	require.NoError(t, err)
}

func seedGig(t *testing.T, id, sellerID, title string) {
	t.Helper()
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO gigs (id, seller_id, title, description, category, packages, price, delivery_time, is_active, status)
		 VALUES ($1, $2, $3, 'desc', 'design', '{"basic":{"price":50,"delivery_time":3}}', 50, 3, TRUE, 'active')`,
		id, sellerID, title)
	require.NoError(t, err)
}

func gigRequest(e *echo.Echo, method, gigID, userID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(gigID)
	c.Set("user_id", userID)
	c.Set("user_type", "seller")
	return c, rec
}

// A deleted gig leaves browsing but stays retrievable by id.
func TestDeleteKeepsGigRetrievable(t *testing.T) {
	dbtest.Setup(t)
	seedSeller(t, "s1", "tessa")
	seedGig(t, "g1", "s1", "logo design")

	e := echo.New()

	c, rec := gigRequest(e, http.MethodDelete, "g1", "s1", "")
	require.NoError(t, Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Gone from browsing.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	listRec := httptest.NewRecorder()
	require.NoError(t, List(e.NewContext(req, listRec)))
	require.Equal(t, http.StatusOK, listRec.Code)
	var listBody struct {
		Gigs []Gig `json:"gigs"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listBody))
	assert.Empty(t, listBody.Gigs)

	// Still retrievable by id, flagged inactive.
	c, rec = gigRequest(e, http.MethodGet, "g1", "s1", "")
	require.NoError(t, Get(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var getBody struct {
		Gig Gig `json:"gig"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &getBody))
	assert.Equal(t, "g1", getBody.Gig.ID)
	assert.False(t, getBody.Gig.IsActive)
	assert.Equal(t, "paused", getBody.Gig.Status)
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	dbtest.Setup(t)
	seedSeller(t, "s1", "owner")
	seedSeller(t, "s2", "intruder")
	seedGig(t, "g1", "s1", "logo design")

	e := echo.New()
	e.Validator = validation.New()

	c, rec := gigRequest(e, http.MethodPut, "g1", "s2", `{"title":"hijacked"}`)
	require.NoError(t, Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = gigRequest(e, http.MethodDelete, "g1", "s2", "")
	require.NoError(t, Delete(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Untouched.
	var title string
	var active bool
	require.NoError(t, db.Conn.QueryRow(context.Background(),
		`SELECT title, is_active FROM gigs WHERE id = 'g1'`).Scan(&title, &active))
	assert.Equal(t, "logo design", title)
	assert.True(t, active)
}

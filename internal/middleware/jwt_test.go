package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/gigmarket/internal/auth"
	"github.com/sudo-init-do/gigmarket/internal/config"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":   c.Get("user_id"),
		"user_type": c.Get("user_type"),
	})
}

func TestJWTMissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWT(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTBadFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWT(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTValidToken(t *testing.T) {
	config.C.JWTSecret = "test-secret"
	config.C.TokenTTL = time.Hour

	signed, err := auth.IssueToken("user-9", "buyer")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = JWT(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-9", c.Get("user_id"))
	assert.Equal(t, "buyer", c.Get("user_type"))
}

func TestRequireUserType(t *testing.T) {
	e := echo.New()

	run := func(userType string, allowed ...string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if userType != "" {
			c.Set("user_type", userType)
		}
		err := RequireUserType(allowed...)(okHandler)(c)
		require.NoError(t, err)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run("seller", "seller"))
	assert.Equal(t, http.StatusForbidden, run("buyer", "seller"))
	assert.Equal(t, http.StatusForbidden, run("", "seller"))
	assert.Equal(t, http.StatusOK, run("buyer", "seller", "buyer"))
}

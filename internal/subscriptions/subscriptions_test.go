package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/gigmarket/internal/db/dbtest"
	"github.com/sudo-init-do/gigmarket/internal/validation"
)

func TestGetRequiresOwnSubscription(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("u1")
	c.Set("user_id", "u2")

	require.NoError(t, Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateUnknownUserNotFound(t *testing.T) {
	dbtest.Setup(t)

	e := echo.New()
	e.Validator = validation.New()

	body := `{"user_id":"ghost","plan":"essential","price":29.99,"billing_cycle":"monthly","payment_method":"card"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/gigmarket/internal/config"
	"github.com/sudo-init-do/gigmarket/internal/db/dbtest"
	"github.com/sudo-init-do/gigmarket/internal/validation"
)

func newAPI() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

func postJSON(t *testing.T, e *echo.Echo, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler(c))
	return rec
}

func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestSignupRejectsDuplicates(t *testing.T) {
	dbtest.Setup(t)
	config.C.JWTSecret = "test-secret"
	config.C.TokenTTL = time.Hour

	e := newAPI()

	rec := postJSON(t, e, Signup,
		`{"email":"ana@example.com","password":"secret1","username":"ana","role":"client"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same email, different username.
	rec = postJSON(t, e, Signup,
		`{"email":"ana@example.com","password":"secret1","username":"ana2","role":"client"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", responseMessage(t, rec))

	// Same username, different email.
	rec = postJSON(t, e, Signup,
		`{"email":"other@example.com","password":"secret1","username":"ana","role":"client"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already taken", responseMessage(t, rec))
}

// An unknown account and a wrong password must be indistinguishable to
// the caller.
func TestLoginGenericUnauthorized(t *testing.T) {
	dbtest.Setup(t)
	config.C.JWTSecret = "test-secret"
	config.C.TokenTTL = time.Hour

	e := newAPI()

	rec := postJSON(t, e, Signup,
		`{"email":"bob@example.com","password":"secret1","username":"bob","role":"freelancer"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	unknown := postJSON(t, e, Login,
		`{"email_or_username":"nobody@example.com","password":"secret1"}`)
	wrongPassword := postJSON(t, e, Login,
		`{"email_or_username":"bob@example.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.JSONEq(t, unknown.Body.String(), wrongPassword.Body.String())
}

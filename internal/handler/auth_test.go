package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/config"
	mw "github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/middleware"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/session"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/store"
)

func newAuthHandler() (*AuthHandler, *store.Memory, *session.Memory) {
	st := store.NewMemory()
	ss := session.NewMemory()
	cfg := config.Config{
		Env:        "test",
		BcryptCost: 4, // bcrypt.MinCost: keep the test suite fast
		SessionTTL: time.Hour,
	}
	return NewAuthHandler(cfg, st, ss, zerolog.Nop()), st, ss
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == mw.CookieName {
			return ck
		}
	}
	return nil
}

func TestAuth_RegisterCreatesAccountAndSession(t *testing.T) {
	h, _, ss := newAuthHandler()
	e := echo.New()

	c, rec := postJSON(e, "/v1/auth/register", `{"login":"Alice","password":"supersecret"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["id"])
	assert.Equal(t, "alice", resp["login"], "login is normalized")
	assert.Equal(t, "PROVIDER", resp["role"])
	assert.NotContains(t, rec.Body.String(), "password", "credential must not be serialized")

	ck := sessionCookie(rec)
	require.NotNil(t, ck, "registration must open a session")
	assert.True(t, ck.HttpOnly)
	id, err := ss.Resolve(c.Request().Context(), ck.Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestAuth_RegisterValidation(t *testing.T) {
	h, _, _ := newAuthHandler()
	e := echo.New()

	cases := []struct {
		name string
		body string
	}{
		{"missing login", `{"password":"supersecret"}`},
		{"missing password", `{"login":"alice"}`},
		{"short password", `{"login":"alice","password":"short"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(e, "/v1/auth/register", tc.body)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAuth_RegisterDuplicateLoginIsGeneric(t *testing.T) {
	h, _, _ := newAuthHandler()
	e := echo.New()

	c, rec := postJSON(e, "/v1/auth/register", `{"login":"alice","password":"supersecret"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON(e, "/v1/auth/register", `{"login":"alice","password":"othersecret"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "alice", "response must not echo the login")
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "exists")
}

func TestAuth_LoginFailuresAreIndistinguishable(t *testing.T) {
	h, _, _ := newAuthHandler()
	e := echo.New()

	c, rec := postJSON(e, "/v1/auth/register", `{"login":"alice","password":"supersecret"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Wrong password on an existing account.
	c, wrongPw := postJSON(e, "/v1/auth/login", `{"login":"alice","password":"wrongsecret"}`)
	require.NoError(t, h.Login(c))
	// Unknown account entirely.
	c, unknown := postJSON(e, "/v1/auth/login", `{"login":"mallory","password":"wrongsecret"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String(),
		"bad password and unknown login must be byte-identical")
	assert.Nil(t, sessionCookie(wrongPw))
	assert.Nil(t, sessionCookie(unknown))
}

func TestAuth_LoginSuccessOpensSession(t *testing.T) {
	h, _, ss := newAuthHandler()
	e := echo.New()

	c, rec := postJSON(e, "/v1/auth/register", `{"login":"alice","password":"supersecret"}`)
	require.NoError(t, h.Register(c))

	c, rec = postJSON(e, "/v1/auth/login", `{"login":"ALICE","password":"supersecret"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	id, err := ss.Resolve(c.Request().Context(), ck.Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestAuth_SessionEndpoint(t *testing.T) {
	h, _, _ := newAuthHandler()
	e := echo.New()

	// No cookie: account is null, still 200.
	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Session(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp["account"])

	// Register, then replay the issued cookie.
	c, regRec := postJSON(e, "/v1/auth/register", `{"login":"alice","password":"supersecret"}`)
	require.NoError(t, h.Register(c))
	ck := sessionCookie(regRec)
	require.NotNil(t, ck)

	req = httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.AddCookie(ck)
	rec = httptest.NewRecorder()
	require.NoError(t, h.Session(e.NewContext(req, rec)))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	account, ok := resp["account"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", account["login"])
}

func TestAuth_LogoutDestroysSession(t *testing.T) {
	h, _, ss := newAuthHandler()
	e := echo.New()

	c, regRec := postJSON(e, "/v1/auth/register", `{"login":"alice","password":"supersecret"}`)
	require.NoError(t, h.Register(c))
	ck := sessionCookie(regRec)
	require.NotNil(t, ck)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.AddCookie(ck)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Logout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := ss.Resolve(req.Context(), ck.Value)
	assert.ErrorIs(t, err, session.ErrNoSession)

	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/config"
	mw "github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/middleware"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/session"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/store"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/utils"
)

// AuthHandler bundles dependencies for the credential endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Store    store.Store
	Sessions session.Store
	Log      zerolog.Logger
}

func NewAuthHandler(cfg config.Config, st store.Store, ss session.Store, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Store: st, Sessions: ss, Log: log}
}

type credentialsReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Register creates an account, hashes the password with bcrypt and opens
// a session for the new account. A duplicate login produces the same
// generic message as any other validation failure so the endpoint cannot
// be used to enumerate accounts.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	login := strings.ToLower(strings.TrimSpace(req.Login))
	if login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login and password are required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	ctx, cancel := withDBTimeout(c)
	defer cancel()

	a, err := h.Store.CreateAccount(ctx, login, hash)
	if err != nil {
		if errors.Is(err, store.ErrLoginExists) {
			// Same status and wording as other validation failures;
			// the branch is only visible server-side.
			h.Log.Debug().Str("login", login).Msg("registration rejected: duplicate login")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unable to register with the supplied credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	if err := h.openSession(c, a.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	return c.JSON(http.StatusCreated, sanitizeAccount(a))
}

// Login verifies credentials and opens a session. An unknown login and a
// wrong password produce byte-identical responses.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	login := strings.ToLower(strings.TrimSpace(req.Login))
	if login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login and password are required"})
	}

	ctx, cancel := withDBTimeout(c)
	defer cancel()

	a, err := h.Store.GetAccountByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.Log.Debug().Str("login", login).Msg("login rejected: unknown account")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		h.Log.Debug().Uint64("account_id", a.ID).Msg("login rejected: bad password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.openSession(c, a.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, sanitizeAccount(a))
}

// Logout destroys the current session, if any, and expires the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(mw.CookieName); err == nil && cookie.Value != "" {
		_ = h.Sessions.Destroy(c.Request().Context(), cookie.Value)
	}
	c.SetCookie(&http.Cookie{
		Name:     mw.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Session reports the account bound to the current session, or null when
// there is none. This endpoint never fails: the browser UI polls it to
// decide whether to show the login form.
func (h *AuthHandler) Session(c echo.Context) error {
	cookie, err := c.Cookie(mw.CookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, echo.Map{"account": nil})
	}
	accountID, err := h.Sessions.Resolve(c.Request().Context(), cookie.Value)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"account": nil})
	}

	ctx, cancel := withDBTimeout(c)
	defer cancel()
	a, err := h.Store.GetAccountByID(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"account": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"account": sanitizeAccount(a)})
}

func (h *AuthHandler) openSession(c echo.Context, accountID uint64) error {
	token, err := h.Sessions.Create(c.Request().Context(), accountID, h.Cfg.SessionTTL)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     mw.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.Env == "prod",
	})
	return nil
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/session"
)

// CookieName is the session cookie issued at login/registration.
const CookieName = "session_token"

// AccountIDKey is the echo context key under which the authenticated
// account id is stored for handlers.
const AccountIDKey = "account_id"

// SessionAuth resolves the session cookie against the session store and
// injects the account id into the request context. Requests without a
// valid session are rejected with a generic 401.
func SessionAuth(sessions session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			accountID, err := sessions.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set(AccountIDKey, accountID)
			return next(c)
		}
	}
}

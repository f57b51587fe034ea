package handler

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/middleware"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/queue"
)

// AuditPublisher is the slice of the event publisher the handlers need.
// A nil publisher disables audit events (tests, minimal deployments).
type AuditPublisher interface {
	PatientCreated(ctx context.Context, ev queue.PatientCreatedEvent) error
	InteractionChecked(ctx context.Context, ev queue.InteractionCheckedEvent) error
}

// accountPart is the sanitized account shape returned by the API; the
// credential hash never leaves the server.
type accountPart struct {
	ID        uint64    `json:"id"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func sanitizeAccount(a model.Account) accountPart {
	return accountPart{ID: a.ID, Login: a.Login, Role: a.Role, CreatedAt: a.CreatedAt}
}

var errNoAccount = errors.New("no account in context")

// getAccountID extracts the authenticated account id placed in the
// context by the session middleware.
func getAccountID(c echo.Context) (uint64, error) {
	id, ok := c.Get(mw.AccountIDKey).(uint64)
	if !ok || id == 0 {
		return 0, errNoAccount
	}
	return id, nil
}

// dbTimeout bounds individual store calls from handlers.
const dbTimeout = 5 * time.Second

func withDBTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

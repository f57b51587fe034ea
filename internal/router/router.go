// Package router wires HTTP routes to their handlers. Credential
// endpoints carry the rate limiter; clinical endpoints require a valid
// session.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/handler"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/middleware"
	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/session"
)

// Deps collects everything route registration needs.
type Deps struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Patients     *handler.PatientHandler
	Interactions *handler.InteractionHandler
	Sessions     session.Store
	RateLimiter  echo.MiddlewareFunc // applied to credential endpoints; may be nil
}

// Register mounts all routes on the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", d.Health.Health)

	auth := e.Group("/v1/auth")
	if d.RateLimiter != nil {
		auth.Use(d.RateLimiter)
	}
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)

	// Session introspection is deliberately outside the auth group: it
	// answers "who am I" with null instead of rejecting the request.
	e.GET("/v1/session", d.Auth.Session)

	v1 := e.Group("/v1")
	v1.Use(middleware.SessionAuth(d.Sessions))
	v1.GET("/patients", d.Patients.List)
	v1.POST("/patients", d.Patients.Create)
	v1.GET("/patients/:id", d.Patients.Get)
	v1.GET("/patients/:id/history", d.Patients.History)
	v1.POST("/interaction-checks", d.Interactions.Check)
	v1.POST("/recommendations", d.Interactions.Recommend)
}

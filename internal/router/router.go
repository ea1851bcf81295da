// Package router maps the HTTP surface onto the handlers and applies the
// authentication and role middleware per route group.
package router

import (
	"github.com/labstack/echo/v4"

	"voyago/internal/handler"
	"voyago/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication at all.
// Currently only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the identity surface. Register and login are open;
// /v1/me requires a valid access token with any known role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	auth.GET("/me", a.Me)
}

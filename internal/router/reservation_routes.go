package router

import (
	"github.com/labstack/echo/v4"

	"voyago/internal/handler"
	"voyago/internal/middleware"
)

// RegisterReservations registers the booking and cancellation endpoints.
// All routes require a valid JWT; the admin group additionally requires
// the ADMIN role.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1/reservations",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	g.POST("", h.CreateVoyageReservation)
	g.POST("/activity", h.CreateActivityReservation)
	g.PATCH("/:id/annuler", h.CancelOwn)
	g.GET("/voyages/:userId", h.ListVoyageReservations)
	g.GET("/activites/:userId", h.ListActivityReservations)

	admin := e.Group("/v1/reservations/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.PATCH("/:id/cancel", h.CancelAdmin)
	admin.GET("/offerings/:type/:id", h.ListByOffering)
}

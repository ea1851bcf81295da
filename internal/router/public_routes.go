package router

import (
	"github.com/labstack/echo/v4"

	"voyago/internal/handler"
)

// RegisterPublic registers the unauthenticated catalog browse and
// availability endpoints. The optional cache middleware serves repeated
// browse reads from Redis; availability responses are display snapshots
// and the booking path never reads through this surface.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}

	g.GET("/voyages", h.ListVoyages)
	g.GET("/voyages/:id", h.GetVoyage)
	g.GET("/voyages/:id/disponibilite", h.VoyageAvailability)

	g.GET("/activites", h.ListActivities)
	g.GET("/activites/:id", h.GetActivity)
	g.GET("/activites/:id/creneaux", h.ListSlots)
	g.GET("/creneaux/:id/disponibilite", h.SlotAvailability)
}

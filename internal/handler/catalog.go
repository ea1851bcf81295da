package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"voyago/internal/model"
	"voyago/internal/repository"
	"voyago/internal/service"
)

// CatalogBrowser is the read-only catalog surface consumed by the public
// browse endpoints. Satisfied by *repository.CatalogRepo.
type CatalogBrowser interface {
	VoyageByID(ctx context.Context, id uint64) (*model.Voyage, error)
	ActivityByID(ctx context.Context, id uint64) (*model.Activity, error)
	TimeSlotByID(ctx context.Context, id uint64) (*model.TimeSlot, error)
	ListVoyages(ctx context.Context) ([]model.Voyage, error)
	ListActivities(ctx context.Context) ([]model.Activity, error)
	SlotsByActivity(ctx context.Context, activityID uint64) ([]model.TimeSlot, error)
}

// CatalogHandler serves the public browse and availability endpoints.
// Availability responses are point-in-time snapshots for display; the
// booking path re-checks capacity atomically and never trusts them.
type CatalogHandler struct {
	Catalog   CatalogBrowser
	Inventory service.InventoryStore
}

func NewCatalogHandler(catalog CatalogBrowser, inventory service.InventoryStore) *CatalogHandler {
	if catalog == nil || inventory == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog, Inventory: inventory}
}

// ListVoyages handles GET /v1/voyages.
func (h *CatalogHandler) ListVoyages(c echo.Context) error {
	items, err := h.Catalog.ListVoyages(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetVoyage handles GET /v1/voyages/:id.
func (h *CatalogHandler) GetVoyage(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid voyage id"})
	}
	v, err := h.Catalog.VoyageByID(c.Request().Context(), id)
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": v})
}

// VoyageAvailability handles GET /v1/voyages/:id/disponibilite. It reads
// the live counter, not the catalog snapshot.
func (h *CatalogHandler) VoyageAvailability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid voyage id"})
	}
	spots, err := h.Inventory.Read(c.Request().Context(), model.VoyagePool(id))
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"offeringType":   model.OfferingVoyage,
		"voyageId":       id,
		"availableSpots": spots,
	})
}

// ListActivities handles GET /v1/activites.
func (h *CatalogHandler) ListActivities(c echo.Context) error {
	items, err := h.Catalog.ListActivities(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetActivity handles GET /v1/activites/:id.
func (h *CatalogHandler) GetActivity(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	a, err := h.Catalog.ActivityByID(c.Request().Context(), id)
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": a})
}

// ListSlots handles GET /v1/activites/:id/creneaux. Returns 404 when the
// activity itself does not exist, an empty list when it has no slots yet.
func (h *CatalogHandler) ListSlots(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	items, err := h.Catalog.SlotsByActivity(c.Request().Context(), id)
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// SlotAvailability handles GET /v1/creneaux/:id/disponibilite. The slot is
// resolved first because its pool key includes the owning activity.
func (h *CatalogHandler) SlotAvailability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	slot, err := h.Catalog.TimeSlotByID(c.Request().Context(), id)
	if err != nil {
		return lookupError(c, err)
	}
	spots, err := h.Inventory.Read(c.Request().Context(), model.TimeSlotPool(slot.ActivityID, slot.ID))
	if err != nil {
		return lookupError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"offeringType":   model.OfferingActivity,
		"activityId":     slot.ActivityID,
		"timeSlotId":     slot.ID,
		"availableSpots": spots,
	})
}

func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

func lookupError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

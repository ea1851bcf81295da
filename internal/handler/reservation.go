package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"voyago/internal/model"
	"voyago/internal/repository"
	"voyago/internal/service"
)

// ReservationLister is the read side of the ledger consumed by the listing
// endpoints. Satisfied by *repository.ReservationRepo.
type ReservationLister interface {
	ListVoyageReservationsByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
	ListActivityReservationsByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
	ListByOffering(ctx context.Context, offeringType string, offeringID uint64, status string) ([]model.Reservation, error)
}

// ReservationHandler exposes the booking and cancellation endpoints. The
// capacity rules live in the services; the handler only shapes the wire
// contract and the status codes.
type ReservationHandler struct {
	Reservations  *service.ReservationService
	Cancellations *service.CancellationService
	Ledger        ReservationLister
}

func NewReservationHandler(res *service.ReservationService, can *service.CancellationService, ledger ReservationLister) *ReservationHandler {
	if res == nil || can == nil || ledger == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: res, Cancellations: can, Ledger: ledger}
}

type voyageReservationReq struct {
	VoyageID        uint64 `json:"voyageId"`
	NombrePersonnes uint32 `json:"nombrePersonnes"`
	DepartureDate   string `json:"departureDate"` // "2006-01-02", optional
	ClientName      string `json:"clientName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
}

type activityReservationReq struct {
	ActivityID      uint64           `json:"activityId"`
	TimeSlotID      uint64           `json:"timeSlotId"`
	NombrePersonnes uint32           `json:"nombrePersonnes"`
	ClientInfo      model.ClientInfo `json:"clientInfo"`
}

type cancelReq struct {
	Type string `json:"type"` // voyage | activite, informational
}

// CreateVoyageReservation handles POST /v1/reservations. A success consumed
// the requested spots and appended the ledger row; a 409 carries either
// offering_expired or insufficient_capacity with the remaining spots.
func (h *ReservationHandler) CreateVoyageReservation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req voyageReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VoyageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "voyageId is required"})
	}
	var depDate *time.Time
	if s := strings.TrimSpace(req.DepartureDate); s != "" {
		d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "departureDate must be YYYY-MM-DD"})
		}
		depDate = &d
	}

	res, err := h.Reservations.ReserveVoyage(c.Request().Context(), service.VoyageBooking{
		VoyageID:      req.VoyageID,
		UserID:        uid,
		PartySize:     req.NombrePersonnes,
		DepartureDate: depDate,
		Client: model.ClientInfo{
			Name:  req.ClientName,
			Email: req.Email,
			Phone: req.Phone,
		},
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// CreateActivityReservation handles POST /v1/reservations/activity. The
// slot must belong to the requested activity and must not have started.
func (h *ReservationHandler) CreateActivityReservation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req activityReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ActivityID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "activityId is required"})
	}

	res, err := h.Reservations.ReserveActivity(c.Request().Context(), service.ActivityBooking{
		ActivityID: req.ActivityID,
		TimeSlotID: req.TimeSlotID,
		UserID:     uid,
		PartySize:  req.NombrePersonnes,
		Client:     req.ClientInfo,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": res})
}

// CancelOwn handles PATCH /v1/reservations/:id/annuler. Cancelling an
// already-cancelled reservation returns 200 with the final state; the
// capacity was released exactly once either way. The optional body type
// discriminator is informational: both offering kinds funnel through the
// same cancellation path.
func (h *ReservationHandler) CancelOwn(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req cancelReq
	_ = c.Bind(&req) // body is optional
	if t := strings.TrimSpace(req.Type); t != "" && t != model.OfferingVoyage && t != model.OfferingActivity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be voyage or activite"})
	}

	res, err := h.Cancellations.Cancel(c.Request().Context(), id, service.Actor{UserID: uid, Admin: isAdmin(c)})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// CancelAdmin handles PATCH /v1/reservations/admin/:id/cancel. The route is
// gated on the ADMIN role, so ownership is bypassed; the actor is recorded
// on the ledger row and in the cancelled event.
func (h *ReservationHandler) CancelAdmin(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	res, err := h.Cancellations.Cancel(c.Request().Context(), id, service.Actor{UserID: uid, Admin: true})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// ListVoyageReservations handles GET /v1/reservations/voyages/:userId.
// Customers may only list their own reservations; admins may list anyone's.
func (h *ReservationHandler) ListVoyageReservations(c echo.Context) error {
	return h.listForUser(c, h.Ledger.ListVoyageReservationsByUser)
}

// ListActivityReservations handles GET /v1/reservations/activites/:userId.
func (h *ReservationHandler) ListActivityReservations(c echo.Context) error {
	return h.listForUser(c, h.Ledger.ListActivityReservationsByUser)
}

func (h *ReservationHandler) listForUser(c echo.Context, list func(context.Context, uint64) ([]repository.ReservationDetail, error)) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	target, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || target == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if target != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	items, err := list(c.Request().Context(), target)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// ListByOffering handles GET /v1/reservations/admin/offerings/:type/:id.
// Back-office audit view of every reservation placed against one pool,
// optionally filtered with ?status=CONFIRMED|CANCELLED.
func (h *ReservationHandler) ListByOffering(c echo.Context) error {
	offeringType := c.Param("type")
	if offeringType != model.OfferingVoyage && offeringType != model.OfferingActivity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be voyage or activite"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid offering id"})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && status != model.ReservationConfirmed && status != model.ReservationCancelled {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED or CANCELLED"})
	}

	items, err := h.Ledger.ListByOffering(c.Request().Context(), offeringType, id, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Package handler implements the HTTP layer. Handlers bind and validate
// the wire payloads, delegate to the services and repositories, and
// translate domain errors into status codes. All booking rules live below
// this layer.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"voyago/internal/repository"
	"voyago/internal/service"
)

// getUserID extracts the user id the JWT middleware stored on the context.
// JWT numeric claims arrive as float64; other forms are handled for tests.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated request carries the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// domainError translates reservation-core errors into HTTP responses.
// Capacity rejections carry the remaining spots so the client can propose
// a smaller party; anything unrecognized is a 500.
func domainError(c echo.Context, err error) error {
	var capErr *repository.CapacityError
	if errors.As(err, &capErr) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "insufficient_capacity",
			"availableSpots": capErr.Available,
		})
	}
	if errors.Is(err, service.ErrOfferingExpired) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "offering_expired"})
	}
	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": valErr.Reason})
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

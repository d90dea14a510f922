package handler

import (
	"errors"
	"net/http"

	"github.com/abdusco/shortener/internal"
	"github.com/labstack/echo/v4"
)

func (h *LinkHandler) ListVisits(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.links.GetByID(ctx, id); err != nil {
		return h.lookupError(err)
	}

	visits, err := h.visits.ListByLink(ctx, id)
	if err != nil {
		return persistenceError("Failed to list visits", err)
	}

	return c.JSON(http.StatusOK, visits)
}

// GetVisit handles GET /links/:id/visits/:visitId.
// TODO: scope the visit lookup to the link once it is confirmed that visits of other
// links must not be reachable through this route.
func (h *LinkHandler) GetVisit(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.links.GetByID(ctx, c.Param("id")); err != nil {
		return h.lookupError(err)
	}

	visit, err := h.visits.GetByID(ctx, c.Param("visitId"))
	if errors.Is(err, internal.ErrVisitNotFound) {
		return notFoundError("Visit not found")
	}
	if err != nil {
		return persistenceError("Failed to fetch visit", err)
	}

	return c.JSON(http.StatusOK, visit)
}

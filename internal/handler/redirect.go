package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/abdusco/shortener/internal"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Redirect handles GET /:slug. The visit is recorded before redirecting, and a failure to
// record it fails the request.
func (h *LinkHandler) Redirect(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	log.Debug().Str("slug", slug).Msg("redirect request")

	link, err := h.links.GetBySlug(ctx, slug)
	if errors.Is(err, internal.ErrLinkNotFound) {
		log.Warn().Str("slug", slug).Msg("link not found")
		return notFoundError("Link not found")
	}
	if err != nil {
		return persistenceError("Failed to resolve link", err)
	}

	if link.Expired(time.Now()) {
		log.Info().Str("slug", slug).Time("expires_at", *link.ExpiresAt).Msg("link expired")
		return expiredError("Link has expired")
	}

	if _, err := h.visits.Create(ctx, link.ID); err != nil {
		return persistenceError("Failed to track visit", err)
	}

	log.Info().Str("slug", slug).Str("ip", c.RealIP()).Msg("redirecting link")

	return c.Redirect(http.StatusFound, link.URL)
}

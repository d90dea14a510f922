package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/abdusco/shortener/internal"
	"github.com/abdusco/shortener/internal/repo"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Generated slugs are retried on collision; explicit slugs never are.
const maxSlugAttempts = 3

type LinkStore interface {
	Create(ctx context.Context, in repo.NewLink) (*internal.Link, error)
	GetByID(ctx context.Context, id string) (*internal.Link, error)
	GetBySlug(ctx context.Context, slug string) (*internal.Link, error)
	FindByURL(ctx context.Context, url string) (*internal.Link, error)
	ListAll(ctx context.Context) ([]*internal.Link, error)
	ListBySlug(ctx context.Context, slug string) ([]*internal.Link, error)
	Update(ctx context.Context, id string, changes repo.LinkChanges) (*internal.Link, error)
	Delete(ctx context.Context, id string) error
}

type VisitStore interface {
	Create(ctx context.Context, linkID string) (*internal.Visit, error)
	ListByLink(ctx context.Context, linkID string) ([]*internal.Visit, error)
	GetByID(ctx context.Context, id string) (*internal.Visit, error)
}

type LinkHandler struct {
	links  LinkStore
	visits VisitStore
}

func NewLinkHandler(links LinkStore, visits VisitStore) *LinkHandler {
	return &LinkHandler{
		links:  links,
		visits: visits,
	}
}

type CreateLinkRequest struct {
	URL       string     `json:"url" validate:"required,url"`
	Slug      string     `json:"slug" validate:"omitempty,slug"`
	Title     *string    `json:"title"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// UpdateLinkRequest is a partial CreateLinkRequest. Absent fields are left unchanged,
// a null title or expiresAt clears it.
type UpdateLinkRequest struct {
	URL       *string                      `json:"url" validate:"omitnil,url"`
	Slug      *string                      `json:"slug" validate:"omitnil,slug"`
	Title     internal.Optional[string]    `json:"title"`
	ExpiresAt internal.Optional[time.Time] `json:"expiresAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// CreateLink handles POST /links. Without an explicit slug an existing link for the
// same URL is returned as is.
func (h *LinkHandler) CreateLink(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Slug == "" {
		existing, err := h.links.FindByURL(ctx, req.URL)
		switch {
		case err == nil:
			log.Debug().Str("id", existing.ID).Str("url", req.URL).Msg("reusing existing link")
			return c.JSON(http.StatusOK, existing)
		case !errors.Is(err, internal.ErrLinkNotFound):
			return persistenceError("Failed to create link", err)
		}
	}

	link, err := h.create(ctx, req)
	if errors.Is(err, internal.ErrSlugExists) {
		return conflictError("Slug already exists")
	}
	if err != nil {
		return persistenceError("Failed to create link", err)
	}

	return c.JSON(http.StatusCreated, link)
}

func (h *LinkHandler) create(ctx context.Context, req CreateLinkRequest) (*internal.Link, error) {
	in := repo.NewLink{
		URL:       req.URL,
		Slug:      req.Slug,
		Title:     req.Title,
		ExpiresAt: req.ExpiresAt,
	}
	if in.Slug != "" {
		return h.links.Create(ctx, in)
	}

	var err error
	for range maxSlugAttempts {
		in.Slug = repo.GenerateSlug()

		var link *internal.Link
		link, err = h.links.Create(ctx, in)
		if !errors.Is(err, internal.ErrSlugExists) {
			return link, err
		}
		log.Warn().Str("slug", in.Slug).Msg("generated slug collided, retrying")
	}
	return nil, err
}

// UpdateLink handles PATCH /links/:id. A requested slug must not be in use by any link,
// including the one being updated.
func (h *LinkHandler) UpdateLink(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req UpdateLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.links.GetByID(ctx, id); err != nil {
		return h.lookupError(err)
	}

	if req.Slug != nil {
		_, err := h.links.GetBySlug(ctx, *req.Slug)
		if err == nil {
			return conflictError("Slug already exists")
		}
		if !errors.Is(err, internal.ErrLinkNotFound) {
			return persistenceError("Failed to update link", err)
		}
	}

	link, err := h.links.Update(ctx, id, repo.LinkChanges{
		URL:       req.URL,
		Slug:      req.Slug,
		Title:     req.Title,
		ExpiresAt: req.ExpiresAt,
	})
	switch {
	case errors.Is(err, internal.ErrSlugExists):
		return conflictError("Slug already exists")
	case errors.Is(err, internal.ErrLinkNotFound):
		return notFoundError("Link not found")
	case err != nil:
		return persistenceError("Failed to update link", err)
	}

	return c.JSON(http.StatusOK, link)
}

// ListLinks handles GET /links, optionally narrowed to a single link by ?slug=.
func (h *LinkHandler) ListLinks(c echo.Context) error {
	ctx := c.Request().Context()

	slug := c.QueryParam("slug")
	if slug == "" {
		links, err := h.links.ListAll(ctx)
		if err != nil {
			return persistenceError("Failed to list links", err)
		}
		return c.JSON(http.StatusOK, links)
	}

	links, err := h.links.ListBySlug(ctx, slug)
	if err != nil {
		return persistenceError("Failed to list links", err)
	}

	switch len(links) {
	case 0:
		return notFoundError("Link not found")
	case 1:
		return c.JSON(http.StatusOK, links[0])
	default:
		log.Error().Str("slug", slug).Int("count", len(links)).Msg("slug is not unique")
		return notFoundError("Multiple links found")
	}
}

func (h *LinkHandler) GetLink(c echo.Context) error {
	link, err := h.links.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.lookupError(err)
	}
	return c.JSON(http.StatusOK, link)
}

// DeleteLink handles DELETE /links/:id. Visits of the link are kept.
func (h *LinkHandler) DeleteLink(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.links.GetByID(ctx, id); err != nil {
		return h.lookupError(err)
	}

	err := h.links.Delete(ctx, id)
	if errors.Is(err, internal.ErrLinkNotFound) {
		return notFoundError("Link not found")
	}
	if err != nil {
		return persistenceError("Failed to delete link", err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Link deleted"})
}

func (h *LinkHandler) lookupError(err error) error {
	if errors.Is(err, internal.ErrLinkNotFound) {
		return notFoundError("Link not found")
	}
	return persistenceError("Failed to fetch link", err)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return validationError("invalid request body", err)
	}
	if err := c.Validate(req); err != nil {
		return validationError(err.Error(), err)
	}
	return nil
}

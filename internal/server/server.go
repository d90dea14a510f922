package server

import (
	"github.com/abdusco/shortener/internal/db"
	"github.com/abdusco/shortener/internal/handler"
	"github.com/abdusco/shortener/internal/logger"
	"github.com/abdusco/shortener/internal/repo"
	"github.com/abdusco/shortener/internal/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// New builds the HTTP application on top of database.
func New(database *db.DB) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = validate.EchoValidator{}

	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	linksRepo := repo.NewLinksRepo(database.Database)
	visitsRepo := repo.NewVisitsRepo(database.Database)
	linkHandler := handler.NewLinkHandler(linksRepo, visitsRepo)

	links := e.Group("/links")
	links.POST("", linkHandler.CreateLink)
	links.GET("", linkHandler.ListLinks)
	links.GET("/:id", linkHandler.GetLink)
	links.PATCH("/:id", linkHandler.UpdateLink)
	links.DELETE("/:id", linkHandler.DeleteLink)
	links.GET("/:id/visits", linkHandler.ListVisits)
	links.GET("/:id/visits/:visitId", linkHandler.GetVisit)

	healthHandler := handler.NewHealthHandler(database)
	e.GET("/health", healthHandler.Check)

	// Parameterized route (must be last)
	e.GET("/:slug", linkHandler.Redirect)

	return e
}

package router

import (
	"crateDigger/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout, authRequired)
}

func SetupRecordOfTheDayRoutes(api *echo.Group, handler *rest.RecordOfTheDayHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	rotd := api.Group("/record-of-the-day")

	rotd.GET("", handler.Today)
	rotd.POST("/vote", handler.Vote)
	rotd.POST("/refresh", handler.Refresh, authRequired, adminOnly)
}

func SetupCatalogRoutes(api *echo.Group, handler *rest.CatalogHandler, authRequired echo.MiddlewareFunc) {
	api.GET("/listings/search", handler.Search)
	api.GET("/listings/export", handler.ExportCSV, authRequired)
	api.GET("/dashboard", handler.Dashboard)

	autocomplete := api.Group("/autocomplete")
	autocomplete.GET("/genres", handler.SuggestGenres)
	autocomplete.GET("/conditions", handler.SuggestConditions)
	autocomplete.GET("/sellers", handler.SuggestSellers)
}

func SetupScoringRoutes(api *echo.Group, handler *rest.ScoringHandler, authRequired echo.MiddlewareFunc) {
	scoring := api.Group("/scoring", authRequired)

	scoring.GET("/batch", handler.ScoreBatch)
	scoring.POST("/predict", handler.Predict)
	scoring.POST("/evaluations", handler.SubmitEvaluations)
}

func SetupScraperRoutes(api *echo.Group, handler *rest.ScraperHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	api.POST("/scrape", handler.Scrape, authRequired, adminOnly)
}

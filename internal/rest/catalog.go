package rest

import (
	"context"
	"io"
	"net/http"
	"time"

	"crateDigger/business/catalog"
	"crateDigger/domain"
	"crateDigger/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CatalogHandler struct {
		validate       *validator.Validate
		catalogService CatalogService
		rotdService    RecordOfTheDayService
	}

	CatalogService interface {
		Search(ctx context.Context, filter catalog.SearchFilter) ([]domain.Listing, int64, error)
		DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
		ExportCSV(ctx context.Context, w io.Writer) error
		SuggestGenres(ctx context.Context, term string) ([]string, error)
		SuggestConditions(ctx context.Context, term string) ([]string, error)
		SuggestSellers(ctx context.Context, term string) ([]string, error)
	}

	SearchQuery struct {
		Q          string  `query:"q"`
		GenreStyle string  `query:"genre_style"`
		MinYear    int     `query:"min_year"`
		MaxYear    int     `query:"max_year"`
		MinPrice   float64 `query:"min_price"`
		MaxPrice   float64 `query:"max_price"`
		Condition  string  `query:"condition"`
		Seller     string  `query:"seller"`
		Sort       string  `query:"sort"`
		Page       int     `query:"page"`
		PageSize   int     `query:"page_size"`
	}

	SearchResponse struct {
		Listings []domain.Listing `json:"listings"`
		Total    int64            `json:"total"`
		Page     int              `json:"page"`
	}

	SuggestQuery struct {
		Term string `query:"term"`
	}

	DashboardResponse struct {
		Stats          *domain.DashboardStats     `json:"stats"`
		RecordOfTheDay *domain.RecordOfTheDay     `json:"record_of_the_day"`
		Breakdown      *domain.SelectionBreakdown `json:"breakdown,omitempty"`
	}
)

func NewCatalogHandler(svc CatalogService, rotdService RecordOfTheDayService) *CatalogHandler {
	return &CatalogHandler{
		validate:       validator.New(),
		catalogService: svc,
		rotdService:    rotdService,
	}
}

// GET /api/v1/listings/search
func (h *CatalogHandler) Search(c echo.Context) error {
	var q SearchQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	filter := catalog.SearchFilter{
		Query:      q.Q,
		GenreStyle: q.GenreStyle,
		MinYear:    q.MinYear,
		MaxYear:    q.MaxYear,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Condition:  q.Condition,
		Seller:     q.Seller,
		Sort:       q.Sort,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}

	listings, total, err := h.catalogService.Search(ctx, filter)
	if err != nil {
		logger.Error("Failed to search listings", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	page := q.Page
	if page <= 0 {
		page = 1
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(SearchResponse{
		Listings: listings,
		Total:    total,
		Page:     page,
	}))
}

// GET /api/v1/dashboard
func (h *CatalogHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	stats, err := h.catalogService.DashboardStats(ctx)
	if err != nil {
		logger.Error("Failed to load dashboard stats", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	resp := DashboardResponse{Stats: stats}

	// the first dashboard hit of a day triggers the selection run
	record, breakdown, err := h.rotdService.Today(ctx)
	if err != nil {
		logger.Error("Failed to load record of the day for dashboard", err)
	} else {
		resp.RecordOfTheDay = record
		resp.Breakdown = &breakdown
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

// GET /api/v1/listings/export
func (h *CatalogHandler) ExportCSV(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="listings_`+time.Now().Format("2006-01-02")+`.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.catalogService.ExportCSV(ctx, c.Response()); err != nil {
		logger.Error("Failed to export listings", err)
		return err
	}

	return nil
}

// GET /api/v1/autocomplete/genres
func (h *CatalogHandler) SuggestGenres(c echo.Context) error {
	return h.suggest(c, h.catalogService.SuggestGenres)
}

// GET /api/v1/autocomplete/conditions
func (h *CatalogHandler) SuggestConditions(c echo.Context) error {
	return h.suggest(c, h.catalogService.SuggestConditions)
}

// GET /api/v1/autocomplete/sellers
func (h *CatalogHandler) SuggestSellers(c echo.Context) error {
	return h.suggest(c, h.catalogService.SuggestSellers)
}

func (h *CatalogHandler) suggest(c echo.Context, fn func(context.Context, string) ([]string, error)) error {
	var q SuggestQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	values, err := fn(ctx, q.Term)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(values))
}

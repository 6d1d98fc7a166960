package rest

import (
	"context"
	"net/http"
	"time"

	"crateDigger/domain"
	"crateDigger/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ScraperHandler struct {
		validate       *validator.Validate
		scraperService ScraperService
	}

	ScraperService interface {
		ScrapeSeller(ctx context.Context, seller string) (*domain.ScrapeSummary, error)
	}

	ScrapeRequest struct {
		Seller string `json:"seller" validate:"required"`
	}
)

func NewScraperHandler(svc ScraperService) *ScraperHandler {
	return &ScraperHandler{
		validate:       validator.New(),
		scraperService: svc,
	}
}

// POST /api/v1/scrape
func (h *ScraperHandler) Scrape(c echo.Context) error {
	var req ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	// long timeout: a full inventory walk is paged and rate limited
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Minute)
	defer cancel()

	summary, err := h.scraperService.ScrapeSeller(ctx, req.Seller)
	if err != nil {
		logger.Error("Failed to scrape seller", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

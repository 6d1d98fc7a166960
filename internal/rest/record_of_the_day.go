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
	RecordOfTheDayHandler struct {
		validate    *validator.Validate
		rotdService RecordOfTheDayService
	}

	RecordOfTheDayService interface {
		Today(ctx context.Context) (*domain.RecordOfTheDay, domain.SelectionBreakdown, error)
		Refresh(ctx context.Context) (*domain.RecordOfTheDay, domain.SelectionBreakdown, error)
		Vote(ctx context.Context, desirability, novelty float64) (*domain.RecordOfTheDay, error)
	}

	VoteRequest struct {
		Desirability float64 `json:"desirability" validate:"required,min=1,max=5"`
		Novelty      float64 `json:"novelty" validate:"required,min=1,max=5"`
	}

	RecordOfTheDayResponse struct {
		Record    *domain.RecordOfTheDay    `json:"record"`
		Breakdown domain.SelectionBreakdown `json:"breakdown"`
	}
)

func NewRecordOfTheDayHandler(svc RecordOfTheDayService) *RecordOfTheDayHandler {
	return &RecordOfTheDayHandler{
		validate:    validator.New(),
		rotdService: svc,
	}
}

// GET /api/v1/record-of-the-day
func (h *RecordOfTheDayHandler) Today(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	record, breakdown, err := h.rotdService.Today(ctx)
	if err != nil {
		logger.Error("Failed to get record of the day", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(RecordOfTheDayResponse{
		Record:    record,
		Breakdown: breakdown,
	}))
}

// POST /api/v1/record-of-the-day/refresh
func (h *RecordOfTheDayHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	record, breakdown, err := h.rotdService.Refresh(ctx)
	if err != nil {
		logger.Error("Failed to refresh record of the day", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(RecordOfTheDayResponse{
		Record:    record,
		Breakdown: breakdown,
	}))
}

// POST /api/v1/record-of-the-day/vote
func (h *RecordOfTheDayHandler) Vote(c echo.Context) error {
	var req VoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	record, err := h.rotdService.Vote(ctx, req.Desirability, req.Novelty)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]interface{}{
		"average_desirability": record.AverageDesirability,
		"average_novelty":      record.AverageNovelty,
		"votes":                len(record.DesirabilityVotes),
	}))
}

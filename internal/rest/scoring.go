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
	ScoringHandler struct {
		validate       *validator.Validate
		scoringService ScoringService
	}

	ScoringService interface {
		ScoreUnevaluated(ctx context.Context, seller string, limit int) ([]domain.Listing, error)
		PredictKeepers(ctx context.Context, listingIDs []uint) ([]domain.KeeperPrediction, error)
		SubmitEvaluations(ctx context.Context, listingIDs, keeperIDs []uint) error
	}

	ScoreBatchQuery struct {
		Seller string `query:"seller"`
		N      int    `query:"n"`
	}

	PredictRequest struct {
		ListingIDs []uint `json:"listing_ids" validate:"required,min=1"`
	}

	EvaluationRequest struct {
		ListingIDs []uint `json:"listing_ids" validate:"required,min=1"`
		KeeperIDs  []uint `json:"keeper_ids"`
	}
)

func NewScoringHandler(svc ScoringService) *ScoringHandler {
	return &ScoringHandler{
		validate:       validator.New(),
		scoringService: svc,
	}
}

// GET /api/v1/scoring/batch?seller=x&n=10
func (h *ScoringHandler) ScoreBatch(c echo.Context) error {
	var q ScoreBatchQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	listings, err := h.scoringService.ScoreUnevaluated(ctx, q.Seller, q.N)
	if err != nil {
		logger.Error("Failed to score batch", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(listings))
}

// POST /api/v1/scoring/predict
func (h *ScoringHandler) Predict(c echo.Context) error {
	var req PredictRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	predictions, err := h.scoringService.PredictKeepers(ctx, req.ListingIDs)
	if err != nil {
		logger.Error("Failed to predict keepers", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(predictions))
}

// POST /api/v1/scoring/evaluations
func (h *ScoringHandler) SubmitEvaluations(c echo.Context) error {
	var req EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if err := h.scoringService.SubmitEvaluations(ctx, req.ListingIDs, req.KeeperIDs); err != nil {
		logger.Error("Failed to submit evaluations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("evaluations recorded"))
}

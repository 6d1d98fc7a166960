package scoring

import (
	"context"
	"fmt"
	"math"

	"crateDigger/domain"
	"crateDigger/pkg/logger"
)

// ---- Repository interfaces ----

type ListingRepository interface {
	FindUnevaluatedBySeller(ctx context.Context, seller string, limit int) ([]domain.Listing, error)
	UpdateScore(ctx context.Context, listingID uint, score float64) error
	UpdatePredictedKeeper(ctx context.Context, listingID uint, predicted bool) error
	MarkEvaluated(ctx context.Context, listingIDs []uint, keeperIDs []uint) error
}

// PredictorRepository talks to the external keeper-classifier service. The
// classifier is out of scope here; we only consume its probabilities.
type PredictorRepository interface {
	Predict(ctx context.Context, listingIDs []uint) ([]domain.KeeperPrediction, error)
}

// ---- Service ----

type ScoringService struct {
	listingRepo   ListingRepository
	predictorRepo PredictorRepository
}

func NewScoringService(listingRepo ListingRepository, predictorRepo PredictorRepository) *ScoringService {
	return &ScoringService{
		listingRepo:   listingRepo,
		predictorRepo: predictorRepo,
	}
}

// CalculateScore is the deterministic quality formula: community demand
// ratio, trading volume, and price attractiveness, on a log scale.
func CalculateScore(wants, haves int, price float64) float64 {
	h := float64(haves)
	if h == 0 {
		h = 0.01
	}

	ratio := float64(wants) / h
	volume := float64(wants + haves)
	if volume < 1 {
		volume = 1
	}

	ratioScore := math.Log(ratio+1) * 10
	volumeScore := math.Log(volume) * 2
	priceScore := 50 / (price + 1)

	return math.Round((ratioScore+volumeScore+priceScore)*100) / 100
}

// ScoreUnevaluated scores a batch of unevaluated listings for a seller and
// persists the result. Returns the listings with their fresh scores.
func (s *ScoringService) ScoreUnevaluated(ctx context.Context, seller string, limit int) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = 10
	}

	listings, err := s.listingRepo.FindUnevaluatedBySeller(ctx, seller, limit)
	if err != nil {
		return nil, fmt.Errorf("load unevaluated listings: %w", err)
	}

	for i := range listings {
		score := CalculateScore(listings[i].Record.Wants, listings[i].Record.Haves, listings[i].RecordPrice)
		if err := s.listingRepo.UpdateScore(ctx, listings[i].ID, score); err != nil {
			return nil, fmt.Errorf("persist score for listing %d: %w", listings[i].ID, err)
		}
		listings[i].Score = score
	}

	return listings, nil
}

// PredictKeepers fetches keeper probabilities for the given listings and
// stores the boolean predictions. Prediction failures degrade to a neutral
// 0.5 per listing instead of failing the request.
func (s *ScoringService) PredictKeepers(ctx context.Context, listingIDs []uint) ([]domain.KeeperPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(listingIDs) == 0 {
		return []domain.KeeperPrediction{}, nil
	}

	predictions, err := s.predictorRepo.Predict(ctx, listingIDs)
	if err != nil {
		logger.Error("keeper predictor unavailable, returning neutral predictions", err)
		predictions = make([]domain.KeeperPrediction, 0, len(listingIDs))
		for _, id := range listingIDs {
			predictions = append(predictions, domain.KeeperPrediction{
				ListingID:   id,
				Prediction:  true,
				Probability: 0.5,
			})
		}
		return predictions, nil
	}

	for _, p := range predictions {
		if err := s.listingRepo.UpdatePredictedKeeper(ctx, p.ListingID, p.Prediction); err != nil {
			logger.Warn("failed to store keeper prediction", "listing_id", p.ListingID, "error", err)
		}
	}

	return predictions, nil
}

// SubmitEvaluations marks a reviewed batch as evaluated, flagging the chosen
// keepers.
func (s *ScoringService) SubmitEvaluations(ctx context.Context, listingIDs, keeperIDs []uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(listingIDs) == 0 {
		return fmt.Errorf("no listings submitted")
	}

	if err := s.listingRepo.MarkEvaluated(ctx, listingIDs, keeperIDs); err != nil {
		return fmt.Errorf("mark listings evaluated: %w", err)
	}

	logger.Info("evaluations submitted", "listings", len(listingIDs), "keepers", len(keeperIDs))
	return nil
}

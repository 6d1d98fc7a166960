package selection

import (
	"context"
	"fmt"
	"time"

	"crateDigger/domain"
	"crateDigger/pkg/logger"
)

// RecordOfTheDayRepository persists one selection per calendar date. The
// storage layer enforces uniqueness on the date; CreateIfAbsent must treat a
// conflicting insert as "someone else already selected today" and return the
// existing row.
type RecordOfTheDayRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.RecordOfTheDay, error)
	CreateIfAbsent(ctx context.Context, rotd *domain.RecordOfTheDay) (*domain.RecordOfTheDay, error)
	DeleteByDate(ctx context.Context, date time.Time) error
	AppendVote(ctx context.Context, id uint, desirability, novelty float64) (*domain.RecordOfTheDay, error)
}

// Selector is what the daily service needs from the selection pipeline.
type Selector interface {
	SelectRecordOfTheDay(ctx context.Context, maxCandidates int) (*uint, domain.SelectionBreakdown)
}

// RecordOfTheDayService wraps the selector with the one-per-date persistence
// contract: the first read of a day runs the pipeline, every later read
// returns the persisted result verbatim, and an explicit refresh clears the
// day so the next read reselects.
type RecordOfTheDayService struct {
	selector Selector
	rotdRepo RecordOfTheDayRepository
}

func NewRecordOfTheDayService(selector Selector, rotdRepo RecordOfTheDayRepository) *RecordOfTheDayService {
	return &RecordOfTheDayService{
		selector: selector,
		rotdRepo: rotdRepo,
	}
}

// Today returns today's persisted selection, running the pipeline first if
// none exists yet. A nil record with a breakdown means "no selection
// possible today" (empty catalog); that is not an error.
func (s *RecordOfTheDayService) Today(ctx context.Context) (*domain.RecordOfTheDay, domain.SelectionBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.SelectionBreakdown{}, fmt.Errorf("context error: %w", err)
	}

	date := today()

	existing, err := s.rotdRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, domain.SelectionBreakdown{}, fmt.Errorf("load record of the day: %w", err)
	}
	if existing != nil {
		return existing, rowBreakdown(existing), nil
	}

	listingID, breakdown := s.selector.SelectRecordOfTheDay(ctx, 0)
	if listingID == nil {
		return nil, breakdown, nil
	}

	row := &domain.RecordOfTheDay{
		Date:                 date,
		ListingID:            *listingID,
		ModelScore:           breakdown.ModelScore,
		EntropyMeasure:       breakdown.EntropyMeasure,
		SystemTemperature:    breakdown.SystemTemperature,
		UtilityTerm:          breakdown.UtilityTerm,
		EntropyTerm:          breakdown.EntropyTerm,
		FreeEnergy:           breakdown.FreeEnergy,
		SelectionProbability: breakdown.SelectionProbability,
		TotalCandidates:      breakdown.TotalCandidates,
		ClusterCount:         breakdown.ClusterCount,
		SelectionMethod:      breakdown.SelectionMethod,
	}

	persisted, err := s.rotdRepo.CreateIfAbsent(ctx, row)
	if err != nil {
		// best-effort contract: the caller still gets the computed winner
		logger.Error("failed to persist record of the day", err)
		breakdown.Error = err.Error()
		return nil, breakdown, nil
	}

	if persisted.ListingID != *listingID {
		// a concurrent writer won the date; theirs is the record of the day
		logger.Info("concurrent selection already persisted for date",
			"date", date.Format("2006-01-02"),
			"listing_id", persisted.ListingID,
		)
	}

	return persisted, rowBreakdown(persisted), nil
}

// Refresh clears today's selection and immediately reselects. The winner may
// legitimately differ from the previous one since sampling is stochastic.
func (s *RecordOfTheDayService) Refresh(ctx context.Context) (*domain.RecordOfTheDay, domain.SelectionBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.SelectionBreakdown{}, fmt.Errorf("context error: %w", err)
	}

	if err := s.rotdRepo.DeleteByDate(ctx, today()); err != nil {
		return nil, domain.SelectionBreakdown{}, fmt.Errorf("clear record of the day: %w", err)
	}

	return s.Today(ctx)
}

// Vote appends a desirability/novelty rating pair (1-5) to today's selection
// and returns the updated aggregates.
func (s *RecordOfTheDayService) Vote(ctx context.Context, desirability, novelty float64) (*domain.RecordOfTheDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if desirability < 1 || desirability > 5 || novelty < 1 || novelty > 5 {
		return nil, fmt.Errorf("ratings must be between 1 and 5")
	}

	row, err := s.rotdRepo.GetByDate(ctx, today())
	if err != nil {
		return nil, fmt.Errorf("load record of the day: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("no record of the day selected yet")
	}

	return s.rotdRepo.AppendVote(ctx, row.ID, desirability, novelty)
}

func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rowBreakdown(r *domain.RecordOfTheDay) domain.SelectionBreakdown {
	return domain.SelectionBreakdown{
		ModelScore:           r.ModelScore,
		EntropyMeasure:       r.EntropyMeasure,
		SystemTemperature:    r.SystemTemperature,
		UtilityTerm:          r.UtilityTerm,
		EntropyTerm:          r.EntropyTerm,
		FreeEnergy:           r.FreeEnergy,
		SelectionProbability: r.SelectionProbability,
		TotalCandidates:      r.TotalCandidates,
		ClusterCount:         r.ClusterCount,
		SelectionMethod:      r.SelectionMethod,
	}
}

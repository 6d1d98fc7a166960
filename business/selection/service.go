package selection

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"crateDigger/domain"
	"crateDigger/pkg/logger"
	"crateDigger/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// ---- Repository interfaces ----

type ListingRepository interface {
	// FindEligible returns listings with score above minScore, ordered by
	// score descending, capped at limit.
	FindEligible(ctx context.Context, minScore float64, limit int) ([]domain.Listing, error)
	// FindRecentWindow returns listings whose record was added after since,
	// newest first, capped at limit.
	FindRecentWindow(ctx context.Context, since time.Time, limit int) ([]domain.Listing, error)
	// FindTopScored returns the single highest-scored listing with a
	// positive score, or nil when none exists.
	FindTopScored(ctx context.Context) (*domain.Listing, error)
}

type FeedbackRepository interface {
	// RecentDesirability averages the desirability feedback over the last
	// limit persisted selections; 0 when there are none.
	RecentDesirability(ctx context.Context, limit int) (float64, error)
	// RecentNoveltyByGenres averages the novelty feedback over the last
	// limit selections whose record shares at least one of the given
	// genres; 0 when there are none.
	RecentNoveltyByGenres(ctx context.Context, genres []string, limit int) (float64, error)
}

// ---- Service ----

// SelectorService runs the thermodynamic selection pipeline. The fitted
// vectorizer/scaler/centroid state lives on the instance, guarded by a mutex
// so concurrent selection calls within one process serialize; cross-process
// duplicates are resolved by the date uniqueness constraint downstream.
type SelectorService struct {
	cfg          Config
	listingRepo  ListingRepository
	feedbackRepo FeedbackRepository

	mu      sync.Mutex
	builder *featureBuilder
	novelty *noveltyModel
	rng     *rand.Rand
}

func NewSelectorService(
	listingRepo ListingRepository,
	feedbackRepo FeedbackRepository,
	cfg Config,
) *SelectorService {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	builder := newFeatureBuilder(cfg)
	return &SelectorService{
		cfg:          cfg,
		listingRepo:  listingRepo,
		feedbackRepo: feedbackRepo,
		builder:      builder,
		novelty:      newNoveltyModel(cfg, builder, rng),
		rng:          rng,
	}
}

// SelectRecordOfTheDay runs the full pipeline: eligible pool, recent window,
// novelty refit, temperature, free energies, Boltzmann draw. It never fails
// hard: a broken pipeline degrades to the highest-scored listing with an
// error tag in the breakdown, and an empty catalog yields (nil, breakdown).
func (s *SelectorService) SelectRecordOfTheDay(ctx context.Context, maxCandidates int) (*uint, domain.SelectionBreakdown) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if maxCandidates <= 0 {
		maxCandidates = s.cfg.MaxCandidates
	}

	timer := prometheus.NewTimer(metrics.SelectionDuration)
	defer timer.ObserveDuration()

	id, breakdown, err := s.selectBoltzmann(ctx, maxCandidates)
	if err != nil {
		logger.Error("thermodynamic selection failed, degrading to highest score", err)
		id, breakdown = s.fallbackHighestScore(ctx, err)
	}

	metrics.SelectionsTotal.WithLabelValues(breakdown.SelectionMethod).Inc()
	return id, breakdown
}

func (s *SelectorService) selectBoltzmann(ctx context.Context, maxCandidates int) (*uint, domain.SelectionBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.SelectionBreakdown{}, fmt.Errorf("context error: %w", err)
	}

	eligible, err := s.listingRepo.FindEligible(ctx, s.cfg.MinScore, maxCandidates)
	if err != nil {
		return nil, domain.SelectionBreakdown{}, fmt.Errorf("load eligible candidates: %w", err)
	}
	if len(eligible) == 0 {
		// documented contract: empty eligible pool is "no selection",
		// not a pipeline failure
		logger.Warn("no eligible listings for record of the day")
		return nil, domain.SelectionBreakdown{SelectionMethod: domain.SelectionMethodBoltzmann}, nil
	}

	since := time.Now().AddDate(0, 0, -s.cfg.RecentWindowDays)
	recent, err := s.listingRepo.FindRecentWindow(ctx, since, s.cfg.RecentWindowLimit)
	if err != nil || len(recent) == 0 {
		recent = eligible
	}

	s.novelty.refit(recent)

	desirability, err := s.feedbackRepo.RecentDesirability(ctx, s.cfg.DesirabilityLookback)
	if err != nil {
		desirability = 0
	}
	temperature := systemTemperature(s.cfg, eligible, desirability)

	ids := make([]uint, len(eligible))
	entropies := make([]float64, len(eligible))
	utilities := make([]float64, len(eligible))
	entropyTerms := make([]float64, len(eligible))
	freeEnergies := make([]float64, len(eligible))

	for i, l := range eligible {
		noveltyFb, err := s.feedbackRepo.RecentNoveltyByGenres(ctx, l.Record.Genres, s.cfg.NoveltyLookback)
		if err != nil {
			noveltyFb = 0
		}

		e := s.novelty.entropy(l, noveltyFb)
		f, u, et := freeEnergy(s.cfg, l.Score, e, temperature)

		ids[i] = l.ID
		entropies[i] = e
		utilities[i] = u
		entropyTerms[i] = et
		freeEnergies[i] = f
	}

	selectedID, probability := boltzmannSample(freeEnergies, ids, temperature, s.rng)

	selectedIdx := 0
	for i, id := range ids {
		if id == selectedID {
			selectedIdx = i
			break
		}
	}
	selected := eligible[selectedIdx]

	breakdown := domain.SelectionBreakdown{
		ModelScore:           selected.Score,
		EntropyMeasure:       entropies[selectedIdx],
		SystemTemperature:    temperature,
		UtilityTerm:          utilities[selectedIdx],
		EntropyTerm:          entropyTerms[selectedIdx],
		FreeEnergy:           freeEnergies[selectedIdx],
		SelectionProbability: probability,
		TotalCandidates:      len(eligible),
		ClusterCount:         s.novelty.clusterCount(),
		SelectionMethod:      domain.SelectionMethodBoltzmann,
	}

	tid := TraceIDFromContext(ctx)
	logger.Info("selected record of the day",
		"trace_id", tid,
		"listing_id", selectedID,
		"artist", selected.Record.Artist,
		"title", selected.Record.Title,
		"free_energy", breakdown.FreeEnergy,
		"temperature", temperature,
		"probability", probability,
		"candidates", len(eligible),
	)

	return &selectedID, breakdown, nil
}

// fallbackHighestScore is the degraded path: the best positively-scored
// listing, or no selection at all when the catalog has none.
func (s *SelectorService) fallbackHighestScore(ctx context.Context, cause error) (*uint, domain.SelectionBreakdown) {
	breakdown := domain.SelectionBreakdown{
		SelectionMethod: domain.SelectionMethodFallback,
		Error:           cause.Error(),
	}

	top, err := s.listingRepo.FindTopScored(ctx)
	if err != nil || top == nil {
		breakdown.SelectionMethod = domain.SelectionMethodFallbackError
		return nil, breakdown
	}

	breakdown.ModelScore = top.Score
	breakdown.UtilityTerm = -top.Score
	breakdown.TotalCandidates = 1
	return &top.ID, breakdown
}

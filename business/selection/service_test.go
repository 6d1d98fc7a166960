package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"crateDigger/domain"
)

type fakeListingRepo struct {
	eligible    []domain.Listing
	recent      []domain.Listing
	top         *domain.Listing
	eligibleErr error
	recentErr   error
	topErr      error
}

func (f *fakeListingRepo) FindEligible(ctx context.Context, minScore float64, limit int) ([]domain.Listing, error) {
	return f.eligible, f.eligibleErr
}

func (f *fakeListingRepo) FindRecentWindow(ctx context.Context, since time.Time, limit int) ([]domain.Listing, error) {
	return f.recent, f.recentErr
}

func (f *fakeListingRepo) FindTopScored(ctx context.Context) (*domain.Listing, error) {
	return f.top, f.topErr
}

type fakeFeedbackRepo struct {
	desirability float64
	novelty      float64
}

func (f *fakeFeedbackRepo) RecentDesirability(ctx context.Context, limit int) (float64, error) {
	return f.desirability, nil
}

func (f *fakeFeedbackRepo) RecentNoveltyByGenres(ctx context.Context, genres []string, limit int) (float64, error) {
	return f.novelty, nil
}

func testPool() []domain.Listing {
	scores := []float64{0.9, 0.7, 0.3, 0.95, 0.8, 0.75, 0.85, 0.6, 0.65, 0.55}
	pool := make([]domain.Listing, len(scores))
	for i, s := range scores {
		pool[i] = windowListing(uint(i+1), "Pool Artist", "Pool Title", 20+i, 8+i, 15.0+float64(i), s)
	}
	return pool
}

func TestSelectRecordOfTheDay(t *testing.T) {
	pool := testPool()
	svc := NewSelectorService(
		&fakeListingRepo{eligible: pool, recent: pool},
		&fakeFeedbackRepo{},
		DefaultConfig(),
	)

	id, breakdown := svc.SelectRecordOfTheDay(context.Background(), 0)
	if id == nil {
		t.Fatalf("expected a winner from a populated pool")
	}

	found := false
	for _, l := range pool {
		if l.ID == *id {
			found = true
		}
	}
	if !found {
		t.Fatalf("winner %d not in the candidate pool", *id)
	}

	if breakdown.SelectionMethod != domain.SelectionMethodBoltzmann {
		t.Errorf("method = %q, want %q", breakdown.SelectionMethod, domain.SelectionMethodBoltzmann)
	}
	if breakdown.TotalCandidates != len(pool) {
		t.Errorf("total candidates = %d, want %d", breakdown.TotalCandidates, len(pool))
	}
	if breakdown.SystemTemperature < 0.1 || breakdown.SystemTemperature > 1.0 {
		t.Errorf("temperature %v out of range", breakdown.SystemTemperature)
	}
	if breakdown.SelectionProbability <= 0 || breakdown.SelectionProbability > 1 {
		t.Errorf("probability %v out of range", breakdown.SelectionProbability)
	}
	if breakdown.EntropyMeasure < 0.1 || breakdown.EntropyMeasure > 0.9 {
		t.Errorf("entropy %v out of range", breakdown.EntropyMeasure)
	}
	if breakdown.Error != "" {
		t.Errorf("unexpected breakdown error: %s", breakdown.Error)
	}
}

func TestSelectRecordOfTheDayEmptyPool(t *testing.T) {
	svc := NewSelectorService(&fakeListingRepo{}, &fakeFeedbackRepo{}, DefaultConfig())

	id, breakdown := svc.SelectRecordOfTheDay(context.Background(), 0)
	if id != nil {
		t.Fatalf("empty catalog must yield no selection, got %d", *id)
	}
	if breakdown.SelectionMethod != domain.SelectionMethodBoltzmann {
		t.Errorf("empty pool is not a failure, method = %q", breakdown.SelectionMethod)
	}
}

func TestSelectRecordOfTheDayFallsBackOnRepoError(t *testing.T) {
	top := windowListing(42, "Fallback Artist", "Fallback Title", 50, 10, 25.0, 3.2)
	svc := NewSelectorService(
		&fakeListingRepo{eligibleErr: errors.New("db down"), top: &top},
		&fakeFeedbackRepo{},
		DefaultConfig(),
	)

	id, breakdown := svc.SelectRecordOfTheDay(context.Background(), 0)
	if id == nil || *id != 42 {
		t.Fatalf("fallback should return the top-scored listing")
	}
	if breakdown.SelectionMethod != domain.SelectionMethodFallback {
		t.Errorf("method = %q, want %q", breakdown.SelectionMethod, domain.SelectionMethodFallback)
	}
	if breakdown.Error == "" {
		t.Errorf("fallback breakdown should carry the cause")
	}
	if breakdown.ModelScore != top.Score {
		t.Errorf("fallback score = %v, want %v", breakdown.ModelScore, top.Score)
	}
}

func TestSelectRecordOfTheDayDoubleDegradation(t *testing.T) {
	svc := NewSelectorService(
		&fakeListingRepo{eligibleErr: errors.New("db down"), topErr: errors.New("db still down")},
		&fakeFeedbackRepo{},
		DefaultConfig(),
	)

	id, breakdown := svc.SelectRecordOfTheDay(context.Background(), 0)
	if id != nil {
		t.Fatalf("no listing should be returned when even the fallback fails")
	}
	if breakdown.SelectionMethod != domain.SelectionMethodFallbackError {
		t.Errorf("method = %q, want %q", breakdown.SelectionMethod, domain.SelectionMethodFallbackError)
	}
}

func TestSelectRecordOfTheDayUsesEligibleWhenRecentEmpty(t *testing.T) {
	pool := testPool()
	svc := NewSelectorService(
		&fakeListingRepo{eligible: pool, recentErr: errors.New("window query failed")},
		&fakeFeedbackRepo{},
		DefaultConfig(),
	)

	id, breakdown := svc.SelectRecordOfTheDay(context.Background(), 0)
	if id == nil {
		t.Fatalf("selection should survive a recent-window failure")
	}
	if breakdown.ClusterCount == 0 {
		t.Errorf("novelty model should have fit on the eligible pool")
	}
}

package scoring

import (
	"context"
	"errors"
	"math"
	"testing"

	"crateDigger/domain"
)

func TestCalculateScore(t *testing.T) {
	cases := []struct {
		wants, haves int
		price        float64
		want         float64
	}{
		// log(10/5 + 1)*10 + log(15)*2 + 50/11
		{10, 5, 10.0, math.Round((math.Log(3)*10+math.Log(15)*2+50.0/11.0)*100) / 100},
		// zero haves floors the denominator at 0.01
		{1, 0, 0, math.Round((math.Log(1/0.01+1)*10+math.Log(1)*2+50.0)*100) / 100},
		// zero everything still yields the price term
		{0, 0, 0, math.Round((math.Log(1.0)*10+math.Log(1.0)*2+50.0)*100) / 100},
	}

	for _, tc := range cases {
		got := CalculateScore(tc.wants, tc.haves, tc.price)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("CalculateScore(%d, %d, %v) = %v, want %v", tc.wants, tc.haves, tc.price, got, tc.want)
		}
	}
}

func TestCalculateScoreMonotonicInDemand(t *testing.T) {
	low := CalculateScore(5, 10, 20)
	high := CalculateScore(50, 10, 20)
	if high <= low {
		t.Errorf("more wants should score higher: %v <= %v", high, low)
	}

	cheap := CalculateScore(10, 10, 5)
	dear := CalculateScore(10, 10, 100)
	if cheap <= dear {
		t.Errorf("cheaper copy should score higher: %v <= %v", cheap, dear)
	}
}

type fakeListingRepo struct {
	listings  []domain.Listing
	scores    map[uint]float64
	keepers   map[uint]bool
	evaluated []uint
	kept      []uint
	scoreErr  error
}

func (f *fakeListingRepo) FindUnevaluatedBySeller(ctx context.Context, seller string, limit int) ([]domain.Listing, error) {
	if limit < len(f.listings) {
		return f.listings[:limit], nil
	}
	return f.listings, nil
}

func (f *fakeListingRepo) UpdateScore(ctx context.Context, listingID uint, score float64) error {
	if f.scoreErr != nil {
		return f.scoreErr
	}
	if f.scores == nil {
		f.scores = make(map[uint]float64)
	}
	f.scores[listingID] = score
	return nil
}

func (f *fakeListingRepo) UpdatePredictedKeeper(ctx context.Context, listingID uint, predicted bool) error {
	if f.keepers == nil {
		f.keepers = make(map[uint]bool)
	}
	f.keepers[listingID] = predicted
	return nil
}

func (f *fakeListingRepo) MarkEvaluated(ctx context.Context, listingIDs []uint, keeperIDs []uint) error {
	f.evaluated = listingIDs
	f.kept = keeperIDs
	return nil
}

type fakePredictorRepo struct {
	predictions []domain.KeeperPrediction
	err         error
}

func (f *fakePredictorRepo) Predict(ctx context.Context, listingIDs []uint) ([]domain.KeeperPrediction, error) {
	return f.predictions, f.err
}

func unevaluatedListing(id uint, wants, haves int, price float64) domain.Listing {
	return domain.Listing{
		ID:          id,
		RecordPrice: price,
		Record:      domain.Record{ID: id, Wants: wants, Haves: haves},
	}
}

func TestScoreUnevaluatedPersistsScores(t *testing.T) {
	repo := &fakeListingRepo{listings: []domain.Listing{
		unevaluatedListing(1, 10, 5, 10),
		unevaluatedListing(2, 40, 2, 30),
	}}
	svc := NewScoringService(repo, &fakePredictorRepo{})

	listings, err := svc.ScoreUnevaluated(context.Background(), "seller", 10)
	if err != nil {
		t.Fatalf("ScoreUnevaluated failed: %v", err)
	}

	for _, l := range listings {
		want := CalculateScore(l.Record.Wants, l.Record.Haves, l.RecordPrice)
		if l.Score != want {
			t.Errorf("listing %d score = %v, want %v", l.ID, l.Score, want)
		}
		if repo.scores[l.ID] != want {
			t.Errorf("listing %d score not persisted", l.ID)
		}
	}
}

func TestPredictKeepersNeutralOnFailure(t *testing.T) {
	repo := &fakeListingRepo{}
	svc := NewScoringService(repo, &fakePredictorRepo{err: errors.New("service down")})

	predictions, err := svc.PredictKeepers(context.Background(), []uint{1, 2, 3})
	if err != nil {
		t.Fatalf("predictor outage must not fail the request: %v", err)
	}
	if len(predictions) != 3 {
		t.Fatalf("expected 3 neutral predictions, got %d", len(predictions))
	}
	for _, p := range predictions {
		if p.Probability != 0.5 {
			t.Errorf("neutral probability = %v, want 0.5", p.Probability)
		}
	}
}

func TestPredictKeepersStoresPredictions(t *testing.T) {
	repo := &fakeListingRepo{}
	svc := NewScoringService(repo, &fakePredictorRepo{predictions: []domain.KeeperPrediction{
		{ListingID: 1, Prediction: true, Probability: 0.92},
		{ListingID: 2, Prediction: false, Probability: 0.13},
	}})

	predictions, err := svc.PredictKeepers(context.Background(), []uint{1, 2})
	if err != nil {
		t.Fatalf("PredictKeepers failed: %v", err)
	}
	if len(predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(predictions))
	}
	if !repo.keepers[1] || repo.keepers[2] {
		t.Errorf("stored predictions do not match: %v", repo.keepers)
	}
}

func TestSubmitEvaluations(t *testing.T) {
	repo := &fakeListingRepo{}
	svc := NewScoringService(repo, &fakePredictorRepo{})

	if err := svc.SubmitEvaluations(context.Background(), nil, nil); err == nil {
		t.Errorf("empty batch should be rejected")
	}

	if err := svc.SubmitEvaluations(context.Background(), []uint{1, 2, 3}, []uint{2}); err != nil {
		t.Fatalf("SubmitEvaluations failed: %v", err)
	}
	if len(repo.evaluated) != 3 || len(repo.kept) != 1 || repo.kept[0] != 2 {
		t.Errorf("evaluation batch not forwarded: evaluated=%v kept=%v", repo.evaluated, repo.kept)
	}
}

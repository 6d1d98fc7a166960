package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"crateDigger/domain"
)

func windowListing(id uint, artist, title string, wants, haves int, price, score float64) domain.Listing {
	year := 1970 + int(id)%40
	return domain.Listing{
		ID:          id,
		RecordPrice: price,
		Score:       score,
		Record: domain.Record{
			ID:     id,
			Artist: artist,
			Title:  title,
			Label:  "Test Label",
			Wants:  wants,
			Haves:  haves,
			Year:   &year,
			Genres: []string{"Electronic"},
			Styles: []string{"House"},
		},
	}
}

func testWindow(n int) []domain.Listing {
	window := make([]domain.Listing, n)
	for i := 0; i < n; i++ {
		window[i] = windowListing(
			uint(i+1),
			fmt.Sprintf("Artist %c", 'A'+i%7),
			fmt.Sprintf("Album Number %d Deep Cuts", i),
			10+i*3, 5+i, 9.99+float64(i), 0.5+float64(i)*0.1,
		)
	}
	return window
}

func newTestNoveltyModel() *noveltyModel {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(7))
	return newNoveltyModel(cfg, newFeatureBuilder(cfg), rng)
}

func TestRefitSkipsSmallWindow(t *testing.T) {
	m := newTestNoveltyModel()

	if m.refit(testWindow(4)) {
		t.Fatalf("refit should refuse a window below the minimum size")
	}
	if m.centroids != nil {
		t.Errorf("skipped refit must leave no centroids")
	}
}

func TestRefitBuildsCentroids(t *testing.T) {
	m := newTestNoveltyModel()
	window := testWindow(12)

	if !m.refit(window) {
		t.Fatalf("refit failed on a valid window")
	}
	if got := m.clusterCount(); got != m.cfg.NumClusters {
		t.Errorf("cluster count = %d, want %d", got, m.cfg.NumClusters)
	}
	if m.maxCentroidDist <= 0 {
		t.Errorf("max pairwise centroid distance should be positive, got %v", m.maxCentroidDist)
	}
}

func TestRefitCachesUnchangedWindow(t *testing.T) {
	m := newTestNoveltyModel()
	window := testWindow(10)

	if !m.refit(window) {
		t.Fatalf("initial refit failed")
	}
	key := m.windowKey

	if !m.refit(window) {
		t.Fatalf("cached refit should report success")
	}
	if m.windowKey != key {
		t.Errorf("unchanged window must hit the cache, key changed %v -> %v", key, m.windowKey)
	}

	// a different window invalidates the cache
	if !m.refit(testWindow(11)) {
		t.Fatalf("refit on new window failed")
	}
	if m.windowKey == key {
		t.Errorf("changed window should produce a new cache key")
	}
}

func TestEntropyWithoutCentroids(t *testing.T) {
	m := newTestNoveltyModel()
	l := windowListing(1, "Artist", "Title", 10, 5, 12.0, 0.8)

	for i := 0; i < 50; i++ {
		e := m.entropy(l, 0)
		if e < 0.3 || e > 0.7 {
			t.Fatalf("cold-start entropy %v outside [0.3, 0.7]", e)
		}
	}
}

func TestEntropyRangeHoldsUnderFeedback(t *testing.T) {
	m := newTestNoveltyModel()
	window := testWindow(15)
	if !m.refit(window) {
		t.Fatalf("refit failed")
	}

	outsider := windowListing(99, "Completely Different Performer", "Unheard Experimental Suite", 900, 1, 180.0, 14.0)

	for _, fb := range []float64{-5, -1, 0, 1, 5} {
		for _, l := range append(window, outsider) {
			e := m.entropy(l, fb)
			if e < m.cfg.EntropyMin || e > m.cfg.EntropyMax {
				t.Errorf("entropy %v outside [%v, %v] with feedback %v",
					e, m.cfg.EntropyMin, m.cfg.EntropyMax, fb)
			}
		}
	}
}

func TestKMeansCapsClusterCountAtRows(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	rows := [][]float64{{0, 0}, {1, 1}, {2, 2}}

	centroids := kmeans(rows, 5, rng)
	if len(centroids) != 3 {
		t.Errorf("k must be capped at the row count, got %d centroids", len(centroids))
	}
}

func TestPCATransformReducesDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	rows := make([][]float64, 20)
	for i := range rows {
		row := make([]float64, 15)
		for j := range row {
			row[j] = rng.NormFloat64() * float64(j+1)
		}
		rows[i] = row
	}

	p := &pcaTransform{}
	out := p.fitTransform(rows, 10, rng)

	if len(out) != len(rows) {
		t.Fatalf("row count changed: %d -> %d", len(rows), len(out))
	}
	for _, row := range out {
		if len(row) != 10 {
			t.Fatalf("projected dimensionality = %d, want 10", len(row))
		}
	}
}

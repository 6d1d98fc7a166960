package selection

import (
	"math"
	"testing"

	"crateDigger/domain"
)

func TestFeatureBuilderEmptyInput(t *testing.T) {
	b := newFeatureBuilder(DefaultConfig())

	rows, ids, err := b.build(nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != nil || ids != nil {
		t.Errorf("empty input should yield nil output")
	}
}

func TestFeatureBuilderStableDimensions(t *testing.T) {
	b := newFeatureBuilder(DefaultConfig())
	window := testWindow(10)

	rows, ids, err := b.build(window, true)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(rows) != len(window) || len(ids) != len(window) {
		t.Fatalf("row/id count mismatch: %d rows, %d ids, %d listings", len(rows), len(ids), len(window))
	}

	dim := len(rows[0])
	for i, row := range rows {
		if len(row) != dim {
			t.Fatalf("row %d has dim %d, want %d", i, len(row), dim)
		}
	}
	for i, l := range window {
		if ids[i] != l.ID {
			t.Errorf("id order not preserved at %d: got %d want %d", i, ids[i], l.ID)
		}
	}

	// transforming a single listing against the fitted state keeps the dim
	single, _, err := b.build(window[:1], false)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if len(single[0]) != dim {
		t.Errorf("transform dim %d differs from fit dim %d", len(single[0]), dim)
	}
}

func TestFeatureBuilderRefitsOnVocabularyDrift(t *testing.T) {
	b := newFeatureBuilder(DefaultConfig())

	if _, _, err := b.build(testWindow(8), true); err != nil {
		t.Fatalf("initial fit failed: %v", err)
	}

	// a listing with entirely unseen vocabulary still produces a vector
	odd := windowListing(77, "Zxqv Wblorp", "Kjfhsd Qpwoe Mxnzb", 3, 2, 4.5, 0.2)
	rows, _, err := b.build([]domain.Listing{odd}, false)
	if err != nil {
		t.Fatalf("build on unseen text failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
}

func TestTokenizeDropsNoise(t *testing.T) {
	tokens := tokenize("The Best of A Tribe: 12\" Mixes & B-Sides!")

	for _, tok := range tokens {
		if _, isStop := stopWords[tok]; isStop {
			t.Errorf("stop word %q leaked through", tok)
		}
		if len(tok) < 2 {
			t.Errorf("single-char token %q leaked through", tok)
		}
	}
}

func TestTextVectorizerVocabularyCap(t *testing.T) {
	v := newTextVectorizer(3)
	docs := []string{
		"alpha beta gamma delta",
		"alpha beta gamma",
		"alpha beta",
		"alpha",
	}

	rows := v.fitTransform(docs)
	for _, row := range rows {
		if len(row) != 3 {
			t.Fatalf("vocabulary must be capped at 3, got %d columns", len(row))
		}
	}

	// rows with terms in vocabulary are L2 normalized
	norm := 0.0
	for _, x := range rows[0] {
		norm += x * x
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("TF-IDF row not unit length: %v", math.Sqrt(norm))
	}
}

func TestStandardScalerRejectsDimensionMismatch(t *testing.T) {
	s := &standardScaler{}
	s.fit([][]float64{{1, 2}, {3, 4}})

	if _, err := s.transform([][]float64{{1, 2, 3}}); err == nil {
		t.Errorf("dimension mismatch should error")
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	s := &standardScaler{}
	rows := s.fitTransform([][]float64{{5, 1}, {5, 2}, {5, 3}})

	for _, row := range rows {
		if math.IsNaN(row[0]) || math.IsInf(row[0], 0) {
			t.Fatalf("constant column produced %v", row[0])
		}
	}
}

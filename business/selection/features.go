package selection

import (
	"strings"

	"crateDigger/domain"
)

// featureBuilder turns listings into fixed-length numeric vectors: a block of
// standardized numeric attributes followed by a TF-IDF text embedding of the
// record's artist/title/label/tags. Vocabulary and scaling statistics are fit
// once and reused; a stale transform falls back to refitting instead of
// failing the selection run.
type featureBuilder struct {
	cfg        Config
	vectorizer *textVectorizer
	scaler     *standardScaler
	fitted     bool
}

func newFeatureBuilder(cfg Config) *featureBuilder {
	return &featureBuilder{
		cfg:        cfg,
		vectorizer: newTextVectorizer(cfg.MaxTextFeatures),
		scaler:     &standardScaler{},
	}
}

func (b *featureBuilder) listingText(l domain.Listing) string {
	parts := []string{l.Record.Artist, l.Record.Title, l.Record.Label}
	parts = append(parts, l.Record.Genres...)
	parts = append(parts, l.Record.Styles...)
	return strings.Join(parts, " ")
}

func (b *featureBuilder) listingNumeric(l domain.Listing) []float64 {
	haves := l.Record.Haves
	if haves < 1 {
		haves = 1
	}

	year := b.cfg.DefaultYear
	if l.Record.Year != nil {
		year = *l.Record.Year
	}

	return []float64{
		l.RecordPrice / b.cfg.PriceDivisor,
		float64(l.Record.Wants),
		float64(l.Record.Haves),
		float64(l.Record.Wants) / float64(haves),
		float64(year),
		l.Score,
	}
}

// build returns one feature vector per listing, order-preserving, along with
// the listing IDs. With fit=true (or when never fitted) the vectorizer and
// scaler are refit on this input.
func (b *featureBuilder) build(listings []domain.Listing, fit bool) ([][]float64, []uint, error) {
	if len(listings) == 0 {
		return nil, nil, nil
	}

	texts := make([]string, len(listings))
	ids := make([]uint, len(listings))
	numeric := make([][]float64, len(listings))
	for i, l := range listings {
		texts[i] = b.listingText(l)
		numeric[i] = b.listingNumeric(l)
		ids[i] = l.ID
	}

	var textRows [][]float64
	if fit || !b.fitted {
		textRows = b.vectorizer.fitTransform(texts)
	} else {
		rows, err := b.vectorizer.transform(texts)
		if err != nil {
			rows = b.vectorizer.fitTransform(texts)
		}
		textRows = rows
	}

	combined := make([][]float64, len(listings))
	for i := range listings {
		row := make([]float64, 0, len(numeric[i])+len(textRows[i]))
		row = append(row, numeric[i]...)
		row = append(row, textRows[i]...)
		combined[i] = row
	}

	var scaled [][]float64
	if fit {
		scaled = b.scaler.fitTransform(combined)
	} else {
		rows, err := b.scaler.transform(combined)
		if err != nil {
			rows = b.scaler.fitTransform(combined)
		}
		scaled = rows
	}

	b.fitted = true
	return scaled, ids, nil
}

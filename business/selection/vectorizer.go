package selection

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

var errNotFitted = errors.New("transform called before fit")

// english stop words that show up constantly in label/title text and carry
// no signal for similarity
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "to": {}, "with": {},
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := stopWords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// textVectorizer is a bounded-vocabulary TF-IDF transform. The vocabulary is
// the maxFeatures most frequent terms seen during fit.
type textVectorizer struct {
	maxFeatures int
	vocab       map[string]int
	idf         []float64
	fitted      bool
}

func newTextVectorizer(maxFeatures int) *textVectorizer {
	return &textVectorizer{maxFeatures: maxFeatures}
}

func (v *textVectorizer) fit(docs []string) {
	termCounts := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			termCounts[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	terms := make([]string, 0, len(termCounts))
	for t := range termCounts {
		terms = append(terms, t)
	}
	// most frequent first; ties broken lexicographically so the vocabulary
	// is deterministic for a given corpus
	sort.Slice(terms, func(i, j int) bool {
		if termCounts[terms[i]] != termCounts[terms[j]] {
			return termCounts[terms[i]] > termCounts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}

	n := len(docs)
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for col, t := range terms {
		v.vocab[t] = col
		v.idf[col] = math.Log(float64(1+n)/float64(1+docFreq[t])) + 1.0
	}
	v.fitted = true
}

func (v *textVectorizer) transform(docs []string) ([][]float64, error) {
	if !v.fitted {
		return nil, errNotFitted
	}

	out := make([][]float64, len(docs))
	for i, doc := range docs {
		row := make([]float64, len(v.idf))
		for _, tok := range tokenize(doc) {
			if col, ok := v.vocab[tok]; ok {
				row[col]++
			}
		}
		for col := range row {
			row[col] *= v.idf[col]
		}
		normalize(row)
		out[i] = row
	}
	return out, nil
}

func (v *textVectorizer) fitTransform(docs []string) [][]float64 {
	v.fit(docs)
	rows, _ := v.transform(docs)
	return rows
}

// standardScaler standardizes columns to zero mean and unit variance using
// statistics captured at fit time.
type standardScaler struct {
	means  []float64
	stds   []float64
	fitted bool
}

func (s *standardScaler) fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	d := len(rows[0])
	s.means = make([]float64, d)
	s.stds = make([]float64, d)

	col := make([]float64, len(rows))
	for j := 0; j < d; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		mean, std := meanStd(col)
		if std == 0 {
			std = 1
		}
		s.means[j] = mean
		s.stds[j] = std
	}
	s.fitted = true
}

func (s *standardScaler) transform(rows [][]float64) ([][]float64, error) {
	if !s.fitted {
		return nil, errNotFitted
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.means) {
			return nil, errors.New("feature dimensionality does not match fitted scaler")
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.means[j]) / s.stds[j]
		}
		out[i] = scaled
	}
	return out, nil
}

func (s *standardScaler) fitTransform(rows [][]float64) [][]float64 {
	s.fit(rows)
	out, _ := s.transform(rows)
	return out
}

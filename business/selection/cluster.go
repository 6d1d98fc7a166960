package selection

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"

	"crateDigger/domain"
	"crateDigger/pkg/logger"
)

const (
	kmeansMaxIterations = 100
	distanceEpsilon     = 1e-6
)

// pcaTransform projects feature vectors onto the top principal components,
// estimated by power iteration with deflation.
type pcaTransform struct {
	components [][]float64
	means      []float64
	fitted     bool
}

func (p *pcaTransform) fit(rows [][]float64, k int, rng *rand.Rand) {
	d := len(rows[0])
	if k > d {
		k = d
	}

	p.means = make([]float64, d)
	for _, row := range rows {
		for j, v := range row {
			p.means[j] += v
		}
	}
	for j := range p.means {
		p.means[j] /= float64(len(rows))
	}

	cov := covariance(rows)
	p.components = make([][]float64, 0, k)
	for i := 0; i < k; i++ {
		vec, lambda := dominantEigen(cov, rng)
		p.components = append(p.components, vec)
		deflate(cov, vec, lambda)
	}
	p.fitted = true
}

func (p *pcaTransform) transform(rows [][]float64) ([][]float64, error) {
	if !p.fitted {
		return nil, errNotFitted
	}

	out := make([][]float64, len(rows))
	centered := make([]float64, len(p.means))
	for i, row := range rows {
		if len(row) != len(p.means) {
			return nil, errNotFitted
		}
		for j, v := range row {
			centered[j] = v - p.means[j]
		}
		proj := make([]float64, len(p.components))
		for c, comp := range p.components {
			proj[c] = dot(centered, comp)
		}
		out[i] = proj
	}
	return out, nil
}

func (p *pcaTransform) fitTransform(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	p.fit(rows, k, rng)
	out, _ := p.transform(rows)
	return out
}

// kmeans runs Lloyd's algorithm and returns the centroids. Empty clusters
// keep their previous centroid.
func kmeans(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	if k > len(rows) {
		k = len(rows)
	}

	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(len(rows))[:k] {
		centroids[i] = append([]float64(nil), rows[idx]...)
	}

	assignments := make([]int, len(rows))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, row := range rows {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := euclidean(row, centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, len(rows[0]))
		}
		for i, row := range rows {
			c := assignments[i]
			counts[c]++
			for j, v := range row {
				sums[c][j] += v
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	return centroids
}

// noveltyModel maintains cluster centroids over the recent-listings window
// and scores how far a candidate sits from the nearest one.
type noveltyModel struct {
	cfg       Config
	builder   *featureBuilder
	pca       *pcaTransform
	rng       *rand.Rand
	centroids [][]float64
	// maximum pairwise centroid distance, the normalization divisor
	maxCentroidDist float64
	pcaActive       bool
	windowKey       uint64
}

func newNoveltyModel(cfg Config, builder *featureBuilder, rng *rand.Rand) *noveltyModel {
	return &noveltyModel{
		cfg:     cfg,
		builder: builder,
		pca:     &pcaTransform{},
		rng:     rng,
	}
}

// windowHash identifies a refit window by its listing IDs in order.
func windowHash(listings []domain.Listing) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, l := range listings {
		binary.LittleEndian.PutUint64(buf[:], uint64(l.ID))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// refit rebuilds the centroids from the given window. It reports false when
// the window is too small or features cannot be built; prior centroids stay
// in effect in that case. An unchanged window is a cached no-op.
func (m *noveltyModel) refit(window []domain.Listing) bool {
	if len(window) < m.cfg.MinRefitListings {
		logger.Warn("insufficient recent listings for clustering", "count", len(window))
		return false
	}

	key := windowHash(window)
	if m.centroids != nil && key == m.windowKey {
		logger.Debug("using cached cluster model", "window_key", key)
		return true
	}

	vectors, _, err := m.builder.build(window, true)
	if err != nil || len(vectors) == 0 {
		return false
	}

	m.pcaActive = false
	if len(vectors[0]) > m.cfg.PCAThreshold {
		vectors = m.pca.fitTransform(vectors, m.cfg.PCAComponents, m.rng)
		m.pcaActive = true
	}

	m.centroids = kmeans(vectors, m.cfg.NumClusters, m.rng)

	m.maxCentroidDist = 0
	for i := range m.centroids {
		for j := i + 1; j < len(m.centroids); j++ {
			if d := euclidean(m.centroids[i], m.centroids[j]); d > m.maxCentroidDist {
				m.maxCentroidDist = d
			}
		}
	}

	m.windowKey = key
	NoveltyRefitsTotal.Inc()
	logger.Info("updated cluster model", "window_size", len(window), "clusters", len(m.centroids))
	return true
}

func (m *noveltyModel) clusterCount() int {
	return len(m.centroids)
}

// entropy returns the novelty measure for one candidate in
// [EntropyMin, EntropyMax]. Without fitted centroids it falls back to a
// randomized default in [0.3, 0.7] — an explicit interim policy until enough
// recent listings exist to cluster.
func (m *noveltyModel) entropy(l domain.Listing, noveltyFeedback float64) float64 {
	if m.centroids == nil {
		return 0.3 + 0.4*m.rng.Float64()
	}

	vectors, _, err := m.builder.build([]domain.Listing{l}, false)
	if err != nil || len(vectors) == 0 {
		return 0.5
	}

	if m.pcaActive {
		projected, err := m.pca.transform(vectors)
		if err != nil {
			return 0.5
		}
		vectors = projected
	}

	minDist := math.Inf(1)
	for _, centroid := range m.centroids {
		if d := euclidean(vectors[0], centroid); d < minDist {
			minDist = d
		}
	}

	measure := 0.5
	if m.maxCentroidDist > 0 {
		measure = minDist / (m.maxCentroidDist + distanceEpsilon)
	}

	// feedback from previously selected records with overlapping genres
	// biases the raw measure before clipping, so the documented range holds
	measure *= 1 + m.cfg.NoveltyBias*noveltyFeedback

	return clip(measure, m.cfg.EntropyMin, m.cfg.EntropyMax)
}

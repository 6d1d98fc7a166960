package selection

import (
	"math"
	"math/rand"
)

// boltzmannSample draws one candidate with probability proportional to
// exp(-F/T). Lower free energy means higher probability; the temperature
// flattens or sharpens the distribution. Numeric degeneracy (temperature near
// zero, overflowing weights) falls back to a uniform draw — a designed
// branch, not error suppression.
func boltzmannSample(freeEnergies []float64, ids []uint, temperature float64, rng *rand.Rand) (uint, float64) {
	if len(ids) == 0 {
		return 0, 0
	}

	if temperature <= 0 {
		return uniformFallback(ids, rng)
	}

	weights := make([]float64, len(freeEnergies))
	sum := 0.0
	for i, f := range freeEnergies {
		w := math.Exp(-f / temperature)
		if math.IsInf(w, 0) || math.IsNaN(w) {
			return uniformFallback(ids, rng)
		}
		weights[i] = w
		sum += w
	}
	if sum <= 0 {
		return uniformFallback(ids, rng)
	}

	r := rng.Float64() * sum
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return ids[i], w / sum
		}
	}

	// floating point slop: the loop can exit without picking
	last := len(ids) - 1
	return ids[last], weights[last] / sum
}

func uniformFallback(ids []uint, rng *rand.Rand) (uint, float64) {
	SamplerFallbacksTotal.Inc()
	return ids[rng.Intn(len(ids))], 1.0 / float64(len(ids))
}

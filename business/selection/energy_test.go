package selection

import (
	"math"
	"testing"
)

func TestFreeEnergyDecomposition(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		score       float64
		entropy     float64
		temperature float64
	}{
		{0.9, 0.5, 0.5},
		{12.34, 0.1, 0.1},
		{3.0, 0.9, 1.0},
		{0.01, 0.42, 0.77},
	}

	for _, tc := range cases {
		free, utility, entropyTerm := freeEnergy(cfg, tc.score, tc.entropy, tc.temperature)

		if utility != -tc.score {
			t.Errorf("score %v: utility = %v, want %v", tc.score, utility, -tc.score)
		}
		if math.Abs(free-(utility-tc.temperature*tc.entropy)) > 1e-5 {
			t.Errorf("score %v: free = %v does not match U - T*S = %v",
				tc.score, free, utility-tc.temperature*tc.entropy)
		}
		if math.Abs(entropyTerm-tc.temperature*tc.entropy) > 1e-12 {
			t.Errorf("score %v: entropyTerm = %v, want %v", tc.score, entropyTerm, tc.temperature*tc.entropy)
		}
	}
}

func TestFreeEnergyUnscoredPenalty(t *testing.T) {
	cfg := DefaultConfig()

	for _, score := range []float64{0, -1.5} {
		_, utility, _ := freeEnergy(cfg, score, 0.5, 0.5)
		if utility != cfg.UnscoredPenalty {
			t.Errorf("score %v: utility = %v, want penalty %v", score, utility, cfg.UnscoredPenalty)
		}
	}
}

func TestFreeEnergyHigherScoreLowerEnergy(t *testing.T) {
	cfg := DefaultConfig()

	fHigh, _, _ := freeEnergy(cfg, 0.95, 0.5, 0.5)
	fLow, _, _ := freeEnergy(cfg, 0.3, 0.5, 0.5)

	if fHigh >= fLow {
		t.Errorf("higher score should mean lower free energy: %v >= %v", fHigh, fLow)
	}
}

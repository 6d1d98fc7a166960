package selection

import (
	"crateDigger/domain"
	"crateDigger/pkg/logger"
)

// systemTemperature derives the pool-wide exploration temperature from the
// eligible candidates and the recent desirability feedback. It is a property
// of the pool, not of any single candidate: every free energy computed in one
// selection round shares it.
func systemTemperature(cfg Config, eligible []domain.Listing, desirabilityFeedback float64) float64 {
	total := len(eligible)
	unevaluated := 0
	for _, l := range eligible {
		if !l.Evaluated {
			unevaluated++
		}
	}

	denom := total
	if denom < 1 {
		denom = 1
	}
	unevaluatedRatio := float64(unevaluated) / float64(denom)

	// score dispersion as a model-uncertainty proxy
	scores := make([]float64, 0, total)
	for _, l := range eligible {
		if l.Score > 0 {
			scores = append(scores, l.Score)
		}
	}

	uncertainty := 0.5
	if len(scores) > 0 {
		mean, std := meanStd(scores)
		uncertainty = std / (mean + distanceEpsilon)
		if uncertainty > 1 {
			uncertainty = 1
		}
	}

	boost := cfg.UnevaluatedWeight*unevaluatedRatio + cfg.UncertaintyWeight*uncertainty
	temperature := (cfg.BaseTemperature + boost) * (1 + cfg.DesirabilityBias*desirabilityFeedback)
	temperature = clip(temperature, cfg.TemperatureMin, cfg.TemperatureMax)

	logger.Debug("system temperature",
		"temperature", temperature,
		"unevaluated_ratio", unevaluatedRatio,
		"uncertainty", uncertainty,
	)

	return temperature
}

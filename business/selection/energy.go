package selection

// freeEnergy computes F = U - T*S for one candidate. Utility is the negated
// quality score so that higher quality means lower energy; unscored listings
// get a fixed penalty. All three components are returned for the audit
// breakdown.
func freeEnergy(cfg Config, score, entropyMeasure, temperature float64) (free, utility, entropyTerm float64) {
	utility = cfg.UnscoredPenalty
	if score > 0 {
		utility = -score
	}

	entropyTerm = temperature * entropyMeasure
	free = utility - entropyTerm

	return free, utility, entropyTerm
}

package selection

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tunablesFile mirrors Config with pointer fields so that only keys present
// in the YAML override the defaults.
type tunablesFile struct {
	MaxTextFeatures   *int     `yaml:"max_text_features"`
	NumClusters       *int     `yaml:"num_clusters"`
	PCAComponents     *int     `yaml:"pca_components"`
	MinRefitListings  *int     `yaml:"min_refit_listings"`
	MinScore          *float64 `yaml:"min_score"`
	MaxCandidates     *int     `yaml:"max_candidates"`
	RecentWindowDays  *int     `yaml:"recent_window_days"`
	RecentWindowLimit *int     `yaml:"recent_window_limit"`
	BaseTemperature   *float64 `yaml:"base_temperature"`
	UnevaluatedWeight *float64 `yaml:"unevaluated_weight"`
	UncertaintyWeight *float64 `yaml:"uncertainty_weight"`
	DesirabilityBias  *float64 `yaml:"desirability_bias"`
	NoveltyBias       *float64 `yaml:"novelty_bias"`
}

// LoadConfig returns the default config, optionally overridden by the YAML
// file at path. An empty path is fine; a missing or malformed file is not.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read selection tunables: %w", err)
	}

	var f tunablesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return cfg, fmt.Errorf("parse selection tunables: %w", err)
	}

	if f.MaxTextFeatures != nil {
		cfg.MaxTextFeatures = *f.MaxTextFeatures
	}
	if f.NumClusters != nil {
		cfg.NumClusters = *f.NumClusters
	}
	if f.PCAComponents != nil {
		cfg.PCAComponents = *f.PCAComponents
	}
	if f.MinRefitListings != nil {
		cfg.MinRefitListings = *f.MinRefitListings
	}
	if f.MinScore != nil {
		cfg.MinScore = *f.MinScore
	}
	if f.MaxCandidates != nil {
		cfg.MaxCandidates = *f.MaxCandidates
	}
	if f.RecentWindowDays != nil {
		cfg.RecentWindowDays = *f.RecentWindowDays
	}
	if f.RecentWindowLimit != nil {
		cfg.RecentWindowLimit = *f.RecentWindowLimit
	}
	if f.BaseTemperature != nil {
		cfg.BaseTemperature = *f.BaseTemperature
	}
	if f.UnevaluatedWeight != nil {
		cfg.UnevaluatedWeight = *f.UnevaluatedWeight
	}
	if f.UncertaintyWeight != nil {
		cfg.UncertaintyWeight = *f.UncertaintyWeight
	}
	if f.DesirabilityBias != nil {
		cfg.DesirabilityBias = *f.DesirabilityBias
	}
	if f.NoveltyBias != nil {
		cfg.NoveltyBias = *f.NoveltyBias
	}

	return cfg, nil
}

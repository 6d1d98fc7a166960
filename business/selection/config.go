package selection

// Config holds the tunables of the thermodynamic selection engine. The
// defaults reproduce the production behavior; individual values can be
// overridden from a YAML file (see config_loader.go).
type Config struct {
	// feature building
	MaxTextFeatures int     // vocabulary cap for the text vectorizer
	DefaultYear     int     // used when a record has no release year
	PriceDivisor    float64 // crude price normalization before scaling

	// novelty model
	NumClusters      int // centroids fit over the recent window
	PCAComponents    int // reduce to this many dims before clustering
	PCAThreshold     int // reduction applies only above this dimensionality
	MinRefitListings int // refits with fewer listings are skipped

	// candidate pool
	MinScore          float64 // eligibility threshold on quality score
	MaxCandidates     int
	RecentWindowDays  int
	RecentWindowLimit int

	// temperature
	BaseTemperature   float64
	UnevaluatedWeight float64
	UncertaintyWeight float64
	DesirabilityBias  float64
	TemperatureMin    float64
	TemperatureMax    float64

	// entropy
	NoveltyBias float64
	EntropyMin  float64
	EntropyMax  float64

	// free energy
	UnscoredPenalty float64 // utility for listings without a positive score

	// feedback lookback windows
	DesirabilityLookback int
	NoveltyLookback      int
}

const (
	defaultMaxTextFeatures      = 100
	defaultYear                 = 1970
	defaultPriceDivisor         = 100.0
	defaultNumClusters          = 5
	defaultPCAComponents        = 10
	defaultPCAThreshold         = 10
	defaultMinRefitListings     = 5
	defaultMinScore             = 0.5
	defaultMaxCandidates        = 50
	defaultRecentWindowDays     = 7
	defaultRecentWindowLimit    = 100
	defaultBaseTemperature      = 0.5
	defaultUnevaluatedWeight    = 0.3
	defaultUncertaintyWeight    = 0.2
	defaultDesirabilityBias     = 0.2
	defaultNoveltyBias          = 0.3
	defaultUnscoredPenalty      = -1.0
	defaultDesirabilityLookback = 10
	defaultNoveltyLookback      = 5
)

func DefaultConfig() Config {
	return Config{
		MaxTextFeatures: defaultMaxTextFeatures,
		DefaultYear:     defaultYear,
		PriceDivisor:    defaultPriceDivisor,

		NumClusters:      defaultNumClusters,
		PCAComponents:    defaultPCAComponents,
		PCAThreshold:     defaultPCAThreshold,
		MinRefitListings: defaultMinRefitListings,

		MinScore:          defaultMinScore,
		MaxCandidates:     defaultMaxCandidates,
		RecentWindowDays:  defaultRecentWindowDays,
		RecentWindowLimit: defaultRecentWindowLimit,

		BaseTemperature:   defaultBaseTemperature,
		UnevaluatedWeight: defaultUnevaluatedWeight,
		UncertaintyWeight: defaultUncertaintyWeight,
		DesirabilityBias:  defaultDesirabilityBias,
		TemperatureMin:    0.1,
		TemperatureMax:    1.0,

		NoveltyBias: defaultNoveltyBias,
		EntropyMin:  0.1,
		EntropyMax:  0.9,

		UnscoredPenalty: defaultUnscoredPenalty,

		DesirabilityLookback: defaultDesirabilityLookback,
		NoveltyLookback:      defaultNoveltyLookback,
	}
}

package domain

import (
	"time"

	"gorm.io/datatypes"
)

// RecordOfTheDay is the persisted result of one daily selection run. The
// unique index on date is the serialization point for concurrent selectors:
// whichever writer inserts first wins, the loser re-reads.
type RecordOfTheDay struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"column:date;type:date;uniqueIndex;not null" json:"date"`
	ListingID uint      `gorm:"column:listing_id;not null" json:"listing_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	ModelScore           float64 `gorm:"column:model_score" json:"model_score"`
	EntropyMeasure       float64 `gorm:"column:entropy_measure" json:"entropy_measure"`
	SystemTemperature    float64 `gorm:"column:system_temperature" json:"system_temperature"`
	UtilityTerm          float64 `gorm:"column:utility_term" json:"utility_term"`
	EntropyTerm          float64 `gorm:"column:entropy_term" json:"entropy_term"`
	FreeEnergy           float64 `gorm:"column:free_energy" json:"free_energy"`
	SelectionProbability float64 `gorm:"column:selection_probability" json:"selection_probability"`
	TotalCandidates      int     `gorm:"column:total_candidates" json:"total_candidates"`
	ClusterCount         int     `gorm:"column:cluster_count" json:"cluster_count"`
	SelectionMethod      string  `gorm:"column:selection_method;default:thermodynamic_boltzmann" json:"selection_method"`

	DesirabilityVotes   datatypes.JSONSlice[float64] `gorm:"column:desirability_votes" json:"desirability_votes"`
	NoveltyVotes        datatypes.JSONSlice[float64] `gorm:"column:novelty_votes" json:"novelty_votes"`
	AverageDesirability float64                      `gorm:"column:average_desirability;default:0" json:"average_desirability"`
	AverageNovelty      float64                      `gorm:"column:average_novelty;default:0" json:"average_novelty"`

	Listing Listing `gorm:"foreignKey:ListingID" json:"listing"`
}

func (RecordOfTheDay) TableName() string {
	return "records_of_the_day"
}

// SelectionBreakdown is the audit record of one selection run. On degraded
// paths only SelectionMethod and Error are meaningful.
type SelectionBreakdown struct {
	ModelScore           float64 `json:"model_score"`
	EntropyMeasure       float64 `json:"entropy_measure"`
	SystemTemperature    float64 `json:"system_temperature"`
	UtilityTerm          float64 `json:"utility_term"`
	EntropyTerm          float64 `json:"entropy_term"`
	FreeEnergy           float64 `json:"free_energy"`
	SelectionProbability float64 `json:"selection_probability"`
	TotalCandidates      int     `json:"total_candidates"`
	ClusterCount         int     `json:"cluster_count"`
	SelectionMethod      string  `json:"selection_method"`
	Error                string  `json:"error,omitempty"`
}

const (
	SelectionMethodBoltzmann     = "thermodynamic_boltzmann"
	SelectionMethodFallback      = "fallback"
	SelectionMethodFallbackError = "fallback_error"
)

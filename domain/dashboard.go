package domain

// DashboardStats is the aggregate view served on the dashboard endpoint.
type DashboardStats struct {
	NumRecords  int64 `json:"num_records"`
	NumListings int64 `json:"num_listings"`
	Unevaluated int64 `json:"unevaluated"`
}

// KeeperPrediction is one prediction from the external keeper-classifier
// service. The classifier itself is out of scope; we only consume scores.
type KeeperPrediction struct {
	ListingID   uint    `json:"id"`
	Prediction  bool    `json:"prediction"`
	Probability float64 `json:"probability"`
}

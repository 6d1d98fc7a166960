package domain

// InventoryItem is one scraped listing as returned by the inventory source
// API, before it is normalized into Record/Seller/Listing rows.
type InventoryItem struct {
	DiscogsID      string   `json:"discogs_id"`
	Artist         string   `json:"artist"`
	Title          string   `json:"title"`
	Format         string   `json:"format"`
	Label          string   `json:"label"`
	Catno          string   `json:"catno"`
	Wants          int      `json:"wants"`
	Haves          int      `json:"haves"`
	Genres         []string `json:"genres"`
	Styles         []string `json:"styles"`
	Year           *int     `json:"year"`
	Seller         string   `json:"seller"`
	Price          float64  `json:"price"`
	Currency       string   `json:"currency"`
	MediaCondition string   `json:"media_condition"`
	SuggestedPrice string   `json:"suggested_price"`
}

// ScrapeSummary reports one ingest run for a seller.
type ScrapeSummary struct {
	Seller  string `json:"seller"`
	Total   int    `json:"total"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
}

package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crateDigger/domain"
	"crateDigger/pkg/logger"
)

const perPage = 100

type DiscogsConfig struct {
	BaseURL string
	Token   string
}

// DiscogsRepository pages through a seller's marketplace inventory. All
// requests go through the adaptive rate tracker so long scrapes stay under
// the API budget.
type DiscogsRepository struct {
	discogsConfig DiscogsConfig
	client        *http.Client
	tracker       *rateTracker
}

func NewDiscogsRepository(cfg DiscogsConfig) *DiscogsRepository {
	return &DiscogsRepository{
		discogsConfig: cfg,
		client:        &http.Client{Timeout: 30 * time.Second},
		tracker:       newRateTracker(),
	}
}

type inventoryResponse struct {
	Pagination struct {
		Page  int `json:"page"`
		Pages int `json:"pages"`
		Items int `json:"items"`
	} `json:"pagination"`
	Listings []inventoryListing `json:"listings"`
}

type inventoryListing struct {
	ID        int64  `json:"id"`
	Condition string `json:"condition"`
	Price     struct {
		Value    float64 `json:"value"`
		Currency string  `json:"currency"`
	} `json:"price"`
	OriginalPrice struct {
		Formatted string `json:"formatted"`
	} `json:"original_price"`
	Release struct {
		ID        int64  `json:"id"`
		Artist    string `json:"artist"`
		Title     string `json:"title"`
		Format    string `json:"format"`
		Label     string `json:"label"`
		CatalogNo string `json:"catalog_number"`
		Year      int    `json:"year"`
		Genres    string `json:"genre"`
		Styles    string `json:"style"`
		Stats     struct {
			Community struct {
				InWantlist   int `json:"in_wantlist"`
				InCollection int `json:"in_collection"`
			} `json:"community"`
		} `json:"stats"`
	} `json:"release"`
}

func (r *DiscogsRepository) FetchInventory(ctx context.Context, seller string) ([]domain.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.InventoryItem

	page := 1
	for {
		resp, err := r.fetchPage(ctx, seller, page)
		if err != nil {
			return nil, err
		}

		for _, l := range resp.Listings {
			items = append(items, toInventoryItem(seller, l))
		}

		if page >= resp.Pagination.Pages {
			break
		}
		page++
	}

	logger.Info("fetched seller inventory", "seller", seller, "items", len(items))
	return items, nil
}

func (r *DiscogsRepository) fetchPage(ctx context.Context, seller string, page int) (*inventoryResponse, error) {
	if err := r.tracker.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s/users/%s/inventory?page=%d&per_page=%d&status=For%%20Sale",
		r.discogsConfig.BaseURL, url.PathEscape(seller), page, perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory request: %w", err)
	}
	req.Header.Add("Authorization", "Discogs token="+r.discogsConfig.Token)
	req.Header.Add("Accept", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory request returned status %d: %s", res.StatusCode, string(body))
	}

	var parsed inventoryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inventory response: %w", err)
	}

	return &parsed, nil
}

func toInventoryItem(seller string, l inventoryListing) domain.InventoryItem {
	var year *int
	if l.Release.Year > 0 {
		y := l.Release.Year
		year = &y
	}

	return domain.InventoryItem{
		DiscogsID:      fmt.Sprintf("%d", l.Release.ID),
		Artist:         l.Release.Artist,
		Title:          l.Release.Title,
		Format:         l.Release.Format,
		Label:          l.Release.Label,
		Catno:          l.Release.CatalogNo,
		Wants:          l.Release.Stats.Community.InWantlist,
		Haves:          l.Release.Stats.Community.InCollection,
		Genres:         splitList(l.Release.Genres),
		Styles:         splitList(l.Release.Styles),
		Year:           year,
		Seller:         seller,
		Price:          l.Price.Value,
		Currency:       l.Price.Currency,
		MediaCondition: l.Condition,
		SuggestedPrice: l.OriginalPrice.Formatted,
	}
}

// splitList turns the API's comma-joined genre/style string into a clean
// slice.
func splitList(joined string) []string {
	if joined == "" {
		return nil
	}

	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

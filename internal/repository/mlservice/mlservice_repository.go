package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crateDigger/domain"
)

type MLServiceConfig struct {
	BaseURL string
}

// MLServiceRepository calls the external keeper-classifier service. The model
// lives behind an HTTP endpoint; this repository only ships IDs out and
// predictions back.
type MLServiceRepository struct {
	mlConfig MLServiceConfig
	client   *http.Client
}

func NewMLServiceRepository(cfg MLServiceConfig) *MLServiceRepository {
	return &MLServiceRepository{
		mlConfig: cfg,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type predictRequest struct {
	ListingIDs []uint `json:"listing_ids"`
}

type predictResponse struct {
	Predictions []domain.KeeperPrediction `json:"predictions"`
}

func (r *MLServiceRepository) Predict(ctx context.Context, listingIDs []uint) ([]domain.KeeperPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	payload, err := json.Marshal(predictRequest{ListingIDs: listingIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.mlConfig.BaseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read predict response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predict request returned status %d: %s", res.StatusCode, string(body))
	}

	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal predict response: %w", err)
	}

	return parsed.Predictions, nil
}

package scraper

import (
	"context"
	"fmt"
	"time"

	"crateDigger/domain"
	"crateDigger/pkg/logger"
	"crateDigger/pkg/metrics"
)

const scrapeLockTTL = 10 * time.Minute

// ---- Repository interfaces ----

// InventoryRepository fetches a seller's listings from the inventory source.
type InventoryRepository interface {
	FetchInventory(ctx context.Context, seller string) ([]domain.InventoryItem, error)
}

// CatalogRepository upserts scraped data into the catalog tables.
type CatalogRepository interface {
	UpsertRecord(ctx context.Context, record *domain.Record) (bool, error)
	GetOrCreateSeller(ctx context.Context, name, currency string) (*domain.Seller, error)
	UpsertListing(ctx context.Context, listing *domain.Listing) (bool, error)
}

// ScrapeLocker prevents two concurrent ingests of the same seller.
type ScrapeLocker interface {
	AcquireScrapeLock(ctx context.Context, seller string, ttl time.Duration) (bool, error)
	ReleaseScrapeLock(ctx context.Context, seller string) error
}

// ---- Service ----

type ScraperService struct {
	inventoryRepo InventoryRepository
	catalogRepo   CatalogRepository
	locker        ScrapeLocker
}

func NewScraperService(
	inventoryRepo InventoryRepository,
	catalogRepo CatalogRepository,
	locker ScrapeLocker,
) *ScraperService {
	return &ScraperService{
		inventoryRepo: inventoryRepo,
		catalogRepo:   catalogRepo,
		locker:        locker,
	}
}

// ScrapeSeller ingests one seller's inventory. Individual item failures are
// logged and counted, never abort the run.
func (s *ScraperService) ScrapeSeller(ctx context.Context, seller string) (*domain.ScrapeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if seller == "" {
		return nil, fmt.Errorf("seller name is required")
	}

	if s.locker != nil {
		acquired, err := s.locker.AcquireScrapeLock(ctx, seller, scrapeLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire scrape lock: %w", err)
		}
		if !acquired {
			return nil, fmt.Errorf("scrape already in progress for seller %s", seller)
		}
		defer func() {
			if err := s.locker.ReleaseScrapeLock(context.WithoutCancel(ctx), seller); err != nil {
				logger.Warn("failed to release scrape lock", "seller", seller, "error", err)
			}
		}()
	}

	items, err := s.inventoryRepo.FetchInventory(ctx, seller)
	if err != nil {
		metrics.ScrapeRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch inventory for %s: %w", seller, err)
	}
	if len(items) == 0 {
		logger.Warn("no inventory found for seller", "seller", seller)
		metrics.ScrapeRequestsTotal.WithLabelValues("empty").Inc()
		return &domain.ScrapeSummary{Seller: seller}, nil
	}

	currency := items[0].Currency
	sellerRow, err := s.catalogRepo.GetOrCreateSeller(ctx, seller, currency)
	if err != nil {
		metrics.ScrapeRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create seller %s: %w", seller, err)
	}

	summary := &domain.ScrapeSummary{Seller: seller, Total: len(items)}
	for _, item := range items {
		if err := s.ingestItem(ctx, sellerRow, item, summary); err != nil {
			logger.Error("failed to ingest inventory item",
				"discogs_id", item.DiscogsID,
				"artist", item.Artist,
				"title", item.Title,
				"error", err,
			)
			summary.Failed++
		}
	}

	logger.Info("scrape finished",
		"seller", seller,
		"total", summary.Total,
		"created", summary.Created,
		"updated", summary.Updated,
		"failed", summary.Failed,
	)
	metrics.ScrapeRequestsTotal.WithLabelValues("ok").Inc()

	return summary, nil
}

func (s *ScraperService) ingestItem(
	ctx context.Context,
	seller *domain.Seller,
	item domain.InventoryItem,
	summary *domain.ScrapeSummary,
) error {
	record := &domain.Record{
		DiscogsID:      item.DiscogsID,
		Artist:         item.Artist,
		Title:          item.Title,
		Format:         item.Format,
		Label:          item.Label,
		Catno:          item.Catno,
		Wants:          item.Wants,
		Haves:          item.Haves,
		Added:          time.Now(),
		Genres:         item.Genres,
		Styles:         item.Styles,
		SuggestedPrice: item.SuggestedPrice,
		Year:           item.Year,
	}

	if _, err := s.catalogRepo.UpsertRecord(ctx, record); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	listing := &domain.Listing{
		SellerID:       seller.ID,
		RecordID:       record.ID,
		RecordPrice:    item.Price,
		MediaCondition: item.MediaCondition,
	}

	created, err := s.catalogRepo.UpsertListing(ctx, listing)
	if err != nil {
		return fmt.Errorf("upsert listing: %w", err)
	}
	if created {
		summary.Created++
	} else {
		summary.Updated++
	}

	return nil
}

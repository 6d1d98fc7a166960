package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"crateDigger/domain"
	"crateDigger/pkg/logger"
)

const (
	defaultPageSize = 20
	exportLimit     = 5000
	statsCacheTTL   = 5 * time.Minute
)

// SearchFilter captures the advanced-search parameters. Zero values mean
// "no filter".
type SearchFilter struct {
	Query      string
	GenreStyle string
	MinYear    int
	MaxYear    int
	MinPrice   float64
	MaxPrice   float64
	Condition  string
	Seller     string
	Sort       string
	Page       int
	PageSize   int
}

// ---- Repository interfaces ----

type ListingRepository interface {
	Search(ctx context.Context, filter SearchFilter) ([]domain.Listing, int64, error)
	RecentForExport(ctx context.Context, limit int) ([]domain.Listing, error)
	CountListings(ctx context.Context) (int64, error)
	CountRecords(ctx context.Context) (int64, error)
	CountUnevaluated(ctx context.Context) (int64, error)
	SuggestGenres(ctx context.Context, term string, limit int) ([]string, error)
	SuggestConditions(ctx context.Context, term string, limit int) ([]string, error)
	SuggestSellers(ctx context.Context, term string, limit int) ([]string, error)
}

// StatsCache is the short-TTL cache in front of the dashboard counts.
type StatsCache interface {
	GetStats(ctx context.Context) (*domain.DashboardStats, error)
	SetStats(ctx context.Context, stats *domain.DashboardStats, ttl time.Duration) error
}

// ---- Service ----

type CatalogService struct {
	listingRepo ListingRepository
	statsCache  StatsCache
}

func NewCatalogService(listingRepo ListingRepository, statsCache StatsCache) *CatalogService {
	return &CatalogService{
		listingRepo: listingRepo,
		statsCache:  statsCache,
	}
}

func (s *CatalogService) Search(ctx context.Context, filter SearchFilter) ([]domain.Listing, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}

	listings, total, err := s.listingRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("search listings: %w", err)
	}

	return listings, total, nil
}

// DashboardStats returns catalog counts, served from the cache when warm.
func (s *CatalogService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if s.statsCache != nil {
		if cached, err := s.statsCache.GetStats(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	records, err := s.listingRepo.CountRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	listings, err := s.listingRepo.CountListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	unevaluated, err := s.listingRepo.CountUnevaluated(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unevaluated: %w", err)
	}

	stats := &domain.DashboardStats{
		NumRecords:  records,
		NumListings: listings,
		Unevaluated: unevaluated,
	}

	if s.statsCache != nil {
		if err := s.statsCache.SetStats(ctx, stats, statsCacheTTL); err != nil {
			logger.Warn("failed to cache dashboard stats", "error", err)
		}
	}

	return stats, nil
}

// ExportCSV streams the most recent listings with record and seller columns.
func (s *CatalogService) ExportCSV(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	listings, err := s.listingRepo.RecentForExport(ctx, exportLimit)
	if err != nil {
		return fmt.Errorf("load listings for export: %w", err)
	}

	writer := csv.NewWriter(w)
	header := []string{
		"Listing ID", "Record Artist", "Record Title", "Record Label",
		"Record Format", "Record Year", "Seller", "Record Price",
		"Media Condition", "Score", "Kept", "Evaluated",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, l := range listings {
		year := ""
		if l.Record.Year != nil {
			year = strconv.Itoa(*l.Record.Year)
		}
		row := []string{
			strconv.FormatUint(uint64(l.ID), 10),
			l.Record.Artist,
			l.Record.Title,
			l.Record.Label,
			l.Record.Format,
			year,
			l.Seller.Name,
			strconv.FormatFloat(l.RecordPrice, 'f', 2, 64),
			l.MediaCondition,
			strconv.FormatFloat(l.Score, 'f', 2, 64),
			strconv.FormatBool(l.Kept),
			strconv.FormatBool(l.Evaluated),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

const suggestLimit = 10

func (s *CatalogService) SuggestGenres(ctx context.Context, term string) ([]string, error) {
	return s.listingRepo.SuggestGenres(ctx, term, suggestLimit)
}

func (s *CatalogService) SuggestConditions(ctx context.Context, term string) ([]string, error) {
	return s.listingRepo.SuggestConditions(ctx, term, suggestLimit)
}

func (s *CatalogService) SuggestSellers(ctx context.Context, term string) ([]string, error) {
	return s.listingRepo.SuggestSellers(ctx, term, suggestLimit)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crateDigger/business/catalog"
	"crateDigger/domain"

	"gorm.io/gorm"
)

type ListingRepository struct {
	DB *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

// ---- Selection queries ----

func (r *ListingRepository) FindEligible(ctx context.Context, minScore float64, limit int) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var listings []domain.Listing
	err := r.DB.WithContext(ctx).
		Preload("Record").
		Preload("Seller").
		Where("score > ?", minScore).
		Order("score DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible listings: %w", err)
	}

	return listings, nil
}

func (r *ListingRepository) FindRecentWindow(ctx context.Context, since time.Time, limit int) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var listings []domain.Listing
	err := r.DB.WithContext(ctx).
		Preload("Record").
		Preload("Seller").
		Joins("JOIN records ON records.id = listings.record_id").
		Where("records.added >= ?", since).
		Order("records.added DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent listings: %w", err)
	}

	return listings, nil
}

func (r *ListingRepository) FindTopScored(ctx context.Context) (*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var listing domain.Listing
	err := r.DB.WithContext(ctx).
		Preload("Record").
		Preload("Seller").
		Where("score > 0").
		Order("score DESC").
		First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query top scored listing: %w", err)
	}

	return &listing, nil
}

// ---- Scoring queries ----

func (r *ListingRepository) FindUnevaluatedBySeller(ctx context.Context, seller string, limit int) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).
		Preload("Record").
		Preload("Seller").
		Where("listings.evaluated = ?", false)

	if seller != "" {
		query = query.
			Joins("JOIN sellers ON sellers.id = listings.seller_id").
			Where("sellers.name = ?", seller)
	}

	var listings []domain.Listing
	if err := query.Limit(limit).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to query unevaluated listings: %w", err)
	}

	return listings, nil
}

func (r *ListingRepository) UpdateScore(ctx context.Context, listingID uint, score float64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("id = ?", listingID).
		Update("score", score)
	if result.Error != nil {
		return fmt.Errorf("failed to update listing score: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("listing not found")
	}

	return nil
}

func (r *ListingRepository) UpdatePredictedKeeper(ctx context.Context, listingID uint, predicted bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("id = ?", listingID).
		Update("predicted_keeper", predicted)
	if result.Error != nil {
		return fmt.Errorf("failed to update predicted keeper: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("listing not found")
	}

	return nil
}

// MarkEvaluated flags the batch as evaluated and the keeper subset as kept in
// one transaction, so a partial failure never leaves a half-reviewed batch.
func (r *ListingRepository) MarkEvaluated(ctx context.Context, listingIDs []uint, keeperIDs []uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Listing{}).
			Where("id IN ?", listingIDs).
			Updates(map[string]interface{}{"evaluated": true, "kept": false}).Error; err != nil {
			return fmt.Errorf("failed to mark listings evaluated: %w", err)
		}

		if len(keeperIDs) > 0 {
			if err := tx.Model(&domain.Listing{}).
				Where("id IN ?", keeperIDs).
				Update("kept", true).Error; err != nil {
				return fmt.Errorf("failed to mark keepers: %w", err)
			}
		}

		return nil
	})
}

// ---- Catalog queries ----

var sortColumns = map[string]string{
	"price_asc":  "listings.record_price ASC",
	"price_desc": "listings.record_price DESC",
	"score_desc": "listings.score DESC",
	"year_asc":   "records.year ASC NULLS LAST",
	"year_desc":  "records.year DESC NULLS LAST",
	"added_desc": "records.added DESC",
}

func (r *ListingRepository) Search(ctx context.Context, filter catalog.SearchFilter) ([]domain.Listing, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).
		Model(&domain.Listing{}).
		Joins("JOIN records ON records.id = listings.record_id").
		Joins("JOIN sellers ON sellers.id = listings.seller_id")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where(
			"records.artist ILIKE ? OR records.title ILIKE ? OR records.label ILIKE ? OR records.catno ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.GenreStyle != "" {
		pattern := "%" + filter.GenreStyle + "%"
		query = query.Where("records.genres::text ILIKE ? OR records.styles::text ILIKE ?", pattern, pattern)
	}
	if filter.MinYear > 0 {
		query = query.Where("records.year >= ?", filter.MinYear)
	}
	if filter.MaxYear > 0 {
		query = query.Where("records.year <= ?", filter.MaxYear)
	}
	if filter.MinPrice > 0 {
		query = query.Where("listings.record_price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("listings.record_price <= ?", filter.MaxPrice)
	}
	if filter.Condition != "" {
		query = query.Where("listings.media_condition = ?", filter.Condition)
	}
	if filter.Seller != "" {
		query = query.Where("sellers.name = ?", filter.Seller)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	order, ok := sortColumns[filter.Sort]
	if !ok {
		order = sortColumns["added_desc"]
	}

	var listings []domain.Listing
	err := query.
		Preload("Record").
		Preload("Seller").
		Order(order).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search listings: %w", err)
	}

	return listings, total, nil
}

func (r *ListingRepository) RecentForExport(ctx context.Context, limit int) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var listings []domain.Listing
	err := r.DB.WithContext(ctx).
		Preload("Record").
		Preload("Seller").
		Joins("JOIN records ON records.id = listings.record_id").
		Order("records.added DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query listings for export: %w", err)
	}

	return listings, nil
}

func (r *ListingRepository) CountListings(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.Listing{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

func (r *ListingRepository) CountRecords(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.Record{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func (r *ListingRepository) CountUnevaluated(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("evaluated = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unevaluated listings: %w", err)
	}
	return count, nil
}

// ---- Autocomplete ----

func (r *ListingRepository) SuggestGenres(ctx context.Context, term string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var values []string
	err := r.DB.WithContext(ctx).Raw(`
		SELECT DISTINCT value FROM (
			SELECT jsonb_array_elements_text(genres) AS value FROM records
			UNION ALL
			SELECT jsonb_array_elements_text(styles) AS value FROM records
		) terms
		WHERE value ILIKE ?
		ORDER BY value
		LIMIT ?`,
		"%"+term+"%", limit,
	).Scan(&values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to suggest genres: %w", err)
	}

	return values, nil
}

func (r *ListingRepository) SuggestConditions(ctx context.Context, term string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var values []string
	err := r.DB.WithContext(ctx).
		Model(&domain.Listing{}).
		Distinct("media_condition").
		Where("media_condition ILIKE ? AND media_condition <> ''", "%"+term+"%").
		Order("media_condition").
		Limit(limit).
		Pluck("media_condition", &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to suggest conditions: %w", err)
	}

	return values, nil
}

func (r *ListingRepository) SuggestSellers(ctx context.Context, term string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var values []string
	err := r.DB.WithContext(ctx).
		Model(&domain.Seller{}).
		Where("name ILIKE ?", "%"+term+"%").
		Order("name").
		Limit(limit).
		Pluck("name", &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to suggest sellers: %w", err)
	}

	return values, nil
}

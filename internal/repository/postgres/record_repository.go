package postgres

import (
	"context"
	"errors"
	"fmt"

	"crateDigger/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordRepository owns the scrape-side writes: records, sellers, listings.
type RecordRepository struct {
	DB *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

// UpsertRecord inserts the record or refreshes the mutable columns when the
// discogs_id already exists. Returns true on insert. The record's ID is
// populated either way.
func (r *RecordRepository) UpsertRecord(ctx context.Context, record *domain.Record) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var existing domain.Record
	err := r.DB.WithContext(ctx).First(&existing, "discogs_id = ?", record.DiscogsID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to find record: %w", err)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
			return false, fmt.Errorf("failed to create record: %w", err)
		}
		return true, nil
	}

	updateData := map[string]interface{}{
		"wants":           record.Wants,
		"haves":           record.Haves,
		"genres":          record.Genres,
		"styles":          record.Styles,
		"suggested_price": record.SuggestedPrice,
		"year":            record.Year,
	}
	if err := r.DB.WithContext(ctx).
		Model(&domain.Record{}).
		Where("id = ?", existing.ID).
		Updates(updateData).Error; err != nil {
		return false, fmt.Errorf("failed to update record: %w", err)
	}

	record.ID = existing.ID
	record.Added = existing.Added
	return false, nil
}

func (r *RecordRepository) GetOrCreateSeller(ctx context.Context, name, currency string) (*domain.Seller, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	seller := domain.Seller{Name: name, Currency: currency}
	err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		},
	).Create(&seller).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create seller: %w", err)
	}

	// conflict path: fetch the existing row
	if seller.ID == 0 {
		if err := r.DB.WithContext(ctx).First(&seller, "name = ?", name).Error; err != nil {
			return nil, fmt.Errorf("failed to find seller: %w", err)
		}
	}

	return &seller, nil
}

// UpsertListing inserts or refreshes the (seller, record) offer. Returns true
// on insert. Score and evaluation flags are never touched on update; those
// belong to the scoring flow.
func (r *RecordRepository) UpsertListing(ctx context.Context, listing *domain.Listing) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var existing domain.Listing
	err := r.DB.WithContext(ctx).
		First(&existing, "seller_id = ? AND record_id = ?", listing.SellerID, listing.RecordID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to find listing: %w", err)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.DB.WithContext(ctx).Create(listing).Error; err != nil {
			return false, fmt.Errorf("failed to create listing: %w", err)
		}
		return true, nil
	}

	updateData := map[string]interface{}{
		"record_price":    listing.RecordPrice,
		"media_condition": listing.MediaCondition,
	}
	if err := r.DB.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("id = ?", existing.ID).
		Updates(updateData).Error; err != nil {
		return false, fmt.Errorf("failed to update listing: %w", err)
	}

	listing.ID = existing.ID
	return false, nil
}

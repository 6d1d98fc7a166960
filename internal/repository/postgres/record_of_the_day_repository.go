package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crateDigger/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecordOfTheDayRepository struct {
	DB *gorm.DB
}

func NewRecordOfTheDayRepository(db *gorm.DB) *RecordOfTheDayRepository {
	return &RecordOfTheDayRepository{DB: db}
}

func (r *RecordOfTheDayRepository) GetByDate(ctx context.Context, date time.Time) (*domain.RecordOfTheDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row domain.RecordOfTheDay
	err := r.DB.WithContext(ctx).
		Preload("Listing.Record").
		Preload("Listing.Seller").
		First(&row, "date = ?", date.Format("2006-01-02")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record of the day: %w", err)
	}

	return &row, nil
}

// CreateIfAbsent inserts the selection unless the date is already taken; on
// conflict it returns the row the concurrent writer persisted. The unique
// index on date does the serialization.
func (r *RecordOfTheDayRepository) CreateIfAbsent(ctx context.Context, rotd *domain.RecordOfTheDay) (*domain.RecordOfTheDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		},
	).Create(rotd)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to insert record of the day: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := r.GetByDate(ctx, rotd.Date)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errors.New("record of the day vanished after conflicting insert")
		}
		return existing, nil
	}

	return r.GetByDate(ctx, rotd.Date)
}

func (r *RecordOfTheDayRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Delete(&domain.RecordOfTheDay{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete record of the day: %w", err)
	}

	return nil
}

// AppendVote adds one rating pair and recomputes the stored averages inside a
// transaction so concurrent voters never lose a vote.
func (r *RecordOfTheDayRepository) AppendVote(ctx context.Context, id uint, desirability, novelty float64) (*domain.RecordOfTheDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var updated domain.RecordOfTheDay
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row domain.RecordOfTheDay
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("record of the day not found")
			}
			return fmt.Errorf("failed to lock record of the day: %w", err)
		}

		row.DesirabilityVotes = append(row.DesirabilityVotes, desirability)
		row.NoveltyVotes = append(row.NoveltyVotes, novelty)
		row.AverageDesirability = mean(row.DesirabilityVotes)
		row.AverageNovelty = mean(row.NoveltyVotes)

		updateData := map[string]interface{}{
			"desirability_votes":   row.DesirabilityVotes,
			"novelty_votes":        row.NoveltyVotes,
			"average_desirability": row.AverageDesirability,
			"average_novelty":      row.AverageNovelty,
		}
		if err := tx.Model(&domain.RecordOfTheDay{}).Where("id = ?", id).Updates(updateData).Error; err != nil {
			return fmt.Errorf("failed to store vote: %w", err)
		}

		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// ---- Feedback aggregates for the selection engine ----

// RecentDesirability averages the per-day desirability averages over the last
// limit voted selections. Zero when nothing has been voted on yet.
func (r *RecordOfTheDayRepository) RecentDesirability(ctx context.Context, limit int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var averages []float64
	err := r.DB.WithContext(ctx).
		Model(&domain.RecordOfTheDay{}).
		Where("jsonb_array_length(desirability_votes) > 0").
		Order("date DESC").
		Limit(limit).
		Pluck("average_desirability", &averages).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query desirability feedback: %w", err)
	}

	return mean(averages), nil
}

// RecentNoveltyByGenres averages the novelty feedback over the last limit
// voted selections whose record shares at least one of the given genres.
func (r *RecordOfTheDayRepository) RecentNoveltyByGenres(ctx context.Context, genres []string, limit int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	if len(genres) == 0 {
		return 0, nil
	}

	var averages []float64
	err := r.DB.WithContext(ctx).Raw(`
		SELECT rotd.average_novelty
		FROM records_of_the_day rotd
		JOIN listings l ON l.id = rotd.listing_id
		JOIN records rec ON rec.id = l.record_id
		WHERE jsonb_array_length(rotd.novelty_votes) > 0
		  AND jsonb_exists_any(rec.genres, ARRAY[?]::text[])
		ORDER BY rotd.date DESC
		LIMIT ?`,
		genres, limit,
	).Scan(&averages).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query novelty feedback: %w", err)
	}

	return mean(averages), nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

package repository

import (
	"context"
	"fmt"

	"bookshelf/internal/microservices/http-api/models"
	"bookshelf/internal/reports"

	"gorm.io/gorm"
)

type RatingRepository interface {
	List(ctx context.Context) ([]models.Rating, error)
	GetByID(ctx context.Context, id int64) (*models.Rating, error)
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, id int64) error
	// ExistsForUserAndBook ignores the rating with id excludeID (0 ignores none).
	ExistsForUserAndBook(ctx context.Context, userID string, bookID, excludeID int64) (bool, error)
	// TotalsByBook returns count and sum of scores for the given books; books
	// without ratings are absent from the map. No ids means every book.
	TotalsByBook(ctx context.Context, bookIDs ...int64) (map[int64]reports.RatingTotal, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) List(ctx context.Context) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).Preload("User").Order("id asc").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("get ratings: %w", err)
	}
	return ratings, nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).Preload("User").First(&rating, id).Error; err != nil {
		return nil, fmt.Errorf("get rating %d: %w", id, err)
	}
	return &rating, nil
}

// Create a new rating
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Omit("User", "Book").Create(rating).Error; err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

// Update an existing rating
func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Omit("User", "Book").Save(rating).Error; err != nil {
		return fmt.Errorf("update rating %d: %w", rating.ID, err)
	}
	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteOne(r.db.WithContext(ctx), &models.Rating{}, id); err != nil {
		return fmt.Errorf("delete rating %d: %w", id, err)
	}
	return nil
}

func (r *ratingRepository) ExistsForUserAndBook(ctx context.Context, userID string, bookID, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Rating{}).Where("user_id = ? AND book_id = ?", userID, bookID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check existing rating: %w", err)
	}
	return count > 0, nil
}

func (r *ratingRepository) TotalsByBook(ctx context.Context, bookIDs ...int64) (map[int64]reports.RatingTotal, error) {
	var rows []totalRow
	q := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("book_id AS id, COUNT(id) AS rating_count, COALESCE(SUM(score), 0) AS score_sum").
		Group("book_id")
	if len(bookIDs) > 0 {
		q = q.Where("book_id IN ?", bookIDs)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("rating totals: %w", err)
	}
	out := make(map[int64]reports.RatingTotal, len(rows))
	for _, row := range rows {
		out[row.ID] = row.toTotal()
	}
	return out, nil
}

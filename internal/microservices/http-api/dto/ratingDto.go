package dto

import (
	"time"

	"bookshelf/internal/microservices/http-api/models"
)

// RatingInput for creating or updating a rating. Score is a pointer so a
// missing field is told apart from an explicit 0.
type RatingInput struct {
	BookID  int64  `json:"book_id" binding:"required,gt=0"`
	Score   *int   `json:"score" binding:"required"`
	Comment string `json:"comment" binding:"max=2000"`
}

// RatingResponse carries the rating owner's username, never the raw user id.
type RatingResponse struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	User      string    `json:"user"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	return &RatingResponse{
		ID:        rating.ID,
		BookID:    rating.BookID,
		User:      rating.User.Username,
		Score:     rating.Score,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

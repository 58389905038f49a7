package dto

import (
	"time"

	"bookshelf/internal/microservices/http-api/models"
)

// DateLayout is the wire format of release_date.
const DateLayout = "2006-01-02"

// BookInput for POST /api/libros/ and PUT /api/libros/:id/.
// The creator always comes from the authenticated user.
type BookInput struct {
	Title         string `json:"title" binding:"required,max=200"`
	ReleaseDate   string `json:"release_date" binding:"required,datetime=2006-01-02"`
	FileReference string `json:"file_reference" binding:"max=500"`
	GenreID       int64  `json:"genre_id" binding:"required,gt=0"`
	AuthorID      int64  `json:"author_id" binding:"required,gt=0"`
}

// BookResponse mirrors a book row plus the creator's username and the
// rounded mean score (null while the book has no ratings).
type BookResponse struct {
	ID            int64    `json:"id"`
	Creator       string   `json:"creator"`
	Title         string   `json:"title"`
	ReleaseDate   string   `json:"release_date"`
	FileReference string   `json:"file_reference"`
	GenreID       int64    `json:"genre_id"`
	AuthorID      int64    `json:"author_id"`
	AverageRating *float64 `json:"average_rating"`
}

func BookFromModel(b models.Book, avg *float64) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Creator:       b.Creator.Username,
		Title:         b.Title,
		ReleaseDate:   b.ReleaseDate.Format(DateLayout),
		FileReference: b.FileReference,
		GenreID:       b.GenreID,
		AuthorID:      b.AuthorID,
		AverageRating: avg,
	}
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

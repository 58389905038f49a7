package reports

import (
	"context"
	"fmt"
)

// Source provides the accumulator rows the reports are reduced from.
// Implementations must return rows in a stable order: genres, books, authors
// by id and users by username.
type Source interface {
	GenreBookCounts(ctx context.Context) ([]GenreCount, error)
	BookRatingTotals(ctx context.Context) ([]RatingTotal, error)
	AuthorRatingTotals(ctx context.Context) ([]RatingTotal, error)
	AuthorBookCounts(ctx context.Context) ([]NationalityCount, error)
	UserBookCounts(ctx context.Context) ([]UserCount, error)
}

// Engine computes the report series. It holds no state besides its Source and
// is safe for concurrent use.
type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// BooksPerGenre counts books per genre, ascending. Genres without books are
// reported with 0.
func (e *Engine) BooksPerGenre(ctx context.Context) (Series, error) {
	rows, err := e.src.GenreBookCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("books per genre: %w", err)
	}
	return reduceGenreCounts(rows), nil
}

// AverageRatingPerBook averages the scores of each rated book.
func (e *Engine) AverageRatingPerBook(ctx context.Context) (Series, error) {
	rows, err := e.src.BookRatingTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("average rating per book: %w", err)
	}
	return reduceAverages(rows), nil
}

// AverageRatingPerAuthor averages the pooled scores of every book of each author.
func (e *Engine) AverageRatingPerAuthor(ctx context.Context) (Series, error) {
	rows, err := e.src.AuthorRatingTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("average rating per author: %w", err)
	}
	return reduceAverages(rows), nil
}

// BooksPerNationality counts books by their author's nationality, in order of
// first appearance.
func (e *Engine) BooksPerNationality(ctx context.Context) (Series, error) {
	rows, err := e.src.AuthorBookCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("books per nationality: %w", err)
	}
	return reduceNationalities(rows), nil
}

// BooksPerUser counts the books each user created. It returns
// ErrInsufficientData when nobody created a book.
func (e *Engine) BooksPerUser(ctx context.Context) (Series, error) {
	rows, err := e.src.UserBookCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("books per user: %w", err)
	}
	return reduceUserCounts(rows)
}

package repository

import (
	"context"
	"fmt"

	"bookshelf/internal/reports"

	"gorm.io/gorm"
)

// ReportRepository runs the grouping queries behind the chart reports.
// It implements reports.Source.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ reports.Source = (*ReportRepository)(nil)

type totalRow struct {
	ID          int64
	Label       string
	RatingCount int64
	ScoreSum    int64
}

func (r totalRow) toTotal() reports.RatingTotal {
	return reports.RatingTotal{ID: r.ID, Label: r.Label, Count: r.RatingCount, Sum: r.ScoreSum}
}

func (r *ReportRepository) GenreBookCounts(ctx context.Context) ([]reports.GenreCount, error) {
	var rows []struct {
		GenreID int64
		Name    string
		Books   int64
	}
	err := r.db.WithContext(ctx).
		Table("genres AS g").
		Select("g.id AS genre_id, g.name AS name, COUNT(b.id) AS books").
		Joins("LEFT JOIN books b ON b.genre_id = g.id").
		Group("g.id, g.name").
		Order("g.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("genre book counts: %w", err)
	}
	out := make([]reports.GenreCount, len(rows))
	for i, row := range rows {
		out[i] = reports.GenreCount{GenreID: row.GenreID, Name: row.Name, Books: row.Books}
	}
	return out, nil
}

func (r *ReportRepository) BookRatingTotals(ctx context.Context) ([]reports.RatingTotal, error) {
	var rows []totalRow
	err := r.db.WithContext(ctx).
		Table("books AS b").
		Select("b.id AS id, b.title AS label, COUNT(r.id) AS rating_count, COALESCE(SUM(r.score), 0) AS score_sum").
		Joins("JOIN ratings r ON r.book_id = b.id").
		Group("b.id, b.title").
		Order("b.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("book rating totals: %w", err)
	}
	return toTotals(rows), nil
}

func (r *ReportRepository) AuthorRatingTotals(ctx context.Context) ([]reports.RatingTotal, error) {
	var rows []totalRow
	err := r.db.WithContext(ctx).
		Table("authors AS a").
		Select("a.id AS id, a.name AS label, COUNT(r.id) AS rating_count, COALESCE(SUM(r.score), 0) AS score_sum").
		Joins("JOIN books b ON b.author_id = a.id").
		Joins("JOIN ratings r ON r.book_id = b.id").
		Group("a.id, a.name").
		Order("a.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("author rating totals: %w", err)
	}
	return toTotals(rows), nil
}

func (r *ReportRepository) AuthorBookCounts(ctx context.Context) ([]reports.NationalityCount, error) {
	var rows []struct {
		AuthorID    int64
		Nationality string
		Books       int64
	}
	err := r.db.WithContext(ctx).
		Table("authors AS a").
		Select("a.id AS author_id, a.nationality AS nationality, COUNT(b.id) AS books").
		Joins("JOIN books b ON b.author_id = a.id").
		Group("a.id, a.nationality").
		Order("a.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("author book counts: %w", err)
	}
	out := make([]reports.NationalityCount, len(rows))
	for i, row := range rows {
		out[i] = reports.NationalityCount{AuthorID: row.AuthorID, Nationality: row.Nationality, Books: row.Books}
	}
	return out, nil
}

func (r *ReportRepository) UserBookCounts(ctx context.Context) ([]reports.UserCount, error) {
	var rows []struct {
		UserID   string
		Username string
		Books    int64
	}
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.id AS user_id, u.username AS username, COUNT(b.id) AS books").
		Joins("LEFT JOIN books b ON b.creator_id = u.id").
		Group("u.id, u.username").
		Order("u.username").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("user book counts: %w", err)
	}
	out := make([]reports.UserCount, len(rows))
	for i, row := range rows {
		out[i] = reports.UserCount{UserID: row.UserID, Username: row.Username, Books: row.Books}
	}
	return out, nil
}

func toTotals(rows []totalRow) []reports.RatingTotal {
	out := make([]reports.RatingTotal, len(rows))
	for i, row := range rows {
		out[i] = row.toTotal()
	}
	return out
}

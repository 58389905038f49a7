package repository

import (
	"context"
	"fmt"

	"bookshelf/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	List(ctx context.Context) ([]models.Genre, error)
	GetByID(ctx context.Context, id int64) (*models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	Update(ctx context.Context, g *models.Genre) error
	Delete(ctx context.Context, id int64) error
}

type GenreRepo struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func (r *GenreRepo) List(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	return list, nil
}

func (r *GenreRepo) GetByID(ctx context.Context, id int64) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, fmt.Errorf("get genre %d: %w", id, err)
	}
	return &g, nil
}

func (r *GenreRepo) Create(ctx context.Context, g *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

func (r *GenreRepo) Update(ctx context.Context, g *models.Genre) error {
	if err := r.db.WithContext(ctx).Save(g).Error; err != nil {
		return fmt.Errorf("update genre %d: %w", g.ID, err)
	}
	return nil
}

// Delete removes the genre with its books and their ratings.
func (r *GenreRepo) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteBooksWhere(tx, "genre_id = ?", id); err != nil {
			return err
		}
		return deleteOne(tx, &models.Genre{}, id)
	})
	if err != nil {
		return fmt.Errorf("delete genre %d: %w", id, err)
	}
	return nil
}

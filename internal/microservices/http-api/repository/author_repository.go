package repository

import (
	"context"
	"fmt"

	"bookshelf/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type AuthorRepository interface {
	List(ctx context.Context) ([]models.Author, error)
	GetByID(ctx context.Context, id int64) (*models.Author, error)
	Create(ctx context.Context, a *models.Author) error
	Update(ctx context.Context, a *models.Author) error
	Delete(ctx context.Context, id int64) error
}

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) List(ctx context.Context) ([]models.Author, error) {
	var list []models.Author
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get authors: %w", err)
	}
	return list, nil
}

func (r *authorRepository) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	var a models.Author
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, fmt.Errorf("get author %d: %w", id, err)
	}
	return &a, nil
}

func (r *authorRepository) Create(ctx context.Context, a *models.Author) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

func (r *authorRepository) Update(ctx context.Context, a *models.Author) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("update author %d: %w", a.ID, err)
	}
	return nil
}

// Delete removes the author with its books and their ratings.
func (r *authorRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteBooksWhere(tx, "author_id = ?", id); err != nil {
			return err
		}
		return deleteOne(tx, &models.Author{}, id)
	})
	if err != nil {
		return fmt.Errorf("delete author %d: %w", id, err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"bookshelf/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	List(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// List returns every book with its creator loaded.
func (r *bookRepository) List(ctx context.Context) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).Preload("Creator").Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get books: %w", err)
	}
	return list, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Creator").First(&b, id).Error; err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Omit("Genre", "Author", "Creator").Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *bookRepository) Update(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Omit("Genre", "Author", "Creator").Save(b).Error; err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return nil
}

// Delete removes the book and its ratings.
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return deleteOne(tx, &models.Book{}, id)
	})
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}

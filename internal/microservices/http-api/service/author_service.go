package service

import (
	"context"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/models"
	"bookshelf/internal/microservices/http-api/repository"
)

type AuthorService interface {
	List(ctx context.Context) ([]models.Author, error)
	Get(ctx context.Context, id int64) (*models.Author, error)
	Create(ctx context.Context, in dto.AuthorInput) (*models.Author, error)
	Update(ctx context.Context, id int64, in dto.AuthorInput) (*models.Author, error)
	Delete(ctx context.Context, id int64) error
}

type authorService struct {
	repo repository.AuthorRepository
}

func NewAuthorService(r repository.AuthorRepository) AuthorService {
	return &authorService{repo: r}
}

func (s *authorService) List(ctx context.Context) ([]models.Author, error) {
	return s.repo.List(ctx)
}

func (s *authorService) Get(ctx context.Context, id int64) (*models.Author, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("author", err)
	}
	return a, nil
}

func (s *authorService) Create(ctx context.Context, in dto.AuthorInput) (*models.Author, error) {
	a := &models.Author{}
	if err := applyAuthor(a, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *authorService) Update(ctx context.Context, id int64, in dto.AuthorInput) (*models.Author, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyAuthor(a, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the author together with their books and those books' ratings.
func (s *authorService) Delete(ctx context.Context, id int64) error {
	return lookupErr("author", s.repo.Delete(ctx, id))
}

func applyAuthor(a *models.Author, in dto.AuthorInput) error {
	v := NewValidationError()
	a.Name = requireText(v, "name", in.Name, 100)
	a.Nationality = requireText(v, "nationality", in.Nationality, 100)
	return v.Err()
}

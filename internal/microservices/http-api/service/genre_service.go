package service

import (
	"context"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/models"
	"bookshelf/internal/microservices/http-api/repository"
)

type GenreService interface {
	List(ctx context.Context) ([]models.Genre, error)
	Get(ctx context.Context, id int64) (*models.Genre, error)
	Create(ctx context.Context, in dto.GenreInput) (*models.Genre, error)
	Update(ctx context.Context, id int64, in dto.GenreInput) (*models.Genre, error)
	Delete(ctx context.Context, id int64) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(r repository.GenreRepository) GenreService {
	return &genreService{repo: r}
}

func (s *genreService) List(ctx context.Context) ([]models.Genre, error) {
	return s.repo.List(ctx)
}

func (s *genreService) Get(ctx context.Context, id int64) (*models.Genre, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("genre", err)
	}
	return g, nil
}

func (s *genreService) Create(ctx context.Context, in dto.GenreInput) (*models.Genre, error) {
	v := NewValidationError()
	g := &models.Genre{Name: requireText(v, "name", in.Name, 100)}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *genreService) Update(ctx context.Context, id int64, in dto.GenreInput) (*models.Genre, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewValidationError()
	g.Name = requireText(v, "name", in.Name, 100)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes the genre together with its books and their ratings.
func (s *genreService) Delete(ctx context.Context, id int64) error {
	return lookupErr("genre", s.repo.Delete(ctx, id))
}

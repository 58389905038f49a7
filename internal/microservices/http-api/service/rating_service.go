package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/models"
	"bookshelf/internal/microservices/http-api/repository"
)

const (
	msgScoreRange    = "La puntuación debe estar entre 1 y 5."
	msgAlreadyRated  = "Ya has puntuado este libro. Puedes editar tu puntuación pero no crear una nueva."
	msgScoreRequired = "This field is required."
	ratingCommentMax = 2000
)

type RatingService interface {
	List(ctx context.Context) ([]dto.RatingResponse, error)
	Get(ctx context.Context, id int64) (*dto.RatingResponse, error)
	Create(ctx context.Context, userID string, in dto.RatingInput) (*dto.RatingResponse, error)
	Update(ctx context.Context, userID string, id int64, in dto.RatingInput) (*dto.RatingResponse, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	bookRepo   repository.BookRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, bookRepo repository.BookRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		bookRepo:   bookRepo,
	}
}

func (s *ratingService) List(ctx context.Context) ([]dto.RatingResponse, error) {
	ratings, err := s.ratingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		resp = append(resp, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return resp, nil
}

func (s *ratingService) Get(ctx context.Context, id int64) (*dto.RatingResponse, error) {
	rating, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToRatingResponse(rating), nil
}

// Create stores a new rating for userID. A user rates a book at most once.
func (s *ratingService) Create(ctx context.Context, userID string, in dto.RatingInput) (*dto.RatingResponse, error) {
	rating := &models.Rating{UserID: userID}
	if err := s.apply(ctx, rating, in); err != nil {
		return nil, err
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}
	// reload with user data
	return s.Get(ctx, rating.ID)
}

// Update changes score, comment or book of the caller's own rating. The
// owner cannot be reassigned.
func (s *ratingService) Update(ctx context.Context, userID string, id int64, in dto.RatingInput) (*dto.RatingResponse, error) {
	rating, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, rating, in); err != nil {
		return nil, err
	}
	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, err
	}
	return dto.FromModelToRatingResponse(rating), nil
}

func (s *ratingService) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return lookupErr("rating", s.ratingRepo.Delete(ctx, id))
}

func (s *ratingService) find(ctx context.Context, id int64) (*models.Rating, error) {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("rating", err)
	}
	return rating, nil
}

func (s *ratingService) owned(ctx context.Context, userID string, id int64) (*models.Rating, error) {
	rating, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rating.UserID != userID {
		return nil, ErrForbidden
	}
	return rating, nil
}

// apply validates in against rating (whose UserID and ID are already set)
// and copies it over. Nothing is written here.
func (s *ratingService) apply(ctx context.Context, rating *models.Rating, in dto.RatingInput) error {
	v := NewValidationError()

	switch {
	case in.Score == nil:
		v.Add("score", msgScoreRequired)
	case *in.Score < models.MinScore || *in.Score > models.MaxScore:
		v.Add("score", msgScoreRange)
	}

	if len([]rune(in.Comment)) > ratingCommentMax {
		v.Add("comment", fmt.Sprintf(msgTooLong, ratingCommentMax))
	}

	bookOK := true
	if _, err := s.bookRepo.GetByID(ctx, in.BookID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		v.Add("book_id", fmt.Sprintf(msgNoObject, in.BookID))
		bookOK = false
	}

	// on update only a move to another already rated book conflicts
	if bookOK && (rating.ID == 0 || in.BookID != rating.BookID) {
		exists, err := s.ratingRepo.ExistsForUserAndBook(ctx, rating.UserID, in.BookID, rating.ID)
		if err != nil {
			return err
		}
		if exists {
			v.Add(NonFieldErrors, msgAlreadyRated)
		}
	}

	if err := v.Err(); err != nil {
		return err
	}

	rating.BookID = in.BookID
	rating.Score = *in.Score
	rating.Comment = in.Comment
	return nil
}

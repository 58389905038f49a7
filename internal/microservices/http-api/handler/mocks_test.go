package handler

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/models"
	"bookshelf/internal/microservices/http-api/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in dto.RegisterRequest) (*service.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*service.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*service.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *service.Claims, refreshToken string) error {
	return m.Called(ctx, claims, refreshToken).Error(0)
}

func (m *MockAuthService) DeleteAccount(ctx context.Context, claims *service.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) List(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreService) Get(ctx context.Context, id int64) (*models.Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Create(ctx context.Context, in dto.GenreInput) (*models.Genre, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Update(ctx context.Context, id int64, in dto.GenreInput) (*models.Genre, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockAuthorService struct {
	mock.Mock
}

func (m *MockAuthorService) List(ctx context.Context) ([]models.Author, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Author), args.Error(1)
}

func (m *MockAuthorService) Get(ctx context.Context, id int64) (*models.Author, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorService) Create(ctx context.Context, in dto.AuthorInput) (*models.Author, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorService) Update(ctx context.Context, id int64, in dto.AuthorInput) (*models.Author, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) List(ctx context.Context) ([]dto.BookResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.BookResponse), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id int64) (*dto.BookResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookResponse), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, userID string, in dto.BookInput) (*dto.BookResponse, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookResponse), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, userID string, id int64, in dto.BookInput) (*dto.BookResponse, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookResponse), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, userID string, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockBookService) AttachFile(ctx context.Context, userID string, id int64, file service.Upload) (*dto.BookResponse, error) {
	args := m.Called(ctx, userID, id, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookResponse), args.Error(1)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) List(ctx context.Context) ([]dto.RatingResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) Get(ctx context.Context, id int64) (*dto.RatingResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) Create(ctx context.Context, userID string, in dto.RatingInput) (*dto.RatingResponse, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) Update(ctx context.Context, userID string, id int64, in dto.RatingInput) (*dto.RatingResponse, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) Delete(ctx context.Context, userID string, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

var errDatabaseDown = errors.New("connection refused")

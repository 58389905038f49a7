package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookshelf/internal/microservices/http-api/dto"
	"bookshelf/internal/microservices/http-api/models"
	"bookshelf/internal/microservices/http-api/repository"
	"bookshelf/internal/reports"
)

// ErrStorageDisabled is returned by AttachFile when no object store is configured.
var ErrStorageDisabled = errors.New("file storage is not configured")

// FileStore keeps uploaded book files. Keys returned by Upload end up in
// Book.FileReference.
type FileStore interface {
	Upload(ctx context.Context, prefix, filename string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type BookService interface {
	List(ctx context.Context) ([]dto.BookResponse, error)
	Get(ctx context.Context, id int64) (*dto.BookResponse, error)
	Create(ctx context.Context, userID string, in dto.BookInput) (*dto.BookResponse, error)
	Update(ctx context.Context, userID string, id int64, in dto.BookInput) (*dto.BookResponse, error)
	Delete(ctx context.Context, userID string, id int64) error
	AttachFile(ctx context.Context, userID string, id int64, file Upload) (*dto.BookResponse, error)
}

type bookService struct {
	books   repository.BookRepository
	genres  repository.GenreRepository
	authors repository.AuthorRepository
	ratings repository.RatingRepository
	files   FileStore
	log     *zap.Logger
}

// NewBookService wires the book use cases. files may be nil, which turns
// uploads off.
func NewBookService(
	books repository.BookRepository,
	genres repository.GenreRepository,
	authors repository.AuthorRepository,
	ratings repository.RatingRepository,
	files FileStore,
	log *zap.Logger,
) BookService {
	return &bookService{
		books:   books,
		genres:  genres,
		authors: authors,
		ratings: ratings,
		files:   files,
		log:     log,
	}
}

func (s *bookService) List(ctx context.Context) ([]dto.BookResponse, error) {
	list, err := s.books.List(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.ratings.TotalsByBook(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.BookFromModel(b, average(totals, b.ID)))
	}
	return resp, nil
}

func (s *bookService) Get(ctx context.Context, id int64) (*dto.BookResponse, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, b)
}

func (s *bookService) Create(ctx context.Context, userID string, in dto.BookInput) (*dto.BookResponse, error) {
	b := &models.Book{CreatorID: userID}
	if err := s.apply(ctx, b, in); err != nil {
		return nil, err
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("book created", zap.Int64("book_id", b.ID), zap.String("creator_id", userID))

	// reload for the creator's username
	created, err := s.books.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.BookFromModel(*created, nil)
	return &resp, nil
}

func (s *bookService) Update(ctx context.Context, userID string, id int64, in dto.BookInput) (*dto.BookResponse, error) {
	b, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, b, in); err != nil {
		return nil, err
	}
	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	return s.respond(ctx, b)
}

func (s *bookService) Delete(ctx context.Context, userID string, id int64) error {
	b, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return lookupErr("book", err)
	}
	s.log.Info("book deleted", zap.Int64("book_id", id), zap.String("creator_id", userID))
	s.removeFile(ctx, b.FileReference)
	return nil
}

func (s *bookService) AttachFile(ctx context.Context, userID string, id int64, file Upload) (*dto.BookResponse, error) {
	if s.files == nil {
		return nil, ErrStorageDisabled
	}
	b, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	key, err := s.files.Upload(ctx, fmt.Sprintf("books/%d/", b.ID), file.Filename, file.Body, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload book file: %w", err)
	}

	previous := b.FileReference
	b.FileReference = key
	if err := s.books.Update(ctx, b); err != nil {
		s.removeFile(ctx, key)
		return nil, err
	}
	s.log.Info("book file stored", zap.Int64("book_id", b.ID), zap.String("key", key))
	s.removeFile(ctx, previous)

	return s.respond(ctx, b)
}

func (s *bookService) find(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("book", err)
	}
	return b, nil
}

// owned loads the book and checks that userID created it.
func (s *bookService) owned(ctx context.Context, userID string, id int64) (*models.Book, error) {
	b, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CreatorID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

// apply validates in and copies it onto b. Creator is never touched, and an
// empty file_reference keeps the stored one.
func (s *bookService) apply(ctx context.Context, b *models.Book, in dto.BookInput) error {
	v := NewValidationError()
	title := requireText(v, "title", in.Title, 200)

	released, err := dto.ParseDate(in.ReleaseDate)
	if err != nil {
		v.Add("release_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}

	if err := s.checkExists(ctx, v, "genre_id", in.GenreID, func(ctx context.Context, id int64) error {
		_, err := s.genres.GetByID(ctx, id)
		return err
	}); err != nil {
		return err
	}
	if err := s.checkExists(ctx, v, "author_id", in.AuthorID, func(ctx context.Context, id int64) error {
		_, err := s.authors.GetByID(ctx, id)
		return err
	}); err != nil {
		return err
	}

	if err := v.Err(); err != nil {
		return err
	}

	b.Title = title
	b.ReleaseDate = released
	b.GenreID = in.GenreID
	b.AuthorID = in.AuthorID
	if in.FileReference != "" {
		b.FileReference = in.FileReference
	}
	return nil
}

// checkExists records a field message when get reports a missing row and
// returns any other failure as is.
func (s *bookService) checkExists(ctx context.Context, v *ValidationError, field string, id int64, get func(context.Context, int64) error) error {
	err := get(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		v.Add(field, fmt.Sprintf(msgNoObject, id))
		return nil
	default:
		return err
	}
}

func (s *bookService) respond(ctx context.Context, b *models.Book) (*dto.BookResponse, error) {
	totals, err := s.ratings.TotalsByBook(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.BookFromModel(*b, average(totals, b.ID))
	return &resp, nil
}

func (s *bookService) removeFile(ctx context.Context, key string) {
	if key == "" || s.files == nil {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete book file", zap.String("key", key), zap.Error(err))
	}
}

// average is nil for books without ratings.
func average(totals map[int64]reports.RatingTotal, bookID int64) *float64 {
	t, ok := totals[bookID]
	if !ok {
		return nil
	}
	mean, ok := reports.RoundedMean(t.Sum, t.Count)
	if !ok {
		return nil
	}
	return &mean
}

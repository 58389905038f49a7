package repository

import (
	"context"
	"testing"
	"time"

	"bookshelf/internal/microservices/http-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// one connection, otherwise every pooled connection sees its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: setupTestDB(t), ctx: context.Background()}
}

func (f *fixture) user(name string) *models.User {
	u := &models.User{Username: name, Password: "x"}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *fixture) genre(name string) *models.Genre {
	g := &models.Genre{Name: name}
	require.NoError(f.t, f.db.Create(g).Error)
	return g
}

func (f *fixture) author(name, nationality string) *models.Author {
	a := &models.Author{Name: name, Nationality: nationality}
	require.NoError(f.t, f.db.Create(a).Error)
	return a
}

func (f *fixture) book(title string, g *models.Genre, a *models.Author, creator *models.User) *models.Book {
	b := &models.Book{
		Title:       title,
		ReleaseDate: time.Date(1967, 5, 30, 0, 0, 0, 0, time.UTC),
		GenreID:     g.ID,
		AuthorID:    a.ID,
		CreatorID:   creator.ID,
	}
	require.NoError(f.t, NewBookRepository(f.db).Create(f.ctx, b))
	return b
}

func (f *fixture) rate(b *models.Book, u *models.User, score int) *models.Rating {
	r := &models.Rating{BookID: b.ID, UserID: u.ID, Score: score}
	require.NoError(f.t, NewRatingRepository(f.db).Create(f.ctx, r))
	return r
}

func (f *fixture) count(model interface{}) int64 {
	var n int64
	require.NoError(f.t, f.db.Model(model).Count(&n).Error)
	return n
}

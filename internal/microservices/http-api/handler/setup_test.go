package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf/internal/microservices/http-api/middleware"
	"bookshelf/internal/microservices/http-api/service"
	"bookshelf/internal/reports"
)

const (
	validToken = "valid-token"
	ownerID    = "2b1f6a0e-0000-4000-8000-000000000001"
)

var ownerClaims = &service.Claims{UserID: ownerID, Username: "ana"}

type testAPI struct {
	router  *gin.Engine
	auth    *MockAuthService
	genres  *MockGenreService
	authors *MockAuthorService
	books   *MockBookService
	ratings *MockRatingService
}

// newTestAPI serves the full router over mocked services. Reports are
// built from stub builders keyed like the real ones.
func newTestAPI(t *testing.T, builders map[string]func(context.Context) (reports.Series, error)) *testAPI {
	t.Helper()
	return newLimitedTestAPI(t, builders, middleware.NewRateLimiter(1000, 1000))
}

func newLimitedTestAPI(t *testing.T, builders map[string]func(context.Context) (reports.Series, error), limiter *middleware.RateLimiter) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &testAPI{
		auth:    new(MockAuthService),
		genres:  new(MockGenreService),
		authors: new(MockAuthorService),
		books:   new(MockBookService),
		ratings: new(MockRatingService),
	}
	api.auth.On("ValidateToken", mock.Anything, validToken).Return(ownerClaims, nil).Maybe()
	api.auth.On("ValidateToken", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()

	var list []reports.Report
	for _, r := range reports.NewEngine(nil).Reports() {
		if build, ok := builders[r.Key]; ok {
			r.Build = build
			list = append(list, r)
		}
	}

	log := zap.NewNop()
	api.router = NewRouter(Routes{
		Auth:        NewAuthHandler(api.auth, log, 0),
		Genres:      NewGenreHandler(api.genres, log, 0),
		Authors:     NewAuthorHandler(api.authors, log, 0),
		Books:       NewBookHandler(api.books, 1<<20, log, 0),
		Ratings:     NewRatingHandler(api.ratings, log, 0),
		Reports:     NewReportHandler(list, reports.DefaultStyle(), log, 0),
		Health:      NewHealthHandler(stubPinger{}, log),
		Tokens:      api.auth,
		RateLimiter: limiter,
		Metrics:     true,
	}, log)

	t.Cleanup(func() {
		api.genres.AssertExpectations(t)
		api.authors.AssertExpectations(t)
		api.books.AssertExpectations(t)
		api.ratings.AssertExpectations(t)
	})
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// fieldErrors decodes a 400 body.
func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	return decode[struct {
		Errors map[string][]string `json:"errors"`
	}](t, w).Errors
}

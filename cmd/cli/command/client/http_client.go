package client

// http_client.go talks to the bookshelf API over HTTP.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"bookshelf/internal/microservices/http-api/dto"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		if e.Message == "" {
			return fmt.Sprintf("server answered %d %s", e.Status, http.StatusText(e.Status))
		}
		return fmt.Sprintf("%s (%d)", e.Message, e.Status)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "invalid input:\n  " + strings.Join(lines, "\n  ")
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doJSON sends in as JSON (when not nil), expects status want and decodes
// the answer into out (when not nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.send(req, want, out)
}

func (c *HTTPClient) send(req *http.Request, want int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error  string              `json:"error"`
		Errors map[string][]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
		apiErr.Fields = payload.Errors
	}
	return apiErr
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/registro/", req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login/", req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	var out dto.RefreshResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh/",
		dto.RefreshTokenRequest{RefreshToken: refreshToken}, http.StatusOK, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout/",
		dto.LogoutRequest{RefreshToken: refreshToken}, http.StatusNoContent, nil)
}

func (c *HTTPClient) DeleteAccount(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/auth/cuenta/", nil, http.StatusNoContent, nil)
}

// Genres

func (c *HTTPClient) ListGenres(ctx context.Context) ([]dto.GenreResponse, error) {
	var out []dto.GenreResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/generos/", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateGenre(ctx context.Context, name string) (*dto.GenreResponse, error) {
	var out dto.GenreResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/generos/", dto.GenreInput{Name: name}, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteGenre(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/generos/%d/", id), nil, http.StatusNoContent, nil)
}

// Authors

func (c *HTTPClient) ListAuthors(ctx context.Context) ([]dto.AuthorResponse, error) {
	var out []dto.AuthorResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/autores/", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateAuthor(ctx context.Context, in dto.AuthorInput) (*dto.AuthorResponse, error) {
	var out dto.AuthorResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/autores/", in, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteAuthor(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/autores/%d/", id), nil, http.StatusNoContent, nil)
}

// Books

func (c *HTTPClient) ListBooks(ctx context.Context) ([]dto.BookResponse, error) {
	var out []dto.BookResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/libros/", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, id int64) (*dto.BookResponse, error) {
	var out dto.BookResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/libros/%d/", id), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateBook(ctx context.Context, in dto.BookInput) (*dto.BookResponse, error) {
	var out dto.BookResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/libros/", in, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteBook(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/libros/%d/", id), nil, http.StatusNoContent, nil)
}

// UploadBookFile sends content as the multipart "file" field.
func (c *HTTPClient) UploadBookFile(ctx context.Context, id int64, filename string, content io.Reader) (*dto.BookResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/api/libros/%d/archivo/", id), &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out dto.BookResponse
	if err := c.send(req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ratings

func (c *HTTPClient) ListRatings(ctx context.Context) ([]dto.RatingResponse, error) {
	var out []dto.RatingResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/puntuaciones/", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateRating(ctx context.Context, in dto.RatingInput) (*dto.RatingResponse, error) {
	var out dto.RatingResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/puntuaciones/", in, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateRating(ctx context.Context, id int64, in dto.RatingInput) (*dto.RatingResponse, error) {
	var out dto.RatingResponse
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/puntuaciones/%d/", id), in, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteRating(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/puntuaciones/%d/", id), nil, http.StatusNoContent, nil)
}

// Reports

// Chart is a downloaded report. Text is set instead of PNG when the server
// had nothing to draw.
type Chart struct {
	PNG  []byte
	Text string
}

func (c *HTTPClient) Report(ctx context.Context, path string) (*Chart, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "image/png") {
		return &Chart{PNG: body}, nil
	}
	return &Chart{Text: string(body)}, nil
}

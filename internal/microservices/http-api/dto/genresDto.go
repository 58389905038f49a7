package dto

import "bookshelf/internal/microservices/http-api/models"

// GenreInput for POST /api/generos/ and PUT /api/generos/:id/
type GenreInput struct {
	Name string `json:"name" binding:"required,max=100"`
}

type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{
		ID:   g.ID,
		Name: g.Name,
	}
}

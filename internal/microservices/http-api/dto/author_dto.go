package dto

import "bookshelf/internal/microservices/http-api/models"

// AuthorInput for POST /api/autores/ and PUT /api/autores/:id/
type AuthorInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Nationality string `json:"nationality" binding:"required,max=100"`
}

type AuthorResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
}

func AuthorFromModel(a models.Author) AuthorResponse {
	return AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		Nationality: a.Nationality,
	}
}

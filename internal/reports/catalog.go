package reports

import "context"

// Report ties a series builder to the chart it is drawn as.
type Report struct {
	Key   string
	Chart ChartSpec
	Build func(ctx context.Context) (Series, error)
}

const (
	KeyBooksPerGenre          = "books-per-genre"
	KeyAverageRatingPerBook   = "average-rating-per-book"
	KeyAverageRatingPerAuthor = "average-rating-per-author"
	KeyBooksPerNationality    = "books-per-nationality"
	KeyBooksPerUser           = "books-per-user"
)

// Reports lists the available reports.
func (e *Engine) Reports() []Report {
	return []Report{
		{
			Key: KeyBooksPerGenre,
			Chart: ChartSpec{
				Title:         "Cantidad de Libros por Género",
				CategoryLabel: "Género",
				ValueLabel:    "Cantidad de Libros",
				Orientation:   Horizontal,
				Format:        FormatCount,
			},
			Build: e.BooksPerGenre,
		},
		{
			Key: KeyAverageRatingPerBook,
			Chart: ChartSpec{
				Title:         "Promedio de Puntuaciones por Libro",
				CategoryLabel: "Libro",
				ValueLabel:    "Promedio de Puntuación",
				Orientation:   Vertical,
				Format:        FormatAverage,
			},
			Build: e.AverageRatingPerBook,
		},
		{
			Key: KeyAverageRatingPerAuthor,
			Chart: ChartSpec{
				Title:         "Promedio de Puntuaciones por Autor",
				CategoryLabel: "Autor",
				ValueLabel:    "Promedio de Puntuación",
				Orientation:   Vertical,
				Format:        FormatAverage,
			},
			Build: e.AverageRatingPerAuthor,
		},
		{
			Key: KeyBooksPerNationality,
			Chart: ChartSpec{
				Title:         "Cantidad de Libros por Nacionalidad del Autor",
				CategoryLabel: "Nacionalidad del Autor",
				ValueLabel:    "Cantidad de Libros",
				Orientation:   Horizontal,
				Format:        FormatCount,
			},
			Build: e.BooksPerNationality,
		},
		{
			Key: KeyBooksPerUser,
			Chart: ChartSpec{
				Title:         "Libros Creados por Usuario",
				CategoryLabel: "Usuario",
				ValueLabel:    "Cantidad de Libros",
				Orientation:   Horizontal,
				Format:        FormatCount,
			},
			Build: e.BooksPerUser,
		},
	}
}

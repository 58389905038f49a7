package reports

import (
	"sort"
	"unicode/utf8"
)

// GenreCount is the number of books filed under one genre.
type GenreCount struct {
	GenreID int64
	Name    string
	Books   int64
}

// RatingTotal accumulates the scores of one book, or of all books of one author.
type RatingTotal struct {
	ID    int64
	Label string
	Count int64
	Sum   int64
}

// NationalityCount is the number of books written by one author, keyed by the
// author's nationality.
type NationalityCount struct {
	AuthorID    int64
	Nationality string
	Books       int64
}

// UserCount is the number of books created by one user.
type UserCount struct {
	UserID   string
	Username string
	Books    int64
}

// RoundedMean returns sum/count rounded to two decimals, half away from zero.
// ok is false when count is not positive.
func RoundedMean(sum, count int64) (mean float64, ok bool) {
	if count <= 0 {
		return 0, false
	}
	neg := sum < 0
	if neg {
		sum = -sum
	}
	// floor(100*sum/count + 1/2) without going through floating point
	hundredths := (sum*200 + count) / (2 * count)
	if neg {
		hundredths = -hundredths
	}
	return float64(hundredths) / 100, true
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// reduceGenreCounts keeps every genre, including empty ones, ascending by count.
func reduceGenreCounts(rows []GenreCount) Series {
	out := make(Series, 0, len(rows))
	for _, r := range rows {
		out = append(out, Point{Label: r.Name, Value: float64(r.Books)})
	}
	sortAscending(out)
	return out
}

// reduceAverages drops totals without ratings and keeps source order.
func reduceAverages(rows []RatingTotal) Series {
	out := make(Series, 0, len(rows))
	for _, r := range rows {
		mean, ok := RoundedMean(r.Sum, r.Count)
		if !ok {
			continue
		}
		out = append(out, Point{Label: Truncate(r.Label, LabelMaxRunes), Value: mean})
	}
	return out
}

// reduceNationalities sums book counts per nationality in order of first
// appearance.
func reduceNationalities(rows []NationalityCount) Series {
	index := make(map[string]int)
	out := make(Series, 0)
	for _, r := range rows {
		if r.Books <= 0 {
			continue
		}
		i, seen := index[r.Nationality]
		if !seen {
			index[r.Nationality] = len(out)
			out = append(out, Point{Label: r.Nationality, Value: float64(r.Books)})
			continue
		}
		out[i].Value += float64(r.Books)
	}
	return out
}

// reduceUserCounts drops users without books, ascending by count.
func reduceUserCounts(rows []UserCount) (Series, error) {
	out := make(Series, 0, len(rows))
	for _, r := range rows {
		if r.Books <= 0 {
			continue
		}
		out = append(out, Point{Label: r.Username, Value: float64(r.Books)})
	}
	if len(out) == 0 {
		return nil, ErrInsufficientData
	}
	sortAscending(out)
	return out, nil
}

func sortAscending(s Series) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Value < s[j].Value })
}

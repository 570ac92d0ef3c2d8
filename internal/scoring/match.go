// Package scoring computes the 0-100 match score between a viewer and a movie.
//
// Everything here is pure: callers load the taste profile and movies, and
// decide what to cache.
package scoring

import (
	"math"

	"movie-nexus-api/internal/models"
)

// Term caps of the personalized score. They sum to 100.
const (
	GenreMatchWeight    = 40.0
	RatingHistoryWeight = 30.0
	QualityWeight       = 20.0
	PopularityWeight    = 10.0

	// anonymousHalf is the cap of each term of the quality-only score.
	anonymousHalf = 50.0

	// popularityScale is the popularity value that earns a full popularity term.
	popularityScale = 100.0
)

// Taste is what the engine knows about an authenticated viewer with a profile.
// A nil *Taste selects the quality-only formula.
type Taste struct {
	FavoriteGenres GenreSet
	RatedGenres    GenreSet
}

// NewTaste builds a taste from profile favorites and the genres of highly rated movies.
func NewTaste(favorites, ratedGenres []string) *Taste {
	return &Taste{
		FavoriteGenres: NewGenreSet(favorites),
		RatedGenres:    NewGenreSet(ratedGenres),
	}
}

// QualityScore is the score used for anonymous viewers and viewers without a profile.
func QualityScore(m models.Movie) float64 {
	return Explain(nil, m).Total()
}

// Score returns the match score of the movie for the given taste, rounded to 2 decimals.
// The personalized sum is not clamped, so float rounding may yield values up to ~100.01.
func Score(t *Taste, m models.Movie) float64 {
	return Explain(t, m).Total()
}

// Explain returns the per-term breakdown behind Score.
func Explain(t *Taste, m models.Movie) models.ScoreBreakdown {
	if t == nil {
		return models.ScoreBreakdown{
			Quality:    qualityTerm(m, anonymousHalf),
			Popularity: popularityTerm(m, anonymousHalf),
		}
	}

	movieGenres := NewGenreSet(m.Genres)
	return models.ScoreBreakdown{
		Personalized:  true,
		GenreMatch:    setMatchTerm(t.FavoriteGenres, movieGenres, GenreMatchWeight),
		RatingHistory: setMatchTerm(t.RatedGenres, movieGenres, RatingHistoryWeight),
		Quality:       qualityTerm(m, QualityWeight),
		Popularity:    popularityTerm(m, PopularityWeight),
	}
}

// setMatchTerm is min(weight, |ref ∩ genres| / |ref| * weight), or 0 when either set is empty.
func setMatchTerm(ref, genres GenreSet, weight float64) float64 {
	if len(ref) == 0 || len(genres) == 0 {
		return 0
	}
	ratio := float64(ref.Overlap(genres)) / float64(len(ref))
	return math.Min(weight, ratio*weight)
}

func qualityTerm(m models.Movie, weight float64) float64 {
	return (m.VoteAverage / 10) * weight
}

func popularityTerm(m models.Movie, weight float64) float64 {
	return math.Min(weight, (m.Popularity/popularityScale)*weight)
}

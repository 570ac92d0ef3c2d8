package service

import (
	"math"
	"sort"

	"movie-nexus-api/internal/models"
)

const topGenresInStats = 5

// summarizeRatings expects rated newest first; ties for highest and lowest go to the newest rating.
func summarizeRatings(rated []models.RatedMovie) models.UserStatistics {
	if len(rated) == 0 {
		return models.EmptyStatistics()
	}

	stats := models.UserStatistics{TotalRatings: len(rated)}
	var sum int
	counts := make(map[string]int)
	var highest, lowest *models.RatedMovie

	for i := range rated {
		r := &rated[i]
		sum += r.Score
		if r.Runtime != nil {
			stats.TotalWatchTimeMinutes += *r.Runtime
		}
		if r.Score >= models.HighRatingThreshold {
			for _, g := range r.Genres {
				counts[g]++
			}
		}
		if highest == nil || r.Score > highest.Score {
			highest = r
		}
		if lowest == nil || r.Score < lowest.Score {
			lowest = r
		}
	}

	stats.AverageRating = math.Round(float64(sum)/float64(len(rated))*100) / 100
	stats.TotalWatchTimeHours = math.Round(float64(stats.TotalWatchTimeMinutes)/60*10) / 10
	stats.FavoriteGenres = topGenres(counts, topGenresInStats)
	stats.HighestRated = summary(highest)
	stats.LowestRated = summary(lowest)
	return stats
}

func topGenres(counts map[string]int, n int) []string {
	genres := make([]string, 0, len(counts))
	for g := range counts {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}

func summary(r *models.RatedMovie) *models.RatingSummary {
	return &models.RatingSummary{MovieID: r.MovieID, Title: r.Title, Score: r.Score}
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGenres(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil input", nil, []string{}},
		{"lowercases and trims", []string{" Drama", "CRIME "}, []string{"drama", "crime"}},
		{"drops empties and duplicates", []string{"Action", "", "action", "  "}, []string{"action"}},
		{"keeps first-seen order", []string{"thriller", "Action", "THRILLER"}, []string{"thriller", "action"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeGenres(tt.in))
		})
	}
}

func TestMovieListParamsValidate(t *testing.T) {
	p := MovieListParams{Page: 0, PageSize: 500, SortBy: "drop table", Order: "sideways", Genre: " Drama "}
	p.Validate()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, "popularity", p.SortBy)
	assert.Equal(t, "desc", p.Order)
	assert.Equal(t, "drama", p.Genre)
}

func TestPlaylistAccessibleBy(t *testing.T) {
	private := Playlist{OwnerID: 7, Visibility: VisibilityPrivate}
	public := Playlist{OwnerID: 7, Visibility: VisibilityPublic}

	assert.True(t, private.AccessibleBy(AuthenticatedViewer(7, false)))
	assert.False(t, private.AccessibleBy(AuthenticatedViewer(8, false)))
	assert.False(t, private.AccessibleBy(Anonymous()))
	assert.True(t, public.AccessibleBy(Anonymous()))
}

func TestViewerCacheID(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous().CacheID())
	assert.Equal(t, "42", AuthenticatedViewer(42, false).CacheID())
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenreList(t *testing.T) {
	tests := []struct {
		genre string
		want  []string
	}{
		{"", nil},
		{"Action", []string{"Action"}},
		{"Action, Sci-Fi", []string{"Action", "Sci-Fi"}},
		{" Action ,, Drama ", []string{"Action", "Drama"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Anime{Genre: tt.genre}.GenreList(), "genre %q", tt.genre)
	}
}

func TestAnimePatchApplyTo(t *testing.T) {
	base := Anime{ID: 1, Title: "old", Description: "desc", Genre: "Action"}

	title := "new"
	out := AnimePatch{Title: &title}.ApplyTo(base)

	assert.Equal(t, "new", out.Title)
	assert.Equal(t, "desc", out.Description, "nil fields stay untouched")
	assert.Equal(t, "old", base.Title, "base is never mutated")
}

func TestEpisodePatchApplyTo(t *testing.T) {
	base := Episode{ID: 7, Title: "pilot", EpisodeNumber: 1, VideoURL: "http://v/1"}

	num := 2
	out := EpisodePatch{EpisodeNumber: &num}.ApplyTo(base)

	assert.Equal(t, 2, out.EpisodeNumber)
	assert.Equal(t, "pilot", out.Title)
	assert.Equal(t, 1, base.EpisodeNumber)
}

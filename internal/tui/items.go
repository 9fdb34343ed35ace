package tui

import (
	"fmt"
	"strings"

	"github.com/motoki/aniterm/internal/domain"
)

// animeItem adapts domain.Anime to the list component.
type animeItem struct {
	anime domain.Anime
}

func (i animeItem) Title() string { return i.anime.Title }

func (i animeItem) Description() string {
	desc := i.anime.Genre
	if desc == "" {
		desc = firstLine(i.anime.Description)
	}
	return desc
}

func (i animeItem) FilterValue() string { return i.anime.Title + " " + i.anime.Genre }

// seasonItem adapts domain.Season to the list component.
type seasonItem struct {
	season domain.Season
}

func (i seasonItem) Title() string { return i.season.Name }

func (i seasonItem) Description() string {
	n := i.season.EpisodeCount()
	if n == 1 {
		return "1 episode"
	}
	return fmt.Sprintf("%d episodes", n)
}

func (i seasonItem) FilterValue() string { return i.season.Name }

// episodeItem adapts domain.Episode to the list component.
type episodeItem struct {
	episode domain.Episode
}

func (i episodeItem) Title() string {
	return fmt.Sprintf("%d. %s", i.episode.EpisodeNumber, i.episode.Title)
}

func (i episodeItem) Description() string {
	if i.episode.VideoURL == "" {
		return "no video"
	}
	return "press enter to play"
}

func (i episodeItem) FilterValue() string { return i.episode.Title }

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

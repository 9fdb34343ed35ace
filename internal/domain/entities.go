package domain

import "strings"

// Anime represents a series in the catalog. Detail responses embed the
// season list; list responses may leave it empty.
type Anime struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Genre        string   `json:"genre"` // comma-separated tag string
	ThumbnailURL string   `json:"thumbnailUrl"`
	Seasons      []Season `json:"seasons,omitempty"`
}

// GenreList splits the comma-separated genre string into trimmed tags.
func (a Anime) GenreList() []string {
	if a.Genre == "" {
		return nil
	}
	parts := strings.Split(a.Genre, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SeasonCount returns the number of embedded seasons.
func (a Anime) SeasonCount() int { return len(a.Seasons) }

// Season groups episodes under an anime.
type Season struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	AnimeID  int64     `json:"animeId"`
	Episodes []Episode `json:"episodes,omitempty"`
}

// EpisodeCount returns the number of embedded episodes.
func (s Season) EpisodeCount() int { return len(s.Episodes) }

// Episode is a single playable entry in a season. EpisodeNumber is a
// display/order hint only; the server does not guarantee it unique or
// contiguous within a season.
type Episode struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	EpisodeNumber int    `json:"episodeNumber"`
	VideoURL      string `json:"videoUrl"`
	SeasonID      int64  `json:"seasonId"`
}

// AnimeDraft carries the fields for creating an anime. The server assigns
// the id on success.
type AnimeDraft struct {
	Title        string
	Description  string
	Genre        string
	ThumbnailURL string
}

// AnimePatch is a partial update; nil fields are left untouched.
type AnimePatch struct {
	Title        *string
	Description  *string
	Genre        *string
	ThumbnailURL *string
}

// ApplyTo returns a copy of base with the patch's non-nil fields applied.
// The receiver and base are never mutated.
func (p AnimePatch) ApplyTo(base Anime) Anime {
	out := base
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Genre != nil {
		out.Genre = *p.Genre
	}
	if p.ThumbnailURL != nil {
		out.ThumbnailURL = *p.ThumbnailURL
	}
	return out
}

// SeasonDraft carries the fields for creating a season.
type SeasonDraft struct {
	Name    string
	AnimeID int64
}

// SeasonPatch is a partial season update.
type SeasonPatch struct {
	Name *string
}

// ApplyTo returns a copy of base with the patch applied.
func (p SeasonPatch) ApplyTo(base Season) Season {
	out := base
	if p.Name != nil {
		out.Name = *p.Name
	}
	return out
}

// EpisodeDraft carries the fields for creating an episode.
type EpisodeDraft struct {
	Title         string
	EpisodeNumber int
	VideoURL      string
	SeasonID      int64
}

// EpisodePatch is a partial episode update.
type EpisodePatch struct {
	Title         *string
	EpisodeNumber *int
	VideoURL      *string
}

// ApplyTo returns a copy of base with the patch applied.
func (p EpisodePatch) ApplyTo(base Episode) Episode {
	out := base
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.EpisodeNumber != nil {
		out.EpisodeNumber = *p.EpisodeNumber
	}
	if p.VideoURL != nil {
		out.VideoURL = *p.VideoURL
	}
	return out
}

// Credentials authenticate a user against the catalog API.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration holds the details for creating a new account. Registering
// does not log the user in.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

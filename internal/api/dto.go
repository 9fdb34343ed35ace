package api

// Request payloads for the catalog API. Responses decode straight into the
// domain types, whose json tags match the wire format.

type animeCreateRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Genre        string `json:"genre"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

type animeUpdateRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Genre        *string `json:"genre,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

type seasonCreateRequest struct {
	Name    string `json:"name"`
	AnimeID int64  `json:"animeId"`
}

type seasonUpdateRequest struct {
	Name *string `json:"name,omitempty"`
}

type episodeCreateRequest struct {
	Title         string `json:"title"`
	EpisodeNumber int    `json:"episodeNumber"`
	VideoURL      string `json:"videoUrl"`
	SeasonID      int64  `json:"seasonId"`
}

type episodeUpdateRequest struct {
	Title         *string `json:"title,omitempty"`
	EpisodeNumber *int    `json:"episodeNumber,omitempty"`
	VideoURL      *string `json:"videoUrl,omitempty"`
}

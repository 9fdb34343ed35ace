package domain

import "context"

// AnimeRepository provides remote access to anime resources.
type AnimeRepository interface {
	// List returns every anime in the catalog.
	List(ctx context.Context) ([]Anime, error)

	// Get returns one anime with its seasons embedded.
	Get(ctx context.Context, id int64) (*Anime, error)

	// Create stores a new anime and returns it with the server-assigned id.
	Create(ctx context.Context, draft AnimeDraft) (*Anime, error)

	// Update applies a partial field set to an existing anime.
	Update(ctx context.Context, id int64, patch AnimePatch) (*Anime, error)

	// Delete removes an anime and returns the deleted id, reconstructed
	// from the request since delete responses may be empty.
	Delete(ctx context.Context, id int64) (int64, error)
}

// SeasonRepository provides remote access to season resources.
type SeasonRepository interface {
	ListByAnime(ctx context.Context, animeID int64) ([]Season, error)
	Create(ctx context.Context, draft SeasonDraft) (*Season, error)
	Update(ctx context.Context, id int64, patch SeasonPatch) (*Season, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// EpisodeRepository provides remote access to episode resources.
type EpisodeRepository interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]Episode, error)
	Get(ctx context.Context, id int64) (*Episode, error)
	Create(ctx context.Context, draft EpisodeDraft) (*Episode, error)
	Update(ctx context.Context, id int64, patch EpisodePatch) (*Episode, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// AuthRepository provides login and registration against the remote API.
type AuthRepository interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, creds Credentials) (string, error)

	// Register creates an account. It does not log the user in.
	Register(ctx context.Context, reg Registration) error
}

// TokenStore holds the bearer token, the only piece of client state that
// survives a restart. The HTTP client reads it on every request; the
// session manager is the only writer (aside from the 401 clear).
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

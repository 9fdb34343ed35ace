package api

import (
	"context"
	"fmt"

	"github.com/motoki/aniterm/internal/domain"
)

// AnimeRepo implements domain.AnimeRepository against the catalog API.
type AnimeRepo struct {
	client *Client
}

// NewAnimeRepo creates the anime resource accessor.
func NewAnimeRepo(client *Client) *AnimeRepo {
	return &AnimeRepo{client: client}
}

// List returns every anime in the catalog.
func (r *AnimeRepo) List(ctx context.Context) ([]domain.Anime, error) {
	var animes []domain.Anime
	if err := r.client.get(ctx, "/api/animes", &animes); err != nil {
		return nil, err
	}
	return animes, nil
}

// Get returns one anime with its seasons embedded.
func (r *AnimeRepo) Get(ctx context.Context, id int64) (*domain.Anime, error) {
	var anime domain.Anime
	if err := r.client.get(ctx, fmt.Sprintf("/api/animes/%d", id), &anime); err != nil {
		return nil, err
	}
	return &anime, nil
}

// Create stores a new anime; the server assigns the id.
func (r *AnimeRepo) Create(ctx context.Context, draft domain.AnimeDraft) (*domain.Anime, error) {
	req := animeCreateRequest{
		Title:        draft.Title,
		Description:  draft.Description,
		Genre:        draft.Genre,
		ThumbnailURL: draft.ThumbnailURL,
	}
	var created domain.Anime
	if err := r.client.post(ctx, "/api/animes", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial field set. The caller's patch is never mutated.
func (r *AnimeRepo) Update(ctx context.Context, id int64, patch domain.AnimePatch) (*domain.Anime, error) {
	req := animeUpdateRequest{
		Title:        patch.Title,
		Description:  patch.Description,
		Genre:        patch.Genre,
		ThumbnailURL: patch.ThumbnailURL,
	}
	var updated domain.Anime
	if err := r.client.put(ctx, fmt.Sprintf("/api/animes/%d", id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an anime. The deleted id comes from the request, not the
// response, which may be empty.
func (r *AnimeRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if err := r.client.delete(ctx, fmt.Sprintf("/api/animes/%d", id)); err != nil {
		return 0, err
	}
	return id, nil
}

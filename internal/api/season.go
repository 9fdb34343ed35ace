package api

import (
	"context"
	"fmt"

	"github.com/motoki/aniterm/internal/domain"
)

// SeasonRepo implements domain.SeasonRepository against the catalog API.
type SeasonRepo struct {
	client *Client
}

// NewSeasonRepo creates the season resource accessor.
func NewSeasonRepo(client *Client) *SeasonRepo {
	return &SeasonRepo{client: client}
}

// ListByAnime returns the seasons belonging to one anime.
func (r *SeasonRepo) ListByAnime(ctx context.Context, animeID int64) ([]domain.Season, error) {
	var seasons []domain.Season
	if err := r.client.get(ctx, fmt.Sprintf("/api/Seasons/anime/%d", animeID), &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

// Create stores a new season under its anime.
func (r *SeasonRepo) Create(ctx context.Context, draft domain.SeasonDraft) (*domain.Season, error) {
	req := seasonCreateRequest{
		Name:    draft.Name,
		AnimeID: draft.AnimeID,
	}
	var created domain.Season
	if err := r.client.post(ctx, "/api/Seasons", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial field set to a season.
func (r *SeasonRepo) Update(ctx context.Context, id int64, patch domain.SeasonPatch) (*domain.Season, error) {
	req := seasonUpdateRequest{Name: patch.Name}
	var updated domain.Season
	if err := r.client.put(ctx, fmt.Sprintf("/api/Seasons/%d", id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a season and returns the deleted id.
func (r *SeasonRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if err := r.client.delete(ctx, fmt.Sprintf("/api/Seasons/%d", id)); err != nil {
		return 0, err
	}
	return id, nil
}

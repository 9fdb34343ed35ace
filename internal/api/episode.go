package api

import (
	"context"
	"fmt"

	"github.com/motoki/aniterm/internal/domain"
)

// EpisodeRepo implements domain.EpisodeRepository against the catalog API.
type EpisodeRepo struct {
	client *Client
}

// NewEpisodeRepo creates the episode resource accessor.
func NewEpisodeRepo(client *Client) *EpisodeRepo {
	return &EpisodeRepo{client: client}
}

// ListBySeason returns the episodes belonging to one season.
func (r *EpisodeRepo) ListBySeason(ctx context.Context, seasonID int64) ([]domain.Episode, error) {
	var episodes []domain.Episode
	if err := r.client.get(ctx, fmt.Sprintf("/api/Episodes/season/%d", seasonID), &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// Get returns one episode.
func (r *EpisodeRepo) Get(ctx context.Context, id int64) (*domain.Episode, error) {
	var episode domain.Episode
	if err := r.client.get(ctx, fmt.Sprintf("/api/Episodes/%d", id), &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

// Create stores a new episode under its season.
func (r *EpisodeRepo) Create(ctx context.Context, draft domain.EpisodeDraft) (*domain.Episode, error) {
	req := episodeCreateRequest{
		Title:         draft.Title,
		EpisodeNumber: draft.EpisodeNumber,
		VideoURL:      draft.VideoURL,
		SeasonID:      draft.SeasonID,
	}
	var created domain.Episode
	if err := r.client.post(ctx, "/api/Episodes", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial field set to an episode.
func (r *EpisodeRepo) Update(ctx context.Context, id int64, patch domain.EpisodePatch) (*domain.Episode, error) {
	req := episodeUpdateRequest{
		Title:         patch.Title,
		EpisodeNumber: patch.EpisodeNumber,
		VideoURL:      patch.VideoURL,
	}
	var updated domain.Episode
	if err := r.client.put(ctx, fmt.Sprintf("/api/Episodes/%d", id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an episode and returns the deleted id.
func (r *EpisodeRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if err := r.client.delete(ctx, fmt.Sprintf("/api/Episodes/%d", id)); err != nil {
		return 0, err
	}
	return id, nil
}

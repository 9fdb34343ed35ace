package service

import (
	"context"

	"github.com/motoki/aniterm/internal/domain"
)

// Seasons returns the seasons of one anime, cached per anime id. An absent
// anime id disables the read.
func (s *CatalogService) Seasons(ctx context.Context, animeID int64) ([]domain.Season, error) {
	if animeID == 0 {
		return nil, nil
	}
	v, err := s.read(ctx, KeySeasons(animeID), func(ctx context.Context) (any, error) {
		return s.seasons.ListByAnime(ctx, animeID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Season), nil
}

// Season mutations cascade onto the parent anime detail entry: the detail
// response embeds the season list, so its counts go stale on any
// membership or name change.

// CreateSeason stores a new season, appending it to the cached per-anime
// list on success.
func (s *CatalogService) CreateSeason(ctx context.Context, draft domain.SeasonDraft) (*domain.Season, error) {
	listKey := KeySeasons(draft.AnimeID)

	created, err := s.seasons.Create(ctx, draft)
	if err != nil {
		s.cache.Invalidate(listKey)
		s.cache.Invalidate(KeyAnime(draft.AnimeID))
		return nil, err
	}

	if prev, ok := s.cache.Peek(listKey); ok {
		cur := prev.([]domain.Season)
		next := make([]domain.Season, 0, len(cur)+1)
		next = append(next, cur...)
		next = append(next, *created)
		s.cache.Set(listKey, next)
	}
	s.cache.Invalidate(KeyAnime(draft.AnimeID))

	s.logger.Info("created season", "id", created.ID, "animeID", draft.AnimeID)
	return created, nil
}

// UpdateSeason applies a partial update optimistically to the cached
// per-anime list. There is no single-season read path, so the list entry is
// the only snapshot.
func (s *CatalogService) UpdateSeason(ctx context.Context, id, animeID int64, patch domain.SeasonPatch) (*domain.Season, error) {
	listKey := KeySeasons(animeID)
	s.cancelRefetch(listKey)

	prevList, hadList := s.cache.Peek(listKey)
	if hadList {
		cur := prevList.([]domain.Season)
		next := make([]domain.Season, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID == id {
				next[i] = patch.ApplyTo(next[i])
			}
		}
		s.cache.Set(listKey, next)
	}

	updated, err := s.seasons.Update(ctx, id, patch)
	if err != nil && hadList {
		s.cache.Set(listKey, prevList)
	}

	s.cache.Invalidate(listKey)
	s.cache.Invalidate(KeyAnime(animeID))

	if err != nil {
		return nil, err
	}
	s.logger.Info("updated season", "id", id, "animeID", animeID)
	return updated, nil
}

// DeleteSeason removes a season, dropping it from the cached per-anime list
// optimistically.
func (s *CatalogService) DeleteSeason(ctx context.Context, id, animeID int64) error {
	listKey := KeySeasons(animeID)
	s.cancelRefetch(listKey)

	prevList, hadList := s.cache.Peek(listKey)
	if hadList {
		cur := prevList.([]domain.Season)
		next := make([]domain.Season, 0, len(cur))
		for _, season := range cur {
			if season.ID != id {
				next = append(next, season)
			}
		}
		s.cache.Set(listKey, next)
	}

	_, err := s.seasons.Delete(ctx, id)
	if err != nil && hadList {
		s.cache.Set(listKey, prevList)
	}

	s.cache.Invalidate(listKey)
	s.cache.Invalidate(KeyAnime(animeID))

	if err != nil {
		return err
	}
	s.logger.Info("deleted season", "id", id, "animeID", animeID)
	return nil
}

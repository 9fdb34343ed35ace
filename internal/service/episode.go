package service

import (
	"context"

	"github.com/motoki/aniterm/internal/domain"
)

// Episodes returns the episodes of one season, cached per season id. An
// absent season id disables the read.
func (s *CatalogService) Episodes(ctx context.Context, seasonID int64) ([]domain.Episode, error) {
	if seasonID == 0 {
		return nil, nil
	}
	v, err := s.read(ctx, KeyEpisodes(seasonID), func(ctx context.Context) (any, error) {
		return s.episodes.ListBySeason(ctx, seasonID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Episode), nil
}

// Episode returns one episode, cached. An absent id disables the read.
func (s *CatalogService) Episode(ctx context.Context, id int64) (*domain.Episode, error) {
	if id == 0 {
		return nil, nil
	}
	v, err := s.read(ctx, KeyEpisode(id), func(ctx context.Context) (any, error) {
		e, err := s.episodes.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return *e, nil
	})
	if err != nil {
		return nil, err
	}
	e := v.(domain.Episode)
	return &e, nil
}

// Episode mutations carry the widest cascade: the season list embeds
// episode counts and the anime detail embeds both, so any membership change
// here reaches all the way up. We do not know the anime id at this depth,
// so the whole seasons and animes keyspaces are invalidated wholesale.
func (s *CatalogService) invalidateEpisodeCascade(seasonID int64) {
	s.cache.Invalidate(KeyEpisodes(seasonID))
	s.cache.Invalidate(PatternSeasons)
	s.cache.Invalidate(KeyAnimeList)
}

// CreateEpisode stores a new episode, appending it to the cached per-season
// list on success.
func (s *CatalogService) CreateEpisode(ctx context.Context, draft domain.EpisodeDraft) (*domain.Episode, error) {
	listKey := KeyEpisodes(draft.SeasonID)

	created, err := s.episodes.Create(ctx, draft)
	if err != nil {
		s.invalidateEpisodeCascade(draft.SeasonID)
		return nil, err
	}

	if prev, ok := s.cache.Peek(listKey); ok {
		cur := prev.([]domain.Episode)
		next := make([]domain.Episode, 0, len(cur)+1)
		next = append(next, cur...)
		next = append(next, *created)
		s.cache.Set(listKey, next)
	}
	s.cache.Invalidate(PatternSeasons)
	s.cache.Invalidate(KeyAnimeList)

	s.logger.Info("created episode", "id", created.ID, "seasonID", draft.SeasonID)
	return created, nil
}

// UpdateEpisode applies a partial update optimistically to both the
// single-episode entry and the per-season list, restoring both snapshots
// verbatim on failure. Partial rollback is a bug, not an option.
func (s *CatalogService) UpdateEpisode(ctx context.Context, id, seasonID int64, patch domain.EpisodePatch) (*domain.Episode, error) {
	itemKey := KeyEpisode(id)
	listKey := KeyEpisodes(seasonID)
	s.cancelRefetch(itemKey)

	prevItem, hadItem := s.cache.Peek(itemKey)
	prevList, hadList := s.cache.Peek(listKey)

	if hadItem {
		s.cache.Set(itemKey, patch.ApplyTo(prevItem.(domain.Episode)))
	}
	if hadList {
		cur := prevList.([]domain.Episode)
		next := make([]domain.Episode, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID == id {
				next[i] = patch.ApplyTo(next[i])
			}
		}
		s.cache.Set(listKey, next)
	}

	updated, err := s.episodes.Update(ctx, id, patch)
	if err != nil {
		if hadItem {
			s.cache.Set(itemKey, prevItem)
		}
		if hadList {
			s.cache.Set(listKey, prevList)
		}
	} else {
		s.cache.Set(itemKey, *updated)
	}

	s.cache.Invalidate(itemKey)
	s.invalidateEpisodeCascade(seasonID)

	if err != nil {
		return nil, err
	}
	s.logger.Info("updated episode", "id", id, "seasonID", seasonID)
	return updated, nil
}

// DeleteEpisode removes an episode, dropping it from the cached per-season
// list optimistically and deleting its single-episode entry on success.
func (s *CatalogService) DeleteEpisode(ctx context.Context, id, seasonID int64) error {
	listKey := KeyEpisodes(seasonID)
	s.cancelRefetch(listKey)

	prevList, hadList := s.cache.Peek(listKey)
	if hadList {
		cur := prevList.([]domain.Episode)
		next := make([]domain.Episode, 0, len(cur))
		for _, ep := range cur {
			if ep.ID != id {
				next = append(next, ep)
			}
		}
		s.cache.Set(listKey, next)
	}

	_, err := s.episodes.Delete(ctx, id)
	if err != nil {
		if hadList {
			s.cache.Set(listKey, prevList)
		}
	} else {
		s.cache.Remove(KeyEpisode(id))
	}

	s.invalidateEpisodeCascade(seasonID)

	if err != nil {
		return err
	}
	s.logger.Info("deleted episode", "id", id, "seasonID", seasonID)
	return nil
}

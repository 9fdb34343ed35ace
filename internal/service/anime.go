package service

import (
	"context"

	"github.com/motoki/aniterm/internal/domain"
)

// Animes returns the full anime list, cached.
func (s *CatalogService) Animes(ctx context.Context) ([]domain.Anime, error) {
	v, err := s.read(ctx, KeyAnimeList, func(ctx context.Context) (any, error) {
		return s.animes.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Anime), nil
}

// Anime returns one anime with embedded seasons, cached. An absent id
// disables the read entirely.
func (s *CatalogService) Anime(ctx context.Context, id int64) (*domain.Anime, error) {
	if id == 0 {
		return nil, nil
	}
	v, err := s.read(ctx, KeyAnime(id), func(ctx context.Context) (any, error) {
		a, err := s.animes.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return *a, nil
	})
	if err != nil {
		return nil, err
	}
	a := v.(domain.Anime)
	return &a, nil
}

// CreateAnime stores a new anime. On success the server-returned entity is
// appended to the tail of the cached list; no refetch needed. On failure
// the list is invalidated so it reconciles with server truth.
func (s *CatalogService) CreateAnime(ctx context.Context, draft domain.AnimeDraft) (*domain.Anime, error) {
	created, err := s.animes.Create(ctx, draft)
	if err != nil {
		s.cache.Invalidate(KeyAnimeList)
		return nil, err
	}

	if prev, ok := s.cache.Peek(KeyAnimeList); ok {
		cur := prev.([]domain.Anime)
		next := make([]domain.Anime, 0, len(cur)+1)
		next = append(next, cur...)
		next = append(next, *created)
		s.cache.Set(KeyAnimeList, next)
	}

	s.logger.Info("created anime", "id", created.ID, "title", created.Title)
	return created, nil
}

// UpdateAnime applies a partial update optimistically: both the detail
// entry and the list row are rewritten before the network call, and both
// snapshots are restored verbatim if it fails. Either way both keys are
// invalidated afterwards; the optimistic value hides latency, it is not a
// trust boundary.
func (s *CatalogService) UpdateAnime(ctx context.Context, id int64, patch domain.AnimePatch) (*domain.Anime, error) {
	itemKey := KeyAnime(id)
	s.cancelRefetch(itemKey)

	prevItem, hadItem := s.cache.Peek(itemKey)
	prevList, hadList := s.cache.Peek(KeyAnimeList)

	if hadItem {
		s.cache.Set(itemKey, patch.ApplyTo(prevItem.(domain.Anime)))
	}
	if hadList {
		cur := prevList.([]domain.Anime)
		next := make([]domain.Anime, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID == id {
				next[i] = patch.ApplyTo(next[i])
			}
		}
		s.cache.Set(KeyAnimeList, next)
	}

	updated, err := s.animes.Update(ctx, id, patch)
	if err != nil {
		if hadItem {
			s.cache.Set(itemKey, prevItem)
		}
		if hadList {
			s.cache.Set(KeyAnimeList, prevList)
		}
	} else {
		s.cache.Set(itemKey, *updated)
	}

	s.cache.Invalidate(itemKey)
	s.cache.Invalidate(KeyAnimeList)

	if err != nil {
		return nil, err
	}
	s.logger.Info("updated anime", "id", id)
	return updated, nil
}

// DeleteAnime removes an anime, dropping it from the cached list
// optimistically and restoring the snapshot if the server says no.
func (s *CatalogService) DeleteAnime(ctx context.Context, id int64) error {
	s.cancelRefetch(KeyAnimeList)

	prevList, hadList := s.cache.Peek(KeyAnimeList)
	if hadList {
		cur := prevList.([]domain.Anime)
		next := make([]domain.Anime, 0, len(cur))
		for _, a := range cur {
			if a.ID != id {
				next = append(next, a)
			}
		}
		s.cache.Set(KeyAnimeList, next)
	}

	_, err := s.animes.Delete(ctx, id)
	if err != nil {
		if hadList {
			s.cache.Set(KeyAnimeList, prevList)
		}
	} else {
		s.cache.Remove(KeyAnime(id))
	}

	s.cache.Invalidate(KeyAnimeList)

	if err != nil {
		return err
	}
	s.logger.Info("deleted anime", "id", id)
	return nil
}

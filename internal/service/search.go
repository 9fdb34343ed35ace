package service

import (
	"context"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/motoki/aniterm/internal/domain"
)

// SearchAnimes fuzzy-matches query against cached anime titles, best match
// first. An empty query returns the whole list.
func (s *CatalogService) SearchAnimes(ctx context.Context, query string) ([]domain.Anime, error) {
	animes, err := s.Animes(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return animes, nil
	}

	titles := make([]string, len(animes))
	for i, a := range animes {
		titles[i] = a.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	matched := make([]domain.Anime, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, animes[r.OriginalIndex])
	}
	return matched, nil
}

// AnimesByGenre groups the cached anime list by genre tag. An anime with
// several comma-separated tags appears under each of them; untagged entries
// land under "Other".
func (s *CatalogService) AnimesByGenre(ctx context.Context) (map[string][]domain.Anime, error) {
	animes, err := s.Animes(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]domain.Anime)
	for _, a := range animes {
		tags := a.GenreList()
		if len(tags) == 0 {
			tags = []string{"Other"}
		}
		for _, tag := range tags {
			groups[tag] = append(groups[tag], a)
		}
	}
	return groups, nil
}

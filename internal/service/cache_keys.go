package service

import "fmt"

// Cache keys are composites of entity kind and scoping id, joined by ":".
// Pattern matching (cache.matchKey) is segment-aware: invalidating "animes"
// cascades over the list and every "animes:{id}" detail entry, mirroring
// how the read model denormalizes season/episode data into anime details,
// while "seasons:4" never touches "seasons:42".
const (
	// KeyAnimeList holds the full anime list and heads the anime keyspace.
	KeyAnimeList = "animes"

	// PatternSeasons covers every per-anime season list (seasons:{animeID}).
	PatternSeasons = "seasons"

	// PatternEpisodeLists covers every per-season episode list
	// (episodes:{seasonID}).
	PatternEpisodeLists = "episodes"

	// PatternEpisode covers single-episode entries (episode:{id}).
	PatternEpisode = "episode"
)

// KeyAnime returns the detail key for one anime.
func KeyAnime(id int64) string { return fmt.Sprintf("animes:%d", id) }

// KeySeasons returns the season-list key scoped to one anime.
func KeySeasons(animeID int64) string { return fmt.Sprintf("seasons:%d", animeID) }

// KeyEpisodes returns the episode-list key scoped to one season.
func KeyEpisodes(seasonID int64) string { return fmt.Sprintf("episodes:%d", seasonID) }

// KeyEpisode returns the key for one episode.
func KeyEpisode(id int64) string { return fmt.Sprintf("episode:%d", id) }

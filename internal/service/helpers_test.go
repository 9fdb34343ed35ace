package service

import (
	"context"
	"errors"
	"time"

	"github.com/motoki/aniterm/internal/domain"
	"github.com/motoki/aniterm/internal/log"
)

var errUnexpectedCall = errors.New("unexpected repository call")

type fakeAnimeRepo struct {
	listFn   func(ctx context.Context) ([]domain.Anime, error)
	getFn    func(ctx context.Context, id int64) (*domain.Anime, error)
	createFn func(ctx context.Context, draft domain.AnimeDraft) (*domain.Anime, error)
	updateFn func(ctx context.Context, id int64, patch domain.AnimePatch) (*domain.Anime, error)
	deleteFn func(ctx context.Context, id int64) (int64, error)

	listCalls   int
	getCalls    int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeAnimeRepo) List(ctx context.Context) ([]domain.Anime, error) {
	f.listCalls++
	if f.listFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listFn(ctx)
}

func (f *fakeAnimeRepo) Get(ctx context.Context, id int64) (*domain.Anime, error) {
	f.getCalls++
	if f.getFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getFn(ctx, id)
}

func (f *fakeAnimeRepo) Create(ctx context.Context, draft domain.AnimeDraft) (*domain.Anime, error) {
	f.createCalls++
	if f.createFn == nil {
		return nil, errUnexpectedCall
	}
	return f.createFn(ctx, draft)
}

func (f *fakeAnimeRepo) Update(ctx context.Context, id int64, patch domain.AnimePatch) (*domain.Anime, error) {
	f.updateCalls++
	if f.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return f.updateFn(ctx, id, patch)
}

func (f *fakeAnimeRepo) Delete(ctx context.Context, id int64) (int64, error) {
	f.deleteCalls++
	if f.deleteFn == nil {
		return 0, errUnexpectedCall
	}
	return f.deleteFn(ctx, id)
}

type fakeSeasonRepo struct {
	listFn   func(ctx context.Context, animeID int64) ([]domain.Season, error)
	createFn func(ctx context.Context, draft domain.SeasonDraft) (*domain.Season, error)
	updateFn func(ctx context.Context, id int64, patch domain.SeasonPatch) (*domain.Season, error)
	deleteFn func(ctx context.Context, id int64) (int64, error)

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeSeasonRepo) ListByAnime(ctx context.Context, animeID int64) ([]domain.Season, error) {
	f.listCalls++
	if f.listFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listFn(ctx, animeID)
}

func (f *fakeSeasonRepo) Create(ctx context.Context, draft domain.SeasonDraft) (*domain.Season, error) {
	f.createCalls++
	if f.createFn == nil {
		return nil, errUnexpectedCall
	}
	return f.createFn(ctx, draft)
}

func (f *fakeSeasonRepo) Update(ctx context.Context, id int64, patch domain.SeasonPatch) (*domain.Season, error) {
	f.updateCalls++
	if f.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return f.updateFn(ctx, id, patch)
}

func (f *fakeSeasonRepo) Delete(ctx context.Context, id int64) (int64, error) {
	f.deleteCalls++
	if f.deleteFn == nil {
		return 0, errUnexpectedCall
	}
	return f.deleteFn(ctx, id)
}

type fakeEpisodeRepo struct {
	listFn   func(ctx context.Context, seasonID int64) ([]domain.Episode, error)
	getFn    func(ctx context.Context, id int64) (*domain.Episode, error)
	createFn func(ctx context.Context, draft domain.EpisodeDraft) (*domain.Episode, error)
	updateFn func(ctx context.Context, id int64, patch domain.EpisodePatch) (*domain.Episode, error)
	deleteFn func(ctx context.Context, id int64) (int64, error)

	listCalls   int
	getCalls    int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeEpisodeRepo) ListBySeason(ctx context.Context, seasonID int64) ([]domain.Episode, error) {
	f.listCalls++
	if f.listFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listFn(ctx, seasonID)
}

func (f *fakeEpisodeRepo) Get(ctx context.Context, id int64) (*domain.Episode, error) {
	f.getCalls++
	if f.getFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getFn(ctx, id)
}

func (f *fakeEpisodeRepo) Create(ctx context.Context, draft domain.EpisodeDraft) (*domain.Episode, error) {
	f.createCalls++
	if f.createFn == nil {
		return nil, errUnexpectedCall
	}
	return f.createFn(ctx, draft)
}

func (f *fakeEpisodeRepo) Update(ctx context.Context, id int64, patch domain.EpisodePatch) (*domain.Episode, error) {
	f.updateCalls++
	if f.updateFn == nil {
		return nil, errUnexpectedCall
	}
	return f.updateFn(ctx, id, patch)
}

func (f *fakeEpisodeRepo) Delete(ctx context.Context, id int64) (int64, error) {
	f.deleteCalls++
	if f.deleteFn == nil {
		return 0, errUnexpectedCall
	}
	return f.deleteFn(ctx, id)
}

type fakeAuthRepo struct {
	loginFn    func(ctx context.Context, creds domain.Credentials) (string, error)
	registerFn func(ctx context.Context, reg domain.Registration) error

	loginCalls    int
	registerCalls int
}

func (f *fakeAuthRepo) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	f.loginCalls++
	if f.loginFn == nil {
		return "", errUnexpectedCall
	}
	return f.loginFn(ctx, creds)
}

func (f *fakeAuthRepo) Register(ctx context.Context, reg domain.Registration) error {
	f.registerCalls++
	if f.registerFn == nil {
		return errUnexpectedCall
	}
	return f.registerFn(ctx, reg)
}

type memTokenStore struct {
	token string
}

func (m *memTokenStore) Token() string           { return m.token }
func (m *memTokenStore) SetToken(t string) error { m.token = t; return nil }
func (m *memTokenStore) Clear() error            { m.token = ""; return nil }

type testFixture struct {
	svc      *CatalogService
	cache    *Cache
	animes   *fakeAnimeRepo
	seasons  *fakeSeasonRepo
	episodes *fakeEpisodeRepo
}

// newFixture wires a catalog service onto fakes, with retry backoff
// replaced by an instant no-op delay.
func newFixture() *testFixture {
	animes := &fakeAnimeRepo{}
	seasons := &fakeSeasonRepo{}
	episodes := &fakeEpisodeRepo{}
	cache := NewCache(DefaultStaleAfter, log.NullLogger())
	svc := NewCatalogService(animes, seasons, episodes, cache, log.NullLogger())
	svc.retryDelay = func(int) time.Duration { return 0 }
	return &testFixture{
		svc:      svc,
		cache:    cache,
		animes:   animes,
		seasons:  seasons,
		episodes: episodes,
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoki/aniterm/internal/domain"
	"github.com/motoki/aniterm/internal/log"
)

type memTokenStore struct {
	token string
}

func (m *memTokenStore) Token() string           { return m.token }
func (m *memTokenStore) SetToken(t string) error { m.token = t; return nil }
func (m *memTokenStore) Clear() error            { m.token = ""; return nil }

func newTestClient(handler http.Handler) (*Client, *memTokenStore, *httptest.Server) {
	srv := httptest.NewServer(handler)
	tokens := &memTokenStore{}
	client := NewClient(srv.URL, tokens, log.NullLogger())
	return client, tokens, srv
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	client, tokens, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tokens.token = "tok-123"
	_, err := NewAnimeRepo(client).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientOmitsAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	client, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewAnimeRepo(client).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientClearsTokenOn401(t *testing.T) {
	client, tokens, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens.token = "expired"
	_, err := NewAnimeRepo(client).List(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsAuthError(err))
	assert.Empty(t, tokens.Token(), "401 drops the stored token")
}

func TestClientWrapsServerRejection(t *testing.T) {
	client, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("database on fire"))
	}))
	defer srv.Close()

	_, err := NewAnimeRepo(client).List(context.Background())
	require.Error(t, err)

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.Status)
	assert.Equal(t, "database on fire", httpErr.Body)
}

func TestClientWrapsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	client := NewClient(srv.URL, &memTokenStore{}, log.NullLogger())
	_, err := NewAnimeRepo(client).List(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsNetworkError(err))
}

func TestAnimeRepoRoutes(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call

	client, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			if r.URL.Path == "/api/animes" {
				w.Write([]byte(`[{"id":1,"title":"Cowboy Bebop"}]`))
			} else {
				w.Write([]byte(`{"id":1,"title":"Cowboy Bebop","seasons":[{"id":9,"animeId":1}]}`))
			}
		default:
			w.Write([]byte(`{"id":1,"title":"Cowboy Bebop"}`))
		}
	}))
	defer srv.Close()

	repo := NewAnimeRepo(client)
	ctx := context.Background()

	animes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, animes, 1)
	assert.Equal(t, "Cowboy Bebop", animes[0].Title)

	anime, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, anime.SeasonCount())

	_, err = repo.Create(ctx, domain.AnimeDraft{Title: "Cowboy Bebop"})
	require.NoError(t, err)

	title := "Cowboy Bebop"
	_, err = repo.Update(ctx, 1, domain.AnimePatch{Title: &title})
	require.NoError(t, err)

	deletedID, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deletedID, "deleted id comes from the request")

	assert.Equal(t, []call{
		{http.MethodGet, "/api/animes"},
		{http.MethodGet, "/api/animes/1"},
		{http.MethodPost, "/api/animes"},
		{http.MethodPut, "/api/animes/1"},
		{http.MethodDelete, "/api/animes/1"},
	}, calls)
}

func TestSeasonAndEpisodeRoutes(t *testing.T) {
	var paths []string
	client, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := context.Background()
	_, err := NewSeasonRepo(client).ListByAnime(ctx, 4)
	require.NoError(t, err)
	_, err = NewEpisodeRepo(client).ListBySeason(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/Seasons/anime/4", "/api/Episodes/season/3"}, paths)
}

func TestUpdateRequestOmitsNilFields(t *testing.T) {
	var payload map[string]any
	client, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	title := "only this"
	_, err := NewAnimeRepo(client).Update(context.Background(), 1, domain.AnimePatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"title": "only this"}, payload)
}

func TestLoginTokenShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bare string", `"bare-token"`, "bare-token"},
		{"token envelope", `{"token":"envelope-token"}`, "envelope-token"},
		{"access_token envelope", `{"access_token":"oauth-token"}`, "oauth-token"},
		{"token wins over access_token", `{"token":"a","access_token":"b"}`, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/User/login", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			token, err := NewAuthRepo(client).Login(context.Background(), domain.Credentials{Username: "u", Password: "p"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestLoginWithoutToken(t *testing.T) {
	client, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"welcome"}`))
	}))
	defer srv.Close()

	_, err := NewAuthRepo(client).Login(context.Background(), domain.Credentials{})
	require.ErrorIs(t, err, domain.ErrNoToken)
}

func TestResolveTokenPriority(t *testing.T) {
	shape, token := resolveToken([]byte(`"bare"`))
	assert.Equal(t, tokenShapeBare, shape)
	assert.Equal(t, "bare", token)

	shape, _ = resolveToken([]byte(`{"token":"t"}`))
	assert.Equal(t, tokenShapeToken, shape)

	shape, _ = resolveToken([]byte(`{"access_token":"t"}`))
	assert.Equal(t, tokenShapeAccessToken, shape)

	shape, token = resolveToken([]byte(`{}`))
	assert.Equal(t, tokenShapeNone, shape)
	assert.Empty(t, token)
}

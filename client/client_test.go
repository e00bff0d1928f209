package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davidnwogucodes/sadaora/database"
	"github.com/davidnwogucodes/sadaora/helpers"
	"github.com/davidnwogucodes/sadaora/model"
	"github.com/davidnwogucodes/sadaora/router"
	"github.com/davidnwogucodes/sadaora/session"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, auth *helpers.Auth, subject string) *session.Session {
	t.Helper()

	token, err := auth.CreateToken(subject, time.Hour)
	require.NoError(t, err)
	s, err := session.New(token)
	require.NoError(t, err)
	return s
}

func TestRequestsCarryBearerAndQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"profiles":[{"id":"a","name":"Ada","photoUrl":null,"interests":["music"]}],"pagination":{"currentPage":2,"pages":3}}`))
	}))
	defer srv.Close()

	s := newSession(t, helpers.NewAuth("k"), "me")
	c, err := New(srv.URL+"/api/", s)
	require.NoError(t, err)

	page, err := c.FilteredFeed(context.Background(), 2, "music, art")
	require.NoError(t, err)
	require.Equal(t, "/api/feed/filter", got.URL.Path)
	require.Equal(t, "2", got.URL.Query().Get("page"))
	require.Equal(t, "music, art", got.URL.Query().Get("interests"))
	require.Contains(t, got.Header.Get("Authorization"), "Bearer ")
	require.Equal(t, model.Pagination{CurrentPage: 2, Pages: 3}, page.Pagination)
	require.Nil(t, page.Profiles[0].PhotoUrl)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile/a/follow":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":true,"message":"Invalid user"}`))
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, newSession(t, helpers.NewAuth("k"), "me"))
	require.NoError(t, err)

	var apiErr *APIError
	err = c.Follow(context.Background(), "a")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Invalid user", apiErr.Message)

	_, err = c.Feed(context.Background(), 1)
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[not json`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, newSession(t, helpers.NewAuth("k"), "me"))
	require.NoError(t, err)

	_, err = c.FollowStatus(context.Background(), "a")
	require.Error(t, err)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, newSession(t, helpers.NewAuth("k"), "me"), WithTimeout(100*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.Error(t, err)
}

func TestClosedSession(t *testing.T) {
	c, err := New("http://127.0.0.1:1", newSession(t, helpers.NewAuth("k"), "me"))
	require.NoError(t, err)

	c.session.Close()
	_, err = c.Feed(context.Background(), 1)
	require.ErrorIs(t, err, session.ErrClosed)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", nil)
	require.Error(t, err)
}

// stubStore backs the real router to check both sides agree on the contract
type stubStore struct {
	following map[string]bool
}

func (s *stubStore) CreateProfile(context.Context, model.Profile) error { return nil }

func (s *stubStore) GetProfile(_ context.Context, id string) (model.Profile, error) {
	return model.Profile{Id: id, Name: "Me", Interests: []string{}}, nil
}

func (s *stubStore) UpdateProfile(_ context.Context, id string, u model.ProfileUpdate) (model.Profile, error) {
	return model.Profile{Id: id, Name: u.Name, Bio: u.Bio, Interests: u.Interests}, nil
}

func (s *stubStore) DeleteProfile(context.Context, string) error { return nil }

func (s *stubStore) Feed(_ context.Context, _ string, interests []string, page, _ int) ([]model.Profile, int, error) {
	if len(interests) > 0 {
		return []model.Profile{{Id: "f", Name: "Filtered"}}, 1, nil
	}
	return []model.Profile{{Id: "a"}, {Id: "b"}}, 4, nil
}

func (s *stubStore) IsFollowing(_ context.Context, _, to string) (bool, error) {
	return s.following[to], nil
}

func (s *stubStore) Follow(_ context.Context, _, to string) error {
	if to == "ghost" {
		return database.ErrNotFound
	}
	s.following[to] = true
	return nil
}

func (s *stubStore) Unfollow(_ context.Context, _, to string) error {
	delete(s.following, to)
	return nil
}

func TestClientAgainstRouter(t *testing.T) {
	auth := helpers.NewAuth("contract")
	srv := httptest.NewServer(router.NewRouter(&router.Handler{
		Store:    &stubStore{following: map[string]bool{}},
		Auth:     auth,
		PageSize: 2,
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/api", newSession(t, auth, "me"))
	require.NoError(t, err)
	ctx := context.Background()

	page, err := c.Feed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Profiles, 2)
	require.True(t, page.HasMore())

	page, err = c.FilteredFeed(ctx, 1, "music")
	require.NoError(t, err)
	require.Equal(t, "f", page.Profiles[0].Id)
	require.False(t, page.HasMore())

	require.NoError(t, c.Follow(ctx, "a"))
	is, err := c.FollowStatus(ctx, "a")
	require.NoError(t, err)
	require.True(t, is)
	require.NoError(t, c.Unfollow(ctx, "a"))
	is, err = c.FollowStatus(ctx, "a")
	require.NoError(t, err)
	require.False(t, is)

	var apiErr *APIError
	require.True(t, errors.As(c.Follow(ctx, "ghost"), &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = c.CreateMe(ctx, model.ProfileUpdate{Name: "Me"})
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, router.ErrorProfileExists, apiErr.Message)

	me, err := c.UpdateMe(ctx, model.ProfileUpdate{Name: " Me ", Interests: []string{"go"}})
	require.NoError(t, err)
	require.Equal(t, "Me", me.Name)

	me, err = c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "me", me.Id)
	require.NoError(t, c.DeleteMe(ctx))
}

package lemmy_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"lemmony/pkg/domain"
	"lemmony/pkg/instance/lemmy"
	"lemmony/pkg/serrors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

var session = domain.Session{Token: "test-token"} //nolint: gochecknoglobals

func newTestClient(fn rtFunc, opts ...lemmy.Option) *lemmy.Client {
	return lemmy.New(&http.Client{Transport: fn}, "https://lemmy.co.uk/", opts...)
}

func respond(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&out))

	return out
}

func TestClient_Login_success(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "2",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("instance-secret"))
	require.NoError(t, err)

	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "lemmy.co.uk", r.URL.Host)
		require.Equal(t, "/api/v3/user/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))
		require.Equal(t, map[string]any{"username_or_email": "fed_sub_bot", "password": "hunter2"}, readJSON(t, r))

		return respond(http.StatusOK, `{"jwt":"`+token+`","registration_created":false,"verify_email_sent":false}`), nil
	})

	s, err := c.Login(context.Background(), "fed_sub_bot", "hunter2")
	require.NoError(t, err)
	require.Equal(t, token, s.Token)
	require.True(t, s.ExpiresAt.Equal(exp))
}

func TestClient_Login_opaqueToken(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"jwt":"not-a-jwt"}`), nil
	})

	s, err := c.Login(context.Background(), "bot", "pw")
	require.NoError(t, err)
	require.Equal(t, "not-a-jwt", s.Token)
	require.True(t, s.ExpiresAt.IsZero())
}

func TestClient_Login_missingToken(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"registration_created":false}`), nil
	})

	_, err := c.Login(context.Background(), "bot", "pw")
	require.ErrorIs(t, err, serrors.ErrInvalidConfig)
}

func TestClient_Login_rejected(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusBadRequest, `{"error":"incorrect_login"}`), nil
	})

	_, err := c.Login(context.Background(), "bot", "wrong")
	require.ErrorIs(t, err, serrors.ErrInvalidConfig)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Contains(t, err.Error(), "incorrect_login")
}

func TestClient_Login_serverError(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusInternalServerError, `oops`), nil
	})

	_, err := c.Login(context.Background(), "bot", "pw")
	require.ErrorIs(t, err, serrors.ErrUnexpectedResponse)
	require.ErrorIs(t, err, serrors.ErrInternal)
}

func TestClient_Communities(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v3/community/list", r.URL.Path)
		require.Equal(t, "All", r.URL.Query().Get("type_"))
		require.Equal(t, "50", r.URL.Query().Get("limit"))
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Empty(t, r.URL.Query().Get("auth"))
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		return respond(http.StatusOK, `{"communities":[
			{"community":{"id":7,"actor_id":"https://lemmy.ml/c/linux","name":"linux"},"subscribed":"Subscribed","blocked":false},
			{"community":{"id":9,"actor_id":"https://kbin.social/m/tech"},"subscribed":"NotSubscribed"}
		]}`), nil
	})

	page, err := c.Communities(context.Background(), session, 2, 50)
	require.NoError(t, err)
	require.Equal(t, []domain.LocalCommunity{
		{ID: 7, ActorID: "https://lemmy.ml/c/linux", Subscribed: domain.SubscribedTypeSubscribed},
		{ID: 9, ActorID: "https://kbin.social/m/tech", Subscribed: domain.SubscribedTypeNotSubscribed},
	}, page)
}

func TestClient_Communities_emptyPage(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"communities":[]}`), nil
	})

	page, err := c.Communities(context.Background(), session, 3, 50)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestClient_Communities_missingField(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"error":"not_logged_in"}`), nil
	})

	_, err := c.Communities(context.Background(), session, 1, 50)
	require.ErrorIs(t, err, serrors.ErrUnexpectedResponse)
}

func TestClient_Communities_non2xx(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusTooManyRequests, `rate_limit_error`), nil
	})

	_, err := c.Communities(context.Background(), session, 1, 50)
	require.ErrorIs(t, err, serrors.ErrUnexpectedResponse)
	require.ErrorIs(t, err, serrors.ErrRateLimited)
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "https://lemmy.ml/c/linux", q.Get("q"))
		require.Equal(t, "All", q.Get("type"))
		require.Equal(t, "All", q.Get("listingType"))
		require.Equal(t, "1", q.Get("page"))
		require.Equal(t, "TopAll", q.Get("sort"))
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		return respond(http.StatusServiceUnavailable, ""), nil
	})

	status, err := c.Search(context.Background(), session, "https://lemmy.ml/c/linux")
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, status)
}

func TestClient_Search_customPath(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/api/v3/search", r.URL.Path)

		return respond(http.StatusOK, "{}"), nil
	}, lemmy.WithSearchPath("api/v3/search"))

	status, err := c.Search(context.Background(), session, "x")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
}

func TestClient_Search_transportError(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := c.Search(context.Background(), session, "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
}

func TestClient_Follow(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v3/community/follow", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, map[string]any{
			"community_id": float64(42),
			"follow":       true,
			"auth":         "test-token",
		}, readJSON(t, r))

		return respond(http.StatusOK, `{"community_view":{"community":{"id":42},"subscribed":"Pending"},"discussion_languages":[]}`), nil
	})

	status, err := c.Follow(context.Background(), session, 42)
	require.NoError(t, err)
	require.Equal(t, domain.SubscribedTypePending, status)
}

func TestClient_Follow_unexpectedShape(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"error":"couldnt_find_community"}`), nil
	})

	_, err := c.Follow(context.Background(), session, 42)
	require.ErrorIs(t, err, serrors.ErrUnexpectedResponse)
}

func TestNewSession_expiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	require.True(t, lemmy.NewSession(token).ExpiresAt.Equal(exp))
	require.True(t, lemmy.NewSession("opaque").ExpiresAt.IsZero())
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroriga/skywatch/internal/logging"
	"github.com/astroriga/skywatch/internal/store"
)

// newUserBackend fakes the PostgREST users table: lookups return the given
// rows, inserts echo the record back with an ID.
func newUserBackend(t *testing.T, existing []store.User) *store.Users {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			email := r.URL.Query().Get("email")
			var matches []store.User
			for _, u := range existing {
				if email == "eq."+u.Email {
					matches = append(matches, u)
				}
			}
			if matches == nil {
				matches = []store.User{}
			}
			json.NewEncoder(w).Encode(matches)

		case http.MethodPost:
			var user store.User
			json.NewDecoder(r.Body).Decode(&user)
			user.ID = 42
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode([]store.User{user})
		}
	}))
	t.Cleanup(srv.Close)

	client, err := store.NewClient(store.Config{URL: srv.URL, APIKey: "k", Logger: logging.Discard()})
	require.NoError(t, err)
	return store.NewUsers(client)
}

func newTestService(t *testing.T, existing []store.User) *Service {
	return New(newUserBackend(t, existing), "test-secret", time.Hour, logging.Discard())
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("stargazer")
	require.NoError(t, err)
	assert.NotEqual(t, "stargazer", hash)

	assert.True(t, VerifyPassword("stargazer", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("stargazer", "not-a-hash"))
}

func TestRegister(t *testing.T) {
	svc := newTestService(t, nil)

	user, err := svc.Register(context.Background(), "anna@example.lv", "anna", "stargazer")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(42), user.ID)
	assert.True(t, VerifyPassword("stargazer", user.PasswordHash))
}

func TestRegisterHiddenInsertIsAnError(t *testing.T) {
	// The users table answers lookups normally but hides inserted rows,
	// as PostgREST does under row-level security. Register must fail
	// instead of handing back a nil user that a caller would mint a
	// token for.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client, err := store.NewClient(store.Config{URL: srv.URL, APIKey: "k", Logger: logging.Discard()})
	require.NoError(t, err)
	svc := New(store.NewUsers(client), "test-secret", time.Hour, logging.Discard())

	user, err := svc.Register(context.Background(), "anna@example.lv", "anna", "stargazer")
	require.Error(t, err)
	assert.Nil(t, user)
}

func TestRegisterEmailTaken(t *testing.T) {
	svc := newTestService(t, []store.User{{ID: 1, Email: "anna@example.lv"}})

	_, err := svc.Register(context.Background(), "anna@example.lv", "anna", "pw")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("stargazer")
	require.NoError(t, err)

	svc := newTestService(t, []store.User{{
		ID: 7, Email: "anna@example.lv", Username: "anna", PasswordHash: hash,
	}})

	token, user, err := svc.Login(context.Background(), "anna@example.lv", "stargazer")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(7), user.ID)

	userID, claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, "anna", claims.Username)
}

func TestLoginInvalidCredentials(t *testing.T) {
	hash, err := HashPassword("stargazer")
	require.NoError(t, err)
	existing := []store.User{{ID: 7, Email: "anna@example.lv", PasswordHash: hash}}

	t.Run("wrong password", func(t *testing.T) {
		svc := newTestService(t, existing)
		_, _, err := svc.Login(context.Background(), "anna@example.lv", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := newTestService(t, existing)
		_, _, err := svc.Login(context.Background(), "nobody@example.lv", "stargazer")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestParseTokenRejectsBadTokens(t *testing.T) {
	svc := newTestService(t, nil)
	user := &store.User{ID: 3, Username: "anna"}

	token, err := svc.MintToken(user)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, _, err := svc.ParseToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := New(newUserBackend(t, nil), "other-secret", time.Hour, logging.Discard())
		_, _, err := other.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := New(newUserBackend(t, nil), "test-secret", -time.Hour, logging.Discard())
		tok, err := expired.MintToken(user)
		require.NoError(t, err)

		_, _, err = expired.ParseToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

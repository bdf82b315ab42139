package gsheets

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestFileCacheRoundTrip(t *testing.T) {
	cache, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	_, ok := cache.GetSecret("token")
	assert.False(t, ok)

	require.NoError(t, cache.SetSecret("token", []byte(`{"x":1}`)))
	data, ok := cache.GetSecret("token")
	require.True(t, ok)
	assert.JSONEq(t, `{"x":1}`, string(data))

	require.NoError(t, cache.DeleteSecret("token"))
	_, ok = cache.GetSecret("token")
	assert.False(t, ok)

	// Deleting a missing secret is not an error.
	assert.NoError(t, cache.DeleteSecret("token"))
}

func TestUserLoginStatus(t *testing.T) {
	cache, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	login := NewUserLogin([]byte(`{}`), cache)

	assert.Equal(t, "not logged in", login.CheckStatus())

	tok, err := json.Marshal(&oauth2.Token{AccessToken: "abc"})
	require.NoError(t, err)
	require.NoError(t, cache.SetSecret(tokenCacheKey, tok))
	assert.Equal(t, "logged in (token cached)", login.CheckStatus())

	require.NoError(t, login.Cleanup())
	assert.Equal(t, "not logged in", login.CheckStatus())
}

const installedSecrets = `{
	"installed": {
		"client_id": "client-id",
		"client_secret": "client-secret",
		"redirect_uris": ["http://localhost"],
		"auth_uri": "https://accounts.google.com/o/oauth2/auth",
		"token_uri": "https://oauth2.googleapis.com/token"
	}
}`

func TestUserLoginListenConflict(t *testing.T) {
	// Occupy the redirect port so the consent flow cannot bind it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cache, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	login := NewUserLogin([]byte(installedSecrets), cache)
	login.listenAddr = ln.Addr().String()
	login.OpenURL = func(string) { t.Fatal("consent page opened without a listener") }

	_, err = login.Client(context.Background(), ScopeSpreadsheets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen for oauth redirect")
}

func TestStaticCredentialsStatus(t *testing.T) {
	var c StaticCredentials
	assert.Equal(t, "no token source configured", c.CheckStatus())

	c.Source = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc"})
	assert.Equal(t, "token available", c.CheckStatus())
	assert.NoError(t, c.Cleanup())
}

package gsheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// SecretCache stores small named secrets (OAuth tokens, client configs)
// between runs.
type SecretCache interface {
	GetSecret(key string) ([]byte, bool)
	SetSecret(key string, value []byte) error
	DeleteSecret(key string) error
}

// FileCache is a SecretCache backed by files in the user's config directory.
type FileCache struct {
	dir string
}

// NewFileCache creates a cache rooted at dir. An empty dir uses
// <user-config-dir>/gridkit.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "gridkit")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) GetSecret(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *FileCache) SetSecret(key string, value []byte) error {
	return os.WriteFile(c.path(key), value, 0o600)
}

func (c *FileCache) DeleteSecret(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Credentials supplies authenticated HTTP clients for the Sheets API.
type Credentials interface {
	// Client returns an HTTP client whose requests carry valid credentials
	// for the given OAuth scopes.
	Client(ctx context.Context, scopes ...string) (*http.Client, error)

	// CheckStatus describes the credential state for display ("logged in",
	// "no token cached", ...).
	CheckStatus() string

	// Cleanup discards any cached credential material.
	Cleanup() error
}

// StaticCredentials wraps a pre-built token source, for service flows where
// the token is provisioned externally.
type StaticCredentials struct {
	Source oauth2.TokenSource
}

func (s *StaticCredentials) Client(ctx context.Context, scopes ...string) (*http.Client, error) {
	if s.Source == nil {
		return nil, fmt.Errorf("no token source configured")
	}
	return oauth2.NewClient(ctx, s.Source), nil
}

func (s *StaticCredentials) CheckStatus() string {
	if s.Source == nil {
		return "no token source configured"
	}
	if _, err := s.Source.Token(); err != nil {
		return fmt.Sprintf("token unavailable: %v", err)
	}
	return "token available"
}

func (s *StaticCredentials) Cleanup() error { return nil }

const tokenCacheKey = "google_token"

// UserLogin implements the interactive OAuth user-login flow: a client-secrets
// JSON identifies the application, the user authorizes it in a browser, and
// the resulting token is cached for reuse.
type UserLogin struct {
	cache      SecretCache
	secretJSON []byte
	listenAddr string

	// OpenURL is called with the authorization URL the user must visit.
	// Defaults to printing it to stderr.
	OpenURL func(url string)
}

// NewUserLogin builds the login flow from a client-secrets JSON (as downloaded
// from the Google API console) and a token cache.
func NewUserLogin(secretJSON []byte, cache SecretCache) *UserLogin {
	return &UserLogin{
		cache:      cache,
		secretJSON: secretJSON,
		listenAddr: "localhost:8080",
		OpenURL: func(url string) {
			fmt.Fprintf(os.Stderr, "Visit this URL to authorize: %s\n", url)
		},
	}
}

func (u *UserLogin) Client(ctx context.Context, scopes ...string) (*http.Client, error) {
	cfg, err := google.ConfigFromJSON(u.secretJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	tok, err := u.cachedToken()
	if err != nil {
		tok, err = u.authorize(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}
	// Let oauth2 refresh transparently, then persist whatever it refreshed to.
	src := cfg.TokenSource(ctx, tok)
	return oauth2.NewClient(ctx, &cachingSource{src: src, login: u}), nil
}

func (u *UserLogin) cachedToken() (*oauth2.Token, error) {
	data, ok := u.cache.GetSecret(tokenCacheKey)
	if !ok {
		return nil, fmt.Errorf("no cached token")
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode cached token: %w", err)
	}
	return &tok, nil
}

func (u *UserLogin) storeToken(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return u.cache.SetSecret(tokenCacheKey, data)
}

// authorize runs the interactive flow: start a loopback listener for the
// redirect, send the user to the consent page, trade the returned code for a
// token and cache it.
func (u *UserLogin) authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this window.")
		codeCh <- code
	})
	// Listen synchronously so a taken port fails here instead of leaving the
	// flow waiting for a redirect that can never arrive.
	ln, err := net.Listen("tcp", u.listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen for oauth redirect on %s: %w", u.listenAddr, err)
	}
	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer srv.Close()

	cfg.RedirectURL = "http://" + u.listenAddr + "/"
	u.OpenURL(cfg.AuthCodeURL("state", oauth2.AccessTypeOffline))

	var code string
	select {
	case code = <-codeCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange auth code: %w", err)
	}
	if err := u.storeToken(tok); err != nil {
		return nil, fmt.Errorf("cache token: %w", err)
	}
	return tok, nil
}

func (u *UserLogin) CheckStatus() string {
	if _, err := u.cachedToken(); err != nil {
		return "not logged in"
	}
	return "logged in (token cached)"
}

func (u *UserLogin) Cleanup() error {
	return u.cache.DeleteSecret(tokenCacheKey)
}

// cachingSource persists tokens every time the wrapped source refreshes them.
type cachingSource struct {
	src   oauth2.TokenSource
	login *UserLogin
	last  *oauth2.Token
}

func (c *cachingSource) Token() (*oauth2.Token, error) {
	tok, err := c.src.Token()
	if err != nil {
		return nil, err
	}
	if c.last == nil || tok.AccessToken != c.last.AccessToken {
		c.last = tok
		if err := c.login.storeToken(tok); err != nil {
			return nil, fmt.Errorf("cache refreshed token: %w", err)
		}
	}
	return tok, nil
}

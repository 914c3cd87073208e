package oagunth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/oagunth/oagunth-cli/internal/logger"
)

// OAuth holds the endpoints and client ID of the OAuth2 device code flow.
type OAuth struct {
	ClientID      string
	DeviceAuthURL string
	TokenURL      string
	Scopes        []string
}

func (o OAuth) enabled() bool {
	return o.ClientID != "" && o.TokenURL != ""
}

func (o OAuth) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID: o.ClientID,
		Scopes:   o.Scopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: o.DeviceAuthURL,
			TokenURL:      o.TokenURL,
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// tokenSource picks the credentials for opts: the static token if set,
// otherwise the token stored in opts.TokenFile, refreshed through the OAuth2
// endpoints when they are configured. It returns nil when no credentials
// exist; requests are then sent unauthenticated.
func tokenSource(ctx context.Context, opts Options, log *logger.Logger) (oauth2.TokenSource, error) {
	if opts.Token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"}), nil
	}
	if opts.TokenFile == "" {
		return nil, nil
	}
	tok, err := LoadToken(opts.TokenFile)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if !opts.OAuth.enabled() {
		return oauth2.StaticTokenSource(tok), nil
	}
	ts := opts.OAuth.config().TokenSource(ctx, tok)
	return oauth2.ReuseTokenSource(tok, &savingTokenSource{ts: ts, path: opts.TokenFile, log: log}), nil
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts   oauth2.TokenSource
	path string
	log  *logger.Logger
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if err := SaveToken(s.path, tok); err != nil {
		s.log.Warn("could not save refreshed token", "path", s.path, "error", err)
	}
	return tok, nil
}

// LoadToken loads a previously saved token. A missing file yields nil, nil.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", path, err)
	}
	return &tok, nil
}

// SaveToken atomically persists tok to path.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Login runs the device code flow, printing the verification instructions
// to out, and stores the granted token at path.
func Login(ctx context.Context, o OAuth, path string, out io.Writer) (*oauth2.Token, error) {
	if !o.enabled() || o.DeviceAuthURL == "" {
		return nil, fmt.Errorf("oauth is not configured: set http.oauth.client_id, device_auth_url and token_url")
	}
	cfg := o.config()

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(out)

	tok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := SaveToken(path, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

package out

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"irctrack/internal/modules/datastore/domain"
	datastoreout "irctrack/internal/modules/datastore/port/out"
	apperrors "irctrack/internal/platform/errors"
)

var scopes = []string{sheets.SpreadsheetsScope}

// ServiceAccountFile authenticates with a service account key file.
type ServiceAccountFile struct {
	Path string
}

func (s ServiceAccountFile) Name() string { return "service-account" }

func (s ServiceAccountFile) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	payload, err := readCredential(s.Path)
	if err != nil {
		return nil, err
	}
	cfg, err := google.JWTConfigFromJSON(payload, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account %s: %w", s.Path, err)
	}
	return cfg.TokenSource(ctx), nil
}

// ServiceAccountEmail returns the client email of the key file at path, which
// is the address the spreadsheet must be shared with.
func ServiceAccountEmail(path string) (string, error) {
	payload, err := readCredential(path)
	if err != nil {
		return "", err
	}
	var key struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(payload, &key); err != nil {
		return "", fmt.Errorf("parse service account %s: %w", path, err)
	}
	return key.ClientEmail, nil
}

// StoredToken reuses a previously authorised user token. The token is
// refreshed when expired and written back to Path.
type StoredToken struct {
	Path         string
	ClientSecret string
}

func (s StoredToken) Name() string { return "stored-token" }

func (s StoredToken) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	payload, err := readCredential(s.Path)
	if err != nil {
		return nil, err
	}
	cfg, err := clientConfig(s.ClientSecret)
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(payload, tok); err != nil {
		return nil, fmt.Errorf("parse token %s: %w", s.Path, err)
	}
	ts := cfg.TokenSource(ctx, tok)
	fresh, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if fresh.AccessToken != tok.AccessToken {
		if err := saveToken(s.Path, fresh); err != nil {
			return nil, err
		}
	}
	return oauth2.ReuseTokenSource(fresh, ts), nil
}

// InteractiveConsent runs the installed-app consent flow: it prints the
// authorisation URL to Prompt and reads the code from Input. The resulting
// token is persisted to TokenPath for the next run.
type InteractiveConsent struct {
	ClientSecret string
	TokenPath    string
	Prompt       io.Writer
	Input        io.Reader
}

func (s InteractiveConsent) Name() string { return "interactive" }

func (s InteractiveConsent) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if s.Prompt == nil || s.Input == nil {
		return nil, domain.ErrCredentialUnavailable
	}
	cfg, err := clientConfig(s.ClientSecret)
	if err != nil {
		return nil, err
	}
	url := cfg.AuthCodeURL("irctrack", oauth2.AccessTypeOffline)
	fmt.Fprintf(s.Prompt, "Open this URL in a browser and paste the authorisation code:\n%s\ncode: ", url)

	line, err := bufio.NewReader(s.Input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read authorisation code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, fmt.Errorf("empty authorisation code")
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorisation code: %w", err)
	}
	if s.TokenPath != "" {
		if err := saveToken(s.TokenPath, tok); err != nil {
			return nil, err
		}
	}
	return cfg.TokenSource(ctx, tok), nil
}

// CredentialChain tries its sources in order and keeps the first token source
// that works for the rest of the process.
type CredentialChain struct {
	sources []datastoreout.CredentialSource
	logger  *slog.Logger

	mu   sync.Mutex
	ts   oauth2.TokenSource
	name string
}

func NewCredentialChain(logger *slog.Logger, sources ...datastoreout.CredentialSource) *CredentialChain {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CredentialChain{sources: sources, logger: logger}
}

// Resolve returns the cached token source, or walks the chain when nothing
// has been resolved yet.
func (c *CredentialChain) Resolve(ctx context.Context) (oauth2.TokenSource, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ts != nil {
		return c.ts, c.name, nil
	}

	var attempts []error
	for _, src := range c.sources {
		ts, err := src.TokenSource(ctx)
		if err == nil {
			c.ts, c.name = ts, src.Name()
			c.logger.Info("authenticated", "source", src.Name())
			return ts, src.Name(), nil
		}
		if errors.Is(err, domain.ErrCredentialUnavailable) {
			c.logger.Debug("credential source skipped", "source", src.Name())
		} else {
			c.logger.Warn("credential source failed", "source", src.Name(), "err", err)
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", src.Name(), err))
	}
	if len(attempts) == 0 {
		attempts = append(attempts, errors.New("no credential sources configured"))
	}
	return nil, "", fmt.Errorf("%w: %w", apperrors.ErrAuthentication, errors.Join(attempts...))
}

// Reset drops the cached token source so the next Resolve walks the chain
// again.
func (c *CredentialChain) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ts = nil
	c.name = ""
}

func clientConfig(path string) (*oauth2.Config, error) {
	payload, err := readCredential(path)
	if err != nil {
		return nil, err
	}
	cfg, err := google.ConfigFromJSON(payload, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret %s: %w", path, err)
	}
	return cfg, nil
}

func readCredential(path string) ([]byte, error) {
	if path == "" {
		return nil, domain.ErrCredentialUnavailable
	}
	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrCredentialUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return payload, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	payload, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

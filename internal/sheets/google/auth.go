package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var errNoCredentials = errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_OAUTH_CLIENT_* with GOOGLE_OAUTH_TOKEN_*)")

func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	authOpt, err := clientOption(ctx, opts)
	if err != nil {
		return nil, err
	}
	service, err := gsheet.NewService(ctx, authOpt)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func clientOption(ctx context.Context, opts Options) (goption.ClientOption, error) {
	saJSON, err := readInlineOrFile(opts.CredentialsJSON, opts.CredentialsFile, "service account")
	if err != nil {
		return nil, err
	}
	if saJSON != nil {
		slog.InfoContext(ctx, "Using service account credentials")
		return goption.WithCredentialsJSON(saJSON), nil
	}

	clientJSON, err := readInlineOrFile(opts.OAuthClientJSON, opts.OAuthClientFile, "oauth client")
	if err != nil {
		return nil, err
	}
	if clientJSON == nil {
		return nil, errNoCredentials
	}

	slog.InfoContext(ctx, "Using OAuth user credentials")
	httpClient, err := oauthHTTPClient(ctx, clientJSON, opts)
	if err != nil {
		return nil, err
	}
	return goption.WithHTTPClient(httpClient), nil
}

func oauthHTTPClient(ctx context.Context, clientJSON []byte, opts Options) (*http.Client, error) {
	cfg, err := oauthgoogle.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	tokenJSON, err := readInlineOrFile(opts.OAuthTokenJSON, opts.OAuthTokenFile, "oauth token")
	if err != nil {
		return nil, err
	}
	if tokenJSON == nil {
		return nil, errors.New("missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE)")
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	return cfg.Client(ctx, &token), nil
}

// readInlineOrFile returns inline when set, else the contents of path.
// Both empty yields nil.
func readInlineOrFile(inline, path, what string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", what, err)
	}
	return b, nil
}

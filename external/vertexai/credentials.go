package vertexai

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	cloudPlatformScope  = "https://www.googleapis.com/auth/cloud-platform"
	tokenRefreshTimeout = 15 * time.Second
)

// NewTokenSource prefers a static access token and otherwise loads the
// service account file at credentialsPath.
func NewTokenSource(ctx context.Context, accessToken, credentialsPath string) (oauth2.TokenSource, error) {
	if token := strings.TrimSpace(accessToken); token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}), nil
	}

	credentialsPath = strings.TrimSpace(credentialsPath)
	if credentialsPath == "" {
		return nil, crerr.New("either an access token or a credentials file is required")
	}
	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, crerr.Wrapf(err, "read credentials file %q", credentialsPath)
	}
	// Refreshes run on this client, so a stalled token endpoint cannot hang a call.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: tokenRefreshTimeout})
	creds, err := google.CredentialsFromJSON(ctx, raw, cloudPlatformScope)
	if err != nil {
		return nil, crerr.Wrap(err, "parse google credentials")
	}
	return oauth2.ReuseTokenSource(nil, creds.TokenSource), nil
}

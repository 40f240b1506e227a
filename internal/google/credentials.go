package google

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Credentials resolves Google credentials for the given scopes.
// A non-empty credentialsFile is read as a service account key or authorized
// user JSON file; otherwise Application Default Credentials are used.
func Credentials(ctx context.Context, credentialsFile string, scopes ...string) (*google.Credentials, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	if credentialsFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		return creds, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	return CredentialsFromJSON(ctx, data, scopes...)
}

// CredentialsFromJSON parses a service account key or authorized user file.
func CredentialsFromJSON(ctx context.Context, data []byte, scopes ...string) (*google.Credentials, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	//nolint:staticcheck // the credentials file is operator supplied configuration
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds, nil
}

// NewHTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func NewHTTPClient(ctx context.Context, credentialsFile string) (*http.Client, error) {
	creds, err := Credentials(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	return NewTokenClient(ctx, creds.TokenSource), nil
}

// NewTokenClient wraps ts in an HTTP/1.1 OAuth2 client.
func NewTokenClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	base := &http.Client{Transport: http1Transport()}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, ts))
}

// http1Transport returns a clone of the default transport with HTTP/2 disabled.
func http1Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ForceAttemptHTTP2 = false
	t.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	return t
}

// Package auth handles the delegated OAuth flow and token refresh for the
// Drive session. The rest of the code only ever sees an oauth2.TokenSource.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"cloudsaver/internal/config"
	"cloudsaver/internal/logger"
)

const (
	// RedirectURL is the local callback endpoint for the OAuth flow.
	RedirectURL = "http://localhost:8080/callback"

	// DriveScope grants full read/write access, needed for trash and upload.
	DriveScope = "https://www.googleapis.com/auth/drive"
	// EmailScope lets us show which account is authenticated.
	EmailScope = "https://www.googleapis.com/auth/userinfo.email"

	flowTimeout = 5 * time.Minute
)

// OAuthConfig builds the oauth2 configuration from stored client credentials.
func OAuthConfig(creds config.ClientCredentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ID,
		ClientSecret: creds.Secret,
		RedirectURL:  RedirectURL,
		Scopes:       []string{DriveScope, EmailScope},
		Endpoint:     google.Endpoint,
	}
}

// TokenSource returns a self-refreshing token source seeded with a stored
// refresh token.
func TokenSource(ctx context.Context, conf *oauth2.Config, refreshToken string) oauth2.TokenSource {
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}

// PerformOAuthFlow walks the operator through browser authorization using a
// local callback server and returns the refresh token to store.
func PerformOAuthFlow(ctx context.Context, conf *oauth2.Config) (string, error) {
	state := fmt.Sprintf("%d", time.Now().UnixNano())
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	logger.Info("Please visit this URL to authorize the application:")
	logger.Info("%s", authURL)

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	server := &http.Server{Addr: ":8080", Handler: mux}

	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			errChan <- fmt.Errorf("state mismatch")
			fmt.Fprint(w, "Error: state mismatch. You can close this window.")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			fmt.Fprint(w, "Error: no authorization code received. You can close this window.")
			return
		}
		codeChan <- code
		fmt.Fprint(w, "Authorization successful! You can close this window and return to the terminal.")
	})

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		server.Shutdown(ctx)
		return "", err
	case <-time.After(flowTimeout):
		server.Shutdown(ctx)
		return "", fmt.Errorf("OAuth flow timed out after %s", flowTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code for token: %w", err)
	}
	if token.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token received (revoke prior access and try again)")
	}
	return token.RefreshToken, nil
}

// internal/identity/provider.go
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"eventgate/internal/common/errors"
)

// ProviderClient talks to the hosted identity provider. It authenticates
// with the client credentials flow and reads user profiles from the
// realm's admin API.
type ProviderClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewProviderClient creates a new instance of ProviderClient.
func NewProviderClient(baseURL, realm, clientID, clientSecret string, timeout time.Duration) *ProviderClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ProviderClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// getAccessToken fetches a new access token using the client credentials
// flow. It caches the token until expiry.
func (p *ProviderClient) getAccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tokenExpiry.After(time.Now()) && p.accessToken != "" {
		return p.accessToken, nil
	}

	tokenURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", p.baseURL, p.realm)

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", p.clientID)
	data.Set("client_secret", p.clientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	p.accessToken = tokenResp.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return p.accessToken, nil
}

// GetProfile fetches a user's profile by id. The raw payload is validated
// against the profile schema before it is decoded.
func (p *ProviderClient) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	token, err := p.getAccessToken(ctx)
	if err != nil {
		return nil, errors.NewIdentityAuthError(err.Error())
	}

	profileURL := fmt.Sprintf("%s/admin/realms/%s/users/%s", p.baseURL, p.realm, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, "GET", profileURL, nil)
	if err != nil {
		return nil, errors.NewIdentityUnavailableError(err.Error())
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewIdentityUnavailableError(err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NewProfileNotFoundError(userID)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewIdentityUnavailableError(
			fmt.Sprintf("profile request failed with status %d: %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewIdentityUnavailableError(err.Error())
	}

	if err := ValidateProfilePayload(body); err != nil {
		return nil, err
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, errors.NewProfileInvalidError(err.Error())
	}

	return &profile, nil
}

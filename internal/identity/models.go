// internal/identity/models.go
package identity

// Profile represents a user profile in the identity provider.
type Profile struct {
	ID         string              `json:"id"`
	Username   string              `json:"username"`
	Email      string              `json:"email"`
	Enabled    bool                `json:"enabled"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

// TierAttribute is the profile attribute carrying the membership tier label.
const TierAttribute = "membership_tier"

// TierLabel returns the raw membership tier label from the profile
// attributes, or "" when the provider has no tier on file.
func (p *Profile) TierLabel() string {
	if labels, ok := p.Attributes[TierAttribute]; ok && len(labels) > 0 {
		return labels[0]
	}
	return ""
}

// TokenResponse holds the response from the provider's token endpoint.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
}

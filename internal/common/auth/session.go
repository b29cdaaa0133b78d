// internal/common/auth/session.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"equityai-workers/internal/common/errors"
	commonhttp "equityai-workers/internal/common/http"
)

// SessionResolver validates access tokens against the identity provider and
// resolves the caller's user ID and marketplace role. Workers that enforce
// role rules (express-interest, review-offering) go through this rather than
// trusting variables from the process payload.
type SessionResolver struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *commonhttp.Client
}

// Session identifies an authenticated marketplace user.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

// TokenInfo holds the information returned by the token introspection endpoint.
type TokenInfo struct {
	Active    bool     `json:"active"`
	Scope     string   `json:"scope,omitempty"`
	ClientID  string   `json:"client_id,omitempty"`
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email,omitempty"`
	TokenType string   `json:"token_type,omitempty"`
	Exp       int64    `json:"exp,omitempty"`
	Iat       int64    `json:"iat,omitempty"`
	Sub       string   `json:"sub,omitempty"`
	Aud       []string `json:"aud,omitempty"`
	Iss       string   `json:"iss,omitempty"`

	RealmAccess struct {
		Roles []string `json:"roles,omitempty"`
	} `json:"realm_access,omitempty"`
}

// NewSessionResolver creates a resolver against an OIDC identity provider.
func NewSessionResolver(baseURL, realm, clientID, clientSecret string) *SessionResolver {
	return &SessionResolver{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   commonhttp.NewClient(30 * time.Second),
	}
}

// marketplaceRoles are the roles the platform recognizes, in resolution order.
var marketplaceRoles = []string{"admin", "founder", "investor"}

// Resolve introspects the token and maps it to a marketplace session.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (*Session, error) {
	info, err := r.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	session := &Session{
		UserID: info.Sub,
		Email:  info.Email,
	}

	for _, role := range marketplaceRoles {
		for _, granted := range info.RealmAccess.Roles {
			if granted == role {
				session.Role = role
				break
			}
		}
		if session.Role != "" {
			break
		}
	}

	if session.Role == "" {
		return nil, errors.NewAuthenticationError(
			fmt.Sprintf("no marketplace role granted to user %s", info.Sub),
		)
	}

	return session, nil
}

// ValidateToken checks if an access token is valid and active.
func (r *SessionResolver) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	introspectURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token/introspect", r.baseURL, r.realm)

	data := url.Values{}
	data.Set("token", token)
	data.Set("token_type_hint", "access_token")
	data.Set("client_id", r.clientID)
	data.Set("client_secret", r.clientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", introspectURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "HTTP_REQUEST_ERROR",
			Message:   "Failed to create introspection request",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "NETWORK_ERROR",
			Message:   "Failed to send introspection request",
			Details:   err.Error(),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	var tokenInfo TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, &errors.StandardError{
			Code:      "DESERIALIZATION_ERROR",
			Message:   "Failed to decode token introspection response",
			Details:   err.Error(),
			Retryable: false,
		}
	}

	if !tokenInfo.Active {
		return nil, errors.NewAuthenticationError("token is expired, revoked, or malformed")
	}

	return &tokenInfo, nil
}

// Package auth acquires and caches OAuth bearer tokens for the hosted
// completion API using the client-credentials grant.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Token is one record from the token endpoint. Fields other than
// access_token, expires_in and created_at are kept in Extra so the cache
// file round-trips whatever the endpoint returned.
type Token struct {
	AccessToken string
	ExpiresIn   float64
	CreatedAt   float64
	Extra       map[string]json.RawMessage
}

// Valid reports whether the token is still usable at unix time now.
func (t *Token) Valid(now float64) bool {
	return t.ExpiresIn > 0 && now < t.CreatedAt+t.ExpiresIn
}

func (t *Token) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["access_token"]; ok {
		if err := json.Unmarshal(v, &t.AccessToken); err != nil {
			return err
		}
		delete(raw, "access_token")
	}
	if v, ok := raw["expires_in"]; ok {
		if err := json.Unmarshal(v, &t.ExpiresIn); err != nil {
			return err
		}
		delete(raw, "expires_in")
	}
	if v, ok := raw["created_at"]; ok {
		if err := json.Unmarshal(v, &t.CreatedAt); err != nil {
			return err
		}
		delete(raw, "created_at")
	}
	t.Extra = raw
	return nil
}

func (t *Token) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+3)
	for k, v := range t.Extra {
		out[k] = v
	}
	out["access_token"] = t.AccessToken
	out["expires_in"] = t.ExpiresIn
	out["created_at"] = t.CreatedAt
	return json.Marshal(out)
}

// BasicAuth builds the Authorization header value for the client credentials.
func BasicAuth(clientID, clientSecret string) string {
	token := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
	return "Basic " + token
}

// Exchange trades client credentials for a bearer token at tokenURL.
func Exchange(ctx context.Context, httpClient *http.Client, tokenURL, clientID, clientSecret, scope string) (*Token, error) {
	body := "grant_type=client_credentials&scope=" + url.QueryEscape(scope)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", BasicAuth(clientID, clientSecret))

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access_token (status %d)", resp.StatusCode)
	}
	return &token, nil
}

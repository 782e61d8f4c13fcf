package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/marsolucoes/lumia/internal/pkg/env"
)

const defaultNetCredAPIBaseURL = "https://api.netcred.com.br/graphql"

// Provider tokens last 24h; renew one hour early.
const netCredTokenTTL = 23 * time.Hour

var (
	// ErrAuthConfig signals missing gateway credentials (server
	// misconfiguration, never the caller's fault).
	ErrAuthConfig = errors.New("netcred credentials are not configured")
	// ErrAuthRefused signals the provider rejected the configured credentials.
	ErrAuthRefused = errors.New("netcred refused the configured credentials")
	// ErrAuthProtocol signals a well-formed HTTP response missing the token field.
	ErrAuthProtocol = errors.New("netcred auth response carried no token")
)

// RequestError carries the first provider-level error returned in a GraphQL
// errors array. Retrying is the caller's responsibility.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return "netcred request failed: " + e.Message
}

// NetCredClient issues authenticated GraphQL calls against the payment
// provider. The token cache is per-instance and safe for concurrent use;
// construct one per process and pass it to whoever needs it.
type NetCredClient struct {
	Username   string
	Password   string
	APIBaseURL string

	HTTPClient *http.Client

	mu           sync.Mutex
	token        string
	tokenExpires time.Time
	tokenBaseURL string
}

func NewNetCredClientFromEnv() *NetCredClient {
	return &NetCredClient{
		Username:   strings.TrimSpace(env.GetEnv("NETCRED_USERNAME", "")),
		Password:   strings.TrimSpace(env.GetEnv("NETCRED_PASSWORD", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("NETCRED_API_URL", defaultNetCredAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// resolveBaseURL prefers the live environment value so a sandbox/production
// switch takes effect without a process restart.
func (c *NetCredClient) resolveBaseURL() string {
	if v := strings.TrimSpace(env.GetEnv("NETCRED_API_URL", "")); v != "" {
		return v
	}
	if strings.TrimSpace(c.APIBaseURL) != "" {
		return c.APIBaseURL
	}
	return defaultNetCredAPIBaseURL
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

const tokenAuthMutation = `mutation TokenAuth($username: String!, $password: String!) {
  tokenAuth(username: $username, password: $password) {
    token
  }
}`

// Authenticate exchanges the configured credentials for a bearer token and
// caches it for subsequent requests.
func (c *NetCredClient) Authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

func (c *NetCredClient) authenticateLocked(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == "" {
		return "", ErrAuthConfig
	}

	baseURL := c.resolveBaseURL()
	resp, err := c.post(ctx, baseURL, "", graphQLRequest{
		Query: tokenAuthMutation,
		Variables: map[string]any{
			"username": c.Username,
			"password": c.Password,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Errors) > 0 {
		return "", fmt.Errorf("%w: %s", ErrAuthRefused, resp.Errors[0].Message)
	}

	var payload struct {
		TokenAuth struct {
			Token string `json:"token"`
		} `json:"tokenAuth"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return "", ErrAuthProtocol
	}
	token := strings.TrimSpace(payload.TokenAuth.Token)
	if token == "" {
		return "", ErrAuthProtocol
	}

	c.token = token
	c.tokenExpires = time.Now().Add(netCredTokenTTL)
	c.tokenBaseURL = baseURL
	return token, nil
}

// ensureToken returns a valid cached token, re-authenticating when the token
// expired or the configured base URL changed. Holding the mutex across the
// auth call means concurrent callers wait instead of all re-authenticating.
func (c *NetCredClient) ensureToken(ctx context.Context) (string, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	baseURL := c.resolveBaseURL()
	if c.token != "" && time.Now().Before(c.tokenExpires) && c.tokenBaseURL == baseURL {
		return c.token, baseURL, nil
	}

	token, err := c.authenticateLocked(ctx)
	return token, baseURL, err
}

// Request issues an authenticated GraphQL call. Provider-level errors are
// surfaced as *RequestError; no automatic retry.
func (c *NetCredClient) Request(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	token, baseURL, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, baseURL, token, graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &RequestError{Message: resp.Errors[0].Message}
	}
	return resp.Data, nil
}

func (c *NetCredClient) post(ctx context.Context, baseURL, token string, body graphQLRequest) (*graphQLResponse, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("netcred call failed: status=%d body=%s", httpResp.StatusCode, string(raw))
	}

	var out graphQLResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("netcred returned invalid JSON: %w", err)
	}
	return &out, nil
}

const createSubscriptionLinkMutation = `mutation CreateSubscriptionLink($input: SubscriptionLinkInput!) {
  createSubscriptionLink(input: $input) {
    url
  }
}`

// CreateSubscriptionLinkInput describes a payment link request. ExternalID is
// the encoded external reference the provider echoes back on webhooks.
type CreateSubscriptionLinkInput struct {
	ExternalID    string
	Amount        int64
	PlanID        string
	CustomerName  string
	CustomerEmail string
}

// CreateSubscriptionLink requests a hosted payment link from the provider.
func (c *NetCredClient) CreateSubscriptionLink(ctx context.Context, in CreateSubscriptionLinkInput) (string, error) {
	if strings.TrimSpace(in.ExternalID) == "" {
		return "", errors.New("externalId is required")
	}

	data, err := c.Request(ctx, createSubscriptionLinkMutation, map[string]any{
		"input": map[string]any{
			"externalId": in.ExternalID,
			"amount":     in.Amount,
			"planId":     in.PlanID,
			"name":       in.CustomerName,
			"email":      in.CustomerEmail,
		},
	})
	if err != nil {
		return "", err
	}

	var payload struct {
		CreateSubscriptionLink struct {
			URL string `json:"url"`
		} `json:"createSubscriptionLink"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("netcred link response was malformed: %w", err)
	}
	url := strings.TrimSpace(payload.CreateSubscriptionLink.URL)
	if url == "" {
		return "", errors.New("netcred link response carried no url")
	}
	return url, nil
}

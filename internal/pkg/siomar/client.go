package siomar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marsolucoes/lumia/internal/pkg/env"
)

// ErrNotFound signals the target project has no user with the given ID.
var ErrNotFound = errors.New("siomar: user not found")

// Client talks to the SIO_MAR project's auth-admin and table endpoints using
// a service-role key.
type Client struct {
	BaseURL    string
	ServiceKey string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(env.GetEnv("SIOMAR_URL", "")), "/"),
		ServiceKey: strings.TrimSpace(env.GetEnv("SIOMAR_SERVICE_KEY", "")),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// RemoteUser is the subset of the target project's user record we care about.
type RemoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// WorkspaceContext is the per-user context row upserted into the target
// project. One row per user; conflicts overwrite.
type WorkspaceContext struct {
	UserID         string `json:"user_id"`
	WorkspaceID    string `json:"workspace_id,omitempty"`
	WorkspaceName  string `json:"workspace_name,omitempty"`
	PlanLevel      string `json:"plan_level,omitempty"`
	SeatLimit      int    `json:"seat_limit,omitempty"`
	Role           string `json:"role,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}

// GetUser looks up a user in the target project by the shared UUID.
func (c *Client) GetUser(ctx context.Context, userID string) (*RemoteUser, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/admin/users/"+userID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("siomar user lookup failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out RemoteUser
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("siomar user lookup returned no id")
	}
	return &out, nil
}

// CreateUser provisions a user in the target project carrying the SAME id as
// the local profile. Cross-project identity continuity depends on the shared
// UUID never being remapped.
func (c *Client) CreateUser(ctx context.Context, user RemoteUser) error {
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/admin/users", user)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("siomar user creation failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// UpsertWorkspaceContext writes the workspace-context row keyed by user_id.
func (c *Client) UpsertWorkspaceContext(ctx context.Context, row WorkspaceContext) error {
	if strings.TrimSpace(row.UserID) == "" {
		return errors.New("user id is required")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/workspace_contexts", row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("siomar workspace context upsert failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("SIOMAR_URL is not configured")
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ServiceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
		req.Header.Set("apikey", c.ServiceKey)
	}
	return req, nil
}

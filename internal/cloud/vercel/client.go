package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	kerrors "github.com/Pamacea/shadow-secret/internal/errors"
)

const defaultBaseURL = "https://api.vercel.com"

// DefaultTargets are the Vercel environments a pushed variable applies to.
var DefaultTargets = []string{"production", "preview", "development"}

// Client talks to the Vercel REST API.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	token   string
}

// NewClient returns a client authenticated with the given API token.
func NewClient(token string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	return &Client{
		http:    rc,
		baseURL: defaultBaseURL,
		token:   token,
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// EnvVar is one environment variable as the API reports it.
type EnvVar struct {
	ID     string   `json:"id"`
	Key    string   `json:"key"`
	Type   string   `json:"type"`
	Target []string `json:"target"`
}

// ListEnvVars returns the project's environment variables. Values are not
// included; the API keeps encrypted values opaque on list.
func (c *Client) ListEnvVars(ctx context.Context, projectID string) ([]EnvVar, error) {
	url := fmt.Sprintf("%s/v9/projects/%s/env", c.baseURL, projectID)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list environment variables: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("list", resp.StatusCode, body)
	}

	var out struct {
		Envs []EnvVar `json:"envs"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode environment variable list: %w", err)
	}
	return out.Envs, nil
}

// UpsertEnvVar creates or updates one encrypted environment variable
// across the default targets.
func (c *Client) UpsertEnvVar(ctx context.Context, projectID, key, value string) error {
	url := fmt.Sprintf("%s/v10/projects/%s/env?upsert=true", c.baseURL, projectID)

	payload, err := json.Marshal(map[string]any{
		"key":    key,
		"value":  value,
		"type":   "encrypted",
		"target": DefaultTargets,
	})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push %s: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError("upsert "+key, resp.StatusCode, body)
	}
	return nil
}

func apiError(op string, status int, body []byte) error {
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("%w: %s: %s (HTTP %d)", kerrors.ErrPushFailed, op, msg, status)
}

// DetectProjectID reads the linked project ID from .vercel/project.json
// under root, the file `vercel link` writes.
func DetectProjectID(root string) (string, error) {
	path := filepath.Join(root, ".vercel", "project.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("no linked Vercel project (run `vercel link` first): %w", err)
	}

	projectID := gjson.GetBytes(data, "projectId").String()
	if projectID == "" {
		return "", fmt.Errorf("no projectId in %s", path)
	}
	return projectID, nil
}

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

const baseURL = "https://api.github.com"

// RepositoryCreator creates repositories for the authenticated user.
type RepositoryCreator interface {
	CreateRepository(ctx context.Context, name string, private bool) (*Repository, error)
}

// Repository is a created repository.
type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
}

// Client is a minimal GitHub REST client.
type Client struct {
	httpClient *http.Client
}

var _ RepositoryCreator = (*Client)(nil)

type createRepositoryRequest struct {
	Name    string `json:"name"`
	Private bool   `json:"private"`
}

type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// NewClient creates a client authenticated with a personal access token.
func NewClient(ctx context.Context, token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{httpClient: oauth2.NewClient(ctx, src)}
}

// CreateRepository creates a repository owned by the token's user.
func (c *Client) CreateRepository(ctx context.Context, name string, private bool) (*Repository, error) {
	body, err := json.Marshal(createRepositoryRequest{Name: name, Private: private})
	if err != nil {
		return nil, fmt.Errorf("encode repository: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/user/repos", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	var repo Repository
	if err := c.do(req, &repo); err != nil {
		return nil, fmt.Errorf("create repository %s: %w", name, err)
	}
	return &repo, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			msg := apiErr.Message
			for _, e := range apiErr.Errors {
				if e.Message != "" {
					msg += "; " + e.Message
				} else if e.Field != "" {
					msg += fmt.Sprintf("; %s %s", e.Field, e.Code)
				}
			}
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}
	return nil
}

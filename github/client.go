package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	apiTimeoutSec  = 15
)

// ErrNoCredential indicates a star was requested without an access token
var ErrNoCredential = errors.New("no github access token")

// ErrInvalidRepo indicates the repository name is not of the form owner/name
var ErrInvalidRepo = errors.New("invalid repository name")

// Client stars repositories on behalf of a user
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new GitHub API client. An empty baseURL uses api.github.com.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: apiTimeoutSec * time.Second,
		},
	}
}

// Star bookmarks fullName ("owner/repo") for the user owning accessToken
func (c *Client) Star(ctx context.Context, accessToken, fullName string) error {
	if accessToken == "" {
		return ErrNoCredential
	}
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidRepo, fullName)
	}

	url := fmt.Sprintf("%s/user/starred/%s/%s", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.ContentLength = 0

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("star %s: %w", fullName, err)
	}
	defer resp.Body.Close()

	log.Printf("Star request for %s returned %d in %v", fullName, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("star %s: API request failed with status %d: %s", fullName, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// StarAsync stars the repository in the background. The outcome is logged
// and, when done is not nil, reported to it. Nothing waits for it.
func (c *Client) StarAsync(accessToken, fullName string, done func(error)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered from panic in star goroutine: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), apiTimeoutSec*time.Second)
		defer cancel()

		err := c.Star(ctx, accessToken, fullName)
		if err != nil {
			log.Printf("Error starring %s: %v", fullName, err)
		} else {
			log.Printf("Starred %s", fullName)
		}
		if done != nil {
			done(err)
		}
	}()
}

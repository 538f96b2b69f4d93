package artifactory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Promotion is the payload of a stage-build request.
type Promotion struct {
	Status       string `json:"status"`
	Comment      string `json:"comment"`
	CiUser       string `json:"ciUser"`
	TargetRepo   string `json:"targetRepo"`
	Dependencies bool   `json:"dependencies"`
	Copy         bool   `json:"copy"`
	DryRun       bool   `json:"dryRun"`
}

// StageResponse is the raw outcome of a stage-build call. Interpretation of
// the body happens in the promote package.
type StageResponse struct {
	StatusCode int
	Status     string
	Body       []byte
}

type ClientConfig struct {
	BaseURL    string
	Username   string
	Password   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is an authenticated session against one Artifactory instance. One
// client is opened per promotion run and must be closed when the run ends.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("artifactory: base url required")
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		client:   client,
	}, nil
}

// StageBuild submits a promotion payload for the build identified by project
// name and build number. Non-2xx responses are returned to the caller, not
// turned into errors; only transport failures error out.
func (c *Client) StageBuild(ctx context.Context, project string, number int, p Promotion) (*StageResponse, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("artifactory: marshal promotion: %w", err)
	}
	endpoint := fmt.Sprintf("%s/api/build/promote/%s/%s",
		c.baseURL, url.PathEscape(project), strconv.Itoa(number))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("artifactory: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artifactory: stage build: %w", err)
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("artifactory: read response: %w", err)
	}
	return &StageResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       content,
	}, nil
}

// Close releases the session's idle connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
)

const (
	BaseURL       = "https://site.api.espn.com/apis/site/v2/sports"
	sportsAPIPath = "/apis/site/v2/sports"
	BasketballNBA = "basketball/nba"

	// SeasonTypePostseason is the scoreboard filter used by default.
	SeasonTypePostseason = 3

	requestTimeoutSeconds = "15"
)

// Client handles ESPN API requests
// Note: Uses curl internally because ESPN blocks Go's HTTP client fingerprint
type Client struct {
	baseURL string
	run     func(ctx context.Context, url string) ([]byte, error)
}

// New creates a new ESPN API client with a custom base URL. A bare host such
// as https://site.api.espn.com gets the site API path appended.
func New(baseURL string) *Client {
	baseURL = normalizeBaseURL(baseURL)
	log.Printf("[espn-client] New() called with baseURL: %s", baseURL)
	return &Client{
		baseURL: baseURL,
		run:     curlGet,
	}
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return BaseURL
	}
	u, err := url.Parse(baseURL)
	if err == nil && u.Host != "" && u.Path == "" {
		return baseURL + sportsAPIPath
	}
	return baseURL
}

// NewClient creates a new ESPN API client with default settings
func NewClient() *Client {
	return New(BaseURL)
}

// FetchScoreboard fetches the scoreboard for apiDate (YYYYMMDD). An empty
// apiDate asks ESPN for its own "today"; seasonType <= 0 omits the filter.
func (c *Client) FetchScoreboard(ctx context.Context, sportPath string, apiDate string, seasonType int) (map[string]interface{}, error) {
	data, err := c.fetch(ctx, c.scoreboardURL(sportPath, apiDate, seasonType))
	if err != nil {
		return nil, err
	}
	LogScoreboardDigest(data)
	return data, nil
}

// FetchGameSummary fetches detailed game summary with box scores
func (c *Client) FetchGameSummary(ctx context.Context, sportPath string, gameID string) (map[string]interface{}, error) {
	return c.fetch(ctx, c.summaryURL(sportPath, gameID))
}

func (c *Client) scoreboardURL(sportPath, apiDate string, seasonType int) string {
	params := url.Values{}
	if apiDate != "" {
		params.Set("dates", apiDate)
	}
	if seasonType > 0 {
		params.Set("seasontype", strconv.Itoa(seasonType))
	}

	u := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, sportPath)
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (c *Client) summaryURL(sportPath, gameID string) string {
	return fmt.Sprintf("%s/%s/summary?event=%s", c.baseURL, sportPath, url.QueryEscape(gameID))
}

// fetch downloads url and decodes the JSON object it returns.
func (c *Client) fetch(ctx context.Context, url string) (map[string]interface{}, error) {
	output, err := c.run(ctx, url)
	if err != nil {
		return nil, err
	}

	// Check if we got HTML error page (403, 404, etc.)
	if len(output) > 0 && output[0] == '<' {
		return nil, fmt.Errorf("ESPN returned HTML error page: %s", string(output[:min(len(output), 200)]))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w (body: %s)", err, string(output[:min(len(output), 200)]))
	}

	return result, nil
}

// curlGet makes an HTTP GET request using curl
// ESPN blocks Go's HTTP client but curl works reliably
func curlGet(ctx context.Context, url string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "curl", "-s", "-L", "-f", "-m", requestTimeoutSeconds, url)
	log.Printf("[espn-client] Running: curl -s -L -f -m %s %s", requestTimeoutSeconds, url)

	output, err := cmd.Output()
	if err != nil {
		log.Printf("[espn-client] curl failed: %v", err)
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("curl failed: %s (stderr: %s)", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("curl execution failed: %w", err)
	}
	return output, nil
}

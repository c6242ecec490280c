package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client is the OMDb API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new OMDb API client. Calls carry a short timeout and
// are never retried, so a slow provider bounds request latency instead of
// stalling it.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ---- OMDb Response Types (internal, not exposed to consumers) ----

// SearchResponse is the OMDb search (?s=) response.
type SearchResponse struct {
	Search   []SearchResult `json:"Search"`
	Response string         `json:"Response"`
	Error    string         `json:"Error"`
}

// SearchResult is one movie from OMDb search results.
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDBID string `json:"imdbID"`
	Poster string `json:"Poster"`
}

// MovieDetail is the full movie record from OMDb (?i=).
type MovieDetail struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDBRating string `json:"imdbRating"`
	Runtime    string `json:"Runtime"`
	IMDBID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// ---- Client Methods ----

// Search queries OMDb by title substring.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	u := fmt.Sprintf("%s/?s=%s&type=movie&apikey=%s",
		c.baseURL, url.QueryEscape(term), c.apiKey)

	slog.Debug("fetching OMDb search", "term", term)
	resp, err := c.doGet(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if result.Response != "True" {
		// OMDb reports "Movie not found!" as a soft error
		return nil, nil
	}
	return result.Search, nil
}

// GetMovieDetail fetches the full movie record by IMDb id.
func (c *Client) GetMovieDetail(ctx context.Context, imdbID string) (*MovieDetail, error) {
	u := fmt.Sprintf("%s/?i=%s&apikey=%s",
		c.baseURL, url.QueryEscape(imdbID), c.apiKey)

	slog.Debug("fetching OMDb movie detail", "imdb_id", imdbID)
	resp, err := c.doGet(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result MovieDetail
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode movie detail response: %w", err)
	}
	if result.Response != "True" {
		return nil, fmt.Errorf("OMDb: %s", result.Error)
	}
	return &result, nil
}

func (c *Client) doGet(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("OMDb API returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}

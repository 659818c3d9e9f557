package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Title holds the title variants AniList tracks for a media entry.
type Title struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// CoverImage holds cover art URIs.
type CoverImage struct {
	Large      string `json:"large"`
	ExtraLarge string `json:"extraLarge"`
}

// Tag is a ranked descriptive tag attached to a media entry.
type Tag struct {
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

// Media is the catalog metadata record for one AniList entry.
type Media struct {
	ID           int64      `json:"id"`
	Title        Title      `json:"title"`
	CoverImage   CoverImage `json:"coverImage"`
	Description  string     `json:"description"`
	Genres       []string   `json:"genres"`
	Tags         []Tag      `json:"tags"`
	AverageScore int        `json:"averageScore"`
	Popularity   int        `json:"popularity"`
	Episodes     int        `json:"episodes"`
	SeasonYear   int        `json:"seasonYear"`
}

// Resolver defines the single-entry lookup used by the scan pipeline.
type Resolver interface {
	Media(ctx context.Context, id int64) (*Media, error)
}

// Browser defines the page query used by recommendations.
type Browser interface {
	Browse(ctx context.Context, opts BrowseOptions) ([]Media, error)
}

// BrowseOptions contains parameters for a Page query.
type BrowseOptions struct {
	Genres  []string
	Page    int
	PerPage int
}

// Client provides access to the AniList GraphQL API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	_ Resolver = (*Client)(nil)
	_ Browser  = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an AniList client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("anilist base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

const mediaQuery = `
query ($id: Int) {
  Media(id: $id) {
    id
    title {
      romaji
      english
      native
    }
    coverImage {
      large
      extraLarge
    }
    description
    genres
    tags {
      name
      rank
    }
    averageScore
    popularity
    episodes
    seasonYear
  }
}`

const browseQuery = `
query ($genres: [String], $page: Int, $perPage: Int) {
  Page(page: $page, perPage: $perPage) {
    media(genre_in: $genres, type: ANIME, sort: POPULARITY_DESC) {
      id
      title {
        romaji
        english
        native
      }
      coverImage {
        large
        extraLarge
      }
      genres
      averageScore
    }
  }
}`

// Media fetches the metadata record for a single AniList identifier.
// An identifier the catalog does not know returns (nil, nil).
func (c *Client) Media(ctx context.Context, id int64) (*Media, error) {
	if id <= 0 {
		return nil, errors.New("media id must be positive")
	}

	var payload struct {
		Data struct {
			Media *Media `json:"Media"`
		} `json:"data"`
	}
	notFound, err := c.query(ctx, mediaQuery, map[string]any{"id": id}, &payload)
	if err != nil {
		return nil, err
	}
	if notFound || payload.Data.Media == nil {
		return nil, nil
	}
	return payload.Data.Media, nil
}

// Browse runs a Page query for popular titles matching the given genres.
func (c *Client) Browse(ctx context.Context, opts BrowseOptions) ([]Media, error) {
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 12
	}

	var payload struct {
		Data struct {
			Page struct {
				Media []Media `json:"media"`
			} `json:"Page"`
		} `json:"data"`
	}
	variables := map[string]any{
		"genres":  opts.Genres,
		"page":    page,
		"perPage": perPage,
	}
	notFound, err := c.query(ctx, browseQuery, variables, &payload)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}
	return payload.Data.Page.Media, nil
}

type graphqlError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// query posts a GraphQL request and decodes the data envelope into out.
// The boolean result reports whether the API answered "not found".
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) (bool, error) {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return false, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return false, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Errors []graphqlError `json:"errors"`
	}
	raw := new(bytes.Buffer)
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		return false, fmt.Errorf("read anilist response: %w", err)
	}
	if err := json.Unmarshal(raw.Bytes(), &envelope); err != nil {
		return false, fmt.Errorf("decode anilist response: %w", err)
	}

	for _, gqlErr := range envelope.Errors {
		if gqlErr.Status == http.StatusNotFound {
			return true, nil
		}
	}
	if len(envelope.Errors) > 0 {
		return false, fmt.Errorf("anilist query failed: %s", envelope.Errors[0].Message)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("anilist returned %d (latency=%v)", resp.StatusCode, latency)
	}

	if err := json.Unmarshal(raw.Bytes(), out); err != nil {
		return false, fmt.Errorf("decode anilist payload: %w", err)
	}
	return false, nil
}

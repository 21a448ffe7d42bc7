// Package catapi talks to TheCatAPI image search endpoint and returns
// validated, typed image records.
package catapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"catimporter/backend/internal/apperr"
)

const apiKeyHeader = "x-api-key"

// Breed is the subset of breed data the importer uses.
type Breed struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Temperament string `json:"temperament"`
}

// Image is one record of the image search response.
type Image struct {
	ID     string  `json:"id" validate:"required"`
	Width  int     `json:"width" validate:"gt=0"`
	Height int     `json:"height" validate:"gt=0"`
	URL    string  `json:"url" validate:"required,url"`
	Breeds []Breed `json:"breeds,omitempty"`
}

// Client fetches images from the upstream API.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	APIKey   string
	validate *validator.Validate
}

// NewClient returns a Client for baseURL. An empty apiKey sends no key
// header, which TheCatAPI serves with reduced limits.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		validate: validator.New(),
	}
}

// FetchImages requests count random images that carry breed data.
// Transport errors and non-2xx responses wrap apperr.ErrUpstreamFetch;
// undecodable or invalid payloads wrap apperr.ErrUpstreamParse.
func (c *Client) FetchImages(ctx context.Context, count int) ([]Image, error) {
	u, err := url.Parse(c.BaseURL + "/images/search")
	if err != nil {
		return nil, fmt.Errorf("%w: build url: %v", apperr.ErrUpstreamFetch, err)
	}
	q := u.Query()
	q.Set("size", "med")
	q.Set("mime_types", "jpg")
	q.Set("format", "json")
	q.Set("has_breeds", "true")
	q.Set("order", "RANDOM")
	q.Set("page", "0")
	q.Set("limit", strconv.Itoa(count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperr.ErrUpstreamFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request: %v", apperr.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", apperr.ErrUpstreamFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", apperr.ErrUpstreamFetch, resp.StatusCode, truncate(string(body), 200))
	}

	return c.Decode(body)
}

// Decode parses and validates an image search payload.
func (c *Client) Decode(body []byte) ([]Image, error) {
	var images []Image
	if err := json.Unmarshal(body, &images); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", apperr.ErrUpstreamParse, err)
	}

	for i := range images {
		if err := c.validate.Struct(&images[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", apperr.ErrUpstreamParse, i, err)
		}
	}

	return images, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

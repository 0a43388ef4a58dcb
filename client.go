package weblate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TranslationStats is one row of the component statistics export.
type TranslationStats struct {
	Code              string     `json:"code"`
	Name              string     `json:"name"`
	Total             int        `json:"total"`
	Translated        int        `json:"translated"`
	TranslatedPercent float64    `json:"translated_percent"`
	Fuzzy             int        `json:"fuzzy"`
	FuzzyPercent      float64    `json:"fuzzy_percent"`
	LastChange        *time.Time `json:"last_change"`
	LastAuthor        string     `json:"last_author"`
}

// Client talks to the JSON endpoints of a running server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", path, res.Status)
	}
	return body, nil
}

// Stats retrieves the statistics rows of a component.
func (c *Client) Stats(ctx context.Context, project, component string) ([]*TranslationStats, error) {
	body, err := c.get(ctx, fmt.Sprintf("/exports/stats/%s/%s",
		url.PathEscape(project), url.PathEscape(component)))
	if err != nil {
		return nil, err
	}

	var rows []*TranslationStats
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TriggerUpdate asks the server to update every component of a project, or
// a single component when component is not empty.
func (c *Client) TriggerUpdate(ctx context.Context, project, component string) error {
	path := "/hooks/update/" + url.PathEscape(project)
	if component != "" {
		path += "/" + url.PathEscape(component)
	}
	_, err := c.get(ctx, path)
	return err
}

// GetString retrieves the source text behind a unit checksum.
func (c *Client) GetString(ctx context.Context, checksum string) (string, error) {
	body, err := c.get(ctx, "/js/get/"+url.PathEscape(checksum))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

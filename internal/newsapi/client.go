package newsapi

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

	"github.com/iceymoss/sentinelpost/internal/core"
)

const defaultBaseURL = "https://api.newscatcherapi.com/v2/search"

// Client fetches raw article payloads from a newscatcher-style search API.
type Client struct {
	baseURL string
	apiKey  string
	lang    string
	page    int
	client  *http.Client
}

var _ core.NewsSource = (*Client)(nil)

func NewClient(baseURL, apiKey, lang string, page int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if lang == "" {
		lang = "en"
	}
	if page <= 0 {
		page = 1
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		lang:    lang,
		page:    page,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type searchResponse struct {
	Articles []core.RawArticle `json:"articles"`
}

// FetchNews queries the API for articles published yesterday or today that
// match every keyword (the upstream query syntax ANDs joined terms).
func (c *Client) FetchNews(ctx context.Context, keywords []string) ([]core.RawArticle, error) {
	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	params := url.Values{}
	params.Set("q", strings.Join(keywords, " AND "))
	params.Set("lang", c.lang)
	params.Set("from", yesterday)
	params.Set("to", today)
	params.Set("page", strconv.Itoa(c.page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("news API %d: %s", resp.StatusCode, string(b))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	return sr.Articles, nil
}

package sina

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/DeafMist/premarket-digest/internal/models"
)

// NewsClient fetches the rolling news list.
type NewsClient struct {
	http *http.Client
	url  string
}

func NewNewsClient(url string, timeout time.Duration) *NewsClient {
	return &NewsClient{http: newHTTPClient(timeout), url: url}
}

type rollResponse struct {
	Result struct {
		Data []models.NewsItem `json:"data"`
	} `json:"result"`
}

// FetchNews returns the feed items in the order the provider sent them.
func (c *NewsClient) FetchNews(ctx context.Context) ([]models.NewsItem, error) {
	body, _, err := get(ctx, c.http, c.url, http.Header{"Accept": []string{"application/json"}})
	if err != nil {
		return nil, err
	}

	var parsed rollResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: news payload: %v", ErrDecode, err)
	}
	return parsed.Result.Data, nil
}

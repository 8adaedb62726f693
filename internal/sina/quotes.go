package sina

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// QuoteClient fetches the delimited-text quote feed.
type QuoteClient struct {
	http    *http.Client
	baseURL string
	referer string
}

// NewQuoteClient expects baseURL to end right before the code list,
// e.g. "http://hq.sinajs.cn/list=".
func NewQuoteClient(baseURL, referer string, timeout time.Duration) *QuoteClient {
	return &QuoteClient{
		http:    newHTTPClient(timeout),
		baseURL: baseURL,
		referer: referer,
	}
}

// FetchQuotes returns the feed text for codes. Codes missing from the
// response are not an error here; the parser reports them as no data.
func (c *QuoteClient) FetchQuotes(ctx context.Context, codes []string) (string, error) {
	header := http.Header{}
	if c.referer != "" {
		header.Set("Referer", c.referer)
	}

	body, contentType, err := get(ctx, c.http, c.baseURL+strings.Join(codes, ","), header)
	if err != nil {
		return "", err
	}
	return decodeText(body, contentType), nil
}

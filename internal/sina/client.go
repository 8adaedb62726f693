package sina

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

var (
	// ErrTransport wraps network failures, timeouts and non-200 responses.
	ErrTransport = errors.New("transport failure")
	// ErrDecode wraps bodies that could not be decoded.
	ErrDecode = errors.New("decode failure")
)

const maxBody = 4 << 20

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func get(ctx context.Context, client *http.Client, url string, header http.Header) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: get %s: %v", ErrTransport, req.URL.Host, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: get %s: %s", ErrTransport, req.URL.Host, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return body, res.Header.Get("Content-Type"), nil
}

// decodeText converts a GB-encoded body to UTF-8. Bodies declared as some
// other charset, or already valid UTF-8 without a declaration, pass through.
func decodeText(body []byte, contentType string) string {
	charset := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		charset = strings.ToLower(params["charset"])
	}

	gb := charset == "gbk" || charset == "gb2312" || charset == "gb18030"
	if !gb && (charset != "" || utf8.Valid(body)) {
		return string(body)
	}

	out, err := simplifiedchinese.GB18030.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}

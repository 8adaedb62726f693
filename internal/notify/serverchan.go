package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DeafMist/premarket-digest/internal/models"
)

// ErrNoRecipients is returned when delivery is disabled by an empty key list.
var ErrNoRecipients = errors.New("no recipient keys configured")

// ServerChan posts digests to the ServerChan push relay, once per key.
type ServerChan struct {
	http    *http.Client
	baseURL string
	keys    []string
	log     *slog.Logger
}

func NewServerChan(baseURL string, keys []string, timeout time.Duration, logger *slog.Logger) *ServerChan {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ServerChan{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		keys:    keys,
		log:     logger,
	}
}

func (s *ServerChan) Name() string { return "serverchan" }

// Notify attempts every key exactly once. A failed key is logged and does
// not stop the remaining ones; failures come back joined.
func (s *ServerChan) Notify(ctx context.Context, d models.Digest) error {
	if len(s.keys) == 0 {
		s.log.Warn("push delivery disabled, SERVERCHAN_KEY is empty")
		return ErrNoRecipients
	}

	var errs []error
	for _, key := range s.keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if err := s.send(ctx, key, d); err != nil {
			s.log.Warn("push failed", slog.String("recipient", MaskKey(key)), slog.Any("err", err))
			errs = append(errs, fmt.Errorf("recipient %s: %w", MaskKey(key), err))
			continue
		}
		s.log.Info("push delivered", slog.String("recipient", MaskKey(key)))
	}
	return errors.Join(errs...)
}

type relayResponse struct {
	Code    *int   `json:"code"`
	Message string `json:"message"`
}

func (s *ServerChan) send(ctx context.Context, key string, d models.Digest) error {
	form := url.Values{}
	form.Set("title", d.Title)
	form.Set("desp", d.Body)

	endpoint := s.baseURL + "/" + url.PathEscape(key) + ".send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.http.Do(req)
	if err != nil {
		// The URL embeds the key; keep it out of logs.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("post: %w", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("relay status %s: %s", res.Status, strings.TrimSpace(string(body)))
	}

	var parsed relayResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Code != nil && *parsed.Code != 0 {
		return fmt.Errorf("relay code %d: %s", *parsed.Code, parsed.Message)
	}
	return nil
}

// MaskKey keeps only the last four characters of a recipient key.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return "..."
	}
	return "..." + key[len(key)-4:]
}

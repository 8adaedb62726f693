package digest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/DeafMist/premarket-digest/internal/models"
	"github.com/DeafMist/premarket-digest/internal/news"
	"github.com/DeafMist/premarket-digest/internal/quotes"
)

// QuoteSource returns the raw quote feed text for the given codes.
type QuoteSource interface {
	FetchQuotes(ctx context.Context, codes []string) (string, error)
}

// NewsSource returns the rolling headlines, most recent first.
type NewsSource interface {
	FetchNews(ctx context.Context) ([]models.NewsItem, error)
}

// Notifier delivers a finished digest.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, d models.Digest) error
}

// Service runs one digest job: fetch quotes, build, fetch news, assemble.
type Service struct {
	quotes    QuoteSource
	news      NewsSource
	builder   *quotes.Builder
	keywords  []string
	maxNews   int
	notifiers []Notifier
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*Service)

func WithNotifiers(n ...Notifier) Option {
	return func(s *Service) { s.notifiers = append(s.notifiers, n...) }
}

func WithNewsFilter(keywords []string, limit int) Option {
	return func(s *Service) {
		s.keywords = keywords
		s.maxNews = limit
	}
}

// WithClock overrides the wall clock used for the timestamp line.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(q QuoteSource, n NewsSource, b *quotes.Builder, opts ...Option) *Service {
	s := &Service{
		quotes:   q,
		news:     n,
		builder:  b,
		keywords: news.DefaultKeywords,
		maxNews:  5,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Build produces the digest. Transport failures never abort it; they show
// up as placeholder lines in the body.
func (s *Service) Build(ctx context.Context) models.Digest {
	now := s.now()

	var d models.Digest
	feed, err := s.quotes.FetchQuotes(ctx, s.builder.Codes())
	if err != nil {
		s.log.Warn("fetch quotes failed", slog.Any("err", err))
		d = s.builder.Unavailable(err, now)
	} else {
		results := s.builder.Results(feed)
		d = s.builder.Render(results, now)
		for _, r := range results {
			if r.Status != models.QuoteOK {
				s.log.Debug("quote not rendered",
					slog.String("instrument", r.Instrument.Name),
					slog.String("status", r.Status.String()),
					slog.Any("err", r.Err),
				)
			}
		}
	}

	var lines []string
	items, err := s.news.FetchNews(ctx)
	if err != nil {
		s.log.Warn("fetch news failed", slog.Any("err", err))
		lines = news.Unavailable(err)
	} else {
		lines = news.Render(news.Select(items, s.keywords, s.maxNews))
	}

	d.Body = Assemble(d.Body, lines)
	return d
}

// Deliver hands d to every notifier in order. A failing notifier does not
// stop the rest; all failures are returned joined.
func (s *Service) Deliver(ctx context.Context, d models.Digest) error {
	if len(s.notifiers) == 0 {
		s.log.Warn("no notifiers configured, digest not delivered")
		return nil
	}

	var errs []error
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, d); err != nil {
			s.log.Warn("notifier failed", slog.String("notifier", n.Name()), slog.Any("err", err))
			errs = append(errs, err)
			continue
		}
		s.log.Debug("notifier done", slog.String("notifier", n.Name()))
	}
	return errors.Join(errs...)
}

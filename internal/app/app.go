package app

import (
	"log/slog"

	"github.com/DeafMist/premarket-digest/internal/config"
	"github.com/DeafMist/premarket-digest/internal/digest"
	"github.com/DeafMist/premarket-digest/internal/notify"
	"github.com/DeafMist/premarket-digest/internal/quotes"
	"github.com/DeafMist/premarket-digest/internal/sina"
)

// NewService wires the Sina transports, the builder and the configured
// notifiers. The returned func releases notifier resources.
func NewService(cfg *config.Digest, log *slog.Logger) (*digest.Service, func() error) {
	builder := quotes.NewBuilder(
		cfg.Instruments,
		quotes.Headline{Index: cfg.HeadlineIndex, FX: cfg.HeadlineFX},
		cfg.Location,
	)

	notifiers := []digest.Notifier{
		notify.NewServerChan(cfg.ServerChanURL, cfg.ServerChanKeys, cfg.HTTPTimeout, log),
	}
	closeFn := func() error { return nil }
	if cfg.KafkaEnabled() {
		k := notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		notifiers = append(notifiers, k)
		closeFn = k.Close
	}

	svc := digest.NewService(
		sina.NewQuoteClient(cfg.QuoteURL, cfg.QuoteReferer, cfg.HTTPTimeout),
		sina.NewNewsClient(cfg.NewsURL, cfg.HTTPTimeout),
		builder,
		digest.WithNewsFilter(cfg.NewsKeywords, cfg.NewsMaxItems),
		digest.WithNotifiers(notifiers...),
		digest.WithLogger(log),
	)
	return svc, closeFn
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/DeafMist/premarket-digest/internal/models"
	"github.com/DeafMist/premarket-digest/internal/news"
)

// DefaultInstruments is the digest line-up, in output order.
var DefaultInstruments = []models.InstrumentSpec{
	{Name: "Nasdaq", Code: "gb_ixic", Category: models.CategoryUSIndex},
	{Name: "S&P 500", Code: "gb_inx", Category: models.CategoryUSIndex},
	{Name: "Hang Seng", Code: "rt_hkHSI", Category: models.CategoryHKIndex},
	{Name: "USD/CNY", Code: "fx_susdcny", Category: models.CategoryFX},
	{Name: "Gold Futures", Code: "hf_GC", Category: models.CategoryFuture},
	{Name: "Silver Futures", Code: "hf_SI", Category: models.CategoryFuture},
	{Name: "Copper Futures", Code: "hf_HG", Category: models.CategoryFuture},
}

const (
	DefaultHeadlineIndex = "Nasdaq"
	DefaultHeadlineFX    = "USD/CNY"
)

// Digest contains the parameters shared by every binary that builds a digest.
type Digest struct {
	Instruments    []models.InstrumentSpec
	HeadlineIndex  string
	HeadlineFX     string
	QuoteURL       string
	QuoteReferer   string
	NewsURL        string
	NewsKeywords   []string
	NewsMaxItems   int
	HTTPTimeout    time.Duration
	Location       *time.Location
	ServerChanURL  string
	ServerChanKeys []string
	KafkaBrokers   []string
	KafkaTopic     string
}

// Scheduler configures the periodic runner.
type Scheduler struct {
	Digest
	Interval time.Duration
}

// API describes HTTP-layer configuration.
type API struct {
	Digest
	BindAddr string
	CacheTTL time.Duration
}

// KafkaEnabled reports whether digests should also be published to Kafka.
func (c *Digest) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// LoadDigest builds a Digest config from environment variables.
func LoadDigest() (*Digest, error) {
	c := &Digest{
		Instruments:    DefaultInstruments,
		HeadlineIndex:  DefaultHeadlineIndex,
		HeadlineFX:     DefaultHeadlineFX,
		QuoteURL:       getEnv("QUOTE_URL", "http://hq.sinajs.cn/list="),
		QuoteReferer:   getEnv("QUOTE_REFERER", "https://finance.sina.com.cn/"),
		NewsURL:        getEnv("NEWS_URL", "https://feed.mix.sina.com.cn/api/roll/get?pageid=155&lid=2516&num=30&page=1&callback="),
		NewsKeywords:   splitAndTrim(os.Getenv("NEWS_KEYWORDS")),
		NewsMaxItems:   getInt("NEWS_MAX_ITEMS", 5),
		HTTPTimeout:    getDuration("HTTP_TIMEOUT", "5s"),
		ServerChanURL:  getEnv("SERVERCHAN_URL", "https://sctapi.ftqq.com"),
		ServerChanKeys: splitAndTrim(os.Getenv("SERVERCHAN_KEY")),
		KafkaBrokers:   splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "digests"),
	}

	if len(c.NewsKeywords) == 0 {
		c.NewsKeywords = news.DefaultKeywords
	}

	zone := getEnv("DIGEST_TIMEZONE", "Asia/Shanghai")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("DIGEST_TIMEZONE %q: %w", zone, err)
	}
	c.Location = loc

	if c.NewsMaxItems <= 0 {
		return nil, fmt.Errorf("NEWS_MAX_ITEMS must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	return c, nil
}

// LoadScheduler builds a Scheduler config from environment variables.
func LoadScheduler() (*Scheduler, error) {
	d, err := LoadDigest()
	if err != nil {
		return nil, err
	}
	c := &Scheduler{
		Digest:   *d,
		Interval: getDuration("DIGEST_INTERVAL", "24h"),
	}

	if c.Interval <= 0 {
		return nil, fmt.Errorf("DIGEST_INTERVAL must be positive")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	d, err := LoadDigest()
	if err != nil {
		return nil, err
	}
	c := &API{
		Digest:   *d,
		BindAddr: getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		CacheTTL: getDuration("API_CACHE_TTL", "5m"),
	}

	if c.CacheTTL <= 0 {
		return nil, fmt.Errorf("API_CACHE_TTL must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

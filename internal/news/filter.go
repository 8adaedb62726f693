package news

import (
	"strings"

	"github.com/DeafMist/premarket-digest/internal/models"
)

// DefaultKeywords select policy and macro headlines from the rolling feed.
var DefaultKeywords = []string{
	"政策", "央行", "美联储", "加息", "降息", "利率",
	"关税", "制裁", "减税", "财政刺激", "货币政策",
	"通胀", "通缩", "就业", "失业", "贸易协定", "贸易战",
	"经济数据", "GDP", "PMI",
}

// Select returns at most limit items. The keyword pass keeps items whose title
// contains any keyword (case-sensitive substring). If it keeps nothing, the
// first limit items with a non-empty title are returned instead.
func Select(items []models.NewsItem, keywords []string, limit int) []models.NewsItem {
	if limit <= 0 {
		return nil
	}

	matched := make([]models.NewsItem, 0, limit)
	for _, item := range items {
		item = normalize(item)
		if item.Title == "" {
			continue
		}
		if containsAny(item.Title, keywords) {
			matched = append(matched, item)
		}
		if len(matched) >= limit {
			break
		}
	}
	if len(matched) > 0 {
		return matched
	}

	latest := make([]models.NewsItem, 0, limit)
	for _, item := range items {
		item = normalize(item)
		if item.Title == "" {
			continue
		}
		latest = append(latest, item)
		if len(latest) >= limit {
			break
		}
	}
	return latest
}

// Render formats items as bullet lines, with the URL indented underneath
// when present.
func Render(items []models.NewsItem) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, RenderItem(item))
	}
	return lines
}

// RenderItem formats a single headline.
func RenderItem(item models.NewsItem) string {
	if item.URL == "" {
		return "• " + item.Title
	}
	return "• " + item.Title + "\n  " + item.URL
}

// Unavailable is the single placeholder line used when the feed fails.
func Unavailable(err error) []string {
	return []string{"⚪ news feed unavailable: " + err.Error()}
}

func normalize(item models.NewsItem) models.NewsItem {
	return models.NewsItem{
		Title: strings.TrimSpace(item.Title),
		URL:   strings.TrimSpace(item.URL),
	}
}

func containsAny(title string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(title, k) {
			return true
		}
	}
	return false
}

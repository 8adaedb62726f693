package models

// NewsItem is one headline from the rolling news feed. Items with an empty
// title are skipped by the filter.
type NewsItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

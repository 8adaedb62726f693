package digest

import "strings"

// NewsHeader introduces the news section of the body.
const NewsHeader = "📰 Policy / macro headlines"

// Assemble appends the news section to the quote body. An empty news
// section leaves the body untouched.
func Assemble(quoteBody string, newsLines []string) string {
	if len(newsLines) == 0 {
		return quoteBody
	}
	return quoteBody + "\n\n" + NewsHeader + "\n\n" + strings.Join(newsLines, "\n\n")
}

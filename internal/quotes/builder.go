package quotes

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/DeafMist/premarket-digest/internal/models"
)

const (
	IconUp   = "🔴"
	IconDown = "🟢"
	IconFlat = "⚪"

	TitlePrefix     = "Pre-market: "
	timestampLayout = "01-02 15:04"
)

// Headline names the two instruments promoted into the digest title.
type Headline struct {
	Index string
	FX    string
}

// Builder renders the quote part of a digest for a fixed instrument list.
type Builder struct {
	instruments []models.InstrumentSpec
	headline    Headline
	loc         *time.Location
	printer     *message.Printer
}

// NewBuilder keeps instruments in the given order. A nil loc means UTC.
func NewBuilder(instruments []models.InstrumentSpec, headline Headline, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{
		instruments: instruments,
		headline:    headline,
		loc:         loc,
		printer:     message.NewPrinter(language.English),
	}
}

// Codes returns the feed codes to request, in configuration order.
func (b *Builder) Codes() []string {
	codes := make([]string, 0, len(b.instruments))
	for _, in := range b.instruments {
		codes = append(codes, in.Code)
	}
	return codes
}

// Results parses feed once per configured instrument.
func (b *Builder) Results(feed string) []models.QuoteLineResult {
	out := make([]models.QuoteLineResult, 0, len(b.instruments))
	for _, in := range b.instruments {
		out = append(out, Parse(feed, in))
	}
	return out
}

// Build parses feed and renders the title and body of the quote digest.
func (b *Builder) Build(feed string, now time.Time) models.Digest {
	return b.Render(b.Results(feed), now)
}

// Render turns already parsed results into the quote digest. The headline
// index and fx pair are promoted into the title in that order.
func (b *Builder) Render(results []models.QuoteLineResult, now time.Time) models.Digest {
	lines := make([]string, 0, len(results))
	var indexPart, fxPart string
	for _, r := range results {
		lines = append(lines, b.RenderLine(r))
		if r.Status != models.QuoteOK {
			continue
		}
		name := r.Instrument.Name
		if name == b.headline.Index {
			_, sign := IconAndSign(r.Quote.ChangePercent)
			indexPart = fmt.Sprintf("%s %s%s%%", name, sign, r.Quote.ChangePercent.StringFixed(2))
		}
		if name == b.headline.FX {
			fxPart = fmt.Sprintf("%s %s", name, r.Quote.Price.StringFixed(2))
		}
	}

	parts := make([]string, 0, 2)
	for _, p := range []string{indexPart, fxPart} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return models.Digest{
		Title: TitlePrefix + strings.Join(parts, " | "),
		Body:  b.timestampLine(now) + "\n\n" + strings.Join(lines, "\n\n"),
	}
}

// Unavailable is the digest produced when the quote feed could not be fetched.
func (b *Builder) Unavailable(err error, now time.Time) models.Digest {
	return models.Digest{
		Title: TitlePrefix + "quotes unavailable",
		Body:  fmt.Sprintf("%s\n\n%s quote feed unavailable: %v", b.timestampLine(now), IconFlat, err),
	}
}

// RenderLine formats one instrument result as a markdown list line.
func (b *Builder) RenderLine(r models.QuoteLineResult) string {
	name := r.Instrument.Name
	switch r.Status {
	case models.QuoteParseError:
		return fmt.Sprintf("%s **%s**: parse error", IconFlat, name)
	case models.QuoteNoData:
		return fmt.Sprintf("%s **%s**: no data", IconFlat, name)
	}

	q := r.Quote
	icon, sign := IconAndSign(q.ChangePercent)
	if r.Instrument.Category == models.CategoryFX {
		return fmt.Sprintf("%s **%s**: %s", icon, name, q.Price.StringFixed(4))
	}
	return fmt.Sprintf("%s **%s**: %s (%s%s%%)", icon, name, b.groupPrice(q.Price), sign, q.ChangePercent.StringFixed(2))
}

// IconAndSign maps the sign of a percent change to its icon and the prefix
// printed before the number. Negative numbers carry their own minus.
func IconAndSign(change decimal.Decimal) (icon, sign string) {
	switch change.Sign() {
	case 1:
		return IconUp, "+"
	case -1:
		return IconDown, ""
	default:
		return IconFlat, ""
	}
}

func (b *Builder) groupPrice(price decimal.Decimal) string {
	return b.printer.Sprintf("%.2f", price.Round(2).InexactFloat64())
}

func (b *Builder) timestampLine(now time.Time) string {
	return "📅 " + now.In(b.loc).Format(timestampLayout)
}

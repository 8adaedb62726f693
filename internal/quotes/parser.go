package quotes

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DeafMist/premarket-digest/internal/models"
)

var (
	// ErrNoData marks an instrument whose code has no record in the feed.
	ErrNoData = errors.New("no data")
	// ErrParse marks a record with a missing or non-numeric field.
	ErrParse = errors.New("parse error")
)

type changeRule int

const (
	// changeFromField reads the percent change straight from the record.
	changeFromField changeRule = iota
	// changeFromPrevClose derives it from the previous close at ref.
	changeFromPrevClose
	// changeSuppressed always reports zero.
	changeSuppressed
)

// layout describes where a category keeps its price and change.
type layout struct {
	price int
	rule  changeRule
	ref   int
}

var layouts = map[models.Category]layout{
	models.CategoryUSIndex: {price: 1, rule: changeFromField, ref: 2},
	models.CategoryHKIndex: {price: 6, rule: changeFromField, ref: 8},
	models.CategoryFuture:  {price: 0, rule: changeFromPrevClose, ref: 7},
	models.CategoryFX:      {price: 1, rule: changeSuppressed},
}

var hundred = decimal.NewFromInt(100)

// LookupRecord returns the quoted value of the `var hq_str_<code>="...";`
// statement in feed. The second result is false when the code is absent.
func LookupRecord(feed, code string) (string, bool) {
	re := regexp.MustCompile(`var hq_str_` + regexp.QuoteMeta(code) + `="(.*?)";`)
	m := re.FindStringSubmatch(feed)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse locates the record for spec in feed and extracts its quote.
// It never panics: absent records yield QuoteNoData and malformed ones QuoteParseError.
func Parse(feed string, spec models.InstrumentSpec) models.QuoteLineResult {
	res := models.QuoteLineResult{Instrument: spec}

	raw, ok := LookupRecord(feed, spec.Code)
	if !ok {
		res.Status = models.QuoteNoData
		res.Err = fmt.Errorf("%w: %s", ErrNoData, spec.Code)
		return res
	}

	q, err := ParseRecord(raw, spec.Category)
	if err != nil {
		res.Status = models.QuoteParseError
		res.Err = fmt.Errorf("%s: %w", spec.Code, err)
		return res
	}

	res.Status = models.QuoteOK
	res.Quote = q
	return res
}

// ParseRecord splits one comma-separated record and reads it according to
// the category's field layout.
func ParseRecord(raw string, category models.Category) (models.ParsedQuote, error) {
	l, ok := layouts[category]
	if !ok {
		return models.ParsedQuote{}, fmt.Errorf("%w: unknown category %q", ErrParse, category)
	}

	fields := strings.Split(raw, ",")
	price, err := field(fields, l.price)
	if err != nil {
		return models.ParsedQuote{}, err
	}

	change := decimal.Zero
	switch l.rule {
	case changeFromField:
		change, err = field(fields, l.ref)
		if err != nil {
			return models.ParsedQuote{}, err
		}
	case changeFromPrevClose:
		prev, err := field(fields, l.ref)
		if err != nil {
			return models.ParsedQuote{}, err
		}
		if prev.IsPositive() {
			change = price.Sub(prev).Mul(hundred).Div(prev)
		}
	}

	return models.ParsedQuote{Price: price, ChangePercent: change}, nil
}

func field(fields []string, i int) (decimal.Decimal, error) {
	if i >= len(fields) {
		return decimal.Zero, fmt.Errorf("%w: field %d missing, record has %d", ErrParse, i, len(fields))
	}
	d, err := decimal.NewFromString(strings.TrimSpace(fields[i]))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: field %d %q: %v", ErrParse, i, fields[i], err)
	}
	return d, nil
}

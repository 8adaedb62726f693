package models

import "github.com/shopspring/decimal"

// Category selects the field layout of a raw quote record.
type Category string

const (
	CategoryUSIndex Category = "us"
	CategoryHKIndex Category = "hk"
	CategoryFX      Category = "fx"
	CategoryFuture  Category = "future"
)

// InstrumentSpec describes one configured instrument. Display names and feed
// codes are unique within a configuration; output follows configuration order.
type InstrumentSpec struct {
	Name     string
	Code     string
	Category Category
}

// ParsedQuote is the price/change pair extracted from one raw record.
// ChangePercent is zero for fx instruments.
type ParsedQuote struct {
	Price         decimal.Decimal
	ChangePercent decimal.Decimal
}

// QuoteStatus tags the outcome of parsing one instrument.
type QuoteStatus int

const (
	QuoteOK QuoteStatus = iota
	QuoteParseError
	QuoteNoData
)

func (s QuoteStatus) String() string {
	switch s {
	case QuoteOK:
		return "ok"
	case QuoteParseError:
		return "parse_error"
	case QuoteNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// QuoteLineResult is produced once per configured instrument per build.
// Quote is only meaningful when Status is QuoteOK; Err carries the cause otherwise.
type QuoteLineResult struct {
	Instrument InstrumentSpec
	Status     QuoteStatus
	Quote      ParsedQuote
	Err        error
}

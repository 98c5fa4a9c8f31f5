// Package priceimport maps raw text columns onto commodity prices.
//
// It is the parsing half of a price importer: free-form date, amount and
// commodity cells are interpreted under a user-chosen date format and number
// grammar, collected into an ImportPrice, and finally turned into a PriceDB
// entry.
package priceimport

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/stockassist"
)

// Date formats an importer can be configured with. The no-year formats take
// the current year and reject inputs that carry one.
const (
	DateFormatYMD = iota // y-m-d
	DateFormatDMY        // d-m-y
	DateFormatMDY        // m-d-y
	DateFormatDM         // d-m, current year
	DateFormatMD         // m-d, current year
	numDateFormats
)

// DateFormats returns the user-facing labels of the supported date formats,
// indexed by format constant.
func DateFormats() []string {
	return []string{"y-m-d", "d-m-y", "m-d-y", "d-m", "m-d"}
}

// Number grammars for amount cells. The native grammar reads a period as the
// decimal mark, like the period-decimal grammar, and exists so a caller can
// say "whatever my data uses" without picking.
const (
	NumFormatNative = iota // period decimal mark
	NumFormatPeriod        // period decimal mark, comma thousands
	NumFormatComma         // comma decimal mark, period thousands
	numNumFormats
)

var (
	dateSeparated = regexp.MustCompile(`^(\d+)[-/.' ]+(\d+)(?:[-/.' ]+(\d+))?$`)
	dateCompact   = regexp.MustCompile(`^\d+$`)

	currencySymbols = regexp.MustCompile(`[\p{Sc}+\s]`)
	anyDigit        = regexp.MustCompile(`[0-9]`)
)

// ParseDate interprets a date cell under one of the supported formats.
// Fields may be separated by dashes, slashes, periods, apostrophes or
// spaces, or run together as plain digits (the year four digits wide, the
// other fields two). Two-digit years pivot at 69: 68 reads as 2068, 69 as
// 1969.
func ParseDate(value string, format int) (stockassist.Date, error) {
	if format < 0 || format >= numDateFormats {
		return stockassist.Date{}, fmt.Errorf("unknown date format %d", format)
	}
	value = strings.TrimSpace(value)

	fields, err := splitDate(value, format)
	if err != nil {
		return stockassist.Date{}, err
	}

	var y, m, d int
	switch format {
	case DateFormatYMD:
		y, m, d = fields[0], fields[1], fields[2]
	case DateFormatDMY:
		d, m, y = fields[0], fields[1], fields[2]
	case DateFormatMDY:
		m, d, y = fields[0], fields[1], fields[2]
	case DateFormatDM:
		d, m = fields[0], fields[1]
		y = time.Now().Year()
	case DateFormatMD:
		m, d = fields[0], fields[1]
		y = time.Now().Year()
	}
	if format <= DateFormatMDY {
		y = pivotYear(y)
	}

	date := stockassist.NewDate(y, time.Month(m), d)
	if date.Year() != y || date.Month() != time.Month(m) || date.Day() != d {
		return stockassist.Date{}, fmt.Errorf("%q is not a valid calendar date", value)
	}
	return date, nil
}

// splitDate extracts the numeric date fields, in the order they appear.
func splitDate(value string, format int) ([]int, error) {
	want := 3
	if format == DateFormatDM || format == DateFormatMD {
		want = 2
	}

	if m := dateSeparated.FindStringSubmatch(value); m != nil {
		parts := m[1:]
		if m[3] == "" {
			parts = parts[:2]
		}
		if len(parts) != want {
			if want == 2 {
				return nil, fmt.Errorf("date %q carries a year, but the format has none", value)
			}
			return nil, fmt.Errorf("date %q is missing a year", value)
		}
		fields := make([]int, len(parts))
		for i, p := range parts {
			fmt.Sscanf(p, "%d", &fields[i])
		}
		return fields, nil
	}

	if dateCompact.MatchString(value) {
		return splitCompactDate(value, format, want)
	}
	return nil, fmt.Errorf("cannot parse %q as a date", value)
}

// splitCompactDate handles digit runs without separators: the year takes four
// digits, day and month two each.
func splitCompactDate(value string, format int, want int) ([]int, error) {
	var widths []int
	switch {
	case want == 2:
		widths = []int{2, 2}
	case format == DateFormatYMD:
		widths = []int{4, 2, 2}
	default:
		widths = []int{2, 2, 4}
	}
	total := 0
	for _, w := range widths {
		total += w
	}
	if len(value) != total {
		return nil, fmt.Errorf("cannot parse %q as a date", value)
	}
	fields := make([]int, len(widths))
	for i, w := range widths {
		fmt.Sscanf(value[:w], "%d", &fields[i])
		value = value[w:]
	}
	return fields, nil
}

// pivotYear expands two-digit years.
func pivotYear(y int) int {
	switch {
	case y >= 100:
		return y
	case y < 69:
		return y + 2000
	default:
		return y + 1900
	}
}

// ParseAmount interprets a numeric cell under one of the number grammars.
// Currency symbols, spaces and leading plus signs are ignored.
func ParseAmount(value string, format int) (decimal.Decimal, error) {
	if format < 0 || format >= numNumFormats {
		return decimal.Decimal{}, fmt.Errorf("unknown number format %d", format)
	}
	cleaned := currencySymbols.ReplaceAllString(value, "")
	if !anyDigit.MatchString(cleaned) {
		return decimal.Decimal{}, fmt.Errorf("%q has no digits", value)
	}

	switch format {
	case NumFormatComma:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	default:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse %q as a number", value)
	}
	return d, nil
}

// ParseCommodity resolves a commodity cell against the table. A value of the
// form "NAMESPACE::MNEMONIC" resolves directly; a bare mnemonic is looked up
// first among currencies, then in the other namespaces in registration
// order.
func ParseCommodity(table *stockassist.CommodityTable, value string) (*stockassist.Commodity, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("empty commodity")
	}
	if strings.Contains(value, "::") {
		if c := table.LookupUnique(value); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("unknown commodity %q", value)
	}
	if c := table.Lookup(stockassist.CurrencyNamespace, value); c != nil {
		return c, nil
	}
	for _, ns := range table.Namespaces() {
		if ns == stockassist.CurrencyNamespace {
			continue
		}
		if c := table.Lookup(ns, value); c != nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown commodity %q", value)
}

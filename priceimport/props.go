package priceimport

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etnz/stockassist"
)

// PropType identifies the meaning assigned to an imported column.
type PropType int

const (
	PropTypeNone PropType = iota
	PropTypeDate
	PropTypeAmount
	PropTypeFromSymbol
	PropTypeFromNamespace
	PropTypeToCurrency
)

// String returns the user-facing column label.
func (p PropType) String() string {
	switch p {
	case PropTypeDate:
		return "Date"
	case PropTypeAmount:
		return "Amount"
	case PropTypeFromSymbol:
		return "From Symbol"
	case PropTypeFromNamespace:
		return "From Namespace"
	case PropTypeToCurrency:
		return "Currency To"
	default:
		return "None"
	}
}

// Result tells what CreatePrice did with the assembled price.
type Result int

const (
	ResultFailed Result = iota
	ResultAdded
	ResultDuplicated
	ResultReplaced
)

func (r Result) String() string {
	switch r {
	case ResultAdded:
		return "added"
	case ResultDuplicated:
		return "duplicated"
	case ResultReplaced:
		return "replaced"
	default:
		return "failed"
	}
}

// ImportPrice assembles one price out of raw column values. Each Set call
// parses one cell; parse failures are kept per column so a row can report
// all of its problems at once, and a later successful Set on the same column
// clears the failure.
type ImportPrice struct {
	commodities *stockassist.CommodityTable

	dateFormat int
	numFormat  int

	date          *stockassist.Date
	amount        *decimal.Decimal
	fromNamespace string
	fromCommodity *stockassist.Commodity
	toCurrency    *stockassist.Commodity

	errs map[PropType]error
}

// NewImportPrice creates an empty price bound to a commodity table. Date and
// amount cells will be interpreted under the given formats.
func NewImportPrice(commodities *stockassist.CommodityTable, dateFormat, numFormat int) *ImportPrice {
	return &ImportPrice{
		commodities: commodities,
		dateFormat:  dateFormat,
		numFormat:   numFormat,
		errs:        make(map[PropType]error),
	}
}

// Set parses one cell as the given column type and reports the failure. An
// unassigned column type is ignored. A failed parse clears the column, so a
// bad cell leaves the column missing rather than holding a stale value; the
// error stays recorded against the column until a later Set succeeds.
func (ip *ImportPrice) Set(value string, prop PropType) error {
	delete(ip.errs, prop)

	err := ip.set(value, prop)
	if err != nil {
		err = fmt.Errorf("%s: %w", prop, err)
		ip.errs[prop] = err
	}
	return err
}

func (ip *ImportPrice) set(value string, prop PropType) error {
	switch prop {
	case PropTypeNone:
		log.Printf("price import: ignoring value %q, column has no type", value)
		return nil
	case PropTypeDate:
		ip.date = nil
		d, err := ParseDate(value, ip.dateFormat)
		if err != nil {
			return err
		}
		ip.date = &d
	case PropTypeAmount:
		ip.amount = nil
		a, err := ParseAmount(value, ip.numFormat)
		if err != nil {
			return err
		}
		ip.amount = &a
	case PropTypeFromNamespace:
		ip.fromNamespace = ""
		value = strings.TrimSpace(value)
		if value == "" {
			return errors.New("empty namespace")
		}
		ip.fromNamespace = value
		// Re-resolve a symbol set before the namespace.
		if ip.fromCommodity != nil {
			if c := ip.commodities.Lookup(value, ip.fromCommodity.Mnemonic); c != nil {
				ip.fromCommodity = c
			}
		}
	case PropTypeFromSymbol:
		ip.fromCommodity = nil
		c, err := ip.resolveFrom(value)
		if err != nil {
			return err
		}
		ip.fromCommodity = c
	case PropTypeToCurrency:
		ip.toCurrency = nil
		c, err := ParseCommodity(ip.commodities, value)
		if err != nil {
			return err
		}
		if !c.IsCurrency() {
			return fmt.Errorf("%q is not a currency", value)
		}
		ip.toCurrency = c
	default:
		return fmt.Errorf("unknown column type %d", prop)
	}
	return nil
}

func (ip *ImportPrice) resolveFrom(value string) (*stockassist.Commodity, error) {
	value = strings.TrimSpace(value)
	if ip.fromNamespace != "" {
		if c := ip.commodities.Lookup(ip.fromNamespace, value); c != nil {
			return c, nil
		}
		return nil, fmt.Errorf("unknown commodity %q in namespace %q", value, ip.fromNamespace)
	}
	return ParseCommodity(ip.commodities, value)
}

// Reset clears a column: its parsed value and any error recorded against it.
func (ip *ImportPrice) Reset(prop PropType) {
	ip.Set("", prop)
	delete(ip.errs, prop)
	switch prop {
	case PropTypeDate:
		ip.date = nil
	case PropTypeAmount:
		ip.amount = nil
	case PropTypeFromNamespace:
		ip.fromNamespace = ""
	case PropTypeFromSymbol:
		ip.fromCommodity = nil
	case PropTypeToCurrency:
		ip.toCurrency = nil
	}
}

// Errors returns the recorded parse errors, one per failed column, in a
// stable order.
func (ip *ImportPrice) Errors() []error {
	props := make([]PropType, 0, len(ip.errs))
	for p := range ip.errs {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i] < props[j] })
	out := make([]error, len(props))
	for i, p := range props {
		out[i] = ip.errs[p]
	}
	return out
}

// VerifyEssentials checks that every column a price cannot exist without has
// been set, and reports the first missing one.
func (ip *ImportPrice) VerifyEssentials() error {
	switch {
	case ip.date == nil:
		return errors.New("no date column")
	case ip.amount == nil:
		return errors.New("no amount column")
	case ip.toCurrency == nil:
		return errors.New("no currency-to column")
	case ip.fromCommodity == nil:
		return errors.New("no commodity-from column")
	case ip.fromCommodity == ip.toCurrency:
		return errors.New("commodity-from is the same as currency-to")
	}
	return nil
}

// CreatePrice stores the assembled price in the database.
//
// When a price for the pair already exists on the same day, overwrite
// decides between replacing it and keeping it. A price between two
// currencies is stored in a canonical orientation: when an existing price
// quotes the pair the other way around, or when the rate is below one, the
// rate is inverted so the stored value stays above one.
func (ip *ImportPrice) CreatePrice(db *stockassist.PriceDB, overwrite bool) (Result, error) {
	if errs := ip.Errors(); len(errs) > 0 {
		return ResultFailed, errors.Join(errs...)
	}
	if err := ip.VerifyEssentials(); err != nil {
		return ResultFailed, err
	}

	commodity, currency := ip.fromCommodity, ip.toCurrency
	amount := *ip.amount
	old := db.LookupDay(commodity, currency, *ip.date)

	if commodity.IsCurrency() && (old != nil && old.Commodity == currency || amount.LessThan(decimal.New(1, 0))) {
		if amount.IsZero() {
			return ResultFailed, errors.New("cannot invert a zero rate")
		}
		amount = decimal.New(1, 0).Div(amount)
		commodity, currency = currency, commodity
	}

	if old != nil && !overwrite {
		return ResultDuplicated, nil
	}

	p := &stockassist.Price{
		Commodity: commodity,
		Currency:  currency,
		Day:       *ip.date,
		Value:     amount.Round(int32(currency.Fraction)),
		Source:    stockassist.PriceSourceUser,
		Type:      stockassist.PriceTypeLast,
	}
	if old != nil {
		db.Remove(old)
	}
	if err := db.Add(p); err != nil {
		return ResultFailed, err
	}
	if old != nil {
		return ResultReplaced, nil
	}
	return ResultAdded, nil
}

package stockassist

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Price sources and types, stored verbatim on the price record.
const (
	PriceSourceUser = "user:price"
	PriceTypeLast   = "last"
)

// Price is one quote: the value of one unit of Commodity expressed in Currency
// on a given day.
type Price struct {
	Commodity *Commodity
	Currency  *Commodity
	Day       Date
	Value     decimal.Decimal
	Source    string
	Type      string
}

// PriceDB stores daily prices. Lookups match the (commodity, currency) pair
// in either orientation, so a stored USD/EUR quote is found when asking for
// EUR/USD on the same day.
type PriceDB struct {
	prices []*Price
}

// NewPriceDB returns a new empty price database.
func NewPriceDB() *PriceDB { return &PriceDB{} }

// Len returns the number of stored prices.
func (db *PriceDB) Len() int { return len(db.prices) }

// Prices returns all stored prices in insertion order.
func (db *PriceDB) Prices() []*Price {
	out := make([]*Price, len(db.prices))
	copy(out, db.prices)
	return out
}

// LookupDay returns a price for the pair on the given day, in either
// orientation, or nil when none is stored.
func (db *PriceDB) LookupDay(commodity, currency *Commodity, day Date) *Price {
	for _, p := range db.prices {
		if p.Day != day {
			continue
		}
		if p.Commodity == commodity && p.Currency == currency {
			return p
		}
		if p.Commodity == currency && p.Currency == commodity {
			return p
		}
	}
	return nil
}

// Add stores a price.
func (db *PriceDB) Add(p *Price) error {
	if p == nil || p.Commodity == nil || p.Currency == nil {
		return errors.New("price needs a commodity and a currency")
	}
	if p.Commodity == p.Currency {
		return errors.New("price commodity and currency must differ")
	}
	db.prices = append(db.prices, p)
	return nil
}

// Remove deletes a stored price. Removing an unknown price is a no-op.
func (db *PriceDB) Remove(price *Price) {
	for i, p := range db.prices {
		if p == price {
			db.prices = append(db.prices[:i], db.prices[i+1:]...)
			return
		}
	}
}

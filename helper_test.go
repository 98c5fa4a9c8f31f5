package stockassist

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// cents is a helper for tests to create USD money from an integer number of cents.
func cents(v int64) Money { return M(decimal.New(v, -2), "USD") }

// shares is a helper for tests to create share quantities from const.
func shares(v float64) Quantity { return Q(v) }

func day(y int, m time.Month, d int) Date { return NewDate(y, m, d) }

// brokerage holds the standard accounts of a test book.
type brokerage struct {
	book     *Book
	stock    *Account
	cash     *Account
	fees     *Account
	dividend *Account
	capgains *Account
}

// newBrokerage creates a book trading one stock against USD accounts.
func newBrokerage(t *testing.T) *brokerage {
	t.Helper()
	book := NewBook()
	usd, err := book.Commodities.NewCurrency("USD")
	if err != nil {
		t.Fatalf("NewCurrency(USD) failed: %v", err)
	}
	spy := &Commodity{Namespace: "STOCK", Mnemonic: "SPY", FullName: "SPY", Fraction: 2}
	if err := book.Commodities.Insert(spy); err != nil {
		t.Fatalf("Insert(SPY) failed: %v", err)
	}
	return &brokerage{
		book:     book,
		stock:    book.NewAccount("Stock Account", AccountTypeStock, spy),
		cash:     book.NewAccount("Cash Account", AccountTypeBank, usd),
		fees:     book.NewAccount("Fees Account", AccountTypeExpense, usd),
		dividend: book.NewAccount("Dividend Account", AccountTypeIncome, usd),
		capgains: book.NewAccount("Capgains Account", AccountTypeIncome, usd),
	}
}

// assistant builds a fresh model on the brokerage, dated and with all
// accounts wired.
func (b *brokerage) assistant(d Date) *StockAssistantModel {
	m := NewStockAssistant(b.book, b.stock)
	m.SetTransactionDate(d)
	m.SetCashAccount(b.cash)
	m.SetFeesAccount(b.fees)
	m.SetDividendAccount(b.dividend)
	m.SetCapGainsAccount(b.capgains)
	return m
}

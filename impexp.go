package stockassist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// JSONL persistence: one transaction or one price per line, so journals can
// be appended to and diffed.

type splitRecord struct {
	Account  string          `json:"account"`
	Memo     string          `json:"memo,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency,omitempty"`
}

type transactionRecord struct {
	Date        Date          `json:"date"`
	Description string        `json:"description,omitempty"`
	Splits      []splitRecord `json:"splits"`
}

// EncodeTransaction appends a transaction to the writer as one JSON line.
func EncodeTransaction(w io.Writer, t *Transaction) error {
	rec := transactionRecord{Date: t.Date, Description: t.Description}
	for _, s := range t.Splits {
		rec.Splits = append(rec.Splits, splitRecord{
			Account:  s.Account.Name(),
			Memo:     s.Memo,
			Amount:   s.Amount.value,
			Value:    s.Value.value,
			Currency: s.Value.cur,
		})
	}
	enc := json.NewEncoder(w)
	return enc.Encode(rec)
}

// DecodeTransactions reads a JSONL journal and posts every transaction into
// the book. Accounts are resolved by name and must already exist.
func DecodeTransactions(r io.Reader, b *Book) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec transactionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("journal line %d: %w", line, err)
		}
		t := &Transaction{Date: rec.Date, Description: rec.Description}
		for _, s := range rec.Splits {
			account := b.Account(s.Account)
			if account == nil {
				return fmt.Errorf("journal line %d: unknown account %q", line, s.Account)
			}
			t.Splits = append(t.Splits, Split{
				Account: account,
				Memo:    s.Memo,
				Amount:  Quantity{value: s.Amount},
				Value:   Money{value: s.Value, cur: s.Currency},
			})
		}
		if err := b.Post(t); err != nil {
			return fmt.Errorf("journal line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

type priceRecord struct {
	Commodity string          `json:"commodity"`
	Currency  string          `json:"currency"`
	Date      Date            `json:"date"`
	Value     decimal.Decimal `json:"value"`
	Source    string          `json:"source,omitempty"`
	Type      string          `json:"type,omitempty"`
}

// EncodePrice appends a price to the writer as one JSON line. Commodities
// are recorded by unique name.
func EncodePrice(w io.Writer, p *Price) error {
	rec := priceRecord{
		Commodity: p.Commodity.UniqueName(),
		Currency:  p.Currency.UniqueName(),
		Date:      p.Day,
		Value:     p.Value,
		Source:    p.Source,
		Type:      p.Type,
	}
	return json.NewEncoder(w).Encode(rec)
}

// DecodePrices reads a JSONL price file into the book's price database.
// Unknown currencies are registered on the fly, other commodities must
// already be in the table.
func DecodePrices(r io.Reader, b *Book) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec priceRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("price line %d: %w", line, err)
		}
		commodity, err := b.resolvePriceCommodity(rec.Commodity)
		if err != nil {
			return fmt.Errorf("price line %d: %w", line, err)
		}
		currency, err := b.resolvePriceCommodity(rec.Currency)
		if err != nil {
			return fmt.Errorf("price line %d: %w", line, err)
		}
		p := &Price{
			Commodity: commodity,
			Currency:  currency,
			Day:       rec.Date,
			Value:     rec.Value,
			Source:    rec.Source,
			Type:      rec.Type,
		}
		if err := b.Prices.Add(p); err != nil {
			return fmt.Errorf("price line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

func (b *Book) resolvePriceCommodity(uniqueName string) (*Commodity, error) {
	if c := b.Commodities.LookupUnique(uniqueName); c != nil {
		return c, nil
	}
	ns, mnemonic, ok := strings.Cut(uniqueName, "::")
	if ok && ns == CurrencyNamespace {
		return b.Commodities.NewCurrency(mnemonic)
	}
	return nil, fmt.Errorf("unknown commodity %q", uniqueName)
}

package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/stockassist"
	"github.com/etnz/stockassist/priceimport"
)

func TestParseColumns(t *testing.T) {
	props, err := parseColumns("date,none,amount,from,to")
	if err != nil {
		t.Fatalf("parseColumns() failed: %v", err)
	}
	want := []priceimport.PropType{
		priceimport.PropTypeDate,
		priceimport.PropTypeNone,
		priceimport.PropTypeAmount,
		priceimport.PropTypeFromSymbol,
		priceimport.PropTypeToCurrency,
	}
	if len(props) != len(want) {
		t.Fatalf("parseColumns() = %v, want %v", props, want)
	}
	for i := range want {
		if props[i] != want[i] {
			t.Errorf("parseColumns()[%d] = %v, want %v", i, props[i], want[i])
		}
	}

	if _, err := parseColumns(""); err == nil {
		t.Error("parseColumns(\"\") succeeded, want error")
	}
	if _, err := parseColumns("date,price"); err == nil {
		t.Error("parseColumns with an unknown column type succeeded, want error")
	}
}

func TestOpenBookReplaysJournal(t *testing.T) {
	dir := t.TempDir()
	*journalFile = filepath.Join(dir, "journal.jsonl")
	*pricesFile = filepath.Join(dir, "prices.jsonl")
	*ticker = "SPY"
	*currency = "USD"

	// a missing journal starts an empty book.
	book, err := OpenBook()
	if err != nil {
		t.Fatalf("OpenBook() failed: %v", err)
	}
	stock := book.Account(stockAccountName())
	if stock == nil {
		t.Fatal("stock account missing")
	}
	if !stock.Balance().IsZero() {
		t.Fatalf("fresh book stock balance = %s, want 0", stock.Balance())
	}

	// record one transaction and append it to the journal.
	txn := &stockassist.Transaction{
		Date:        stockassist.NewDate(2024, time.June, 3),
		Description: "Buy",
		Splits: []stockassist.Split{
			{Account: stock, Amount: stockassist.Q(10), Value: stockassist.M(1000, "USD")},
			{Account: book.Account(cashAccountName), Value: stockassist.M(-1000, "USD")},
		},
	}
	if err := book.Post(txn); err != nil {
		t.Fatal(err)
	}
	if got := AppendTransaction(txn); got != subcommands.ExitSuccess {
		t.Fatalf("AppendTransaction() = %v, want success", got)
	}

	// a fresh book replays it.
	book2, err := OpenBook()
	if err != nil {
		t.Fatalf("second OpenBook() failed: %v", err)
	}
	if got := book2.Account(stockAccountName()).Balance(); !got.Equal(stockassist.Q(10)) {
		t.Errorf("replayed stock balance = %s, want 10", got)
	}
}

func TestSavePricesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	*journalFile = filepath.Join(dir, "journal.jsonl")
	*pricesFile = filepath.Join(dir, "prices.jsonl")
	*ticker = "SPY"
	*currency = "USD"

	book, err := OpenBook()
	if err != nil {
		t.Fatal(err)
	}
	price := priceimport.NewImportPrice(book.Commodities, priceimport.DateFormatYMD, priceimport.NumFormatNative)
	price.Set("2024-06-03", priceimport.PropTypeDate)
	price.Set("428.12", priceimport.PropTypeAmount)
	price.Set("SPY", priceimport.PropTypeFromSymbol)
	price.Set("USD", priceimport.PropTypeToCurrency)
	if result, err := price.CreatePrice(book.Prices, false); result != priceimport.ResultAdded || err != nil {
		t.Fatalf("CreatePrice() = %v, %v, want added", result, err)
	}
	if got := SavePrices(book); got != subcommands.ExitSuccess {
		t.Fatalf("SavePrices() = %v, want success", got)
	}

	book2, err := OpenBook()
	if err != nil {
		t.Fatal(err)
	}
	if got := book2.Prices.Len(); got != 1 {
		t.Errorf("replayed price db holds %d prices, want 1", got)
	}
}

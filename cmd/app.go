// Package cmd implements the CLI application to record stock transactions
// and import prices.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/stockassist"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&typesCmd{}, "transactions")
	c.Register(&recordCmd{}, "transactions")

	c.Register(&importCmd{}, "prices")
	c.Register(&fetchCmd{}, "prices")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var journalFile = flag.String("journal", "journal.jsonl", "Path to the transaction journal (JSONL format)")
var pricesFile = flag.String("prices", "prices.jsonl", "Path to the price file (JSONL format)")
var ticker = flag.String("ticker", "", "Mnemonic of the stock the assistant works on")
var namespace = flag.String("namespace", "STOCK", "Namespace of the stock commodity")
var currency = flag.String("currency", "EUR", "Currency the stock trades in")

// standard account names derived from the ticker.
func stockAccountName() string { return "Assets:Stocks:" + *ticker }

const (
	cashAccountName     = "Assets:Cash"
	feesAccountName     = "Expenses:Fees"
	dividendAccountName = "Income:Dividends"
	capgainsAccountName = "Income:Capital Gains"
)

// OpenBook builds the book for the configured ticker: its commodities, the
// standard accounts, and the journal and price files replayed into it. A
// missing journal or price file starts an empty book.
func OpenBook() (*stockassist.Book, error) {
	if *ticker == "" {
		return nil, errors.New("no -ticker given")
	}
	book := stockassist.NewBook()
	cur, err := book.Commodities.NewCurrency(*currency)
	if err != nil {
		return nil, err
	}
	stock := &stockassist.Commodity{
		Namespace: *namespace,
		Mnemonic:  *ticker,
		FullName:  *ticker,
		Fraction:  4,
	}
	if err := book.Commodities.Insert(stock); err != nil {
		return nil, err
	}

	book.NewAccount(stockAccountName(), stockassist.AccountTypeStock, stock)
	book.NewAccount(cashAccountName, stockassist.AccountTypeBank, cur)
	book.NewAccount(feesAccountName, stockassist.AccountTypeExpense, cur)
	book.NewAccount(dividendAccountName, stockassist.AccountTypeIncome, cur)
	book.NewAccount(capgainsAccountName, stockassist.AccountTypeIncome, cur)

	if err := replayFile(*journalFile, book, stockassist.DecodeTransactions); err != nil {
		return nil, err
	}
	if err := replayFile(*pricesFile, book, stockassist.DecodePrices); err != nil {
		return nil, err
	}
	return book, nil
}

func replayFile(filename string, book *stockassist.Book, decode func(r io.Reader, b *stockassist.Book) error) error {
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, %q does not exist, starting empty", filename)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if err := decode(f, book); err != nil {
		return fmt.Errorf("reading %q: %w", filename, err)
	}
	return nil
}

// AppendTransaction appends a single transaction to the journal file.
func AppendTransaction(t *stockassist.Transaction) subcommands.ExitStatus {
	filename := *journalFile
	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := stockassist.EncodeTransaction(f, t); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to journal %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", filename)
	return subcommands.ExitSuccess
}

// SavePrices rewrites the whole price file from the book's database. Imports
// can replace prices, so appending is not enough.
func SavePrices(book *stockassist.Book) subcommands.ExitStatus {
	filename := *pricesFile
	f, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	for _, p := range book.Prices.Prices() {
		if err := stockassist.EncodePrice(f, p); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing price file %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

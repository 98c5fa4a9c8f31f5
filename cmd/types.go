package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/stockassist"
	"github.com/google/subcommands"
)

// typesCmd holds the flags for the 'types' subcommand.
type typesCmd struct {
	date string
}

func (*typesCmd) Name() string     { return "types" }
func (*typesCmd) Synopsis() string { return "list the transaction types the current position allows" }
func (*typesCmd) Usage() string {
	return `sta -ticker <mnemonic> types [-d <date>]

  Lists the transaction types applicable to the stock account's position,
  with the fields each type takes.
`
}

func (c *typesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", stockassist.Today().String(), "Date of the planned transaction (YYYY-MM-DD)")
}

func (c *typesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := OpenBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	day, err := stockassist.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	stock := book.Account(stockAccountName())
	assistant := stockassist.NewStockAssistant(book, stock)
	assistant.SetTransactionDate(day)
	assistant.MaybeResetTxnTypes()

	var b strings.Builder
	fmt.Fprintf(&b, "# Transaction types for %s (%s shares)\n\n", *ticker, stock.Balance())
	fmt.Fprintln(&b, "| # | Type | Fields |")
	fmt.Fprintln(&b, "|--:|:---|:---|")
	for i, typ := range assistant.TxnTypes() {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i, typ.Label, fieldList(typ))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// fieldList names the active fields of a type, required ones first.
func fieldList(typ stockassist.TxnType) string {
	var fields []string
	for f := stockassist.FieldStockAmount; f <= stockassist.FieldDividendValue; f++ {
		switch typ.Control(f) {
		case stockassist.FieldRequired:
			fields = append(fields, f.String())
		case stockassist.FieldOptional:
			fields = append(fields, f.String()+"?")
		}
	}
	return strings.Join(fields, ", ")
}

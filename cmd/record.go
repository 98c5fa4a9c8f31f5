package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/etnz/stockassist"
	"github.com/etnz/stockassist/renderer"
)

// recordCmd holds the flags for the 'record' subcommand.
type recordCmd struct {
	date        string
	description string
	typeName    string

	amount     string
	value      string
	cash       string
	fees       string
	dividend   string
	capitalize bool

	dryRun bool
}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "record one stock transaction" }
func (*recordCmd) Usage() string {
	return `sta -ticker <mnemonic> record -type <type> [-d <date>] [-desc <text>] \
      [-amount <shares>] [-value <v>] [-cash <v>] [-fees <v> [-capitalize]] [-dividend <v>] [-n]

  Generates the splits for one stock transaction of the given type, prints
  the full breakdown, and appends the transaction to the journal. With -n the
  breakdown is printed but nothing is posted.
`
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", stockassist.Today().String(), "Date of the transaction (YYYY-MM-DD)")
	f.StringVar(&c.description, "desc", "", "Description of the transaction")
	f.StringVar(&c.typeName, "type", "", "Transaction type, as listed by 'sta types'")
	f.StringVar(&c.amount, "amount", "", "Number of shares (for splits: the post-split total)")
	f.StringVar(&c.value, "value", "", "Value of the shares")
	f.StringVar(&c.cash, "cash", "", "Cash moved, fees included")
	f.StringVar(&c.fees, "fees", "", "Fees paid")
	f.StringVar(&c.dividend, "dividend", "", "Distribution value")
	f.BoolVar(&c.capitalize, "capitalize", false, "Capitalize the fees into the cost basis")
	f.BoolVar(&c.dryRun, "n", false, "Show the breakdown without posting")
}

func (c *recordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	assistant.SetDescription(c.description)
	assistant.MaybeResetTxnTypes()

	if err := c.selectType(assistant); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := c.fillFields(assistant); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	assistant.SetCashAccount(book.Account(cashAccountName))
	assistant.SetFeesAccount(book.Account(feesAccountName))
	assistant.SetDividendAccount(book.Account(dividendAccountName))
	assistant.SetCapGainsAccount(book.Account(capgainsAccountName))

	_, _, err = assistant.GenerateListOfSplits()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RecordMarkdown(assistant.Report()))

	if c.dryRun {
		return subcommands.ExitSuccess
	}
	txn, err := assistant.CreateTransaction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return AppendTransaction(txn)
}

// selectType matches -type against the applicable type labels, case
// insensitively.
func (c *recordCmd) selectType(assistant *stockassist.StockAssistantModel) error {
	if c.typeName == "" {
		return fmt.Errorf("no -type given, see 'sta types'")
	}
	for i, typ := range assistant.TxnTypes() {
		if strings.EqualFold(typ.Label, c.typeName) {
			return assistant.SetTxnType(i)
		}
	}
	return fmt.Errorf("type %q does not apply to the current position, see 'sta types'", c.typeName)
}

func (c *recordCmd) fillFields(assistant *stockassist.StockAssistantModel) error {
	if c.amount != "" {
		q, err := decimal.NewFromString(c.amount)
		if err != nil {
			return fmt.Errorf("invalid -amount %q: %w", c.amount, err)
		}
		assistant.SetStockAmount(stockassist.Q(q))
	}
	set := func(flagName, value string, set func(stockassist.Money)) error {
		if value == "" {
			return nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("invalid -%s %q: %w", flagName, value, err)
		}
		set(stockassist.M(d, *currency))
		return nil
	}
	if err := set("value", c.value, assistant.SetStockValue); err != nil {
		return err
	}
	if err := set("cash", c.cash, assistant.SetCashValue); err != nil {
		return err
	}
	if err := set("fees", c.fees, assistant.SetFeesValue); err != nil {
		return err
	}
	if err := set("dividend", c.dividend, assistant.SetDividendValue); err != nil {
		return err
	}
	assistant.SetFeesCapitalize(c.capitalize)
	return nil
}

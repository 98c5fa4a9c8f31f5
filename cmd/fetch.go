package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/etnz/stockassist"
	"github.com/etnz/stockassist/priceimport"
)

// fetchCmd fetches the latest traded price of the stock and stores it.
type fetchCmd struct {
	isin      string
	url       string
	jsonpath  string
	in        string
	overwrite bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch today's price for the stock" }
func (*fetchCmd) Usage() string {
	return `sta -ticker <mnemonic> fetch -isin <isin> [-overwrite]
sta -ticker <mnemonic> fetch -url <address> -jsonpath <path> [-in <currency>] [-overwrite]

  Fetches the latest traded price and stores it as today's price for the
  stock. With -isin the quote comes from TradeGate (in euros); with -url the
  quote is extracted from any JSON endpoint by a jsonpath expression, in the
  currency given by -in.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.isin, "isin", "", "ISIN of the stock on TradeGate")
	f.StringVar(&c.url, "url", "", "JSON endpoint to fetch the quote from instead of TradeGate")
	f.StringVar(&c.jsonpath, "jsonpath", "", "jsonpath of the quote value in the -url payload")
	f.StringVar(&c.in, "in", "EUR", "currency the fetched quote is expressed in")
	f.BoolVar(&c.overwrite, "overwrite", false, "replace a price already stored for today")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var quote decimal.Decimal
	var quoteCurrency string
	var err error
	switch {
	case c.url != "":
		if c.jsonpath == "" {
			fmt.Fprintln(os.Stderr, "-jsonpath is required with -url")
			return subcommands.ExitUsageError
		}
		quote, err = priceimport.FetchJSONPath(priceimport.DailyClient(), c.url, c.jsonpath)
		quoteCurrency = c.in
	case c.isin != "":
		quote, err = priceimport.FetchLatest(priceimport.DailyClient(), c.isin)
		// TradeGate quotes in euros regardless of the book's currency.
		quoteCurrency = "EUR"
	default:
		fmt.Fprintln(os.Stderr, "-isin or -url argument is required")
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching: %v\n", err)
		return subcommands.ExitFailure
	}

	book, err := OpenBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if _, err := book.Commodities.NewCurrency(quoteCurrency); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	price := priceimport.NewImportPrice(book.Commodities, priceimport.DateFormatYMD, priceimport.NumFormatNative)
	cells := []struct {
		value string
		prop  priceimport.PropType
	}{
		{stockassist.Today().String(), priceimport.PropTypeDate},
		{quote.String(), priceimport.PropTypeAmount},
		{*namespace, priceimport.PropTypeFromNamespace},
		{*ticker, priceimport.PropTypeFromSymbol},
		{quoteCurrency, priceimport.PropTypeToCurrency},
	}
	for _, cell := range cells {
		if err := price.Set(cell.value, cell.prop); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	result, err := price.CreatePrice(book.Prices, c.overwrite)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error storing price: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %s %s (%s)\n", *ticker, quote, quoteCurrency, result)
	return SavePrices(book)
}

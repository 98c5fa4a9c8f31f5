package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/stockassist/priceimport"
)

// importCmd imports commodity prices from a delimited file.
type importCmd struct {
	file       string
	columns    string
	dateFormat int
	numFormat  int
	separator  string
	skip       int
	overwrite  bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import commodity prices from a delimited file" }
func (*importCmd) Usage() string {
	return `sta -ticker <mnemonic> import -i <file> -columns <spec> [-date-format <n>] [-num-format <n>] [-overwrite]

  Reads a delimited file and stores one price per row. The -columns spec
  assigns a meaning to each column, comma separated: date, amount, from,
  namespace, to, or none. Example: -columns date,none,amount,from,to
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "i", "", "input file")
	f.StringVar(&c.columns, "columns", "", "column assignments (date, amount, from, namespace, to, none)")
	f.IntVar(&c.dateFormat, "date-format", priceimport.DateFormatYMD, "date format: 0 y-m-d, 1 d-m-y, 2 m-d-y, 3 d-m, 4 m-d")
	f.IntVar(&c.numFormat, "num-format", priceimport.NumFormatNative, "number grammar: 0 native, 1 period decimal, 2 comma decimal")
	f.StringVar(&c.separator, "sep", ",", "field separator")
	f.IntVar(&c.skip, "skip", 0, "header lines to skip")
	f.BoolVar(&c.overwrite, "overwrite", false, "replace prices already stored for the same day")
}

// parseColumns maps the -columns spec onto property types.
func parseColumns(spec string) ([]priceimport.PropType, error) {
	if spec == "" {
		return nil, fmt.Errorf("-columns is required")
	}
	var props []priceimport.PropType
	for _, name := range strings.Split(spec, ",") {
		switch strings.TrimSpace(name) {
		case "date":
			props = append(props, priceimport.PropTypeDate)
		case "amount":
			props = append(props, priceimport.PropTypeAmount)
		case "from":
			props = append(props, priceimport.PropTypeFromSymbol)
		case "namespace":
			props = append(props, priceimport.PropTypeFromNamespace)
		case "to":
			props = append(props, priceimport.PropTypeToCurrency)
		case "none", "":
			props = append(props, priceimport.PropTypeNone)
		default:
			return nil, fmt.Errorf("unknown column type %q", name)
		}
	}
	return props, nil
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "-i argument is required")
		return subcommands.ExitUsageError
	}
	props, err := parseColumns(c.columns)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	book, err := OpenBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	in, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open file %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.Comma = rune(c.separator[0])
	reader.FieldsPerRecord = -1

	row := 0
	counts := make(map[priceimport.Result]int)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "row %d: %v\n", row+1, err)
			return subcommands.ExitFailure
		}
		row++
		if row <= c.skip {
			continue
		}

		price := priceimport.NewImportPrice(book.Commodities, c.dateFormat, c.numFormat)
		badCells := false
		for i, cell := range record {
			if i >= len(props) {
				break
			}
			if err := price.Set(cell, props[i]); err != nil {
				fmt.Fprintf(os.Stderr, "row %d: %v\n", row, err)
				badCells = true
			}
		}
		result, err := price.CreatePrice(book.Prices, c.overwrite)
		counts[result]++
		if err != nil && !badCells {
			// cell failures were already reported above.
			fmt.Fprintf(os.Stderr, "row %d: %v\n", row, err)
		}
	}

	fmt.Printf("imported %d prices: %d added, %d replaced, %d duplicated, %d failed\n",
		counts[priceimport.ResultAdded]+counts[priceimport.ResultReplaced],
		counts[priceimport.ResultAdded], counts[priceimport.ResultReplaced],
		counts[priceimport.ResultDuplicated], counts[priceimport.ResultFailed])

	return SavePrices(book)
}

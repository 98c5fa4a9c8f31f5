package stockassist

import (
	"fmt"
	"strings"
)

// RecordRow is one leg of a recorded stock transaction, as shown to the user
// before posting.
type RecordRow struct {
	Account string
	Memo    string
	Amount  Quantity
	Value   Money
}

// RecordReport is the breakdown of a generated stock transaction: every leg
// that will be posted, plus the position the stock account will have
// afterwards.
type RecordReport struct {
	Date        Date
	Description string
	TypeLabel   string
	Rows        []RecordRow

	NewBalance      Quantity
	NewValueBalance Money
	RealizedGain    *Money
}

// String renders the report as a plain multi-line summary.
func (r *RecordReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n", r.Date, r.Description, r.TypeLabel)
	for _, row := range r.Rows {
		if row.Amount.IsZero() {
			fmt.Fprintf(&b, "  %-40s %14s %14s\n", accountMemo(row), "", row.Value.SignedString())
		} else {
			fmt.Fprintf(&b, "  %-40s %14s %14s\n", accountMemo(row), row.Amount.String(), row.Value.SignedString())
		}
	}
	fmt.Fprintf(&b, "  new balance: %s shares, cost basis %s\n", r.NewBalance, r.NewValueBalance)
	if r.RealizedGain != nil {
		fmt.Fprintf(&b, "  realized gain: %s\n", r.RealizedGain.SignedString())
	}
	return b.String()
}

func accountMemo(row RecordRow) string {
	if row.Memo == "" {
		return row.Account
	}
	return row.Account + " (" + row.Memo + ")"
}

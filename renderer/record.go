package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/stockassist"
)

// RecordMarkdown renders the breakdown of a pending stock transaction.
func RecordMarkdown(report *stockassist.RecordReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s on %s\n\n", report.TypeLabel, report.Date)
	if report.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", report.Description)
	}

	fmt.Fprintln(&b, "| Account | Memo | Shares | Value |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for _, row := range report.Rows {
		shares := ""
		if !row.Amount.IsZero() {
			shares = row.Amount.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			row.Account,
			row.Memo,
			shares,
			row.Value.SignedString(),
		)
	}

	fmt.Fprintf(&b, "\nNew position: **%s** shares, cost basis **%s**.\n",
		report.NewBalance, report.NewValueBalance)
	if report.RealizedGain != nil {
		fmt.Fprintf(&b, "Realized gain: **%s**.\n", report.RealizedGain.SignedString())
	}
	return b.String()
}

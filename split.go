package stockassist

// Split is one leg of a double-entry posting: a signed share amount and a
// signed monetary value against one account. Monetary-only legs carry a zero
// amount, share-only legs (stock splits) a zero value.
type Split struct {
	Account *Account
	Memo    string
	Amount  Quantity
	Value   Money
}

// Transaction is a dated, balanced set of splits.
type Transaction struct {
	Date        Date
	Description string
	Splits      []Split
}

// Imbalance returns the sum of the splits' monetary values. It is zero for
// every well-formed transaction.
func (t *Transaction) Imbalance() Money {
	var sum Money
	for _, s := range t.Splits {
		sum = sum.Add(s.Value)
	}
	return sum
}

// Balanced reports whether the transaction satisfies the double-entry
// zero-sum invariant.
func (t *Transaction) Balanced() bool { return t.Imbalance().IsZero() }

package stockassist

import (
	"errors"
	"fmt"
)

// AccountType classifies accounts the assistant posts to.
type AccountType string

const (
	AccountTypeStock   AccountType = "stock"
	AccountTypeBank    AccountType = "bank"
	AccountTypeCash    AccountType = "cash"
	AccountTypeIncome  AccountType = "income"
	AccountTypeExpense AccountType = "expense"
)

// Account is one ledger account. Its share balance and its value balance
// (cost basis for a stock account) are derived from the posted splits.
//
// Mutations happen inside a BeginEdit/CommitEdit bracket: splits appended
// between the two calls only become visible on commit, and RollbackEdit
// discards them. This guarantees that a failed posting leaves no partial
// state behind.
type Account struct {
	name      string
	typ       AccountType
	commodity *Commodity

	splits  []Split
	pending []Split
	editing bool
}

// NewAccount creates an account denominated in the given commodity.
func NewAccount(name string, typ AccountType, commodity *Commodity) *Account {
	return &Account{name: name, typ: typ, commodity: commodity}
}

func (a *Account) Name() string          { return a.name }
func (a *Account) Type() AccountType     { return a.typ }
func (a *Account) Commodity() *Commodity { return a.commodity }

// BeginEdit opens an edit bracket on the account.
func (a *Account) BeginEdit() { a.editing = true }

// CommitEdit commits all splits appended since BeginEdit.
func (a *Account) CommitEdit() {
	a.splits = append(a.splits, a.pending...)
	a.pending = nil
	a.editing = false
}

// RollbackEdit discards all splits appended since BeginEdit.
func (a *Account) RollbackEdit() {
	a.pending = nil
	a.editing = false
}

// appendSplit stages a split. The account must be in an edit bracket.
func (a *Account) appendSplit(s Split) error {
	if !a.editing {
		return fmt.Errorf("account %q is not being edited", a.name)
	}
	if s.Account != a {
		return errors.New("split belongs to another account")
	}
	a.pending = append(a.pending, s)
	return nil
}

// Splits returns the committed splits in posting order.
func (a *Account) Splits() []Split {
	out := make([]Split, len(a.splits))
	copy(out, a.splits)
	return out
}

// Balance returns the committed share balance of the account.
func (a *Account) Balance() Quantity {
	var bal Quantity
	for _, s := range a.splits {
		bal = bal.Add(s.Amount)
	}
	return bal
}

// ValueBalance returns the committed monetary balance. For a stock account
// this is the position's cost basis, fees capitalized and realized gains
// included.
func (a *Account) ValueBalance() Money {
	var bal Money
	for _, s := range a.splits {
		bal = bal.Add(s.Value)
	}
	return bal
}

package stockassist

import (
	"errors"
	"fmt"
)

// Book owns the commodity registry, the price database and the accounts, and
// is the only way to commit transactions. It plays the role of the container
// the assistant and the price importer post into.
type Book struct {
	Commodities *CommodityTable
	Prices      *PriceDB

	accounts     []*Account
	transactions []*Transaction
}

// NewBook creates an empty book with its own commodity table and price database.
func NewBook() *Book {
	return &Book{
		Commodities: NewCommodityTable(),
		Prices:      NewPriceDB(),
	}
}

// NewAccount creates and registers an account in the book.
func (b *Book) NewAccount(name string, typ AccountType, commodity *Commodity) *Account {
	a := NewAccount(name, typ, commodity)
	b.accounts = append(b.accounts, a)
	return a
}

// Account returns the registered account with that name, or nil.
func (b *Book) Account(name string) *Account {
	for _, a := range b.accounts {
		if a.name == name {
			return a
		}
	}
	return nil
}

// Accounts returns the registered accounts in creation order.
func (b *Book) Accounts() []*Account {
	out := make([]*Account, len(b.accounts))
	copy(out, b.accounts)
	return out
}

// Transactions returns the committed transactions in posting order.
func (b *Book) Transactions() []*Transaction {
	out := make([]*Transaction, len(b.transactions))
	copy(out, b.transactions)
	return out
}

// Post commits a transaction: every split is appended to its account inside
// a begin/commit edit bracket. On any failure the brackets are rolled back
// and no partial state is committed.
func (b *Book) Post(txn *Transaction) error {
	if txn == nil || len(txn.Splits) == 0 {
		return errors.New("nothing to post")
	}
	if !txn.Balanced() {
		return fmt.Errorf("transaction on %s is unbalanced by %s", txn.Date, txn.Imbalance())
	}

	// One bracket per distinct account.
	edited := make(map[*Account]bool)
	rollback := func() {
		for a := range edited {
			a.RollbackEdit()
		}
	}

	for _, s := range txn.Splits {
		if s.Account == nil {
			rollback()
			return errors.New("split without an account")
		}
		if !edited[s.Account] {
			s.Account.BeginEdit()
			edited[s.Account] = true
		}
		if err := s.Account.appendSplit(s); err != nil {
			rollback()
			return err
		}
	}
	for a := range edited {
		a.CommitEdit()
	}
	b.transactions = append(b.transactions, txn)
	return nil
}

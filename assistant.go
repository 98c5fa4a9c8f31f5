package stockassist

import (
	"errors"
	"fmt"
)

// StockAssistantModel guides the entry of one stock transaction.
//
// A model is bound to one stock account. The caller sets the transaction
// date, rebuilds the applicable-type table with MaybeResetTxnTypes, selects a
// type, fills in the fields the type activates, and then generates the
// balanced list of splits. CreateTransaction finally posts them to the book.
//
// A model records exactly one transaction: posting consumes the generated
// splits, a fresh model is needed for the next entry.
type StockAssistantModel struct {
	book         *Book
	stockAccount *Account

	transactionDate Date
	description     string

	// applicable-type table and the context it was derived from.
	types        []TxnType
	tableDate    Date
	tableBalance Quantity
	tableBuilt   bool

	txnType *TxnType

	stockAmount    *Quantity
	stockValue     *Money
	cashValue      *Money
	feesValue      *Money
	dividendValue  *Money
	feesCapitalize bool

	cashAccount     *Account
	feesAccount     *Account
	dividendAccount *Account
	capgainsAccount *Account

	splits []Split
	report *RecordReport
}

// NewStockAssistant creates a model bound to a stock account of the book.
func NewStockAssistant(book *Book, stockAccount *Account) *StockAssistantModel {
	return &StockAssistantModel{book: book, stockAccount: stockAccount}
}

// SetTransactionDate sets the date of the pending transaction. A date change
// invalidates the applicable-type table until the next MaybeResetTxnTypes.
func (m *StockAssistantModel) SetTransactionDate(d Date) {
	m.transactionDate = d
	m.invalidate()
}

// SetDescription sets the description of the pending transaction.
func (m *StockAssistantModel) SetDescription(desc string) {
	m.description = desc
	m.splits = nil
}

// stale reports whether the type table must be rebuilt: never built, the
// transaction date changed, or the account balance moved since the last
// rebuild.
func (m *StockAssistantModel) stale() bool {
	return !m.tableBuilt ||
		m.tableDate != m.transactionDate ||
		!m.tableBalance.Equal(m.stockAccount.Balance())
}

// MaybeResetTxnTypes rebuilds the applicable-type table when it is stale and
// reports whether a rebuild happened. The table is derived from the bound
// account's current balance sign: positive balances get the long types,
// negative ones the short types, a flat position only the two openers.
func (m *StockAssistantModel) MaybeResetTxnTypes() bool {
	if !m.stale() {
		return false
	}
	balance := m.stockAccount.Balance()
	m.types = ApplicableTypes(balance.Sign())
	m.tableDate = m.transactionDate
	m.tableBalance = balance
	m.tableBuilt = true
	m.txnType = nil
	m.splits = nil
	return true
}

// TxnTypes returns the current applicable-type table.
func (m *StockAssistantModel) TxnTypes() []TxnType {
	return append([]TxnType(nil), m.types...)
}

// SetTxnType selects a transaction type by index into the current table. It
// fails when the table is stale or the index is out of range, and leaves the
// model without a selected type.
func (m *StockAssistantModel) SetTxnType(i int) error {
	m.txnType = nil
	m.splits = nil
	if m.stale() {
		return errors.New("transaction type table is stale, call MaybeResetTxnTypes first")
	}
	if i < 0 || i >= len(m.types) {
		return fmt.Errorf("transaction type index %d out of range [0,%d)", i, len(m.types))
	}
	m.txnType = &m.types[i]
	return nil
}

// TxnType returns the selected transaction type, or nil.
func (m *StockAssistantModel) TxnType() *TxnType { return m.txnType }

// Field setters. Mutating a field keeps the selected type but discards any
// previously generated splits.

func (m *StockAssistantModel) SetStockAmount(q Quantity) { m.stockAmount = &q; m.splits = nil }
func (m *StockAssistantModel) SetStockValue(v Money)     { m.stockValue = &v; m.splits = nil }
func (m *StockAssistantModel) SetCashValue(v Money)      { m.cashValue = &v; m.splits = nil }
func (m *StockAssistantModel) SetFeesValue(v Money)      { m.feesValue = &v; m.splits = nil }
func (m *StockAssistantModel) SetDividendValue(v Money)  { m.dividendValue = &v; m.splits = nil }
func (m *StockAssistantModel) SetFeesCapitalize(b bool)  { m.feesCapitalize = b; m.splits = nil }

func (m *StockAssistantModel) SetCashAccount(a *Account)     { m.cashAccount = a; m.splits = nil }
func (m *StockAssistantModel) SetFeesAccount(a *Account)     { m.feesAccount = a; m.splits = nil }
func (m *StockAssistantModel) SetDividendAccount(a *Account) { m.dividendAccount = a; m.splits = nil }
func (m *StockAssistantModel) SetCapGainsAccount(a *Account) { m.capgainsAccount = a; m.splits = nil }

func (m *StockAssistantModel) invalidate() {
	m.splits = nil
	// staleness is re-derived from the date and balance; nothing else to do.
}

// fieldMoney returns the entered monetary value for a field, or nil.
func (m *StockAssistantModel) fieldMoney(f TxnField) *Money {
	switch f {
	case FieldStockValue:
		return m.stockValue
	case FieldCashValue:
		return m.cashValue
	case FieldFees:
		return m.feesValue
	case FieldDividendValue:
		return m.dividendValue
	default:
		return nil
	}
}

// checkFields validates the entered fields against the selected type's
// control table.
func (m *StockAssistantModel) checkFields(typ *TxnType, balance Quantity) error {
	for f := FieldStockValue; f < numTxnFields; f++ {
		v := m.fieldMoney(f)
		switch typ.Control(f) {
		case FieldRequired:
			if v == nil {
				return fmt.Errorf("%s: %s is required", typ.Label, f)
			}
		case FieldDisabled:
			if v != nil && !v.IsZero() {
				return fmt.Errorf("%s: %s is not applicable", typ.Label, f)
			}
		}
		if v != nil && v.IsNegative() {
			return fmt.Errorf("%s: %s must not be negative, got %s", typ.Label, f, v)
		}
	}

	switch typ.Control(FieldStockAmount) {
	case FieldRequired:
		if m.stockAmount == nil {
			return fmt.Errorf("%s: stock amount is required", typ.Label)
		}
		if typ.SharesAreTarget {
			// A split never changes which side of zero the position is on.
			if m.stockAmount.Sign() != balance.Sign() {
				return fmt.Errorf("%s: target of %s shares would flip the position of %s", typ.Label, m.stockAmount, balance)
			}
		} else if !m.stockAmount.IsPositive() {
			return fmt.Errorf("%s: stock amount must be positive, got %s", typ.Label, m.stockAmount)
		}
	case FieldDisabled:
		if m.stockAmount != nil && !m.stockAmount.IsZero() {
			return fmt.Errorf("%s: stock amount is not applicable", typ.Label)
		}
	}

	fees := m.feesValue
	if m.feesCapitalize && fees != nil && !fees.IsZero() && !typ.Capitalizable {
		return fmt.Errorf("%s: fees cannot be capitalized", typ.Label)
	}
	return nil
}

// checkAccounts validates that every active leg has an account to post to.
func (m *StockAssistantModel) checkAccounts(typ *TxnType) error {
	if typ.Control(FieldCashValue) == FieldRequired && m.cashAccount == nil {
		return fmt.Errorf("%s: cash account is not set", typ.Label)
	}
	if typ.Control(FieldDividendValue) == FieldRequired && m.dividendAccount == nil {
		return fmt.Errorf("%s: dividend account is not set", typ.Label)
	}
	if fees := m.feesValue; fees != nil && !fees.IsZero() && !m.feesCapitalize && m.feesAccount == nil {
		return fmt.Errorf("%s: fees account is not set", typ.Label)
	}
	if typ.HasCapGains && m.capgainsAccount == nil {
		return fmt.Errorf("%s: capital gains account is not set", typ.Label)
	}
	return nil
}

// sharesDelta computes the signed share movement of the stock leg.
func (m *StockAssistantModel) sharesDelta(typ *TxnType, balance Quantity) Quantity {
	if typ.Control(FieldStockAmount) != FieldRequired {
		return Q(0)
	}
	if typ.SharesAreTarget {
		// Split kinds enter the post-transaction total.
		return m.stockAmount.Sub(balance)
	}
	if typ.ShareSign < 0 {
		return m.stockAmount.Neg()
	}
	return *m.stockAmount
}

// GenerateListOfSplits validates the model against the selected transaction
// type and produces the balanced splits plus a multi-line summary report.
// Nothing is posted: the splits are kept for CreateTransaction.
func (m *StockAssistantModel) GenerateListOfSplits() (summary string, splits []Split, err error) {
	m.splits = nil
	m.report = nil

	typ := m.txnType
	if typ == nil {
		return "", nil, errors.New("no transaction type selected")
	}
	if m.stale() {
		return "", nil, errors.New("transaction type table is stale")
	}
	balance := m.stockAccount.Balance()
	if err := m.checkFields(typ, balance); err != nil {
		return "", nil, err
	}
	if err := m.checkAccounts(typ); err != nil {
		return "", nil, err
	}

	delta := m.sharesDelta(typ, balance)

	var legs []Split
	money := func(v *Money) Money {
		if v == nil {
			return Money{}
		}
		return *v
	}

	// Stock leg.
	stockValue := m.stockLegValue(typ)
	capitalized := m.feesCapitalize && m.feesValue != nil && !m.feesValue.IsZero()
	if capitalized {
		// Capitalized fees are a debit folded into the cost basis leg.
		stockValue = stockValue.Add(*m.feesValue)
	}
	if !delta.IsZero() || !stockValue.IsZero() {
		legs = append(legs, Split{Account: m.stockAccount, Memo: typ.Label, Amount: delta, Value: stockValue})
	}

	// Cash leg.
	if typ.Control(FieldCashValue) == FieldRequired {
		v := money(m.cashValue)
		if typ.Kind == KindBuy || typ.Kind == KindCoverBuy || typ.Compensatory {
			v = v.Neg()
		}
		legs = append(legs, Split{Account: m.cashAccount, Memo: typ.Label, Value: v})
	}

	// Fees leg, unless capitalized.
	if fees := m.feesValue; fees != nil && !fees.IsZero() && !capitalized {
		legs = append(legs, Split{Account: m.feesAccount, Memo: "Fees", Value: *fees})
	}

	// Dividend income leg. Compensatory kinds owe the distribution instead.
	if typ.Control(FieldDividendValue) == FieldRequired {
		v := money(m.dividendValue)
		if !typ.Compensatory {
			v = v.Neg()
		}
		legs = append(legs, Split{Account: m.dividendAccount, Memo: typ.Label, Value: v})
	}

	// Derived capital-gains pair for disposals.
	var gain *Money
	if typ.HasCapGains {
		g, err := m.realizedGain(typ, balance, stockValue)
		if err != nil {
			return "", nil, err
		}
		gain = &g
		legs = append(legs,
			Split{Account: m.stockAccount, Memo: "Cost basis adjustment", Value: g},
			Split{Account: m.capgainsAccount, Memo: "Realized gain", Value: g.Neg()},
		)
	}

	txn := &Transaction{Date: m.transactionDate, Description: m.description, Splits: legs}
	if !txn.Balanced() {
		return "", nil, fmt.Errorf("%s: splits are unbalanced by %s", typ.Label, txn.Imbalance())
	}

	m.splits = legs
	m.report = m.buildReport(typ, legs, balance, delta, gain)
	return m.report.String(), append([]Split(nil), legs...), nil
}

// stockLegValue returns the signed monetary value of the stock leg, before
// fee capitalization.
func (m *StockAssistantModel) stockLegValue(typ *TxnType) Money {
	if typ.Control(FieldStockValue) != FieldRequired {
		return Money{}
	}
	v := *m.stockValue
	switch typ.Kind {
	case KindSell, KindShortSell, KindReturnOfCapital, KindCompNotionalDistribution:
		return v.Neg()
	default:
		// Buy, Cover buy, Notional distribution, Compensatory return of capital.
		return v
	}
}

// realizedGain derives the capital gain of a disposal by the average-cost
// method: the cost basis allocated to the disposed shares is proportional to
// the shares held, and the gain is the difference between the stock leg value
// and that allocation, rounded to the currency's denomination.
func (m *StockAssistantModel) realizedGain(typ *TxnType, balance Quantity, stockValue Money) (Money, error) {
	qty := *m.stockAmount
	if balance.IsZero() {
		return Money{}, fmt.Errorf("%s: no position to dispose of", typ.Label)
	}
	if qty.GreaterThan(balance.Abs()) {
		return Money{}, fmt.Errorf("%s: cannot dispose of %s shares, position is %s", typ.Label, qty, balance)
	}
	basis := m.stockAccount.ValueBalance()
	alloc := basis.Mul(qty).Div(balance.Abs())
	return alloc.Neg().Sub(stockValue).Rounded(), nil
}

// CreateTransaction posts the previously generated splits to the book as one
// transaction. It fails when no splits are pending, and on success consumes
// them: the model cannot post twice.
func (m *StockAssistantModel) CreateTransaction() (*Transaction, error) {
	if len(m.splits) == 0 {
		return nil, errors.New("no generated splits, call GenerateListOfSplits first")
	}
	txn := &Transaction{
		Date:        m.transactionDate,
		Description: m.description,
		Splits:      m.splits,
	}
	if err := m.book.Post(txn); err != nil {
		return nil, err
	}
	m.splits = nil
	m.report = nil
	return txn, nil
}

// Report returns the breakdown report of the last successful generation, or
// nil.
func (m *StockAssistantModel) Report() *RecordReport { return m.report }

func (m *StockAssistantModel) buildReport(typ *TxnType, legs []Split, balance, delta Quantity, gain *Money) *RecordReport {
	r := &RecordReport{
		Date:        m.transactionDate,
		Description: m.description,
		TypeLabel:   typ.Label,
		NewBalance:  balance.Add(delta),
	}
	for _, s := range legs {
		r.Rows = append(r.Rows, RecordRow{
			Account: s.Account.Name(),
			Memo:    s.Memo,
			Amount:  s.Amount,
			Value:   s.Value,
		})
		if s.Account == m.stockAccount {
			r.NewValueBalance = r.NewValueBalance.Add(s.Value)
		}
	}
	r.NewValueBalance = r.NewValueBalance.Add(m.stockAccount.ValueBalance())
	r.RealizedGain = gain
	return r
}

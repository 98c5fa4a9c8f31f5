package stockassist

// TxnField enumerates the user-facing fields of the assistant.
type TxnField int

const (
	FieldStockAmount TxnField = iota
	FieldStockValue
	FieldCashValue
	FieldFees
	FieldDividendValue
	numTxnFields
)

func (f TxnField) String() string {
	switch f {
	case FieldStockAmount:
		return "stock amount"
	case FieldStockValue:
		return "stock value"
	case FieldCashValue:
		return "cash value"
	case FieldFees:
		return "fees"
	case FieldDividendValue:
		return "dividend value"
	default:
		return "unknown field"
	}
}

// FieldControl tells whether a field is required, optional or disabled for a
// given transaction type.
type FieldControl int

const (
	FieldDisabled FieldControl = iota
	FieldOptional
	FieldRequired
)

// TxnKind enumerates the transaction kinds of the assistant.
type TxnKind int

const (
	KindBuy TxnKind = iota
	KindSell
	KindDividend
	KindReturnOfCapital
	KindNotionalDistribution
	KindSplit
	KindReverseSplit
	KindShortSell
	KindCoverBuy
	KindCompDividend
	KindCompReturnOfCapital
	KindCompNotionalDistribution
)

// TxnType describes one transaction kind: its label, which fields it
// activates, and how the entered magnitudes map onto account legs. Adding a
// kind is a data change in the tables below, not new branching logic.
type TxnType struct {
	Kind  TxnKind
	Label string

	// Controls holds the per-field activation, indexed by TxnField.
	Controls [numTxnFields]FieldControl

	// ShareSign is the sign applied to the entered stock amount: +1 for
	// buy-side kinds, -1 for sell-side kinds, 0 when no shares move.
	ShareSign int

	// SharesAreTarget marks split kinds: the entered stock amount is the
	// post-transaction share total, not a delta.
	SharesAreTarget bool

	// Capitalizable allows folding the fees into the stock leg.
	Capitalizable bool

	// HasCapGains marks disposals whose realized gain is derived by the
	// average-cost method and posted as a capital-gains pair.
	HasCapGains bool

	// Compensatory marks short-regime kinds whose cash and income legs are
	// mirrored: the holder owes the distribution instead of receiving it.
	Compensatory bool
}

// Control returns the activation of a field for this type.
func (t TxnType) Control(f TxnField) FieldControl { return t.Controls[f] }

func controls(amount, value, cash, fees, dividend FieldControl) [numTxnFields]FieldControl {
	return [numTxnFields]FieldControl{amount, value, cash, fees, dividend}
}

// longTypes are valid while the share balance is positive.
var longTypes = []TxnType{
	{Kind: KindBuy, Label: "Buy",
		Controls:  controls(FieldRequired, FieldRequired, FieldRequired, FieldOptional, FieldDisabled),
		ShareSign: +1, Capitalizable: true},
	{Kind: KindSell, Label: "Sell",
		Controls:  controls(FieldRequired, FieldRequired, FieldRequired, FieldOptional, FieldDisabled),
		ShareSign: -1, HasCapGains: true},
	{Kind: KindDividend, Label: "Dividend",
		Controls: controls(FieldDisabled, FieldDisabled, FieldRequired, FieldOptional, FieldRequired)},
	{Kind: KindReturnOfCapital, Label: "Return of capital",
		Controls: controls(FieldDisabled, FieldRequired, FieldRequired, FieldOptional, FieldDisabled)},
	{Kind: KindNotionalDistribution, Label: "Notional distribution",
		Controls: controls(FieldDisabled, FieldRequired, FieldDisabled, FieldOptional, FieldRequired)},
	{Kind: KindSplit, Label: "Stock split",
		Controls:  controls(FieldRequired, FieldDisabled, FieldDisabled, FieldDisabled, FieldDisabled),
		ShareSign: +1, SharesAreTarget: true},
	{Kind: KindReverseSplit, Label: "Reverse split",
		Controls:  controls(FieldRequired, FieldDisabled, FieldDisabled, FieldDisabled, FieldDisabled),
		ShareSign: +1, SharesAreTarget: true},
}

// shortTypes are valid while the share balance is negative.
var shortTypes = []TxnType{
	{Kind: KindShortSell, Label: "Short sell",
		Controls:  controls(FieldRequired, FieldRequired, FieldRequired, FieldOptional, FieldDisabled),
		ShareSign: -1, Capitalizable: true},
	{Kind: KindCoverBuy, Label: "Cover buy",
		Controls:  controls(FieldRequired, FieldRequired, FieldRequired, FieldOptional, FieldDisabled),
		ShareSign: +1, HasCapGains: true},
	{Kind: KindCompDividend, Label: "Compensatory dividend",
		Controls:     controls(FieldDisabled, FieldDisabled, FieldRequired, FieldOptional, FieldRequired),
		Compensatory: true},
	{Kind: KindCompReturnOfCapital, Label: "Compensatory return of capital",
		Controls:     controls(FieldDisabled, FieldRequired, FieldRequired, FieldOptional, FieldDisabled),
		Compensatory: true},
	{Kind: KindCompNotionalDistribution, Label: "Compensatory notional distribution",
		Controls:     controls(FieldDisabled, FieldRequired, FieldDisabled, FieldOptional, FieldRequired),
		Compensatory: true},
	{Kind: KindSplit, Label: "Stock split",
		Controls:  controls(FieldRequired, FieldDisabled, FieldDisabled, FieldDisabled, FieldDisabled),
		ShareSign: +1, SharesAreTarget: true},
	{Kind: KindReverseSplit, Label: "Reverse split",
		Controls:  controls(FieldRequired, FieldDisabled, FieldDisabled, FieldDisabled, FieldDisabled),
		ShareSign: +1, SharesAreTarget: true},
}

// ApplicableTypes returns the transaction kinds valid for a share-balance
// sign. A flat position (sign 0) can only open: it gets the first entry of
// each regime table, Buy then Short sell.
func ApplicableTypes(sign int) []TxnType {
	switch {
	case sign > 0:
		return append([]TxnType(nil), longTypes...)
	case sign < 0:
		return append([]TxnType(nil), shortTypes...)
	default:
		return []TxnType{longTypes[0], shortTypes[0]}
	}
}

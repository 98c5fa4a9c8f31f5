package stockassist

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// CurrencyNamespace is the reserved namespace for currencies.
const CurrencyNamespace = "CURRENCY"

// Commodity identifies a tradeable thing: a currency, a stock, a fund.
//
// A commodity is uniquely identified by its namespace and mnemonic, e.g.
// "CURRENCY::USD" or "NASDAQ::AAPL".
type Commodity struct {
	Namespace string
	Mnemonic  string
	FullName  string
	Fraction  int // smallest tradeable fraction, as decimal digits
}

// UniqueName returns the namespace-qualified name of the commodity.
func (c *Commodity) UniqueName() string { return c.Namespace + "::" + c.Mnemonic }

// IsCurrency reports whether the commodity lives in the currency namespace.
func (c *Commodity) IsCurrency() bool { return c.Namespace == CurrencyNamespace }

func (c *Commodity) String() string { return c.UniqueName() }

// CommodityTable is the registry of known commodities, indexed by namespace
// and mnemonic. Namespaces keep their registration order, lookups across all
// namespaces depend on it.
type CommodityTable struct {
	namespaces []string
	index      map[string]map[string]*Commodity
}

// NewCommodityTable returns a new empty commodity registry.
func NewCommodityTable() *CommodityTable {
	return &CommodityTable{
		namespaces: make([]string, 0),
		index:      make(map[string]map[string]*Commodity),
	}
}

// Insert registers a commodity. Re-registering the same unique name is an error.
func (t *CommodityTable) Insert(c *Commodity) error {
	if c.Namespace == "" || c.Mnemonic == "" {
		return fmt.Errorf("commodity needs a namespace and a mnemonic, got %q::%q", c.Namespace, c.Mnemonic)
	}
	ns, ok := t.index[c.Namespace]
	if !ok {
		ns = make(map[string]*Commodity)
		t.index[c.Namespace] = ns
		t.namespaces = append(t.namespaces, c.Namespace)
	}
	if _, exists := ns[c.Mnemonic]; exists {
		return fmt.Errorf("commodity %q already registered", c.UniqueName())
	}
	ns[c.Mnemonic] = c
	return nil
}

// NewCurrency registers (or returns) a currency commodity for an ISO code,
// with its fraction taken from the currency's standard denomination.
func (t *CommodityTable) NewCurrency(code string) (*Commodity, error) {
	if c := t.Lookup(CurrencyNamespace, code); c != nil {
		return c, nil
	}
	def := money.GetCurrency(code)
	if def == nil {
		return nil, fmt.Errorf("unknown currency code %q", code)
	}
	c := &Commodity{Namespace: CurrencyNamespace, Mnemonic: code, FullName: code, Fraction: def.Fraction}
	if err := t.Insert(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup returns the commodity registered under (namespace, mnemonic), or nil.
func (t *CommodityTable) Lookup(namespace, mnemonic string) *Commodity {
	ns, ok := t.index[namespace]
	if !ok {
		return nil
	}
	return ns[mnemonic]
}

// LookupUnique returns the commodity with the given namespace-qualified
// unique name ("NS::MNEMONIC"), or nil.
func (t *CommodityTable) LookupUnique(uniqueName string) *Commodity {
	namespace, mnemonic, ok := strings.Cut(uniqueName, "::")
	if !ok {
		return nil
	}
	return t.Lookup(namespace, mnemonic)
}

// Namespaces returns all registered namespaces in registration order.
func (t *CommodityTable) Namespaces() []string {
	out := make([]string, len(t.namespaces))
	copy(out, t.namespaces)
	return out
}

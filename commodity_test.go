package stockassist

import "testing"

func TestCommodityTable(t *testing.T) {
	table := NewCommodityTable()

	usd, err := table.NewCurrency("USD")
	if err != nil {
		t.Fatalf("NewCurrency(USD) failed: %v", err)
	}
	if !usd.IsCurrency() {
		t.Error("USD is not flagged as a currency")
	}
	if usd.Fraction != 2 {
		t.Errorf("USD fraction = %d, want 2", usd.Fraction)
	}
	// registering again returns the same commodity.
	again, err := table.NewCurrency("USD")
	if err != nil || again != usd {
		t.Errorf("second NewCurrency(USD) = %v, %v, want the same commodity", again, err)
	}
	if _, err := table.NewCurrency("XXNOPE"); err == nil {
		t.Error("NewCurrency of an unknown code succeeded, want error")
	}

	aapl := &Commodity{Namespace: "NASDAQ", Mnemonic: "AAPL", FullName: "Apple Inc.", Fraction: 0}
	if err := table.Insert(aapl); err != nil {
		t.Fatalf("Insert(AAPL) failed: %v", err)
	}
	if err := table.Insert(aapl); err == nil {
		t.Error("duplicate Insert succeeded, want error")
	}
	if err := table.Insert(&Commodity{Mnemonic: "X"}); err == nil {
		t.Error("Insert without namespace succeeded, want error")
	}

	if got := table.Lookup("NASDAQ", "AAPL"); got != aapl {
		t.Errorf("Lookup(NASDAQ, AAPL) = %v, want AAPL", got)
	}
	if got := table.LookupUnique("NASDAQ::AAPL"); got != aapl {
		t.Errorf("LookupUnique(NASDAQ::AAPL) = %v, want AAPL", got)
	}
	if got := table.LookupUnique("AAPL"); got != nil {
		t.Errorf("LookupUnique without namespace = %v, want nil", got)
	}

	if got := aapl.UniqueName(); got != "NASDAQ::AAPL" {
		t.Errorf("UniqueName() = %q, want NASDAQ::AAPL", got)
	}
}

func TestCommodityNamespaceOrder(t *testing.T) {
	table := NewCommodityTable()
	table.Insert(&Commodity{Namespace: "FUND", Mnemonic: "A"})
	if _, err := table.NewCurrency("EUR"); err != nil {
		t.Fatal(err)
	}
	table.Insert(&Commodity{Namespace: "NASDAQ", Mnemonic: "B"})

	want := []string{"FUND", CurrencyNamespace, "NASDAQ"}
	got := table.Namespaces()
	if len(got) != len(want) {
		t.Fatalf("Namespaces() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Namespaces()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

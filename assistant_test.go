package stockassist

import (
	"testing"
	"time"
)

func TestFailureModes(t *testing.T) {
	b := newBrokerage(t)
	model := b.assistant(day(2022, time.January, 1))

	// resetting txn types will work the first time
	if !model.MaybeResetTxnTypes() {
		t.Error("first MaybeResetTxnTypes() = false, want true")
	}
	// trying to reset again shouldn't be necessary
	if model.MaybeResetTxnTypes() {
		t.Error("second MaybeResetTxnTypes() = true, want false")
	}

	// set transaction date to a different date.
	model.SetTransactionDate(day(2022, time.February, 1))

	// resetting txn types will now work.
	if !model.MaybeResetTxnTypes() {
		t.Error("MaybeResetTxnTypes() after date change = false, want true")
	}

	// the model is empty. generating the list of splits should fail.
	if _, _, err := model.GenerateListOfSplits(); err == nil {
		t.Error("GenerateListOfSplits() on an empty model succeeded, want error")
	}
	if _, err := model.CreateTransaction(); err == nil {
		t.Error("CreateTransaction() without generated splits succeeded, want error")
	}
}

func TestSetTxnTypeStale(t *testing.T) {
	b := newBrokerage(t)
	model := b.assistant(day(2022, time.January, 1))

	// without a table, any selection is refused.
	if err := model.SetTxnType(0); err == nil {
		t.Error("SetTxnType() before MaybeResetTxnTypes() succeeded, want error")
	}

	model.MaybeResetTxnTypes()
	if err := model.SetTxnType(0); err != nil {
		t.Errorf("SetTxnType(0) failed: %v", err)
	}
	if err := model.SetTxnType(len(model.TxnTypes())); err == nil {
		t.Error("SetTxnType() out of range succeeded, want error")
	}

	// a date change staled the table, selection must be refused again.
	model.SetTransactionDate(day(2022, time.March, 1))
	if err := model.SetTxnType(0); err == nil {
		t.Error("SetTxnType() on a stale table succeeded, want error")
	}
}

func TestApplicableTypes(t *testing.T) {
	testCases := []struct {
		name  string
		sign  int
		wants []string
	}{
		{"flat", 0, []string{"Buy", "Short sell"}},
		{"long", +1, []string{"Buy", "Sell", "Dividend", "Return of capital", "Notional distribution", "Stock split", "Reverse split"}},
		{"short", -1, []string{"Short sell", "Cover buy", "Compensatory dividend", "Compensatory return of capital", "Compensatory notional distribution", "Stock split", "Reverse split"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			types := ApplicableTypes(tc.sign)
			if len(types) != len(tc.wants) {
				t.Fatalf("ApplicableTypes(%d) returned %d types, want %d", tc.sign, len(types), len(tc.wants))
			}
			for i, want := range tc.wants {
				if types[i].Label != want {
					t.Errorf("ApplicableTypes(%d)[%d] = %q, want %q", tc.sign, i, types[i].Label, want)
				}
			}
		})
	}
}

func TestValidation(t *testing.T) {
	// seed a long position of 100 shares at 1000.00 total.
	seed := func(t *testing.T) (*brokerage, *StockAssistantModel) {
		t.Helper()
		b := newBrokerage(t)
		m := b.assistant(day(2023, time.May, 1))
		m.MaybeResetTxnTypes()
		if err := m.SetTxnType(0); err != nil {
			t.Fatal(err)
		}
		m.SetStockAmount(shares(100))
		m.SetStockValue(cents(100000))
		m.SetCashValue(cents(100000))
		if _, _, err := m.GenerateListOfSplits(); err != nil {
			t.Fatalf("seed generate failed: %v", err)
		}
		if _, err := m.CreateTransaction(); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
		m2 := b.assistant(day(2023, time.May, 2))
		m2.MaybeResetTxnTypes()
		return b, m2
	}

	t.Run("required field missing", func(t *testing.T) {
		_, m := seed(t)
		m.SetTxnType(0) // Buy
		m.SetStockAmount(shares(10))
		// stock value and cash missing.
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("generate without required fields succeeded, want error")
		}
	})

	t.Run("disabled field set", func(t *testing.T) {
		_, m := seed(t)
		m.SetTxnType(2) // Dividend
		m.SetCashValue(cents(1000))
		m.SetDividendValue(cents(1000))
		m.SetStockValue(cents(500)) // not applicable to a dividend
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("generate with a disabled field set succeeded, want error")
		}
	})

	t.Run("negative magnitude", func(t *testing.T) {
		_, m := seed(t)
		m.SetTxnType(0)
		m.SetStockAmount(shares(10))
		m.SetStockValue(cents(-10000))
		m.SetCashValue(cents(10000))
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("generate with a negative value succeeded, want error")
		}
	})

	t.Run("capitalize on non-capitalizable type", func(t *testing.T) {
		_, m := seed(t)
		m.SetTxnType(1) // Sell
		m.SetStockAmount(shares(10))
		m.SetStockValue(cents(10000))
		m.SetCashValue(cents(9000))
		m.SetFeesValue(cents(1000))
		m.SetFeesCapitalize(true)
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("generate with capitalized fees on a sell succeeded, want error")
		}
	})

	t.Run("oversell", func(t *testing.T) {
		_, m := seed(t)
		m.SetTxnType(1) // Sell
		m.SetStockAmount(shares(150))
		m.SetStockValue(cents(150000))
		m.SetCashValue(cents(150000))
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("selling more shares than held succeeded, want error")
		}
	})

	t.Run("unbalanced", func(t *testing.T) {
		_, m := seed(t)
		m.SetTxnType(0) // Buy
		m.SetStockAmount(shares(10))
		m.SetStockValue(cents(10000))
		m.SetCashValue(cents(9000)) // 1000 short, no fees to explain it
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("generate of an unbalanced entry succeeded, want error")
		}
	})

	t.Run("missing account", func(t *testing.T) {
		b, _ := seed(t)
		m := NewStockAssistant(b.book, b.stock)
		m.SetTransactionDate(day(2023, time.May, 2))
		m.MaybeResetTxnTypes()
		m.SetTxnType(2) // Dividend, needs cash and dividend accounts
		m.SetCashValue(cents(1000))
		m.SetDividendValue(cents(1000))
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("generate without accounts succeeded, want error")
		}
	})

	t.Run("create consumes splits", func(t *testing.T) {
		_, m := seed(t)
		m.SetTxnType(0)
		m.SetStockAmount(shares(10))
		m.SetStockValue(cents(10000))
		m.SetCashValue(cents(10000))
		if _, _, err := m.GenerateListOfSplits(); err != nil {
			t.Fatal(err)
		}
		if _, err := m.CreateTransaction(); err != nil {
			t.Fatal(err)
		}
		if _, err := m.CreateTransaction(); err == nil {
			t.Error("second CreateTransaction() succeeded, want error")
		}
	})
}

func TestStockScenario(t *testing.T) {
	// A multi-year scenario walking through every transaction kind: a long
	// position built up and sold off, a short position opened, distributed
	// against, split and covered, then a new long position with dividends,
	// reinvestment and a reverse split. Cash, fees, dividend and derived
	// capital-gains figures are checked row by row and at the end.
	noGain := int64(-1 << 62)
	rows := []struct {
		typeIdx    int
		d, m, y    int
		desc       string
		stockAmt   float64
		stockVal   int64
		cashVal    int64
		capitalize bool
		feesVal    int64
		diviVal    int64
		gain       int64 // derived capital gain in cents, noGain when not a disposal
		newBal     float64
	}{
		// flat position, open long.
		{0, 1, 7, 2019, "Buy", 100, 2000000, 2000995, true, 995, 0, noGain, 100},

		// long position.
		{0, 11, 12, 2019, "Buy", 50, 1600000, 1600995, true, 995, 0, noGain, 150},
		{1, 18, 3, 2020, "Sell", 75, 1200000, 1199005, false, 995, 0, -600995, 75},
		{0, 1, 4, 2020, "Buy", 250, 4200000, 4200995, true, 995, 0, noGain, 325},
		{3, 16, 4, 2020, "ROC", 0, 250000, 250000, true, 0, 0, noGain, 325},
		{0, 2, 5, 2020, "Buy", 125, 4750000, 4750000, true, 0, 0, noGain, 450},
		{5, 11, 5, 2020, "Split 2:1", 900, 0, 0, true, 0, 0, noGain, 900},
		{1, 21, 5, 2020, "Sell", 135, 2150000, 2149005, false, 995, 0, 574702, 765},
		{0, 3, 6, 2020, "Buy", 150, 2100000, 2100000, true, 0, 0, noGain, 915},
		{1, 10, 6, 2020, "Sell", 915, 12810000, 12809005, false, 995, 0, 1783308, 0},

		// flat position, open short.
		{1, 10, 6, 2020, "Short Sell", 85, 1190000, 1189005, true, 995, 0, noGain, -85},

		// short position.
		{0, 15, 6, 2020, "Short Sell", 65, 1105000, 1104005, true, 995, 0, noGain, -150},
		{1, 16, 6, 2020, "Cover Buy", 50, 500000, 500995, false, 995, 0, 264337, -100},
		{5, 17, 6, 2020, "Split 2:1", -200, 0, 0, false, 0, 0, noGain, -200},
		{6, 18, 6, 2020, "Reverse Split", -100, 0, 0, false, 0, 0, noGain, -100},
		{2, 19, 6, 2020, "Comp Dividend", 0, 0, 50000, false, 0, 50000, noGain, -100},
		{3, 19, 6, 2020, "Comp ROC", 0, 250000, 250000, false, 0, 0, noGain, -100},
		{4, 19, 6, 2020, "Comp ND", 0, 20000, 0, false, 0, 20000, noGain, -100},
		{1, 20, 6, 2020, "Cover Buy", 100, 800000, 800498, false, 498, 0, 498673, 0},

		// flat position, open long again.
		{0, 20, 6, 2020, "Buy", 100, 800000, 800498, true, 498, 0, noGain, 100},

		// long position.
		{2, 21, 6, 2020, "Dividend", 0, 0, 7000, false, 0, 7000, noGain, 100},
		{2, 25, 6, 2020, "Dividend", 0, 0, 11000, false, 0, 11000, noGain, 100},
		{0, 25, 6, 2020, "+ Reinv", 1, 10000, 10000, false, 0, 0, noGain, 101},
		{1, 26, 6, 2020, "Sell remainder", 1, 10000, 10000, false, 0, 0, 1975, 100},
		{6, 26, 6, 2020, "Reverse Split 1:2", 50, 0, 0, false, 0, 0, noGain, 50},
		{4, 27, 6, 2020, "ND", 0, 10000, 0, false, 0, 10000, noGain, 50},
	}

	b := newBrokerage(t)
	for _, row := range rows {
		model := b.assistant(day(row.y, time.Month(row.m), row.d))
		model.SetDescription(row.desc)
		model.MaybeResetTxnTypes()

		if err := model.SetTxnType(row.typeIdx); err != nil {
			t.Fatalf("%s: SetTxnType(%d) failed: %v", row.desc, row.typeIdx, err)
		}
		model.SetStockAmount(shares(row.stockAmt))
		model.SetStockValue(cents(row.stockVal))
		model.SetCashValue(cents(row.cashVal))
		model.SetFeesCapitalize(row.capitalize)
		model.SetFeesValue(cents(row.feesVal))
		model.SetDividendValue(cents(row.diviVal))

		summary, splits, err := model.GenerateListOfSplits()
		if err != nil {
			t.Fatalf("%s: GenerateListOfSplits() failed: %v", row.desc, err)
		}
		if summary == "" || len(splits) == 0 {
			t.Fatalf("%s: empty generation result", row.desc)
		}

		report := model.Report()
		if row.gain != noGain {
			if report.RealizedGain == nil {
				t.Fatalf("%s: no realized gain reported", row.desc)
			}
			if want := cents(row.gain); !report.RealizedGain.Equal(want) {
				t.Errorf("%s: realized gain = %s, want %s", row.desc, report.RealizedGain, want)
			}
		} else if report.RealizedGain != nil {
			t.Errorf("%s: unexpected realized gain %s", row.desc, report.RealizedGain)
		}

		if _, err := model.CreateTransaction(); err != nil {
			t.Fatalf("%s: CreateTransaction() failed: %v", row.desc, err)
		}
		if got, want := b.stock.Balance(), shares(row.newBal); !got.Equal(want) {
			t.Fatalf("%s: stock balance = %s, want %s", row.desc, got, want)
		}
	}

	checks := []struct {
		name    string
		account *Account
		want    Money
	}{
		{"dividend", b.dividend, cents(42000)},
		{"fees", b.fees, cents(4478)},
		{"cash", b.cash, cents(1663049)},
		{"capgains", b.capgains, cents(-2522000)},
		{"stock cost basis", b.stock, cents(812473)},
	}
	for _, c := range checks {
		if got := c.account.ValueBalance(); !got.Equal(c.want) {
			t.Errorf("final %s balance = %s, want %s", c.name, got, c.want)
		}
	}
	if got := b.stock.Balance(); !got.Equal(shares(50)) {
		t.Errorf("final stock balance = %s, want 50", got)
	}
}

func TestBalanceChangeStalesTable(t *testing.T) {
	b := newBrokerage(t)
	d := day(2024, time.January, 2)

	// open a long position through a first model.
	m1 := b.assistant(d)
	m1.MaybeResetTxnTypes()
	if err := m1.SetTxnType(0); err != nil {
		t.Fatal(err)
	}
	m1.SetStockAmount(shares(10))
	m1.SetStockValue(cents(10000))
	m1.SetCashValue(cents(10000))

	// a second model on the same date builds its table while flat.
	m2 := b.assistant(d)
	if !m2.MaybeResetTxnTypes() {
		t.Fatal("first reset on second model = false, want true")
	}
	if got := len(m2.TxnTypes()); got != 2 {
		t.Fatalf("flat position offers %d types, want 2", got)
	}

	// posting through the first model moves the balance under the second one.
	if _, _, err := m1.GenerateListOfSplits(); err != nil {
		t.Fatal(err)
	}
	if _, err := m1.CreateTransaction(); err != nil {
		t.Fatal(err)
	}

	if !m2.MaybeResetTxnTypes() {
		t.Error("reset after a balance change = false, want true")
	}
	if got := len(m2.TxnTypes()); got != 7 {
		t.Errorf("long position offers %d types, want 7", got)
	}
}

func TestSplitTargetKeepsSign(t *testing.T) {
	// a split enters the post-transaction total; a target on the other side
	// of zero is not a split.
	open := func(t *testing.T, typeIdx int, value int64) *brokerage {
		t.Helper()
		b := newBrokerage(t)
		m := b.assistant(day(2023, time.May, 1))
		m.MaybeResetTxnTypes()
		if err := m.SetTxnType(typeIdx); err != nil {
			t.Fatal(err)
		}
		m.SetStockAmount(shares(100))
		m.SetStockValue(cents(value))
		m.SetCashValue(cents(value))
		if _, _, err := m.GenerateListOfSplits(); err != nil {
			t.Fatal(err)
		}
		if _, err := m.CreateTransaction(); err != nil {
			t.Fatal(err)
		}
		return b
	}

	t.Run("long", func(t *testing.T) {
		b := open(t, 0, 100000) // Buy 100
		m := b.assistant(day(2023, time.May, 2))
		m.MaybeResetTxnTypes()
		if err := m.SetTxnType(5); err != nil { // Stock split
			t.Fatal(err)
		}
		m.SetStockAmount(shares(-50))
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("split of a long position to a negative target succeeded, want error")
		}
		m.SetStockAmount(shares(0))
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("split to a zero target succeeded, want error")
		}
		m.SetStockAmount(shares(200))
		if _, _, err := m.GenerateListOfSplits(); err != nil {
			t.Errorf("split of a long position to a positive target failed: %v", err)
		}
		if got := b.stock.Balance(); !got.Equal(shares(100)) {
			t.Errorf("balance after rejected splits = %s, want 100", got)
		}
	})

	t.Run("short", func(t *testing.T) {
		b := open(t, 1, 100000) // Short sell 100
		m := b.assistant(day(2023, time.May, 2))
		m.MaybeResetTxnTypes()
		if err := m.SetTxnType(5); err != nil { // Stock split
			t.Fatal(err)
		}
		m.SetStockAmount(shares(50))
		if _, _, err := m.GenerateListOfSplits(); err == nil {
			t.Error("split of a short position to a positive target succeeded, want error")
		}
		m.SetStockAmount(shares(-200))
		if _, _, err := m.GenerateListOfSplits(); err != nil {
			t.Errorf("split of a short position to a negative target failed: %v", err)
		}
	})
}

package engine_test

import (
	"testing"
	"time"

	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/engine"
)

// ageEarly and ageLate bracket the 59 1/2 penalty boundary, in months.
const (
	ageEarly = 50 * 12
	ageLate  = 65 * 12
)

func ledgerFixture() *engine.Ledger {
	snap := &domain.Snapshot{
		People: []domain.Person{
			{ID: "p1", Name: "Alex", BirthDate: time.Date(1970, time.June, 15, 0, 0, 0, 0, time.UTC)},
		},
		CashAccounts: []domain.CashAccount{
			{ID: "checking", Name: "Checking", Balance: dec(5000)},
			{ID: "savings", Name: "Savings", Balance: dec(20000)},
		},
		InvestmentAccounts: []domain.InvestmentAccount{
			{ID: "ira", Name: "IRA", PersonID: "p1", TaxType: domain.TaxTraditional},
			{ID: "roth", Name: "Roth IRA", PersonID: "p1", TaxType: domain.TaxRoth},
			{ID: "brokerage", Name: "Brokerage", PersonID: "p1", TaxType: domain.TaxTaxable},
		},
		Holdings: []domain.Holding{
			{ID: "trad-fund", InvestmentAccountID: "ira", Name: "Trad fund", Balance: dec(100000)},
			{ID: "roth-fund", InvestmentAccountID: "roth", Name: "Roth fund", Balance: dec(10000), SeasonedBasis: dec(3000), UnseasonedBasis: dec(2000)},
			{ID: "taxable-fund", InvestmentAccountID: "brokerage", Name: "Index fund", Balance: dec(10000), CostBasis: dec(6000)},
			{ID: "roth-other", InvestmentAccountID: "roth", Name: "Roth bond fund", Balance: dec(5000), SeasonedBasis: dec(5000)},
			{ID: "taxable-other", InvestmentAccountID: "brokerage", Name: "Bond fund"},
		},
	}
	return engine.NewLedger(snap)
}

func TestLedger_WithdrawCash(t *testing.T) {
	led := ledgerFixture()

	got := led.WithdrawCash("checking", dec(3000))
	if !got.Equal(dec(3000)) {
		t.Errorf("expected 3000, got %s", got)
	}

	// Overdraw clamps to the remaining balance.
	got = led.WithdrawCash("checking", dec(99999))
	if !got.Equal(dec(2000)) {
		t.Errorf("expected clamp to 2000, got %s", got)
	}
	if !led.Cash("checking").Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", led.Cash("checking").Balance)
	}
}

func TestLedger_WithdrawCashAcross(t *testing.T) {
	led := ledgerFixture()

	got := led.WithdrawCashAcross(dec(12000))
	if !got.Equal(dec(12000)) {
		t.Errorf("expected 12000, got %s", got)
	}
	// Snapshot order: checking drained first.
	if !led.Cash("checking").Balance.IsZero() {
		t.Errorf("expected checking drained, got %s", led.Cash("checking").Balance)
	}
	if !led.Cash("savings").Balance.Equal(dec(13000)) {
		t.Errorf("expected savings at 13000, got %s", led.Cash("savings").Balance)
	}

	got = led.WithdrawCashAcross(dec(99999))
	if !got.Equal(dec(13000)) {
		t.Errorf("expected clamp to remaining 13000, got %s", got)
	}
}

func TestLedger_WithdrawHolding_Traditional(t *testing.T) {
	t.Run("early withdrawal is penalized", func(t *testing.T) {
		led := ledgerFixture()
		resolved, tax := led.WithdrawHolding("trad-fund", dec(10000), ageEarly)
		if !resolved.Equal(dec(10000)) {
			t.Fatalf("expected 10000, got %s", resolved)
		}
		if !tax.OrdinaryIncome.Equal(dec(10000)) {
			t.Errorf("expected full ordinary income, got %s", tax.OrdinaryIncome)
		}
		if !tax.PenaltyBase.Equal(dec(10000)) {
			t.Errorf("expected full penalty base, got %s", tax.PenaltyBase)
		}
	})

	t.Run("after 59 1/2 no penalty", func(t *testing.T) {
		led := ledgerFixture()
		_, tax := led.WithdrawHolding("trad-fund", dec(10000), ageLate)
		if !tax.PenaltyBase.IsZero() {
			t.Errorf("expected no penalty, got %s", tax.PenaltyBase)
		}
	})

	t.Run("overdraw clamps", func(t *testing.T) {
		led := ledgerFixture()
		resolved, _ := led.WithdrawHolding("trad-fund", dec(999999), ageLate)
		if !resolved.Equal(dec(100000)) {
			t.Errorf("expected clamp to 100000, got %s", resolved)
		}
	})
}

func TestLedger_WithdrawHolding_Taxable(t *testing.T) {
	led := ledgerFixture()

	// 10000 balance, 6000 basis: half out recovers half the basis.
	resolved, tax := led.WithdrawHolding("taxable-fund", dec(5000), ageEarly)
	if !resolved.Equal(dec(5000)) {
		t.Fatalf("expected 5000, got %s", resolved)
	}
	assertApprox(t, tax.CapitalGains, dec(2000), "gains")
	if !tax.PenaltyBase.IsZero() {
		t.Errorf("taxable withdrawals are never penalized, got %s", tax.PenaltyBase)
	}
	assertApprox(t, led.Holding("taxable-fund").CostBasis, dec(3000), "remaining basis")
}

func TestLedger_WithdrawHolding_TaxableLoss(t *testing.T) {
	led := ledgerFixture()
	h := led.Holding("taxable-fund")
	h.Balance = dec(4000) // under water against the 6000 basis

	_, tax := led.WithdrawHolding("taxable-fund", dec(2000), ageLate)
	// Half the position out: basis out 3000 against 2000 proceeds.
	assertApprox(t, tax.CapitalGains, dec(-1000), "realized loss")
}

func TestLedger_WithdrawHolding_RothOrdering(t *testing.T) {
	led := ledgerFixture()

	// roth-fund: 3000 seasoned, 2000 unseasoned, 5000 gains.
	resolved, tax := led.WithdrawHolding("roth-fund", dec(6000), ageEarly)
	if !resolved.Equal(dec(6000)) {
		t.Fatalf("expected 6000, got %s", resolved)
	}
	// Seasoned basis first (tax-free), then unseasoned (penalty only),
	// then 1000 of gains (ordinary income plus penalty).
	assertApprox(t, tax.OrdinaryIncome, dec(1000), "ordinary income")
	assertApprox(t, tax.PenaltyBase, dec(3000), "penalty base")
	if !led.Holding("roth-fund").SeasonedBasis.IsZero() {
		t.Errorf("expected seasoned basis exhausted, got %s", led.Holding("roth-fund").SeasonedBasis)
	}
	if !led.Holding("roth-fund").UnseasonedBasis().IsZero() {
		t.Errorf("expected unseasoned basis exhausted, got %s", led.Holding("roth-fund").UnseasonedBasis())
	}
}

func TestLedger_WithdrawHolding_RothAfterPenaltyAge(t *testing.T) {
	led := ledgerFixture()

	_, tax := led.WithdrawHolding("roth-fund", dec(6000), ageLate)
	if !tax.PenaltyBase.IsZero() {
		t.Errorf("expected no penalty after 59 1/2, got %s", tax.PenaltyBase)
	}
	// Gains beyond basis are still ordinary income in this model.
	assertApprox(t, tax.OrdinaryIncome, dec(1000), "ordinary income")
}

func TestLedger_DepositHolding(t *testing.T) {
	led := ledgerFixture()

	led.DepositHolding("taxable-fund", dec(1000), 3)
	assertApprox(t, led.Holding("taxable-fund").CostBasis, dec(7000), "taxable basis")

	led.DepositHolding("roth-fund", dec(500), 3)
	assertApprox(t, led.Holding("roth-fund").UnseasonedBasis(), dec(2500), "unseasoned basis")

	led.DepositHolding("trad-fund", dec(500), 3)
	if !led.Holding("trad-fund").Balance.Equal(dec(100500)) {
		t.Errorf("expected 100500, got %s", led.Holding("trad-fund").Balance)
	}
}

func TestLedger_SeasonLots(t *testing.T) {
	led := ledgerFixture()
	h := led.Holding("roth-fund")

	led.DepositHolding("roth-fund", dec(500), 10)

	led.SeasonLots(59)
	// The opening lot (month 0) is still inside the five-year clock.
	assertApprox(t, h.SeasonedBasis, dec(3000), "seasoned at month 59")

	led.SeasonLots(60)
	assertApprox(t, h.SeasonedBasis, dec(5000), "opening lot seasoned at month 60")
	assertApprox(t, h.UnseasonedBasis(), dec(500), "month-10 lot still pending")

	led.SeasonLots(70)
	assertApprox(t, h.SeasonedBasis, dec(5500), "all lots seasoned")
}

func TestLedger_Convert(t *testing.T) {
	led := ledgerFixture()

	resolved, tax := led.Convert("trad-fund", "roth-fund", dec(20000), 4)
	if !resolved.Equal(dec(20000)) {
		t.Fatalf("expected 20000, got %s", resolved)
	}
	if !tax.OrdinaryIncome.Equal(dec(20000)) {
		t.Errorf("conversion is fully ordinary income, got %s", tax.OrdinaryIncome)
	}
	if !tax.PenaltyBase.IsZero() {
		t.Errorf("conversion is never penalized, got %s", tax.PenaltyBase)
	}
	if !led.Holding("trad-fund").Balance.Equal(dec(80000)) {
		t.Errorf("expected source at 80000, got %s", led.Holding("trad-fund").Balance)
	}
	// The converted amount starts a fresh five-year lot.
	assertApprox(t, led.Holding("roth-fund").UnseasonedBasis(), dec(22000), "unseasoned after conversion")
}

func TestLedger_Rebalance(t *testing.T) {
	t.Run("roth move carries basis, no tax", func(t *testing.T) {
		led := ledgerFixture()
		resolved, tax := led.Rebalance("roth-fund", "roth-other", dec(5000))
		if !resolved.Equal(dec(5000)) {
			t.Fatalf("expected 5000, got %s", resolved)
		}
		if !tax.OrdinaryIncome.IsZero() || !tax.CapitalGains.IsZero() {
			t.Errorf("roth rebalance must be a non-event, got %+v", tax)
		}
		// Half the position moved, so half of each basis component.
		assertApprox(t, led.Holding("roth-fund").SeasonedBasis, dec(1500), "source seasoned")
		assertApprox(t, led.Holding("roth-other").SeasonedBasis, dec(6500), "target seasoned")
		assertApprox(t, led.Holding("roth-other").UnseasonedBasis(), dec(1000), "target unseasoned")
	})

	t.Run("taxable sale realizes gain, proceeds are fresh basis", func(t *testing.T) {
		led := ledgerFixture()
		resolved, tax := led.Rebalance("taxable-fund", "taxable-other", dec(5000))
		// Half out: 3000 basis recovered, 2000 gain.
		if !resolved.Equal(dec(5000)) {
			t.Fatalf("expected 5000, got %s", resolved)
		}
		assertApprox(t, tax.CapitalGains, dec(2000), "realized gain")
		assertApprox(t, led.Holding("taxable-other").CostBasis, dec(5000), "proceeds re-enter as fresh basis")
	})
}

func TestLedger_ApplyReturn_RothWriteDown(t *testing.T) {
	led := ledgerFixture()
	h := led.Holding("roth-fund")

	// A 50% drawdown leaves 5000 against 5000 of basis: intact, barely.
	change := led.ApplyReturn(h, -0.5)
	assertApprox(t, change, dec(-5000), "change")
	assertApprox(t, h.SeasonedBasis.Add(h.UnseasonedBasis()), dec(5000), "basis at balance")

	// Another drawdown writes basis down, unseasoned lots first.
	led.ApplyReturn(h, -0.2)
	assertApprox(t, h.Balance, dec(4000), "balance")
	assertApprox(t, h.UnseasonedBasis(), dec(1000), "unseasoned written down first")
	assertApprox(t, h.SeasonedBasis, dec(3000), "seasoned untouched until lots are gone")
}

func TestLedger_WithdrawHoldingUntaxed(t *testing.T) {
	led := ledgerFixture()

	resolved := led.WithdrawHoldingUntaxed("trad-fund", dec(8000))
	if !resolved.Equal(dec(8000)) {
		t.Fatalf("expected 8000, got %s", resolved)
	}
	if !led.Holding("trad-fund").Balance.Equal(dec(92000)) {
		t.Errorf("expected 92000, got %s", led.Holding("trad-fund").Balance)
	}

	// On a taxable source the basis still leaves pro rata.
	led.WithdrawHoldingUntaxed("taxable-fund", dec(5000))
	assertApprox(t, led.Holding("taxable-fund").CostBasis, dec(3000), "remaining basis")
}

func TestLedger_Totals(t *testing.T) {
	led := ledgerFixture()

	if !led.TotalCash().Equal(dec(25000)) {
		t.Errorf("expected cash 25000, got %s", led.TotalCash())
	}
	if !led.TotalBalance().Equal(dec(140000)) {
		t.Errorf("expected total 140000, got %s", led.TotalBalance())
	}
	if !led.TraditionalBalanceFor("p1").Equal(dec(100000)) {
		t.Errorf("expected traditional 100000, got %s", led.TraditionalBalanceFor("p1"))
	}
}

package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/engine"
	"github.com/retiresim/retirecast/internal/engine/tables"
)

// runSnapshot is a minimal runnable household: one person, one cash
// account, one traditional holding, embedded policy tables, flat market.
func runSnapshot(t *testing.T, years int, birthYear int) *domain.Snapshot {
	t.Helper()
	policies, err := tables.DefaultTaxPolicies()
	if err != nil {
		t.Fatalf("default tax policies: %v", err)
	}
	brackets, err := tables.DefaultSSBrackets()
	if err != nil {
		t.Fatalf("default ss brackets: %v", err)
	}
	return &domain.Snapshot{
		ScenarioID: "scenario-test",
		Start:      time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Years:      years,
		People: []domain.Person{
			{
				ID:           "p1",
				Name:         "Alex",
				BirthDate:    time.Date(birthYear, time.January, 1, 0, 0, 0, 0, time.UTC),
				FilingStatus: domain.FilingSingle,
			},
		},
		CashAccounts: []domain.CashAccount{
			{ID: "checking", Name: "Checking", Balance: dec(50000)},
		},
		InvestmentAccounts: []domain.InvestmentAccount{
			{ID: "ira", Name: "IRA", PersonID: "p1", TaxType: domain.TaxTraditional},
		},
		Holdings: []domain.Holding{
			{ID: "trad-fund", InvestmentAccountID: "ira", Name: "Trad fund", Balance: dec(100000)},
		},
		Market:      domain.MarketStrategy{Kind: domain.MarketFixed, DefaultAnnualReturn: 0},
		TaxPolicies: policies,
		SSBrackets:  brackets,
		RMDStartAge: 73,
	}
}

func moduleExplanation(t *testing.T, month domain.MonthExplanation, name string) domain.ModuleExplanation {
	t.Helper()
	for _, m := range month.Modules {
		if m.Module == name {
			return m
		}
	}
	t.Fatalf("month %d has no module %q", month.MonthIndex, name)
	return domain.ModuleExplanation{}
}

func TestSimulator_ZeroYears(t *testing.T) {
	snap := runSnapshot(t, 0, 1960)

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result, got nil")
	}
	if result.Timeline == nil || result.MonthlyTimeline == nil || result.Explanations == nil {
		t.Error("expected allocated empty slices, got nil")
	}
	if len(result.Timeline) != 0 || len(result.MonthlyTimeline) != 0 || len(result.Explanations) != 0 {
		t.Error("expected empty result for a zero-year horizon")
	}
}

func TestSimulator_TimelineShape(t *testing.T) {
	snap := runSnapshot(t, 2, 1960)

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.MonthlyTimeline) != 24 {
		t.Errorf("expected 24 monthly points, got %d", len(result.MonthlyTimeline))
	}
	if len(result.Timeline) != 2 {
		t.Errorf("expected 2 yearly points, got %d", len(result.Timeline))
	}
	if len(result.Explanations) != 24 {
		t.Errorf("expected 24 month explanations, got %d", len(result.Explanations))
	}
	for i, e := range result.Explanations {
		if e.MonthIndex != i {
			t.Fatalf("expected contiguous month indices, got %d at position %d", e.MonthIndex, i)
		}
		if len(e.Modules) != 13 {
			t.Errorf("month %d: expected 13 module transcripts, got %d", i, len(e.Modules))
		}
		if len(e.Balances) == 0 {
			t.Errorf("month %d: expected a balance snapshot", i)
		}
	}
	if result.Timeline[0].Date.Month() != time.December {
		t.Errorf("expected year point at December, got %s", result.Timeline[0].Date.Month())
	}
}

func TestSimulator_PartialFinalYear(t *testing.T) {
	snap := runSnapshot(t, 1, 1960)
	snap.Start = time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Oct 2025 through Sep 2026: December closes 2025, and the final month
	// closes the stub 2026 year.
	if len(result.Timeline) != 2 {
		t.Fatalf("expected 2 year closes, got %d", len(result.Timeline))
	}
	if result.Timeline[1].Date.Month() != time.September {
		t.Errorf("expected final stub year to close in September, got %s", result.Timeline[1].Date.Month())
	}
}

func TestSimulator_Determinism(t *testing.T) {
	build := func() *domain.Snapshot {
		snap := runSnapshot(t, 3, 1960)
		snap.Market = domain.MarketStrategy{
			Kind:   domain.MarketRandom,
			Mean:   0.07,
			StdDev: 0.15,
			Seed:   42,
		}
		return snap
	}

	first, err := engine.NewSimulator().Run(context.Background(), build())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.NewSimulator().Run(context.Background(), build())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Error("two runs over the same snapshot and seed must be identical")
	}
}

func TestSimulator_SeedChangesRandomRuns(t *testing.T) {
	build := func(seed int64) *domain.Snapshot {
		snap := runSnapshot(t, 3, 1960)
		snap.Market = domain.MarketStrategy{
			Kind:   domain.MarketRandom,
			Mean:   0.07,
			StdDev: 0.15,
			Seed:   seed,
		}
		return snap
	}

	first, err := engine.NewSimulator().Run(context.Background(), build(1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := engine.NewSimulator().Run(context.Background(), build(2))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if first.MonthlyTimeline[35].TotalBalance.Equal(second.MonthlyTimeline[35].TotalBalance) {
		t.Error("different seeds should diverge over three years of random returns")
	}
}

func TestSimulator_InvalidSnapshot(t *testing.T) {
	snap := runSnapshot(t, 1, 1960)
	snap.Holdings[0].InvestmentAccountID = "no-such-account"

	_, err := engine.NewSimulator().Run(context.Background(), snap)
	if !errors.Is(err, domain.ErrUnresolvedReference) {
		t.Errorf("expected ErrUnresolvedReference, got %v", err)
	}
}

func TestSimulator_MissingTaxPolicyFailsTheRun(t *testing.T) {
	snap := runSnapshot(t, 1, 1960)
	snap.TaxPolicies = []domain.TaxPolicy{
		{Year: 2030, FilingStatus: domain.FilingSingle},
	}

	_, err := engine.NewSimulator().Run(context.Background(), snap)
	if !errors.Is(err, domain.ErrNoTaxPolicy) {
		t.Errorf("expected ErrNoTaxPolicy, got %v", err)
	}
}

func TestSimulator_Cancellation(t *testing.T) {
	snap := runSnapshot(t, 30, 1960)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.NewSimulator().Run(ctx, snap)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulator_WorkIncomeAndContributions(t *testing.T) {
	snap := runSnapshot(t, 1, 1980)
	snap.WorkStrategies = []domain.WorkStrategy{
		{
			ID:       "work1",
			PersonID: "p1",
			Periods: []domain.WorkPeriod{
				{
					Start:                time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
					End:                  time.Date(2040, time.January, 1, 0, 0, 0, 0, time.UTC),
					MonthlySalary:        dec(5000),
					TraditionalMonthly:   dec(1000),
					TraditionalHoldingID: "trad-fund",
					DepositCashAccountID: "checking",
				},
			},
		},
	}
	snap.Bundles = []domain.StrategyBundle{
		{ID: "b1", PersonID: "p1", WorkStrategyID: "work1"},
	}

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Pre-tax contributions are excluded from taxable earned income.
	year := result.Timeline[0].YearLedger
	assertApprox(t, year.EarnedIncome, dec(12*4000), "earned income")
	if !year.TaxPaid.IsPositive() {
		t.Error("expected a tax liability on a year of salary")
	}

	month := result.MonthlyTimeline[0]
	assertApprox(t, month.Contributions, dec(1000), "monthly contribution")
	assertApprox(t, result.Explanations[0].Contributions[domain.TaxTraditional], dec(1000), "traditional contribution bucket")

	// Contributions grow the holding.
	assertApprox(t, result.Timeline[0].Contribution, dec(12000), "yearly contribution")
}

func TestSimulator_RMDNotForcedBeforeStartAge(t *testing.T) {
	snap := runSnapshot(t, 1, 1960) // age 65 all year

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, month := range result.Explanations {
		rmd := moduleExplanation(t, month, "rmd")
		if len(rmd.Actions) != 0 {
			t.Fatalf("month %d: RMD forced before start age", month.MonthIndex)
		}
	}
}

func TestSimulator_RMDForcedAtYearEnd(t *testing.T) {
	snap := runSnapshot(t, 1, 1950) // age 75 in December 2025

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, month := range result.Explanations[:11] {
		rmd := moduleExplanation(t, month, "rmd")
		if len(rmd.Actions) != 0 {
			t.Fatalf("month %d: RMD must only run at year end", month.MonthIndex)
		}
	}

	december := moduleExplanation(t, result.Explanations[11], "rmd")
	if len(december.Actions) != 1 {
		t.Fatalf("expected exactly one forced distribution, got %d", len(december.Actions))
	}
	action := december.Actions[0]
	if action.Kind != domain.ActionWithdraw {
		t.Errorf("expected a withdrawal, got %s", action.Kind)
	}
	if action.SourceID != "trad-fund" {
		t.Errorf("expected the traditional holding as source, got %s", action.SourceID)
	}
	if action.TargetID != "checking" {
		t.Errorf("expected the cash account as target, got %s", action.TargetID)
	}
	// Year-start balance 100000 over the age-75 divisor 24.6.
	want := dec(100000).Div(dec(24.6)).Round(2)
	if !action.Resolved.Equal(want) {
		t.Errorf("expected statutory minimum %s, got %s", want, action.Resolved)
	}

	// The distribution is ordinary income in the same year.
	assertApprox(t, result.Timeline[0].YearLedger.OrdinaryIncome, want, "ordinary income")
}

func TestSimulator_ConversionWithUnknownPersonFailsValidation(t *testing.T) {
	snap := runSnapshot(t, 1, 1960)
	snap.InvestmentAccounts = append(snap.InvestmentAccounts, domain.InvestmentAccount{
		ID: "roth", Name: "Roth IRA", PersonID: "p1", TaxType: domain.TaxRoth,
	})
	snap.Holdings = append(snap.Holdings, domain.Holding{
		ID: "roth-fund", InvestmentAccountID: "roth", Name: "Roth fund",
	})
	rate := 0.22
	snap.Conversions = []domain.ConversionStrategy{
		{
			ID:                "conv1",
			PersonID:          "nobody",
			FromHoldingID:     "trad-fund",
			ToHoldingID:       "roth-fund",
			FillToBracketRate: &rate,
			ConversionMonth:   time.January,
		},
	}

	// A fill-to-bracket election needs the owner's filing status; a dangling
	// person reference must fail validation before any month executes.
	_, err := engine.NewSimulator().Run(context.Background(), snap)
	if !errors.Is(err, domain.ErrUnresolvedReference) {
		t.Errorf("expected ErrUnresolvedReference, got %v", err)
	}
}

// TestSimulator_CashConservation reconciles every month's transcript against
// its balance snapshot: the cashflow amounts, the cash legs of account
// actions, and cash interest must together explain the net change in total
// cash exactly.
func TestSimulator_CashConservation(t *testing.T) {
	snap := runSnapshot(t, 2, 1950)
	snap.CashAccounts[0].AnnualYield = 0.04
	snap.InvestmentAccounts = append(snap.InvestmentAccounts, domain.InvestmentAccount{
		ID: "brokerage", Name: "Brokerage", PersonID: "p1", TaxType: domain.TaxTaxable,
	})
	snap.Holdings = append(snap.Holdings, domain.Holding{
		ID: "index-fund", InvestmentAccountID: "brokerage", Name: "Index fund",
		Balance: dec(30000), CostBasis: dec(20000),
	})
	snap.WorkStrategies = []domain.WorkStrategy{
		{
			ID:       "work1",
			PersonID: "p1",
			Periods: []domain.WorkPeriod{
				{
					Start:                time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
					End:                  time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
					MonthlySalary:        dec(3000),
					TraditionalMonthly:   dec(500),
					TraditionalHoldingID: "trad-fund",
					DepositCashAccountID: "checking",
				},
			},
		},
	}
	snap.SpendingStrategies = []domain.SpendingStrategy{
		{
			ID:   "sp1",
			Name: "base",
			LineItems: []domain.SpendingLineItem{
				{ID: "li1", SpendingStrategyID: "sp1", Label: "Living", Priority: domain.SpendingNeed, MonthlyAmount: dec(4500)},
			},
		},
	}
	snap.Events = []domain.PlannedEvent{
		{ID: "ev1", Label: "Inheritance", Date: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), Amount: dec(40000), Taxable: true},
	}
	snap.CashBuffer = &domain.CashBufferStrategy{
		ID:                   "cb1",
		Floor:                dec(10000),
		Target:               dec(15000),
		Ceiling:              dec(80000),
		SweepHoldingID:       "index-fund",
		PrimaryCashAccountID: "checking",
	}
	snap.Bundles = []domain.StrategyBundle{
		{ID: "b1", PersonID: "p1", WorkStrategyID: "work1", SpendingStrategyID: "sp1"},
	}

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	cashIDs := map[string]bool{"checking": true}
	prev := dec(50000)
	for _, month := range result.Explanations {
		recorded := decimal.Zero
		for _, mod := range month.Modules {
			for _, cf := range mod.Cashflows {
				recorded = recorded.Add(cf.Amount)
			}
			for _, a := range mod.Actions {
				if cashIDs[a.TargetID] {
					recorded = recorded.Add(a.Resolved)
				}
				if cashIDs[a.SourceID] {
					recorded = recorded.Sub(a.Resolved)
				}
			}
			for _, mr := range mod.MarketReturns {
				if mr.Kind == domain.KindCash {
					recorded = recorded.Add(mr.Change)
				}
			}
		}

		cash := decimal.Zero
		for _, b := range month.Balances {
			if b.Kind == domain.KindCash {
				cash = cash.Add(b.Balance)
			}
		}

		actual := cash.Sub(prev)
		if actual.Sub(recorded).Abs().GreaterThan(dec(0.01)) {
			t.Fatalf("month %d: transcripts move cash by %s but balances moved %s", month.MonthIndex, recorded, actual)
		}
		prev = cash
	}
}

func TestSimulator_QCDCountsTowardRMD(t *testing.T) {
	snap := runSnapshot(t, 1, 1950) // age 75, RMD due in December
	snap.Charitable = []domain.CharitableStrategy{
		{ID: "qcd1", PersonID: "p1", Label: "Parish gift", AnnualGift: dec(2000), GiftMonth: time.June, SourceHoldingID: "trad-fund"},
	}
	snap.Bundles = []domain.StrategyBundle{
		{ID: "b1", PersonID: "p1", CharitableStrategyIDs: []string{"qcd1"}},
	}

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	june := moduleExplanation(t, result.Explanations[5], "charitable")
	if len(june.Actions) != 1 || !june.Actions[0].Resolved.Equal(dec(2000)) {
		t.Fatalf("expected a 2000 qualified charitable distribution in June, got %+v", june.Actions)
	}

	// The QCD satisfies part of the requirement, so December only forces the
	// remainder, and the gifted amount never shows up as ordinary income.
	december := moduleExplanation(t, result.Explanations[11], "rmd")
	if len(december.Actions) != 1 {
		t.Fatalf("expected one forced distribution, got %d", len(december.Actions))
	}
	want := dec(100000).Div(dec(24.6)).Round(2).Sub(dec(2000))
	assertApprox(t, december.Actions[0].Resolved, want, "forced distribution net of the gift")
	assertApprox(t, result.Timeline[0].YearLedger.OrdinaryIncome, want, "ordinary income")
}

func TestSimulator_FixedMarketGrowsBalances(t *testing.T) {
	snap := runSnapshot(t, 1, 1960)
	snap.Market = domain.MarketStrategy{Kind: domain.MarketFixed, DefaultAnnualReturn: 0.12}

	result, err := engine.NewSimulator().Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// (1.12)^(1/12) compounded for 12 months returns the annual rate.
	var holding decimal.Decimal
	for _, b := range result.Explanations[11].Balances {
		if b.ID == "trad-fund" {
			holding = b.Balance
		}
	}
	diff := holding.Sub(dec(112000)).Abs()
	if diff.GreaterThan(dec(1)) {
		t.Errorf("expected ~112000 after a 12%% year, got %s", holding)
	}
}

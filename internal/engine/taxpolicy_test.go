package engine_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/engine"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func assertApprox(t *testing.T, got, want decimal.Decimal, msg string) {
	t.Helper()
	if got.Sub(want).Abs().GreaterThan(dec(0.01)) {
		t.Errorf("%s: got %s, want %s", msg, got, want)
	}
}

func testPolicies() []domain.TaxPolicy {
	return []domain.TaxPolicy{
		{
			Year:         2024,
			FilingStatus: domain.FilingSingle,
			Brackets: []domain.TaxBracket{
				{UpTo: decPtr(10000), Rate: 0.10},
				{UpTo: decPtr(50000), Rate: 0.20},
				{Rate: 0.30},
			},
			CapitalGains: []domain.TaxBracket{
				{UpTo: decPtr(40000), Rate: 0},
				{Rate: 0.15},
			},
			StandardDeduction: dec(14600),
			InflationRate:     0.10,
		},
		{
			Year:              2020,
			FilingStatus:      domain.FilingSingle,
			Brackets:          []domain.TaxBracket{{Rate: 0.10}},
			StandardDeduction: dec(12000),
			InflationRate:     0.02,
		},
		{
			Year:              2024,
			FilingStatus:      domain.FilingMarriedJoint,
			Brackets:          []domain.TaxBracket{{Rate: 0.10}},
			StandardDeduction: dec(29200),
			InflationRate:     0.10,
		},
	}
}

func TestResolveTaxPolicy(t *testing.T) {
	policies := testPolicies()

	t.Run("exact year is unscaled", func(t *testing.T) {
		p, err := engine.ResolveTaxPolicy(policies, 2024, domain.FilingSingle)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if !p.StandardDeduction.Equal(dec(14600)) {
			t.Errorf("expected unscaled deduction 14600, got %s", p.StandardDeduction)
		}
		if !p.Brackets[0].UpTo.Equal(dec(10000)) {
			t.Errorf("expected unscaled threshold 10000, got %s", p.Brackets[0].UpTo)
		}
	})

	t.Run("later year scales by compounded inflation", func(t *testing.T) {
		p, err := engine.ResolveTaxPolicy(policies, 2026, domain.FilingSingle)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		// Two years of 10% inflation: factor 1.21.
		assertApprox(t, p.StandardDeduction, dec(14600*1.21), "deduction")
		assertApprox(t, *p.Brackets[0].UpTo, dec(12100), "first threshold")
		assertApprox(t, *p.Brackets[1].UpTo, dec(60500), "second threshold")
		if p.Brackets[2].UpTo != nil {
			t.Error("top bracket must stay open-ended")
		}
	})

	t.Run("picks the most recent policy at or before the year", func(t *testing.T) {
		p, err := engine.ResolveTaxPolicy(policies, 2022, domain.FilingSingle)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		// 2020 policy, not 2024. Two years at 2%.
		assertApprox(t, p.StandardDeduction, dec(12000*1.02*1.02), "deduction")
	})

	t.Run("filing statuses resolve independently", func(t *testing.T) {
		p, err := engine.ResolveTaxPolicy(policies, 2024, domain.FilingMarriedJoint)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if !p.StandardDeduction.Equal(dec(29200)) {
			t.Errorf("expected joint deduction 29200, got %s", p.StandardDeduction)
		}
	})

	t.Run("year before every policy is an error", func(t *testing.T) {
		_, err := engine.ResolveTaxPolicy(policies, 2019, domain.FilingSingle)
		if !errors.Is(err, domain.ErrNoTaxPolicy) {
			t.Errorf("expected ErrNoTaxPolicy, got %v", err)
		}
	})
}

func TestOrdinaryTax(t *testing.T) {
	brackets := []domain.TaxBracket{
		{UpTo: decPtr(10000), Rate: 0.10},
		{UpTo: decPtr(50000), Rate: 0.20},
		{Rate: 0.30},
	}

	tests := []struct {
		name    string
		taxable float64
		want    float64
	}{
		{"zero", 0, 0},
		{"negative", -500, 0},
		{"inside first bracket", 5000, 500},
		{"at first threshold", 10000, 1000},
		{"spanning two brackets", 30000, 1000 + 4000},
		{"into the open bracket", 70000, 1000 + 8000 + 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.OrdinaryTax(dec(tt.taxable), brackets)
			assertApprox(t, got, dec(tt.want), "tax")
		})
	}
}

func TestCapitalGainsTax(t *testing.T) {
	brackets := []domain.TaxBracket{
		{UpTo: decPtr(40000), Rate: 0},
		{Rate: 0.15},
	}

	tests := []struct {
		name     string
		gains    float64
		ordinary float64
		want     float64
	}{
		{"no gains", 0, 30000, 0},
		{"losses", -5000, 30000, 0},
		{"entirely in zero bracket", 10000, 0, 0},
		{"stacked over the threshold", 20000, 30000, 1500},
		{"ordinary already past threshold", 10000, 60000, 1500},
		{"negative ordinary floors at zero", 10000, -5000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.CapitalGainsTax(dec(tt.gains), dec(tt.ordinary), brackets)
			assertApprox(t, got, dec(tt.want), "tax")
		})
	}
}

func TestBracketTop(t *testing.T) {
	policy := &domain.TaxPolicy{
		Brackets: []domain.TaxBracket{
			{UpTo: decPtr(10000), Rate: 0.10},
			{UpTo: decPtr(50000), Rate: 0.22},
			{Rate: 0.30},
		},
	}

	if top, ok := engine.BracketTop(policy, 0.22); !ok || !top.Equal(dec(50000)) {
		t.Errorf("expected (50000, true), got (%s, %v)", top, ok)
	}
	if _, ok := engine.BracketTop(policy, 0.30); ok {
		t.Error("open-ended bracket must report no top")
	}
	if _, ok := engine.BracketTop(policy, 0.99); ok {
		t.Error("unknown rate must report no top")
	}
}

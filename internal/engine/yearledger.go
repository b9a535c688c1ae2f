package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// YearLedger accumulates the tax-relevant totals of one calendar year. It is
// reset at each year boundary and closed out by the taxes module; after
// closing it is never mutated.
type YearLedger struct {
	Year                   int
	OrdinaryIncome         decimal.Decimal
	CapitalGains           decimal.Decimal
	Deductions             decimal.Decimal
	TaxExemptIncome        decimal.Decimal
	SocialSecurityBenefits decimal.Decimal
	EarnedIncome           decimal.Decimal
	PenaltyBase            decimal.Decimal
	Penalties              decimal.Decimal
	TaxPaid                decimal.Decimal

	// TraditionalWithdrawals tracks voluntary distributions per person so
	// the RMD module only forces what is still owed.
	TraditionalWithdrawals map[string]decimal.Decimal
	// YearStartTraditional is each person's traditional balance at the
	// start of the year, the base of the RMD computation.
	YearStartTraditional map[string]decimal.Decimal

	closed bool
}

// NewYearLedger opens a year ledger, capturing the RMD base balances.
func NewYearLedger(year int, led *Ledger, snap *domain.Snapshot) *YearLedger {
	yl := &YearLedger{
		Year:                   year,
		TraditionalWithdrawals: make(map[string]decimal.Decimal),
		YearStartTraditional:   make(map[string]decimal.Decimal),
	}
	for _, p := range snap.People {
		yl.YearStartTraditional[p.ID] = led.TraditionalBalanceFor(p.ID)
	}
	return yl
}

// AddCashflow folds a cashflow's tax character into the year.
func (yl *YearLedger) AddCashflow(cf domain.Cashflow) {
	if yl.closed {
		return
	}
	yl.OrdinaryIncome = yl.OrdinaryIncome.Add(cf.OrdinaryIncome)
	yl.CapitalGains = yl.CapitalGains.Add(cf.CapitalGains)
	yl.Deductions = yl.Deductions.Add(cf.Deduction)
	yl.TaxExemptIncome = yl.TaxExemptIncome.Add(cf.TaxExempt)
	switch cf.Category {
	case domain.CategorySocialSecurity:
		yl.SocialSecurityBenefits = yl.SocialSecurityBenefits.Add(cf.Amount)
	case domain.CategoryWork:
		yl.EarnedIncome = yl.EarnedIncome.Add(cf.OrdinaryIncome)
	}
}

// AddActionTax folds a resolved action's tax character into the year.
// personID attributes traditional withdrawals for RMD tracking; pass the
// empty string for actions with no owner.
func (yl *YearLedger) AddActionTax(action domain.Action, personID string, traditionalSource bool) {
	if yl.closed || action.Tax == nil {
		return
	}
	yl.OrdinaryIncome = yl.OrdinaryIncome.Add(action.Tax.OrdinaryIncome)
	yl.CapitalGains = yl.CapitalGains.Add(action.Tax.CapitalGains)
	yl.TaxExemptIncome = yl.TaxExemptIncome.Add(action.Tax.TaxExempt)
	yl.PenaltyBase = yl.PenaltyBase.Add(action.Tax.PenaltyBase)
	if traditionalSource && action.Kind == domain.ActionWithdraw && personID != "" {
		yl.TraditionalWithdrawals[personID] = yl.TraditionalWithdrawals[personID].Add(action.Resolved)
	}
}

// Close freezes the ledger after the taxes module has recorded liability.
func (yl *YearLedger) Close() {
	yl.closed = true
}

// Totals exports the year for the timeline point.
func (yl *YearLedger) Totals() domain.YearLedgerTotals {
	return domain.YearLedgerTotals{
		OrdinaryIncome:         yl.OrdinaryIncome,
		CapitalGains:           yl.CapitalGains,
		Deductions:             yl.Deductions,
		TaxExemptIncome:        yl.TaxExemptIncome,
		SocialSecurityBenefits: yl.SocialSecurityBenefits,
		EarnedIncome:           yl.EarnedIncome,
		Penalties:              yl.Penalties,
		TaxPaid:                yl.TaxPaid,
	}
}

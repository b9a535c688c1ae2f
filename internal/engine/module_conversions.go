package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// ConversionModule moves the elected annual amount from traditional to
// Roth in the conversion month. A fill-to-bracket election sizes the
// conversion to the headroom left under the named bracket's top, given the
// year's ordinary income so far. Converted amounts are always ordinary
// income, never penalized, and start a fresh five-year clock.
type ConversionModule struct{}

func (m *ConversionModule) Name() string { return "conversions" }

func (m *ConversionModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	for _, strat := range mc.Snapshot.Conversions {
		if mc.Date.Month() != strat.ConversionMonth {
			continue
		}

		amount := strat.AnnualAmount
		if strat.FillToBracketRate != nil {
			person := mc.Snapshot.PersonByID(strat.PersonID)
			policy, err := ResolveTaxPolicy(mc.Snapshot.TaxPolicies, mc.Date.Year(), person.FilingStatus)
			if err != nil {
				return nil, err
			}
			top, ok := BracketTop(policy, *strat.FillToBracketRate)
			if !ok {
				res.checkpoint("noBracketForRate", money(decimal.Zero))
				continue
			}
			// Headroom against taxable income: the standard deduction
			// shelters the first slice of ordinary income.
			headroom := top.Add(policy.StandardDeduction).Sub(yl.OrdinaryIncome)
			amount = decimal.Max(headroom, decimal.Zero)
			res.input("bracketTop", money(top))
			res.input("ordinaryIncomeYTD", money(yl.OrdinaryIncome))
		}
		if !amount.IsPositive() {
			continue
		}

		resolved, tax := led.Convert(strat.FromHoldingID, strat.ToHoldingID, amount, mc.Index)
		if resolved.IsPositive() {
			res.action(domain.Action{
				Kind:     domain.ActionConvert,
				Nominal:  amount,
				Resolved: resolved,
				SourceID: strat.FromHoldingID,
				TargetID: strat.ToHoldingID,
				Tax:      &tax,
			})
			res.checkpoint("converted", money(resolved))
		}
	}
	return res, nil
}

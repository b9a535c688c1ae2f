package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// WorkModule lands salary for every active work period: payroll retirement
// contributions go straight into their holdings, the remainder into the
// period's cash account. Runs first so every later module sees the month's
// earned cash.
type WorkModule struct{}

func (m *WorkModule) Name() string { return "work" }

func (m *WorkModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	for _, bundle := range mc.Snapshot.Bundles {
		if bundle.WorkStrategyID == "" {
			continue
		}
		strat := mc.Snapshot.WorkStrategyByID(bundle.WorkStrategyID)
		person := mc.Snapshot.PersonByID(bundle.PersonID)
		for _, period := range strat.Periods {
			if mc.Date.Before(period.Start) || mc.Date.After(period.End) {
				continue
			}
			raiseYears := mc.Date.Year() - period.Start.Year()
			salary := period.MonthlySalary.Mul(compound(period.AnnualRaise, raiseYears))

			trad := decimal.Min(period.TraditionalMonthly, salary)
			roth := decimal.Min(period.RothMonthly, salary.Sub(trad))
			takeHome := salary.Sub(trad).Sub(roth)

			led.DepositCash(period.DepositCashAccountID, takeHome)
			if trad.IsPositive() && period.TraditionalHoldingID != "" {
				led.DepositHolding(period.TraditionalHoldingID, trad, mc.Index)
				res.action(domain.Action{
					Kind:     domain.ActionDeposit,
					Nominal:  trad,
					Resolved: trad,
					TargetID: period.TraditionalHoldingID,
				})
			}
			if roth.IsPositive() && period.RothHoldingID != "" {
				led.DepositHolding(period.RothHoldingID, roth, mc.Index)
				res.action(domain.Action{
					Kind:     domain.ActionDeposit,
					Nominal:  roth,
					Resolved: roth,
					TargetID: period.RothHoldingID,
				})
			}

			// Pre-tax contributions reduce taxable wages; Roth
			// contributions do not.
			res.cashflow(domain.Cashflow{
				Label:          fmt.Sprintf("Salary: %s", person.Name),
				Category:       domain.CategoryWork,
				Amount:         takeHome,
				OrdinaryIncome: salary.Sub(trad),
			})
			res.input("salary", money(salary))
			res.checkpoint("takeHome", money(takeHome))
		}
	}
	return res, nil
}

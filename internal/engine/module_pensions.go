package engine

import (
	"github.com/retiresim/retirecast/internal/domain"
)

// PensionModule deposits defined-benefit checks, with each pension's own
// cost-of-living adjustment compounding annually from its start.
type PensionModule struct{}

func (m *PensionModule) Name() string { return "pensions" }

func (m *PensionModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	target := primaryCashAccount(mc.Snapshot)
	if target == "" {
		return res, nil
	}
	for _, bundle := range mc.Snapshot.Bundles {
		for _, pid := range bundle.PensionStrategyIDs {
			pension := mc.Snapshot.PensionStrategyByID(pid)
			if mc.Date.Before(pension.Start) {
				continue
			}
			benefit := pension.MonthlyBenefit.Mul(compound(pension.COLARate, mc.Date.Year()-pension.Start.Year()))
			led.DepositCash(target, benefit)

			cf := domain.Cashflow{
				Label:    pension.Name,
				Category: domain.CategoryPension,
				Amount:   benefit,
			}
			if pension.Taxable {
				cf.OrdinaryIncome = benefit
			}
			res.cashflow(cf)
		}
	}
	return res, nil
}

// primaryCashAccount is where income modules land cash: the cash-buffer
// strategy's primary account when configured, otherwise the snapshot's
// first cash account.
func primaryCashAccount(snap *domain.Snapshot) string {
	if snap.CashBuffer != nil {
		return snap.CashBuffer.PrimaryCashAccountID
	}
	if len(snap.CashAccounts) > 0 {
		return snap.CashAccounts[0].ID
	}
	return ""
}

package engine

import (
	"fmt"

	"github.com/retiresim/retirecast/internal/domain"
)

// SocialSecurityModule deposits the monthly benefit for each person who has
// claimed. The benefit is fixed at claim time and only COLA-adjusted each
// January afterward; the taxable portion is settled by the taxes module at
// year end, so the cashflow here carries no tax components.
type SocialSecurityModule struct{}

func (m *SocialSecurityModule) Name() string { return "social-security" }

func (m *SocialSecurityModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	target := primaryCashAccount(mc.Snapshot)
	if target == "" {
		return res, nil
	}
	for _, bundle := range mc.Snapshot.Bundles {
		if bundle.SocialSecurityStrategyID == "" {
			continue
		}
		strat := mc.Snapshot.SocialSecurityStrategyByID(bundle.SocialSecurityStrategyID)
		if mc.Date.Before(strat.ClaimDate) {
			continue
		}
		person := mc.Snapshot.PersonByID(bundle.PersonID)

		base := MonthlyBenefitAt(person, strat, mc.Snapshot)
		if !base.IsPositive() {
			continue
		}
		colaYears := mc.Date.Year() - strat.ClaimDate.Year()
		benefit := base.Mul(compound(strat.COLARate, colaYears))

		led.DepositCash(target, benefit)
		res.cashflow(domain.Cashflow{
			Label:    fmt.Sprintf("Social Security: %s", person.Name),
			Category: domain.CategorySocialSecurity,
			Amount:   benefit,
		})
		res.input("baseBenefit", money(base))
	}
	return res, nil
}

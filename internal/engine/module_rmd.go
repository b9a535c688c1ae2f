package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/engine/tables"
)

// RMDModule forces the required minimum distribution in December for every
// person at or past the start age. The requirement is the year-start
// traditional balance over the Uniform Lifetime Table divisor; voluntary
// distributions already taken this year count toward it, so the module only
// withdraws the remainder.
type RMDModule struct{}

func (m *RMDModule) Name() string { return "rmd" }

func (m *RMDModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	if !mc.YearEnd {
		return res, nil
	}
	startAge := mc.Snapshot.RMDStartAge
	target := primaryCashAccount(mc.Snapshot)

	for i := range mc.Snapshot.People {
		person := &mc.Snapshot.People[i]
		age := mc.AgeOf(person)
		if age < startAge {
			continue
		}
		divisor, ok := tables.RMDDivisor(age)
		if !ok {
			return nil, fmt.Errorf("no RMD divisor for age %d", age)
		}
		base := yl.YearStartTraditional[person.ID]
		if !base.IsPositive() {
			continue
		}
		required := base.Div(decimal.NewFromFloat(divisor)).Round(2)
		taken := yl.TraditionalWithdrawals[person.ID]
		remaining := required.Sub(taken)

		res.input(fmt.Sprintf("required:%s", person.Name), money(required))
		res.input(fmt.Sprintf("taken:%s", person.Name), money(taken))
		if !remaining.IsPositive() {
			res.checkpoint(fmt.Sprintf("satisfied:%s", person.Name), money(taken))
			continue
		}

		forced := m.forceDistribution(mc, led, res, person, target, remaining)
		if forced.LessThan(remaining) {
			res.checkpoint(fmt.Sprintf("underfunded:%s", person.Name), money(remaining.Sub(forced)))
		}
	}
	return res, nil
}

func (m *RMDModule) forceDistribution(mc *Context, led *Ledger, res *ModuleResult, person *domain.Person, target string, remaining decimal.Decimal) decimal.Decimal {
	forced := decimal.Zero
	ageMonths := mc.AgeInMonthsOf(person)
	for _, h := range led.HoldingStates() {
		if !remaining.IsPositive() {
			break
		}
		if h.PersonID != person.ID || h.TaxType != domain.TaxTraditional || !h.Balance.IsPositive() {
			continue
		}
		resolved, tax := led.WithdrawHolding(h.HoldingID, remaining, ageMonths)
		if resolved.IsZero() {
			continue
		}
		if target != "" {
			led.DepositCash(target, resolved)
		}
		res.action(domain.Action{
			Kind:     domain.ActionWithdraw,
			Nominal:  remaining,
			Resolved: resolved,
			SourceID: h.HoldingID,
			TargetID: target,
			Tax:      &tax,
		})
		forced = forced.Add(resolved)
		remaining = remaining.Sub(resolved)
	}
	return forced
}

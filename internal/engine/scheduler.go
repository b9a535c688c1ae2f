package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// Simulator drives the month-by-month projection: it owns the ledger state,
// runs the fixed module pipeline each month, folds module records into the
// year ledger, and hands the transcript to the recorder. One run is one
// single-threaded computation; cancellation is honored only between months
// and a cancelled run produces no result.
type Simulator struct {
	modules []Module
}

// NewSimulator builds a simulator with the canonical module pipeline.
func NewSimulator() *Simulator {
	return &Simulator{modules: Modules()}
}

// Run projects the snapshot across its horizon and returns the result. A
// module error aborts the run immediately; no module runs after a failure.
func (s *Simulator) Run(ctx context.Context, snap *domain.Snapshot) (*domain.Result, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	recorder := NewRecorder()
	months := snap.Years * 12
	if months == 0 {
		return recorder.Result(), nil
	}

	led := NewLedger(snap)
	start := time.Date(snap.Start.Year(), snap.Start.Month(), 1, 0, 0, 0, 0, time.UTC)

	seed := snap.Market.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	var primary *domain.Person
	if len(snap.People) > 0 {
		primary = &snap.People[0]
	}

	yl := NewYearLedger(start.Year(), led, snap)
	yearContribution := decimal.Zero
	yearSpending := decimal.Zero

	for index := 0; index < months; index++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := start.AddDate(0, index, 0)
		mc := &Context{
			Snapshot:   snap,
			Index:      index,
			Date:       date,
			YearEnd:    date.Month() == time.December || index == months-1,
			FinalMonth: index == months-1,
			Rand:       rng,
		}

		led.SeasonLots(index)

		explanation := domain.MonthExplanation{
			MonthIndex:    index,
			Date:          date,
			Contributions: make(map[domain.TaxType]decimal.Decimal),
		}
		monthContribution := decimal.Zero
		monthSpending := decimal.Zero
		var taxActions []domain.Action

		for _, module := range s.modules {
			res, err := module.Apply(mc, led, yl)
			if err != nil {
				return nil, fmt.Errorf("month %d (%s) module %s: %w", index, date.Format("2006-01"), module.Name(), err)
			}

			isTaxes := module.Name() == "taxes"
			for _, cf := range res.Cashflows {
				yl.AddCashflow(cf)
				if cf.Amount.IsNegative() && !isTaxes {
					monthSpending = monthSpending.Sub(cf.Amount)
				}
			}
			for _, a := range res.Actions {
				if isTaxes {
					// Income realized selling assets to pay tax
					// belongs to the following year; folded after
					// the year closes.
					taxActions = append(taxActions, a)
				} else {
					s.foldAction(led, yl, a)
				}
				if a.Kind == domain.ActionDeposit {
					if h := led.Holding(a.TargetID); h != nil && led.Holding(a.SourceID) == nil {
						monthContribution = monthContribution.Add(a.Resolved)
						explanation.Contributions[h.TaxType] = explanation.Contributions[h.TaxType].Add(a.Resolved)
					}
				}
			}

			explanation.Modules = append(explanation.Modules, domain.ModuleExplanation{
				Module:        module.Name(),
				Inputs:        res.Inputs,
				Checkpoints:   res.Checkpoints,
				Cashflows:     res.Cashflows,
				Actions:       res.Actions,
				MarketReturns: res.MarketReturns,
			})
		}

		explanation.Balances = s.balanceSnapshot(led)
		yearContribution = yearContribution.Add(monthContribution)
		yearSpending = yearSpending.Add(monthSpending)

		age := 0
		if primary != nil {
			age = mc.AgeOf(primary)
		}
		recorder.RecordMonth(explanation, domain.MonthlyTimelinePoint{
			Age:           age,
			Date:          date,
			TotalBalance:  led.TotalBalance(),
			Contributions: monthContribution,
			Spending:      monthSpending,
		})

		if mc.YearEnd {
			recorder.RecordYear(domain.TimelinePoint{
				Age:          age,
				Date:         date,
				Balance:      led.TotalBalance(),
				Contribution: yearContribution,
				Spending:     yearSpending,
				YearLedger:   yl.Totals(),
			})
			yl.Close()

			yl = NewYearLedger(date.Year()+1, led, snap)
			for _, a := range taxActions {
				s.foldAction(led, yl, a)
			}
			yearContribution = decimal.Zero
			yearSpending = decimal.Zero
		}
	}

	return recorder.Result(), nil
}

// foldAction folds a resolved action's tax character into the year ledger.
// Withdrawals from traditional holdings count toward the owner's RMD only
// when the money actually leaves the account (the target is not another
// holding); conversions never count.
func (s *Simulator) foldAction(led *Ledger, yl *YearLedger, a domain.Action) {
	source := led.Holding(a.SourceID)
	personID := ""
	traditionalDistribution := false
	if source != nil {
		personID = source.PersonID
		traditionalDistribution = source.TaxType == domain.TaxTraditional && led.Holding(a.TargetID) == nil
	}
	yl.AddActionTax(a, personID, traditionalDistribution)
}

func (s *Simulator) balanceSnapshot(led *Ledger) []domain.AccountBalance {
	balances := make([]domain.AccountBalance, 0, len(led.CashStates())+len(led.HoldingStates()))
	for _, c := range led.CashStates() {
		balances = append(balances, domain.AccountBalance{
			ID:      c.AccountID,
			Kind:    domain.KindCash,
			Name:    c.Name,
			Balance: c.Balance,
		})
	}
	for _, h := range led.HoldingStates() {
		balances = append(balances, domain.AccountBalance{
			ID:      h.HoldingID,
			Kind:    domain.KindHolding,
			Name:    h.Name,
			Balance: h.Balance,
		})
	}
	return balances
}

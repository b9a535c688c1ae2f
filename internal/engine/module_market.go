package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// MarketReturnsModule applies one month of growth to every holding and to
// interest-bearing cash. Basis never moves with the market; only the
// unrealized-gain residual changes. The random model samples from the
// configured distribution using the run's seeded source, so identical
// snapshots produce identical paths.
type MarketReturnsModule struct{}

func (m *MarketReturnsModule) Name() string { return "market-returns" }

func (m *MarketReturnsModule) Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error) {
	res := &ModuleResult{}
	market := mc.Snapshot.Market

	for _, h := range led.HoldingStates() {
		annual := market.DefaultAnnualReturn
		if h.AnnualReturn != nil {
			annual = *h.AnnualReturn
		}
		var monthly float64
		if market.Kind == domain.MarketRandom {
			monthly = mc.Rand.NormFloat64()*market.StdDev/math.Sqrt(12) + market.Mean/12
		} else {
			monthly = monthlyRate(annual)
		}

		before := h.Balance
		change := led.ApplyReturn(h, monthly)
		res.MarketReturns = append(res.MarketReturns, domain.MarketReturn{
			AccountID: h.HoldingID,
			Kind:      domain.KindHolding,
			Before:    before,
			After:     h.Balance,
			Change:    change,
			Rate:      monthly,
		})
	}

	for _, c := range led.CashStates() {
		if c.Yield == 0 || !c.Balance.IsPositive() {
			continue
		}
		monthly := monthlyRate(c.Yield)
		before := c.Balance
		interest := c.Balance.Mul(decimal.NewFromFloat(monthly))
		c.Balance = c.Balance.Add(interest)
		res.MarketReturns = append(res.MarketReturns, domain.MarketReturn{
			AccountID: c.AccountID,
			Kind:      domain.KindCash,
			Before:    before,
			After:     c.Balance,
			Change:    interest,
			Rate:      monthly,
		})
	}
	return res, nil
}

// monthlyRate converts an annual rate to its monthly equivalent.
func monthlyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12) - 1
}

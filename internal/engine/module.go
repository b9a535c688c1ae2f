package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// Module is one step of the monthly pipeline. Apply mutates the ledger and
// returns the records describing exactly what it did; the financial effects
// must be re-derivable from the returned cashflows, actions and market
// returns alone. A module either fully commits its month or returns an
// error, which aborts the run.
type Module interface {
	Name() string
	Apply(mc *Context, led *Ledger, yl *YearLedger) (*ModuleResult, error)
}

// ModuleResult is the narration side of one module's month.
type ModuleResult struct {
	Inputs        []domain.NamedValue
	Checkpoints   []domain.NamedValue
	Cashflows     []domain.Cashflow
	Actions       []domain.Action
	MarketReturns []domain.MarketReturn
}

func (r *ModuleResult) input(name string, value string) {
	r.Inputs = append(r.Inputs, domain.NamedValue{Name: name, Value: value})
}

func (r *ModuleResult) checkpoint(name string, value string) {
	r.Checkpoints = append(r.Checkpoints, domain.NamedValue{Name: name, Value: value})
}

func (r *ModuleResult) cashflow(cf domain.Cashflow) {
	r.Cashflows = append(r.Cashflows, cf)
}

func (r *ModuleResult) action(a domain.Action) {
	r.Actions = append(r.Actions, a)
}

// money formats a decimal for explanation output.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Modules returns the canonical module pipeline. Order is a correctness
// requirement: income modules land cash before spending draws it, the cash
// buffer sees the month's net cash position, RMD runs before market returns
// and taxes observe the whole year, last.
func Modules() []Module {
	return []Module{
		&WorkModule{},
		&PensionModule{},
		&EventsModule{},
		&HealthcareModule{},
		&CharitableModule{},
		&SocialSecurityModule{},
		&SpendingModule{},
		&CashBufferModule{},
		&RebalancingModule{},
		&ConversionModule{},
		&RMDModule{},
		&MarketReturnsModule{},
		&TaxesModule{},
	}
}

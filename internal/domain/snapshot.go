package domain

import (
	"fmt"
	"time"
)

// Snapshot is the consistent, read-only bundle of everything one run needs.
// It is assembled once from stored entities and never mutated while the
// engine reads it.
type Snapshot struct {
	ScenarioID string    `json:"scenarioId"`
	Start      time.Time `json:"start"`
	Years      int       `json:"years"`

	People             []Person                 `json:"people"`
	CashAccounts       []CashAccount            `json:"cashAccounts"`
	InvestmentAccounts []InvestmentAccount      `json:"investmentAccounts"`
	Holdings           []Holding                `json:"holdings"`
	WorkStrategies     []WorkStrategy           `json:"workStrategies,omitempty"`
	SocialSecurity     []SocialSecurityStrategy `json:"socialSecurityStrategies,omitempty"`
	SpendingStrategies []SpendingStrategy       `json:"spendingStrategies,omitempty"`
	PensionStrategies  []PensionStrategy        `json:"pensionStrategies,omitempty"`
	Healthcare         []HealthcareStrategy     `json:"healthcareStrategies,omitempty"`
	Charitable         []CharitableStrategy     `json:"charitableStrategies,omitempty"`
	Events             []PlannedEvent           `json:"events,omitempty"`
	CashBuffer         *CashBufferStrategy      `json:"cashBufferStrategy,omitempty"`
	Rebalancing        []RebalancingStrategy    `json:"rebalancingStrategies,omitempty"`
	Conversions        []ConversionStrategy     `json:"conversionStrategies,omitempty"`
	Market             MarketStrategy           `json:"marketStrategy"`
	Bundles            []StrategyBundle         `json:"bundles"`

	TaxPolicies   []TaxPolicy             `json:"taxPolicies"`
	SSBrackets    []SocialSecurityBracket `json:"ssBrackets"`
	WageIndex     []WageIndexEntry        `json:"wageIndex,omitempty"`
	BendPoints    *BendPoints             `json:"bendPoints,omitempty"`
	InflationRate float64                 `json:"inflationRate"`
	RMDStartAge   int                     `json:"rmdStartAge"`
}

// PersonByID returns the person with the given ID, or nil.
func (s *Snapshot) PersonByID(id string) *Person {
	for i := range s.People {
		if s.People[i].ID == id {
			return &s.People[i]
		}
	}
	return nil
}

// CashAccountByID returns the cash account with the given ID, or nil.
func (s *Snapshot) CashAccountByID(id string) *CashAccount {
	for i := range s.CashAccounts {
		if s.CashAccounts[i].ID == id {
			return &s.CashAccounts[i]
		}
	}
	return nil
}

// InvestmentAccountByID returns the investment account with the given ID, or nil.
func (s *Snapshot) InvestmentAccountByID(id string) *InvestmentAccount {
	for i := range s.InvestmentAccounts {
		if s.InvestmentAccounts[i].ID == id {
			return &s.InvestmentAccounts[i]
		}
	}
	return nil
}

// HoldingByID returns the holding with the given ID, or nil.
func (s *Snapshot) HoldingByID(id string) *Holding {
	for i := range s.Holdings {
		if s.Holdings[i].ID == id {
			return &s.Holdings[i]
		}
	}
	return nil
}

// BundleForPerson returns the strategy bundle for a person, or nil.
func (s *Snapshot) BundleForPerson(personID string) *StrategyBundle {
	for i := range s.Bundles {
		if s.Bundles[i].PersonID == personID {
			return &s.Bundles[i]
		}
	}
	return nil
}

// WorkStrategyByID returns the work strategy with the given ID, or nil.
func (s *Snapshot) WorkStrategyByID(id string) *WorkStrategy {
	for i := range s.WorkStrategies {
		if s.WorkStrategies[i].ID == id {
			return &s.WorkStrategies[i]
		}
	}
	return nil
}

// SocialSecurityStrategyByID returns the strategy with the given ID, or nil.
func (s *Snapshot) SocialSecurityStrategyByID(id string) *SocialSecurityStrategy {
	for i := range s.SocialSecurity {
		if s.SocialSecurity[i].ID == id {
			return &s.SocialSecurity[i]
		}
	}
	return nil
}

// SpendingStrategyByID returns the strategy with the given ID, or nil.
func (s *Snapshot) SpendingStrategyByID(id string) *SpendingStrategy {
	for i := range s.SpendingStrategies {
		if s.SpendingStrategies[i].ID == id {
			return &s.SpendingStrategies[i]
		}
	}
	return nil
}

// PensionStrategyByID returns the strategy with the given ID, or nil.
func (s *Snapshot) PensionStrategyByID(id string) *PensionStrategy {
	for i := range s.PensionStrategies {
		if s.PensionStrategies[i].ID == id {
			return &s.PensionStrategies[i]
		}
	}
	return nil
}

// Validate checks that every identifier reference inside the snapshot
// resolves. An unresolved reference is a fatal input error reported before
// any month executes.
func (s *Snapshot) Validate() error {
	if s.Years < 0 {
		return fmt.Errorf("%w: years must be >= 0", ErrInvalidSnapshot)
	}
	for _, acct := range s.InvestmentAccounts {
		if s.PersonByID(acct.PersonID) == nil {
			return unresolved("investment account", acct.ID, "person", acct.PersonID)
		}
		switch acct.TaxType {
		case TaxTraditional, TaxRoth, TaxTaxable:
		default:
			return fmt.Errorf("%w: investment account %s has tax type %q", ErrInvalidSnapshot, acct.ID, acct.TaxType)
		}
	}
	for _, h := range s.Holdings {
		if s.InvestmentAccountByID(h.InvestmentAccountID) == nil {
			return unresolved("holding", h.ID, "investment account", h.InvestmentAccountID)
		}
		if h.Balance.IsNegative() {
			return fmt.Errorf("%w: holding %s has negative balance", ErrInvalidSnapshot, h.ID)
		}
		if h.CostBasis.GreaterThan(h.Balance) {
			return fmt.Errorf("%w: holding %s basis exceeds balance", ErrInvalidSnapshot, h.ID)
		}
	}
	for _, b := range s.Bundles {
		if s.PersonByID(b.PersonID) == nil {
			return unresolved("bundle", b.ID, "person", b.PersonID)
		}
		if b.WorkStrategyID != "" && s.WorkStrategyByID(b.WorkStrategyID) == nil {
			return unresolved("bundle", b.ID, "work strategy", b.WorkStrategyID)
		}
		if b.SocialSecurityStrategyID != "" && s.SocialSecurityStrategyByID(b.SocialSecurityStrategyID) == nil {
			return unresolved("bundle", b.ID, "social security strategy", b.SocialSecurityStrategyID)
		}
		if b.SpendingStrategyID != "" && s.SpendingStrategyByID(b.SpendingStrategyID) == nil {
			return unresolved("bundle", b.ID, "spending strategy", b.SpendingStrategyID)
		}
		for _, pid := range b.PensionStrategyIDs {
			if s.PensionStrategyByID(pid) == nil {
				return unresolved("bundle", b.ID, "pension strategy", pid)
			}
		}
	}
	for _, ws := range s.WorkStrategies {
		if s.PersonByID(ws.PersonID) == nil {
			return unresolved("work strategy", ws.ID, "person", ws.PersonID)
		}
		for _, p := range ws.Periods {
			if s.CashAccountByID(p.DepositCashAccountID) == nil {
				return unresolved("work strategy", ws.ID, "cash account", p.DepositCashAccountID)
			}
			if p.TraditionalHoldingID != "" && s.HoldingByID(p.TraditionalHoldingID) == nil {
				return unresolved("work strategy", ws.ID, "holding", p.TraditionalHoldingID)
			}
			if p.RothHoldingID != "" && s.HoldingByID(p.RothHoldingID) == nil {
				return unresolved("work strategy", ws.ID, "holding", p.RothHoldingID)
			}
		}
	}
	for _, c := range s.Conversions {
		if (c.PersonID != "" || c.FillToBracketRate != nil) && s.PersonByID(c.PersonID) == nil {
			return unresolved("conversion strategy", c.ID, "person", c.PersonID)
		}
		if s.HoldingByID(c.FromHoldingID) == nil {
			return unresolved("conversion strategy", c.ID, "holding", c.FromHoldingID)
		}
		if s.HoldingByID(c.ToHoldingID) == nil {
			return unresolved("conversion strategy", c.ID, "holding", c.ToHoldingID)
		}
	}
	for _, r := range s.Rebalancing {
		for _, t := range r.Targets {
			if s.HoldingByID(t.HoldingID) == nil {
				return unresolved("rebalancing strategy", r.ID, "holding", t.HoldingID)
			}
		}
	}
	for _, c := range s.Charitable {
		if c.SourceHoldingID != "" && s.HoldingByID(c.SourceHoldingID) == nil {
			return unresolved("charitable strategy", c.ID, "holding", c.SourceHoldingID)
		}
	}
	if s.CashBuffer != nil {
		if s.CashAccountByID(s.CashBuffer.PrimaryCashAccountID) == nil {
			return unresolved("cash buffer strategy", s.CashBuffer.ID, "cash account", s.CashBuffer.PrimaryCashAccountID)
		}
		if s.CashBuffer.SweepHoldingID != "" && s.HoldingByID(s.CashBuffer.SweepHoldingID) == nil {
			return unresolved("cash buffer strategy", s.CashBuffer.ID, "holding", s.CashBuffer.SweepHoldingID)
		}
	}
	return nil
}

func unresolved(kind, id, refKind, refID string) error {
	return fmt.Errorf("%w: %s %s references unknown %s %q", ErrUnresolvedReference, kind, id, refKind, refID)
}

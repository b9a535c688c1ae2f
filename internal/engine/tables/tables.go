// Package tables loads the published policy schedules the engine depends
// on: the IRS Uniform Lifetime Table for RMD divisors, the statutory
// provisional-income thresholds, PIA bend points and default federal tax
// brackets. The schedules ship embedded so a bare scenario can run without
// supplying its own tables.
package tables

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/retiresim/retirecast/internal/domain"
)

//go:embed data/rmd_divisors.yaml
var rmdDivisorsYAML []byte

//go:embed data/ss_brackets.yaml
var ssBracketsYAML []byte

//go:embed data/bend_points.yaml
var bendPointsYAML []byte

//go:embed data/tax_policy.yaml
var taxPolicyYAML []byte

var (
	once        sync.Once
	loadErr     error
	rmdDivisors map[int]float64
	rmdMaxAge   int
	ssBrackets  []domain.SocialSecurityBracket
	bendPoints  domain.BendPoints
	taxPolicies []domain.TaxPolicy
)

func load() error {
	once.Do(func() {
		loadErr = loadAll()
	})
	return loadErr
}

func loadAll() error {
	var rmd struct {
		Divisors map[int]float64 `yaml:"divisors"`
	}
	if err := yaml.Unmarshal(rmdDivisorsYAML, &rmd); err != nil {
		return fmt.Errorf("parse rmd divisors: %w", err)
	}
	rmdDivisors = rmd.Divisors
	for age := range rmdDivisors {
		if age > rmdMaxAge {
			rmdMaxAge = age
		}
	}

	var ss struct {
		Brackets []struct {
			Year           int     `yaml:"year"`
			FilingStatus   string  `yaml:"filingStatus"`
			LowerThreshold float64 `yaml:"lowerThreshold"`
			UpperThreshold float64 `yaml:"upperThreshold"`
			Tier1Rate      float64 `yaml:"tier1Rate"`
			Tier2Rate      float64 `yaml:"tier2Rate"`
		} `yaml:"brackets"`
	}
	if err := yaml.Unmarshal(ssBracketsYAML, &ss); err != nil {
		return fmt.Errorf("parse ss brackets: %w", err)
	}
	for _, b := range ss.Brackets {
		ssBrackets = append(ssBrackets, domain.SocialSecurityBracket{
			Year:           b.Year,
			FilingStatus:   domain.FilingStatus(b.FilingStatus),
			LowerThreshold: decimal.NewFromFloat(b.LowerThreshold),
			UpperThreshold: decimal.NewFromFloat(b.UpperThreshold),
			Tier1Rate:      b.Tier1Rate,
			Tier2Rate:      b.Tier2Rate,
		})
	}

	var bp struct {
		Year   int     `yaml:"year"`
		First  float64 `yaml:"first"`
		Second float64 `yaml:"second"`
	}
	if err := yaml.Unmarshal(bendPointsYAML, &bp); err != nil {
		return fmt.Errorf("parse bend points: %w", err)
	}
	bendPoints = domain.BendPoints{Year: bp.Year, First: bp.First, Second: bp.Second}

	var tp struct {
		Policies []struct {
			Year              int     `yaml:"year"`
			FilingStatus      string  `yaml:"filingStatus"`
			StandardDeduction float64 `yaml:"standardDeduction"`
			InflationRate     float64 `yaml:"inflationRate"`
			Brackets          []struct {
				UpTo *float64 `yaml:"upTo"`
				Rate float64  `yaml:"rate"`
			} `yaml:"brackets"`
			CapitalGains []struct {
				UpTo *float64 `yaml:"upTo"`
				Rate float64  `yaml:"rate"`
			} `yaml:"capitalGains"`
		} `yaml:"policies"`
	}
	if err := yaml.Unmarshal(taxPolicyYAML, &tp); err != nil {
		return fmt.Errorf("parse tax policy: %w", err)
	}
	for _, p := range tp.Policies {
		policy := domain.TaxPolicy{
			Year:              p.Year,
			FilingStatus:      domain.FilingStatus(p.FilingStatus),
			StandardDeduction: decimal.NewFromFloat(p.StandardDeduction),
			InflationRate:     p.InflationRate,
		}
		for _, b := range p.Brackets {
			policy.Brackets = append(policy.Brackets, toBracket(b.UpTo, b.Rate))
		}
		for _, b := range p.CapitalGains {
			policy.CapitalGains = append(policy.CapitalGains, toBracket(b.UpTo, b.Rate))
		}
		taxPolicies = append(taxPolicies, policy)
	}
	return nil
}

func toBracket(upTo *float64, rate float64) domain.TaxBracket {
	b := domain.TaxBracket{Rate: rate}
	if upTo != nil {
		d := decimal.NewFromFloat(*upTo)
		b.UpTo = &d
	}
	return b
}

// RMDDivisor returns the Uniform Lifetime Table divisor for an age. Ages
// past the end of the table keep the final divisor; ages before the first
// entry return false.
func RMDDivisor(age int) (float64, bool) {
	if err := load(); err != nil {
		return 0, false
	}
	if age > rmdMaxAge {
		age = rmdMaxAge
	}
	d, ok := rmdDivisors[age]
	return d, ok
}

// DefaultSSBrackets returns the statutory provisional-income brackets.
func DefaultSSBrackets() ([]domain.SocialSecurityBracket, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return ssBrackets, nil
}

// DefaultBendPoints returns the published PIA bend points.
func DefaultBendPoints() (*domain.BendPoints, error) {
	if err := load(); err != nil {
		return nil, err
	}
	bp := bendPoints
	return &bp, nil
}

// DefaultTaxPolicies returns the embedded federal bracket tables.
func DefaultTaxPolicies() ([]domain.TaxPolicy, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return taxPolicies, nil
}

package tables_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/retiresim/retirecast/internal/domain"
	"github.com/retiresim/retirecast/internal/engine/tables"
)

func TestRMDDivisor(t *testing.T) {
	d, ok := tables.RMDDivisor(73)
	require.True(t, ok)
	require.Equal(t, 26.5, d)

	d, ok = tables.RMDDivisor(75)
	require.True(t, ok)
	require.Equal(t, 24.6, d)

	// Ages past the end of the table keep the final divisor.
	d, ok = tables.RMDDivisor(130)
	require.True(t, ok)
	require.Equal(t, 3.7, d)

	// Below the table's first age there is no divisor.
	_, ok = tables.RMDDivisor(70)
	require.False(t, ok)
}

func TestDefaultTaxPolicies(t *testing.T) {
	policies, err := tables.DefaultTaxPolicies()
	require.NoError(t, err)
	require.Len(t, policies, 2)

	var single *domain.TaxPolicy
	for i := range policies {
		if policies[i].FilingStatus == domain.FilingSingle {
			single = &policies[i]
		}
	}
	require.NotNil(t, single)
	require.Equal(t, 2024, single.Year)
	require.True(t, single.StandardDeduction.Equal(decimal.NewFromInt(14600)))
	require.Len(t, single.Brackets, 7)
	require.Equal(t, 0.10, single.Brackets[0].Rate)

	// The top bracket is open-ended.
	last := single.Brackets[len(single.Brackets)-1]
	require.Nil(t, last.UpTo)
	require.Equal(t, 0.37, last.Rate)

	require.Len(t, single.CapitalGains, 3)
	require.Equal(t, 0.0, single.CapitalGains[0].Rate)
}

func TestDefaultSSBrackets(t *testing.T) {
	brackets, err := tables.DefaultSSBrackets()
	require.NoError(t, err)
	require.Len(t, brackets, 2)

	for _, b := range brackets {
		require.Equal(t, 1994, b.Year)
		require.Equal(t, 0.5, b.Tier1Rate)
		require.Equal(t, 0.85, b.Tier2Rate)
		require.True(t, b.LowerThreshold.LessThan(b.UpperThreshold))
	}
}

func TestDefaultBendPoints(t *testing.T) {
	bp, err := tables.DefaultBendPoints()
	require.NoError(t, err)
	require.Equal(t, 2024, bp.Year)
	require.Equal(t, 1174.0, bp.First)
	require.Equal(t, 7078.0, bp.Second)
}

package engine

import (
	"github.com/shopspring/decimal"

	"github.com/retiresim/retirecast/internal/domain"
)

// rothSeasoningMonths is the five-year clock on Roth contributions and
// conversions.
const rothSeasoningMonths = 60

// penaltyAgeMonths is age 59 and a half expressed in months.
const penaltyAgeMonths = 59*12 + 6

// CashState is the mutable balance of one cash account.
type CashState struct {
	AccountID string
	Name      string
	Balance   decimal.Decimal
	Yield     float64
}

// RothLot is an unseasoned Roth contribution awaiting its five-year clock.
type RothLot struct {
	MonthIndex int
	Amount     decimal.Decimal
}

// HoldingState is the mutable balance of one holding, with cost-basis and
// seasoning tracking. CostBasis covers taxable holdings; SeasonedBasis and
// UnseasonedLots cover Roth holdings. Traditional holdings are entirely
// pre-tax and carry no basis.
type HoldingState struct {
	HoldingID      string
	AccountID      string
	PersonID       string
	Name           string
	TaxType        domain.TaxType
	Balance        decimal.Decimal
	CostBasis      decimal.Decimal
	SeasonedBasis  decimal.Decimal
	UnseasonedLots []RothLot
	AnnualReturn   *float64
}

// UnseasonedBasis sums the pending Roth lots.
func (h *HoldingState) UnseasonedBasis() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range h.UnseasonedLots {
		total = total.Add(lot.Amount)
	}
	return total
}

// Ledger is the run-private mutable state: every balance the modules touch.
// It is created from a snapshot's opening balances and owned exclusively by
// the scheduler; iteration order follows snapshot order so runs are
// deterministic.
type Ledger struct {
	cash        []*CashState
	holdings    []*HoldingState
	cashByID    map[string]*CashState
	holdingByID map[string]*HoldingState
}

// NewLedger builds opening ledger state from a snapshot.
func NewLedger(snap *domain.Snapshot) *Ledger {
	led := &Ledger{
		cashByID:    make(map[string]*CashState),
		holdingByID: make(map[string]*HoldingState),
	}
	for _, acct := range snap.CashAccounts {
		cs := &CashState{
			AccountID: acct.ID,
			Name:      acct.Name,
			Balance:   acct.Balance,
			Yield:     acct.AnnualYield,
		}
		led.cash = append(led.cash, cs)
		led.cashByID[acct.ID] = cs
	}
	for _, h := range snap.Holdings {
		acct := snap.InvestmentAccountByID(h.InvestmentAccountID)
		hs := &HoldingState{
			HoldingID:     h.ID,
			AccountID:     acct.ID,
			PersonID:      acct.PersonID,
			Name:          h.Name,
			TaxType:       acct.TaxType,
			Balance:       h.Balance,
			CostBasis:     h.CostBasis,
			SeasonedBasis: h.SeasonedBasis,
			AnnualReturn:  h.AnnualReturn,
		}
		if acct.TaxType == domain.TaxRoth && h.UnseasonedBasis.IsPositive() {
			// Opening unseasoned basis starts its clock at month zero.
			hs.UnseasonedLots = []RothLot{{MonthIndex: 0, Amount: h.UnseasonedBasis}}
		}
		led.holdings = append(led.holdings, hs)
		led.holdingByID[h.ID] = hs
	}
	return led
}

// Cash returns the state for a cash account, or nil.
func (l *Ledger) Cash(accountID string) *CashState {
	return l.cashByID[accountID]
}

// Holding returns the state for a holding, or nil.
func (l *Ledger) Holding(holdingID string) *HoldingState {
	return l.holdingByID[holdingID]
}

// CashStates returns all cash states in snapshot order.
func (l *Ledger) CashStates() []*CashState { return l.cash }

// HoldingStates returns all holding states in snapshot order.
func (l *Ledger) HoldingStates() []*HoldingState { return l.holdings }

// TotalCash sums all cash balances.
func (l *Ledger) TotalCash() decimal.Decimal {
	total := decimal.Zero
	for _, c := range l.cash {
		total = total.Add(c.Balance)
	}
	return total
}

// TotalBalance sums every balance in the ledger.
func (l *Ledger) TotalBalance() decimal.Decimal {
	total := l.TotalCash()
	for _, h := range l.holdings {
		total = total.Add(h.Balance)
	}
	return total
}

// TraditionalBalanceFor sums a person's traditional holdings.
func (l *Ledger) TraditionalBalanceFor(personID string) decimal.Decimal {
	total := decimal.Zero
	for _, h := range l.holdings {
		if h.PersonID == personID && h.TaxType == domain.TaxTraditional {
			total = total.Add(h.Balance)
		}
	}
	return total
}

// DepositCash adds to a cash balance.
func (l *Ledger) DepositCash(accountID string, amount decimal.Decimal) {
	l.cashByID[accountID].Balance = l.cashByID[accountID].Balance.Add(amount)
}

// WithdrawCash removes up to amount from a cash balance and returns what it
// could take. Balances never go negative.
func (l *Ledger) WithdrawCash(accountID string, amount decimal.Decimal) decimal.Decimal {
	c := l.cashByID[accountID]
	resolved := decimal.Min(amount, c.Balance)
	if resolved.IsNegative() {
		resolved = decimal.Zero
	}
	c.Balance = c.Balance.Sub(resolved)
	return resolved
}

// WithdrawCashAcross draws from all cash accounts in snapshot order until
// amount is met or cash is exhausted.
func (l *Ledger) WithdrawCashAcross(amount decimal.Decimal) decimal.Decimal {
	remaining := amount
	taken := decimal.Zero
	for _, c := range l.cash {
		if !remaining.IsPositive() {
			break
		}
		got := l.WithdrawCash(c.AccountID, remaining)
		taken = taken.Add(got)
		remaining = remaining.Sub(got)
	}
	return taken
}

// DepositHolding adds a contribution to a holding. Roth contributions start
// a new unseasoned lot; taxable contributions add cost basis; traditional
// contributions are pre-tax and carry no basis.
func (l *Ledger) DepositHolding(holdingID string, amount decimal.Decimal, monthIndex int) {
	h := l.holdingByID[holdingID]
	h.Balance = h.Balance.Add(amount)
	switch h.TaxType {
	case domain.TaxRoth:
		h.UnseasonedLots = append(h.UnseasonedLots, RothLot{MonthIndex: monthIndex, Amount: amount})
	case domain.TaxTaxable:
		h.CostBasis = h.CostBasis.Add(amount)
	}
}

// WithdrawHolding removes up to amount from a holding and resolves the tax
// character of what came out. ageMonths is the owner's age when the
// withdrawal happens.
//
// Traditional: fully ordinary income, penalized under 59 1/2.
// Taxable: pro-rata basis recovery, the rest is capital gain (or loss).
// Roth: seasoned basis first, then unseasoned lots (oldest first), then
// gains; unseasoned basis is penalized under 59 1/2, gains are ordinary
// income and penalized under 59 1/2.
func (l *Ledger) WithdrawHolding(holdingID string, amount decimal.Decimal, ageMonths int) (decimal.Decimal, domain.ActionTax) {
	h := l.holdingByID[holdingID]
	resolved := decimal.Min(amount, h.Balance)
	if resolved.IsNegative() {
		resolved = decimal.Zero
	}
	var tax domain.ActionTax
	if resolved.IsZero() {
		return resolved, tax
	}

	early := ageMonths < penaltyAgeMonths

	switch h.TaxType {
	case domain.TaxTraditional:
		tax.OrdinaryIncome = resolved
		if early {
			tax.PenaltyBase = resolved
		}
	case domain.TaxTaxable:
		basisOut := resolved.Mul(h.CostBasis).Div(h.Balance)
		tax.CapitalGains = resolved.Sub(basisOut)
		h.CostBasis = h.CostBasis.Sub(basisOut)
	case domain.TaxRoth:
		remaining := resolved

		fromSeasoned := decimal.Min(remaining, h.SeasonedBasis)
		h.SeasonedBasis = h.SeasonedBasis.Sub(fromSeasoned)
		remaining = remaining.Sub(fromSeasoned)

		fromUnseasoned := l.consumeUnseasoned(h, remaining)
		remaining = remaining.Sub(fromUnseasoned)
		if early {
			tax.PenaltyBase = tax.PenaltyBase.Add(fromUnseasoned)
		}

		// Whatever is left came out of gains.
		if remaining.IsPositive() {
			tax.OrdinaryIncome = tax.OrdinaryIncome.Add(remaining)
			if early {
				tax.PenaltyBase = tax.PenaltyBase.Add(remaining)
			}
		}
	}

	h.Balance = h.Balance.Sub(resolved)
	return resolved, tax
}

// WithdrawHoldingUntaxed removes up to amount without creating income or
// penalty. Used for qualified charitable distributions.
func (l *Ledger) WithdrawHoldingUntaxed(holdingID string, amount decimal.Decimal) decimal.Decimal {
	h := l.holdingByID[holdingID]
	resolved := decimal.Min(amount, h.Balance)
	if resolved.IsNegative() {
		resolved = decimal.Zero
	}
	if h.TaxType == domain.TaxTaxable && resolved.IsPositive() {
		basisOut := resolved.Mul(h.CostBasis).Div(h.Balance)
		h.CostBasis = h.CostBasis.Sub(basisOut)
	}
	h.Balance = h.Balance.Sub(resolved)
	return resolved
}

// Convert moves up to amount from a traditional holding into a Roth holding.
// The converted amount is ordinary income but never penalized, and starts a
// fresh five-year lot in the target.
func (l *Ledger) Convert(fromID, toID string, amount decimal.Decimal, monthIndex int) (decimal.Decimal, domain.ActionTax) {
	from := l.holdingByID[fromID]
	resolved := decimal.Min(amount, from.Balance)
	if resolved.IsNegative() {
		resolved = decimal.Zero
	}
	var tax domain.ActionTax
	if resolved.IsZero() {
		return resolved, tax
	}
	from.Balance = from.Balance.Sub(resolved)

	to := l.holdingByID[toID]
	to.Balance = to.Balance.Add(resolved)
	to.UnseasonedLots = append(to.UnseasonedLots, RothLot{MonthIndex: monthIndex, Amount: resolved})

	tax.OrdinaryIncome = resolved
	return resolved, tax
}

// Rebalance moves up to amount between two holdings of the same tax type.
// Inside tax-advantaged accounts this is a non-event; in a taxable bucket
// the sale realizes gain pro rata and the proceeds re-enter as fresh basis.
func (l *Ledger) Rebalance(fromID, toID string, amount decimal.Decimal) (decimal.Decimal, domain.ActionTax) {
	from := l.holdingByID[fromID]
	to := l.holdingByID[toID]
	resolved := decimal.Min(amount, from.Balance)
	if resolved.IsNegative() {
		resolved = decimal.Zero
	}
	var tax domain.ActionTax
	if resolved.IsZero() {
		return resolved, tax
	}

	switch from.TaxType {
	case domain.TaxTaxable:
		basisOut := resolved.Mul(from.CostBasis).Div(from.Balance)
		from.CostBasis = from.CostBasis.Sub(basisOut)
		tax.CapitalGains = resolved.Sub(basisOut)
		to.CostBasis = to.CostBasis.Add(resolved)
	case domain.TaxRoth:
		// Move basis components proportionally; no tax event.
		frac := resolved.Div(from.Balance)
		seasonedOut := from.SeasonedBasis.Mul(frac)
		from.SeasonedBasis = from.SeasonedBasis.Sub(seasonedOut)
		to.SeasonedBasis = to.SeasonedBasis.Add(seasonedOut)
		for i := range from.UnseasonedLots {
			moved := from.UnseasonedLots[i].Amount.Mul(frac)
			from.UnseasonedLots[i].Amount = from.UnseasonedLots[i].Amount.Sub(moved)
			to.UnseasonedLots = append(to.UnseasonedLots, RothLot{
				MonthIndex: from.UnseasonedLots[i].MonthIndex,
				Amount:     moved,
			})
		}
	}

	from.Balance = from.Balance.Sub(resolved)
	to.Balance = to.Balance.Add(resolved)
	return resolved, tax
}

// ApplyReturn grows (or shrinks) one holding by a monthly rate and returns
// the realized change. Basis is untouched by market movement, except that a
// drawdown may force the Roth basis invariant (seasoned + unseasoned <=
// balance) to write basis down, unseasoned lots first.
func (l *Ledger) ApplyReturn(h *HoldingState, monthlyRate float64) decimal.Decimal {
	before := h.Balance
	h.Balance = h.Balance.Mul(decimal.NewFromFloat(1 + monthlyRate))
	if h.Balance.IsNegative() {
		h.Balance = decimal.Zero
	}
	if h.TaxType == domain.TaxRoth {
		l.writeDownRothBasis(h)
	}
	// Taxable basis may exceed balance after a drawdown; that is a real
	// unrealized loss, not an invariant violation.
	return h.Balance.Sub(before)
}

// SeasonLots promotes unseasoned Roth lots whose five-year clock has run.
func (l *Ledger) SeasonLots(monthIndex int) {
	for _, h := range l.holdings {
		if h.TaxType != domain.TaxRoth {
			continue
		}
		kept := h.UnseasonedLots[:0]
		for _, lot := range h.UnseasonedLots {
			if monthIndex-lot.MonthIndex >= rothSeasoningMonths {
				h.SeasonedBasis = h.SeasonedBasis.Add(lot.Amount)
			} else {
				kept = append(kept, lot)
			}
		}
		h.UnseasonedLots = kept
	}
}

func (l *Ledger) consumeUnseasoned(h *HoldingState, want decimal.Decimal) decimal.Decimal {
	taken := decimal.Zero
	kept := h.UnseasonedLots[:0]
	for _, lot := range h.UnseasonedLots {
		need := want.Sub(taken)
		if !need.IsPositive() {
			kept = append(kept, lot)
			continue
		}
		bite := decimal.Min(lot.Amount, need)
		taken = taken.Add(bite)
		lot.Amount = lot.Amount.Sub(bite)
		if lot.Amount.IsPositive() {
			kept = append(kept, lot)
		}
	}
	h.UnseasonedLots = kept
	return taken
}

func (l *Ledger) writeDownRothBasis(h *HoldingState) {
	over := h.SeasonedBasis.Add(h.UnseasonedBasis()).Sub(h.Balance)
	if !over.IsPositive() {
		return
	}
	// Write down unseasoned lots first, newest first, then seasoned.
	for i := len(h.UnseasonedLots) - 1; i >= 0 && over.IsPositive(); i-- {
		bite := decimal.Min(h.UnseasonedLots[i].Amount, over)
		h.UnseasonedLots[i].Amount = h.UnseasonedLots[i].Amount.Sub(bite)
		over = over.Sub(bite)
	}
	kept := h.UnseasonedLots[:0]
	for _, lot := range h.UnseasonedLots {
		if lot.Amount.IsPositive() {
			kept = append(kept, lot)
		}
	}
	h.UnseasonedLots = kept
	if over.IsPositive() {
		h.SeasonedBasis = h.SeasonedBasis.Sub(over)
		if h.SeasonedBasis.IsNegative() {
			h.SeasonedBasis = decimal.Zero
		}
	}
}

package domain

import "time"

// FilingStatus is the tax filing status used to select bracket tables.
type FilingStatus string

const (
	FilingSingle       FilingStatus = "single"
	FilingMarriedJoint FilingStatus = "married_joint"
)

// Person is a household member whose ages, earnings and elections drive the
// projection.
type Person struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BirthDate    time.Time    `json:"birthDate"`
	FilingStatus FilingStatus `json:"filingStatus"`
	// EarningsHistory holds nominal annual earnings by calendar year,
	// used to derive the Social Security benefit.
	EarningsHistory []YearlyEarnings `json:"earningsHistory,omitempty"`
}

// YearlyEarnings is one year of covered earnings.
type YearlyEarnings struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// AgeAt returns the person's age in whole years at the given date.
func (p *Person) AgeAt(date time.Time) int {
	years := date.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(date) {
		years--
	}
	return years
}

// AgeInMonthsAt returns the person's age in whole months at the given date.
// Early-withdrawal penalty rules hinge on age 59 and a half, so whole years
// are not precise enough.
func (p *Person) AgeInMonthsAt(date time.Time) int {
	months := (date.Year()-p.BirthDate.Year())*12 + int(date.Month()) - int(p.BirthDate.Month())
	if date.Day() < p.BirthDate.Day() {
		months--
	}
	return months
}

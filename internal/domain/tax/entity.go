package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one range of a progressive schedule. FixedAmount is the tax
// owed on every lower bracket. A nil Max marks the unbounded top bracket.
type Bracket struct {
	Label       string
	Min         decimal.Decimal
	Max         *decimal.Decimal
	Rate        decimal.Decimal
	FixedAmount decimal.Decimal
}

// Covers reports whether income is at or below Max. Walking a contiguous
// schedule in order, the first covering bracket is the one income falls in,
// including fractional incomes between one Max and the next Min.
func (b Bracket) Covers(income decimal.Decimal) bool {
	return b.Max == nil || income.LessThanOrEqual(*b.Max)
}

// StatutoryScheme describes a percentage-of-salary contribution.
// A zero Cap means the rate applies to the full gross.
type StatutoryScheme struct {
	Code         string
	Name         string
	Rate         decimal.Decimal
	EmployeeRate decimal.Decimal
	Cap          decimal.Decimal
}

// Config is the immutable tax-year configuration consumed by the calculator.
type Config struct {
	TaxYear          string
	FilerBrackets    []Bracket
	NonFilerBrackets []Bracket
	Pension          StatutoryScheme
	SocialSecurity   StatutoryScheme
}

// Schedule returns the bracket schedule for the filer class.
func (c Config) Schedule(isFiler bool) []Bracket {
	if isFiler {
		return c.FilerBrackets
	}
	return c.NonFilerBrackets
}

// Validate checks that both schedules are contiguous from zero, end in an
// unbounded bracket, and that non-filer rates never undercut filer rates.
func (c Config) Validate() error {
	if err := validateSchedule("filer", c.FilerBrackets); err != nil {
		return err
	}
	if err := validateSchedule("non-filer", c.NonFilerBrackets); err != nil {
		return err
	}
	if len(c.FilerBrackets) != len(c.NonFilerBrackets) {
		return fmt.Errorf("%w: filer and non-filer schedules differ in length", ErrInvalidSchedule)
	}
	for i := range c.FilerBrackets {
		if c.NonFilerBrackets[i].Rate.LessThan(c.FilerBrackets[i].Rate) {
			return fmt.Errorf("%w: non-filer rate below filer rate in bracket %d", ErrInvalidSchedule, i+1)
		}
	}
	if c.Pension.EmployeeRate.GreaterThan(c.Pension.Rate) {
		return fmt.Errorf("%w: %s employee share exceeds total rate", ErrInvalidSchedule, c.Pension.Code)
	}
	return nil
}

func validateSchedule(name string, brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("%w: %s schedule is empty", ErrInvalidSchedule, name)
	}
	if !brackets[0].Min.IsZero() {
		return fmt.Errorf("%w: %s schedule must start at zero", ErrInvalidSchedule, name)
	}
	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		last := i == len(brackets)-1
		if last {
			if b.Max != nil {
				return fmt.Errorf("%w: %s top bracket must be unbounded", ErrInvalidSchedule, name)
			}
			continue
		}
		if b.Max == nil {
			return fmt.Errorf("%w: %s bracket %d is unbounded before the top", ErrInvalidSchedule, name, i+1)
		}
		if !brackets[i+1].Min.Equal(b.Max.Add(one)) {
			return fmt.Errorf("%w: %s bracket %d is not contiguous with bracket %d", ErrInvalidSchedule, name, i+1, i+2)
		}
	}
	return nil
}

// AnnualTaxResult is the outcome of an annual tax lookup.
type AnnualTaxResult struct {
	Tax           decimal.Decimal
	EffectiveRate decimal.Decimal
	BracketLabel  string
}

// Contribution is one statutory scheme split into its shares.
type Contribution struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// Total returns employee plus employer share.
func (c Contribution) Total() decimal.Decimal {
	return c.Employee.Add(c.Employer)
}

// DeductionInput carries the salary structure's own deduction adjustments.
type DeductionInput struct {
	LoanDeduction   decimal.Decimal
	OtherDeductions decimal.Decimal
}

// Breakdown is the full monthly deduction computation for one gross salary.
type Breakdown struct {
	GrossSalary            decimal.Decimal
	IsFiler                bool
	AnnualTax              decimal.Decimal
	IncomeTax              decimal.Decimal
	EffectiveRate          decimal.Decimal
	TaxBracket             string
	PensionEmployee        decimal.Decimal
	PensionEmployer        decimal.Decimal
	SocialSecurityEmployer decimal.Decimal
	LoanDeduction          decimal.Decimal
	OtherDeductions        decimal.Decimal
	TotalDeductions        decimal.Decimal
	NetSalary              decimal.Decimal
}

// EmployerContributions returns the employer-borne statutory cost.
func (b Breakdown) EmployerContributions() decimal.Decimal {
	return b.PensionEmployer.Add(b.SocialSecurityEmployer)
}

package tax

import (
	"context"
	"fmt"

	"github.com/alimalikali/payrollx-server/internal/domain/tax"
	"github.com/shopspring/decimal"
)

var (
	one          = decimal.NewFromInt(1)
	monthsInYear = decimal.NewFromInt(12)
)

// CalculatorImpl computes income tax, statutory contributions and net pay
// from an injected tax.Config. It holds no other state.
type CalculatorImpl struct {
	cfg tax.Config
}

// NewCalculator validates cfg and returns a calculator that owns a private
// copy of the schedules.
func NewCalculator(cfg tax.Config) (*CalculatorImpl, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.FilerBrackets = copyBrackets(cfg.FilerBrackets)
	cfg.NonFilerBrackets = copyBrackets(cfg.NonFilerBrackets)
	return &CalculatorImpl{cfg: cfg}, nil
}

func copyBrackets(in []tax.Bracket) []tax.Bracket {
	out := make([]tax.Bracket, len(in))
	for i, b := range in {
		if b.Max != nil {
			m := *b.Max
			b.Max = &m
		}
		out[i] = b
	}
	return out
}

// Config returns the configuration the calculator was built with.
func (c *CalculatorImpl) Config() tax.Config {
	cfg := c.cfg
	cfg.FilerBrackets = copyBrackets(c.cfg.FilerBrackets)
	cfg.NonFilerBrackets = copyBrackets(c.cfg.NonFilerBrackets)
	return cfg
}

// AnnualTax selects the first bracket covering annualIncome and applies
// fixed + (income - min + 1) * rate, rounded to a whole unit. An income
// between two integer bounds, such as 600000.6, lands in the upper bracket
// with a base below one unit.
func (c *CalculatorImpl) AnnualTax(annualIncome decimal.Decimal, isFiler bool) (tax.AnnualTaxResult, error) {
	if annualIncome.IsNegative() {
		return tax.AnnualTaxResult{}, tax.ErrNegativeIncome
	}

	for _, b := range c.cfg.Schedule(isFiler) {
		if !b.Covers(annualIncome) {
			continue
		}
		if b.Rate.IsZero() {
			return tax.AnnualTaxResult{Tax: decimal.Zero, EffectiveRate: decimal.Zero, BracketLabel: b.Label}, nil
		}

		amount := b.FixedAmount.Add(annualIncome.Sub(b.Min).Add(one).Mul(b.Rate)).Round(0)
		effective := decimal.Zero
		if annualIncome.IsPositive() {
			effective = amount.Div(annualIncome).Round(4)
		}
		return tax.AnnualTaxResult{Tax: amount, EffectiveRate: effective, BracketLabel: b.Label}, nil
	}

	// Unreachable for a validated schedule, which ends in an unbounded bracket.
	return tax.AnnualTaxResult{}, fmt.Errorf("%w: %s", tax.ErrNoBracket, annualIncome.String())
}

// MonthlyTax annualizes monthlyGross, rounds the annual tax, divides by
// twelve and rounds again.
func (c *CalculatorImpl) MonthlyTax(monthlyGross decimal.Decimal, isFiler bool) (decimal.Decimal, tax.AnnualTaxResult, error) {
	annual, err := c.AnnualTax(monthlyGross.Mul(monthsInYear), isFiler)
	if err != nil {
		return decimal.Zero, tax.AnnualTaxResult{}, err
	}
	return annual.Tax.Div(monthsInYear).Round(0), annual, nil
}

// StatutoryContribution applies scheme to grossSalary. The employer share is
// the residual of the total rate after the employee share.
func (c *CalculatorImpl) StatutoryContribution(grossSalary decimal.Decimal, scheme tax.StatutoryScheme) tax.Contribution {
	base := grossSalary
	if scheme.Cap.IsPositive() && base.GreaterThan(scheme.Cap) {
		base = scheme.Cap
	}

	total := base.Mul(scheme.Rate)
	employee := base.Mul(scheme.EmployeeRate)
	return tax.Contribution{
		Employee: employee.Round(0),
		Employer: total.Sub(employee).Round(0),
	}
}

// AllDeductions composes income tax, the employee statutory share and the
// structure's own deductions into a net salary.
func (c *CalculatorImpl) AllDeductions(grossSalary decimal.Decimal, isFiler bool, input tax.DeductionInput) (tax.Breakdown, error) {
	if grossSalary.IsNegative() {
		return tax.Breakdown{}, tax.ErrNegativeIncome
	}

	monthly, annual, err := c.MonthlyTax(grossSalary, isFiler)
	if err != nil {
		return tax.Breakdown{}, err
	}

	pension := c.StatutoryContribution(grossSalary, c.cfg.Pension)
	social := c.StatutoryContribution(grossSalary, c.cfg.SocialSecurity)

	loan := input.LoanDeduction.Round(0)
	other := input.OtherDeductions.Round(0)

	total := monthly.Add(pension.Employee).Add(social.Employee).Add(loan).Add(other)

	return tax.Breakdown{
		GrossSalary:            grossSalary.Round(0),
		IsFiler:                isFiler,
		AnnualTax:              annual.Tax,
		IncomeTax:              monthly,
		EffectiveRate:          annual.EffectiveRate,
		TaxBracket:             annual.BracketLabel,
		PensionEmployee:        pension.Employee,
		PensionEmployer:        pension.Employer,
		SocialSecurityEmployer: social.Employer,
		LoanDeduction:          loan,
		OtherDeductions:        other,
		TotalDeductions:        total,
		NetSalary:              grossSalary.Round(0).Sub(total),
	}, nil
}

// Brackets returns a copy of the schedule for the filer class.
func (c *CalculatorImpl) Brackets(isFiler bool) []tax.Bracket {
	return copyBrackets(c.cfg.Schedule(isFiler))
}

// ========== PREVIEW ==========

func (c *CalculatorImpl) Preview(ctx context.Context, req tax.TaxPreviewRequest) (tax.TaxPreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return tax.TaxPreviewResponse{}, err
	}

	b, err := c.AllDeductions(req.GrossSalary, req.IsFiler, tax.DeductionInput{
		LoanDeduction:   req.LoanDeduction,
		OtherDeductions: req.OtherDeductions,
	})
	if err != nil {
		return tax.TaxPreviewResponse{}, err
	}

	return tax.TaxPreviewResponse{
		GrossSalary:            b.GrossSalary,
		IsFiler:                b.IsFiler,
		AnnualIncome:           req.GrossSalary.Mul(monthsInYear).Round(0),
		AnnualTax:              b.AnnualTax,
		IncomeTax:              b.IncomeTax,
		EffectiveRate:          b.EffectiveRate,
		TaxBracket:             b.TaxBracket,
		EOBIEmployee:           b.PensionEmployee,
		EOBIEmployer:           b.PensionEmployer,
		SocialSecurityEmployer: b.SocialSecurityEmployer,
		LoanDeduction:          b.LoanDeduction,
		OtherDeductions:        b.OtherDeductions,
		TotalDeductions:        b.TotalDeductions,
		NetSalary:              b.NetSalary,
	}, nil
}

func (c *CalculatorImpl) BracketTable(ctx context.Context, isFiler bool) tax.BracketTableResponse {
	brackets := c.Brackets(isFiler)
	result := make([]tax.BracketResponse, 0, len(brackets))
	for _, b := range brackets {
		result = append(result, tax.BracketResponse{
			Label:       b.Label,
			Min:         b.Min,
			Max:         b.Max,
			Rate:        b.Rate,
			FixedAmount: b.FixedAmount,
		})
	}
	return tax.BracketTableResponse{
		TaxYear:  c.cfg.TaxYear,
		IsFiler:  isFiler,
		Brackets: result,
	}
}

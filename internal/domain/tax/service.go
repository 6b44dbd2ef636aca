package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// Calculator is the pure tax and deduction computation used by payroll runs.
type Calculator interface {
	AnnualTax(annualIncome decimal.Decimal, isFiler bool) (AnnualTaxResult, error)
	MonthlyTax(monthlyGross decimal.Decimal, isFiler bool) (decimal.Decimal, AnnualTaxResult, error)
	StatutoryContribution(grossSalary decimal.Decimal, scheme StatutoryScheme) Contribution
	AllDeductions(grossSalary decimal.Decimal, isFiler bool, input DeductionInput) (Breakdown, error)
	Brackets(isFiler bool) []Bracket
}

// Service backs the tax preview and bracket table endpoints.
type Service interface {
	Preview(ctx context.Context, req TaxPreviewRequest) (TaxPreviewResponse, error)
	BracketTable(ctx context.Context, isFiler bool) BracketTableResponse
}

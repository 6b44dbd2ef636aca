package tax

import (
	"github.com/alimalikali/payrollx-server/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type TaxPreviewRequest struct {
	GrossSalary     decimal.Decimal `json:"gross_salary" validate:"gte=0"`
	IsFiler         bool            `json:"is_filer"`
	LoanDeduction   decimal.Decimal `json:"loan_deduction" validate:"gte=0"`
	OtherDeductions decimal.Decimal `json:"other_deductions" validate:"gte=0"`
}

func (r *TaxPreviewRequest) Validate() error {
	return validator.Struct(r)
}

type TaxPreviewResponse struct {
	GrossSalary            decimal.Decimal `json:"gross_salary"`
	IsFiler                bool            `json:"is_filer"`
	AnnualIncome           decimal.Decimal `json:"annual_income"`
	AnnualTax              decimal.Decimal `json:"annual_tax"`
	IncomeTax              decimal.Decimal `json:"income_tax"`
	EffectiveRate          decimal.Decimal `json:"effective_rate"`
	TaxBracket             string          `json:"tax_bracket"`
	EOBIEmployee           decimal.Decimal `json:"eobi_employee"`
	EOBIEmployer           decimal.Decimal `json:"eobi_employer"`
	SocialSecurityEmployer decimal.Decimal `json:"social_security_employer"`
	LoanDeduction          decimal.Decimal `json:"loan_deduction"`
	OtherDeductions        decimal.Decimal `json:"other_deductions"`
	TotalDeductions        decimal.Decimal `json:"total_deductions"`
	NetSalary              decimal.Decimal `json:"net_salary"`
}

type BracketResponse struct {
	Label       string           `json:"label"`
	Min         decimal.Decimal  `json:"min"`
	Max         *decimal.Decimal `json:"max"`
	Rate        decimal.Decimal  `json:"rate"`
	FixedAmount decimal.Decimal  `json:"fixed_amount"`
}

type BracketTableResponse struct {
	TaxYear  string            `json:"tax_year"`
	IsFiler  bool              `json:"is_filer"`
	Brackets []BracketResponse `json:"brackets"`
}

package tax

import "github.com/shopspring/decimal"

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func upper(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultConfig returns the 2023-24 salaried schedule. Non-filer rates carry
// the 10% penalty on every marginal rate.
func DefaultConfig() Config {
	return Config{
		TaxYear: "2023-24",
		FilerBrackets: []Bracket{
			{Label: "0 - 600,000", Min: amount(0), Max: upper(600000), Rate: rate("0"), FixedAmount: amount(0)},
			{Label: "600,001 - 1,200,000", Min: amount(600001), Max: upper(1200000), Rate: rate("0.025"), FixedAmount: amount(0)},
			{Label: "1,200,001 - 2,400,000", Min: amount(1200001), Max: upper(2400000), Rate: rate("0.125"), FixedAmount: amount(15000)},
			{Label: "2,400,001 - 3,600,000", Min: amount(2400001), Max: upper(3600000), Rate: rate("0.225"), FixedAmount: amount(165000)},
			{Label: "3,600,001 - 6,000,000", Min: amount(3600001), Max: upper(6000000), Rate: rate("0.275"), FixedAmount: amount(435000)},
			{Label: "Above 6,000,000", Min: amount(6000001), Max: nil, Rate: rate("0.35"), FixedAmount: amount(1095000)},
		},
		NonFilerBrackets: []Bracket{
			{Label: "0 - 600,000", Min: amount(0), Max: upper(600000), Rate: rate("0"), FixedAmount: amount(0)},
			{Label: "600,001 - 1,200,000", Min: amount(600001), Max: upper(1200000), Rate: rate("0.0275"), FixedAmount: amount(0)},
			{Label: "1,200,001 - 2,400,000", Min: amount(1200001), Max: upper(2400000), Rate: rate("0.1375"), FixedAmount: amount(16500)},
			{Label: "2,400,001 - 3,600,000", Min: amount(2400001), Max: upper(3600000), Rate: rate("0.2475"), FixedAmount: amount(181500)},
			{Label: "3,600,001 - 6,000,000", Min: amount(3600001), Max: upper(6000000), Rate: rate("0.3025"), FixedAmount: amount(478500)},
			{Label: "Above 6,000,000", Min: amount(6000001), Max: nil, Rate: rate("0.385"), FixedAmount: amount(1204500)},
		},
		Pension: StatutoryScheme{
			Code:         "eobi",
			Name:         "EOBI",
			Rate:         rate("0.0075"),
			EmployeeRate: rate("0.0015"),
		},
		SocialSecurity: StatutoryScheme{
			Code:         "social_security",
			Name:         "Social Security",
			Rate:         rate("0.0075"),
			EmployeeRate: decimal.Zero,
			Cap:          amount(25000),
		},
	}
}

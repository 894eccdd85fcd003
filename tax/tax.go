package tax

const (
	// ExemptionThreshold is the annual gross income at or below which no
	// personal income tax or contribution is deducted.
	ExemptionThreshold = 800_000

	PensionRate     = 0.08
	HousingFundRate = 0.025

	ReliefBase = 200_000
	ReliefRate = 0.20
)

type Rate struct {
	Percentage float64
	Width      float64 // -1 for the open-ended top band
	Label      string
}

// PAYERates is the progressive schedule applied to taxable income, consumed
// band by band in order.
var PAYERates = []Rate{
	{Percentage: 0.07, Width: 300_000, Label: "First 300,000"},
	{Percentage: 0.11, Width: 300_000, Label: "Next 300,000"},
	{Percentage: 0.15, Width: 500_000, Label: "Next 500,000"},
	{Percentage: 0.19, Width: 500_000, Label: "Next 500,000"},
	{Percentage: 0.21, Width: 1_600_000, Label: "Next 1,600,000"},
	{Percentage: 0.24, Width: -1, Label: "Above 3,200,000"},
}

type TaxStatement struct {
	Rate    Rate
	Taxable float64
	Tax     float64
}

// CalculateTaxStatements walks every band of rates, including the ones left
// with nothing to tax, so callers always get one statement per band.
func CalculateTaxStatements(taxable float64, rates []Rate) []TaxStatement {
	var ts []TaxStatement

	remain := taxable

	for _, rate := range rates {
		if remain <= 0 {
			ts = append(ts, TaxStatement{
				Rate: rate,
			})

			continue
		}

		// top band, or the remainder fits inside this one
		if rate.Width == -1 || remain <= rate.Width {
			ts = append(ts, TaxStatement{
				Rate:    rate,
				Taxable: remain,
				Tax:     remain * rate.Percentage,
			})
			remain = 0

			continue
		}

		ts = append(ts, TaxStatement{
			Rate:    rate,
			Taxable: rate.Width,
			Tax:     rate.Width * rate.Percentage,
		})
		remain -= rate.Width
	}

	return ts
}

type PayeResult struct {
	Gross         float64
	Tax           float64
	Pension       float64
	HousingFund   float64
	Relief        float64
	TaxableIncome float64
	NetPay        float64
	Statements    []TaxStatement
}

// ComputeIncomeTax applies contributions, the consolidated relief allowance
// and the PAYE schedule to an annual gross income.
// Tax + Pension + HousingFund + NetPay always equals Gross.
func ComputeIncomeTax(grossAnnual float64) PayeResult {
	if grossAnnual <= ExemptionThreshold {
		return PayeResult{
			Gross:  grossAnnual,
			NetPay: grossAnnual,
		}
	}

	pension := grossAnnual * PensionRate
	housing := grossAnnual * HousingFundRate
	relief := ReliefBase + ReliefRate*grossAnnual
	taxable := grossAnnual - pension - housing - relief

	if taxable <= 0 {
		return PayeResult{
			Gross:         grossAnnual,
			Pension:       pension,
			HousingFund:   housing,
			Relief:        relief,
			TaxableIncome: taxable,
			NetPay:        grossAnnual - pension - housing,
		}
	}

	statements := CalculateTaxStatements(taxable, PAYERates)

	var tax float64

	for _, statement := range statements {
		tax += statement.Tax
	}

	return PayeResult{
		Gross:         grossAnnual,
		Tax:           tax,
		Pension:       pension,
		HousingFund:   housing,
		Relief:        relief,
		TaxableIncome: taxable,
		NetPay:        grossAnnual - tax - pension - housing,
		Statements:    statements,
	}
}

type Breakdown struct {
	Tax         float64
	Pension     float64
	HousingFund float64
	NetPay      float64
}

func (r PayeResult) Breakdown() Breakdown {
	return Breakdown{
		Tax:         r.Tax,
		Pension:     r.Pension,
		HousingFund: r.HousingFund,
		NetPay:      r.NetPay,
	}
}

// Monthly spreads the annual figures evenly over twelve pay periods.
func (r PayeResult) Monthly() Breakdown {
	return Breakdown{
		Tax:         r.Tax / 12,
		Pension:     r.Pension / 12,
		HousingFund: r.HousingFund / 12,
		NetPay:      r.NetPay / 12,
	}
}

func ComputePayroll(monthlySalary float64) PayeResult {
	return ComputeIncomeTax(monthlySalary * 12)
}

type PersonalTaxEstimate struct {
	Income float64
	Tax    float64
	Exempt bool
}

// EstimatePersonalTax is the freelancer estimate. It uses the PAYE schedule
// and deductions unchanged.
func EstimatePersonalTax(annualIncome float64) PersonalTaxEstimate {
	return PersonalTaxEstimate{
		Income: annualIncome,
		Tax:    ComputeIncomeTax(annualIncome).Tax,
		Exempt: annualIncome <= ExemptionThreshold,
	}
}

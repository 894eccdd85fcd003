package tax

const (
	LevyRate = 0.04
	CITRate  = 0.30

	// WithholdingRate is the flat WHT medium/large companies deduct from
	// vendor payments. Small companies are exempt.
	WithholdingRate = 0.02
)

// ComputeLevy returns the development levy. Anything other than a
// medium/large company pays nothing.
func ComputeLevy(assessableProfit float64, status CompanyStatus) float64 {
	switch status {
	case StatusMediumLarge:
		return assessableProfit * LevyRate
	case StatusSmall, StatusUnknown:
		return 0
	default:
		return 0
	}
}

func ComputeCIT(assessableProfit float64, status CompanyStatus) float64 {
	switch status {
	case StatusMediumLarge:
		return assessableProfit * CITRate
	case StatusSmall, StatusUnknown:
		return 0
	default:
		return 0
	}
}

func ComputeWithholding(payment float64, status CompanyStatus) float64 {
	if status != StatusMediumLarge {
		return 0
	}

	return payment * WithholdingRate
}

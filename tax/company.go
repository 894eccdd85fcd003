package tax

import "fmt"

// CompanyStatus is the classifier verdict. The zero value is StatusUnknown.
type CompanyStatus int

const (
	StatusUnknown CompanyStatus = iota
	StatusSmall
	StatusMediumLarge
)

const (
	SmallTurnoverLimit    = 100_000_000
	SmallFixedAssetsLimit = 250_000_000
)

// Classify returns StatusSmall only when both values sit strictly below
// their limits.
func Classify(turnover, fixedAssets float64) CompanyStatus {
	if turnover < SmallTurnoverLimit && fixedAssets < SmallFixedAssetsLimit {
		return StatusSmall
	}

	return StatusMediumLarge
}

func (s CompanyStatus) Valid() bool {
	switch s {
	case StatusUnknown, StatusSmall, StatusMediumLarge:
		return true
	default:
		return false
	}
}

func (s CompanyStatus) String() string {
	switch s {
	case StatusUnknown:
		return "UNKNOWN"
	case StatusSmall:
		return "SMALL"
	case StatusMediumLarge:
		return "MEDIUM_LARGE"
	default:
		return fmt.Sprintf("CompanyStatus(%d)", int(s))
	}
}

func (s CompanyStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid company status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *CompanyStatus) UnmarshalText(b []byte) error {
	status, ok := ParseCompanyStatus(string(b))
	if !ok {
		return fmt.Errorf("unknown company status %q", string(b))
	}

	*s = status

	return nil
}

// ParseCompanyStatus maps an unrecognised value to StatusUnknown.
func ParseCompanyStatus(s string) (CompanyStatus, bool) {
	switch s {
	case "UNKNOWN":
		return StatusUnknown, true
	case "SMALL":
		return StatusSmall, true
	case "MEDIUM_LARGE":
		return StatusMediumLarge, true
	default:
		return StatusUnknown, false
	}
}

package access

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleAccountant Role = "Accountant"
	RoleEmployee   Role = "Employee"
)

var Roles = []Role{RoleAdmin, RoleAccountant, RoleEmployee}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleEmployee:
		return true
	default:
		return false
	}
}

type Feature string

const (
	FeatureClassifier Feature = "classifier"
	FeatureVAT        Feature = "vat"
	FeatureLevy       Feature = "levy"
	FeaturePAYE       Feature = "paye"
	FeatureReports    Feature = "reports"
	FeatureAdmin      Feature = "admin"
)

// Features lists every feature in menu order.
var Features = []Feature{
	FeatureClassifier,
	FeatureVAT,
	FeatureLevy,
	FeaturePAYE,
	FeatureReports,
	FeatureAdmin,
}

func (f Feature) Valid() bool {
	switch f {
	case FeatureClassifier, FeatureVAT, FeatureLevy, FeaturePAYE, FeatureReports, FeatureAdmin:
		return true
	default:
		return false
	}
}

func (f Feature) Label() string {
	switch f {
	case FeatureClassifier:
		return "Classifier"
	case FeatureVAT:
		return "VAT Tracker"
	case FeatureLevy:
		return "Levy Calculator"
	case FeaturePAYE:
		return "PAYE Calculator"
	case FeatureReports:
		return "Filing Reports"
	case FeatureAdmin:
		return "Admin Panel"
	default:
		return string(f)
	}
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

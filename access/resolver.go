package access

// Table maps a role to the features it may use, in menu order.
type Table map[Role][]Feature

// DefaultTable returns the built-in role permissions.
func DefaultTable() Table {
	return Table{
		RoleAdmin:      Features,
		RoleAccountant: {FeatureClassifier, FeatureVAT, FeatureLevy, FeaturePAYE, FeatureReports},
		RoleEmployee:   {FeatureClassifier, FeatureVAT},
	}
}

// Resolver answers permission questions against a table that is copied at
// construction and never changed afterwards. It is safe for concurrent use.
type Resolver struct {
	allowed map[Role][]Feature
	index   map[Role]map[Feature]struct{}
}

func NewResolver(table Table) *Resolver {
	r := &Resolver{
		allowed: make(map[Role][]Feature, len(table)),
		index:   make(map[Role]map[Feature]struct{}, len(table)),
	}

	for role, features := range table {
		list := make([]Feature, 0, len(features))
		set := make(map[Feature]struct{}, len(features))

		for _, f := range features {
			if _, dup := set[f]; dup {
				continue
			}
			list = append(list, f)
			set[f] = struct{}{}
		}

		r.allowed[role] = list
		r.index[role] = set
	}

	return r
}

// AllowedFeatures returns a copy of the role's features. Unknown roles get
// none.
func (r *Resolver) AllowedFeatures(role Role) []Feature {
	features := r.allowed[role]

	out := make([]Feature, len(features))
	copy(out, features)

	return out
}

func (r *Resolver) CanAccess(role Role, feature Feature) bool {
	_, ok := r.index[role][feature]
	return ok
}

// Resolve returns the feature a role is actually shown when it asks for
// feature. Anything outside the role's set falls back to the classifier
// instead of failing.
func (r *Resolver) Resolve(role Role, feature Feature) Feature {
	if !r.CanAccess(role, feature) {
		return FeatureClassifier
	}

	switch feature {
	case FeatureClassifier, FeatureVAT, FeatureLevy, FeaturePAYE, FeatureReports, FeatureAdmin:
		return feature
	default:
		return FeatureClassifier
	}
}

// DefaultFeature is the first view a role lands on after login.
func (r *Resolver) DefaultFeature(role Role) Feature {
	if features := r.allowed[role]; len(features) > 0 {
		return features[0]
	}

	return FeatureClassifier
}

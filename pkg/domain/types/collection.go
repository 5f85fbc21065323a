package types

// Collection names one server-backed entity list held by the store
type Collection string

const (
	CollectionFrameworks      Collection = "frameworks"
	CollectionUnifiedControls Collection = "unified_controls"
	CollectionPolicies        Collection = "policies"
	CollectionControlTests    Collection = "control_tests"
	CollectionEvidence        Collection = "evidence"
	CollectionIssues          Collection = "issues"
	CollectionRisks           Collection = "risks"
	CollectionKRIs            Collection = "kris"
	CollectionKCIs            Collection = "kcis"
)

// AllCollections returns every collection in display order
func AllCollections() []Collection {
	return []Collection{
		CollectionFrameworks,
		CollectionUnifiedControls,
		CollectionPolicies,
		CollectionControlTests,
		CollectionEvidence,
		CollectionIssues,
		CollectionRisks,
		CollectionKRIs,
		CollectionKCIs,
	}
}

// IsValid checks if the collection is known
func (c Collection) IsValid() bool {
	switch c {
	case CollectionFrameworks,
		CollectionUnifiedControls,
		CollectionPolicies,
		CollectionControlTests,
		CollectionEvidence,
		CollectionIssues,
		CollectionRisks,
		CollectionKRIs,
		CollectionKCIs:
		return true
	default:
		return false
	}
}

// String returns the string representation of the collection
func (c Collection) String() string {
	return string(c)
}

// ParseCollection parses a string into a Collection
func ParseCollection(s string) (Collection, error) {
	return parseEnum("collection", s, Collection.IsValid)
}

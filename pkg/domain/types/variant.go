package types

// Variant selects which flavour of the GRC backend API is spoken
type Variant string

const (
	// VariantEnterprise is the full API with frameworks, policies, testing and issues
	VariantEnterprise Variant = "enterprise"
	// VariantIntelligence is the lean risk intelligence API (risks, controls, KRIs, KCIs, evidence)
	VariantIntelligence Variant = "intelligence"
)

// AllVariants returns all valid variants
func AllVariants() []Variant {
	return []Variant{VariantEnterprise, VariantIntelligence}
}

// IsValid checks if the variant is valid
func (v Variant) IsValid() bool {
	return v == VariantEnterprise || v == VariantIntelligence
}

// String returns the string representation of the variant
func (v Variant) String() string {
	return string(v)
}

// Collections returns the collections the variant serves
func (v Variant) Collections() []Collection {
	switch v {
	case VariantIntelligence:
		return []Collection{
			CollectionUnifiedControls,
			CollectionEvidence,
			CollectionRisks,
			CollectionKRIs,
			CollectionKCIs,
		}
	case VariantEnterprise:
		return AllCollections()
	default:
		return nil
	}
}

// Serves reports whether the variant serves collection c
func (v Variant) Serves(c Collection) bool {
	for _, have := range v.Collections() {
		if have == c {
			return true
		}
	}
	return false
}

// ParseVariant parses a string into a Variant
func ParseVariant(s string) (Variant, error) {
	return parseEnum("variant", s, Variant.IsValid)
}

package grcapi

import "github.com/secmon-lab/grcboard/pkg/domain/types"

// routes holds the variant specific paths. An empty path means the variant lacks the endpoint.
type routes struct {
	seed           string
	controls       string
	dashboardStats string
	aiSuggest      string
	evidenceUpload string
	enterpriseOnly bool
}

func routesFor(v types.Variant) routes {
	if v == types.VariantIntelligence {
		return routes{
			seed:     "/seed-data",
			controls: "/controls",
		}
	}
	return routes{
		seed:           "/seed-production-data",
		controls:       "/unified-controls",
		dashboardStats: "/dashboard/stats",
		aiSuggest:      "/risks/ai-suggest",
		evidenceUpload: "/evidence/upload",
		enterpriseOnly: true,
	}
}

func (r routes) collectionPath(c types.Collection) string {
	switch c {
	case types.CollectionFrameworks:
		return "/frameworks"
	case types.CollectionUnifiedControls:
		return r.controls
	case types.CollectionPolicies:
		return "/policies"
	case types.CollectionControlTests:
		return "/control-tests"
	case types.CollectionEvidence:
		return "/evidence"
	case types.CollectionIssues:
		return "/issues"
	case types.CollectionRisks:
		return "/risks"
	case types.CollectionKRIs:
		return "/kris"
	case types.CollectionKCIs:
		return "/kcis"
	default:
		return ""
	}
}

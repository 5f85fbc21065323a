package usecase

import (
	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

// Context builders of the AI analysis pages, exported for testing
var (
	RiskKRIContext       = riskKRIContext
	ControlHealthContext = controlHealthContext
	CCFMappingContext    = ccfMappingContext
)

// NewestFirst is exported for testing
var NewestFirst = newestFirst

// TopRisks is exported for testing
func TopRisks(risks []model.Risk, n int) []model.Risk {
	return topRisks(risks, n)
}

// NewGuard returns a standalone in-flight guard for testing
func NewGuard() *Guard {
	return &Guard{g: newGuard()}
}

// Guard wraps the unexported guard for testing
type Guard struct {
	g *guard
}

func (x *Guard) Do(key string, fn func() error) error { return x.g.do(key, fn) }
func (x *Guard) Busy(key string) bool                 { return x.g.busy(key) }

package analyzer

// Export internal functions for testing
var (
	BuildAnalysisPrompt   = buildAnalysisPrompt
	BuildSuggestionPrompt = buildSuggestionPrompt
	ParseAnalysis         = parseAnalysis
	BuildAnalysisSchema   = buildAnalysisSchema
	BuildSuggestionSchema = buildSuggestionSchema
)

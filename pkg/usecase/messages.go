package usecase

import "fmt"

// User-visible notification texts. They never carry error details.
const (
	MsgPlatformInitialized = "Platform initialized successfully"
	MsgInitializeFailed    = "Failed to initialize platform"
	MsgFetchFailed         = "Failed to fetch data"
	MsgRequiredFields      = "Please fill required fields"

	MsgFrameworkEnabled      = "Framework enabled"
	MsgFrameworkDisabled     = "Framework disabled"
	MsgFrameworkUpdateFailed = "Failed to update framework"

	MsgControlCreated      = "Control created successfully"
	MsgControlCreateFailed = "Failed to create control"

	MsgPolicyCreated      = "Policy created"
	MsgPolicyCreateFailed = "Failed to create policy"

	MsgTestPassed           = "Control test passed"
	MsgTestFailed           = "Control test failed"
	MsgIssueAutoCreated     = "Issue automatically created for failed control"
	MsgTestSubmitFailed     = "Failed to submit test"
	MsgSelectFile           = "Please select a file"
	MsgEvidenceUploaded     = "Evidence uploaded successfully"
	MsgEvidenceUploadFailed = "Failed to upload evidence"

	MsgIssueCreated         = "Issue created"
	MsgIssueCreateFailed    = "Failed to create issue"
	MsgIssueUpdateFailed    = "Failed to update issue"
	MsgExceptionAdded       = "Exception added"
	MsgExceptionAddFailed   = "Failed to add exception"
	MsgRiskCreated          = "Risk created successfully"
	MsgRiskCreateFailed     = "Failed to create risk"
	MsgSuggestionsGenerated = "AI suggestions generated"
	MsgSuggestionsFailed    = "Failed to generate AI suggestions"

	MsgKRICreated      = "KRI created"
	MsgKRICreateFailed = "Failed to create KRI"
	MsgKCICreated      = "KCI created"
	MsgKCICreateFailed = "Failed to create KCI"

	MsgRiskKRIAnalyzed       = "AI analysis completed"
	MsgRiskKRIAnalysisFailed = "Failed to generate AI analysis"
	MsgControlImpactAnalyzed = "Control health impact analyzed"
	MsgControlImpactFailed   = "Failed to analyze control impact"
	MsgCCFMappingAnalyzed    = "CCF mapping analysis completed"
	MsgCCFMappingFailed      = "Failed to generate mapping analysis"
	MsgUnknownControl        = "Unknown Control"
)

func msgIssueStatus(status fmt.Stringer) string {
	return "Issue " + status.String()
}

package types

// TestStatus is the progress of a control test
type TestStatus string

const (
	TestStatusNotStarted TestStatus = "Not Started"
	TestStatusInProgress TestStatus = "In Progress"
	TestStatusCompleted  TestStatus = "Completed"
)

// AllTestStatuses returns all valid test statuses
func AllTestStatuses() []TestStatus {
	return []TestStatus{
		TestStatusNotStarted,
		TestStatusInProgress,
		TestStatusCompleted,
	}
}

// IsValid checks if the test status is valid
func (s TestStatus) IsValid() bool {
	switch s {
	case TestStatusNotStarted, TestStatusInProgress, TestStatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the test status
func (s TestStatus) String() string {
	return string(s)
}

// ParseTestStatus parses a string into a TestStatus
func ParseTestStatus(s string) (TestStatus, error) {
	return parseEnum("test status", s, TestStatus.IsValid)
}

// TestResult is the outcome of a control test. A Fail result makes the backend open an issue.
type TestResult string

const (
	TestResultPass TestResult = "Pass"
	TestResultFail TestResult = "Fail"
)

// AllTestResults returns all results a tester can submit
func AllTestResults() []TestResult {
	return []TestResult{TestResultPass, TestResultFail}
}

// IsValid checks if the test result is valid
func (r TestResult) IsValid() bool {
	return r == TestResultPass || r == TestResultFail
}

// String returns the string representation of the test result
func (r TestResult) String() string {
	return string(r)
}

// ParseTestResult parses a string into a TestResult
func ParseTestResult(s string) (TestResult, error) {
	return parseEnum("test result", s, TestResult.IsValid)
}

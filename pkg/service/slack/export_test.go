package slack

// Export internal functions for testing
var (
	WithAPIURL  = withAPIURL
	BuildBlocks = buildBlocks
)

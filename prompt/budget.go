package prompt

// Default bytes-per-token ratio of the approximate token estimator. Four
// bytes per token is a safe lower bound for code heavy english text.
const DefaultBytesPerToken = 4

// Estimator approximates the number of tokens in a string.
type Estimator func(s string) int

// NewEstimator returns an estimator computing tokens as
// ceil(len(bytes)/bytesPerToken).
func NewEstimator(bytesPerToken int) Estimator {
	bpt := bytesPerToken
	if bpt <= 0 {
		bpt = DefaultBytesPerToken
	}
	return func(s string) int {
		n := len(s)
		if n == 0 {
			return 0
		}
		return (n + bpt - 1) / bpt
	}
}

// fit trims a string so the estimator stays within maxTokens. A marker is
// appended when content had to be dropped.
func fit(s string, est Estimator, bytesPerToken int, maxTokens int) string {
	if maxTokens <= 0 || est(s) <= maxTokens {
		return s
	}

	const marker = "\n... (content truncated to fit the model context)\n"
	bpt := bytesPerToken
	if bpt <= 0 {
		bpt = DefaultBytesPerToken
	}

	budget := maxTokens*bpt - len(marker)
	if budget < 0 {
		budget = 0
	}
	if budget > len(s) {
		budget = len(s)
	}

	// Cut on a line boundary when one is reasonably close
	cut := s[:budget]
	if idx := lastNewline(cut); idx > budget/2 {
		cut = cut[:idx]
	}

	return cut + marker
}

func lastNewline(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '\n' {
			return i
		}
	}
	return -1
}

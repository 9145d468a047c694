package chunker

import "strings"

// bytesPerToken is the estimator's density: roughly four bytes of
// English prose per token. Used to convert token-unit overlaps into
// byte offsets.
const bytesPerToken = 4

// EstimateTokens returns a rough token count for text.
// True tokenisation belongs to the provider; this heuristic only has
// to be stable and monotonic, which is enough for chunk budgeting and
// reduce-size checks. Whitespace-heavy text packs fewer tokens per
// character, so whitespace is discounted.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}

	chars := len([]rune(text))
	whitespace := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")

	estimated := chars/bytesPerToken + whitespace/6
	if estimated < 1 {
		return 1
	}
	return estimated
}

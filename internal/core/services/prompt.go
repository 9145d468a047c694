package services

import (
	"fmt"
	"strings"
)

// Prompt templates for the map and reduce steps. Kept deliberately
// plain: the engine's contract with the provider is one prompt in,
// one summary out.
const (
	systemPrompt = "You are a precise assistant that summarises documents, " +
		"meeting notes and email. Preserve names, dates, decisions and " +
		"action items. Never invent content."

	chunkPromptFormat = "Summarise the following text concisely. " +
		"Keep key facts, decisions and action items.\n\n%s"

	reducePromptFormat = "The following are partial summaries of one document, " +
		"in order. Combine them into a single coherent summary, then list " +
		"the key points as bullet lines starting with \"- \".\n\n%s"
)

func chunkPrompt(text string) string {
	return fmt.Sprintf(chunkPromptFormat, text)
}

func reducePrompt(text string) string {
	return fmt.Sprintf(reducePromptFormat, text)
}

// extractKeyPoints parses ordered bullet lines out of a summary.
// Bullets may be "-", "*" or "•" prefixed; numbering like "1." is
// also accepted. Returns nil when the summary has no bullet lines.
func extractKeyPoints(summary string) []string {
	var points []string
	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "- "):
			points = append(points, strings.TrimSpace(trimmed[2:]))
		case strings.HasPrefix(trimmed, "* "):
			points = append(points, strings.TrimSpace(trimmed[2:]))
		case strings.HasPrefix(trimmed, "• "):
			points = append(points, strings.TrimSpace(strings.TrimPrefix(trimmed, "• ")))
		case isNumberedPoint(trimmed):
			if _, rest, ok := strings.Cut(trimmed, ". "); ok {
				points = append(points, strings.TrimSpace(rest))
			}
		}
	}
	return points
}

// isNumberedPoint reports whether a line looks like "3. something".
func isNumberedPoint(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' '
}

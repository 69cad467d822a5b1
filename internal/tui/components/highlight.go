package components

import "strings"

// ANSI escape codes for inline styling (no padding)
const (
	reset       = "\033[0m"
	accentBold  = "\033[38;5;178;1m" // Accent approximate
	boldWhite   = "\033[38;5;255;1m"
	gray        = "\033[38;5;250m" // LightGray approximate
	codeGray    = "\033[38;5;250;48;5;235m"
	codeAccent  = "\033[38;5;178;48;5;235;1m"
	plainAccent = "\033[38;5;178m"
)

// highlightStyle selects the escape codes used for normal and matched runs
type highlightStyle struct {
	normal string
	match  string
}

var (
	authorHighlight   = highlightStyle{normal: boldWhite, match: accentBold}
	filenameHighlight = highlightStyle{normal: codeGray, match: codeAccent}
	plainHighlight    = highlightStyle{normal: gray, match: plainAccent}
)

// highlightMatches renders text with the runes at matchedIndexes emphasised.
// Uses ANSI codes directly to avoid lipgloss padding issues.
func highlightMatches(text string, matchedIndexes []int, style highlightStyle) string {
	if text == "" {
		return ""
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	// Batch consecutive characters with the same style
	var result strings.Builder
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		isMatch := matchSet[i]

		start := i
		for i < len(runes) && matchSet[i] == isMatch {
			i++
		}

		if isMatch {
			result.WriteString(style.match)
		} else {
			result.WriteString(style.normal)
		}
		result.WriteString(string(runes[start:i]))
		result.WriteString(reset)
	}

	return result.String()
}

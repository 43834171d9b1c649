package format

import (
	"regexp"
	"strings"
)

var (
	codeSignature = regexp.MustCompile(`(import\s+[\w.]+|def\s+\w+\(|class\s+\w+\(|function\s+\w+\()`)
	codeLineStart = regexp.MustCompile(`^(import\s+[\w.]+|def\s+\w+\(|class\s+\w+\(|function\s+\w+\()`)

	numberedAtStart = regexp.MustCompile(`^(\d+\.\s)`)
	bulletAtStart   = regexp.MustCompile(`^(-\s)`)

	emphasisPatterns = compileEmphasis("IMPORTANT", "WARNING", "CRITICAL", "NOTE", "CAUTION")
)

func compileEmphasis(keywords ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, regexp.MustCompile(`(?i)(`+kw+`:)(.*?)(\n|$)`))
	}
	return patterns
}

// Response applies markdown touch-ups to a model answer: wraps bare code in
// fences, emphasizes flagged keywords, and fixes a list marker glued to the
// start of the text. Single pass; running it on its own output can stack
// emphasis markers.
func Response(response string) string {
	response = fenceBareCode(response)

	for _, pattern := range emphasisPatterns {
		response = pattern.ReplaceAllString(response, "**_${1}_** ${2}${3}")
	}

	response = numberedAtStart.ReplaceAllString(response, "\n${1}")
	response = bulletAtStart.ReplaceAllString(response, "\n${1}")

	return response
}

// fenceBareCode opens a python fence at the first code-looking line and
// closes it at the next blank line, but only when the answer has no fences
// at all. The signature check is a loose heuristic, not a parser.
func fenceBareCode(response string) string {
	if strings.Contains(response, "```") || !codeSignature.MatchString(response) {
		return response
	}

	var formatted []string
	inCodeBlock := false
	for _, line := range strings.Split(response, "\n") {
		if codeLineStart.MatchString(strings.TrimSpace(line)) && !inCodeBlock {
			formatted = append(formatted, "```python")
			inCodeBlock = true
		} else if inCodeBlock && strings.TrimSpace(line) == "" && len(formatted) > 0 {
			formatted = append(formatted, "```")
			inCodeBlock = false
		}
		formatted = append(formatted, line)
	}
	if inCodeBlock {
		formatted = append(formatted, "```")
	}
	return strings.Join(formatted, "\n")
}

// Package format renders database context for the model request and
// post-processes the model's free-text answers.
package format

import (
	"fmt"
	"sort"
	"strings"
)

const contextPreamble = `
IMPORTANT: The following information contains code blocks that must be preserved EXACTLY as shown,
with their original formatting, indentation, comments, and whitespace.
===== DATABASE INFORMATION START =====

`

const contextTrailer = `
===== DATABASE INFORMATION END =====

REMEMBER: When including code blocks in your response, reproduce them EXACTLY as shown above,
with the same formatting, indentation, comments, and whitespace. Do not modify any code.
`

// Context renders database records into a text block for the model prompt.
// Code fences inside record content pass through byte for byte, bracketed by
// CODE_BLOCK_START/END markers so the model can be told to keep them intact.
// Empty input renders to an empty string with no markers.
func Context(payload any) string {
	if isEmptyPayload(payload) {
		return ""
	}

	var b strings.Builder
	b.WriteString(contextPreamble)

	switch data := payload.(type) {
	case []any:
		for i, item := range data {
			record, ok := item.(map[string]any)
			if !ok {
				fmt.Fprintf(&b, "Item %d:\n%v\n\n", i+1, item)
				continue
			}
			if title, ok := record["pageTitle"]; ok {
				fmt.Fprintf(&b, "## %v\n\n", title)
			}
			if content, ok := record["content"]; ok {
				writeContent(&b, fmt.Sprint(content))
			}
			for _, key := range sortedKeys(record) {
				if key == "pageTitle" || key == "content" {
					continue
				}
				fmt.Fprintf(&b, "- %s: %v\n", key, record[key])
			}
			b.WriteString("\n---\n\n")
		}
	case map[string]any:
		b.WriteString("Retrieved information:\n\n")
		for _, key := range sortedKeys(data) {
			fmt.Fprintf(&b, "- %s: %v\n", key, data[key])
		}
	default:
		fmt.Fprintf(&b, "Retrieved information:\n\n%v", payload)
	}

	b.WriteString(contextTrailer)
	return b.String()
}

// writeContent copies content line by line, tagging markdown code fences.
// An opening fence line is preceded by a CODE_BLOCK_START marker carrying the
// language tag; the bare closing fence is followed by CODE_BLOCK_END. An
// unterminated fence gets no closing marker; the inconsistency is deliberate.
func writeContent(b *strings.Builder, content string) {
	inCodeBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```") && !inCodeBlock:
			inCodeBlock = true
			lang := strings.TrimSpace(strings.ReplaceAll(trimmed, "```", ""))
			b.WriteString("\n<CODE_BLOCK_START lang=\"" + lang + "\">\n")
			b.WriteString(line + "\n")
		case trimmed == "```" && inCodeBlock:
			inCodeBlock = false
			b.WriteString(line + "\n")
			b.WriteString("<CODE_BLOCK_END>\n\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n")
}

// sortedKeys keeps map rendering deterministic; the record key order itself
// carries no meaning.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isEmptyPayload(payload any) bool {
	switch data := payload.(type) {
	case nil:
		return true
	case []any:
		return len(data) == 0
	case map[string]any:
		return len(data) == 0
	case string:
		return data == ""
	}
	return false
}

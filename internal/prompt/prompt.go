// Package prompt loads the default system prompt from the shared JS config
// resource used by the chat UI.
package prompt

import (
	"os"
	"strings"

	"github.com/avoschat/llmclient-go/internal/logger"
)

const (
	startMarker = "DEFAULT_LLM_PROMPT = `"
	endMarker   = "`;"
)

// Fallback is used when the prompt resource is missing or unparsable.
const Fallback = "You are a helpful AI assistant specialized in AVOS (Autonomous Vehicle Operating System) developed by NVIDIA. Provide accurate and helpful information about AVOS features, capabilities, and usage. If you don't know something, be honest about it. Please give small and precise answers. Don't give out of context answers. Please give answers in bullet points."

// Load extracts the DEFAULT_LLM_PROMPT template literal from the resource at
// path. Call it once at startup and hold the result; the resource is not
// re-read per request.
func Load(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.L.Warn("prompt resource not readable, using built-in prompt", "path", path, "error", err)
		return Fallback
	}

	content := string(data)
	start := strings.Index(content, startMarker)
	if start < 0 {
		logger.L.Warn("prompt resource has no DEFAULT_LLM_PROMPT, using built-in prompt", "path", path)
		return Fallback
	}
	rest := content[start+len(startMarker):]
	end := strings.Index(rest, endMarker)
	if end < 0 {
		logger.L.Warn("prompt resource has unterminated DEFAULT_LLM_PROMPT, using built-in prompt", "path", path)
		return Fallback
	}
	return rest[:end]
}

package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeResource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.js")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExtractsPrompt(t *testing.T) {
	path := writeResource(t, "// prompts\nconst DEFAULT_LLM_PROMPT = `You are the AVOS expert.\nAnswer briefly.`;\n\nmodule.exports = { DEFAULT_LLM_PROMPT };\n")

	require.Equal(t, "You are the AVOS expert.\nAnswer briefly.", Load(path))
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	require.Equal(t, Fallback, Load(filepath.Join(t.TempDir(), "nope.js")))
}

func TestLoad_MissingMarkerFallsBack(t *testing.T) {
	path := writeResource(t, "const OTHER_PROMPT = `something else`;\n")

	require.Equal(t, Fallback, Load(path))
}

func TestLoad_UnterminatedMarkerFallsBack(t *testing.T) {
	path := writeResource(t, "const DEFAULT_LLM_PROMPT = `never closed\n")

	require.Equal(t, Fallback, Load(path))
}

func TestLoad_RepoResource(t *testing.T) {
	prompt := Load(filepath.Join("..", "..", "config", "prompts.js"))

	require.NotEqual(t, Fallback, prompt)
	require.Contains(t, prompt, "Autonomous Vehicle Operating System")
}

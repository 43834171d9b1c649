package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResponse_WrapsBareCode(t *testing.T) {
	in := "Here is the fix:\nimport os\nprint(os.getcwd())\n\nRun it once."
	want := "Here is the fix:\n```python\nimport os\nprint(os.getcwd())\n```\n\nRun it once."

	require.Equal(t, want, Response(in))
}

func TestResponse_ClosesFenceAtEndOfInput(t *testing.T) {
	in := "def boot():\n    return 1"
	want := "```python\ndef boot():\n    return 1\n```"

	require.Equal(t, want, Response(in))
}

func TestResponse_ExistingFenceUntouched(t *testing.T) {
	in := "Use this:\n```python\nimport os\n```\nDone."

	require.Equal(t, in, Response(in))
}

func TestResponse_ProseWithoutCodeUntouched(t *testing.T) {
	in := "AVOS provides sensor fusion and planning.\n\nSee the docs for details."

	require.Equal(t, in, Response(in))
	// well-formatted prose is a fixed point
	require.Equal(t, in, Response(Response(in)))
}

func TestResponse_KeywordEmphasis(t *testing.T) {
	cases := map[string]string{
		"WARNING: hot surface":     "**_WARNING:_**  hot surface",
		"note: check the manual":   "**_note:_**  check the manual",
		"IMPORTANT: a\nplain line": "**_IMPORTANT:_**  a\nplain line",
		"CRITICAL:":                "**_CRITICAL:_** ",
	}
	for in, want := range cases {
		require.Equal(t, want, Response(in), "input %q", in)
	}
}

// Emphasis is a single-pass rewrite: running the formatter on its own output
// stacks markers. This pins the current behavior; it is not a goal.
func TestResponse_EmphasisNotIdempotent(t *testing.T) {
	once := Response("CAUTION: wet floor")
	require.Equal(t, "**_CAUTION:_**  wet floor", once)

	twice := Response(once)
	require.NotEqual(t, once, twice)
	require.Equal(t, "**_**_CAUTION:_** _**  wet floor", twice)
}

func TestResponse_ListMarkerAtStart(t *testing.T) {
	require.Equal(t, "\n1. first\n2. second", Response("1. first\n2. second"))
	require.Equal(t, "\n- only item", Response("- only item"))
	// markers already preceded by a newline stay put
	require.Equal(t, "intro\n1. first", Response("intro\n1. first"))
}

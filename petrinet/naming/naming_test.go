package naming

import "testing"

import "github.com/stretchr/testify/require"

func TestSanitizeReplacesReservedCharactersWithSingleUnderscore(t *testing.T) {
	require.Equal(t, "foo_bar", Sanitize("foo::bar"))
	require.Equal(t, "a_b", Sanitize("a.  b"))
	require.Equal(t, "_", Sanitize(""))
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{"foo::bar<T>", "a.b.c", "already_clean", "", "---"}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		require.Equal(t, once, twice, "Sanitize(%q) not idempotent", in)
	}
}

func TestLabelsAreDistinctAcrossConstructs(t *testing.T) {
	seen := map[string]bool{
		BlockStart("f", 1):             true,
		BlockEnd("f", 1):               true,
		GotoTransition("f", 1, 2):      true,
		SwitchTransition("f", 1, 0, 2): true,
		DropTransition("f", 1):         true,
		AssertTransition("f", 1):       true,
		StatementTransition("f", 1, 0): true,
	}
	require.Len(t, seen, 7, "expected every label to be distinct")
}

package obslog

import "testing"

import "github.com/stretchr/testify/require"

func TestDefaultReturnsAUsableLogger(t *testing.T) {
	l := Default()
	require.NotNil(t, l)
}

func TestLogFuncsToleratingANilLogger(t *testing.T) {
	require.NotPanics(t, func() {
		AliasOverwrite(nil, 3, "mutex")
		PostprocessTaskRan(nil, 0, "new_mutex", 2)
	})
}

func TestLogFuncsAcceptARealLogger(t *testing.T) {
	l := Default()
	require.NotPanics(t, func() {
		AliasOverwrite(l, 3, "mutex")
		PostprocessTaskRan(l, 0, "new_mutex", 2)
	})
}

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OnParseOperationType_ShouldAcceptKnownValues(t *testing.T) {
	op, err := ParseOperationType("income")
	require.NoError(t, err)
	assert.Equal(t, Income, op)

	op, err = ParseOperationType("expenses")
	require.NoError(t, err)
	assert.Equal(t, Expenses, op)
}

func Test_OnParseOperationType_ShouldRejectUnknownValues(t *testing.T) {
	_, err := ParseOperationType("transfer")
	assert.Error(t, err)

	_, err = ParseOperationType("")
	assert.Error(t, err)
}

func Test_OnParseWindow_ShouldAcceptExactlyThreeWindows(t *testing.T) {
	for _, raw := range []string{"day", "week", "month"} {
		w, err := ParseWindow(raw)
		require.NoError(t, err)
		assert.Equal(t, Window(raw), w)
	}

	_, err := ParseWindow("year")
	assert.Error(t, err)
}

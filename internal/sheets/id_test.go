package sheets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRecordIDAvoidsUsedSet(t *testing.T) {
	used := make(map[uint]struct{})
	for i := 0; i < 1000; i++ {
		id := GenerateRecordID(used)
		_, taken := used[id]
		require.False(t, taken)
		used[id] = struct{}{}
	}
}

func TestColumnLabel(t *testing.T) {
	require.Equal(t, "A", columnLabel(1))
	require.Equal(t, "G", columnLabel(7))
	require.Equal(t, "Z", columnLabel(26))
	require.Equal(t, "AA", columnLabel(27))
	require.Equal(t, "AZ", columnLabel(52))
}

func TestEscapeSheetName(t *testing.T) {
	require.Equal(t, "'Students'", escapeSheetName("Students"))
	require.Equal(t, "'it''s'", escapeSheetName("it's"))
}

package rfid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerSuppressesRepeatScans(t *testing.T) {
	current := time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC)
	d := NewDebouncer(2 * time.Second)
	d.now = func() time.Time { return current }

	require.True(t, d.Accept("card-1"))
	require.False(t, d.Accept("card-1"))

	current = current.Add(1500 * time.Millisecond)
	require.False(t, d.Accept("card-1"))

	current = current.Add(600 * time.Millisecond)
	require.True(t, d.Accept("card-1"))
}

func TestDebouncerAcceptsDifferentCardImmediately(t *testing.T) {
	current := time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC)
	d := NewDebouncer(2 * time.Second)
	d.now = func() time.Time { return current }

	require.True(t, d.Accept("card-1"))
	require.True(t, d.Accept("card-2"))
	// The new card restarts the window for itself.
	require.False(t, d.Accept("card-2"))
	require.True(t, d.Accept("card-1"))
}

func TestDebouncerReset(t *testing.T) {
	d := NewDebouncer(2 * time.Second)

	require.True(t, d.Accept("card-1"))
	require.False(t, d.Accept("card-1"))

	d.Reset()
	require.True(t, d.Accept("card-1"))
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveMonthRange(t *testing.T) {
	reference := time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		month string
		start string
		end   string
	}{
		{name: "explicit month", month: "2026-01", start: "2026-01-01", end: "2026-01-31"},
		{name: "leap february", month: "2024-02", start: "2024-02-01", end: "2024-02-29"},
		{name: "non-leap february", month: "2025-02", start: "2025-02-01", end: "2025-02-28"},
		{name: "clamped high month", month: "2026-13", start: "2026-12-01", end: "2026-12-31"},
		{name: "clamped low month", month: "2026-00", start: "2026-01-01", end: "2026-01-31"},
		{name: "empty falls back to reference", month: "", start: "2026-03-01", end: "2026-03-31"},
		{name: "garbage falls back to reference", month: "jan-2026", start: "2026-03-01", end: "2026-03-31"},
		{name: "partial pattern falls back", month: "2026-1", start: "2026-03-01", end: "2026-03-31"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := resolveMonthRange(tc.month, reference)
			require.Equal(t, tc.start, start)
			require.Equal(t, tc.end, end)
		})
	}
}

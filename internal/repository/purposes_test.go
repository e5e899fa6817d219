package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePurposes(t *testing.T) {
	require.Equal(t, []string{"reading", "homework"}, DecodePurposes(`["reading","homework"]`))
	require.Equal(t, []string{}, DecodePurposes(""))
	require.Equal(t, []string{}, DecodePurposes(`[]`))
	// Legacy rows hold a bare purpose string.
	require.Equal(t, []string{"reading"}, DecodePurposes("reading"))
	// Blank entries inside the array are dropped.
	require.Equal(t, []string{"reading"}, DecodePurposes(`["reading",""]`))
}

func TestEncodePurposes(t *testing.T) {
	require.Equal(t, `["reading"]`, EncodePurposes([]string{"reading"}))
	require.Equal(t, `[]`, EncodePurposes(nil))
}

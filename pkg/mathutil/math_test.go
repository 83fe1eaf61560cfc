package mathutil_test

import (
	"testing"

	"github.com/nanoflow/nanowallet/pkg/mathutil"
	"github.com/stretchr/testify/require"
)

func TestMegaToRaw(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int32
		expected string
	}{
		{"1", 30, "1000000000000000000000000000000"},
		{"0.000001", 30, "1000000000000000000000000"},
		{"1.5", 2, "150"},
		{"0.005", 2, "1"},
		{"0", 30, "0"},
	}

	for _, tt := range tests {
		raw, err := mathutil.MegaToRaw(tt.amount, tt.decimals)
		require.NoError(t, err)
		require.Equal(t, tt.expected, raw)
	}
}

func TestMegaToRawFails(t *testing.T) {
	for _, amount := range []string{"", "abc", "-1"} {
		_, err := mathutil.MegaToRaw(amount, 30)
		require.Error(t, err)
	}
}

func TestRawToMega(t *testing.T) {
	tests := []struct {
		raw      string
		decimals int32
		expected string
	}{
		{"1000000000000000000000000000000", 30, "1.000000000000000000000000000000"},
		{"1", 30, "0.000000000000000000000000000001"},
		{"150", 2, "1.50"},
		{"0", 2, "0.00"},
	}

	for _, tt := range tests {
		mega, err := mathutil.RawToMega(tt.raw, tt.decimals)
		require.NoError(t, err)
		require.Equal(t, tt.expected, mega)
	}
}

func TestRawToMegaFails(t *testing.T) {
	for _, raw := range []string{"1.5", "-3", "x"} {
		_, err := mathutil.RawToMega(raw, 30)
		require.Error(t, err)
	}
}

func TestRawArithmetic(t *testing.T) {
	sum, err := mathutil.AddRaw("1000000000000000000000000000000", "1")
	require.NoError(t, err)
	require.Equal(t, "1000000000000000000000000000001", sum)

	diff, err := mathutil.SubRaw("1000", "100")
	require.NoError(t, err)
	require.Equal(t, "900", diff)

	_, err = mathutil.SubRaw("100", "1000")
	require.Error(t, err)

	cmp, err := mathutil.CmpRaw("100", "1000")
	require.NoError(t, err)
	require.Equal(t, -1, cmp)
}

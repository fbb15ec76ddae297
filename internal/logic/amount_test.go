package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuiToMist(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"1", 1_000_000_000},
		{"2.5", 2_500_000_000},
		{"0.000000001", 1},
		{" 10 ", 10_000_000_000},
		{"0.1", 100_000_000},
		{"18446744073.709551615", 18_446_744_073_709_551_615},
	}
	for _, tc := range cases {
		got, err := SuiToMist(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestSuiToMistRejects(t *testing.T) {
	for _, in := range []string{"", "0", "-3", "1e", "one", "0.0000000001", "18446744073.709551616"} {
		_, err := SuiToMist(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestMistFormatting(t *testing.T) {
	assert.Equal(t, "1.5", MistToSui(1_500_000_000))
	assert.Equal(t, "0.000000001", MistToSui(1))
	assert.Equal(t, uint64(2), MistToWholeSui(2_999_999_999))
}

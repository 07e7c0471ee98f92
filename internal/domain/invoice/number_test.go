package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-2024-0001", FormatNumber(2024, 1))
	assert.Equal(t, "INV-2024-0042", FormatNumber(2024, 42))
	assert.Equal(t, "INV-2026-9999", FormatNumber(2026, 9999))

	// Past 9999 the number grows instead of wrapping
	assert.Equal(t, "INV-2026-10000", FormatNumber(2026, 10000))
}

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence("INV-2024-0012", 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(12), seq)

	seq, err = ParseSequence("INV-2026-10000", 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), seq)
}

func TestParseSequenceRejectsOtherYears(t *testing.T) {
	_, err := ParseSequence("INV-2023-0005", 2024)
	assert.Error(t, err)
}

func TestParseSequenceRejectsGarbage(t *testing.T) {
	_, err := ParseSequence("INV-2024-00AB", 2024)
	assert.Error(t, err)

	_, err = ParseSequence("DRAFT-2024-0001", 2024)
	assert.Error(t, err)

	_, err = ParseSequence("", 2024)
	assert.Error(t, err)
}

func TestSequenceOrderingIsNumeric(t *testing.T) {
	// Lexicographically "INV-2026-9999" > "INV-2026-10000"; numerically the
	// opposite must hold
	a, err := ParseSequence("INV-2026-9999", 2026)
	require.NoError(t, err)
	b, err := ParseSequence("INV-2026-10000", 2026)
	require.NoError(t, err)
	assert.Greater(t, b, a)
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, seq := range []int64{1, 13, 9999, 10000, 123456} {
		parsed, err := ParseSequence(FormatNumber(2025, seq), 2025)
		require.NoError(t, err)
		assert.Equal(t, seq, parsed)
	}
}

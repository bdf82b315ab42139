package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnToLetter(t *testing.T) {
	cases := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{29, "AC"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
		{0, ""},
		{-5, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ColumnToLetter(c.col), "column %d", c.col)
	}
}

func TestLetterToColumn(t *testing.T) {
	assert.Equal(t, 1, LetterToColumn("A"))
	assert.Equal(t, 26, LetterToColumn("Z"))
	assert.Equal(t, 27, LetterToColumn("AA"))
	assert.Equal(t, 703, LetterToColumn("AAA"))
	// Case-insensitive.
	assert.Equal(t, 28, LetterToColumn("ab"))
}

func TestColumnLetterRoundTrip(t *testing.T) {
	for col := 1; col <= 1000; col++ {
		assert.Equal(t, col, LetterToColumn(ColumnToLetter(col)))
	}
}

func TestParseAddress(t *testing.T) {
	row, col, err := ParseAddress("B12")
	require.NoError(t, err)
	assert.Equal(t, 11, row)
	assert.Equal(t, 1, col)

	row, col, err = ParseAddress("aa1")
	require.NoError(t, err)
	assert.Equal(t, 0, row)
	assert.Equal(t, 26, col)

	for _, bad := range []string{"", "12", "B", "B0", "1B", "B-2", "B1:C2"} {
		_, _, err := ParseAddress(bad)
		assert.Error(t, err, "address %q", bad)
	}
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "A1", FormatAddress(0, 0))
	assert.Equal(t, "B12", FormatAddress(11, 1))
	assert.Equal(t, "AC3", FormatAddress(2, 28))
}

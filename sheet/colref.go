package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ColumnToLetter converts a 1-based column number to its spreadsheet letter
// notation. 1→"A", 26→"Z", 27→"AA", 29→"AC".
// Values ≤ 0 produce an empty string.
func ColumnToLetter(col int) string {
	letter := ""
	for col > 0 {
		rem := (col - 1) % 26
		letter = string(rune('A'+rem)) + letter
		col = (col - rem - 1) / 26
	}
	return letter
}

// LetterToColumn converts a spreadsheet column letter to its 1-based column
// number. "A"→1, "Z"→26, "AA"→27.
func LetterToColumn(letter string) int {
	col := 0
	for _, ch := range strings.ToUpper(letter) {
		col = col*26 + int(ch-'A') + 1
	}
	return col
}

var a1Pattern = regexp.MustCompile(`^([a-zA-Z]+)(\d+)$`)

// ParseAddress parses an A1-notation address like "B12" into 0-based row and
// column indices.
func ParseAddress(addr string) (row, col int, err error) {
	m := a1Pattern.FindStringSubmatch(addr)
	if m == nil {
		return 0, 0, fmt.Errorf("address %q is not in A1 notation", addr)
	}
	rowNum, err := strconv.Atoi(m[2])
	if err != nil || rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row number in address %q", addr)
	}
	return rowNum - 1, LetterToColumn(m[1]) - 1, nil
}

// FormatAddress formats 0-based row and column indices as an A1-notation
// address.
func FormatAddress(row, col int) string {
	return ColumnToLetter(col+1) + strconv.Itoa(row+1)
}

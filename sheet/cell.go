package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cell is a single editable cell of a Row. It tracks the value it was loaded
// with so unsaved changes can be detected and flushed by Sheet.Save.
type Cell struct {
	row      *Row
	index    int
	value    string
	original string
}

func newCell(row *Row, index int, value string) *Cell {
	return &Cell{row: row, index: index, value: value, original: value}
}

// Index returns the cell's 0-based column position in its row.
func (c *Cell) Index() int { return c.index }

// Value returns the cell's current raw string value.
func (c *Cell) Value() string { return c.value }

// Set updates the cell's value. nil becomes "", booleans become the sheet
// literals "TRUE"/"FALSE", everything else is formatted with fmt.Sprint.
// No schema validation is performed.
func (c *Cell) Set(v any) {
	switch tv := v.(type) {
	case nil:
		c.value = ""
	case bool:
		if tv {
			c.value = "TRUE"
		} else {
			c.value = "FALSE"
		}
	case string:
		c.value = tv
	default:
		c.value = fmt.Sprint(v)
	}
}

// Address returns the cell's A1-notation address ("B12"), derived from the
// parent row's index and the cell's own index.
func (c *Cell) Address() string {
	return FormatAddress(c.row.index, c.index)
}

// WasChanged reports whether the cell's value differs from the last value
// confirmed saved.
func (c *Cell) WasChanged() bool {
	return c.value != c.original
}

// Commit marks the current value as saved, clearing the dirty flag.
func (c *Cell) Commit() {
	c.original = c.value
}

// AsString returns the cell's value, with ok=false when the value is empty.
func (c *Cell) AsString() (string, bool) {
	if c.value == "" {
		return "", false
	}
	return c.value, true
}

// AsInt parses the cell's value as an integer. ok is false when the value is
// not a valid integer.
func (c *Cell) AsInt() (int, bool) {
	n, err := strconv.Atoi(c.value)
	if err != nil {
		return 0, false
	}
	return n, true
}

var percentPattern = regexp.MustCompile(`^[\d.]+%$`)

// AsFloat parses the cell's value as a float. Percent-suffixed values like
// "42%" parse to their numeric fraction (0.42). ok is false when the value is
// not a valid number.
func (c *Cell) AsFloat() (float64, bool) {
	s := c.value
	percent := false
	if percentPattern.MatchString(s) {
		s = strings.TrimSuffix(s, "%")
		percent = true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if percent {
		f /= 100
	}
	return f, true
}

// AsBool reports whether the cell's value is the literal "true",
// case-insensitively.
func (c *Cell) AsBool() bool {
	return strings.EqualFold(c.value, "true")
}

// AsList splits the cell's value on the given delimiter, trimming whitespace
// from each item. An empty value yields an empty list.
func (c *Cell) AsList(delimiter string) []string {
	val, ok := c.AsString()
	if !ok {
		return nil
	}
	parts := strings.Split(val, delimiter)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// String returns the cell's raw value.
func (c *Cell) String() string {
	return c.value
}

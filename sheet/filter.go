package sheet

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Filter returns the data rows for which the given condition evaluates to
// true. The condition is an expr-lang expression evaluated against each row's
// header-keyed values; numeric and boolean cell values are presented with
// their parsed types, so conditions like `Age > 18 && Active` work without
// explicit conversions.
func (s *Sheet) Filter(condition string) ([]*Row, error) {
	program, err := expr.Compile(condition, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", condition, err)
	}

	var matched []*Row
	for _, row := range s.Rows() {
		out, err := expr.Run(program, rowEnv(row))
		if err != nil {
			return nil, fmt.Errorf("evaluate condition %q on %s: %w", condition, row, err)
		}
		ok, isBool := out.(bool)
		if !isBool {
			return nil, fmt.Errorf("condition %q evaluated to %T, expected bool", condition, out)
		}
		if ok {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// rowEnv builds the expression environment for one row: each header key maps
// to the cell's most specific typed view (int, float, bool, then raw string).
func rowEnv(r *Row) map[string]any {
	env := make(map[string]any, len(r.sheet.headerIndexes()))
	for key, i := range r.sheet.headerIndexes() {
		cell := r.Cell(i)
		switch {
		case cell.value == "":
			env[key] = ""
		default:
			if n, ok := cell.AsInt(); ok {
				env[key] = n
			} else if f, ok := cell.AsFloat(); ok {
				env[key] = f
			} else if isBoolLiteral(cell.value) {
				env[key] = cell.AsBool()
			} else {
				env[key] = cell.value
			}
		}
	}
	return env
}

func isBoolLiteral(s string) bool {
	switch s {
	case "TRUE", "FALSE", "true", "false", "True", "False":
		return true
	}
	return false
}

package airtable

import (
	"fmt"
	"strings"
)

// filterByFormula builders. Every string value that reaches a formula goes
// through quote, so a tag name like "o'clock" cannot break out of the string
// literal or inject into the formula grammar.

// quote wraps s in single quotes, escaping embedded ones
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// EqualsFormula matches records whose field equals value exactly
func EqualsFormula(field, value string) string {
	return fmt.Sprintf("{%s} = %s", field, quote(value))
}

// EqualsFoldFormula matches records whose field equals value case-insensitively
func EqualsFoldFormula(field, value string) string {
	return fmt.Sprintf("LOWER({%s}) = LOWER(%s)", field, quote(value))
}

// TruthyFormula matches records whose checkbox field is set
func TruthyFormula(field string) string {
	return fmt.Sprintf("{%s}", field)
}

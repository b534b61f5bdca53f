// Package schema models declared tool parameter schemas and validates
// argument values against them. A schema is a finite, acyclic tree of
// nodes; validation never fails hard, it collects every violation as a
// human-readable message.
package schema

// Node is one case of the schema variant: object, array, string,
// integer, number or boolean.
type Node interface {
	validate(path string, value any, errs *[]string)
	jsonMap() map[string]any
}

// Object describes a mapping with declared properties. Names listed in
// Required must be present in the value; undeclared keys in the value
// are ignored (open validation).
type Object struct {
	Properties map[string]Node
	Required   []string
}

// Array describes a sequence whose elements all follow Items.
type Array struct {
	Items Node
}

// String describes a string with optional length bounds and an optional
// closed set of allowed values.
type String struct {
	MinLength *int
	MaxLength *int
	Enum      []string
}

// Integer describes an integral number with optional inclusive bounds.
// Booleans and numeric strings are not integers.
type Integer struct {
	Minimum *float64
	Maximum *float64
}

// Number describes a numeric value with optional inclusive bounds.
type Number struct {
	Minimum *float64
	Maximum *float64
}

// Boolean describes a bool value. No constraints.
type Boolean struct{}

// IntPtr returns a pointer to v, for optional length bounds.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v, for optional numeric bounds.
func FloatPtr(v float64) *float64 { return &v }

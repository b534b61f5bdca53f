package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validate checks value against the schema rooted at n and returns one
// message per violation. An empty result means the value conforms.
// Validate is pure and safe for concurrent use; it never panics for any
// JSON-representable value.
func Validate(n Node, value any) []string {
	if n == nil {
		return nil
	}
	var errs []string
	n.validate("", value, &errs)
	return errs
}

func (o *Object) validate(path string, value any, errs *[]string) {
	m, ok := value.(map[string]any)
	if !ok {
		*errs = append(*errs, message(path, "should be object"))
		return
	}

	// Presence checks first. Required only checks for the key, even when
	// no property schema is declared for it.
	for _, name := range o.Required {
		if _, present := m[name]; !present {
			*errs = append(*errs, "missing required "+childPath(path, name))
		}
	}

	for _, name := range sortedKeys(o.Properties) {
		v, present := m[name]
		if !present {
			continue
		}
		if prop := o.Properties[name]; prop != nil {
			prop.validate(childPath(path, name), v, errs)
		}
	}
}

func (a *Array) validate(path string, value any, errs *[]string) {
	items, ok := value.([]any)
	if !ok {
		*errs = append(*errs, message(path, "should be array"))
		return
	}
	if a.Items == nil {
		return
	}
	for i, item := range items {
		a.Items.validate(indexPath(path, i), item, errs)
	}
}

func (s *String) validate(path string, value any, errs *[]string) {
	v, ok := value.(string)
	if !ok {
		*errs = append(*errs, message(path, "should be string"))
		return
	}

	length := utf8.RuneCountInString(v)
	if s.MinLength != nil && length < *s.MinLength {
		*errs = append(*errs, message(path, fmt.Sprintf("must be at least %d chars", *s.MinLength)))
	}
	if s.MaxLength != nil && length > *s.MaxLength {
		*errs = append(*errs, message(path, fmt.Sprintf("must be at most %d chars", *s.MaxLength)))
	}
	if len(s.Enum) > 0 && !contains(s.Enum, v) {
		*errs = append(*errs, message(path, "must be one of "+strings.Join(s.Enum, ", ")))
	}
}

func (n *Integer) validate(path string, value any, errs *[]string) {
	v, ok := integralValue(value)
	if !ok {
		*errs = append(*errs, message(path, "should be integer"))
		return
	}
	checkBounds(path, v, n.Minimum, n.Maximum, errs)
}

func (n *Number) validate(path string, value any, errs *[]string) {
	v, ok := numericValue(value)
	if !ok {
		*errs = append(*errs, message(path, "should be number"))
		return
	}
	checkBounds(path, v, n.Minimum, n.Maximum, errs)
}

func (b *Boolean) validate(path string, value any, errs *[]string) {
	if _, ok := value.(bool); !ok {
		*errs = append(*errs, message(path, "should be boolean"))
	}
}

func checkBounds(path string, v float64, min, max *float64, errs *[]string) {
	if min != nil && v < *min {
		*errs = append(*errs, message(path, "must be >= "+formatBound(*min)))
	}
	if max != nil && v > *max {
		*errs = append(*errs, message(path, "must be <= "+formatBound(*max)))
	}
}

// numericValue reports value as a float64 when it is a Go or JSON
// number. Booleans and numeric strings do not qualify.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// integralValue is numericValue restricted to whole numbers. JSON
// decoding yields float64 for every number, so 2.0 counts as integral.
func integralValue(value any) (float64, bool) {
	v, ok := numericValue(value)
	if !ok {
		return 0, false
	}
	if v != math.Trunc(v) {
		return 0, false
	}
	return v, true
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// childPath appends a field name. The root has no prefix.
func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// indexPath appends an array index, e.g. meta.flags[0].
func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func message(path, text string) string {
	if path == "" {
		return text
	}
	return path + " " + text
}

func sortedKeys(m map[string]Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

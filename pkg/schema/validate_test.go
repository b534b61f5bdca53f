package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() *Object {
	return &Object{
		Properties: map[string]Node{
			"query": &String{MinLength: IntPtr(2)},
			"count": &Integer{Minimum: FloatPtr(1), Maximum: FloatPtr(10)},
			"mode":  &String{Enum: []string{"fast", "full"}},
			"meta": &Object{
				Properties: map[string]Node{
					"tag":   &String{},
					"flags": &Array{Items: &String{}},
				},
				Required: []string{"tag"},
			},
		},
		Required: []string{"query", "count"},
	}
}

func TestValidate_Conforming(t *testing.T) {
	errs := Validate(sampleSchema(), map[string]any{
		"query": "hi",
		"count": float64(2),
		"mode":  "fast",
		"meta": map[string]any{
			"tag":   "x",
			"flags": []any{"a", "b"},
		},
	})
	assert.Empty(t, errs)
}

func TestValidate_MissingRequired(t *testing.T) {
	errs := Validate(sampleSchema(), map[string]any{"query": "hi"})
	require.Len(t, errs, 1)
	assert.Equal(t, "missing required count", errs[0])
}

func TestValidate_TypeAndRange(t *testing.T) {
	errs := Validate(sampleSchema(), map[string]any{"query": "hi", "count": float64(0)})
	assert.Contains(t, errs, "count must be >= 1")

	errs = Validate(sampleSchema(), map[string]any{"query": "hi", "count": float64(11)})
	assert.Contains(t, errs, "count must be <= 10")

	// Wrong type stops further checks: no bounds error for the same field.
	errs = Validate(sampleSchema(), map[string]any{"query": "hi", "count": "2"})
	assert.Contains(t, errs, "count should be integer")
	for _, e := range errs {
		assert.NotContains(t, e, "must be >=")
		assert.NotContains(t, e, "must be <=")
	}
}

func TestValidate_IntegerRejectsBooleanAndFraction(t *testing.T) {
	schema := &Object{Properties: map[string]Node{"count": &Integer{}}}

	errs := Validate(schema, map[string]any{"count": true})
	assert.Contains(t, errs, "count should be integer")

	errs = Validate(schema, map[string]any{"count": 1.5})
	assert.Contains(t, errs, "count should be integer")

	// JSON decodes whole numbers as float64; those are integral.
	errs = Validate(schema, map[string]any{"count": float64(3)})
	assert.Empty(t, errs)
}

func TestValidate_NumberAcceptsFraction(t *testing.T) {
	schema := &Object{Properties: map[string]Node{"ratio": &Number{Minimum: FloatPtr(0.5)}}}

	assert.Empty(t, Validate(schema, map[string]any{"ratio": 0.75}))

	errs := Validate(schema, map[string]any{"ratio": 0.25})
	assert.Contains(t, errs, "ratio must be >= 0.5")

	errs = Validate(schema, map[string]any{"ratio": "0.75"})
	assert.Contains(t, errs, "ratio should be number")
}

func TestValidate_EnumAndMinLength(t *testing.T) {
	errs := Validate(sampleSchema(), map[string]any{
		"query": "h",
		"count": float64(2),
		"mode":  "slow",
	})
	assert.Contains(t, errs, "query must be at least 2 chars")
	assert.Contains(t, errs, "mode must be one of fast, full")
}

func TestValidate_MaxLength(t *testing.T) {
	schema := &Object{Properties: map[string]Node{"name": &String{MaxLength: IntPtr(3)}}}
	errs := Validate(schema, map[string]any{"name": "abcd"})
	assert.Contains(t, errs, "name must be at most 3 chars")
}

func TestValidate_NestedObjectAndArray(t *testing.T) {
	errs := Validate(sampleSchema(), map[string]any{
		"query": "hi",
		"count": float64(2),
		"meta": map[string]any{
			"flags": []any{float64(1), "ok"},
		},
	})
	assert.Contains(t, errs, "missing required meta.tag")
	assert.Contains(t, errs, "meta.flags[0] should be string")
}

func TestValidate_WrongContainerTypes(t *testing.T) {
	errs := Validate(sampleSchema(), map[string]any{
		"query": "hi",
		"count": float64(2),
		"meta":  "not-an-object",
	})
	assert.Contains(t, errs, "meta should be object")

	errs = Validate(sampleSchema(), map[string]any{
		"query": "hi",
		"count": float64(2),
		"meta": map[string]any{
			"tag":   "x",
			"flags": "not-an-array",
		},
	})
	assert.Contains(t, errs, "meta.flags should be array")
}

func TestValidate_BooleanType(t *testing.T) {
	schema := &Object{Properties: map[string]Node{"verbose": &Boolean{}}}

	assert.Empty(t, Validate(schema, map[string]any{"verbose": true}))

	errs := Validate(schema, map[string]any{"verbose": "yes"})
	assert.Contains(t, errs, "verbose should be boolean")
}

func TestValidate_IgnoresUnknownFields(t *testing.T) {
	errs := Validate(sampleSchema(), map[string]any{
		"query": "hi",
		"count": float64(2),
		"extra": "x",
	})
	assert.Empty(t, errs)
}

func TestValidate_AbsentOptionalFieldsSkipped(t *testing.T) {
	errs := Validate(sampleSchema(), map[string]any{
		"query": "hi",
		"count": float64(2),
	})
	assert.Empty(t, errs)
}

func TestValidate_RequiredWithoutPropertySchema(t *testing.T) {
	// Required only checks key presence, even with no declared property.
	schema := &Object{Required: []string{"token"}}

	errs := Validate(schema, map[string]any{})
	assert.Contains(t, errs, "missing required token")

	assert.Empty(t, Validate(schema, map[string]any{"token": 42}))
}

func TestValidate_RootNotAnObject(t *testing.T) {
	errs := Validate(sampleSchema(), "nope")
	require.Len(t, errs, 1)
	assert.Equal(t, "should be object", errs[0])

	errs = Validate(sampleSchema(), nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "should be object", errs[0])
}

func TestValidate_NilSchema(t *testing.T) {
	assert.Empty(t, Validate(nil, map[string]any{"anything": 1}))
}

func TestValidate_RequiredErrorsPrecedeChildErrors(t *testing.T) {
	schema := &Object{
		Properties: map[string]Node{
			"a": &Integer{},
		},
		Required: []string{"b"},
	}
	errs := Validate(schema, map[string]any{"a": "x"})
	require.Len(t, errs, 2)
	assert.Equal(t, "missing required b", errs[0])
	assert.Equal(t, "a should be integer", errs[1])
}

func TestJSONMap(t *testing.T) {
	m := sampleSchema().JSONMap()

	assert.Equal(t, "object", m["type"])
	assert.ElementsMatch(t, []string{"query", "count"}, m["required"])

	properties, ok := m["properties"].(map[string]any)
	require.True(t, ok)

	count, ok := properties["count"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", count["type"])
	assert.Equal(t, float64(1), count["minimum"])

	meta, ok := properties["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", meta["type"])

	mode, ok := properties["mode"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"fast", "full"}, mode["enum"])
}

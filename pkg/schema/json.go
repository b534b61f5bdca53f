package schema

// JSONMap renders the schema as a JSON-Schema-style map, the shape model
// providers and tool listings expect for parameter declarations.
func (o *Object) JSONMap() map[string]any {
	return o.jsonMap()
}

func (o *Object) jsonMap() map[string]any {
	properties := make(map[string]any, len(o.Properties))
	for _, name := range sortedKeys(o.Properties) {
		if prop := o.Properties[name]; prop != nil {
			properties[name] = prop.jsonMap()
		}
	}

	out := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(o.Required) > 0 {
		out["required"] = append([]string(nil), o.Required...)
	}
	return out
}

func (a *Array) jsonMap() map[string]any {
	out := map[string]any{"type": "array"}
	if a.Items != nil {
		out["items"] = a.Items.jsonMap()
	}
	return out
}

func (s *String) jsonMap() map[string]any {
	out := map[string]any{"type": "string"}
	if s.MinLength != nil {
		out["minLength"] = *s.MinLength
	}
	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
	if len(s.Enum) > 0 {
		out["enum"] = append([]string(nil), s.Enum...)
	}
	return out
}

func (n *Integer) jsonMap() map[string]any {
	out := map[string]any{"type": "integer"}
	if n.Minimum != nil {
		out["minimum"] = *n.Minimum
	}
	if n.Maximum != nil {
		out["maximum"] = *n.Maximum
	}
	return out
}

func (n *Number) jsonMap() map[string]any {
	out := map[string]any{"type": "number"}
	if n.Minimum != nil {
		out["minimum"] = *n.Minimum
	}
	if n.Maximum != nil {
		out["maximum"] = *n.Maximum
	}
	return out
}

func (b *Boolean) jsonMap() map[string]any {
	return map[string]any{"type": "boolean"}
}

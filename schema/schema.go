// Package schema validates request payloads against a small JSON Schema
// subset. The document store itself is schema-less; these checks belong to
// the call sites (the HTTP handlers) only.
package schema

import "fmt"

// Builtin payload schemas for the admin product endpoints.
var (
	productProperties = map[string]any{
		"name":        map[string]any{"type": "string", "minLength": 1},
		"price":       map[string]any{"type": "number", "minimum": float64(0)},
		"category":    map[string]any{"type": "string", "minLength": 1},
		"on_hand":     map[string]any{"type": "integer", "minimum": float64(0)},
		"description": map[string]any{"type": "string"},
	}

	// ProductCreate requires the full product shape.
	ProductCreate = map[string]any{
		"type":       "object",
		"required":   []any{"name", "price", "category", "on_hand"},
		"properties": productProperties,
	}

	// ProductPatch validates only the fields present.
	ProductPatch = map[string]any{
		"type":       "object",
		"properties": productProperties,
	}
)

// Validate checks a payload against a schema. Supported keywords: type
// (string, number, integer, boolean, object), properties, required,
// minimum, maximum, minLength.
func Validate(schema map[string]any, doc map[string]any) error {
	if schema == nil {
		return nil
	}
	return validateValue(schema, doc, "$")
}

func validateValue(schema map[string]any, value any, path string) error {
	if t, ok := schema["type"].(string); ok {
		if err := checkType(t, value, path); err != nil {
			return err
		}
	}

	switch v := value.(type) {
	case map[string]any:
		return validateObject(schema, v, path)
	case string:
		return validateString(schema, v, path)
	case float64:
		return validateNumber(schema, v, path)
	}
	return nil
}

func checkType(expected string, value any, path string) error {
	actual := jsonType(value)
	if expected == "integer" {
		if f, ok := value.(float64); ok && f == float64(int64(f)) {
			return nil
		}
		return fmt.Errorf("%s: expected type %q, got %q", path, expected, actual)
	}
	if actual != expected {
		return fmt.Errorf("%s: expected type %q, got %q", path, expected, actual)
	}
	return nil
}

func jsonType(value any) string {
	switch value.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case nil:
		return "null"
	}
	return "unknown"
}

func validateObject(schema map[string]any, obj map[string]any, path string) error {
	if required, ok := schema["required"].([]any); ok {
		for _, raw := range required {
			name, ok := raw.(string)
			if !ok {
				continue
			}
			if _, present := obj[name]; !present {
				return fmt.Errorf("%s: missing required field %q", path, name)
			}
		}
	}
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return nil
	}
	for name, raw := range properties {
		propSchema, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		value, present := obj[name]
		if !present {
			continue
		}
		if err := validateValue(propSchema, value, path+"."+name); err != nil {
			return err
		}
	}
	return nil
}

func validateString(schema map[string]any, s string, path string) error {
	if min, ok := schema["minLength"].(int); ok && len(s) < min {
		return fmt.Errorf("%s: length %d below minLength %d", path, len(s), min)
	}
	return nil
}

func validateNumber(schema map[string]any, f float64, path string) error {
	if min, ok := schema["minimum"].(float64); ok && f < min {
		return fmt.Errorf("%s: %v below minimum %v", path, f, min)
	}
	if max, ok := schema["maximum"].(float64); ok && f > max {
		return fmt.Errorf("%s: %v above maximum %v", path, f, max)
	}
	return nil
}

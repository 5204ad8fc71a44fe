package schema_test

import (
	"testing"

	"github.com/stevemurr/simple-shop-server/schema"
)

func validProduct() map[string]any {
	return map[string]any{
		"name":        "mug",
		"price":       float64(9.5),
		"category":    "kitchen",
		"on_hand":     float64(3),
		"description": "a mug",
	}
}

func TestProductCreateValid(t *testing.T) {
	if err := schema.Validate(schema.ProductCreate, validProduct()); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}
}

func TestProductCreateMissingRequired(t *testing.T) {
	for _, field := range []string{"name", "price", "category", "on_hand"} {
		t.Run(field, func(t *testing.T) {
			p := validProduct()
			delete(p, field)
			if err := schema.Validate(schema.ProductCreate, p); err == nil {
				t.Fatalf("expected error for missing %s", field)
			}
		})
	}
}

func TestProductCreateDescriptionOptional(t *testing.T) {
	p := validProduct()
	delete(p, "description")
	if err := schema.Validate(schema.ProductCreate, p); err != nil {
		t.Fatalf("expected description to be optional, got %v", err)
	}
}

func TestProductCreateTypeErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"name not string", "name", float64(5)},
		{"price not number", "price", "9.50"},
		{"on_hand not integer", "on_hand", float64(2.5)},
		{"category not string", "category", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validProduct()
			p[tc.field] = tc.value
			if err := schema.Validate(schema.ProductCreate, p); err == nil {
				t.Fatalf("expected error for %s=%v", tc.field, tc.value)
			}
		})
	}
}

func TestProductCreateBounds(t *testing.T) {
	p := validProduct()
	p["price"] = float64(-1)
	if err := schema.Validate(schema.ProductCreate, p); err == nil {
		t.Fatal("expected error for negative price")
	}

	p = validProduct()
	p["on_hand"] = float64(-3)
	if err := schema.Validate(schema.ProductCreate, p); err == nil {
		t.Fatal("expected error for negative on_hand")
	}

	p = validProduct()
	p["name"] = ""
	if err := schema.Validate(schema.ProductCreate, p); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestProductPatchValidatesOnlyPresentFields(t *testing.T) {
	if err := schema.Validate(schema.ProductPatch, map[string]any{"price": float64(12)}); err != nil {
		t.Fatalf("expected partial patch to validate, got %v", err)
	}
	if err := schema.Validate(schema.ProductPatch, map[string]any{"price": "12"}); err == nil {
		t.Fatal("expected error for wrong type in patch")
	}
}

func TestValidateNilSchema(t *testing.T) {
	if err := schema.Validate(nil, map[string]any{"anything": true}); err != nil {
		t.Fatalf("nil schema must validate, got %v", err)
	}
}

package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is sent to the model as a structured-output constraint
// and used locally to validate the reply.
func BuildInvoiceJSONSchema() map[string]any {
	lineItem := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"quantity":    map[string]any{"type": "number"},
			"unit_price":  map[string]any{"type": "number"},
			"amount":      map[string]any{"type": "number"},
		},
		"required": []string{"description"},
	}

	props := map[string]any{
		"vendor_name":    map[string]any{"type": "string"},
		"vendor_abn":     map[string]any{"type": "string"},
		"invoice_number": map[string]any{"type": "string"},
		"invoice_date":   map[string]any{"type": "string"},
		"due_date":       map[string]any{"type": "string"},
		"subtotal":       map[string]any{"type": "number"},
		"tax":            map[string]any{"type": "number"},
		"total":          map[string]any{"type": "number"},
		"currency":       map[string]any{"type": "string"},
		"description":    map[string]any{"type": "string"},
		"line_items":     map[string]any{"type": "array", "items": lineItem},
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   []string{"vendor_name", "invoice_date", "total"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

package llm

import "context"

// LineItem is one invoice line as reported by the model.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
}

// InvoiceFields is the normalized shape we want from the LLM.
type InvoiceFields struct {
	VendorName    string     `json:"vendor_name"`
	VendorABN     string     `json:"vendor_abn,omitempty"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	InvoiceDate   string     `json:"invoice_date"` // YYYY-MM-DD
	DueDate       string     `json:"due_date,omitempty"`
	Subtotal      float64    `json:"subtotal,omitempty"`
	Tax           float64    `json:"tax,omitempty"`
	Total         float64    `json:"total"`
	Currency      string     `json:"currency,omitempty"` // ISO 4217, AUD default
	Description   string     `json:"description,omitempty"`
	LineItems     []LineItem `json:"line_items"`
}

// LineItemDescriptions flattens line items for keyword matching.
func (f *InvoiceFields) LineItemDescriptions() []string {
	if f == nil || len(f.LineItems) == 0 {
		return nil
	}
	out := make([]string, 0, len(f.LineItems))
	for _, it := range f.LineItems {
		if it.Description != "" {
			out = append(out, it.Description)
		}
	}
	return out
}

// FieldExtractor is the interface the pipeline depends on. A (nil, nil)
// return means the text was not worth sending (too short); a nil fields
// value with a non-nil error means extraction failed after retries.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string, fileName string) (*InvoiceFields, error)
}

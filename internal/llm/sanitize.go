package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// StripFences removes a markdown code fence wrapper from a model reply.
// Local models routinely ignore "return ONLY JSON" and wrap the object in
// ```json ... ``` anyway.
func StripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// NormalizeFields repairs a decoded model reply in place:
//   - missing/null vendor_name, invoice_date default to ""
//   - missing/null total defaults to 0.0
//   - money-ish fields given as strings are coerced; unparseable -> 0.0
//   - line_items is forced to a list (null / scalar -> empty list)
//
// The result is re-encoded so it can be schema-validated afterwards.
func NormalizeFields(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}

	repaired := make([]string, 0, 4)

	for _, k := range []string{"vendor_name", "invoice_date"} {
		switch v := m[k].(type) {
		case string:
			m[k] = strings.TrimSpace(v)
		default:
			m[k] = ""
			repaired = append(repaired, k+"(defaulted)")
		}
	}

	numericFields := []string{"subtotal", "tax", "total"}
	for _, k := range numericFields {
		v, ok := m[k]
		if !ok {
			if k == "total" {
				m[k] = 0.0
				repaired = append(repaired, k+"(defaulted)")
			}
			continue
		}
		switch t := v.(type) {
		case float64:
			// already numeric
		case string:
			cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(t))
			f, err := strconv.ParseFloat(cleaned, 64)
			if err != nil {
				f = 0.0
				repaired = append(repaired, k+"(unparseable)")
			}
			m[k] = f
		default:
			m[k] = 0.0
			repaired = append(repaired, k+"(type)")
		}
	}

	if _, ok := m["line_items"].([]any); !ok {
		if _, present := m["line_items"]; present {
			repaired = append(repaired, "line_items(forced_list)")
		}
		m["line_items"] = []any{}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, repaired, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(repaired) > 0 {
		logger.Warn("llm.extract.normalized", "repaired", repaired)
	}
	return out, repaired, nil
}

package llm

import "strings"

func buildSystemPrompt() string {
	parts := []string{
		"You are an invoice parser for Australian tax records. Return ONLY JSON that matches the JSON Schema provided.",
		"Use ISO-8601 dates (YYYY-MM-DD).",
		"Currency must be a 3-letter ISO 4217 code; default to AUD if uncertain.",
		"Amounts are plain numbers, no currency symbols or thousands separators.",
		"vendor_abn is the 11-digit Australian Business Number if one appears on the invoice.",
		"For 'description', write a few words summarizing what was purchased (concise, generic, professional).",
		"List each purchased item under 'line_items' with its description and amounts where visible.",
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

func buildUserPrompt(text, fileName string, maxTextLen int) string {
	var b strings.Builder
	b.WriteString("Filename: ")
	b.WriteString(fileName)
	b.WriteString("\n\nInvoice text:\n")
	if maxTextLen > 0 && len(text) > maxTextLen {
		b.WriteString(text[:maxTextLen])
	} else {
		b.WriteString(text)
	}
	return b.String()
}

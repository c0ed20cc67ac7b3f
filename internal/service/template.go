package service

import "strings"

// DefaultCustomerName is substituted for {name} when the customer has none.
const DefaultCustomerName = "Valued Customer"

// TemplateData carries the values for the recognized placeholders.
type TemplateData struct {
	Name     string
	Business string
	Discount string
	Link     string
}

// RenderTemplate substitutes {name}, {business}, {discount} and {link} in the
// campaign template. Replacement is literal and case-sensitive; every
// occurrence of a placeholder is replaced. Campaign text is authored by the
// business, so no escaping is applied.
func RenderTemplate(template string, data TemplateData) string {
	name := data.Name
	if name == "" {
		name = DefaultCustomerName
	}

	result := template
	result = strings.ReplaceAll(result, "{name}", name)
	result = strings.ReplaceAll(result, "{business}", data.Business)
	result = strings.ReplaceAll(result, "{discount}", data.Discount)
	result = strings.ReplaceAll(result, "{link}", data.Link)
	return result
}

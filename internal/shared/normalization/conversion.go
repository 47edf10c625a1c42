package normalization

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// AsString trims and returns the string representation of value. Numbers are formatted
// without exponent so numeric ids survive ("TrafikaId": 1234).
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

// AsBool accepts booleans and the usual textual spellings.
func AsBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "1", "true", "yes", "da":
			return true
		}
	}
	return false
}

// AsDecimal parses coordinates published either as numbers or strings, with either a
// dot or a comma as decimal separator.
func AsDecimal(value any) *decimal.Decimal {
	var raw string
	switch typed := value.(type) {
	case json.Number:
		raw = typed.String()
	case float64:
		d := decimal.NewFromFloat(typed)
		return &d
	case string:
		raw = strings.ReplaceAll(strings.TrimSpace(typed), ",", ".")
	default:
		return nil
	}
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// AsInterfaceSlice normalizes different collection types into a []any.
func AsInterfaceSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, entry)
		}
		return items
	default:
		return nil
	}
}

// AsMap returns value as an object or nil.
func AsMap(value any) map[string]any {
	typed, _ := value.(map[string]any)
	return typed
}

// Path walks nested objects, e.g. Path(payload, "data", "data", "locations").
func Path(value any, keys ...string) any {
	current := value
	for _, key := range keys {
		m := AsMap(current)
		if m == nil {
			return nil
		}
		current = m[key]
	}
	return current
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// FirstOfList returns the first entry of a delimiter separated list ("a;b" -> "a").
func FirstOfList(value, delimiter string) string {
	head, _, _ := strings.Cut(value, delimiter)
	return strings.TrimSpace(head)
}

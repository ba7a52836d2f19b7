package collection

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
)

// Filter keeps the records that have at least one scalar field containing
// query, compared case-insensitively. Order is preserved. An empty query keeps
// every record.
//
// Records are inspected through their JSON encoding, so the field set is the
// one the API sends. Null, false, zero and empty-string fields never match.
// Nested objects and arrays are not scalars and are skipped.
func Filter[T any](items []T, query string) []T {
	if query == "" {
		return items
	}
	caser := cases.Fold()
	needle := caser.String(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		if containsScalar(raw, needle, caser) {
			out = append(out, item)
		}
	}
	return out
}

func containsScalar(raw []byte, needle string, caser cases.Caser) bool {
	found := false
	gjson.ParseBytes(raw).ForEach(func(_, value gjson.Result) bool {
		text, ok := scalarText(value)
		if ok && strings.Contains(caser.String(text), needle) {
			found = true
			return false
		}
		return true
	})
	return found
}

// scalarText renders a truthy scalar the way it is displayed in the table.
func scalarText(value gjson.Result) (string, bool) {
	switch value.Type {
	case gjson.String:
		if value.Str == "" {
			return "", false
		}
		return value.Str, true
	case gjson.Number:
		if value.Num == 0 {
			return "", false
		}
		return strconv.FormatFloat(value.Num, 'f', -1, 64), true
	case gjson.True:
		return "true", true
	default:
		return "", false
	}
}

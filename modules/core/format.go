package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Format renders a value the way the engine displays results: text as is,
// whole numbers without a fraction, and lists and records as JSON.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return "(null)"
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any, []string, map[string]any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

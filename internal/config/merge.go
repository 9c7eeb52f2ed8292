// SPDX-License-Identifier: MPL-2.0

package config

// Merge combines two decoded config documents. Nested maps merge key by key, lists
// are concatenated with base first, and any other value from over replaces the one in
// base. Null values are dropped from both sides. Neither input is modified.
func Merge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		if v != nil {
			out[k] = cloneValue(v)
		}
	}
	for k, v := range over {
		if v == nil {
			continue
		}
		out[k] = mergeValue(out[k], v)
	}
	return out
}

func mergeValue(base, over any) any {
	switch o := over.(type) {
	case map[string]any:
		if b, ok := base.(map[string]any); ok {
			return Merge(b, o)
		}
		return Merge(nil, o)
	case []any:
		if b, ok := base.([]any); ok {
			merged := make([]any, 0, len(b)+len(o))
			merged = append(merged, b...)
			return append(merged, cloneValue(o).([]any)...)
		}
	}
	return cloneValue(over)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Merge(nil, t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

package pathutil

import "strings"

// Get descends obj along the dot-delimited path and returns the value found
// there. Any missing or non-object intermediate segment yields fallback;
// Get never panics on unexpected shapes.
func Get(obj map[string]interface{}, path string, fallback interface{}) interface{} {
	if obj == nil || path == "" {
		return fallback
	}

	segments := strings.Split(path, ".")
	var current interface{} = obj

	for _, seg := range segments {
		m, ok := current.(map[string]interface{})
		if !ok {
			return fallback
		}
		current, ok = m[seg]
		if !ok {
			return fallback
		}
	}

	if current == nil {
		return fallback
	}
	return current
}

// Set returns a new tree with value placed at the dot-delimited path,
// creating intermediate objects as needed. The input tree is never mutated:
// every map along the written path is copied, siblings are carried over
// untouched. Callers special-case the empty path ("replace everything")
// before getting here.
func Set(obj map[string]interface{}, path string, value interface{}) map[string]interface{} {
	segments := strings.Split(path, ".")
	return setSegments(obj, segments, value)
}

func setSegments(obj map[string]interface{}, segments []string, value interface{}) map[string]interface{} {
	next := make(map[string]interface{}, len(obj)+1)
	for k, v := range obj {
		next[k] = v
	}

	head := segments[0]
	if len(segments) == 1 {
		next[head] = value
		return next
	}

	child, _ := next[head].(map[string]interface{})
	next[head] = setSegments(child, segments[1:], value)
	return next
}

// Clone deep-copies a JSON-compatible tree. Scalars are shared (they are
// immutable), maps and slices are rebuilt.
func Clone(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return nil
	}
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return Clone(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Unflatten folds residual dotted keys ("seo.title") back into real nested
// objects. Most values are already nested by Set, but flat keys can still
// appear in a working copy and must be folded before transmission. Keys
// without dots are copied as-is; nested maps are walked recursively.
func Unflatten(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))

	// Plain keys land first. Dotted keys fold in a second pass so a key
	// like "seo.title" merges into a nested "seo" sibling instead of the
	// outcome depending on map iteration order.
	for k, v := range obj {
		if strings.Contains(k, ".") {
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			v = Unflatten(nested)
		}
		out[k] = v
	}

	for k, v := range obj {
		if !strings.Contains(k, ".") {
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			v = Unflatten(nested)
		}
		out = setSegments(out, strings.Split(k, "."), v)
	}

	return out
}

package relation

// Normalize flattens the response envelopes the backends in the wild use
// into a plain row slice: a bare array, {data: [...]}, {items: [...]},
// {data: {items: [...]}}, {results: [...]} or {docs: [...]}. The second
// return is the total page count when the envelope carries one, else 0.
func Normalize(raw interface{}) ([]map[string]interface{}, int) {
	switch t := raw.(type) {
	case []interface{}:
		return toRows(t), 0
	case map[string]interface{}:
		totalPages := totalPagesOf(t)

		for _, key := range []string{"data", "items", "results", "docs"} {
			v, ok := t[key]
			if !ok {
				continue
			}
			switch inner := v.(type) {
			case []interface{}:
				return toRows(inner), totalPages
			case map[string]interface{}:
				if items, ok := inner["items"].([]interface{}); ok {
					if tp := totalPagesOf(inner); tp > 0 {
						totalPages = tp
					}
					return toRows(items), totalPages
				}
			}
		}
	}
	return nil, 0
}

func toRows(items []interface{}) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if row, ok := item.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func totalPagesOf(envelope map[string]interface{}) int {
	sources := []map[string]interface{}{envelope}
	if meta, ok := envelope["meta"].(map[string]interface{}); ok {
		sources = append(sources, meta)
	}
	for _, src := range sources {
		for _, key := range []string{"total_pages", "totalPages"} {
			if n, ok := src[key].(float64); ok {
				return int(n)
			}
		}
	}
	return 0
}

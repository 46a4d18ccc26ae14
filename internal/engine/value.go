package engine

import (
	"strconv"

	"github.com/wanderkit/cms/internal/pathutil"
)

// UpdateValue applies one widget edit to the record and returns the new
// record tree. The empty key is the "replace the entire value" sentinel:
// the incoming value (expected to be an object) becomes the whole record.
// The record passed in is never mutated.
func UpdateValue(record map[string]interface{}, key string, value interface{}) map[string]interface{} {
	if key == "" {
		if replacement, ok := value.(map[string]interface{}); ok {
			return pathutil.Clone(replacement)
		}
		return map[string]interface{}{}
	}
	return pathutil.Set(record, key, value)
}

// CoerceNumber maps raw text input to a number-array element. Empty input
// stays "" so a field can be legitimately blank, and anything unparsable
// falls back to "" instead of 0 or an error.
func CoerceNumber(input string) interface{} {
	if input == "" {
		return ""
	}
	n, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return ""
	}
	return n
}

// ArrayAppend returns the array with the element default appended.
func ArrayAppend(arr []interface{}, defaultValue interface{}) []interface{} {
	out := make([]interface{}, len(arr), len(arr)+1)
	copy(out, arr)
	return append(out, defaultValue)
}

// ArrayRemove returns the array without the element at index. An index
// out of range returns the array unchanged.
func ArrayRemove(arr []interface{}, index int) []interface{} {
	if index < 0 || index >= len(arr) {
		return arr
	}
	out := make([]interface{}, 0, len(arr)-1)
	out = append(out, arr[:index]...)
	out = append(out, arr[index+1:]...)
	return out
}

// ArraySet replaces the element at index, copying the slice first.
func ArraySet(arr []interface{}, index int, value interface{}) []interface{} {
	if index < 0 || index >= len(arr) {
		return arr
	}
	out := make([]interface{}, len(arr))
	copy(out, arr)
	out[index] = value
	return out
}

package schema

import (
	"fmt"
	"strings"
)

// Field type tags. Arrays use the generic "[]" suffix, so "text[]" is an
// array of text values and "object[]" a repeating group.
const (
	TypeText         = "text"
	TypeTextarea     = "textarea"
	TypeRichText     = "richtext"
	TypeNumber       = "number"
	TypeBoolean      = "boolean"
	TypeDate         = "date"
	TypeEnumDropdown = "enumDropdown"
	TypeImage        = "image"
	TypeVideo        = "video"
	TypeObject       = "object"
	TypeRelation     = "relation"
	TypeUniRelation  = "unidirectionalRelation"
)

// Field declares one editable unit of a record. Key is a dot-delimited path
// into the record; Fields is only set for object / object[] types and holds
// child descriptors whose keys are prefixed by the parent key.
type Field struct {
	Key             string            `json:"key"`
	Type            string            `json:"type"`
	Label           string            `json:"label,omitempty"`
	Required        bool              `json:"required,omitempty"`
	Fields          []Field           `json:"fields,omitempty"`
	Ref             string            `json:"ref,omitempty"`
	NameKey         string            `json:"nameKey,omitempty"`
	OptionsEndpoint string            `json:"optionsEndpoint,omitempty"`
	Filter          map[string]string `json:"filter,omitempty"`
	Enum            []string          `json:"enum,omitempty"`
	Min             *float64          `json:"min,omitempty"`
	Max             *float64          `json:"max,omitempty"`
	MinLength       *int              `json:"minLength,omitempty"`
	MaxLength       *int              `json:"maxLength,omitempty"`
	Grid            int               `json:"grid,omitempty"`
	Width           string            `json:"width,omitempty"`
}

// DisplayLabel falls back to the key when no label was declared.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

// IsArray reports whether the type tag carries the generic array suffix.
func (f Field) IsArray() bool {
	return strings.HasSuffix(f.Type, "[]")
}

// Elem returns the element type of an array tag, or the tag itself for
// scalars.
func (f Field) Elem() string {
	return strings.TrimSuffix(f.Type, "[]")
}

// IsRelation covers both bidirectional and unidirectional relation tags,
// single and array variants.
func (f Field) IsRelation() bool {
	e := f.Elem()
	return e == TypeRelation || e == TypeUniRelation
}

// Unidirectional relations are not stored on the record; their edits are
// tracked as an add/remove diff applied after the main save.
func (f Field) IsUnidirectional() bool {
	return f.Elem() == TypeUniRelation
}

// Flatten walks the descriptor tree and returns every leaf in declaration
// order. Object and object[] nodes recurse into their children; everything
// else is a leaf. Duplicate leaf keys violate the schema contract.
func Flatten(fields []Field) ([]Field, error) {
	var leaves []Field
	seen := make(map[string]bool)

	var walk func(fs []Field) error
	walk = func(fs []Field) error {
		for _, f := range fs {
			if f.Elem() == TypeObject && len(f.Fields) > 0 {
				if err := walk(f.Fields); err != nil {
					return err
				}
				continue
			}
			if seen[f.Key] {
				return fmt.Errorf("duplicate field key %q", f.Key)
			}
			seen[f.Key] = true
			leaves = append(leaves, f)
		}
		return nil
	}

	if err := walk(fields); err != nil {
		return nil, err
	}
	return leaves, nil
}

// Relative strips the parent key prefix from child descriptors so a
// repeating group can be rendered against one item instead of the whole
// record. Children whose keys don't carry the prefix are passed through.
func Relative(parentKey string, fields []Field) []Field {
	out := make([]Field, len(fields))
	prefix := parentKey + "."
	for i, f := range fields {
		f.Key = strings.TrimPrefix(f.Key, prefix)
		if len(f.Fields) > 0 {
			f.Fields = Relative(parentKey, f.Fields)
		}
		out[i] = f
	}
	return out
}

// EmptyValue returns the type-appropriate default for a field: {} for an
// object, [] for any array or relation array, false for boolean, "" for
// everything else.
func EmptyValue(f Field) interface{} {
	switch {
	case f.IsArray():
		return []interface{}{}
	case f.Type == TypeObject:
		return map[string]interface{}{}
	case f.Type == TypeBoolean:
		return false
	default:
		return ""
	}
}

// EmptyItem builds a structurally complete item for an object[] add by
// walking the (relative) child schema and defaulting every leaf.
func EmptyItem(fields []Field) map[string]interface{} {
	item := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		if f.Type == TypeObject && len(f.Fields) > 0 {
			item[f.Key] = EmptyItem(Relative(f.Key, f.Fields))
			continue
		}
		item[f.Key] = EmptyValue(f)
	}
	return item
}

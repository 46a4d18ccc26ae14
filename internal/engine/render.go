package engine

import (
	"fmt"

	"github.com/wanderkit/cms/internal/pathutil"
	"github.com/wanderkit/cms/internal/schema"
)

// Widget kinds understood by the dashboard shell. The engine emits these
// as data; the shell decides how each kind looks.
const (
	WidgetText        = "text"
	WidgetTextarea    = "textarea"
	WidgetRichText    = "richtext"
	WidgetNumber      = "number"
	WidgetCheckbox    = "checkbox"
	WidgetDate        = "date"
	WidgetSelect      = "select"
	WidgetMediaPicker = "mediaPicker"
	WidgetGroup       = "group"
	WidgetRepeater    = "repeater"
	WidgetArray       = "array"
	WidgetRelation    = "relationPicker"
	WidgetReadOnly    = "readonly"
)

// Widget is the server-driven description of one rendered field. It holds
// no state of its own; Value is whatever the record currently carries at
// the field's key, and every edit flows back through UpdateValue.
type Widget struct {
	Kind     string                 `json:"kind"`
	Key      string                 `json:"key"`
	Label    string                 `json:"label"`
	Value    interface{}            `json:"value"`
	Required bool                   `json:"required,omitempty"`
	Multiple bool                   `json:"multiple,omitempty"`
	Options  []string               `json:"options,omitempty"`
	Relation *RelationHints         `json:"relation,omitempty"`
	Children []Widget               `json:"children,omitempty"`
	Items    [][]Widget             `json:"items,omitempty"`
	Hints    map[string]interface{} `json:"hints,omitempty"`
}

// RelationHints carries what a relation picker needs to drive the
// resolver: which collection, which label, whether edits go through the
// diff tracker instead of the record.
type RelationHints struct {
	Ref            string `json:"ref,omitempty"`
	NameKey        string `json:"nameKey,omitempty"`
	Endpoint       string `json:"endpoint,omitempty"`
	Unidirectional bool   `json:"unidirectional"`
}

var scalarWidgets = map[string]string{
	schema.TypeText:         WidgetText,
	schema.TypeTextarea:     WidgetTextarea,
	schema.TypeRichText:     WidgetRichText,
	schema.TypeNumber:       WidgetNumber,
	schema.TypeBoolean:      WidgetCheckbox,
	schema.TypeDate:         WidgetDate,
	schema.TypeEnumDropdown: WidgetSelect,
}

// Render maps one field descriptor onto a widget against the current
// record. It is a pure function of (descriptor, value at key); it never
// keeps its own copy of the value across renders. Unrecognized type tags
// degrade to a read-only text widget rather than failing the whole form.
func Render(f schema.Field, record map[string]interface{}) Widget {
	w := Widget{
		Key:      f.Key,
		Label:    f.DisplayLabel(),
		Required: f.Required,
		Hints:    presentationHints(f),
	}

	elem := f.Elem()

	switch {
	case elem == schema.TypeImage || elem == schema.TypeVideo:
		w.Kind = WidgetMediaPicker
		w.Multiple = f.IsArray()
		if f.IsArray() {
			w.Value = pathutil.Get(record, f.Key, []interface{}{})
		} else {
			w.Value = pathutil.Get(record, f.Key, "")
		}

	case f.IsRelation():
		w.Kind = WidgetRelation
		w.Multiple = f.IsArray()
		w.Relation = &RelationHints{
			Ref:            f.Ref,
			NameKey:        f.NameKey,
			Endpoint:       f.OptionsEndpoint,
			Unidirectional: f.IsUnidirectional(),
		}
		// Unidirectional selections live in the diff tracker, not on
		// the record.
		if !f.IsUnidirectional() {
			if f.IsArray() {
				w.Value = pathutil.Get(record, f.Key, []interface{}{})
			} else {
				w.Value = pathutil.Get(record, f.Key, "")
			}
		}

	case f.Type == schema.TypeObject:
		w.Kind = WidgetGroup
		sub, _ := pathutil.Get(record, f.Key, map[string]interface{}{}).(map[string]interface{})
		for _, child := range schema.Relative(f.Key, f.Fields) {
			w.Children = append(w.Children, Render(child, sub))
		}

	case f.Type == "object[]":
		w.Kind = WidgetRepeater
		items, _ := pathutil.Get(record, f.Key, []interface{}{}).([]interface{})
		fields := schema.Relative(f.Key, f.Fields)
		for _, item := range items {
			sub, _ := item.(map[string]interface{})
			var row []Widget
			for _, child := range fields {
				row = append(row, Render(child, sub))
			}
			w.Items = append(w.Items, row)
		}

	case f.IsArray():
		// Primitive array: one scalar widget per element with
		// add/remove-at-index controls on the shell side.
		w.Kind = WidgetArray
		w.Value = pathutil.Get(record, f.Key, []interface{}{})
		if kind, ok := scalarWidgets[elem]; ok {
			w.Hints["element"] = kind
		} else {
			w.Hints["element"] = WidgetReadOnly
		}

	default:
		kind, ok := scalarWidgets[f.Type]
		if !ok {
			w.Kind = WidgetReadOnly
			w.Value = fmt.Sprintf("%v", pathutil.Get(record, f.Key, ""))
			break
		}
		w.Kind = kind
		if f.Type == schema.TypeBoolean {
			w.Value = pathutil.Get(record, f.Key, false)
		} else {
			w.Value = pathutil.Get(record, f.Key, "")
		}
		if f.Type == schema.TypeEnumDropdown {
			w.Options = f.Enum
		}
	}

	return w
}

// RenderFields renders a whole descriptor list in declaration order.
func RenderFields(fields []schema.Field, record map[string]interface{}) []Widget {
	out := make([]Widget, 0, len(fields))
	for _, f := range fields {
		out = append(out, Render(f, record))
	}
	return out
}

func presentationHints(f schema.Field) map[string]interface{} {
	hints := map[string]interface{}{}
	if f.Grid > 0 {
		hints["grid"] = f.Grid
	}
	if f.Width != "" {
		hints["width"] = f.Width
	}
	if f.MinLength != nil {
		hints["minLength"] = *f.MinLength
	}
	if f.MaxLength != nil {
		hints["maxLength"] = *f.MaxLength
	}
	if f.Min != nil {
		hints["min"] = *f.Min
	}
	if f.Max != nil {
		hints["max"] = *f.Max
	}
	return hints
}

package engine

import (
	"github.com/wanderkit/cms/internal/pathutil"
	"github.com/wanderkit/cms/internal/schema"
)

// ObjectArray manages a repeating group: an ordered collection of
// sub-objects edited against a relative child schema. The expand flags
// are purely presentational and never persisted with the record.
type ObjectArray struct {
	Fields   []schema.Field
	items    []interface{}
	expanded []bool
	onChange func([]interface{})
}

// NewObjectArray wraps the current array value. fields must already be
// relative to the parent key (see schema.Relative). onChange receives the
// full replacement array after every mutation.
func NewObjectArray(value []interface{}, fields []schema.Field, onChange func([]interface{})) *ObjectArray {
	a := &ObjectArray{
		Fields:   fields,
		items:    append([]interface{}(nil), value...),
		expanded: make([]bool, len(value)),
		onChange: onChange,
	}
	return a
}

func (a *ObjectArray) Len() int { return len(a.items) }

func (a *ObjectArray) Items() []interface{} {
	return append([]interface{}(nil), a.items...)
}

// Add appends a structurally-empty item built from the schema, expanded
// by default so the user lands in an editable group.
func (a *ObjectArray) Add() map[string]interface{} {
	item := schema.EmptyItem(a.Fields)
	a.items = append(a.items, item)
	a.expanded = append(a.expanded, true)
	a.emit()
	return item
}

// Remove splices out the item and its expand-state entry together.
func (a *ObjectArray) Remove(index int) {
	if index < 0 || index >= len(a.items) {
		return
	}
	a.items = append(a.items[:index], a.items[index+1:]...)
	a.expanded = append(a.expanded[:index], a.expanded[index+1:]...)
	a.emit()
}

// Move reorders an item from one index to another.
func (a *ObjectArray) Move(from, to int) {
	if from < 0 || from >= len(a.items) || to < 0 || to >= len(a.items) || from == to {
		return
	}
	item := a.items[from]
	exp := a.expanded[from]

	a.items = append(a.items[:from], a.items[from+1:]...)
	a.expanded = append(a.expanded[:from], a.expanded[from+1:]...)

	a.items = append(a.items[:to], append([]interface{}{item}, a.items[to:]...)...)
	a.expanded = append(a.expanded[:to], append([]bool{exp}, a.expanded[to:]...)...)
	a.emit()
}

// UpdateItem applies one field edit inside the item at index. Only that
// item is cloned and replaced; siblings keep their identity so the shell
// can skip re-rendering them.
func (a *ObjectArray) UpdateItem(index int, key string, value interface{}) {
	if index < 0 || index >= len(a.items) {
		return
	}
	item, _ := a.items[index].(map[string]interface{})
	a.items = ArraySet(a.items, index, pathutil.Set(item, key, value))
	a.emit()
}

func (a *ObjectArray) Expanded(index int) bool {
	if index < 0 || index >= len(a.expanded) {
		return false
	}
	return a.expanded[index]
}

func (a *ObjectArray) Toggle(index int) {
	if index < 0 || index >= len(a.expanded) {
		return
	}
	a.expanded[index] = !a.expanded[index]
}

func (a *ObjectArray) emit() {
	if a.onChange != nil {
		a.onChange(a.Items())
	}
}

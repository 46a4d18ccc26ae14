package relation

import (
	"context"
	"fmt"
	"sync"

	"github.com/wanderkit/cms/internal/api"
)

// DiffTracker records unidirectional relation edits per field as a diff
// against the last-loaded baseline. Add and remove are always computed as
// set differences against that baseline, never against intermediate
// states, so repeated toggles collapse to a minimal diff.
type DiffTracker struct {
	mu     sync.Mutex
	fields map[string]*fieldDiff
}

type fieldDiff struct {
	baseline []string
	selected []string
	ready    bool
}

// Diff is the net change for one field.
type Diff struct {
	Add    []string
	Remove []string
}

func NewDiffTracker() *DiffTracker {
	return &DiffTracker{fields: make(map[string]*fieldDiff)}
}

// Seed installs the loaded edge baseline for a field and marks it ready.
// Until a field is seeded no edit is accepted; diffing against an empty
// baseline would wrongly mark every existing selection as added.
func (t *DiffTracker) Seed(fieldKey string, initial []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fields[fieldKey] = &fieldDiff{
		baseline: append([]string(nil), initial...),
		selected: append([]string(nil), initial...),
		ready:    true,
	}
}

// Ready reports whether the baseline load for a field has completed.
func (t *DiffTracker) Ready(fieldKey string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.fields[fieldKey]
	return ok && f.ready
}

// Select adds an id to the field's selection.
func (t *DiffTracker) Select(fieldKey, id string) error {
	return t.edit(fieldKey, func(f *fieldDiff) {
		for _, s := range f.selected {
			if s == id {
				return
			}
		}
		f.selected = append(f.selected, id)
	})
}

// Deselect removes an id from the field's selection.
func (t *DiffTracker) Deselect(fieldKey, id string) error {
	return t.edit(fieldKey, func(f *fieldDiff) {
		out := f.selected[:0]
		for _, s := range f.selected {
			if s != id {
				out = append(out, s)
			}
		}
		f.selected = out
	})
}

// Selected returns the field's current selection.
func (t *DiffTracker) Selected(fieldKey string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.fields[fieldKey]
	if !ok {
		return nil
	}
	return append([]string(nil), f.selected...)
}

func (t *DiffTracker) edit(fieldKey string, fn func(*fieldDiff)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.fields[fieldKey]
	if !ok || !f.ready {
		return fmt.Errorf("relation field %q: baseline not loaded yet", fieldKey)
	}
	fn(f)
	return nil
}

// DiffFor computes the net diff for one field against its baseline.
func (t *DiffTracker) DiffFor(fieldKey string) Diff {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.fields[fieldKey]
	if !ok {
		return Diff{}
	}
	return diffOf(f)
}

func diffOf(f *fieldDiff) Diff {
	base := make(map[string]bool, len(f.baseline))
	for _, id := range f.baseline {
		base[id] = true
	}
	sel := make(map[string]bool, len(f.selected))
	for _, id := range f.selected {
		sel[id] = true
	}

	var d Diff
	for _, id := range f.selected {
		if !base[id] {
			d.Add = append(d.Add, id)
		}
	}
	for _, id := range f.baseline {
		if !sel[id] {
			d.Remove = append(d.Remove, id)
		}
	}
	return d
}

// Pending returns every field with a non-empty diff.
func (t *DiffTracker) Pending() map[string]Diff {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Diff)
	for key, f := range t.fields {
		d := diffOf(f)
		if len(d.Add) > 0 || len(d.Remove) > 0 {
			out[key] = d
		}
	}
	return out
}

// LoadBaseline fetches the existing edges for a node and seeds the
// tracker, normalizing whichever side of each edge is not the node into
// the selected-id list.
func (t *DiffTracker) LoadBaseline(ctx context.Context, client api.Client, fieldKey, kind, nodeID string) error {
	var raw interface{}
	if err := client.Do(ctx, "GET", "/relations/"+kind+"/"+nodeID, nil, nil, &raw); err != nil {
		return err
	}

	rows, _ := Normalize(raw)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		from := stringID(row["from_id"])
		to := stringID(row["to_id"])
		if from == nodeID {
			ids = append(ids, to)
		} else {
			ids = append(ids, from)
		}
	}

	t.Seed(fieldKey, ids)
	return nil
}

// Apply issues one add call per added id and one remove call per removed
// id, sequentially. A failing edge call is reported through errs but does
// not halt the remaining calls; the main record save has already
// committed.
func (t *DiffTracker) Apply(ctx context.Context, client api.Client, fieldKey, kind, fromID, fromType, toType string) []error {
	d := t.DiffFor(fieldKey)
	var errs []error

	for _, id := range d.Add {
		payload := EdgeRequest{Kind: kind, FromID: fromID, FromType: fromType, ToID: id, ToType: toType}
		if err := client.Do(ctx, "POST", "/relations/add", nil, payload, nil); err != nil {
			errs = append(errs, fmt.Errorf("add %s: %w", id, err))
		}
	}
	for _, id := range d.Remove {
		payload := EdgeRequest{Kind: kind, FromID: fromID, FromType: fromType, ToID: id, ToType: toType}
		if err := client.Do(ctx, "POST", "/relations/remove", nil, payload, nil); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", id, err))
		}
	}

	return errs
}

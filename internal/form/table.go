package form

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/wanderkit/cms/internal/api"
	"github.com/wanderkit/cms/internal/notify"
	"github.com/wanderkit/cms/internal/permission"
	"github.com/wanderkit/cms/internal/relation"
	"github.com/wanderkit/cms/internal/schema"
)

const tablePageSize = 20

// Column is one table header cell plus its visibility flag.
type Column struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

// RowActions lists what the current user may do with one row.
type RowActions struct {
	Edit      bool `json:"edit"`
	Delete    bool `json:"delete"`
	Duplicate bool `json:"duplicate"`
	Publish   bool `json:"publish"`
}

// Table drives one collection listing: paginated rows, per-user column
// visibility and permission-gated row actions.
type Table struct {
	Model      *schema.Model
	StorageKey string

	client   api.Client
	notifier notify.Notifier
	gate     permission.Gate

	mu         sync.Mutex
	rows       []map[string]interface{}
	page       int
	totalPages int
	search     string
	loading    bool
	hidden     map[string]bool
}

func NewTable(model *schema.Model, client api.Client, notifier notify.Notifier, gate permission.Gate, storageKey string) *Table {
	return &Table{
		Model:      model,
		StorageKey: storageKey,
		client:     client,
		notifier:   notifier,
		gate:       gate,
		hidden:     map[string]bool{},
	}
}

func (t *Table) endpoint() string { return "/" + t.Model.Collection }

func (t *Table) Rows() []map[string]interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]map[string]interface{}(nil), t.rows...)
}

// Load fetches the first page, replacing whatever is cached.
func (t *Table) Load(ctx context.Context, search string) error {
	t.mu.Lock()
	t.search = search
	t.mu.Unlock()
	return t.fetch(ctx, 1)
}

// LoadMore fetches the next page. It refuses while a fetch is already in
// flight or when the last page has been reached, so scroll events can
// fire it freely.
func (t *Table) LoadMore(ctx context.Context) error {
	t.mu.Lock()
	if t.loading || (t.totalPages > 0 && t.page >= t.totalPages) {
		t.mu.Unlock()
		return nil
	}
	next := t.page + 1
	t.mu.Unlock()
	return t.fetch(ctx, next)
}

func (t *Table) fetch(ctx context.Context, page int) error {
	t.mu.Lock()
	if t.loading {
		t.mu.Unlock()
		return nil
	}
	t.loading = true
	search := t.search
	t.mu.Unlock()

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(tablePageSize))
	if search != "" {
		query.Set("q", search)
	}

	var raw interface{}
	err := t.client.Do(ctx, "GET", t.endpoint(), query, nil, &raw)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false

	if err != nil {
		if page == 1 {
			t.rows = nil
			t.page = 0
			t.totalPages = 0
		}
		t.notifier.Notify(notify.Error, fmt.Sprintf("Failed to load %s: %v", t.Model.Title, err))
		return err
	}

	rows, totalPages := relation.Normalize(raw)
	if page == 1 {
		t.rows = rows
	} else {
		t.rows = append(t.rows, rows...)
	}
	t.page = page
	t.totalPages = totalPages
	return nil
}

// Columns returns the header list with visibility applied. Object and
// repeater fields make no sense as cells and are skipped.
func (t *Table) Columns() []Column {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Column
	for _, f := range t.Model.Fields {
		if f.Type == schema.TypeObject || f.Type == "object[]" {
			continue
		}
		out = append(out, Column{Key: f.Key, Label: f.DisplayLabel(), Visible: !t.hidden[f.Key]})
	}
	return out
}

// LoadColumnPrefs restores per-user column visibility. Missing or
// unreadable preferences fall back to everything visible.
func (t *Table) LoadColumnPrefs(ctx context.Context) {
	var resp interface{}
	if err := t.client.Do(ctx, "GET", "/preferences/"+t.StorageKey, nil, nil, &resp); err != nil {
		return
	}
	envelope, _ := resp.(map[string]interface{})
	data, _ := envelope["data"].(map[string]interface{})
	hidden, _ := data["hidden"].([]interface{})

	t.mu.Lock()
	defer t.mu.Unlock()
	t.hidden = map[string]bool{}
	for _, k := range hidden {
		if key, ok := k.(string); ok {
			t.hidden[key] = true
		}
	}
}

// SetColumnVisible flips one column and persists the hidden set under the
// table's storage key. A failed persist keeps the local change.
func (t *Table) SetColumnVisible(ctx context.Context, key string, visible bool) {
	t.mu.Lock()
	if visible {
		delete(t.hidden, key)
	} else {
		t.hidden[key] = true
	}
	hidden := make([]string, 0, len(t.hidden))
	for k := range t.hidden {
		hidden = append(hidden, k)
	}
	t.mu.Unlock()

	body := map[string]interface{}{"hidden": hidden}
	if err := t.client.Do(ctx, "PUT", "/preferences/"+t.StorageKey, nil, body, nil); err != nil {
		t.notifier.Notify(notify.Warning, "Failed to save column preferences")
	}
}

// Actions reports which row actions the gate allows for this model.
func (t *Table) Actions() RowActions {
	return RowActions{
		Edit:      t.gate.Can(t.Model.Key, permission.ActionUpdate),
		Delete:    t.gate.Can(t.Model.Key, permission.ActionDelete),
		Duplicate: t.gate.Can(t.Model.Key, permission.ActionCreate),
		Publish:   t.gate.Can(t.Model.Key, permission.ActionPublish),
	}
}

// Delete removes the row optimistically, then issues the delete. On
// failure the listing is refetched from page one so the row comes back.
func (t *Table) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	kept := make([]map[string]interface{}, 0, len(t.rows))
	for _, row := range t.rows {
		if rowID(row) != id {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	t.mu.Unlock()

	if err := t.client.Do(ctx, "DELETE", t.endpoint()+"/"+id, nil, nil, nil); err != nil {
		t.notifier.Notify(notify.Error, fmt.Sprintf("Failed to delete: %v", err))
		_ = t.fetch(ctx, 1)
		return err
	}
	return nil
}

// Duplicate clones the record server-side and refreshes the listing so
// the copy shows up.
func (t *Table) Duplicate(ctx context.Context, id string) error {
	if err := t.client.Do(ctx, "POST", t.endpoint()+"/"+id+"/duplicate", nil, nil, nil); err != nil {
		t.notifier.Notify(notify.Error, fmt.Sprintf("Failed to duplicate: %v", err))
		return err
	}
	return t.fetch(ctx, 1)
}

func rowID(row map[string]interface{}) string {
	switch v := row["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

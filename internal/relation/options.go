package relation

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/wanderkit/cms/internal/api"
	"github.com/wanderkit/cms/internal/notify"
	"github.com/wanderkit/cms/internal/schema"
)

const DefaultLimit = 20

// Option is one selectable relation target, normalized from whatever row
// shape the backend returned. Raw keeps the original row for later use.
type Option struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Raw  map[string]interface{} `json:"-"`
}

type Query struct {
	Page   int
	Limit  int
	Search string
}

// Static fallbacks consulted after the descriptor's own hints. Keys are
// field keys for endpoints, ref names for labels.
var endpointOverrides = map[string]string{
	"author": "/users",
}

var refLabels = map[string]string{
	"user":   "name",
	"blog":   "title",
	"tour":   "title",
	"coupon": "code",
}

type fieldState struct {
	options    []Option
	page       int
	totalPages int
	loading    bool
	loaded     bool
}

// Resolver loads paginated, searchable option lists for relation fields.
// Results are cached per field key so repeated renders don't refetch, and
// page loads for one field are strictly sequential.
type Resolver struct {
	client   api.Client
	notifier notify.Notifier

	mu     sync.Mutex
	fields map[string]*fieldState
}

func NewResolver(client api.Client, notifier notify.Notifier) *Resolver {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Resolver{
		client:   client,
		notifier: notifier,
		fields:   make(map[string]*fieldState),
	}
}

// Endpoint resolves where a field's options come from: the descriptor's
// explicit endpoint wins, then the static lookup table, then a REST path
// derived from ref by pluralization. No resolution means no fetch.
func Endpoint(f schema.Field) (string, bool) {
	if f.OptionsEndpoint != "" {
		return f.OptionsEndpoint, true
	}
	if ep, ok := endpointOverrides[f.Key]; ok {
		return ep, true
	}
	if f.Ref != "" {
		return "/" + Pluralize(f.Ref), true
	}
	return "", false
}

// Pluralize derives a collection path segment from a ref name:
// camelCase becomes kebab-case, trailing y becomes ies, otherwise s is
// appended.
func Pluralize(ref string) string {
	var b strings.Builder
	for i, r := range ref {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	kebab := b.String()

	if strings.HasSuffix(kebab, "y") {
		return kebab[:len(kebab)-1] + "ies"
	}
	return kebab + "s"
}

// labelKey resolves which row field carries the human-readable name.
// Empty means fall through to the per-row chain in optionName.
func labelKey(f schema.Field) string {
	if f.NameKey != "" {
		return f.NameKey
	}
	if lk, ok := refLabels[f.Ref]; ok {
		return lk
	}
	return ""
}

// optionName picks a display name for a row: the resolved label key first,
// then name, title, label, tag, and finally the id itself.
func optionName(row map[string]interface{}, key string) string {
	candidates := []string{key, "name", "title", "label", "tag"}
	for _, k := range candidates {
		if k == "" {
			continue
		}
		if s, ok := row[k].(string); ok && s != "" {
			return s
		}
	}
	return stringID(row["id"])
}

func stringID(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// FetchOptions loads one page of options for a field and merges it into
// the field's cache. Page 1 replaces the cache; later pages append.
func (r *Resolver) FetchOptions(ctx context.Context, f schema.Field, q Query) ([]Option, int, error) {
	endpoint, ok := Endpoint(f)
	if !ok {
		return nil, 0, nil
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}

	query := url.Values{}
	if q.Search != "" {
		query.Set("q", q.Search)
	}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	for k, v := range f.Filter {
		query.Set(k, v)
	}

	var raw interface{}
	err := r.client.Do(ctx, "GET", endpoint, query, nil, &raw)

	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.state(f.Key)

	if err != nil {
		// Keep what we have on a later-page failure; a first-page failure
		// means the list is unknown, so clear it.
		if q.Page == 1 {
			state.options = nil
			state.loaded = false
		}
		r.notifier.Notify(notify.Error, fmt.Sprintf("Failed to load options for %s", f.DisplayLabel()))
		return nil, state.totalPages, err
	}

	rows, totalPages := Normalize(raw)
	lk := labelKey(f)

	page := make([]Option, 0, len(rows))
	for _, row := range rows {
		page = append(page, Option{
			ID:   stringID(row["id"]),
			Name: optionName(row, lk),
			Raw:  row,
		})
	}

	if q.Page == 1 {
		state.options = page
	} else {
		state.options = append(state.options, page...)
	}
	state.page = q.Page
	if totalPages > 0 {
		state.totalPages = totalPages
	}
	state.loaded = true

	return page, state.totalPages, nil
}

// LoadMore fetches the next page for a field. It refuses while a fetch for
// the same field is already in flight, and once the last page is reached;
// both cases issue no request.
func (r *Resolver) LoadMore(ctx context.Context, f schema.Field, search string) error {
	r.mu.Lock()
	state := r.state(f.Key)
	if state.loading {
		r.mu.Unlock()
		return nil
	}
	if state.loaded && state.page >= state.totalPages {
		r.mu.Unlock()
		return nil
	}
	state.loading = true
	next := state.page + 1
	r.mu.Unlock()

	_, _, err := r.FetchOptions(ctx, f, Query{Page: next, Search: search})

	r.mu.Lock()
	state.loading = false
	r.mu.Unlock()

	return err
}

// Options returns the accumulated option list for a field key. The list is
// shared across rows of a repeating group; it is never duplicated per row.
func (r *Resolver) Options(fieldKey string) []Option {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Option(nil), r.state(fieldKey).options...)
}

// Loaded reports whether a field has completed at least one successful
// fetch, so the orchestrator does not refetch on every render.
func (r *Resolver) Loaded(fieldKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state(fieldKey).loaded
}

func (r *Resolver) state(key string) *fieldState {
	s, ok := r.fields[key]
	if !ok {
		s = &fieldState{}
		r.fields[key] = s
	}
	return s
}

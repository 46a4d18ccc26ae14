package relation_test

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wanderkit/cms/internal/notify"
	"github.com/wanderkit/cms/internal/relation"
	"github.com/wanderkit/cms/internal/schema"
)

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// fakeClient records every request and answers from a handler func.
type fakeClient struct {
	mu      sync.Mutex
	calls   []call
	handler func(method, path string, query url.Values, body interface{}) (interface{}, error)
	started chan struct{}
	release chan struct{}
}

func (f *fakeClient) Do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Path: path, Query: query, Body: body})
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	result, err := f.handler(method, path, query, body)
	if err != nil {
		return err
	}
	if out != nil && result != nil {
		*(out.(*interface{})) = result
	}
	return nil
}

func (f *fakeClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func pageEnvelope(names []string, totalPages int) interface{} {
	items := make([]interface{}, len(names))
	for i, n := range names {
		items[i] = map[string]interface{}{"id": fmt.Sprintf("id-%s", n), "name": n}
	}
	return map[string]interface{}{
		"data": items,
		"meta": map[string]interface{}{"total_pages": float64(totalPages)},
	}
}

func TestEndpointResolution(t *testing.T) {
	t.Run("Explicit endpoint wins", func(t *testing.T) {
		ep, ok := relation.Endpoint(schema.Field{Key: "x", OptionsEndpoint: "/custom", Ref: "tour"})
		assert.True(t, ok)
		assert.Equal(t, "/custom", ep)
	})

	t.Run("Lookup table beats ref derivation", func(t *testing.T) {
		ep, ok := relation.Endpoint(schema.Field{Key: "author", Ref: "user"})
		assert.True(t, ok)
		assert.Equal(t, "/users", ep)
	})

	t.Run("Ref pluralization", func(t *testing.T) {
		ep, ok := relation.Endpoint(schema.Field{Key: "x", Ref: "destination"})
		assert.True(t, ok)
		assert.Equal(t, "/destinations", ep)
	})

	t.Run("No hints means no fetch", func(t *testing.T) {
		_, ok := relation.Endpoint(schema.Field{Key: "x"})
		assert.False(t, ok)
	})
}

func TestPluralize(t *testing.T) {
	cases := map[string]string{
		"tour":         "tours",
		"category":     "categories",
		"tourPackage":  "tour-packages",
		"blogCategory": "blog-categories",
	}
	for in, want := range cases {
		assert.Equal(t, want, relation.Pluralize(in), in)
	}
}

func TestNormalizeEnvelopes(t *testing.T) {
	row := map[string]interface{}{"id": "1", "name": "Bali"}

	shapes := []interface{}{
		[]interface{}{row},
		map[string]interface{}{"data": []interface{}{row}},
		map[string]interface{}{"items": []interface{}{row}},
		map[string]interface{}{"data": map[string]interface{}{"items": []interface{}{row}}},
		map[string]interface{}{"results": []interface{}{row}},
		map[string]interface{}{"docs": []interface{}{row}},
	}

	for i, shape := range shapes {
		rows, _ := relation.Normalize(shape)
		assert.Len(t, rows, 1, "shape %d", i)
		assert.Equal(t, "Bali", rows[0]["name"], "shape %d", i)
	}

	t.Run("Total pages from meta", func(t *testing.T) {
		_, tp := relation.Normalize(pageEnvelope([]string{"a"}, 7))
		assert.Equal(t, 7, tp)
	})

	t.Run("Garbage yields nothing", func(t *testing.T) {
		rows, tp := relation.Normalize("nonsense")
		assert.Nil(t, rows)
		assert.Zero(t, tp)
	})
}

func TestFetchOptions(t *testing.T) {
	field := schema.Field{Key: "destination", Type: "relation", Ref: "destination"}

	t.Run("Maps rows and caches pages", func(t *testing.T) {
		client := &fakeClient{handler: func(_, _ string, query url.Values, _ interface{}) (interface{}, error) {
			if query.Get("page") == "1" {
				return pageEnvelope([]string{"Bali", "Rome"}, 2), nil
			}
			return pageEnvelope([]string{"Paris"}, 2), nil
		}}
		r := relation.NewResolver(client, nil)

		page, totalPages, err := r.FetchOptions(context.Background(), field, relation.Query{Page: 1})
		assert.NoError(t, err)
		assert.Equal(t, 2, totalPages)
		assert.Equal(t, "id-Bali", page[0].ID)
		assert.Equal(t, "Bali", page[0].Name)
		assert.True(t, r.Loaded("destination"))

		_, _, err = r.FetchOptions(context.Background(), field, relation.Query{Page: 2})
		assert.NoError(t, err)
		assert.Len(t, r.Options("destination"), 3)
	})

	t.Run("Filter and search forwarded", func(t *testing.T) {
		filtered := schema.Field{Key: "stops", Type: "relation[]", Ref: "destination", Filter: map[string]string{"featured": "true"}}
		client := &fakeClient{handler: func(_, _ string, query url.Values, _ interface{}) (interface{}, error) {
			assert.Equal(t, "true", query.Get("featured"))
			assert.Equal(t, "bali", query.Get("q"))
			return pageEnvelope(nil, 1), nil
		}}
		r := relation.NewResolver(client, nil)
		_, _, err := r.FetchOptions(context.Background(), filtered, relation.Query{Search: "bali"})
		assert.NoError(t, err)
	})

	t.Run("Page one failure clears, later page keeps", func(t *testing.T) {
		fail := false
		client := &fakeClient{handler: func(_, _ string, _ url.Values, _ interface{}) (interface{}, error) {
			if fail {
				return nil, fmt.Errorf("boom")
			}
			return pageEnvelope([]string{"Bali"}, 3), nil
		}}
		rec := &notify.Recorder{}
		r := relation.NewResolver(client, rec)

		_, _, err := r.FetchOptions(context.Background(), field, relation.Query{Page: 1})
		assert.NoError(t, err)
		assert.Len(t, r.Options("destination"), 1)

		fail = true
		_, _, err = r.FetchOptions(context.Background(), field, relation.Query{Page: 2})
		assert.Error(t, err)
		assert.Len(t, r.Options("destination"), 1, "later-page failure keeps prior options")

		_, _, err = r.FetchOptions(context.Background(), field, relation.Query{Page: 1})
		assert.Error(t, err)
		assert.Empty(t, r.Options("destination"), "first-page failure clears the list")
		assert.NotEmpty(t, rec.Entries, "failures surface a notification")
	})

	t.Run("Unresolvable field issues no request", func(t *testing.T) {
		client := &fakeClient{handler: func(_, _ string, _ url.Values, _ interface{}) (interface{}, error) {
			return nil, nil
		}}
		r := relation.NewResolver(client, nil)
		page, _, err := r.FetchOptions(context.Background(), schema.Field{Key: "free"}, relation.Query{})
		assert.NoError(t, err)
		assert.Nil(t, page)
		assert.Zero(t, client.count())
	})
}

func TestLoadMoreGuard(t *testing.T) {
	field := schema.Field{Key: "coupons", Type: "relation[]", Ref: "coupon"}

	t.Run("Concurrent loadMore issues one request", func(t *testing.T) {
		client := &fakeClient{
			started: make(chan struct{}, 2),
			release: make(chan struct{}),
			handler: func(_, _ string, _ url.Values, _ interface{}) (interface{}, error) {
				return pageEnvelope([]string{"SUMMER10"}, 5), nil
			},
		}
		r := relation.NewResolver(client, nil)

		done := make(chan error, 1)
		go func() { done <- r.LoadMore(context.Background(), field, "") }()
		<-client.started // first request is in flight

		assert.NoError(t, r.LoadMore(context.Background(), field, ""), "second call is refused silently")
		assert.Equal(t, 1, client.count())

		close(client.release)
		assert.NoError(t, <-done)
	})

	t.Run("Refused past the last page", func(t *testing.T) {
		client := &fakeClient{handler: func(_, _ string, _ url.Values, _ interface{}) (interface{}, error) {
			return pageEnvelope([]string{"ONLY"}, 1), nil
		}}
		r := relation.NewResolver(client, nil)

		assert.NoError(t, r.LoadMore(context.Background(), field, ""))
		assert.Equal(t, 1, client.count())

		assert.NoError(t, r.LoadMore(context.Background(), field, ""))
		assert.Equal(t, 1, client.count(), "no request once page == totalPages")
	})
}

func TestSearcherDebounce(t *testing.T) {
	field := schema.Field{Key: "tour", Type: "relation", Ref: "tour"}
	client := &fakeClient{handler: func(_, _ string, query url.Values, _ interface{}) (interface{}, error) {
		return pageEnvelope([]string{query.Get("q")}, 1), nil
	}}
	r := relation.NewResolver(client, nil)
	s := relation.NewSearcher(r, field, 20*time.Millisecond)

	var mu sync.Mutex
	var delivered [][]relation.Option

	deliver := func(opts []relation.Option) {
		mu.Lock()
		delivered = append(delivered, opts)
		mu.Unlock()
	}

	// Rapid keystrokes: only the last term should reach the network.
	s.Search("b", deliver)
	s.Search("ba", deliver)
	s.Search("bali", deliver)

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, client.count(), "superseded searches never fire")
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, delivered, 1)
	assert.Equal(t, "bali", delivered[0][0].Name)
}

package form_test

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wanderkit/cms/internal/form"
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

type fakeClient struct {
	mu      sync.Mutex
	calls   []call
	handler func(method, path string, query url.Values, body interface{}) (interface{}, error)
}

func (f *fakeClient) Do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Path: path, Query: query, Body: body})
	f.mu.Unlock()

	var result interface{}
	var err error
	if f.handler != nil {
		result, err = f.handler(method, path, query, body)
	}
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

func contentModel() *schema.Model {
	return &schema.Model{
		Key:        "blogs",
		Title:      "Blogs",
		Collection: "blogs",
		Fields: []schema.Field{
			{Key: "title", Type: schema.TypeText, Required: true},
			{Key: "relatedBlogs", Type: "unidirectionalRelation[]", Ref: "blog"},
		},
	}
}

func bookingModel() *schema.Model {
	min := 7
	return &schema.Model{
		Key:        "bookings",
		Title:      "Bookings",
		Collection: "bookings",
		Booking:    true,
		Fields: []schema.Field{
			{Key: "email", Type: schema.TypeText, Required: true},
			{Key: "contact", Type: schema.TypeText, MinLength: &min},
		},
	}
}

func TestSubmitRejectRequiresReason(t *testing.T) {
	client := &fakeClient{}
	recorder := &notify.Recorder{}
	f := form.New(contentModel(), map[string]interface{}{"title": "Hi"}, "PUT", "/blogs/1", client, recorder)

	err := f.Submit(context.Background(), form.ActionReject, "")

	assert.Error(t, err)
	assert.Equal(t, 0, client.count(), "no network call on a blocked submit")
	assert.Contains(t, recorder.Messages()[0], "reason")
	assert.False(t, f.Saved())
}

func TestSubmitRejectWithReason(t *testing.T) {
	client := &fakeClient{}
	f := form.New(contentModel(), map[string]interface{}{"title": "Hi"}, "PUT", "/blogs/1", client, &notify.Recorder{})
	f.RecordID = "1"

	err := f.Submit(context.Background(), form.ActionReject, "duplicate content")

	assert.NoError(t, err)
	assert.Equal(t, 1, client.count())

	payload := client.calls[0].Body.(map[string]interface{})
	assert.Equal(t, "rejected", payload["status"])
	assert.Equal(t, false, payload["published"])
	assert.Equal(t, "duplicate content", payload["rejectionReason"])
}

func TestSubmitPublish(t *testing.T) {
	client := &fakeClient{}
	f := form.New(contentModel(), map[string]interface{}{"title": "Hi"}, "POST", "/blogs", client, &notify.Recorder{})

	err := f.Submit(context.Background(), form.ActionPublish, "")

	assert.NoError(t, err)
	payload := client.calls[0].Body.(map[string]interface{})
	assert.Equal(t, "published", payload["status"])
	assert.Equal(t, true, payload["published"])
	assert.True(t, f.Saved())
	assert.True(t, f.Navigated())
}

func TestSubmitRequiredValidation(t *testing.T) {
	client := &fakeClient{}
	recorder := &notify.Recorder{}
	f := form.New(contentModel(), map[string]interface{}{}, "POST", "/blogs", client, recorder)

	err := f.Submit(context.Background(), form.ActionSave, "")

	assert.Error(t, err)
	assert.Equal(t, 0, client.count())
	assert.Contains(t, recorder.Messages()[0], "required")
}

func TestSubmitBookingActions(t *testing.T) {
	t.Run("cancel requires a reason", func(t *testing.T) {
		client := &fakeClient{}
		f := form.New(bookingModel(), map[string]interface{}{"email": "a@b.co"}, "PUT", "/bookings/1", client, &notify.Recorder{})

		err := f.Submit(context.Background(), form.ActionCancel, " ")

		assert.Error(t, err)
		assert.Equal(t, 0, client.count())
	})

	t.Run("confirm sets the booking status", func(t *testing.T) {
		client := &fakeClient{}
		f := form.New(bookingModel(), map[string]interface{}{"email": "a@b.co"}, "PUT", "/bookings/1", client, &notify.Recorder{})

		err := f.Submit(context.Background(), form.ActionConfirm, "")

		assert.NoError(t, err)
		payload := client.calls[0].Body.(map[string]interface{})
		assert.Equal(t, "confirmed", payload["status"])
	})

	t.Run("publish is not a booking action", func(t *testing.T) {
		client := &fakeClient{}
		f := form.New(bookingModel(), map[string]interface{}{"email": "a@b.co"}, "PUT", "/bookings/1", client, &notify.Recorder{})

		err := f.Submit(context.Background(), form.ActionPublish, "")

		assert.Error(t, err)
		assert.Equal(t, 0, client.count())
	})
}

func TestSubmitLiteralNameChecks(t *testing.T) {
	t.Run("malformed email blocks", func(t *testing.T) {
		client := &fakeClient{}
		recorder := &notify.Recorder{}
		f := form.New(bookingModel(), map[string]interface{}{"email": "not-an-email"}, "POST", "/bookings", client, recorder)

		err := f.Submit(context.Background(), form.ActionSave, "")

		assert.Error(t, err)
		assert.Equal(t, 0, client.count())
		assert.Contains(t, recorder.Messages()[0], "email")
	})

	t.Run("short contact blocks", func(t *testing.T) {
		client := &fakeClient{}
		recorder := &notify.Recorder{}
		record := map[string]interface{}{"email": "a@b.co", "contact": "123"}
		f := form.New(bookingModel(), record, "POST", "/bookings", client, recorder)

		err := f.Submit(context.Background(), form.ActionSave, "")

		assert.Error(t, err)
		assert.Contains(t, recorder.Messages()[0], "at least 7")
	})
}

func TestSubmitConditionalPathRule(t *testing.T) {
	client := &fakeClient{}
	recorder := &notify.Recorder{}
	record := map[string]interface{}{
		"title": "Tour",
		"paymentConfig": map[string]interface{}{
			"partial": map[string]interface{}{"enabled": true, "price": float64(0)},
		},
	}
	f := form.New(contentModel(), record, "POST", "/tours", client, recorder)

	err := f.Submit(context.Background(), form.ActionSave, "")

	assert.Error(t, err)
	assert.Equal(t, 0, client.count())
	assert.Contains(t, recorder.Messages()[0], "Partial payment")

	f.SetValue("paymentConfig.partial.price", float64(50))
	assert.NoError(t, f.Submit(context.Background(), form.ActionSave, ""))
}

func TestSubmitUnflattensDottedKeys(t *testing.T) {
	client := &fakeClient{}
	record := map[string]interface{}{
		"title":     "Hi",
		"seo.title": "Stray",
	}
	f := form.New(contentModel(), record, "POST", "/blogs", client, &notify.Recorder{})

	assert.NoError(t, f.Submit(context.Background(), form.ActionSave, ""))

	payload := client.calls[0].Body.(map[string]interface{})
	_, hasDotted := payload["seo.title"]
	assert.False(t, hasDotted)
	seo := payload["seo"].(map[string]interface{})
	assert.Equal(t, "Stray", seo["title"])
}

func TestSubmitAppliesRelationDiffs(t *testing.T) {
	client := &fakeClient{}
	f := form.New(contentModel(), map[string]interface{}{"title": "Hi"}, "PUT", "/blogs/7", client, &notify.Recorder{})
	f.RecordID = "7"
	f.Diffs().Seed("relatedBlogs", []string{"x", "y"})
	assert.NoError(t, f.Diffs().Select("relatedBlogs", "z"))
	assert.NoError(t, f.Diffs().Deselect("relatedBlogs", "x"))

	err := f.Submit(context.Background(), form.ActionSave, "")

	assert.NoError(t, err)
	assert.Equal(t, 3, client.count(), "one save plus one add plus one remove")

	var adds, removes int
	for _, c := range client.calls[1:] {
		req := c.Body.(relation.EdgeRequest)
		assert.NotEqual(t, "y", req.ToID, "unchanged edges are never touched")
		assert.Equal(t, "7", req.FromID)
		switch {
		case strings.HasSuffix(c.Path, "/add"):
			adds++
			assert.Equal(t, "z", req.ToID)
		case strings.HasSuffix(c.Path, "/remove"):
			removes++
			assert.Equal(t, "x", req.ToID)
		}
	}
	assert.Equal(t, 1, adds)
	assert.Equal(t, 1, removes)
}

func TestSubmitDoesNotReplayAppliedDiffs(t *testing.T) {
	client := &fakeClient{}
	f := form.New(contentModel(), map[string]interface{}{"title": "Hi"}, "PUT", "/blogs/7", client, &notify.Recorder{})
	f.RecordID = "7"
	f.Diffs().Seed("relatedBlogs", []string{"x"})
	assert.NoError(t, f.Diffs().Select("relatedBlogs", "z"))
	assert.NoError(t, f.Diffs().Deselect("relatedBlogs", "x"))

	assert.NoError(t, f.Submit(context.Background(), form.ActionSave, ""))
	assert.Equal(t, 3, client.count(), "one save plus one add plus one remove")

	// A second save with an untouched selection carries no edge work.
	assert.NoError(t, f.Submit(context.Background(), form.ActionSave, ""))
	assert.Equal(t, 4, client.count(), "only the save itself goes out again")
}

func TestSubmitRelationFailureDoesNotBlockNavigation(t *testing.T) {
	client := &fakeClient{}
	client.handler = func(method, path string, query url.Values, body interface{}) (interface{}, error) {
		if strings.Contains(path, "/relations/") {
			return nil, assert.AnError
		}
		return nil, nil
	}
	recorder := &notify.Recorder{}
	f := form.New(contentModel(), map[string]interface{}{"title": "Hi"}, "PUT", "/blogs/7", client, recorder)
	f.RecordID = "7"
	f.Diffs().Seed("relatedBlogs", nil)
	assert.NoError(t, f.Diffs().Select("relatedBlogs", "z"))

	err := f.Submit(context.Background(), form.ActionSave, "")

	assert.NoError(t, err, "the committed save is never rolled back")
	assert.True(t, f.Saved())
	assert.True(t, f.Navigated())

	var warned bool
	for _, e := range recorder.Entries {
		if e.Level == notify.Warning {
			warned = true
		}
	}
	assert.True(t, warned, "each relation failure is reported")
}

func TestSubmitUsesReturnedIDForNewRecords(t *testing.T) {
	client := &fakeClient{}
	client.handler = func(method, path string, query url.Values, body interface{}) (interface{}, error) {
		if method == "POST" && path == "/blogs" {
			return map[string]interface{}{"data": map[string]interface{}{"id": "fresh-9"}}, nil
		}
		return nil, nil
	}
	f := form.New(contentModel(), map[string]interface{}{"title": "Hi"}, "POST", "/blogs", client, &notify.Recorder{})
	f.Diffs().Seed("relatedBlogs", nil)
	assert.NoError(t, f.Diffs().Select("relatedBlogs", "z"))

	assert.NoError(t, f.Submit(context.Background(), form.ActionSave, ""))

	assert.Equal(t, "fresh-9", f.RecordID)
	req := client.calls[1].Body.(relation.EdgeRequest)
	assert.Equal(t, "fresh-9", req.FromID)
}

func TestSingletonStaysOnForm(t *testing.T) {
	model := &schema.Model{
		Key: "settings", Title: "Settings", Collection: "settings", Singleton: true,
		Fields: []schema.Field{{Key: "siteName", Type: schema.TypeText}},
	}
	client := &fakeClient{}
	f := form.New(model, map[string]interface{}{"siteName": "Wanderkit"}, "PUT", "/settings", client, &notify.Recorder{})

	assert.NoError(t, f.Submit(context.Background(), form.ActionSave, ""))
	assert.True(t, f.Saved())
	assert.False(t, f.Navigated())
}

func TestSubmitSanitizesRichText(t *testing.T) {
	model := &schema.Model{
		Key: "blogs", Title: "Blogs", Collection: "blogs",
		Fields: []schema.Field{{Key: "body", Type: schema.TypeRichText}},
	}
	client := &fakeClient{}
	record := map[string]interface{}{"body": `<p>ok</p><script>alert(1)</script>`}
	f := form.New(model, record, "POST", "/blogs", client, &notify.Recorder{})

	assert.NoError(t, f.Submit(context.Background(), form.ActionSave, ""))

	payload := client.calls[0].Body.(map[string]interface{})
	body := payload["body"].(string)
	assert.Contains(t, body, "<p>ok</p>")
	assert.NotContains(t, body, "script")
}

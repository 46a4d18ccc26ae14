package relation_test

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wanderkit/cms/internal/relation"
)

func TestDiffMinimality(t *testing.T) {
	tracker := relation.NewDiffTracker()
	tracker.Seed("relatedBlogs", []string{"a", "b", "c"})

	assert.NoError(t, tracker.Deselect("relatedBlogs", "b"))
	assert.NoError(t, tracker.Select("relatedBlogs", "b"))

	d := tracker.DiffFor("relatedBlogs")
	assert.Empty(t, d.Add, "re-adding a removed baseline id is a net no-op")
	assert.Empty(t, d.Remove)
}

func TestDiffAgainstBaseline(t *testing.T) {
	tracker := relation.NewDiffTracker()
	tracker.Seed("similarTours", []string{"x", "y"})

	assert.NoError(t, tracker.Select("similarTours", "z"))
	assert.NoError(t, tracker.Deselect("similarTours", "x"))

	d := tracker.DiffFor("similarTours")
	assert.Equal(t, []string{"z"}, d.Add)
	assert.Equal(t, []string{"x"}, d.Remove)

	assert.Equal(t, []string{"y", "z"}, tracker.Selected("similarTours"))
}

func TestEditsRefusedBeforeBaseline(t *testing.T) {
	tracker := relation.NewDiffTracker()

	assert.Error(t, tracker.Select("similarTours", "z"))
	assert.Error(t, tracker.Deselect("similarTours", "z"))
	assert.False(t, tracker.Ready("similarTours"))

	tracker.Seed("similarTours", nil)
	assert.True(t, tracker.Ready("similarTours"))
	assert.NoError(t, tracker.Select("similarTours", "z"))
}

func TestLoadBaselineNormalizesEdgeSides(t *testing.T) {
	client := &fakeClient{handler: func(_, path string, _ url.Values, _ interface{}) (interface{}, error) {
		assert.Equal(t, "/relations/similar/42", path)
		return map[string]interface{}{"data": []interface{}{
			map[string]interface{}{"from_id": "42", "to_id": "7"},
			map[string]interface{}{"from_id": "9", "to_id": "42"},
		}}, nil
	}}

	tracker := relation.NewDiffTracker()
	err := tracker.LoadBaseline(context.Background(), client, "similarTours", "similar", "42")
	assert.NoError(t, err)
	assert.Equal(t, []string{"7", "9"}, tracker.Selected("similarTours"))
}

func TestApplyIssuesMinimalCalls(t *testing.T) {
	tracker := relation.NewDiffTracker()
	tracker.Seed("similarTours", []string{"x", "y"})
	assert.NoError(t, tracker.Select("similarTours", "z"))
	assert.NoError(t, tracker.Deselect("similarTours", "x"))

	client := &fakeClient{handler: func(_, _ string, _ url.Values, _ interface{}) (interface{}, error) {
		return nil, nil
	}}

	errs := tracker.Apply(context.Background(), client, "similarTours", "similar", "42", "tour", "tour")
	assert.Empty(t, errs)
	assert.Equal(t, 2, client.count())

	var adds, removes int
	for _, c := range client.calls {
		payload := c.Body.(relation.EdgeRequest)
		assert.NotEqual(t, "y", payload.ToID, "untouched ids are never referenced")
		switch c.Path {
		case "/relations/add":
			adds++
			assert.Equal(t, "z", payload.ToID)
		case "/relations/remove":
			removes++
			assert.Equal(t, "x", payload.ToID)
		}
	}
	assert.Equal(t, 1, adds)
	assert.Equal(t, 1, removes)
}

func TestApplyReportsFailuresWithoutHalting(t *testing.T) {
	tracker := relation.NewDiffTracker()
	tracker.Seed("similarTours", nil)
	assert.NoError(t, tracker.Select("similarTours", "a"))
	assert.NoError(t, tracker.Select("similarTours", "b"))

	client := &fakeClient{handler: func(_, _ string, _ url.Values, body interface{}) (interface{}, error) {
		if body.(relation.EdgeRequest).ToID == "a" {
			return nil, fmt.Errorf("backend down")
		}
		return nil, nil
	}}

	errs := tracker.Apply(context.Background(), client, "similarTours", "similar", "42", "tour", "tour")
	assert.Len(t, errs, 1, "one failure reported")
	assert.Equal(t, 2, client.count(), "remaining calls still issued")
}

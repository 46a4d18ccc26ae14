package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wanderkit/cms/internal/schema"
)

func TestUpdateValue(t *testing.T) {
	t.Run("scalar write then read", func(t *testing.T) {
		record := map[string]interface{}{"title": "Old"}

		next := UpdateValue(record, "title", "New")

		assert.Equal(t, "New", next["title"])
		assert.Equal(t, "Old", record["title"])
	})

	t.Run("nested write touches only its branch", func(t *testing.T) {
		record := map[string]interface{}{
			"title": "Bali Guide",
			"seo": map[string]interface{}{
				"title":       "Old SEO",
				"description": "desc",
			},
		}

		next := UpdateValue(record, "seo.title", "New")

		seo := next["seo"].(map[string]interface{})
		assert.Equal(t, "New", seo["title"])
		assert.Equal(t, "desc", seo["description"])
		assert.Equal(t, "Bali Guide", next["title"])

		original := record["seo"].(map[string]interface{})
		assert.Equal(t, "Old SEO", original["title"])
	})

	t.Run("empty key replaces the whole record", func(t *testing.T) {
		record := map[string]interface{}{"title": "Old", "views": 3}
		replacement := map[string]interface{}{"title": "Fresh"}

		next := UpdateValue(record, "", replacement)

		assert.Equal(t, map[string]interface{}{"title": "Fresh"}, next)

		replacement["title"] = "mutated later"
		assert.Equal(t, "Fresh", next["title"])
	})

	t.Run("empty key with non-object resets to empty record", func(t *testing.T) {
		next := UpdateValue(map[string]interface{}{"a": 1}, "", "nope")
		assert.Equal(t, map[string]interface{}{}, next)
	})
}

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, "", CoerceNumber(""))
	assert.Equal(t, "", CoerceNumber("abc"))
	assert.Equal(t, float64(42), CoerceNumber("42"))
	assert.Equal(t, 3.5, CoerceNumber("3.5"))
	assert.Equal(t, -1.0, CoerceNumber("-1"))
}

func TestArrayHelpers(t *testing.T) {
	t.Run("append keeps the original", func(t *testing.T) {
		arr := []interface{}{"a"}
		next := ArrayAppend(arr, "")
		assert.Equal(t, []interface{}{"a", ""}, next)
		assert.Equal(t, []interface{}{"a"}, arr)
	})

	t.Run("remove out of range is a no-op", func(t *testing.T) {
		arr := []interface{}{"a", "b"}
		assert.Equal(t, arr, ArrayRemove(arr, 5))
		assert.Equal(t, arr, ArrayRemove(arr, -1))
		assert.Equal(t, []interface{}{"b"}, ArrayRemove(arr, 0))
	})

	t.Run("set replaces a copy", func(t *testing.T) {
		arr := []interface{}{"a", "b"}
		next := ArraySet(arr, 1, "z")
		assert.Equal(t, []interface{}{"a", "z"}, next)
		assert.Equal(t, []interface{}{"a", "b"}, arr)
	})
}

func repeaterFields() []schema.Field {
	return []schema.Field{
		{Key: "title", Type: schema.TypeText},
		{Key: "tags", Type: "relation[]", Ref: "tag"},
		{Key: "active", Type: schema.TypeBoolean},
	}
}

func TestObjectArrayAdd(t *testing.T) {
	var latest []interface{}
	arr := NewObjectArray(nil, repeaterFields(), func(items []interface{}) { latest = items })

	item := arr.Add()

	assert.Equal(t, map[string]interface{}{
		"title":  "",
		"tags":   []interface{}{},
		"active": false,
	}, item)
	assert.True(t, arr.Expanded(0), "fresh items open for editing")
	assert.Len(t, latest, 1)
}

func TestObjectArrayRemove(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"title": "first"},
		map[string]interface{}{"title": "second"},
		map[string]interface{}{"title": "third"},
	}
	arr := NewObjectArray(items, repeaterFields(), nil)
	arr.Toggle(2)

	arr.Remove(1)

	assert.Equal(t, 2, arr.Len())
	assert.Equal(t, "third", arr.Items()[1].(map[string]interface{})["title"])
	assert.True(t, arr.Expanded(1), "expand state travels with the item")

	arr.Remove(9)
	assert.Equal(t, 2, arr.Len())
}

func TestObjectArrayMove(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"title": "a"},
		map[string]interface{}{"title": "b"},
		map[string]interface{}{"title": "c"},
	}
	arr := NewObjectArray(items, repeaterFields(), nil)
	arr.Toggle(0)

	arr.Move(0, 2)

	titles := []string{}
	for _, it := range arr.Items() {
		titles = append(titles, it.(map[string]interface{})["title"].(string))
	}
	assert.Equal(t, []string{"b", "c", "a"}, titles)
	assert.True(t, arr.Expanded(2))
	assert.False(t, arr.Expanded(0))
}

func TestObjectArrayUpdateItem(t *testing.T) {
	first := map[string]interface{}{"title": "keep"}
	second := map[string]interface{}{"title": "old"}
	arr := NewObjectArray([]interface{}{first, second}, repeaterFields(), nil)

	arr.UpdateItem(1, "title", "new")

	items := arr.Items()
	assert.Equal(t, "new", items[1].(map[string]interface{})["title"])
	assert.Equal(t, "old", second["title"], "original item is untouched")

	// Untouched siblings keep their identity.
	got := items[0].(map[string]interface{})
	got["probe"] = true
	assert.Equal(t, true, first["probe"])
}

func TestRenderScalars(t *testing.T) {
	record := map[string]interface{}{"title": "Hi", "featured": true}

	w := Render(schema.Field{Key: "title", Type: schema.TypeText, Required: true}, record)
	assert.Equal(t, WidgetText, w.Kind)
	assert.Equal(t, "Hi", w.Value)
	assert.True(t, w.Required)

	w = Render(schema.Field{Key: "featured", Type: schema.TypeBoolean}, record)
	assert.Equal(t, WidgetCheckbox, w.Kind)
	assert.Equal(t, true, w.Value)

	w = Render(schema.Field{Key: "missing", Type: schema.TypeBoolean}, record)
	assert.Equal(t, false, w.Value, "absent booleans render unchecked")

	w = Render(schema.Field{Key: "status", Type: schema.TypeEnumDropdown, Enum: []string{"draft", "published"}}, record)
	assert.Equal(t, WidgetSelect, w.Kind)
	assert.Equal(t, []string{"draft", "published"}, w.Options)
}

func TestRenderUnknownTypeFallsBack(t *testing.T) {
	record := map[string]interface{}{"weird": 7}

	w := Render(schema.Field{Key: "weird", Type: "holograph"}, record)

	assert.Equal(t, WidgetReadOnly, w.Kind)
	assert.Equal(t, "7", w.Value)
}

func TestRenderObjectGroup(t *testing.T) {
	field := schema.Field{
		Key:  "seo",
		Type: schema.TypeObject,
		Fields: []schema.Field{
			{Key: "seo.title", Type: schema.TypeText},
			{Key: "seo.description", Type: schema.TypeTextarea},
		},
	}
	record := map[string]interface{}{
		"seo": map[string]interface{}{"title": "S", "description": "D"},
	}

	w := Render(field, record)

	assert.Equal(t, WidgetGroup, w.Kind)
	assert.Len(t, w.Children, 2)
	assert.Equal(t, "title", w.Children[0].Key)
	assert.Equal(t, "S", w.Children[0].Value)
	assert.Equal(t, "D", w.Children[1].Value)
}

func TestRenderRepeater(t *testing.T) {
	field := schema.Field{
		Key:  "itinerary",
		Type: "object[]",
		Fields: []schema.Field{
			{Key: "itinerary.day", Type: schema.TypeNumber},
			{Key: "itinerary.summary", Type: schema.TypeText},
		},
	}
	record := map[string]interface{}{
		"itinerary": []interface{}{
			map[string]interface{}{"day": float64(1), "summary": "arrive"},
			map[string]interface{}{"day": float64(2), "summary": "beach"},
		},
	}

	w := Render(field, record)

	assert.Equal(t, WidgetRepeater, w.Kind)
	assert.Len(t, w.Items, 2)
	assert.Equal(t, "arrive", w.Items[0][1].Value)
	assert.Equal(t, float64(2), w.Items[1][0].Value)
}

func TestRenderRelations(t *testing.T) {
	t.Run("regular relation carries the record value", func(t *testing.T) {
		field := schema.Field{Key: "author", Type: schema.TypeRelation, Ref: "user", NameKey: "name"}
		record := map[string]interface{}{"author": "u-1"}

		w := Render(field, record)

		assert.Equal(t, WidgetRelation, w.Kind)
		assert.Equal(t, "u-1", w.Value)
		assert.Equal(t, "user", w.Relation.Ref)
		assert.False(t, w.Relation.Unidirectional)
	})

	t.Run("unidirectional relation ignores the record", func(t *testing.T) {
		field := schema.Field{Key: "relatedBlogs", Type: "unidirectionalRelation[]", Ref: "blog"}
		record := map[string]interface{}{"relatedBlogs": []interface{}{"stale"}}

		w := Render(field, record)

		assert.Equal(t, WidgetRelation, w.Kind)
		assert.True(t, w.Multiple)
		assert.True(t, w.Relation.Unidirectional)
		assert.Nil(t, w.Value)
	})
}

func TestRenderPrimitiveArray(t *testing.T) {
	field := schema.Field{Key: "prices", Type: "number[]"}
	record := map[string]interface{}{"prices": []interface{}{float64(10), float64(20)}}

	w := Render(field, record)

	assert.Equal(t, WidgetArray, w.Kind)
	assert.Equal(t, WidgetNumber, w.Hints["element"])
	assert.Equal(t, []interface{}{float64(10), float64(20)}, w.Value)
}

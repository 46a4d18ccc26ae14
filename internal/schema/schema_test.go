package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, "Title", Field{Key: "title", Label: "Title"}.DisplayLabel())
	assert.Equal(t, "title", Field{Key: "title"}.DisplayLabel())

	assert.True(t, Field{Type: "relation[]"}.IsArray())
	assert.False(t, Field{Type: TypeRelation}.IsArray())

	assert.Equal(t, TypeRelation, Field{Type: "relation[]"}.Elem())
	assert.Equal(t, TypeText, Field{Type: TypeText}.Elem())

	assert.True(t, Field{Type: TypeRelation}.IsRelation())
	assert.True(t, Field{Type: "unidirectionalRelation[]"}.IsRelation())
	assert.False(t, Field{Type: TypeImage}.IsRelation())

	assert.True(t, Field{Type: "unidirectionalRelation[]"}.IsUnidirectional())
	assert.False(t, Field{Type: "relation[]"}.IsUnidirectional())
}

func TestFlatten(t *testing.T) {
	fields := []Field{
		{Key: "title", Type: TypeText},
		{Key: "seo", Type: TypeObject, Fields: []Field{
			{Key: "seo.title", Type: TypeText},
			{Key: "seo.description", Type: TypeTextarea},
		}},
		{Key: "itinerary", Type: "object[]", Fields: []Field{
			{Key: "itinerary.day", Type: TypeNumber},
		}},
		{Key: "active", Type: TypeBoolean},
	}

	leaves, err := Flatten(fields)
	require.NoError(t, err)

	keys := make([]string, len(leaves))
	for i, f := range leaves {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"title", "seo.title", "seo.description", "itinerary.day", "active"}, keys)
}

func TestFlattenRejectsDuplicateKeys(t *testing.T) {
	fields := []Field{
		{Key: "title", Type: TypeText},
		{Key: "meta", Type: TypeObject, Fields: []Field{
			{Key: "title", Type: TypeText},
		}},
	}

	_, err := Flatten(fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field key")
}

func TestRelative(t *testing.T) {
	fields := []Field{
		{Key: "itinerary.day", Type: TypeNumber},
		{Key: "itinerary.extras", Type: TypeObject, Fields: []Field{
			{Key: "itinerary.extras.note", Type: TypeText},
		}},
		{Key: "unprefixed", Type: TypeText},
	}

	rel := Relative("itinerary", fields)
	assert.Equal(t, "day", rel[0].Key)
	assert.Equal(t, "extras", rel[1].Key)
	assert.Equal(t, "extras.note", rel[1].Fields[0].Key)
	assert.Equal(t, "unprefixed", rel[2].Key)

	// originals untouched
	assert.Equal(t, "itinerary.day", fields[0].Key)
	assert.Equal(t, "itinerary.extras.note", fields[1].Fields[0].Key)
}

func TestEmptyItem(t *testing.T) {
	fields := []Field{
		{Key: "headline", Type: TypeText},
		{Key: "day", Type: TypeNumber},
		{Key: "active", Type: TypeBoolean},
		{Key: "stops", Type: "relation[]"},
		{Key: "meta", Type: TypeObject, Fields: []Field{
			{Key: "meta.note", Type: TypeText},
		}},
	}

	item := EmptyItem(fields)
	assert.Equal(t, map[string]interface{}{
		"headline": "",
		"day":      "",
		"active":   false,
		"stops":    []interface{}{},
		"meta":     map[string]interface{}{"note": ""},
	}, item)
}

func TestModelStatuses(t *testing.T) {
	content := Model{Key: "blogs"}
	assert.Equal(t, []string{"draft", "published", "rejected"}, content.Statuses())
	assert.Equal(t, "draft", content.InitialStatus())

	booking := Model{Key: "bookings", Booking: true}
	assert.Equal(t, []string{"pending", "confirmed", "cancelled"}, booking.Statuses())
	assert.Equal(t, "pending", booking.InitialStatus())
}

func TestRegistry(t *testing.T) {
	m, err := Lookup("blogs")
	require.NoError(t, err)
	assert.Equal(t, "Blogs", m.Title)

	_, err = Lookup("spaceships")
	assert.Error(t, err)

	all := All()
	require.NotEmpty(t, all)
	keys := make([]string, len(all))
	for i, m := range all {
		keys[i] = m.Key
	}
	assert.Contains(t, keys, "bookings")
	assert.Contains(t, keys, "settings")

	assert.Panics(t, func() {
		Register(&Model{Key: "blogs"})
	})

	assert.Panics(t, func() {
		Register(&Model{Key: "corrupt", Fields: []Field{
			{Key: "x", Type: TypeText},
			{Key: "x", Type: TypeText},
		}})
	})
}

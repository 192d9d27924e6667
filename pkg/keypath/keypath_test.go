package keypath

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const nested = `{"x": {"a": 1, "b": "", "c": {"d": "2"}}, "y": 5}`

func TestGet_OneLevel(t *testing.T) {
	doc := gjson.Parse(nested)

	assert.JSONEq(t, `{"a": 1, "b": "", "c": {"d": "2"}}`, Get(doc, "x").Raw)
	assert.Equal(t, int64(5), Get(doc, "y").Int())
}

func TestGet_TwoLevels(t *testing.T) {
	doc := gjson.Parse(nested)

	assert.Equal(t, int64(1), Get(doc, "x", "a").Int())
	b := Get(doc, "x", "b")
	require.True(t, b.Exists())
	assert.Equal(t, "", b.String())
	assert.JSONEq(t, `{"d": "2"}`, Get(doc, "x", "c").Raw)
}

func TestGet_ThreeLevels(t *testing.T) {
	doc := gjson.Parse(nested)
	assert.Equal(t, "2", Get(doc, "x", "c", "d").String())
}

func TestGet_NotFound(t *testing.T) {
	doc := gjson.Parse(nested)

	assert.False(t, Get(doc, "z").Exists())
	assert.False(t, Get(doc, "x", "z").Exists())
	// walking through a scalar never fails
	assert.False(t, Get(doc, "y", "anything").Exists())
	assert.False(t, Get(gjson.Parse(`[1,2]`), "0").Exists())
}

func TestGet_KeysAreLiteral(t *testing.T) {
	doc := gjson.Parse(`{"a.b": 1, "a": {"b": 2}, "*": 3}`)

	assert.Equal(t, int64(1), Get(doc, "a.b").Int())
	assert.Equal(t, int64(2), Get(doc, "a", "b").Int())
	assert.Equal(t, int64(3), Get(doc, "*").Int())
}

func TestLookup(t *testing.T) {
	var m interface{}
	require.NoError(t, json.Unmarshal([]byte(nested), &m))

	v, ok := Lookup(m, "x", "c", "d")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = Lookup(m, "y", "z")
	assert.False(t, ok)
	_, ok = Lookup(m, "missing")
	assert.False(t, ok)
}

func TestTypedHelpers(t *testing.T) {
	doc := gjson.Parse(`{"s": "text", "n": 3, "b": true, "f": 0.5, "list": ["a", 1], "null": null}`)

	require.NotNil(t, String(Get(doc, "s")))
	assert.Equal(t, "text", *String(Get(doc, "s")))
	assert.Nil(t, String(Get(doc, "n")))
	assert.Nil(t, String(Get(doc, "null")))

	require.NotNil(t, Int(Get(doc, "n")))
	assert.Equal(t, 3, *Int(Get(doc, "n")))
	assert.Nil(t, Int(Get(doc, "missing")))

	require.NotNil(t, Bool(Get(doc, "b")))
	assert.True(t, *Bool(Get(doc, "b")))
	assert.Nil(t, Bool(Get(doc, "s")))

	assert.True(t, BoolOr(Get(doc, "missing"), true))
	assert.Equal(t, 0.5, FloatOr(Get(doc, "f"), 1.0))
	assert.Equal(t, 1.0, FloatOr(Get(doc, "missing"), 1.0))

	assert.Equal(t, []string{"a", "1"}, Strings(Get(doc, "list")))
	assert.Nil(t, Strings(Get(doc, "s")))

	assert.False(t, Present(Get(doc, "null")))
	assert.True(t, Present(Get(doc, "s")))
}

func TestObjects_FiltersByDiscriminator(t *testing.T) {
	doc := gjson.Parse(`[{"type": "sentence", "n": 1}, {"type": "other"}, 5, {"n": 2}, {"type": "sentence", "n": 3}]`)

	got := Objects(doc, "sentence")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), Get(got[0], "n").Int())
	assert.Equal(t, int64(3), Get(got[1], "n").Int())
	assert.Nil(t, Objects(gjson.Parse(`{}`), "sentence"))
}

func TestFields_MatchesGet(t *testing.T) {
	doc := gjson.Parse(`{"type": "entity", "a.b": 1, "x": {"y": true}, "a": 2, "a": 3}`)
	f := Fields(doc)

	assert.Equal(t, "entity", f.Discriminator())
	assert.Equal(t, Get(doc, "a.b").Raw, f["a.b"].Raw)
	assert.Equal(t, Get(doc, "a").Raw, f["a"].Raw)
	assert.Equal(t, "2", f["a"].Raw)
	assert.True(t, f["x"].IsObject())
	assert.False(t, f["missing"].Exists())
}

func TestFields_NotAnObject(t *testing.T) {
	for _, raw := range []string{`[1, 2]`, `"text"`, `null`, ``} {
		f := Fields(gjson.Parse(raw))
		assert.Nil(t, f, raw)
		assert.Equal(t, "", f.Discriminator())
		assert.False(t, f["type"].Exists())
	}

	assert.Equal(t, "", Fields(gjson.Parse(`{"type": 3}`)).Discriminator())
}

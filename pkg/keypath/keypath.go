package keypath

import (
	"github.com/tidwall/gjson"
)

// Get walks value following keys in order. When an intermediate value is not
// an object or a key is missing, the returned result does not exist.
func Get(value gjson.Result, keys ...string) gjson.Result {
	current := value
	for _, key := range keys {
		if !current.IsObject() {
			return gjson.Result{}
		}
		current = child(current, key)
		if !current.Exists() {
			return gjson.Result{}
		}
	}
	return current
}

// child does an exact key match so keys containing gjson path syntax
// (dots, wildcards) are not interpreted.
func child(object gjson.Result, key string) gjson.Result {
	var found gjson.Result
	object.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
			return false
		}
		return true
	})
	return found
}

// Object holds the fields of a JSON object read in a single pass. Repeated
// keys keep their first value, like Get. A missing key yields a result that
// does not exist.
type Object map[string]gjson.Result

// Fields reads every field of value at once, or returns nil when value is
// not an object.
func Fields(value gjson.Result) Object {
	if !value.IsObject() {
		return nil
	}
	fields := make(Object)
	value.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if _, seen := fields[key]; !seen {
			fields[key] = v
		}
		return true
	})
	return fields
}

// Discriminator returns the "type" tag, or "" when it is missing or not a
// string.
func (o Object) Discriminator() string {
	t := o["type"]
	if t.Type != gjson.String {
		return ""
	}
	return t.Str
}

// Lookup is Get for values already unmarshalled into map[string]interface{}.
func Lookup(value interface{}, keys ...string) (interface{}, bool) {
	current := value
	for _, key := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Present reports whether r exists and is not JSON null.
func Present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// String returns nil unless r holds a JSON string.
func String(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}

// Int returns nil unless r holds a JSON number.
func Int(r gjson.Result) *int {
	if r.Type != gjson.Number {
		return nil
	}
	i := int(r.Int())
	return &i
}

// Bool returns nil unless r holds a JSON boolean.
func Bool(r gjson.Result) *bool {
	if !r.IsBool() {
		return nil
	}
	b := r.Bool()
	return &b
}

func BoolOr(r gjson.Result, fallback bool) bool {
	if b := Bool(r); b != nil {
		return *b
	}
	return fallback
}

func FloatOr(r gjson.Result, fallback float64) float64 {
	if r.Type != gjson.Number {
		return fallback
	}
	return r.Float()
}

// Strings returns the string form of every element of a JSON array, or nil
// when r is not an array.
func Strings(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	items := r.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}

// Discriminator returns the "type" tag of an object, or "" when it has none.
func Discriminator(r gjson.Result) string {
	t := Get(r, "type")
	if t.Type != gjson.String {
		return ""
	}
	return t.Str
}

// Objects returns the elements of a JSON array whose "type" discriminator
// equals kind, preserving order.
func Objects(r gjson.Result, kind string) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	var out []gjson.Result
	r.ForEach(func(_, item gjson.Result) bool {
		if Discriminator(item) == kind {
			out = append(out, item)
		}
		return true
	})
	return out
}

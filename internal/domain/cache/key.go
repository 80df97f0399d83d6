package cache

import (
	"net/url"
)

// Key addresses one cached query result: an entity name plus its filter
// parameters. Keys are comparable; two keys are equal iff the entity and
// every parameter match by value, regardless of insertion order.
type Key struct {
	Entity string
	params string // canonical, sorted url encoding
}

// NewKey builds a key. Empty parameter values are dropped, so a filter with
// no fields set yields the same key as no filter at all.
func NewKey(entity string, params map[string]string) Key {
	values := url.Values{}
	for name, value := range params {
		if value == "" {
			continue
		}
		values.Set(name, value)
	}
	return Key{Entity: entity, params: values.Encode()}
}

// EntityKey is the parameterless key of an entity.
func EntityKey(entity string) Key {
	return Key{Entity: entity}
}

// Param returns a single parameter value, or "".
func (k Key) Param(name string) string {
	values, err := url.ParseQuery(k.params)
	if err != nil {
		return ""
	}
	return values.Get(name)
}

// Params returns a copy of the key parameters.
func (k Key) Params() map[string]string {
	out := map[string]string{}
	values, err := url.ParseQuery(k.params)
	if err != nil {
		return out
	}
	for name := range values {
		out[name] = values.Get(name)
	}
	return out
}

// HasParams reports whether the key carries any filter parameter.
func (k Key) HasParams() bool {
	return k.params != ""
}

func (k Key) String() string {
	if k.params == "" {
		return k.Entity
	}
	return k.Entity + "?" + k.params
}

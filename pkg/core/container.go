package core

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// Container is the read capability every domain record must offer.
type Container interface {
	Has(key string) bool
	// Get returns a *NotFoundError when the key is absent.
	Get(key string) (any, error)
}

// Enumerable is a container that can list its keys. Only enumerable
// containers can contribute keys that are not known in advance (post meta).
type Enumerable interface {
	Container
	Keys() []string
}

// Record is a map based Container.
type Record map[string]any

// Has implements Container.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Get implements Container.
func (r Record) Get(key string) (any, error) {
	v, ok := r[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return v, nil
}

// Keys returns the record keys sorted, so that iteration is deterministic.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContainerGet reads key from c, distinguishing an absent key (ErrNotFound)
// from an unusable container (ErrInvalidContainer).
func ContainerGet(c Container, key string) (any, error) {
	if isNilContainer(c) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContainer, Translate("container is nil"))
	}
	return c.Get(key)
}

// ContainerHas reports whether c holds key. A nil container holds nothing.
func ContainerHas(c Container, key string) bool {
	if isNilContainer(c) {
		return false
	}
	return c.Has(key)
}

func isNilContainer(c Container) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Map, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// AsContainer adapts v to a Container at the boundary. It accepts Container
// values, string keyed maps and structs (read through their `db` tags).
func AsContainer(v any) (Container, error) {
	switch c := v.(type) {
	case nil:
		return nil, NewInvalidArgumentError("argument is not a container", ErrInvalidContainer, v)
	case Container:
		return c, nil
	case map[string]any:
		return Record(c), nil
	case Row:
		return Record(c), nil
	case map[string]string:
		r := make(Record, len(c))
		for k, s := range c {
			r[k] = s
		}
		return r, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, NewInvalidArgumentError("argument is not a container", ErrInvalidContainer, v)
	}
	out := Record{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "db",
		Result:  &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(rv.Interface()); err != nil {
		return nil, NewInvalidArgumentError("argument is not a container", err, v)
	}
	return out, nil
}

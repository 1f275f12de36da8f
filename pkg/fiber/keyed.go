package fiber

import "github.com/emirpasic/gods/maps/linkedhashmap"

// KeyedMap is an insertion-ordered, key-addressable collection.
type KeyedMap[V any] struct {
	m *linkedhashmap.Map
}

// ChildMap is the keyed child collection a fiber keeps for the next diff.
type ChildMap = KeyedMap[*Fiber]

// ElementMap is the normalized form of a fiber's declared children.
type ElementMap = KeyedMap[*Element]

// NewKeyedMap creates an empty collection.
func NewKeyedMap[V any]() *KeyedMap[V] {
	return &KeyedMap[V]{m: linkedhashmap.New()}
}

// Put inserts or replaces the value at key. Replacing keeps the original
// position.
func (k *KeyedMap[V]) Put(key string, v V) {
	k.m.Put(key, v)
}

// Get returns the value at key. A nil collection is empty.
func (k *KeyedMap[V]) Get(key string) (V, bool) {
	var zero V
	if k == nil {
		return zero, false
	}
	v, ok := k.m.Get(key)
	if !ok {
		return zero, false
	}
	return v.(V), true
}

// Has reports whether key is present.
func (k *KeyedMap[V]) Has(key string) bool {
	_, ok := k.Get(key)
	return ok
}

// Len returns the number of entries.
func (k *KeyedMap[V]) Len() int {
	if k == nil {
		return 0
	}
	return k.m.Size()
}

// Keys returns the keys in insertion order.
func (k *KeyedMap[V]) Keys() []string {
	if k == nil {
		return nil
	}
	keys := make([]string, 0, k.m.Size())
	for _, key := range k.m.Keys() {
		keys = append(keys, key.(string))
	}
	return keys
}

// Each calls fn for every entry in insertion order.
func (k *KeyedMap[V]) Each(fn func(key string, v V)) {
	if k == nil {
		return
	}
	it := k.m.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().(V))
	}
}

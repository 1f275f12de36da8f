package fiber

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/vango-dev/fiber/internal/errors"
)

// Normalizer turns raw declared children into an ordered, key-addressable
// collection.
type Normalizer interface {
	Normalize(children Node, parent *Fiber) (*ElementMap, error)
}

// NormalizerFunc adapts a function to Normalizer.
type NormalizerFunc func(children Node, parent *Fiber) (*ElementMap, error)

// Normalize implements Normalizer.
func (fn NormalizerFunc) Normalize(children Node, parent *Fiber) (*ElementMap, error) {
	return fn(children, parent)
}

// DefaultNormalizer flattens nested sequences, drops nil and bool entries,
// turns strings and numbers into text elements and assigns keys:
//
//	"$k"      explicit key k
//	".3"      unkeyed entry at position 3
//	".1:$k"   explicit key k inside the sequence at position 1
//
// Positions count dropped entries too, so a conditional nil does not shift
// its siblings' keys. A *Fiber is declared again under the key it already
// has in its parent.
type DefaultNormalizer struct{}

// Normalize implements Normalizer.
func (DefaultNormalizer) Normalize(children Node, parent *Fiber) (*ElementMap, error) {
	out := NewKeyedMap[*Element]()
	if err := normalizeInto(out, children, "", 0, true); err != nil {
		if fe, ok := err.(*errors.FiberError); ok && parent != nil {
			fe.WithFiber(parent.Path())
		}
		return nil, err
	}
	return out, nil
}

func normalizeInto(out *ElementMap, child Node, prefix string, index int, top bool) error {
	switch v := child.(type) {
	case nil, bool:
		return nil
	case *Element:
		if v == nil {
			return nil
		}
		put(out, v, elementKey(v, prefix, index))
		return nil
	case *Fiber:
		if v == nil {
			return nil
		}
		el := v.Element
		key := v.mapKey
		if key == "" {
			key = elementKey(&el, prefix, index)
		}
		put(out, &el, key)
		return nil
	case string:
		put(out, Text(v), prefix+"."+strconv.Itoa(index))
		return nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		put(out, Text(fmt.Sprint(v)), prefix+"."+strconv.Itoa(index))
		return nil
	}

	rv := reflect.ValueOf(child)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errors.New("F005").WithDetail(fmt.Sprintf("unsupported child of type %T", child))
	}
	if !top {
		prefix = prefix + "." + strconv.Itoa(index) + ":"
	}
	for i := 0; i < rv.Len(); i++ {
		if err := normalizeInto(out, rv.Index(i).Interface(), prefix, i, false); err != nil {
			return err
		}
	}
	return nil
}

func elementKey(el *Element, prefix string, index int) string {
	if el.Key != "" {
		return prefix + "$" + el.Key
	}
	return prefix + "." + strconv.Itoa(index)
}

// put adds el under key. A duplicate explicit key falls back to a
// positional key so the earlier entry is not lost.
func put(out *ElementMap, el *Element, key string) {
	if out.Has(key) {
		key = key + "." + strconv.Itoa(out.Len())
	}
	out.Put(key, el)
}

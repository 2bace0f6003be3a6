package typesystem

import (
	"github.com/roach88/lazyrecord/internal/ternary"
)

// ContainsKey reports whether a map, or any map nested one level inside v,
// holds key. Supported for primitive maps, complex maps and complex lists.
func (v Value) ContainsKey(key string) (bool, error) {
	switch {
	case v.typ.IsComplexList():
		list, ok := v.raw.([]any)
		if !ok {
			break
		}
		for _, e := range list {
			if m, _ := e.(map[string]any); m != nil {
				if _, found := m[key]; found {
					return true, nil
				}
			}
		}
		return false, nil

	case v.typ.IsComplexMap():
		m, ok := v.raw.(map[string]any)
		if !ok {
			break
		}
		if _, found := m[key]; found {
			return true, nil
		}
		for _, e := range m {
			if inner, _ := e.(map[string]any); inner != nil {
				if _, found := inner[key]; found {
					return true, nil
				}
			}
		}
		return false, nil

	case v.typ.IsPrimitiveMap():
		m, ok := v.raw.(map[string]any)
		if !ok {
			break
		}
		_, found := m[key]
		return found, nil
	}
	return false, &UnsupportedError{Op: "containsKey", Type: v.typ}
}

// ContainsValue reports whether target is EqualTo any non-nil element of a
// list or map, looking one level into nested maps for complex types.
// Comparison errors between target and an element are returned.
func (v Value) ContainsValue(target Value) (bool, error) {
	found := false
	err := v.walkValues("containsValue", func(sub Type, e any) (bool, error) {
		if e == nil {
			return false, nil
		}
		c, err := target.Compare(NewValue(sub, e))
		if err != nil {
			return true, err
		}
		if c == 0 {
			found = true
			return true, nil
		}
		return false, nil
	})
	return found, err
}

// TernaryContainsKey is ContainsKey under three-valued logic: True when key
// is found, Unknown when it is not but a nil map or nil value was seen along
// the way, False otherwise. A Null value yields Unknown.
func (v Value) TernaryContainsKey(key string) (ternary.Bool, error) {
	if v.typ == Null || v.raw == nil {
		return ternary.Unknown, nil
	}

	sawNull := false
	checkMap := func(m map[string]any) bool {
		if _, found := m[key]; found {
			return true
		}
		for _, e := range m {
			if e == nil {
				sawNull = true
			}
		}
		return false
	}

	switch {
	case v.typ.IsComplexList():
		list, ok := v.raw.([]any)
		if !ok {
			break
		}
		for _, e := range list {
			m, _ := e.(map[string]any)
			if m == nil {
				sawNull = true
				continue
			}
			if checkMap(m) {
				return ternary.True, nil
			}
		}
		return unknownIf(sawNull), nil

	case v.typ.IsComplexMap():
		m, ok := v.raw.(map[string]any)
		if !ok {
			break
		}
		if checkMap(m) {
			return ternary.True, nil
		}
		for _, e := range m {
			if inner, _ := e.(map[string]any); inner != nil && checkMap(inner) {
				return ternary.True, nil
			}
		}
		return unknownIf(sawNull), nil

	case v.typ.IsPrimitiveMap():
		m, ok := v.raw.(map[string]any)
		if !ok {
			break
		}
		if checkMap(m) {
			return ternary.True, nil
		}
		return unknownIf(sawNull), nil
	}
	return ternary.False, &UnsupportedError{Op: "ternaryContainsKey", Type: v.typ}
}

// TernaryContainsValue is ContainsValue under three-valued logic: True when
// target is found, Unknown when it is not but a nil element was seen (or
// either side is Null), False otherwise.
func (v Value) TernaryContainsValue(target Value) (ternary.Bool, error) {
	if v.IsNull() || target.IsNull() {
		return ternary.Unknown, nil
	}

	found, sawNull := false, false
	err := v.walkValues("ternaryContainsValue", func(sub Type, e any) (bool, error) {
		if e == nil {
			sawNull = true
			return false, nil
		}
		c, err := target.Compare(NewValue(sub, e))
		if err != nil {
			return true, err
		}
		if c == 0 {
			found = true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return ternary.False, err
	}
	if found {
		return ternary.True, nil
	}
	return unknownIf(sawNull), nil
}

func unknownIf(sawNull bool) ternary.Bool {
	if sawNull {
		return ternary.Unknown
	}
	return ternary.False
}

// walkValues visits the leaf values of a list or map along with their
// primitive type. A nil nested map is visited as a single nil leaf. visit
// returns stop=true to end the walk early.
func (v Value) walkValues(op string, visit func(sub Type, e any) (stop bool, err error)) error {
	unsupported := &UnsupportedError{Op: op, Type: v.typ}

	var elems []any
	switch {
	case v.typ.IsList():
		list, ok := v.raw.([]any)
		if !ok {
			return unsupported
		}
		elems = list
	case v.typ.IsMap():
		m, ok := v.raw.(map[string]any)
		if !ok {
			return unsupported
		}
		elems = make([]any, 0, len(m))
		for _, k := range SortedKeys(m) {
			elems = append(elems, m[k])
		}
	default:
		return unsupported
	}

	complexType := v.typ.IsComplexList() || v.typ.IsComplexMap()
	leaf := v.typ.SubType()
	if complexType {
		leaf = leaf.SubType()
	}

	for _, e := range elems {
		if !complexType || e == nil {
			stop, err := visit(leaf, e)
			if err != nil || stop {
				return err
			}
			continue
		}
		inner, ok := e.(map[string]any)
		if !ok {
			return unsupported
		}
		for _, k := range SortedKeys(inner) {
			stop, err := visit(leaf, inner[k])
			if err != nil || stop {
				return err
			}
		}
	}
	return nil
}

package typesystem

import (
	"fmt"
	"strings"
)

// Type classifies a raw field value. The set of types is closed.
//
// Five base categories partition every declared type:
//   - primitives: Null, Unknown, Boolean, Integer, Long, Float, Double, String
//   - primitive lists: a list of a non-null primitive (IntegerList, ...)
//   - primitive maps: a string-keyed map of a non-null primitive (StringMap, ...)
//   - complex lists: a list of primitive maps (LongMapList, ...)
//   - complex maps: a string-keyed map of primitive maps (DoubleMapMap, ...)
//
// Null is the zero value. Unknown means no type information is available;
// Null means a typed but absent value.
type Type uint8

const (
	Null Type = iota
	Unknown
	Boolean
	Integer
	Long
	Float
	Double
	String

	BooleanList
	IntegerList
	LongList
	FloatList
	DoubleList
	StringList

	BooleanMap
	IntegerMap
	LongMap
	FloatMap
	DoubleMap
	StringMap

	BooleanMapList
	IntegerMapList
	LongMapList
	FloatMapList
	DoubleMapList
	StringMapList

	BooleanMapMap
	IntegerMapMap
	LongMapMap
	FloatMapMap
	DoubleMapMap
	StringMapMap

	typeCount
)

// elementCount is the number of non-null primitives that can be held in a container.
const elementCount = int(String - Boolean + 1)

var typeNames = [typeCount]string{
	Null:    "NULL",
	Unknown: "UNKNOWN",
	Boolean: "BOOLEAN",
	Integer: "INTEGER",
	Long:    "LONG",
	Float:   "FLOAT",
	Double:  "DOUBLE",
	String:  "STRING",
}

func init() {
	for i := 0; i < elementCount; i++ {
		base := typeNames[Boolean+Type(i)]
		typeNames[BooleanList+Type(i)] = base + "_LIST"
		typeNames[BooleanMap+Type(i)] = base + "_MAP"
		typeNames[BooleanMapList+Type(i)] = base + "_MAP_LIST"
		typeNames[BooleanMapMap+Type(i)] = base + "_MAP_MAP"
	}
}

// Category sets. Callers must not modify them.
var (
	Primitives     = typeRange(Null, String)
	Numerics       = []Type{Integer, Long, Float, Double}
	PrimitiveLists = typeRange(BooleanList, StringList)
	PrimitiveMaps  = typeRange(BooleanMap, StringMap)
	ComplexLists   = typeRange(BooleanMapList, StringMapList)
	ComplexMaps    = typeRange(BooleanMapMap, StringMapMap)
	Lists          = append(typeRange(BooleanList, StringList), ComplexLists...)
	Maps           = append(typeRange(BooleanMap, StringMap), ComplexMaps...)
	All            = typeRange(Null, StringMapMap)
)

func typeRange(from, to Type) []Type {
	types := make([]Type, 0, int(to-from)+1)
	for t := from; t <= to; t++ {
		types = append(types, t)
	}
	return types
}

// String returns the upper-case type name, e.g. "LONG_MAP_LIST".
func (t Type) String() string {
	if t >= typeCount {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return typeNames[t]
}

// ParseType is the inverse of Type.String. Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for t := Null; t < typeCount; t++ {
		if typeNames[t] == upper {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown type name %q", name)
}

// Valid reports whether t is a declared type.
func (t Type) Valid() bool { return t < typeCount }

// SubType returns the element type of a list or map. Complex types return the
// primitive map type they hold; call SubType again for the innermost primitive.
// Primitives return Unknown.
func (t Type) SubType() Type {
	switch {
	case t.IsPrimitiveList():
		return Boolean + (t - BooleanList)
	case t.IsPrimitiveMap():
		return Boolean + (t - BooleanMap)
	case t.IsComplexList():
		return BooleanMap + (t - BooleanMapList)
	case t.IsComplexMap():
		return BooleanMap + (t - BooleanMapMap)
	default:
		return Unknown
	}
}

func (t Type) IsNull() bool    { return t == Null }
func (t Type) IsUnknown() bool { return t == Unknown }

func (t Type) IsPrimitive() bool     { return t <= String }
func (t Type) IsNumeric() bool       { return t >= Integer && t <= Double }
func (t Type) IsPrimitiveList() bool { return t >= BooleanList && t <= StringList }
func (t Type) IsPrimitiveMap() bool  { return t >= BooleanMap && t <= StringMap }
func (t Type) IsComplexList() bool   { return t >= BooleanMapList && t <= StringMapList }
func (t Type) IsComplexMap() bool    { return t >= BooleanMapMap && t <= StringMapMap }
func (t Type) IsList() bool          { return t.IsPrimitiveList() || t.IsComplexList() }
func (t Type) IsMap() bool           { return t.IsPrimitiveMap() || t.IsComplexMap() }

// isElement reports whether t can be held inside a list or map.
func (t Type) isElement() bool { return t >= Boolean && t <= String }

// ListOf returns the primitive list type holding elem, or Unknown.
func ListOf(elem Type) Type {
	if !elem.isElement() {
		return Unknown
	}
	return BooleanList + (elem - Boolean)
}

// MapOf returns the primitive map type holding elem, or Unknown.
func MapOf(elem Type) Type {
	if !elem.isElement() {
		return Unknown
	}
	return BooleanMap + (elem - Boolean)
}

// MapListOf returns the complex list type whose maps hold elem, or Unknown.
func MapListOf(elem Type) Type {
	if !elem.isElement() {
		return Unknown
	}
	return BooleanMapList + (elem - Boolean)
}

// MapMapOf returns the complex map type whose inner maps hold elem, or Unknown.
func MapMapOf(elem Type) Type {
	if !elem.isElement() {
		return Unknown
	}
	return BooleanMapMap + (elem - Boolean)
}

// CanCompare reports whether values of types a and b have a defined ordering:
// both numeric, or the same primitive type other than Unknown. Two Nulls compare equal.
func CanCompare(a, b Type) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return true
	}
	return a == b && a.IsPrimitive() && a != Unknown
}

// TypeOf infers the Type of a raw value by structural inspection.
//
// Lists and maps are classified by their non-nil elements, which must all
// agree. Empty or all-nil containers, mixed containers and unrecognized Go
// types yield Unknown.
func TypeOf(v any) Type {
	switch val := v.(type) {
	case nil:
		return Null
	case bool:
		return Boolean
	case int32:
		return Integer
	case int64:
		return Long
	case float32:
		return Float
	case float64:
		return Double
	case string:
		return String
	case []any:
		return listType(val)
	case map[string]any:
		return mapType(val)
	default:
		return Unknown
	}
}

func listType(list []any) Type {
	elem, ok := commonElementType(func(yield func(any) bool) {
		for _, e := range list {
			if !yield(e) {
				return
			}
		}
	})
	if !ok {
		return Unknown
	}
	if elem.IsPrimitiveMap() {
		return MapListOf(elem.SubType())
	}
	return ListOf(elem)
}

func mapType(m map[string]any) Type {
	elem, ok := commonElementType(func(yield func(any) bool) {
		for _, e := range m {
			if !yield(e) {
				return
			}
		}
	})
	if !ok {
		return Unknown
	}
	if elem.IsPrimitiveMap() {
		return MapMapOf(elem.SubType())
	}
	return MapOf(elem)
}

// commonElementType returns the single element type shared by every non-nil
// element. Elements may be primitives or primitive maps.
func commonElementType(elements func(yield func(any) bool)) (Type, bool) {
	common := Unknown
	ok := true
	elements(func(e any) bool {
		if e == nil {
			return true
		}
		var t Type
		if m, isMap := e.(map[string]any); isMap {
			t = mapType(m)
			if !t.IsPrimitiveMap() {
				ok = false
				return false
			}
		} else {
			t = TypeOf(e)
			if !t.isElement() {
				ok = false
				return false
			}
		}
		if common == Unknown {
			common = t
		} else if common != t {
			ok = false
			return false
		}
		return true
	})
	if !ok || common == Unknown {
		return Unknown, false
	}
	return common, true
}

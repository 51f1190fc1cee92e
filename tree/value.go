// Package tree models the dynamically typed input of a conversion: objects
// with ordered keys, arrays and scalars.
package tree

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an immutable tree node. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *object
}

// Member is one key/value pair of an object, in source order.
type Member struct {
	Key   string
	Value Value
}

type object struct {
	members []Member
	index   map[string]int
}

func NullValue() Value             { return Value{} }
func BoolValue(b bool) Value       { return Value{kind: Bool, b: b} }
func IntValue(i int64) Value       { return Value{kind: Int, i: i} }
func FloatValue(f float64) Value   { return Value{kind: Float, f: f} }
func StringValue(s string) Value   { return Value{kind: String, s: s} }
func ArrayValue(vs ...Value) Value { return Value{kind: Array, arr: vs} }

// ObjectValue builds an object from members in order. A repeated key keeps
// the position of its first occurrence and the value of its last.
func ObjectValue(members ...Member) Value {
	o := &object{
		members: make([]Member, 0, len(members)),
		index:   make(map[string]int, len(members)),
	}
	for _, m := range members {
		if i, ok := o.index[m.Key]; ok {
			o.members[i].Value = m.Value
			continue
		}
		o.index[m.Key] = len(o.members)
		o.members = append(o.members, m)
	}
	return Value{kind: Object, obj: o}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == Null }
func (v Value) Bool() bool     { return v.b }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Text() string   { return v.s }

// Elements returns the items of an array value.
func (v Value) Elements() []Value { return v.arr }

// Members returns the members of an object value in source order.
func (v Value) Members() []Member {
	if v.obj == nil {
		return nil
	}
	return v.obj.members
}

// Get looks up an object member by key.
func (v Value) Get(key string) (Value, bool) {
	if v.obj == nil {
		return Value{}, false
	}
	i, ok := v.obj.index[key]
	if !ok {
		return Value{}, false
	}
	return v.obj.members[i].Value, true
}

// Len returns the number of elements or members; zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj.members)
	default:
		return 0
	}
}

// FromGo converts plain Go data into a Value. Map keys are sorted because Go
// maps carry no order; callers that care about positional field numbers
// should build objects with ObjectValue or parse text instead.
func FromGo(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int8:
		return IntValue(int64(t)), nil
	case int16:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case uint8:
		return IntValue(int64(t)), nil
	case uint16:
		return IntValue(int64(t)), nil
	case uint32:
		return IntValue(int64(t)), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer %d overflows int64", t)
		}
		return IntValue(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer %d overflows int64", t)
		}
		return IntValue(int64(t)), nil
	case float32:
		return FloatValue(float64(t)), nil
	case float64:
		return FloatValue(t), nil
	case []interface{}:
		elems := make([]Value, len(t))
		for i, e := range t {
			v, err := FromGo(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = v
		}
		return ArrayValue(elems...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			v, err := FromGo(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			members[i] = Member{Key: k, Value: v}
		}
		return ObjectValue(members...), nil
	}

	// Typed slices such as []string or []map[string]interface{}.
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		elems := make([]Value, rv.Len())
		for i := range elems {
			v, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = v
		}
		return ArrayValue(elems...), nil
	}
	return Value{}, fmt.Errorf("unsupported Go type %T", x)
}

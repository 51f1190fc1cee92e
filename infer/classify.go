// Package infer derives message schemas from input trees.
package infer

import (
	"fmt"

	"github.com/anirudhraja/jsonproto/schema"
	"github.com/anirudhraja/jsonproto/tree"
)

// ArrayPolicy picks the element that decides a repeated field's type.
type ArrayPolicy string

const (
	ArrayLast  ArrayPolicy = "last"
	ArrayFirst ArrayPolicy = "first"
)

// ParseArrayPolicy accepts "last" or "first"; empty means last.
func ParseArrayPolicy(s string) (ArrayPolicy, error) {
	switch ArrayPolicy(s) {
	case "", ArrayLast:
		return ArrayLast, nil
	case ArrayFirst:
		return ArrayFirst, nil
	default:
		return "", fmt.Errorf("unknown array element policy %q (want last or first)", s)
	}
}

// Classify maps a single value to its field type. Arrays are classified
// with ClassifyArray instead.
func Classify(v tree.Value) (schema.FieldType, error) {
	switch v.Kind() {
	case tree.Float:
		return schema.TypeDouble, nil
	case tree.Int:
		return schema.TypeInt64, nil
	case tree.Bool:
		return schema.TypeBool, nil
	case tree.String:
		return schema.TypeString, nil
	case tree.Object:
		return schema.TypeMessage, nil
	case tree.Null:
		return schema.TypeUntyped, nil
	default:
		return "", fmt.Errorf("no field type for %s value", v.Kind())
	}
}

// ClassifyArray returns the representative element of an array and the
// field type every element must conform to. An empty array yields
// TypeUntyped and a null representative.
func ClassifyArray(elems []tree.Value, policy ArrayPolicy) (tree.Value, schema.FieldType, error) {
	if len(elems) == 0 {
		return tree.NullValue(), schema.TypeUntyped, nil
	}

	rep := elems[len(elems)-1]
	if policy == ArrayFirst {
		rep = elems[0]
	}
	switch rep.Kind() {
	case tree.Array:
		return rep, "", fmt.Errorf("nested arrays have no field type")
	case tree.Null:
		return rep, "", fmt.Errorf("array elements cannot be null")
	}
	typ, err := Classify(rep)
	if err != nil {
		return rep, "", err
	}

	for i, e := range elems {
		if !Conforms(typ, e) {
			return rep, "", fmt.Errorf("element %d is %s, incompatible with %s elements", i, e.Kind(), typ)
		}
	}
	return rep, typ, nil
}

// Conforms reports whether v can be written as a value of type typ. An
// integer is accepted where a double is expected.
func Conforms(typ schema.FieldType, v tree.Value) bool {
	switch typ {
	case schema.TypeDouble:
		return v.Kind() == tree.Float || v.Kind() == tree.Int
	case schema.TypeInt64:
		return v.Kind() == tree.Int
	case schema.TypeBool:
		return v.Kind() == tree.Bool
	case schema.TypeString:
		return v.Kind() == tree.String
	case schema.TypeMessage:
		return v.Kind() == tree.Object
	default:
		return false
	}
}

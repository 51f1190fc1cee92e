package wire

import "fmt"

// FieldOrder controls the order in which a message's fields are written.
type FieldOrder string

const (
	// OrderSchema writes fields in inferred schema order, i.e. the order
	// keys first appeared in the input object.
	OrderSchema FieldOrder = "schema"
	// OrderFieldNumber writes fields by ascending field number, the order
	// canonical protobuf serializers use.
	OrderFieldNumber FieldOrder = "number"
)

// ParseFieldOrder accepts "schema" or "number"; empty means schema.
func ParseFieldOrder(s string) (FieldOrder, error) {
	switch FieldOrder(s) {
	case "", OrderSchema:
		return OrderSchema, nil
	case OrderFieldNumber:
		return OrderFieldNumber, nil
	default:
		return "", fmt.Errorf("unknown field order %q (want schema or number)", s)
	}
}

// Config controls optional encoder behaviors.
type Config struct {
	// FieldOrder selects how fields of one message are ordered on the wire.
	// Any order decodes identically; OrderFieldNumber matches the bytes
	// other protobuf serializers produce.
	FieldOrder FieldOrder

	// MaxDepth bounds message nesting during encoding. Zero disables the
	// check; the schema builder enforces the same bound first.
	MaxDepth int
}

// DefaultConfig returns schema ordering with no depth bound of its own.
func DefaultConfig() Config {
	return Config{FieldOrder: OrderSchema}
}

package schema

// Package and name prefix of every inferred message type.
const (
	Package       = "jsonproto.v1"
	MessagePrefix = "Generated_"
)

// MessageSchema is an inferred message definition. Two schemas with the same
// fingerprint are interchangeable and are shared within one conversion.
type MessageSchema struct {
	Fingerprint string       `json:"fingerprint"`
	Fields      []*FieldSpec `json:"fields"`
}

// FieldSpec describes one field of an inferred message.
type FieldSpec struct {
	Name     string         `json:"name"`             // object key
	Number   int32          `json:"number"`           // 1
	Type     FieldType      `json:"type"`             // inferred value type
	Repeated bool           `json:"repeated"`         // value was an array
	Nested   *MessageSchema `json:"nested,omitempty"` // for TypeMessage
}

// FieldLabel represents field labels
type FieldLabel string

const (
	LabelOptional FieldLabel = "optional"
	LabelRepeated FieldLabel = "repeated"
)

// FieldType is the inferred type of a field's values.
type FieldType string

const (
	TypeDouble  FieldType = "double"
	TypeInt64   FieldType = "int64"
	TypeBool    FieldType = "bool"
	TypeString  FieldType = "string"
	TypeMessage FieldType = "message"
	// TypeUntyped marks a field seen only as null or as an empty array.
	// It never occurs on the wire.
	TypeUntyped FieldType = "untyped"
)

// Name returns the unqualified message name.
func (m *MessageSchema) Name() string {
	return MessagePrefix + m.Fingerprint
}

// FullName returns the package-qualified message name.
func (m *MessageSchema) FullName() string {
	return Package + "." + m.Name()
}

// FieldByName finds a field by name in a message
func (m *MessageSchema) FieldByName(name string) *FieldSpec {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FieldByNumber finds a field by number in a message
func (m *MessageSchema) FieldByNumber(number int32) *FieldSpec {
	for _, f := range m.Fields {
		if f.Number == number {
			return f
		}
	}
	return nil
}

// Label returns the field's cardinality label.
func (f *FieldSpec) Label() FieldLabel {
	if f.Repeated {
		return LabelRepeated
	}
	return LabelOptional
}

// Walk visits root and every message reachable from it exactly once, nested
// messages before the messages that reference them.
func Walk(root *MessageSchema, fn func(*MessageSchema)) {
	seen := make(map[*MessageSchema]struct{})
	var visit func(m *MessageSchema)
	visit = func(m *MessageSchema) {
		if _, ok := seen[m]; ok {
			return
		}
		seen[m] = struct{}{}
		for _, f := range m.Fields {
			if f.Nested != nil {
				visit(f.Nested)
			}
		}
		fn(m)
	}
	visit(root)
}

package wire

import (
	"fmt"
	"sort"

	"github.com/anirudhraja/jsonproto/infer"
	"github.com/anirudhraja/jsonproto/schema"
	"github.com/anirudhraja/jsonproto/tree"
)

// MessageEncoder handles message encoding operations
type MessageEncoder struct {
	encoder *Encoder
	depth   int    // nesting level of the enclosing message, 0 at the top
	prefix  string // dotted path of the message being encoded, empty at the top
}

// NewMessageEncoder creates a new message encoder
func NewMessageEncoder(e *Encoder) *MessageEncoder {
	return &MessageEncoder{encoder: e}
}

// EncodeMessage encodes an object value with the given schema. Fields whose
// value is null or missing are omitted.
func (me *MessageEncoder) EncodeMessage(data tree.Value, msg *schema.MessageSchema) error {
	if data.Kind() != tree.Object {
		return &schema.UnsupportedTypeError{Reason: fmt.Sprintf("message value must be an object, got %s", data.Kind())}
	}
	level := me.depth + 1
	if limit := me.encoder.config.MaxDepth; limit > 0 && level > limit {
		return &schema.DepthExceededError{Path: me.prefix, Limit: limit}
	}

	// Keys the schema does not know come from sibling array elements whose
	// shape differs from the representative one.
	for _, m := range data.Members() {
		if msg.FieldByName(m.Key) == nil {
			return wrapWithField(&schema.UnsupportedTypeError{Reason: "field is not part of the inferred message " + msg.Name()}, m.Key)
		}
	}

	fields := msg.Fields
	if me.encoder.config.FieldOrder == OrderFieldNumber {
		fields = make([]*schema.FieldSpec, len(msg.Fields))
		copy(fields, msg.Fields)
		// Sort entries by field number in increasing order.
		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Number < fields[j].Number
		})
	}

	// Create a temporary encoder for the message content
	messageEncoder := NewEncoderWithConfig(me.encoder.config)
	nested := &MessageEncoder{encoder: messageEncoder, depth: level, prefix: me.prefix}

	for _, field := range fields {
		value, ok := data.Get(field.Name)
		if !ok || value.IsNull() {
			continue
		}

		var err error
		if field.Repeated {
			err = nested.encodeRepeatedField(messageEncoder, value, field)
		} else {
			err = nested.encodeSingularField(messageEncoder, value, field)
		}
		if err != nil {
			return wrapWithField(err, field.Name)
		}
	}

	// Add the message bytes to the main encoder
	me.encoder.buf = append(me.encoder.buf, messageEncoder.buf...)
	return nil
}

// encodeSingularField writes tag and value of a non-repeated field
func (me *MessageEncoder) encodeSingularField(encoder *Encoder, value tree.Value, field *schema.FieldSpec) error {
	if value.Kind() == tree.Array {
		return &schema.UnsupportedTypeError{Reason: fmt.Sprintf("expected a single %s value, got array", field.Type)}
	}
	if field.Type == schema.TypeUntyped {
		return &schema.UnsupportedTypeError{Reason: fmt.Sprintf("%s value for a field inferred without a type", value.Kind())}
	}

	ve := NewVarintEncoder(encoder)
	ve.EncodeTag(FieldNumber(field.Number), getWireType(field.Type))
	return me.encodeFieldValue(encoder, value, field)
}

// encodeRepeatedField encodes a repeated field, one tag per element (unpacked)
func (me *MessageEncoder) encodeRepeatedField(encoder *Encoder, value tree.Value, field *schema.FieldSpec) error {
	if value.Kind() != tree.Array {
		return &schema.UnsupportedTypeError{Reason: fmt.Sprintf("repeated field value must be an array, got %s", value.Kind())}
	}
	elems := value.Elements()
	if len(elems) == 0 {
		return nil
	}
	if field.Type == schema.TypeUntyped {
		return &schema.UnsupportedTypeError{Reason: "array elements for a field inferred from an empty array"}
	}

	wireType := getWireType(field.Type)
	ve := NewVarintEncoder(encoder)
	for i, element := range elems {
		// Encode field tag for each element
		ve.EncodeTag(FieldNumber(field.Number), wireType)
		if err := me.encodeFieldValue(encoder, element, field); err != nil {
			return wrapWithField(err, fmt.Sprintf("[%d]", i))
		}
	}
	return nil
}

// encodeFieldValue encodes a field value based on its type
func (me *MessageEncoder) encodeFieldValue(encoder *Encoder, value tree.Value, field *schema.FieldSpec) error {
	if !infer.Conforms(field.Type, value) {
		return &schema.UnsupportedTypeError{Reason: fmt.Sprintf("%s value for %s field", value.Kind(), field.Type)}
	}

	switch field.Type {
	case schema.TypeDouble:
		fe := NewFixedEncoder(encoder)
		if value.Kind() == tree.Int {
			fe.EncodeFloat64(float64(value.Int()))
		} else {
			fe.EncodeFloat64(value.Float())
		}
	case schema.TypeInt64:
		ve := NewVarintEncoder(encoder)
		ve.EncodeInt64(value.Int())
	case schema.TypeBool:
		ve := NewVarintEncoder(encoder)
		ve.EncodeBool(value.Bool())
	case schema.TypeString:
		be := NewBytesEncoder(encoder)
		be.EncodeString(value.Text())
	case schema.TypeMessage:
		return me.encodeMessageField(encoder, value, field)
	default:
		return newFieldError("unsupported field type: %s", field.Type)
	}
	return nil
}

// encodeMessageField encodes a nested message field
func (me *MessageEncoder) encodeMessageField(encoder *Encoder, value tree.Value, field *schema.FieldSpec) error {
	if field.Nested == nil {
		return newFieldError("message field %s without a nested schema", field.Name)
	}

	path := field.Name
	if me.prefix != "" {
		path = me.prefix + "." + field.Name
	}

	// Create a temporary encoder for the nested message
	nestedEncoder := NewEncoderWithConfig(me.encoder.config)
	nestedMessageEncoder := &MessageEncoder{encoder: nestedEncoder, depth: me.depth, prefix: path}
	if err := nestedMessageEncoder.EncodeMessage(value, field.Nested); err != nil {
		return err
	}

	// Encode the nested message bytes
	be := NewBytesEncoder(encoder)
	be.EncodeBytes(nestedEncoder.Bytes())
	return nil
}

// UTILITY METHODS

// getWireType returns the wire type for a field type
func getWireType(fieldType schema.FieldType) WireType {
	switch fieldType {
	case schema.TypeDouble:
		return WireFixed64
	case schema.TypeString, schema.TypeMessage:
		return WireBytes
	default:
		return WireVarint
	}
}

// EncodeMessage - convenience method for main encoder
func (e *Encoder) EncodeMessage(data tree.Value, msg *schema.MessageSchema) error {
	me := NewMessageEncoder(e)
	return me.EncodeMessage(data, msg)
}

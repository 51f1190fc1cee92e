package wire

import (
	"github.com/anirudhraja/jsonproto/schema"
	"github.com/anirudhraja/jsonproto/tree"
)

// Encoder handles low-level protobuf wire format encoding
type Encoder struct {
	buf    []byte
	config Config
}

// NewEncoder creates a new wire format encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buf:    make([]byte, 0),
		config: DefaultConfig(),
	}
}

// NewEncoderWithConfig creates an encoder with the given options
func NewEncoderWithConfig(config Config) *Encoder {
	return &Encoder{
		buf:    make([]byte, 0),
		config: config,
	}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeMessage encodes an object against its inferred schema - main entry point
func EncodeMessage(data tree.Value, msg *schema.MessageSchema, config Config) ([]byte, error) {
	encoder := NewEncoderWithConfig(config)
	me := NewMessageEncoder(encoder)
	err := me.EncodeMessage(data, msg)
	if err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

package jsonproto

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	json "github.com/goccy/go-json"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/anirudhraja/jsonproto/infer"
	"github.com/anirudhraja/jsonproto/registry"
	"github.com/anirudhraja/jsonproto/schema"
	"github.com/anirudhraja/jsonproto/tree"
	"github.com/anirudhraja/jsonproto/wire"
)

// ===== CONVERTER API =====

// Converter infers a protobuf schema for a tree and encodes the tree with it.
// A Converter is immutable and may be shared between goroutines; every call
// works on its own registry.
type Converter struct {
	config Config
	logger *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(c *Converter) { c.config = cfg }
}

// WithLogger sets the logger used for debug output. Nil keeps the default,
// which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Converter
func New(opts ...Option) *Converter {
	c := &Converter{
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the converter's configuration.
func (c *Converter) Config() Config { return c.config }

// Result holds the output of one conversion.
type Result struct {
	// Bytes is the wire encoding of the tree.
	Bytes []byte
	// Schema is the inferred schema of the top-level object.
	Schema *schema.MessageSchema
	// Registry holds every distinct schema created during the conversion.
	Registry *registry.Registry
}

// FileDescriptor describes every message needed to decode Bytes.
func (r *Result) FileDescriptor() *descriptorpb.FileDescriptorProto {
	return schema.FileDescriptor(r.Schema)
}

// ProtoText renders the inferred messages as .proto source.
func (r *Result) ProtoText() string {
	return schema.ProtoText(r.Schema)
}

// Convert infers the schema of root and encodes root with it. overrides maps
// dotted field paths to the field numbers they must use and may be nil.
func (c *Converter) Convert(root tree.Value, overrides schema.Overrides) (*Result, error) {
	if err := c.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg := c.config.normalized()

	reg := registry.NewRegistry()
	builder := infer.NewBuilder(reg, overrides,
		infer.WithMaxDepth(cfg.MaxDepth),
		infer.WithArrayPolicy(cfg.ArrayElement),
		infer.WithHashAlgorithm(cfg.Fingerprint),
	)
	msg, err := builder.Build(root)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("inferred schema",
		"message", msg.Name(),
		"fields", len(msg.Fields),
		"messages", reg.Len(),
	)

	data, err := wire.EncodeMessage(root, msg, wire.Config{
		FieldOrder: cfg.FieldOrder,
		MaxDepth:   cfg.MaxDepth,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("encoded message", "message", msg.Name(), "bytes", len(data))

	return &Result{Bytes: data, Schema: msg, Registry: reg}, nil
}

// ConvertJSON parses data and fieldNumbers as JSON and converts the result.
// An empty fieldNumbers means no overrides.
func (c *Converter) ConvertJSON(data, fieldNumbers []byte) ([]byte, error) {
	root, err := tree.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse data: %w", err)
	}
	overrides, err := ParseFieldNumbers(fieldNumbers)
	if err != nil {
		return nil, err
	}
	res, err := c.Convert(root, overrides)
	if err != nil {
		return nil, err
	}
	return res.Bytes, nil
}

// JSONToProto converts a JSON document with the default configuration.
func JSONToProto(data, fieldNumbers []byte) ([]byte, error) {
	return New().ConvertJSON(data, fieldNumbers)
}

// ParseFieldNumbers decodes a JSON object mapping dotted paths to field
// numbers. Empty input or null yields no overrides.
func ParseFieldNumbers(data []byte) (schema.Overrides, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return schema.Overrides{}, nil
	}

	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, &schema.MalformedOverridesError{Reason: "field numbers must be a JSON object of integers: " + err.Error()}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &schema.MalformedOverridesError{Reason: "unexpected data after the field number object"}
	}

	paths := make([]string, 0, len(raw))
	for p := range raw {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	overrides := make(schema.Overrides, len(raw))
	for _, p := range paths {
		num, ok := raw[p].(json.Number)
		if !ok {
			return nil, &schema.MalformedOverridesError{Path: p, Reason: fmt.Sprintf("value must be an integer, got %T", raw[p])}
		}
		n, err := num.Int64()
		if err != nil {
			return nil, &schema.MalformedOverridesError{Path: p, Reason: fmt.Sprintf("value %s is not an integer", num)}
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, &schema.InvalidFieldNumberError{Path: p, Number: n, Reason: fmt.Sprintf("outside the field number range 1-%d", infer.MaxFieldNumber)}
		}
		overrides[p] = int32(n)
	}
	if err := overrides.Validate(); err != nil {
		return nil, err
	}
	return overrides, nil
}

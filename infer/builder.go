package infer

import (
	"github.com/anirudhraja/jsonproto/registry"
	"github.com/anirudhraja/jsonproto/schema"
	"github.com/anirudhraja/jsonproto/tree"
)

// DefaultMaxDepth matches the recursion limit of the protobuf runtimes.
const DefaultMaxDepth = 100

// Builder infers message schemas for one conversion. Schemas it creates are
// registered in its registry, so structurally identical objects anywhere in
// the tree share a single schema.
type Builder struct {
	registry  *registry.Registry
	overrides schema.Overrides
	maxDepth  int
	policy    ArrayPolicy
	hash      schema.HashAlgorithm
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

func WithMaxDepth(n int) BuilderOption { return func(b *Builder) { b.maxDepth = n } }

func WithArrayPolicy(p ArrayPolicy) BuilderOption { return func(b *Builder) { b.policy = p } }

func WithHashAlgorithm(a schema.HashAlgorithm) BuilderOption {
	return func(b *Builder) { b.hash = a }
}

// NewBuilder creates a builder writing into reg. overrides is read only.
func NewBuilder(reg *registry.Registry, overrides schema.Overrides, opts ...BuilderOption) *Builder {
	b := &Builder{
		registry:  reg,
		overrides: overrides,
		maxDepth:  DefaultMaxDepth,
		policy:    ArrayLast,
		hash:      schema.HashSHA1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build infers the schema of root, which must be an object.
func (b *Builder) Build(root tree.Value) (*schema.MessageSchema, error) {
	if root.Kind() != tree.Object {
		return nil, &schema.UnsupportedTypeError{Reason: "top-level value must be an object, got " + root.Kind().String()}
	}
	if err := b.overrides.Validate(); err != nil {
		return nil, err
	}
	return b.build(root, "", 1)
}

func (b *Builder) build(node tree.Value, prefix string, depth int) (*schema.MessageSchema, error) {
	if depth > b.maxDepth {
		return nil, &schema.DepthExceededError{Path: prefix, Limit: b.maxDepth}
	}

	resolver := NewResolver(b.overrides)
	msg := &schema.MessageSchema{Fields: make([]*schema.FieldSpec, 0, node.Len())}

	for i, m := range node.Members() {
		path := m.Key
		if prefix != "" {
			path = prefix + "." + m.Key
		}

		number, err := resolver.Resolve(path, i+1)
		if err != nil {
			return nil, err
		}
		field := &schema.FieldSpec{Name: m.Key, Number: number}

		value := m.Value
		if value.Kind() == tree.Array {
			field.Repeated = true
			rep, typ, err := ClassifyArray(value.Elements(), b.policy)
			if err != nil {
				return nil, &schema.UnsupportedTypeError{Path: path, Reason: err.Error()}
			}
			field.Type = typ
			value = rep
		} else {
			typ, err := Classify(value)
			if err != nil {
				return nil, &schema.UnsupportedTypeError{Path: path, Reason: err.Error()}
			}
			field.Type = typ
		}

		if field.Type == schema.TypeMessage {
			nested, err := b.build(value, path, depth+1)
			if err != nil {
				return nil, err
			}
			field.Nested = nested
		}
		msg.Fields = append(msg.Fields, field)
	}

	msg.Fingerprint = schema.Fingerprint(msg.Fields, b.hash)
	canonical, _ := b.registry.Register(msg)
	return canonical, nil
}

package infer

import (
	"github.com/anirudhraja/jsonproto/schema"
)

// Protobuf field number limits.
const (
	MaxFieldNumber      = 1<<29 - 1
	FirstReservedNumber = 19000
	LastReservedNumber  = 19999
)

// Resolver assigns field numbers within one message.
type Resolver struct {
	overrides schema.Overrides
	assigned  map[int32]string // number -> path
}

// NewResolver returns a resolver for one enclosing message.
func NewResolver(overrides schema.Overrides) *Resolver {
	return &Resolver{
		overrides: overrides,
		assigned:  make(map[int32]string),
	}
}

// Resolve returns the override for path if any, else the 1-based position.
func (r *Resolver) Resolve(path string, position int) (int32, error) {
	number := int64(position)
	if n, ok := r.overrides[path]; ok {
		number = int64(n)
	}

	switch {
	case number <= 0:
		return 0, &schema.InvalidFieldNumberError{Path: path, Number: number, Reason: "must be positive"}
	case number > MaxFieldNumber:
		return 0, &schema.InvalidFieldNumberError{Path: path, Number: number, Reason: "exceeds maximum field number 536870911"}
	case number >= FirstReservedNumber && number <= LastReservedNumber:
		return 0, &schema.InvalidFieldNumberError{Path: path, Number: number, Reason: "falls in the reserved range 19000-19999"}
	}

	n := int32(number)
	if other, ok := r.assigned[n]; ok {
		return 0, &schema.InvalidFieldNumberError{Path: path, Number: number, Reason: "already used by " + other}
	}
	r.assigned[n] = path
	return n, nil
}

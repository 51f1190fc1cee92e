package schema

import "fmt"

// UnsupportedTypeError reports a value that has no field type, or an array
// whose elements cannot share one.
type UnsupportedTypeError struct {
	Path   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Path == "" {
		return "unsupported type: " + e.Reason
	}
	return fmt.Sprintf("unsupported type at %s: %s", e.Path, e.Reason)
}

// InvalidFieldNumberError reports a field number that is out of range,
// reserved, or already taken within the same message.
type InvalidFieldNumberError struct {
	Path   string
	Number int64
	Reason string
}

func (e *InvalidFieldNumberError) Error() string {
	return fmt.Sprintf("invalid field number %d for %s: %s", e.Number, e.Path, e.Reason)
}

// DepthExceededError reports input nested deeper than the configured limit.
type DepthExceededError struct {
	Path  string
	Limit int
}

func (e *DepthExceededError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("message nesting exceeds limit of %d", e.Limit)
	}
	return fmt.Sprintf("message nesting exceeds limit of %d at %s", e.Limit, e.Path)
}

// MalformedOverridesError reports an override entry that cannot be applied.
type MalformedOverridesError struct {
	Path   string
	Reason string
}

func (e *MalformedOverridesError) Error() string {
	return fmt.Sprintf("malformed field number override %q: %s", e.Path, e.Reason)
}

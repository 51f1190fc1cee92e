package schema

import (
	"fmt"
	"strings"
)

// ProtoText renders the same definitions as FileDescriptor in .proto syntax.
func ProtoText(root *MessageSchema) string {
	var b strings.Builder
	b.WriteString("syntax = \"proto2\";\n\n")
	fmt.Fprintf(&b, "package %s;\n", Package)

	Walk(root, func(m *MessageSchema) {
		fmt.Fprintf(&b, "\nmessage %s {\n", m.Name())
		for _, f := range m.Fields {
			fmt.Fprintf(&b, "  %s %s %s = %d;\n", f.Label(), protoTypeName(f), f.Name, f.Number)
		}
		b.WriteString("}\n")
	})
	return b.String()
}

func protoTypeName(f *FieldSpec) string {
	switch f.Type {
	case TypeMessage:
		if f.Nested != nil {
			return f.Nested.Name()
		}
		return "bytes"
	case TypeUntyped:
		return "bytes"
	default:
		return string(f.Type)
	}
}

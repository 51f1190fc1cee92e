package registry

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/anirudhraja/jsonproto/schema"
)

var scalarTypes = map[string]struct{}{
	"double": {}, "float": {}, "int32": {}, "int64": {}, "uint32": {}, "uint64": {},
	"sint32": {}, "sint64": {}, "fixed32": {}, "fixed64": {}, "sfixed32": {}, "sfixed64": {},
	"bool": {}, "string": {}, "bytes": {},
}

// protoIndex holds every message of one parsed .proto file by fully qualified name
type protoIndex struct {
	pkg      string
	messages map[string]*protoparserparser.Message
	names    map[string]struct{}
}

// OverridesFromProtoFile reads a .proto file and derives overrides for its root message.
func OverridesFromProtoFile(protoPath, rootMessage string) (schema.Overrides, error) {
	if !strings.HasSuffix(protoPath, ".proto") {
		return nil, fmt.Errorf("is not a .proto file %s", protoPath)
	}
	protoBytes, err := os.ReadFile(protoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return OverridesFromProto(bytes.NewBuffer(protoBytes), rootMessage)
}

// OverridesFromProto parses .proto source and maps the dotted path of every
// field reachable from rootMessage to its declared number, so that inferred
// messages line up with an existing definition. Paths follow message-typed
// fields into their definitions; recursion stops when a type repeats on the
// current path.
func OverridesFromProto(r io.Reader, rootMessage string) (schema.Overrides, error) {
	parsedBody, err := protoparser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proto: %w", err)
	}

	idx := &protoIndex{
		messages: make(map[string]*protoparserparser.Message),
		names:    make(map[string]struct{}),
	}
	for _, body := range parsedBody.ProtoBody {
		if p, ok := body.(*protoparserparser.Package); ok {
			idx.pkg = p.Name
		}
	}
	for _, body := range parsedBody.ProtoBody {
		if msg, ok := body.(*protoparserparser.Message); ok {
			idx.add(idx.pkg, msg)
		}
	}

	rootName, err := getReferencedType(rootMessage, idx.pkg, idx.names)
	if err != nil {
		return nil, err
	}

	overrides := make(schema.Overrides)
	onPath := make(map[string]struct{})
	if err := idx.collect(rootName, "", onPath, overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (idx *protoIndex) add(scope string, msg *protoparserparser.Message) {
	fullName := msg.MessageName
	if scope != "" {
		fullName = scope + "." + msg.MessageName
	}
	idx.messages[fullName] = msg
	idx.names[fullName] = struct{}{}
	for _, body := range msg.MessageBody {
		if nested, ok := body.(*protoparserparser.Message); ok {
			idx.add(fullName, nested)
		}
	}
}

// collect walks one message definition, recording prefix+field -> number.
func (idx *protoIndex) collect(fullName, prefix string, onPath map[string]struct{}, out schema.Overrides) error {
	msg := idx.messages[fullName]
	onPath[fullName] = struct{}{}
	defer delete(onPath, fullName)

	field := func(name, number, typeName string) error {
		n, err := parseFieldNumber(number)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", fullName, name, err)
		}
		path := prefix + name
		out[path] = n
		if typeName == "" {
			return nil
		}
		if _, ok := scalarTypes[typeName]; ok {
			return nil
		}
		// Enums and imported types do not resolve; they have no fields to follow.
		nested, err := getReferencedType(typeName, fullName, idx.names)
		if err != nil {
			return nil
		}
		if _, ok := onPath[nested]; ok {
			return nil
		}
		return idx.collect(nested, path+".", onPath, out)
	}

	for _, body := range msg.MessageBody {
		switch b := body.(type) {
		case *protoparserparser.Field:
			if err := field(b.FieldName, b.FieldNumber, b.Type); err != nil {
				return err
			}
		case *protoparserparser.Oneof:
			for _, of := range b.OneofFields {
				if err := field(of.FieldName, of.FieldNumber, of.Type); err != nil {
					return err
				}
			}
		case *protoparserparser.MapField:
			if err := field(b.MapName, b.FieldNumber, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseFieldNumber(s string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid field number %q: %w", s, err)
	}
	return int32(n), nil
}

/*
This helper function will return the entity for any referenced type ,
Be it top/file or nested entities.If not found will return an error
Ref - https://github.com/protocolbuffers/protobuf/blob/b7a5772caf08d62a20fd1bca258f501fa4db022c/src/google/protobuf/descriptor.proto#L186-L191
*/
func getReferencedType(typeName, prefix string, allResolvedEntities map[string]struct{}) (string, error) {
	// check if fully qualifed prefixed by dot
	if strings.HasPrefix(typeName, ".") {
		return getFullyQualifiedType(typeName, allResolvedEntities)
	}
	//  check if the entity is referenced to other packages via packageName
	if _, ok := allResolvedEntities[typeName]; ok {
		return typeName, nil
	}
	// try resolving from inner entities up till the parent package
	if result, ok := splitNameAndCheck(typeName, prefix, allResolvedEntities); ok {
		return result, nil
	}
	return "", fmt.Errorf("unable to resolve type name: %s", typeName)
}

// splitNameAndCheck splits the prefixName and tries to append the typeName and find the entity for resolution
// it also tries the find the entities defined using relative path
func splitNameAndCheck(typeName, prefix string, allResolvedEntities map[string]struct{}) (string, bool) {
	var (
		prefixSplit []string
		entityName  string
	)
	prefixSplit = strings.Split(prefix, ".")

	for len(prefixSplit) > 0 && prefixSplit[0] != "" {
		result := strings.Join(prefixSplit, ".")
		entityName = result + "." + typeName
		if _, ok := allResolvedEntities[entityName]; ok {
			return entityName, true
		}
		// Omit the last element in each iteration as we go level above to outer entity
		prefixSplit = prefixSplit[:len(prefixSplit)-1]
	}
	return "", false
}

func getFullyQualifiedType(typeName string, allResolvedEntities map[string]struct{}) (string, error) {
	typeName = strings.TrimPrefix(typeName, ".")
	if _, ok := allResolvedEntities[typeName]; ok {
		return typeName, nil
	}
	return "", fmt.Errorf("unable to resolve fully qualified type name: %s", typeName)
}

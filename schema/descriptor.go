package schema

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// FileDescriptor renders root and every message it references as a proto2
// file descriptor. Any protobuf runtime holding it can decode the bytes
// produced for root.
func FileDescriptor(root *MessageSchema) *descriptorpb.FileDescriptorProto {
	file := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("jsonproto/v1/" + root.Name() + ".proto"),
		Package: proto.String(Package),
		Syntax:  proto.String("proto2"),
	}
	Walk(root, func(m *MessageSchema) {
		file.MessageType = append(file.MessageType, messageDescriptor(m))
	})
	return file
}

func messageDescriptor(m *MessageSchema) *descriptorpb.DescriptorProto {
	desc := &descriptorpb.DescriptorProto{Name: proto.String(m.Name())}
	for _, f := range m.Fields {
		fd := &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(f.Name),
			JsonName: proto.String(f.Name),
			Number:   proto.Int32(f.Number),
			Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:     descriptorType(f.Type).Enum(),
		}
		if f.Repeated {
			fd.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		}
		if f.Type == TypeMessage && f.Nested != nil {
			fd.TypeName = proto.String("." + f.Nested.FullName())
		}
		desc.Field = append(desc.Field, fd)
	}
	return desc
}

func descriptorType(t FieldType) descriptorpb.FieldDescriptorProto_Type {
	switch t {
	case TypeDouble:
		return descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	case TypeInt64:
		return descriptorpb.FieldDescriptorProto_TYPE_INT64
	case TypeBool:
		return descriptorpb.FieldDescriptorProto_TYPE_BOOL
	case TypeString:
		return descriptorpb.FieldDescriptorProto_TYPE_STRING
	case TypeMessage:
		return descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	default:
		return descriptorpb.FieldDescriptorProto_TYPE_BYTES
	}
}

package jsonproto_test

import (
	"fmt"
	"log"

	"github.com/anirudhraja/jsonproto"
	"github.com/anirudhraja/jsonproto/schema"
	"github.com/anirudhraja/jsonproto/tree"
)

// Example demonstrates converting a JSON document with inferred field numbers
func ExampleJSONToProto() {
	data, err := jsonproto.JSONToProto([]byte(`{"name":"J","age":42}`), nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%x\n", data)
	// Output: 0a014a102a
}

// Field numbers can be pinned per dotted path
func ExampleConverter_ConvertJSON() {
	c := jsonproto.New()
	data, err := c.ConvertJSON(
		[]byte(`{"name":"Jimmy","address":{"city":"Oslo"}}`),
		[]byte(`{"name":4,"address.city":5}`),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%x\n", data)
	// Output: 22054a696d6d7912062a044f736c6f
}

// The inferred schema can be exported alongside the bytes
func ExampleConverter_Convert() {
	root := tree.ObjectValue(
		tree.Member{Key: "id", Value: tree.IntValue(7)},
		tree.Member{Key: "tags", Value: tree.ArrayValue(tree.StringValue("a"), tree.StringValue("b"))},
	)

	res, err := jsonproto.New().Convert(root, schema.Overrides{"tags": 3})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%x\n", res.Bytes)
	for _, f := range res.Schema.Fields {
		fmt.Printf("%s %s %s = %d\n", f.Label(), f.Type, f.Name, f.Number)
	}
	// Output:
	// 08071a01611a0162
	// optional int64 id = 1
	// repeated string tags = 3
}

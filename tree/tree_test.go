package tree

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func keys(v Value) []string {
	var out []string
	for _, m := range v.Members() {
		out = append(out, m.Key)
	}
	return out
}

func TestParseJSON_PreservesKeyOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"zeta": 1, "alpha": 2, "mid": {"b": true, "a": null}}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if got := keys(v); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("unexpected key order %v", got)
	}
	mid, ok := v.Get("mid")
	if !ok {
		t.Fatal("missing key mid")
	}
	if got := keys(mid); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("unexpected nested key order %v", got)
	}
}

func TestParseJSON_Scalars(t *testing.T) {
	v, err := ParseJSON([]byte(`{"i": 42, "neg": -7, "f": 1.0, "e": 1e3, "s": "hi", "b": false, "n": null}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	tests := []struct {
		key  string
		kind Kind
	}{
		{"i", Int},
		{"neg", Int},
		{"f", Float},
		{"e", Float},
		{"s", String},
		{"b", Bool},
		{"n", Null},
	}
	for _, tt := range tests {
		got, ok := v.Get(tt.key)
		if !ok {
			t.Fatalf("missing key %s", tt.key)
		}
		if got.Kind() != tt.kind {
			t.Errorf("%s: expected kind %s, got %s", tt.key, tt.kind, got.Kind())
		}
	}

	if i, _ := v.Get("neg"); i.Int() != -7 {
		t.Errorf("expected -7, got %d", i.Int())
	}
	if e, _ := v.Get("e"); e.Float() != 1000 {
		t.Errorf("expected 1000, got %v", e.Float())
	}
	if s, _ := v.Get("s"); s.Text() != "hi" {
		t.Errorf("expected hi, got %q", s.Text())
	}
}

func TestParseJSON_Arrays(t *testing.T) {
	v, err := ParseJSON([]byte(`{"empty": [], "kids": ["Cleo", "Clara"], "objs": [{"data": 1}, {"data": 2}]}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	empty, _ := v.Get("empty")
	if empty.Kind() != Array || empty.Len() != 0 {
		t.Errorf("expected empty array, got %s len %d", empty.Kind(), empty.Len())
	}
	kids, _ := v.Get("kids")
	if kids.Len() != 2 || kids.Elements()[1].Text() != "Clara" {
		t.Errorf("unexpected kids %+v", kids.Elements())
	}
	objs, _ := v.Get("objs")
	second, _ := objs.Elements()[1].Get("data")
	if second.Int() != 2 {
		t.Errorf("expected data 2, got %d", second.Int())
	}
}

func TestParseJSON_DuplicateKeys(t *testing.T) {
	v, err := ParseJSON([]byte(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if got := keys(v); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("unexpected keys %v", got)
	}
	if a, _ := v.Get("a"); a.Int() != 3 {
		t.Errorf("expected last value 3, got %d", a.Int())
	}
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"truncated", `{"a": 1`},
		{"trailing", `{"a": 1} {}`},
		{"overflow", `{"a": 99999999999999999999}`},
		{"garbage", `{"a": tru}`},
		{"missing colon", `{"name" "J"}`},
		{"missing member comma", `{"a":1 "b":2}`},
		{"missing element comma", `{"a":[1 2]}`},
		{"trailing member comma", `{"a":1,}`},
		{"trailing element comma", `{"a":[1,]}`},
		{"leading zero", `{"a":01}`},
		{"whitespace only", "  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(tt.input)); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}

	if _, err := ParseJSON(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestValidNumber(t *testing.T) {
	for _, s := range []string{"0", "-0", "7", "-12", "1.5", "0.25", "1e9", "2E-3", "-1.5e+10"} {
		if !validNumber(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "-", "01", "-01", "1.", ".5", "1e", "1e+", "+1", "0x10"} {
		if validNumber(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestParseJSONC(t *testing.T) {
	input := `{
		// the user's name
		"name": "Jimmy",
		"age": 42, /* years */
	}`
	v, err := ParseJSONC([]byte(input))
	if err != nil {
		t.Fatalf("ParseJSONC failed: %v", err)
	}
	if got := keys(v); !reflect.DeepEqual(got, []string{"name", "age"}) {
		t.Errorf("unexpected keys %v", got)
	}
}

func TestParseYAML(t *testing.T) {
	input := `
name: Jimmy
age: 42
ratio: 0.5
active: true
nothing: ~
address: &addr
  street: Main St
  city: New York
billing: *addr
children:
  - Cleo
  - Clara
`
	v, err := ParseYAML([]byte(input))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	want := []string{"name", "age", "ratio", "active", "nothing", "address", "billing", "children"}
	if got := keys(v); !reflect.DeepEqual(got, want) {
		t.Errorf("expected keys %v, got %v", want, got)
	}

	kinds := map[string]Kind{
		"name": String, "age": Int, "ratio": Float, "active": Bool,
		"nothing": Null, "address": Object, "billing": Object, "children": Array,
	}
	for k, kind := range kinds {
		got, _ := v.Get(k)
		if got.Kind() != kind {
			t.Errorf("%s: expected %s, got %s", k, kind, got.Kind())
		}
	}
	billing, _ := v.Get("billing")
	if got := keys(billing); !reflect.DeepEqual(got, []string{"street", "city"}) {
		t.Errorf("alias not resolved: %v", got)
	}
}

func TestParseYAML_Binary(t *testing.T) {
	_, err := ParseYAML([]byte("blob: !!binary aGVsbG8=\n"))
	if err == nil || !strings.Contains(err.Error(), "!!binary") {
		t.Errorf("expected unsupported tag error, got %v", err)
	}
}

func TestParseYAML_AliasExpansionLimit(t *testing.T) {
	var doc strings.Builder
	doc.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 9; i++ {
		fmt.Fprintf(&doc, "a%d: &a%d [*a%d, *a%d, *a%d, *a%d, *a%d, *a%d, *a%d, *a%d, *a%d]\n",
			i, i, i-1, i-1, i-1, i-1, i-1, i-1, i-1, i-1, i-1)
	}

	_, err := ParseYAML([]byte(doc.String()))
	if err == nil || !strings.Contains(err.Error(), "aliases") {
		t.Fatalf("expected alias expansion error, got %v", err)
	}
}

func TestFromGo(t *testing.T) {
	v, err := FromGo(map[string]interface{}{
		"b":     int32(2),
		"a":     "x",
		"list":  []string{"p", "q"},
		"inner": map[string]interface{}{"f": 1.5},
	})
	if err != nil {
		t.Fatalf("FromGo failed: %v", err)
	}
	if got := keys(v); !reflect.DeepEqual(got, []string{"a", "b", "inner", "list"}) {
		t.Errorf("expected sorted keys, got %v", got)
	}
	list, _ := v.Get("list")
	if list.Kind() != Array || list.Len() != 2 {
		t.Errorf("expected two-element array, got %s", list.Kind())
	}

	if _, err := FromGo(uint64(1 << 63)); err == nil {
		t.Error("expected overflow error")
	}
	if _, err := FromGo([]byte("raw")); err == nil {
		t.Error("expected raw bytes to be rejected")
	}
}

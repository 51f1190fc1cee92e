package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
)

// maxParseDepth bounds container nesting while reading text so that hostile
// input cannot exhaust the stack before the converter's own depth check.
const maxParseDepth = 10000

var ErrEmptyInput = errors.New("empty input")

// ParseJSON reads one JSON document, keeping object keys in source order.
// Numbers written without a fraction or exponent become Int values.
func ParseJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyInput
	}
	// The token stream does not check separators, so the text is
	// validated as a whole first.
	if !json.Valid(data) {
		return Value{}, fmt.Errorf("invalid JSON: malformed document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	p := &jsonParser{dec: dec}
	tok, err := dec.Token()
	if err == io.EOF {
		return Value{}, ErrEmptyInput
	}
	if err != nil {
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}
	v, err := p.value(tok, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("invalid JSON: unexpected data after top-level value")
	}
	return v, nil
}

// ParseJSONC accepts JSON with comments and trailing commas.
func ParseJSONC(data []byte) (Value, error) {
	return ParseJSON(jsonc.ToJSON(data))
}

type jsonParser struct {
	dec *json.Decoder
}

func (p *jsonParser) next() (json.Token, error) {
	tok, err := p.dec.Token()
	if err == io.EOF {
		return nil, fmt.Errorf("invalid JSON: %w", io.ErrUnexpectedEOF)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return tok, nil
}

func (p *jsonParser) value(tok json.Token, depth int) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		if depth >= maxParseDepth {
			return Value{}, fmt.Errorf("invalid JSON: nesting deeper than %d", maxParseDepth)
		}
		switch t {
		case '{':
			return p.object(depth + 1)
		case '[':
			return p.array(depth + 1)
		default:
			return Value{}, fmt.Errorf("invalid JSON: unexpected %q", rune(t))
		}
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return NullValue(), nil
	case json.Number:
		return parseNumber(string(t))
	case float64:
		return FloatValue(t), nil
	default:
		return Value{}, fmt.Errorf("invalid JSON: unexpected token %v", tok)
	}
}

func (p *jsonParser) object(depth int) (Value, error) {
	var members []Member
	for {
		tok, err := p.next()
		if err != nil {
			return Value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return ObjectValue(members...), nil
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("invalid JSON: object key must be a string, got %v", tok)
		}
		tok, err = p.next()
		if err != nil {
			return Value{}, err
		}
		v, err := p.value(tok, depth)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: v})
	}
}

func (p *jsonParser) array(depth int) (Value, error) {
	elems := []Value{}
	for {
		tok, err := p.next()
		if err != nil {
			return Value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return ArrayValue(elems...), nil
		}
		v, err := p.value(tok, depth)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
}

func parseNumber(s string) (Value, error) {
	if !validNumber(s) {
		return Value{}, fmt.Errorf("invalid JSON: malformed number %s", s)
	}
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %s: %w", s, err)
		}
		return FloatValue(f), nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("integer %s out of int64 range", s)
	}
	return IntValue(i), nil
}

// validNumber reports whether s follows the JSON number grammar:
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func validNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

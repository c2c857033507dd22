package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Parse decodes one JSON value, preserving object member order and the
// integer/float distinction.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after value", ErrParse)
	}
	return node, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty input", ErrParse)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("%w: unexpected %q", ErrParse, t.String())
	case string:
		return FromString(t), nil
	case bool:
		return FromBool(t), nil
	case json.Number:
		return fromNumber(t), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("%w: unexpected token %v", ErrParse, tok)
}

func fromNumber(num json.Number) *Node {
	res := &Node{Type: NumberType, Number: num.String()}
	if i, err := num.Int64(); err == nil {
		res.Int64 = &i
		return res
	}
	if f, err := num.Float64(); err == nil {
		res.Float64 = &f
	}
	return res
}

func parseObject(dec *json.Decoder) (*Node, error) {
	res := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return res, nil
		}
		field, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key is not a string", ErrParse)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		res.SetField(field, val)
	}
}

func parseArray(dec *json.Decoder) (*Node, error) {
	res := &Node{Type: ArrayType}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return res, nil
		}
		val, err := parseToken(dec, tok)
		if err != nil {
			return nil, err
		}
		res.Append(val)
	}
}

// MarshalJSON serializes the node, keeping object member order. Maps would
// sort keys, so the encoder walks the tree directly.
func MarshalJSON(node *Node) []byte {
	return appendJSON(nil, node)
}

func appendJSON(buf []byte, node *Node) []byte {
	switch node.Type {
	case NullType:
		return append(buf, "null"...)
	case BoolType:
		return strconv.AppendBool(buf, node.Bool)
	case NumberType:
		return append(buf, node.NumberString()...)
	case StringType:
		return appendQuoted(buf, node.Str)
	case ArrayType:
		buf = append(buf, '[')
		for i, v := range node.Values {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendJSON(buf, v)
		}
		return append(buf, ']')
	case ObjectType:
		buf = append(buf, '{')
		for i, f := range node.Fields {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendQuoted(buf, f)
			buf = append(buf, ':')
			buf = appendJSON(buf, node.Values[i])
		}
		return append(buf, '}')
	default:
		panic("type")
	}
}

func appendQuoted(buf []byte, s string) []byte {
	d, _ := json.Marshal(s)
	return append(buf, d...)
}

// NumberString formats a number node the way it will appear on the wire.
func (y *Node) NumberString() string {
	if y.Int64 != nil {
		return strconv.FormatInt(*y.Int64, 10)
	}
	if y.Float64 != nil {
		return strconv.FormatFloat(*y.Float64, 'g', -1, 64)
	}
	return y.Number
}

// ToAny converts the node to stdlib JSON shapes (map/slice/scalars).
func ToAny(node *Node) any {
	switch node.Type {
	case ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i, f := range node.Fields {
			res[f] = ToAny(node.Values[i])
		}
		return res
	case ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = ToAny(elt)
		}
		return res
	case StringType:
		return node.Str
	case NumberType:
		if node.Int64 != nil {
			return *node.Int64
		}
		return node.Float()
	case BoolType:
		return node.Bool
	case NullType:
		return nil
	default:
		panic("impossible production")
	}
}

package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var errInvalidValue = errors.New("claim value must be a string, an integer or a boolean")

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is an application claim: a string, a 64-bit integer or a boolean.
// The zero Value is invalid and cannot be encoded.
type Value struct {
	kind Kind
	str  string
	num  int64
	flag bool
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func IntValue(n int64) Value     { return Value{kind: KindInt, num: n} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, flag: b} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }
func (v Value) AsInt() (int64, bool)     { return v.num, v.kind == KindInt }
func (v Value) AsBool() (bool, bool)     { return v.flag, v.kind == KindBool }

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return "<invalid>"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return []byte(strconv.FormatInt(v.num, 10)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.flag)), nil
	default:
		return nil, errInvalidValue
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode claim value: %w", err)
	}

	switch val := raw.(type) {
	case string:
		*v = StringValue(val)
	case bool:
		*v = BoolValue(val)
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return fmt.Errorf("%w: %s", errInvalidValue, val)
		}
		*v = IntValue(n)
	default:
		return fmt.Errorf("%w: got %T", errInvalidValue, raw)
	}
	return nil
}

// Package idl models the Anchor IDL document describing the reward vault
// program's on-chain accounts, and computes the exact byte size of every
// fixed-layout account kind it declares.
package idl

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// KindStruct marks a struct type definition.
	KindStruct = "struct"
	// KindEnum marks an enum type definition.
	KindEnum = "enum"
)

var (
	// ErrUnsupportedType is returned when a type reference names a scalar
	// kind without a known fixed width.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrMissingDefinition is returned when a defined type reference has no
	// entry in the registry.
	ErrMissingDefinition = errors.New("missing type definition")
	// ErrCyclicType is returned when a defined type is reachable from its
	// own definition. The layout is fixed-width, so a cycle implies
	// infinite size.
	ErrCyclicType = errors.New("cyclic type reference")
	// ErrMissingRecordDefinition is returned when a requested account kind
	// has no struct definition in the document.
	ErrMissingRecordDefinition = errors.New("missing record definition")
)

// Primitive is a fixed-width scalar kind as spelled in the IDL document.
type Primitive string

// Scalar kinds understood by the layout calculator.
const (
	Bool      Primitive = "bool"
	U8        Primitive = "u8"
	I8        Primitive = "i8"
	U16       Primitive = "u16"
	I16       Primitive = "i16"
	U32       Primitive = "u32"
	I32       Primitive = "i32"
	F32       Primitive = "f32"
	U64       Primitive = "u64"
	I64       Primitive = "i64"
	F64       Primitive = "f64"
	U128      Primitive = "u128"
	I128      Primitive = "i128"
	Byte      Primitive = "byte"
	PublicKey Primitive = "publicKey"
)

var primitiveWidth = map[Primitive]uint64{
	Bool:      1,
	U8:        1,
	I8:        1,
	U16:       2,
	I16:       2,
	U32:       4,
	I32:       4,
	F32:       4,
	U64:       8,
	I64:       8,
	F64:       8,
	U128:      16,
	I128:      16,
	Byte:      1,
	PublicKey: 32,
}

// Width returns the serialized byte width of the scalar kind.
func (p Primitive) Width() (uint64, error) {
	w, ok := primitiveWidth[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, string(p))
	}
	return w, nil
}

// TypeRef is a reference to a serialized type: a scalar kind, a fixed-size
// array, an optional value, or a named definition resolved through the
// registry. Exactly one branch is set.
type TypeRef struct {
	Primitive Primitive
	Array     *Array
	Option    *TypeRef
	Defined   string
}

// Array is a fixed-length array type reference.
type Array struct {
	Elem TypeRef
	Len  uint64
}

// UnmarshalJSON decodes the Anchor spellings of a type reference:
// "u64", {"array": [elem, len]}, {"option": elem}, {"defined": "Name"}.
func (t *TypeRef) UnmarshalJSON(data []byte) error {
	*t = TypeRef{}
	if len(data) > 0 && data[0] == '"' {
		var kind string
		if err := json.Unmarshal(data, &kind); err != nil {
			return fmt.Errorf("unmarshal scalar kind: %w", err)
		}
		t.Primitive = Primitive(kind)
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal type reference: %w", err)
	}
	switch {
	case obj["array"] != nil:
		var parts []json.RawMessage
		if err := json.Unmarshal(obj["array"], &parts); err != nil {
			return fmt.Errorf("unmarshal array reference: %w", err)
		}
		if len(parts) != 2 {
			return fmt.Errorf("array reference needs [element, length], got %d parts", len(parts))
		}
		arr := &Array{}
		if err := json.Unmarshal(parts[0], &arr.Elem); err != nil {
			return err
		}
		if err := json.Unmarshal(parts[1], &arr.Len); err != nil {
			return fmt.Errorf("unmarshal array length: %w", err)
		}
		t.Array = arr
	case obj["option"] != nil:
		inner := &TypeRef{}
		if err := json.Unmarshal(obj["option"], inner); err != nil {
			return err
		}
		t.Option = inner
	case obj["defined"] != nil:
		if err := json.Unmarshal(obj["defined"], &t.Defined); err != nil {
			return fmt.Errorf("unmarshal defined reference: %w", err)
		}
	default:
		return fmt.Errorf("%w: unrecognized type reference %s", ErrUnsupportedType, data)
	}
	return nil
}

// Field is a named struct field with its serialized type.
type Field struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Variant is a named enum variant. The program's IDL defines no variants
// with payload data, so only the name is carried.
type Variant struct {
	Name string `json:"name"`
}

// TypeSpec is the body of a named type definition.
type TypeSpec struct {
	Kind     string    `json:"kind"`
	Fields   []Field   `json:"fields,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

// TypeDef binds a name to a type definition.
type TypeDef struct {
	Name string   `json:"name"`
	Type TypeSpec `json:"type"`
}

// Document is the subset of an Anchor IDL the audit needs: named type
// definitions and the account kinds stored by the program.
type Document struct {
	Version  string    `json:"version"`
	Name     string    `json:"name"`
	Types    []TypeDef `json:"types"`
	Accounts []TypeDef `json:"accounts"`
}

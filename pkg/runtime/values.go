package runtime

import (
	"fmt"

	"bcc/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// Width tags an integer value's bit width. The subset has exactly two:
// int is 32-bit signed, long is 64-bit signed.
type Width int

const (
	Width32 Width = 32
	Width64 Width = 64
)

func (w Width) String() string {
	switch w {
	case Width32:
		return "i32"
	case Width64:
		return "i64"
	default:
		return fmt.Sprintf("i%d", int(w))
	}
}

// WidthOf maps a declared C type to its value width.
func WidthOf(t ast.CType) Width {
	if t == ast.TypeLong {
		return Width64
	}
	return Width32
}

// IntegerValue is a signed two's-complement integer tagged with its width.
// Bits always holds the canonical sign-extended value: for Width32 it equals
// int64(int32(x)), so arithmetic on the int64 carrier observes the value a C
// int would have after promotion to 64 bits.
type IntegerValue struct {
	Bits int64
	W    Width
}

func (v IntegerValue) Kind() Kind { return KindInteger }

// NewInteger wraps bits to the given width. 32-bit values keep their low 32
// bits sign-extended; 64-bit values pass through (int64 is already the
// two's-complement carrier).
func NewInteger(width Width, bits int64) IntegerValue {
	return IntegerValue{Bits: WrapToWidth(width, bits), W: width}
}

// NewInt32 builds a 32-bit value, wrapping modulo 2^32.
func NewInt32(bits int64) IntegerValue {
	return NewInteger(Width32, bits)
}

// NewInt64 builds a 64-bit value.
func NewInt64(bits int64) IntegerValue {
	return NewInteger(Width64, bits)
}

// WrapToWidth reduces bits to the width's two's-complement range.
func WrapToWidth(width Width, bits int64) int64 {
	if width == Width32 {
		return int64(int32(bits))
	}
	return bits
}

// Convert reinterprets a value at a new width: narrowing keeps the low 32
// bits (sign-extended on read), widening sign-extends. This is the only
// place truncation happens; arithmetic promotion never narrows.
func Convert(v IntegerValue, width Width) IntegerValue {
	return NewInteger(width, v.Bits)
}

// PromoteWidth resolves the result width of a binary operation: the wider of
// the two operands, with the narrower sign-extended before the operation.
func PromoteWidth(a, b IntegerValue) Width {
	if a.W == Width64 || b.W == Width64 {
		return Width64
	}
	return Width32
}

// Truthy reports C truthiness: any nonzero value of either width is true.
func (v IntegerValue) Truthy() bool {
	return v.Bits != 0
}

// FunctionValue binds a function definition for invocation by the call
// engine. The subset has no closures: every function body resolves free
// names against file scope only.
type FunctionValue struct {
	Declaration *ast.FunctionDefinition
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// ReturnWidth is the width of the function's declared result type.
func (v *FunctionValue) ReturnWidth() Width {
	if v == nil || v.Declaration == nil {
		return Width32
	}
	return WidthOf(v.Declaration.ReturnType)
}

package rtshim

import (
	"bytes"
	"fmt"
)

// Ordering is the result of Compare.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return fmt.Sprintf("ordering(%d)", int(o))
	}
}

// Compare orders a and b by unsigned-octet lexicographic comparison.
// A proper prefix sorts before the longer string.
func Compare(a, b StringValue) Ordering {
	return Ordering(bytes.Compare(a.b, b.b))
}

// Equal reports whether a and b hold the same bytes.
func Equal(a, b StringValue) bool { return bytes.Equal(a.b, b.b) }

// IsLess reports a < b.
func IsLess(a, b StringValue) bool { return Compare(a, b) == Less }

// IsLessOrEqual reports a <= b.
func IsLessOrEqual(a, b StringValue) bool { return Compare(a, b) != Greater }

// IsGreater reports a > b.
func IsGreater(a, b StringValue) bool { return Compare(a, b) == Greater }

// IsGreaterOrEqual reports a >= b.
func IsGreaterOrEqual(a, b StringValue) bool { return Compare(a, b) != Less }

// Op is a binary string operator as it appears in translated source.
type Op uint8

const (
	OpInvalid Op = iota
	OpConcat     // +
	OpEq         // ==
	OpNe         // !=
	OpLt         // <
	OpLe         // <=
	OpGt         // >
	OpGe         // >=
)

var opSymbols = map[string]Op{
	"+":  OpConcat,
	"==": OpEq,
	"!=": OpNe,
	"<":  OpLt,
	"<=": OpLe,
	">":  OpGt,
	">=": OpGe,
}

// ParseOp maps an operator token to its Op, or OpInvalid.
func ParseOp(sym string) Op {
	return opSymbols[sym]
}

func (op Op) String() string {
	for sym, o := range opSymbols {
		if o == op {
			return sym
		}
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

var relations = map[Op]func(a, b StringValue) bool{
	OpEq: Equal,
	OpNe: func(a, b StringValue) bool { return !Equal(a, b) },
	OpLt: IsLess,
	OpLe: IsLessOrEqual,
	OpGt: IsGreater,
	OpGe: IsGreaterOrEqual,
}

// Relate evaluates a relational operator.  OpConcat and unknown
// operators fail with ERR_TYPE: concatenation yields a string, not a
// truth value, and goes through Concat.
func Relate(op Op, a, b StringValue) (bool, error) {
	f, ok := relations[op]
	if !ok {
		return false, newErr(ErrType, fmt.Sprintf("%s is not a relational string operator", op))
	}
	return f(a, b), nil
}

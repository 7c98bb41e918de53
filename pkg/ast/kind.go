package ast

import (
	"fmt"
	"math"
)

// Kind identifies a node kind ("opcode"). The set is closed.
type Kind uint8

const (
	Invalid Kind = iota
	Block
	If
	Return
	Brackets
	Nop
	Constant
	Param
	SetLocal
	GetLocal
	IncLocal
	ArrayLiteral
	Add
	Sub
	Mul
	Div
	Neg
	Sqr
	Sqrt
	Exp
	Abs
	Lt
	Lte
	Gt
	Gte
	Eq
	And
	Or
	Not
	In
	IsMissing
	ArgMax
	ArgMaxInt
	ArrayArgMaxIndex
	ArrayAtPos
	ArrayAtPosInc
	NewArray
	ArrayLen
	IntToFloat
	IntToCategory
	TermFrequency
	ForLocal

	numKinds
)

// Unbounded is the MaxArgs of variable-arity kinds.
const Unbounded = math.MaxInt

// Flags describe the structure of a kind.
type Flags uint8

const (
	// HasChildren marks interior kinds.
	HasChildren Flags = 1 << iota
	// HasEmbeddedValue marks leaf kinds carrying a Constant.
	HasEmbeddedValue
	// IsArrayLiteral marks leaves whose value is an array.
	IsArrayLiteral
	// IsInfix marks binary operators written between their operands.
	IsInfix
	// IsSideEffect marks kinds evaluated for their effect only; return
	// cascading leaves them bare.
	IsSideEffect
)

// KindInfo is the registry entry of a kind.
type KindInfo struct {
	Kind    Kind
	Name    string
	Opcode  byte
	MinArgs int
	MaxArgs int
	Flags   Flags
}

// Has reports whether all of f are set.
func (k KindInfo) Has(f Flags) bool { return k.Flags&f == f }

// FixedArity reports whether the child count is implied by the kind.
func (k KindInfo) FixedArity() bool { return k.MinArgs == k.MaxArgs }

var registry = [numKinds]KindInfo{
	Block:            {Block, "block", 0x01, 1, Unbounded, HasChildren},
	If:               {If, "if", 0x02, 3, 3, HasChildren},
	Return:           {Return, "return", 0x03, 1, 1, HasChildren},
	Brackets:         {Brackets, "brackets", 0x04, 1, 1, HasChildren},
	Nop:              {Nop, "nop", 0x05, 0, 0, IsSideEffect},
	Constant:         {Constant, "constant", 0x10, 0, 0, HasEmbeddedValue},
	Param:            {Param, "param", 0x11, 0, 0, HasEmbeddedValue},
	SetLocal:         {SetLocal, "setlocal", 0x12, 2, 2, HasChildren | IsSideEffect},
	GetLocal:         {GetLocal, "getlocal", 0x13, 0, 0, HasEmbeddedValue},
	IncLocal:         {IncLocal, "inclocal", 0x14, 0, 0, HasEmbeddedValue | IsSideEffect},
	ArrayLiteral:     {ArrayLiteral, "array", 0x15, 0, 0, HasEmbeddedValue | IsArrayLiteral},
	Add:              {Add, "add", 0x20, 2, 2, HasChildren | IsInfix},
	Sub:              {Sub, "sub", 0x21, 2, 2, HasChildren | IsInfix},
	Mul:              {Mul, "mul", 0x22, 2, 2, HasChildren | IsInfix},
	Div:              {Div, "div", 0x23, 2, 2, HasChildren | IsInfix},
	Neg:              {Neg, "neg", 0x24, 1, 1, HasChildren},
	Sqr:              {Sqr, "sqr", 0x25, 1, 1, HasChildren},
	Sqrt:             {Sqrt, "sqrt", 0x26, 1, 1, HasChildren},
	Exp:              {Exp, "exp", 0x27, 1, 1, HasChildren},
	Abs:              {Abs, "abs", 0x28, 1, 1, HasChildren},
	Lt:               {Lt, "lt", 0x30, 2, 2, HasChildren | IsInfix},
	Lte:              {Lte, "lte", 0x31, 2, 2, HasChildren | IsInfix},
	Gt:               {Gt, "gt", 0x32, 2, 2, HasChildren | IsInfix},
	Gte:              {Gte, "gte", 0x33, 2, 2, HasChildren | IsInfix},
	Eq:               {Eq, "eq", 0x34, 2, 2, HasChildren | IsInfix},
	And:              {And, "and", 0x35, 2, 2, HasChildren | IsInfix},
	Or:               {Or, "or", 0x36, 2, 2, HasChildren | IsInfix},
	Not:              {Not, "not", 0x37, 1, 1, HasChildren},
	In:               {In, "in", 0x38, 2, 2, HasChildren},
	IsMissing:        {IsMissing, "is_missing", 0x39, 1, 1, HasChildren},
	ArgMax:           {ArgMax, "argmax", 0x40, 1, Unbounded, HasChildren},
	ArgMaxInt:        {ArgMaxInt, "argmax_i", 0x41, 1, Unbounded, HasChildren},
	ArrayArgMaxIndex: {ArrayArgMaxIndex, "array_argmax_index", 0x42, 1, 1, HasChildren},
	ArrayAtPos:       {ArrayAtPos, "array_at_pos", 0x43, 2, 2, HasChildren},
	ArrayAtPosInc:    {ArrayAtPosInc, "array_at_pos_inc", 0x44, 2, 2, HasChildren | IsSideEffect},
	NewArray:         {NewArray, "new_array", 0x45, 2, 2, HasChildren},
	ArrayLen:         {ArrayLen, "array_len", 0x46, 1, 1, HasChildren},
	IntToFloat:       {IntToFloat, "int_to_float", 0x50, 1, 1, HasChildren},
	IntToCategory:    {IntToCategory, "int_to_category", 0x51, 1, 1, HasChildren},
	TermFrequency:    {TermFrequency, "term_frequency", 0x60, 2, 2, HasChildren},
	ForLocal:         {ForLocal, "for_local", 0x70, 3, 3, HasChildren | IsSideEffect},
}

var (
	byOpcode [256]Kind
	byName   = make(map[string]Kind, numKinds)
)

func init() {
	for k := Block; k < numKinds; k++ {
		info := registry[k]
		if info.Kind != k || info.Name == "" {
			panic(fmt.Sprintf("ast: registry entry %d is malformed", k))
		}
		if info.Opcode == 0 || byOpcode[info.Opcode] != Invalid {
			panic(fmt.Sprintf("ast: opcode 0x%02x of %s is not unique", info.Opcode, info.Name))
		}
		if _, dup := byName[info.Name]; dup {
			panic(fmt.Sprintf("ast: kind name %q is not unique", info.Name))
		}
		byOpcode[info.Opcode] = k
		byName[info.Name] = k
	}
}

// Info returns the registry entry of k. Invalid kinds yield the zero entry.
func (k Kind) Info() KindInfo {
	if k >= numKinds {
		return KindInfo{}
	}
	return registry[k]
}

// Valid reports whether k is a registered kind.
func (k Kind) Valid() bool { return k > Invalid && k < numKinds }

func (k Kind) String() string {
	if k.Valid() {
		return registry[k].Name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Opcode returns the stable wire byte of k.
func (k Kind) Opcode() byte { return k.Info().Opcode }

// KindByOpcode resolves a wire byte.
func KindByOpcode(op byte) (Kind, bool) {
	k := byOpcode[op]
	return k, k != Invalid
}

// KindByName resolves a kind name as used by the textual form.
func KindByName(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

// Kinds returns every registered kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := Block; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

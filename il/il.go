// Package il defines the host-facing abstractions the engine emits through:
// a low-level IL builder interface, instruction text tokens, and per-packet
// branch information. A binary-analysis host provides the concrete builder;
// the iltext package ships a textual one.
package il

// Expr is an opaque handle to an IL expression owned by the builder.
type Expr int

// Label identifies a position in the emitted IL. Labels are issued by the
// builder, referenced by If and Goto, and bound with MarkLabel.
type Label int

// Builder is the low-level IL construction interface. Sizes are in bytes.
//
// The engine emits registers from the numbering in the regs package plus the
// temporary space produced by Temp.
type Builder interface {
	Const(size int, val int64) Expr
	ConstPointer(size int, val uint64) Expr
	Register(size int, reg uint32) Expr
	RegisterSplit(size int, hi, lo uint32) Expr
	SetRegister(size int, reg uint32, val Expr) Expr
	SetRegisterSplit(size int, hi, lo uint32, val Expr) Expr

	Add(size int, a, b Expr) Expr
	Sub(size int, a, b Expr) Expr
	And(size int, a, b Expr) Expr
	Or(size int, a, b Expr) Expr
	Xor(size int, a, b Expr) Expr
	Mult(size int, a, b Expr) Expr
	ShiftLeft(size int, a, b Expr) Expr
	LogicalShiftRight(size int, a, b Expr) Expr
	ArithShiftRight(size int, a, b Expr) Expr
	Not(size int, a Expr) Expr

	Load(size int, addr Expr) Expr
	Store(size int, addr Expr, val Expr) Expr

	CompareEqual(size int, a, b Expr) Expr
	CompareSignedGreaterThan(size int, a, b Expr) Expr
	CompareUnsignedGreaterThan(size int, a, b Expr) Expr

	NewLabel() Label
	MarkLabel(l Label)
	If(cond Expr, t, f Label) Expr
	Goto(l Label) Expr

	Jump(dest Expr) Expr
	Call(dest Expr) Expr
	Return(dest Expr) Expr
	SystemCall() Expr
	Undefined() Expr
	Nop() Expr

	AddInstruction(e Expr)
}

// tempFlag marks a register index as belonging to the host's temporary
// register space, disjoint from real registers.
const tempFlag uint32 = 0x80000000

// Temp maps an index into the host's temporary register space.
func Temp(index uint32) uint32 { return index | tempFlag }

// IsTemp reports whether a register index is a temporary.
func IsTemp(reg uint32) bool { return reg&tempFlag != 0 }

// TempIndex recovers the index of a temporary register.
func TempIndex(reg uint32) uint32 { return reg &^ tempFlag }

// Temporary register bases used by the lifter's branch model.
var (
	// BranchRDestBase holds indirect-branch destinations, one temporary per
	// instruction index.
	BranchRDestBase = Temp(200)

	// BranchTakenBase holds conditional-branch-taken flags, one 1-byte
	// temporary per instruction index.
	BranchTakenBase = Temp(210)
)

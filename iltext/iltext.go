// Package iltext renders lifted IL as text lines. It implements il.Builder
// and stands in for a binary-analysis host: the CLI prints its output, and
// the lifter tests assert on it.
package iltext

import (
	"fmt"

	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/regs"
)

// Function collects the IL of one lifted packet as text lines.
type Function struct {
	exprs     []string
	lines     []string
	numLabels int
}

// New creates an empty function.
func New() *Function {
	return &Function{}
}

// Lines returns the emitted IL, one instruction or label per line.
func (f *Function) Lines() []string { return f.lines }

func (f *Function) expr(text string) il.Expr {
	f.exprs = append(f.exprs, text)
	return il.Expr(len(f.exprs) - 1)
}

func (f *Function) text(e il.Expr) string { return f.exprs[e] }

// regName renders a register operand, mapping temporaries and the engine
// register numbering to readable names.
func regName(reg uint32) string {
	if il.IsTemp(reg) {
		return fmt.Sprintf("temp%d", il.TempIndex(reg))
	}
	switch {
	case reg <= regs.R31:
		return regs.GeneralName(reg)
	case reg >= regs.C00 && reg <= regs.C31:
		return regs.ControlName(reg)
	case reg >= regs.P0 && reg <= regs.P3:
		return regs.PredicateName(reg)
	case reg == regs.USRLPCFG:
		return "USR.LPCFG"
	}
	return fmt.Sprintf("reg%d", reg)
}

func pairName(hi, lo uint32) string {
	return regName(hi) + ":" + regName(lo)
}

func (f *Function) Const(size int, val int64) il.Expr {
	return f.expr(fmt.Sprintf("%#x", uint64(val)&((1<<(8*uint(size)))-1)))
}

func (f *Function) ConstPointer(size int, val uint64) il.Expr {
	return f.expr(fmt.Sprintf("%#x", val))
}

func (f *Function) Register(size int, reg uint32) il.Expr {
	return f.expr(regName(reg))
}

func (f *Function) RegisterSplit(size int, hi, lo uint32) il.Expr {
	return f.expr(pairName(hi, lo))
}

func (f *Function) SetRegister(size int, reg uint32, val il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("%s = %s", regName(reg), f.text(val)))
}

func (f *Function) SetRegisterSplit(size int, hi, lo uint32, val il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("%s = %s", pairName(hi, lo), f.text(val)))
}

func (f *Function) binop(op string, a, b il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("(%s %s %s)", f.text(a), op, f.text(b)))
}

func (f *Function) Add(size int, a, b il.Expr) il.Expr  { return f.binop("+", a, b) }
func (f *Function) Sub(size int, a, b il.Expr) il.Expr  { return f.binop("-", a, b) }
func (f *Function) And(size int, a, b il.Expr) il.Expr  { return f.binop("&", a, b) }
func (f *Function) Or(size int, a, b il.Expr) il.Expr   { return f.binop("|", a, b) }
func (f *Function) Xor(size int, a, b il.Expr) il.Expr  { return f.binop("^", a, b) }
func (f *Function) Mult(size int, a, b il.Expr) il.Expr { return f.binop("*", a, b) }

func (f *Function) ShiftLeft(size int, a, b il.Expr) il.Expr {
	return f.binop("<<", a, b)
}

func (f *Function) LogicalShiftRight(size int, a, b il.Expr) il.Expr {
	return f.binop(">>", a, b)
}

func (f *Function) ArithShiftRight(size int, a, b il.Expr) il.Expr {
	return f.binop(">>>", a, b)
}

func (f *Function) Not(size int, a il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("!%s", f.text(a)))
}

func (f *Function) Load(size int, addr il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("[%s].%d", f.text(addr), size))
}

func (f *Function) Store(size int, addr, val il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("[%s].%d = %s", f.text(addr), size, f.text(val)))
}

func (f *Function) CompareEqual(size int, a, b il.Expr) il.Expr {
	return f.binop("==", a, b)
}

func (f *Function) CompareSignedGreaterThan(size int, a, b il.Expr) il.Expr {
	return f.binop("s>", a, b)
}

func (f *Function) CompareUnsignedGreaterThan(size int, a, b il.Expr) il.Expr {
	return f.binop("u>", a, b)
}

func (f *Function) NewLabel() il.Label {
	f.numLabels++
	return il.Label(f.numLabels)
}

func (f *Function) MarkLabel(l il.Label) {
	f.lines = append(f.lines, fmt.Sprintf("L%d:", l))
}

func (f *Function) If(cond il.Expr, t, fl il.Label) il.Expr {
	return f.expr(fmt.Sprintf("if (%s) then L%d else L%d", f.text(cond), t, fl))
}

func (f *Function) Goto(l il.Label) il.Expr {
	return f.expr(fmt.Sprintf("goto L%d", l))
}

func (f *Function) Jump(dest il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("jump(%s)", f.text(dest)))
}

func (f *Function) Call(dest il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("call(%s)", f.text(dest)))
}

func (f *Function) Return(dest il.Expr) il.Expr {
	return f.expr(fmt.Sprintf("return(%s)", f.text(dest)))
}

func (f *Function) SystemCall() il.Expr { return f.expr("syscall()") }
func (f *Function) Undefined() il.Expr  { return f.expr("undefined") }
func (f *Function) Nop() il.Expr        { return f.expr("nop") }

func (f *Function) AddInstruction(e il.Expr) {
	f.lines = append(f.lines, f.text(e))
}

var _ il.Builder = (*Function)(nil)

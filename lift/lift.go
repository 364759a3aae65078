// Package lift translates decoded packets into the host's low-level IL,
// preserving Hexagon's parallel execution semantics: source registers sample
// pre-packet values, destination writes become visible when the packet
// commits, and at most one branch is taken per packet, the earliest in
// encoding order winning.
package lift

import (
	"errors"
	"fmt"

	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/insts"
	"github.com/sarchlab/hexlift/logging"
	"github.com/sarchlab/hexlift/packetdb"
	"github.com/sarchlab/hexlift/regs"
)

// ErrUnalignedAddress means a lift was requested for an address that is not
// word aligned.
var ErrUnalignedAddress = errors.New("unaligned instruction address")

// PreparePacketForLifting returns the lifting copy of a stored packet:
// extenders removed, instructions shuffled into execution order, and
// compare-jumps split. The stored packet is not touched. The copy's packet
// flags are not recomputed; downstream passes must not re-derive them.
func PreparePacketForLifting(src *insts.Packet) insts.Packet {
	pkt := src.Clone()
	insts.RemoveExtenders(&pkt)
	insts.ShuffleForExecution(&pkt)
	insts.SplitCmpJump(&pkt)
	return pkt
}

// Lift emits the IL for the packet starting at info's address and returns
// the number of bytes the host should advance.
//
// The host queries address by address; lifting happens only at the packet
// start, so a mid-packet address is a no-op success.
//
// Branch semantics need care: a packet can hold two branch instructions, a
// branch happens only after every instruction has executed, and only the
// first satisfied branch in encoding order is taken. Each conditional
// branch gets a branch-taken temporary, set in the emitter's taken arm;
// indirect branches also record their destination expression in a
// destination temporary. After write-back, one If per branch tests its flag
// and performs the branch. Calls are followed by a goto past the remaining
// branches: a taken call returns to the next packet, so any later in-packet
// branch is unreachable. A taken conditional jump instead falls through to
// the next test, which lets the host model a following unconditional jump
// as the else case.
func Lift(b il.Builder, info *packetdb.InsnInfo) (int, error) {
	if info.InsnAddr&3 != 0 {
		return 0, fmt.Errorf("%w: %#x", ErrUnalignedAddress, info.InsnAddr)
	}
	if info.InsnNum != 0 {
		return 4, nil
	}

	pkt := PreparePacketForLifting(&info.Pkt)

	// Clear the branch-taken flags of every conditional branch.
	if pkt.HasCOF {
		for i := range pkt.Insns {
			insn := &pkt.Insns[i]
			if !insn.Part1 && insn.IsCondJump() {
				b.AddInstruction(b.SetRegister(1, il.BranchTakenBase+uint32(i),
					b.Const(1, 0)))
			}
		}
	}

	// Process packet instructions in execution order.
	ctx := NewPacketContext(b)
	for i := range pkt.Insns {
		liftInsn(info.PC, &pkt, &pkt.Insns[i], i, ctx)
	}

	// Write back all clobbered registers.
	ctx.WriteClobberedRegs()

	// Branch fan-out, in order, honoring single-branch commit.
	if pkt.HasCOF {
		emitBranches(b, info.PC, &pkt)
	}

	return pkt.EncodedBytes, nil
}

func liftInsn(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
	ctx *PacketContext) {
	fn, ok := liftFuncs[insn.Opcode]
	if !ok {
		ctx.IL().AddInstruction(ctx.IL().Undefined())
		logging.Lift.Debug().
			Stringer("opcode", insn.Opcode).
			Uint64("pc", pc).
			Msg("unsupported lifter")
		return
	}
	fn(pc, pkt, insn, insnNum, ctx)
}

// branchTarget resolves a direct branch's destination, relative to the
// packet start.
func branchTarget(pc uint64, insn *insts.Insn) uint64 {
	return uint64(int64(pc) + int64(insn.Immed[0]))
}

func emitBranches(b il.Builder, pc uint64, pkt *insts.Packet) {
	done := b.NewLabel()
	for i := range pkt.Insns {
		insn := &pkt.Insns[i]
		if insn.Part1 {
			continue
		}
		if !insn.IsJump() && !insn.IsCall() {
			continue
		}

		branchCase := b.NewLabel()
		nextInsn := b.NewLabel()
		if insn.IsCondJump() {
			b.AddInstruction(b.If(
				b.CompareEqual(1, b.Register(1, il.BranchTakenBase+uint32(i)),
					b.Const(1, 1)),
				branchCase, nextInsn))
			b.MarkLabel(branchCase)
		}

		switch {
		case insn.IsIndirect() && insn.IsJump():
			if insn.IsReturn() ||
				(insn.Opcode == insts.J2_jumpr && uint32(insn.RegNo[0]) == regs.LR) {
				b.AddInstruction(b.Return(b.Register(4, regs.LR)))
			} else {
				b.AddInstruction(b.Jump(b.Register(4, il.BranchRDestBase+uint32(i))))
			}
		case insn.IsIndirect() && insn.IsCall():
			b.AddInstruction(b.Call(b.Register(4, il.BranchRDestBase+uint32(i))))
			// Skip the remaining branches in the packet; execution resumes
			// at the neighboring packet.
			b.AddInstruction(b.Goto(done))
		case insn.IsJump():
			b.AddInstruction(b.Jump(b.ConstPointer(4, branchTarget(pc, insn))))
		default:
			b.AddInstruction(b.Call(b.ConstPointer(4, branchTarget(pc, insn))))
			b.AddInstruction(b.Goto(done))
		}

		b.MarkLabel(nextInsn)
	}
	b.MarkLabel(done)
}

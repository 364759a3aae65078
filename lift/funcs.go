package lift

import (
	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/insts"
	"github.com/sarchlab/hexlift/regs"
)

// liftFunc emits the IL for one instruction through the packet context.
type liftFunc func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
	ctx *PacketContext)

// setBranchTaken emits the branch-taken flag assignment for instruction
// insnNum.
func setBranchTaken(b il.Builder, insnNum int) {
	b.AddInstruction(b.SetRegister(1, il.BranchTakenBase+uint32(insnNum),
		b.Const(1, 1)))
}

// setBranchDest records an indirect branch's destination expression.
func setBranchDest(b il.Builder, insnNum int, dest il.Expr) {
	b.AddInstruction(b.SetRegister(4, il.BranchRDestBase+uint32(insnNum), dest))
}

// condBranchArm wraps the taken-arm emission of a conditional branch:
// if (cond) { body } with the flow rejoining after the arm.
func condBranchArm(b il.Builder, cond il.Expr, body func()) {
	taken := b.NewLabel()
	rest := b.NewLabel()
	b.AddInstruction(b.If(cond, taken, rest))
	b.MarkLabel(taken)
	body()
	b.AddInstruction(b.Goto(rest))
	b.MarkLabel(rest)
}

// predNew reads a predicate value produced earlier in this packet: the
// predicate's destination temporary.
func predNew(b il.Builder, pred uint32) il.Expr {
	return b.Register(1, il.Temp(pred))
}

func liftAluImm(op func(b il.Builder, s il.Expr, imm il.Expr) il.Expr) liftFunc {
	return func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		src := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		dst := ctx.AddDestWriteOnlyReg(MapRegNum('R', insn.RegNo[0]))
		expr := op(b, b.Register(4, src), b.Const(4, int64(insn.Immed[0])))
		b.AddInstruction(b.SetRegister(4, dst, expr))
	}
}

func liftAluRegReg(op func(b il.Builder, s, t il.Expr) il.Expr) liftFunc {
	return func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		src1 := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		src2 := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[2]))
		dst := ctx.AddDestWriteOnlyReg(MapRegNum('R', insn.RegNo[0]))
		expr := op(b, b.Register(4, src1), b.Register(4, src2))
		b.AddInstruction(b.SetRegister(4, dst, expr))
	}
}

func liftCmpImm(cmp func(b il.Builder, s, imm il.Expr) il.Expr) liftFunc {
	return func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		src := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		dst := ctx.AddDestWriteOnlyPredReg(MapRegNum('P', insn.RegNo[0]))
		expr := cmp(b, b.Register(4, src), b.Const(4, int64(insn.Immed[0])))
		b.AddInstruction(b.SetRegister(1, dst, expr))
	}
}

// liftCondDirectJump lifts the direct conditional jump family. negate
// selects the false-sense variants, dotNew reads the predicate produced in
// this packet instead of the pre-packet value.
func liftCondDirectJump(negate, dotNew bool) liftFunc {
	return func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		pred := MapRegNum('P', insn.RegNo[0])
		var predVal il.Expr
		if dotNew {
			predVal = predNew(b, pred)
		} else {
			predVal = b.Register(1, ctx.SourceReg(1, pred))
		}
		want := int64(1)
		if negate {
			want = 0
		}
		cond := b.CompareEqual(1, predVal, b.Const(1, want))
		condBranchArm(b, cond, func() {
			setBranchTaken(b, insnNum)
		})
	}
}

// liftCmpJump lifts a split compound compare-jump. The part1 copy performs
// the compare; the original performs the jump on the new predicate value.
func liftCmpJump(cmp func(b il.Builder, s, imm il.Expr) il.Expr) liftFunc {
	return func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		if insn.Part1 {
			src := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[0]))
			dst := ctx.AddDestWriteOnlyPredReg(regs.P0)
			expr := cmp(b, b.Register(4, src), b.Const(4, int64(insn.Immed[1])))
			b.AddInstruction(b.SetRegister(1, dst, expr))
			return
		}
		cond := b.CompareEqual(1, predNew(b, regs.P0), b.Const(1, 1))
		condBranchArm(b, cond, func() {
			setBranchTaken(b, insnNum)
		})
	}
}

func liftLoad(size int, pair bool) liftFunc {
	return func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		base := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		addr := b.Add(4, b.Register(4, base), b.Const(4, int64(insn.Immed[0])))
		if pair {
			dst := ctx.AddDestWriteOnlyRegPair(MapRegNum('R', insn.RegNo[0]))
			b.AddInstruction(b.SetRegister(8, dst, b.Load(8, addr)))
			return
		}
		dst := ctx.AddDestWriteOnlyReg(MapRegNum('R', insn.RegNo[0]))
		b.AddInstruction(b.SetRegister(4, dst, b.Load(size, addr)))
	}
}

func liftStore(size int, pair bool) liftFunc {
	return func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		base := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		addr := b.Add(4, b.Register(4, base), b.Const(4, int64(insn.Immed[0])))
		if pair {
			val := ctx.SourcePairReg(MapRegNum('R', insn.RegNo[0]))
			b.AddInstruction(b.Store(8, addr, b.Register(8, val)))
			return
		}
		val := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[0]))
		b.AddInstruction(b.Store(size, addr, b.Register(4, val)))
	}
}

// liftNewValueStore stores a register produced earlier in this packet: the
// decoder rewrote the N-field to the producer's destination register, whose
// value lives in its destination temporary.
func liftNewValueStore(size int, gpRelative bool) liftFunc {
	return func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		var addr il.Expr
		if gpRelative {
			gp := ctx.SourceReg(4, regs.GP)
			addr = b.Add(4, b.Register(4, gp), b.Const(4, int64(insn.Immed[0])))
		} else {
			base := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
			addr = b.Add(4, b.Register(4, base), b.Const(4, int64(insn.Immed[0])))
		}
		val := b.Register(4, il.Temp(MapRegNum('R', insn.RegNo[0])))
		b.AddInstruction(b.Store(size, addr, val))
	}
}

func liftAllocFrame(pc uint64, pkt *insts.Packet, insn *insts.Insn,
	insnNum int, ctx *PacketContext) {
	b := ctx.IL()
	sp := ctx.SourceReg(4, regs.SP)
	ea := b.Sub(4, b.Register(4, sp), b.Const(4, 8))
	b.AddInstruction(b.Store(8, ea, b.RegisterSplit(4, regs.LR, regs.FP)))
	fpDst := ctx.AddDestWriteOnlyReg(regs.FP)
	spDst := ctx.AddDestWriteOnlyReg(regs.SP)
	b.AddInstruction(b.SetRegister(4, fpDst,
		b.Sub(4, b.Register(4, sp), b.Const(4, 8))))
	b.AddInstruction(b.SetRegister(4, spDst,
		b.Sub(4, ea, b.Const(4, int64(insn.Immed[0])))))
}

// liftFrameRestore reloads LR:FP from the frame and pops it. Used by
// deallocframe and the return forms; the branch itself is emitted by the
// packet's branch fan-out.
func liftFrameRestore(pc uint64, pkt *insts.Packet, insn *insts.Insn,
	insnNum int, ctx *PacketContext) {
	b := ctx.IL()
	fp := ctx.SourceReg(4, regs.FP)
	dst := ctx.AddDestWriteOnlyRegPair(regs.FP)
	b.AddInstruction(b.SetRegister(8, dst, b.Load(8, b.Register(4, fp))))
	spDst := ctx.AddDestWriteOnlyReg(regs.SP)
	b.AddInstruction(b.SetRegister(4, spDst,
		b.Add(4, b.Register(4, fp), b.Const(4, 8))))
}

// liftEndLoop emits one hardware loop back-edge: if the loop count is still
// above one, take the branch to the loop start and decrement the count.
func liftEndLoop(b il.Builder, ctx *PacketContext, insnNum int,
	lc, sa uint32, rest il.Label) {
	lcSrc := ctx.SourceReg(4, lc)
	saSrc := ctx.SourceReg(4, sa)
	cond := b.CompareUnsignedGreaterThan(4, b.Register(4, lcSrc), b.Const(4, 1))
	taken := b.NewLabel()
	next := b.NewLabel()
	b.AddInstruction(b.If(cond, taken, next))
	b.MarkLabel(taken)
	setBranchTaken(b, insnNum)
	setBranchDest(b, insnNum, b.Register(4, saSrc))
	lcDst := ctx.AddDestReadWriteReg(lc)
	b.AddInstruction(b.SetRegister(4, lcDst,
		b.Sub(4, b.Register(4, lcSrc), b.Const(4, 1))))
	b.AddInstruction(b.Goto(rest))
	b.MarkLabel(next)
}

var liftFuncs = map[insts.Opcode]liftFunc{
	insts.A2_tfrsi: func(pc uint64, pkt *insts.Packet, insn *insts.Insn, insnNum int,
		ctx *PacketContext) {
		b := ctx.IL()
		dst := ctx.AddDestWriteOnlyReg(MapRegNum('R', insn.RegNo[0]))
		b.AddInstruction(b.SetRegister(4, dst, b.Const(4, int64(insn.Immed[0]))))
	},
	insts.SA1_seti: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		dst := ctx.AddDestWriteOnlyReg(MapRegNum('R', insn.RegNo[0]))
		b.AddInstruction(b.SetRegister(4, dst, b.Const(4, int64(insn.Immed[0]))))
	},
	insts.SA1_addi: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		dst := ctx.AddDestReadWriteReg(MapRegNum('R', insn.RegNo[0]))
		b.AddInstruction(b.SetRegister(4, dst,
			b.Add(4, b.Register(4, dst), b.Const(4, int64(insn.Immed[0])))))
	},
	insts.A2_tfr: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		src := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		dst := ctx.AddDestWriteOnlyReg(MapRegNum('R', insn.RegNo[0]))
		b.AddInstruction(b.SetRegister(4, dst, b.Register(4, src)))
	},
	insts.SA1_tfr: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		src := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		dst := ctx.AddDestWriteOnlyReg(MapRegNum('R', insn.RegNo[0]))
		b.AddInstruction(b.SetRegister(4, dst, b.Register(4, src)))
	},
	insts.A2_nop: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		ctx.IL().AddInstruction(ctx.IL().Nop())
	},

	insts.A2_addi: liftAluImm(func(b il.Builder, s, imm il.Expr) il.Expr {
		return b.Add(4, s, imm)
	}),
	insts.A2_add: liftAluRegReg(func(b il.Builder, s, t il.Expr) il.Expr {
		return b.Add(4, s, t)
	}),
	insts.A2_sub: liftAluRegReg(func(b il.Builder, t, s il.Expr) il.Expr {
		return b.Sub(4, t, s)
	}),
	insts.A2_and: liftAluRegReg(func(b il.Builder, s, t il.Expr) il.Expr {
		return b.And(4, s, t)
	}),
	insts.A2_or: liftAluRegReg(func(b il.Builder, s, t il.Expr) il.Expr {
		return b.Or(4, s, t)
	}),
	insts.A2_xor: liftAluRegReg(func(b il.Builder, s, t il.Expr) il.Expr {
		return b.Xor(4, s, t)
	}),
	insts.M2_mpyi: liftAluRegReg(func(b il.Builder, s, t il.Expr) il.Expr {
		return b.Mult(4, s, t)
	}),
	insts.S2_asl_r_r: liftAluRegReg(func(b il.Builder, s, t il.Expr) il.Expr {
		return b.ShiftLeft(4, s, t)
	}),
	insts.S2_lsr_i_r: liftAluImm(func(b il.Builder, s, imm il.Expr) il.Expr {
		return b.LogicalShiftRight(4, s, imm)
	}),
	insts.S2_asr_i_r: liftAluImm(func(b il.Builder, s, imm il.Expr) il.Expr {
		return b.ArithShiftRight(4, s, imm)
	}),
	insts.S2_asl_i_r: liftAluImm(func(b il.Builder, s, imm il.Expr) il.Expr {
		return b.ShiftLeft(4, s, imm)
	}),

	insts.A2_addp: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		src1 := ctx.SourcePairReg(MapRegNum('R', insn.RegNo[1]))
		src2 := ctx.SourcePairReg(MapRegNum('R', insn.RegNo[2]))
		dst := ctx.AddDestWriteOnlyRegPair(MapRegNum('R', insn.RegNo[0]))
		b.AddInstruction(b.SetRegister(8, dst,
			b.Add(8, b.Register(8, src1), b.Register(8, src2))))
	},

	insts.C2_cmpeqi: liftCmpImm(func(b il.Builder, s, imm il.Expr) il.Expr {
		return b.CompareEqual(4, s, imm)
	}),
	insts.C2_cmpgti: liftCmpImm(func(b il.Builder, s, imm il.Expr) il.Expr {
		return b.CompareSignedGreaterThan(4, s, imm)
	}),
	insts.C2_cmpeq: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		src1 := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		src2 := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[2]))
		dst := ctx.AddDestWriteOnlyPredReg(MapRegNum('P', insn.RegNo[0]))
		b.AddInstruction(b.SetRegister(1, dst,
			b.CompareEqual(4, b.Register(4, src1), b.Register(4, src2))))
	},

	insts.J2_jump: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		// Unconditional direct jump: everything happens in the fan-out.
	},
	insts.J2_jumpt:      liftCondDirectJump(false, false),
	insts.J2_jumptpt:    liftCondDirectJump(false, false),
	insts.J2_jumptnew:   liftCondDirectJump(false, true),
	insts.J2_jumptnewpt: liftCondDirectJump(false, true),
	insts.J2_jumpf:      liftCondDirectJump(true, false),
	insts.J2_jumpfpt:    liftCondDirectJump(true, false),
	insts.J2_jumpfnew:   liftCondDirectJump(true, true),
	insts.J2_jumpfnewpt: liftCondDirectJump(true, true),

	insts.J2_jumpr: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		src := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[0]))
		setBranchDest(b, insnNum, b.Register(4, src))
	},
	insts.J2_jumprt: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		src := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[0]))
		pred := ctx.SourceReg(1, MapRegNum('P', insn.RegNo[1]))
		cond := b.CompareEqual(1, b.Register(1, pred), b.Const(1, 1))
		condBranchArm(b, cond, func() {
			setBranchTaken(b, insnNum)
			setBranchDest(b, insnNum, b.Register(4, src))
		})
	},
	insts.J2_call: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		lr := ctx.AddDestWriteOnlyReg(regs.LR)
		b.AddInstruction(b.SetRegister(4, lr,
			b.ConstPointer(4, pc+uint64(pkt.EncodedBytes))))
	},
	insts.J2_callr: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		src := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[0]))
		setBranchDest(b, insnNum, b.Register(4, src))
		lr := ctx.AddDestWriteOnlyReg(regs.LR)
		b.AddInstruction(b.SetRegister(4, lr,
			b.ConstPointer(4, pc+uint64(pkt.EncodedBytes))))
	},
	insts.J2_trap0: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		ctx.IL().AddInstruction(ctx.IL().SystemCall())
	},
	insts.J2_pause: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		ctx.IL().AddInstruction(ctx.IL().Nop())
	},

	insts.J2_loop0i: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		sa := ctx.AddDestWriteOnlyReg(regs.SA0)
		lc := ctx.AddDestWriteOnlyReg(regs.LC0)
		b.AddInstruction(b.SetRegister(4, sa,
			b.ConstPointer(4, branchTarget(pc, insn))))
		b.AddInstruction(b.SetRegister(4, lc, b.Const(4, int64(insn.Immed[1]))))
	},
	insts.J2_loop0r: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		count := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[0]))
		sa := ctx.AddDestWriteOnlyReg(regs.SA0)
		lc := ctx.AddDestWriteOnlyReg(regs.LC0)
		b.AddInstruction(b.SetRegister(4, sa,
			b.ConstPointer(4, branchTarget(pc, insn))))
		b.AddInstruction(b.SetRegister(4, lc, b.Register(4, count)))
	},
	insts.J2_endloop0: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		rest := b.NewLabel()
		liftEndLoop(b, ctx, insnNum, regs.LC0, regs.SA0, rest)
		b.MarkLabel(rest)
	},
	insts.J2_endloop1: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		rest := b.NewLabel()
		liftEndLoop(b, ctx, insnNum, regs.LC1, regs.SA1, rest)
		b.MarkLabel(rest)
	},
	insts.J2_endloop01: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		// Loop 0 takes priority; loop 1 is tested only when loop 0 is done.
		b := ctx.IL()
		rest := b.NewLabel()
		liftEndLoop(b, ctx, insnNum, regs.LC0, regs.SA0, rest)
		liftEndLoop(b, ctx, insnNum, regs.LC1, regs.SA1, rest)
		b.MarkLabel(rest)
	},

	insts.J4_cmpeqi_tp0_jump_t: liftCmpJump(
		func(b il.Builder, s, imm il.Expr) il.Expr {
			return b.CompareEqual(4, s, imm)
		}),
	insts.J4_cmpeqi_tp0_jump_nt: liftCmpJump(
		func(b il.Builder, s, imm il.Expr) il.Expr {
			return b.CompareEqual(4, s, imm)
		}),
	insts.J4_cmpgti_tp0_jump_t: liftCmpJump(
		func(b il.Builder, s, imm il.Expr) il.Expr {
			return b.CompareSignedGreaterThan(4, s, imm)
		}),
	insts.J4_cmpgti_tp0_jump_nt: liftCmpJump(
		func(b il.Builder, s, imm il.Expr) il.Expr {
			return b.CompareSignedGreaterThan(4, s, imm)
		}),

	insts.J4_cmpeq_t_jumpnv_t: func(pc uint64, pkt *insts.Packet,
		insn *insts.Insn, insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		newVal := b.Register(4, il.Temp(MapRegNum('R', insn.RegNo[0])))
		other := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[1]))
		cond := b.CompareEqual(4, newVal, b.Register(4, other))
		condBranchArm(b, cond, func() {
			setBranchTaken(b, insnNum)
		})
	},

	insts.L2_loadrb_io:   liftLoad(1, false),
	insts.L2_loadri_io:   liftLoad(4, false),
	insts.L2_loadrd_io:   liftLoad(8, true),
	insts.SL1_loadri_io:  liftLoad(4, false),
	insts.SL1_loadrub_io: liftLoad(1, false),

	insts.S2_storerb_io:    liftStore(1, false),
	insts.S2_storeri_io:    liftStore(4, false),
	insts.S2_storerd_io:    liftStore(8, true),
	insts.SS1_storew_io:    liftStore(4, false),
	insts.SS1_storeb_io:    liftStore(1, false),
	insts.S2_storerinew_io: liftNewValueStore(4, false),
	insts.S2_storerbnewgp:  liftNewValueStore(1, true),
	insts.S2_storerigp: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		gp := ctx.SourceReg(4, regs.GP)
		val := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[0]))
		addr := b.Add(4, b.Register(4, gp), b.Const(4, int64(insn.Immed[0])))
		b.AddInstruction(b.Store(4, addr, b.Register(4, val)))
	},

	insts.S2_allocframe:  liftAllocFrame,
	insts.SS2_allocframe: liftAllocFrame,
	insts.SS2_stored_sp: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		sp := ctx.SourceReg(4, regs.SP)
		val := ctx.SourcePairReg(MapRegNum('R', insn.RegNo[0]))
		addr := b.Add(4, b.Register(4, sp), b.Const(4, int64(insn.Immed[0])))
		b.AddInstruction(b.Store(8, addr, b.Register(8, val)))
	},

	insts.L2_deallocframe: liftFrameRestore,
	insts.L4_return:       liftFrameRestore,
	insts.SL2_return:      liftFrameRestore,
	insts.SL2_jumpr31: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		// Return through LR; the branch fan-out emits it.
	},

	insts.Y2_dczeroa: func(pc uint64, pkt *insts.Packet, insn *insts.Insn,
		insnNum int, ctx *PacketContext) {
		b := ctx.IL()
		base := ctx.SourceReg(4, MapRegNum('R', insn.RegNo[0]))
		// The target cache line (32 bytes, aligned) is zeroed.
		line := b.And(4, b.Register(4, base), b.Const(4, ^int64(31)))
		for off := int64(0); off < 32; off += 8 {
			b.AddInstruction(b.Store(8, b.Add(4, line, b.Const(4, off)),
				b.Const(8, 0)))
		}
	},
}

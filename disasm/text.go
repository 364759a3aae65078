package disasm

import (
	"fmt"

	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/insts"
	"github.com/sarchlab/hexlift/regs"
)

// textFunc appends the tokens of one instruction.
type textFunc func(pc uint64, insn *insts.Insn, tokens *[]il.Token)

func add(tokens *[]il.Token, ts ...il.Token) {
	*tokens = append(*tokens, ts...)
}

// immTok renders an immediate operand. An immediate widened by a constant
// extender is marked with a double hash.
func immTok(insn *insts.Insn, idx int) il.Token {
	prefix := "#"
	if insn.ExtensionValid && int(insn.WhichExtended) == idx {
		prefix = "##"
	}
	val := uint32(insn.Immed[idx])
	return il.Integer(fmt.Sprintf("%s0x%x", prefix, val), uint64(val))
}

func regTok(n uint8) il.Token {
	return il.Register(regs.GeneralName(uint32(n)))
}

// pairTok renders a register pair; n is the even low register.
func pairTok(n uint8) il.Token {
	return il.Register(fmt.Sprintf("R%d:R%d", n+1, n))
}

func predTok(n uint8) il.Token {
	return il.Register(regs.PredicateName(regs.P0 + uint32(n)))
}

// addrTok renders a pc-relative branch target as an absolute address.
func addrTok(pc uint64, insn *insts.Insn) il.Token {
	target := uint64(int64(pc) + int64(insn.Immed[0]))
	return il.CodeRelativeAddress(fmt.Sprintf("0x%x", target), target)
}

// Token shorthands shared by the emitters below.
var (
	tokOpen   = il.Text("(")
	tokClose  = il.Text(")")
	tokComma  = il.Text(",")
	tokAssign = il.Text(" = ")
	tokPlus   = il.Text("+")
	tokSpace  = il.Text(" ")
)

func textAssignImm(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
	add(tokens, regTok(insn.RegNo[0]), tokAssign, immTok(insn, 0))
}

func textAluImm(mnemonic string) textFunc {
	return func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, regTok(insn.RegNo[0]), tokAssign, il.Instruction(mnemonic),
			tokOpen, regTok(insn.RegNo[1]), tokComma, immTok(insn, 0), tokClose)
	}
}

func textAluRegReg(mnemonic string) textFunc {
	return func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, regTok(insn.RegNo[0]), tokAssign, il.Instruction(mnemonic),
			tokOpen, regTok(insn.RegNo[1]), tokComma, regTok(insn.RegNo[2]),
			tokClose)
	}
}

func textCmpImm(mnemonic string) textFunc {
	return func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, predTok(insn.RegNo[0]), tokAssign, il.Instruction(mnemonic),
			tokOpen, regTok(insn.RegNo[1]), tokComma, immTok(insn, 0), tokClose)
	}
}

// textCondJump renders the direct conditional jump family:
// "if (Pu) jump:t 0x...", with optional negation and .new.
func textCondJump(negate, dotNew bool, hint string) textFunc {
	return func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Text("if ("))
		if negate {
			add(tokens, il.Text("!"))
		}
		add(tokens, predTok(insn.RegNo[0]))
		if dotNew {
			add(tokens, il.Text(".new"))
		}
		add(tokens, il.Text(") "), il.Instruction("jump"+hint), tokSpace,
			addrTok(pc, insn))
	}
}

// textCmpJump renders a compound compare-jump as its two joined parts.
func textCmpJump(cmpMnemonic string) textFunc {
	return func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, predTok(0), tokAssign, il.Instruction(cmpMnemonic), tokOpen,
			regTok(insn.RegNo[0]), tokComma, immTok(insn, 1), tokClose,
			il.Text("; if ("), predTok(0), il.Text(".new) "),
			il.Instruction("jump:t"), tokSpace, addrTok(pc, insn))
	}
}

func textLoad(mnemonic string, pair bool) textFunc {
	return func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		dest := regTok(insn.RegNo[0])
		if pair {
			dest = pairTok(insn.RegNo[0])
		}
		add(tokens, dest, tokAssign, il.Instruction(mnemonic), tokOpen,
			regTok(insn.RegNo[1]), tokPlus, immTok(insn, 0), tokClose)
	}
}

func textStore(mnemonic string, pair, dotNew bool) textFunc {
	return func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction(mnemonic), tokOpen, regTok(insn.RegNo[1]),
			tokPlus, immTok(insn, 0), tokClose, tokAssign)
		switch {
		case pair:
			add(tokens, pairTok(insn.RegNo[0]))
		case dotNew:
			add(tokens, regTok(insn.RegNo[0]), il.Text(".new"))
		default:
			add(tokens, regTok(insn.RegNo[0]))
		}
	}
}

// textStoreGP renders a GP-relative store. When the offset was widened by an
// extender the access is absolute and the GP base is omitted.
func textStoreGP(mnemonic string, dotNew bool) textFunc {
	return func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction(mnemonic), tokOpen)
		if insn.ExtensionValid && insn.WhichExtended == 0 {
			add(tokens, immTok(insn, 0))
		} else {
			add(tokens, il.Register("GP"), tokPlus, immTok(insn, 0))
		}
		add(tokens, tokClose, tokAssign, regTok(insn.RegNo[0]))
		if dotNew {
			add(tokens, il.Text(".new"))
		}
	}
}

var textFuncs = map[insts.Opcode]textFunc{
	insts.A4_ext: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("immext"), tokOpen, immTok(insn, 0), tokClose)
	},

	insts.A2_tfrsi: textAssignImm,
	insts.SA1_seti: textAssignImm,
	insts.A2_tfr: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, regTok(insn.RegNo[0]), tokAssign, regTok(insn.RegNo[1]))
	},
	insts.SA1_tfr: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, regTok(insn.RegNo[0]), tokAssign, regTok(insn.RegNo[1]))
	},
	insts.SA1_addi: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, regTok(insn.RegNo[0]), tokAssign, il.Instruction("add"),
			tokOpen, regTok(insn.RegNo[0]), tokComma, immTok(insn, 0), tokClose)
	},
	insts.A2_nop: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("nop"))
	},

	insts.A2_addi: textAluImm("add"),
	insts.A2_add:  textAluRegReg("add"),
	insts.A2_sub:  textAluRegReg("sub"),
	insts.A2_and:  textAluRegReg("and"),
	insts.A2_or:   textAluRegReg("or"),
	insts.A2_xor:  textAluRegReg("xor"),
	insts.M2_mpyi: textAluRegReg("mpyi"),

	insts.S2_lsr_i_r: textAluImm("lsr"),
	insts.S2_asr_i_r: textAluImm("asr"),
	insts.S2_asl_i_r: textAluImm("asl"),
	insts.S2_asl_r_r: textAluRegReg("asl"),

	insts.A2_addp: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, pairTok(insn.RegNo[0]), tokAssign, il.Instruction("add"),
			tokOpen, pairTok(insn.RegNo[1]), tokComma, pairTok(insn.RegNo[2]),
			tokClose)
	},

	insts.C2_cmpeqi: textCmpImm("cmp.eq"),
	insts.C2_cmpgti: textCmpImm("cmp.gt"),
	insts.C2_cmpeq: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, predTok(insn.RegNo[0]), tokAssign, il.Instruction("cmp.eq"),
			tokOpen, regTok(insn.RegNo[1]), tokComma, regTok(insn.RegNo[2]),
			tokClose)
	},

	insts.J2_jump: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("jump"), tokSpace, addrTok(pc, insn))
	},
	insts.J2_call: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("call"), tokSpace, addrTok(pc, insn))
	},
	insts.J2_jumpt:      textCondJump(false, false, ""),
	insts.J2_jumptpt:    textCondJump(false, false, ":t"),
	insts.J2_jumptnew:   textCondJump(false, true, ":nt"),
	insts.J2_jumptnewpt: textCondJump(false, true, ":t"),
	insts.J2_jumpf:      textCondJump(true, false, ""),
	insts.J2_jumpfpt:    textCondJump(true, false, ":t"),
	insts.J2_jumpfnew:   textCondJump(true, true, ":nt"),
	insts.J2_jumpfnewpt: textCondJump(true, true, ":t"),

	insts.J2_jumpr: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("jumpr"), tokSpace, regTok(insn.RegNo[0]))
	},
	insts.J2_jumprt: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Text("if ("), predTok(insn.RegNo[1]), il.Text(") "),
			il.Instruction("jumpr"), tokSpace, regTok(insn.RegNo[0]))
	},
	insts.J2_callr: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("callr"), tokSpace, regTok(insn.RegNo[0]))
	},
	insts.J2_trap0: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("trap0"), tokOpen, immTok(insn, 0), tokClose)
	},
	insts.J2_pause: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("pause"), tokOpen, immTok(insn, 0), tokClose)
	},
	insts.J2_rte: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("rte"))
	},

	insts.J2_loop0i: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("loop0"), tokOpen, addrTok(pc, insn),
			tokComma, immTok(insn, 1), tokClose)
	},
	insts.J2_loop0r: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("loop0"), tokOpen, addrTok(pc, insn),
			tokComma, regTok(insn.RegNo[0]), tokClose)
	},

	insts.J4_cmpeqi_tp0_jump_t:  textCmpJump("cmp.eq"),
	insts.J4_cmpeqi_tp0_jump_nt: textCmpJump("cmp.eq"),
	insts.J4_cmpgti_tp0_jump_t:  textCmpJump("cmp.gt"),
	insts.J4_cmpgti_tp0_jump_nt: textCmpJump("cmp.gt"),

	insts.J4_cmpeq_t_jumpnv_t: func(pc uint64, insn *insts.Insn,
		tokens *[]il.Token) {
		add(tokens, il.Text("if ("), il.Instruction("cmp.eq"), tokOpen,
			regTok(insn.RegNo[0]), il.Text(".new"), tokComma,
			regTok(insn.RegNo[1]), tokClose, il.Text(") "),
			il.Instruction("jump:t"), tokSpace, addrTok(pc, insn))
	},

	insts.L2_loadrb_io:   textLoad("memb", false),
	insts.L2_loadri_io:   textLoad("memw", false),
	insts.L2_loadrd_io:   textLoad("memd", true),
	insts.SL1_loadri_io:  textLoad("memw", false),
	insts.SL1_loadrub_io: textLoad("memub", false),

	insts.L2_deallocframe: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("deallocframe"))
	},
	insts.L4_return: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("dealloc_return"))
	},
	insts.SL2_return: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("dealloc_return"))
	},
	insts.SL2_jumpr31: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("jumpr"), tokSpace, il.Register("LR"))
	},

	insts.S2_storerb_io:    textStore("memb", false, false),
	insts.S2_storeri_io:    textStore("memw", false, false),
	insts.S2_storerd_io:    textStore("memd", true, false),
	insts.S2_storerinew_io: textStore("memw", false, true),
	insts.SS1_storew_io:    textStore("memw", false, false),
	insts.SS1_storeb_io:    textStore("memb", false, false),
	insts.S2_storerigp:     textStoreGP("memw", false),
	insts.S2_storerbnewgp:  textStoreGP("memb", true),

	insts.S2_allocframe: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("allocframe"), tokOpen, immTok(insn, 0),
			tokClose)
	},
	insts.SS2_allocframe: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("allocframe"), tokOpen, immTok(insn, 0),
			tokClose)
	},
	insts.SS2_stored_sp: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("memd"), tokOpen, il.Register("SP"), tokPlus,
			immTok(insn, 0), tokClose, tokAssign, pairTok(insn.RegNo[0]))
	},
	insts.Y2_dczeroa: func(pc uint64, insn *insts.Insn, tokens *[]il.Token) {
		add(tokens, il.Instruction("dczeroa"), tokOpen, regTok(insn.RegNo[0]),
			tokClose)
	},
}

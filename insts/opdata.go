package insts

// opcodeInfo is the static per-opcode metadata record.
//
// regInfo maps operand index to its signature letter: RegNo[i] holds the
// register decoded for letter regInfo[i]. The dot-new resolver locates the
// consumer's forwarded operand (letters t/s) and the producer's destination
// (letters d/x/e/y) through these strings.
//
// mask/match verify a decision-tree terminal against the encoding; the
// legacy pair is consulted only when the primary pair fails, to accept
// encoding aliases from earlier architecture revisions. A zero mask with an
// all-ones match never accepts (endloop markers have no encoding).
type opcodeInfo struct {
	attrs     AttrSet
	regInfo   string
	rregs     string
	wregs     string
	semantics string
	extIdx    uint8
	mask      uint32
	match     uint32
	legMask   uint32
	legMatch  uint32
}

const neverMatch = 0xffffffff

var opcodeTable = [NumOpcodes]opcodeInfo{
	InvalidOpcode: {match: neverMatch, legMatch: neverMatch},

	A4_ext: {
		attrs:     Attrs(AttrExtender),
		semantics: "immext(#uiV)",
		mask:      0xf0000000, match: 0x00000000, legMatch: neverMatch,
	},

	A2_tfrsi: {
		regInfo: "d", wregs: "Rd32",
		semantics: "RdV=siV",
		mask:      0xff000000, match: 0x78000000, legMatch: neverMatch,
	},
	A2_tfr: {
		regInfo: "ds", rregs: "Rs32", wregs: "Rd32",
		semantics: "RdV=RsV",
		mask:      0xffe00000, match: 0x70600000, legMatch: neverMatch,
	},
	A2_nop: {
		semantics: "",
		mask:      0xff000000, match: 0x7f000000, legMatch: neverMatch,
	},
	A2_addi: {
		regInfo: "ds", rregs: "Rs32", wregs: "Rd32",
		semantics: "RdV=RsV+siV",
		mask:      0xf0000000, match: 0xb0000000, legMatch: neverMatch,
	},
	A2_add: {
		regInfo: "dst", rregs: "Rs32,Rt32", wregs: "Rd32",
		semantics: "RdV=RsV+RtV",
		mask:      0xffe020e0, match: 0xf3000000, legMatch: neverMatch,
	},
	A2_sub: {
		regInfo: "dts", rregs: "Rt32,Rs32", wregs: "Rd32",
		semantics: "RdV=RtV-RsV",
		mask:      0xffe020e0, match: 0xf3200000, legMatch: neverMatch,
	},
	A2_and: {
		regInfo: "dst", rregs: "Rs32,Rt32", wregs: "Rd32",
		semantics: "RdV=RsV&RtV",
		mask:      0xffe020e0, match: 0xf1000000, legMatch: neverMatch,
	},
	A2_or: {
		regInfo: "dst", rregs: "Rs32,Rt32", wregs: "Rd32",
		semantics: "RdV=RsV|RtV",
		mask:      0xffe020e0, match: 0xf1200000, legMatch: neverMatch,
	},
	A2_xor: {
		regInfo: "dst", rregs: "Rs32,Rt32", wregs: "Rd32",
		semantics: "RdV=RsV^RtV",
		mask:      0xffe020e0, match: 0xf1600000, legMatch: neverMatch,
	},

	A2_addp: {
		regInfo: "dst", rregs: "Rss32,Rtt32", wregs: "Rdd32",
		semantics: "RddV=RssV+RttV",
		mask:      0xffe020e0, match: 0xd30000e0, legMatch: neverMatch,
	},

	M2_mpyi: {
		regInfo: "dst", rregs: "Rs32,Rt32", wregs: "Rd32",
		semantics: "RdV=RsV*RtV",
		mask:      0xffe020e0, match: 0xed000000, legMatch: neverMatch,
	},

	S2_lsr_i_r: {
		regInfo: "ds", rregs: "Rs32", wregs: "Rd32",
		semantics: "RdV=RsV>>uiV",
		mask:      0xffe020e0, match: 0x8c000000, legMatch: neverMatch,
	},
	S2_asr_i_r: {
		regInfo: "ds", rregs: "Rs32", wregs: "Rd32",
		semantics: "RdV=RsV>>>uiV",
		mask:      0xffe020e0, match: 0x8c000020, legMatch: neverMatch,
	},
	S2_asl_i_r: {
		regInfo: "ds", rregs: "Rs32", wregs: "Rd32",
		semantics: "RdV=RsV<<uiV",
		mask:      0xffe020e0, match: 0x8c000040, legMatch: neverMatch,
	},
	S2_asl_r_r: {
		regInfo: "dst", rregs: "Rs32,Rt32", wregs: "Rd32",
		semantics: "RdV=RsV<<RtV",
		mask:      0xffe020e0, match: 0xc6000000, legMatch: neverMatch,
	},

	C2_cmpeqi: {
		regInfo: "ds", rregs: "Rs32", wregs: "Pd4",
		semantics: "PdV=RsV==siV",
		mask:      0xffc0001c, match: 0x75000000, legMatch: neverMatch,
	},
	C2_cmpgti: {
		regInfo: "ds", rregs: "Rs32", wregs: "Pd4",
		semantics: "PdV=RsV>siV",
		mask:      0xffc0001c, match: 0x75400000, legMatch: neverMatch,
	},
	C2_cmpeq: {
		regInfo: "dst", rregs: "Rs32,Rt32", wregs: "Pd4",
		semantics: "PdV=RsV==RtV",
		mask:      0xffe0001c, match: 0xf2000000, legMatch: neverMatch,
	},

	J2_jump: {
		attrs:     Attrs(AttrJump),
		semantics: "jump riV",
		mask:      0xfe000001, match: 0x58000000, legMatch: neverMatch,
	},
	J2_jumpt: {
		attrs:   Attrs(AttrJump, AttrCondJump),
		regInfo: "u", rregs: "Pu4",
		semantics: "if (PuV) jump riV",
		mask:      0xffc01801, match: 0x5c000000,
		legMask: 0xffc00801, legMatch: 0x5c000000,
	},
	J2_jumptpt: {
		attrs:   Attrs(AttrJump, AttrCondJump),
		regInfo: "u", rregs: "Pu4",
		semantics: "if (PuV) jump:t riV",
		mask:      0xffc01801, match: 0x5c001000, legMatch: neverMatch,
	},
	J2_jumptnew: {
		attrs:   Attrs(AttrJump, AttrCondJump),
		regInfo: "u", rregs: "Pu4",
		semantics: "if (PuN) jump:nt riV",
		mask:      0xffc01801, match: 0x5c000800, legMatch: neverMatch,
	},
	J2_jumptnewpt: {
		attrs:   Attrs(AttrJump, AttrCondJump),
		regInfo: "u", rregs: "Pu4",
		semantics: "if (PuN) jump:t riV",
		mask:      0xffc01801, match: 0x5c001800, legMatch: neverMatch,
	},
	J2_jumpf: {
		attrs:   Attrs(AttrJump, AttrCondJump),
		regInfo: "u", rregs: "Pu4",
		semantics: "if (!PuV) jump riV",
		mask:      0xffc01801, match: 0x5d000000,
		legMask: 0xffc00801, legMatch: 0x5d000000,
	},
	J2_jumpfpt: {
		attrs:   Attrs(AttrJump, AttrCondJump),
		regInfo: "u", rregs: "Pu4",
		semantics: "if (!PuV) jump:t riV",
		mask:      0xffc01801, match: 0x5d001000, legMatch: neverMatch,
	},
	J2_jumpfnew: {
		attrs:   Attrs(AttrJump, AttrCondJump),
		regInfo: "u", rregs: "Pu4",
		semantics: "if (!PuN) jump:nt riV",
		mask:      0xffc01801, match: 0x5d000800, legMatch: neverMatch,
	},
	J2_jumpfnewpt: {
		attrs:   Attrs(AttrJump, AttrCondJump),
		regInfo: "u", rregs: "Pu4",
		semantics: "if (!PuN) jump:t riV",
		mask:      0xffc01801, match: 0x5d001800, legMatch: neverMatch,
	},
	J2_jumpr: {
		attrs:   Attrs(AttrJump, AttrIndirect),
		regInfo: "s", rregs: "Rs32",
		semantics: "jumpr RsV",
		mask:      0xffe00000, match: 0x52800000, legMatch: neverMatch,
	},
	J2_jumprt: {
		attrs:   Attrs(AttrJump, AttrIndirect, AttrCondJump),
		regInfo: "su", rregs: "Rs32,Pu4",
		semantics: "if (PuV) jumpr RsV",
		mask:      0xffe00000, match: 0x53400000, legMatch: neverMatch,
	},
	J2_call: {
		attrs:     Attrs(AttrCall),
		wregs:     "LR",
		semantics: "call riV",
		mask:      0xfe000001, match: 0x5a000000, legMatch: neverMatch,
	},
	J2_callr: {
		attrs:   Attrs(AttrCall, AttrIndirect),
		regInfo: "s", rregs: "Rs32", wregs: "LR",
		semantics: "callr RsV",
		mask:      0xffe00000, match: 0x50a00000, legMatch: neverMatch,
	},
	J2_trap0: {
		attrs:     Attrs(AttrSystem),
		semantics: "trap0(#uiV)",
		mask:      0xffc00014, match: 0x54000004,
		legMask: 0xffc00010, legMatch: 0x54000000,
	},
	J2_pause: {
		semantics: "pause(#uiV)",
		mask:      0xffc00014, match: 0x54400004, legMatch: neverMatch,
	},
	J2_rte: {
		semantics: "rte",
		mask:      0xffe00000, match: 0x57e00000, legMatch: neverMatch,
	},

	J2_loop0i: {
		wregs:     "LC0,SA0",
		semantics: "loop0(riV,#UiV)",
		mask:      0xffe00000, match: 0x69000000, legMatch: neverMatch,
	},
	J2_loop0r: {
		regInfo: "s", rregs: "Rs32", wregs: "LC0,SA0",
		semantics: "loop0(riV,RsV)",
		mask:      0xffe00000, match: 0x60000000, legMatch: neverMatch,
	},
	// Endloop markers are synthesized from the parse bits; they have no
	// encoding of their own.
	J2_endloop0: {
		attrs: Attrs(AttrJump, AttrIndirect, AttrCondJump, AttrHWLoop0End),
		match: neverMatch, legMatch: neverMatch,
	},
	J2_endloop1: {
		attrs: Attrs(AttrJump, AttrIndirect, AttrCondJump, AttrHWLoop1End),
		match: neverMatch, legMatch: neverMatch,
	},
	J2_endloop01: {
		attrs: Attrs(AttrJump, AttrIndirect, AttrCondJump, AttrHWLoop0End,
			AttrHWLoop1End),
		match: neverMatch, legMatch: neverMatch,
	},

	J4_cmpeqi_tp0_jump_t: {
		attrs: Attrs(AttrJump, AttrCondJump, AttrNewCmpJump,
			AttrImplicitWritesP0),
		regInfo: "s", rregs: "Rs16", wregs: "P0",
		semantics: "P0=RsV==UiV; if (P0N) jump:t riV",
		mask:      0xffc02001, match: 0x10002000, legMatch: neverMatch,
	},
	J4_cmpeqi_tp0_jump_nt: {
		attrs: Attrs(AttrJump, AttrCondJump, AttrNewCmpJump,
			AttrImplicitWritesP0),
		regInfo: "s", rregs: "Rs16", wregs: "P0",
		semantics: "P0=RsV==UiV; if (P0N) jump:nt riV",
		mask:      0xffc02001, match: 0x10000000, legMatch: neverMatch,
	},
	J4_cmpgti_tp0_jump_t: {
		attrs: Attrs(AttrJump, AttrCondJump, AttrNewCmpJump,
			AttrImplicitWritesP0),
		regInfo: "s", rregs: "Rs16", wregs: "P0",
		semantics: "P0=RsV>UiV; if (P0N) jump:t riV",
		mask:      0xffc02001, match: 0x11002000, legMatch: neverMatch,
	},
	J4_cmpgti_tp0_jump_nt: {
		attrs: Attrs(AttrJump, AttrCondJump, AttrNewCmpJump,
			AttrImplicitWritesP0),
		regInfo: "s", rregs: "Rs16", wregs: "P0",
		semantics: "P0=RsV>UiV; if (P0N) jump:nt riV",
		mask:      0xffc02001, match: 0x11000000, legMatch: neverMatch,
	},

	J4_cmpeq_t_jumpnv_t: {
		attrs:   Attrs(AttrJump, AttrCondJump, AttrDotNewValue),
		regInfo: "st", rregs: "Ns8,Rt32",
		semantics: "if (NsN==RtV) jump:t riV",
		mask:      0xffe02001, match: 0x20002000, legMatch: neverMatch,
	},

	L2_loadrb_io: {
		attrs:   Attrs(AttrLoad, AttrMemLike),
		regInfo: "ds", rregs: "Rs32", wregs: "Rd32",
		semantics: "RdV=memb(RsV+siV)",
		mask:      0xffe00000, match: 0x91000000, legMatch: neverMatch,
	},
	L2_loadri_io: {
		attrs:   Attrs(AttrLoad, AttrMemLike),
		regInfo: "ds", rregs: "Rs32", wregs: "Rd32",
		semantics: "RdV=memw(RsV+siV)",
		mask:      0xffe00000, match: 0x91800000, legMatch: neverMatch,
	},
	L2_loadrd_io: {
		attrs:   Attrs(AttrLoad, AttrMemLike),
		regInfo: "ds", rregs: "Rs32", wregs: "Rdd32",
		semantics: "RddV=memd(RsV+siV)",
		mask:      0xffe00000, match: 0x91c00000, legMatch: neverMatch,
	},
	L2_deallocframe: {
		attrs:   Attrs(AttrLoad, AttrMemLike),
		regInfo: "ds", rregs: "Rs32", wregs: "Rdd32",
		semantics: "deallocframe",
		mask:      0xffe00000, match: 0x90000000, legMatch: neverMatch,
	},
	L4_return: {
		attrs: Attrs(AttrLoad, AttrMemLike, AttrJump, AttrIndirect,
			AttrReturn),
		regInfo: "ds", rregs: "Rs32", wregs: "Rdd32",
		semantics: "dealloc_return",
		mask:      0xffe00000, match: 0x96000000, legMatch: neverMatch,
	},

	S2_storerb_io: {
		attrs:   Attrs(AttrStore, AttrMemLike),
		regInfo: "ts", rregs: "Rt32,Rs32",
		semantics: "memb(RsV+siV)=RtV",
		mask:      0xffe00000, match: 0xa1000000, legMatch: neverMatch,
	},
	S2_storeri_io: {
		attrs:   Attrs(AttrStore, AttrMemLike),
		regInfo: "ts", rregs: "Rt32,Rs32",
		semantics: "memw(RsV+siV)=RtV",
		mask:      0xffe00000, match: 0xa1800000, legMatch: neverMatch,
	},
	S2_storerinew_io: {
		attrs:   Attrs(AttrStore, AttrMemLike, AttrDotNewValue),
		regInfo: "ts", rregs: "Nt8,Rs32",
		semantics: "memw(RsV+siV)=NtN",
		mask:      0xffe00000, match: 0xa1a00000, legMatch: neverMatch,
	},
	S2_storerd_io: {
		attrs:   Attrs(AttrStore, AttrMemLike),
		regInfo: "ts", rregs: "Rtt32,Rs32",
		semantics: "memd(RsV+siV)=RttV",
		mask:      0xffe00000, match: 0xa1c00000, legMatch: neverMatch,
	},
	S2_storerigp: {
		attrs:   Attrs(AttrStore, AttrMemLike),
		regInfo: "t", rregs: "Rt32,GP",
		semantics: "memw(gp+#uiV)=RtV",
		mask:      0xffe00000, match: 0x48800000, legMatch: neverMatch,
	},
	S2_storerbnewgp: {
		attrs:   Attrs(AttrStore, AttrMemLike, AttrDotNewValue),
		regInfo: "t", rregs: "Nt8,GP",
		semantics: "memb(gp+#uiV)=NtN",
		mask:      0xffe01800, match: 0x48a00000, legMatch: neverMatch,
	},
	S2_allocframe: {
		attrs:     Attrs(AttrStore, AttrMemLike),
		rregs:     "SP,FP,LR",
		wregs:     "SP,FP",
		semantics: "allocframe(#uiV)",
		mask:      0xffe00000, match: 0xa0800000, legMatch: neverMatch,
	},
	Y2_dczeroa: {
		attrs:   Attrs(AttrStore, AttrMemLike, AttrDCZeroA),
		regInfo: "s", rregs: "Rs32",
		semantics: "dczeroa(RsV)",
		mask:      0xffe00000, match: 0xa0c00000, legMatch: neverMatch,
	},

	// Duplex sub-instructions: mask/match apply to the 13-bit sub-encoding.
	SA1_addi: {
		attrs:   Attrs(AttrSubInsn),
		regInfo: "x", rregs: "Rx16", wregs: "Rx16",
		semantics: "RxV=RxV+siV",
		mask:      0x1800, match: 0x0000, legMatch: neverMatch,
	},
	SA1_seti: {
		attrs:   Attrs(AttrSubInsn),
		regInfo: "d", wregs: "Rd16",
		semantics: "RdV=uiV",
		mask:      0x1c00, match: 0x0800, legMatch: neverMatch,
	},
	SA1_tfr: {
		attrs:   Attrs(AttrSubInsn),
		regInfo: "ds", rregs: "Rs16", wregs: "Rd16",
		semantics: "RdV=RsV",
		mask:      0x1f00, match: 0x0c00, legMatch: neverMatch,
	},
	SL1_loadri_io: {
		attrs:   Attrs(AttrSubInsn, AttrLoad, AttrMemLike),
		regInfo: "ds", rregs: "Rs16", wregs: "Rd16",
		semantics: "RdV=memw(RsV+uiV)",
		mask:      0x1000, match: 0x0000, legMatch: neverMatch,
	},
	SL1_loadrub_io: {
		attrs:   Attrs(AttrSubInsn, AttrLoad, AttrMemLike),
		regInfo: "ds", rregs: "Rs16", wregs: "Rd16",
		semantics: "RdV=memub(RsV+uiV)",
		mask:      0x1000, match: 0x1000, legMatch: neverMatch,
	},
	SL2_return: {
		attrs: Attrs(AttrSubInsn, AttrLoad, AttrMemLike, AttrJump,
			AttrIndirect, AttrReturn),
		rregs:     "FP",
		semantics: "dealloc_return",
		mask:      0x1c00, match: 0x1800, legMatch: neverMatch,
	},
	SL2_jumpr31: {
		attrs:     Attrs(AttrSubInsn, AttrJump, AttrIndirect, AttrReturn),
		rregs:     "LR",
		semantics: "jumpr LR",
		mask:      0x1fc4, match: 0x1fc0, legMatch: neverMatch,
	},
	SS1_storew_io: {
		attrs:   Attrs(AttrSubInsn, AttrStore, AttrMemLike),
		regInfo: "ts", rregs: "Rt16,Rs16",
		semantics: "memw(RsV+uiV)=RtV",
		mask:      0x1000, match: 0x0000, legMatch: neverMatch,
	},
	SS1_storeb_io: {
		attrs:   Attrs(AttrSubInsn, AttrStore, AttrMemLike),
		regInfo: "ts", rregs: "Rt16,Rs16",
		semantics: "memb(RsV+uiV)=RtV",
		mask:      0x1000, match: 0x1000, legMatch: neverMatch,
	},
	SS2_stored_sp: {
		attrs:   Attrs(AttrSubInsn, AttrStore, AttrMemLike),
		regInfo: "t", rregs: "Rtt8,SP",
		semantics: "memd(r29+siV)=RttV",
		mask:      0x1e00, match: 0x0a00, legMatch: neverMatch,
	},
	SS2_allocframe: {
		attrs:     Attrs(AttrSubInsn, AttrStore, AttrMemLike),
		rregs:     "SP,FP,LR",
		wregs:     "SP,FP",
		semantics: "allocframe(#uiV)",
		mask:      0x1e0f, match: 0x1c00, legMatch: neverMatch,
	},
}

// whichImmediateIsExtended returns the index of the immediate a preceding
// constant extender widens for this opcode.
func whichImmediateIsExtended(op Opcode) uint8 { return opcodeTable[op].extIdx }

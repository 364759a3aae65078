package insts

// The decoder is driven by a hierarchical decision tree. Each node either
// links to another table (dispatching on a bit field or a custom lookup),
// terminates in an opcode verified by its mask/match pair, resolves a duplex
// word through two sub-instruction class tables, or delegates to an
// architecture-extension tree. Tables reference each other by index into a
// flat table arena, so the whole tree is plain static data.

type nodeKind uint8

const (
	nodeInvalid nodeKind = iota
	nodeTableLink
	nodeTerminal
	nodeSubInsns
	nodeExtSpace
)

type dectreeEntry struct {
	kind   nodeKind
	opcode Opcode
	// table is the linked table for nodeTableLink, or the class-A (low
	// sub-instruction) table for nodeSubInsns; tableB is the class-B (high
	// sub-instruction) table.
	table  int16
	tableB int16
}

type lookupKind uint8

const (
	lookupField lookupKind = iota
	// lookupDuplexIClass indexes by the duplex instruction class,
	// {bits[31:29], bit 13} of the full word.
	lookupDuplexIClass
)

type dectreeTable struct {
	lookup   lookupKind
	startBit uint8
	width    uint8
	entries  []dectreeEntry
}

// index returns the child index selected by the encoding.
func (t *dectreeTable) index(enc uint32) uint32 {
	switch t.lookup {
	case lookupDuplexIClass:
		return extract(enc, 29, 3)<<1 | extract(enc, 13, 1)
	default:
		return extract(enc, t.startBit, t.width)
	}
}

// Table indices in the arena.
const (
	tblRoot32 = iota
	tblRootEE
	tblCJ
	tblCJEqi
	tblCJGti
	tblJ
	tblJ50
	tblJ52
	tblJ53
	tblJ54
	tblJumpt
	tblJumpf
	tblCR
	tblALU2op
	tblALU2op0
	tblCmpi
	tblS2op
	tblShifti
	tblLD
	tblLDio
	tblST
	tblST0
	tblSTio
	tblGP
	tblALU3op
	tblLogic
	tblAddSub
	tblSubA1
	tblSubL1
	tblSubL2
	tblSubS1
	tblSubS2
	tblExtMMVec
)

func inv() dectreeEntry           { return dectreeEntry{kind: nodeInvalid} }
func term(op Opcode) dectreeEntry { return dectreeEntry{kind: nodeTerminal, opcode: op} }
func link(t int16) dectreeEntry   { return dectreeEntry{kind: nodeTableLink, table: t} }
func extspace() dectreeEntry      { return dectreeEntry{kind: nodeExtSpace} }

func subinsns(a, b int16) dectreeEntry {
	return dectreeEntry{kind: nodeSubInsns, table: a, tableB: b}
}

var dectreeTables = [...]dectreeTable{
	// 32-bit root: dispatch on the instruction class, bits [31:28].
	tblRoot32: {startBit: 28, width: 4, entries: []dectreeEntry{
		term(A4_ext),
		link(tblCJ),
		term(J4_cmpeq_t_jumpnv_t),
		extspace(),
		link(tblGP),
		link(tblJ),
		link(tblCR),
		link(tblALU2op),
		link(tblS2op),
		link(tblLD),
		link(tblST),
		term(A2_addi),
		term(S2_asl_r_r),
		term(A2_addp),
		term(M2_mpyi),
		link(tblALU3op),
	}},

	// Duplex root: dispatch on the duplex instruction class. Each entry
	// names the sub-instruction class tables for the low (slot 0) and high
	// (slot 1) halves.
	tblRootEE: {lookup: lookupDuplexIClass, entries: []dectreeEntry{
		subinsns(tblSubL1, tblSubL1),
		subinsns(tblSubL1, tblSubL2),
		subinsns(tblSubL2, tblSubL2),
		subinsns(tblSubA1, tblSubA1),
		subinsns(tblSubL1, tblSubA1),
		subinsns(tblSubL2, tblSubA1),
		subinsns(tblSubS1, tblSubA1),
		subinsns(tblSubS1, tblSubS1),
		subinsns(tblSubS2, tblSubA1),
		subinsns(tblSubS2, tblSubS1),
		subinsns(tblSubS2, tblSubS2),
		inv(), inv(), inv(), inv(), inv(),
	}},

	// Compound compare-jumps.
	tblCJ: {startBit: 24, width: 4, entries: []dectreeEntry{
		link(tblCJEqi), link(tblCJGti), inv(), inv(),
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
	}},
	tblCJEqi: {startBit: 13, width: 1, entries: []dectreeEntry{
		term(J4_cmpeqi_tp0_jump_nt), term(J4_cmpeqi_tp0_jump_t),
	}},
	tblCJGti: {startBit: 13, width: 1, entries: []dectreeEntry{
		term(J4_cmpgti_tp0_jump_nt), term(J4_cmpgti_tp0_jump_t),
	}},

	// Jump class.
	tblJ: {startBit: 24, width: 4, entries: []dectreeEntry{
		link(tblJ50), inv(), link(tblJ52), link(tblJ53),
		link(tblJ54), inv(), inv(), term(J2_rte),
		term(J2_jump), term(J2_jump), term(J2_call), term(J2_call),
		link(tblJumpt), link(tblJumpf), inv(), inv(),
	}},
	tblJ50: {startBit: 21, width: 3, entries: []dectreeEntry{
		inv(), inv(), inv(), inv(), inv(), term(J2_callr), inv(), inv(),
	}},
	tblJ52: {startBit: 21, width: 3, entries: []dectreeEntry{
		inv(), inv(), inv(), inv(), term(J2_jumpr), inv(), inv(), inv(),
	}},
	tblJ53: {startBit: 21, width: 3, entries: []dectreeEntry{
		inv(), inv(), term(J2_jumprt), inv(), inv(), inv(), inv(), inv(),
	}},
	tblJ54: {startBit: 22, width: 2, entries: []dectreeEntry{
		term(J2_trap0), term(J2_pause), inv(), inv(),
	}},
	tblJumpt: {startBit: 11, width: 2, entries: []dectreeEntry{
		term(J2_jumpt), term(J2_jumptnew), term(J2_jumptpt), term(J2_jumptnewpt),
	}},
	tblJumpf: {startBit: 11, width: 2, entries: []dectreeEntry{
		term(J2_jumpf), term(J2_jumpfnew), term(J2_jumpfpt), term(J2_jumpfnewpt),
	}},

	// Control class: hardware loop setup.
	tblCR: {startBit: 24, width: 4, entries: []dectreeEntry{
		term(J2_loop0r), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
		inv(), term(J2_loop0i), inv(), inv(),
		inv(), inv(), inv(), inv(),
	}},

	// ALU32 two-operand class.
	tblALU2op: {startBit: 24, width: 4, entries: []dectreeEntry{
		link(tblALU2op0), inv(), inv(), inv(),
		inv(), link(tblCmpi), inv(), inv(),
		term(A2_tfrsi), inv(), inv(), inv(),
		inv(), inv(), inv(), term(A2_nop),
	}},
	tblALU2op0: {startBit: 21, width: 3, entries: []dectreeEntry{
		inv(), inv(), inv(), term(A2_tfr), inv(), inv(), inv(), inv(),
	}},
	tblCmpi: {startBit: 22, width: 2, entries: []dectreeEntry{
		term(C2_cmpeqi), term(C2_cmpgti), inv(), inv(),
	}},

	// Shift-immediate class.
	tblS2op: {startBit: 24, width: 4, entries: []dectreeEntry{
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
		link(tblShifti), inv(), inv(), inv(),
	}},
	tblShifti: {startBit: 5, width: 3, entries: []dectreeEntry{
		term(S2_lsr_i_r), term(S2_asr_i_r), term(S2_asl_i_r), inv(),
		inv(), inv(), inv(), inv(),
	}},

	// Load class.
	tblLD: {startBit: 24, width: 4, entries: []dectreeEntry{
		term(L2_deallocframe), link(tblLDio), inv(), inv(),
		inv(), inv(), term(L4_return), inv(),
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
	}},
	tblLDio: {startBit: 21, width: 3, entries: []dectreeEntry{
		term(L2_loadrb_io), inv(), inv(), inv(),
		term(L2_loadri_io), inv(), term(L2_loadrd_io), inv(),
	}},

	// Store class.
	tblST: {startBit: 24, width: 4, entries: []dectreeEntry{
		link(tblST0), link(tblSTio), inv(), inv(),
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
	}},
	tblST0: {startBit: 21, width: 3, entries: []dectreeEntry{
		inv(), inv(), inv(), inv(),
		term(S2_allocframe), inv(), term(Y2_dczeroa), inv(),
	}},
	tblSTio: {startBit: 21, width: 3, entries: []dectreeEntry{
		term(S2_storerb_io), inv(), inv(), inv(),
		term(S2_storeri_io), term(S2_storerinew_io), term(S2_storerd_io), inv(),
	}},

	// GP-relative store class.
	tblGP: {startBit: 21, width: 3, entries: []dectreeEntry{
		inv(), inv(), inv(), inv(),
		term(S2_storerigp), term(S2_storerbnewgp), inv(), inv(),
	}},

	// ALU32 three-operand class.
	tblALU3op: {startBit: 24, width: 4, entries: []dectreeEntry{
		inv(), link(tblLogic), term(C2_cmpeq), link(tblAddSub),
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
		inv(), inv(), inv(), inv(),
	}},
	tblLogic: {startBit: 21, width: 3, entries: []dectreeEntry{
		term(A2_and), term(A2_or), inv(), term(A2_xor),
		inv(), inv(), inv(), inv(),
	}},
	tblAddSub: {startBit: 21, width: 3, entries: []dectreeEntry{
		term(A2_add), term(A2_sub), inv(), inv(),
		inv(), inv(), inv(), inv(),
	}},

	// Duplex sub-instruction class tables (13-bit encodings).
	tblSubA1: {startBit: 10, width: 3, entries: []dectreeEntry{
		term(SA1_addi), term(SA1_addi), term(SA1_seti), term(SA1_tfr),
		inv(), inv(), inv(), inv(),
	}},
	tblSubL1: {startBit: 12, width: 1, entries: []dectreeEntry{
		term(SL1_loadri_io), term(SL1_loadrub_io),
	}},
	tblSubL2: {startBit: 10, width: 3, entries: []dectreeEntry{
		inv(), inv(), inv(), inv(),
		inv(), inv(), term(SL2_return), term(SL2_jumpr31),
	}},
	tblSubS1: {startBit: 12, width: 1, entries: []dectreeEntry{
		term(SS1_storew_io), term(SS1_storeb_io),
	}},
	tblSubS2: {startBit: 9, width: 4, entries: []dectreeEntry{
		inv(), inv(), inv(), inv(),
		inv(), term(SS2_stored_sp), inv(), inv(),
		inv(), inv(), inv(), inv(),
		inv(), inv(), term(SS2_allocframe), inv(),
	}},

	// Architecture-extension (HVX) tree. The extension's per-opcode decode
	// is not wired in; every encoding that lands here is invalid.
	tblExtMMVec: {startBit: 0, width: 0, entries: []dectreeEntry{inv()}},
}

package insts

// Opcode is the enumerated tag of a decoded instruction.
type Opcode uint16

// Opcode tags. Names follow the architecture's instruction naming: a family
// prefix (A2, J2, L2, S2, ...), then the mnemonic. SA1/SL1/SL2/SS1/SS2 tags
// are duplex sub-instructions.
const (
	InvalidOpcode Opcode = iota

	// Constant extender.
	A4_ext

	// ALU32.
	A2_tfrsi
	A2_tfr
	A2_nop
	A2_addi
	A2_add
	A2_sub
	A2_and
	A2_or
	A2_xor

	// ALU64.
	A2_addp

	// Multiply.
	M2_mpyi

	// Shifts.
	S2_lsr_i_r
	S2_asr_i_r
	S2_asl_i_r
	S2_asl_r_r

	// Predicate compares.
	C2_cmpeqi
	C2_cmpgti
	C2_cmpeq

	// Jumps, calls and system.
	J2_jump
	J2_jumpt
	J2_jumptpt
	J2_jumptnew
	J2_jumptnewpt
	J2_jumpf
	J2_jumpfpt
	J2_jumpfnew
	J2_jumpfnewpt
	J2_jumpr
	J2_jumprt
	J2_call
	J2_callr
	J2_trap0
	J2_pause
	J2_rte

	// Hardware loops.
	J2_loop0i
	J2_loop0r
	J2_endloop0
	J2_endloop1
	J2_endloop01

	// Compound compare-jumps.
	J4_cmpeqi_tp0_jump_t
	J4_cmpeqi_tp0_jump_nt
	J4_cmpgti_tp0_jump_t
	J4_cmpgti_tp0_jump_nt

	// New-value compare-jump.
	J4_cmpeq_t_jumpnv_t

	// Loads.
	L2_loadrb_io
	L2_loadri_io
	L2_loadrd_io
	L2_deallocframe
	L4_return

	// Stores.
	S2_storerb_io
	S2_storeri_io
	S2_storerinew_io
	S2_storerd_io
	S2_storerigp
	S2_storerbnewgp
	S2_allocframe
	Y2_dczeroa

	// Duplex sub-instructions.
	SA1_addi
	SA1_seti
	SA1_tfr
	SL1_loadri_io
	SL1_loadrub_io
	SL2_return
	SL2_jumpr31
	SS1_storew_io
	SS1_storeb_io
	SS2_stored_sp
	SS2_allocframe

	NumOpcodes
)

// String returns the opcode's architecture name.
func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "invalid"
}

var opcodeNames = [NumOpcodes]string{
	InvalidOpcode:         "invalid",
	A4_ext:                "A4_ext",
	A2_tfrsi:              "A2_tfrsi",
	A2_tfr:                "A2_tfr",
	A2_nop:                "A2_nop",
	A2_addi:               "A2_addi",
	A2_add:                "A2_add",
	A2_sub:                "A2_sub",
	A2_and:                "A2_and",
	A2_or:                 "A2_or",
	A2_xor:                "A2_xor",
	A2_addp:               "A2_addp",
	M2_mpyi:               "M2_mpyi",
	S2_lsr_i_r:            "S2_lsr_i_r",
	S2_asr_i_r:            "S2_asr_i_r",
	S2_asl_i_r:            "S2_asl_i_r",
	S2_asl_r_r:            "S2_asl_r_r",
	C2_cmpeqi:             "C2_cmpeqi",
	C2_cmpgti:             "C2_cmpgti",
	C2_cmpeq:              "C2_cmpeq",
	J2_jump:               "J2_jump",
	J2_jumpt:              "J2_jumpt",
	J2_jumptpt:            "J2_jumptpt",
	J2_jumptnew:           "J2_jumptnew",
	J2_jumptnewpt:         "J2_jumptnewpt",
	J2_jumpf:              "J2_jumpf",
	J2_jumpfpt:            "J2_jumpfpt",
	J2_jumpfnew:           "J2_jumpfnew",
	J2_jumpfnewpt:         "J2_jumpfnewpt",
	J2_jumpr:              "J2_jumpr",
	J2_jumprt:             "J2_jumprt",
	J2_call:               "J2_call",
	J2_callr:              "J2_callr",
	J2_trap0:              "J2_trap0",
	J2_pause:              "J2_pause",
	J2_rte:                "J2_rte",
	J2_loop0i:             "J2_loop0i",
	J2_loop0r:             "J2_loop0r",
	J2_endloop0:           "J2_endloop0",
	J2_endloop1:           "J2_endloop1",
	J2_endloop01:          "J2_endloop01",
	J4_cmpeqi_tp0_jump_t:  "J4_cmpeqi_tp0_jump_t",
	J4_cmpeqi_tp0_jump_nt: "J4_cmpeqi_tp0_jump_nt",
	J4_cmpgti_tp0_jump_t:  "J4_cmpgti_tp0_jump_t",
	J4_cmpgti_tp0_jump_nt: "J4_cmpgti_tp0_jump_nt",
	J4_cmpeq_t_jumpnv_t:   "J4_cmpeq_t_jumpnv_t",
	L2_loadrb_io:          "L2_loadrb_io",
	L2_loadri_io:          "L2_loadri_io",
	L2_loadrd_io:          "L2_loadrd_io",
	L2_deallocframe:       "L2_deallocframe",
	L4_return:             "L4_return",
	S2_storerb_io:         "S2_storerb_io",
	S2_storeri_io:         "S2_storeri_io",
	S2_storerinew_io:      "S2_storerinew_io",
	S2_storerd_io:         "S2_storerd_io",
	S2_storerigp:          "S2_storerigp",
	S2_storerbnewgp:       "S2_storerbnewgp",
	S2_allocframe:         "S2_allocframe",
	Y2_dczeroa:            "Y2_dczeroa",
	SA1_addi:              "SA1_addi",
	SA1_seti:              "SA1_seti",
	SA1_tfr:               "SA1_tfr",
	SL1_loadri_io:         "SL1_loadri_io",
	SL1_loadrub_io:        "SL1_loadrub_io",
	SL2_return:            "SL2_return",
	SL2_jumpr31:           "SL2_jumpr31",
	SS1_storew_io:         "SS1_storew_io",
	SS1_storeb_io:         "SS1_storeb_io",
	SS2_stored_sp:         "SS2_stored_sp",
	SS2_allocframe:        "SS2_allocframe",
}

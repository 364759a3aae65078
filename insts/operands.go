package insts

// Register maps. Certain operand encodings index a non-contiguous register
// subset; the decoded field is translated through the named table. For
// example, compound compare-jumps can only name R0-R7 and R16-R23.
var (
	regMapR16 = [16]uint8{0, 1, 2, 3, 4, 5, 6, 7, 16, 17, 18, 19, 20, 21, 22, 23}
	regMapR8e = [8]uint8{0, 2, 4, 6, 16, 18, 20, 22}
	regMapR8  = [8]uint8{0, 1, 2, 3, 4, 5, 6, 7}
)

// Operand extraction steps. These mirror the encoding recipes: registers are
// plain bit fields, immediates accumulate fields at a value offset and are
// then sign-extended, negated or shifted. A shift is skipped when the
// immediate has been widened by a preceding constant extender, which already
// supplies the low bits.

func decodeReg(insn *Insn, regno int, width, start uint8, enc uint32) {
	insn.RegNo[regno] = uint8(extract(enc, start, width))
}

func decodeImplReg(insn *Insn, regno int, val uint8) {
	insn.RegNo[regno] = val
}

func decodeMappedReg(insn *Insn, regno int, m []uint8) {
	insn.RegNo[regno] = m[insn.RegNo[regno]]
}

func decodeImm(insn *Insn, immno int, width, start, valStart uint8, enc uint32) {
	insn.Immed[immno] |= int32(extract(enc, start, width)) << valStart
}

func decodeImmSxt(insn *Insn, immno int, width uint8) {
	insn.Immed[immno] = (insn.Immed[immno] << (32 - width)) >> (32 - width)
}

func decodeImmNeg(insn *Insn, immno int) {
	insn.Immed[immno] = -insn.Immed[immno]
}

func decodeImmShift(insn *Insn, immno int, shamt uint8) {
	if !insn.ExtensionValid || int(insn.WhichExtended) != immno {
		insn.Immed[immno] <<= shamt
	}
}

// decodeOperands fills the registers and immediates of a decoded terminal.
// One case per opcode, in the order the fields appear in the encoding.
func decodeOperands(insn *Insn, tag Opcode, enc uint32) {
	switch tag {
	case A4_ext:
		decodeImm(insn, 0, 12, 16, 14, enc)
		decodeImm(insn, 0, 14, 0, 0, enc)
		decodeImmShift(insn, 0, 6)

	case A2_tfrsi:
		decodeReg(insn, 0, 5, 0, enc)
		decodeImm(insn, 0, 2, 22, 14, enc)
		decodeImm(insn, 0, 5, 16, 9, enc)
		decodeImm(insn, 0, 9, 5, 0, enc)
		decodeImmSxt(insn, 0, 16)
	case A2_tfr:
		decodeReg(insn, 0, 5, 0, enc)
		decodeReg(insn, 1, 5, 16, enc)
	case A2_nop:
	case A2_addi:
		decodeReg(insn, 0, 5, 0, enc)
		decodeReg(insn, 1, 5, 16, enc)
		decodeImm(insn, 0, 7, 21, 9, enc)
		decodeImm(insn, 0, 9, 5, 0, enc)
		decodeImmSxt(insn, 0, 16)
	case A2_add, A2_sub, A2_and, A2_or, A2_xor, A2_addp, M2_mpyi, S2_asl_r_r,
		C2_cmpeq:
		decodeReg(insn, 0, 5, 0, enc)
		decodeReg(insn, 1, 5, 16, enc)
		decodeReg(insn, 2, 5, 8, enc)

	case S2_lsr_i_r, S2_asr_i_r, S2_asl_i_r:
		decodeReg(insn, 0, 5, 0, enc)
		decodeReg(insn, 1, 5, 16, enc)
		decodeImm(insn, 0, 5, 8, 0, enc)

	case C2_cmpeqi, C2_cmpgti:
		decodeReg(insn, 0, 2, 0, enc)
		decodeReg(insn, 1, 5, 16, enc)
		decodeImm(insn, 0, 1, 21, 9, enc)
		decodeImm(insn, 0, 9, 5, 0, enc)
		decodeImmSxt(insn, 0, 10)

	case J2_jump, J2_call:
		decodeImm(insn, 0, 9, 16, 13, enc)
		decodeImm(insn, 0, 13, 1, 0, enc)
		decodeImmSxt(insn, 0, 22)
		decodeImmShift(insn, 0, 2)
	case J2_jumpt, J2_jumptpt, J2_jumptnew, J2_jumptnewpt,
		J2_jumpf, J2_jumpfpt, J2_jumpfnew, J2_jumpfnewpt:
		decodeReg(insn, 0, 2, 8, enc)
		decodeImm(insn, 0, 6, 16, 11, enc)
		decodeImm(insn, 0, 1, 13, 10, enc)
		decodeImm(insn, 0, 10, 1, 0, enc)
		decodeImmSxt(insn, 0, 17)
		decodeImmShift(insn, 0, 2)
	case J2_jumpr, J2_callr:
		decodeReg(insn, 0, 5, 16, enc)
	case J2_jumprt:
		decodeReg(insn, 0, 5, 16, enc)
		decodeReg(insn, 1, 2, 8, enc)
	case J2_trap0, J2_pause:
		decodeImm(insn, 0, 2, 16, 6, enc)
		decodeImm(insn, 0, 5, 8, 1, enc)
		decodeImm(insn, 0, 1, 3, 0, enc)
	case J2_rte:

	case J2_loop0i:
		decodeImm(insn, 0, 5, 16, 2, enc)
		decodeImm(insn, 0, 2, 1, 0, enc)
		decodeImmSxt(insn, 0, 7)
		decodeImmShift(insn, 0, 2)
		decodeImm(insn, 1, 1, 13, 9, enc)
		decodeImm(insn, 1, 5, 8, 4, enc)
		decodeImm(insn, 1, 4, 4, 0, enc)
	case J2_loop0r:
		decodeReg(insn, 0, 5, 16, enc)
		decodeImm(insn, 0, 3, 5, 4, enc)
		decodeImm(insn, 0, 4, 1, 0, enc)
		decodeImmSxt(insn, 0, 7)
		decodeImmShift(insn, 0, 2)

	case J4_cmpeqi_tp0_jump_t, J4_cmpeqi_tp0_jump_nt,
		J4_cmpgti_tp0_jump_t, J4_cmpgti_tp0_jump_nt:
		decodeReg(insn, 0, 4, 16, enc)
		decodeMappedReg(insn, 0, regMapR16[:])
		decodeImm(insn, 1, 5, 8, 0, enc)
		decodeImm(insn, 0, 2, 20, 7, enc)
		decodeImm(insn, 0, 7, 1, 0, enc)
		decodeImmSxt(insn, 0, 9)
		decodeImmShift(insn, 0, 2)
	case J4_cmpeq_t_jumpnv_t:
		decodeReg(insn, 0, 3, 16, enc)
		decodeReg(insn, 1, 5, 8, enc)
		decodeImm(insn, 0, 2, 20, 7, enc)
		decodeImm(insn, 0, 7, 1, 0, enc)
		decodeImmSxt(insn, 0, 9)
		decodeImmShift(insn, 0, 2)

	case L2_loadrb_io, L2_loadri_io, L2_loadrd_io:
		decodeReg(insn, 0, 5, 0, enc)
		decodeReg(insn, 1, 5, 16, enc)
		decodeImm(insn, 0, 9, 5, 0, enc)
		decodeImmSxt(insn, 0, 9)
		switch tag {
		case L2_loadri_io:
			decodeImmShift(insn, 0, 2)
		case L2_loadrd_io:
			decodeImmShift(insn, 0, 3)
		}
	case L2_deallocframe, L4_return:
		decodeReg(insn, 0, 5, 0, enc)
		decodeReg(insn, 1, 5, 16, enc)

	case S2_storerb_io, S2_storeri_io, S2_storerd_io:
		decodeReg(insn, 0, 5, 8, enc)
		decodeReg(insn, 1, 5, 16, enc)
		decodeImm(insn, 0, 1, 13, 8, enc)
		decodeImm(insn, 0, 8, 0, 0, enc)
		decodeImmSxt(insn, 0, 9)
		switch tag {
		case S2_storeri_io:
			decodeImmShift(insn, 0, 2)
		case S2_storerd_io:
			decodeImmShift(insn, 0, 3)
		}
	case S2_storerinew_io:
		decodeReg(insn, 0, 3, 8, enc)
		decodeReg(insn, 1, 5, 16, enc)
		decodeImm(insn, 0, 1, 13, 8, enc)
		decodeImm(insn, 0, 8, 0, 0, enc)
		decodeImmSxt(insn, 0, 9)
		decodeImmShift(insn, 0, 2)
	case S2_storerigp:
		decodeReg(insn, 0, 5, 8, enc)
		decodeImm(insn, 0, 5, 16, 9, enc)
		decodeImm(insn, 0, 1, 13, 8, enc)
		decodeImm(insn, 0, 8, 0, 0, enc)
		decodeImmShift(insn, 0, 2)
	case S2_storerbnewgp:
		decodeReg(insn, 0, 3, 8, enc)
		decodeImm(insn, 0, 5, 16, 9, enc)
		decodeImm(insn, 0, 1, 13, 8, enc)
		decodeImm(insn, 0, 8, 0, 0, enc)
	case S2_allocframe:
		decodeImm(insn, 0, 8, 0, 0, enc)
		decodeImmShift(insn, 0, 3)
	case Y2_dczeroa:
		decodeReg(insn, 0, 5, 16, enc)

	// Duplex sub-instructions decode from 13-bit encodings.
	case SA1_addi:
		decodeReg(insn, 0, 4, 0, enc)
		decodeMappedReg(insn, 0, regMapR16[:])
		decodeImm(insn, 0, 7, 4, 0, enc)
		decodeImmSxt(insn, 0, 7)
	case SA1_seti:
		decodeReg(insn, 0, 4, 0, enc)
		decodeMappedReg(insn, 0, regMapR16[:])
		decodeImm(insn, 0, 6, 4, 0, enc)
	case SA1_tfr:
		decodeReg(insn, 0, 4, 0, enc)
		decodeMappedReg(insn, 0, regMapR16[:])
		decodeReg(insn, 1, 4, 4, enc)
		decodeMappedReg(insn, 1, regMapR16[:])
	case SL1_loadri_io, SL1_loadrub_io:
		decodeReg(insn, 0, 4, 0, enc)
		decodeMappedReg(insn, 0, regMapR16[:])
		decodeReg(insn, 1, 4, 4, enc)
		decodeMappedReg(insn, 1, regMapR16[:])
		decodeImm(insn, 0, 4, 8, 0, enc)
		if tag == SL1_loadri_io {
			decodeImmShift(insn, 0, 2)
		}
	case SL2_return:
		decodeImplReg(insn, 0, 30)
	case SL2_jumpr31:
	case SS1_storew_io, SS1_storeb_io:
		decodeReg(insn, 0, 4, 0, enc)
		decodeMappedReg(insn, 0, regMapR16[:])
		decodeReg(insn, 1, 4, 4, enc)
		decodeMappedReg(insn, 1, regMapR16[:])
		decodeImm(insn, 0, 4, 8, 0, enc)
		if tag == SS1_storew_io {
			decodeImmShift(insn, 0, 2)
		}
	case SS2_stored_sp:
		decodeReg(insn, 0, 3, 0, enc)
		decodeMappedReg(insn, 0, regMapR8e[:])
		decodeImm(insn, 0, 6, 3, 0, enc)
		decodeImmSxt(insn, 0, 6)
		decodeImmShift(insn, 0, 3)
	case SS2_allocframe:
		decodeImm(insn, 0, 5, 4, 0, enc)
		decodeImmShift(insn, 0, 3)
	}
}

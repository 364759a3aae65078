package regs

import "fmt"

// GeneralName returns the canonical name of a general register.
// R29..R31 print as their SP/FP/LR aliases.
func GeneralName(reg uint32) string {
	switch {
	case reg == SP:
		return "SP"
	case reg == FP:
		return "FP"
	case reg == LR:
		return "LR"
	case reg <= R28:
		return fmt.Sprintf("R%d", reg)
	}
	return fmt.Sprintf("R?%d", reg)
}

// ControlName returns the canonical name of a control register.
func ControlName(reg uint32) string {
	switch reg {
	case SA0:
		return "SA0"
	case LC0:
		return "LC0"
	case SA1:
		return "SA1"
	case LC1:
		return "LC1"
	case P3_0:
		return "P3:0"
	case M0:
		return "M0"
	case M1:
		return "M1"
	case USR:
		return "USR"
	case PC:
		return "PC"
	case UGP:
		return "UGP"
	case GP:
		return "GP"
	case CS0:
		return "CS0"
	case CS1:
		return "CS1"
	}
	if reg >= C00 && reg <= C31 {
		return fmt.Sprintf("C%d", reg-C00)
	}
	return fmt.Sprintf("C?%d", reg)
}

// PredicateName returns the canonical name of a predicate sub-register.
func PredicateName(reg uint32) string {
	if reg >= P0 && reg <= P3 {
		return fmt.Sprintf("P%d", reg-P0)
	}
	return fmt.Sprintf("P?%d", reg)
}

// systemNames is indexed from SGP0. Unlisted slots fall back to "S<n>".
var systemNames = map[uint32]string{
	0:  "SGP0",
	1:  "SGP1",
	2:  "STID",
	3:  "ELR",
	4:  "BADVA0",
	5:  "BADVA1",
	6:  "SSR",
	7:  "CCR",
	8:  "HTID",
	9:  "BADVA",
	10: "IMASK",
	11: "GEVB",
	16: "EVB",
	17: "MODECTL",
	18: "SYSCFG",
	20: "IPENDAD",
	21: "VID",
	22: "VID1",
	23: "BESTWAIT",
	25: "SCHEDCFG",
	27: "CFGBASE",
	28: "DIAG",
	29: "REV",
	30: "PCYCLELO",
	31: "PCYCLEHI",
	32: "ISDBST",
	33: "ISDBCFG0",
	34: "ISDBCFG1",
	36: "BRKPTPC0",
	37: "BRKPTCFG0",
	38: "BRKPTPC1",
	39: "BRKPTCFG1",
	40: "ISDBMBXIN",
	41: "ISDBMBXOUT",
	42: "ISDBEN",
	43: "ISDBGPR",
	48: "PMUCNT0",
	49: "PMUCNT1",
	50: "PMUCNT2",
	51: "PMUCNT3",
	52: "PMUEVTCFG",
	54: "PMUCFG",
	56: "TIMERLO",
	57: "TIMERHI",
}

// SystemName returns the textual name of a system register. System registers
// have no slot in the engine numbering; the names exist for disassembly only.
func SystemName(sreg uint32) string {
	if name, ok := systemNames[sreg]; ok {
		return name
	}
	return fmt.Sprintf("S%d", sreg)
}

// Name maps an operand register type letter and a decoded register number to
// the canonical register name. The optional hiLow modifier ("H" or "L") is
// appended as a ".H"/".L" suffix.
func Name(regType string, hiLow string, regno int) string {
	var out string
	switch regType {
	case "R", "N":
		out = GeneralName(R00 + uint32(regno))
	case "C":
		out = ControlName(C00 + uint32(regno))
	case "P":
		out = PredicateName(P0 + uint32(regno))
	case "S":
		out = SystemName(uint32(regno))
	default:
		out = fmt.Sprintf("%s%d", regType, regno)
	}
	if hiLow != "" {
		out += "." + hiLow
	}
	return out
}

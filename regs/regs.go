// Package regs defines the engine-internal Hexagon register numbering.
//
// General registers occupy 0..31, control registers 32..63. Predicate
// registers are modeled as 1-byte sub-registers of P3:0, and the hardware
// loop configuration field as a sub-register of USR.
package regs

// General registers.
const (
	R00 uint32 = iota
	R01
	R02
	R03
	R04
	R05
	R06
	R07
	R08
	R09
	R10
	R11
	R12
	R13
	R14
	R15
	R16
	R17
	R18
	R19
	R20
	R21
	R22
	R23
	R24
	R25
	R26
	R27
	R28
	R29
	R30
	R31
)

// General register aliases.
const (
	// Stack pointer.
	SP = R29
	// Frame pointer.
	FP = R30
	// Link register.
	LR = R31
)

// Control registers.
const (
	C00 uint32 = 32 + iota
	C01
	C02
	C03
	C04
	C05
	C06
	C07
	C08
	C09
	C10
	C11
	C12
	C13
	C14
	C15
	C16
	C17
	C18
	C19
	C20
	C21
	C22
	C23
	C24
	C25
	C26
	C27
	C28
	C29
	C30
	C31
)

// Aliased control registers.
const (
	// Loop registers.
	SA0 = C00
	LC0 = C01
	SA1 = C02
	LC1 = C03
	// Predicate registers 3:0.
	P3_0 = C04
	// Modifier registers.
	M0 = C06
	M1 = C07
	// User status register.
	USR = C08
	// Program counter.
	PC = C09
	// User general pointer.
	UGP = C10
	// Global pointer.
	GP = C11
	// Circular start registers.
	CS0 = C12
	CS1 = C13
)

// Sub registers.
const (
	// Predicate registers modeled as sub-registers of P3:0.
	P0 uint32 = 90 + iota
	P1
	P2
	P3
	// HW loop configuration modeled as a sub-register of USR.
	USRLPCFG
)

// NumRegs is the upper bound of the real-register index space. Temporary
// register subspaces used by the lifter are multiples of NumRegs.
const NumRegs = 100

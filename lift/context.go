package lift

import (
	"sort"

	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/logging"
	"github.com/sarchlab/hexlift/regs"
)

// MapRegNum maps an operand register type letter and a decoded register
// number to the engine register numbering.
func MapRegNum(regType byte, regno uint8) uint32 {
	switch regType {
	case 'R', 'N':
		return regs.R00 + uint32(regno)
	case 'C':
		return regs.C00 + uint32(regno)
	case 'P':
		return regs.P0 + uint32(regno)
	}
	return regs.R00 + uint32(regno)
}

// tempReg is a register mirrored into the host's temporary space. Sources
// snapshot the pre-packet value on creation; destinations collect writes
// until the packet commits.
type tempReg struct {
	size     int
	reg      uint32
	subspace uint32
}

// ilReg returns the register's index in the temporary space.
func (t *tempReg) ilReg() uint32 {
	return il.Temp(t.subspace*regs.NumRegs + t.reg)
}

// copyToTemp emits the copy from the real register into the temporary.
func (t *tempReg) copyToTemp(b il.Builder) {
	var expr il.Expr
	switch t.size {
	case 1:
		expr = b.SetRegister(1, t.ilReg(), b.Register(1, t.reg))
	case 8:
		expr = b.SetRegister(8, t.ilReg(), b.RegisterSplit(4, t.reg+1, t.reg))
	default:
		expr = b.SetRegister(4, t.ilReg(), b.Register(4, t.reg))
	}
	b.AddInstruction(expr)
}

// copyFromTemp emits the copy back to the real register (or register pair).
func (t *tempReg) copyFromTemp(b il.Builder) {
	var expr il.Expr
	switch t.size {
	case 1:
		expr = b.SetRegister(1, t.reg, b.Register(1, t.ilReg()))
	case 8:
		expr = b.SetRegisterSplit(4, t.reg+1, t.reg, b.Register(8, t.ilReg()))
	default:
		expr = b.SetRegister(4, t.reg, b.Register(4, t.ilReg()))
	}
	b.AddInstruction(expr)
}

// PacketContext tracks the destination temporaries of one packet and writes
// them back to the real registers when the packet commits. Keeping
// destinations in the temporary space is what implements the packet's
// parallel read and atomic commit semantics, including dot-new forwarding.
type PacketContext struct {
	b    il.Builder
	regs map[uint32]*tempReg
}

// NewPacketContext creates a context emitting through b.
func NewPacketContext(b il.Builder) *PacketContext {
	return &PacketContext{b: b, regs: map[uint32]*tempReg{}}
}

// IL returns the context's builder.
func (c *PacketContext) IL() il.Builder { return c.b }

// SourceReg snapshots a register's pre-packet value into the temporary
// space and returns the temporary's index.
func (c *PacketContext) SourceReg(size int, reg uint32) uint32 {
	t := tempReg{size: size, reg: reg, subspace: 0}
	t.copyToTemp(c.b)
	return t.ilReg()
}

// SourcePairReg snapshots a register pair. Pairs live in their own subspace
// so they cannot collide with the single-register temporaries of their
// halves.
func (c *PacketContext) SourcePairReg(reg uint32) uint32 {
	t := tempReg{size: 8, reg: reg, subspace: 1}
	t.copyToTemp(c.b)
	return t.ilReg()
}

// Destination temporaries. Read-write destinations are initialised from the
// original register, for read-modify-write and predicated writes;
// write-only destinations are not.

func (c *PacketContext) AddDestWriteOnlyReg(reg uint32) uint32 {
	return c.addDestReg(false, 4, reg)
}

func (c *PacketContext) AddDestReadWriteReg(reg uint32) uint32 {
	return c.addDestReg(true, 4, reg)
}

func (c *PacketContext) AddDestWriteOnlyRegPair(reg uint32) uint32 {
	return c.addDestReg(false, 8, reg)
}

func (c *PacketContext) AddDestReadWriteRegPair(reg uint32) uint32 {
	return c.addDestReg(true, 8, reg)
}

func (c *PacketContext) AddDestWriteOnlyPredReg(reg uint32) uint32 {
	return c.addDestReg(false, 1, reg)
}

func (c *PacketContext) AddDestReadWritePredReg(reg uint32) uint32 {
	return c.addDestReg(true, 1, reg)
}

func (c *PacketContext) addDestReg(rw bool, size int, reg uint32) uint32 {
	if t, ok := c.regs[reg]; ok {
		if t.size != size {
			// A destination named both as a single register and as a pair
			// in one packet. The first-seen size wins.
			logging.Lift.Warn().
				Uint32("reg", reg).
				Int("size", size).
				Int("registered", t.size).
				Msg("dest register size conflict")
		}
		return t.ilReg()
	}
	t := &tempReg{size: size, reg: reg, subspace: 0}
	if rw {
		t.copyToTemp(c.b)
	}
	c.regs[reg] = t
	return t.ilReg()
}

// WriteClobberedRegs emits the copy-back of every destination temporary, in
// ascending register order so the emitted IL is deterministic.
func (c *PacketContext) WriteClobberedRegs() {
	keys := make([]uint32, 0, len(c.regs))
	for reg := range c.regs {
		keys = append(keys, reg)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, reg := range keys {
		c.regs[reg].copyFromTemp(c.b)
	}
}

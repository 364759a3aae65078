// Package flow annotates packets with branch information for the host.
// Branch edges are reported only at the last instruction of a packet, where
// the packet's control transfer takes effect.
package flow

import (
	"errors"
	"fmt"

	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/packetdb"
)

// ErrUnalignedAddress means the queried instruction address is not word
// aligned.
var ErrUnalignedAddress = errors.New("unaligned instruction address")

// Annotate fills the host's instruction info for the instruction at info's
// address. Branch edges appear only when the instruction is the packet's
// last real instruction (or the first half of a final duplex).
func Annotate(info *packetdb.InsnInfo) (*il.InstructionInfo, error) {
	if info.InsnAddr&3 != 0 {
		return nil, fmt.Errorf("%w: %#x", ErrUnalignedAddress, info.InsnAddr)
	}

	result := &il.InstructionInfo{Length: 4}
	pkt := &info.Pkt
	last := pkt.LastInsn()
	atLast := info.InsnNum == last ||
		(pkt.Insns[info.InsnNum].IsSubInsn() && info.InsnNum+1 == last)
	if !atLast {
		return result, nil
	}

	hasCondJump := false
	hasUncondJump := false
	for i := range pkt.Insns {
		insn := &pkt.Insns[i]
		if insn.Part1 {
			continue
		}
		if insn.IsJump() && !insn.IsIndirect() {
			if insn.IsCondJump() {
				hasCondJump = true
			} else {
				hasUncondJump = true
			}
		}
	}

	for i := range pkt.Insns {
		insn := &pkt.Insns[i]
		if insn.Part1 {
			continue
		}
		switch {
		case insn.IsReturn():
			if !insn.IsCondJump() {
				// Conditional returns are left to the host's heuristics.
				result.AddBranch(il.FunctionReturn)
			}
		case insn.IsSystem():
			if !insn.IsCondJump() {
				result.AddBranch(il.SystemCall)
			}
		case insn.IsJump():
			target := uint64(int64(info.PC) + int64(insn.Immed[0]))
			switch {
			case insn.IsIndirect():
				// Conditional indirect jumps are not annotated.
				if !insn.IsCondJump() {
					result.AddBranch(il.IndirectBranch)
				}
			case insn.IsCondJump():
				result.AddBranch(il.TrueBranch, target)
				if !hasUncondJump {
					// Implicit else: fall through to the next packet.
					result.AddBranch(il.FalseBranch,
						info.PC+uint64(pkt.EncodedBytes))
				}
			default:
				kind := il.UnconditionalBranch
				if hasCondJump {
					// The packet's conditional jump makes this the explicit
					// else case.
					kind = il.FalseBranch
				}
				result.AddBranch(kind, target)
			}
		case insn.IsCall():
			// Indirect calls are not annotated.
			if !insn.IsIndirect() {
				result.AddBranch(il.CallDestination,
					uint64(int64(info.PC)+int64(insn.Immed[0])))
			}
		}
	}
	return result, nil
}

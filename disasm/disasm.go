// Package disasm renders decoded instructions as styled text tokens,
// honoring packet braces, duplex companion lines and endloop suffixes.
package disasm

import (
	"errors"
	"fmt"

	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/insts"
	"github.com/sarchlab/hexlift/packetdb"
)

var (
	// ErrUnalignedAddress means the queried instruction address is not word
	// aligned.
	ErrUnalignedAddress = errors.New("unaligned instruction address")

	// ErrUnsupportedOpcode means the opcode has no text emitter.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
)

// Text renders the instruction at info's address. It returns the number of
// bytes the host should advance (a duplex pair renders as one 4-byte line)
// and the text tokens.
func Text(info *packetdb.InsnInfo) (int, []il.Token, error) {
	if info.InsnAddr&3 != 0 {
		return 0, nil, fmt.Errorf("%w: %#x", ErrUnalignedAddress, info.InsnAddr)
	}

	pkt := &info.Pkt
	insnNum := info.InsnNum
	insn := &pkt.Insns[insnNum]

	var tokens []il.Token
	if insnNum == 0 {
		tokens = append(tokens, il.Text("{ "))
	} else {
		tokens = append(tokens, il.Text("  "))
	}

	if err := emitInsn(info.PC, pkt, insn, &tokens); err != nil {
		return 0, nil, err
	}

	// A duplex companion is rendered on the same line; it is not
	// independently addressable.
	if insn.IsSubInsn() {
		insnNum++
		if insnNum >= pkt.NumInsns() {
			return 0, nil, fmt.Errorf("%w: dangling duplex half",
				insts.ErrInvalidEncoding)
		}
		tokens = append(tokens, il.Text("; "))
		if err := emitInsn(info.PC, pkt, &pkt.Insns[insnNum], &tokens); err != nil {
			return 0, nil, err
		}
	}

	last := pkt.LastInsn()
	if insnNum == last {
		tokens = append(tokens, il.Text(" }"))
		if pkt.HasEndLoop {
			switch pkt.Insns[last+1].Opcode {
			case insts.J2_endloop0:
				tokens = append(tokens, il.Text("  :endloop0"))
			case insts.J2_endloop1:
				tokens = append(tokens, il.Text("  :endloop1"))
			case insts.J2_endloop01:
				tokens = append(tokens, il.Text("  :endloop01"))
			}
		}
	} else {
		tokens = append(tokens, il.Text("  "))
	}

	return 4, tokens, nil
}

func emitInsn(pc uint64, pkt *insts.Packet, insn *insts.Insn,
	tokens *[]il.Token) error {
	fn, ok := textFuncs[insn.Opcode]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnsupportedOpcode, insn.Opcode)
	}
	fn(pc, insn, tokens)
	return nil
}

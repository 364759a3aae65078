package insts

import (
	"fmt"
	"strings"
)

// Decoder decodes Hexagon words into packets. The decoding tables are
// process-wide static data, so a Decoder carries no state and is safe for
// concurrent use.
type Decoder struct{}

// NewDecoder creates a new Hexagon packet decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodePacket decodes one packet from the start of words. Constant
// extenders are kept in the instruction list so the packet can be
// disassembled word by word; the lifter removes them from its own copy.
//
// Returns ErrIncompletePacket if the words run out before an end-of-packet
// marker, and ErrInvalidEncoding if the words cannot be decoded.
func (d *Decoder) DecodePacket(words []uint32) (Packet, error) {
	pkt, wordsRead, err := d.decodePacket(words, true)
	if err != nil {
		return Packet{}, err
	}
	if wordsRead == 0 {
		return Packet{}, ErrIncompletePacket
	}
	return pkt, nil
}

// decodeOp fills in the operands of a decoded terminal.
func decodeOp(insn *Insn, tag Opcode, enc uint32) {
	insn.Immed[0] = 0
	insn.Immed[1] = 0
	insn.Opcode = tag
	if insn.ExtensionValid {
		insn.WhichExtended = whichImmediateIsExtended(tag)
	}
	decodeOperands(insn, tag, enc)
	insn.IClass = iclassBits(enc)
}

// decodeSubinsnTablewalk resolves a 13-bit sub-instruction through a duplex
// class table.
func decodeSubinsnTablewalk(insn *Insn, tbl *dectreeTable, enc uint32) bool {
	i := tbl.index(enc)
	if int(i) >= len(tbl.entries) {
		return false
	}
	entry := &tbl.entries[i]
	switch entry.kind {
	case nodeTableLink:
		return decodeSubinsnTablewalk(insn, &dectreeTables[entry.table], enc)
	case nodeTerminal:
		info := &opcodeTable[entry.opcode]
		if enc&info.mask != info.match {
			return false
		}
		decodeOp(insn, entry.opcode, enc)
		return true
	default:
		return false
	}
}

func duplexLow(enc uint32) uint32  { return extract(enc, 0, 13) }
func duplexHigh(enc uint32) uint32 { return extract(enc, 16, 13) }

// decodeInsnsTablewalk resolves a 32-bit word, filling one instruction, or
// two for a duplex. The high sub-instruction is placed first in packet
// order. Returns the number of instructions decoded, 0 on failure.
func decodeInsnsTablewalk(insns []Insn, tbl *dectreeTable, enc uint32) int {
	i := tbl.index(enc)
	if int(i) >= len(tbl.entries) {
		return 0
	}
	entry := &tbl.entries[i]
	switch entry.kind {
	case nodeTableLink:
		return decodeInsnsTablewalk(insns, &dectreeTables[entry.table], enc)
	case nodeSubInsns:
		high := duplexHigh(enc)
		low := duplexLow(enc)
		if !decodeSubinsnTablewalk(&insns[0], &dectreeTables[entry.tableB], high) {
			return 0
		}
		if !decodeSubinsnTablewalk(&insns[1], &dectreeTables[entry.table], low) {
			return 0
		}
		return 2
	case nodeTerminal:
		info := &opcodeTable[entry.opcode]
		if enc&info.mask != info.match {
			if enc&info.legMask != info.legMatch {
				return 0
			}
		}
		decodeOp(&insns[0], entry.opcode, enc)
		return 1
	case nodeExtSpace:
		return decodeInsnsTablewalk(insns, &dectreeTables[tblExtMMVec], enc)
	default:
		return 0
	}
}

// decodeInsns selects the decoding root from the word's parse bits and
// appends the decoded instructions to the packet. extendNext marks the first
// decoded instruction as widened by a preceding constant extender.
func decodeInsns(pkt *Packet, enc uint32, extendNext bool) (int, error) {
	var buf [2]Insn
	buf[0].ExtensionValid = extendNext

	root := tblRoot32
	if parseBits(enc) == 0 {
		root = tblRootEE
	}
	n := decodeInsnsTablewalk(buf[:], &dectreeTables[root], enc)
	if n <= 0 {
		return 0, fmt.Errorf("%w: word %#08x", ErrInvalidEncoding, enc)
	}
	pkt.Insns = append(pkt.Insns, buf[:n]...)
	return n, nil
}

func addEndloopInsn(pkt *Packet, loopNum int) {
	var op Opcode
	switch loopNum {
	case 0:
		op = J2_endloop0
	case 1:
		op = J2_endloop1
	default:
		op = J2_endloop01
	}
	pkt.Insns = append(pkt.Insns, Insn{Opcode: op})
}

// decodePacket decodes a packet from words. It returns the number of words
// consumed: 0 means the words ran out before the end-of-packet marker.
// disasOnly keeps constant extenders in the instruction list and skips the
// execution reordering, which only the lifter needs.
func (d *Decoder) decodePacket(words []uint32, disasOnly bool) (Packet, int, error) {
	var pkt Packet

	maxWords := len(words)
	if maxWords > MaxPacketWords {
		maxWords = MaxPacketWords
	}

	wordsRead := 0
	endOfPacket := false
	extendNext := false
	for !endOfPacket && wordsRead < maxWords {
		enc := words[wordsRead]
		endOfPacket = isPacketEnd(enc)
		n, err := decodeInsns(&pkt, enc, extendNext)
		if err != nil {
			return Packet{}, -1, err
		}
		extendNext = n == 1 && pkt.Insns[len(pkt.Insns)-1].Opcode == A4_ext
		wordsRead++
	}

	if !endOfPacket {
		if len(words) > MaxPacketWords {
			// No end-of-packet marker within the architectural four words:
			// this cannot be a truncated packet, the stream is not code.
			return Packet{}, -1, fmt.Errorf(
				"%w: no end-of-packet marker in %d words", ErrInvalidEncoding,
				MaxPacketWords)
		}
		return Packet{}, 0, nil
	}

	pkt.EncodedBytes = wordsRead * 4
	for i := range pkt.Insns {
		if GetAttrib(pkt.Insns[i].Opcode, AttrExtension) {
			pkt.HasExtension = true
			pkt.HasHVX = true
		}
	}

	// The end of hardware loop 0 can be encoded with two words; the end of
	// hardware loop 1 needs three.
	if wordsRead == 2 && isLoopEnd(words[0]) {
		addEndloopInsn(&pkt, 0)
	}
	if wordsRead >= 3 {
		hasLoop0 := isLoopEnd(words[0])
		hasLoop1 := isLoopEnd(words[1])
		switch {
		case hasLoop0 && hasLoop1:
			addEndloopInsn(&pkt, 10)
		case hasLoop1:
			addEndloopInsn(&pkt, 1)
		case hasLoop0:
			addEndloopInsn(&pkt, 0)
		}
	}

	applyExtenders(&pkt)
	if !disasOnly {
		RemoveExtenders(&pkt)
	}
	setSlotNumbers(&pkt)
	if err := fillNewValueRegNo(&pkt); err != nil {
		return Packet{}, -1, err
	}

	if !disasOnly {
		ShuffleForExecution(&pkt)
		SplitCmpJump(&pkt)
	}

	setInsnAttrFields(&pkt)

	return pkt, wordsRead, nil
}

// applyExtenders merges each constant extender into the following
// instruction's extendable immediate: the extender supplies bits [31:6], the
// consumer keeps its low six bits.
func applyExtenders(pkt *Packet) {
	for i := 0; i+1 < len(pkt.Insns); i++ {
		if !pkt.Insns[i].IsExtender() {
			continue
		}
		consumer := &pkt.Insns[i+1]
		consumer.ExtensionValid = true
		immNum := whichImmediateIsExtended(consumer.Opcode)
		base := consumer.Immed[immNum]
		consumer.Immed[immNum] = pkt.Insns[i].Immed[0] | (base & 0x3f)
	}
}

// RemoveExtenders deletes constant extenders from the packet, compacting the
// instruction list. Decode-only mode keeps them for display; the lifter
// removes them from its working copy.
func RemoveExtenders(pkt *Packet) {
	out := pkt.Insns[:0]
	for _, insn := range pkt.Insns {
		if !insn.IsExtender() {
			out = append(out, insn)
		}
	}
	pkt.Insns = out
}

func isMemLike(op Opcode) bool {
	return GetAttrib(op, AttrMemLike) || GetAttrib(op, AttrMemLikePacketRules)
}

// setSlotNumbers assigns execution slots. Slots are encoded in reverse
// order: the counter starts at 3 and each instruction takes the highest
// valid slot at or below it. Post-passes pin memory instructions and duplex
// sub-instructions to slots 0 and 1, and fill slot 0 from slot 1 when slot 0
// would otherwise stay empty.
func setSlotNumbers(pkt *Packet) {
	slot := 3
	for i := range pkt.Insns {
		valid := findIClassSlots(pkt.Insns[i].Opcode, pkt.Insns[i].IClass)
		for slot > 0 && valid&(1<<slot) == 0 {
			slot--
		}
		if valid&(1<<slot) == 0 {
			for s := 0; s < 4; s++ {
				if valid&(1<<s) != 0 {
					slot = s
					break
				}
			}
		}
		pkt.Insns[i].Slot = uint8(slot)
		if slot > 0 {
			slot--
		}
	}

	// The last memory instruction in encoding order goes to slot 0, any
	// earlier one to slot 1.
	hitMem := false
	for i := len(pkt.Insns) - 1; i >= 0; i-- {
		if !isMemLike(pkt.Insns[i].Opcode) {
			continue
		}
		if !hitMem {
			hitMem = true
			pkt.Insns[i].Slot = 0
			continue
		}
		pkt.Insns[i].Slot = 1
	}

	// Duplex sub-instructions always occupy slots 0 and 1.
	hitDuplex := false
	for i := len(pkt.Insns) - 1; i >= 0; i-- {
		if !pkt.Insns[i].IsSubInsn() {
			continue
		}
		if !hitDuplex {
			hitDuplex = true
			pkt.Insns[i].Slot = 0
			continue
		}
		pkt.Insns[i].Slot = 1
	}

	// Slot 1 is never used while slot 0 stays empty. Endloop markers do not
	// count as occupying slot 0.
	slot0Found := false
	slot1Found := false
	slot1Idx := 0
	for i := len(pkt.Insns) - 1; i >= 0; i-- {
		insn := &pkt.Insns[i]
		if insn.Slot == 0 {
			switch insn.Opcode {
			case J2_endloop0, J2_endloop1, J2_endloop01:
			default:
				slot0Found = true
			}
		}
		if insn.Slot == 1 {
			slot1Found = true
			slot1Idx = i
		}
	}
	if !slot0Found && slot1Found {
		pkt.Insns[slot1Idx].Slot = 0
	}
}

// dot-new destination letters, in lookup order.
var newValueDestLetters = []struct {
	wreg   string
	letter byte
}{
	{"Rd", 'd'},
	{"Rx", 'x'},
	{"Re", 'e'},
	{"Ry", 'y'},
}

// fillNewValueRegNo resolves dot-new consumers. The consumer's N-field
// encodes, in bits [2:1], the distance in instructions back to the producer,
// not counting constant extenders and counting a duplex pair as one. The
// consumer's register operand is replaced with the producer's destination
// register.
func fillNewValueRegNo(pkt *Packet) error {
	for i := 1; i < len(pkt.Insns); i++ {
		use := &pkt.Insns[i]
		if !GetAttrib(use.Opcode, AttrDotNewValue) ||
			GetAttrib(use.Opcode, AttrExtension) {
			continue
		}

		// Stores forward through their Nt field, jumps through Ns.
		letter := byte('s')
		if GetAttrib(use.Opcode, AttrStore) {
			letter = 't'
		}
		useRegIdx := strings.IndexByte(opcodeTable[use.Opcode].regInfo, letter)
		if useRegIdx < 0 {
			return fmt.Errorf("%w: %v has no N-field operand",
				ErrInvalidEncoding, use.Opcode)
		}

		// The low bit of the N-field selects odd/even; bits [2:1] give the
		// distance to the producer.
		ahead := int(use.RegNo[useRegIdx] >> 1)
		if ahead == 0 {
			return fmt.Errorf("%w: reserved N-field distance", ErrInvalidEncoding)
		}
		defIdx := i
		for ahead > 0 {
			if defIdx <= 0 {
				return fmt.Errorf("%w: N-field distance out of packet",
					ErrInvalidEncoding)
			}
			defIdx--
			if pkt.Insns[defIdx].IsExtender() {
				continue
			}
			if pkt.Insns[defIdx].IsSubInsn() {
				defIdx--
			}
			ahead--
		}
		if defIdx < 0 || defIdx >= len(pkt.Insns) {
			return fmt.Errorf("%w: N-field producer out of range",
				ErrInvalidEncoding)
		}

		def := &pkt.Insns[defIdx]
		defInfo := &opcodeTable[def.Opcode]
		dstIdx := -1
		for _, d := range newValueDestLetters {
			if strings.Contains(defInfo.wregs, d.wreg) {
				dstIdx = strings.IndexByte(defInfo.regInfo, d.letter)
				break
			}
		}
		if dstIdx < 0 {
			return fmt.Errorf("%w: producer %v has no register destination",
				ErrInvalidEncoding, def.Opcode)
		}

		use.RegNo[useRegIdx] = def.RegNo[dstIdx]
		use.NewValueProducerSlot = def.Slot
	}
	return nil
}

// sendInsnTo moves the instruction at start to newLoc, shifting the
// instructions in between by one position.
func sendInsnTo(pkt *Packet, start, newLoc int) {
	if start == newLoc {
		return
	}
	direction := 1
	if start > newLoc {
		direction = -1
	}
	for i := start; i != newLoc; i += direction {
		pkt.Insns[i], pkt.Insns[i+direction] = pkt.Insns[i+direction], pkt.Insns[i]
	}
}

func writesCompareResult(op Opcode) bool {
	wregs := opcodeTable[op].wregs
	return (strings.Contains(wregs, "Pd4") || strings.Contains(wregs, "Pe4")) &&
		!GetAttrib(op, AttrStore)
}

// ShuffleForExecution reorders a packet to match execution semantics:
// stores move to the end (keeping their mutual order, never crossing loads),
// predicate-writing compares and implicit predicate writers move to the
// beginning, a dot-new consumer moves past the stores, and rte moves to the
// absolute end. Endloop markers stay pinned.
func ShuffleForExecution(pkt *Packet) {
	lastInsn := len(pkt.Insns) - 1
	if lastInsn < 0 {
		return
	}
	if pkt.Insns[lastInsn].EndsLoop() {
		lastInsn--
	}

	for changed := true; changed; {
		changed = false

		// Stores go last. Iterate backwards; when a store appears above a
		// non-memory instruction, sink it. Stores never cross each other or
		// a load, and never cross a dot-new consumer.
		seenNonMem := false
		nMems := 0
		for i := lastInsn; i >= 0; i-- {
			op := pkt.Insns[i].Opcode
			switch {
			case seenNonMem && GetAttrib(op, AttrStore):
				sendInsnTo(pkt, i, lastInsn-nMems)
				nMems++
				changed = true
			case GetAttrib(op, AttrStore):
				nMems++
			case GetAttrib(op, AttrLoad):
				nMems++
			case GetAttrib(op, AttrDotNewValue):
			default:
				seenNonMem = true
			}
		}
		if changed {
			continue
		}

		// Compares go first; they may be reordered with respect to each
		// other. Endloop markers also write predicates but must not move.
		seenOther := false
		for i := 0; i <= lastInsn; i++ {
			op := pkt.Insns[i].Opcode
			move := false
			switch {
			case writesCompareResult(op):
				move = seenOther
			case GetAttrib(op, AttrImplicitWritesP3) && !pkt.Insns[i].EndsLoop():
				move = seenOther
			case GetAttrib(op, AttrImplicitWritesP0) &&
				!GetAttrib(op, AttrNewCmpJump):
				move = seenOther
			default:
				seenOther = true
			}
			if move {
				sendInsnTo(pkt, i, 0)
				changed = true
			}
		}
	}

	// A dot-new consumer moves to the very end, past the stores.
	for i := 0; i < lastInsn; i++ {
		if GetAttrib(pkt.Insns[i].Opcode, AttrDotNewValue) {
			sendInsnTo(pkt, i, lastInsn)
			break
		}
	}

	// And at the very end, rte, since it updates the execution mode.
	for i := 0; i < lastInsn; i++ {
		if pkt.Insns[i].Opcode == J2_rte {
			sendInsnTo(pkt, i, lastInsn)
			break
		}
	}
}

// SplitCmpJump duplicates every compound compare-jump: the copy appended at
// the tail becomes the compare (part1), the original stays the jump. The
// part1 copies are then moved to the front, preserving their relative order
// so dual jumps keep their encoding order.
func SplitCmpJump(pkt *Packet) {
	numInsns := len(pkt.Insns)
	for i := 0; i < numInsns; i++ {
		if GetAttrib(pkt.Insns[i].Opcode, AttrNewCmpJump) {
			cmp := pkt.Insns[i]
			cmp.Part1 = true
			pkt.Insns[i].Part1 = false
			pkt.Insns = append(pkt.Insns, cmp)
		}
	}
	front := 0
	for i := 0; i < len(pkt.Insns); i++ {
		if pkt.Insns[i].Part1 {
			sendInsnTo(pkt, i, front)
			front++
		}
	}
}

// setInsnAttrFields recomputes the per-packet flags from the final
// instruction list. part1 compare copies do not count as changes of flow.
func setInsnAttrFields(pkt *Packet) {
	pkt.HasCOF = false
	pkt.HasEndLoop = false
	pkt.HasDCZeroA = false

	for i := range pkt.Insns {
		insn := &pkt.Insns[i]
		if insn.Part1 {
			continue
		}
		if GetAttrib(insn.Opcode, AttrDCZeroA) {
			pkt.HasDCZeroA = true
		}
		if GetAttrib(insn.Opcode, AttrStore) {
			if insn.Slot == 0 {
				pkt.HasStoreS0 = true
			} else {
				pkt.HasStoreS1 = true
			}
		}
		if insn.CanJump() {
			pkt.HasCOF = true
		}
		insn.IsEndLoop = insn.EndsLoop()
		if insn.IsEndLoop {
			pkt.HasEndLoop = true
			pkt.HasCOF = true
		}
	}
}

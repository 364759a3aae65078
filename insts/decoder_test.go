package insts_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hexlift/insts"
)

func TestInsts(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Insts Suite")
}

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("should decode a single ALU instruction", func() {
		// 00 e0 00 78  7800e000  {  r0 = #256 }
		pkt, err := decoder.DecodePacket([]uint32{0x7800e000})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(1))
		Expect(pkt.EncodedBytes).To(Equal(4))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.A2_tfrsi))
		Expect(pkt.Insns[0].IClass).To(Equal(insts.IClassALU32_2op))
		Expect(pkt.Insns[0].Slot).To(Equal(uint8(3)))
		Expect(pkt.Insns[0].RegNo[0]).To(Equal(uint8(0)))
		Expect(pkt.Insns[0].Immed[0]).To(Equal(int32(256)))
	})

	It("should decode two ALU sub-instructions from a duplex word", func() {
		// 02 28 01 28  28012802  {  r1 = #0;  r2 = #0 }
		pkt, err := decoder.DecodePacket([]uint32{0x28012802})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(2))
		Expect(pkt.EncodedBytes).To(Equal(4))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.SA1_seti))
		Expect(pkt.Insns[0].IClass).To(Equal(uint8(insts.DuplexIClassBase)))
		Expect(pkt.Insns[0].Slot).To(Equal(uint8(1)))
		Expect(pkt.Insns[0].RegNo[0]).To(Equal(uint8(1)))
		Expect(pkt.Insns[0].Immed[0]).To(Equal(int32(0)))
		Expect(pkt.Insns[1].Opcode).To(Equal(insts.SA1_seti))
		Expect(pkt.Insns[1].Slot).To(Equal(uint8(0)))
		Expect(pkt.Insns[1].RegNo[0]).To(Equal(uint8(2)))
		Expect(pkt.Insns[1].Immed[0]).To(Equal(int32(0)))
	})

	It("should apply a constant extender to the following duplex", func() {
		// 13c:  c0 76 ea 0d  0dea76c0  {  immext(#0xdeadb000)
		// 140:  11 28 b3 28  28b32811     r3 = ##0xdeadb00b;  r1 = #1 }
		pkt, err := decoder.DecodePacket([]uint32{0x0dea76c0, 0x28b32811})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(3))
		Expect(pkt.EncodedBytes).To(Equal(8))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.A4_ext))
		Expect(pkt.Insns[1].ExtensionValid).To(BeTrue())
		Expect(pkt.Insns[1].WhichExtended).To(Equal(uint8(0)))
		Expect(pkt.Insns[1].Immed[0]).To(Equal(int32(-559042549))) // 0xdeadb00b
		Expect(pkt.Insns[1].RegNo[0]).To(Equal(uint8(3)))
		Expect(pkt.Insns[2].Immed[0]).To(Equal(int32(1)))
		Expect(pkt.Insns[2].RegNo[0]).To(Equal(uint8(1)))
	})

	It("should decode a call with a negative pc-relative target", func() {
		// 148:  5c ff ff 5b  5bffff5c  {  call 0x0 }
		pkt, err := decoder.DecodePacket([]uint32{0x5bffff5c})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(1))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.J2_call))
		Expect(pkt.Insns[0].IClass).To(Equal(insts.IClassJ))
		Expect(pkt.Insns[0].Immed[0]).To(Equal(int32(0 - 0x148)))
	})

	It("should decode dealloc_return", func() {
		// c:  1e c0 1e 96  961ec01e  {  dealloc_return }
		pkt, err := decoder.DecodePacket([]uint32{0x961ec01e})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(1))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.L4_return))
		Expect(pkt.Insns[0].IClass).To(Equal(insts.IClassLD))
	})

	It("should decode a packet with multiple branches", func() {
		// 154:  ff 7f ff 0f  0fff7fff  {  immext(#0xffffffc0)
		// 158:  28 60 03 10  10036028     p0 = cmp.eq(r3,#0); if (p0.new) jump:t 0x128
		// 15c:  f2 ff ff 59  59fffff2     jump 0x138 }
		pkt, err := decoder.DecodePacket([]uint32{0x0fff7fff, 0x10036028, 0x59fffff2})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(3))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.A4_ext))
		Expect(pkt.Insns[1].Opcode).To(Equal(insts.J4_cmpeqi_tp0_jump_t))
		Expect(pkt.Insns[1].IClass).To(Equal(insts.IClassCJ))
		Expect(pkt.Insns[1].ExtensionValid).To(BeTrue())
		Expect(pkt.Insns[1].WhichExtended).To(Equal(uint8(0)))
		Expect(pkt.Insns[1].Immed[0]).To(Equal(int32(0x128 - 0x154)))
		Expect(pkt.Insns[2].IClass).To(Equal(insts.IClassJ))
		Expect(pkt.Insns[2].Immed[0]).To(Equal(int32(0x138 - 0x154)))
		Expect(pkt.HasCOF).To(BeTrue())
	})

	It("should report an incomplete packet when words run out", func() {
		// Same packet as above, truncated before the end-of-packet word.
		_, err := decoder.DecodePacket([]uint32{0x0fff7fff, 0x10036028})

		Expect(err).To(MatchError(insts.ErrIncompletePacket))
	})

	It("should resolve a dot-new store to its producer register", func() {
		// 872c:  02 40 00 78  78004002  {  r2 = #0
		// 8730:  a7 43 00 00  000043a7     immext(#0xe9c0)
		// 8734:  30 c2 a0 48  48a0c230     memb(##0xe9f0) = r2.new }
		pkt, err := decoder.DecodePacket([]uint32{0x78004002, 0x000043a7, 0x48a0c230})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(3))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.A2_tfrsi))
		Expect(pkt.Insns[1].Opcode).To(Equal(insts.A4_ext))
		Expect(pkt.Insns[2].Opcode).To(Equal(insts.S2_storerbnewgp))
		Expect(pkt.Insns[2].Immed[0]).To(Equal(int32(59888)))
		// The Nt field is rewritten to the producer's destination register.
		Expect(pkt.Insns[2].RegNo[0]).To(Equal(uint8(2)))
		Expect(pkt.Insns[2].NewValueProducerSlot).To(Equal(pkt.Insns[0].Slot))
	})

	It("should synthesize an endloop marker from the parse bits", func() {
		// 1c8:  22 80 02 b0  b0028022  {  r2 = add(r2,#1)
		// 1cc:  00 c0 00 7f  7f00c000     nop }  :endloop0
		pkt, err := decoder.DecodePacket([]uint32{0xb0028022, 0x7f00c000})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(3))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.A2_addi))
		Expect(pkt.Insns[0].Immed[0]).To(Equal(int32(1)))
		Expect(pkt.Insns[1].Opcode).To(Equal(insts.A2_nop))
		Expect(pkt.Insns[2].Opcode).To(Equal(insts.J2_endloop0))
		Expect(pkt.Insns[2].IsEndLoop).To(BeTrue())
		Expect(pkt.HasEndLoop).To(BeTrue())
		Expect(pkt.HasCOF).To(BeTrue())
	})

	It("should accept a legacy trap encoding through the fallback table", func() {
		// 5400c000 encodes trap0(#0) without the revised fixed bit.
		pkt, err := decoder.DecodePacket([]uint32{0x5400c000})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.J2_trap0))
		Expect(pkt.Insns[0].Immed[0]).To(Equal(int32(0)))
	})

	It("should fail safe on ASCII data", func() {
		// "_CLK failed!"
		_, err := decoder.DecodePacket([]uint32{0x4b4c435f, 0x69616620, 0x2164656c, 0})
		Expect(err).To(MatchError(insts.ErrInvalidEncoding))

		// "ub-ID:%d"
		_, err = decoder.DecodePacket([]uint32{0x492d6275, 0x64253a44})
		Expect(err).To(MatchError(insts.ErrInvalidEncoding))
	})

	It("should bound packets at four words", func() {
		// Five mid-packet extender words never reach an end-of-packet
		// marker: the stream cannot be code.
		words := []uint32{0x00004000, 0x00004000, 0x00004000, 0x00004000, 0x00004000}
		_, err := decoder.DecodePacket(words)

		Expect(err).To(MatchError(insts.ErrInvalidEncoding))
	})

	It("should keep packet invariants on every stored packet", func() {
		vectors := [][]uint32{
			{0x7800e000},
			{0x28012802},
			{0x0dea76c0, 0x28b32811},
			{0x78004002, 0x000043a7, 0x48a0c230},
			{0xb0028022, 0x7f00c000},
			{0x0fff7fff, 0x10036028, 0x59fffff2},
			{0x00004004, 0x5c005870, 0x580040a4, 0x7523fba0},
		}
		for _, words := range vectors {
			pkt, err := decoder.DecodePacket(words)

			Expect(err).ToNot(HaveOccurred())
			Expect(pkt.EncodedBytes % 4).To(Equal(0))
			Expect(pkt.EncodedBytes).To(BeNumerically("<=", 16))
			Expect(pkt.NumInsns()).To(BeNumerically("<=", 6))
			seen := map[uint8]bool{}
			for _, insn := range pkt.Insns {
				Expect(insn.Slot).To(BeNumerically("<=", 3))
				if !insn.IsEndLoop {
					Expect(seen[insn.Slot]).To(BeFalse(),
						"duplicate slot in %08x", words[0])
					seen[insn.Slot] = true
				}
			}
		}
	})

	It("should decode a dual-jump packet in encoding order", func() {
		// b4:  06 50 00 5c  5c005006  {  if (p0) jump:t 0xc0
		// b8:  08 40 00 58  58004008     jump 0xc4
		// bc:  01 c1 01 f3  f301c101     r1 = add(r1,r1) }
		pkt, err := decoder.DecodePacket([]uint32{0x5c005006, 0x58004008, 0xf301c101})

		Expect(err).ToNot(HaveOccurred())
		Expect(pkt.NumInsns()).To(Equal(3))
		Expect(pkt.Insns[0].Opcode).To(Equal(insts.J2_jumptpt))
		Expect(pkt.Insns[0].Immed[0]).To(Equal(int32(0xc)))
		Expect(pkt.Insns[1].Opcode).To(Equal(insts.J2_jump))
		Expect(pkt.Insns[1].Immed[0]).To(Equal(int32(0x10)))
		Expect(pkt.Insns[2].Opcode).To(Equal(insts.A2_add))
	})
})

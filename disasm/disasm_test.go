package disasm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hexlift/disasm"
	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/packetdb"
)

func TestDisasm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Disasm Suite")
}

// render decodes words at addr and disassembles the instruction at query.
func render(words []uint32, addr, query uint64) string {
	db := packetdb.New()
	data := make([]byte, 0, len(words)*4)
	for _, w := range words {
		data = append(data, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	ExpectWithOffset(1, db.AddBytes(data, addr)).To(Succeed())
	info, err := db.Lookup(query)
	ExpectWithOffset(1, err).ToNot(HaveOccurred())
	length, tokens, err := disasm.Text(&info)
	ExpectWithOffset(1, err).ToNot(HaveOccurred())
	ExpectWithOffset(1, length).To(Equal(4))
	return il.TokensString(tokens)
}

var _ = Describe("Text", func() {
	It("should render a single-instruction packet with braces", func() {
		Expect(render([]uint32{0x5a00c014}, 0x0, 0x0)).
			To(Equal("{ call 0x28 }"))
	})

	It("should render a trap packet", func() {
		Expect(render([]uint32{0x5400c004}, 0x10, 0x10)).
			To(Equal("{ trap0(#0x0) }"))
	})

	It("should render a jump packet", func() {
		Expect(render([]uint32{0x5800c09e}, 0x14, 0x14)).
			To(Equal("{ jump 0x150 }"))
	})

	It("should render a mid-packet instruction with spacing", func() {
		// 5c:  04 40 00 00  {  immext(#0x100)
		// 60:  70 58 00 5c     if (p0.new) jump:t 0x194
		// 64:  a4 40 00 58     jump 0x1a4
		// 68:  a0 fb 23 75     p0 = cmp.eq(r3,#-35) }
		words := []uint32{0x00004004, 0x5c005870, 0x580040a4, 0x7523fba0}
		Expect(render(words, 0x5c, 0x60)).
			To(Equal("  if (P0.new) jump:t 0x194  "))
		Expect(render(words, 0x5c, 0x5c)).
			To(Equal("{ immext(#0x100)  "))
		Expect(render(words, 0x5c, 0x68)).
			To(Equal("  P0 = cmp.eq(R3,#0xffffffdd) }"))
	})

	It("should render both duplex halves on one line", func() {
		Expect(render([]uint32{0x28012802}, 0x14c, 0x14c)).
			To(Equal("{ R1 = #0x0; R2 = #0x0 }"))
	})

	It("should render an extended immediate with a double hash", func() {
		words := []uint32{0x0dea76c0, 0x28b32811}
		Expect(render(words, 0x13c, 0x13c)).
			To(Equal("{ immext(#0xdeadb000)  "))
		Expect(render(words, 0x13c, 0x140)).
			To(Equal("  R3 = ##0xdeadb00b; R1 = #0x1 }"))
	})

	It("should render a frame-setup duplex", func() {
		// 7160:  00 40 00 78  {  r0 = #0
		// 7164:  20 1c f4 ab     memd(sp+#-16) = r17:16; allocframe(#16) }
		words := []uint32{0x78004000, 0xabf41c20}
		Expect(render(words, 0x7160, 0x7164)).
			To(Equal("  memd(SP+#0xfffffff0) = R17:R16; allocframe(#0x10) }"))
	})

	It("should append the endloop suffix after the closing brace", func() {
		// 1c8:  22 80 02 b0  {  r2 = add(r2,#1)
		// 1cc:  00 c0 00 7f     nop }  :endloop0
		words := []uint32{0xb0028022, 0x7f00c000}
		Expect(render(words, 0x1c8, 0x1c8)).
			To(Equal("{ R2 = add(R2,#0x1)  "))
		Expect(render(words, 0x1c8, 0x1cc)).
			To(Equal("  nop }  :endloop0"))
	})

	It("should render a compound compare-jump on one line", func() {
		// 15c:  04 e0 02 10  { p0 = cmp.eq(r2,#0); if (p0.new) jump:t 0x164 }
		Expect(render([]uint32{0x1002e004}, 0x15c, 0x15c)).
			To(Equal("{ P0 = cmp.eq(R2,#0x0); if (P0.new) jump:t 0x164 }"))
	})

	It("should reject an unaligned instruction address", func() {
		db := packetdb.New()
		Expect(db.AddBytes([]byte{0x00, 0xe0, 0x00, 0x78}, 0x1002)).To(Succeed())
		info, err := db.Lookup(0x1002)
		Expect(err).ToNot(HaveOccurred())

		_, _, err = disasm.Text(&info)
		Expect(err).To(MatchError(disasm.ErrUnalignedAddress))
	})
})

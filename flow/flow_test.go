package flow_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hexlift/flow"
	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/packetdb"
)

func TestFlow(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Flow Suite")
}

// annotate decodes words at addr and annotates the instruction at query.
func annotate(words []uint32, addr, query uint64) *il.InstructionInfo {
	db := packetdb.New()
	data := make([]byte, 0, len(words)*4)
	for _, w := range words {
		data = append(data, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	ExpectWithOffset(1, db.AddBytes(data, addr)).To(Succeed())
	info, err := db.Lookup(query)
	ExpectWithOffset(1, err).ToNot(HaveOccurred())
	result, err := flow.Annotate(&info)
	ExpectWithOffset(1, err).ToNot(HaveOccurred())
	return result
}

func branch(t il.BranchType, target uint64) il.Branch {
	return il.Branch{Type: t, Target: target, HasTarget: true}
}

var _ = Describe("Annotate", func() {
	It("should annotate a direct call", func() {
		info := annotate([]uint32{0x5a00c014}, 0x0, 0x0)
		Expect(info.Length).To(Equal(4))
		Expect(info.Branches).To(Equal([]il.Branch{
			branch(il.CallDestination, 0x28),
		}))
	})

	It("should annotate a trap as a system call", func() {
		info := annotate([]uint32{0x5400c004}, 0x10, 0x10)
		Expect(info.Branches).To(Equal([]il.Branch{
			{Type: il.SystemCall},
		}))
	})

	It("should annotate an unconditional jump", func() {
		info := annotate([]uint32{0x5800c09e}, 0x14, 0x14)
		Expect(info.Branches).To(Equal([]il.Branch{
			branch(il.UnconditionalBranch, 0x150),
		}))
	})

	It("should annotate a return", func() {
		info := annotate([]uint32{0x961ec01e}, 0xc, 0xc)
		Expect(info.Branches).To(Equal([]il.Branch{
			{Type: il.FunctionReturn},
		}))
	})

	It("should annotate an indirect jump", func() {
		// 5283c000  { jumpr r3 }
		info := annotate([]uint32{0x5283c000}, 0x20, 0x20)
		Expect(info.Branches).To(Equal([]il.Branch{
			{Type: il.IndirectBranch},
		}))
	})

	It("should downgrade the unconditional jump of a dual-jump packet", func() {
		// 5c:  immext; if (p0.new) jump:t 0x194; jump 0x1a4; p0 = cmp.eq(...)
		words := []uint32{0x00004004, 0x5c005870, 0x580040a4, 0x7523fba0}
		info := annotate(words, 0x5c, 0x68)
		Expect(info.Branches).To(Equal([]il.Branch{
			branch(il.TrueBranch, 0x194),
			branch(il.FalseBranch, 0x1a4),
		}))
	})

	It("should add an implicit else for a lone conditional jump", func() {
		// 15c:  { p0 = cmp.eq(r2,#0); if (p0.new) jump:t 0x164 }
		info := annotate([]uint32{0x1002e004}, 0x15c, 0x15c)
		Expect(info.Branches).To(Equal([]il.Branch{
			branch(il.TrueBranch, 0x164),
			branch(il.FalseBranch, 0x160),
		}))
	})

	It("should not annotate indirect calls", func() {
		// 50a5c000  { callr r5 }
		info := annotate([]uint32{0x50a5c000}, 0x30, 0x30)
		Expect(info.Branches).To(BeEmpty())
	})

	It("should not annotate conditional indirect jumps", func() {
		// 5343c100  { if (p1) jumpr r3 }
		info := annotate([]uint32{0x5343c100}, 0x40, 0x40)
		Expect(info.Branches).To(BeEmpty())
	})

	It("should only annotate at the last instruction of a packet", func() {
		words := []uint32{0x00004004, 0x5c005870, 0x580040a4, 0x7523fba0}
		for _, query := range []uint64{0x5c, 0x60, 0x64} {
			info := annotate(words, 0x5c, query)
			Expect(info.Branches).To(BeEmpty(), "query %#x", query)
		}
	})

	It("should annotate at the first half of a final duplex", func() {
		// 14c:  { r1 = #0; r2 = #0 } -- no branches, but the lookup lands on
		// the duplex half pair.
		info := annotate([]uint32{0x28012802}, 0x14c, 0x14c)
		Expect(info.Branches).To(BeEmpty())
		Expect(info.Length).To(Equal(4))
	})

	It("should reject an unaligned instruction address", func() {
		db := packetdb.New()
		Expect(db.AddBytes([]byte{0x00, 0xe0, 0x00, 0x78}, 0x1002)).To(Succeed())
		info, err := db.Lookup(0x1002)
		Expect(err).ToNot(HaveOccurred())

		_, err = flow.Annotate(&info)
		Expect(err).To(MatchError(flow.ErrUnalignedAddress))
	})
})

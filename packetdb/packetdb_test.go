package packetdb_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hexlift/packetdb"
)

func TestPacketDB(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PacketDB Suite")
}

const baseAddr = uint64(0x1000)

var _ = Describe("DB", func() {
	var db *packetdb.DB

	BeforeEach(func() {
		db = packetdb.New()
	})

	It("should fail if data is shorter than one word", func() {
		err := db.AddBytes(make([]byte, 2), baseAddr)
		Expect(err).To(MatchError(packetdb.ErrInsufficientData))
	})

	It("should fail if data is not a multiple of four bytes", func() {
		err := db.AddBytes(make([]byte, 5), baseAddr)
		Expect(err).To(MatchError(packetdb.ErrInsufficientData))
	})

	It("should fail if the data holds no complete packet", func() {
		// 13c:  c0 76 ea 0d  0dea76c0  {  immext(#0xdeadb000)
		// (truncated before the closing duplex word)
		err := db.AddBytes([]byte{0xc0, 0x76, 0xea, 0x0d}, baseAddr)
		Expect(err).To(MatchError(packetdb.ErrInsufficientData))
	})

	It("should succeed if at least one packet was added", func() {
		// { r0 = #256 } followed by a truncated immext packet.
		data := []byte{0x00, 0xe0, 0x00, 0x78, 0xc0, 0x76, 0xea, 0x0d}
		Expect(db.AddBytes(data, baseAddr)).To(Succeed())

		info, err := db.Lookup(baseAddr)
		Expect(err).ToNot(HaveOccurred())
		Expect(info.PC).To(Equal(baseAddr))
		_, err = db.Lookup(baseAddr + 4)
		Expect(err).To(MatchError(packetdb.ErrNotFound))
	})

	It("should look up every byte of a one-instruction packet", func() {
		// 00 e0 00 78  7800e000  {  r0 = #256 }
		Expect(db.AddBytes([]byte{0x00, 0xe0, 0x00, 0x78}, baseAddr)).To(Succeed())

		_, err := db.Lookup(baseAddr - 1)
		Expect(err).To(MatchError(packetdb.ErrNotFound))
		_, err = db.Lookup(baseAddr + 4)
		Expect(err).To(MatchError(packetdb.ErrNotFound))

		for off := uint64(0); off < 4; off++ {
			info, err := db.Lookup(baseAddr + off)
			Expect(err).ToNot(HaveOccurred())
			Expect(info.PC).To(Equal(baseAddr))
			Expect(info.InsnNum).To(Equal(0))
			Expect(info.InsnAddr).To(Equal(baseAddr))
		}
	})

	It("should step two bytes per duplex sub-instruction", func() {
		// 13c:  c0 76 ea 0d  0dea76c0  {  immext(#0xdeadb000)
		// 140:  11 28 b3 28  28b32811     r3 = ##0xdeadb00b;  r1 = #1 }
		data := []byte{0xc0, 0x76, 0xea, 0x0d, 0x11, 0x28, 0xb3, 0x28}
		Expect(db.AddBytes(data, baseAddr)).To(Succeed())

		// The extender occupies the first four bytes, each duplex half two.
		expected := []struct {
			off      uint64
			insnNum  int
			insnAddr uint64
		}{
			{0, 0, baseAddr}, {1, 0, baseAddr}, {2, 0, baseAddr}, {3, 0, baseAddr},
			{4, 1, baseAddr + 4}, {5, 1, baseAddr + 4},
			{6, 2, baseAddr + 6}, {7, 2, baseAddr + 6},
		}
		for _, e := range expected {
			info, err := db.Lookup(baseAddr + e.off)
			Expect(err).ToNot(HaveOccurred())
			Expect(info.PC).To(Equal(baseAddr))
			Expect(info.InsnNum).To(Equal(e.insnNum), "offset %d", e.off)
			Expect(info.InsnAddr).To(Equal(e.insnAddr), "offset %d", e.off)
		}
		_, err := db.Lookup(baseAddr + 8)
		Expect(err).To(MatchError(packetdb.ErrNotFound))
	})

	It("should decode consecutive packets from one byte slice", func() {
		data := []byte{
			0x00, 0xe0, 0x00, 0x78, // { r0 = #256 }
			0x02, 0x28, 0x01, 0x28, // { r1 = #0; r2 = #0 }
		}
		Expect(db.AddBytes(data, baseAddr)).To(Succeed())

		first, err := db.Lookup(baseAddr)
		Expect(err).ToNot(HaveOccurred())
		second, err := db.Lookup(baseAddr + 4)
		Expect(err).ToNot(HaveOccurred())
		Expect(first.PC).To(Equal(baseAddr))
		Expect(second.PC).To(Equal(baseAddr + 4))
		Expect(second.Pkt.NumInsns()).To(Equal(2))
	})

	It("should return equal results when the same bytes are re-added", func() {
		data := []byte{0x00, 0xe0, 0x00, 0x78}
		Expect(db.AddBytes(data, baseAddr)).To(Succeed())
		before, err := db.Lookup(baseAddr)
		Expect(err).ToNot(HaveOccurred())

		Expect(db.AddBytes(data, baseAddr)).To(Succeed())
		after, err := db.Lookup(baseAddr)
		Expect(err).ToNot(HaveOccurred())
		Expect(after).To(Equal(before))
	})

	It("should replace overlapping packets on re-decode", func() {
		Expect(db.AddBytes([]byte{0x00, 0xe0, 0x00, 0x78}, baseAddr)).To(Succeed()) // r0 = #256
		Expect(db.AddBytes([]byte{0x02, 0x28, 0x01, 0x28}, baseAddr)).To(Succeed()) // duplex

		info, err := db.Lookup(baseAddr)
		Expect(err).ToNot(HaveOccurred())
		Expect(info.Pkt.NumInsns()).To(Equal(2))
	})

	It("should keep unrelated intervals intact across overwrites", func() {
		data := []byte{
			0x00, 0xe0, 0x00, 0x78,
			0x02, 0x28, 0x01, 0x28,
		}
		Expect(db.AddBytes(data, baseAddr)).To(Succeed())
		// Overwrite only the first packet.
		Expect(db.AddBytes([]byte{0x1e, 0xc0, 0x1e, 0x96}, baseAddr)).To(Succeed())

		second, err := db.Lookup(baseAddr + 4)
		Expect(err).ToNot(HaveOccurred())
		Expect(second.PC).To(Equal(baseAddr + 4))
		Expect(second.Pkt.NumInsns()).To(Equal(2))
	})

	It("should serve concurrent readers and writers", func() {
		data := []byte{0x00, 0xe0, 0x00, 0x78}
		Expect(db.AddBytes(data, baseAddr)).To(Succeed())

		done := make(chan struct{})
		for w := 0; w < 4; w++ {
			go func() {
				defer GinkgoRecover()
				for i := 0; i < 100; i++ {
					Expect(db.AddBytes(data, baseAddr)).To(Succeed())
				}
				done <- struct{}{}
			}()
		}
		for r := 0; r < 4; r++ {
			go func() {
				defer GinkgoRecover()
				for i := 0; i < 100; i++ {
					info, err := db.Lookup(baseAddr)
					Expect(err).ToNot(HaveOccurred())
					Expect(info.PC).To(Equal(baseAddr))
				}
				done <- struct{}{}
			}()
		}
		for i := 0; i < 8; i++ {
			<-done
		}
	})
})

package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hexlift/loader"
)

func TestLoader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Loader Suite")
}

// createMinimalHexagonELF writes a 32-bit little-endian ELF with a single
// executable PT_LOAD segment holding code.
func createMinimalHexagonELF(path string, vaddr, entry uint64, code []byte) {
	const (
		ehSize = 52
		phSize = 32
	)
	buf := make([]byte, 0, ehSize+phSize+len(code))
	le := binary.LittleEndian

	u16 := func(v uint16) { buf = le.AppendUint16(buf, v) }
	u32 := func(v uint32) { buf = le.AppendUint32(buf, v) }

	// e_ident
	buf = append(buf, 0x7f, 'E', 'L', 'F', 1 /* ELFCLASS32 */, 1, /* LSB */
		1 /* EV_CURRENT */, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	u16(2)                  // e_type: ET_EXEC
	u16(164)                // e_machine: Hexagon
	u32(1)                  // e_version
	u32(uint32(entry))      // e_entry
	u32(ehSize)             // e_phoff
	u32(0)                  // e_shoff
	u32(0)                  // e_flags
	u16(ehSize)             // e_ehsize
	u16(phSize)             // e_phentsize
	u16(1)                  // e_phnum
	u16(0)                  // e_shentsize
	u16(0)                  // e_shnum
	u16(0)                  // e_shstrndx

	// Program header: PT_LOAD, R+X.
	u32(1)                       // p_type
	u32(ehSize + phSize)         // p_offset
	u32(uint32(vaddr))           // p_vaddr
	u32(uint32(vaddr))           // p_paddr
	u32(uint32(len(code)))       // p_filesz
	u32(uint32(len(code)))       // p_memsz
	u32(5)                       // p_flags: R+X
	u32(4)                       // p_align

	buf = append(buf, code...)
	ExpectWithOffset(1, os.WriteFile(path, buf, 0o644)).To(Succeed())
}

var _ = Describe("Load", func() {
	var tempDir string

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
	})

	Context("with a valid Hexagon ELF binary", func() {
		var elfPath string

		BeforeEach(func() {
			elfPath = filepath.Join(tempDir, "test.elf")
			createMinimalHexagonELF(elfPath, 0x5000, 0x5000, []byte{
				0x00, 0xe0, 0x00, 0x78, // { r0 = #256 }
				0x02, 0x28, 0x01, 0x28, // { r1 = #0; r2 = #0 }
			})
		})

		It("should extract the entry point", func() {
			prog, err := loader.Load(elfPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.EntryPoint).To(Equal(uint64(0x5000)))
		})

		It("should load the executable segment", func() {
			prog, err := loader.Load(elfPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(HaveLen(1))
			Expect(prog.Segments[0].VirtAddr).To(Equal(uint64(0x5000)))
			Expect(prog.Segments[0].Executable()).To(BeTrue())
			Expect(prog.Segments[0].Data).To(HaveLen(8))
			Expect(prog.Segments[0].Data[3]).To(Equal(byte(0x78)))
		})
	})

	Context("with an invalid file", func() {
		It("should return an error for a non-existent file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing.elf"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to open"))
		})

		It("should return an error for a non-ELF file", func() {
			path := filepath.Join(tempDir, "not-elf.bin")
			Expect(os.WriteFile(path, []byte("not an elf file"), 0o644)).To(Succeed())
			_, err := loader.Load(path)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a non-Hexagon machine type", func() {
			path := filepath.Join(tempDir, "wrong-machine.elf")
			createMinimalHexagonELF(path, 0x5000, 0x5000, []byte{0, 0, 0, 0})
			raw, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			// Patch e_machine to AArch64.
			binary.LittleEndian.PutUint16(raw[18:], 183)
			Expect(os.WriteFile(path, raw, 0o644)).To(Succeed())

			_, err = loader.Load(path)
			Expect(err).To(MatchError(ContainSubstring("not a Hexagon ELF")))
		})
	})
})

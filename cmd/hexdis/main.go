// Package main provides the entry point for hexdis, a Hexagon packet
// disassembler. It decodes a raw image or a Hexagon ELF, prints the
// disassembly listing with packet braces, and can additionally print branch
// annotations, lifted IL, and persist the analysis to an on-disk store.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/xyproto/env/v2"

	"github.com/sarchlab/hexlift/disasm"
	"github.com/sarchlab/hexlift/flow"
	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/iltext"
	"github.com/sarchlab/hexlift/lift"
	"github.com/sarchlab/hexlift/loader"
	"github.com/sarchlab/hexlift/logging"
	"github.com/sarchlab/hexlift/packetdb"
	"github.com/sarchlab/hexlift/store"
)

var (
	baseAddr = flag.Uint64("base", defaultBase(),
		"Load address for raw images")
	showLift     = flag.Bool("lift", false, "Print lifted IL under each packet")
	showBranches = flag.Bool("branches", false, "Print branch annotations")
	dbPath       = flag.String("db", "", "Persist the analysis to a store at this path")
	logLevel     = flag.String("loglevel", env.Str("HEXDIS_LOG_LEVEL", "info"),
		"Log level (trace, debug, info, warn, error)")
)

// defaultBase reads the default raw-image load address from the
// environment.
func defaultBase() uint64 {
	base, err := strconv.ParseUint(env.Str("HEXDIS_BASE_ADDR", "0"), 0, 64)
	if err != nil {
		return 0
	}
	return base
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: hexdis [options] <image.elf|image.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q: %v\n", *logLevel, err)
		os.Exit(1)
	}
	logging.Init(logging.Options{Level: level, Console: true})

	segments, err := loadImage(flag.Arg(0), *baseAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}

	var analysis *store.AnalysisStore
	if *dbPath != "" {
		analysis, err = store.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening analysis store: %v\n", err)
			os.Exit(1)
		}
		defer analysis.Close()
	}

	db := packetdb.New()
	for _, seg := range segments {
		if err := listSegment(db, analysis, seg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

type segment struct {
	addr uint64
	data []byte
}

// loadImage reads an ELF's executable segments, or the whole file as raw
// code at the base address.
func loadImage(path string, base uint64) ([]segment, error) {
	if prog, err := loader.Load(path); err == nil {
		var out []segment
		for _, s := range prog.Segments {
			data := s.Data[:len(s.Data)&^3]
			if s.Executable() && len(data) >= 4 {
				out = append(out, segment{addr: s.VirtAddr, data: data})
			}
		}
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = data[:len(data)&^3]
	if len(data) < 4 {
		return nil, fmt.Errorf("image too small: %d bytes", len(data))
	}
	return []segment{{addr: base, data: data}}, nil
}

// listSegment decodes and prints one segment, packet by packet. Undecodable
// words are printed raw and skipped.
func listSegment(db *packetdb.DB, analysis *store.AnalysisStore, seg segment) error {
	end := seg.addr + uint64(len(seg.data))
	for addr := seg.addr; addr < end; addr += 4 {
		info, err := db.Lookup(addr)
		if err != nil {
			off := addr - seg.addr
			if err := db.AddBytes(seg.data[off:], addr); err != nil {
				word := uint32(seg.data[off]) | uint32(seg.data[off+1])<<8 |
					uint32(seg.data[off+2])<<16 | uint32(seg.data[off+3])<<24
				fmt.Printf("%08x:  .word 0x%08x\n", addr, word)
				continue
			}
			info, err = db.Lookup(addr)
			if err != nil {
				return err
			}
		}

		line, branches, err := renderInsn(&info)
		if err != nil {
			return err
		}
		fmt.Printf("%08x:  %s\n", addr, line)
		for _, b := range branches {
			if b.HasTarget {
				fmt.Printf("          ; %s -> 0x%x\n", b.Type, b.Target)
			} else {
				fmt.Printf("          ; %s\n", b.Type)
			}
		}

		if *showLift && info.InsnNum == 0 {
			if err := printLift(&info); err != nil {
				return err
			}
		}
		if analysis != nil && info.InsnNum == 0 {
			if err := storePacket(db, analysis, &info); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderInsn(info *packetdb.InsnInfo) (string, []il.Branch, error) {
	_, tokens, err := disasm.Text(info)
	if err != nil {
		return "", nil, err
	}
	var branches []il.Branch
	if *showBranches {
		annot, err := flow.Annotate(info)
		if err != nil {
			return "", nil, err
		}
		branches = annot.Branches
	}
	return il.TokensString(tokens), branches, nil
}

func printLift(info *packetdb.InsnInfo) error {
	f := iltext.New()
	if _, err := lift.Lift(f, info); err != nil {
		return err
	}
	for _, line := range f.Lines() {
		fmt.Printf("          | %s\n", line)
	}
	return nil
}

// storePacket persists the packet's rendered text and branch edges.
func storePacket(db *packetdb.DB, analysis *store.AnalysisStore,
	first *packetdb.InsnInfo) error {
	rec := &store.PacketRecord{
		Addr: first.PC,
		Size: first.Pkt.EncodedBytes,
	}
	for addr := first.PC; addr < first.PC+uint64(first.Pkt.EncodedBytes); addr += 4 {
		info, err := db.Lookup(addr)
		if err != nil {
			return err
		}
		_, tokens, err := disasm.Text(&info)
		if err != nil {
			return err
		}
		rec.Text = append(rec.Text, il.TokensString(tokens))

		annot, err := flow.Annotate(&info)
		if err != nil {
			return err
		}
		for _, b := range annot.Branches {
			rec.Branches = append(rec.Branches, store.NewBranchRecord(b))
		}
	}
	return analysis.PutPacket(rec)
}

// Package packetdb maintains an address-to-packet database. Any byte address
// inside a previously decoded packet resolves to the covering packet and the
// instruction at that address. Access is thread safe.
package packetdb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/sarchlab/hexlift/insts"
)

var (
	// ErrInsufficientData means AddBytes received fewer than four bytes, a
	// length that is not a multiple of four, or data from which not a
	// single packet could be decoded.
	ErrInsufficientData = errors.New("insufficient bytes in data")

	// ErrNotFound means no decoded packet covers the address.
	ErrNotFound = errors.New("packet not found")
)

// AddressInfo is the value stored per packet interval.
type AddressInfo struct {
	StartAddr uint64
	Pkt       insts.Packet
}

// InsnInfo is the result of a lookup: the covering packet, the index of the
// instruction at the queried address, and that instruction's address.
type InsnInfo struct {
	PC       uint64
	Pkt      insts.Packet
	InsnNum  int
	InsnAddr uint64
}

// DB maps byte addresses to decoded packets.
type DB struct {
	decoder *insts.Decoder

	mu sync.Mutex
	m  intervalMap[AddressInfo]
}

// New creates an empty packet database.
func New() *DB {
	return &DB{decoder: insts.NewDecoder()}
}

// AddBytes decodes packets from data, anchored at addr, and stores each over
// its byte interval, replacing prior overlapping packets. Decoding stops at
// the first failure; the call succeeds if at least one packet was added.
func (db *DB) AddBytes(data []byte, addr uint64) error {
	if len(data) < 4 || len(data)%4 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrInsufficientData, len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	packetsAdded := 0
	for len(words) > 0 {
		pkt, err := db.decoder.DecodePacket(words)
		if err != nil {
			break
		}
		db.m.setInterval(addr, addr+uint64(pkt.EncodedBytes),
			AddressInfo{StartAddr: addr, Pkt: pkt})
		addr += uint64(pkt.EncodedBytes)
		words = words[pkt.EncodedBytes/4:]
		packetsAdded++
	}
	if packetsAdded == 0 {
		return fmt.Errorf("%w: no packet decoded", ErrInsufficientData)
	}
	return nil
}

// Lookup resolves a byte address to the instruction containing it.
func (db *DB) Lookup(addr uint64) (InsnInfo, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	info, ok := db.m.find(addr)
	if !ok || info.Pkt.EncodedBytes == 0 {
		return InsnInfo{}, fmt.Errorf("%w: %#x", ErrNotFound, addr)
	}
	return findInstructionInPacket(info, addr), nil
}

// findInstructionInPacket walks the packet's instructions, advancing by two
// bytes per duplex sub-instruction and four otherwise, until the span
// containing addr is reached.
func findInstructionInPacket(info AddressInfo, addr uint64) InsnInfo {
	result := InsnInfo{
		PC:       info.StartAddr,
		Pkt:      info.Pkt,
		InsnNum:  0,
		InsnAddr: info.StartAddr,
	}
	for ; result.InsnNum < result.Pkt.NumInsns(); result.InsnNum++ {
		insn := &result.Pkt.Insns[result.InsnNum]
		insnSize := uint64(4)
		if insn.IsSubInsn() {
			insnSize = 2
		}
		if result.InsnAddr <= addr && addr < result.InsnAddr+insnSize {
			break
		}
		result.InsnAddr += insnSize
	}
	return result
}

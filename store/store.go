package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/logging"
)

// BranchRecord is one persisted branch edge.
type BranchRecord struct {
	Kind      string `json:"kind"`
	Target    uint64 `json:"target,omitempty"`
	HasTarget bool   `json:"has_target,omitempty"`
}

// PacketRecord is the persisted analysis of one packet: its address span,
// the rendered disassembly (one line per instruction address), and the
// branch edges leaving the packet.
type PacketRecord struct {
	Addr     uint64         `json:"addr"`
	Size     int            `json:"size"`
	Text     []string       `json:"text"`
	Branches []BranchRecord `json:"branches,omitempty"`
}

// NewBranchRecord converts a host branch edge.
func NewBranchRecord(b il.Branch) BranchRecord {
	return BranchRecord{
		Kind:      b.Type.String(),
		Target:    b.Target,
		HasTarget: b.HasTarget,
	}
}

// AnalysisStore persists packet records keyed by address.
type AnalysisStore struct {
	kv KVStore
}

// Open opens (or creates) an analysis store at path.
func Open(path string) (*AnalysisStore, error) {
	kv, err := OpenKV(path)
	if err != nil {
		return nil, fmt.Errorf("opening analysis store: %w", err)
	}
	return &AnalysisStore{kv: kv}, nil
}

// NewWithKV wraps an existing KVStore.
func NewWithKV(kv KVStore) *AnalysisStore {
	return &AnalysisStore{kv: kv}
}

var keyPrefix = []byte("pkt/")

// packetKey is the prefix plus the big-endian address, so iteration order is
// address order.
func packetKey(addr uint64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], addr)
	return key
}

// PutPacket stores (or replaces) a packet record.
func (s *AnalysisStore) PutPacket(rec *PacketRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding packet record: %w", err)
	}
	if err := s.kv.Put(packetKey(rec.Addr), value); err != nil {
		return fmt.Errorf("storing packet %#x: %w", rec.Addr, err)
	}
	logging.Store.Debug().Uint64("addr", rec.Addr).Int("size", rec.Size).
		Msg("stored packet record")
	return nil
}

// GetPacket fetches the record of the packet starting at addr.
func (s *AnalysisStore) GetPacket(addr uint64) (*PacketRecord, error) {
	value, err := s.kv.Get(packetKey(addr))
	if err != nil {
		return nil, err
	}
	var rec PacketRecord
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("decoding packet record %#x: %w", addr, err)
	}
	return &rec, nil
}

// Each visits every packet record in address order.
func (s *AnalysisStore) Each(fn func(*PacketRecord) error) error {
	end := append([]byte{}, keyPrefix...)
	end = append(end, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
	iter, err := s.kv.NewIterator(keyPrefix, end)
	if err != nil {
		return err
	}
	defer iter.Close()
	for iter.Next() {
		var rec PacketRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return fmt.Errorf("decoding packet record: %w", err)
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying store.
func (s *AnalysisStore) Close() error {
	return s.kv.Close()
}

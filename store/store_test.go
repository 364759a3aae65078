package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/hexlift/il"
	"github.com/sarchlab/hexlift/store"
)

func openStore(t *testing.T) *store.AnalysisStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "analysis"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestPutGetPacket(t *testing.T) {
	s := openStore(t)

	rec := &store.PacketRecord{
		Addr: 0x1000,
		Size: 8,
		Text: []string{"{ immext(#0xdeadb000)  ", "  R3 = ##0xdeadb00b; R1 = #0x1 }"},
		Branches: []store.BranchRecord{
			store.NewBranchRecord(il.Branch{
				Type: il.CallDestination, Target: 0x28, HasTarget: true,
			}),
		},
	}
	require.NoError(t, s.PutPacket(rec))

	got, err := s.GetPacket(0x1000)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestGetMissingPacket(t *testing.T) {
	s := openStore(t)

	_, err := s.GetPacket(0x2000)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPutReplacesPacket(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.PutPacket(&store.PacketRecord{
		Addr: 0x1000, Size: 4, Text: []string{"{ nop }"},
	}))
	require.NoError(t, s.PutPacket(&store.PacketRecord{
		Addr: 0x1000, Size: 4, Text: []string{"{ rte }"},
	}))

	got, err := s.GetPacket(0x1000)
	require.NoError(t, err)
	assert.Equal(t, []string{"{ rte }"}, got.Text)
}

func TestEachVisitsInAddressOrder(t *testing.T) {
	s := openStore(t)

	addrs := []uint64{0x3000, 0x1000, 0x2000}
	for _, addr := range addrs {
		require.NoError(t, s.PutPacket(&store.PacketRecord{Addr: addr, Size: 4}))
	}

	var visited []uint64
	require.NoError(t, s.Each(func(rec *store.PacketRecord) error {
		visited = append(visited, rec.Addr)
		return nil
	}))
	assert.Equal(t, []uint64{0x1000, 0x2000, 0x3000}, visited)
}

func TestReopenKeepsRecords(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "analysis")

	s, err := store.Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.PutPacket(&store.PacketRecord{
		Addr: 0x1000, Size: 4, Text: []string{"{ nop }"},
	}))
	require.NoError(t, s.Close())

	s, err = store.Open(dir)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	got, err := s.GetPacket(0x1000)
	require.NoError(t, err)
	assert.Equal(t, []string{"{ nop }"}, got.Text)
}

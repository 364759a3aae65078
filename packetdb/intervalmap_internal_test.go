package packetdb

import "testing"

func TestIntervalMapReplacesOverlap(t *testing.T) {
	var m intervalMap[int]

	m.setInterval(0x10, 0x20, 1)
	m.setInterval(0x20, 0x28, 2)
	// Overwrite the middle, clipping both neighbors.
	m.setInterval(0x18, 0x24, 3)

	tests := []struct {
		addr uint64
		want int
		ok   bool
	}{
		{0x0f, 0, false},
		{0x10, 1, true},
		{0x17, 1, true},
		{0x18, 3, true},
		{0x23, 3, true},
		{0x24, 2, true},
		{0x27, 2, true},
		{0x28, 0, false},
	}
	for _, tt := range tests {
		got, ok := m.find(tt.addr)
		if ok != tt.ok || got != tt.want {
			t.Errorf("find(%#x) = (%d, %v), want (%d, %v)",
				tt.addr, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIntervalMapFullReplace(t *testing.T) {
	var m intervalMap[int]

	m.setInterval(0x10, 0x20, 1)
	m.setInterval(0x08, 0x30, 2)

	for _, addr := range []uint64{0x08, 0x10, 0x1f, 0x2f} {
		got, ok := m.find(addr)
		if !ok || got != 2 {
			t.Errorf("find(%#x) = (%d, %v), want (2, true)", addr, got, ok)
		}
	}
}

func TestIntervalMapIgnoresEmptyInterval(t *testing.T) {
	var m intervalMap[int]

	m.setInterval(0x10, 0x10, 1)

	if _, ok := m.find(0x10); ok {
		t.Error("empty interval should not be stored")
	}
}

package regs_test

import (
	"testing"

	"github.com/sarchlab/hexlift/regs"
)

func TestGeneralNames(t *testing.T) {
	tests := []struct {
		reg  uint32
		want string
	}{
		{regs.R00, "R0"},
		{regs.R28, "R28"},
		{regs.SP, "SP"},
		{regs.FP, "FP"},
		{regs.LR, "LR"},
	}
	for _, tt := range tests {
		if got := regs.GeneralName(tt.reg); got != tt.want {
			t.Errorf("GeneralName(%d) = %q, want %q", tt.reg, got, tt.want)
		}
	}
}

func TestControlNames(t *testing.T) {
	tests := []struct {
		reg  uint32
		want string
	}{
		{regs.SA0, "SA0"},
		{regs.LC0, "LC0"},
		{regs.P3_0, "P3:0"},
		{regs.USR, "USR"},
		{regs.GP, "GP"},
		{regs.C14, "C14"},
	}
	for _, tt := range tests {
		if got := regs.ControlName(tt.reg); got != tt.want {
			t.Errorf("ControlName(%d) = %q, want %q", tt.reg, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		regType string
		hiLow   string
		regno   int
		want    string
	}{
		{"R", "", 3, "R3"},
		{"R", "H", 4, "R4.H"},
		{"R", "L", 4, "R4.L"},
		{"N", "", 2, "R2"},
		{"C", "", 1, "LC0"},
		{"P", "", 0, "P0"},
		{"S", "", 0, "SGP0"},
		{"S", "", 6, "SSR"},
		{"S", "", 59, "S59"},
	}
	for _, tt := range tests {
		if got := regs.Name(tt.regType, tt.hiLow, tt.regno); got != tt.want {
			t.Errorf("Name(%q, %q, %d) = %q, want %q",
				tt.regType, tt.hiLow, tt.regno, got, tt.want)
		}
	}
}

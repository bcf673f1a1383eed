package core

import (
	"testing"

	"github.com/bassosimone/ooop32/pkg/asm"
)

func TestALUCompute(t *testing.T) {
	tests := []struct {
		op         ALUOp
		src1, src2 uint32
		want       uint32
	}{
		{ALUAdd, 5, 7, 12},
		{ALUAdd, 0xFFFF_FFFF, 1, 0},
		{ALUSub, 5, 7, 0xFFFF_FFFE},
		{ALUAnd, 0xF0F0, 0xFF00, 0xF000},
		{ALUOr, 0xF0F0, 0x0F0F, 0xFFFF},
		{ALUXor, 0xFF, 0x0F, 0xF0},
		{ALUSlt, 0xFFFF_FFFF, 0, 1}, // -1 < 0 signed
		{ALUSlt, 0, 0xFFFF_FFFF, 0},
		{ALUSltu, 0xFFFF_FFFF, 0, 0}, // max unsigned not < 0
		{ALUSltu, 0, 1, 1},
		{ALUSltiu, 0, 1, 1},
		{ALUSll, 1, 5, 32},
		{ALUSll, 1, 37, 32}, // shift amount masked to 5 bits
		{ALUSrl, 0x8000_0000, 31, 1},
		{ALUSra, 0x8000_0000, 31, 0xFFFF_FFFF},
		{ALUSra, 0x4000_0000, 30, 1},
		{ALULui, 0, 0xABCDE000, 0xABCDE000},
	}
	for _, tc := range tests {
		if got := aluCompute(tc.op, tc.src1, tc.src2); got != tc.want {
			t.Errorf("op %d (%#x, %#x): got %#x, want %#x",
				tc.op, tc.src1, tc.src2, got, tc.want)
		}
	}
}

func TestALUImmediateSelection(t *testing.T) {
	var prf PRF
	prf.Reset()
	prf.Write(40, 100)
	prf.Write(41, 999)
	e := RenamePkt{
		DecodePkt: DecodePkt{Op: ALUAdd, ImmUsed: true, Imm: 5, RDUsed: true},
		PRS1:      40, PRS2: 41, PRD: 42, ROBTag: 3,
	}
	wb := execALU(&e, &prf)
	if !wb.Valid || wb.Data != 105 || wb.PRD != 42 || wb.ROBTag != 3 || !wb.RDUsed {
		t.Fatalf("imm add: %+v", wb)
	}
	e.ImmUsed = false
	if wb := execALU(&e, &prf); wb.Data != 1099 {
		t.Fatalf("reg add: %+v", wb)
	}
}

func TestBranchTaken(t *testing.T) {
	tests := []struct {
		instr      uint32
		src1, src2 uint32
		want       bool
	}{
		{asm.BEQ(1, 2, 0), 5, 5, true},
		{asm.BEQ(1, 2, 0), 5, 6, false},
		{asm.BNE(1, 2, 0), 5, 6, true},
		{asm.BLT(1, 2, 0), 0xFFFF_FFFF, 0, true}, // -1 < 0
		{asm.BLT(1, 2, 0), 0, 0xFFFF_FFFF, false},
		{asm.BGE(1, 2, 0), 0, 0xFFFF_FFFF, true},
		{asm.BGE(1, 2, 0), 3, 3, true},
		{asm.BLTU(1, 2, 0), 0, 0xFFFF_FFFF, true},
		{asm.BGEU(1, 2, 0), 0xFFFF_FFFF, 0, true},
	}
	for _, tc := range tests {
		if got := branchTaken(tc.instr, tc.src1, tc.src2); got != tc.want {
			t.Errorf("%s (%#x, %#x): got %v", Disassemble(tc.instr), tc.src1, tc.src2, got)
		}
	}
}

func TestBRUBranchOutcomes(t *testing.T) {
	var prf PRF
	prf.Reset()
	prf.Write(40, 1)
	pkt := Decode(true, 0x100, asm.BNE(5, 0, 0x20))
	e := RenamePkt{DecodePkt: pkt, PRS1: 40, PRS2: 0, ROBTag: 2}
	wb, mis, next := execBRU(&e, &prf)
	if !wb.Valid || wb.RDUsed {
		t.Fatalf("branch writeback: %+v", wb)
	}
	if !mis || next != 0x120 {
		t.Fatalf("taken branch: mis=%v next=%#x", mis, next)
	}
	// not taken: x5 == x0
	prf.Write(40, 0)
	_, mis, next = execBRU(&e, &prf)
	if mis || next != 0x104 {
		t.Fatalf("untaken branch: mis=%v next=%#x", mis, next)
	}
}

func TestBRUJumps(t *testing.T) {
	var prf PRF
	prf.Reset()
	pkt := Decode(true, 0x40, asm.JAL(1, 0x100))
	e := RenamePkt{DecodePkt: pkt, PRD: 50, ROBTag: 1}
	wb, mis, next := execBRU(&e, &prf)
	if !mis || next != 0x140 {
		t.Fatalf("jal: mis=%v next=%#x", mis, next)
	}
	if wb.Data != 0x44 || !wb.RDUsed {
		t.Fatalf("jal link: %+v", wb)
	}
	// jal to the fall-through address predicts correctly
	pkt = Decode(true, 0x40, asm.JAL(0, 4))
	e = RenamePkt{DecodePkt: pkt, ROBTag: 1}
	if _, mis, _ := execBRU(&e, &prf); mis {
		t.Fatal("sequential jal mispredicted")
	}
	// jalr clears the target's low bit
	prf.Write(40, 0x203)
	pkt = Decode(true, 0x40, asm.JALR(1, 5, 0))
	e = RenamePkt{DecodePkt: pkt, PRS1: 40, PRD: 50, ROBTag: 1}
	_, mis, next = execBRU(&e, &prf)
	if !mis || next != 0x202 {
		t.Fatalf("jalr: mis=%v next=%#x", mis, next)
	}
}

func TestLSULoadsAndStores(t *testing.T) {
	var prf PRF
	prf.Reset()
	dmem := NewDMem()
	prf.Write(40, 0x100) // base
	prf.Write(41, 0xDEAD_BEEF)

	store := RenamePkt{
		DecodePkt: DecodePkt{IsStore: true, Size: SizeWord, Imm: 4, ImmUsed: true},
		PRS1:      40, PRS2: 41, ROBTag: 0,
	}
	wb := execLSU(&store, &prf, dmem)
	if !wb.Valid || wb.RDUsed {
		t.Fatalf("store writeback: %+v", wb)
	}
	if got := dmem.Load(0x104, SizeWord, false); got != 0xDEAD_BEEF {
		t.Fatalf("stored word: %#x", got)
	}

	load := RenamePkt{
		DecodePkt: DecodePkt{IsLoad: true, Size: SizeWord, Imm: 4, ImmUsed: true, RDUsed: true},
		PRS1:      40, PRD: 50, ROBTag: 1,
	}
	wb = execLSU(&load, &prf, dmem)
	if wb.Data != 0xDEAD_BEEF || !wb.RDUsed || wb.PRD != 50 {
		t.Fatalf("load writeback: %+v", wb)
	}
}

func TestDMemSizesAndExtension(t *testing.T) {
	d := NewDMem()
	d.Store(0x10, SizeWord, 0x8765_4321)
	if got := d.Load(0x10, SizeByte, false); got != 0x21 {
		t.Errorf("lb: %#x", got)
	}
	if got := d.Load(0x13, SizeByte, false); got != 0xFFFF_FF87 {
		t.Errorf("lb sign: %#x", got)
	}
	if got := d.Load(0x13, SizeByte, true); got != 0x87 {
		t.Errorf("lbu: %#x", got)
	}
	if got := d.Load(0x12, SizeHalf, false); got != 0xFFFF_8765 {
		t.Errorf("lh sign: %#x", got)
	}
	if got := d.Load(0x12, SizeHalf, true); got != 0x8765 {
		t.Errorf("lhu: %#x", got)
	}
	d.Store(0x14, SizeByte, 0xAB)
	d.Store(0x16, SizeHalf, 0xCDEF)
	if got := d.Load(0x14, SizeWord, false); got != 0xCDEF_00AB {
		t.Errorf("lane masking: %#x", got)
	}
}

func TestPRFZeroRegister(t *testing.T) {
	var prf PRF
	prf.Reset()
	prf.Write(0, 123)
	if prf.Read(0) != 0 || !prf.Ready(0) {
		t.Fatal("p0 not pinned to zero")
	}
	prf.ClearReady(0)
	if !prf.Ready(0) {
		t.Fatal("p0 ready bit cleared")
	}
	prf.ClearReady(5)
	if prf.Ready(5) {
		t.Fatal("p5 still ready")
	}
	prf.Write(5, 9)
	if !prf.Ready(5) || prf.Read(5) != 9 {
		t.Fatal("write did not set ready")
	}
}

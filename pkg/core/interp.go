package core

// Interp is an in-order architectural interpreter for the same
// instruction subset the pipeline executes. It has no notion of
// cycles: one Step is one retired instruction. The equivalence tests
// use it as the oracle the out-of-order core's final register state
// must agree with.
type Interp struct {
	Reg [NumArchRegs]uint32
	PC  uint32

	imem *IMem
	dmem *DMem
}

// NewInterp creates an interpreter fetching from the given instruction
// memory, with zeroed registers and data memory.
func NewInterp(imem *IMem) *Interp {
	return &Interp{imem: imem, dmem: NewDMem()}
}

// DMem returns the interpreter's data memory.
func (it *Interp) DMem() *DMem { return it.dmem }

// Step executes one instruction. It returns false once the program
// reaches an instruction that jumps to itself, the idiomatic idle loop
// that test programs end with; unrecognized instructions are skipped,
// matching the pipeline's decoder.
func (it *Interp) Step() bool {
	// architectural register 0 reads as zero no matter what the
	// executed instruction wrote
	defer func() {
		it.Reg[0] = 0
	}()
	instr := it.imem.Word(int(it.PC >> 2))
	pkt := Decode(true, it.PC, instr)
	if !pkt.Valid {
		it.PC += 4
		return true
	}
	next := it.PC + 4
	switch pkt.FU {
	case FUALU:
		src2 := it.Reg[pkt.RS2]
		if pkt.ImmUsed {
			src2 = pkt.Imm
		}
		it.Reg[pkt.RD] = aluCompute(pkt.Op, it.Reg[pkt.RS1], src2)
	case FUBRU:
		switch {
		case pkt.IsJump && pkt.RS1Used: // jalr
			target := (it.Reg[pkt.RS1] + pkt.Imm) &^ 1
			it.Reg[pkt.RD] = it.PC + 4
			next = target
		case pkt.IsJump: // jal
			it.Reg[pkt.RD] = it.PC + 4
			next = it.PC + pkt.Imm
		default:
			if branchTaken(instr, it.Reg[pkt.RS1], it.Reg[pkt.RS2]) {
				next = it.PC + pkt.Imm
			}
		}
	default: // LSU
		addr := it.Reg[pkt.RS1] + pkt.Imm
		if pkt.IsLoad {
			it.Reg[pkt.RD] = it.dmem.Load(addr, pkt.Size, pkt.UnsignedLoad)
		} else {
			it.dmem.Store(addr, pkt.Size, it.Reg[pkt.RS2])
		}
	}
	halted := next == it.PC
	it.PC = next
	return !halted
}

// Run executes up to maxSteps instructions, stopping early at an idle
// loop. It returns the number of instructions executed.
func (it *Interp) Run(maxSteps int) int {
	for n := 0; n < maxSteps; n++ {
		if !it.Step() {
			return n + 1
		}
	}
	return maxSteps
}

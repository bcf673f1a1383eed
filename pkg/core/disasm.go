package core

import "fmt"

var opImmNames = [8]string{
	"addi", "slli", "slti", "sltiu", "xori", "srli", "ori", "andi",
}

var opNames = [8]string{
	"add", "sll", "slt", "sltu", "xor", "srl", "or", "and",
}

var loadNames = map[uint32]string{
	0b000: "lb", 0b001: "lh", 0b010: "lw", 0b100: "lbu", 0b101: "lhu",
}

var storeNames = map[uint32]string{0b000: "sb", 0b001: "sh", 0b010: "sw"}

var branchNames = map[uint32]string{
	0b000: "beq", 0b001: "bne", 0b100: "blt",
	0b101: "bge", 0b110: "bltu", 0b111: "bgeu",
}

// Disassemble disassembles a single instruction and returns assembly
// code implementing it, for tracing and diagnostics.
func Disassemble(instr uint32) string {
	rd, rs1, rs2 := rdField(instr), rs1Field(instr), rs2Field(instr)
	f3 := funct3(instr)
	switch opcode(instr) {
	case opcLUI:
		return fmt.Sprintf("lui x%d, 0x%x", rd, instr>>12)
	case opcJAL:
		return fmt.Sprintf("jal x%d, %d", rd, int32(immJ(instr)))
	case opcJALR:
		return fmt.Sprintf("jalr x%d, x%d, %d", rd, rs1, int32(immI(instr)))
	case opcOpImm:
		name := opImmNames[f3]
		if f3 == 0b101 && funct7(instr) == 0b010_0000 {
			name = "srai"
		}
		if f3 == 0b001 || f3 == 0b101 {
			return fmt.Sprintf("%s x%d, x%d, %d", name, rd, rs1, immI(instr)&31)
		}
		return fmt.Sprintf("%s x%d, x%d, %d", name, rd, rs1, int32(immI(instr)))
	case opcOp:
		name := opNames[f3]
		if funct7(instr) == 0b010_0000 {
			if f3 == 0b000 {
				name = "sub"
			} else if f3 == 0b101 {
				name = "sra"
			}
		}
		return fmt.Sprintf("%s x%d, x%d, x%d", name, rd, rs1, rs2)
	case opcLoad:
		if name, ok := loadNames[f3]; ok {
			return fmt.Sprintf("%s x%d, %d(x%d)", name, rd, int32(immI(instr)), rs1)
		}
	case opcStore:
		if name, ok := storeNames[f3]; ok {
			return fmt.Sprintf("%s x%d, %d(x%d)", name, rs2, int32(immS(instr)), rs1)
		}
	case opcBranch:
		if name, ok := branchNames[f3]; ok {
			return fmt.Sprintf("%s x%d, x%d, %d", name, rs1, rs2, int32(immB(instr)))
		}
	}
	return fmt.Sprintf("<unknown instruction: 0x%08x>", instr)
}

package asm

// The major opcodes of the integer subset.
const (
	opcLUI    = 0b011_0111
	opcJAL    = 0b110_1111
	opcJALR   = 0b110_0111
	opcOpImm  = 0b001_0011
	opcOp     = 0b011_0011
	opcLoad   = 0b000_0011
	opcStore  = 0b010_0011
	opcBranch = 0b110_0011
)

// The instruction format encoders. Immediates are passed as signed
// values and truncated to the field width; range checking happens in
// the assembler front end where a line number is available.

func encodeR(f7, f3 uint32, rd, rs1, rs2 uint8) uint32 {
	return f7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | f3<<12 |
		uint32(rd)<<7 | opcOp
}

func encodeI(opc, f3 uint32, rd, rs1 uint8, imm int32) uint32 {
	return uint32(imm)<<20 | uint32(rs1)<<15 | f3<<12 | uint32(rd)<<7 | opc
}

func encodeS(f3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5&0b111_1111)<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 |
		f3<<12 | (u&0b1_1111)<<7 | opcStore
}

func encodeB(f3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>12&1)<<31 | (u>>5&0b11_1111)<<25 | uint32(rs2)<<20 |
		uint32(rs1)<<15 | f3<<12 | (u>>1&0b1111)<<8 | (u>>11&1)<<7 |
		opcBranch
}

func encodeU(opc uint32, rd uint8, imm20 uint32) uint32 {
	return imm20<<12 | uint32(rd)<<7 | opc
}

func encodeJ(rd uint8, imm int32) uint32 {
	u := uint32(imm)
	return (u>>20&1)<<31 | (u>>1&0b11_1111_1111)<<21 | (u>>11&1)<<20 |
		(u>>12&0b1111_1111)<<12 | uint32(rd)<<7 | opcJAL
}

// Register-register operations.

// ADD encodes add rd, rs1, rs2.
func ADD(rd, rs1, rs2 uint8) uint32 { return encodeR(0, 0b000, rd, rs1, rs2) }

// SUB encodes sub rd, rs1, rs2.
func SUB(rd, rs1, rs2 uint8) uint32 {
	return encodeR(0b010_0000, 0b000, rd, rs1, rs2)
}

// SLL encodes sll rd, rs1, rs2.
func SLL(rd, rs1, rs2 uint8) uint32 { return encodeR(0, 0b001, rd, rs1, rs2) }

// SLT encodes slt rd, rs1, rs2.
func SLT(rd, rs1, rs2 uint8) uint32 { return encodeR(0, 0b010, rd, rs1, rs2) }

// SLTU encodes sltu rd, rs1, rs2.
func SLTU(rd, rs1, rs2 uint8) uint32 { return encodeR(0, 0b011, rd, rs1, rs2) }

// XOR encodes xor rd, rs1, rs2.
func XOR(rd, rs1, rs2 uint8) uint32 { return encodeR(0, 0b100, rd, rs1, rs2) }

// SRL encodes srl rd, rs1, rs2.
func SRL(rd, rs1, rs2 uint8) uint32 { return encodeR(0, 0b101, rd, rs1, rs2) }

// SRA encodes sra rd, rs1, rs2.
func SRA(rd, rs1, rs2 uint8) uint32 {
	return encodeR(0b010_0000, 0b101, rd, rs1, rs2)
}

// OR encodes or rd, rs1, rs2.
func OR(rd, rs1, rs2 uint8) uint32 { return encodeR(0, 0b110, rd, rs1, rs2) }

// AND encodes and rd, rs1, rs2.
func AND(rd, rs1, rs2 uint8) uint32 { return encodeR(0, 0b111, rd, rs1, rs2) }

// Register-immediate operations.

// ADDI encodes addi rd, rs1, imm.
func ADDI(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(opcOpImm, 0b000, rd, rs1, imm)
}

// SLTI encodes slti rd, rs1, imm.
func SLTI(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(opcOpImm, 0b010, rd, rs1, imm)
}

// SLTIU encodes sltiu rd, rs1, imm.
func SLTIU(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(opcOpImm, 0b011, rd, rs1, imm)
}

// XORI encodes xori rd, rs1, imm.
func XORI(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(opcOpImm, 0b100, rd, rs1, imm)
}

// ORI encodes ori rd, rs1, imm.
func ORI(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(opcOpImm, 0b110, rd, rs1, imm)
}

// ANDI encodes andi rd, rs1, imm.
func ANDI(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(opcOpImm, 0b111, rd, rs1, imm)
}

// SLLI encodes slli rd, rs1, shamt.
func SLLI(rd, rs1, shamt uint8) uint32 {
	return encodeI(opcOpImm, 0b001, rd, rs1, int32(shamt&31))
}

// SRLI encodes srli rd, rs1, shamt.
func SRLI(rd, rs1, shamt uint8) uint32 {
	return encodeI(opcOpImm, 0b101, rd, rs1, int32(shamt&31))
}

// SRAI encodes srai rd, rs1, shamt.
func SRAI(rd, rs1, shamt uint8) uint32 {
	return encodeI(opcOpImm, 0b101, rd, rs1, int32(shamt&31)|0b0100_0000_0000)
}

// LUI encodes lui rd, imm20 (the upper twenty bits).
func LUI(rd uint8, imm20 uint32) uint32 {
	return encodeU(opcLUI, rd, imm20&0xF_FFFF)
}

// Jumps. Offsets are in bytes relative to the instruction.

// JAL encodes jal rd, offset.
func JAL(rd uint8, offset int32) uint32 { return encodeJ(rd, offset) }

// JALR encodes jalr rd, rs1, imm.
func JALR(rd, rs1 uint8, imm int32) uint32 {
	return encodeI(opcJALR, 0b000, rd, rs1, imm)
}

// Loads: rd, offset(rs1).

// LB encodes lb rd, offset(rs1).
func LB(rd, rs1 uint8, offset int32) uint32 {
	return encodeI(opcLoad, 0b000, rd, rs1, offset)
}

// LH encodes lh rd, offset(rs1).
func LH(rd, rs1 uint8, offset int32) uint32 {
	return encodeI(opcLoad, 0b001, rd, rs1, offset)
}

// LW encodes lw rd, offset(rs1).
func LW(rd, rs1 uint8, offset int32) uint32 {
	return encodeI(opcLoad, 0b010, rd, rs1, offset)
}

// LBU encodes lbu rd, offset(rs1).
func LBU(rd, rs1 uint8, offset int32) uint32 {
	return encodeI(opcLoad, 0b100, rd, rs1, offset)
}

// LHU encodes lhu rd, offset(rs1).
func LHU(rd, rs1 uint8, offset int32) uint32 {
	return encodeI(opcLoad, 0b101, rd, rs1, offset)
}

// Stores: rs2, offset(rs1).

// SB encodes sb rs2, offset(rs1).
func SB(rs2, rs1 uint8, offset int32) uint32 {
	return encodeS(0b000, rs1, rs2, offset)
}

// SH encodes sh rs2, offset(rs1).
func SH(rs2, rs1 uint8, offset int32) uint32 {
	return encodeS(0b001, rs1, rs2, offset)
}

// SW encodes sw rs2, offset(rs1).
func SW(rs2, rs1 uint8, offset int32) uint32 {
	return encodeS(0b010, rs1, rs2, offset)
}

// Branches: rs1, rs2, offset in bytes relative to the instruction.

// BEQ encodes beq rs1, rs2, offset.
func BEQ(rs1, rs2 uint8, offset int32) uint32 {
	return encodeB(0b000, rs1, rs2, offset)
}

// BNE encodes bne rs1, rs2, offset.
func BNE(rs1, rs2 uint8, offset int32) uint32 {
	return encodeB(0b001, rs1, rs2, offset)
}

// BLT encodes blt rs1, rs2, offset.
func BLT(rs1, rs2 uint8, offset int32) uint32 {
	return encodeB(0b100, rs1, rs2, offset)
}

// BGE encodes bge rs1, rs2, offset.
func BGE(rs1, rs2 uint8, offset int32) uint32 {
	return encodeB(0b101, rs1, rs2, offset)
}

// BLTU encodes bltu rs1, rs2, offset.
func BLTU(rs1, rs2 uint8, offset int32) uint32 {
	return encodeB(0b110, rs1, rs2, offset)
}

// BGEU encodes bgeu rs1, rs2, offset.
func BGEU(rs1, rs2 uint8, offset int32) uint32 {
	return encodeB(0b111, rs1, rs2, offset)
}

// NOP encodes the canonical no-operation, addi x0, x0, 0.
func NOP() uint32 { return ADDI(0, 0, 0) }

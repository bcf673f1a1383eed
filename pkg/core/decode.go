package core

// The major opcodes of the supported integer subset.
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

// SignExtend extends the sign of a value occupying the low bits bits.
func SignExtend(v uint32, bits uint) uint32 {
	sign := uint32(1) << (bits - 1)
	if v&sign != 0 {
		return v | ^(sign<<1 - 1)
	}
	return v & (sign<<1 - 1)
}

func opcode(instr uint32) uint32 { return instr & 0b111_1111 }
func funct3(instr uint32) uint32 { return (instr >> 12) & 0b111 }
func funct7(instr uint32) uint32 { return (instr >> 25) & 0b111_1111 }
func rdField(instr uint32) uint8 { return uint8((instr >> 7) & 0b1_1111) }
func rs1Field(instr uint32) uint8 {
	return uint8((instr >> 15) & 0b1_1111)
}
func rs2Field(instr uint32) uint8 {
	return uint8((instr >> 20) & 0b1_1111)
}

// The five immediate encodings, each sign-extended.
func immI(instr uint32) uint32 { return SignExtend(instr>>20, 12) }

func immS(instr uint32) uint32 {
	return SignExtend((instr>>25)<<5|(instr>>7)&0b1_1111, 12)
}

func immB(instr uint32) uint32 {
	return SignExtend(
		(instr>>31)<<12|
			((instr>>7)&1)<<11|
			((instr>>25)&0b11_1111)<<5|
			((instr>>8)&0b1111)<<1, 13)
}

func immU(instr uint32) uint32 { return instr & 0xFFFF_F000 }

func immJ(instr uint32) uint32 {
	return SignExtend(
		(instr>>31)<<20|
			((instr>>12)&0b1111_1111)<<12|
			((instr>>20)&1)<<11|
			((instr>>21)&0b11_1111_1111)<<1, 21)
}

// Decode expands a fetched instruction into a decode packet. An
// unrecognized opcode, or an undefined funct3/funct7 combination inside
// a recognized opcode, yields Valid=false: the instruction occupies no
// backend resources and fetch simply advances past it.
func Decode(validIn bool, pc, instr uint32) DecodePkt {
	var pkt DecodePkt
	if !validIn {
		return pkt
	}
	pkt.Valid = true
	pkt.PC = pc
	pkt.Instr = instr
	pkt.RD = rdField(instr)
	pkt.RS1 = rs1Field(instr)
	pkt.RS2 = rs2Field(instr)

	f3 := funct3(instr)
	f7 := funct7(instr)

	switch opcode(instr) {
	case opcLUI:
		pkt.FU = FUALU
		pkt.Op = ALULui
		pkt.RDUsed = pkt.RD != 0
		pkt.Imm = immU(instr)
		pkt.ImmUsed = true
	case opcJAL:
		pkt.FU = FUBRU
		pkt.IsJump = true
		pkt.RDUsed = pkt.RD != 0
		pkt.Imm = immJ(instr)
		pkt.ImmUsed = true
	case opcJALR:
		if f3 != 0 {
			return DecodePkt{}
		}
		pkt.FU = FUBRU
		pkt.IsJump = true
		pkt.RS1Used = true
		pkt.RDUsed = pkt.RD != 0
		pkt.Imm = immI(instr)
		pkt.ImmUsed = true
	case opcOpImm:
		pkt.FU = FUALU
		pkt.RS1Used = true
		pkt.RDUsed = pkt.RD != 0
		pkt.Imm = immI(instr)
		pkt.ImmUsed = true
		switch f3 {
		case 0b000:
			pkt.Op = ALUAdd
		case 0b001:
			if f7 != 0 {
				return DecodePkt{}
			}
			pkt.Op = ALUSll
		case 0b010:
			pkt.Op = ALUSlt
		case 0b011:
			pkt.Op = ALUSltiu
		case 0b100:
			pkt.Op = ALUXor
		case 0b101:
			switch f7 {
			case 0b000_0000:
				pkt.Op = ALUSrl
			case 0b010_0000:
				pkt.Op = ALUSra
				pkt.Imm &= 0b1_1111 // shamt, not the funct7 bit
			default:
				return DecodePkt{}
			}
		case 0b110:
			pkt.Op = ALUOr
		case 0b111:
			pkt.Op = ALUAnd
		}
	case opcOp:
		pkt.FU = FUALU
		pkt.RS1Used = true
		pkt.RS2Used = true
		pkt.RDUsed = pkt.RD != 0
		switch {
		case f3 == 0b000 && f7 == 0:
			pkt.Op = ALUAdd
		case f3 == 0b000 && f7 == 0b010_0000:
			pkt.Op = ALUSub
		case f3 == 0b001 && f7 == 0:
			pkt.Op = ALUSll
		case f3 == 0b010 && f7 == 0:
			pkt.Op = ALUSlt
		case f3 == 0b011 && f7 == 0:
			pkt.Op = ALUSltu
		case f3 == 0b100 && f7 == 0:
			pkt.Op = ALUXor
		case f3 == 0b101 && f7 == 0:
			pkt.Op = ALUSrl
		case f3 == 0b101 && f7 == 0b010_0000:
			pkt.Op = ALUSra
		case f3 == 0b110 && f7 == 0:
			pkt.Op = ALUOr
		case f3 == 0b111 && f7 == 0:
			pkt.Op = ALUAnd
		default:
			return DecodePkt{}
		}
	case opcLoad:
		pkt.FU = FULSU
		pkt.RS1Used = true
		pkt.RDUsed = pkt.RD != 0
		pkt.IsLoad = true
		pkt.Imm = immI(instr)
		pkt.ImmUsed = true
		switch f3 {
		case 0b000:
			pkt.Size = SizeByte
		case 0b001:
			pkt.Size = SizeHalf
		case 0b010:
			pkt.Size = SizeWord
		case 0b100:
			pkt.Size = SizeByte
			pkt.UnsignedLoad = true
		case 0b101:
			pkt.Size = SizeHalf
			pkt.UnsignedLoad = true
		default:
			return DecodePkt{}
		}
	case opcStore:
		pkt.FU = FULSU
		pkt.RS1Used = true
		pkt.RS2Used = true
		pkt.IsStore = true
		pkt.Imm = immS(instr)
		pkt.ImmUsed = true
		switch f3 {
		case 0b000:
			pkt.Size = SizeByte
		case 0b001:
			pkt.Size = SizeHalf
		case 0b010:
			pkt.Size = SizeWord
		default:
			return DecodePkt{}
		}
	case opcBranch:
		pkt.FU = FUBRU
		pkt.IsBranch = true
		pkt.RS1Used = true
		pkt.RS2Used = true
		pkt.Imm = immB(instr)
		pkt.ImmUsed = true
		switch f3 {
		case 0b000, 0b001, 0b100, 0b101, 0b110, 0b111:
			// beq, bne, blt, bge, bltu, bgeu
		default:
			return DecodePkt{}
		}
	default:
		return DecodePkt{}
	}
	return pkt
}

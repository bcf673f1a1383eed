package core

// The functional units. Each accepts one issued instruction per cycle
// and produces at most one writeback beat. They are modeled as plain
// functions over the issued packet and the register file: a tagged
// dispatch in the tick loop, not an interface hierarchy.

// aluCompute evaluates one ALU operation. Shift amounts use the low
// five bits of the second operand; Lui forwards it unchanged.
func aluCompute(op ALUOp, src1, src2 uint32) uint32 {
	var res uint32
	switch op {
	case ALUAdd:
		res = src1 + src2
	case ALUSub:
		res = src1 - src2
	case ALUAnd:
		res = src1 & src2
	case ALUOr:
		res = src1 | src2
	case ALUXor:
		res = src1 ^ src2
	case ALUSlt:
		if int32(src1) < int32(src2) {
			res = 1
		}
	case ALUSltu, ALUSltiu:
		if src1 < src2 {
			res = 1
		}
	case ALUSll:
		res = src1 << (src2 & 31)
	case ALUSrl:
		res = src1 >> (src2 & 31)
	case ALUSra:
		res = uint32(int32(src1) >> (src2 & 31))
	case ALULui:
		res = src2
	}
	return res
}

// execALU computes an ALU operation. The second operand is the
// immediate when the packet carries one, else the second source
// register.
func execALU(e *RenamePkt, prf *PRF) WBPkt {
	src1 := prf.Read(e.PRS1)
	src2 := prf.Read(e.PRS2)
	if e.ImmUsed {
		src2 = e.Imm
	}
	return WBPkt{
		Valid:  true,
		ROBTag: e.ROBTag,
		PRD:    e.PRD,
		Data:   aluCompute(e.Op, src1, src2),
		RDUsed: e.RDUsed,
	}
}

// branchTaken evaluates a conditional branch per its funct3 field.
func branchTaken(instr, src1, src2 uint32) bool {
	switch funct3(instr) {
	case 0b000: // beq
		return src1 == src2
	case 0b001: // bne
		return src1 != src2
	case 0b100: // blt
		return int32(src1) < int32(src2)
	case 0b101: // bge
		return int32(src1) >= int32(src2)
	case 0b110: // bltu
		return src1 < src2
	default: // bgeu
		return src1 >= src2
	}
}

// execBRU resolves a branch or jump. The frontend predicts pc+4 for
// everything, so the unit raises a mispredict whenever the resolved
// next pc differs from that. nextPC is the resolved next pc and doubles
// as the flush target on mispredict. Jumps write back the link value.
func execBRU(e *RenamePkt, prf *PRF) (wb WBPkt, mispredict bool, nextPC uint32) {
	src1 := prf.Read(e.PRS1)
	src2 := prf.Read(e.PRS2)
	predicted := e.PC + 4
	nextPC = predicted
	var data uint32
	switch {
	case e.IsJump && e.RS1Used: // jalr
		nextPC = (src1 + e.Imm) &^ 1
		data = e.PC + 4
	case e.IsJump: // jal
		nextPC = e.PC + e.Imm
		data = e.PC + 4
	default:
		if branchTaken(e.Instr, src1, src2) {
			nextPC = e.PC + e.Imm
		}
	}
	wb = WBPkt{
		Valid:  true,
		ROBTag: e.ROBTag,
		PRD:    e.PRD,
		Data:   data,
		RDUsed: e.RDUsed,
	}
	return wb, nextPC != predicted, nextPC
}

// execLSU performs a load or store at src1+imm. Stores carry no
// destination, so their writeback beat only marks the reorder buffer
// entry done. The caller guarantees program order: the unit only sees
// the oldest memory instruction, and only once it reaches the reorder
// buffer head.
func execLSU(e *RenamePkt, prf *PRF, dmem *DMem) WBPkt {
	addr := prf.Read(e.PRS1) + e.Imm
	wb := WBPkt{Valid: true, ROBTag: e.ROBTag}
	if e.IsLoad {
		wb.Data = dmem.Load(addr, e.Size, e.UnsignedLoad)
		wb.PRD = e.PRD
		wb.RDUsed = e.RDUsed
	} else {
		dmem.Store(addr, e.Size, prf.Read(e.PRS2))
	}
	return wb
}

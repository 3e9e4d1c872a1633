package cpu

import (
	"fmt"
)

// Instruction is a decoded instruction word.
// Fixed-position fields are always extracted; Imm depends on Format.
type Instruction struct {
	Code     Code
	Format   Format
	Mnemonic Mnemonic

	Opcode Opcode
	Rd     uint32
	Funct3 uint32
	Rs1    uint32
	Rs2    uint32
	Funct7 uint32
	Imm    int32
}

// Decode splits an instruction word into its fields.
func Decode(code Code) (inst Instruction) {
	inst = Instruction{
		Code:     code,
		Format:   code.Format(),
		Mnemonic: code.Mnemonic(),
		Opcode:   code.Opcode(),
		Rd:       code.Rd(),
		Funct3:   code.Funct3(),
		Rs1:      code.Rs1(),
		Rs2:      code.Rs2(),
		Funct7:   code.Funct7(),
		Imm:      code.Immediate(),
	}

	return
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() (out string) {
	switch inst.Mnemonic {
	case INST_HALT:
		out = "halt"
	case INST_ADD, INST_SLT:
		out = fmt.Sprintf("%v x%d, x%d, x%d", inst.Mnemonic, inst.Rd, inst.Rs1, inst.Rs2)
	case INST_ADDI, INST_SLLI:
		out = fmt.Sprintf("%v x%d, x%d, %d", inst.Mnemonic, inst.Rd, inst.Rs1, inst.Imm)
	case INST_SW:
		out = fmt.Sprintf("%v x%d, %d(x%d)", inst.Mnemonic, inst.Rs2, inst.Imm, inst.Rs1)
	case INST_BNE:
		out = fmt.Sprintf("%v x%d, x%d, %d", inst.Mnemonic, inst.Rs1, inst.Rs2, inst.Imm)
	case INST_AUIPC:
		out = fmt.Sprintf("%v x%d, 0x%x", inst.Mnemonic, inst.Rd, uint32(inst.Imm)>>12)
	case INST_JAL:
		out = fmt.Sprintf("%v x%d, %d", inst.Mnemonic, inst.Rd, inst.Imm)
	default:
		out = fmt.Sprintf(".word %v", inst.Code)
	}

	return
}

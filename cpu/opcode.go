package cpu

import (
	"fmt"
)

// Opcode is the 7-bit major opcode field of an instruction word.
type Opcode uint32

const (
	OPCODE_OP     = Opcode(0x33) // Register-register.
	OPCODE_OP_IMM = Opcode(0x13) // Register-immediate.
	OPCODE_STORE  = Opcode(0x23) // Store.
	OPCODE_BRANCH = Opcode(0x63) // Conditional branch.
	OPCODE_AUIPC  = Opcode(0x17) // Add upper immediate to PC.
	OPCODE_JAL    = Opcode(0x6f) // Jump and link.
)

// Secondary operation selectors.
const (
	FUNCT3_ADD  = uint32(0x0)
	FUNCT3_SLT  = uint32(0x2)
	FUNCT3_ADDI = uint32(0x0)
	FUNCT3_SLLI = uint32(0x1)
	FUNCT3_SW   = uint32(0x2)
	FUNCT3_BNE  = uint32(0x1)
	FUNCT7_BASE = uint32(0x00)
)

// Format is the instruction encoding format, selected by the opcode.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_UNKNOWN = Format(0) // unknown
	FORMAT_HALT    = Format(1) // halt
	FORMAT_R       = Format(2) // R
	FORMAT_I       = Format(3) // I
	FORMAT_S       = Format(4) // S
	FORMAT_B       = Format(5) // B
	FORMAT_U       = Format(6) // U
	FORMAT_J       = Format(7) // J
)

// Mnemonic names a fully decoded operation.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	INST_INVALID = Mnemonic(0) // invalid
	INST_HALT    = Mnemonic(1) // halt
	INST_ADD     = Mnemonic(2) // add
	INST_SLT     = Mnemonic(3) // slt
	INST_ADDI    = Mnemonic(4) // addi
	INST_SLLI    = Mnemonic(5) // slli
	INST_SW      = Mnemonic(6) // sw
	INST_BNE     = Mnemonic(7) // bne
	INST_AUIPC   = Mnemonic(8) // auipc
	INST_JAL     = Mnemonic(9) // jal
)

// formatMap maps supported opcodes to their encoding format.
var formatMap = map[Opcode]Format{
	OPCODE_OP:     FORMAT_R,
	OPCODE_OP_IMM: FORMAT_I,
	OPCODE_STORE:  FORMAT_S,
	OPCODE_BRANCH: FORMAT_B,
	OPCODE_AUIPC:  FORMAT_U,
	OPCODE_JAL:    FORMAT_J,
}

// Code is a single 32-bit instruction word.
type Code uint32

// Opcode returns bits 0-6.
func (code Code) Opcode() Opcode {
	return Opcode(code & 0x7f)
}

// Rd returns the destination register, bits 7-11.
func (code Code) Rd() uint32 {
	return (uint32(code) >> 7) & 0x1f
}

// Funct3 returns bits 12-14.
func (code Code) Funct3() uint32 {
	return (uint32(code) >> 12) & 0x7
}

// Rs1 returns the first source register, bits 15-19.
func (code Code) Rs1() uint32 {
	return (uint32(code) >> 15) & 0x1f
}

// Rs2 returns the second source register, bits 20-24.
func (code Code) Rs2() uint32 {
	return (uint32(code) >> 20) & 0x1f
}

// Funct7 returns bits 25-31.
func (code Code) Funct7() uint32 {
	return (uint32(code) >> 25) & 0x7f
}

// Format returns the encoding format of the instruction.
// The all-zero word is the halt sentinel.
func (code Code) Format() Format {
	if code == 0 {
		return FORMAT_HALT
	}

	format, ok := formatMap[code.Opcode()]
	if !ok {
		return FORMAT_UNKNOWN
	}

	return format
}

// SignExtend interprets the low width bits of value as a two's complement
// number, and widens it to 32 bits.
func SignExtend(value uint32, width uint) int32 {
	shift := 32 - width
	return int32(value<<shift) >> shift
}

// immI: bits 31:20.
func immI(word uint32) int32 {
	return SignExtend(word>>20, 12)
}

// immS: bits 31:25 then 11:7.
func immS(word uint32) int32 {
	imm := ((word>>25)&0x7f)<<5 |
		((word >> 7) & 0x1f)
	return SignExtend(imm, 12)
}

// immB: [12|10:5|4:1|11], bit 0 is zero.
func immB(word uint32) int32 {
	imm := ((word>>31)&1)<<12 |
		((word>>7)&1)<<11 |
		((word>>25)&0x3f)<<5 |
		((word>>8)&0xf)<<1
	return SignExtend(imm, 13)
}

// immU: bits 31:12 in place, low 12 bits zero.
func immU(word uint32) int32 {
	return SignExtend(word&0xfffff000, 32)
}

// immJ: [20|10:1|11|19:12], bit 0 is zero.
func immJ(word uint32) int32 {
	imm := ((word>>31)&1)<<20 |
		((word>>12)&0xff)<<12 |
		((word>>20)&1)<<11 |
		((word>>21)&0x3ff)<<1
	return SignExtend(imm, 21)
}

// Immediate returns the sign-extended immediate for the format.
// Formats without an immediate return zero.
func (code Code) Immediate() (imm int32) {
	word := uint32(code)

	switch code.Format() {
	case FORMAT_I:
		imm = immI(word)
	case FORMAT_S:
		imm = immS(word)
	case FORMAT_B:
		imm = immB(word)
	case FORMAT_U:
		imm = immU(word)
	case FORMAT_J:
		imm = immJ(word)
	}

	return
}

// Mnemonic returns the operation selected by opcode, funct3 and funct7.
func (code Code) Mnemonic() (mn Mnemonic) {
	funct3 := code.Funct3()
	funct7 := code.Funct7()

	switch code.Format() {
	case FORMAT_HALT:
		mn = INST_HALT
	case FORMAT_R:
		switch {
		case funct7 == FUNCT7_BASE && funct3 == FUNCT3_ADD:
			mn = INST_ADD
		case funct7 == FUNCT7_BASE && funct3 == FUNCT3_SLT:
			mn = INST_SLT
		}
	case FORMAT_I:
		switch funct3 {
		case FUNCT3_ADDI:
			mn = INST_ADDI
		case FUNCT3_SLLI:
			mn = INST_SLLI
		}
	case FORMAT_S:
		mn = INST_SW
	case FORMAT_B:
		mn = INST_BNE
	case FORMAT_U:
		mn = INST_AUIPC
	case FORMAT_J:
		mn = INST_JAL
	}

	return
}

// String returns the instruction word in hex.
func (code Code) String() string {
	return fmt.Sprintf("0x%08x", uint32(code))
}

// MakeCodeR creates a register-register format instruction.
func MakeCodeR(op Opcode, funct3, funct7 uint32, rd, rs1, rs2 uint32) Code {
	return Code((funct7&0x7f)<<25 |
		(rs2&0x1f)<<20 |
		(rs1&0x1f)<<15 |
		(funct3&0x7)<<12 |
		(rd&0x1f)<<7 |
		uint32(op&0x7f))
}

// MakeCodeI creates a register-immediate format instruction.
func MakeCodeI(op Opcode, funct3 uint32, rd, rs1 uint32, imm int32) Code {
	return Code((uint32(imm)&0xfff)<<20 |
		(rs1&0x1f)<<15 |
		(funct3&0x7)<<12 |
		(rd&0x1f)<<7 |
		uint32(op&0x7f))
}

// MakeCodeS creates a store format instruction.
func MakeCodeS(op Opcode, funct3 uint32, rs1, rs2 uint32, imm int32) Code {
	u := uint32(imm)
	return Code(((u>>5)&0x7f)<<25 |
		(rs2&0x1f)<<20 |
		(rs1&0x1f)<<15 |
		(funct3&0x7)<<12 |
		(u&0x1f)<<7 |
		uint32(op&0x7f))
}

// MakeCodeB creates a branch format instruction.
// Bit 0 of the offset is dropped.
func MakeCodeB(op Opcode, funct3 uint32, rs1, rs2 uint32, imm int32) Code {
	u := uint32(imm)
	return Code(((u>>12)&1)<<31 |
		((u>>5)&0x3f)<<25 |
		(rs2&0x1f)<<20 |
		(rs1&0x1f)<<15 |
		(funct3&0x7)<<12 |
		((u>>1)&0xf)<<8 |
		((u>>11)&1)<<7 |
		uint32(op&0x7f))
}

// MakeCodeU creates an upper-immediate format instruction.
// imm20 is placed in bits 31:12.
func MakeCodeU(op Opcode, rd uint32, imm20 uint32) Code {
	return Code((imm20&0xfffff)<<12 |
		(rd&0x1f)<<7 |
		uint32(op&0x7f))
}

// MakeCodeJ creates a jump format instruction.
// Bit 0 of the offset is dropped.
func MakeCodeJ(op Opcode, rd uint32, imm int32) Code {
	u := uint32(imm)
	return Code(((u>>20)&1)<<31 |
		((u>>1)&0x3ff)<<21 |
		((u>>11)&1)<<20 |
		((u>>12)&0xff)<<12 |
		(rd&0x1f)<<7 |
		uint32(op&0x7f))
}

// MakeCodeHalt creates the all-zero halt sentinel.
func MakeCodeHalt() Code {
	return Code(0)
}

// MakeCodeAdd creates 'add rd, rs1, rs2'.
func MakeCodeAdd(rd, rs1, rs2 uint32) Code {
	return MakeCodeR(OPCODE_OP, FUNCT3_ADD, FUNCT7_BASE, rd, rs1, rs2)
}

// MakeCodeSlt creates 'slt rd, rs1, rs2'.
func MakeCodeSlt(rd, rs1, rs2 uint32) Code {
	return MakeCodeR(OPCODE_OP, FUNCT3_SLT, FUNCT7_BASE, rd, rs1, rs2)
}

// MakeCodeAddi creates 'addi rd, rs1, imm'.
func MakeCodeAddi(rd, rs1 uint32, imm int32) Code {
	return MakeCodeI(OPCODE_OP_IMM, FUNCT3_ADDI, rd, rs1, imm)
}

// MakeCodeSlli creates 'slli rd, rs1, shamt'.
func MakeCodeSlli(rd, rs1 uint32, shamt uint32) Code {
	return MakeCodeI(OPCODE_OP_IMM, FUNCT3_SLLI, rd, rs1, int32(shamt&0x1f))
}

// MakeCodeSw creates 'sw rs2, imm(rs1)'.
func MakeCodeSw(rs2, rs1 uint32, imm int32) Code {
	return MakeCodeS(OPCODE_STORE, FUNCT3_SW, rs1, rs2, imm)
}

// MakeCodeBne creates 'bne rs1, rs2, imm'.
func MakeCodeBne(rs1, rs2 uint32, imm int32) Code {
	return MakeCodeB(OPCODE_BRANCH, FUNCT3_BNE, rs1, rs2, imm)
}

// MakeCodeAuipc creates 'auipc rd, imm20'.
func MakeCodeAuipc(rd uint32, imm20 uint32) Code {
	return MakeCodeU(OPCODE_AUIPC, rd, imm20)
}

// MakeCodeJal creates 'jal rd, imm'.
func MakeCodeJal(rd uint32, imm int32) Code {
	return MakeCodeJ(OPCODE_JAL, rd, imm)
}

package cpu

import (
	"encoding/binary"
	"fmt"
	"iter"
	"strings"
)

// Line represents a line of assembled code with its source location and
// generated instruction.
type Line struct {
	LineNo    int
	Pc        uint32
	Words     []string
	Code      Code
	LinkLabel string
}

// Program is an assembled instruction stream, contiguous from Base.
type Program struct {
	Base    uint32
	Opcodes []Line
}

// Debug returns the opcode at pc, or nil if pc is outside the program.
func (prog *Program) Debug(pc uint32) (op *Line) {
	for n := range prog.Opcodes {
		if prog.Opcodes[n].Pc == pc {
			op = &prog.Opcodes[n]
			break
		}
	}

	return
}

// Codes iterates over the program's instruction words by address.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(pc uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Pc, op.Code) {
				return
			}
		}
	}
}

// Words returns the instruction words in order.
func (prog *Program) Words() (words []uint32) {
	for _, code := range prog.Codes() {
		words = append(words, uint32(code))
	}

	return
}

// Binary returns the little-endian memory image of the program.
func (prog *Program) Binary() (bins []byte) {
	for _, code := range prog.Codes() {
		bins = binary.LittleEndian.AppendUint32(bins, uint32(code))
	}

	return
}

// String returns a listing of the program.
func (prog *Program) String() string {
	var sb strings.Builder
	for _, op := range prog.Opcodes {
		fmt.Fprintf(&sb, "%08x: %08x  %-28v ; %d: %v\n",
			op.Pc, uint32(op.Code), Decode(op.Code), op.LineNo, strings.Join(op.Words, " "))
	}

	return sb.String()
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvsim/memory"
	"github.com/ezrec/rvsim/translate"
)

// Memory is the memory provider interface.
type Memory memory.Memory

const (
	REGISTER_COUNT   = 32 // General purpose registers, x0 is hardwired to zero.
	INSTRUCTION_SIZE = 4  // Bytes per instruction word.
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT":   fmt.Sprintf("%d", REGISTER_COUNT),
	"INSTRUCTION_SIZE": fmt.Sprintf("%d", INSTRUCTION_SIZE),
}

// State is the architectural state: program counter and register file.
type State struct {
	Pc       uint32
	Register [REGISTER_COUNT]uint32
}

// String returns the state as a register dump.
func (state *State) String() (text string) {
	text = fmt.Sprintf("   pc: %04X_%04X\n", state.Pc>>16, state.Pc&0xffff)
	for n, val := range state.Register {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", fmt.Sprintf("x%d", n), val>>16, val&0xffff)
	}

	return
}

// Cpu is the simulation context for a single hart.
//
// Current is the committed state. A step reads only Current and the
// memory, and writes only Next and the memory. Commit makes Next the
// new Current.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory Memory // Reference to the memory provider.

	Current State // Committed state.
	Next    State // State being computed by the step in flight.

	Ticks int // Committed steps counter.

	halt error // Reason the run flag was cleared; nil while running.
}

// NewCpu creates a new CPU attached to a memory provider.
func NewCpu(mem Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the committed CPU state as a string.
func (cpu *Cpu) String() string {
	return cpu.Current.String()
}

// Reset the CPU state.
// - Clears both register files.
// - Sets the program counter.
// - Zeros statistics counters.
// - Sets the run flag.
func (cpu *Cpu) Reset(pc uint32) {
	if cpu.Verbose {
		log.Printf("cpu: reset pc 0x%08x", pc)
	}

	cpu.Current = State{Pc: pc}
	cpu.Next = cpu.Current
	cpu.Ticks = 0
	cpu.halt = nil
}

// Running returns the run flag.
func (cpu *Cpu) Running() bool {
	return cpu.halt == nil
}

// Halt returns why the run flag was cleared: ErrHalt for the halt
// sentinel, ErrUnsupported for an unknown opcode, nil while running.
func (cpu *Cpu) Halt() error {
	return cpu.halt
}

// Commit makes the next state the current state.
func (cpu *Cpu) Commit() {
	cpu.Current = cpu.Next
}

// Fetch reads the instruction word at the current program counter, and
// sets the default next program counter.
func (cpu *Cpu) Fetch() (code Code, err error) {
	cpu.Next.Pc = cpu.Current.Pc + INSTRUCTION_SIZE

	word, err := cpu.Memory.ReadWord(cpu.Current.Pc)
	if err != nil {
		return
	}

	code = Code(word)
	return
}

// Step fetches, decodes and executes one instruction into Next.
// It does not commit.
func (cpu *Cpu) Step() (err error) {
	if !cpu.Running() {
		err = ErrHalted
		return
	}

	defer func() {
		cpu.Next.Register[0] = 0
	}()

	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(Decode(code))
	return
}

// Tick performs a single step, and commits it if it succeeded.
func (cpu *Cpu) Tick() (err error) {
	err = cpu.Step()
	if err != nil {
		return
	}

	cpu.Commit()
	cpu.Ticks++

	return
}

// Execute executes a single decoded instruction.
//
// Registers not written by the instruction are carried from Current to
// Next, and Next.Register[0] is zero on return.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		cpu.Next.Register[0] = 0
		if err != nil {
			err = errors.Join(ErrOpcode(inst.Code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.Current.Pc, inst)
	}

	cur := &cpu.Current
	next := &cpu.Next

	next.Register = cur.Register

	switch inst.Format {
	case FORMAT_HALT:
		cpu.halt = ErrHalt
	case FORMAT_R:
		a := cur.Register[inst.Rs1]
		b := cur.Register[inst.Rs2]
		switch {
		case inst.Funct7 == FUNCT7_BASE && inst.Funct3 == FUNCT3_ADD:
			next.Register[inst.Rd] = a + b
		case inst.Funct7 == FUNCT7_BASE && inst.Funct3 == FUNCT3_SLT:
			// Treat as signed.
			next.Register[inst.Rd] = 0
			if int32(a) < int32(b) {
				next.Register[inst.Rd] = 1
			}
		default:
			cpu.ignore(inst)
		}
	case FORMAT_I:
		a := cur.Register[inst.Rs1]
		switch inst.Funct3 {
		case FUNCT3_ADDI:
			next.Register[inst.Rd] = a + uint32(inst.Imm)
		case FUNCT3_SLLI:
			next.Register[inst.Rd] = a << (uint32(inst.Imm) & 0x1f)
		default:
			cpu.ignore(inst)
		}
	case FORMAT_S:
		addr := cur.Register[inst.Rs1] + uint32(inst.Imm)
		err = cpu.Memory.WriteWord(addr, cur.Register[inst.Rs2])
	case FORMAT_B:
		if cur.Register[inst.Rs1] != cur.Register[inst.Rs2] {
			next.Pc = cur.Pc + uint32(inst.Imm)
		}
	case FORMAT_U:
		next.Register[inst.Rd] = cur.Pc + uint32(inst.Imm)
	case FORMAT_J:
		next.Register[inst.Rd] = cur.Pc + INSTRUCTION_SIZE
		next.Pc = cur.Pc + uint32(inst.Imm)
	default:
		translate.Logf("unsupported instruction: 0x%08x", uint32(inst.Code))
		cpu.halt = ErrUnsupported(inst.Code)
	}

	return
}

// ignore notes a funct3/funct7 combination with no defined operation.
// The step still completes with the registers carried through.
func (cpu *Cpu) ignore(inst Instruction) {
	if cpu.Verbose {
		log.Printf("%08x: no operation for opcode 0x%02x funct3 %d funct7 0x%02x",
			cpu.Current.Pc, uint32(inst.Opcode), inst.Funct3, inst.Funct7)
	}
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"errors"
	"iter"
	"log"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/internal"
	"github.com/ezrec/rvsim/memory"
)

// Emulator state. CPU + memory + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Memory   *memory.Flat // Memory image.
	Program  *cpu.Program // Reference to the currently loaded program listing.
	History  *History     // Recently retired instructions; nil disables.
}

// NewEmulator creates a new emulator with size bytes of memory.
func NewEmulator(size int) (emu *Emulator) {
	mem := memory.NewFlat(size)

	emu = &Emulator{
		Cpu:     cpu.NewCpu(mem),
		Memory:  mem,
		Program: &cpu.Program{},
		History: &History{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Memory.Defines(),
	)
}

// Assembler returns an assembler predefined with the emulator defines.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Reset the emulator state.
// - Clears memory.
// - Loads the program binary at its base address.
// - Resets the CPU to run from the program base.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Memory.Reset()

	base := emu.Program.Base
	_, err = emu.Memory.Load(base, bytes.NewReader(emu.Program.Binary()))
	if err != nil {
		return
	}

	emu.Cpu.Reset(base)

	if emu.History != nil {
		emu.History.Rewind()
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d words at 0x%08x", len(emu.Program.Opcodes), base)
	}

	return
}

// Ticks returns the total committed steps since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint32 {
	return emu.Cpu.Current.Pc
}

// LineNo returns the source line number for the instruction at the
// current program counter, or 0 if unknown.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.Cpu.Current.Pc)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Tick performs a single step of the emulator, and commits it.
// done is set once the CPU run flag is cleared. Halting on an
// unsupported instruction is reported as an error.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Current.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	if !emu.Cpu.Running() {
		done = true
		return
	}

	code, _ := emu.Memory.PeekWord(pc)

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	emu.History.Record(Retired{Tick: emu.Cpu.Ticks, Pc: pc, Code: cpu.Code(code)})

	if !emu.Cpu.Running() {
		done = true
		halt := emu.Cpu.Halt()
		if !errors.Is(halt, cpu.ErrHalt) {
			err = halt
		}
	}

	return
}

// Run ticks until the CPU halts, an error occurs, or limit steps have been
// taken. A limit of zero or less is unlimited.
func (emu *Emulator) Run(limit int) (err error) {
	for steps := 0; limit <= 0 || steps < limit; steps++ {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	err = ErrStepLimit
	return
}

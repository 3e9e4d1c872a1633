package main

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/emulator"
)

// MemoryBlock is a run of words to preload at Addr.
type MemoryBlock struct {
	Addr  uint32   `yaml:"addr"`
	Words []uint32 `yaml:"words"`
}

// InitialState is the architectural state to start from, overriding the
// reset state.
//
//	pc: 0x100
//	registers:
//	  sp: 0x8000
//	  a0: 42
//	memory:
//	  - addr: 0x1000
//	    words: [1, 2, 3]
type InitialState struct {
	Pc        *uint32           `yaml:"pc"`
	Registers map[string]uint32 `yaml:"registers"`
	Memory    []MemoryBlock     `yaml:"memory"`
}

// ReadInitialState decodes a YAML initial state.
func ReadInitialState(input io.Reader) (initial *InitialState, err error) {
	initial = &InitialState{}

	err = yaml.NewDecoder(input).Decode(initial)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		initial = nil
	}

	return
}

// Apply writes the initial state into the emulator's committed state and
// memory.
func (initial *InitialState) Apply(emu *emulator.Emulator) (err error) {
	for _, block := range initial.Memory {
		err = emu.Memory.LoadWords(block.Addr, block.Words...)
		if err != nil {
			return
		}
	}

	for name, value := range initial.Registers {
		reg, ok := cpu.RegisterNumber(name)
		if !ok {
			err = fmt.Errorf("%w: %v", ErrStateRegister, name)
			return
		}
		if reg != 0 {
			emu.Cpu.Current.Register[reg] = value
		}
	}

	if initial.Pc != nil {
		emu.Cpu.Current.Pc = *initial.Pc
	}

	emu.Cpu.Next = emu.Cpu.Current

	return
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/emulator"
	"github.com/ezrec/rvsim/internal"
	"github.com/ezrec/rvsim/memory"
)

func main() {
	var compile string
	var binary string
	var state string
	var size int
	var base uint
	var limit int
	var trace int
	var output string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&binary, "b", "", "raw memory image to load")
	flag.StringVar(&state, "s", "", ".yaml initial state")
	flag.IntVar(&size, "m", memory.DEFAULT_MEMORY_SIZE, "Memory size in bytes")
	flag.UintVar(&base, "a", 0, "Load and start address")
	flag.IntVar(&limit, "n", 0, "Step limit (0 is unlimited)")
	flag.IntVar(&trace, "t", 0, "Show the last N retired instructions")
	flag.StringVar(&output, "o", "", "File to save the final memory image to")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator(size)
	emu.Verbose = verbose
	if trace > 0 {
		emu.History.Capacity = trace
	} else {
		emu.History = nil
	}

	if verbose {
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			log.Printf(".equ %v %v", key, value)
		}
	}

	prog := &cpu.Program{Base: uint32(base)}

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		atexit.Register(func() { inf.Close() })

		asm := emu.Assembler()
		asm.Base = uint32(base)
		prog, err = asm.Parse(inf)
		if err != nil {
			atexit.Fatalf("%v: %v", compile, err)
		}

		if verbose {
			log.Printf("%v:\n%v", compile, prog)
		}
	}

	emu.Program = prog
	err := emu.Reset()
	if err != nil {
		atexit.Fatalf("%v", err)
	}

	// Raw image, loaded over any assembled program.
	if len(binary) != 0 {
		inf, err := os.Open(binary)
		if err != nil {
			atexit.Fatalf("%v: %v", binary, err)
		}
		atexit.Register(func() { inf.Close() })

		_, err = emu.Memory.Load(uint32(base), inf)
		if err != nil {
			atexit.Fatalf("%v: %v", binary, err)
		}
	}

	if len(state) != 0 {
		inf, err := os.Open(state)
		if err != nil {
			atexit.Fatalf("%v: %v", state, err)
		}
		atexit.Register(func() { inf.Close() })

		initial, err := ReadInitialState(inf)
		if err != nil {
			atexit.Fatalf("%v: %v", state, err)
		}

		err = initial.Apply(emu)
		if err != nil {
			atexit.Fatalf("%v: %v", state, err)
		}
	}

	err = emu.Run(limit)

	if emu.History != nil {
		WriteHistory(os.Stdout, emu)
	}
	WriteReport(os.Stdout, emu)

	if len(output) != 0 {
		outf, oerr := os.Create(output)
		if oerr != nil {
			atexit.Fatalf("%v: %v", output, oerr)
		}
		atexit.Register(func() { outf.Close() })

		oerr = emu.Memory.Save(0, emu.Memory.Size(), outf)
		if oerr != nil {
			atexit.Fatalf("%v: %v", output, oerr)
		}
	}

	if err != nil {
		atexit.Fatalf("%v", err)
	}

	atexit.Exit(0)
}

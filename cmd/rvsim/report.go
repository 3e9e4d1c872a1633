package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/emulator"
)

const reportColumns = 8

// WriteReport renders the committed register file as a table.
func WriteReport(w io.Writer, emu *emulator.Emulator) {
	state := &emu.Cpu.Current

	status := "running"
	if halt := emu.Cpu.Halt(); halt != nil {
		status = halt.Error()
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("pc 0x%08x, %d steps, %v", state.Pc, emu.Ticks(), status))

	header := table.Row{""}
	for col := range reportColumns {
		header = append(header, fmt.Sprintf("+%d", col))
	}
	tw.AppendHeader(header)

	for row := 0; row < cpu.REGISTER_COUNT; row += reportColumns {
		line := table.Row{fmt.Sprintf("x%d", row)}
		for col := range reportColumns {
			line = append(line, fmt.Sprintf("%08x", state.Register[row+col]))
		}
		tw.AppendRow(line)
	}

	tw.Render()
}

// WriteHistory renders the recently retired instructions, oldest first.
func WriteHistory(w io.Writer, emu *emulator.Emulator) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("last %d of %d steps", emu.History.Len(), emu.Ticks()))
	tw.AppendHeader(table.Row{"step", "pc", "word", "instruction", "line"})

	for entry := range emu.History.All() {
		line := ""
		if op := emu.Program.Debug(entry.Pc); op != nil {
			line = fmt.Sprintf("%d: %v", op.LineNo, strings.Join(op.Words, " "))
		}
		tw.AppendRow(table.Row{
			entry.Tick,
			fmt.Sprintf("%08x", entry.Pc),
			fmt.Sprintf("%08x", uint32(entry.Code)),
			cpu.Decode(entry.Code).String(),
			line,
		})
	}

	tw.Render()
}

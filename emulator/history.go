package emulator

import (
	"iter"

	"github.com/ezrec/rvsim/cpu"
)

const (
	// HISTORY_DEFAULT_CAPACITY is the default number of retired
	// instructions kept.
	HISTORY_DEFAULT_CAPACITY = 16
)

// Retired is a committed instruction.
type Retired struct {
	Tick int      // Committed step number, from 1.
	Pc   uint32   // Address the instruction was fetched from.
	Code cpu.Code // Instruction word.
}

// History is a ring of the most recently retired instructions.
type History struct {
	Capacity int

	WriteIndex int // Total records since the last rewind.
	Data       []Retired
}

// Rewind empties the history, allocating the ring on first use.
func (hist *History) Rewind() {
	if hist.Capacity <= 0 {
		hist.Capacity = HISTORY_DEFAULT_CAPACITY
	}
	if cap(hist.Data) != hist.Capacity {
		hist.Data = make([]Retired, 0, hist.Capacity)
	}

	hist.Data = hist.Data[:0]
	hist.WriteIndex = 0
}

// Record appends a retired instruction, dropping the oldest one when full.
func (hist *History) Record(entry Retired) {
	if hist == nil {
		return
	}

	if hist.Data == nil {
		hist.Rewind()
	}

	if len(hist.Data) < hist.Capacity {
		hist.Data = append(hist.Data, entry)
	} else {
		hist.Data[hist.WriteIndex%hist.Capacity] = entry
	}

	hist.WriteIndex++
}

// Len returns the number of instructions held.
func (hist *History) Len() int {
	if hist == nil {
		return 0
	}

	return len(hist.Data)
}

// All yields the held instructions, oldest first.
func (hist *History) All() iter.Seq[Retired] {
	if hist == nil {
		return func(func(Retired) bool) {}
	}

	return func(yield func(entry Retired) bool) {
		start := 0
		if len(hist.Data) == hist.Capacity {
			start = hist.WriteIndex % hist.Capacity
		}

		for n := range len(hist.Data) {
			if !yield(hist.Data[(start+n)%len(hist.Data)]) {
				return
			}
		}
	}
}

package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pcs(hist *History) (out []uint32) {
	for entry := range hist.All() {
		out = append(out, entry.Pc)
	}
	return
}

func TestHistory(t *testing.T) {
	assert := assert.New(t)

	hist := &History{Capacity: 3}
	assert.Equal(0, hist.Len())
	assert.Nil(pcs(hist))

	hist.Record(Retired{Tick: 1, Pc: 0})
	hist.Record(Retired{Tick: 2, Pc: 4})
	assert.Equal([]uint32{0, 4}, pcs(hist))

	hist.Record(Retired{Tick: 3, Pc: 8})
	hist.Record(Retired{Tick: 4, Pc: 12})
	hist.Record(Retired{Tick: 5, Pc: 16})
	assert.Equal(3, hist.Len())
	assert.Equal([]uint32{8, 12, 16}, pcs(hist))
	assert.Equal(5, hist.WriteIndex)

	// Early stop.
	var first Retired
	for entry := range hist.All() {
		first = entry
		break
	}
	assert.Equal(3, first.Tick)

	hist.Rewind()
	assert.Equal(0, hist.Len())
	assert.Equal(3, hist.Capacity)
}

func TestHistoryDefault(t *testing.T) {
	assert := assert.New(t)

	hist := &History{}
	for n := range HISTORY_DEFAULT_CAPACITY + 1 {
		hist.Record(Retired{Tick: n + 1, Pc: uint32(n * 4)})
	}
	assert.Equal(HISTORY_DEFAULT_CAPACITY, hist.Len())

	got := pcs(hist)
	assert.Equal(uint32(4), got[0])
	assert.Equal(uint32(HISTORY_DEFAULT_CAPACITY*4), got[len(got)-1])

	var none *History
	none.Record(Retired{})
	assert.Equal(0, none.Len())
	assert.Nil(pcs(none))
}

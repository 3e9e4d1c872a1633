package cpu

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

//go:generate go tool mockgen -write_package_comment=false -package=$GOPACKAGE -destination=mock_memory_test.go github.com/ezrec/rvsim/memory Memory

func TestCpuMemoryTraffic(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	gomock.InOrder(
		mem.EXPECT().ReadWord(uint32(0x40)).Return(uint32(MakeCodeSw(1, 2, -4)), nil),
		mem.EXPECT().WriteWord(uint32(0x0ffc), uint32(0x2a)).Return(nil),
		mem.EXPECT().ReadWord(uint32(0x44)).Return(uint32(MakeCodeAddi(1, 1, 1)), nil),
		mem.EXPECT().ReadWord(uint32(0x48)).Return(uint32(MakeCodeHalt()), nil),
	)

	cpu := NewCpu(mem)
	cpu.Reset(0x40)
	cpu.Current.Register[1] = 0x2a
	cpu.Current.Register[2] = 0x1000

	for cpu.Running() {
		assert.NoError(cpu.Tick())
	}

	assert.Equal(uint32(0x2b), cpu.Current.Register[1])
	assert.ErrorIs(cpu.Halt(), ErrHalt)
	assert.Equal(3, cpu.Ticks)
}

func TestCpuMemoryError(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	mem := NewMockMemory(ctrl)

	errBus := errors.New("bus error")

	mem.EXPECT().ReadWord(uint32(0)).Return(uint32(MakeCodeSw(0, 0, 0)), nil)
	mem.EXPECT().WriteWord(uint32(0), uint32(0)).Return(errBus)

	cpu := NewCpu(mem)
	cpu.Reset(0)

	err := cpu.Tick()
	assert.ErrorIs(err, errBus)
	assert.ErrorIs(err, ErrOpcode(0))
	assert.True(cpu.Running())
	assert.Equal(0, cpu.Ticks)
}

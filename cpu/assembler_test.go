package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, asm *Assembler, lines ...string) (prog *Program) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("32", asm.Equate["REGISTER_COUNT"])
	assert.Equal("4", asm.Equate["INSTRUCTION_SIZE"])
}

func TestAssemblerLoop(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := assemble(t, asm,
		".equ COUNT, 3",
		"start:",
		"    li t0, COUNT      ; counter",
		"    li t1, 0          # accumulator",
		"loop:",
		"    addi t1, t1, 2",
		"    addi t0, t0, -1",
		"    bne t0, zero, loop",
		"    sw t1, 0x100(zero)",
		"    halt",
	)

	assert.Equal([]uint32{
		uint32(MakeCodeAddi(5, 0, 3)),
		uint32(MakeCodeAddi(6, 0, 0)),
		uint32(MakeCodeAddi(6, 6, 2)),
		uint32(MakeCodeAddi(5, 5, -1)),
		uint32(MakeCodeBne(5, 0, -8)),
		uint32(MakeCodeSw(6, 0, 0x100)),
		uint32(MakeCodeHalt()),
	}, prog.Words())

	assert.Equal(uint32(0), asm.Label["start"])
	assert.Equal(uint32(8), asm.Label["loop"])

	op := prog.Opcodes[4]
	assert.Equal(8, op.LineNo)
	assert.Equal(uint32(16), op.Pc)
	assert.Equal("loop", op.LinkLabel)
	assert.Equal([]string{"bne", "t0", "zero", "loop"}, op.Words)
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		code Code
	}){
		{"add x3, x1, x2", MakeCodeAdd(3, 1, 2)},
		{"slt a0, a1, a2", MakeCodeSlt(10, 11, 12)},
		{"addi sp, sp, -2048", MakeCodeAddi(2, 2, -2048)},
		{"slli s2, s3, 31", MakeCodeSlli(18, 19, 31)},
		{"sw ra, -4(sp)", MakeCodeSw(1, 2, -4)},
		{"sw a0, (sp)", MakeCodeSw(10, 2, 0)},
		{"bne x1, x2, 8", MakeCodeBne(1, 2, 8)},
		{"bne x1, x2, -4096", MakeCodeBne(1, 2, -4096)},
		{"auipc t6, 0xfffff", MakeCodeAuipc(31, 0xfffff)},
		{"jal ra, -8", MakeCodeJal(1, -8)},
		{"jal 1048574", MakeCodeJal(1, 1048574)},
		{"j -4", MakeCodeJal(0, -4)},
		{"nop", MakeCodeAddi(0, 0, 0)},
		{"mv a0, a1", MakeCodeAddi(10, 11, 0)},
		{"li a0, 'A'", MakeCodeAddi(10, 0, 65)},
		{"li a0, '\\n'", MakeCodeAddi(10, 0, 10)},
		{"li a0, ~0", MakeCodeAddi(10, 0, -1)},
		{"li a0, $((1 << 3) | 1)", MakeCodeAddi(10, 0, 9)},
		{".word 0xdeadbeef", Code(0xdeadbeef)},
		{"halt", MakeCodeHalt()},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(entry.line))
		if !assert.NoError(err, entry.line) {
			continue
		}
		if assert.Equal(1, len(prog.Opcodes), entry.line) {
			assert.Equal(entry.code, prog.Opcodes[0].Code, entry.line)
		}
	}
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Base: 0x1000}
	asm.Predefine("MEMORY_SIZE", "0x10000")

	prog := assemble(t, asm,
		".equ BASE 0x100",
		".equ COUNTER t2",
		"li a0, $(BASE + 4)",
		"li a1, $(MEMORY_SIZE >> 12)",
		"li COUNTER, $(LINENO)",
	)

	assert.Equal([]uint32{
		uint32(MakeCodeAddi(10, 0, 0x104)),
		uint32(MakeCodeAddi(11, 0, 0x10)),
		uint32(MakeCodeAddi(7, 0, 5)),
	}, prog.Words())
	assert.Equal(uint32(0x1000), prog.Base)
	assert.Equal(uint32(0x1008), prog.Opcodes[2].Pc)

	// PC does not fit in an addi immediate when the base is high.
	_, err := asm.Parse(strings.NewReader("li a2, PC"))
	assert.ErrorIs(err, ErrImmediateRange{})

	asm = &Assembler{}
	prog = assemble(t, asm, "nop", "nop", "li a2, PC")
	assert.Equal(MakeCodeAddi(12, 0, 8), prog.Opcodes[2].Code)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := assemble(t, asm,
		".macro spin reg count",
		"    li reg, count",
		"@top:",
		"    addi reg, reg, -1",
		"    bne reg, zero, @top",
		".endm",
		"    spin t0, 2",
		"    spin t1, 3",
		"    halt",
	)

	assert.Equal([]uint32{
		uint32(MakeCodeAddi(5, 0, 2)),
		uint32(MakeCodeAddi(5, 5, -1)),
		uint32(MakeCodeBne(5, 0, -4)),
		uint32(MakeCodeAddi(6, 0, 3)),
		uint32(MakeCodeAddi(6, 6, -1)),
		uint32(MakeCodeBne(6, 0, -4)),
		uint32(MakeCodeHalt()),
	}, prog.Words())

	assert.Equal(uint32(4), asm.Label["spin_7_top"])
	assert.Equal(uint32(16), asm.Label["spin_8_top"])

	// Macro arguments do not leak out of the expansion.
	_, ok := asm.Equate["reg"]
	assert.False(ok)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		lines  []string
		err    error
		lineno int
	}){
		{"missing", []string{"addi x1, x2"}, ErrOpcodeValueMissing, 1},
		{"extra", []string{"addi x1, x2, 3, 4"}, ErrOpcodeExtraArgs, 1},
		{"halt_extra", []string{"halt 1"}, ErrOpcodeExtraArgs, 1},
		{"register", []string{"nop", "addi x1, q2, 3"}, ErrRegisterInvalid, 2},
		{"register_32", []string{"add x32, x1, x1"}, ErrRegisterInvalid, 1},
		{"addi_range", []string{"addi x1, x2, 2048"}, ErrImmediateRange{}, 1},
		{"sw_range", []string{"sw x1, -2049(x2)"}, ErrImmediateRange{}, 1},
		{"slli_range", []string{"slli x1, x1, 32"}, ErrImmediateRange{}, 1},
		{"auipc_range", []string{"auipc x1, 0x100000"}, ErrImmediateRange{}, 1},
		{"bne_range", []string{"bne x1, x2, 4096"}, ErrImmediateRange{}, 1},
		{"jal_range", []string{"jal x1, 1048576"}, ErrImmediateRange{}, 1},
		{"bne_align", []string{"bne x1, x2, 3"}, ErrImmediateAlign(3), 1},
		{"target", []string{"bne x1, x2, x3"}, ErrTargetInvalid, 1},
		{"instruction", []string{"lw x1, 0(x2)"}, ErrInstructionInvalid, 1},
		{"number", []string{"li x1, 12abc"}, ErrParseNumber("12abc"), 1},
		{"character", []string{"li x1, 'AB'"}, ErrParseCharacter("AB"), 1},
		{"label_dup", []string{"a:", "a: halt"}, ErrLabelDuplicate, 2},
		{"label_missing", []string{"nop", "j nowhere"}, ErrLabelMissing("nowhere"), 2},
		{"equ_dup", []string{".equ A 1", ".equ A 2"}, ErrEquateDuplicate, 2},
		{"equ_syntax", []string{".equ A"}, ErrEquateSyntax, 1},
		{"macro_nesting", []string{".macro m", ".macro n"}, ErrMacroNesting, 2},
		{"macro_lonely", []string{".macro m", "halt"}, ErrMacroLonely, 2},
		{"macro_endm", []string{".endm"}, ErrMacroLonelyEndm, 1},
		{"macro_dup", []string{".macro m", ".endm", ".macro m", ".endm"}, ErrMacroDuplicate, 3},
		{"macro_syntax", []string{".macro"}, ErrMacroSyntax, 1},
		{"macro_args", []string{".macro m a", ".endm", "m"}, ErrMacroSyntax, 3},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.lines, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerMacroError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(strings.Join([]string{
		".macro bad",
		"  addi x1, x1, 5000",
		".endm",
		"bad",
	}, "\n")))

	assert.ErrorIs(err, ErrImmediateRange{})

	var macro ErrMacro
	if assert.True(errors.As(err, &macro)) {
		assert.Equal("bad", macro.Macro)
		assert.Equal(2, macro.Line)
	}
}

func TestAssemblerExpressionError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("li a0, $(1 +)"))
	assert.Error(err)

	_, err = asm.Parse(strings.NewReader(`li a0, $("a")`))
	assert.ErrorIs(err, ErrParseExpression(`"a"`))
}

func TestAssemblerLinkRange(t *testing.T) {
	assert := assert.New(t)

	lines := []string{"bne x1, x2, far"}
	for range 1100 {
		lines = append(lines, "nop")
	}
	lines = append(lines, "far: halt")

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	assert.ErrorIs(err, ErrImmediateRange{})

	var syntax ErrSyntax
	if assert.True(errors.As(err, &syntax)) {
		assert.Equal(1, syntax.LineNo)
	}

	// A jump has the reach.
	lines[0] = "j far"
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if assert.NoError(err) {
		assert.Equal(MakeCodeJal(0, 1101*4), prog.Opcodes[0].Code)
	}
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":           "0",
	"PC":               "0",
	"REGISTER_COUNT":   fmt.Sprintf("%d", REGISTER_COUNT),
	"INSTRUCTION_SIZE": fmt.Sprintf("%d", INSTRUCTION_SIZE),
}

// Assembler is a single pass macro assembler for the RV32 subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Base    uint32   // Address of the first instruction.
	Opcode  []Line   // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register numbers.
var regMap = func() map[string]uint32 {
	regs := map[string]uint32{
		"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
		"t0": 5, "t1": 6, "t2": 7,
		"s0": 8, "fp": 8, "s1": 9,
	}
	for n := range uint32(REGISTER_COUNT) {
		regs[fmt.Sprintf("x%d", n)] = n
	}
	for n := range uint32(8) {
		regs[fmt.Sprintf("a%d", n)] = 10 + n
	}
	for n := range uint32(10) {
		regs[fmt.Sprintf("s%d", n+2)] = 18 + n
	}
	for n := range uint32(4) {
		regs[fmt.Sprintf("t%d", n+3)] = 28 + n
	}
	return regs
}()

// RegisterNumber returns the register number for an architectural
// (x0-x31) or ABI (zero, ra, sp, ...) register name.
func RegisterNumber(name string) (reg uint32, ok bool) {
	reg, ok = regMap[name]
	return
}

// register returns the register number of a word.
func (asm *Assembler) register(word string) (reg uint32, err error) {
	reg, ok := regMap[word]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if value > 0xffffffff || value < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// immediate returns the value of a word, if inside [min, max].
func (asm *Assembler) immediate(word string, min, max int64) (imm int32, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if value < min || value > max {
		err = ErrImmediateRange{Value: value, Min: min, Max: max}
		return
	}

	imm = int32(value)
	return
}

// checkOffset verifies a branch or jump offset fits in a signed field of
// width bits, with bit 0 clear.
func checkOffset(value int64, width uint) (err error) {
	min := -(int64(1) << (width - 1))
	max := (int64(1) << (width - 1)) - 2
	if value < min || value > max {
		err = ErrImmediateRange{Value: value, Min: min, Max: max}
		return
	}
	if value&1 != 0 {
		err = ErrImmediateAlign(value)
		return
	}
	return
}

var labelRegexp = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// target parses a branch or jump destination.
// Labels are linked after the whole input is parsed.
func (asm *Assembler) target(word string, width uint) (offset int32, label string, err error) {
	if _, is_reg := regMap[word]; !is_reg && labelRegexp.MatchString(word) {
		label = word
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		err = ErrTargetInvalid
		return
	}

	err = checkOffset(value, width)
	if err != nil {
		return
	}

	offset = int32(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	charRegexp    = regexp.MustCompile(`'\\?[^']'`)
	parenRegexp   = regexp.MustCompile(`\$\(([^()]|\([^()]*\))*\)`)
	operandRegexp = regexp.MustCompile(`([^\s()]*)\(([A-Za-z0-9_]+)\)`)
)

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number and location.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)
	asm.Equate["PC"] = fmt.Sprintf("%#x", asm.currentPc())

	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	// Commas are optional separators.
	line = strings.ReplaceAll(line, ",", " ")

	// offset(reg) => offset reg
	line = operandRegexp.ReplaceAllStringFunc(line, func(str string) string {
		match := operandRegexp.FindStringSubmatch(str)
		offset := match[1]
		if len(offset) == 0 {
			offset = "0"
		}
		return offset + " " + match[2]
	})

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' makes names unique to this expansion.
		unique := fmt.Sprintf("%v_%v_", name, lineno)
		for n, line := range macro.Lines {
			mline := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", unique)
			words, err = asm.parseLine(line, mline)
			if err != nil {
				err = ErrMacro{Macro: name, Line: mline, Err: err}
				return
			}

			err = asm.parseWords(words, mline)
			if err != nil {
				err = ErrMacro{Macro: name, Line: mline, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentPc gets the address of the next opcode.
func (asm *Assembler) currentPc() uint32 {
	return asm.Base + uint32(len(asm.Opcode))*INSTRUCTION_SIZE
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text, _, _ = strings.Cut(text, ";")
		text, _, _ = strings.Cut(text, "#")
		line = strings.TrimSpace(text)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}

		offset := int64(pc) - int64(op.Pc)
		code := op.Code
		switch code.Format() {
		case FORMAT_B:
			err = checkOffset(offset, 13)
			if err != nil {
				return
			}
			op.Code = MakeCodeB(code.Opcode(), code.Funct3(), code.Rs1(), code.Rs2(), int32(offset))
		case FORMAT_J:
			err = checkOffset(offset, 21)
			if err != nil {
				return
			}
			op.Code = MakeCodeJ(code.Opcode(), code.Rd(), int32(offset))
		default:
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
	}

	prog = &Program{
		Base:    asm.Base,
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// argCount checks that an instruction has exactly count words.
func argCount(words []string, count int) (err error) {
	switch {
	case len(words) < count:
		err = ErrOpcodeValueMissing
	case len(words) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// registers parses the register operands of an instruction.
func (asm *Assembler) registers(words ...string) (regs []uint32, err error) {
	for _, word := range words {
		var reg uint32
		reg, err = asm.register(word)
		if err != nil {
			return
		}
		regs = append(regs, reg)
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var code Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	// Alternate syntax substitutions
	switch {
	case len(words) == 1 && words[0] == "nop":
		words = []string{"addi", "zero", "zero", "0"}
	case len(words) == 3 && words[0] == "mv":
		words = []string{"addi", words[1], words[2], "0"}
	case len(words) == 3 && words[0] == "li":
		words = []string{"addi", words[1], "zero", words[2]}
	case len(words) == 2 && words[0] == "j":
		words = []string{"jal", "zero", words[1]}
	case len(words) == 2 && words[0] == "jal":
		words = []string{"jal", "ra", words[1]}
	default:
		// unchanged
	}

	var regs []uint32
	var imm int32

	switch words[0] {
	case "halt":
		err = argCount(words, 1)
		if err != nil {
			return
		}
		code = MakeCodeHalt()
	case ".word":
		err = argCount(words, 2)
		if err != nil {
			return
		}
		var value int64
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		code = Code(uint32(value))
	case "add", "slt":
		err = argCount(words, 4)
		if err != nil {
			return
		}
		regs, err = asm.registers(words[1:]...)
		if err != nil {
			return
		}
		if words[0] == "add" {
			code = MakeCodeAdd(regs[0], regs[1], regs[2])
		} else {
			code = MakeCodeSlt(regs[0], regs[1], regs[2])
		}
	case "addi":
		err = argCount(words, 4)
		if err != nil {
			return
		}
		regs, err = asm.registers(words[1:3]...)
		if err != nil {
			return
		}
		imm, err = asm.immediate(words[3], -2048, 2047)
		if err != nil {
			return
		}
		code = MakeCodeAddi(regs[0], regs[1], imm)
	case "slli":
		err = argCount(words, 4)
		if err != nil {
			return
		}
		regs, err = asm.registers(words[1:3]...)
		if err != nil {
			return
		}
		imm, err = asm.immediate(words[3], 0, 31)
		if err != nil {
			return
		}
		code = MakeCodeSlli(regs[0], regs[1], uint32(imm))
	case "sw":
		// sw rs2 offset rs1
		err = argCount(words, 4)
		if err != nil {
			return
		}
		regs, err = asm.registers(words[1], words[3])
		if err != nil {
			return
		}
		imm, err = asm.immediate(words[2], -2048, 2047)
		if err != nil {
			return
		}
		code = MakeCodeSw(regs[0], regs[1], imm)
	case "bne":
		err = argCount(words, 4)
		if err != nil {
			return
		}
		regs, err = asm.registers(words[1:3]...)
		if err != nil {
			return
		}
		imm, label, err = asm.target(words[3], 13)
		if err != nil {
			return
		}
		code = MakeCodeBne(regs[0], regs[1], imm)
	case "auipc":
		err = argCount(words, 3)
		if err != nil {
			return
		}
		regs, err = asm.registers(words[1])
		if err != nil {
			return
		}
		imm, err = asm.immediate(words[2], 0, 0xfffff)
		if err != nil {
			return
		}
		code = MakeCodeAuipc(regs[0], uint32(imm))
	case "jal":
		err = argCount(words, 3)
		if err != nil {
			return
		}
		regs, err = asm.registers(words[1])
		if err != nil {
			return
		}
		imm, label, err = asm.target(words[2], 21)
		if err != nil {
			return
		}
		code = MakeCodeJal(regs[0], imm)
	default:
		err = ErrInstructionInvalid
		return
	}

	opcode := Line{LineNo: lineno, Pc: asm.currentPc(), Words: initial_words, Code: code, LinkLabel: label}
	asm.Opcode = append(asm.Opcode, opcode)

	return
}

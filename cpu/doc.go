// Package cpu implements the processor core and assembler for a small
// subset of the RV32I instruction set.
//
// The core keeps two copies of the architectural state, Current and Next.
// Each step fetches the word at Current.Pc, decodes it, and computes Next
// from Current and memory; the driver then commits Next into Current.
// Register x0 always reads as zero.
//
// Supported operations are add, slt, addi, slli, sw, bne, auipc and jal.
// The all-zero word halts the processor; any other opcode is reported as
// unsupported and also halts it.
//
// The assembler accepts a line oriented assembly language for the same
// operations, with labels, equates, macros and compile-time expressions.
package cpu

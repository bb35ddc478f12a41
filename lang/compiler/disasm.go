package compiler

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mna/dynac/lang/types"
)

// Disassemble writes a human-readable listing of chunk to w, one
// instruction per line, prefixed by the source line number (or "|" when it
// repeats the previous instruction's line). It is a debugging aid; neither
// the compiler nor the machine calls it.
func Disassemble(w io.Writer, chunk *types.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = disassembleInstruction(w, chunk, offset)
	}
}

func disassembleInstruction(w io.Writer, chunk *types.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", chunk.Lines[offset])
	}

	op := Opcode(chunk.Code[offset])
	switch op {
	case CONSTANT, GET_GLOBAL, SET_GLOBAL, DEFINE_GLOBAL:
		return constantInstruction(w, op, chunk, offset)
	case GET_LOCAL, SET_LOCAL, GET_UPVALUE, SET_UPVALUE, CALL:
		return byteInstruction(w, op, chunk, offset)
	case JUMP, JUMP_IF_FALSE, JUMP_IF_TRUE:
		return jumpInstruction(w, op, 1, chunk, offset)
	case LOOP:
		return jumpInstruction(w, op, -1, chunk, offset)
	case CLOSURE:
		return closureInstruction(w, chunk, offset)
	default:
		fmt.Fprintf(w, "%s\n", op)
		return offset + 1
	}
}

func constantInstruction(w io.Writer, op Opcode, chunk *types.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, chunk.Constants[idx].String())
	return offset + 2
}

func byteInstruction(w io.Writer, op Opcode, chunk *types.Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func jumpInstruction(w io.Writer, op Opcode, sign int, chunk *types.Chunk, offset int) int {
	dist := int(binary.BigEndian.Uint16(chunk.Code[offset+1 : offset+3]))
	target := offset + 3 + sign*dist
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}

func closureInstruction(w io.Writer, chunk *types.Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	offset += 2
	fn, _ := chunk.Constants[idx].(*types.ObjFunction)
	fmt.Fprintf(w, "%-16s %4d '%s'\n", CLOSURE, idx, chunk.Constants[idx].String())
	if fn != nil {
		for i := 0; i < fn.UpvalueCount; i++ {
			isLocal := chunk.Code[offset]
			index := chunk.Code[offset+1]
			kind := "upvalue"
			if isLocal != 0 {
				kind = "local"
			}
			fmt.Fprintf(w, "%04d      |                     %s %d\n", offset, kind, index)
			offset += 2
		}
	}
	return offset
}

package compiler_test

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/dynac/lang/compiler"
	"github.com/mna/dynac/lang/objmanager"
)

func TestConstantPoolOverflowIsCompileError(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteString("var v")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" = ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(";\n")
	}

	var stderr bytes.Buffer
	mgr := objmanager.New(nil)
	c := compiler.New(mgr, &stderr)
	_, ok := c.Compile(b.String())

	assert.False(t, ok)
	assert.Contains(t, stderr.String(), "Error")
}

func TestJumpPatchingEncodesForwardDistance(t *testing.T) {
	var stderr bytes.Buffer
	mgr := objmanager.New(nil)
	c := compiler.New(mgr, &stderr)
	fn, ok := c.Compile(`if (true) { print 1; } print 2;`)
	require.True(t, ok, stderr.String())

	code := fn.Chunk.Code
	jumpOffset := -1
	for i := 0; i < len(code); {
		op := compiler.Opcode(code[i])
		switch op {
		case compiler.JUMP_IF_FALSE:
			jumpOffset = i + 1
			i += 3
		case compiler.CONSTANT, compiler.GET_LOCAL, compiler.SET_LOCAL,
			compiler.GET_GLOBAL, compiler.SET_GLOBAL, compiler.DEFINE_GLOBAL,
			compiler.GET_UPVALUE, compiler.SET_UPVALUE, compiler.CALL:
			i += 2
		case compiler.JUMP, compiler.LOOP, compiler.JUMP_IF_TRUE:
			i += 3
		default:
			i++
		}
	}
	require.NotEqual(t, -1, jumpOffset, "expected a JumpIfFalse instruction")

	dist := int(binary.BigEndian.Uint16(code[jumpOffset : jumpOffset+2]))
	assert.NotEqual(t, 0xffff, dist, "placeholder bytes were never patched")

	target := jumpOffset + 2 + dist
	require.LessOrEqual(t, target, len(code))
	assert.Equal(t, compiler.POP, compiler.Opcode(code[target]),
		"a JumpIfFalse over a then-branch should land on the else-side Pop")
}

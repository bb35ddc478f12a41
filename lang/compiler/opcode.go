package compiler

import "fmt"

// Opcode is a single bytecode instruction. Each opcode is followed in the
// chunk by zero to three operand bytes, as documented below.
type Opcode uint8

// "x OP x x" is a "stack picture" that describes the state of the stack
// before and after execution of the instruction. <u8> and <u16> denote
// operand bytes immediately following the opcode in the chunk.
const ( //nolint:revive
	CONSTANT Opcode = iota //          - CONSTANT<u8>      value   push constant pool entry
	NIL                    //          - NIL                nil    push nil
	TRUE                   //          - TRUE               true   push true
	FALSE                  //          - FALSE              false  push false
	POP                    //          x POP                -      discard

	GET_LOCAL     //        - GET_LOCAL<u8>     x      push frame.base+slot
	SET_LOCAL     //        x SET_LOCAL<u8>     x      write frame.base+slot
	GET_GLOBAL    //        - GET_GLOBAL<u8>    x      push globals[name]
	SET_GLOBAL    //        x SET_GLOBAL<u8>    x      globals[name] = x; error if undefined
	DEFINE_GLOBAL //        x DEFINE_GLOBAL<u8> -      globals[name] = x
	GET_UPVALUE   //        - GET_UPVALUE<u8>   x      push current closure's upvalue
	SET_UPVALUE   //        x SET_UPVALUE<u8>   x      write current closure's upvalue

	EQUAL    //       a b EQUAL    bool
	GREATER  //       a b GREATER  bool   numbers only
	LESS     //       a b LESS     bool   numbers only
	ADD      //       a b ADD      c      number+number or string+string (interned)
	SUBTRACT //       a b SUBTRACT c      numbers only
	MULTIPLY //       a b MULTIPLY c      numbers only
	DIVIDE   //       a b DIVIDE   c      numbers only
	NOT      //         x NOT      bool   isFalsey(x)
	NEGATE   //         x NEGATE   -x     number only

	PRINT //            x PRINT    -      pop and print

	JUMP           //          - JUMP<u16>            -      ip += off
	JUMP_IF_FALSE  //        x JUMP_IF_FALSE<u16>      x      skip if falsey, does not pop
	JUMP_IF_TRUE   //        x JUMP_IF_TRUE<u16>       x      skip if truthy, does not pop
	LOOP           //          - LOOP<u16>             -      ip -= off

	CALL          //  fn a1..an CALL<u8>     result      argc operand; see call_value
	CLOSURE       //          - CLOSURE<u8>(u8,u8)*n  closure   fn_const then N (is_local,index) pairs
	CLOSE_UPVALUE //          x CLOSE_UPVALUE -         close any open upvalue aliasing top, then pop
	RETURN        //          x RETURN        -         pop return value, unwind frame
)

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

var opcodeNames = [...]string{
	CONSTANT:       "Constant",
	NIL:            "Nil",
	TRUE:           "True",
	FALSE:          "False",
	POP:            "Pop",
	GET_LOCAL:      "GetLocal",
	SET_LOCAL:      "SetLocal",
	GET_GLOBAL:     "GetGlobal",
	SET_GLOBAL:     "SetGlobal",
	DEFINE_GLOBAL:  "DefineGlobal",
	GET_UPVALUE:    "GetUpvalue",
	SET_UPVALUE:    "SetUpvalue",
	EQUAL:          "Equal",
	GREATER:        "Greater",
	LESS:           "Less",
	ADD:            "Add",
	SUBTRACT:       "Subtract",
	MULTIPLY:       "Multiply",
	DIVIDE:         "Divide",
	NOT:            "Not",
	NEGATE:         "Negate",
	PRINT:          "Print",
	JUMP:           "Jump",
	JUMP_IF_FALSE:  "JumpIfFalse",
	JUMP_IF_TRUE:   "JumpIfTrue",
	LOOP:           "Loop",
	CALL:           "Call",
	CLOSURE:        "Closure",
	CLOSE_UPVALUE:  "CloseUpvalue",
	RETURN:         "Return",
}

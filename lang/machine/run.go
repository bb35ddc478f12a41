package machine

import (
	"fmt"

	"github.com/mna/dynac/lang/compiler"
	"github.com/mna/dynac/lang/types"
)

// run executes bytecode until the outermost call frame returns or a
// runtime error is raised.
func (vm *VM) run() error {
	frame := &vm.frames[vm.frameCount-1]

	for {
		vm.steps++
		if vm.steps > vm.maxSteps {
			return vm.runtimeError(frame, "Too much computation.")
		}

		op := compiler.Opcode(frame.readByte())

		switch op {
		case compiler.CONSTANT:
			vm.push(frame.readConstant())

		case compiler.NIL:
			vm.push(types.NilValue)
		case compiler.TRUE:
			vm.push(types.True)
		case compiler.FALSE:
			vm.push(types.False)

		case compiler.POP:
			vm.pop()

		case compiler.GET_LOCAL:
			slot := frame.readByte()
			vm.push(vm.stack[frame.base+int(slot)])

		case compiler.SET_LOCAL:
			slot := frame.readByte()
			vm.stack[frame.base+int(slot)] = vm.peek(0)

		case compiler.GET_GLOBAL:
			name := frame.readConstant().(*types.ObjString)
			v, ok := vm.globals.Get(name.Content)
			if !ok {
				return vm.runtimeError(frame, "Undefined variable '%s'.", name.Content)
			}
			vm.push(v)

		case compiler.DEFINE_GLOBAL:
			name := frame.readConstant().(*types.ObjString)
			vm.globals.Set(name.Content, vm.peek(0))
			vm.pop()

		case compiler.SET_GLOBAL:
			name := frame.readConstant().(*types.ObjString)
			if isNew := vm.globals.Set(name.Content, vm.peek(0)); isNew {
				vm.globals.Delete(name.Content)
				return vm.runtimeError(frame, "Undefined variable '%s'.", name.Content)
			}

		case compiler.GET_UPVALUE:
			idx := frame.readByte()
			vm.push(*frame.closure.Upvalues[idx].Location)

		case compiler.SET_UPVALUE:
			idx := frame.readByte()
			*frame.closure.Upvalues[idx].Location = vm.peek(0)

		case compiler.EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(types.Bool(types.Equal(a, b)))

		case compiler.GREATER:
			if err := vm.binaryCompare(frame, func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case compiler.LESS:
			if err := vm.binaryCompare(frame, func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case compiler.ADD:
			if err := vm.add(frame); err != nil {
				return err
			}
		case compiler.SUBTRACT:
			if err := vm.binaryNumber(frame, func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case compiler.MULTIPLY:
			if err := vm.binaryNumber(frame, func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case compiler.DIVIDE:
			if err := vm.binaryNumber(frame, func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case compiler.NOT:
			vm.push(types.Bool(isFalsey(vm.pop())))

		case compiler.NEGATE:
			n, ok := vm.peek(0).(types.Number)
			if !ok {
				return vm.runtimeError(frame, "Operand must be a number.")
			}
			vm.pop()
			vm.push(-n)

		case compiler.PRINT:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case compiler.JUMP:
			off := frame.readShort()
			frame.ip += off

		case compiler.JUMP_IF_FALSE:
			off := frame.readShort()
			if isFalsey(vm.peek(0)) {
				frame.ip += off
			}

		case compiler.JUMP_IF_TRUE:
			off := frame.readShort()
			if !isFalsey(vm.peek(0)) {
				frame.ip += off
			}

		case compiler.LOOP:
			off := frame.readShort()
			frame.ip -= off

		case compiler.CALL:
			argc := int(frame.readByte())
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case compiler.CLOSURE:
			fn := frame.readConstant().(*types.ObjFunction)
			closure := vm.mgr.AllocClosure(fn)
			vm.push(closure)
			for i := range closure.Upvalues {
				isLocal := frame.readByte()
				index := frame.readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.base + int(index))
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}

		case compiler.CLOSE_UPVALUE:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case compiler.RETURN:
			result := vm.pop()
			vm.closeUpvalues(frame.base)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the implicit top-level closure
				return nil
			}
			vm.stackTop = frame.base
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		default:
			return vm.runtimeError(frame, "Unknown opcode %s.", op)
		}
	}
}

func isFalsey(v types.Value) bool { return !v.Truth() }

func (vm *VM) binaryNumber(frame *callFrame, op func(a, b float64) float64) error {
	b, bok := vm.peek(0).(types.Number)
	a, aok := vm.peek(1).(types.Number)
	if !aok || !bok {
		return vm.runtimeError(frame, "Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(types.Number(op(float64(a), float64(b))))
	return nil
}

func (vm *VM) binaryCompare(frame *callFrame, op func(a, b float64) bool) error {
	b, bok := vm.peek(0).(types.Number)
	a, aok := vm.peek(1).(types.Number)
	if !aok || !bok {
		return vm.runtimeError(frame, "Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(types.Bool(op(float64(a), float64(b))))
	return nil
}

func (vm *VM) add(frame *callFrame) error {
	b := vm.peek(0)
	a := vm.peek(1)

	if an, aok := a.(types.Number); aok {
		if bn, bok := b.(types.Number); bok {
			vm.pop()
			vm.pop()
			vm.push(an + bn)
			return nil
		}
	}
	if as, aok := a.(*types.ObjString); aok {
		if bs, bok := b.(*types.ObjString); bok {
			vm.pop()
			vm.pop()
			vm.push(vm.mgr.InternString(as.Content + bs.Content))
			return nil
		}
	}
	return vm.runtimeError(frame, "Operands must be two numbers or two strings.")
}

func (vm *VM) runtimeError(frame *callFrame, format string, args ...any) error {
	line := frame.line()
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Line: line}
}

package machine

import (
	"strconv"
	"unsafe"

	"github.com/mna/dynac/lang/types"
)

// callValue dispatches a call to callee with argc arguments already sitting
// on top of the stack (callee itself sits below them, at depth argc).
func (vm *VM) callValue(callee types.Value, argc int) error {
	switch c := callee.(type) {
	case *types.ObjClosure:
		return vm.call(c, argc)
	case *types.ObjNative:
		return vm.callNative(c, argc)
	default:
		return &RuntimeError{Message: "Can only call functions and classes.", Line: vm.currentLine()}
	}
}

func (vm *VM) currentLine() int {
	if vm.frameCount == 0 {
		return 0
	}
	return vm.frames[vm.frameCount-1].line()
}

func (vm *VM) call(closure *types.ObjClosure, argc int) error {
	if argc != closure.Function.Arity {
		return &RuntimeError{
			Message: "Expected " + strconv.Itoa(closure.Function.Arity) + " arguments but got " + strconv.Itoa(argc) + ".",
			Line:    vm.currentLine(),
		}
	}
	if vm.frameCount == maxFramesSize {
		return &RuntimeError{Message: "Stack overflow.", Line: vm.currentLine()}
	}

	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.base = vm.stackTop - argc - 1
	return nil
}

func (vm *VM) callNative(native *types.ObjNative, argc int) error {
	if argc != native.Arity {
		return &RuntimeError{
			Message: "Expected " + strconv.Itoa(native.Arity) + " arguments but got " + strconv.Itoa(argc) + ".",
			Line:    vm.currentLine(),
		}
	}

	args := vm.stack[vm.stackTop-argc : vm.stackTop]
	result, err := native.Fn(args)
	vm.stackTop -= argc + 1
	if err != nil {
		return &RuntimeError{Message: err.Error(), Line: vm.currentLine()}
	}
	vm.push(result)
	return nil
}

// captureUpvalue returns the open upvalue for the stack slot at absolute
// index slot, reusing an existing entry if one already references it, and
// otherwise inserting a new one at the position that keeps the open list
// sorted by descending stack address.
func (vm *VM) captureUpvalue(slot int) *types.ObjUpvalue {
	var prev *types.ObjUpvalue
	uv := vm.openUpvalues
	for uv != nil && uv.Location != &vm.stack[slot] {
		if slotIndex(vm, uv.Location) < slot {
			break
		}
		prev = uv
		uv = uv.Next
	}
	if uv != nil && uv.Location == &vm.stack[slot] {
		return uv
	}

	created := vm.mgr.AllocUpvalue(&vm.stack[slot])
	created.Next = uv
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

func slotIndex(vm *VM, loc *types.Value) int {
	base := unsafe.Pointer(&vm.stack[0])
	return int((uintptr(unsafe.Pointer(loc)) - uintptr(base)) / unsafe.Sizeof(vm.stack[0]))
}

// closeUpvalues closes every open upvalue whose slot is >= threshold,
// copying the current value into the upvalue itself and detaching it from
// the stack.
func (vm *VM) closeUpvalues(threshold int) {
	for vm.openUpvalues != nil && slotIndex(vm, vm.openUpvalues.Location) >= threshold {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
	}
}

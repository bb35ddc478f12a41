package machine

import "github.com/mna/dynac/lang/types"

// callFrame is one activation record: a reference to the callable object
// being executed, an instruction pointer into its chunk, and a base offset
// into the VM's value stack where the callee and its locals begin.
type callFrame struct {
	closure *types.ObjClosure
	ip      int
	base    int
}

func (f *callFrame) chunk() *types.Chunk { return &f.closure.Function.Chunk }

func (f *callFrame) readByte() byte {
	b := f.chunk().Code[f.ip]
	f.ip++
	return b
}

func (f *callFrame) readShort() int {
	hi := f.chunk().Code[f.ip]
	lo := f.chunk().Code[f.ip+1]
	f.ip += 2
	return int(hi)<<8 | int(lo)
}

func (f *callFrame) readConstant() types.Value {
	return f.chunk().Constants[f.readByte()]
}

func (f *callFrame) line() int {
	if f.ip == 0 {
		return f.chunk().Lines[0]
	}
	return f.chunk().Lines[f.ip-1]
}

package types

// ObjFunction is a compiled function: its arity, the number of upvalues it
// closes over, its own chunk of bytecode, and an optional name (the
// top-level script body is anonymous).
type ObjFunction struct {
	Arity        int
	UpvalueCount int
	Chunk        Chunk
	Name         *ObjString
}

var _ Object = (*ObjFunction)(nil)

// NewFunction allocates an empty, unnamed function with an empty chunk
// ready to be filled in by the compiler.
func NewFunction() *ObjFunction { return &ObjFunction{} }

func (fn *ObjFunction) Kind() Kind   { return KindFunction }
func (fn *ObjFunction) Type() string { return "function" }
func (fn *ObjFunction) Truth() bool  { return true }

func (fn *ObjFunction) String() string {
	if fn.Name == nil {
		return "<script>"
	}
	return "<fn " + fn.Name.Content + ">"
}

func (fn *ObjFunction) Size() int {
	return 32 + len(fn.Chunk.Code) + len(fn.Chunk.Lines)*8 + len(fn.Chunk.Constants)*16
}

package types

// ObjClosure pairs a compiled function with the upvalues it captured at the
// point it was created. Every call to a function goes through a closure,
// even one that captures nothing.
type ObjClosure struct {
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

var _ Object = (*ObjClosure)(nil)

// NewClosure allocates a closure over fn with slots for its upvalues left
// nil; the compiler's Closure opcode operands tell the machine how to fill
// them in (capture a local or reuse an enclosing upvalue).
func NewClosure(fn *ObjFunction) *ObjClosure {
	return &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCount)}
}

func (c *ObjClosure) Kind() Kind     { return KindClosure }
func (c *ObjClosure) Type() string   { return "function" }
func (c *ObjClosure) Truth() bool    { return true }
func (c *ObjClosure) String() string { return c.Function.String() }
func (c *ObjClosure) Size() int      { return 16 + len(c.Upvalues)*8 }

package types

// NativeFn is the Go function backing a native (built-in) function value. It
// receives its arguments as a slice of the stack slots holding them (the
// machine pops them after the call returns) and returns the result, or an
// error that the machine turns into a runtime error.
type NativeFn func(args []Value) (Value, error)

// ObjNative wraps a Go function so it can be called from compiled code like
// any other function value.
type ObjNative struct {
	Name  *ObjString
	Arity int
	Fn    NativeFn
}

var _ Object = (*ObjNative)(nil)

func (n *ObjNative) Kind() Kind     { return KindNative }
func (n *ObjNative) Type() string   { return "native function" }
func (n *ObjNative) Truth() bool    { return true }
func (n *ObjNative) String() string { return "<native fn " + n.Name.Content + ">" }
func (n *ObjNative) Size() int      { return 32 }

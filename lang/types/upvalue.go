package types

// ObjUpvalue is a reference to a variable that outlives the stack frame that
// declared it. While open, Location points directly into the value stack;
// Close copies the value out and repoints Location at Closed so the closure
// keeps working after the owning frame returns.
type ObjUpvalue struct {
	Location *Value
	Closed   Value
	Next     *ObjUpvalue // intrusive link in the machine's open-upvalues list
}

var _ Object = (*ObjUpvalue)(nil)

// NewUpvalue allocates an open upvalue pointing at a stack slot.
func NewUpvalue(slot *Value) *ObjUpvalue {
	return &ObjUpvalue{Location: slot, Closed: NilValue}
}

// Close copies the referenced value into the upvalue itself and repoints
// Location at that copy, detaching it from the stack slot it used to alias.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

func (u *ObjUpvalue) Kind() Kind     { return KindUpvalue }
func (u *ObjUpvalue) Type() string   { return "upvalue" }
func (u *ObjUpvalue) Truth() bool    { return true }
func (u *ObjUpvalue) String() string { return "<upvalue>" }
func (u *ObjUpvalue) Size() int      { return 24 }

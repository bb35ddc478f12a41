package types

// ObjTrait describes a named set of method signatures a struct type may
// claim to implement. Nothing in the compiled grammar emits traits yet;
// the kind is reserved so the machine and collector already know how to
// handle it once trait declarations are added.
type ObjTrait struct {
	Name        *ObjString
	MethodNames []string
}

var _ Object = (*ObjTrait)(nil)

// NewTrait allocates an empty trait descriptor that method names can be
// appended to.
func NewTrait(name *ObjString) *ObjTrait {
	return &ObjTrait{Name: name}
}

// AddMethod appends a method name to the trait's signature list.
func (t *ObjTrait) AddMethod(name string) {
	t.MethodNames = append(t.MethodNames, name)
}

func (t *ObjTrait) Kind() Kind     { return KindTrait }
func (t *ObjTrait) Type() string   { return "trait" }
func (t *ObjTrait) Truth() bool    { return true }
func (t *ObjTrait) String() string { return "<trait " + t.Name.Content + ">" }

func (t *ObjTrait) Size() int {
	n := 16
	for _, m := range t.MethodNames {
		n += len(m) + 16
	}
	return n
}

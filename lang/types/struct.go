package types

// ObjStructType describes a struct's shape: its name and the field names in
// declaration order, indexed for constant-time lookup when building or
// accessing an instance. Nothing in the compiled grammar emits struct types
// yet; they exist so the machine's object kinds and the garbage collector
// already know how to trace them once struct declarations are added.
type ObjStructType struct {
	Name       *ObjString
	FieldNames []string
	FieldIndex map[string]int
}

var _ Object = (*ObjStructType)(nil)

// NewStructType allocates an empty struct type that fields can be appended to.
func NewStructType(name *ObjString) *ObjStructType {
	return &ObjStructType{Name: name, FieldIndex: make(map[string]int)}
}

// AddField appends a field to the type and returns its slot index.
func (t *ObjStructType) AddField(name string) int {
	idx := len(t.FieldNames)
	t.FieldNames = append(t.FieldNames, name)
	t.FieldIndex[name] = idx
	return idx
}

func (t *ObjStructType) Kind() Kind     { return KindStructType }
func (t *ObjStructType) Type() string   { return "struct type" }
func (t *ObjStructType) Truth() bool    { return true }
func (t *ObjStructType) String() string { return "<struct " + t.Name.Content + ">" }

func (t *ObjStructType) Size() int {
	n := 16
	for _, f := range t.FieldNames {
		n += len(f) + 16
	}
	return n
}

// ObjStructInstance is a single instance of a struct type, with fields held
// in a slice parallel to the type's FieldNames.
type ObjStructInstance struct {
	StructType *ObjStructType
	Fields     []Value
}

var _ Object = (*ObjStructInstance)(nil)

// NewStructInstance allocates an instance of t with every field set to nil.
func NewStructInstance(t *ObjStructType) *ObjStructInstance {
	fields := make([]Value, len(t.FieldNames))
	for i := range fields {
		fields[i] = NilValue
	}
	return &ObjStructInstance{StructType: t, Fields: fields}
}

func (i *ObjStructInstance) Kind() Kind     { return KindStructInstance }
func (i *ObjStructInstance) Type() string   { return "struct instance" }
func (i *ObjStructInstance) Truth() bool    { return true }
func (i *ObjStructInstance) String() string { return "<" + i.StructType.Name.Content + " instance>" }
func (i *ObjStructInstance) Size() int      { return 16 + len(i.Fields)*16 }

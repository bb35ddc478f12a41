package types

// ObjString is a heap-allocated string. The intern table guarantees that two
// strings with the same content share a single ObjString, so string equality
// reduces to pointer identity.
type ObjString struct {
	Content string
}

var _ Object = (*ObjString)(nil)

// NewString allocates an ObjString wrapping content. Callers that want
// interning semantics go through the intern table rather than calling this
// directly; the object manager does so on their behalf.
func NewString(content string) *ObjString { return &ObjString{Content: content} }

func (s *ObjString) Kind() Kind     { return KindString }
func (s *ObjString) Type() string   { return "string" }
func (s *ObjString) Truth() bool    { return true }
func (s *ObjString) String() string { return s.Content }
func (s *ObjString) Size() int      { return 16 + len(s.Content) }

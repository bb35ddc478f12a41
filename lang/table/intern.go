package table

import (
	"github.com/dolthub/swiss"
	"github.com/mna/dynac/lang/types"
)

// Interner deduplicates ObjString allocations by content, so that any two
// strings with equal content share a single object and string equality
// reduces to pointer identity.
type Interner struct {
	m *swiss.Map[string, *types.ObjString]
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{m: swiss.NewMap[string, *types.ObjString](64)}
}

// Intern returns the canonical *ObjString for content, allocating and
// registering a new one via alloc if this is the first time content is seen.
// alloc is called with content and must return a freshly constructed,
// not-yet-registered string object; the caller (normally the object manager)
// is responsible for tracking it for collection.
func (in *Interner) Intern(content string, alloc func(string) *types.ObjString) (s *types.ObjString, isNew bool) {
	if existing, ok := in.m.Get(content); ok {
		return existing, false
	}
	s = alloc(content)
	in.m.Put(content, s)
	return s, true
}

// Lookup returns the already-interned string with the given content, if any.
func (in *Interner) Lookup(content string) (*types.ObjString, bool) {
	return in.m.Get(content)
}

// Delete removes content's entry, used when the collector sweeps the
// backing ObjString away.
func (in *Interner) Delete(content string) {
	in.m.Delete(content)
}

// Len returns the number of interned strings.
func (in *Interner) Len() int { return int(in.m.Count()) }

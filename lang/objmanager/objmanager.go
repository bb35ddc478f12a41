// Package objmanager owns every heap object the machine allocates, tracks
// their aggregate byte footprint, and decides when that footprint warrants
// asking the collector to run.
package objmanager

import (
	"github.com/mna/dynac/lang/table"
	"github.com/mna/dynac/lang/types"
)

const (
	// MinHeap is the smallest value nextTrigger is ever allowed to take, so a
	// freshly started machine does not collect after a handful of bytes.
	MinHeap = 1 << 20 // 1 MiB

	// GrowFactor scales the live-byte count measured after a cycle into the
	// trigger for the next one.
	GrowFactor = 2
)

// Manager owns the set of live heap objects, accounts for their size, and
// routes string allocation through an intern table so that identical
// content is never allocated twice.
type Manager struct {
	objects     map[types.Object]struct{}
	interner    *table.Interner
	liveBytes   int
	nextTrigger int
	collectFn   func()
	collecting  bool
}

// New returns an empty manager. collect is invoked whenever an allocation
// pushes liveBytes at or past the trigger threshold; it is expected to mark
// roots, sweep via Manager.Remove/RemoveString, and update nextTrigger via
// Manager.RecordCycle.
func New(collect func()) *Manager {
	return &Manager{
		objects:     make(map[types.Object]struct{}),
		interner:    table.NewInterner(),
		nextTrigger: MinHeap,
		collectFn:   collect,
	}
}

// LiveBytes returns the current accounted heap footprint.
func (m *Manager) LiveBytes() int { return m.liveBytes }

// NextTrigger returns the live-byte threshold that triggers the next cycle.
func (m *Manager) NextTrigger() int { return m.nextTrigger }

// Len returns the number of live objects.
func (m *Manager) Len() int { return len(m.objects) }

// Iter calls fn for every live object. fn must not register or remove
// objects from the manager while iterating.
func (m *Manager) Iter(fn func(types.Object)) {
	for obj := range m.objects {
		fn(obj)
	}
}

// register adds obj to the live set and accounts for its size, triggering a
// collection if the new total reaches nextTrigger. Collection is
// re-entrancy-guarded: objects allocated by a collector callback (there are
// none today, but native functions may allocate) are never asked to
// recursively collect.
func (m *Manager) register(obj types.Object) {
	m.objects[obj] = struct{}{}
	m.liveBytes += obj.Size()
	if !m.collecting && m.collectFn != nil && m.liveBytes >= m.nextTrigger {
		m.collecting = true
		m.collectFn()
		m.collecting = false
	}
}

// Remove unregisters obj and deducts its size from the live total. It is
// called by the collector's sweep phase once an object is confirmed
// unreachable.
func (m *Manager) Remove(obj types.Object) {
	if _, ok := m.objects[obj]; !ok {
		return
	}
	delete(m.objects, obj)
	m.liveBytes -= obj.Size()
}

// RecordCycle updates nextTrigger after a completed GC cycle, following
// nextTrigger = max(MinHeap, after * GrowFactor).
func (m *Manager) RecordCycle() {
	next := m.liveBytes * GrowFactor
	if next < MinHeap {
		next = MinHeap
	}
	m.nextTrigger = next
}

// AllocFunction allocates and registers a new, empty function object.
func (m *Manager) AllocFunction() *types.ObjFunction {
	fn := types.NewFunction()
	m.register(fn)
	return fn
}

// AllocNative allocates and registers a native function object.
func (m *Manager) AllocNative(name *types.ObjString, arity int, impl types.NativeFn) *types.ObjNative {
	n := &types.ObjNative{Name: name, Arity: arity, Fn: impl}
	m.register(n)
	return n
}

// AllocClosure allocates and registers a closure over fn.
func (m *Manager) AllocClosure(fn *types.ObjFunction) *types.ObjClosure {
	c := types.NewClosure(fn)
	m.register(c)
	return c
}

// AllocUpvalue allocates and registers an open upvalue pointing at slot.
func (m *Manager) AllocUpvalue(slot *types.Value) *types.ObjUpvalue {
	u := types.NewUpvalue(slot)
	m.register(u)
	return u
}

// AllocStructType allocates and registers a new struct type.
func (m *Manager) AllocStructType(name *types.ObjString) *types.ObjStructType {
	t := types.NewStructType(name)
	m.register(t)
	return t
}

// AllocStructInstance allocates and registers an instance of t.
func (m *Manager) AllocStructInstance(t *types.ObjStructType) *types.ObjStructInstance {
	inst := types.NewStructInstance(t)
	m.register(inst)
	return inst
}

// AllocTrait allocates and registers a new trait descriptor.
func (m *Manager) AllocTrait(name *types.ObjString) *types.ObjTrait {
	t := types.NewTrait(name)
	m.register(t)
	return t
}

// InternString returns the canonical ObjString for content, allocating and
// registering a new one only if content has never been seen before.
func (m *Manager) InternString(content string) *types.ObjString {
	s, isNew := m.interner.Intern(content, types.NewString)
	if isNew {
		m.register(s)
	}
	return s
}

// RemoveString additionally drops content's intern-table entry; used by the
// collector when it sweeps away an ObjString.
func (m *Manager) RemoveString(s *types.ObjString) {
	m.interner.Delete(s.Content)
	m.Remove(s)
}

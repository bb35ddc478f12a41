// Package gc implements the tri-color mark-and-sweep collector: white
// objects are unreached, gray objects are reached but not yet traced, black
// objects are reached and fully traced. Colors are not stored on the
// objects themselves; the collector reconstructs them fresh for every
// cycle as three sets over the object manager's current registry.
package gc

import (
	"fmt"
	"log"

	"golang.org/x/exp/slices"

	"github.com/mna/dynac/lang/objmanager"
	"github.com/mna/dynac/lang/types"
)

// Roots is implemented by whatever owns the machine state the collector
// must not reclaim: the value stack, the globals table, the active call
// frames (whose first stack slot holds their callable), and the open-upvalue
// list. The string intern table is not a root: an interned string survives
// only if it is reachable from these.
type Roots interface {
	StackValues() []types.Value
	GlobalValues() []types.Value
	FrameCallables() []types.Value
	OpenUpvalues() []*types.ObjUpvalue
}

// Stats aggregates collector activity across the machine's lifetime.
type Stats struct {
	Cycles          int
	TotalFreedBytes int
	LastFreedBytes  int
	LastBeforeBytes int
	LastAfterBytes  int
	LastNextTrigger int
}

// Collector runs mark-and-sweep cycles against an object manager. Debug
// turns on per-step tracing to the standard logger, mirroring the teacher's
// debug-gated GC logging.
type Collector struct {
	white, gray, black map[types.Object]struct{}
	stats              Stats
	Debug              bool
}

// New returns a collector with empty color sets.
func New() *Collector {
	return &Collector{
		white: make(map[types.Object]struct{}),
		gray:  make(map[types.Object]struct{}),
		black: make(map[types.Object]struct{}),
	}
}

// Stats returns the collector's cumulative statistics.
func (c *Collector) Stats() Stats { return c.stats }

// Collect runs one full mark-and-sweep cycle: every live object starts
// white, roots are marked gray, gray objects are traced to black until none
// remain, and whatever is still white is swept from mgr. It returns the
// number of bytes freed.
func (c *Collector) Collect(mgr *objmanager.Manager, roots Roots) int {
	before := mgr.LiveBytes()
	c.prepare(mgr)
	c.markRoots(roots)
	c.traceReferences()
	freed := c.sweep(mgr)
	after := mgr.LiveBytes()
	mgr.RecordCycle()

	c.stats.Cycles++
	c.stats.TotalFreedBytes += freed
	c.stats.LastFreedBytes = freed
	c.stats.LastBeforeBytes = before
	c.stats.LastAfterBytes = after
	c.stats.LastNextTrigger = mgr.NextTrigger()

	if c.Debug {
		log.Printf("gc: cycle=%d freed=%d before=%d after=%d next_trigger=%d",
			c.stats.Cycles, freed, before, after, mgr.NextTrigger())
	}
	return freed
}

func (c *Collector) prepare(mgr *objmanager.Manager) {
	clear(c.white)
	clear(c.gray)
	clear(c.black)
	mgr.Iter(func(obj types.Object) { c.white[obj] = struct{}{} })
}

func (c *Collector) markObject(obj types.Object) {
	if obj == nil {
		return
	}
	if _, black := c.black[obj]; black {
		return
	}
	if _, white := c.white[obj]; white {
		delete(c.white, obj)
		c.gray[obj] = struct{}{}
		if c.Debug {
			log.Printf("gc: mark %s %p", obj.Kind(), obj)
		}
	}
}

func (c *Collector) markValue(v types.Value) {
	if obj, ok := v.(types.Object); ok {
		c.markObject(obj)
	}
}

func (c *Collector) markRoots(roots Roots) {
	for _, v := range roots.StackValues() {
		c.markValue(v)
	}
	for _, v := range roots.GlobalValues() {
		c.markValue(v)
	}
	for _, v := range roots.FrameCallables() {
		c.markValue(v)
	}
	for _, uv := range roots.OpenUpvalues() {
		c.markObject(uv)
	}
}

func (c *Collector) traceReferences() {
	for len(c.gray) > 0 {
		var obj types.Object
		for o := range c.gray {
			obj = o
			break
		}
		delete(c.gray, obj)
		c.black[obj] = struct{}{}
		if c.Debug {
			log.Printf("gc: blacken %s %p", obj.Kind(), obj)
		}
		c.blacken(obj)
	}
}

// blacken marks every object directly reachable from obj.
func (c *Collector) blacken(obj types.Object) {
	switch o := obj.(type) {
	case *types.ObjClosure:
		c.markObject(o.Function)
		for _, uv := range o.Upvalues {
			c.markObject(uv)
		}
	case *types.ObjFunction:
		for _, k := range o.Chunk.Constants {
			c.markValue(k)
		}
	case *types.ObjUpvalue:
		c.markValue(*o.Location)
	case *types.ObjStructType:
		// Field names are plain strings, not GC values; nothing to trace.
	case *types.ObjStructInstance:
		c.markObject(o.StructType)
		for _, f := range o.Fields {
			c.markValue(f)
		}
	case *types.ObjTrait:
		// Method names are plain strings, not GC values; nothing to trace.
	}
}

// sweep removes every object still in the white set from mgr, freeing the
// string intern entry too when the object is a string.
func (c *Collector) sweep(mgr *objmanager.Manager) int {
	freed := 0
	for obj := range c.white {
		freed += obj.Size()
		if s, ok := obj.(*types.ObjString); ok {
			mgr.RemoveString(s)
		} else {
			mgr.Remove(obj)
		}
	}

	if c.Debug && len(c.white) > 0 {
		c.logSweptSorted()
	}

	clear(c.white)
	return freed
}

// logSweptSorted logs the swept objects in a deterministic order (by their
// kind and pointer text) so debug traces diff cleanly across runs despite
// white being an unordered map.
func (c *Collector) logSweptSorted() {
	descs := make([]string, 0, len(c.white))
	for obj := range c.white {
		descs = append(descs, fmt.Sprintf("%s %p", obj.Kind(), obj))
	}
	slices.Sort(descs)
	for _, d := range descs {
		log.Printf("gc: sweep %s", d)
	}
}

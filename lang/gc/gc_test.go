package gc_test

import (
	"testing"

	"github.com/mna/dynac/lang/gc"
	"github.com/mna/dynac/lang/objmanager"
	"github.com/mna/dynac/lang/types"
)

// fakeRoots is a minimal Roots implementation for exercising the collector
// without a machine.
type fakeRoots struct {
	stack   []types.Value
	globals []types.Value
	frames  []types.Value
	upvals  []*types.ObjUpvalue
}

func (r fakeRoots) StackValues() []types.Value       { return r.stack }
func (r fakeRoots) GlobalValues() []types.Value      { return r.globals }
func (r fakeRoots) FrameCallables() []types.Value    { return r.frames }
func (r fakeRoots) OpenUpvalues() []*types.ObjUpvalue { return r.upvals }

func TestCollectSweepsUnreachableStrings(t *testing.T) {
	mgr := objmanager.New(nil)
	keep := mgr.InternString("keep")
	mgr.InternString("drop1")
	mgr.InternString("drop2")

	c := gc.New()
	freed := c.Collect(mgr, fakeRoots{stack: []types.Value{keep}})
	if freed <= 0 {
		t.Error("expected some bytes to be freed")
	}
	if mgr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", mgr.Len())
	}
}

func TestCollectPreservesClosureAndFunction(t *testing.T) {
	mgr := objmanager.New(nil)
	fn := mgr.AllocFunction()
	closure := mgr.AllocClosure(fn)
	mgr.AllocFunction() // unreachable

	c := gc.New()
	c.Collect(mgr, fakeRoots{stack: []types.Value{closure}})
	if mgr.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (closure + its function)", mgr.Len())
	}
}

func TestCollectMarksThroughUpvalue(t *testing.T) {
	mgr := objmanager.New(nil)
	s := mgr.InternString("captured")
	var slot types.Value = s
	uv := mgr.AllocUpvalue(&slot)

	c := gc.New()
	c.Collect(mgr, fakeRoots{upvals: []*types.ObjUpvalue{uv}})
	if mgr.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (upvalue + captured string)", mgr.Len())
	}
}

func TestStatsRecordCycle(t *testing.T) {
	mgr := objmanager.New(nil)
	mgr.InternString("x")
	c := gc.New()
	c.Collect(mgr, fakeRoots{})
	st := c.Stats()
	if st.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", st.Cycles)
	}
	if st.LastFreedBytes != st.TotalFreedBytes {
		t.Errorf("after one cycle LastFreedBytes should equal TotalFreedBytes")
	}
}

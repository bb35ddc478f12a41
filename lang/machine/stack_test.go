package machine

import (
	"bytes"
	"testing"
)

// Stack neutrality: after any successful interpretation the value stack is
// empty and no call frames remain.
func TestStackNeutralityAfterSuccess(t *testing.T) {
	var out, errs bytes.Buffer
	vm := New(&out, &errs)

	programs := []string{
		`print 1 + 2;`,
		`fn f(a){return a*2;} print f(21);`,
		`fn outer(){var x=1; fn inner(){return x;} return inner;} print outer()();`,
	}
	for _, src := range programs {
		if err := vm.Interpret(src); err != nil {
			t.Fatalf("Interpret(%q): %v (diagnostics: %s)", src, err, errs.String())
		}
		if vm.stackTop != 0 {
			t.Errorf("after %q: stackTop = %d, want 0", src, vm.stackTop)
		}
		if vm.frameCount != 0 {
			t.Errorf("after %q: frameCount = %d, want 0", src, vm.frameCount)
		}
	}
}

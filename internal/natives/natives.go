// Package natives implements the built-in native functions installed into
// every VM: name, arity, and a synchronous Go function satisfying the
// language's native-function contract.
package natives

import (
	"time"

	"github.com/mna/dynac/lang/types"
)

// Host is the subset of *machine.VM natives need to install themselves,
// kept narrow so this package does not import machine.
type Host interface {
	DefineNative(name string, arity int, fn types.NativeFn)
}

// Install registers every native function on host.
func Install(host Host) {
	host.DefineNative("clock", 0, clock)
}

// clock returns the number of milliseconds elapsed since the Unix epoch,
// matching the required built-in described for timing scripts.
func clock(args []types.Value) (types.Value, error) {
	return types.Number(float64(time.Now().UnixMilli())), nil
}

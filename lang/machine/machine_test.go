package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/dynac/internal/natives"
	"github.com/mna/dynac/lang/machine"
)

func run(t *testing.T, src string) (stdout string, err error) {
	t.Helper()
	var out, errs bytes.Buffer
	vm := machine.New(&out, &errs)
	natives.Install(vm)
	err = vm.Interpret(src)
	if err != nil {
		t.Logf("compiler/runtime diagnostics: %s", errs.String())
	}
	return out.String(), err
}

func TestBooleanLogicExpression(t *testing.T) {
	_, err := run(t, `!(5 - 4 > 3 * 2 == !nil);`)
	require.NoError(t, err)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "st" + "ri" + "ng";`)
	require.NoError(t, err)
	assert.Equal(t, "string\n", out)
}

func TestVariableDeclarationAndConcat(t *testing.T) {
	out, err := run(t, `var beverage = "coffee"; var breakfast = "beignets with " + beverage; print breakfast;`)
	require.NoError(t, err)
	assert.Equal(t, "beignets with coffee\n", out)
}

func TestFunctionCallAndArithmetic(t *testing.T) {
	out, err := run(t, `fn sum(a,b,c){return a+b+c;} print 4 + sum(5,6,7);`)
	require.NoError(t, err)
	assert.Equal(t, "22\n", out)
}

func TestRecursiveFibonacci(t *testing.T) {
	out, err := run(t, `fn fib(n){ if (n<2) return n; return fib(n-2)+fib(n-1);} print fib(5);`)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestClosureCapturesOuterLocal(t *testing.T) {
	out, err := run(t, `fn outer(){ var x="outside"; fn inner(){print x;} return inner;} var c=outer(); c();`)
	require.NoError(t, err)
	assert.Equal(t, "outside\n", out)
}

func TestSharedUpvalueBetweenClosures(t *testing.T) {
	out, err := run(t, `var gs; var gg; fn m(){ var a="i"; fn s(v){a=v;} fn g(){print a;} gs=s; gg=g;} m(); gs("u"); gg(); gs("i"); gg();`)
	require.NoError(t, err)
	assert.Equal(t, "u\ni\n", out)
}

func TestUndefinedGlobalReadIsRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "Undefined variable")
}

func TestUndefinedGlobalAssignIsRuntimeError(t *testing.T) {
	_, err := run(t, `nope = 1;`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "Undefined variable")
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "Can only call")
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `fn f(a,b){return a+b;} f(1);`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "Expected")
}

func TestClockNativeReturnsNumber(t *testing.T) {
	out, err := run(t, `print clock() > 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestCompileErrorReported(t *testing.T) {
	var out, errs bytes.Buffer
	vm := machine.New(&out, &errs)
	natives.Install(vm)
	err := vm.Interpret(`var = 1;`)
	require.Error(t, err)
	assert.True(t, strings.Contains(errs.String(), "[line 1] Error"))
}

func TestMaxStepsAbortsRunawayLoop(t *testing.T) {
	var out, errs bytes.Buffer
	vm := machine.New(&out, &errs)
	vm.MaxSteps = 50
	natives.Install(vm)

	err := vm.Interpret(`var i = 0; while (true) { i = i + 1; }`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "Too much computation")
}

func TestWhileLoopAndFor(t *testing.T) {
	out, err := run(t, `var i = 0; while (i < 3) { print i; i = i + 1; }`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)

	out, err = run(t, `for (var i = 0; i < 3; i = i + 1) { print i; }`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestLogicalAndOrShortCircuit(t *testing.T) {
	out, err := run(t, `var ran = false; fn mark(){ran = true; return true;} false and mark(); print ran;`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	out, err = run(t, `var ran = false; fn mark(){ran = true; return true;} true or mark(); print ran;`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

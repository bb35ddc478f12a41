package maincmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/dynac/internal/natives"
	"github.com/mna/dynac/lang/machine"
)

// runScript reads the file at path in full and interprets it as a single
// program.
func runScript(ctx context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return exitIOError
	}

	vm := machine.New(stdio.Stdout, stdio.Stderr)
	vm.Stdin = stdio.Stdin
	natives.Install(vm)

	if err := vm.Interpret(string(src)); err != nil {
		return exitCodeFor(stdio, err)
	}
	return mainer.Success
}

// runREPL reads lines from stdin, interpreting each as a complete program
// against a VM shared across the whole session, echoing a "> " prompt.
func runREPL(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	vm := machine.New(stdio.Stdout, stdio.Stderr)
	vm.Stdin = stdio.Stdin
	natives.Install(vm)

	scanner := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := vm.Interpret(line); err != nil {
			exitCodeFor(stdio, err) // REPL keeps going after a reported error
		}
	}
	return mainer.Success
}

func exitCodeFor(stdio mainer.Stdio, err error) mainer.ExitCode {
	var rerr *machine.RuntimeError
	if errors.As(err, &rerr) {
		fmt.Fprintln(stdio.Stderr, rerr.Error())
		return exitRuntime
	}
	// compile errors have already been printed to stderr by the compiler.
	return exitCompile
}

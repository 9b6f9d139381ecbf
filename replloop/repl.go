// Package replloop is the external, line-buffering REPL collaborator: it
// owns stdin/stdout interaction and feeds whatever it reads through the
// reader and into one shared VM and namespace, exactly as the teacher's
// lisp.Repl/lisp.LoadFile did for the cons-cell interpreter.
package replloop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"sexpvm/engine"
	"sexpvm/reader"
)

// LoadFile reads path whole, compiles every form in it, appends a
// trailing stop, and runs it against vm/ns.
func LoadFile(vm *engine.VM, ns *engine.Namespace, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return runTurn(vm, ns, io.Discard, path, string(data))
}

// Repl reads lines from in until a blank line, compiles and runs whatever
// accumulated since the last blank line, and prints the result (or an
// error) to out. It loops until in is exhausted.
func Repl(vm *engine.VM, ns *engine.Namespace, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if buf.Len() > 0 {
				runTurn(vm, ns, out, "<repl>", buf.String())
				buf.Reset()
			}
			fmt.Fprint(out, "> ")
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if buf.Len() > 0 {
		runTurn(vm, ns, out, "<repl>", buf.String())
	}
}

func runTurn(vm *engine.VM, ns *engine.Namespace, out io.Writer, source, src string) error {
	forms, err := reader.ReadAll(source, src)
	if err != nil {
		fmt.Fprintln(out, err)
		return err
	}
	startPc := vm.CurrentPc()
	if err := engine.EmitProgram(vm, ns, forms); err != nil {
		fmt.Fprintln(out, err)
		return err
	}
	vm.Emit(engine.Op{Kind: engine.OpStop})
	v, err := vm.Eval(startPc)
	if err != nil {
		fmt.Fprintln(out, err)
		return err
	}
	if v.Type == nil {
		fmt.Fprintln(out, "_")
	} else {
		fmt.Fprintln(out, v.Type.Display(v))
	}
	return nil
}

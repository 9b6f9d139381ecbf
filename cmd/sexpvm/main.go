// Command sexpvm is the process entry point: it wires the reader, the
// standard namespace, and the VM together, loading any source files
// given on the command line and otherwise falling back to an interactive
// REPL, following the teacher's main.go.
package main

import (
	"fmt"
	"os"

	"sexpvm/engine"
	"sexpvm/replloop"
	"sexpvm/stdlib"
)

func main() {
	vm := engine.NewVM()
	ns := stdlib.RootNamespace()

	args := os.Args[1:]
	if len(args) == 0 {
		replloop.Repl(vm, ns, os.Stdin, os.Stdout)
		return
	}
	for _, path := range args {
		if err := replloop.LoadFile(vm, ns, path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

// Package stdlib installs the standard macros and functions into a root
// namespace: the handful of special forms and primitives every sexpvm
// program is compiled against.
package stdlib

import "sexpvm/engine"

func bindMacro(ns *engine.Namespace, name string, body func(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error) {
	ns.Bind(name, engine.MacroValue(&engine.Macro{Name: name, Body: body}))
}

func missingArg(pos engine.Position, name string) error {
	return &engine.EmitError{Pos: pos, Kind: engine.MissingArgument, Name: name}
}

// function(name, (params...), body...): binds name to a new Function in
// the enclosing namespace before compiling the body, so recursive calls
// resolve; the body is compiled with empty opts throughout — reaching a
// tail call requires an explicit return.
func functionMacro(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error {
	nameForm, ok := args.Next()
	if !ok {
		return missingArg(pos, "function")
	}
	nameID, ok := nameForm.(engine.Identifier)
	if !ok {
		return missingArg(nameForm.Position(), "function")
	}

	paramsForm, ok := args.Next()
	if !ok {
		return missingArg(pos, "function")
	}
	paramsList, ok := paramsForm.(engine.List)
	if !ok {
		return missingArg(paramsForm.Position(), "function")
	}
	params := make([]string, 0, len(paramsList.Items))
	for _, item := range paramsList.Items {
		pid, ok := item.(engine.Identifier)
		if !ok {
			return missingArg(item.Position(), "function")
		}
		params = append(params, pid.Name)
	}

	startPc := new(int)
	f := &engine.Function{Name: nameID.Name, Params: params, StartPc: startPc}
	ns.Bind(nameID.Name, engine.FunctionValue(f))

	skip := vm.Reserve()
	*startPc = vm.CurrentPc()

	child := engine.NewNamespace(ns)
	for i, p := range params {
		child.Bind(p, engine.ArgumentValue(i))
	}
	if err := engine.DrainBody(vm, child, args); err != nil {
		return err
	}
	vm.Emit(engine.Op{Kind: engine.OpPopCall, Pos: pos, Function: f})
	vm.Backpatch(skip, engine.Op{Kind: engine.OpGoto, Index: vm.CurrentPc()})
	return nil
}

// return(expr): emits expr in tail position, regardless of the position
// return itself was reached at. Used outside of any function body it
// still compiles — the tailCall it produces degrades to an ordinary call
// at runtime when there is no current frame to reuse.
func returnMacro(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error {
	exprForm, ok := args.Next()
	if !ok {
		return missingArg(pos, "return")
	}
	return exprForm.Emit(vm, ns, args, engine.EmitOptions{Returning: true})
}

// if(cond, then, else, alt): cond is always evaluated in call position;
// whichever of then/alt actually runs is the form's own tail position, so
// both are compiled with the opts if itself received.
func ifMacro(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error {
	condForm, ok := args.Next()
	if !ok {
		return missingArg(pos, "if")
	}
	thenForm, ok := args.Next()
	if !ok {
		return missingArg(pos, "if")
	}

	if err := condForm.Emit(vm, ns, args, engine.EmitOptions{}); err != nil {
		return err
	}
	branchPc := vm.Reserve()

	if err := thenForm.Emit(vm, ns, args, opts); err != nil {
		return err
	}
	gotoPc := vm.Reserve()
	vm.Backpatch(branchPc, engine.Op{Kind: engine.OpBranch, Pos: pos, Index: vm.CurrentPc()})

	if !args.Empty() {
		elseForm, _ := args.Next()
		if id, ok := elseForm.(engine.Identifier); !ok || id.Name != "else" {
			return missingArg(elseForm.Position(), "if")
		}
		altForm, ok := args.Next()
		if !ok {
			return missingArg(pos, "if")
		}
		if err := altForm.Emit(vm, ns, args, opts); err != nil {
			return err
		}
	}
	vm.Backpatch(gotoPc, engine.Op{Kind: engine.OpGoto, Index: vm.CurrentPc()})
	return nil
}

// or(a, b): a is always evaluated in call position; b, if reached, is the
// expression's own tail position.
func orMacro(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error {
	aForm, ok := args.Next()
	if !ok {
		return missingArg(pos, "or")
	}
	bForm, ok := args.Next()
	if !ok {
		return missingArg(pos, "or")
	}
	if err := aForm.Emit(vm, ns, args, engine.EmitOptions{}); err != nil {
		return err
	}
	orPc := vm.Reserve()
	if err := bForm.Emit(vm, ns, args, opts); err != nil {
		return err
	}
	vm.Backpatch(orPc, engine.Op{Kind: engine.OpOr, Pos: pos, Index: vm.CurrentPc()})
	return nil
}

// task(body...): forks a new task that starts running body; the current
// task jumps past it. The body is compiled with empty opts — a task's
// body runs to its own implicit stop, it is never itself "returned from"
// into a caller's tail position.
func taskMacro(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error {
	reserved := vm.Reserve()
	if err := engine.DrainBody(vm, ns, args); err != nil {
		return err
	}
	vm.Emit(engine.Op{Kind: engine.OpStop, Pos: pos})
	vm.Backpatch(reserved, engine.Op{Kind: engine.OpTask, Pos: pos, Index: vm.CurrentPc()})
	return nil
}

// benchmark(count, body...): times count back-to-back dry runs of body
// and leaves a Time value on the stack. count is evaluated first, then
// the body is compiled with empty opts and closed with its own stop so
// the nested re-entrant Eval calls benchmark performs at runtime have
// somewhere to terminate.
func benchmarkMacro(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error {
	countForm, ok := args.Next()
	if !ok {
		return missingArg(pos, "benchmark")
	}
	if err := countForm.Emit(vm, ns, args, engine.EmitOptions{}); err != nil {
		return err
	}
	reserved := vm.Reserve()
	if err := engine.DrainBody(vm, ns, args); err != nil {
		return err
	}
	vm.Emit(engine.Op{Kind: engine.OpStop, Pos: pos})
	vm.Backpatch(reserved, engine.Op{Kind: engine.OpBenchmark, Pos: pos, Index: vm.CurrentPc()})
	return nil
}

// trace toggles the VM's trace flag at emission time; every Emit call
// made afterward prepends a trace opcode that prints the following
// instruction as it runs.
func traceMacro(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error {
	vm.Trace = !vm.Trace
	return nil
}

// tasks (domain addition, not in the standard macro set): prints every
// live task's id, marking the current one, for its side effect only.
func tasksMacro(vm *engine.VM, pos engine.Position, ns *engine.Namespace, args *engine.Sequence, opts engine.EmitOptions) error {
	vm.Emit(engine.Op{Kind: engine.OpInspect, Pos: pos})
	return nil
}

func installMacros(ns *engine.Namespace) {
	bindMacro(ns, "function", functionMacro)
	bindMacro(ns, "return", returnMacro)
	bindMacro(ns, "if", ifMacro)
	bindMacro(ns, "or", orMacro)
	bindMacro(ns, "task", taskMacro)
	bindMacro(ns, "benchmark", benchmarkMacro)
	bindMacro(ns, "trace", traceMacro)
	bindMacro(ns, "tasks", tasksMacro)
}

package stdlib_test

import (
	"bytes"
	"strings"
	"testing"

	"sexpvm/engine"
	"sexpvm/reader"
	"sexpvm/stdlib"
)

func run(t *testing.T, src string) (engine.Value, *engine.VM) {
	t.Helper()
	vm := engine.NewVM()
	ns := stdlib.RootNamespace()
	forms, err := reader.ReadAll("<test>", src)
	if err != nil {
		t.Fatalf("read %q: %v", src, err)
	}
	startPc := vm.CurrentPc()
	if err := engine.EmitProgram(vm, ns, forms); err != nil {
		t.Fatalf("emit %q: %v", src, err)
	}
	vm.Emit(engine.Op{Kind: engine.OpStop})
	v, err := vm.Eval(startPc)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v, vm
}

func TestNot(t *testing.T) {
	if v, _ := run(t, "(not (< 5 1))"); v.Bool != true {
		t.Fatalf("(not (< 5 1)) = %#v, want true", v)
	}
	if v, _ := run(t, "(not (< 1 5))"); v.Bool != false {
		t.Fatalf("(not (< 1 5)) = %#v, want false", v)
	}
}

func TestStringConcat(t *testing.T) {
	v, _ := run(t, `(++ "foo" "bar")`)
	if v.Type != engine.StringType || v.Str != "foobar" {
		t.Fatalf("got %#v, want String(foobar)", v)
	}
}

func TestTasksIntrospection(t *testing.T) {
	vm := engine.NewVM()
	ns := stdlib.RootNamespace()
	forms, err := reader.ReadAll("<test>", "(tasks)")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	startPc := vm.CurrentPc()
	if err := engine.EmitProgram(vm, ns, forms); err != nil {
		t.Fatalf("emit: %v", err)
	}
	vm.Emit(engine.Op{Kind: engine.OpStop})
	var out bytes.Buffer
	vm.Out = &out
	if _, err := vm.Eval(startPc); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(out.String(), "task") {
		t.Fatalf("output %q does not mention a task", out.String())
	}
}

func TestFunctionMissingParameterIsAnEmitError(t *testing.T) {
	vm := engine.NewVM()
	ns := stdlib.RootNamespace()
	forms, err := reader.ReadAll("<test>", "(function add (a b) (+ a b)) (add 1)")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	err = engine.EmitProgram(vm, ns, forms)
	ee, ok := err.(*engine.EmitError)
	if !ok {
		t.Fatalf("got %v (%T), want *EmitError", err, err)
	}
	if ee.Kind != engine.MissingArgument {
		t.Fatalf("got %v, want MissingArgument", ee.Kind)
	}
}

func TestReturnOutsideFunctionDegradesToCall(t *testing.T) {
	v, _ := run(t, "(return (+ 1 2))")
	if v.Type != engine.IntType || v.Int != 3 {
		t.Fatalf("got %#v, want Int(3)", v)
	}
}

func TestBooleanConstants(t *testing.T) {
	if v, _ := run(t, "(if true 1 else 2)"); v.Type != engine.IntType || v.Int != 1 {
		t.Fatalf("(if true 1 else 2) = %#v, want Int(1)", v)
	}
	if v, _ := run(t, "(if false 1 else 2)"); v.Type != engine.IntType || v.Int != 2 {
		t.Fatalf("(if false 1 else 2) = %#v, want Int(2)", v)
	}
}

func TestTypeConstants(t *testing.T) {
	cases := map[string]*engine.Type{
		"Bool":     engine.BoolType,
		"Int":      engine.IntType,
		"String":   engine.StringType,
		"Time":     engine.TimeType,
		"Function": engine.FunctionType,
		"Macro":    engine.MacroType,
		"Meta":     engine.MetaType,
	}
	for name, want := range cases {
		v, _ := run(t, name)
		if v.Type != engine.MetaType || v.TypeRef != want {
			t.Fatalf("%s = %#v, want TypeValue(%s)", name, v, want.Name)
		}
	}
}

// Reserve must honor vm.Trace exactly like Emit does, since every
// branch/goto/or/task/benchmark opcode a macro produces is backpatched
// into a slot Reserve allocated, not one Emit allocated directly.
func TestTraceOverBranchingProgram(t *testing.T) {
	vm := engine.NewVM()
	ns := stdlib.RootNamespace()
	forms, err := reader.ReadAll("<test>", "(trace) (if (< 1 2) 10 else 20)")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	startPc := vm.CurrentPc()
	if err := engine.EmitProgram(vm, ns, forms); err != nil {
		t.Fatalf("emit: %v", err)
	}
	vm.Emit(engine.Op{Kind: engine.OpStop})
	var out bytes.Buffer
	vm.Out = &out
	v, err := vm.Eval(startPc)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Type != engine.IntType || v.Int != 10 {
		t.Fatalf("got %#v, want Int(10)", v)
	}
	if !strings.Contains(out.String(), "branch") {
		t.Fatalf("trace output %q never mentions the backpatched branch opcode", out.String())
	}
	if strings.Count(out.String(), "trace: ") < 3 {
		t.Fatalf("trace output %q has too few traced instructions: %d", out.String(), strings.Count(out.String(), "trace: "))
	}
}

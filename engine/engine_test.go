package engine_test

import (
	"testing"

	"sexpvm/engine"
	"sexpvm/reader"
	"sexpvm/stdlib"
)

func run(t *testing.T, src string) engine.Value {
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
	return v
}

func TestArithmetic(t *testing.T) {
	v := run(t, "(+ 1 2)")
	if v.Type != engine.IntType || v.Int != 3 {
		t.Fatalf("got %#v, want Int(3)", v)
	}
}

func TestIfThenElse(t *testing.T) {
	v := run(t, "(if (< 1 2) 10 else 20)")
	if v.Type != engine.IntType || v.Int != 10 {
		t.Fatalf("got %#v, want Int(10)", v)
	}
}

func TestOrShortCircuit(t *testing.T) {
	if v := run(t, "(or 0 42)"); v.Type != engine.IntType || v.Int != 42 {
		t.Fatalf("(or 0 42) = %#v, want 42", v)
	}
	if v := run(t, "(or 7 42)"); v.Type != engine.IntType || v.Int != 7 {
		t.Fatalf("(or 7 42) = %#v, want 7", v)
	}
}

// Tail-recursive triangular-sum: 100000 self-calls through return, each
// compiled to a tailCall that reuses the current frame, and the sum they
// compute is checked. Call frames are heap-linked, so the test observes
// the result, not the frame depth.
func TestTailRecursiveFrameReuse(t *testing.T) {
	src := `
(function loop (n acc)
  (if (= n 0)
      (return acc)
      else
      (return (loop (- n 1) (+ acc n)))))
(loop 100000 0)
`
	v := run(t, src)
	if v.Type != engine.IntType {
		t.Fatalf("got %#v, want Int", v)
	}
	want := int64(100000) * 100001 / 2
	if v.Int != want {
		t.Fatalf("loop 100000 0 = %d, want %d", v.Int, want)
	}
}

func TestTaskYield(t *testing.T) {
	v := run(t, "(task (yield)) (yield)")
	if v.Type != nil {
		t.Fatalf("got %#v, want empty stack", v)
	}
}

func TestBenchmark(t *testing.T) {
	v := run(t, "(benchmark 100 (+ 1 2))")
	if v.Type != engine.TimeType {
		t.Fatalf("got %#v, want Time", v)
	}
	if v.Dur < 0 {
		t.Fatalf("negative duration %v", v.Dur)
	}
}

func TestUnknownIdentifier(t *testing.T) {
	vm := engine.NewVM()
	ns := stdlib.RootNamespace()
	forms, err := reader.ReadAll("<test>", "(frobnicate 1)")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	err = engine.EmitProgram(vm, ns, forms)
	var emitErr *engine.EmitError
	if err == nil {
		t.Fatal("expected an emit error")
	}
	if !asEmitError(err, &emitErr) || emitErr.Kind != engine.UnknownIdentifier {
		t.Fatalf("got %v, want UnknownIdentifier", err)
	}
}

func asEmitError(err error, target **engine.EmitError) bool {
	e, ok := err.(*engine.EmitError)
	if !ok {
		return false
	}
	*target = e
	return true
}

func TestMissingValueOnEmptyStack(t *testing.T) {
	vm := engine.NewVM()
	vm.Emit(engine.Op{Kind: engine.OpBranch, Pos: engine.Position{Source: "<test>", Line: 1, Column: 1}, Index: 0})
	vm.Emit(engine.Op{Kind: engine.OpStop})
	_, err := vm.Eval(0)
	var evalErr *engine.EvalError
	e, ok := err.(*engine.EvalError)
	if !ok {
		t.Fatalf("got %v, want *EvalError", err)
	}
	evalErr = e
	if evalErr.Kind != engine.MissingValue {
		t.Fatalf("got %v, want MissingValue", evalErr)
	}
}

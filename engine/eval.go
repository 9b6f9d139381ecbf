package engine

import (
	"fmt"
	"time"
)

// Eval runs the dispatch loop starting at fromPc on whichever task is
// currently at the front of the queue, returning the value left on top of
// that task's stack when a stop instruction is reached. Yield rotates the
// queue in place; since every iteration re-reads CurrentTask and its Pc
// fresh, rotation is picked up without any recursive re-entry into Eval.
func (vm *VM) Eval(fromPc int) (Value, error) {
	vm.CurrentTask().Pc = fromPc
	for {
		task := vm.CurrentTask()
		if task.Pc < 0 || task.Pc >= len(vm.Code) {
			return Value{}, fmt.Errorf("eval: program counter %d out of range", task.Pc)
		}
		op := vm.Code[task.Pc]
		switch op.Kind {
		case OpStop:
			v, _ := task.Peek()
			return v, nil

		case OpNop:
			task.Pc++

		case OpGoto:
			task.Pc = op.Index

		case OpPush:
			task.Push(op.Push)
			task.Pc++

		case OpArgument:
			task.Push(task.Argument(op.Index))
			task.Pc++

		case OpTrace:
			vm.printTrace(task.Pc + 1)
			task.Pc++

		case OpBranch:
			v, ok := task.Pop()
			if !ok {
				return Value{}, &EvalError{Pos: op.Pos, Kind: MissingValue}
			}
			if v.Type.ToBool(v) {
				task.Pc++
			} else {
				task.Pc = op.Index
			}

		case OpOr:
			v, ok := task.Peek()
			if !ok {
				return Value{}, &EvalError{Pos: op.Pos, Kind: MissingValue}
			}
			if v.Type.ToBool(v) {
				task.Pc = op.Index
			} else {
				task.Pop()
				task.Pc++
			}

		case OpCall:
			task.Pc++
			if err := vm.call(task, op.Pos, op.Function); err != nil {
				return Value{}, err
			}

		case OpTailCall:
			if err := vm.tailCall(task, op.Pos, op.Function); err != nil {
				return Value{}, err
			}

		case OpPopCall:
			vm.popCall(task, op.Function)

		case OpTask:
			nt := NewTask()
			nt.Pc = task.Pc + 1
			vm.Tasks = append(vm.Tasks, nt)
			task.Pc = op.Index

		case OpBenchmark:
			if err := vm.benchmark(task, op); err != nil {
				return Value{}, err
			}

		case OpInspect:
			vm.inspect()
			task.Pc++

		default:
			return Value{}, fmt.Errorf("eval: unhandled opcode %s", op.Kind)
		}
	}
}

func (vm *VM) call(task *Task, pos Position, f *Function) error {
	if len(task.Stack) < len(f.Params) {
		return &EvalError{Pos: pos, Kind: MissingValue}
	}
	if f.StartPc == nil {
		return vm.invokePrimitive(task, pos, f)
	}
	task.Current = &CallFrame{
		Parent:      task.Current,
		Target:      f,
		Position:    pos,
		StackOffset: len(task.Stack) - len(f.Params),
		ReturnPc:    task.Pc,
	}
	task.Pc = *f.StartPc
	return nil
}

// tailCall reuses the current frame when it belongs to a user-defined
// function; otherwise it degrades to ordinary call semantics.
func (vm *VM) tailCall(task *Task, pos Position, f *Function) error {
	if task.Current == nil || task.Current.Target.StartPc == nil {
		task.Pc++
		return vm.call(task, pos, f)
	}
	if len(task.Stack) < len(f.Params) {
		return &EvalError{Pos: pos, Kind: MissingValue}
	}
	if f.StartPc == nil {
		task.Pc++
		return vm.invokePrimitive(task, pos, f)
	}
	task.Current.Target = f
	task.Current.Position = pos
	task.Current.StackOffset = len(task.Stack) - len(f.Params)
	task.Pc = *f.StartPc
	return nil
}

func (vm *VM) invokePrimitive(task *Task, pos Position, f *Function) error {
	arity := len(f.Params)
	args := append([]Value(nil), task.Stack[len(task.Stack)-arity:]...)
	task.Stack = task.Stack[:len(task.Stack)-arity]
	result, err := f.Primitive(vm, pos, args)
	if err != nil {
		return err
	}
	if !f.Void {
		task.Push(result)
	}
	return nil
}

func (vm *VM) popCall(task *Task, f *Function) {
	frame := task.Current
	arity := len(f.Params)
	returned := append([]Value(nil), task.Stack[frame.StackOffset+arity:]...)
	task.Stack = append(task.Stack[:frame.StackOffset], returned...)
	task.Pc = frame.ReturnPc
	task.Current = frame.Parent
}

// benchmark pops an iteration count, re-enters Eval that many times over
// the timed body (truncating the stack back after each run so dry runs
// never leak values), then pushes the elapsed duration and jumps the
// current task past the body's own trailing stop.
func (vm *VM) benchmark(task *Task, op Op) error {
	count, ok := task.Pop()
	if !ok {
		return &EvalError{Pos: op.Pos, Kind: MissingValue}
	}
	bodyPc := task.Pc + 1
	baseLen := len(task.Stack)
	start := time.Now()
	for i := int64(0); i < count.Int; i++ {
		if _, err := vm.Eval(bodyPc); err != nil {
			return err
		}
		task.Stack = task.Stack[:baseLen]
	}
	elapsed := time.Since(start)
	task.Push(DurationValue(elapsed))
	task.Pc = op.Index
	return nil
}

func (vm *VM) inspect() {
	for i, t := range vm.Tasks {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(vm.Out, "%s task %s\n", marker, t.ID)
	}
}

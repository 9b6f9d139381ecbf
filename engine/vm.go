package engine

import (
	"fmt"
	"io"
	"os"
)

// VM owns the single append-only bytecode buffer and the live task list.
// Tasks share Code; each keeps its own stack and program counter. The VM
// always dispatches whichever task sits at the front of Tasks.
type VM struct {
	Code  []Op
	Tasks []*Task
	Trace bool
	Out   io.Writer
}

func NewVM() *VM {
	vm := &VM{Out: os.Stdout}
	vm.Tasks = append(vm.Tasks, NewTask())
	return vm
}

// Emit appends op to the code buffer, returning its index. When tracing
// is on, a trace opcode is inserted immediately before it so the runtime
// prints every instruction as it runs.
func (vm *VM) Emit(op Op) int {
	if vm.Trace {
		vm.Code = append(vm.Code, Op{Kind: OpTrace})
	}
	vm.Code = append(vm.Code, op)
	return len(vm.Code) - 1
}

// Reserve appends a placeholder nop, to be overwritten later via
// Backpatch once its jump target is known. Like Emit, it prepends a trace
// opcode when tracing is on, so the branch/goto/or/task/benchmark opcodes
// every macro backpatches into this slot get traced exactly as any other
// opcode would.
func (vm *VM) Reserve() int {
	if vm.Trace {
		vm.Code = append(vm.Code, Op{Kind: OpTrace})
	}
	vm.Code = append(vm.Code, Op{Kind: OpNop})
	return len(vm.Code) - 1
}

func (vm *VM) Backpatch(pc int, op Op) {
	vm.Code[pc] = op
}

// CurrentPc reports the index the next Emit or Reserve call will write
// to first (the trace prefix when tracing is on, else the op itself).
func (vm *VM) CurrentPc() int {
	return len(vm.Code)
}

func (vm *VM) CurrentTask() *Task {
	return vm.Tasks[0]
}

// Yield rotates the task queue, moving the current task to the back.
func (vm *VM) Yield() {
	if len(vm.Tasks) < 2 {
		return
	}
	t := vm.Tasks[0]
	vm.Tasks = append(vm.Tasks[1:], t)
}

func (vm *VM) printTrace(pc int) {
	if pc < 0 || pc >= len(vm.Code) {
		return
	}
	op := vm.Code[pc]
	fmt.Fprintf(vm.Out, "trace: %d %s\n", pc, vm.describeOp(op))
}

func (vm *VM) describeOp(op Op) string {
	switch op.Kind {
	case OpPush:
		return fmt.Sprintf("push %s", op.Push.Type.Display(op.Push))
	case OpCall, OpTailCall, OpPopCall:
		name := "?"
		if op.Function != nil {
			name = op.Function.Name
		}
		return fmt.Sprintf("%s %s", op.Kind, name)
	case OpArgument:
		return fmt.Sprintf("argument %d", op.Index)
	case OpBranch, OpOr, OpGoto, OpTask, OpBenchmark:
		return fmt.Sprintf("%s -> %d", op.Kind, op.Index)
	default:
		return op.Kind.String()
	}
}

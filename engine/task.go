package engine

import "github.com/google/uuid"

// Task is one green thread: its own program counter, its own stack, and
// its own call-frame chain, all sharing the VM's single bytecode buffer.
type Task struct {
	ID      uuid.UUID
	Pc      int
	Stack   []Value
	Current *CallFrame
}

func NewTask() *Task {
	return &Task{ID: uuid.New()}
}

func (t *Task) Push(v Value) {
	t.Stack = append(t.Stack, v)
}

func (t *Task) Pop() (Value, bool) {
	if len(t.Stack) == 0 {
		return Value{}, false
	}
	v := t.Stack[len(t.Stack)-1]
	t.Stack = t.Stack[:len(t.Stack)-1]
	return v, true
}

func (t *Task) Peek() (Value, bool) {
	if len(t.Stack) == 0 {
		return Value{}, false
	}
	return t.Stack[len(t.Stack)-1], true
}

// Argument reads parameter i of the currently executing frame.
func (t *Task) Argument(i int) Value {
	return t.Stack[t.Current.StackOffset+i]
}

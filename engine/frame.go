package engine

// CallFrame is one entry in a task's call chain. Tail calls reuse the
// current frame in place (overwriting Target, Position and StackOffset)
// rather than pushing a new one, which is what bounds recursion depth for
// tail-recursive functions.
type CallFrame struct {
	Parent      *CallFrame
	Target      *Function
	Position    Position
	StackOffset int
	ReturnPc    int
}

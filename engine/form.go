package engine

// EmitOptions carries the single flag the emission protocol threads
// through recursive Form.Emit calls: whether this form sits in tail
// position. Forms propagate it only to their own tail position; macros
// decide, per arm, which of the forms they pull get it and which don't.
type EmitOptions struct {
	Returning bool
}

// Form is a parsed syntax node: an Identifier, a List, or a Literal. Emit
// compiles it against vm, resolving identifiers through ns, with args
// holding whatever sibling forms remain available for this form (or
// whatever it dispatches to) to consume.
type Form interface {
	Emit(vm *VM, ns *Namespace, args *Sequence, opts EmitOptions) error
	Position() Position
}

// Identifier looks its name up in ns and asks the bound Value's Type how
// to emit itself, handing over the same args sequence so a Function can
// pull its parameters or a Macro can pull whatever it needs.
type Identifier struct {
	Name string
	Pos  Position
}

func (id Identifier) Position() Position { return id.Pos }

func (id Identifier) Emit(vm *VM, ns *Namespace, args *Sequence, opts EmitOptions) error {
	v, ok := ns.Lookup(id.Name)
	if !ok {
		return &EmitError{Pos: id.Pos, Kind: UnknownIdentifier, Name: id.Name}
	}
	return v.Type.IdentifierEmit(v, vm, id.Pos, ns, args, opts)
}

// List is a parenthesized form. It emits by building a fresh sequence
// scoped to its own items and handing the leading item — almost always an
// identifier bound to a Function or Macro — the chance to consume the
// rest; whatever is left unconsumed afterward is simply inert, matching
// the reader/emitter's tolerance for orphaned tail forms.
type List struct {
	Items []Form
	Pos   Position
}

func (l List) Position() Position { return l.Pos }

func (l List) Emit(vm *VM, ns *Namespace, args *Sequence, opts EmitOptions) error {
	seq := NewSequence(l.Items)
	if seq.Empty() {
		return nil
	}
	head, _ := seq.Next()
	return head.Emit(vm, ns, seq, opts)
}

// Literal is a self-evaluating constant (a reader-produced Int or
// String). It always just pushes itself; it never consumes sibling
// forms.
type Literal struct {
	Value Value
	Pos   Position
}

func (l Literal) Position() Position { return l.Pos }

func (l Literal) Emit(vm *VM, ns *Namespace, args *Sequence, opts EmitOptions) error {
	vm.Emit(Op{Kind: OpPush, Pos: l.Pos, Push: l.Value})
	return nil
}

// Sequence is a mutable front-consuming view over a slice of forms,
// shared by reference wherever emission needs to pull from "whatever
// forms remain".
type Sequence struct {
	items []Form
}

func NewSequence(items []Form) *Sequence {
	return &Sequence{items: items}
}

func (s *Sequence) Empty() bool { return len(s.items) == 0 }

func (s *Sequence) Next() (Form, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	f := s.items[0]
	s.items = s.items[1:]
	return f, true
}

// DrainBody emits every remaining form in seq with empty options — the
// shape used by function bodies, task bodies, and benchmarked bodies,
// none of which implicitly propagate tail position to their last
// statement; only an explicit return does that.
func DrainBody(vm *VM, ns *Namespace, seq *Sequence) error {
	for !seq.Empty() {
		f, _ := seq.Next()
		if err := f.Emit(vm, ns, seq, EmitOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// EmitProgram compiles a flat top-level list of forms, none of them in
// tail position.
func EmitProgram(vm *VM, ns *Namespace, forms []Form) error {
	return DrainBody(vm, ns, NewSequence(forms))
}

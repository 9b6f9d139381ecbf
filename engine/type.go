package engine

import "strconv"

// IdentifierEmitFunc is the emission half of a Type's vtable: how a form
// that names an identifier bound to a Value of this Type should compile
// itself. args holds whatever sibling forms remain to be consumed; a
// Function pulls its parameters from it, a Macro pulls whatever it needs
// and may emit arbitrary code, everything else ignores it.
type IdentifierEmitFunc func(v Value, vm *VM, pos Position, ns *Namespace, args *Sequence, opts EmitOptions) error

// ToBoolFunc reports whether a Value of this Type is truthy, for branch
// and or.
type ToBoolFunc func(v Value) bool

// DisplayFunc renders a Value of this Type for trace output and the REPL.
type DisplayFunc func(v Value) string

// Type is the per-kind behavior record: a name plus the three behaviors
// spec out identifier emission, truthiness, and display dispatch through.
// Every Value carries a *Type; no switch over a kind tag appears anywhere
// else in the engine.
type Type struct {
	Name           string
	IdentifierEmit IdentifierEmitFunc
	ToBool         ToBoolFunc
	Display        DisplayFunc
}

func defaultIdentifierEmit(v Value, vm *VM, pos Position, ns *Namespace, args *Sequence, opts EmitOptions) error {
	vm.Emit(Op{Kind: OpPush, Pos: pos, Push: v})
	return nil
}

func defaultToBool(v Value) bool { return true }

var (
	MetaType     *Type
	BoolType     *Type
	IntType      *Type
	StringType   *Type
	TimeType     *Type
	FunctionType *Type
	MacroType    *Type
	ArgumentType *Type
)

func init() {
	MetaType = &Type{
		Name:           "Meta",
		IdentifierEmit: defaultIdentifierEmit,
		ToBool:         defaultToBool,
		Display:        func(v Value) string { return "<type " + v.TypeRef.Name + ">" },
	}
	BoolType = &Type{
		Name:           "Bool",
		IdentifierEmit: defaultIdentifierEmit,
		ToBool:         func(v Value) bool { return v.Bool },
		Display: func(v Value) string {
			if v.Bool {
				return "true"
			}
			return "false"
		},
	}
	IntType = &Type{
		Name:           "Int",
		IdentifierEmit: defaultIdentifierEmit,
		ToBool:         func(v Value) bool { return v.Int != 0 },
		Display:        func(v Value) string { return strconv.FormatInt(v.Int, 10) },
	}
	StringType = &Type{
		Name:           "String",
		IdentifierEmit: defaultIdentifierEmit,
		ToBool:         defaultToBool,
		Display:        func(v Value) string { return strconv.Quote(v.Str) },
	}
	TimeType = &Type{
		Name:           "Time",
		IdentifierEmit: defaultIdentifierEmit,
		ToBool:         func(v Value) bool { return v.Dur != 0 },
		Display:        func(v Value) string { return v.Dur.String() },
	}
	FunctionType = &Type{
		Name:           "Function",
		IdentifierEmit: functionIdentifierEmit,
		ToBool:         defaultToBool,
		Display:        func(v Value) string { return "<function " + v.Function.Name + ">" },
	}
	MacroType = &Type{
		Name:           "Macro",
		IdentifierEmit: macroIdentifierEmit,
		ToBool:         defaultToBool,
		Display:        func(v Value) string { return "<macro " + v.Macro.Name + ">" },
	}
	ArgumentType = &Type{
		Name:           "Argument",
		IdentifierEmit: argumentIdentifierEmit,
		ToBool:         defaultToBool,
		Display:        func(v Value) string { return "<argument>" },
	}
}

// functionIdentifierEmit implements the Function contract from the
// emission protocol: pull one sibling form per declared parameter, emit
// each in call position (empty options — arguments are never in tail
// position), then emit call or tailCall depending on whether this
// identifier itself was reached in tail position.
func functionIdentifierEmit(v Value, vm *VM, pos Position, ns *Namespace, args *Sequence, opts EmitOptions) error {
	f := v.Function
	for range f.Params {
		argForm, ok := args.Next()
		if !ok {
			return &EmitError{Pos: pos, Kind: MissingArgument, Name: f.Name}
		}
		if err := argForm.Emit(vm, ns, args, EmitOptions{}); err != nil {
			return err
		}
	}
	if opts.Returning {
		vm.Emit(Op{Kind: OpTailCall, Pos: pos, Function: f})
	} else {
		vm.Emit(Op{Kind: OpCall, Pos: pos, Function: f})
	}
	return nil
}

// macroIdentifierEmit hands control to the macro's own emit-time body; the
// macro decides for itself what opts, if any, to forward to the forms it
// pulls from args.
func macroIdentifierEmit(v Value, vm *VM, pos Position, ns *Namespace, args *Sequence, opts EmitOptions) error {
	return v.Macro.Body(vm, pos, ns, args, opts)
}

// argumentIdentifierEmit compiles a reference to a bound parameter slot.
func argumentIdentifierEmit(v Value, vm *VM, pos Position, ns *Namespace, args *Sequence, opts EmitOptions) error {
	vm.Emit(Op{Kind: OpArgument, Pos: pos, Index: v.ArgIndex})
	return nil
}

package stdlib

import "sexpvm/engine"

func bindFunction(ns *engine.Namespace, name string, params []string, void bool, fn func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error)) {
	ns.Bind(name, engine.FunctionValue(&engine.Function{
		Name:      name,
		Params:    params,
		Primitive: fn,
		Void:      void,
	}))
}

func installFunctions(ns *engine.Namespace) {
	bindFunction(ns, "=", []string{"a", "b"}, false, func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error) {
		return engine.BoolValue(args[0].Int == args[1].Int), nil
	})
	bindFunction(ns, "<", []string{"a", "b"}, false, func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error) {
		return engine.BoolValue(args[0].Int < args[1].Int), nil
	})
	bindFunction(ns, ">", []string{"a", "b"}, false, func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error) {
		return engine.BoolValue(args[0].Int > args[1].Int), nil
	})
	bindFunction(ns, "+", []string{"a", "b"}, false, func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error) {
		return engine.IntValue(args[0].Int + args[1].Int), nil
	})
	bindFunction(ns, "-", []string{"a", "b"}, false, func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error) {
		return engine.IntValue(args[0].Int - args[1].Int), nil
	})
	bindFunction(ns, "yield", nil, true, func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error) {
		vm.Yield()
		return engine.Value{}, nil
	})

	// Domain-stack additions, supplementing the standard set above.
	bindFunction(ns, "not", []string{"a"}, false, func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error) {
		return engine.BoolValue(!args[0].Type.ToBool(args[0])), nil
	})
	bindFunction(ns, "++", []string{"a", "b"}, false, func(vm *engine.VM, pos engine.Position, args []engine.Value) (engine.Value, error) {
		return engine.StringValue(args[0].Str + args[1].Str), nil
	})
}

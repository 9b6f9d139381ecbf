package stdlib

import "sexpvm/engine"

// installConstants binds the two boolean literals and the seven standard
// type names every program can reference directly from source, e.g.
// (if true 1 else 2) or a bare Int.
func installConstants(ns *engine.Namespace) {
	ns.Bind("true", engine.BoolValue(true))
	ns.Bind("false", engine.BoolValue(false))

	ns.Bind("Bool", engine.TypeValue(engine.BoolType))
	ns.Bind("Int", engine.TypeValue(engine.IntType))
	ns.Bind("String", engine.TypeValue(engine.StringType))
	ns.Bind("Time", engine.TypeValue(engine.TimeType))
	ns.Bind("Function", engine.TypeValue(engine.FunctionType))
	ns.Bind("Macro", engine.TypeValue(engine.MacroType))
	ns.Bind("Meta", engine.TypeValue(engine.MetaType))
}

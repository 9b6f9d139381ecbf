package stdlib

import "sexpvm/engine"

// RootNamespace builds the top-level namespace every program is compiled
// against: the seven standard macros, the standard arithmetic/comparison
// functions and yield, the domain-stack additions (not, ++, tasks), and
// the standard constants (true/false and the seven type names).
func RootNamespace() *engine.Namespace {
	ns := engine.NewNamespace(nil)
	installMacros(ns)
	installFunctions(ns)
	installConstants(ns)
	return ns
}

// Package stdlib exposes the registration points for the built-in
// array/map modules. spec.md §1 keeps their internals - what "push" or
// "has" actually does to a runtime value - out of scope; what's in scope
// is that "array" and "map" are real namespaces with real function
// signatures a host can register, so the parser's namespace-qualified call
// parsing (ns::name(args...)) and hash precomputation have something
// concrete to dispatch against once an evaluator is wired in.
package stdlib

import "github.com/mna/liana/lang/engine"

// RegisterMapModule registers the "map" namespace, mirroring
// original_source/src/packages/map_basic.rs's function set.
func RegisterMapModule(eng *engine.Engine) error {
	return eng.RegisterModule("map", map[string]int{
		"has":       2, // has(map, key)
		"len":       1, // len(map)
		"clear":     1, // clear(map)
		"remove":    2, // remove(map, key)
		"mixin":     2, // mixin(map1, map2), also bound to "+="
		"merge":     2, // merge(map1, map2), also bound to "+"
		"fill_with": 2,
		"keys":      1,
		"values":    1,
	})
}

// RegisterArrayModule registers the "array" namespace. original_source's
// prep pass only kept the map package's file, not the array one, so this
// set is extrapolated by analogy to map_basic.rs's style (plain getter/
// mutator pairs over a single collection value) rather than grounded on a
// retrieved array.rs.
func RegisterArrayModule(eng *engine.Engine) error {
	return eng.RegisterModule("array", map[string]int{
		"len":      1, // len(arr)
		"clear":    1, // clear(arr)
		"push":     2, // push(arr, value)
		"pop":      1, // pop(arr)
		"insert":   3, // insert(arr, index, value)
		"remove":   2, // remove(arr, index)
		"reverse":  1, // reverse(arr)
		"contains": 2,
		"index_of": 2,
	})
}

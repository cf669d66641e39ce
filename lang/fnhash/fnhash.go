// Package fnhash computes the runtime function-dispatch hashes the parser
// precomputes at parse time (spec.md "Hash precomputation"): a pure-script
// hash over (qualifier path, name, arity), streamed through a seeded hasher
// so that a call site's dispatch target never needs hashing more than once.
//
// A Seed is created once by the caller of parser.Parse (parser.ParseFiles
// and modcache.FileResolver each make one with NewSeed) and reused for
// every hash computed during that run, so that parsing the same script twice with the same Seed yields identical hashes - this is
// what lets anonymous-function names and switch-case keys stay stable
// across re-parses of identical source.
package fnhash

import (
	"hash/maphash"
	"strconv"
)

// Seed wraps a single maphash seed shared by every hash computed from it.
// The zero value is not valid; use NewSeed.
type Seed struct {
	seed maphash.Seed
}

// NewSeed returns a fresh, randomly chosen Seed. Two Seed values never
// produce comparable hashes, by design: hashes are only meaningful within
// the run (or test) that produced them.
func NewSeed() Seed {
	return Seed{seed: maphash.MakeSeed()}
}

// Script computes the pure-script dispatch hash of a call site:
// H(qualifiers ++ name, arity). Qualifiers are hashed in order, each
// followed by a separator byte not valid in an identifier, so that
// ["a", "bc"]+"d" and ["ab", "c"]+"d" never collide on the join alone.
func (s Seed) Script(qualifiers []string, name string, arity int) uint64 {
	var h maphash.Hash
	h.SetSeed(s.seed)
	for _, q := range qualifiers {
		h.WriteString(q)
		h.WriteByte(0)
	}
	h.WriteString(name)
	h.WriteByte(0)
	h.WriteString(strconv.Itoa(arity))
	return h.Sum64()
}

// Value computes a content hash of a literal value's canonical string
// representation, used to key switch-case tables (spec.md: "switch case
// hashes are content-hashes of each case's constant value").
func (s Seed) Value(canonical string) uint64 {
	var h maphash.Hash
	h.SetSeed(s.seed)
	h.WriteString(canonical)
	return h.Sum64()
}

// Native would compute the native-function dispatch hash, which
// additionally incorporates the dynamic-type ids of arguments at call
// time rather than at parse time. The parser never emits this hash -
// spec.md is explicit that "the parser emits only the first" of the two
// hashes - so there is nothing for a parse-time Native to compute; the
// call-time variant belongs to the runtime's call-dispatch path instead.

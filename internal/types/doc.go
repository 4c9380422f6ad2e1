// Package types holds the canonical Type tagged union, the per-module
// TypeDefinition registry, and the type checker's compatibility rules and
// structural substitution. Types are addressed by stable TypeID into an
// Interner's arena rather than by pointer, following the arena + stable
// index pattern for mutable graph shapes (§9 Design Notes).
package types

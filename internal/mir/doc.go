// Package mir lowers an analyzed module into the mid-level intermediate
// representation consumed by the ABI generator and backend: a flat
// control-flow graph of basic blocks per function, locals addressed by
// index, and statements/terminators as tagged unions rather than an
// interface hierarchy (§4.4).
package mir

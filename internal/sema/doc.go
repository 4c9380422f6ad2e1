// Package sema drives the module-level semantic analysis pipeline: import
// resolution, type/trait/impl registration, constant and external-function
// registration, function-body type checking (control flow, match
// exhaustiveness, try/throw/finally, ownership/borrow tracking), call and
// method-dispatch resolution, capture analysis, and contract checking
// (§4.3). It collects diagnostics rather than aborting on the first error,
// returning as complete a ModuleResult as the input allows.
package sema

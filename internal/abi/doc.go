// Package abi walks an analyzed module and produces an AbiModule: a
// serializable mirror of the module's public surface (functions, types,
// traits, impls, dependencies) consumable by later builds without
// re-parsing source (§4.5).
package abi

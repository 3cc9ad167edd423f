// Package types defines the Store and Table interfaces, entity types,
// delete actions, and standard error types for the Ripple object store.
// Implements: prd001-store-core (Config, Store, Table interfaces, error types);
//
//	docs/ARCHITECTURE § Main Interface, § System Components (Store API).
package types

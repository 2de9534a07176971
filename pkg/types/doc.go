// Package types defines the Store and Table interfaces, the Snippet and
// Branch entities, and the standard error set for the Loom story engine.
package types

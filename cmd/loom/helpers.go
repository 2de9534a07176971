// Shared helpers for loom CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/inkforge/loom/internal/sqlite"
	"github.com/inkforge/loom/pkg/branch"
	"github.com/inkforge/loom/pkg/graph"
	"github.com/inkforge/loom/pkg/types"
)

// engine bundles the attached backend with the graph store and branch index
// built on top of it. The caller must defer close.
type engine struct {
	backend  *sqlite.Backend
	graph    *graph.Store
	branches *branch.Index
}

// attachEngine resolves the data directory, attaches a SQLite backend, and
// constructs the graph store and branch index over it.
func attachEngine() (*engine, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := sqlite.NewBackend()
	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	g, err := graph.New(backend)
	if err != nil {
		backend.Detach()
		return nil, fmt.Errorf("graph store: %w", err)
	}
	ix, err := branch.New(backend)
	if err != nil {
		backend.Detach()
		return nil, fmt.Errorf("branch index: %w", err)
	}
	return &engine{backend: backend, graph: g, branches: ix}, nil
}

// close detaches the backend.
func (e *engine) close() error {
	return e.backend.Detach()
}

// printEntity writes an entity as indented JSON when --json is set, or via
// the plain formatter otherwise.
func printEntity(entity any, plain func()) error {
	if !flagJSON {
		plain()
		return nil
	}
	out, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// activationFromFlags maps the --active/--inactive flag pair onto the
// three-valued activation policy.
func activationFromFlags(active, inactive bool) types.Activation {
	switch {
	case active:
		return types.ActivateAlways
	case inactive:
		return types.ActivateNever
	default:
		return types.ActivateAuto
	}
}

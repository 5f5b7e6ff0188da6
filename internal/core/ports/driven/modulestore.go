package driven

import (
	"context"

	"github.com/sulai/p8lua/internal/core/domain"
)

// ModuleStore resolves symbolic module names to source text.
// Modules are owned by the editor; the core only ever reads them,
// except for Create which backs the extract flow.
type ModuleStore interface {
	// Get loads a module by symbolic name (e.g. "lib/collisions").
	// Returns domain.ErrModuleNotFound if no file matches the name in
	// any of the configured directories.
	Get(ctx context.Context, name string) (*domain.Module, error)

	// Create writes a brand-new module file.
	// Returns domain.ErrAlreadyExists if the module already has a file;
	// an existing module is never overwritten.
	Create(ctx context.Context, module domain.Module) error
}

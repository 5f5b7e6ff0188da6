package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
)

// DefaultModuleSuffix is the file suffix for module sources.
const DefaultModuleSuffix = ".lua"

var _ driven.ModuleStore = (*ModuleStore)(nil)

// ModuleStore resolves module names against an ordered list of search
// directories. A name may carry subdirectories ("lib/collisions"); the
// first directory containing a matching file wins.
type ModuleStore struct {
	dirs   []string
	suffix string
}

// NewModuleStore creates a module store over the given directories.
// If suffix is empty, DefaultModuleSuffix is used.
func NewModuleStore(dirs []string, suffix string) *ModuleStore {
	if suffix == "" {
		suffix = DefaultModuleSuffix
	}
	return &ModuleStore{dirs: dirs, suffix: suffix}
}

// Get loads a module by symbolic name.
func (s *ModuleStore) Get(_ context.Context, name string) (*domain.Module, error) {
	for _, dir := range s.dirs {
		path := s.pathIn(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading module %s: %w", name, err)
		}
		return &domain.Module{
			Name:    name,
			Path:    path,
			Content: string(data),
		}, nil
	}
	return nil, fmt.Errorf("module %s: %w", name, domain.ErrModuleNotFound)
}

// Create writes a brand-new module file into the first search
// directory. An existing file anywhere in the search path blocks the
// write; module content is the user's, never ours to replace.
func (s *ModuleStore) Create(ctx context.Context, module domain.Module) error {
	if len(s.dirs) == 0 {
		return fmt.Errorf("create module %s: no module directories configured", module.Name)
	}
	if _, err := s.Get(ctx, module.Name); err == nil {
		return fmt.Errorf("module %s: %w", module.Name, domain.ErrAlreadyExists)
	}

	path := s.pathIn(s.dirs[0], module.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating module directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(module.Content), 0644); err != nil {
		return fmt.Errorf("writing module %s: %w", module.Name, err)
	}
	return nil
}

// NameFor derives the module name for a file path inside one of the
// search directories. Returns false for paths outside them or without
// the module suffix.
func (s *ModuleStore) NameFor(path string) (string, bool) {
	if !strings.HasSuffix(path, s.suffix) {
		return "", false
	}
	for _, dir := range s.dirs {
		rel, err := filepath.Rel(dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		name := strings.TrimSuffix(rel, s.suffix)
		return filepath.ToSlash(name), true
	}
	return "", false
}

// pathIn maps a module name to its file path under a directory.
func (s *ModuleStore) pathIn(dir, name string) string {
	return filepath.Join(dir, filepath.FromSlash(name)+s.suffix)
}

package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
)

// DefaultCartridgeSuffix is the file suffix for cartridges.
const DefaultCartridgeSuffix = ".p8"

var _ driven.CartridgeStore = (*CartridgeStore)(nil)

// CartridgeStore reads and atomically replaces cartridge files in an
// ordered list of search directories. A cartridge is paired with the
// module of the same name: "game" pairs with "game.p8".
type CartridgeStore struct {
	dirs   []string
	suffix string
}

// NewCartridgeStore creates a cartridge store over the given
// directories. If suffix is empty, DefaultCartridgeSuffix is used.
func NewCartridgeStore(dirs []string, suffix string) *CartridgeStore {
	if suffix == "" {
		suffix = DefaultCartridgeSuffix
	}
	return &CartridgeStore{dirs: dirs, suffix: suffix}
}

// Read returns the cartridge content.
func (s *CartridgeStore) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("cartridge %s: %w", path, domain.ErrCartridgeNotFound)
		}
		return nil, fmt.Errorf("reading cartridge %s: %w", path, err)
	}
	return data, nil
}

// WriteAtomic replaces the cartridge content as one atomic unit. The
// data lands in a temporary file next to the target, then a rename
// swaps it into place. A reader never observes a half-written file.
func (s *CartridgeStore) WriteAtomic(_ context.Context, path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing cartridge %s: %w", path, err)
	}
	return nil
}

// List returns the paths of all cartridges in the search directories,
// sorted for deterministic processing order.
func (s *CartridgeStore) List(_ context.Context) ([]string, error) {
	var paths []string
	for _, dir := range s.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == dir {
					return filepath.SkipAll
				}
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, s.suffix) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("listing cartridges in %s: %w", dir, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// PathFor resolves the cartridge path paired with a module.
func (s *CartridgeStore) PathFor(module string) (string, error) {
	for _, dir := range s.dirs {
		path := filepath.Join(dir, filepath.FromSlash(module)+s.suffix)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("cartridge for %s: %w", module, domain.ErrCartridgeNotFound)
}

// ModuleName derives the module identifier paired with a cartridge
// path.
func (s *CartridgeStore) ModuleName(path string) string {
	name := strings.TrimSuffix(path, s.suffix)
	for _, dir := range s.dirs {
		rel, err := filepath.Rel(dir, name)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Base(name))
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sulai/p8lua/internal/cartridge"
	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
	"github.com/sulai/p8lua/internal/core/ports/driving"
	"github.com/sulai/p8lua/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driving.Extractor = (*Extractor)(nil)

// Extractor seeds module files from cartridges that lack one. It runs
// the sync direction in reverse: the cartridge's code section becomes
// the initial module content. Existing module files are never touched.
type Extractor struct {
	modules driven.ModuleStore
	carts   driven.CartridgeStore
	section string
}

// NewExtractor creates a new extractor targeting the given section tag.
func NewExtractor(modules driven.ModuleStore, carts driven.CartridgeStore, section string) *Extractor {
	if section == "" {
		section = cartridge.LuaTag
	}
	return &Extractor{
		modules: modules,
		carts:   carts,
		section: section,
	}
}

// ExtractAll creates a module file for every cartridge without one and
// returns the names of the modules created.
func (e *Extractor) ExtractAll(ctx context.Context) ([]string, error) {
	paths, err := e.carts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cartridges: %w", err)
	}

	var created []string
	for _, path := range paths {
		name := e.carts.ModuleName(path)
		if _, err := e.modules.Get(ctx, name); err == nil {
			continue // module exists, nothing to do
		} else if !errors.Is(err, domain.ErrModuleNotFound) {
			return created, fmt.Errorf("get module %s: %w", name, err)
		}

		body, err := e.sectionBody(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}

		module := domain.Module{Name: name, Content: body}
		if err := e.modules.Create(ctx, module); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("create module %s: %w", name, err)
		}

		logger.Info("Extracted %s from %s", name, path)
		created = append(created, name)
	}

	return created, nil
}

// sectionBody reads the target section's body from a cartridge.
func (e *Extractor) sectionBody(ctx context.Context, path string) (string, error) {
	data, err := e.carts.Read(ctx, path)
	if err != nil {
		return "", fmt.Errorf("read cartridge: %w", err)
	}
	doc := cartridge.Parse(data)
	section, err := doc.Section(e.section)
	if err != nil {
		return "", fmt.Errorf("section __%s__: %w", e.section, err)
	}
	return section.Body(), nil
}

// Package config provides infrastructure for loading graph documents.
// This package handles YAML parsing, file I/O, includes and variable substitution.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/services"
)

// GraphLoader handles loading graph documents from YAML files with include support.
//
// Include Resolution:
//   - A node may set `include: path` instead of kind or children
//   - The included document's root replaces the node; a name on the include
//     node overrides the included root's name
//   - Relative paths are resolved from the including file's directory
//   - Budgets and vars of included documents are merged, the including
//     document winning on conflicts
//   - Circular includes are rejected; the same file may be included from
//     several places as long as it does not include itself
//
// Variables are left untouched; see VariableSubstitutor.
type GraphLoader struct {
	merger *services.DocumentMerger
}

// NewGraphLoader creates a new graph loader.
func NewGraphLoader() *GraphLoader {
	return &GraphLoader{
		merger: services.NewDocumentMerger(),
	}
}

// LoadGraph loads a document and resolves all includes.
// This is the main entry point for graph loading.
func (l *GraphLoader) LoadGraph(path string) (*entities.Document, error) {
	return l.loadGraphRecursive(path, make(map[string]bool))
}

// included collects what the includes of one document contribute.
type included struct {
	budgets [][]entities.BudgetSpec
	vars    []map[string]interface{}
}

// loadGraphRecursive loads a document and its includes.
// stack holds the files currently being loaded.
func (l *GraphLoader) loadGraphRecursive(path string, stack map[string]bool) (*entities.Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}

	if stack[absPath] {
		return nil, fmt.Errorf("circular include detected: %s", absPath)
	}
	stack[absPath] = true
	defer delete(stack, absPath)

	doc, err := l.loadSingleGraph(absPath)
	if err != nil {
		return nil, err
	}

	var inc included
	if err := l.resolveIncludes(&doc.Root, absPath, stack, &inc); err != nil {
		return nil, err
	}

	doc.Budgets = l.merger.MergeAllBudgets(append(inc.budgets, doc.Budgets)...)
	doc.Vars = l.merger.MergeVars(append(inc.vars, doc.Vars)...)
	return doc, nil
}

func (l *GraphLoader) resolveIncludes(node *entities.NodeSpec, currentPath string, stack map[string]bool, inc *included) error {
	if !node.IsInclude() {
		for i := range node.Children {
			if err := l.resolveIncludes(&node.Children[i], currentPath, stack, inc); err != nil {
				return err
			}
		}
		return nil
	}

	if node.IsLeaf() || node.HasFields() || len(node.Children) > 0 {
		return fmt.Errorf("include %q: an include node cannot declare kind, fields or children", node.Include)
	}

	child, err := l.loadGraphRecursive(l.resolveRelativePath(currentPath, node.Include), stack)
	if err != nil {
		return fmt.Errorf("loading include %q: %w", node.Include, err)
	}

	name := node.Name
	*node = child.Root
	if name != "" {
		node.Name = name
	}

	inc.budgets = append(inc.budgets, child.Budgets)
	inc.vars = append(inc.vars, child.Vars)
	return nil
}

// loadSingleGraph loads a single document from disk without resolving includes.
func (l *GraphLoader) loadSingleGraph(path string) (*entities.Document, error) {
	// Security: Use os.OpenRoot to prevent path traversal attacks
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	doc, err := l.LoadGraphFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadGraphFromReader parses a document from an io.Reader.
// Note: This does NOT resolve includes or substitute vars.
func (l *GraphLoader) LoadGraphFromReader(r io.Reader) (*entities.Document, error) {
	var doc entities.Document

	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("graph document is empty")
		}
		return nil, fmt.Errorf("failed to decode graph YAML: %w", err)
	}

	return &doc, nil
}

// resolveRelativePath resolves a path relative to the current document's directory.
// If includePath is absolute, it is returned as-is.
func (l *GraphLoader) resolveRelativePath(currentPath, includePath string) string {
	if filepath.IsAbs(includePath) {
		return includePath
	}
	return filepath.Join(filepath.Dir(currentPath), includePath)
}

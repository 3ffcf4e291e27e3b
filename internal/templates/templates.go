// Package templates provides embedded starter graphs for rollup init.
package templates

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"text/template"
)

//go:embed graph/*.tmpl
var graphTemplates embed.FS

const templateSuffix = ".yaml.tmpl"

// GraphData contains the data used to render graph templates.
type GraphData struct {
	// Name is the graph and root name (e.g., "office-it")
	Name string
	// Version is the graph version (e.g., "1.0.0")
	Version string
	// Description is optional free text
	Description string
	// MonthlyCap adds a monthly budget when non-zero
	MonthlyCap int64
	// YearlyCap adds a yearly budget when non-zero
	YearlyCap int64
}

// GraphTemplates returns the parsed graph templates, keyed by name without
// the .yaml.tmpl suffix.
func GraphTemplates() (*template.Template, error) {
	tmpl := template.New("")

	err := fs.WalkDir(graphTemplates, "graph", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, templateSuffix) {
			return nil
		}

		content, err := graphTemplates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, "graph/")
		name = strings.TrimSuffix(name, templateSuffix)

		_, err = tmpl.New(name).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	return tmpl, nil
}

// TemplateNames returns the available starter graphs in sorted order.
func TemplateNames() ([]string, error) {
	entries, err := fs.ReadDir(graphTemplates, "graph")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), templateSuffix) {
			names = append(names, strings.TrimSuffix(e.Name(), templateSuffix))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Render writes the named starter graph.
func Render(w io.Writer, name string, data GraphData) error {
	if data.Name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}
	if data.Version == "" {
		data.Version = "1.0.0"
	}

	tmpl, err := GraphTemplates()
	if err != nil {
		return err
	}

	t := tmpl.Lookup(name)
	if t == nil {
		names, _ := TemplateNames()
		return fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(names, ", "))
	}

	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("rendering template %s: %w", name, err)
	}
	return nil
}

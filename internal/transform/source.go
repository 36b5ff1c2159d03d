package transform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/replout/internal/display"
)

// SourceResolver maps a module identifier to a source file path, searching
// paths in order.
type SourceResolver interface {
	Resolve(module string, paths []string) (string, error)
}

// DefaultExtensions are tried after the bare module name.
var DefaultExtensions = []string{".go", ".js", ".json"}

// FileResolver resolves modules against the local filesystem. For each
// search path it tries <path>/<module>, then <module> with each extension,
// then <path>/<module>/index<ext>. The first regular file wins.
type FileResolver struct {
	Extensions []string
}

func (r FileResolver) Resolve(module string, paths []string) (string, error) {
	if module == "" {
		return "", fmt.Errorf("empty module identifier")
	}
	exts := r.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}
	if filepath.IsAbs(module) {
		paths = []string{""}
	}

	for _, dir := range paths {
		base := filepath.Join(dir, module)
		candidates := []string{base}
		for _, ext := range exts {
			candidates = append(candidates, base+ext)
		}
		for _, ext := range exts {
			candidates = append(candidates, filepath.Join(base, "index"+ext))
		}
		for _, c := range candidates {
			if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
				return c, nil
			}
		}
	}
	return "", fmt.Errorf("module %q not found in %d search paths", module, len(paths))
}

// LocateSource resolves module against paths and describes the result.
func (t *Transformer) LocateSource(module string, paths []string) display.SourceLocation {
	loc, err := t.resolver.Resolve(module, paths)
	if err != nil {
		t.log.Debug("module source not found", "module", module, "error", err)
		return display.SourceLocation{Name: module}
	}
	return display.SourceLocation{Location: loc, Name: module, Found: true}
}

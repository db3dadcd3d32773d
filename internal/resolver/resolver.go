// Package resolver turns textual target patterns into fully-qualified type
// identifiers by loading Go packages and filtering the types defined in them.
package resolver

import (
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/typedmock/typedmock/internal/diag"
	"github.com/typedmock/typedmock/internal/errors"
	"github.com/typedmock/typedmock/internal/models"
)

const loadMode = packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo

// Resolver expands target patterns into "import/path.TypeName" identifiers.
// The working directory is an explicit parameter so project-local packages
// resolve without mutating process-global state.
type Resolver struct {
	dir        string
	diag       *diag.System
	modulePath string // lazily resolved from go.mod for relative patterns
}

// New creates a resolver that loads packages relative to dir.
func New(dir string, d *diag.System) *Resolver {
	return &Resolver{dir: dir, diag: d}
}

// Resolve expands every pattern, deduplicates the results, and preserves
// first-seen order. A pattern that fails to parse, load, or match is
// reported as a warning and skipped; resolution itself never fails.
func (r *Resolver) Resolve(rawPatterns []string) []string {
	var resolved []string
	seen := make(map[string]bool)

	for _, raw := range rawPatterns {
		pattern, err := ParsePattern(raw)
		if err != nil {
			r.diag.Warn("skipping pattern: %v", err)
			continue
		}
		targets, err := r.resolveOne(pattern)
		if err != nil {
			r.diag.Warn("skipping pattern: %v", err)
			continue
		}
		for _, target := range targets {
			if !seen[target] {
				seen[target] = true
				resolved = append(resolved, target)
			}
		}
	}
	return resolved
}

// Excluded reports whether fqn matches any exclude entry. An entry matches
// as an exact fully-qualified name or as a target pattern: literal patterns
// name one type, wildcard patterns select by defining package. Entries that
// do not parse as patterns only ever match exactly.
func (r *Resolver) Excluded(fqn string, excludes []string) bool {
	fqnPkg, _ := models.SplitQualifiedName(fqn)
	for _, raw := range excludes {
		if raw == fqn {
			return true
		}
		pattern, err := ParsePattern(raw)
		if err != nil {
			continue
		}
		pkgPath, err := r.importPath(pattern)
		if err != nil {
			continue
		}
		switch pattern.Kind {
		case PatternLiteral:
			if fqn == pkgPath+"."+pattern.TypeName {
				return true
			}
		case PatternShallow:
			if fqnPkg == pkgPath {
				return true
			}
		case PatternRecursive:
			if fqnPkg == pkgPath || strings.HasPrefix(fqnPkg, pkgPath+"/") {
				return true
			}
		}
	}
	return false
}

func (r *Resolver) resolveOne(pattern *Pattern) ([]string, error) {
	pkgPath, err := r.importPath(pattern)
	if err != nil {
		return nil, err
	}

	switch pattern.Kind {
	case PatternLiteral:
		return r.resolveLiteral(pattern, pkgPath)
	case PatternShallow:
		return r.resolveWildcard(pattern, []string{pkgPath})
	case PatternRecursive:
		return r.resolveWildcard(pattern, []string{pkgPath, pkgPath + "/..."})
	default:
		return nil, errors.NewPatternError(pattern.Raw, "unknown pattern kind", nil)
	}
}

func (r *Resolver) resolveLiteral(pattern *Pattern, pkgPath string) ([]string, error) {
	pkgs, err := r.load(pkgPath)
	if err != nil {
		return nil, errors.NewResolutionError(pattern.Raw, fmt.Sprintf("cannot load package %s", pkgPath), err)
	}
	if len(pkgs) == 0 {
		return nil, errors.NewResolutionError(pattern.Raw, fmt.Sprintf("package %s not found", pkgPath), nil)
	}
	pkg := pkgs[0]

	obj := pkg.Types.Scope().Lookup(pattern.TypeName)
	if obj == nil {
		return nil, errors.NewResolutionError(pattern.Raw, fmt.Sprintf("%s has no symbol %s", pkg.PkgPath, pattern.TypeName), nil)
	}
	if _, ok := obj.(*types.TypeName); !ok {
		return nil, errors.NewResolutionError(pattern.Raw, fmt.Sprintf("%s.%s is a %T, not a type", pkg.PkgPath, pattern.TypeName, obj), nil)
	}
	return []string{pkg.PkgPath + "." + pattern.TypeName}, nil
}

func (r *Resolver) resolveWildcard(pattern *Pattern, loadPatterns []string) ([]string, error) {
	pkgs, err := r.load(loadPatterns...)
	if err != nil {
		return nil, errors.NewResolutionError(pattern.Raw, "package load failed", err)
	}
	if len(pkgs) == 0 {
		return nil, errors.NewResolutionError(pattern.Raw, "no packages matched", nil)
	}

	// Deterministic walk order: the root package sorts before its subpackages.
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	var targets []string
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			r.diag.Warn("skipping package %s: %v", pkg.PkgPath, pkg.Errors[0])
			continue
		}
		for _, name := range typesDefinedIn(pkg) {
			targets = append(targets, pkg.PkgPath+"."+name)
		}
	}
	return targets, nil
}

// typesDefinedIn returns the exported struct and interface types declared in
// the package itself. Aliases re-exporting types defined elsewhere are
// filtered out so a symbol re-exported by several packages only ever
// produces one stub.
func typesDefinedIn(pkg *packages.Package) []string {
	scope := pkg.Types.Scope()
	var names []string
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}
		tn, ok := obj.(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != pkg.PkgPath {
			continue
		}
		switch named.Underlying().(type) {
		case *types.Struct, *types.Interface:
			names = append(names, name)
		}
	}
	return names
}

func (r *Resolver) load(loadPatterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{Mode: loadMode, Dir: r.dir}
	pkgs, err := packages.Load(cfg, loadPatterns...)
	if err != nil {
		return nil, err
	}
	// Packages the loader could not find at all carry errors and no type
	// information; surface the first error instead of an empty result.
	loadable := pkgs[:0]
	for _, pkg := range pkgs {
		if pkg.Types == nil {
			if len(pkg.Errors) > 0 {
				return nil, fmt.Errorf("%s", pkg.Errors[0].Msg)
			}
			continue
		}
		loadable = append(loadable, pkg)
	}
	return loadable, nil
}

// importPath maps a pattern's package path to an absolute import path,
// resolving "./" patterns against the enclosing module.
func (r *Resolver) importPath(pattern *Pattern) (string, error) {
	if !pattern.Relative {
		return pattern.PkgPath, nil
	}
	module, err := r.moduleBase()
	if err != nil {
		return "", errors.NewResolutionError(pattern.Raw, "cannot resolve relative pattern outside a module", err)
	}
	if pattern.PkgPath == "" {
		return module, nil
	}
	return module + "/" + pattern.PkgPath, nil
}

// moduleBase finds the enclosing go.mod (walking upward from the resolver's
// directory) and returns its module path.
func (r *Resolver) moduleBase() (string, error) {
	if r.modulePath != "" {
		return r.modulePath, nil
	}
	dir, err := filepath.Abs(r.dir)
	if err != nil {
		return "", err
	}
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if data, err := os.ReadFile(goModPath); err == nil {
			mod, err := modfile.Parse(goModPath, data, nil)
			if err != nil {
				return "", fmt.Errorf("parsing %s: %w", goModPath, err)
			}
			if mod.Module == nil {
				return "", fmt.Errorf("%s has no module declaration", goModPath)
			}
			r.modulePath = mod.Module.Mod.Path
			return r.modulePath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod found above %s", r.dir)
		}
		dir = parent
	}
}

package inspector

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/typedmock/typedmock/internal/diag"
	"github.com/typedmock/typedmock/internal/errors"
	"github.com/typedmock/typedmock/internal/models"
)

const staticLoadMode = packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax

// StaticBackend inspects types through go/packages and go/types. It caches
// one package load per import path; the cache lives as long as the backend
// instance, which the CLI creates fresh per generation run.
type StaticBackend struct {
	dir   string
	diag  *diag.System
	cache map[string]*loadedPackage
}

type loadedPackage struct {
	pkg  *packages.Package
	docs map[string]string // "Recv.Method" or "Func" -> first doc line
	err  error
}

// NewStaticBackend creates a static backend loading packages relative to dir.
func NewStaticBackend(dir string, d *diag.System) *StaticBackend {
	return &StaticBackend{dir: dir, diag: d, cache: make(map[string]*loadedPackage)}
}

// Name identifies the backend in diagnostics.
func (b *StaticBackend) Name() string { return "static" }

// Inspect builds a descriptor for one type. A package that fails to load
// degrades to an empty member list with a warning; a type missing from a
// loadable package is an inspection error.
func (b *StaticBackend) Inspect(fqn string, includePrivate bool) (*models.ClassDescriptor, error) {
	pkgPath, typeName := models.SplitQualifiedName(fqn)
	descriptor := &models.ClassDescriptor{
		SimpleName:         typeName,
		FullyQualifiedName: fqn,
		PkgPath:            pkgPath,
		PkgName:            pkgPath[strings.LastIndex(pkgPath, "/")+1:],
	}

	loaded := b.loadPackage(pkgPath)
	if loaded.err != nil {
		b.diag.Warn("static backend: %s: %v; emitting empty member list", pkgPath, loaded.err)
		return descriptor, nil
	}
	pkg := loaded.pkg
	descriptor.PkgName = pkg.Types.Name()

	obj := pkg.Types.Scope().Lookup(typeName)
	if obj == nil {
		return nil, errors.NewInspectionError(fqn, "type not found in package scope", nil)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, errors.NewInspectionError(fqn, fmt.Sprintf("%s is not a named type", typeName), nil)
	}

	b.collectMethods(descriptor, named, loaded, includePrivate)
	b.collectAssociatedFuncs(descriptor, named, loaded, includePrivate)
	return descriptor, nil
}

// collectMethods walks the pointer method set, so value- and
// pointer-receiver methods are both discovered. The method set computation
// already keeps only the closest-defining declaration per name.
func (b *StaticBackend) collectMethods(descriptor *models.ClassDescriptor, named *types.Named, loaded *loadedPackage, includePrivate bool) {
	var receiver types.Type = types.NewPointer(named)
	if types.IsInterface(named) {
		receiver = named
	}
	methodSet := types.NewMethodSet(receiver)
	for i := 0; i < methodSet.Len(); i++ {
		fn, ok := methodSet.At(i).Obj().(*types.Func)
		if !ok {
			continue
		}
		if !fn.Exported() && !includePrivate {
			continue
		}
		sig := fn.Type().(*types.Signature)
		member := b.buildMember(descriptor, fn.Name(), sig, false)
		member.Kind = classifyMethod(sig)
		member.IsAsync = member.Kind == models.KindAsyncMethod
		member.Doc = loaded.docs[named.Obj().Name()+"."+fn.Name()]
		descriptor.AddMember(member)
	}
}

// collectAssociatedFuncs scans the package scope for constructors
// (New<Type> functions returning the type) and static funcs (package
// functions taking the type as first parameter). Only the static backend
// can see these; reflection has no view of package-level functions.
func (b *StaticBackend) collectAssociatedFuncs(descriptor *models.ClassDescriptor, named *types.Named, loaded *loadedPackage, includePrivate bool) {
	scope := loaded.pkg.Types.Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}
		if !fn.Exported() && !includePrivate {
			continue
		}
		sig := fn.Type().(*types.Signature)

		switch {
		case isConstructorFor(fn.Name(), sig, named):
			member := b.buildMember(descriptor, fn.Name(), sig, false)
			member.Kind = models.KindConstructor
			member.IsAsync = leadingContextParam(sig, 0)
			member.Doc = loaded.docs[fn.Name()]
			descriptor.AddMember(member)
		case isStaticFuncFor(sig, named):
			member := b.buildMember(descriptor, fn.Name(), sig, true)
			member.Kind = models.KindStaticFunc
			member.IsAsync = leadingContextParam(sig, 1)
			member.Doc = loaded.docs[fn.Name()]
			descriptor.AddMember(member)
		}
	}
}

// buildMember renders parameter and result text for one signature.
// skipFirstParam drops the receiver-like first parameter of static funcs.
func (b *StaticBackend) buildMember(descriptor *models.ClassDescriptor, name string, sig *types.Signature, skipFirstParam bool) *models.MethodDescriptor {
	params := sig.Params()
	start := 0
	if skipFirstParam && params.Len() > 0 {
		start = 1
	}

	var paramTypes []string
	var paramDecls []string
	for i := start; i < params.Len(); i++ {
		param := params.At(i)
		text := renderStaticType(param.Type(), descriptor)
		if sig.Variadic() && i == params.Len()-1 {
			text = "..." + strings.TrimPrefix(text, "[]")
		}
		paramTypes = append(paramTypes, text)
		declName := param.Name()
		if declName == "" {
			declName = fmt.Sprintf("arg%d", i-start)
		}
		paramDecls = append(paramDecls, declName+" "+text)
	}

	returnText := renderResults(sig.Results(), descriptor)
	signature := "(" + strings.Join(paramDecls, ", ") + ")"
	if returnText != "" {
		signature += " " + returnText
	}

	return &models.MethodDescriptor{
		Name:           name,
		SignatureText:  Sanitize(signature),
		ParamTypes:     paramTypes,
		ReturnTypeText: returnText,
	}
}

func classifyMethod(sig *types.Signature) models.MemberKind {
	switch {
	case leadingContextParam(sig, 0):
		return models.KindAsyncMethod
	case sig.Params().Len() == 0 && sig.Results().Len() == 1:
		return models.KindGetter
	default:
		return models.KindMethod
	}
}

func leadingContextParam(sig *types.Signature, index int) bool {
	if sig.Params().Len() <= index {
		return false
	}
	return isContextType(sig.Params().At(index).Type())
}

func isContextType(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "context" && obj.Name() == "Context"
}

func isConstructorFor(name string, sig *types.Signature, named *types.Named) bool {
	if !strings.HasPrefix(name, "New"+named.Obj().Name()) {
		return false
	}
	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		if refersTo(results.At(i).Type(), named) {
			return true
		}
	}
	return false
}

func isStaticFuncFor(sig *types.Signature, named *types.Named) bool {
	params := sig.Params()
	return params.Len() > 0 && refersTo(params.At(0).Type(), named)
}

func refersTo(t types.Type, named *types.Named) bool {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	other, ok := t.(*types.Named)
	return ok && other.Obj() == named.Obj()
}

// renderResults renders a result tuple: empty for none, bare text for one,
// parenthesized for several.
func renderResults(results *types.Tuple, descriptor *models.ClassDescriptor) string {
	switch results.Len() {
	case 0:
		return ""
	case 1:
		return renderStaticType(results.At(0).Type(), descriptor)
	default:
		parts := make([]string, 0, results.Len())
		for i := 0; i < results.Len(); i++ {
			parts = append(parts, renderStaticType(results.At(i).Type(), descriptor))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

// renderStaticType renders a type for embedding in a generated package,
// recording the imports the rendered text relies on. Anything the generated
// package could not legally reference, such as unexported named types,
// internal packages, or type parameters, collapses to "any".
func renderStaticType(t types.Type, descriptor *models.ClassDescriptor) string {
	if !exportable(t) {
		return "any"
	}
	return types.TypeString(t, func(p *types.Package) string {
		descriptor.AddImport(p.Name(), p.Path())
		return p.Name()
	})
}

func exportable(t types.Type) bool {
	switch v := t.(type) {
	case *types.Basic:
		return v.Kind() != types.Invalid
	case *types.Named:
		obj := v.Obj()
		if obj.Pkg() != nil {
			if !obj.Exported() {
				return false
			}
			if strings.Contains(obj.Pkg().Path()+"/", "/internal/") {
				return false
			}
		}
		for i := 0; i < v.TypeArgs().Len(); i++ {
			if !exportable(v.TypeArgs().At(i)) {
				return false
			}
		}
		return true
	case *types.Pointer:
		return exportable(v.Elem())
	case *types.Slice:
		return exportable(v.Elem())
	case *types.Array:
		return exportable(v.Elem())
	case *types.Chan:
		return exportable(v.Elem())
	case *types.Map:
		return exportable(v.Key()) && exportable(v.Elem())
	case *types.Signature:
		for i := 0; i < v.Params().Len(); i++ {
			if !exportable(v.Params().At(i).Type()) {
				return false
			}
		}
		for i := 0; i < v.Results().Len(); i++ {
			if !exportable(v.Results().At(i).Type()) {
				return false
			}
		}
		return true
	case *types.Interface:
		return v.Empty()
	case *types.Struct:
		return v.NumFields() == 0
	default:
		return false
	}
}

// loadPackage loads and caches one package per run, harvesting doc comments
// from the syntax trees while the ASTs are in memory.
func (b *StaticBackend) loadPackage(pkgPath string) *loadedPackage {
	if cached, ok := b.cache[pkgPath]; ok {
		return cached
	}

	loaded := &loadedPackage{docs: make(map[string]string)}
	b.cache[pkgPath] = loaded

	cfg := &packages.Config{Mode: staticLoadMode, Dir: b.dir}
	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		loaded.err = err
		return loaded
	}
	if len(pkgs) == 0 || pkgs[0].Types == nil {
		loaded.err = fmt.Errorf("package %s did not load", pkgPath)
		return loaded
	}
	if len(pkgs[0].Errors) > 0 {
		loaded.err = fmt.Errorf("%s", pkgs[0].Errors[0].Msg)
		return loaded
	}

	loaded.pkg = pkgs[0]
	for _, file := range loaded.pkg.Syntax {
		harvestDocs(file, loaded.docs)
	}
	return loaded
}

// harvestDocs records the first doc-comment line of every function
// declaration, keyed by "Recv.Name" for methods and "Name" for functions.
func harvestDocs(file *ast.File, docs map[string]string) {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}
		key := fd.Name.Name
		if fd.Recv != nil && len(fd.Recv.List) > 0 {
			if recvName := receiverTypeName(fd.Recv.List[0].Type); recvName != "" {
				key = recvName + "." + fd.Name.Name
			}
		}
		firstLine := strings.SplitN(strings.TrimSpace(fd.Doc.Text()), "\n", 2)[0]
		docs[key] = firstLine
	}
}

func receiverTypeName(expr ast.Expr) string {
	switch v := expr.(type) {
	case *ast.Ident:
		return v.Name
	case *ast.StarExpr:
		return receiverTypeName(v.X)
	case *ast.IndexExpr:
		return receiverTypeName(v.X)
	case *ast.IndexListExpr:
		return receiverTypeName(v.X)
	default:
		return ""
	}
}

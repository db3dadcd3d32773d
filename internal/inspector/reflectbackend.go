package inspector

import (
	"context"
	"reflect"
	"strings"

	"github.com/typedmock/typedmock/internal/diag"
	"github.com/typedmock/typedmock/internal/errors"
	"github.com/typedmock/typedmock/internal/models"
)

var contextInterface = reflect.TypeOf((*context.Context)(nil)).Elem()

// ReflectBackend inspects live reflect.Type values registered by the
// caller. It only sees the exported method set: Go reflection cannot
// enumerate unexported methods or package-level functions, so constructors
// and static funcs never appear in its output, and return types are always
// rendered as "any" because a reflected type string is not guaranteed to be
// importable from the generated package.
type ReflectBackend struct {
	diag  *diag.System
	types map[string]reflect.Type
}

// NewReflectBackend creates an empty reflect backend.
func NewReflectBackend(d *diag.System) *ReflectBackend {
	return &ReflectBackend{diag: d, types: make(map[string]reflect.Type)}
}

// Name identifies the backend in diagnostics.
func (b *ReflectBackend) Name() string { return "reflect" }

// Register makes a live value's type inspectable under its fully-qualified
// name. Pointer values register their element type.
func (b *ReflectBackend) Register(value any) string {
	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fqn := t.PkgPath() + "." + t.Name()
	b.types[fqn] = t
	return fqn
}

// RegisterType makes a reflect.Type inspectable under its fully-qualified name.
func (b *ReflectBackend) RegisterType(t reflect.Type) string {
	fqn := t.PkgPath() + "." + t.Name()
	b.types[fqn] = t
	return fqn
}

// Inspect builds a descriptor from the registered type's method set.
// The includePrivate flag is accepted for contract compatibility but has
// no effect: reflection only exposes exported methods.
func (b *ReflectBackend) Inspect(fqn string, includePrivate bool) (*models.ClassDescriptor, error) {
	t, ok := b.types[fqn]
	if !ok {
		return nil, errors.NewInspectionError(fqn, "type was not registered with the reflect backend", nil)
	}
	_ = includePrivate

	pkgPath, typeName := models.SplitQualifiedName(fqn)
	descriptor := &models.ClassDescriptor{
		SimpleName:         typeName,
		FullyQualifiedName: fqn,
		PkgPath:            pkgPath,
		PkgName:            pkgPath[strings.LastIndex(pkgPath, "/")+1:],
	}

	receiver := t
	if t.Kind() != reflect.Interface {
		receiver = reflect.PointerTo(t)
	}
	for i := 0; i < receiver.NumMethod(); i++ {
		descriptor.AddMember(b.buildMember(descriptor, receiver.Method(i), t.Kind() == reflect.Interface))
	}
	return descriptor, nil
}

func (b *ReflectBackend) buildMember(descriptor *models.ClassDescriptor, method reflect.Method, isInterface bool) *models.MethodDescriptor {
	fn := method.Type

	// Concrete method types carry the receiver as In(0); interface methods
	// do not.
	start := 1
	if isInterface {
		start = 0
	}

	var paramTypes []string
	for i := start; i < fn.NumIn(); i++ {
		text := renderReflectType(fn.In(i), descriptor)
		if fn.IsVariadic() && i == fn.NumIn()-1 {
			text = "..." + strings.TrimPrefix(text, "[]")
		}
		paramTypes = append(paramTypes, text)
	}

	member := &models.MethodDescriptor{
		Name:           method.Name,
		ParamTypes:     paramTypes,
		ReturnTypeText: "any",
	}
	member.SignatureText = Sanitize("(" + strings.Join(paramTypes, ", ") + ") any")

	switch {
	case len(paramTypes) > 0 && fn.NumIn() > start && fn.In(start) == contextInterface:
		member.Kind = models.KindAsyncMethod
		member.IsAsync = true
	case len(paramTypes) == 0 && fn.NumOut() == 1:
		member.Kind = models.KindGetter
	default:
		member.Kind = models.KindMethod
	}
	return member
}

// renderReflectType renders a reflected type for embedding in generated
// source. Unexported or unnameable types collapse to "any".
func renderReflectType(t reflect.Type, descriptor *models.ClassDescriptor) string {
	switch t.Kind() {
	case reflect.Pointer:
		return prefixed("*", t.Elem(), descriptor)
	case reflect.Slice:
		return prefixed("[]", t.Elem(), descriptor)
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return prefixed("<-chan ", t.Elem(), descriptor)
		case reflect.SendDir:
			return prefixed("chan<- ", t.Elem(), descriptor)
		default:
			return prefixed("chan ", t.Elem(), descriptor)
		}
	case reflect.Map:
		key := renderReflectType(t.Key(), descriptor)
		elem := renderReflectType(t.Elem(), descriptor)
		if key == "any" {
			return "any"
		}
		return "map[" + key + "]" + elem
	}

	if t.Name() == "" {
		// Anonymous structs, func literals, and the like are not worth
		// reproducing; the empty interface is the only safe rendering.
		if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
			return "any"
		}
		return "any"
	}
	if t.PkgPath() == "" {
		return t.Name() // predeclared type
	}
	if !isExportedName(t.Name()) || strings.Contains(t.PkgPath()+"/", "/internal/") {
		return "any"
	}
	pkgName := t.PkgPath()[strings.LastIndex(t.PkgPath(), "/")+1:]
	descriptor.AddImport(pkgName, t.PkgPath())
	return pkgName + "." + t.Name()
}

func prefixed(prefix string, elem reflect.Type, descriptor *models.ClassDescriptor) string {
	text := renderReflectType(elem, descriptor)
	if text == "any" && prefix != "*" {
		return "any"
	}
	return prefix + text
}

func isExportedName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

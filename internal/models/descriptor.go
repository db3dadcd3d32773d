package models

import "strings"

// MemberKind classifies how a member of a target type is invoked.
// Exactly one kind applies per member; asyncness is tracked separately
// because a constructor or static func can also take a context.
type MemberKind int

const (
	// KindMethod is a plain method on the type's method set.
	KindMethod MemberKind = iota
	// KindAsyncMethod is a method whose first parameter is context.Context.
	KindAsyncMethod
	// KindGetter is a niladic method with exactly one result.
	KindGetter
	// KindConstructor is a package-level New<Type>* function returning the type.
	KindConstructor
	// KindStaticFunc is a package-level function taking the type as its first parameter.
	KindStaticFunc
)

// String returns the name used for the kind in diagnostics and templates.
func (k MemberKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindAsyncMethod:
		return "async_method"
	case KindGetter:
		return "getter"
	case KindConstructor:
		return "constructor"
	case KindStaticFunc:
		return "static_func"
	default:
		return "unknown"
	}
}

// MethodDescriptor describes one member of an inspected type.
// Descriptors are built fresh per inspection pass and are not mutated
// after the inspector returns them.
type MethodDescriptor struct {
	Name           string     // member name
	Kind           MemberKind // calling convention
	IsAsync        bool       // true when invoking requires a context.Context
	SignatureText  string     // sanitized "(params) results" text
	ParamTypes     []string   // parameter type text, receiver excluded
	ReturnTypeText string     // result type text, "any" when unknown
	Doc            string     // first line of the declaration doc comment, if any
}

// FuncTypeText renders the member as a Go func type expression, used to
// parameterize the generated wrapped-method descriptors. An empty return
// text means the member has no results.
func (m *MethodDescriptor) FuncTypeText() string {
	text := "func(" + strings.Join(m.ParamTypes, ", ") + ")"
	if m.ReturnTypeText != "" {
		text += " " + m.ReturnTypeText
	}
	return text
}

// ClassDescriptor describes one inspected target type.
type ClassDescriptor struct {
	SimpleName         string              // last path segment, e.g. "UserService"
	FullyQualifiedName string              // "import/path.UserService"
	PkgPath            string              // defining package import path
	PkgName            string              // defining package name, used to qualify the type in generated code
	Members            []*MethodDescriptor // discovery order, unique names
	Imports            map[string]string   // package name -> import path referenced by member signatures
}

// AddImport records an import path needed by a rendered signature. The
// first path registered for a name wins; later collisions collapse to it.
func (c *ClassDescriptor) AddImport(name, path string) {
	if name == "" || path == "" {
		return
	}
	if c.Imports == nil {
		c.Imports = make(map[string]string)
	}
	if _, ok := c.Imports[name]; !ok {
		c.Imports[name] = path
	}
}

// SplitQualifiedName splits a fully-qualified type identifier into its
// import path and bare type name.
func SplitQualifiedName(fqn string) (pkgPath, name string) {
	idx := strings.LastIndex(fqn, ".")
	if idx < 0 {
		return "", fqn
	}
	return fqn[:idx], fqn[idx+1:]
}

// AddMember appends a descriptor unless a member with the same name was
// already discovered. The first (closest-defining) occurrence wins.
func (c *ClassDescriptor) AddMember(m *MethodDescriptor) {
	for _, existing := range c.Members {
		if existing.Name == m.Name {
			return
		}
	}
	c.Members = append(c.Members, m)
}

// MemberNames returns the member names in discovery order.
func (c *ClassDescriptor) MemberNames() []string {
	names := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		names = append(names, m.Name)
	}
	return names
}

// MethodNames returns the names of members that live on the method set
// (methods, async methods, getters). Constructors and static funcs are
// excluded; only the static backend can discover those.
func (c *ClassDescriptor) MethodNames() []string {
	names := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		switch m.Kind {
		case KindMethod, KindAsyncMethod, KindGetter:
			names = append(names, m.Name)
		}
	}
	return names
}

// ArtifactSet records the files one emission run wrote. Regeneration is
// always a full overwrite; there is no incremental diffing.
type ArtifactSet struct {
	OutputDir string
	Files     []string
}

package emitter

import "text/template"

// The templates render file bodies only; the emitter prepends the header
// comment, package clause, and the import block it computes from the body.

var classTemplate = template.Must(template.New("class").Parse(`
{{- if .TargetRef}}
// {{.APIName}} is the declaration-only member surface of {{.FQN}}.
{{- else}}
// {{.APIName}} is the declaration-only member surface of {{.FQN}}; the
// defining package is not importable from generated code.
{{- end}}
type {{.APIName}} interface {
{{- range .InterfaceMembers}}
{{- if .Doc}}
	// {{.Doc}}
{{- end}}
	{{.Name}}{{.Signature}}
{{- end}}
}

// {{.MockName}} exposes every member of {{.Name}} as a typed handle over
// one call-tracking core.
type {{.MockName}} struct {
	core typedmock.Caller
}

{{range .Accessors}}
// {{.Name}} returns the typed handle for the {{.Name}} {{.KindLabel}}.
func (m *{{$.MockName}}) {{.Name}}() typedmock.{{.WrapperType}}[{{.FuncType}}] {
	return typedmock.{{.WrapperFunc}}[{{.FuncType}}](m.core, "{{.Name}}")
}
{{end}}
// Caller exposes the underlying call-tracking core.
func (m *{{.MockName}}) Caller() typedmock.Caller { return m.core }

{{if .TargetRef -}}
// TypedClass returns the mocked type.
func (m *{{.MockName}}) TypedClass() reflect.Type {
	return reflect.TypeOf((*{{.TargetRef}})(nil)).Elem()
}
{{- else -}}
// TypedClass returns nil; {{.FQN}} cannot be named from generated code.
func (m *{{.MockName}}) TypedClass() reflect.Type { return nil }
{{- end}}

// {{.AliasName}} is the convenience alias for {{.MockName}}.
type {{.AliasName}} = {{.MockName}}
`))

var runtimeTemplate = template.Must(template.New("runtime").Parse(`
{{- range $class := .Classes}}
// {{$class.StubName}} is a never-executed stand-in for {{$class.Name}}. It
// exists so the generated package imports and instantiates cleanly at runtime.
type {{$class.StubName}} struct{}

{{range $class.InterfaceMembers}}
func ({{$class.StubName}}) {{.Name}}{{.Signature}} {
	panic("typedmock: placeholder member is not executable")
}
{{end}}
{{- range $class.PlaceholderFuncs}}
// {{.Name}} is a never-executed stand-in for the associated {{.KindLabel}}.
func {{.Name}}{{.Signature}} {
	panic("typedmock: placeholder member is not executable")
}
{{end}}
// New{{$class.Name}}Mock creates the typed mock for {{$class.Name}} over a
// fresh call-tracking core.
func New{{$class.Name}}Mock() *{{$class.MockName}} {
	return &{{$class.MockName}}{core: typedmock.NewCore()}
}
{{end -}}
`))

var exportsTemplate = template.Must(template.New("exports").Parse(`
{{- /* body of the package export file */ -}}
// MockFor creates a typed mock over a fresh call-tracking core for any
// target type.
func MockFor[T any]() *typedmock.TypedMock[T] {
	return typedmock.NewTypedMock[T]()
}

// Exported lists every top-level name this package declares. It is
// rendered from the same name list as the declarations themselves, so the
// two can never drift apart.
var Exported = []string{
{{- range .Names}}
	"{{.}}",
{{- end}}
}
`))

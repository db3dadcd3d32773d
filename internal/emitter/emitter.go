// Package emitter renders inspected type descriptors into a generated
// package of typed mock artifacts: one declaration file per class, a fixed
// runtime placeholder file, and a fixed export registry file.
package emitter

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/dave/dst/decorator"

	"github.com/typedmock/typedmock/internal/diag"
	"github.com/typedmock/typedmock/internal/errors"
	"github.com/typedmock/typedmock/internal/models"
)

const (
	// RuntimeFileName is the reserved name of the runtime placeholder file.
	RuntimeFileName = "runtime.go"
	// ExportsFileName is the reserved name of the export registry file.
	ExportsFileName = "exports.go"

	runtimeImportPath = "github.com/typedmock/typedmock/pkg/typedmock"
	generatedHeader   = "// Code generated by typedmock. DO NOT EDIT.\n\n"
)

// Accessor names that would collide with the fixed methods every generated
// mock carries.
var reservedAccessorNames = map[string]bool{"Caller": true, "TypedClass": true}

// Emitter writes the generated artifact set. Rendering failures isolate to
// the affected class; filesystem failures abort the whole emission because
// a partial artifact set is worse than none.
type Emitter struct {
	diag *diag.System
}

// New creates an emitter.
func New(d *diag.System) *Emitter {
	return &Emitter{diag: d}
}

type memberView struct {
	Name      string
	Signature string
	Doc       string
	KindLabel string
}

type accessorView struct {
	Name        string
	KindLabel   string
	WrapperType string
	WrapperFunc string
	FuncType    string
}

type classView struct {
	Name             string
	FQN              string
	TargetRef        string // qualified original type, empty when unimportable
	APIName          string
	MockName         string
	AliasName        string
	StubName         string
	InterfaceMembers []memberView
	PlaceholderFuncs []memberView
	Accessors        []accessorView
	imports          map[string]string // name -> path
}

// Emit renders and writes artifacts for the given descriptors. Aggregate
// files are only written when at least one class survives rendering; with
// zero descriptors nothing is written at all.
func (e *Emitter) Emit(descriptors []*models.ClassDescriptor, outputDir string) (*models.ArtifactSet, error) {
	set := &models.ArtifactSet{OutputDir: outputDir}
	if len(descriptors) == 0 {
		return set, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.NewEmissionError(outputDir, "cannot create output directory", err)
	}
	pkgName := packageNameFor(outputDir)

	// Render every class up front so a bad class is excluded before any
	// file hits the disk.
	type renderedClass struct {
		view    *classView
		path    string
		content string
	}
	var rendered []renderedClass
	usedSimpleNames := make(map[string]bool)
	for _, descriptor := range descriptors {
		if usedSimpleNames[descriptor.SimpleName] {
			e.diag.Warn("skipping %s: a mock named %s was already generated", descriptor.FullyQualifiedName, descriptor.SimpleName)
			continue
		}
		view := e.buildClassView(descriptor)
		content, err := e.renderClassFile(pkgName, view)
		if err != nil {
			e.diag.Warn("skipping %s: %v", descriptor.FullyQualifiedName, err)
			continue
		}
		usedSimpleNames[descriptor.SimpleName] = true
		rendered = append(rendered, renderedClass{
			view:    view,
			path:    filepath.Join(outputDir, strings.ToLower(view.Name)+"_mock.go"),
			content: content,
		})
	}
	if len(rendered) == 0 {
		return set, nil
	}

	views := make([]*classView, 0, len(rendered))
	for _, rc := range rendered {
		views = append(views, rc.view)
	}
	runtimeContent, err := e.renderRuntimeFile(pkgName, views)
	if err != nil {
		return nil, errors.NewEmissionError(RuntimeFileName, "rendering runtime file", err)
	}
	exportsContent, err := e.renderExportsFile(pkgName, views)
	if err != nil {
		return nil, errors.NewEmissionError(ExportsFileName, "rendering exports file", err)
	}

	for _, rc := range rendered {
		if err := writeArtifact(rc.path, rc.content); err != nil {
			return nil, err
		}
		set.Files = append(set.Files, rc.path)
	}
	for _, aggregate := range []struct{ name, content string }{
		{RuntimeFileName, runtimeContent},
		{ExportsFileName, exportsContent},
	} {
		path := filepath.Join(outputDir, aggregate.name)
		if err := writeArtifact(path, aggregate.content); err != nil {
			return nil, err
		}
		set.Files = append(set.Files, path)
	}
	return set, nil
}

func (e *Emitter) buildClassView(descriptor *models.ClassDescriptor) *classView {
	view := &classView{
		Name:      descriptor.SimpleName,
		FQN:       descriptor.FullyQualifiedName,
		APIName:   descriptor.SimpleName + "API",
		MockName:  descriptor.SimpleName + "TypedMock",
		AliasName: descriptor.SimpleName + "Mock",
		StubName:  descriptor.SimpleName + "Stub",
		imports:   map[string]string{"typedmock": runtimeImportPath, "reflect": "reflect"},
	}
	for name, path := range descriptor.Imports {
		view.imports[name] = path
	}
	if importable(descriptor.PkgPath) && descriptor.PkgName != "" {
		view.TargetRef = descriptor.PkgName + "." + descriptor.SimpleName
		view.imports[descriptor.PkgName] = descriptor.PkgPath
	}

	for _, member := range descriptor.Members {
		label := kindLabel(member.Kind)
		switch member.Kind {
		case models.KindMethod, models.KindAsyncMethod, models.KindGetter:
			view.InterfaceMembers = append(view.InterfaceMembers, memberView{
				Name:      member.Name,
				Signature: member.SignatureText,
				Doc:       member.Doc,
				KindLabel: label,
			})
		case models.KindConstructor, models.KindStaticFunc:
			view.PlaceholderFuncs = append(view.PlaceholderFuncs, memberView{
				Name:      member.Name,
				Signature: member.SignatureText,
				Doc:       member.Doc,
				KindLabel: label,
			})
		}

		if reservedAccessorNames[member.Name] {
			e.diag.Warn("%s: member %s collides with a generated accessor and gets no typed handle", descriptor.FullyQualifiedName, member.Name)
			continue
		}
		accessor := accessorView{
			Name:        member.Name,
			KindLabel:   label,
			WrapperType: "WrappedMethod",
			WrapperFunc: "WrapMethod",
			FuncType:    member.FuncTypeText(),
		}
		if member.IsAsync {
			accessor.WrapperType = "WrappedAsyncMethod"
			accessor.WrapperFunc = "WrapAsyncMethod"
		}
		view.Accessors = append(view.Accessors, accessor)
	}
	return view
}

func (e *Emitter) renderClassFile(pkgName string, view *classView) (string, error) {
	var body bytes.Buffer
	if err := classTemplate.Execute(&body, view); err != nil {
		return "", err
	}
	return assembleFile(pkgName, body.String(), view.imports)
}

func (e *Emitter) renderRuntimeFile(pkgName string, views []*classView) (string, error) {
	// Placeholder funcs can be associated with more than one class; a name
	// is only declared once.
	declared := make(map[string]bool)
	type runtimeClassView struct {
		*classView
		PlaceholderFuncs []memberView
	}
	imports := map[string]string{"typedmock": runtimeImportPath}
	classes := make([]runtimeClassView, 0, len(views))
	for _, view := range views {
		kept := make([]memberView, 0, len(view.PlaceholderFuncs))
		for _, fn := range view.PlaceholderFuncs {
			if !declared[fn.Name] {
				declared[fn.Name] = true
				kept = append(kept, fn)
			}
		}
		for name, path := range view.imports {
			imports[name] = path
		}
		classes = append(classes, runtimeClassView{classView: view, PlaceholderFuncs: kept})
	}

	var body bytes.Buffer
	if err := runtimeTemplate.Execute(&body, struct{ Classes []runtimeClassView }{classes}); err != nil {
		return "", err
	}
	return assembleFile(pkgName, body.String(), imports)
}

func (e *Emitter) renderExportsFile(pkgName string, views []*classView) (string, error) {
	names := []string{"MockFor"}
	declared := make(map[string]bool)
	for _, view := range views {
		names = append(names, view.APIName, view.MockName, view.AliasName, view.StubName, "New"+view.Name+"Mock")
		for _, fn := range view.PlaceholderFuncs {
			if !declared[fn.Name] {
				declared[fn.Name] = true
				names = append(names, fn.Name)
			}
		}
	}

	var body bytes.Buffer
	if err := exportsTemplate.Execute(&body, struct{ Names []string }{names}); err != nil {
		return "", err
	}
	return assembleFile(pkgName, body.String(), map[string]string{"typedmock": runtimeImportPath})
}

// assembleFile prepends the header, package clause, and an import block
// holding only the imports the body actually references, then parses the
// result as a syntax gate and formats it. A file that does not parse is an
// emitter bug and is never written.
func assembleFile(pkgName, body string, imports map[string]string) (string, error) {
	// Usage is detected on code lines only; a harvested doc comment ending
	// in "time." must not keep the time import alive.
	var code strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		code.WriteString(line)
		code.WriteByte('\n')
	}

	type importEntry struct{ name, path string }
	var used []importEntry
	for name, path := range imports {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\.`)
		if pattern.MatchString(code.String()) {
			used = append(used, importEntry{name: name, path: path})
		}
	}
	sort.Slice(used, func(i, j int) bool { return used[i].path < used[j].path })

	var file strings.Builder
	file.WriteString(generatedHeader)
	file.WriteString("package " + pkgName + "\n\n")
	if len(used) > 0 {
		file.WriteString("import (\n")
		for _, entry := range used {
			if filepath.Base(entry.path) == entry.name {
				fmt.Fprintf(&file, "\t%q\n", entry.path)
			} else {
				fmt.Fprintf(&file, "\t%s %q\n", entry.name, entry.path)
			}
		}
		file.WriteString(")\n")
	}
	file.WriteString(body)

	source := file.String()
	if _, err := decorator.Parse(source); err != nil {
		return "", fmt.Errorf("generated source does not parse: %w", err)
	}
	formatted, err := format.Source([]byte(source))
	if err != nil {
		return "", fmt.Errorf("generated source does not format: %w", err)
	}
	return string(formatted), nil
}

func writeArtifact(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.NewEmissionError(path, "cannot write artifact", err)
	}
	return nil
}

// importable reports whether generated code outside the package tree can
// name types from pkgPath.
func importable(pkgPath string) bool {
	if pkgPath == "" {
		return false
	}
	return !strings.Contains(pkgPath+"/", "/internal/") && pkgPath != "main"
}

// packageNameFor derives the generated package name from the output
// directory, falling back to a fixed name when the directory's base is not
// a usable identifier.
func packageNameFor(outputDir string) string {
	base := filepath.Base(filepath.Clean(outputDir))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return "typedmockstubs"
	}
	return name
}

func kindLabel(kind models.MemberKind) string {
	switch kind {
	case models.KindAsyncMethod:
		return "async method"
	case models.KindGetter:
		return "getter"
	case models.KindConstructor:
		return "constructor"
	case models.KindStaticFunc:
		return "static func"
	default:
		return "method"
	}
}

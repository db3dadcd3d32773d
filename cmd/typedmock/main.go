package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/typedmock/typedmock/internal/cli"
	"github.com/typedmock/typedmock/internal/config"
	"github.com/typedmock/typedmock/internal/diag"
)

// listFlag accumulates repeatable, comma-separable string flags.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		targets  listFlag
		excludes listFlag
	)
	flags := flag.NewFlagSet("typedmock", flag.ContinueOnError)
	outputFlag := flags.String("output-dir", "", "Output directory for generated mocks (default: "+config.DefaultOutputDir+")")
	privateFlag := flags.Bool("include-private", false, "Include unexported members in generated declarations")
	configFlag := flags.String("config", "", "Explicit path to a "+config.ManifestName+" manifest")
	backendFlag := flags.String("backend", "", "Inspection backend (static)")
	verboseFlag := flags.Bool("verbose", false, "Enable verbose output")
	quietFlag := flags.Bool("quiet", false, "Only show errors")
	flags.Var(&targets, "targets", "Target patterns: import/path.Type, import/path.* or import/path.** (repeatable)")
	flags.Var(&excludes, "exclude", "Patterns or fully-qualified types to exclude (repeatable)")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: typedmock [options]\n\n")
		fmt.Fprintf(os.Stderr, "Generates typed mock packages for Go types.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nTarget Patterns:\n")
		fmt.Fprintf(os.Stderr, "  example.com/app/services.UserService   One specific type\n")
		fmt.Fprintf(os.Stderr, "  example.com/app/services.*             Every type defined in the package\n")
		fmt.Fprintf(os.Stderr, "  example.com/app.**                     Every type in the package tree\n")
		fmt.Fprintf(os.Stderr, "  ./services.*                           Relative to the enclosing module\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  typedmock --targets ./services.UserService\n")
		fmt.Fprintf(os.Stderr, "  typedmock --targets ./internal.** --exclude ./internal/legacy.*\n")
		fmt.Fprintf(os.Stderr, "  typedmock --config ci/%s --verbose\n", config.ManifestName)
	}

	if err := flags.Parse(args); err != nil {
		return 1
	}

	var diagnostics *diag.System
	switch {
	case *quietFlag:
		diagnostics = diag.NewQuiet()
	case *verboseFlag:
		diagnostics = diag.NewVerbose()
	default:
		diagnostics = diag.New(diag.LevelInfo)
	}

	workDir, err := os.Getwd()
	if err != nil {
		diagnostics.Error("cannot determine working directory: %v", err)
		return 1
	}

	generator := cli.NewGenerator(workDir, diagnostics)
	summary, err := generator.Run(cli.Options{
		Targets:        targets,
		ExcludeTargets: excludes,
		OutputDir:      *outputFlag,
		IncludePrivate: *privateFlag,
		ConfigPath:     *configFlag,
		Backend:        *backendFlag,
	})
	if err != nil {
		diagnostics.Error("%v", err)
		return 1
	}

	if summary.SkippedTargets > 0 {
		diagnostics.Warn("%d target(s) were skipped; see warnings above", summary.SkippedTargets)
	}
	return 0
}

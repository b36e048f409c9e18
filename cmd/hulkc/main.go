// Command hulkc compiles one HULK source file to MIPS32 assembly text
// (spec §6 CLI surface): one input path, one output path, nothing else.
//
// Grounded on cmd/funxy/main.go's texture — stage functions that each
// return a bool for "did I handle this invocation", plain os.Exit(1) on
// failure, isatty-gated colorized diagnostics — scaled down from funxy's
// many run modes (eval, test, bytecode, self-contained build) to this
// compiler's single mode: read source, emit assembly, exit.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/hulklang/hulkc/internal/checker"
	"github.com/hulklang/hulkc/internal/codegen/mips"
	"github.com/hulklang/hulkc/internal/config"
	"github.com/hulklang/hulkc/internal/errors"
	"github.com/hulklang/hulkc/internal/parser"
	"github.com/hulklang/hulkc/internal/tac"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main's testable body: it never calls os.Exit itself so tests can
// call it directly and inspect the returned code.
func run(args []string) int {
	var (
		inputPath  string
		outputPath string
		configPath string
		verbose    bool
	)

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-v", "--verbose":
			verbose = true
		case "-o", "--output":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires an argument\n", arg)
				return 1
			}
			outputPath = args[i+1]
			i++
		case "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires an argument\n", arg)
				return 1
			}
			configPath = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "unrecognized flag %q\n", arg)
				return 1
			}
			if inputPath != "" {
				fmt.Fprintf(os.Stderr, "unexpected extra argument %q\n", arg)
				return 1
			}
			inputPath = arg
		}
	}

	if inputPath == "" {
		fmt.Fprintf(os.Stderr, "usage: hulkc <input%s> [-o output.s] [--config path] [-v]\n", config.SourceFileExt)
		return 1
	}

	opts, err := loadBuildOptions(configPath, filepath.Dir(inputPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if outputPath == "" {
		if opts != nil && opts.OutputPath != "" {
			outputPath = opts.OutputPath
		} else {
			outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".s"
		}
	}

	logStage(verbose, "reading %s", inputPath)
	src, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %s\n", inputPath, err)
		return 1
	}

	logStage(verbose, "parsing")
	prog, parseErrs := parser.ParseProgram(string(src))
	if parseErrs.HasErrors() {
		reportErrors(parseErrs)
		return 1
	}

	logStage(verbose, "checking")
	result := checker.Check(prog)
	if !result.OK {
		reportErrors(result.Errors)
		return 1
	}

	logStage(verbose, "lowering")
	tacProg := tac.New(result).Generate(prog)

	logStage(verbose, "emitting")
	out := mips.NewWithOptions(opts).Generate(tacProg)

	if err := os.WriteFile(outputPath, []byte(out.Render()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %s\n", outputPath, err)
		return 1
	}

	logStage(verbose, "wrote %s", outputPath)
	return 0
}

// loadBuildOptions resolves a .hulkc.yaml: an explicit --config path takes
// priority, else the search walks up from the input file's directory
// (internal/config.FindBuildOptions). Neither being present is the normal
// case and yields nil, nil — callers fall back to package defaults.
func loadBuildOptions(explicitPath, searchDir string) (*config.BuildOptions, error) {
	if explicitPath != "" {
		return config.LoadBuildOptions(explicitPath)
	}
	found, err := config.FindBuildOptions(searchDir)
	if err != nil {
		return nil, err
	}
	if found == "" {
		return nil, nil
	}
	return config.LoadBuildOptions(found)
}

func logStage(verbose bool, format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// reportErrors prints every accumulated diagnostic to stderr, sorted by
// position (errors.Bag.Errors already sorts). Error codes are bolded red
// when stderr is a real terminal (cmd/funxy/main.go has no equivalent of
// its own, but internal/evaluator/builtins_term.go's isatty.IsTerminal
// check is the teacher's own gate for any terminal-dependent formatting).
func reportErrors(bag *errors.Bag) {
	colorize := isatty.IsTerminal(os.Stderr.Fd())
	for _, e := range bag.Errors() {
		if colorize {
			fmt.Fprintf(os.Stderr, "%d:%d: \x1b[1;31m%s\x1b[0m: %s\n", e.Line, e.Col, e.Code, e.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s\n", e.Error())
		}
	}
}

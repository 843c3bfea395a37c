package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/agenthands/pystyle/pkg/config"
	"github.com/agenthands/pystyle/pkg/lint"
	"github.com/agenthands/pystyle/pkg/lint/linters"
	"github.com/agenthands/pystyle/pkg/lint/signature"
	"github.com/agenthands/pystyle/pkg/pyast"
	"github.com/agenthands/pystyle/pkg/region"
	"github.com/agenthands/pystyle/pkg/report"
	"github.com/agenthands/pystyle/pkg/source"
)

const (
	exitOK    = 0
	exitLint  = 1
	exitUsage = 2
)

const usage = "Usage: pystyle [check|verify] [flags] paths..."

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return exitUsage
	}

	switch args[0] {
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "verify":
		return runVerify(args[1:], stdout, stderr)
	default:
		fmt.Fprintln(stderr, "Unknown command:", args[0])
		fmt.Fprintln(stderr, usage)
		return exitUsage
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(fs.Output(), "Usage: pystyle %s [flags] paths...\n", fs.Name())
		return exitUsage, false
	}
	return 0, true
}

// expand resolves each argument on its own so that one bad path does not
// hide the others.
func expand(args []string, stderr io.Writer) ([]string, bool) {
	var paths []string
	ok := true
	for _, arg := range args {
		p, err := source.Expand([]string{arg})
		if err != nil {
			fmt.Fprintf(stderr, "Error reading path: %v\n", err)
			ok = false
			continue
		}
		paths = append(paths, p...)
	}
	return paths, ok
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	checkCmd := flag.NewFlagSet("check", flag.ContinueOnError)
	checkCmd.SetOutput(stderr)
	configPath := checkCmd.String("config", "", "Config file (yaml, toml or json)")
	selector := checkCmd.String("selector", config.DefaultSelector, "Region selector")
	indentUnit := checkCmd.Int("indent", config.DefaultIndentUnitSize, "Spaces per indentation level")
	linterList := checkCmd.String("linters", "", "Comma separated linters to run (default all)")
	format := checkCmd.String("format", report.FormatText, "Output format: text or json")
	maxSize := checkCmd.Int64("max-size", source.DefaultMaxFileSize, "Maximum file size in bytes")
	verbose := checkCmd.Bool("v", false, "Verbose logging")

	if code, ok := parseFlags(checkCmd, args); !ok {
		return code
	}
	logger := newLogger(stderr, *verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitUsage
	}
	checkCmd.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "selector":
			cfg.Selector = *selector
		case "indent":
			cfg.IndentUnitSize = *indentUnit
		case "linters":
			cfg.Linters = config.ParseList(*linterList)
		}
	})
	logger.Debug("configuration", "selector", cfg.Selector, "indent", cfg.IndentUnit(), "linters", cfg.Linters)

	checkers, err := linters.Select(cfg.Linters, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v (available: %v)\n", err, linters.Names())
		return exitUsage
	}
	reporter, err := report.New(*format, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	paths, ok := expand(checkCmd.Args(), stderr)
	loader := source.NewLoader(*maxSize)
	runner := lint.NewRunner(checkers, logger)

	var files []report.File
	for _, path := range paths {
		doc, err := loader.Load(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading file: %v\n", err)
			ok = false
			continue
		}
		files = append(files, report.File{Path: path, Diagnostics: runner.Run(doc, cfg)})
	}

	if err := reporter.Report(files); err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return exitUsage
	}

	switch {
	case !ok:
		return exitUsage
	case report.Summarize(files).Errors > 0:
		return exitLint
	}
	return exitOK
}

// runVerify counts unannotated definitions twice, once with the token
// scanner and once with the Python parser, and reports files where the two
// disagree. Sources the parser cannot handle are skipped.
func runVerify(args []string, stdout, stderr io.Writer) int {
	verifyCmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	verifyCmd.SetOutput(stderr)
	maxSize := verifyCmd.Int64("max-size", source.DefaultMaxFileSize, "Maximum file size in bytes")
	verbose := verifyCmd.Bool("v", false, "Verbose logging")

	if code, ok := parseFlags(verifyCmd, args); !ok {
		return code
	}
	logger := newLogger(stderr, *verbose)

	paths, ok := expand(verifyCmd.Args(), stderr)
	loader := source.NewLoader(*maxSize)
	checker := signature.NewChecker(logger)
	cfg := config.Default()

	mismatches := 0
	for _, path := range paths {
		doc, err := loader.Load(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading file: %v\n", err)
			ok = false
			continue
		}

		scanned, parsed := 0, 0
		skipped := false
		for _, reg := range region.Select(region.Python, doc) {
			defs, err := pyast.MissingReturns(reg.Text)
			if err != nil {
				logger.Info("skipping region", "path", path, "line", reg.Line+1, "error", err)
				skipped = true
				continue
			}
			parsed += len(defs)
			for range checker.Check(reg.Text, cfg) {
				scanned++
			}
		}

		switch {
		case scanned != parsed:
			mismatches++
			fmt.Fprintf(stdout, "%s: MISMATCH scanner=%d parser=%d\n", path, scanned, parsed)
		case skipped:
			fmt.Fprintf(stdout, "%s: partial %d\n", path, scanned)
		default:
			fmt.Fprintf(stdout, "%s: ok %d\n", path, scanned)
		}
	}

	fmt.Fprintf(stdout, "%d files, %d mismatches\n", len(paths), mismatches)
	switch {
	case !ok:
		return exitUsage
	case mismatches > 0:
		return exitLint
	}
	return exitOK
}

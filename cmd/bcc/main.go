package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bcc/interpreter-go/pkg/driver"
	"bcc/interpreter-go/pkg/interpreter"
)

const cliToolVersion = "bcc 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runProgram(args[1:])
	case "test":
		return runFixtures(args[1:])
	case "suites":
		return runSuites(args[1:])
	default:
		return runProgram(args)
	}
}

// runProgram executes one parsed program and exits with its exit code.
// The target is either a program JSON file or a fixture directory.
func runProgram(args []string) int {
	entry := ""
	var target string
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		switch {
		case arg == "--entry":
			if idx+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--entry requires a function name")
				return 1
			}
			idx++
			entry = args[idx]
		case strings.HasPrefix(arg, "--entry="):
			entry = strings.TrimPrefix(arg, "--entry=")
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "unknown flag %q\n", arg)
			return 1
		case target != "":
			fmt.Fprintf(os.Stderr, "unexpected argument %q\n", arg)
			return 1
		default:
			target = arg
		}
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "bcc run requires a program file or fixture directory")
		return 1
	}

	programPath := target
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		programPath = filepath.Join(target, driver.FixtureProgramName)
	}

	program, err := driver.LoadProgram(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	interp, err := interpreter.New(program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	code, err := interp.Run(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	return code
}

// runFixtures sweeps a fixture corpus. The target is either a suite.yml
// manifest or a directory of fixture subdirectories.
func runFixtures(args []string) int {
	target := "fixtures"
	switch len(args) {
	case 0:
	case 1:
		target = args[0]
	default:
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	results, err := collectResults(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "no fixtures found under %s\n", target)
		return 1
	}

	failures := 0
	for _, result := range results {
		fmt.Fprintln(os.Stdout, result.String())
		if !result.Passed() {
			failures++
		}
	}
	fmt.Fprintf(os.Stdout, "%d fixtures, %d failures\n", len(results), failures)
	if failures > 0 {
		return 1
	}
	return 0
}

func collectResults(target string) ([]*driver.FixtureResult, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("fixture target %s: %w", target, err)
	}

	if !info.IsDir() {
		manifest, err := driver.LoadManifest(target)
		if err != nil {
			return nil, err
		}
		return driver.RunManifest(manifest)
	}

	if manifestPath := filepath.Join(target, driver.ManifestName); fileExists(manifestPath) {
		manifest, err := driver.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		return driver.RunManifest(manifest)
	}

	dirs, err := driver.DiscoverFixtures(target)
	if err != nil {
		return nil, err
	}
	results := make([]*driver.FixtureResult, 0, len(dirs))
	for _, dir := range dirs {
		result, err := driver.RunFixture(dir)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func printUsage() {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(`
Usage:
  bcc run <program.json | fixture-dir> [--entry NAME]
  bcc test [suite.yml | fixtures-dir]
  bcc suites fetch [suite.yml]
  bcc version

Commands:
  run     execute a parsed program; the process exits with its exit code
  test    run every fixture and compare exit codes against annotations
  suites  mirror remote fixture suites pinned in the manifest
`))
}

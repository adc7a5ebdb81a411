package driver

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"bcc/interpreter-go/pkg/interpreter"
)

const (
	// FixtureSourceName is the C source whose first line carries the
	// expected exit code annotation.
	FixtureSourceName = "main.c"
	// FixtureProgramName is the parsed program in JSON interchange form.
	FixtureProgramName = "main.json"

	returnAnnotationPrefix = "// RETURN:"
)

// FixtureResult records one fixture execution.
type FixtureResult struct {
	Dir      string
	Expected int
	Actual   int
	Err      error
}

// Passed reports whether the program ran to completion and produced the
// annotated exit code.
func (r *FixtureResult) Passed() bool {
	return r.Err == nil && r.Actual == r.Expected
}

func (r *FixtureResult) String() string {
	name := filepath.Base(r.Dir)
	if r.Err != nil {
		return fmt.Sprintf("FAIL %s: %v", name, r.Err)
	}
	if r.Actual != r.Expected {
		return fmt.Sprintf("FAIL %s: exit code %d, want %d", name, r.Actual, r.Expected)
	}
	return fmt.Sprintf("ok   %s: exit code %d", name, r.Actual)
}

// ReturnAnnotation reads the expected exit code from the first line of a
// fixture source file, which must be of the form `// RETURN: <n>`.
func ReturnAnnotation(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("fixture: open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("fixture: read %s: %w", path, err)
		}
		return 0, fmt.Errorf("fixture: %s is empty", path)
	}
	line := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(line, returnAnnotationPrefix) {
		return 0, fmt.Errorf("fixture: %s first line %q lacks a %q annotation", path, line, returnAnnotationPrefix)
	}
	value := strings.TrimSpace(strings.TrimPrefix(line, returnAnnotationPrefix))
	code, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("fixture: %s annotation %q is not an integer", path, value)
	}
	if code < 0 || code > 255 {
		return 0, fmt.Errorf("fixture: %s expects exit code %d outside [0,255]", path, code)
	}
	return code, nil
}

// RunFixture loads a fixture directory, executes its program, and compares
// the exit code against the source annotation. The returned error covers
// harness failures (missing files, undecodable programs); execution
// diagnostics are reported through FixtureResult.Err so one broken fixture
// does not stop a sweep.
func RunFixture(dir string) (*FixtureResult, error) {
	return RunFixtureEntry(dir, "")
}

// RunFixtureEntry runs a fixture starting from a named entry function.
// An empty entry falls back to main.
func RunFixtureEntry(dir, entry string) (*FixtureResult, error) {
	expected, err := ReturnAnnotation(filepath.Join(dir, FixtureSourceName))
	if err != nil {
		return nil, err
	}
	program, err := LoadProgram(filepath.Join(dir, FixtureProgramName))
	if err != nil {
		return nil, err
	}
	result := &FixtureResult{Dir: dir, Expected: expected}

	interp, err := interpreter.New(program)
	if err != nil {
		result.Err = err
		return result, nil
	}
	code, err := interp.Run(entry)
	if err != nil {
		result.Err = err
		return result, nil
	}
	result.Actual = code
	return result, nil
}

// DiscoverFixtures finds every fixture directory under root: any directory
// containing both the source and program files, in sorted order.
func DiscoverFixtures(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if fixtureComplete(dir) {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func fixtureComplete(dir string) bool {
	for _, name := range []string{FixtureSourceName, FixtureProgramName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// RunManifest executes every fixture a manifest names, resolving fixture
// paths relative to the manifest file.
func RunManifest(manifest *Manifest) ([]*FixtureResult, error) {
	base := filepath.Dir(manifest.Path)
	results := make([]*FixtureResult, 0, len(manifest.Fixtures))
	for _, spec := range manifest.Fixtures {
		dir := spec.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		result, err := RunFixtureEntry(dir, spec.Entry)
		if err != nil {
			return results, err
		}
		if result.Err == nil && result.Actual != spec.Expected {
			result.Err = fmt.Errorf("manifest expects exit code %d, fixture produced %d", spec.Expected, result.Actual)
		}
		results = append(results, result)
	}
	return results, nil
}

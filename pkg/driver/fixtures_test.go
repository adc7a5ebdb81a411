package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func fixturesRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join("..", "..", "fixtures")
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("fixture corpus missing: %v", err)
	}
	return root
}

func writeFixtureSource(t *testing.T, firstLine string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FixtureSourceName)
	if err := os.WriteFile(path, []byte(firstLine+"\nint main() { return 0; }\n"), 0o644); err != nil {
		t.Fatalf("write fixture source: %v", err)
	}
	return path
}

func TestReturnAnnotation(t *testing.T) {
	cases := []struct {
		name      string
		firstLine string
		want      int
		wantErr   bool
	}{
		{"zero", "// RETURN: 0", 0, false},
		{"nonzero", "// RETURN: 42", 42, false},
		{"upper bound", "// RETURN: 255", 255, false},
		{"padded", "  // RETURN:   7  ", 7, false},
		{"missing annotation", "int main() { return 0; }", 0, true},
		{"not an integer", "// RETURN: seven", 0, true},
		{"out of range", "// RETURN: 300", 0, true},
		{"negative", "// RETURN: -1", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFixtureSource(t, tc.firstLine)
			got, err := ReturnAnnotation(path)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("annotation %q should fail", tc.firstLine)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReturnAnnotation: %v", err)
			}
			if got != tc.want {
				t.Fatalf("annotation = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDiscoverFixtures(t *testing.T) {
	dirs, err := DiscoverFixtures(fixturesRoot(t))
	if err != nil {
		t.Fatalf("DiscoverFixtures: %v", err)
	}
	want := []string{"bitwise", "control_flow", "long_width", "static_local"}
	if len(dirs) != len(want) {
		t.Fatalf("found %d fixtures: %v", len(dirs), dirs)
	}
	for idx, dir := range dirs {
		if filepath.Base(dir) != want[idx] {
			t.Fatalf("fixture order %v, want %v", dirs, want)
		}
	}
}

func TestRunFixtureCorpus(t *testing.T) {
	dirs, err := DiscoverFixtures(fixturesRoot(t))
	if err != nil {
		t.Fatalf("DiscoverFixtures: %v", err)
	}
	for _, dir := range dirs {
		dir := dir
		t.Run(filepath.Base(dir), func(t *testing.T) {
			result, err := RunFixture(dir)
			if err != nil {
				t.Fatalf("RunFixture: %v", err)
			}
			if !result.Passed() {
				t.Fatalf("%s", result)
			}
		})
	}
}

func TestRunManifest(t *testing.T) {
	manifest, err := LoadManifest(filepath.Join(fixturesRoot(t), ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	results, err := RunManifest(manifest)
	if err != nil {
		t.Fatalf("RunManifest: %v", err)
	}
	if len(results) != len(manifest.Fixtures) {
		t.Fatalf("ran %d of %d fixtures", len(results), len(manifest.Fixtures))
	}
	for _, result := range results {
		if !result.Passed() {
			t.Fatalf("%s", result)
		}
	}
}

func TestRunFixtureReportsEngineDiagnostics(t *testing.T) {
	dir := t.TempDir()
	source := "// RETURN: 0\nint main() { return 1 / 0; }\n"
	if err := os.WriteFile(filepath.Join(dir, FixtureSourceName), []byte(source), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	program := `{
  "type": "Program",
  "functions": [{
    "type": "FunctionDefinition",
    "returnType": "int",
    "id": {"type": "Identifier", "name": "main"},
    "params": [],
    "body": {"type": "BlockStatement", "body": [
      {"type": "ReturnStatement", "value": {
        "type": "BinaryExpression",
        "operator": "/",
        "left": {"type": "IntegerLiteral", "value": 1},
        "right": {"type": "IntegerLiteral", "value": 0}
      }}
    ]}
  }]
}`
	if err := os.WriteFile(filepath.Join(dir, FixtureProgramName), []byte(program), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}

	result, err := RunFixture(dir)
	if err != nil {
		t.Fatalf("RunFixture: %v", err)
	}
	if result.Err == nil {
		t.Fatalf("diagnostic should surface through the result")
	}
	if result.Passed() {
		t.Fatalf("a crashed fixture must not pass")
	}
}

func TestRunFixtureMissingProgram(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FixtureSourceName), []byte("// RETURN: 0\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if _, err := RunFixture(dir); err == nil {
		t.Fatalf("missing program file should be a harness error")
	}
}

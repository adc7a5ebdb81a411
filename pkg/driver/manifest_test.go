package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ManifestName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
name: core-fixtures
fixtures:
  - path: static_local
    expected: 0
  - path: control_flow
    expected: 1
    entry: main
suites:
  upstream:
    git: https://example.com/fixtures.git
    rev: 0123456789abcdef0123456789abcdef01234567
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "core-fixtures" {
		t.Fatalf("Name = %q", manifest.Name)
	}
	if len(manifest.Fixtures) != 2 {
		t.Fatalf("Fixtures = %d entries", len(manifest.Fixtures))
	}
	spec, ok := manifest.FindFixture("control_flow")
	if !ok || spec.Expected != 1 || spec.Entry != "main" {
		t.Fatalf("FindFixture(control_flow) = %+v, %v", spec, ok)
	}
	suite, ok := manifest.Suites["upstream"]
	if !ok || suite.Git != "https://example.com/fixtures.git" || suite.Rev == "" {
		t.Fatalf("suite = %+v, %v", suite, ok)
	}
}

func TestLoadManifestScalarSuite(t *testing.T) {
	path := writeManifest(t, `
name: scalar-suite
suites:
  upstream: https://example.com/fixtures.git
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	suite := manifest.Suites["upstream"]
	if suite == nil || suite.Git != "https://example.com/fixtures.git" {
		t.Fatalf("scalar suite = %+v", suite)
	}
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, `
name: typo
fixturez:
  - path: static_local
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("unknown key should fail")
	}
}

func TestManifestValidation(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		issue    string
	}{
		{
			"missing name",
			"fixtures:\n  - path: a\n",
			"name must be provided",
		},
		{
			"duplicate fixture",
			"name: x\nfixtures:\n  - path: a\n  - path: a\n",
			"listed twice",
		},
		{
			"exit code out of range",
			"name: x\nfixtures:\n  - path: a\n    expected: 300\n",
			"outside [0,255]",
		},
		{
			"suite without git",
			"name: x\nsuites:\n  upstream:\n    rev: abc\n",
			"must specify a git source",
		},
		{
			"suite with two pins",
			"name: x\nsuites:\n  upstream:\n    git: https://example.com/r.git\n    rev: abc\n    tag: v1\n",
			"at most one of rev, tag, branch",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, tc.contents)
			_, err := LoadManifest(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if !strings.Contains(verr.Error(), tc.issue) {
				t.Fatalf("error %q missing %q", verr.Error(), tc.issue)
			}
		})
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the conventional manifest filename at a corpus root.
const ManifestName = "suite.yml"

// Manifest represents the parsed contents of suite.yml: the local fixture
// list plus any named remote suites that `bcc suites fetch` can mirror into
// the cache.
type Manifest struct {
	Path     string
	Name     string
	Fixtures []*FixtureSpec
	Suites   map[string]*SuiteSource
}

// FixtureSpec describes one fixture directory and the exit code its program
// must produce.
type FixtureSpec struct {
	Path     string
	Expected int
	Entry    string
}

// SuiteSource points at a remote fixture suite repository pinned to a
// specific revision.
type SuiteSource struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses suite.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	manifest, err := decodeManifest(file)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}
	manifest.Path = absPath
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func decodeManifest(r io.Reader) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		return nil, err
	}
	return raw.toManifest(), nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	seen := make(map[string]struct{}, len(m.Fixtures))
	for idx, fixture := range m.Fixtures {
		if fixture == nil {
			continue
		}
		if fixture.Path == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixtures[%d] must name a path", idx))
			continue
		}
		if _, dup := seen[fixture.Path]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q listed twice", fixture.Path))
		}
		seen[fixture.Path] = struct{}{}
		if fixture.Expected < 0 || fixture.Expected > 255 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixture %q expected exit code %d outside [0,255]", fixture.Path, fixture.Expected))
		}
	}
	for name, source := range m.Suites {
		if source == nil {
			continue
		}
		if source.Git == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("suite %q must specify a git source", name))
			continue
		}
		pins := 0
		for _, pin := range []string{source.Rev, source.Tag, source.Branch} {
			if pin != "" {
				pins++
			}
		}
		if pins > 1 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("suite %q must pin at most one of rev, tag, branch", name))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// FindFixture looks up a fixture entry by path.
func (m *Manifest) FindFixture(path string) (*FixtureSpec, bool) {
	if m == nil {
		return nil, false
	}
	path = strings.TrimSpace(path)
	for _, fixture := range m.Fixtures {
		if fixture != nil && fixture.Path == path {
			return fixture, true
		}
	}
	return nil, false
}

type manifestFile struct {
	Name     string                `yaml:"name"`
	Fixtures []fixtureYAML         `yaml:"fixtures"`
	Suites   map[string]*suiteYAML `yaml:"suites"`
}

type fixtureYAML struct {
	Path     string `yaml:"path"`
	Expected int    `yaml:"expected"`
	Entry    string `yaml:"entry"`
}

// suiteYAML accepts either a bare git URL or a mapping with a pinned
// revision.
type suiteYAML struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
}

func (s *suiteYAML) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*s = suiteYAML{}
			return nil
		}
		*s = suiteYAML{Git: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*s = suiteYAML{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
		}
		return nil
	case yaml.AliasNode:
		return s.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

func (mf manifestFile) toManifest() *Manifest {
	result := &Manifest{
		Name:     strings.TrimSpace(mf.Name),
		Fixtures: make([]*FixtureSpec, 0, len(mf.Fixtures)),
		Suites:   make(map[string]*SuiteSource, len(mf.Suites)),
	}
	for _, fixture := range mf.Fixtures {
		result.Fixtures = append(result.Fixtures, &FixtureSpec{
			Path:     strings.TrimSpace(fixture.Path),
			Expected: fixture.Expected,
			Entry:    strings.TrimSpace(fixture.Entry),
		})
	}
	for name, suite := range mf.Suites {
		name = strings.TrimSpace(name)
		if name == "" || suite == nil {
			continue
		}
		result.Suites[name] = &SuiteSource{
			Git:    suite.Git,
			Rev:    suite.Rev,
			Tag:    suite.Tag,
			Branch: suite.Branch,
		}
	}
	return result
}

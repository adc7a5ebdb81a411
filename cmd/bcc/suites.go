package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"bcc/interpreter-go/pkg/driver"
)

func runSuites(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "bcc suites requires a subcommand (fetch)")
		return 1
	}
	switch args[0] {
	case "fetch":
		return runSuitesFetch(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown suites subcommand %q\n", args[0])
		return 1
	}
}

func runSuitesFetch(args []string) int {
	manifestPath := driver.ManifestName
	switch len(args) {
	case 0:
	case 1:
		manifestPath = args[0]
	default:
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if len(manifest.Suites) == 0 {
		fmt.Fprintln(os.Stdout, "no remote suites declared")
		return 0
	}

	cacheDir, err := suitesCacheDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	names := make([]string, 0, len(manifest.Suites))
	for name := range manifest.Suites {
		names = append(names, name)
	}
	sort.Strings(names)

	status := 0
	for _, name := range names {
		source := manifest.Suites[name]
		dir, commit, err := ensureSuiteCheckout(cacheDir, name, source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "suite %q: %v\n", name, err)
			status = 1
			continue
		}
		fmt.Fprintf(os.Stdout, "fetched %s @ %s -> %s\n", name, shortCommit(commit), dir)
	}
	return status
}

func suitesCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(base, "bcc", "suites"), nil
}

// ensureSuiteCheckout mirrors a remote fixture suite at its pinned revision.
// An existing checkout for the same pin is reused without touching the
// network.
func ensureSuiteCheckout(cacheDir, name string, source *driver.SuiteSource) (string, string, error) {
	baseDir := filepath.Join(cacheDir, sanitizePathSegment(name))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor, err := suiteRevision(source)
	if err != nil {
		return "", "", err
	}

	if rev := strings.TrimSpace(source.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return existing, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:   source.Git,
		Depth: 0,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", source.Git, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	targetDir := filepath.Join(baseDir, sanitizePathSegment(pinnedVersion(descriptor, hash.String())))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return targetDir, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return targetDir, hash.String(), nil
}

func suiteRevision(source *driver.SuiteSource) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(source.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(source.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(source.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("suite sources require rev, tag, or branch")
}

func pinnedVersion(descriptor, commit string) string {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}

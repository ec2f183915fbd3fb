package renamer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Moukrea/scaffoldit/internal/ui"
)

// fakeGit applies moves and removals straight to the file system.
type fakeGit struct {
	dir      string
	dryRun   bool
	origin   string
	email    string
	name     string
	commands []string
}

func (g *fakeGit) record(args ...string) {
	g.commands = append(g.commands, "git "+strings.Join(args, " "))
}

func (g *fakeGit) HasRemote(_ context.Context, name string) (bool, error) {
	g.record("remote", "-v")
	return name == "origin" && g.origin != "", nil
}

func (g *fakeGit) RemoteURL(_ context.Context, name string) (string, error) {
	g.record("remote", "get-url", name)
	return g.origin, nil
}

func (g *fakeGit) ConfigValue(_ context.Context, key string) (string, error) {
	g.record("config", key)
	switch key {
	case "user.email":
		return g.email, nil
	case "user.name":
		return g.name, nil
	}
	return "", nil
}

func (g *fakeGit) Add(_ context.Context, paths ...string) error {
	g.record(append([]string{"add"}, paths...)...)
	return nil
}

func (g *fakeGit) Move(_ context.Context, src, dst string) error {
	g.record("mv", src, dst)
	if g.dryRun {
		return nil
	}
	if err := os.Rename(filepath.Join(g.dir, src), filepath.Join(g.dir, dst)); err != nil {
		return fmt.Errorf("Failed to execute: git mv %s %s: %w", src, dst, err)
	}
	return nil
}

func (g *fakeGit) Remove(_ context.Context, path string) error {
	g.record("rm", path)
	if g.dryRun {
		return nil
	}
	return os.Remove(filepath.Join(g.dir, path))
}

// scriptedPrompter answers by question text and falls back to defaults.
type scriptedPrompter struct {
	answers map[string]string
	asked   []string
}

func (p *scriptedPrompter) Ask(q ui.Question) (string, error) {
	p.asked = append(p.asked, q.Text)
	if a, ok := p.answers[q.Text]; ok && a != "" {
		return a, nil
	}
	return q.Default, nil
}

func (p *scriptedPrompter) Confirm(_ string, def bool) (bool, error) {
	return def, nil
}

type fakeLabels struct {
	created bool
	err     error
	target  string
}

func (l *fakeLabels) Provision(_ context.Context, target, _ string) (bool, error) {
	l.target = target
	return l.created, l.err
}

// copyScaffold copies the fixture scaffold into a fresh git-looking
// directory. Files lose their executable bits on purpose.
func copyScaffold(t *testing.T) string {
	t.Helper()
	dst := t.TempDir()
	src := filepath.Join("testdata", "scaffold")

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, b, 0o644)
	})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dst, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, ".git", "config"), []byte("[core]\n"), 0o644))
	return dst
}

func readFile(t *testing.T, dir, path string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	require.NoError(t, err)
	return string(b)
}

// snapshot maps every file below dir to its contents.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		files[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		require.NoError(t, err)
	}
	return files
}

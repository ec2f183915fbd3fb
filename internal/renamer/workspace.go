package renamer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Moukrea/scaffoldit/internal/rewrite"
)

// Git is the subset of git the renamer drives.
type Git interface {
	HasRemote(ctx context.Context, name string) (bool, error)
	RemoteURL(ctx context.Context, name string) (string, error)
	ConfigValue(ctx context.Context, key string) (string, error)
	Add(ctx context.Context, paths ...string) error
	Move(ctx context.Context, src, dst string) error
	Remove(ctx context.Context, path string) error
}

// Workspace is the working tree being renamed. All paths are relative to
// Dir. In dry-run mode writes and moves are kept in memory so later steps
// still see the results of earlier ones.
type Workspace struct {
	Dir    string
	DryRun bool

	git     Git
	log     zerolog.Logger
	overlay map[string]string
	moved   map[string]string
	staged  []string
}

func NewWorkspace(dir string, dryRun bool, git Git, log zerolog.Logger) *Workspace {
	return &Workspace{
		Dir:     dir,
		DryRun:  dryRun,
		git:     git,
		log:     log,
		overlay: map[string]string{},
		moved:   map[string]string{},
	}
}

func (w *Workspace) abs(path string) string {
	return filepath.Join(w.Dir, filepath.FromSlash(path))
}

// Staged lists every path handed to git, in order.
func (w *Workspace) Staged() []string {
	return append([]string(nil), w.staged...)
}

func (w *Workspace) Read(path string) (string, error) {
	if content, ok := w.overlay[path]; ok {
		return content, nil
	}
	if src, ok := w.moved[path]; ok {
		return w.Read(src)
	}
	b, err := os.ReadFile(w.abs(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}

func (w *Workspace) Exists(path string) bool {
	if _, ok := w.overlay[path]; ok {
		return true
	}
	if _, ok := w.moved[path]; ok {
		return true
	}
	_, err := os.Stat(w.abs(path))
	return err == nil
}

func (w *Workspace) write(path, content string) error {
	if w.DryRun {
		w.overlay[path] = content
		return nil
	}
	fi, err := os.Stat(w.abs(path))
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(w.abs(path), []byte(content), fi.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (w *Workspace) stage(ctx context.Context, path string) error {
	w.staged = append(w.staged, path)
	return w.git.Add(ctx, path)
}

// Update rewrites a file through fn and stages it. Unchanged files are
// staged as well, matching a plain read-modify-write.
func (w *Workspace) Update(ctx context.Context, path string, fn func(string) (string, error)) error {
	content, err := w.Read(path)
	if err != nil {
		return err
	}
	out, err := fn(content)
	if err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	if out == content {
		w.log.Debug().Str("path", path).Msg("no replacements matched")
	}
	if err := w.write(path, out); err != nil {
		return err
	}
	return w.stage(ctx, path)
}

// ReplaceInFile applies the replacements in order, writes the file back and
// stages it.
func (w *Workspace) ReplaceInFile(ctx context.Context, path string, replacements ...rewrite.Replacement) error {
	return w.Update(ctx, path, func(s string) (string, error) {
		return rewrite.Apply(s, replacements...), nil
	})
}

// ReindentModule nests the file's module declaration to match target; an
// empty target expands the declared qualified name.
func (w *Workspace) ReindentModule(ctx context.Context, path, target string) error {
	content, err := w.Read(path)
	if err != nil {
		return err
	}
	out, changed := rewrite.Renest(content, target)
	if !changed {
		w.log.Debug().Str("path", path).Msg("module nesting already matches")
		return nil
	}
	if err := w.write(path, out); err != nil {
		return err
	}
	return w.stage(ctx, path)
}

// Move relocates a file with git so history is kept.
func (w *Workspace) Move(ctx context.Context, src, dst string) error {
	if err := w.git.Move(ctx, src, dst); err != nil {
		return err
	}
	if w.DryRun {
		w.moved[dst] = src
	}
	w.staged = append(w.staged, dst)
	return nil
}

func (w *Workspace) Remove(ctx context.Context, path string) error {
	if err := w.git.Remove(ctx, path); err != nil {
		return err
	}
	w.staged = append(w.staged, path)
	return nil
}

func (w *Workspace) MkdirAll(path string) error {
	if w.DryRun {
		w.log.Debug().Str("path", path).Msg("would create directory")
		return nil
	}
	if err := os.MkdirAll(w.abs(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// EnsureExecutable sets mode 0755 on path and stages it unless it is
// already executable.
func (w *Workspace) EnsureExecutable(ctx context.Context, path string) error {
	fi, err := os.Stat(w.abs(path))
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if fi.Mode().Perm()&0o111 != 0 {
		return nil
	}
	if !w.DryRun {
		if err := os.Chmod(w.abs(path), 0o755); err != nil {
			return fmt.Errorf("failed to chmod %s: %w", path, err)
		}
	}
	return w.stage(ctx, path)
}

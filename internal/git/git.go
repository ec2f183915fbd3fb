// Package git wraps the git executable for the handful of commands the
// renamer needs. Every invocation is echoed before it runs.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Moukrea/scaffoldit/internal/ui"
)

var repoPathPattern = regexp.MustCompile(`[:/]([^/]+/[^/]+?)(?:\.git)?$`)

type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("Failed to execute: %s: %v\nOutput: %s", e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("Failed to execute: %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Client runs git in a fixed working directory. In dry-run mode commands
// that change the index are echoed but not executed.
type Client struct {
	Dir    string
	Out    io.Writer
	DryRun bool
}

func NewClient(dir string, out io.Writer, dryRun bool) *Client {
	if out == nil {
		out = os.Stdout
	}
	return &Client{Dir: dir, Out: out, DryRun: dryRun}
}

// IsRepo reports whether dir is the top of a git working tree.
func IsRepo(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, ".git", "config"))
	return err == nil && fi.Mode().IsRegular()
}

// ParseRepoPath extracts "owner/repo" from a remote URL, accepting both
// scp-style and URL forms with or without the .git suffix.
func ParseRepoPath(url string) string {
	m := repoPathPattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return ""
	}
	return m[1]
}

func (c *Client) echo(args []string) {
	fmt.Fprintln(c.Out, ui.Info.Render(">>>> git "+strings.Join(args, " ")))
}

// Output runs a read-only git command and returns its stdout.
func (c *Client) Output(ctx context.Context, args ...string) (string, error) {
	c.echo(args)
	return c.run(ctx, args)
}

// Run executes a git command that changes the repository.
func (c *Client) Run(ctx context.Context, args ...string) error {
	c.echo(args)
	if c.DryRun {
		return nil
	}
	_, err := c.run(ctx, args)
	return err
}

func (c *Client) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Command: "git " + strings.Join(args, " "),
			Output:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.String(), nil
}

// HasRemote reports whether a remote with the given name is configured.
func (c *Client) HasRemote(ctx context.Context, name string) (bool, error) {
	out, err := c.Output(ctx, "remote", "-v")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, name) {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := c.Output(ctx, "remote", "get-url", name)
	return strings.TrimSpace(out), err
}

// ConfigValue returns a git config value; an unset key yields "".
func (c *Client) ConfigValue(ctx context.Context, key string) (string, error) {
	out, err := c.Output(ctx, "config", key)
	if err != nil {
		var ce *CommandError
		var ee *exec.ExitError
		if errors.As(err, &ce) && errors.As(ce.Err, &ee) && ee.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) Add(ctx context.Context, paths ...string) error {
	return c.Run(ctx, append([]string{"add"}, paths...)...)
}

func (c *Client) Move(ctx context.Context, src, dst string) error {
	return c.Run(ctx, "mv", src, dst)
}

func (c *Client) Remove(ctx context.Context, path string) error {
	return c.Run(ctx, "rm", path)
}

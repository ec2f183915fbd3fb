// Package renamer turns the tomo plugin scaffold into a named plugin.
//
// A run is linear and happens once per project: check the repository,
// collect the identity, optionally create labels, rewrite and move the
// template files, nest the relocated modules, remove the renamer entry
// point and report. The first failure stops the run; git is the rollback.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Moukrea/scaffoldit/internal/git"
	"github.com/Moukrea/scaffoldit/internal/naming"
	"github.com/Moukrea/scaffoldit/internal/rewrite"
	"github.com/Moukrea/scaffoldit/internal/ui"
)

var (
	ErrNotGitRepo        = errors.New("this doesn't appear to be a git repo")
	ErrInvalidPluginName = errors.New("plugin name must be lowercase words separated by dashes")
)

// DefaultSelf is the scaffold's launcher for this tool.
const DefaultSelf = "rename-template"

const (
	placeholderRepo = "mattbrictson/tomo-plugin"
	dependabotPath  = ".github/dependabot.yml"
	templateLib     = "lib/tomo/plugin/example"
	templateTest    = "test/tomo/plugin/example"
)

// LabelProvisioner creates release-note labels in the target repository
// and reports whether it did.
type LabelProvisioner interface {
	Provision(ctx context.Context, target, remoteURL string) (bool, error)
}

// Renamer holds everything a run needs.
type Renamer struct {
	Dir      string
	DryRun   bool
	Self     string
	Git      Git
	Prompter ui.Prompter
	Labels   LabelProvisioner
	Out      io.Writer
	Log      zerolog.Logger
}

// Result summarises a finished run.
type Result struct {
	Identity      Identity
	LabelsCreated bool
	Staged        []string
}

// fileStep rewrites one template file and optionally moves it afterwards.
type fileStep struct {
	path         string
	replacements []rewrite.Replacement
	moveTo       string
}

func (r *Renamer) Run(ctx context.Context) (*Result, error) {
	if !git.IsRepo(r.Dir) {
		return nil, ErrNotGitRepo
	}

	meta, err := ReadGitMeta(ctx, r.Git)
	if err != nil {
		return nil, fmt.Errorf("failed to read git metadata: %w", err)
	}
	r.Log.Debug().Str("origin", meta.OriginURL).Str("repo", meta.OriginRepoPath).Msg("read git metadata")

	id, err := CollectIdentity(r.Prompter, meta)
	if err != nil {
		return nil, err
	}

	created := false
	switch {
	case r.Labels == nil:
	case r.DryRun:
		r.Log.Info().Str("repo", id.GitHubRepo).Msg("dry run, not creating labels")
	default:
		if created, err = r.Labels.Provision(ctx, id.GitHubRepo, meta.OriginURL); err != nil {
			return nil, err
		}
	}

	ws := NewWorkspace(r.Dir, r.DryRun, r.Git, r.Log)
	if err := r.rename(ctx, ws, id, created); err != nil {
		return nil, err
	}
	if err := r.removeSelf(ctx, ws); err != nil {
		return nil, err
	}

	r.report(id)
	return &Result{Identity: id, LabelsCreated: created, Staged: ws.Staged()}, nil
}

func (r *Renamer) rename(ctx context.Context, ws *Workspace, id Identity, labelsCreated bool) error {
	if !labelsCreated {
		if err := stripDependabotLabels(ctx, ws); err != nil {
			return err
		}
	}

	if err := ws.Move(ctx, ".github/workflows/release-drafter.yml.dist", ".github/workflows/release-drafter.yml"); err != nil {
		return err
	}

	gemPath := naming.Path(id.GemName)
	for _, dir := range []string{"lib/" + gemPath, "test/" + gemPath} {
		if err := ws.MkdirAll(dir); err != nil {
			return err
		}
	}
	for _, bin := range []string{"bin/console", "bin/setup"} {
		if err := ws.EnsureExecutable(ctx, bin); err != nil {
			return err
		}
	}

	if err := runSteps(ctx, ws, libSteps(id)); err != nil {
		return err
	}

	module := naming.Module(id.PluginName)
	for _, path := range []string{"lib/" + gemPath + ".rb", "lib/" + gemPath + "/version.rb"} {
		if err := ws.ReindentModule(ctx, path, ""); err != nil {
			return err
		}
	}
	r.Log.Debug().Str("module", "Tomo::Plugin::"+module).Msg("nested relocated modules")

	return runSteps(ctx, ws, testSteps(id))
}

func runSteps(ctx context.Context, ws *Workspace, steps []fileStep) error {
	for _, s := range steps {
		if err := ws.ReplaceInFile(ctx, s.path, s.replacements...); err != nil {
			return err
		}
		if s.moveTo == "" {
			continue
		}
		if err := ws.Move(ctx, s.path, s.moveTo); err != nil {
			return err
		}
	}
	return nil
}

func libSteps(id Identity) []fileStep {
	gemPath := naming.Path(id.GemName)
	module := naming.Module(id.PluginName)
	underscored := naming.Underscore(id.PluginName)

	steps := []fileStep{
		{path: "LICENSE.txt", replacements: []rewrite.Replacement{
			rewrite.Text("Example Owner", id.AuthorName),
		}},
		{path: "Rakefile", replacements: []rewrite.Replacement{
			rewrite.Text("example.gemspec", id.GemName+".gemspec"),
			rewrite.Text(placeholderRepo, id.GitHubRepo),
		}},
		{path: "README.md", replacements: []rewrite.Replacement{
			rewrite.Text(placeholderRepo, id.GitHubRepo),
			rewrite.Text("example", id.PluginName),
			rewrite.Text("plugin_name", underscored),
			rewrite.Text("replace_with_gem_name", id.GemName),
			rewrite.Match(`(?s)\A.*<!-- END FRONT MATTER -->\n+`, ""),
		}},
		{path: "CHANGELOG.md", replacements: []rewrite.Replacement{
			rewrite.Text(placeholderRepo, id.GitHubRepo),
		}},
		{path: "CODE_OF_CONDUCT.md", replacements: []rewrite.Replacement{
			rewrite.Text("owner@example.com", id.AuthorEmail),
		}},
		{path: "bin/console", replacements: []rewrite.Replacement{
			rewrite.Text("tomo/plugin/example", gemPath),
		}},
		{path: "example.gemspec", moveTo: id.GemName + ".gemspec", replacements: []rewrite.Replacement{
			rewrite.Text(placeholderRepo, id.GitHubRepo),
			rewrite.Text(`"Example Owner"`, rubyQuote(id.AuthorName)),
			rewrite.Text(`"owner@example.com"`, rubyQuote(id.AuthorEmail)),
			rewrite.Text(`"example"`, rubyQuote(id.GemName)),
			rewrite.Text("example/version", naming.Path(id.PluginName)+"/version"),
			rewrite.Text("Example::VERSION", module+"::VERSION"),
			rewrite.Span(`summary\s*=\s*("")`, rubyQuote(id.GemSummary)),
		}},
		{path: templateLib + ".rb", moveTo: "lib/" + gemPath + ".rb", replacements: []rewrite.Replacement{
			rewrite.Text("example", naming.LastSegment(id.PluginName)),
			rewrite.Text("plugin_name", underscored),
			rewrite.Text("Example", module),
		}},
		// version.rb declares the Tomo and Plugin parents before the plugin
		// module; nesting is rebuilt after the move.
		{path: templateLib + "/version.rb", replacements: []rewrite.Replacement{
			rewrite.Text("module Tomo\n  module Plugin\n  end\nend\n\n", ""),
		}},
	}

	for _, file := range []string{"helpers", "tasks", "version"} {
		steps = append(steps, fileStep{
			path:   templateLib + "/" + file + ".rb",
			moveTo: "lib/" + gemPath + "/" + file + ".rb",
			replacements: []rewrite.Replacement{
				rewrite.Text("Example", module),
				rewrite.Text("example", id.PluginName),
			},
		})
	}
	return steps
}

func testSteps(id Identity) []fileStep {
	gemPath := naming.Path(id.GemName)
	module := naming.Module(id.PluginName)

	steps := []fileStep{
		{path: templateTest + "_test.rb", moveTo: "test/" + gemPath + "_test.rb", replacements: []rewrite.Replacement{
			rewrite.Text("Example", module),
		}},
	}
	for _, file := range []string{"helpers_test", "tasks_test"} {
		path := templateTest + "/" + file + ".rb"
		steps = append(steps,
			fileStep{path: path, replacements: []rewrite.Replacement{rewrite.Text("Example", module)}},
			fileStep{path: path, moveTo: "test/" + gemPath + "/" + file + ".rb", replacements: []rewrite.Replacement{
				rewrite.Text("example", id.PluginName),
			}},
		)
	}
	steps = append(steps, fileStep{path: "test/test_helper.rb", replacements: []rewrite.Replacement{
		rewrite.Text(`require "tomo/plugin/example"`, "require "+rubyQuote(gemPath)),
	}})
	return steps
}

var interpolation = strings.NewReplacer(`#{`, `\#{`, `#$`, `\#$`, `#@`, `\#@`)

// rubyQuote returns s as a double-quoted Ruby string literal that does not
// interpolate.
func rubyQuote(s string) string {
	return interpolation.Replace(strconv.Quote(s))
}

// stripDependabotLabels drops the labels blocks that refer to labels the
// repository will not have.
func stripDependabotLabels(ctx context.Context, ws *Workspace) error {
	labels := rewrite.Match(`(?m)\s+labels:\n\s+-.*$`, "")
	return ws.Update(ctx, dependabotPath, func(s string) (string, error) {
		out := rewrite.Apply(s, labels)
		var doc map[string]any
		if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
			return "", fmt.Errorf("result is not valid YAML: %w", err)
		}
		return out, nil
	})
}

func (r *Renamer) removeSelf(ctx context.Context, ws *Workspace) error {
	self := r.Self
	if self == "" {
		self = DefaultSelf
	}
	if !ws.Exists(self) {
		r.Log.Warn().Str("path", self).Msg("renamer entry point not found, nothing to remove")
		return nil
	}
	return ws.Remove(ctx, self)
}

func (r *Renamer) report(id Identity) {
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, ui.Success.Render("All set!"))
	fmt.Fprintln(r.Out)
	fmt.Fprintf(r.Out, "The project has been renamed to %q.\n", id.GemName)
	if r.DryRun {
		fmt.Fprintln(r.Out, ui.Warning.Render("This was a dry run: no files were changed."))
		fmt.Fprintln(r.Out)
		return
	}
	fmt.Fprintln(r.Out, "Review the changes and then run:")
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, "  git commit && git push")
	fmt.Fprintln(r.Out)
}

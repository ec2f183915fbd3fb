// Package cli wires the renamer to the command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Moukrea/scaffoldit/internal/git"
	"github.com/Moukrea/scaffoldit/internal/labels"
	"github.com/Moukrea/scaffoldit/internal/logger"
	"github.com/Moukrea/scaffoldit/internal/renamer"
	"github.com/Moukrea/scaffoldit/internal/ui"
)

// Options holds the command line flags.
type Options struct {
	Dir           string
	DryRun        bool
	NoInteractive bool
	Token         string
	GitLabURL     string
	Self          string
	Verbose       bool
}

// NewRootCommand builds the scaffoldit command.
func NewRootCommand(version string) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "scaffoldit",
		Short: "Rename the tomo plugin scaffold into a new plugin",
		Long: `ScaffoldIT customizes a freshly created tomo plugin repository: it asks for the
plugin name, summary, author and GitHub repository, rewrites the template files,
moves them to their final paths and removes the rename entry point.

Run it once, from the root of the new repository, with a clean working tree.
Nothing is committed: review the staged changes and commit them yourself.`,
		Example: `  # Interactive rename in the current repository:
  scaffoldit

  # See what would change without touching anything:
  scaffoldit -d -n

  # Create release-note labels through the API when gh is not installed:
  scaffoldit -t $GITHUB_TOKEN`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Dir, "dir", "C", ".", "Repository to rename")
	f.BoolVarP(&opts.DryRun, "dry-run", "d", false, "Show what would change without writing files or touching the git index")
	f.BoolVarP(&opts.NoInteractive, "no-interactive", "n", false, "Accept every default answer")
	f.StringVarP(&opts.Token, "token", "t", "", "GitHub or GitLab token used to create labels when gh is not available")
	f.StringVarP(&opts.GitLabURL, "gitlab-url", "g", "https://gitlab.com", "GitLab instance URL (for private instances)")
	f.StringVar(&opts.Self, "self", renamer.DefaultSelf, "Rename entry point to remove once done")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// Run performs one rename with the given options.
func Run(ctx context.Context, opts *Options, in io.Reader, out io.Writer) error {
	log := logger.NewConsoleLogger(opts.Verbose)

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.Dir, err)
	}

	fmt.Fprintln(out, ui.Logo())
	fmt.Fprintln(out)
	if opts.DryRun {
		fmt.Fprintln(out, ui.Warning.Render("DRY RUN: nothing will be written or staged"))
	}

	var prompter ui.Prompter
	if opts.NoInteractive {
		prompter = ui.DefaultsPrompter{}
	} else {
		prompter = ui.NewPrompter(in, out)
	}

	provisioner := &labels.Provisioner{
		Prompter: prompter,
		Out:      out,
		Log:      *log,
	}
	if opts.Token != "" {
		provisioner.API = apiCloner(opts.Token, opts.GitLabURL)
	}

	r := &renamer.Renamer{
		Dir:      dir,
		DryRun:   opts.DryRun,
		Self:     opts.Self,
		Git:      git.NewClient(dir, out, opts.DryRun),
		Prompter: prompter,
		Labels:   provisioner,
		Out:      out,
		Log:      *log,
	}

	_, err = r.Run(ctx)
	return err
}

func apiCloner(token, gitlabURL string) func(labels.Provider) (labels.Cloner, error) {
	return func(p labels.Provider) (labels.Cloner, error) {
		// labels are read from the public GitHub source repository
		source := labels.NewGitHubClient("")
		if p == labels.GitLab {
			client, err := labels.NewGitLabClient(token, gitlabURL)
			if err != nil {
				return nil, fmt.Errorf("failed to create GitLab client: %w", err)
			}
			return labels.GitLabAPI{Source: source, Client: client}, nil
		}
		return labels.GitHubAPI{Client: labels.NewGitHubClient(token)}, nil
	}
}

// Execute runs the command and returns the process exit code.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCommand(version).ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, renamer.ErrNotGitRepo):
		fmt.Fprintln(os.Stderr, ui.Warning.Render("This doesn't appear to be a git repo. Can't continue. :("))
	case errors.Is(err, ui.ErrCancelled):
		fmt.Fprintln(os.Stderr, ui.Info.Render("Operation cancelled by user"))
	default:
		fmt.Fprintln(os.Stderr, ui.Error.Render("Error:", err.Error()))
	}
	return 1
}

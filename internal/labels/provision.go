package labels

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/Moukrea/scaffoldit/internal/ui"
)

// Provisioner decides whether labels can be created and asks the operator.
type Provisioner struct {
	Prompter ui.Prompter
	Out      io.Writer
	Log      zerolog.Logger

	// Source defaults to SourceRepo.
	Source string
	// Probe defaults to the gh probe.
	Probe func(ctx context.Context) (Status, string)
	// API builds the hosting API cloner used when gh is not usable; nil
	// disables the fallback.
	API func(p Provider) (Cloner, error)
}

// Provision returns true when labels were created in target. remoteURL picks
// the hosting API for the fallback. Clone failures are logged and reported
// as false so the caller can fall back; only prompt errors are returned.
func (p *Provisioner) Provision(ctx context.Context, target, remoteURL string) (bool, error) {
	source := p.Source
	if source == "" {
		source = SourceRepo
	}
	probe := p.Probe
	if probe == nil {
		probe = Probe
	}

	status, path := probe(ctx)
	p.Log.Debug().Stringer("status", status).Str("path", path).Msg("probed gh label support")
	if status == ProbeFailed {
		p.Log.Warn().Str("path", path).Msg("gh is installed but does not support `label clone`")
	}

	var (
		cloner   Cloner
		question string
	)
	switch {
	case status == Available:
		fmt.Fprintln(p.Out)
		fmt.Fprintln(p.Out, "I would like to use the `gh` executable to create labels in your repo.")
		fmt.Fprintln(p.Out, "These labels will be used to generate nice-looking release notes.")
		fmt.Fprintln(p.Out)
		cloner = CLI{Path: path, Out: p.Out}
		question = "Create GitHub labels using `gh`?"
	case p.API != nil:
		provider := DetectProvider(remoteURL)
		api, err := p.API(provider)
		if err != nil {
			p.Log.Warn().Err(err).Stringer("provider", provider).Msg("could not set up API client")
			return false, nil
		}
		fmt.Fprintln(p.Out)
		fmt.Fprintf(p.Out, "I can create labels in your repo through the %s API.\n", provider)
		fmt.Fprintln(p.Out, "These labels will be used to generate nice-looking release notes.")
		fmt.Fprintln(p.Out)
		cloner = api
		question = fmt.Sprintf("Create %s labels using the API?", provider)
	default:
		p.Log.Debug().Msg("no way to create labels, skipping")
		return false, nil
	}

	ok, err := p.Prompter.Confirm(question, true)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := cloner.Clone(ctx, source, target); err != nil {
		p.Log.Warn().Err(err).Str("repo", target).Msg("could not create labels")
		return false, nil
	}
	fmt.Fprintln(p.Out, ui.Success.Render("Created labels in "+target))
	return true, nil
}

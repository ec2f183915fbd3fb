package renamer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Moukrea/scaffoldit/internal/git"
	"github.com/Moukrea/scaffoldit/internal/naming"
	"github.com/Moukrea/scaffoldit/internal/ui"
)

// GitMeta is what the local repository says about its origin and author.
type GitMeta struct {
	OriginURL      string
	OriginRepoName string
	OriginRepoPath string
	UserEmail      string
	UserName       string
}

// Identity is the new plugin's name and ownership.
type Identity struct {
	PluginName  string
	GemName     string
	GemSummary  string
	AuthorName  string
	AuthorEmail string
	GitHubRepo  string
}

var pluginNamePattern = regexp.MustCompile(`^[a-z0-9_]+(?:-[a-z0-9_]+)*$`)

// ReadGitMeta reads the origin remote and the configured user. A repository
// without an origin remote yields an empty GitMeta.
func ReadGitMeta(ctx context.Context, g Git) (GitMeta, error) {
	var meta GitMeta

	has, err := g.HasRemote(ctx, "origin")
	if err != nil || !has {
		return meta, err
	}

	if meta.OriginURL, err = g.RemoteURL(ctx, "origin"); err != nil {
		return meta, err
	}
	meta.OriginRepoPath = git.ParseRepoPath(meta.OriginURL)
	if i := strings.LastIndex(meta.OriginRepoPath, "/"); i >= 0 {
		meta.OriginRepoName = meta.OriginRepoPath[i+1:]
	}

	if meta.UserEmail, err = g.ConfigValue(ctx, "user.email"); err != nil {
		return meta, err
	}
	if meta.UserName, err = g.ConfigValue(ctx, "user.name"); err != nil {
		return meta, err
	}
	return meta, nil
}

func validatePluginName(name string) error {
	name = naming.TrimPrefix(name)
	if !pluginNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPluginName, name)
	}
	return nil
}

// CollectIdentity asks for every identity field, offering defaults derived
// from meta.
func CollectIdentity(p ui.Prompter, meta GitMeta) (Identity, error) {
	var id Identity

	plugin, err := p.Ask(ui.Question{
		Text:     "Plugin name?",
		Default:  naming.TrimPrefix(meta.OriginRepoName),
		Required: true,
		Validate: validatePluginName,
	})
	if err != nil {
		return id, err
	}
	id.PluginName = naming.TrimPrefix(plugin)
	if err := validatePluginName(id.PluginName); err != nil {
		return id, err
	}
	id.GemName = naming.GemName(id.PluginName)

	questions := []struct {
		question ui.Question
		target   *string
	}{
		{ui.Question{Text: "Gem summary (< 60 chars)?", Default: id.PluginName + " tasks for tomo"}, &id.GemSummary},
		{ui.Question{Text: "Author email?", Default: meta.UserEmail}, &id.AuthorEmail},
		{ui.Question{Text: "Author name?", Default: meta.UserName}, &id.AuthorName},
		{ui.Question{Text: "GitHub repository?", Default: meta.OriginRepoPath}, &id.GitHubRepo},
	}
	for _, q := range questions {
		answer, err := p.Ask(q.question)
		if err != nil {
			return id, err
		}
		*q.target = answer
	}
	return id, nil
}

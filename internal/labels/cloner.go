package labels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v38/github"
	"github.com/xanzy/go-gitlab"
	"golang.org/x/oauth2"
)

// SourceRepo holds the label definitions every plugin starts from.
const SourceRepo = "mattbrictson/tomo-plugin"

// Cloner copies every label from source into target; both are "owner/repo".
type Cloner interface {
	Clone(ctx context.Context, source, target string) error
}

// Provider is the hosting service of a repository.
type Provider int

const (
	GitHub Provider = iota
	GitLab
)

func (p Provider) String() string {
	if p == GitLab {
		return "GitLab"
	}
	return "GitHub"
}

// DetectProvider guesses the hosting service from the host of a remote URL,
// in either URL or scp form.
func DetectProvider(remoteURL string) Provider {
	if strings.Contains(strings.ToLower(remoteHost(remoteURL)), "gitlab") {
		return GitLab
	}
	return GitHub
}

func remoteHost(remoteURL string) string {
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return ""
		}
		return u.Hostname()
	}
	host, _, found := strings.Cut(remoteURL, ":")
	if !found {
		return ""
	}
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	return host
}

// CLI clones labels by running "gh label clone".
type CLI struct {
	Path string
	Out  io.Writer
}

func (c CLI) Clone(ctx context.Context, source, target string) error {
	path := c.Path
	if path == "" {
		path = ghBinary
	}
	cmd := commandContext(ctx, path, "label", "clone", source, "--repo", target)
	cmd.Stdout = c.Out
	cmd.Stderr = c.Out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gh label clone %s --repo %s: %w", source, target, err)
	}
	return nil
}

func NewGitHubClient(token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	return github.NewClient(tc)
}

func NewGitLabClient(token, baseURL string) (*gitlab.Client, error) {
	return gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
}

// GitHubAPI clones labels between GitHub repositories through the REST API.
// Labels that already exist in the target are left untouched.
type GitHubAPI struct {
	Client *github.Client
}

func (c GitHubAPI) Clone(ctx context.Context, source, target string) error {
	owner, repo, err := splitRepo(target)
	if err != nil {
		return err
	}
	labels, err := listLabels(ctx, c.Client, source)
	if err != nil {
		return err
	}

	for _, l := range labels {
		_, resp, err := c.Client.Issues.CreateLabel(ctx, owner, repo, &github.Label{
			Name:        l.Name,
			Color:       l.Color,
			Description: l.Description,
		})
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
				continue
			}
			return fmt.Errorf("failed to create label %q: %w", l.GetName(), err)
		}
	}
	return nil
}

// GitLabAPI reads the labels from GitHub and creates them in a GitLab project.
type GitLabAPI struct {
	Source *github.Client
	Client *gitlab.Client
}

func (c GitLabAPI) Clone(ctx context.Context, source, target string) error {
	labels, err := listLabels(ctx, c.Source, source)
	if err != nil {
		return err
	}

	for _, l := range labels {
		opt := &gitlab.CreateLabelOptions{
			Name:  gitlab.Ptr(l.GetName()),
			Color: gitlab.Ptr("#" + strings.TrimPrefix(l.GetColor(), "#")),
		}
		if l.GetDescription() != "" {
			opt.Description = gitlab.Ptr(l.GetDescription())
		}
		_, resp, err := c.Client.Labels.CreateLabel(target, opt, gitlab.WithContext(ctx))
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusConflict {
				continue
			}
			return fmt.Errorf("failed to create label %q (status %d): %w", l.GetName(), statusCode(resp), err)
		}
	}
	return nil
}

func listLabels(ctx context.Context, client *github.Client, source string) ([]*github.Label, error) {
	owner, repo, err := splitRepo(source)
	if err != nil {
		return nil, err
	}

	var all []*github.Label
	opt := &github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := client.Issues.ListLabels(ctx, owner, repo, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to list labels of %s: %w", source, err)
		}
		all = append(all, labels...)
		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}

func splitRepo(path string) (string, string, error) {
	owner, repo, ok := strings.Cut(path, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", errors.New("repository must look like owner/repo: " + path)
	}
	return owner, repo, nil
}

func statusCode(resp *gitlab.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

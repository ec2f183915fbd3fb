package labels

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v38/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Moukrea/scaffoldit/internal/ui"
)

func binary(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not installed", name)
	}
	return path
}

func TestProbe(t *testing.T) {
	truePath := binary(t, "true")
	falsePath := binary(t, "false")

	testCases := []struct {
		name     string
		lookPath func(string) (string, error)
		expected Status
	}{
		{
			name:     "gh missing",
			lookPath: func(string) (string, error) { return "", exec.ErrNotFound },
			expected: Unavailable,
		},
		{
			name:     "gh works",
			lookPath: func(string) (string, error) { return truePath, nil },
			expected: Available,
		},
		{
			name:     "gh without label support",
			lookPath: func(string) (string, error) { return falsePath, nil },
			expected: ProbeFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			old := lookPath
			defer func() { lookPath = old }()
			lookPath = tc.lookPath

			status, _ := Probe(context.Background())
			assert.Equal(t, tc.expected, status)
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "available", Available.String())
	assert.Equal(t, "unavailable", Unavailable.String())
	assert.Equal(t, "probe failed", ProbeFailed.String())
}

func TestDetectProvider(t *testing.T) {
	assert.Equal(t, GitHub, DetectProvider("git@github.com:acme/widgets.git"))
	assert.Equal(t, GitLab, DetectProvider("https://gitlab.example.com/acme/widgets.git"))
	assert.Equal(t, GitLab, DetectProvider("git@gitlab.com:acme/widgets.git"))
	assert.Equal(t, GitLab, DetectProvider("ssh://git@gitlab.internal:2222/acme/widgets.git"))
	assert.Equal(t, GitHub, DetectProvider("git@github.com:acme/tomo-plugin-gitlab.git"))
	assert.Equal(t, GitHub, DetectProvider("https://github.com/gitlab-org/widgets"))
	assert.Equal(t, GitHub, DetectProvider(""))
}

func TestCLIClone(t *testing.T) {
	var out bytes.Buffer

	err := CLI{Path: binary(t, "true"), Out: &out}.Clone(context.Background(), SourceRepo, "acme/widgets")
	assert.NoError(t, err)

	err = CLI{Path: binary(t, "false"), Out: &out}.Clone(context.Background(), SourceRepo, "acme/widgets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--repo acme/widgets")
}

type labelServer struct {
	mu      sync.Mutex
	created []string
	exists  map[string]bool
}

func (s *labelServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/mattbrictson/tomo-plugin/labels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, `[
			{"name":"🐛 Bug Fix","color":"d73a4a","description":"Fixes a bug"},
			{"name":"📚 Docs","color":"0075ca"}
		]`)
	})
	mux.HandleFunc("/repos/acme/widgets/labels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var l github.Label
		require.NoError(t, json.NewDecoder(r.Body).Decode(&l))

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.exists[l.GetName()] {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message":"Validation Failed","errors":[{"resource":"Label","code":"already_exists","field":"name"}]}`)
			return
		}
		s.created = append(s.created, l.GetName()+"#"+l.GetColor())
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/api/v4/projects/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/labels"))
		body, _ := io.ReadAll(r.Body)
		var l struct {
			Name  string `json:"name"`
			Color string `json:"color"`
		}
		require.NoError(t, json.Unmarshal(body, &l))

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.exists[l.Name] {
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"message":"Label already exists"}`)
			return
		}
		s.created = append(s.created, l.Name+l.Color)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{}`)
	})
	return mux
}

func githubClient(t *testing.T, srv *httptest.Server) *github.Client {
	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return client
}

func TestGitHubAPIClone(t *testing.T) {
	s := &labelServer{exists: map[string]bool{"📚 Docs": true}}
	srv := httptest.NewServer(s.handler(t))
	defer srv.Close()

	err := GitHubAPI{Client: githubClient(t, srv)}.Clone(context.Background(), SourceRepo, "acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, []string{"🐛 Bug Fix#d73a4a"}, s.created)
}

func TestGitHubAPICloneBadTarget(t *testing.T) {
	err := GitHubAPI{Client: github.NewClient(nil)}.Clone(context.Background(), SourceRepo, "widgets")
	assert.Error(t, err)
}

func TestGitLabAPIClone(t *testing.T) {
	s := &labelServer{exists: map[string]bool{}}
	srv := httptest.NewServer(s.handler(t))
	defer srv.Close()

	gl, err := NewGitLabClient("token", srv.URL)
	require.NoError(t, err)

	err = GitLabAPI{Source: githubClient(t, srv), Client: gl}.Clone(context.Background(), SourceRepo, "acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, []string{"🐛 Bug Fix#d73a4a", "📚 Docs#0075ca"}, s.created)
}

type scriptedPrompter struct {
	confirm bool
	asked   []string
}

func (p *scriptedPrompter) Ask(q ui.Question) (string, error) { return q.Default, nil }

func (p *scriptedPrompter) Confirm(question string, _ bool) (bool, error) {
	p.asked = append(p.asked, question)
	return p.confirm, nil
}

type fakeCloner struct {
	err    error
	target string
}

func (c *fakeCloner) Clone(_ context.Context, _, target string) error {
	c.target = target
	return c.err
}

func TestProvision(t *testing.T) {
	unavailable := func(context.Context) (Status, string) { return Unavailable, "" }
	failed := func(context.Context) (Status, string) { return ProbeFailed, "/usr/bin/gh" }

	testCases := []struct {
		name     string
		probe    func(context.Context) (Status, string)
		api      *fakeCloner
		confirm  bool
		created  bool
		asked    int
		clonedTo string
	}{
		{name: "nothing available", probe: unavailable, asked: 0},
		{name: "probe failure without token", probe: failed, asked: 0},
		{name: "api fallback accepted", probe: unavailable, api: &fakeCloner{}, confirm: true, created: true, asked: 1, clonedTo: "acme/widgets"},
		{name: "api fallback declined", probe: failed, api: &fakeCloner{}, confirm: false, asked: 1},
		{name: "api failure is swallowed", probe: unavailable, api: &fakeCloner{err: errors.New("boom")}, confirm: true, asked: 1, clonedTo: "acme/widgets"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prompter := &scriptedPrompter{confirm: tc.confirm}
			p := &Provisioner{
				Prompter: prompter,
				Out:      io.Discard,
				Log:      zerolog.Nop(),
				Probe:    tc.probe,
			}
			if tc.api != nil {
				p.API = func(Provider) (Cloner, error) { return tc.api, nil }
			}

			created, err := p.Provision(context.Background(), "acme/widgets", "git@github.com:acme/widgets.git")
			require.NoError(t, err)
			assert.Equal(t, tc.created, created)
			assert.Len(t, prompter.asked, tc.asked)
			if tc.api != nil {
				assert.Equal(t, tc.clonedTo, tc.api.target)
			}
		})
	}
}

func TestProvisionWithGH(t *testing.T) {
	truePath := binary(t, "true")
	var out bytes.Buffer
	prompter := &scriptedPrompter{confirm: true}
	p := &Provisioner{
		Prompter: prompter,
		Out:      &out,
		Log:      zerolog.Nop(),
		Probe:    func(context.Context) (Status, string) { return Available, truePath },
	}

	created, err := p.Provision(context.Background(), "acme/widgets", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"Create GitHub labels using `gh`?"}, prompter.asked)
	assert.Contains(t, out.String(), "nice-looking release notes")
}

func TestProvisionPicksProviderFromRemote(t *testing.T) {
	var picked Provider = -1
	prompter := &scriptedPrompter{confirm: true}
	p := &Provisioner{
		Prompter: prompter,
		Out:      io.Discard,
		Log:      zerolog.Nop(),
		Probe:    func(context.Context) (Status, string) { return Unavailable, "" },
		API: func(provider Provider) (Cloner, error) {
			picked = provider
			return &fakeCloner{}, nil
		},
	}

	created, err := p.Provision(context.Background(), "acme/widgets", "git@gitlab.com:acme/widgets.git")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, GitLab, picked)
	assert.Equal(t, []string{"Create GitLab labels using the API?"}, prompter.asked)
}

func TestProvisionAPISetupFailure(t *testing.T) {
	prompter := &scriptedPrompter{confirm: true}
	p := &Provisioner{
		Prompter: prompter,
		Out:      io.Discard,
		Log:      zerolog.Nop(),
		Probe:    func(context.Context) (Status, string) { return Unavailable, "" },
		API:      func(Provider) (Cloner, error) { return nil, errors.New("bad url") },
	}

	created, err := p.Provision(context.Background(), "acme/widgets", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, prompter.asked)
}

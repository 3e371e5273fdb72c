package github

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/florinutz/gh-v2/paginate"
)

// DefaultBranch is listed when Changesets gets no branch
const DefaultBranch = "master"

// Repository is an accessor for username/slug
type Repository struct {
	gh       *Client
	Username string
	Slug     string
}

// IssueListOptions narrows an issue listing
type IssueListOptions struct {
	// State is "open" (the default) or "closed"
	State string `url:"-"`
	RangeOptions
}

func (r Repository) String() string {
	return "repository " + r.Username + "/" + r.Slug
}

func (r Repository) endpoint(prefix ...string) string {
	return r.gh.endpoint(append(prefix, r.Username, r.Slug)...)
}

// Get fetches the repository's details
func (r Repository) Get(ctx context.Context) (*RepositoryInfo, error) {
	var resp struct {
		Repository *RepositoryInfo `json:"repository"`
	}
	if err := r.gh.get(ctx, r.endpoint("repos", "show"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Repository, nil
}

// Changeset fetches one commit, with the files it touched
func (r Repository) Changeset(ctx context.Context, revision string) (*Commit, error) {
	var resp struct {
		Commit *Commit `json:"commit"`
	}
	u := r.gh.endpoint("commits", "show", r.Username, r.Slug, revision)
	if err := r.gh.get(ctx, u, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Commit, nil
}

// Changesets lists the commits on branch, newest first; an empty branch means DefaultBranch
func (r Repository) Changesets(ctx context.Context, branch string, opts *ListOptions) ([]Commit, error) {
	if branch == "" {
		branch = DefaultBranch
	}
	u := r.gh.endpoint("commits", "list", r.Username, r.Slug, branch)

	return paginate.List(ctx, opts.paginate(r.gh), func(ctx context.Context, page int) ([]Commit, error) {
		var resp struct {
			Commits []Commit `json:"commits"`
		}
		err := r.gh.get(ctx, u, pageQuery{Page: Int(page)}, &resp)

		return resp.Commits, err
	})
}

// Tags maps the repository's tag names to commit ids
func (r Repository) Tags(ctx context.Context) (map[string]string, error) {
	var resp struct {
		Tags map[string]string `json:"tags"`
	}
	if err := r.gh.get(ctx, r.gh.endpoint("repos", "show", r.Username, r.Slug, "tags"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Tags, nil
}

// Branches maps the repository's branch names to commit ids
func (r Repository) Branches(ctx context.Context) (map[string]string, error) {
	var resp struct {
		Branches map[string]string `json:"branches"`
	}
	if err := r.gh.get(ctx, r.gh.endpoint("repos", "show", r.Username, r.Slug, "branches"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Branches, nil
}

// Issue returns an accessor for one of the repository's issues
func (r Repository) Issue(number int) Issue {
	return r.gh.Issue(r.Username, r.Slug, number)
}

// Issues lists the repository's issues in opts.State
func (r Repository) Issues(ctx context.Context, opts *IssueListOptions) ([]IssueInfo, error) {
	state := "open"
	var rng *RangeOptions
	if opts != nil {
		if opts.State != "" {
			state = opts.State
		}
		rng = &opts.RangeOptions
	}

	var resp struct {
		Issues []IssueInfo `json:"issues"`
	}
	u := r.gh.endpoint("issues", "list", r.Username, r.Slug, state)
	if err := r.gh.get(ctx, u, rng, &resp); err != nil {
		return nil, err
	}

	return resp.Issues, nil
}

// Events returns the repository's activity as is
func (r Repository) Events(ctx context.Context) (json.RawMessage, error) {
	var resp json.RawMessage
	u := r.gh.endpoint("repositories", r.Username, r.Slug, "events", "")
	if err := r.gh.get(ctx, u, nil, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// Followers lists the logins watching the repository
func (r Repository) Followers(ctx context.Context) ([]string, error) {
	var resp struct {
		Watchers []string `json:"watchers"`
	}
	if err := r.gh.get(ctx, r.gh.endpoint("repos", "show", r.Username, r.Slug, "watchers"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Watchers, nil
}

// Collaborators lists the logins with push access
func (r Repository) Collaborators(ctx context.Context) ([]string, error) {
	var resp struct {
		Collaborators []string `json:"collaborators"`
	}
	u := r.gh.endpoint("repos", "show", r.Username, r.Slug, "collaborators")
	if err := r.gh.get(ctx, u, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Collaborators, nil
}

// Watch makes the authenticated user watch the repository
func (r Repository) Watch(ctx context.Context) (*RepositoryInfo, error) {
	return r.watch(ctx, "Watch", "watch")
}

// Unwatch makes the authenticated user stop watching the repository
func (r Repository) Unwatch(ctx context.Context) (*RepositoryInfo, error) {
	return r.watch(ctx, "Unwatch", "unwatch")
}

func (r Repository) watch(ctx context.Context, op, action string) (*RepositoryInfo, error) {
	if err := r.gh.requireAuth(op); err != nil {
		return nil, err
	}

	var resp struct {
		Repository *RepositoryInfo `json:"repository"`
	}
	stale := []string{
		r.endpoint("repos", "show"),
		r.gh.endpoint("repos", "show", r.Username, r.Slug, "watchers"),
		r.gh.endpoint("repos", "watched", r.gh.Username()),
	}
	if err := r.gh.post(ctx, r.endpoint("repos", action), nil, &resp, stale...); err != nil {
		return nil, err
	}

	return resp.Repository, nil
}

// AddCollaborator grants login push access. Only the owner can do that.
func (r Repository) AddCollaborator(ctx context.Context, login string) ([]string, error) {
	return r.collaborator(ctx, "AddCollaborator", "add", login)
}

// RemoveCollaborator revokes login's push access. Only the owner can do that.
func (r Repository) RemoveCollaborator(ctx context.Context, login string) ([]string, error) {
	return r.collaborator(ctx, "RemoveCollaborator", "remove", login)
}

func (r Repository) collaborator(ctx context.Context, op, action, login string) ([]string, error) {
	if err := r.gh.requireSelf(op, r.Username); err != nil {
		return nil, err
	}

	var resp struct {
		Collaborators []string `json:"collaborators"`
	}
	u := r.gh.endpoint("repos", "collaborators", r.Slug, action, login)
	stale := r.gh.endpoint("repos", "show", r.Username, r.Slug, "collaborators")
	if err := r.gh.post(ctx, u, nil, &resp, stale); err != nil {
		return nil, err
	}

	return resp.Collaborators, nil
}

// issueEndpoint addresses an action on issue number
func (r Repository) issueEndpoint(action string, number int) string {
	return r.gh.endpoint("issues", action, r.Username, r.Slug, strconv.Itoa(number))
}

package github

import (
	"context"
	"encoding/json"

	"github.com/florinutz/gh-v2/paginate"
)

// User is an accessor for a github user
type User struct {
	gh       *Client
	Username string
}

// ListOptions selects the page(s) of a paginated listing
type ListOptions struct {
	// Page is the page to fetch when All is false; 0 means the first one
	Page int `url:"-"`
	// All fetches every page
	All bool `url:"-"`
	// Tolerant returns what was fetched before a failed page instead of an error
	Tolerant bool `url:"-"`
}

func (o *ListOptions) paginate(c *Client) paginate.Options {
	if o == nil {
		return paginate.Options{Logger: c.logger}
	}
	return paginate.Options{All: o.All, Page: o.Page, Tolerant: o.Tolerant, Logger: c.logger}
}

// pageQuery is the query string of a page-numbered listing
type pageQuery struct {
	Page *int `url:"page,omitempty"`
}

// RangeOptions narrows listings addressed by offset
type RangeOptions struct {
	Start *int `url:"start,omitempty"`
	Limit *int `url:"limit,omitempty"`
}

func (u User) String() string {
	return "user " + u.Username
}

// Get fetches the user's profile
func (u User) Get(ctx context.Context) (*UserInfo, error) {
	var resp struct {
		User *UserInfo `json:"user"`
	}
	if err := u.gh.get(ctx, u.gh.endpoint("user", "show", u.Username), nil, &resp); err != nil {
		return nil, err
	}

	return resp.User, nil
}

// Repository returns an accessor for one of the user's repositories
func (u User) Repository(slug string) Repository {
	return u.gh.Repository(u.Username, slug)
}

// Repositories lists the user's repositories; opts.All walks every page
func (u User) Repositories(ctx context.Context, opts *ListOptions) ([]RepositoryInfo, error) {
	return paginate.List(ctx, opts.paginate(u.gh), func(ctx context.Context, page int) ([]RepositoryInfo, error) {
		var resp struct {
			Repositories []RepositoryInfo `json:"repositories"`
		}
		err := u.gh.get(ctx, u.gh.endpoint("repos", "show", u.Username), pageQuery{Page: Int(page)}, &resp)

		return resp.Repositories, err
	})
}

// Watched lists the repositories the user watches
func (u User) Watched(ctx context.Context) ([]RepositoryInfo, error) {
	var resp struct {
		Repositories []RepositoryInfo `json:"repositories"`
	}
	if err := u.gh.get(ctx, u.gh.endpoint("repos", "watched", u.Username), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Repositories, nil
}

// Events returns the user's public activity as is
func (u User) Events(ctx context.Context, opts *RangeOptions) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := u.gh.get(ctx, u.gh.endpoint("users", u.Username, "events", ""), opts, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// Followers lists the logins following the user
func (u User) Followers(ctx context.Context) ([]string, error) {
	return u.users(ctx, "followers")
}

// Following lists the logins the user follows
func (u User) Following(ctx context.Context) ([]string, error) {
	return u.users(ctx, "following")
}

func (u User) users(ctx context.Context, which string) ([]string, error) {
	var resp struct {
		Users []string `json:"users"`
	}
	if err := u.gh.get(ctx, u.gh.endpoint("user", "show", u.Username, which), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Users, nil
}

// Follow makes the user follow target. Only the authenticated user can follow someone.
func (u User) Follow(ctx context.Context, target string) ([]string, error) {
	return u.follow(ctx, "Follow", "follow", target)
}

// Unfollow makes the user stop following target
func (u User) Unfollow(ctx context.Context, target string) ([]string, error) {
	return u.follow(ctx, "Unfollow", "unfollow", target)
}

func (u User) follow(ctx context.Context, op, action, target string) ([]string, error) {
	if err := u.gh.requireSelf(op, u.Username); err != nil {
		return nil, err
	}

	var resp struct {
		Users []string `json:"users"`
	}
	stale := []string{
		u.gh.endpoint("user", "show", u.Username),
		u.gh.endpoint("user", "show", u.Username, "following"),
		u.gh.endpoint("user", "show", target),
		u.gh.endpoint("user", "show", target, "followers"),
	}
	if err := u.gh.post(ctx, u.gh.endpoint("user", action, target), nil, &resp, stale...); err != nil {
		return nil, err
	}

	return resp.Users, nil
}

// Update changes the user's profile. Only the authenticated user can update their own.
func (u User) Update(ctx context.Context, update UserUpdate) (*UserInfo, error) {
	if err := u.gh.requireSelf("Update", u.Username); err != nil {
		return nil, err
	}

	var resp struct {
		User *UserInfo `json:"user"`
	}
	profile := u.gh.endpoint("user", "show", u.Username)
	if err := u.gh.post(ctx, profile, update, &resp, profile); err != nil {
		return nil, err
	}

	return resp.User, nil
}

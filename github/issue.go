package github

import (
	"context"
	"fmt"
)

// Issue is an accessor for issue Number of Username/Slug
type Issue struct {
	gh       *Client
	Username string
	Slug     string
	Number   int
}

func (i Issue) String() string {
	return fmt.Sprintf("issue #%d on %s/%s", i.Number, i.Username, i.Slug)
}

func (i Issue) endpoint(action string) string {
	return i.gh.Repository(i.Username, i.Slug).issueEndpoint(action, i.Number)
}

// cached lists the urls whose bodies change along with the issue
func (i Issue) cached() []string {
	return []string{
		i.endpoint("show"),
		i.endpoint("comments"),
		i.gh.endpoint("issues", "list", i.Username, i.Slug, "open"),
		i.gh.endpoint("issues", "list", i.Username, i.Slug, "closed"),
	}
}

// Get fetches the issue
func (i Issue) Get(ctx context.Context) (*IssueInfo, error) {
	var resp struct {
		Issue *IssueInfo `json:"issue"`
	}
	if err := i.gh.get(ctx, i.endpoint("show"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Issue, nil
}

// Comments lists the issue's comments, oldest first
func (i Issue) Comments(ctx context.Context) ([]Comment, error) {
	var resp struct {
		Comments []Comment `json:"comments"`
	}
	if err := i.gh.get(ctx, i.endpoint("comments"), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Comments, nil
}

type commentForm struct {
	Comment string `url:"comment"`
}

// Comment posts body as a comment of the authenticated user
func (i Issue) Comment(ctx context.Context, body string) (*Comment, error) {
	if err := i.gh.requireAuth("Comment"); err != nil {
		return nil, err
	}

	var resp struct {
		Comment *Comment `json:"comment"`
	}
	if err := i.gh.post(ctx, i.endpoint("comment"), commentForm{Comment: body}, &resp, i.cached()...); err != nil {
		return nil, err
	}

	return resp.Comment, nil
}

// Close closes the issue
func (i Issue) Close(ctx context.Context) (*IssueInfo, error) {
	return i.setState(ctx, "Close", "close")
}

// Reopen reopens a closed issue
func (i Issue) Reopen(ctx context.Context) (*IssueInfo, error) {
	return i.setState(ctx, "Reopen", "reopen")
}

func (i Issue) setState(ctx context.Context, op, action string) (*IssueInfo, error) {
	if err := i.gh.requireAuth(op); err != nil {
		return nil, err
	}

	var resp struct {
		Issue *IssueInfo `json:"issue"`
	}
	if err := i.gh.post(ctx, i.endpoint(action), nil, &resp, i.cached()...); err != nil {
		return nil, err
	}

	return resp.Issue, nil
}

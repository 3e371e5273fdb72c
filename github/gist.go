package github

import (
	"context"
	"net/http"
)

// Gist is an accessor for a gist
type Gist struct {
	gh *Client
	ID string
}

func (g Gist) String() string {
	return "gist " + g.ID
}

// Get fetches the gist's metadata
func (g Gist) Get(ctx context.Context) (*GistInfo, error) {
	var resp struct {
		Gists []GistInfo `json:"gists"`
	}
	u := g.gh.gistEndpoint("api", "v1", "json", g.ID)
	if err := g.gh.get(ctx, u, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Gists) == 0 {
		return nil, g.gh.fail(http.MethodGet, u, errNoGist)
	}

	return &resp.Gists[0], nil
}

// File fetches the raw content of one of the gist's files
func (g Gist) File(ctx context.Context, name string) ([]byte, error) {
	return g.gh.load(ctx, g.gh.gistEndpoint("raw", g.ID, name))
}

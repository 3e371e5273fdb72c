package github

import (
	"github.com/florinutz/gh-v2/timestamp"
)

// UserInfo is a github user as returned by user/show
type UserInfo struct {
	ID              int            `json:"id"`
	Login           string         `json:"login"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Company         string         `json:"company"`
	Location        string         `json:"location"`
	Blog            string         `json:"blog"`
	Type            string         `json:"type"`
	GravatarID      string         `json:"gravatar_id"`
	CreatedAt       timestamp.Time `json:"created_at"`
	FollowersCount  int            `json:"followers_count"`
	FollowingCount  int            `json:"following_count"`
	PublicRepoCount int            `json:"public_repo_count"`
	PublicGistCount int            `json:"public_gist_count"`

	// only filled in for the authenticated user
	PrivateGistCount  int   `json:"private_gist_count,omitempty"`
	TotalPrivateRepos int   `json:"total_private_repo_count,omitempty"`
	OwnedPrivateRepos int   `json:"owned_private_repo_count,omitempty"`
	DiskUsage         int   `json:"disk_usage,omitempty"`
	Collaborators     int   `json:"collaborators,omitempty"`
	Plan              *Plan `json:"plan,omitempty"`
}

// Plan is the authenticated user's subscription
type Plan struct {
	Name          string `json:"name"`
	Collaborators int    `json:"collaborators"`
	Space         int    `json:"space"`
	PrivateRepos  int    `json:"private_repos"`
}

// UserUpdate holds the profile fields that can be changed. Nil fields are left alone.
type UserUpdate struct {
	Name     *string `url:"values[name],omitempty"`
	Email    *string `url:"values[email],omitempty"`
	Blog     *string `url:"values[blog],omitempty"`
	Company  *string `url:"values[company],omitempty"`
	Location *string `url:"values[location],omitempty"`
}

// RepositoryInfo is a repository as returned by repos/show
type RepositoryInfo struct {
	Name         string         `json:"name"`
	Owner        string         `json:"owner"`
	Description  string         `json:"description"`
	Homepage     string         `json:"homepage"`
	URL          string         `json:"url"`
	Language     string         `json:"language"`
	Fork         bool           `json:"fork"`
	Private      bool           `json:"private"`
	HasIssues    bool           `json:"has_issues"`
	HasWiki      bool           `json:"has_wiki"`
	HasDownloads bool           `json:"has_downloads"`
	Watchers     int            `json:"watchers"`
	Forks        int            `json:"forks"`
	OpenIssues   int            `json:"open_issues"`
	Size         int            `json:"size"`
	CreatedAt    timestamp.Time `json:"created_at"`
	PushedAt     timestamp.Time `json:"pushed_at"`
}

// FullName is owner/name
func (r RepositoryInfo) FullName() string {
	return r.Owner + "/" + r.Name
}

// IssueInfo is an issue as returned by issues/show
type IssueInfo struct {
	Number     int             `json:"number"`
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	State      string          `json:"state"`
	User       string          `json:"user"`
	GravatarID string          `json:"gravatar_id"`
	Votes      int             `json:"votes"`
	Comments   int             `json:"comments"`
	Position   float64         `json:"position"`
	Labels     []string        `json:"labels"`
	CreatedAt  timestamp.Time  `json:"created_at"`
	UpdatedAt  timestamp.Time  `json:"updated_at"`
	ClosedAt   *timestamp.Time `json:"closed_at"`
}

// Comment is an issue comment
type Comment struct {
	ID         int            `json:"id"`
	User       string         `json:"user"`
	Body       string         `json:"body"`
	GravatarID string         `json:"gravatar_id"`
	CreatedAt  timestamp.Time `json:"created_at"`
	UpdatedAt  timestamp.Time `json:"updated_at"`
}

// Person is the author or committer of a commit
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Login string `json:"login"`
}

// Commit is a changeset as returned by commits/list and commits/show
type Commit struct {
	ID            string         `json:"id"`
	Tree          string         `json:"tree"`
	Message       string         `json:"message"`
	URL           string         `json:"url"`
	Author        Person         `json:"author"`
	Committer     Person         `json:"committer"`
	AuthoredDate  timestamp.Time `json:"authored_date"`
	CommittedDate timestamp.Time `json:"committed_date"`
	Parents       []struct {
		ID string `json:"id"`
	} `json:"parents"`

	// only filled in by commits/show
	Added    []string       `json:"added,omitempty"`
	Removed  []string       `json:"removed,omitempty"`
	Modified []FileModified `json:"modified,omitempty"`
}

// FileModified is a file touched by a commit, with its diff
type FileModified struct {
	Filename string `json:"filename"`
	Diff     string `json:"diff"`
}

// GistInfo is a gist's metadata
type GistInfo struct {
	Repo        string         `json:"repo"`
	Description string         `json:"description"`
	Owner       string         `json:"owner"`
	Public      bool           `json:"public"`
	Files       []string       `json:"files"`
	CreatedAt   timestamp.Time `json:"created_at"`
}

// Organization is one of the authenticated user's organizations
type Organization struct {
	ID         int    `json:"id"`
	Login      string `json:"login"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Blog       string `json:"blog"`
	Type       string `json:"type"`
	GravatarID string `json:"gravatar_id"`
}

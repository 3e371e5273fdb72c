package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/florinutz/gh-v2/github"
)

const (
	repoFlagBranch = "branch"
	repoFlagAll    = "all"
	repoFlagState  = "state"
)

var repoConfig struct {
	branch   string
	all      bool
	tolerant bool
	state    string
	start    int
	limit    int
}

// repoCmd groups the repository commands
var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "repositories, their commits and issues",
}

// repoCommand is a subcommand addressing <owner> <name> plus extra args
func repoCommand(use, short string, extraArgs int,
	call func(ctx context.Context, repo github.Repository, args []string) (interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2 + extraArgs),
		Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
			return call(ctx, gh.Repository(args[0], args[1]), args[2:])
		}),
	}
}

func init() {
	commitsCmd := repoCommand("commits <owner> <name>", "commits on a branch", 0,
		func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
			return repo.Changesets(ctx, repoConfig.branch, &github.ListOptions{
				All:      repoConfig.all,
				Tolerant: repoConfig.tolerant,
			})
		})
	commitsCmd.Flags().StringVarP(&repoConfig.branch, repoFlagBranch, "b", github.DefaultBranch, "branch")
	commitsCmd.Flags().BoolVarP(&repoConfig.all, repoFlagAll, "a", false, "fetch every page")
	commitsCmd.Flags().BoolVar(&repoConfig.tolerant, "tolerant", false, "print what was fetched before a failing page")

	issuesCmd := repoCommand("issues <owner> <name>", "a repository's issues", 0,
		func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
			return repo.Issues(ctx, &github.IssueListOptions{
				State:        repoConfig.state,
				RangeOptions: *rangeOptions(repoConfig.start, repoConfig.limit),
			})
		})
	issuesCmd.Flags().StringVarP(&repoConfig.state, repoFlagState, "s", "open", "open or closed")
	issuesCmd.Flags().IntVar(&repoConfig.start, "start", 0, "offset of the first issue")
	issuesCmd.Flags().IntVar(&repoConfig.limit, "limit", 0, "number of issues")

	repoCmd.AddCommand(
		repoCommand("show <owner> <name>", "a repository's details", 0,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Get(ctx)
			}),
		repoCommand("tags <owner> <name>", "tag names and their commits", 0,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Tags(ctx)
			}),
		repoCommand("branches <owner> <name>", "branch names and their commits", 0,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Branches(ctx)
			}),
		commitsCmd,
		repoCommand("commit <owner> <name> <sha>", "one commit with its diffs", 1,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Changeset(ctx, args[0])
			}),
		issuesCmd,
		repoCommand("events <owner> <name>", "a repository's activity", 0,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Events(ctx)
			}),
		repoCommand("watchers <owner> <name>", "who watches a repository", 0,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Followers(ctx)
			}),
		repoCommand("collaborators <owner> <name>", "who can push", 0,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Collaborators(ctx)
			}),
		repoCommand("watch <owner> <name>", "watch a repository", 0,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Watch(ctx)
			}),
		repoCommand("unwatch <owner> <name>", "stop watching a repository", 0,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.Unwatch(ctx)
			}),
		repoCommand("add-collaborator <owner> <name> <login>", "grant push access", 1,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.AddCollaborator(ctx, args[0])
			}),
		repoCommand("remove-collaborator <owner> <name> <login>", "revoke push access", 1,
			func(ctx context.Context, repo github.Repository, args []string) (interface{}, error) {
				return repo.RemoveCollaborator(ctx, args[0])
			}),
	)

	rootCmd.AddCommand(repoCmd)
}

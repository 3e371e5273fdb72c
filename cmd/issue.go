package cmd

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/florinutz/gh-v2/github"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "a single issue",
}

// issueCommand is a subcommand addressing <owner> <name> <number> plus extra args
func issueCommand(use, short string, extraArgs int,
	call func(ctx context.Context, issue github.Issue, args []string) (interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3 + extraArgs),
		Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
			number, err := strconv.Atoi(args[2])
			if err != nil {
				return nil, errors.Wrapf(err, "invalid issue number %q", args[2])
			}
			return call(ctx, gh.Issue(args[0], args[1], number), args[3:])
		}),
	}
}

func init() {
	issueCmd.AddCommand(
		issueCommand("show <owner> <name> <number>", "an issue", 0,
			func(ctx context.Context, issue github.Issue, args []string) (interface{}, error) {
				return issue.Get(ctx)
			}),
		issueCommand("comments <owner> <name> <number>", "an issue's comments", 0,
			func(ctx context.Context, issue github.Issue, args []string) (interface{}, error) {
				return issue.Comments(ctx)
			}),
		issueCommand("comment <owner> <name> <number> <body>", "comment on an issue", 1,
			func(ctx context.Context, issue github.Issue, args []string) (interface{}, error) {
				return issue.Comment(ctx, args[0])
			}),
		issueCommand("close <owner> <name> <number>", "close an issue", 0,
			func(ctx context.Context, issue github.Issue, args []string) (interface{}, error) {
				return issue.Close(ctx)
			}),
		issueCommand("reopen <owner> <name> <number>", "reopen an issue", 0,
			func(ctx context.Context, issue github.Issue, args []string) (interface{}, error) {
				return issue.Reopen(ctx)
			}),
	)

	rootCmd.AddCommand(issueCmd)
}

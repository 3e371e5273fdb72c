package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/florinutz/gh-v2/github"
)

var gistCmd = &cobra.Command{
	Use:   "gist",
	Short: "gists and their files",
}

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "the authenticated user's organizations",
	Args:  cobra.NoArgs,
	Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
		return gh.Organizations(ctx)
	}),
}

func init() {
	gistCmd.AddCommand(
		&cobra.Command{
			Use:   "show <id>",
			Short: "a gist's metadata",
			Args:  cobra.ExactArgs(1),
			Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
				return gh.Gist(args[0]).Get(ctx)
			}),
		},
		&cobra.Command{
			Use:   "file <id> <name>",
			Short: "the raw content of a gist file",
			Args:  cobra.ExactArgs(2),
			Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
				return gh.Gist(args[0]).File(ctx, args[1])
			}),
		},
	)

	rootCmd.AddCommand(gistCmd, orgsCmd)
}

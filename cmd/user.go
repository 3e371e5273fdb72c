package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/florinutz/gh-v2/github"
)

var userConfig struct {
	page     int
	all      bool
	tolerant bool
	start    int
	limit    int
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "users and what they own",
}

func init() {
	showCmd := &cobra.Command{
		Use:   "show <login>",
		Short: "a user's profile",
		Args:  cobra.ExactArgs(1),
		Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
			return gh.User(args[0]).Get(ctx)
		}),
	}

	reposCmd := &cobra.Command{
		Use:   "repos <login>",
		Short: "a user's repositories",
		Args:  cobra.ExactArgs(1),
		Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
			return gh.User(args[0]).Repositories(ctx, &github.ListOptions{
				Page:     userConfig.page,
				All:      userConfig.all,
				Tolerant: userConfig.tolerant,
			})
		}),
	}
	reposCmd.Flags().IntVarP(&userConfig.page, "page", "p", 1, "page to fetch")
	reposCmd.Flags().BoolVarP(&userConfig.all, "all", "a", false, "fetch every page")
	reposCmd.Flags().BoolVar(&userConfig.tolerant, "tolerant", false, "print what was fetched before a failing page")

	eventsCmd := &cobra.Command{
		Use:   "events <login>",
		Short: "a user's public activity",
		Args:  cobra.ExactArgs(1),
		Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
			return gh.User(args[0]).Events(ctx, rangeOptions(userConfig.start, userConfig.limit))
		}),
	}
	eventsCmd.Flags().IntVar(&userConfig.start, "start", 0, "offset of the first event")
	eventsCmd.Flags().IntVar(&userConfig.limit, "limit", 0, "number of events")

	userCmd.AddCommand(
		showCmd,
		reposCmd,
		eventsCmd,
		&cobra.Command{
			Use:   "followers <login>",
			Short: "who follows a user",
			Args:  cobra.ExactArgs(1),
			Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
				return gh.User(args[0]).Followers(ctx)
			}),
		},
		&cobra.Command{
			Use:   "following <login>",
			Short: "who a user follows",
			Args:  cobra.ExactArgs(1),
			Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
				return gh.User(args[0]).Following(ctx)
			}),
		},
		&cobra.Command{
			Use:   "watched <login>",
			Short: "repositories a user watches",
			Args:  cobra.ExactArgs(1),
			Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
				return gh.User(args[0]).Watched(ctx)
			}),
		},
		&cobra.Command{
			Use:   "follow <login>",
			Short: "follow someone as the authenticated user",
			Args:  cobra.ExactArgs(1),
			Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
				return gh.User(gh.Username()).Follow(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "unfollow <login>",
			Short: "stop following someone as the authenticated user",
			Args:  cobra.ExactArgs(1),
			Run: runAPI(func(ctx context.Context, gh *github.Client, args []string) (interface{}, error) {
				return gh.User(gh.Username()).Unfollow(ctx, args[0])
			}),
		},
	)

	rootCmd.AddCommand(userCmd)
}

// rangeOptions turns unset (zero) flags into omitted parameters
func rangeOptions(start, limit int) *github.RangeOptions {
	opts := &github.RangeOptions{}
	if start > 0 {
		opts.Start = github.Int(start)
	}
	if limit > 0 {
		opts.Limit = github.Int(limit)
	}
	return opts
}

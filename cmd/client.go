package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/florinutz/gh-v2/cache"
	"github.com/florinutz/gh-v2/github"
)

const (
	cacheBucketName      = "gh-v2"
	defaultCacheValidity = time.Hour

	sampleSecondaryRateLimit = time.Minute
)

// Config covers every setting the client can be built from
type Config struct {
	Username           string `toml:"username" comment:"github login; needed for anything that requires authentication" mapstructure:"username"`
	Password           string `toml:"password" commented:"true" comment:"password, takes precedence over the token" omitempty:"true" mapstructure:"password"`
	Token              string `toml:"token" comment:"api token. Supplying it via the GHV2_TOKEN env var keeps it out of this file" mapstructure:"token"`
	NoThrottle         bool   `toml:"no_throttle" comment:"don't hold requests back to 60 per minute" mapstructure:"no_throttle"`
	BaseURL            string `toml:"base_url" commented:"true" comment:"api root" omitempty:"true" mapstructure:"base_url"`
	Cache              bool   `toml:"cache" comment:"cache GET responses on disk" mapstructure:"cache"`
	CacheValidity      string `toml:"cache_validity" comment:"how long cached responses are served, e.g. 30m" mapstructure:"cache_validity"`
	Quiet              bool   `toml:"quiet" comment:"don't log failed requests" mapstructure:"quiet"`
	Verbose            bool   `toml:"verbose" comment:"too much output will be shown, but some might enjoy this" mapstructure:"verbose"`
	SecondaryRateLimit string `toml:"secondary_rate_limit" commented:"true" comment:"sleep through github's abuse rate limits up to this long at a time, e.g. 1m; unset disables" omitempty:"true" mapstructure:"secondary_rate_limit"`
}

// loadConfig merges flags, env and the config file
func loadConfig() (cfg Config, err error) {
	if err = veep.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "couldn't parse config")
	}
	log.WithField("username", cfg.Username).Debug("fetched config")

	return cfg, nil
}

// newClient builds the api client described by cfg
func newClient(cfg Config) (*github.Client, error) {
	var opts []github.Option

	switch {
	case cfg.Password != "":
		opts = append(opts, github.WithPassword(cfg.Username, cfg.Password))
	case cfg.Token != "":
		opts = append(opts, github.WithToken(cfg.Username, cfg.Token))
	}

	if cfg.NoThrottle {
		opts = append(opts, github.WithThrottle(nil))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Quiet {
		opts = append(opts, github.Quiet(true))
	}
	if cfg.SecondaryRateLimit != "" {
		d, err := time.ParseDuration(cfg.SecondaryRateLimit)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid secondary rate limit %q", cfg.SecondaryRateLimit)
		}
		if d > 0 {
			opts = append(opts, github.WithSecondaryRateLimit(d))
		}
	}

	if cfg.Cache {
		validity := defaultCacheValidity
		if cfg.CacheValidity != "" {
			d, err := time.ParseDuration(cfg.CacheValidity)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid cache validity %q", cfg.CacheValidity)
			}
			validity = d
		}

		if c, err := cache.NewCache(cacheBucketName, validity); err != nil {
			log.WithError(err).Warn("running with no cache")
		} else {
			log.WithField("validity", validity).Debug("got cache")
			opts = append(opts, github.WithCache(c))
		}
	}

	return github.New(opts...)
}

// apiCall is what a command does with the client; the result gets printed as json
type apiCall func(ctx context.Context, gh *github.Client, args []string) (interface{}, error)

// runAPI adapts an apiCall to a cobra Run func
func runAPI(call apiCall) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.WithError(err).Fatal()
		}

		gh, err := newClient(cfg)
		if err != nil {
			log.WithError(err).Fatal("couldn't create the client")
		}
		log.WithField("client", gh.String()).Debug("got client")

		result, err := call(context.Background(), gh, args)
		if err != nil {
			log.WithError(err).Fatal()
		}

		printJSON(result)
	}
}

// printJSON prints v as JSON encoded with indent to stdout. Raw bytes are written as they are.
func printJSON(v interface{}) {
	if raw, ok := v.([]byte); ok {
		os.Stdout.Write(raw)
		return
	}
	if v == nil {
		log.WithError(errors.New("nil value for json")).Fatal()
	}
	w := json.NewEncoder(os.Stdout)
	w.SetIndent("", "\t")
	err := w.Encode(v)
	if err != nil {
		log.WithError(err).Fatal()
	}
}

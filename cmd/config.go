package cmd

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/pkg/errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// configCmd represents the gen-config command
var configCmd = &cobra.Command{
	Use:   "gen-config",
	Short: "generate config",
	Run:   runConfig,
	Args:  cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	incoming := args[0]
	if !filepath.IsAbs(incoming) {
		var err error
		if incoming, err = filepath.Abs(incoming); err != nil {
			log.WithError(err).Fatal()
		}
	}
	if !pathIsValid(incoming) {
		log.WithError(errors.New("invalid path")).Fatal()
	}

	f, err := os.Create(incoming)
	if err != nil {
		log.WithError(err).Fatal()
	}
	defer f.Close()

	if err := writeSampleConfig(f); err != nil {
		log.WithError(err).Fatal()
	}
}

func sampleConfig() Config {
	return Config{
		Username:           "your_github_login_here",
		Token:              "your_github_token_here",
		Cache:              true,
		CacheValidity:      defaultCacheValidity.String(),
		SecondaryRateLimit: sampleSecondaryRateLimit.String(),
	}
}

func writeSampleConfig(w io.Writer) error {
	return toml.NewEncoder(w).Encode(sampleConfig())
}

func pathIsValid(fp string) bool {
	// Check if file already exists
	if _, err := os.Stat(fp); err == nil {
		return true
	}
	// Attempt to create it
	var d []byte
	if err := ioutil.WriteFile(fp, d, 0644); err == nil {
		os.Remove(fp) // And delete it
		return true
	}
	return false
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var veep *viper.Viper

var rootConfig struct {
	cfgFile string
	verbose bool
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "gh-v2",
	Short:   "github's v2 json api in the cli",
	Version: "0.1",
}

// Execute runs the rootCmd
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

const (
	configName = ".gh-v2"
	envPrefix  = "ghv2"

	rootFlagVerbose       = "verbose"
	rootFlagUsername      = "username"
	rootFlagPassword      = "password"
	rootFlagToken         = "token"
	rootFlagNoThrottle    = "no-throttle"
	rootFlagBaseURL       = "base-url"
	rootFlagCache         = "cache"
	rootFlagQuiet         = "quiet"
	rootFlagSecondaryWait = "secondary-wait"
)

func init() {
	if veep == nil {
		veep = viper.New()
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		log.Fatal("Could not find home dir")
	}
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&rootConfig.cfgFile, "config", "c", "",
		fmt.Sprintf("config file (default is %s/%s.toml)", homeDir, configName))
	flags.BoolVarP(&rootConfig.verbose, rootFlagVerbose, "v", false, "Verbose?")

	flags.StringP(rootFlagUsername, "u", "", "github username")
	flags.String(rootFlagPassword, "", "github password")
	flags.StringP(rootFlagToken, "t", "", "github api token, used when there's no password")
	flags.Bool(rootFlagNoThrottle, false, "don't hold requests back to 60 per minute")
	flags.String(rootFlagBaseURL, "", "api root")
	flags.Bool(rootFlagCache, false, "cache responses on disk")
	flags.BoolP(rootFlagQuiet, "q", false, "don't log failed requests")
	flags.String(rootFlagSecondaryWait, "", "sleep through abuse rate limits up to this long, e.g. 1m")

	bindings := map[string]string{
		"verbose":              rootFlagVerbose,
		"username":             rootFlagUsername,
		"password":             rootFlagPassword,
		"token":                rootFlagToken,
		"no_throttle":          rootFlagNoThrottle,
		"base_url":             rootFlagBaseURL,
		"cache":                rootFlagCache,
		"quiet":                rootFlagQuiet,
		"secondary_rate_limit": rootFlagSecondaryWait,
	}
	for key, flag := range bindings {
		if err := veep.BindPFlag(key, flags.Lookup(flag)); err != nil {
			log.WithError(err).Fatal("config binding error")
		}
	}

	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if rootConfig.cfgFile != "" {
		// Use config file from the flag.
		veep.SetConfigFile(rootConfig.cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.WithError(err).Fatal()
		}

		veep.AddConfigPath(home)
		veep.AddConfigPath(".")

		veep.SetConfigName(configName)
	}

	veep.SetEnvPrefix(envPrefix)
	veep.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	veep.AutomaticEnv()

	if err := veep.ReadInConfig(); err != nil {
		log.WithError(err).Debug("Can't read config")
	}

	if veep.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

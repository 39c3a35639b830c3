package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/participax/civiclens/internal/model"
)

// version is overridable at build time:
// go build -ldflags "-X github.com/participax/civiclens/internal/cli.version=v1.2.3"
var version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "civiclens",
	Short: "CivicLens - Mine citizen feedback into phase-tagged keyword records",
	Long: `CivicLens turns a folder of raw citizen feedback documents (interviews,
surveys, usability reports) into structured, phase-tagged keyword records.

The pipeline runs in four stages, each writing one JSON artifact:

  fetch    download the shared archive and extract interview-related files
  extract  rank keyphrases per document       -> keybert_keywords.json
  build    link evidence sentences, add role
           suggestions                        -> structured_keywords.json
  phase    assign Discover/Define/Develop/
           Deliver lifecycle phases           -> structured_keywords_phased.json

Stages can run individually or together with 'civiclens run'. The phased
dataset can be served over HTTP with 'civiclens serve'.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("civiclens " + version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.civiclens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in the config file and CIVICLENS_* environment
// variables
func initConfig() {
	// Seed every key from the built-in defaults, so environment lookups
	// resolve even for keys the config file does not mention.
	if defaults, err := yaml.Marshal(model.DefaultConfig()); err == nil {
		viper.SetConfigType("yaml")
		_ = viper.MergeConfig(bytes.NewReader(defaults))
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".civiclens"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CIVICLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.MergeInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then config
// file, then environment. Flags are applied on top by each command.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}

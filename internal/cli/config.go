package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the configuration",
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration the pipeline would run with: built-in defaults,
overridden by the config file and CIVICLENS_* environment variables.`,
	RunE: runConfigShow,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a documented default config file",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Printf("# Config file: %s\n", used)
	} else {
		fmt.Println("# Config file: none (built-in defaults)")
	}
	fmt.Print(string(data))

	fmt.Println()
	fmt.Println("# Precedence: flags > CIVICLENS_* environment > config file > defaults")
	fmt.Println("# Example: CIVICLENS_CORPUS_DIR=/data/corpus civiclens extract")
	return nil
}

const defaultConfigYAML = `# CivicLens configuration.
# Values here are overridden by CIVICLENS_* environment variables (for
# example CIVICLENS_SERVER_PORT=9000) and by command-line flags.

# Nextcloud share link for the feedback archive. Leave empty to use the
# built-in Bamberg share.
share_url: ""

# Where the downloaded archive is stored and where the extracted corpus
# lives.
archive_path: downloads/bamboards_files.zip
corpus_dir: extracted

# Optional YAML file with custom phase term lists. Empty means the
# built-in Double Diamond rubric.
rubric_file: ""

# Concurrent suggestion workers for the build stage.
workers: 4

# Pipeline artifact paths. Downstream tools read these by name, so think
# twice before changing them.
artifacts:
  keywords: keybert_keywords.json
  structured: structured_keywords.json
  phased: structured_keywords_phased.json

http:
  timeout_seconds: 120
  max_body_mb: 512
  check_robots: true
  # proxy: http://proxy.example.org:3128
  # no_proxy: localhost,127.0.0.1

embedder:
  # auto picks OpenAI when OPENAI_API_KEY is set, lexical otherwise.
  provider: auto
  model: text-embedding-3-small
  batch_size: 64
  top_n: 20
  diversity: 0.6

llm:
  # Suggestions fall back to deterministic placeholders when disabled.
  enabled: false
  provider: openai
  model: gpt-4o-mini
  timeout_seconds: 30
  max_tokens: 200
  rate_per_second: 1

cache:
  enabled: true
  ttl_days: 7

server:
  port: 8050
  dataset: structured_keywords_phased.json

# API keys are read from the environment only, never from this file:
#   OPENAI_API_KEY     embeddings and OpenAI suggestions
#   ANTHROPIC_API_KEY  Anthropic suggestions
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to determine home directory: %w", err)
		}
		path = filepath.Join(home, ".civiclens", "config.yaml")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'civiclens config show' to see the current configuration", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file: %s\n", path)
	fmt.Println("Edit it to change defaults, or override single values with CIVICLENS_* environment variables.")
	return nil
}

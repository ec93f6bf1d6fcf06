package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/audio-risk/configs"
	"github.com/RyanBlaney/audio-risk/internal/app"
	"github.com/RyanBlaney/audio-risk/pkg/audio/loader"
	"github.com/RyanBlaney/audio-risk/pkg/output"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var configInitForce bool

// configCmd groups the configuration subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create configuration files",
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display and validate all configuration values",
	Long: `Load the configuration and display all values to verify proper parsing.

Values are resolved from defaults, the config file, AUDIO_RISK_* environment
variables and flags, in increasing order of precedence.

Examples:
  # Show the effective configuration
  audio-risk config show

  # Show a specific config file
  audio-risk --config /path/to/config.yaml config show`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file holding the defaults",
	Long: `Write the default configuration as YAML.

The file goes to $HOME/.config/audio-risk/audio-risk.yaml unless a path is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing file")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "AUDIO RISK CONFIGURATION")
	fmt.Fprintln(out, strings.Repeat("=", 80))

	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printSection(out, "APPLICATION SETTINGS")
	printKeyValue(out, "Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue(out, "Log Level", config.LogLevel)
	printKeyValue(out, "Output Format", fmt.Sprintf("%s (one of %v)", config.OutputFormat, output.Formats()))

	printSection(out, "AUDIO CONFIGURATION")
	printKeyValue(out, "Sample Rate", fmt.Sprintf("%d Hz", config.Audio.SampleRate))
	printKeyValue(out, "Resample Quality", fmt.Sprintf("%s (one of %v)", config.Audio.ResampleQuality, loader.ResampleQualities()))
	maxDuration := "unlimited"
	if config.Audio.MaxDuration > 0 {
		maxDuration = config.Audio.MaxDuration.String()
	}
	printKeyValue(out, "Max Duration", maxDuration)

	printSection(out, "DECODER CONFIGURATION")
	printKeyValue(out, "Transcode Content Type", config.Decoder.TranscodeContentType)

	printSection(out, "RISK CONFIGURATION")
	printKeyValue(out, "Threshold", fmt.Sprintf("%.4f", config.Risk.Threshold))
	printKeyValue(out, "Strict Features", fmt.Sprintf("%t", config.Risk.StrictFeatures))

	printSection(out, "OUTPUT CONFIGURATION")
	printKeyValue(out, "Precision", fmt.Sprintf("%d", config.Output.Precision))
	printKeyValue(out, "Pretty JSON", fmt.Sprintf("%t", config.Output.Pretty))
	printKeyValue(out, "Colors", fmt.Sprintf("%t", config.Output.Colors))

	printSection(out, "BATCH CONFIGURATION")
	printKeyValue(out, "Max Concurrency", fmt.Sprintf("%d", config.Batch.MaxConcurrency))

	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("-", 80))
	if err := configs.ValidateConfig(config); err != nil {
		fmt.Fprintln(out, errorStyle.Render("CONFIGURATION INVALID: "+err.Error()))
		return err
	}
	fmt.Fprintln(out, successStyle.Render("CONFIGURATION VALID"))
	fmt.Fprintf(out, "Config file: %s\n", configFilePath())
	fmt.Fprintln(out, strings.Repeat("=", 80))

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := defaultConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("cannot determine home directory; pass a path")
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := app.GenerateExampleConfig(path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Wrote "+path))
	return nil
}

func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", sectionStyle.Render(title))
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func printKeyValue(w io.Writer, key, value string) {
	if value == "" {
		fmt.Fprintf(w, "%-35s\n", key)
	} else {
		fmt.Fprintf(w, "%-35s %s\n", key+":", value)
	}
}

func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return "none (defaults and environment only)"
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, appName+".yaml")
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/RyanBlaney/audio-risk/internal/app"
	"github.com/spf13/cobra"
)

var (
	analyzeDetailed      bool
	analyzeSampleRate    int
	analyzeThreshold     float64
	analyzeMaxConcurrent int
	analyzeMaxDuration   time.Duration
	analyzeOutputFile    string
	analyzeStdinFormat   string
	analyzeTimeout       time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <audio-file>...",
	Short: "Extract features from audio files and score their risk",
	Long: `Decode each audio file, extract its features and compute a risk score.

Inputs are processed concurrently. A file that cannot be decoded is reported
with its error without stopping the rest of the batch. Use "-" to read a
single encoded file from standard input.

Examples:
  # Score a single recording
  audio-risk analyze call.wav

  # Batch with per-component scores and per-frame features
  audio-risk analyze --detailed -o yaml recordings/*.mp3

  # Table view with a custom alert threshold
  audio-risk analyze -o table --threshold 0.6 a.wav b.flac

  # Read from a pipe
  cat call.mp3 | audio-risk analyze --stdin-format mp3 -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVarP(&analyzeDetailed, "detailed", "d", false,
		"include component scores and per-frame feature sequences")
	analyzeCmd.Flags().IntVar(&analyzeSampleRate, "sample-rate", 0,
		"analysis sample rate in Hz (default from config, 16000)")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0,
		"alert threshold reported alongside each score (default from config, 0.45)")
	analyzeCmd.Flags().IntVarP(&analyzeMaxConcurrent, "max-concurrent", "j", 0,
		"maximum files analysed at once (default from config, 4)")
	analyzeCmd.Flags().DurationVar(&analyzeMaxDuration, "max-duration", 0,
		"only analyse the first part of each file, e.g. 30s (default unlimited)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "output-file", "f", "",
		"write results to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeStdinFormat, "stdin-format", "wav",
		"container format of audio read from stdin")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0,
		"abort the whole run after this long (default none)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	appCtx := newAppContext(cmd)
	appCtx.Inputs = args
	appCtx.DetailedAnalysis = analyzeDetailed
	appCtx.SampleRate = analyzeSampleRate
	appCtx.MaxConcurrent = analyzeMaxConcurrent
	appCtx.MaxDuration = analyzeMaxDuration
	appCtx.OutputFile = analyzeOutputFile
	appCtx.StdinFormat = analyzeStdinFormat
	if cmd.Flags().Changed("threshold") {
		appCtx.Threshold = &analyzeThreshold
	}

	application, err := app.NewApp(appCtx)
	if err != nil {
		return err
	}

	ctx, cancel := runContext(analyzeTimeout)
	defer cancel()

	return application.Run(ctx)
}

// newAppContext carries the global flags into an application context
func newAppContext(cmd *cobra.Command) *app.Context {
	ctx := &app.Context{
		Verbose: verbose,
		Quiet:   quiet,
		Stdin:   cmd.InOrStdin(),
		Stdout:  cmd.OutOrStdout(),
	}
	if cmd.Flags().Changed("output") {
		ctx.OutputFormat = outputFormat
	}
	return ctx
}

// runContext is cancelled on interrupt and, when timeout is positive, after timeout
func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if timeout <= 0 {
		return ctx, stop
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

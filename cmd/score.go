package cmd

import (
	"context"

	"github.com/RyanBlaney/audio-risk/internal/app"
	"github.com/spf13/cobra"
)

var (
	scoreStrict     bool
	scoreDetailed   bool
	scoreThreshold  float64
	scoreOutputFile string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [flags] <features-file>",
	Short: "Score a previously extracted feature map",
	Long: `Compute the risk score of a feature map stored as JSON or YAML.

The file may hold the bare feature map or a report written by "analyze", in
which case the map under "features" is used. Only rms_max, spec_centroid_max
and zcr_mean are needed. Missing keys count as 0 unless --strict is given.

Examples:
  audio-risk score features.json
  audio-risk score --strict --detailed report.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolVar(&scoreStrict, "strict", false,
		"fail when a scored feature is missing")
	scoreCmd.Flags().BoolVarP(&scoreDetailed, "detailed", "d", false,
		"include component scores")
	scoreCmd.Flags().Float64Var(&scoreThreshold, "threshold", 0,
		"alert threshold reported alongside the score (default from config, 0.45)")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "output-file", "f", "",
		"write the result to a file instead of stdout")
}

func runScore(cmd *cobra.Command, args []string) error {
	appCtx := newAppContext(cmd)
	appCtx.FeatureFile = args[0]
	appCtx.StrictFeatures = scoreStrict
	appCtx.DetailedAnalysis = scoreDetailed
	appCtx.OutputFile = scoreOutputFile
	if cmd.Flags().Changed("threshold") {
		appCtx.Threshold = &scoreThreshold
	}

	application, err := app.NewApp(appCtx)
	if err != nil {
		return err
	}

	return application.Run(context.Background())
}

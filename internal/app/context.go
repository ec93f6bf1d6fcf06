package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/audio-risk/configs"
	"github.com/RyanBlaney/audio-risk/pkg/audio"
	"github.com/RyanBlaney/audio-risk/pkg/audio/extractors"
	"github.com/RyanBlaney/audio-risk/pkg/audio/loader"
	"github.com/RyanBlaney/audio-risk/pkg/logging"
	"github.com/RyanBlaney/audio-risk/pkg/output"
	"github.com/RyanBlaney/audio-risk/pkg/risk"
	"golang.org/x/sync/errgroup"
)

// StdinInput is the input name that reads encoded audio from standard input.
const StdinInput = "-"

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	Inputs           []string // Audio files to analyse
	FeatureFile      string   // Feature map to score instead of analysing audio
	OutputFile       string
	OutputFormat     string
	SampleRate       int
	Threshold        *float64
	MaxConcurrent    int
	MaxDuration      time.Duration
	StdinFormat      string // Extension used to decode StdinInput, e.g. "wav" or "mp3"
	Verbose          bool
	Quiet            bool
	DetailedAnalysis bool
	StrictFeatures   bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
	Stdin  io.Reader
	Stdout io.Writer
}

// App handles the analysis lifecycle
type App struct {
	ctx       *Context
	config    *configs.Config
	loader    *loader.Loader
	extractor *extractors.FeatureExtractor
	scorer    *risk.Scorer
	logger    logging.Logger
}

// NewApp creates a new analysis application
func NewApp(ctx *Context) (*App, error) {
	// Load configuration
	config, err := loadAndMergeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	// Set up logging
	logger := setupLogging(ctx)
	ctx.Logger = logger

	extractor, err := extractors.NewFeatureExtractor(nil)
	if err != nil {
		return nil, err
	}

	if ctx.Stdin == nil {
		ctx.Stdin = os.Stdin
	}
	if ctx.Stdout == nil {
		ctx.Stdout = os.Stdout
	}

	logger.Debug("Application initialized", logging.Fields{
		"inputs":        len(ctx.Inputs),
		"feature_file":  ctx.FeatureFile,
		"output_format": config.OutputFormat,
		"sample_rate":   config.Audio.SampleRate,
		"threshold":     config.Risk.Threshold,
	})

	return &App{
		ctx:    ctx,
		config: config,
		loader: loader.New(
			loader.WithSampleRate(config.Audio.SampleRate),
			loader.WithQuality(config.Audio.ResampleQuality),
			loader.WithMaxDuration(config.Audio.MaxDuration),
			loader.WithContentType(audio.ParseContentType(config.Decoder.TranscodeContentType)),
		),
		extractor: extractor,
		scorer:    risk.DefaultScorer(),
		logger:    logger,
	}, nil
}

// Config returns the merged configuration.
func (app *App) Config() *configs.Config {
	return app.config
}

// Run analyses every input (or scores the feature file) and writes the results
func (app *App) Run(ctx context.Context) error {
	var (
		set *ReportSet
		err error
	)

	if app.ctx.FeatureFile != "" {
		var report *Report
		report, err = app.Score(app.ctx.FeatureFile)
		if err != nil {
			return err
		}
		set = app.newReportSet([]*Report{report})
	} else {
		set, err = app.AnalyzeAll(ctx, app.ctx.Inputs)
		if err != nil {
			return err
		}
	}

	// a lone failed input is an error, not a report
	if len(set.Reports) == 1 && set.Reports[0].Failed() {
		return errors.New(set.Reports[0].Error)
	}

	if err := app.outputResults(set); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	summary := set.Summary()
	if summary.Failed > 0 && summary.Succeeded == 0 {
		return fmt.Errorf("all %d inputs failed", summary.Total)
	}
	return nil
}

// Analyze runs load, extract and score on one file
func (app *App) Analyze(ctx context.Context, path string) (*Report, error) {
	logger := app.logger.WithFields(logging.Fields{
		"function": "Analyze",
		"path":     path,
	})

	start := time.Now()
	w, err := app.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	report, err := app.analyzeWaveform(w)
	if err != nil {
		return nil, err
	}
	report.File = path

	logger.Info("Analysis completed", logging.Fields{
		"risk_score": report.RiskScore,
		"duration":   report.Features.Duration,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return report, nil
}

// AnalyzeReader analyses encoded audio read from r. name's extension selects
// the decoder.
func (app *App) AnalyzeReader(ctx context.Context, name string, r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	w, err := app.loader.LoadBytes(ctx, data, filepath.Ext(name))
	if err != nil {
		return nil, err
	}

	report, err := app.analyzeWaveform(w)
	if err != nil {
		return nil, err
	}
	report.File = name
	return report, nil
}

func (app *App) analyzeWaveform(w audio.Waveform) (*Report, error) {
	features, sequences, err := app.extractor.ExtractWithSequences(w)
	if err != nil {
		return nil, err
	}

	breakdown, err := app.scorer.Score(features)
	if err != nil {
		return nil, err
	}

	assessment := risk.Assess(breakdown, app.config.Risk.Threshold, app.ctx.DetailedAnalysis)
	report := &Report{
		RiskScore:  assessment.RiskScore,
		Threshold:  assessment.Threshold,
		Features:   &features,
		Components: assessment.Components,
	}
	if app.ctx.DetailedAnalysis {
		report.Sequences = sequences
	}
	return report, nil
}

// AnalyzeAll analyses paths concurrently, at most batch.max_concurrency at a
// time. A failing input is recorded in its report and does not stop the
// others. Reports keep the order of paths.
func (app *App) AnalyzeAll(ctx context.Context, paths []string) (*ReportSet, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files given")
	}

	logger := app.logger.WithFields(logging.Fields{
		"function": "AnalyzeAll",
		"inputs":   len(paths),
	})
	logger.Debug("Starting batch analysis", logging.Fields{
		"max_concurrency": app.config.Batch.MaxConcurrency,
	})

	reports := make([]*Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(app.config.Batch.MaxConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			var (
				report *Report
				err    error
			)
			if path == StdinInput {
				report, err = app.AnalyzeReader(gctx, app.stdinName(), app.ctx.Stdin)
			} else {
				report, err = app.Analyze(gctx, path)
			}

			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Error(err, "Analysis failed", logging.Fields{"path": path})
				report = &Report{File: path, Threshold: app.config.Risk.Threshold, Error: err.Error()}
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := app.newReportSet(reports)
	summary := set.Summary()
	logger.Info("Batch analysis completed", logging.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"exceeding": summary.Exceeding,
	})
	return set, nil
}

func (app *App) stdinName() string {
	format := strings.TrimPrefix(app.ctx.StdinFormat, ".")
	if format == "" {
		format = "wav"
	}
	return "stdin." + format
}

// Score scores a previously computed feature map stored as JSON or YAML.
func (app *App) Score(path string) (*Report, error) {
	values, err := loadFeatureValues(path)
	if err != nil {
		return nil, err
	}

	breakdown, err := app.scorer.ScoreValues(values, app.config.Risk.StrictFeatures)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	assessment := risk.Assess(breakdown, app.config.Risk.Threshold, app.ctx.DetailedAnalysis)
	return &Report{
		File:       path,
		RiskScore:  assessment.RiskScore,
		Threshold:  assessment.Threshold,
		Components: assessment.Components,
	}, nil
}

func (app *App) newReportSet(reports []*Report) *ReportSet {
	return &ReportSet{Reports: reports, Precision: app.config.Output.Precision}
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	level := logging.ParseLevel(ctx.Config.LogLevel)
	switch {
	case ctx.Quiet:
		level = logging.ErrorLevel
	case ctx.Verbose || ctx.Config.Verbose:
		level = logging.DebugLevel
	}
	logging.SetLevel(level)

	logger := ctx.Logger
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "app"})
	}
	logging.RouteLibraryLogs(logger)
	return logger
}

// loadAndMergeConfig loads configuration and merges with CLI flags
func loadAndMergeConfig(ctx *Context) (*configs.Config, error) {
	baseConfig := ctx.Config
	if baseConfig == nil {
		var err error
		baseConfig, err = configs.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load base configuration: %w", err)
		}
	}

	merged := mergeConfig(baseConfig, ctx)

	if err := configs.ValidateConfig(merged); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return merged, nil
}

// outputResults formats the reports and writes them to stdout or the output file
func (app *App) outputResults(set *ReportSet) error {
	formatter, err := output.NewFormatter(app.config.OutputFormat)
	if err != nil {
		return err
	}

	formattedData, err := formatter.Format(app.outputData(set), app.pretty())
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	// Write to file or stdout
	if app.ctx.OutputFile != "" {
		return app.writeToFile(formattedData)
	}

	_, err = app.ctx.Stdout.Write(formattedData)
	return err
}

// pretty selects indentation for JSON and colour for tables.
func (app *App) pretty() bool {
	if strings.EqualFold(app.config.OutputFormat, "table") {
		return app.config.Output.Colors
	}
	return app.config.Output.Pretty
}

// outputData picks the document shape. A single input yields the bare report,
// a batch adds the summary and score statistics, CSV and table get rows.
func (app *App) outputData(set *ReportSet) any {
	switch strings.ToLower(app.config.OutputFormat) {
	case "csv", "table":
		return set
	}
	if len(set.Reports) == 1 {
		return set.Reports[0]
	}
	return map[string]any{
		"summary":     set.Summary(),
		"score_stats": set.ScoreStats(),
		"reports":     set.Reports,
	}
}

func (app *App) writeToFile(data []byte) error {
	// Ensure directory exists
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}

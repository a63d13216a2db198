// Package main provides the CLI entrypoint for huepattern.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/huepattern/internal/chart"
	"github.com/verte-zerg/huepattern/internal/config"
	"github.com/verte-zerg/huepattern/internal/dataset"
	"github.com/verte-zerg/huepattern/internal/generator"
	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/pattern"
	"github.com/verte-zerg/huepattern/internal/stats"
	"github.com/verte-zerg/huepattern/internal/statsui"
)

const defaultPlotHeight = 10

// options holds every flag value; config file values fill in flags the user
// did not set.
type options struct {
	configPath string

	dataPath        string
	table           string
	models          string
	minLevel        int
	workers         int
	sessionColumn   int
	levelColumn     int
	roundsColumn    int
	conditionColumn int

	ripleyRadii     string
	ripleyDeviation bool
	ripleyValues    bool
	nndTest         bool
	jindexRadii     string
	jindexStep      float64
	quadratMaxRes   int
	voronoiStep     float64
	voronoiMetric   string
	viewMetric      string

	simSessions int
	simMaxLevel int
	simMistakes float64
	simVisual   float64
	simClusters int
	simSpread   float64
	simSeed     int64
	simOut      string

	plotDir    string
	htmlPath   string
	showTable  bool
	showCurves bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd := newRootCmd(&options{})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "huepattern",
		Short:         "Spatial pattern statistics for colour-perception game exports",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "config file path")
	flags.StringVar(&opts.dataPath, "data", "", "CSV export or SQLite database")
	flags.StringVar(&opts.table, "table", dataset.DefaultConfig().Table, "table name for SQLite input")
	flags.StringVar(&opts.models, "models", defaultModelList(), "comma-separated colour models")
	flags.IntVar(&opts.minLevel, "min-level", dataset.DefaultMistakeMinLevel, "mistakes must be above this level")
	flags.IntVar(&opts.workers, "workers", 0, "models evaluated in parallel (0: number of CPUs)")
	flags.IntVar(&opts.sessionColumn, "session-column", dataset.DefaultSessionColumn, "session id column index when the header does not name it")
	flags.IntVar(&opts.levelColumn, "level-column", dataset.DefaultLevelColumn, "final level column index when the header does not name it")
	flags.IntVar(&opts.roundsColumn, "rounds-column", dataset.DefaultRoundsColumn, "rounds column index when the header does not name it")
	flags.IntVar(&opts.conditionColumn, "condition-column", dataset.DefaultConditionColumn, "visual condition column index when the header does not name it")

	rootCmd.AddCommand(newRipleyCmd(opts))
	rootCmd.AddCommand(newNNDCmd(opts))
	rootCmd.AddCommand(newJIndexCmd(opts))
	rootCmd.AddCommand(newQuadratCmd(opts))
	rootCmd.AddCommand(newVoronoiCmd(opts))
	rootCmd.AddCommand(newLevelsCmd(opts))
	rootCmd.AddCommand(newViewCmd(opts))
	rootCmd.AddCommand(newSimulateCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

func addOutputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.plotDir, "plot", "", "write PNG charts into this directory")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "write an HTML report to this file")
	cmd.Flags().BoolVar(&opts.showTable, "table-view", false, "print a score table instead of plain lines")
	cmd.Flags().BoolVar(&opts.showCurves, "curves", false, "plot mistakes and all curves in the terminal")
}

func newRipleyCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ripley",
		Short: "Compare edge-corrected Ripley's L of mistakes against all rounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetricCmd(cmd, opts, "ripley")
		},
	}
	cmd.Flags().StringVar(&opts.ripleyRadii, "radii", pattern.FormatGrid(pattern.DefaultRipleyRadii), "radii as start:stop[:step] or a comma list")
	cmd.Flags().BoolVar(&opts.ripleyDeviation, "deviation", false, "score |1 - ratio| instead of the ratio")
	cmd.Flags().BoolVar(&opts.ripleyValues, "values", false, "print K and L per model and radius")
	addOutputFlags(cmd, opts)
	return cmd
}

func newNNDCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nnd",
		Short: "Compare nearest-neighbour distance uniformity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetricCmd(cmd, opts, "nnd")
		},
	}
	cmd.Flags().BoolVar(&opts.nndTest, "test", false, "run a Mann-Whitney U-test on the distance samples")
	addOutputFlags(cmd, opts)
	return cmd
}

func newJIndexCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jindex",
		Short: "Compare the J-function distance between empty-space and nearest-neighbour CDFs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetricCmd(cmd, opts, "jindex")
		},
	}
	cmd.Flags().StringVar(&opts.jindexRadii, "radii", pattern.FormatGrid(pattern.DefaultJIndexRadii), "radii as start:stop[:step] or a comma list")
	cmd.Flags().Float64Var(&opts.jindexStep, "grid-step", pattern.DefaultGridStep, "empty-space lattice spacing")
	addOutputFlags(cmd, opts)
	return cmd
}

func newQuadratCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quadrat",
		Short: "Compare quadrat count dispersion across resolutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetricCmd(cmd, opts, "quadrat")
		},
	}
	cmd.Flags().IntVar(&opts.quadratMaxRes, "max-res", pattern.DefaultQuadratMaxRes, "highest grid resolution")
	addOutputFlags(cmd, opts)
	return cmd
}

func newVoronoiCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voronoi",
		Short: "Compare the spread of Voronoi cell sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetricCmd(cmd, opts, "voronoi")
		},
	}
	cmd.Flags().Float64Var(&opts.voronoiStep, "grid-step", pattern.DefaultGridStep, "voxel size")
	cmd.Flags().StringVar(&opts.voronoiMetric, "metric", pattern.MetricAbsDev, "cell size spread: absdev or stddev")
	addOutputFlags(cmd, opts)
	return cmd
}

func newLevelsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Show games and mistakes by level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLevelsCmd(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.plotDir, "plot", "", "write PNG charts into this directory")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "write an HTML report to this file")
	return cmd
}

func newViewCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse scores, curves and levels interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViewCmd(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.viewMetric, "metric", pattern.Names[0], "initial statistic ("+strings.Join(pattern.Names, ", ")+")")
	return cmd
}

func newSimulateCmd(opts *options) *cobra.Command {
	def := generator.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic export with uniform or clustered mistakes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulateCmd(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.simSessions, "sessions", def.Sessions, "number of sessions")
	cmd.Flags().IntVar(&opts.simMaxLevel, "max-level", def.MaxLevel, "highest final level")
	cmd.Flags().Float64Var(&opts.simMistakes, "mistake-rate", def.MistakeRate, "probability of an incorrect round (0-1)")
	cmd.Flags().Float64Var(&opts.simVisual, "visual-rate", def.VisualRate, "probability of a visual-condition session (0-1)")
	cmd.Flags().IntVar(&opts.simClusters, "clusters", 0, "place mistakes around this many centres (0: uniform)")
	cmd.Flags().Float64Var(&opts.simSpread, "spread", def.Spread, "cluster standard deviation")
	cmd.Flags().Int64Var(&opts.simSeed, "seed", 0, "random seed (0: time based)")
	cmd.Flags().StringVar(&opts.simOut, "out", "", "output CSV file (default: stdout)")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigCmd(opts.configPath)
		},
	}
}

func runMetricCmd(cmd *cobra.Command, opts *options, name string) error {
	dataCfg, analysis, err := resolveOptions(cmd, opts)
	if err != nil {
		return err
	}
	stat, err := pattern.New(name, analysis)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	sessions, err := loadSessions(ctx, dataCfg)
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(ctx, sessions, stat, dataCfg, analysis.Workers)
	if err != nil {
		return fmt.Errorf("failed to compare models: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.showTable {
		err = stats.RenderScoreTable(out, report.Scores)
	} else {
		err = stats.RenderScores(out, report.Scores)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if opts.showCurves {
		curveOpts := stats.CurveOptions{
			Height:   defaultPlotHeight,
			XName:    pattern.AxisName(name),
			Baseline: report.Baseline,
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderCurves(out, report.Scores, curveOpts); err != nil {
			return fmt.Errorf("failed to write curves: %w", err)
		}
	}

	switch s := stat.(type) {
	case pattern.Ripley:
		if opts.ripleyValues {
			if err := writeRipleyValues(ctx, out, s, sessions, dataCfg); err != nil {
				return err
			}
		}
	case pattern.NND:
		if opts.nndTest {
			if err := writeNNTests(out, sessions, dataCfg); err != nil {
				return err
			}
		}
	}

	return writeCharts(report, pattern.AxisName(name), opts)
}

func writeRipleyValues(ctx context.Context, w io.Writer, r pattern.Ripley, sessions []model.Session, cfg model.DataConfig) error {
	groups := dataset.Aggregate(sessions, cfg.Models, cfg.MistakeMinLevel)
	var results []model.StatisticResult
	for _, m := range cfg.Models {
		if err := ctx.Err(); err != nil {
			return err
		}
		rs, err := r.Results(m, groups[m].Mistakes, r.Radii)
		if err != nil {
			logErrf("%s: skipping K/L values: %v\n", m, err)
			continue
		}
		results = append(results, rs...)
	}
	if _, err := fmt.Fprintln(w, "\nK and L of mistakes"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderResults(w, results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeNNTests(w io.Writer, sessions []model.Session, cfg model.DataConfig) error {
	groups := dataset.Aggregate(sessions, cfg.Models, cfg.MistakeMinLevel)
	if _, err := fmt.Fprintln(w, "\nMann-Whitney U-test, nearest-neighbour distances of mistakes vs all"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, m := range cfg.Models {
		res, err := pattern.NNTest(groups[m].Mistakes, groups[m].All)
		var line string
		if err != nil {
			line = fmt.Sprintf("%s: %v", m, err)
		} else {
			line = fmt.Sprintf("%s: n1=%d n2=%d U=%.6g p=%.4g", m, res.N1, res.N2, res.U, res.P)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runLevelsCmd(cmd *cobra.Command, opts *options) error {
	dataCfg, _, err := resolveOptions(cmd, opts)
	if err != nil {
		return err
	}
	sessions, err := loadSessions(cmd.Context(), dataCfg)
	if err != nil {
		return err
	}
	report := stats.BuildLevels(sessions)
	out := cmd.OutOrStdout()
	if err := stats.RenderHistogram(out, "Games by final level", report.Games, 40); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistogram(out, "Mistakes by level", report.Mistakes, 40); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	c := report.Condition
	if err := stats.RenderHistogram(out, fmt.Sprintf("Games reaching level, regular (%d games)", c.RegularGames), c.Regular, 40); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if c.VisualGames > 0 {
		title := fmt.Sprintf("Games reaching level, visual (%d games, scaled x%.3g)", c.VisualGames, c.Scale)
		if err := stats.RenderHistogram(out, title, c.Visual, 40); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return writeCharts(report, "", opts)
}

func runViewCmd(cmd *cobra.Command, opts *options) error {
	dataCfg, analysis, err := resolveOptions(cmd, opts)
	if err != nil {
		return err
	}
	if _, err := pattern.New(opts.viewMetric, analysis); err != nil {
		return err
	}
	ctx := cmd.Context()
	sessions, load, err := dataset.Load(ctx, dataCfg)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	reportLoad(load)

	ui := statsui.NewModel(ctx, sessions, load, statsui.Settings{
		Metric:   strings.ToLower(opts.viewMetric),
		Data:     dataCfg,
		Analysis: analysis,
	})
	program := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func runSimulateCmd(cmd *cobra.Command, opts *options) error {
	if opts.simSessions <= 0 {
		return fmt.Errorf("--sessions must be > 0")
	}
	if opts.simMaxLevel <= 0 || opts.simMaxLevel > dataset.MaxLevel {
		return fmt.Errorf("--max-level must be between 1 and %d", dataset.MaxLevel)
	}
	if opts.simMistakes < 0 || opts.simMistakes > 1 {
		return fmt.Errorf("--mistake-rate must be between 0 and 1")
	}
	if opts.simVisual < 0 || opts.simVisual > 1 {
		return fmt.Errorf("--visual-rate must be between 0 and 1")
	}
	if opts.simClusters < 0 {
		return fmt.Errorf("--clusters must be >= 0")
	}

	genOpts := generator.DefaultOptions()
	genOpts.Sessions = opts.simSessions
	genOpts.MaxLevel = opts.simMaxLevel
	genOpts.Models = dataset.ParseModels(opts.models)
	genOpts.MistakeRate = opts.simMistakes
	genOpts.VisualRate = opts.simVisual
	genOpts.Clusters = opts.simClusters
	genOpts.Spread = opts.simSpread

	gen := generator.New()
	if opts.simSeed != 0 {
		gen = generator.NewSeeded(opts.simSeed)
	}
	sessions := gen.Generate(genOpts)

	if opts.simOut == "" {
		return dataset.WriteCSV(cmd.OutOrStdout(), sessions)
	}
	file, err := os.Create(opts.simOut)
	if err != nil {
		return fmt.Errorf("failed to create export: %w", err)
	}
	if err := dataset.WriteCSV(file, sessions); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	logErrf("Wrote %d sessions to %s\n", len(sessions), opts.simOut)
	return nil
}

func loadSessions(ctx context.Context, cfg model.DataConfig) ([]model.Session, error) {
	sessions, load, err := dataset.Load(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	reportLoad(load)
	return sessions, nil
}

func reportLoad(load dataset.LoadStats) {
	logErrf("Loaded %d sessions (%d rounds) from %d rows\n", load.Sessions, load.Rounds, load.Rows)
	if load.Skipped() {
		logErrf("Skipped %d rows, %d rounds and %d duplicate sessions\n", load.SkippedRows, load.SkippedRounds, load.Duplicates)
	}
}

func writeCharts(report stats.Report, xName string, opts *options) error {
	if opts.plotDir != "" {
		if err := os.MkdirAll(opts.plotDir, 0o755); err != nil {
			return fmt.Errorf("failed to create plot directory: %w", err)
		}
		paths, err := savePNGs(report, xName, opts.plotDir)
		for _, p := range paths {
			logErrf("Wrote %s\n", p)
		}
		if err != nil {
			return err
		}
	}
	if opts.htmlPath != "" {
		if err := writeHTMLFile(opts.htmlPath, report, xName); err != nil {
			return err
		}
		logErrf("Wrote %s\n", opts.htmlPath)
	}
	return nil
}

func savePNGs(report stats.Report, xName, dir string) ([]string, error) {
	var paths []string
	if report.Metric != "" {
		curves, err := chart.SaveCurves(dir, report, xName)
		paths = append(paths, curves...)
		return paths, err
	}
	levels := []struct {
		file, title, yName string
		h                  stats.Histogram
	}{
		{"games_by_level.png", "Games by final level", "games", report.Games},
		{"mistakes_by_level.png", "Mistakes by level", "mistakes", report.Mistakes},
	}
	for _, l := range levels {
		if len(l.h.Values) == 0 {
			continue
		}
		path := filepath.Join(dir, l.file)
		if err := chart.SaveHistogram(path, l.title, l.yName, l.h); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	if len(report.Condition.Regular.Values) > 0 {
		path := filepath.Join(dir, "games_by_condition.png")
		if err := chart.SaveCondition(path, report.Condition); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeHTMLFile(path string, report stats.Report, xName string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create html directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create html report: %w", err)
	}
	if err := chart.WriteHTML(file, report, xName); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close html report: %w", err)
	}
	return nil
}

// resolveOptions merges the config file under the flags and validates the result.
func resolveOptions(cmd *cobra.Command, opts *options) (model.DataConfig, model.AnalysisConfig, error) {
	fileCfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, opts, fileCfg)

	if strings.TrimSpace(opts.dataPath) == "" {
		return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("--data is required (or set data.path in %s)", opts.configPath)
	}
	if opts.minLevel < 0 {
		return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("--min-level must be >= 0")
	}
	if opts.workers < 0 {
		return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("--workers must be >= 0")
	}
	for name, v := range map[string]int{
		"session-column":   opts.sessionColumn,
		"level-column":     opts.levelColumn,
		"rounds-column":    opts.roundsColumn,
		"condition-column": opts.conditionColumn,
	} {
		if v < 0 {
			return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("--%s must be >= 0", name)
		}
	}

	dataCfg := model.DataConfig{
		Path:            opts.dataPath,
		Models:          dataset.ParseModels(opts.models),
		MistakeMinLevel: opts.minLevel,
		SessionColumn:   opts.sessionColumn,
		LevelColumn:     opts.levelColumn,
		RoundsColumn:    opts.roundsColumn,
		ConditionColumn: opts.conditionColumn,
		Table:           opts.table,
	}

	analysis := model.AnalysisConfig{
		Workers:        opts.workers,
		JIndexStep:     opts.jindexStep,
		QuadratMaxRes:  opts.quadratMaxRes,
		VoronoiStep:    opts.voronoiStep,
		VoronoiMetric:  opts.voronoiMetric,
		RipleyDeviates: opts.ripleyDeviation,
	}
	if opts.ripleyRadii != "" {
		if analysis.RipleyRadii, err = pattern.ParseGrid(opts.ripleyRadii); err != nil {
			return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("invalid --radii: %w", err)
		}
	}
	if opts.jindexRadii != "" {
		if analysis.JIndexRadii, err = pattern.ParseGrid(opts.jindexRadii); err != nil {
			return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("invalid --radii: %w", err)
		}
	}
	if opts.jindexStep < 0 || opts.voronoiStep < 0 {
		return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("--grid-step must be >= 0")
	}
	if opts.quadratMaxRes < 0 {
		return model.DataConfig{}, model.AnalysisConfig{}, fmt.Errorf("--max-res must be >= 0")
	}
	return dataCfg, analysis, nil
}

func applyConfig(cmd *cobra.Command, opts *options, cfg config.FileConfig) {
	applyStringConfig(cmd, "data", &opts.dataPath, cfg.Data.Path)
	applyStringConfig(cmd, "table", &opts.table, cfg.Data.Table)
	if len(cfg.Data.Models) > 0 && !cmd.Flags().Changed("models") {
		opts.models = strings.Join(cfg.Data.Models, ",")
	}
	applyIntConfig(cmd, "min-level", &opts.minLevel, cfg.Data.MinLevel)
	applyIntConfig(cmd, "workers", &opts.workers, cfg.Data.Workers)
	applyIntConfig(cmd, "session-column", &opts.sessionColumn, cfg.Data.SessionColumn)
	applyIntConfig(cmd, "level-column", &opts.levelColumn, cfg.Data.LevelColumn)
	applyIntConfig(cmd, "rounds-column", &opts.roundsColumn, cfg.Data.RoundsColumn)
	applyIntConfig(cmd, "condition-column", &opts.conditionColumn, cfg.Data.ConditionColumn)

	switch cmd.Name() {
	case "ripley", "view":
		applyStringConfig(cmd, "radii", &opts.ripleyRadii, cfg.Ripley.Radii)
		applyBoolConfig(cmd, "deviation", &opts.ripleyDeviation, cfg.Ripley.Deviation)
	}
	switch cmd.Name() {
	case "jindex", "view":
		applyStringConfig(cmd, "radii", &opts.jindexRadii, cfg.JIndex.Radii)
		applyFloatConfig(cmd, "grid-step", &opts.jindexStep, cfg.JIndex.GridStep)
	}
	switch cmd.Name() {
	case "quadrat", "view":
		applyIntConfig(cmd, "max-res", &opts.quadratMaxRes, cfg.Quadrat.MaxRes)
	}
	switch cmd.Name() {
	case "voronoi", "view":
		applyFloatConfig(cmd, "grid-step", &opts.voronoiStep, cfg.Voronoi.GridStep)
		applyStringConfig(cmd, "metric", &opts.voronoiMetric, cfg.Voronoi.Metric)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func runConfigCmd(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# huepattern configuration
# Uncomment a value to enable it. CLI flags override config values.

[data]
# path = "export.csv"        # CSV export or SQLite database (.db, .sqlite, .sqlite3)
# table = %q               # Table read from SQLite input
# models = [%s]
# min-level = %d              # Mistakes must be above this level
# workers = 0                # Models evaluated in parallel (0: number of CPUs)
# session-column = %d         # Column indexes used when the header does not name them
# level-column = %d
# rounds-column = %d
# condition-column = %d

[ripley]
# radii = %q            # start:stop[:step] or a comma list
# deviation = false          # Score |1 - ratio| instead of the ratio

[jindex]
# radii = %q
# grid-step = %.1f            # Empty-space lattice spacing

[quadrat]
# max-res = %d              # Highest grid resolution

[voronoi]
# grid-step = %.1f            # Voxel size
# metric = %q            # absdev or stddev
`,
		dataset.DefaultConfig().Table,
		quotedModels(),
		dataset.DefaultMistakeMinLevel,
		dataset.DefaultSessionColumn,
		dataset.DefaultLevelColumn,
		dataset.DefaultRoundsColumn,
		dataset.DefaultConditionColumn,
		pattern.FormatGrid(pattern.DefaultRipleyRadii),
		pattern.FormatGrid(pattern.DefaultJIndexRadii),
		pattern.DefaultGridStep,
		pattern.DefaultQuadratMaxRes,
		pattern.DefaultGridStep,
		pattern.MetricAbsDev,
	)
}

func defaultModelList() string {
	parts := make([]string, len(model.DefaultColorModels))
	for i, m := range model.DefaultColorModels {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}

func quotedModels() string {
	parts := make([]string, len(model.DefaultColorModels))
	for i, m := range model.DefaultColorModels {
		parts[i] = fmt.Sprintf("%q", string(m))
	}
	return strings.Join(parts, ", ")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/core/config"
	"github.com/abdul-hamid-achik/clueassert/packages/export/metrics"
	"github.com/abdul-hamid-achik/clueassert/packages/history"
	"github.com/abdul-hamid-achik/clueassert/packages/logging"
	"github.com/abdul-hamid-achik/clueassert/packages/notify"
	"github.com/abdul-hamid-achik/clueassert/packages/output"
	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/abdul-hamid-achik/clueassert/packages/suite"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <report|directory>...",
	Short: "Render assertion report files",
	Long: `Render report files written by report.Recorder.

Failing assertions are printed with their location and clues. Passed
assertions are counted in the summary and listed with --show-passed.

Examples:
  clueassert render clueassert-report.json
  clueassert render ./reports/ --show-passed
  clueassert render report.json -o junit --output-file junit.xml
  clueassert render report.json --history sqlite://.clueassert/history.db
  clueassert render ./reports/ --watch
  clueassert render report.json --metrics prometheus --metrics-file clueassert.prom
  clueassert render report.json --notify slack --slack-webhook $SLACK_WEBHOOK`,
	Args: cobra.MinimumNArgs(1),
	RunE: renderCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	outputFlag     string
	outputFileFlag string
	noColorFlag    bool
	verboseFlag    bool
	showPassedFlag bool
	watchFlag      bool
	historyFlag    string

	metricsFlag     string
	metricsFileFlag string

	notifyFlag       string
	notifyOnFlag     string
	slackWebhookFlag string
	slackChannelFlag string
	teamsWebhookFlag string
)

func init() {
	renderCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("CLUEASSERT_OUTPUT", ""), "Output format: console, json, junit, tap, html (env: CLUEASSERT_OUTPUT)")
	renderCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("CLUEASSERT_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: CLUEASSERT_OUTPUT_FILE)")
	renderCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("CLUEASSERT_NO_COLOR", false), "Disable colored output (env: CLUEASSERT_NO_COLOR)")
	renderCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("CLUEASSERT_VERBOSE", false), "Show report file and ID (env: CLUEASSERT_VERBOSE)")
	renderCmd.Flags().BoolVar(&showPassedFlag, "show-passed", getEnvBool("CLUEASSERT_SHOW_PASSED", false), "List passed assertions too (env: CLUEASSERT_SHOW_PASSED)")
	renderCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch report files and re-render on change")
	renderCmd.Flags().StringVar(&historyFlag, "history", getEnvString("CLUEASSERT_HISTORY", ""), "Save rendered reports to a history database (env: CLUEASSERT_HISTORY)")

	// Metrics export flags
	renderCmd.Flags().StringVar(&metricsFlag, "metrics", getEnvString("CLUEASSERT_METRICS", ""), "Metrics export format: prometheus, json (env: CLUEASSERT_METRICS)")
	renderCmd.Flags().StringVar(&metricsFileFlag, "metrics-file", getEnvString("CLUEASSERT_METRICS_FILE", ""), "Output file for metrics (env: CLUEASSERT_METRICS_FILE)")

	// Notification flags
	renderCmd.Flags().StringVar(&notifyFlag, "notify", getEnvString("CLUEASSERT_NOTIFY", ""), "Notification service: slack, teams (env: CLUEASSERT_NOTIFY)")
	renderCmd.Flags().StringVar(&notifyOnFlag, "notify-on", getEnvString("CLUEASSERT_NOTIFY_ON", "failure"), "When to notify: always, failure, success, recovery (env: CLUEASSERT_NOTIFY_ON)")
	renderCmd.Flags().StringVar(&slackWebhookFlag, "slack-webhook", getEnvString("SLACK_WEBHOOK", ""), "Slack webhook URL (env: SLACK_WEBHOOK)")
	renderCmd.Flags().StringVar(&slackChannelFlag, "slack-channel", getEnvString("SLACK_CHANNEL", ""), "Slack channel override (env: SLACK_CHANNEL)")
	renderCmd.Flags().StringVar(&teamsWebhookFlag, "teams-webhook", getEnvString("TEAMS_WEBHOOK", ""), "Microsoft Teams webhook URL (env: TEAMS_WEBHOOK)")
}

// newMetricsCollector opens the metrics file and returns a collector for one
// render pass, or nil when metrics are off.
func newMetricsCollector(format, path string) (*metrics.Collector, error) {
	if format == "" {
		return nil, nil
	}
	if path == "" {
		return nil, fmt.Errorf("--metrics-file is required with --metrics")
	}

	var build func(f *os.File) metrics.Exporter
	switch format {
	case "prometheus":
		build = func(f *os.File) metrics.Exporter { return metrics.NewPrometheusExporter(f) }
	case "json":
		build = func(f *os.File) metrics.Exporter { return metrics.NewJSONExporter(f) }
	default:
		return nil, fmt.Errorf("unknown metrics format %q (use prometheus or json)", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot create metrics file: %w", err)
	}
	return metrics.NewCollector(build(f)), nil
}

// newNotifyManager builds the notifiers named by --notify. It returns nil
// when notifications are off.
func newNotifyManager() (*notify.Manager, error) {
	if notifyFlag == "" {
		return nil, nil
	}
	notifyOn, err := notify.ParseNotifyOn(notifyOnFlag)
	if err != nil {
		return nil, err
	}

	var notifiers []notify.Notifier
	for _, service := range strings.Split(notifyFlag, ",") {
		switch strings.ToLower(strings.TrimSpace(service)) {
		case "slack":
			if slackWebhookFlag == "" {
				return nil, fmt.Errorf("--slack-webhook is required for slack notifications")
			}
			var opts []notify.SlackOption
			if slackChannelFlag != "" {
				opts = append(opts, notify.WithSlackChannel(slackChannelFlag))
			}
			notifiers = append(notifiers, notify.NewSlackNotifier(slackWebhookFlag, opts...))
		case "teams":
			if teamsWebhookFlag == "" {
				return nil, fmt.Errorf("--teams-webhook is required for teams notifications")
			}
			notifiers = append(notifiers, notify.NewTeamsNotifier(teamsWebhookFlag))
		case "":
		default:
			return nil, fmt.Errorf("unknown notification service %q", service)
		}
	}
	return notify.NewManager(notifyOn, notifiers...), nil
}

// renderOptions is the merged result of config file and flags.
type renderOptions struct {
	format     string
	verbose    bool
	noColor    bool
	showPassed bool
	historyDB  string
	outputFile string

	metricsFormat string
	metricsFile   string
}

func resolveRenderOptions(cmd *cobra.Command, fileConfig *config.Config) renderOptions {
	overrides := &config.Config{
		Output:     outputFlag,
		OutputFile: outputFileFlag,
		HistoryDB:  historyFlag,
	}
	if cmd.Flags().Changed("no-color") || noColorFlag {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	if cmd.Flags().Changed("verbose") || verboseFlag {
		overrides.Verbose = config.BoolPtr(verboseFlag)
	}
	if cmd.Flags().Changed("show-passed") || showPassedFlag {
		overrides.ShowPassed = config.BoolPtr(showPassedFlag)
	}

	merged := fileConfig.Merge(overrides)
	format := strings.ToLower(merged.Output)
	if format == "" {
		format = "console"
	}
	return renderOptions{
		format:     format,
		verbose:    merged.GetVerbose(),
		noColor:    merged.GetNoColor(),
		showPassed: merged.GetShowPassed(),
		historyDB:  merged.HistoryDB,
		outputFile: merged.OutputFile,

		metricsFormat: strings.ToLower(metricsFlag),
		metricsFile:   metricsFileFlag,
	}
}

// newFormatter creates the formatter named by opts.format writing to w.
func newFormatter(opts renderOptions, w io.Writer) (output.Formatter, error) {
	switch opts.format {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w)), nil
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w)), nil
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w)), nil
	case "html":
		return output.NewHTMLFormatter(output.HTMLWithWriter(w)), nil
	case "console":
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithVerbose(opts.verbose),
			output.WithNoColor(opts.noColor),
			output.WithOnlyFailed(!opts.showPassed),
		), nil
	}
	return nil, fmt.Errorf("unknown output format %q (use console, json, junit, tap or html)", opts.format)
}

func renderCommand(cmd *cobra.Command, args []string) error {
	opts := resolveRenderOptions(cmd, settings)
	log := logger.With(logging.String("format", opts.format))

	// Setup output writer
	var outWriter io.Writer = cmd.OutOrStdout()
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return &ExitError{Code: ExitConfigError, Err: fmt.Errorf("cannot create output file: %w", err)}
		}
		defer f.Close()
		outWriter = f
	}

	files, err := collectFiles(args)
	if err != nil {
		return &ExitError{Code: ExitInvalidReport, Err: err}
	}
	if len(files) == 0 {
		return &ExitError{Code: ExitInvalidReport, Err: fmt.Errorf("no .json report files found")}
	}

	var store *history.Store
	if opts.historyDB != "" {
		store, err = history.Open(cmd.Context(), opts.historyDB)
		if err != nil {
			return &ExitError{Code: ExitConfigError, Err: err}
		}
		defer store.Close()
		log.Debug("history enabled", logging.String("db", opts.historyDB))
	}

	notifier, err := newNotifyManager()
	if err != nil {
		return &ExitError{Code: ExitUsageError, Err: err}
	}

	// Validate metrics flags before rendering anything
	switch opts.metricsFormat {
	case "", "prometheus", "json":
	default:
		return &ExitError{Code: ExitUsageError, Err: fmt.Errorf("unknown metrics format %q (use prometheus or json)", opts.metricsFormat)}
	}
	if opts.metricsFormat != "" && opts.metricsFile == "" {
		return &ExitError{Code: ExitUsageError, Err: fmt.Errorf("--metrics-file is required with --metrics")}
	}

	r := &renderer{opts: opts, out: outWriter, store: store, notifier: notifier, log: log}

	summary, err := r.renderFiles(cmd.Context(), files)
	if err != nil {
		return err
	}

	if !watchFlag {
		if summary.Failed+summary.Errored > 0 {
			return &ExitError{Code: ExitAssertionFailure}
		}
		if summary.Total == 0 && r.loadErrors > 0 {
			return &ExitError{Code: ExitInvalidReport}
		}
		return nil
	}

	return r.watch(cmd, args, files)
}

// renderer renders a set of report files with one formatter per pass.
type renderer struct {
	mu         sync.Mutex // serializes renders triggered by watch
	opts       renderOptions
	out        io.Writer
	store      *history.Store
	notifier   *notify.Manager
	log        *logging.Logger
	loadErrors int
}

// renderFiles loads and formats every file and returns the combined summary.
// Unreadable reports are reported through the formatter and skipped.
func (r *renderer) renderFiles(ctx context.Context, files []string) (suite.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total suite.Summary
	r.loadErrors = 0
	if ctx == nil {
		ctx = context.Background()
	}

	formatter, err := newFormatter(r.opts, r.out)
	if err != nil {
		return total, &ExitError{Code: ExitUsageError, Err: err}
	}
	formatter.FormatHeader(version)

	collector, err := newMetricsCollector(r.opts.metricsFormat, r.opts.metricsFile)
	if err != nil {
		return total, &ExitError{Code: ExitConfigError, Err: err}
	}

	run := &notify.RunSummary{}
	startTime := time.Now()
	for _, file := range files {
		doc, err := report.Load(file)
		if err != nil {
			formatter.FormatError(err)
			r.loadErrors++
			continue
		}

		result, err := output.FromDocument(file, doc)
		if err != nil {
			formatter.FormatError(fmt.Errorf("%s: %w", file, err))
			r.loadErrors++
			continue
		}

		formatter.FormatResult(result)
		total = total.Add(result.Summary())
		run.Reports++
		run.AddFailures(result.Name, result.Tests...)
		if collector != nil {
			collector.Record(file, result.Tests...)
		}
		r.log.Debug("rendered report", logging.String("file", file), logging.Int("assertions", result.Summary().Total))

		if r.store != nil {
			if err := r.store.Save(ctx, doc); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to save %s to history: %v\n", file, err)
			}
		}
	}

	duration := time.Since(startTime)

	// Flush output for formatters that accumulate results
	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(duration); err != nil {
			return total, fmt.Errorf("error writing output: %w", err)
		}
	}

	if collector != nil {
		err := collector.Flush()
		if cerr := collector.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to export metrics: %v\n", err)
		}
	}

	if r.notifier != nil {
		run.Summary = total
		run.Duration = duration
		if err := r.notifier.Notify(ctx, run); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to send notification: %v\n", err)
		}
	}

	return total, nil
}

func (r *renderer) watch(cmd *cobra.Command, args, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Add files and directories to watch
	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	// Also watch the original args if they're directories
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}
	r.log.Debug("watching", logging.Int("dirs", len(watchedDirs)))

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Recorders rewrite reports with create+rename as often as with write
			if (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) && isReportFile(event.Name) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				name := event.Name
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.ErrOrStderr(), "\n\nFile changed: %s\nRe-rendering...\n\n", name)

					current, err := collectFiles(args)
					if err != nil {
						fmt.Fprintf(os.Stderr, "warning: %v\n", err)
						return
					}
					if _, err := r.renderFiles(ctx, current); err != nil {
						fmt.Fprintf(os.Stderr, "warning: %v\n", err)
					}

					fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "warning: watcher error: %v\n", err)
		}
	}
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isReportFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			// Files named explicitly are taken whatever their extension
			files = append(files, arg)
		}
	}

	return files, nil
}

func isReportFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

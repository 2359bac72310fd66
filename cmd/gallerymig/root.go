package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gallerymig/internal/config"
	"gallerymig/internal/metrics"
	"gallerymig/internal/metrics/datadog"
	"gallerymig/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "gallerymig/internal/storage/all"
)

// Environment variables consulted when the matching flag is not set.
const (
	envDump           = "GALLERYMIG_DUMP"
	envLayout         = "GALLERYMIG_LAYOUT"
	envDSN            = "GALLERYMIG_DSN"
	envMetricsBackend = "METRICS_BACKEND"
	envPushgatewayURL = "PUSHGATEWAY_URL"
	envStatsdAddr     = "STATSD_ADDR"
)

const defaultJob = "gallerymig"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dump       string
	layout     string
	job        string
	verbose    bool

	metricsBackend string
	pushgatewayURL string
	statsdAddr     string

	log *zap.SugaredLogger
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ro := &rootOptions{}
	root := newRootCmd(ro)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if ferr := metrics.Flush(); ferr != nil && ro.log != nil {
		ro.log.Warnf("metrics: flush error: %v", ferr)
	}
	metrics.Reset()
	if ro.log != nil {
		_ = ro.log.Sync()
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gallerymig",
		Short:         "Migrate a legacy gallery CMS dump into static-site records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ro.log = newLogger(cmd.ErrOrStderr(), ro.verbose)
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&ro.configPath, "config", "c", "", "pipeline config (JSON or YAML)")
	f.StringVar(&ro.dump, "dump", "", "dump file path or http(s) URL (env "+envDump+")")
	f.StringVar(&ro.layout, "layout", "", "column layout version, e.g. koken-v1 (env "+envLayout+")")
	f.StringVar(&ro.job, "job", "", "job name for logs and metrics")
	f.BoolVarP(&ro.verbose, "verbose", "v", false, "enable debug logs")
	f.StringVar(&ro.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (env "+envMetricsBackend+")")
	f.StringVar(&ro.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (env "+envPushgatewayURL+")")
	f.StringVar(&ro.statsdAddr, "statsd-addr", "", "DogStatsD address (env "+envStatsdAddr+")")

	cmd.AddCommand(
		newExtractCmd(ro),
		newLoadCmd(ro),
		newInspectCmd(ro),
		newValidateCmd(ro),
	)
	return cmd
}

// newLogger builds a console logger on w. Debug level when verbose.
func newLogger(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// pick returns the first non-empty value.
func pick(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// pipeline loads the config file (if any) and applies flag and environment
// overrides: flag, then env, then config file, then default.
func (ro *rootOptions) pipeline() (config.Pipeline, error) {
	var p config.Pipeline
	if ro.configPath != "" {
		var err error
		if p, err = config.Load(ro.configPath); err != nil {
			return p, err
		}
	}

	if dump := pick(ro.dump, os.Getenv(envDump)); dump != "" {
		if strings.HasPrefix(dump, "http://") || strings.HasPrefix(dump, "https://") {
			p.Source.Kind = "http"
			p.Source.HTTP.URL = dump
		} else {
			p.Source.Kind = "file"
			p.Source.File.Path = dump
		}
	}
	p.Layout.Version = pick(ro.layout, os.Getenv(envLayout), p.Layout.Version)
	p.Job = pick(ro.job, p.Job, defaultJob)
	return p, nil
}

// report writes validation issues to w and fails when any is an error.
func report(w io.Writer, issues []config.Issue) error {
	for _, iss := range issues {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}

// prepare resolves and validates the pipeline, then installs the metrics
// backend for its job.
func (ro *rootOptions) prepare(cmd *cobra.Command, mutate func(*config.Pipeline)) (config.Pipeline, error) {
	p, err := ro.pipeline()
	if err != nil {
		return p, err
	}
	if mutate != nil {
		mutate(&p)
	}
	if err := report(cmd.ErrOrStderr(), config.ValidatePipeline(p)); err != nil {
		return p, err
	}
	ro.setupMetrics(p.Job)
	return p, nil
}

// setupMetrics installs the selected metrics backend. Failures only disable
// metrics.
func (ro *rootOptions) setupMetrics(job string) {
	backend := pick(ro.metricsBackend, os.Getenv(envMetricsBackend), "none")
	switch backend {
	case "pushgateway", "prompush":
		url := pick(ro.pushgatewayURL, os.Getenv(envPushgatewayURL), "http://localhost:9091")
		b, err := prompush.NewBackend(job, url)
		if err != nil {
			ro.log.Warnf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		ro.log.Debugf("metrics: backend=pushgateway url=%s job=%s", url, job)
		metrics.SetBackend(b)

	case "datadog", "statsd":
		addr := pick(ro.statsdAddr, os.Getenv(envStatsdAddr), "127.0.0.1:8125")
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "gallerymig.",
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			ro.log.Warnf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		ro.log.Debugf("metrics: backend=datadog addr=%s job=%s", addr, job)
		metrics.SetBackend(b)

	case "none":
		ro.log.Debugf("metrics: disabled")

	default:
		ro.log.Warnf("metrics: unknown backend %q; metrics disabled", backend)
	}
}

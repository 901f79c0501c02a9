package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/lexandro/snapmatch/cli"
	"github.com/lexandro/snapmatch/config"
	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/report"
)

var version = "dev"

const (
	exitOK          = 0
	exitUnexpected  = 1
	exitConfigError = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	name := filepath.Base(os.Args[0])
	opt, err := cli.Parse(name, args)
	if err != nil {
		if cli.IsHelp(err) {
			return exitOK
		}
		if failure.IsConfigError(err) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		}
		// go-flags already printed its own parse errors
		return exitConfigError
	}
	if opt.Version {
		fmt.Fprintf(stdout, "%s %s\n", name, version)
		return exitOK
	}

	logger := setupLogger(opt.LevelName(), opt.LogFile)

	cfg, err := config.Load(opt.Config)
	if err != nil {
		return reportError(name, logger, err)
	}
	applyFlags(cfg, opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := runPipeline(ctx, runRequest{
		Inputs:      opt.Inputs(cfg.Paths),
		HTMLPages:   opt.HTML,
		DownloadDir: opt.DownloadDir,
		Config:      cfg,
	}, logger)
	if err != nil {
		return reportError(name, logger, err)
	}

	out := stdout
	if opt.Output != "" {
		f, err := os.Create(opt.Output)
		if err != nil {
			return reportError(name, logger, fmt.Errorf("creating report file: %w", err))
		}
		defer f.Close()
		out = f
	}

	if err := writeReport(out, rep, opt.Format, cfg.Threshold); err != nil {
		return reportError(name, logger, err)
	}
	return exitOK
}

// applyFlags overlays explicitly set command-line values on the loaded config.
func applyFlags(cfg *config.Config, opt *cli.Option) {
	if len(opt.Extensions) > 0 {
		cfg.Extensions = opt.Extensions
	}
	if opt.Convention != "" {
		cfg.Convention.Name = opt.Convention
	}
	if opt.Pattern != "" {
		cfg.Convention.Name = "regex"
		cfg.Convention.Pattern = opt.Pattern
	}
	if len(opt.Sides) > 0 {
		cfg.Convention.Sides = opt.Sides
	}
	cfg.Exclude = append(cfg.Exclude, opt.Excludes...)
	if opt.MaxFileSize > 0 {
		cfg.MaxFileSize = opt.MaxFileSize
	}
	if opt.Workers > 0 {
		cfg.Workers = opt.Workers
	}
	if opt.ThresholdSet() {
		cfg.Threshold = opt.Threshold
	}
}

func writeReport(w io.Writer, rep *report.Report, format string, threshold float64) error {
	if format == "json" {
		return report.WriteJSON(w, rep, threshold)
	}
	baseDir, _ := os.Getwd()
	_, err := io.WriteString(w, report.FormatText(rep, report.TextOptions{Threshold: threshold, BaseDir: baseDir}))
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// reportError prints caller misuse plainly and logs anything else with detail.
func reportError(name string, logger *slog.Logger, err error) int {
	if failure.IsConfigError(err) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return exitConfigError
	}
	logger.Error("run failed", "error", err)
	fmt.Fprintf(os.Stderr, "%s: unexpected failure: %v\n", name, err)
	return exitUnexpected
}

// setupLogger creates an slog.Logger writing to stderr or a file. A terminal
// gets the colored tint handler.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
		}
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			NoColor:    runtime.GOOS == "windows",
			TimeFormat: "15:04:05",
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

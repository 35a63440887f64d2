package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/dockergen/internal/config"
	"git.home.luguber.info/inful/dockergen/internal/generate"
	"git.home.luguber.info/inful/dockergen/internal/metrics"
	"git.home.luguber.info/inful/dockergen/internal/version"
	"git.home.luguber.info/inful/dockergen/internal/watch"
)

var CLI struct {
	Config  string `short:"c" env:"DOCKERGEN_CONFIG" default:"containers.yml" help:"YAML configuration file"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Generate struct {
		Output      string `short:"o" env:"DOCKERGEN_OUTPUT" default:"" help:"Directory the Dockerfiles are written to (default: next to the configuration)"`
		AddPath     string `short:"a" type:"path" help:"Extra directory to probe for files referenced by COPY"`
		DisableHelp bool   `help:"Do not print per-container usage help"`
	} `cmd:"" default:"withargs" help:"Generate Dockerfiles from the configuration"`

	Watch struct {
		Output        string `short:"o" env:"DOCKERGEN_OUTPUT" default:"" help:"Directory the Dockerfiles are written to"`
		AddPath       string `short:"a" type:"path" help:"Extra directory to probe for files referenced by COPY"`
		MetricsListen string `help:"Address to expose Prometheus metrics on (e.g. :9641)"`
	} `cmd:"" help:"Regenerate Dockerfiles whenever the configuration changes"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	// .env files feed the env-tagged flag defaults and the document's
	// environment expansion, so load them first. First readable file wins;
	// existing process variables are never overridden.
	for _, p := range []string{".env", ".env.local"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "generate":
		if err := runGenerate(metrics.NoopRecorder{}, CLI.Generate.Output, CLI.Generate.AddPath, CLI.Generate.DisableHelp); err != nil {
			slog.Error("Generation failed", "error", err)
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(); err != nil && err != context.Canceled {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("dockergen %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
	default:
		slog.Error("Unknown command", "command", ctx.Command())
		os.Exit(1)
	}
}

func runGenerate(rec metrics.Recorder, output, addPath string, disableHelp bool) error {
	doc, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	if !disableHelp {
		for _, line := range doc.Help {
			fmt.Println(line)
		}
	}

	gen := generate.New(doc, generate.Options{
		OutputDir: output,
		AddPath:   addPath,
		Recorder:  rec,
	})
	report := gen.Run()
	if report.NothingToGenerate {
		return nil
	}

	if !disableHelp {
		for _, res := range report.Results {
			if res.Err == nil {
				fmt.Println(res.Help)
			}
		}
	}

	slog.Info("run complete", "run_id", report.RunID,
		"generated", report.Generated(), "failed", report.Failed(),
		"duration", report.Duration.Round(time.Millisecond))
	return nil
}

func runWatch() error {
	rec := metrics.Recorder(metrics.NoopRecorder{})
	if CLI.Watch.MetricsListen != "" {
		registry := prometheus.NewRegistry()
		rec = metrics.NewPrometheusRecorder(registry)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			slog.Info("serving metrics", "addr", CLI.Watch.MetricsListen)
			if err := http.ListenAndServe(CLI.Watch.MetricsListen, mux); err != nil {
				slog.Error("metrics server failed", "error", err)
			}
		}()
	}

	regenerate := func() error {
		return runGenerate(rec, CLI.Watch.Output, CLI.Watch.AddPath, true)
	}
	// Initial pass before watching: a broken document is reported but keeps
	// the watch alive, same as a broken intermediate save later on.
	if err := regenerate(); err != nil {
		slog.Error("initial generation failed", "error", err)
	}

	w, err := watch.New(CLI.Config, regenerate)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

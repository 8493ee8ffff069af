package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"extension-icongen/internal/config"
	"extension-icongen/internal/icons"
	"extension-icongen/internal/platform"
	"extension-icongen/internal/ui"
	"extension-icongen/internal/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	opts, err := config.Parse(args)
	if err != nil {
		if config.IsHelp(err) {
			fmt.Fprintln(stdout, err)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	filter, err := icons.ParseFilter(opts.Filter)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	out, _ := stdout.(*os.File)
	console := ui.New(stdout, platform.ColorEnabled(out, opts.NoColor))
	console.SetDebug(opts.Debug)
	console.Debug("options",
		slog.String("source", opts.Source),
		slog.String("out_dir", opts.OutDir),
		slog.String("filter", string(filter)),
		slog.Bool("watch", opts.Watch))

	failed := 1
	if opts.AlwaysSucceed {
		failed = 0
	}

	lock, err := platform.LockOutputDir(opts.OutDir)
	if err != nil {
		console.Error(err.Error())
		return failed
	}
	defer lock.Release()

	generate := func() error {
		console.Header("Generating Icons")
		_, err := icons.Generate(icons.Options{
			Source:   opts.Source,
			OutDir:   opts.OutDir,
			Filter:   filter,
			Progress: consoleProgress{console: console},
		})
		return err
	}
	report := func(err error) {
		reportResult(console, opts.Source, err)
	}

	err = generate()
	report(err)
	if !opts.Watch {
		if err != nil {
			return failed
		}
		return 0
	}

	console.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)...", opts.Source))
	if err := watch.Run(ctx, opts.Source, generate, report); err != nil {
		console.Error(err.Error())
		return failed
	}
	console.Info("Stopped watching.")
	return 0
}

func reportResult(console *ui.Console, source string, err error) {
	switch {
	case err == nil:
		console.Success("All icons generated; reference them from manifest.json.")
	case errors.Is(err, watch.ErrWatcher):
		console.Warning(err.Error())
	case errors.Is(err, icons.ErrSourceNotFound):
		console.Error(fmt.Sprintf("Source image '%s' not found. Make sure it is in the working directory.", source))
	default:
		console.Error("Failed while processing icons: " + err.Error())
	}
}

type consoleProgress struct {
	console *ui.Console
}

func (p consoleProgress) Processing(res icons.Result) {
	p.console.Info(fmt.Sprintf("Processing source image: %s (%dx%d, %s)", res.Source, res.Width, res.Height, res.Format))
}

func (p consoleProgress) Generated(icon icons.Icon) {
	p.console.Success(fmt.Sprintf("Generated %s (%dx%d)", icon.Path, icon.Size, icon.Size))
}

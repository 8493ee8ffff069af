package config

import (
	"errors"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

const (
	DefaultSource = "finish-first.png"
	DefaultOutDir = "."
	DefaultFilter = "lanczos"
)

type Options struct {
	Source        string `short:"s" long:"source" env:"ICONGEN_SOURCE" default:"finish-first.png" description:"Source image to turn into icons"`
	OutDir        string `short:"o" long:"out-dir" env:"ICONGEN_OUT_DIR" default:"." description:"Directory the icon PNGs are written to"`
	Filter        string `long:"filter" env:"ICONGEN_FILTER" default:"lanczos" choice:"lanczos" choice:"catmullrom" choice:"bilinear" choice:"nearest" description:"Resampling filter"`
	Watch         bool   `short:"w" long:"watch" env:"ICONGEN_WATCH" description:"Regenerate the icons whenever the source changes"`
	AlwaysSucceed bool   `long:"always-succeed" env:"ICONGEN_ALWAYS_SUCCEED" description:"Exit 0 even when generation fails"`
	NoColor       bool   `long:"no-color" description:"Disable coloured output"`
	Debug         bool   `long:"debug" env:"ICONGEN_DEBUG" description:"Enable verbose debug output"`
}

// Parse loads .env from the working directory (if any) and parses args.
func Parse(args []string) (Options, error) {
	_ = godotenv.Load()
	return parseArgs(args)
}

func parseArgs(args []string) (Options, error) {
	opts := Options{}
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "icongen"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return Options{}, err
	}
	if len(rest) > 0 {
		return Options{}, errors.New("unexpected argument: " + rest[0])
	}
	opts.Source = strings.TrimSpace(opts.Source)
	opts.OutDir = strings.TrimSpace(opts.OutDir)
	return opts, Validate(opts)
}

func Validate(opts Options) error {
	if opts.Source == "" {
		return errors.New("source image path is required")
	}
	if opts.OutDir == "" {
		return errors.New("output directory is required")
	}
	return nil
}

// IsHelp reports whether err is the go-flags help request.
func IsHelp(err error) bool {
	var flagErr *flags.Error
	return errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp
}

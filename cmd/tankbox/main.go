package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Asteroidea-tn/tankbox/pkg/astrolog"
	"github.com/Asteroidea-tn/tankbox/pkg/astroreport"
	"github.com/Asteroidea-tn/tankbox/pkg/astrotank"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	configPath string
	envFile    string

	x, y, rot, front, side float64
	validate               bool

	logLevel string
	mailTo   string
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	def := astrotank.DefaultTank()

	fs := flag.NewFlagSet("tankbox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (overrides TANK_CONFIG_FILE)")
	fs.StringVar(&opts.envFile, "env", ".env", "dotenv file, ignored when missing")
	fs.Float64Var(&opts.x, "x", def.X, "tank center x")
	fs.Float64Var(&opts.y, "y", def.Y, "tank center y")
	fs.Float64Var(&opts.rot, "rot", def.Rotation, "orientation in degrees, counter-clockwise from north")
	fs.Float64Var(&opts.front, "front", def.Front, "front (rear) edge length")
	fs.Float64Var(&opts.side, "side", def.Side, "side edge length")
	fs.BoolVar(&opts.validate, "validate", def.Validate, "reject non-positive dimensions")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&opts.mailTo, "mail-to", "", "comma separated report recipients, needs MAIL_HOST")
	return fs
}

// applyFlags copies only the flags given on the command line over cfg.
func applyFlags(fs *flag.FlagSet, opts *options, cfg *astrotank.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "x":
			cfg.Tank.X = opts.x
		case "y":
			cfg.Tank.Y = opts.y
		case "rot":
			cfg.Tank.Rotation = opts.rot
		case "front":
			cfg.Tank.Front = opts.front
		case "side":
			cfg.Tank.Side = opts.side
		case "validate":
			cfg.Tank.Validate = opts.validate
		case "log-level":
			cfg.Log.LogLevel = opts.logLevel
		case "mail-to":
			cfg.Mail.To = opts.mailTo
		}
	})
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := astrotank.LoadConfig(opts.configPath, opts.envFile)
	if err != nil {
		fmt.Fprintln(stderr, "tankbox: loading config:", err)
		return exitFailed
	}
	applyFlags(fs, &opts, &cfg)

	cfg.Log.Console = stderr
	closer := astrolog.InitLogger(cfg.Log)
	defer closer.Close()

	res, err := astrotank.Run(cfg.Tank, stdout)
	if err != nil {
		log.Error().Err(err).Msg("Computing tank bounding rectangle failed")
		return exitFailed
	}

	if cfg.Mail.To != "" && !cfg.Mail.Enabled() {
		log.Warn().Str("to", cfg.Mail.To).Msg("Mail recipients set but MAIL_HOST is empty, report not mailed")
	}
	if cfg.Mail.Enabled() {
		if err := astroreport.NewMailer(cfg.Mail).Send(ctx, res.Report); err != nil {
			log.Error().Err(err).Str("run_id", res.RunID).Msg("Mailing report failed")
		}
	}

	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

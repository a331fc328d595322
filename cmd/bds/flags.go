package main

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/nilx/io-bds/internal/logger"
	"github.com/nilx/io-bds/pkg/bds"
)

// options holds global flag values and the streams commands talk to.
type options struct {
	logLevel    string
	logFormat   string
	debug       bool
	quiet       bool
	maxElements uint64
	configPath  string
	cfg         Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func globalFlags(o *options) []cli.Flag {
	return append(loggingFlags(o),
		&cli.Uint64Flag{
			Name:        "max-elements",
			Usage:       "refuse streams declaring more samples than this (0 = no cap)",
			Destination: &o.maxElements,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default $BDS_CONFIG or the user config dir)",
			Destination: &o.configPath,
		},
	)
}

func loggingFlags(o *options) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &o.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &o.logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &o.debug,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "silence all logging, including the file storage warning",
			Destination: &o.quiet,
		},
	}
}

// logger builds the stderr logger the flags describe.
func (o *options) logger() (logger.Logger, error) {
	if o.quiet {
		return logger.Discard(), nil
	}
	level := logger.ParseLevel(o.logLevel)
	if o.debug {
		level = logger.ParseLevel("debug")
	}
	return logger.ForFormat(o.logFormat, o.stderr, level)
}

func (o *options) limits() bds.Limits {
	return bds.Limits{MaxElements: o.maxElements}
}

// transport binds "-" to the command's streams and routes storage
// warnings to the context logger.
func (o *options) transport(ctx context.Context) *bds.Transport {
	return bds.NewTransport(
		bds.WithLogger(logger.FromContext(ctx)),
		bds.WithStdio(o.stdin, o.stdout),
		bds.WithLimits(o.limits()),
	)
}

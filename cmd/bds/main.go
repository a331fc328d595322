package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nilx/io-bds/internal/logger"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the command tree around the given standard streams.
func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	o := &options{stdin: stdin, stdout: stdout, stderr: stderr}
	return &cli.Command{
		Name:      "bds",
		Usage:     "Read, write and serve binary data streams of float arrays",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(o),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			path := o.configPath
			if path == "" {
				path = configPath()
			}
			o.cfg = LoadConfig(path)
			applyConfig(cmd, o.cfg, o)
			log, err := o.logger()
			if err != nil {
				return ctx, err
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			makeCmd(o),
			showCmd(o),
			inspectCmd(o),
			convertCmd(o),
			serveCmd(o),
			versionCmd(o),
		},
	}
}

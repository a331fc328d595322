package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nilx/io-bds/internal/version"
	"github.com/nilx/io-bds/pkg/bds"
)

func versionCmd(o *options) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			w := o.stdout
			_, _ = fmt.Fprintf(w, "version:    %s\n", info.Version)
			if info.Commit != "" {
				_, _ = fmt.Fprintf(w, "commit:     %s\n", info.Commit)
			}
			if info.BuildTime != "" {
				_, _ = fmt.Fprintf(w, "build time: %s\n", info.BuildTime)
			}
			_, _ = fmt.Fprintln(w, bds.Info())
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nilx/io-bds/internal/logger"
)

func convertCmd(o *options) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Copy a stream, validating it on the way (use - for stdin or stdout)",
		ArgsUsage: "IN OUT",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 2 {
				return fmt.Errorf("syntax: bds convert in.bds out.bds")
			}
			in, out := cmd.Args().Get(0), cmd.Args().Get(1)

			t := o.transport(ctx)
			a, err := t.ReadFile(in)
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Debug("copying array", "dims", a.Dims.String(), "in", in, "out", out)
			return t.WriteFile(out, a)
		},
	}
}

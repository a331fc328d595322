package main

import (
	"bufio"
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nilx/io-bds/pkg/bds"
)

func showCmd(o *options) *cli.Command {
	var useMmap bool

	return &cli.Command{
		Name:      "show",
		Usage:     "Print the size and every sample of a stream",
		ArgsUsage: "IN",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "mmap",
				Usage:       "map the file instead of reading it (files only)",
				Destination: &useMmap,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return fmt.Errorf("syntax: bds show in.bds")
			}
			in := cmd.Args().First()

			t := o.transport(ctx)
			if useMmap && in != bds.Stdio {
				mf, err := t.OpenMapped(in)
				if err != nil {
					return err
				}
				defer func() { _ = mf.Close() }()
				return printArray(o, in, &bds.Array{Dims: mf.Dims, Data: mf.Data})
			}

			a, err := t.ReadFile(in)
			if err != nil {
				return err
			}
			return printArray(o, in, a)
		},
	}
}

func printArray(o *options, name string, a *bds.Array) error {
	w := bufio.NewWriter(o.stdout)
	_, _ = fmt.Fprintf(w, "image file: %s\n", name)
	_, _ = fmt.Fprintf(w, "image size: %d x %d, %d channels\n", a.Dims.NX, a.Dims.NY, a.Dims.NC)
	_, _ = fmt.Fprintln(w, "   x    y    c : value")
	for i, v := range a.Data {
		x, y, c := a.Coords(i)
		_, _ = fmt.Fprintf(w, "%04d %04d %04d : %f\n", x, y, c, v)
	}
	return w.Flush()
}

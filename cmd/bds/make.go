package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/nilx/io-bds/internal/logger"
	"github.com/nilx/io-bds/pkg/bds"
)

func makeCmd(o *options) *cli.Command {
	return &cli.Command{
		Name:      "make",
		Usage:     "Write a test array whose sample i is i*i",
		ArgsUsage: "NX NY NC OUT",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 4 {
				return fmt.Errorf("syntax: bds make nx ny nc out.bds")
			}
			var dims [3]uint
			for i, name := range []string{"nx", "ny", "nc"} {
				v, err := strconv.ParseUint(cmd.Args().Get(i), 10, 0)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				dims[i] = uint(v)
			}
			out := cmd.Args().Get(3)

			a, err := squares(bds.Dims{NX: dims[0], NY: dims[1], NC: dims[2]}, o.limits())
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Debug("writing array", "dims", a.Dims.String(), "out", out)
			return o.transport(ctx).WriteFile(out, a)
		},
	}
}

// squares allocates an array and fills sample i with i*i.
func squares(d bds.Dims, limits bds.Limits) (*bds.Array, error) {
	n, err := d.Len()
	if err != nil {
		return nil, err
	}
	if err := limits.Check(n); err != nil {
		return nil, err
	}
	a, err := bds.NewArray(d)
	if err != nil {
		return nil, err
	}
	for i := range a.Data {
		a.Data[i] = float32(i) * float32(i)
	}
	return a, nil
}

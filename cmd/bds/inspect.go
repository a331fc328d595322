package main

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/nilx/io-bds/pkg/bds"
)

type frameReport struct {
	File         string `json:"file"`
	Version      string `json:"version"`
	Type         string `json:"type"`
	NX           uint   `json:"nx"`
	NY           uint   `json:"ny"`
	NC           uint   `json:"nc"`
	Elements     int    `json:"elements"`
	PayloadBytes int    `json:"payload_bytes"`
	StreamBytes  int    `json:"stream_bytes"`
}

func inspectCmd(o *options) *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Validate a stream's frame and print its dimensions",
		ArgsUsage: "IN",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the report as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return fmt.Errorf("syntax: bds inspect in.bds")
			}
			in := cmd.Args().First()

			d, err := o.transport(ctx).ReadFrame(in)
			if err != nil {
				return err
			}
			n, err := d.Len()
			if err != nil {
				return err
			}
			rep := frameReport{
				File:         in,
				Version:      bds.Version,
				Type:         bds.TypeFloat32,
				NX:           d.NX,
				NY:           d.NY,
				NC:           d.NC,
				Elements:     n,
				PayloadBytes: n * bds.SampleSize,
				StreamBytes:  bds.FrameLen + n*bds.SampleSize,
			}

			if asJSON {
				enc := json.NewEncoder(o.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			w := o.stdout
			_, _ = fmt.Fprintf(w, "file:     %s\n", rep.File)
			_, _ = fmt.Fprintf(w, "version:  %s\n", rep.Version)
			_, _ = fmt.Fprintf(w, "type:     %s\n", rep.Type)
			_, _ = fmt.Fprintf(w, "dims:     %s\n", d)
			_, _ = fmt.Fprintf(w, "elements: %d\n", rep.Elements)
			_, _ = fmt.Fprintf(w, "payload:  %d bytes\n", rep.PayloadBytes)
			_, _ = fmt.Fprintf(w, "stream:   %d bytes\n", rep.StreamBytes)
			return nil
		},
	}
}

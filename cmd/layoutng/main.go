// Command layoutng builds the box tree of an HTML file, prints it, and
// optionally lays it out and prints the fragment tree.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/emilio/nglayoutng/geometry"
	"github.com/emilio/nglayoutng/htmlbox"
	"github.com/emilio/nglayoutng/layout"
	"github.com/emilio/nglayoutng/logger"
	"github.com/emilio/nglayoutng/text"
	"github.com/emilio/nglayoutng/utils"
)

func parseViewport(s string) (geometry.PhysicalSize, error) {
	w, h, ok := strings.Cut(s, "x")
	if ok {
		width, errW := strconv.ParseFloat(w, 32)
		height, errH := strconv.ParseFloat(h, 32)
		if errW == nil && errH == nil && width >= 0 && height >= 0 {
			return geometry.PhysicalSize{
				Width:  geometry.AuFromPx(utils.Fl(width)),
				Height: geometry.AuFromPx(utils.Fl(height)),
			}, nil
		}
	}
	return geometry.PhysicalSize{}, fmt.Errorf("malformed viewport %q, want WIDTHxHEIGHT", s)
}

func loadShaper(entries []string) (text.Shaper, error) {
	if len(entries) == 0 {
		// Deterministic output with no font files around.
		return text.FixedShaper{}, nil
	}
	fc := text.NewFontConfigurationHarfbuzz()
	for _, entry := range entries {
		family, path, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("malformed font %q, want FAMILY=PATH", entry)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := fc.AddFontFace(family, content); err != nil {
			return nil, err
		}
	}
	return fc, nil
}

func run(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("expected exactly one input file")
	}
	if cmd.Bool("quiet") {
		logger.Silence(logger.ProgressLogger, logger.WarningLogger)
	}
	viewport, err := parseViewport(cmd.String("viewport"))
	if err != nil {
		return err
	}

	f, err := os.Open(cmd.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	boxTree, err := htmlbox.Build(f, viewport)
	if err != nil {
		return err
	}
	boxTree.PrintTo(os.Stdout)

	if !cmd.Bool("fragments") {
		return nil
	}
	shaper, err := loadShaper(cmd.StringSlice("font"))
	if err != nil {
		return err
	}
	frag, err := layout.NewLayoutContext(boxTree, shaper).Layout()
	if err != nil {
		return err
	}
	frag.PrintTo(os.Stdout)
	return nil
}

func main() {
	app := &cli.Command{
		Name:            "layoutng",
		Usage:           "dump the box tree of an HTML file, and optionally its layout",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "viewport", Value: "800x600", Usage: "viewport `SIZE` in CSS pixels, as WIDTHxHEIGHT"},
			&cli.BoolFlag{Name: "fragments", Aliases: []string{"f"}, Usage: "run layout and dump the fragment tree"},
			&cli.StringSliceFlag{Name: "font", Usage: "register a font face, as `FAMILY=PATH`; without fonts a fixed-advance shaper is used"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "silence progress and warning logs"},
		},
		Action:    run,
		ArgsUsage: "FILE",
	}
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "layoutng:", err)
		os.Exit(1)
	}
}

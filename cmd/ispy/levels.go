package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bee-mcc/ispy/pkg/assets"
	"github.com/bee-mcc/ispy/pkg/level"
	"github.com/bee-mcc/ispy/pkg/levelpack"
)

var levelsCheck bool

func newLevelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List the level pack",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
	cmd.Flags().BoolVar(&levelsCheck, "check", false, "decode every image and check the click region fits")
	return cmd
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	pack, src, where, err := openLevels(ctx, settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s: %d levels\n", where, len(pack.Levels)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	problems := 0
	for i, d := range pack.Resolved() {
		if err := printLevel(out, i, d); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if !levelsCheck {
			continue
		}
		if err := checkLevel(ctx, src, d); err != nil {
			problems++
			logErrf("  level %d: %v\n", i+1, err)
		}
	}
	if problems > 0 {
		return fmt.Errorf("%d of %d levels have problems", problems, len(pack.Levels))
	}
	return nil
}

func printLevel(w io.Writer, i int, d level.Definition) error {
	r := d.ClickRegion
	zoom := "default"
	if d.DesktopZoomFactor > 0 {
		zoom = fmt.Sprintf("%gx", d.DesktopZoomFactor)
	}
	_, err := fmt.Fprintf(w, "%3d  %-24s  %-32s  region %g,%g %gx%g  zoom %s\n",
		i+1, d.Name, d.Image, r.X, r.Y, r.Width, r.Height, zoom)
	return err
}

// checkLevel loads the picture and makes sure the click region lies inside it.
func checkLevel(ctx context.Context, src assets.Source, d level.Definition) error {
	img, err := assets.LoadImage(ctx, src, d.Image)
	if err != nil {
		return err
	}
	b := img.Bounds()
	r := d.ClickRegion
	if r.X+r.Width > float64(b.Dx()) || r.Y+r.Height > float64(b.Dy()) {
		return &levelpack.ConfigError{Reason: fmt.Sprintf(
			"%s: click region %g,%g %gx%g extends past the %dx%d image",
			d.Name, r.X, r.Y, r.Width, r.Height, b.Dx(), b.Dy())}
	}
	return nil
}

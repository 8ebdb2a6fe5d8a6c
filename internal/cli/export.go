package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cvBuilder/internal/export"
)

func (c *CLI) exportCommand() *cobra.Command {
	var (
		format  string
		mode    string
		overlay string
		quality int
		delay   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved CV as PDF or a JPEG sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := export.Options{
				Format:    f,
				Mode:      export.Mode(c.cfg.Export.Mode),
				Quality:   c.cfg.Export.Quality,
				PageDelay: c.cfg.Export.PageDelay,
				Verify:    c.cfg.Export.Verify,
			}
			flags := cmd.Flags()
			if flags.Changed("mode") {
				opts.Mode = export.Mode(mode)
			}
			if opts.Mode != export.ModeRaster && opts.Mode != export.ModePrint {
				return fmt.Errorf("unknown pdf mode %q", opts.Mode)
			}
			if flags.Changed("quality") {
				opts.Quality = quality
			}
			if flags.Changed("delay") {
				opts.PageDelay = delay
			}
			if overlay != "" {
				data, err := os.ReadFile(overlay)
				if err != nil {
					return fmt.Errorf("read overlay: %w", err)
				}
				opts.Overlay = data
			}

			snap, err := c.rt.App.Load(ctx)
			if err != nil {
				return err
			}
			arts, err := c.rt.App.Export(ctx, snap, opts)
			if err != nil {
				return err
			}
			for _, a := range arts {
				fmt.Fprintf(c.out, "%s\t%d page(s)\t%d bytes\t%s\n", a.Name, a.Pages, a.Bytes, a.Location)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "pdf or jpg")
	cmd.Flags().StringVar(&mode, "mode", "raster", "pdf mode: raster or print")
	cmd.Flags().StringVar(&overlay, "overlay", "", "PNG drawn over the first page")
	cmd.Flags().IntVar(&quality, "quality", export.DefaultQuality, "JPEG quality")
	cmd.Flags().DurationVar(&delay, "delay", export.DefaultDelay, "pause between JPEG pages")
	return cmd
}

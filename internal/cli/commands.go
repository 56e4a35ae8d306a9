package cli

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ironsheep/shapescan/internal/detection"
	"github.com/ironsheep/shapescan/internal/imaging"
	"github.com/ironsheep/shapescan/internal/segment"
	"github.com/ironsheep/shapescan/internal/server"
)

func (a *app) newSegmentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "segment <image>",
		Short: "Recolor water and land regions of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sink, err := a.sink()
			if err != nil {
				return err
			}
			img, err := a.loadImage(args[0])
			if err != nil {
				return err
			}

			res, err := segment.Segment(img, a.cfg.Segment)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Water: %.2f%% (%s px)  Land: %.2f%% (%s px)  Total: %s px\n",
				res.WaterPercent(), humanize.Comma(int64(res.WaterPixels)),
				res.LandPercent(), humanize.Comma(int64(res.LandPixels)),
				humanize.Comma(int64(res.TotalPixels)))

			return sink.Show("Output", res.Image)
		},
	}
}

func (a *app) newShapesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "shapes <image>",
		Short: "Detect and label shapes with their centroids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sink, err := a.sink()
			if err != nil {
				return err
			}
			img, err := a.loadImage(args[0])
			if err != nil {
				return err
			}

			res, err := detection.DetectShapes(img, a.cfg.Shapes)
			if err != nil {
				return err
			}
			if a.debug() {
				log.Printf("Detected %d shapes in %s", res.Count, args[0])
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, "Detected List [Shape, (Centroid X, Centroid Y)]:")
				for _, s := range res.Shapes {
					fmt.Fprintln(out, s.String())
				}
			}

			return sink.Show("Identified Shapes", detection.Annotate(img, res.Shapes))
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print detections as JSON")
	return cmd
}

func (a *app) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(a.cfg, a.build.Version)
			if err := srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version must work even with a broken config file.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "shapescan %s\n", a.build.Version)
			fmt.Fprintf(out, "  Build time: %s\n", a.build.BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", a.build.GitCommit)
		},
	}
}

func (a *app) loadImage(path string) (image.Image, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	if a.debug() {
		size := "unknown size"
		if st, err := os.Stat(path); err == nil {
			size = humanize.Bytes(uint64(st.Size()))
		}
		b := img.Bounds()
		log.Printf("Loaded %s: %dx%d, %s", path, b.Dx(), b.Dy(), size)
	}
	return img, nil
}

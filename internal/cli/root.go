// Package cli wires the pipelines, configuration and render sinks into the
// shapescan command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/shapescan/internal/config"
	"github.com/ironsheep/shapescan/internal/render"
)

// BuildInfo carries the ldflags version variables from main.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

type app struct {
	v       *viper.Viper
	build   BuildInfo
	cfgFile string
	display bool
	saveDir string
	cfg     *config.Config
}

// Execute runs the root command and exits non-zero on failure.
func Execute(build BuildInfo) {
	if err := NewRootCommand(build).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand(build BuildInfo) *cobra.Command {
	a := &app{v: viper.New(), build: build}

	root := &cobra.Command{
		Use:   "shapescan",
		Short: "Water/land segmentation and shape detection for still images",
		Long: `shapescan classifies pixels of an image as water or land by HSV range,
and finds simple shapes (triangles, squares, rectangles, stars, circles)
with their centroids.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.shapescan.yaml)")
	flags.String("log-level", "info", "log level (info or debug)")
	flags.BoolVar(&a.display, "display", false, "show output images in a window (requires a gocv build)")
	flags.StringVar(&a.saveDir, "save-dir", "", "write output images as PNG into this directory")
	a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		a.newSegmentCommand(),
		a.newShapesCommand(),
		a.newServeCommand(),
		a.newVersionCommand(),
	)
	return root
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd.ErrOrStderr())

	used, err := config.InitViper(a.v, a.cfgFile)
	var fileErr *config.FileError
	switch {
	case errors.As(err, &fileErr) && fileErr.Optional:
		log.Printf("Ignoring config file: %v", err)
	case err != nil:
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.debug() {
		log.Printf("shapescan %s (built %s, commit %s)", a.build.Version, a.build.BuildTime, a.build.GitCommit)
		if used != "" {
			log.Printf("Using config file: %s", used)
		}
	}
	return nil
}

// setupLogging sends the std logger to w; stdout is reserved for results
// and the tool server protocol.
func setupLogging(w io.Writer) {
	log.SetOutput(w)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

func (a *app) debug() bool {
	return a.cfg != nil && a.cfg.LogLevel == "debug"
}

// sink builds the render target from --save-dir and --display.
func (a *app) sink() (render.Sink, error) {
	var sinks render.Multi

	if a.saveDir != "" {
		dir, err := homedir.Expand(a.saveDir)
		if err != nil {
			return nil, fmt.Errorf("failed to expand save dir: %w", err)
		}
		sinks = append(sinks, render.NewDir(dir))
	}
	if a.display {
		w, err := render.NewWindow()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, w)
	}

	switch len(sinks) {
	case 0:
		return render.Nop{}, nil
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}

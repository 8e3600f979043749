// Command shapetools generates geodesic shapes and repairs lines that cross
// the antimeridian.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpup/shapetools/internal/config"
	"github.com/dpup/shapetools/internal/export"
	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/units"
	"github.com/dpup/shapetools/internal/logging"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg    *config.Config
	g      *geo.Geodesic
	log    *zap.SugaredLogger
	format export.Format
	unit   units.Distance
}

var (
	configPath string
	formatFlag string
	unitFlag   string
	logLevel   string
	latFlag    float64
	lonFlag    float64

	a = &app{}
)

var rootCmd = &cobra.Command{
	Use:           "shapetools",
	Short:         "Geodesic shape generation and antimeridian tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a.log != nil {
			_ = a.log.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a YAML config file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&formatFlag, "format", "", "output format: geojson, kml or polyline")
	pf.StringVar(&unitFlag, "unit", "", "distance unit for lengths and radii")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.Float64Var(&latFlag, "lat", 0, "origin latitude in degrees")
	pf.Float64Var(&lonFlag, "lon", 0, "origin longitude in degrees")

	addShapeCommands(rootCmd)
	rootCmd.AddCommand(lineCmd, densifyCmd, idlCmd, decimateCmd, measureCmd, transformCmd, flipCmd, batchCmd)
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if flags.Changed("unit") {
		cfg.Output.Unit = unitFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	if a.log, err = logging.New(cfg.Logging); err != nil {
		return err
	}
	if a.g, err = geo.New(cfg.Engine); err != nil {
		return err
	}
	if a.format, err = export.ParseFormat(cfg.Output.Format); err != nil {
		return err
	}
	if a.unit, err = units.ParseDistance(cfg.Output.Unit); err != nil {
		return err
	}
	a.log.Debugw("Configuration loaded", "config", configPath, "unit", a.unit, "format", a.format)
	return nil
}

// ctx carries the logger on top of the command's signal-aware context.
func (a *app) ctx(cmd *cobra.Command) context.Context {
	return logging.WithLogger(cmd.Context(), a.log)
}

// meters converts a flag value in the configured unit.
func (a *app) meters(v float64) float64 {
	m, _ := units.ToMeters(v, a.unit)
	return m
}

func (a *app) origin() (geo.Point, error) {
	return geo.NewPoint(latFlag, lonFlag)
}

func (a *app) write(cmd *cobra.Command, name string, items []export.Item) error {
	return export.Write(cmd.OutOrStdout(), a.format, name, items)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

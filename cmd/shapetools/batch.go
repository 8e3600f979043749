package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpup/shapetools/internal/batch"
	"github.com/dpup/shapetools/internal/cache"
	"github.com/dpup/shapetools/internal/export"
	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/logging"
	"github.com/dpup/shapetools/internal/metrics"
)

var (
	batchShape   string
	batchFields  []string
	batchParams  []string
	batchSplit   bool
	batchWorkers int
	metricsFile  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Build a shape around every point of a GeoJSON collection",
	Long: `Reads point features and builds one shape per point. Parameters come from
feature properties named with --field, falling back to --param values and then
to the shape defaults. Features with bad geometry or unreadable properties are
skipped and reported; the rest are written in input order.`,
	Example: `  shapetools batch --in towers.geojson --shape circle --field radius=range_km --unit km
  shapetools batch --in ships.geojson --shape lob --field azimuth=heading --param distance=500 --split-idl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := a.ctx(cmd)
		columns, err := batch.ParseColumns(batchFields)
		if err != nil {
			return err
		}
		defaults, err := parseParams(batchParams)
		if err != nil {
			return err
		}
		job := batch.Job{
			Shape:             batchShape,
			Unit:              a.unit,
			Source:            batch.Fields{Columns: columns, Defaults: defaults},
			SplitAntimeridian: batchSplit,
		}

		data, err := readInput(cmd, inputPath)
		if err != nil {
			return err
		}
		features, err := batch.ReadGeoJSON(data)
		if err != nil {
			return err
		}

		workers := a.cfg.Batch.Workers
		if cmd.Flags().Changed("workers") {
			workers = batchWorkers
		}
		m := metrics.New()
		r := &batch.Runner{
			Geodesic: a.g,
			Workers:  workers,
			Cache:    cache.NewCache(a.cfg.Batch.CacheSize, m),
			Metrics:  m,
		}
		res, runErr := r.Run(ctx, job, features)
		if res.Processed+res.Skipped == 0 && runErr != nil {
			return runErr
		}

		items := make([]export.Item, 0, len(res.Outcomes))
		for _, o := range res.Outcomes {
			props := map[string]interface{}{}
			for k, v := range features[o.Index].Properties {
				props[k] = v
			}
			props["shape"] = job.Shape
			items = append(items, export.Item{Name: featureName(features[o.Index], o.Index), Shape: o.Shape, Properties: props})
		}
		if err := a.write(cmd, job.Shape, items); err != nil {
			return err
		}

		path := a.cfg.Batch.MetricsFile
		if cmd.Flags().Changed("metrics-file") {
			path = metricsFile
		}
		if path != "" {
			if err := m.WriteTextfile(path); err != nil {
				logging.Errorw(ctx, "Failed to write metrics", "path", path, "error", err)
			}
		}
		if res.Err != nil {
			logging.Debugw(ctx, "Skipped features", "errors", res.Err)
		}
		return runErr
	},
}

func featureName(f batch.Feature, i int) string {
	if f.ID != nil {
		return toString(f.ID)
	}
	if name, ok := f.Properties["name"].(string); ok {
		return name
	}
	return "feature " + strconv.Itoa(i)
}

// parseParams reads name=value pairs given with --param.
func parseParams(pairs []string) (batch.Constant, error) {
	c := batch.Constant{}
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, geo.Invalidf("param %q is not name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, geo.Invalidf("param %s: %q is not a number", name, raw)
		}
		c[strings.ReplaceAll(name, "-", "_")] = v
	}
	return c, nil
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&inputPath, "in", "", "GeoJSON point features to read, stdin when empty")
	f.StringVar(&batchShape, "shape", "circle", "shape to build: "+strings.Join(batch.Names(), ", "))
	f.StringArrayVar(&batchFields, "field", nil, "param=property, read a parameter from each feature")
	f.StringArrayVar(&batchParams, "param", nil, "param=value, a constant used when a feature has no value")
	f.BoolVar(&batchSplit, "split-idl", false, "split line output at the antimeridian")
	f.IntVar(&batchWorkers, "workers", 4, "features built concurrently (default from config)")
	f.StringVar(&metricsFile, "metrics-file", "", "write Prometheus text metrics here after the run")
}

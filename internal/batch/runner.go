// Package batch generates one shape per input feature. Each feature is
// independent: a feature whose parameters do not evaluate, or whose solve
// fails, is skipped and counted while the rest of the run continues.
package batch

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dpup/shapetools/internal/cache"
	"github.com/dpup/shapetools/internal/lib/antimeridian"
	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
	"github.com/dpup/shapetools/internal/lib/units"
	"github.com/dpup/shapetools/internal/logging"
	"github.com/dpup/shapetools/internal/metrics"
)

// Job names the shape to build and where its parameters come from.
type Job struct {
	Shape  string
	Unit   units.Distance
	Source ParameterSource
	// SplitAntimeridian breaks line output at ±180 into separate parts.
	SplitAntimeridian bool
}

// Validate reports configuration errors that would affect every feature.
// A job that fails validation must not be run.
func (j Job) Validate() error {
	b, ok := Lookup(j.Shape)
	if !ok {
		return geo.Invalidf("unknown shape %q", j.Shape)
	}
	var err error
	if _, uerr := j.Unit.Meters(); uerr != nil {
		err = multierr.Append(err, uerr)
	}
	if j.Source == nil {
		return multierr.Append(err, geo.Invalidf("no parameter source"))
	}
	if d, ok := j.Source.(Declarer); ok {
		for _, name := range d.Declared() {
			if _, known := b.Param(name); !known {
				err = multierr.Append(err, geo.Invalidf("%s has no parameter %q", j.Shape, name))
			}
		}
	}
	return err
}

// Evaluate resolves every parameter of the job's shape for f. Counts are
// capped at the MaxSegments of g.
func (j Job) Evaluate(g *geo.Geodesic, f Feature) (Values, error) {
	b, ok := Lookup(j.Shape)
	if !ok {
		return nil, geo.Invalidf("unknown shape %q", j.Shape)
	}
	perUnit, err := j.Unit.Meters()
	if err != nil {
		return nil, err
	}
	v := make(Values, len(b.Params))
	for _, p := range b.Params {
		raw, err := j.Source.Evaluate(p.Name, f)
		if errors.Is(err, ErrUndefined) {
			raw, err = p.Default, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s", p.Name)
		}
		if v[p.Name], err = p.convert(raw, perUnit, g.Settings().MaxSegments); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Build generates the shape for a single feature without caching.
func (j Job) Build(g *geo.Geodesic, f Feature) (shapes.Shape, error) {
	if f.err != nil {
		return shapes.Shape{}, f.err
	}
	v, err := j.Evaluate(g, f)
	if err != nil {
		return shapes.Shape{}, err
	}
	return j.buildWith(g, f.Origin, v)
}

func (j Job) buildWith(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
	b, ok := Lookup(j.Shape)
	if !ok {
		return shapes.Shape{}, geo.Invalidf("unknown shape %q", j.Shape)
	}
	s, err := b.Build(g, origin, v)
	if err != nil {
		return shapes.Shape{}, err
	}
	return j.finish(g, s), nil
}

func (j Job) finish(g *geo.Geodesic, s shapes.Shape) shapes.Shape {
	if !j.SplitAntimeridian || (s.Kind != shapes.Line && s.Kind != shapes.MultiLine) {
		return s
	}
	parts := antimeridian.BreakRings(g, s.Rings)
	kind := s.Kind
	if len(parts) > 1 {
		kind = shapes.MultiLine
	}
	return shapes.Shape{Kind: kind, Rings: parts}
}

// Outcome is the result for one input feature.
type Outcome struct {
	Index int
	Shape shapes.Shape
	Err   error
}

// Result folds the outcomes of a run.
type Result struct {
	// Outcomes holds the successful features in input order.
	Outcomes  []Outcome
	Processed int
	Skipped   int
	// Err combines every per-feature error, nil when nothing was skipped.
	Err error
}

// Runner processes features concurrently. Cache and Metrics are optional.
type Runner struct {
	Geodesic *geo.Geodesic
	Workers  int
	Cache    *cache.Cache
	Metrics  *metrics.Metrics
}

// Run builds a shape for every feature. Configuration errors are returned
// before any feature is touched. Cancellation is checked between features;
// a canceled run returns the outcomes finished so far with ErrCanceled.
func (r *Runner) Run(ctx context.Context, job Job, features []Feature) (Result, error) {
	if err := job.Validate(); err != nil {
		return Result{}, errors.Wrap(err, "batch configuration")
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]*Outcome, len(features))

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := range features {
		if ctx.Err() != nil {
			break
		}
		i := i
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcomes[i] = r.process(ctx, job, i, features[i])
			return nil
		})
	}
	_ = eg.Wait()

	res := fold(outcomes)
	logging.Infow(ctx, "Batch finished",
		"shape", job.Shape, "features", len(features),
		"processed", res.Processed, "skipped", res.Skipped)
	if done := res.Processed + res.Skipped; done < len(features) && ctx.Err() != nil {
		return res, errors.Wrapf(geo.ErrCanceled, "after %d of %d features", done, len(features))
	}
	return res, nil
}

func (r *Runner) process(ctx context.Context, job Job, i int, f Feature) *Outcome {
	start := time.Now()
	s, err := r.build(job, f)
	if err != nil {
		logging.Warnw(ctx, "Skipping feature", "index", i, "id", f.ID, "error", err)
		r.Metrics.Skipped(job.Shape)
		return &Outcome{Index: i, Err: errors.Wrapf(err, "feature %d", i)}
	}
	r.Metrics.Processed(job.Shape, time.Since(start))
	return &Outcome{Index: i, Shape: s}
}

func (r *Runner) build(job Job, f Feature) (shapes.Shape, error) {
	if r.Cache == nil || f.err != nil {
		return job.Build(r.Geodesic, f)
	}
	v, err := job.Evaluate(r.Geodesic, f)
	if err != nil {
		return shapes.Shape{}, err
	}
	name := job.Shape
	if job.SplitAntimeridian {
		name += "+split"
	}
	s, _, err := r.Cache.GetOrBuild(cache.Key(name, f.Origin, v), job.Shape, func() (shapes.Shape, error) {
		return job.buildWith(r.Geodesic, f.Origin, v)
	})
	return s, err
}

// fold counts outcomes in input order. Features that never ran are left out
// of both counts.
func fold(outcomes []*Outcome) Result {
	var res Result
	for _, o := range outcomes {
		switch {
		case o == nil:
			continue
		case o.Err != nil:
			res.Skipped++
			res.Err = multierr.Append(res.Err, o.Err)
		default:
			res.Processed++
			res.Outcomes = append(res.Outcomes, *o)
		}
	}
	return res
}

// Package decimate drops vertices that lie too close, in distance or time, to
// the last vertex kept.
package decimate

import (
	"sort"
	"time"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// Line keeps the first vertex of r and every following vertex at least
// minDistance from the last vertex kept.
//
// With preserveFinal a dropped final vertex still ends the line: when two or
// more vertices are already kept and the one before the last kept vertex is
// itself minDistance or more from the final vertex, the last kept vertex is
// replaced by the final one. Otherwise the final vertex is appended.
func Line(g *geo.Geodesic, r geo.Ring, minDistance float64, preserveFinal bool) (geo.Ring, error) {
	if len(r) < 2 {
		return nil, geo.Invalidf("line needs at least 2 points, got %d", len(r))
	}
	if !(minDistance >= 0) {
		return nil, geo.Invalidf("minimum distance must not be negative, got %v", minDistance)
	}

	out := geo.Ring{r[0]}
	for i := 1; i < len(r); i++ {
		p := r[i]
		d, err := g.Distance(out[len(out)-1], p)
		if err != nil {
			return nil, err
		}
		if d >= minDistance {
			out = append(out, p)
			continue
		}
		if i != len(r)-1 || !preserveFinal {
			continue
		}
		if len(out) >= 2 {
			back, err := g.Distance(out[len(out)-2], p)
			if err != nil {
				return nil, err
			}
			if back >= minDistance {
				out[len(out)-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	if len(out) < 2 {
		return nil, geo.Invalidf("decimated line collapsed to a single point")
	}
	return out, nil
}

// Lines decimates every part of a multi-part line.
func Lines(g *geo.Geodesic, m geo.MultiRing, minDistance float64, preserveFinal bool) (geo.MultiRing, error) {
	out := make(geo.MultiRing, 0, len(m))
	for _, r := range m {
		d, err := Line(g, r, minDistance, preserveFinal)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Sample is one input point for point decimation.
type Sample struct {
	Point geo.Point
	// Time is compared when decimating by time. A zero Time never fails the
	// time condition.
	Time time.Time
	// Group partitions samples when Options.Grouped is set.
	Group string
	// Order sorts samples within a group when Options.Ordered is set.
	Order float64
	// Index is carried through untouched so callers can map results back.
	Index int
}

// Options selects the keep conditions for Points.
type Options struct {
	ByDistance  bool
	MinDistance float64
	ByTime      bool
	MinTime     time.Duration
	// Either keeps a sample when any enabled condition holds. By default
	// every enabled condition must hold. It only matters when both
	// conditions are enabled.
	Either        bool
	PreserveFinal bool
	Grouped       bool
	Ordered       bool
}

// Validate rejects option sets that cannot decimate anything.
func (o Options) Validate() error {
	if !o.ByDistance && !o.ByTime {
		return geo.Invalidf("decimate by distance, by time, or both")
	}
	if o.ByDistance && !(o.MinDistance >= 0) {
		return geo.Invalidf("minimum distance must not be negative, got %v", o.MinDistance)
	}
	if o.ByTime && o.MinTime < 0 {
		return geo.Invalidf("minimum time must not be negative, got %v", o.MinTime)
	}
	return nil
}

// state is the last kept sample of one group.
type state struct {
	last Sample
}

// keep reports whether s is far enough from the last kept sample.
func (o Options) keep(g *geo.Geodesic, last, s Sample) (bool, error) {
	dKeep, tKeep := true, true
	if o.ByDistance {
		d, err := g.Distance(last.Point, s.Point)
		if err != nil {
			return false, err
		}
		dKeep = d >= o.MinDistance
	}
	if o.ByTime && !last.Time.IsZero() && !s.Time.IsZero() {
		diff := s.Time.Sub(last.Time)
		if diff < 0 {
			diff = -diff
		}
		tKeep = diff >= o.MinTime
	}
	if o.Either && o.ByDistance && o.ByTime {
		return dKeep || tKeep, nil
	}
	return dKeep && tKeep, nil
}

// Points decimates samples. The first sample of every group is kept, then
// each sample passing the keep test against the group's last kept sample.
// Groups are emitted in order of first appearance.
func Points(g *geo.Geodesic, samples []Sample, o Options) ([]Sample, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var out []Sample
	for _, group := range partition(samples, o) {
		kept, err := decimateGroup(g, group, o)
		if err != nil {
			return nil, err
		}
		out = append(out, kept...)
	}
	return out, nil
}

func decimateGroup(g *geo.Geodesic, group []Sample, o Options) ([]Sample, error) {
	if len(group) == 0 {
		return nil, nil
	}
	kept := []Sample{group[0]}
	st := state{last: group[0]}
	for i := 1; i < len(group); i++ {
		s := group[i]
		ok, err := o.keep(g, st.last, s)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, s)
			st.last = s
			continue
		}
		if i != len(group)-1 || !o.PreserveFinal {
			continue
		}
		if len(kept) >= 2 {
			ok, err := o.keep(g, kept[len(kept)-2], s)
			if err != nil {
				return nil, err
			}
			if ok {
				kept[len(kept)-1] = s
				continue
			}
		}
		kept = append(kept, s)
	}
	return kept, nil
}

func partition(samples []Sample, o Options) [][]Sample {
	var groups [][]Sample
	if o.Grouped {
		index := map[string]int{}
		for _, s := range samples {
			i, ok := index[s.Group]
			if !ok {
				i = len(groups)
				index[s.Group] = i
				groups = append(groups, nil)
			}
			groups[i] = append(groups[i], s)
		}
	} else {
		groups = [][]Sample{append([]Sample(nil), samples...)}
	}
	if o.Ordered {
		for _, grp := range groups {
			sort.SliceStable(grp, func(i, j int) bool { return grp[i].Order < grp[j].Order })
		}
	}
	return groups
}

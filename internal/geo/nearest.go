// Package geo answers nearest-site queries for the landing page, e.g.
// snapping a clicked map location to the closest monitoring station.
// The spatial index is orb's quadtree; this package only adds site
// payloads and a parallel batch front end.
package geo

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/quadtree"
	"golang.org/x/sync/errgroup"
)

// Site is an indexed point of interest.
type Site struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Location orb.Point `json:"location"`
}

// Point implements orb.Pointer.
func (s Site) Point() orb.Point { return s.Location }

// Index answers nearest-site queries over a fixed set of sites.
// It is safe for concurrent reads once built.
type Index struct {
	qt *quadtree.Quadtree
}

// NewIndex builds an index over the given sites.
func NewIndex(sites []Site) (*Index, error) {
	if len(sites) == 0 {
		return nil, errors.New("geo: no sites to index")
	}

	mp := make(orb.MultiPoint, len(sites))
	for i, s := range sites {
		mp[i] = s.Location
	}

	qt := quadtree.New(mp.Bound())
	for _, s := range sites {
		if err := qt.Add(s); err != nil {
			return nil, fmt.Errorf("index site %s: %w", s.ID, err)
		}
	}
	return &Index{qt: qt}, nil
}

// Nearest returns the site closest to p.
func (ix *Index) Nearest(p orb.Point) Site {
	return ix.qt.Find(p).(Site)
}

// NearestBatch resolves the nearest site for every query point, fanning the
// lookups across a bounded worker pool. Results keep query order.
func (ix *Index) NearestBatch(ctx context.Context, pts []orb.Point, workers int) ([]Site, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]Site, len(pts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range pts {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			out[i] = ix.Nearest(p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DistanceMeters returns the haversine distance between two points.
func DistanceMeters(a, b orb.Point) float64 {
	return orbgeo.Distance(a, b)
}

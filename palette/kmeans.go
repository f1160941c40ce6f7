package palette

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// restartedKMeans runs opt.Attempts Lloyd iterations from random centers
// placed inside the bounding box of data and returns the run with the lowest
// compactness. Each run stops when no center moves more than opt.Epsilon
// (8-bit units) or after opt.MaxIterations.
func restartedKMeans(data clusters.Observations, k int, opt Options, rng *rand.Rand) clusters.Clusters {
	lo, hi := bounds(data)
	eps := opt.Epsilon / 255.0

	var best clusters.Clusters
	bestCompactness := math.Inf(1)
	for range opt.Attempts {
		cc := randomCenters(k, lo, hi, rng)
		for range opt.MaxIterations {
			assign(cc, data)
			shift := 0.0
			for i := range cc {
				prev := cc[i].Center
				if len(cc[i].Observations) == 0 {
					// Re-seed on the worst fitted point so the cluster is not lost.
					cc[i].Center = farthest(cc, data)
				} else {
					cc[i].Recenter()
				}
				shift = max(shift, floats.Distance(prev, cc[i].Center, 2))
			}
			if shift <= eps {
				break
			}
		}
		assign(cc, data)
		if c := compactness(cc); c < bestCompactness {
			best, bestCompactness = cc, c
		}
	}
	return best
}

func assign(cc clusters.Clusters, data clusters.Observations) {
	cc.Reset()
	for _, o := range data {
		ci := cc.Nearest(o)
		cc[ci].Append(o)
	}
}

// farthest returns a copy of the observation with the largest squared
// distance to its nearest center.
func farthest(cc clusters.Clusters, data clusters.Observations) clusters.Coordinates {
	bestIdx := 0
	bestD := -1.0
	for i, o := range data {
		d := o.Distance(cc[cc.Nearest(o)].Center)
		if d > bestD {
			bestD = d
			bestIdx = i
		}
	}
	return slices.Clone(data[bestIdx].Coordinates())
}

func compactness(cc clusters.Clusters) float64 {
	sum := 0.0
	for _, c := range cc {
		for _, o := range c.Observations {
			sum += o.Distance(c.Center)
		}
	}
	return sum
}

func bounds(data clusters.Observations) (lo, hi []float64) {
	dims := len(data[0].Coordinates())
	lo = make([]float64, dims)
	hi = make([]float64, dims)
	copy(lo, data[0].Coordinates())
	copy(hi, data[0].Coordinates())
	for _, o := range data[1:] {
		p := o.Coordinates()
		for d := range dims {
			lo[d] = min(lo[d], p[d])
			hi[d] = max(hi[d], p[d])
		}
	}
	return lo, hi
}

func randomCenters(k int, lo, hi []float64, rng *rand.Rand) clusters.Clusters {
	cc := make(clusters.Clusters, k)
	span := make([]float64, len(lo))
	floats.SubTo(span, hi, lo)
	for i := range cc {
		center := make(clusters.Coordinates, len(lo))
		for d := range center {
			center[d] = lo[d] + rng.Float64()*span[d]
		}
		cc[i].Center = center
	}
	return cc
}

// quickKMeansPalette partitions data once with muesli/kmeans and returns the
// centroids of the non-empty clusters ordered by population.
func quickKMeansPalette(data clusters.Observations, k int) ([]RGB, error) {
	workK := min(k, len(data))
	km := kmeans.New()
	cc, err := km.Partition(data, workK)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "kmeans partition: %v", err)
	}

	// Partition only recenters after a point changes cluster, so a run that
	// converges immediately still holds its random starting centers. Empty
	// clusters have no centroid and are dropped; Extract pads the result.
	cc.Recenter()
	cc = slices.DeleteFunc(cc, func(c clusters.Cluster) bool {
		return len(c.Observations) == 0
	})

	// Sort by cluster population so dominant colors come first.
	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	out := make([]RGB, 0, len(cc))
	for _, c := range cc {
		out = append(out, centerColor(c.Center))
	}
	return out, nil
}

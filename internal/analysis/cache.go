package analysis

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2"

	"github.com/san-kum/odelab/internal/dynamo"
)

// SweepCache memoises sweep results for its owner. Keys cover the whole
// input tuple (see SweepKey), so a hit is always a valid result; callers
// still invalidate explicitly when they want a recomputation.
type SweepCache struct {
	entries *lru.Cache[uint64, []SweepPoint]
}

func NewSweepCache(size int) (*SweepCache, error) {
	c, err := lru.New[uint64, []SweepPoint](size)
	if err != nil {
		return nil, err
	}
	return &SweepCache{entries: c}, nil
}

// Get returns a copy of the entry, so callers may modify it freely.
func (c *SweepCache) Get(key uint64) ([]SweepPoint, bool) {
	pts, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return clonePoints(pts), true
}

// Add stores a copy of pts.
func (c *SweepCache) Add(key uint64, pts []SweepPoint) {
	c.entries.Add(key, clonePoints(pts))
}

func clonePoints(pts []SweepPoint) []SweepPoint {
	out := make([]SweepPoint, len(pts))
	for i, p := range pts {
		out[i] = SweepPoint{Param: p.Param}
		if p.Points == nil {
			continue
		}
		out[i].Points = make([]FixedPoint, len(p.Points))
		for j, fp := range p.Points {
			fp.Location = fp.Location.Clone()
			out[i].Points[j] = fp
		}
	}
	return out
}

// Invalidate drops one entry and reports whether it was present.
func (c *SweepCache) Invalidate(key uint64) bool {
	return c.entries.Remove(key)
}

func (c *SweepCache) Purge() { c.entries.Purge() }

func (c *SweepCache) Len() int { return c.entries.Len() }

// GetOrSweep returns the cached sweep for key, running and caching it on a
// miss.
func (c *SweepCache) GetOrSweep(key uint64, build func(v float64) (dynamo.System, error), values []float64, region dynamo.Region) ([]SweepPoint, error) {
	if pts, ok := c.Get(key); ok {
		return pts, nil
	}
	pts, err := Sweep(build, values, region)
	if err != nil {
		return nil, err
	}
	c.Add(key, pts)
	return pts, nil
}

// SweepKey hashes the full sweep input: system name, every base parameter,
// the swept parameter and its values, and the search region.
func SweepKey(system string, params map[string]float64, sweepParam string, values []float64, region dynamo.Region) uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8)
	putFloat := func(v float64) {
		buf = binary.LittleEndian.AppendUint64(buf[:0], math.Float64bits(v))
		_, _ = d.Write(buf)
	}
	putString := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}

	putString(system)
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		putString(name)
		putFloat(params[name])
	}

	putString(sweepParam)
	for _, v := range values {
		putFloat(v)
	}
	putFloat(region.XMin)
	putFloat(region.XMax)
	putFloat(region.YMin)
	putFloat(region.YMax)
	putFloat(float64(region.Grid))
	return d.Sum64()
}

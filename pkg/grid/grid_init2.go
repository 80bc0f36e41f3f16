package grid

import (
	h3 "github.com/uber/h3-go/v4"

	"geopath/pkg/geodesy"
)

// Init2 is the block-hash rasterization strategy: raw samples are bucketed
// into H3 cells at blockRes, and each target grid cell is resolved by
// looking up its own H3 bucket, expanding outward through ringRadius rings
// of H3 neighbors when that bucket is empty, and keeping the nearest sample
// found. Like Init, the grid's shape and footprint come from data's own
// sanitized sample count and bounding box; unlike Init, blocks are built
// from the raw, unsanitized samples, trading exactness for a single
// spatial-hash pass instead of Init's per-cell cursor walk.
func (g *Grid) Init2(data []geodesy.LLA, blockRes, ringRadius int) error {
	if len(data) == 0 {
		return errEmptySamples
	}
	n := len(data)
	dim := sampleDim(n)

	curGapLat := 0.0
	if n > 1 && dim > 1 {
		curGapLat = (data[n-1].Lat - data[0].Lat) / float64(dim-1) * 0.9
	}

	clean := sanitizeSamples(data, curGapLat)
	minLon, minLat, maxLon, maxLat := boundingBox(clean)

	g.GapLon, g.GapLat = 0, 0
	if dim > 1 {
		g.GapLat = (maxLat - minLat) / float64(dim-1)
		g.GapLon = (maxLon - minLon) / float64(dim-1)
	}
	g.OriginLon, g.OriginLat = minLon, minLat
	g.allocate(dim, dim)

	blocks := buildBlocks(data, blockRes)

	for i := 0; i < g.NumLon; i++ {
		for j := 0; j < g.NumLat; j++ {
			lon := g.OriginLon + float64(i)*g.GapLon
			lat := g.OriginLat + float64(j)*g.GapLat
			target := geodesy.LLA{Lon: lon, Lat: lat}

			nearest, found := findNearestInBlocks(blocks, target, blockRes, ringRadius)
			if !found {
				continue
			}
			g.Set(i, j, geodesy.LLA{Lon: lon, Lat: lat, Alt: nearest.Alt})
		}
	}

	return nil
}

// buildBlocks buckets samples by their H3 cell at resolution res.
func buildBlocks(samples []geodesy.LLA, res int) map[h3.Cell][]geodesy.LLA {
	blocks := make(map[h3.Cell][]geodesy.LLA)
	for _, s := range samples {
		cell := h3.LatLngToCell(h3.NewLatLng(s.Lat, s.Lon), res)
		blocks[cell] = append(blocks[cell], s)
	}
	return blocks
}

// findNearestInBlocks locates the sample nearest to target by checking its
// own H3 block first, then expanding outward one ring at a time up to
// ringRadius rings until a non-empty ring is found.
func findNearestInBlocks(blocks map[h3.Cell][]geodesy.LLA, target geodesy.LLA, res, ringRadius int) (geodesy.LLA, bool) {
	origin := h3.LatLngToCell(h3.NewLatLng(target.Lat, target.Lon), res)

	for radius := 0; radius <= ringRadius; radius++ {
		ring, err := h3.GridDisk(origin, radius)
		if err != nil {
			continue
		}

		var best geodesy.LLA
		bestDist := -1.0
		for _, cell := range ring {
			for _, s := range blocks[cell] {
				d := geodesy.Distance(target, s)
				if bestDist < 0 || d < bestDist {
					bestDist, best = d, s
				}
			}
		}
		if bestDist >= 0 {
			return best, true
		}
	}
	return geodesy.LLA{}, false
}

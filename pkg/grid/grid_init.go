package grid

import (
	"math"

	"geopath/pkg/geodesy"
)

// altIsValid reports whether alt is a genuine sample rather than a
// collaborator's no-data sentinel.
func altIsValid(alt float64) bool {
	return alt > -32767
}

// sanitizeSamples returns a copy of data with invalid fields repaired: a sample with an
// invalid lon, lat, or altitude has its lon and alt patched from the nearest
// neighbor (by index, scanning outward) that carries a valid value, and its
// lat forced to the previous (already-repaired) sample's lat plus
// curGapLat, regardless of whether lat itself was the invalid field.
func sanitizeSamples(data []geodesy.LLA, curGapLat float64) []geodesy.LLA {
	clean := make([]geodesy.LLA, len(data))
	copy(clean, data)

	prev := clean[0]
	for idx := range clean {
		pos := &clean[idx]
		invalid := !geodesy.LonIsValid(pos.Lon) || !geodesy.LatIsValid(pos.Lat) || !altIsValid(pos.Alt)
		if invalid {
			repairFromNeighbors(clean, idx)
			pos.Lat = prev.Lat + curGapLat
		}
		prev = *pos
	}
	return clean
}

// repairFromNeighbors patches clean[idx]'s lon and alt from the nearest
// valid neighbors, scanning outward as idx+0, idx-0, idx+1, idx-1, ... until
// both fields are valid or every index has been tried.
func repairFromNeighbors(clean []geodesy.LLA, idx int) {
	pos := &clean[idx]
	n := len(clean)
	for i := 0; i < n; i++ {
		done := false
		for _, newIdx := range [2]int{idx + i, idx - i} {
			if newIdx < 0 || newIdx >= n {
				continue
			}
			cand := clean[newIdx]
			if !geodesy.LonIsValid(pos.Lon) && geodesy.LonIsValid(cand.Lon) {
				pos.Lon = cand.Lon
			}
			if !altIsValid(pos.Alt) && altIsValid(cand.Alt) {
				pos.Alt = cand.Alt
			}
			if geodesy.LonIsValid(pos.Lon) && altIsValid(pos.Alt) {
				done = true
				break
			}
		}
		if done {
			break
		}
	}
}

// boundingBox returns the extent of clean's valid lon/lat fields only, so an
// unrepairable field (still invalid after sanitizeSamples) doesn't skew the
// grid's footprint.
func boundingBox(clean []geodesy.LLA) (minLon, minLat, maxLon, maxLat float64) {
	minLon, minLat = math.Inf(1), math.Inf(1)
	maxLon, maxLat = math.Inf(-1), math.Inf(-1)
	for _, pos := range clean {
		if geodesy.LonIsValid(pos.Lon) {
			minLon = math.Min(minLon, pos.Lon)
			maxLon = math.Max(maxLon, pos.Lon)
		}
		if geodesy.LatIsValid(pos.Lat) {
			minLat = math.Min(minLat, pos.Lat)
			maxLat = math.Max(maxLat, pos.Lat)
		}
	}
	return
}

// sampleDim returns the square grid side length a sample count rasterizes
// into: ceil(sqrt(n)).
func sampleDim(n int) int {
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// Init rasterizes data into a square grid sized by its own sample count
// (ceil(sqrt(n)) per side), with the grid's footprint set to data's own
// sanitized bounding box. It walks the grid cell by cell with a cursor into
// the sample list: at each cell it tries the cursor's current sample, and if
// that sample sits farther away than the running acceptance distance
// (0.8*curGap), it scans forward from the cursor, wrapping around the list,
// for a closer one, falling back to whichever sample was nearest if a full
// cycle finds none within the threshold and tightening curGap to 0.8 times
// that fallback distance. This keeps nearby
// cells resolving to nearby samples without an exhaustive nearest-neighbor
// search at every cell.
func (g *Grid) Init(data []geodesy.LLA) error {
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

	lenGapLon := geodesy.Distance(geodesy.LLA{Lon: minLon, Lat: minLat}, geodesy.LLA{Lon: maxLon, Lat: minLat})
	lenGapLat := geodesy.Distance(geodesy.LLA{Lon: minLon, Lat: minLat}, geodesy.LLA{Lon: minLon, Lat: maxLat})

	g.GapLon, g.GapLat = 0, 0
	if dim > 1 {
		lenGapLat /= float64(dim - 1)
		g.GapLat = (maxLat - minLat) / float64(dim-1)
		lenGapLon /= float64(dim - 1)
		g.GapLon = (maxLon - minLon) / float64(dim-1)
	}
	g.OriginLon, g.OriginLat = minLon, minLat
	g.allocate(dim, dim)

	curGap := lenGapLon*0.5 + lenGapLat*0.5

	idx := 0
	for i := 0; i < g.NumLon; i++ {
		for j := 0; j < g.NumLat; j++ {
			centerLon := g.OriginLon + float64(i)*g.GapLon
			centerLat := g.OriginLat + float64(j)*g.GapLat
			center := geodesy.LLA{Lon: centerLon, Lat: centerLat}

			dist := geodesy.Distance(clean[idx], center)
			count := -1
			newIdx := idx
			minGap := math.Inf(1)
			minIdx := idx

			for dist >= curGap*0.8 && count < len(clean)-1 {
				newIdx = (idx + count + 1) % len(clean)
				dist = geodesy.Distance(clean[newIdx], center)
				if dist < minGap {
					minIdx = newIdx
					minGap = dist
				}
				count++
			}

			if dist >= curGap*0.8 {
				idx = minIdx
				curGap = minGap * 0.8
			} else {
				idx = newIdx
			}
			g.Set(i, j, geodesy.LLA{Lon: centerLon, Lat: centerLat, Alt: clean[idx].Alt})
		}
	}

	return nil
}

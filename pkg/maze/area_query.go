package maze

import (
	"context"
	"fmt"
	"sort"

	"geopath/pkg/geodesy"
)

const blockSize = 2

// QueryArea returns every sample in a rangeBlocks x rangeBlocks neighborhood
// of 2x2-cell blocks around (lon, lat), sorted by (lon, lat). rangeBlocks
// must be odd (3, 5, 7, ...); the neighborhood is clamped so it never runs
// off the maze edge.
func (m *Maze) QueryArea(lon, lat float64, rangeBlocks int) []geodesy.LLA {
	if rangeBlocks%2 == 0 {
		rangeBlocks++
	}

	numBlocksX := m.NumLon / blockSize
	numBlocksY := m.NumLat / blockSize
	half := rangeBlocks / 2

	blockX := clampBlock(int(lon/(blockSize*m.Step)), half, numBlocksX-1-half)
	blockY := clampBlock(int(lat/(blockSize*m.Step)), half, numBlocksY-1-half)

	var out []geodesy.LLA
	for by := blockY - half; by <= blockY+half; by++ {
		for bx := blockX - half; bx <= blockX+half; bx++ {
			for dy := 0; dy < blockSize; dy++ {
				for dx := 0; dx < blockSize; dx++ {
					gx, gy := bx*blockSize+dx, by*blockSize+dy
					if gx >= 0 && gx < m.NumLon && gy >= 0 && gy < m.NumLat {
						out = append(out, m.ToLLA(gx, gy))
					}
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Lon != out[j].Lon {
			return out[i].Lon < out[j].Lon
		}
		return out[i].Lat < out[j].Lat
	})
	return out
}

func clampBlock(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Query implements planner.Querier, treating size as the range_blocks
// parameter the reference area-query mock uses (default 3 blocks wide).
func (m *Maze) Query(_ context.Context, lon, lat float64, size int) ([]geodesy.LLA, error) {
	if size <= 0 {
		size = 3
	}
	out := m.QueryArea(lon, lat, size)
	if len(out) == 0 {
		return nil, fmt.Errorf("maze: no samples around (%.6f,%.6f)", lon, lat)
	}
	return out, nil
}

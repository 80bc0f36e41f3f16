package grid

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ExportCells renders every filled cell as a GeoJSON point feature, with its
// altitude and obstacle status as properties, for inspection or handing off
// to a map front end.
func (g *Grid) ExportCells() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for x := 0; x < g.NumLon; x++ {
		for y := 0; y < g.NumLat; y++ {
			if !g.Filled(x, y) {
				continue
			}
			cell := g.cells[x][y]
			f := geojson.NewFeature(orb.Point{cell.Lon, cell.Lat})
			f.Properties["alt"] = cell.Alt
			f.Properties["obstacle"] = g.IsObstacle(x, y)
			fc.Append(f)
		}
	}
	return fc
}

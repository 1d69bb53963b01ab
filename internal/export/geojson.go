package export

import (
	"io"
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geodome/internal/geodesic"
)

// lonLat returns the longitude and latitude, in degrees, of the direction of p.
func lonLat(p geodesic.Point3) (float64, float64) {
	ll := s2.LatLngFromPoint(s2.PointFromCoords(p.X, p.Y, p.Z))
	return ll.Lng.Degrees(), ll.Lat.Degrees()
}

// GeoJSON maps every face to a lon/lat polygon feature with properties "face" (index) and
// "area" (in model units squared). Longitudes of a face are unwrapped around its first
// vertex, so a face crossing the antimeridian may extend past ±180.
func GeoJSON(m *geodesic.Mesh) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range m.Faces {
		t := m.Triangle(i)
		ring := make(orb.Ring, 0, 4)
		var lon0 float64
		for k, v := range t {
			lon, lat := lonLat(v)
			if k == 0 {
				lon0 = lon
			} else if math.Abs(lat) < 90 {
				for lon-lon0 > 180 {
					lon -= 360
				}
				for lon0-lon > 180 {
					lon += 360
				}
			}
			ring = append(ring, orb.Point{lon, lat})
		}
		ring = append(ring, ring[0])

		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["face"] = i
		f.Properties["area"] = t.Area()
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes GeoJSON(m) to w.
func WriteGeoJSON(w io.Writer, m *geodesic.Mesh) error {
	data, err := GeoJSON(m).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

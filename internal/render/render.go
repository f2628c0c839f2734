// Package render turns stations and measurement records into the output
// formats of the command surface: CSV, GeoJSON and JSON. Pure
// presentation, no archive or cache logic.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"dwdweather/internal/climate"
	"dwdweather/internal/directory"
	"dwdweather/internal/store"
)

var stationHeaders = []string{
	"station_id", "date_start", "date_end", "geo_lon", "geo_lat", "height", "name", "state",
}

// StationsCSV writes the station list with the given delimiter (',' for
// csv, '\t' for plain).
func StationsCSV(w io.Writer, stations []climate.Station, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write(stationHeaders); err != nil {
		return err
	}
	for _, st := range stations {
		row := []string{
			strconv.Itoa(st.ID),
			strconv.Itoa(st.DateStart),
			strconv.Itoa(st.DateEnd),
			fmt.Sprintf("%.4f", st.Longitude),
			fmt.Sprintf("%.4f", st.Latitude),
			strconv.Itoa(st.Height),
			st.Name,
			st.State,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type geoFeature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geoGeometry    `json:"geometry"`
}

type geoGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type geoCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

// StationsGeoJSON writes the station list as a GeoJSON FeatureCollection
// of points.
func StationsGeoJSON(w io.Writer, stations []climate.Station) error {
	out := geoCollection{Type: "FeatureCollection", Features: []geoFeature{}}
	for _, st := range stations {
		out.Features = append(out.Features, geoFeature{
			Type: "Feature",
			Properties: map[string]any{
				"id":   st.ID,
				"name": st.Name,
			},
			Geometry: geoGeometry{
				Type:        "Point",
				Coordinates: [2]float64{st.Longitude, st.Latitude},
			},
		})
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

// RecordJSON writes one measurement record as indented JSON: the key
// fields plus every stored value.
func RecordJSON(w io.Writer, rec *store.Record) error {
	out := make(map[string]any, len(rec.Values)+2)
	for k, v := range rec.Values {
		out[k] = v
	}
	out["station_id"] = rec.StationID
	out["datetime"] = int64(rec.Timestamp)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// NeighborsJSON writes nearest-station results as indented JSON.
func NeighborsJSON(w io.Writer, neighbors []directory.Neighbor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(neighbors)
}

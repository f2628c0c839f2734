package store

import (
	"fmt"
	"strings"

	"dwdweather/internal/climate"
)

// Table names carry the resolution suffix, one measurement and one station
// table per resolution.

func measurementTable(res climate.Resolution) string {
	return "measurements_" + string(res)
}

func stationTable(res climate.Resolution) string {
	return "stations_" + string(res)
}

func allTables() []string {
	var out []string
	for _, res := range climate.Resolutions() {
		out = append(out, measurementTable(res), stationTable(res))
	}
	return out
}

// measurementColumns returns the sparse category columns of a resolution's
// measurement table, in catalog order.
func measurementColumns(res climate.Resolution) []climate.Field {
	var out []climate.Field
	for _, cat := range climate.Categories(res) {
		out = append(out, climate.Fields(res, cat)...)
	}
	return out
}

// columnSet caches the valid column names per resolution; upserts accept
// only catalog columns.
var columnSet = func() map[climate.Resolution]map[string]bool {
	m := make(map[climate.Resolution]map[string]bool)
	for _, res := range climate.Resolutions() {
		set := make(map[string]bool)
		for _, f := range measurementColumns(res) {
			set[f.Name] = true
		}
		m[res] = set
	}
	return m
}()

func (s *Store) ensureSchema() error {
	for _, res := range climate.Resolutions() {
		var cols []string
		for _, f := range measurementColumns(res) {
			cols = append(cols, f.Name+" "+f.Kind.SQLType())
		}
		create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  station_id INTEGER NOT NULL,
  ts         INTEGER NOT NULL,
  %s,
  PRIMARY KEY (station_id, ts)
)`, measurementTable(res), strings.Join(cols, ",\n  "))
		if _, err := s.db.Exec(create); err != nil {
			return fmt.Errorf("create %s: %w", measurementTable(res), err)
		}

		create = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  station_id INTEGER NOT NULL,
  date_start INTEGER NOT NULL,
  date_end   INTEGER,
  geo_lon    REAL,
  geo_lat    REAL,
  height     INTEGER,
  name       TEXT,
  state      TEXT,
  PRIMARY KEY (station_id, date_start)
)`, stationTable(res))
		if _, err := s.db.Exec(create); err != nil {
			return fmt.Errorf("create %s: %w", stationTable(res), err)
		}
	}
	return nil
}

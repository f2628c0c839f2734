package store

import (
	"context"
	"fmt"

	"dwdweather/internal/climate"
)

// ReplaceStations atomically replaces the station set of a resolution with
// a freshly imported one.
func (s *Store) ReplaceStations(ctx context.Context, res climate.Resolution, stations []climate.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin station import: %w", err)
	}
	defer tx.Rollback()

	table := stationTable(res)
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	insert := fmt.Sprintf(`INSERT OR REPLACE INTO %s
  (station_id, date_start, date_end, geo_lon, geo_lat, height, name, state)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, table)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare station insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stations {
		_, err := stmt.ExecContext(ctx,
			st.ID, st.DateStart, st.DateEnd, st.Longitude, st.Latitude,
			st.Height, st.Name, st.State)
		if err != nil {
			return fmt.Errorf("insert station %d: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit station import: %w", err)
	}
	s.log.Info("stations imported", "resolution", res, "count", len(stations))
	return nil
}

// Stations reads all cached stations of a resolution, one entry per
// station id: when a station has several metadata periods, the one with
// the newest end date wins.
func (s *Store) Stations(ctx context.Context, res climate.Resolution) ([]climate.Station, error) {
	query := fmt.Sprintf(`SELECT station_id, date_start, date_end, geo_lon, geo_lat, height, name, state
  FROM %s ORDER BY station_id, date_end, date_start`, stationTable(res))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	var out []climate.Station
	for rows.Next() {
		var st climate.Station
		err := rows.Scan(&st.ID, &st.DateStart, &st.DateEnd, &st.Longitude,
			&st.Latitude, &st.Height, &st.Name, &st.State)
		if err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		if n := len(out); n > 0 && out[n-1].ID == st.ID {
			out[n-1] = st
			continue
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// StationInfo returns the cached metadata for one station, or nil when
// unknown.
func (s *Store) StationInfo(ctx context.Context, res climate.Resolution, stationID int) (*climate.Station, error) {
	stations, err := s.Stations(ctx, res)
	if err != nil {
		return nil, err
	}
	for i := range stations {
		if stations[i].ID == stationID {
			return &stations[i], nil
		}
	}
	return nil, nil
}

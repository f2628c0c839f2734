package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dwdweather/internal/climate"
)

// Record is one merged measurement record. Values maps catalog column
// names to their stored value; columns that are NULL in the store are
// absent from the map.
type Record struct {
	StationID  int
	Resolution climate.Resolution
	Timestamp  climate.Timestamp
	Values     map[string]any
}

// HasCategory reports whether the record holds at least one published
// value (quality levels included) of the category's field group.
func (r *Record) HasCategory(cat climate.Category) bool {
	if r == nil {
		return false
	}
	for _, name := range climate.FieldNames(r.Resolution, cat) {
		if _, ok := r.Values[name]; ok {
			return true
		}
	}
	return false
}

// Upsert merges values into the record for (stationID, res, ts), creating
// it if absent. Only the given fields are written (last-write-wins per
// field), so categories merge additively and re-applying the same input is
// a no-op. Unknown column names are rejected.
func (s *Store) Upsert(ctx context.Context, stationID int, res climate.Resolution, ts climate.Timestamp, values map[string]any) error {
	valid := columnSet[res]
	cols := make([]string, 0, len(values))
	for _, f := range measurementColumns(res) {
		if _, ok := values[f.Name]; ok {
			cols = append(cols, f.Name)
		}
	}
	if len(cols) != len(values) {
		for name := range values {
			if !valid[name] {
				return fmt.Errorf("unknown column %q for resolution %s", name, res)
			}
		}
	}

	args := make([]any, 0, len(cols)+2)
	args = append(args, stationID, int64(ts))
	placeholders := make([]string, 0, len(cols))
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		args = append(args, values[c])
		placeholders = append(placeholders, "?")
		sets = append(sets, c+"=excluded."+c)
	}

	var query string
	if len(cols) == 0 {
		query = fmt.Sprintf(
			"INSERT INTO %s (station_id, ts) VALUES (?, ?) ON CONFLICT(station_id, ts) DO NOTHING",
			measurementTable(res))
	} else {
		query = fmt.Sprintf(
			"INSERT INTO %s (station_id, ts, %s) VALUES (?, ?, %s) ON CONFLICT(station_id, ts) DO UPDATE SET %s",
			measurementTable(res),
			strings.Join(cols, ", "),
			strings.Join(placeholders, ", "),
			strings.Join(sets, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert measurement: %w", err)
	}
	return nil
}

// Lookup returns the merged record for the key, or nil when no record is
// cached.
func (s *Store) Lookup(ctx context.Context, stationID int, res climate.Resolution, ts climate.Timestamp) (*Record, error) {
	fields := measurementColumns(res)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE station_id = ? AND ts = ?",
		strings.Join(names, ", "), measurementTable(res))

	dests := make([]any, len(fields))
	raw := make([]any, len(fields))
	for i := range raw {
		dests[i] = &raw[i]
	}

	err := s.db.QueryRowContext(ctx, query, stationID, int64(ts)).Scan(dests...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup measurement: %w", err)
	}

	values := make(map[string]any)
	for i, f := range fields {
		v := raw[i]
		if v == nil {
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		values[f.Name] = v
	}
	return &Record{
		StationID:  stationID,
		Resolution: res,
		Timestamp:  ts,
		Values:     values,
	}, nil
}

// CountMeasurements returns the number of cached records for a resolution.
func (s *Store) CountMeasurements(ctx context.Context, res climate.Resolution) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+measurementTable(res)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count measurements: %w", err)
	}
	return n, nil
}

// LatestTimestamp returns the newest cached timestamp for a resolution, or
// 0 when the table is empty.
func (s *Store) LatestTimestamp(ctx context.Context, res climate.Resolution) (climate.Timestamp, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(ts) FROM "+measurementTable(res)).Scan(&ts)
	if err != nil {
		return 0, fmt.Errorf("latest timestamp: %w", err)
	}
	if !ts.Valid {
		return 0, nil
	}
	return climate.Timestamp(ts.Int64), nil
}

// Package directory owns station metadata: bulk import from the archive's
// station description files and nearest-neighbor search over the cached
// set.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"dwdweather/internal/climate"
	"dwdweather/internal/parser"
	"dwdweather/internal/store"
)

// EmptyDirectoryError reports that no stations are cached for a resolution
// and none could be imported.
type EmptyDirectoryError struct {
	Resolution climate.Resolution
}

func (e *EmptyDirectoryError) Error() string {
	return fmt.Sprintf("no stations cached for resolution %s", e.Resolution)
}

// StationSource lists and fetches station description files. Implemented
// by cdc.Archive.
type StationSource interface {
	StationFiles(ctx context.Context, res climate.Resolution, cat climate.Category) ([]string, error)
	FetchStationFile(ctx context.Context, uri string) ([]byte, error)
}

// Directory resolves station metadata against the store, importing from
// the remote archive when the cache is empty.
type Directory struct {
	store  *store.Store
	source StationSource
	log    *slog.Logger
}

func New(st *store.Store, source StationSource, log *slog.Logger) *Directory {
	return &Directory{store: st, source: source, log: log}
}

// ImportStations fetches the station description files of every category
// at the resolution, merges them by station id (freshest metadata period
// wins) and atomically replaces the cached set. Categories whose listing
// or fetch fails are skipped; the import fails only when nothing at all
// could be gathered.
func (d *Directory) ImportStations(ctx context.Context, res climate.Resolution) error {
	merged := make(map[int]climate.Station)
	var firstErr error

	for _, cat := range climate.Categories(res) {
		uris, err := d.source.StationFiles(ctx, res, cat)
		if err != nil {
			d.log.Warn("station listing failed", "resolution", res, "category", cat, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, uri := range uris {
			payload, err := d.source.FetchStationFile(ctx, uri)
			if err != nil {
				d.log.Warn("station file fetch failed", "url", uri, "error", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			stations, err := parser.ParseStations(payload, d.log)
			if err != nil {
				d.log.Warn("station file unusable", "url", uri, "error", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			for _, st := range stations {
				prev, ok := merged[st.ID]
				if !ok || st.DateEnd > prev.DateEnd {
					merged[st.ID] = st
				}
			}
		}
	}

	if len(merged) == 0 {
		if firstErr != nil {
			return firstErr
		}
		return &EmptyDirectoryError{Resolution: res}
	}

	stations := make([]climate.Station, 0, len(merged))
	for _, st := range merged {
		stations = append(stations, st)
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].ID < stations[j].ID })

	return d.store.ReplaceStations(ctx, res, stations)
}

// Stations returns all cached stations for a resolution, importing them
// first if the cache is empty.
func (d *Directory) Stations(ctx context.Context, res climate.Resolution) ([]climate.Station, error) {
	stations, err := d.store.Stations(ctx, res)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		if err := d.ImportStations(ctx, res); err != nil {
			return nil, err
		}
		stations, err = d.store.Stations(ctx, res)
		if err != nil {
			return nil, err
		}
		if len(stations) == 0 {
			return nil, &EmptyDirectoryError{Resolution: res}
		}
	}
	return stations, nil
}

// Neighbor is a station annotated with its distance to a query point.
type Neighbor struct {
	climate.Station
	Distance float64 `json:"distance_m"`
}

// NearestStation finds stations around a query point. With buffer == 0 the
// single closest station is returned; with buffer > 0, every station
// within that many meters, closest first, the nearest station always
// included. Equal distances resolve to the lower station id.
func (d *Directory) NearestStation(ctx context.Context, res climate.Resolution, lon, lat, buffer float64) ([]Neighbor, error) {
	stations, err := d.Stations(ctx, res)
	if err != nil {
		return nil, err
	}

	neighbors := make([]Neighbor, 0, len(stations))
	for _, st := range stations {
		neighbors = append(neighbors, Neighbor{
			Station:  st,
			Distance: haversine(lon, lat, st.Longitude, st.Latitude),
		})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].ID < neighbors[j].ID
	})

	if buffer <= 0 {
		return neighbors[:1], nil
	}
	cut := 1
	for cut < len(neighbors) && neighbors[cut].Distance <= buffer {
		cut++
	}
	return neighbors[:cut], nil
}

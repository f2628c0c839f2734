package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"testing"

	"dwdweather/internal/cdc"
	"dwdweather/internal/climate"
	"dwdweather/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:", store.DefaultOptions(), testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

// fakeSource serves a canned station description file for every category.
type fakeSource struct {
	payload []byte
	err     error
	fetches int
}

func (f *fakeSource) StationFiles(ctx context.Context, res climate.Resolution, cat climate.Category) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{fmt.Sprintf("https://example.test/%s/%s/recent/Stundenwerte_Beschreibung_Stationen.txt", res, cat)}, nil
}

func (f *fakeSource) FetchStationFile(ctx context.Context, uri string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.fetches++
	return f.payload, nil
}

const stationPayload = `Stations_id von_datum bis_datum Stationshoehe geoBreite geoLaenge Stationsname Bundesland
----------- --------- --------- ------------- --------- --------- ----------- ----------
00003 18910101 20110331            202     50.7827    6.0941 Aachen                                   Nordrhein-Westfalen
02667 19570701 20250801             92     50.8646    7.1575 Koeln-Bonn                               Nordrhein-Westfalen
00044 19690101 20250801             44     52.9336    8.2370 Grossenkneten                            Niedersachsen
`

func seededDirectory(t *testing.T) (*Directory, *fakeSource) {
	t.Helper()
	st := setupTestStore(t)
	src := &fakeSource{payload: []byte(stationPayload)}
	return New(st, src, testLogger()), src
}

func TestImportStations(t *testing.T) {
	d, _ := seededDirectory(t)
	ctx := context.Background()

	if err := d.ImportStations(ctx, climate.ResolutionHourly); err != nil {
		t.Fatalf("ImportStations: %v", err)
	}
	stations, err := d.Stations(ctx, climate.ResolutionHourly)
	if err != nil {
		t.Fatalf("Stations: %v", err)
	}
	if len(stations) != 3 {
		t.Fatalf("got %d stations, want 3", len(stations))
	}
	// Sorted by id.
	if stations[0].ID != 3 || stations[1].ID != 44 || stations[2].ID != 2667 {
		t.Errorf("station order: %+v", stations)
	}
}

// An empty cache triggers an import on first use.
func TestStationsAutoImport(t *testing.T) {
	d, src := seededDirectory(t)

	stations, err := d.Stations(context.Background(), climate.ResolutionHourly)
	if err != nil {
		t.Fatalf("Stations: %v", err)
	}
	if len(stations) != 3 {
		t.Errorf("got %d stations, want 3", len(stations))
	}
	if src.fetches == 0 {
		t.Error("expected auto-import to fetch station files")
	}
}

func TestStationsEmptyDirectory(t *testing.T) {
	st := setupTestStore(t)
	src := &fakeSource{err: &cdc.FetchError{URL: "https://example.test", Status: 503}}
	d := New(st, src, testLogger())

	_, err := d.Stations(context.Background(), climate.ResolutionHourly)
	if err == nil {
		t.Fatal("expected error for empty directory with failing source")
	}
	var fe *cdc.FetchError
	if !errors.As(err, &fe) {
		t.Errorf("expected *cdc.FetchError, got %v", err)
	}
}

func TestHaversine(t *testing.T) {
	// Cologne Cathedral to Bonn Minster, roughly 24.3 km.
	d := haversine(6.9583, 50.9413, 7.1090, 50.7326)
	if math.Abs(d-24300) > 500 {
		t.Errorf("distance: got %.0f m, want ~24300 m", d)
	}
	if got := haversine(7.0, 51.0, 7.0, 51.0); got != 0 {
		t.Errorf("zero distance: got %v", got)
	}
}

func TestNearestStation(t *testing.T) {
	d, _ := seededDirectory(t)
	ctx := context.Background()

	// Query point sits on Koeln-Bonn exactly.
	neighbors, err := d.NearestStation(ctx, climate.ResolutionHourly, 7.1575, 50.8646, 0)
	if err != nil {
		t.Fatalf("NearestStation: %v", err)
	}
	if len(neighbors) != 1 {
		t.Fatalf("got %d neighbors, want 1", len(neighbors))
	}
	if neighbors[0].ID != 2667 {
		t.Errorf("nearest: got station %d, want 2667", neighbors[0].ID)
	}
	if neighbors[0].Distance != 0 {
		t.Errorf("distance: got %v, want 0", neighbors[0].Distance)
	}
}

// Equal distances resolve to the lower station id.
func TestNearestStationTieBreak(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	// Two stations mirrored around the query longitude.
	stations := []climate.Station{
		{ID: 20, Latitude: 50.0, Longitude: 7.1},
		{ID: 10, Latitude: 50.0, Longitude: 6.9},
	}
	if err := st.ReplaceStations(ctx, climate.ResolutionHourly, stations); err != nil {
		t.Fatalf("ReplaceStations: %v", err)
	}
	d := New(st, &fakeSource{}, testLogger())

	neighbors, err := d.NearestStation(ctx, climate.ResolutionHourly, 7.0, 50.0, 0)
	if err != nil {
		t.Fatalf("NearestStation: %v", err)
	}
	if neighbors[0].ID != 10 {
		t.Errorf("tie break: got station %d, want 10", neighbors[0].ID)
	}
}

func TestNearestStationBuffer(t *testing.T) {
	d, _ := seededDirectory(t)
	ctx := context.Background()

	// From Koeln-Bonn: Aachen is ~84 km away, Grossenkneten ~240 km.
	neighbors, err := d.NearestStation(ctx, climate.ResolutionHourly, 7.1575, 50.8646, 100000)
	if err != nil {
		t.Fatalf("NearestStation: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("got %d neighbors, want 2: %+v", len(neighbors), neighbors)
	}
	if neighbors[0].ID != 2667 || neighbors[1].ID != 3 {
		t.Errorf("buffer result: got %d, %d; want 2667, 3", neighbors[0].ID, neighbors[1].ID)
	}
	for i := 1; i < len(neighbors); i++ {
		if neighbors[i].Distance < neighbors[i-1].Distance {
			t.Errorf("neighbors not ordered by distance: %+v", neighbors)
		}
		if neighbors[i].Distance > 100000 {
			t.Errorf("neighbor beyond buffer: %+v", neighbors[i])
		}
	}
}

// The buffer set always contains the single nearest station, even when its
// distance exceeds the buffer.
func TestNearestStationBufferAlwaysIncludesNearest(t *testing.T) {
	d, _ := seededDirectory(t)

	neighbors, err := d.NearestStation(context.Background(), climate.ResolutionHourly, 13.4, 52.5, 1000)
	if err != nil {
		t.Fatalf("NearestStation: %v", err)
	}
	if len(neighbors) != 1 {
		t.Fatalf("got %d neighbors, want just the nearest", len(neighbors))
	}
	if neighbors[0].Distance <= 1000 {
		t.Fatalf("test setup: nearest station unexpectedly within buffer (%v m)", neighbors[0].Distance)
	}
}

package parser

import (
	"errors"
	"testing"
)

const stationFile = `Stations_id von_datum bis_datum Stationshoehe geoBreite geoLaenge Stationsname Bundesland
----------- --------- --------- ------------- --------- --------- ----------------------------------------- ----------
00003 18910101 20110331            202     50.7827    6.0941 Aachen                                   Nordrhein-Westfalen
02667 19570701 20250801             92     50.8646    7.1575 Koeln-Bonn                               Nordrhein-Westfalen
00044 19690101 20250801             44     52.9336    8.2370 Grossenkneten                            Niedersachsen
`

func TestParseStations(t *testing.T) {
	stations, err := ParseStations([]byte(stationFile), testLogger())
	if err != nil {
		t.Fatalf("ParseStations: %v", err)
	}
	if len(stations) != 3 {
		t.Fatalf("got %d stations, want 3", len(stations))
	}

	st := stations[1]
	if st.ID != 2667 {
		t.Errorf("id: got %d, want 2667", st.ID)
	}
	if st.DateStart != 19570701 || st.DateEnd != 20250801 {
		t.Errorf("dates: got %d..%d", st.DateStart, st.DateEnd)
	}
	if st.Height != 92 {
		t.Errorf("height: got %d, want 92", st.Height)
	}
	if st.Latitude != 50.8646 || st.Longitude != 7.1575 {
		t.Errorf("coordinates: got %v, %v", st.Latitude, st.Longitude)
	}
	if st.Name != "Koeln-Bonn" {
		t.Errorf("name: got %q", st.Name)
	}
	if st.State != "Nordrhein-Westfalen" {
		t.Errorf("state: got %q", st.State)
	}
}

// Station names may contain spaces; only the last field is the state.
func TestParseStations_MultiWordName(t *testing.T) {
	payload := `Stations_id von_datum bis_datum Stationshoehe geoBreite geoLaenge Stationsname Bundesland
----------- --------- --------- ------------- --------- --------- ----------- ----------
00096 20190410 20250801            157     52.9437    12.8518 Neuruppin-Alt Ruppin                     Brandenburg
`
	stations, err := ParseStations([]byte(payload), testLogger())
	if err != nil {
		t.Fatalf("ParseStations: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("got %d stations, want 1", len(stations))
	}
	if stations[0].Name != "Neuruppin-Alt Ruppin" {
		t.Errorf("name: got %q", stations[0].Name)
	}
	if stations[0].State != "Brandenburg" {
		t.Errorf("state: got %q", stations[0].State)
	}
}

func TestParseStations_SkipsMalformedRows(t *testing.T) {
	payload := `Stations_id von_datum bis_datum Stationshoehe geoBreite geoLaenge Stationsname Bundesland
----------- --------- --------- ------------- --------- --------- ----------- ----------
bogus line without numbers here x y
00003 18910101 20110331            202     50.7827    6.0941 Aachen                                   Nordrhein-Westfalen
`
	stations, err := ParseStations([]byte(payload), testLogger())
	if err != nil {
		t.Fatalf("ParseStations: %v", err)
	}
	if len(stations) != 1 || stations[0].ID != 3 {
		t.Errorf("got %+v, want just station 3", stations)
	}
}

func TestParseStations_BadHeader(t *testing.T) {
	_, err := ParseStations([]byte("<html>not a station file</html>\n"), testLogger())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

// Latin-1 umlauts in station names survive decoding.
func TestParseStations_Latin1(t *testing.T) {
	payload := []byte(`Stations_id von_datum bis_datum Stationshoehe geoBreite geoLaenge Stationsname Bundesland
----------- --------- --------- ------------- --------- --------- ----------- ----------
01262 19920517 20250801            446     48.3477    11.8134 M` + "\xfc" + `nchen-Flughafen Bayern
`)
	stations, err := ParseStations(payload, testLogger())
	if err != nil {
		t.Fatalf("ParseStations: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("got %d stations, want 1", len(stations))
	}
	if stations[0].Name != "München-Flughafen" {
		t.Errorf("name: got %q", stations[0].Name)
	}
}

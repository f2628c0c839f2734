package parser

import (
	"bufio"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"dwdweather/internal/climate"
)

// ParseStations decodes a station description file
// (*_Beschreibung_Stationen.txt): two header lines, then fixed-order
// whitespace-separated rows ending in station name and federal state.
// Malformed rows are logged and skipped; a file without the expected
// header yields a *ParseError.
func ParseStations(payload []byte, log *slog.Logger) ([]climate.Station, error) {
	scanner := bufio.NewScanner(strings.NewReader(decodeLatin1(payload)))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var stations []climate.Station
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text == "\x1a" {
			continue
		}
		if line == 1 {
			if !strings.Contains(strings.ToLower(text), "stations_id") {
				return nil, &ParseError{Detail: fmt.Sprintf("unexpected header %q", text)}
			}
			continue
		}
		if line == 2 {
			// Separator row of dashes.
			continue
		}
		st, err := parseStationLine(text)
		if err != nil {
			log.Warn("skipping malformed station row", "line", line, "reason", err)
			continue
		}
		stations = append(stations, st)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Detail: err.Error()}
	}
	return stations, nil
}

// parseStationLine splits the 6 leading numeric columns, then separates
// the federal state from the free-form station name at the last space.
func parseStationLine(text string) (climate.Station, error) {
	parts := strings.Fields(text)
	if len(parts) < 8 {
		return climate.Station{}, fmt.Errorf("expected at least 8 fields, got %d", len(parts))
	}

	nameAndState := parts[6:]
	state := nameAndState[len(nameAndState)-1]
	name := strings.Join(nameAndState[:len(nameAndState)-1], " ")

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return climate.Station{}, fmt.Errorf("station id %q: %w", parts[0], err)
	}
	dateStart, err := strconv.Atoi(parts[1])
	if err != nil {
		return climate.Station{}, fmt.Errorf("date_start %q: %w", parts[1], err)
	}
	dateEnd, err := strconv.Atoi(parts[2])
	if err != nil {
		return climate.Station{}, fmt.Errorf("date_end %q: %w", parts[2], err)
	}
	height, err := strconv.Atoi(parts[3])
	if err != nil {
		return climate.Station{}, fmt.Errorf("height %q: %w", parts[3], err)
	}
	lat, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return climate.Station{}, fmt.Errorf("latitude %q: %w", parts[4], err)
	}
	lon, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return climate.Station{}, fmt.Errorf("longitude %q: %w", parts[5], err)
	}

	return climate.Station{
		ID:        id,
		DateStart: dateStart,
		DateEnd:   dateEnd,
		Height:    height,
		Latitude:  lat,
		Longitude: lon,
		Name:      name,
		State:     state,
	}, nil
}

// Package climate describes the layout of the DWD Climate Data Center
// archive: which resolutions and measurement categories exist, which fields
// each category publishes, and how timestamps are encoded per resolution.
// Every other component routes through these enumerations, so adding a
// category or resolution is a single change here.
package climate

import "fmt"

// Resolution is the temporal granularity of an observation series. The
// string value doubles as the archive subfolder and the storage table
// suffix.
type Resolution string

const (
	Resolution10Minutes Resolution = "10_minutes"
	ResolutionHourly    Resolution = "hourly"
	ResolutionDaily     Resolution = "daily"
)

// Resolutions lists all supported resolutions.
func Resolutions() []Resolution {
	return []Resolution{Resolution10Minutes, ResolutionHourly, ResolutionDaily}
}

// ParseResolution validates a user-supplied resolution name.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case Resolution10Minutes, ResolutionHourly, ResolutionDaily:
		return Resolution(s), nil
	}
	return "", fmt.Errorf("unknown resolution %q (allowed: 10_minutes, hourly, daily)", s)
}

// Category is a named group of physically related measured quantities
// sharing one remote schema and file naming convention.
type Category string

const (
	CategoryAirTemperature    Category = "air_temperature"
	CategoryCloudiness        Category = "cloudiness"
	CategoryDailyObservations Category = "daily_observations"
	CategoryPrecipitation     Category = "precipitation"
	CategoryPressure          Category = "pressure"
	CategorySoilTemperature   Category = "soil_temperature"
	CategorySolar             Category = "solar"
	CategorySun               Category = "sun"
	CategoryVisibility        Category = "visibility"
	CategoryWind              Category = "wind"
)

// Folder returns the archive subfolder for the category. Only the daily
// climate summary deviates from the category name.
func (c Category) Folder() string {
	if c == CategoryDailyObservations {
		return "kl"
	}
	return string(c)
}

// ParseCategory validates a user-supplied category name.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryAirTemperature, CategoryCloudiness, CategoryDailyObservations,
		CategoryPrecipitation, CategoryPressure, CategorySoilTemperature,
		CategorySolar, CategorySun, CategoryVisibility, CategoryWind:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Kind is the storage type of a published field.
type Kind int

const (
	KindReal Kind = iota
	KindInt
	KindText
	// KindTimestamp fields hold a secondary datetime encoded in the
	// resolution's raw integer format.
	KindTimestamp
)

// SQLType maps a field kind to its SQLite column type.
func (k Kind) SQLType() string {
	switch k {
	case KindReal:
		return "REAL"
	case KindInt, KindTimestamp:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// Field is one published measurement column.
type Field struct {
	Name string
	Kind Kind
}

// Station is one entry of the archive's station directory. Dates are raw
// YYYYMMDD integers as published.
type Station struct {
	ID        int     `json:"station_id"`
	DateStart int     `json:"date_start"`
	DateEnd   int     `json:"date_end"`
	Longitude float64 `json:"geo_lon"`
	Latitude  float64 `json:"geo_lat"`
	Height    int     `json:"height"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
}

// Package parser decodes the text files published by the climate archive:
// semicolon-separated measurement files and fixed-field station
// description files.
package parser

import (
	"bufio"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"dwdweather/internal/climate"
)

// Row is one parsed measurement record. Values holds only the fields that
// were actually published; sentinel-missing fields are absent, never zero.
type Row struct {
	StationID int
	Timestamp climate.Timestamp
	Values    map[string]any
}

// Rows iterates lazily over the records of one measurement file.
//
//	rows, err := parser.ParseMeasurements(payload, res, cat, log)
//	for rows.Next() {
//		row := rows.Row()
//		...
//	}
type Rows struct {
	scanner *bufio.Scanner
	res     climate.Resolution
	cat     climate.Category
	fields  []climate.Field
	log     *slog.Logger

	row       Row
	line      int
	rowErrors []RowError
}

// ParseMeasurements validates the file header against the category schema
// and returns a lazy row iterator. A header that does not match yields a
// *SchemaError; individual malformed rows are logged, recorded and
// skipped during iteration.
func ParseMeasurements(payload []byte, res climate.Resolution, cat climate.Category, log *slog.Logger) (*Rows, error) {
	fields := climate.Fields(res, cat)
	if fields == nil {
		return nil, &SchemaError{Resolution: res, Category: cat, Detail: "category not published at this resolution"}
	}

	scanner := bufio.NewScanner(strings.NewReader(decodeLatin1(payload)))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	r := &Rows{
		scanner: scanner,
		res:     res,
		cat:     cat,
		fields:  fields,
		log:     log,
	}

	header, ok := r.nextLine()
	if !ok {
		return nil, &SchemaError{Resolution: res, Category: cat, Detail: "empty file"}
	}
	cols := splitRecord(header)
	// Leading station id and timestamp columns precede the category fields.
	want := 2 + len(fields)
	if len(cols) != want {
		return nil, &SchemaError{
			Resolution: res,
			Category:   cat,
			Detail:     fmt.Sprintf("expected %d columns, file has %d", want, len(cols)),
		}
	}
	return r, nil
}

// Next advances to the next well-formed record.
func (r *Rows) Next() bool {
	for {
		line, ok := r.nextLine()
		if !ok {
			return false
		}
		row, err := r.parseLine(line)
		if err != nil {
			r.rowErrors = append(r.rowErrors, *err)
			r.log.Warn("skipping malformed row",
				"category", r.cat, "line", err.Line, "reason", err.Reason)
			continue
		}
		r.row = row
		return true
	}
}

// Row returns the record produced by the last successful Next.
func (r *Rows) Row() Row { return r.row }

// RowErrors lists the malformed rows skipped so far.
func (r *Rows) RowErrors() []RowError { return r.rowErrors }

func (r *Rows) nextLine() (string, bool) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || line == "\x1a" {
			continue
		}
		return line, true
	}
	return "", false
}

func (r *Rows) parseLine(line string) (Row, *RowError) {
	parts := splitRecord(line)
	if len(parts) != 2+len(r.fields) {
		return Row{}, &RowError{Line: r.line, Reason: fmt.Sprintf("expected %d fields, got %d", 2+len(r.fields), len(parts))}
	}

	stationID, err := strconv.Atoi(parts[0])
	if err != nil {
		return Row{}, &RowError{Line: r.line, Reason: "bad station id " + strconv.Quote(parts[0])}
	}

	ts, err := climate.ParseTimestamp(r.res, parts[1])
	if err != nil {
		return Row{}, &RowError{Line: r.line, Reason: err.Error()}
	}

	values := make(map[string]any, len(r.fields))
	for i, cell := range parts[2:] {
		field := r.fields[i]
		if isMissing(cell) {
			continue
		}
		v, convErr := convertCell(field, cell)
		if convErr != nil {
			return Row{}, &RowError{Line: r.line, Reason: fmt.Sprintf("field %s: %v", field.Name, convErr)}
		}
		values[field.Name] = v
	}

	return Row{StationID: stationID, Timestamp: ts, Values: values}, nil
}

// splitRecord splits a semicolon-separated record, trims each cell and
// drops the trailing end-of-record marker.
func splitRecord(line string) []string {
	parts := strings.Split(line, ";")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "eor" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// isMissing reports the archive's not-a-number sentinel.
func isMissing(cell string) bool {
	return cell == "-999" || cell == "-999.0"
}

func convertCell(field climate.Field, cell string) (any, error) {
	switch field.Kind {
	case climate.KindReal:
		return strconv.ParseFloat(cell, 64)
	case climate.KindInt:
		// Some integer columns are published with a decimal part.
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, err
		}
		return int64(f), nil
	case climate.KindTimestamp:
		// Secondary datetime columns keep their full published precision;
		// only separators are stripped.
		raw := strings.NewReplacer("-", "", "T", "", ":", "", " ", "").Replace(cell)
		return strconv.ParseInt(raw, 10, 64)
	default:
		return cell, nil
	}
}

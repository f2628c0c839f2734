package cdc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dwdweather/internal/climate"
)

// FileRef describes one measurement archive file that may contain data for
// a station.
type FileRef struct {
	URL        string
	Resolution climate.Resolution
	Category   climate.Category
	Span       Span
}

// Archive indexes the CDC directory layout
// {base}/{resolution}/{category}/{span}/ and fetches file payloads.
type Archive struct {
	client  *Client
	baseURL string
	log     *slog.Logger
}

func NewArchive(client *Client, baseURL string, log *slog.Logger) *Archive {
	return &Archive{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

func (a *Archive) categoryURL(res climate.Resolution, cat climate.Category) string {
	return fmt.Sprintf("%s/%s/%s", a.baseURL, res, cat.Folder())
}

// flatLayout reports whether a category publishes its files directly under
// the category folder instead of span subfolders. Solar data has no
// recent/historical split except at 10-minute resolution.
func flatLayout(res climate.Resolution, cat climate.Category) bool {
	return cat == climate.CategorySolar && res != climate.Resolution10Minutes
}

// ListFiles returns the archive files that may hold measurements for the
// station, one per span, in the span order given. Spans without a matching
// file are skipped; a listing failure for one span is returned only if no
// span produced a candidate.
func (a *Archive) ListFiles(ctx context.Context, res climate.Resolution, cat climate.Category, stationID int, spans []Span) ([]FileRef, error) {
	pattern := fmt.Sprintf("_%05d_", stationID)

	var dirs []struct {
		url  string
		span Span
	}
	if flatLayout(res, cat) {
		dirs = append(dirs, struct {
			url  string
			span Span
		}{a.categoryURL(res, cat), SpanRecent})
	} else {
		for _, span := range spans {
			dirs = append(dirs, struct {
				url  string
				span Span
			}{a.categoryURL(res, cat) + "/" + string(span), span})
		}
	}

	var refs []FileRef
	var lastErr error
	for _, d := range dirs {
		names, err := a.client.Index(ctx, d.url, "zip")
		if err != nil {
			a.log.Warn("archive listing failed", "url", d.url, "error", err)
			lastErr = err
			continue
		}
		for _, name := range names {
			if strings.Contains(name, pattern) {
				refs = append(refs, FileRef{
					URL:        name,
					Resolution: res,
					Category:   cat,
					Span:       d.span,
				})
				break
			}
		}
	}
	if len(refs) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return refs, nil
}

// FetchProduct retrieves one archive file and unwraps the measurement
// payload from its ZIP container.
func (a *Archive) FetchProduct(ctx context.Context, ref FileRef) ([]byte, error) {
	body, err := a.client.Get(ctx, ref.URL)
	if err != nil {
		return nil, err
	}
	payload, err := extractProduct(body)
	if err != nil {
		return nil, &FetchError{URL: ref.URL, Err: err}
	}
	return payload, nil
}

// StationFiles lists the station description files for a category. The
// archive publishes one *_Beschreibung_Stationen.txt per category; the
// recent span's copy is authoritative.
func (a *Archive) StationFiles(ctx context.Context, res climate.Resolution, cat climate.Category) ([]string, error) {
	dir := a.categoryURL(res, cat)
	if !flatLayout(res, cat) {
		dir += "/" + string(SpanRecent)
	}
	names, err := a.client.Index(ctx, dir, "txt")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range names {
		if strings.Contains(name, "Beschreibung_Stationen") {
			out = append(out, name)
		}
	}
	return out, nil
}

// FetchStationFile retrieves one station description file.
func (a *Archive) FetchStationFile(ctx context.Context, uri string) ([]byte, error) {
	return a.client.Get(ctx, uri)
}

// Package resolver answers point queries against the measurement cache,
// transparently refreshing missing data from the remote archive.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"dwdweather/internal/cdc"
	"dwdweather/internal/climate"
	"dwdweather/internal/parser"
	"dwdweather/internal/store"
)

// DataUnavailableError is the expected outcome of a well-formed query for
// which the archive simply has no data (yet). It is distinct from
// transport and parse failures.
type DataUnavailableError struct {
	StationID  int
	Resolution climate.Resolution
	Timestamp  climate.Timestamp
	Categories []climate.Category
}

func (e *DataUnavailableError) Error() string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = string(c)
	}
	return fmt.Sprintf("no data for station %d at %s/%s (categories: %s)",
		e.StationID, e.Resolution, e.Timestamp, strings.Join(names, ", "))
}

// Archive is the remote collaborator: list candidate files, fetch file
// payloads. Implemented by cdc.Archive.
type Archive interface {
	ListFiles(ctx context.Context, res climate.Resolution, cat climate.Category, stationID int, spans []cdc.Span) ([]cdc.FileRef, error)
	FetchProduct(ctx context.Context, ref cdc.FileRef) ([]byte, error)
}

// Result of one query. Record may be partial: Failed holds categories
// whose fetch or parse failed, Unavailable those the archive has no data
// for.
type Result struct {
	Record      *store.Record
	Unavailable []climate.Category
	Failed      map[climate.Category]error
}

// Resolver decides between cache hit and remote refresh for each query.
type Resolver struct {
	store   *store.Store
	archive Archive
	log     *slog.Logger

	// now is stubbed in tests to pin the span heuristic.
	now func() time.Time
}

func New(st *store.Store, archive Archive, log *slog.Logger) *Resolver {
	return &Resolver{store: st, archive: archive, log: log, now: time.Now}
}

// Query resolves one (station, timestamp, categories) point query. An
// empty category list means "any cached record suffices; refresh all
// known categories on a miss". A cache hit never touches the network; a
// miss fetches each missing category independently, merges everything the
// fetched files contain (neighboring timestamps included) and re-checks
// once. Timestamps ahead of the wall clock resolve to
// DataUnavailableError without touching the archive or the cache.
func (r *Resolver) Query(ctx context.Context, stationID int, res climate.Resolution, ts climate.Timestamp, categories []climate.Category) (*Result, error) {
	wildcard := len(categories) == 0
	if wildcard {
		categories = climate.Categories(res)
	} else {
		for _, cat := range categories {
			if !climate.HasCategory(res, cat) {
				return nil, fmt.Errorf("category %s not published at resolution %s", cat, res)
			}
		}
	}

	record, err := r.store.Lookup(ctx, stationID, res, ts)
	if err != nil {
		return nil, err
	}
	missing := missingCategories(record, categories, wildcard)
	if len(missing) == 0 {
		return &Result{Record: record, Failed: map[climate.Category]error{}}, nil
	}

	queryTime, err := ts.Time(res)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %s for resolution %s: %w", ts, res, err)
	}
	failed := make(map[climate.Category]error)
	// Data for a timestamp ahead of the clock cannot be published yet, so
	// the remote cycle is skipped and the cache stays untouched.
	if !queryTime.After(r.now()) {
		spans := cdc.SpansFor(res, queryTime, r.now())

		// Category field sets are disjoint, so the per-category imports
		// can run concurrently; the store serializes the actual writes.
		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, cat := range missing {
			wg.Add(1)
			go func(cat climate.Category) {
				defer wg.Done()
				if err := r.importCategory(ctx, stationID, res, cat, spans); err != nil {
					mu.Lock()
					failed[cat] = err
					mu.Unlock()
				}
			}(cat)
		}
		wg.Wait()

		record, err = r.store.Lookup(ctx, stationID, res, ts)
		if err != nil {
			return nil, err
		}
	}

	// A file error for a category the re-check shows satisfied anyway
	// (another candidate file carried the data) is not a failure of the
	// query.
	for cat := range failed {
		if record.HasCategory(cat) {
			delete(failed, cat)
		}
	}

	// Unavailable outcome: no record at all, or an explicit request of
	// which not a single category could be satisfied and none failed.
	stillMissing := missingCategories(record, categories, wildcard)
	if record == nil || (len(failed) == 0 && len(stillMissing) == len(categories)) {
		return nil, &DataUnavailableError{
			StationID:  stationID,
			Resolution: res,
			Timestamp:  ts,
			Categories: categories,
		}
	}

	var unavailable []climate.Category
	for _, cat := range stillMissing {
		if _, ok := failed[cat]; !ok {
			unavailable = append(unavailable, cat)
		}
	}
	return &Result{Record: record, Unavailable: unavailable, Failed: failed}, nil
}

// importCategory fetches, parses and merges every candidate file of one
// category. All rows of a file are upserted, not only the queried
// timestamp, so neighboring timestamps are answered from cache later.
func (r *Resolver) importCategory(ctx context.Context, stationID int, res climate.Resolution, cat climate.Category, spans []cdc.Span) error {
	refs, err := r.archive.ListFiles(ctx, res, cat, stationID, spans)
	if err != nil {
		return err
	}
	var lastErr error
	for _, ref := range refs {
		if err := r.importFile(ctx, stationID, ref); err != nil {
			r.log.Warn("import failed", "url", ref.URL, "category", cat, "error", err)
			lastErr = err
		}
	}
	return lastErr
}

func (r *Resolver) importFile(ctx context.Context, stationID int, ref cdc.FileRef) error {
	payload, err := r.archive.FetchProduct(ctx, ref)
	if err != nil {
		return err
	}
	rows, err := parser.ParseMeasurements(payload, ref.Resolution, ref.Category, r.log)
	if err != nil {
		return err
	}
	count := 0
	for rows.Next() {
		row := rows.Row()
		if err := r.store.Upsert(ctx, row.StationID, ref.Resolution, row.Timestamp, row.Values); err != nil {
			return err
		}
		count++
	}
	r.log.Info("file imported",
		"url", ref.URL, "category", ref.Category, "rows", count,
		"skipped", len(rows.RowErrors()))
	return nil
}

// missingCategories lists the requested categories the record does not yet
// satisfy. Without explicit categories any record at all is a hit.
func missingCategories(record *store.Record, categories []climate.Category, wildcard bool) []climate.Category {
	if wildcard {
		if record != nil {
			return nil
		}
		return categories
	}
	var missing []climate.Category
	for _, cat := range categories {
		if !record.HasCategory(cat) {
			missing = append(missing, cat)
		}
	}
	return missing
}

package cdc

import (
	"time"

	"dwdweather/internal/climate"
)

// Span names a remote archive partition. Partitions overlap: "recent"
// covers roughly the last 500 days, "historical" everything up to a fixed
// cutover, and "now" (10-minute data only) the last day or so.
type Span string

const (
	SpanNow        Span = "now"
	SpanRecent     Span = "recent"
	SpanHistorical Span = "historical"
)

// Age thresholds steering which span to try first. The archive's own
// cutovers move over time, so these are an ordering heuristic, not a
// correctness requirement; spans that turn out empty simply cost one
// wasted listing.
const (
	nowMaxAge        = 24 * time.Hour
	recentMaxAge     = 360 * 24 * time.Hour
	cutoverWindowAge = 370 * 24 * time.Hour
)

// SpansFor orders the archive spans by how likely each is to contain the
// queried timestamp. Timestamps in the future are treated like "just
// now"; callers decide whether such a query is worth attempting at all.
func SpansFor(res climate.Resolution, query, now time.Time) []Span {
	age := now.Sub(query)
	switch {
	case age < nowMaxAge:
		if res == climate.Resolution10Minutes {
			return []Span{SpanNow, SpanRecent}
		}
		return []Span{SpanRecent}
	case age < recentMaxAge:
		return []Span{SpanRecent}
	case age < cutoverWindowAge:
		// Near the historical cutover either span may hold the data.
		return []Span{SpanRecent, SpanHistorical}
	default:
		return []Span{SpanHistorical}
	}
}

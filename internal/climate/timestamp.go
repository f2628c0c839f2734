package climate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp is the canonical cache key timestamp: the raw archive integer
// in the resolution's format (YYYYMMDD, YYYYMMDDHH or YYYYMMDDHHMM).
type Timestamp int64

// timeLayout returns the Go layout matching the resolution's raw format.
func (r Resolution) timeLayout() string {
	switch r {
	case Resolution10Minutes:
		return "200601021504"
	case ResolutionHourly:
		return "2006010215"
	default:
		return "20060102"
	}
}

// rawLen is the digit count of a well-formed raw timestamp.
func (r Resolution) rawLen() int {
	return len(r.timeLayout())
}

// ParseTimestamp normalizes a raw archive timestamp string into the
// canonical integer form. Separators used by some publications
// ("2018-02-17T07:00") are stripped first. An hourly value lacking minutes
// is accepted as-is; a 10-minute value lacking minutes gets ":00" appended.
func ParseTimestamp(res Resolution, s string) (Timestamp, error) {
	clean := strings.NewReplacer("-", "", "T", "", ":", "", " ", "").Replace(strings.TrimSpace(s))
	if res == Resolution10Minutes && len(clean) == 10 {
		clean += "00"
	}
	if len(clean) > res.rawLen() {
		clean = clean[:res.rawLen()]
	}
	if len(clean) != res.rawLen() {
		return 0, fmt.Errorf("timestamp %q does not match %s format", s, res)
	}
	t, err := time.Parse(res.timeLayout(), clean)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return TimestampFromTime(res, t), nil
}

// TimestampFromTime truncates a time to the resolution's granularity.
func TimestampFromTime(res Resolution, t time.Time) Timestamp {
	raw := t.UTC().Format(res.timeLayout())
	n, _ := strconv.ParseInt(raw, 10, 64)
	return Timestamp(n)
}

// Time converts the canonical integer back to a UTC time.
func (ts Timestamp) Time(res Resolution) (time.Time, error) {
	raw := fmt.Sprintf("%0*d", res.rawLen(), int64(ts))
	return time.Parse(res.timeLayout(), raw)
}

func (ts Timestamp) String() string {
	return strconv.FormatInt(int64(ts), 10)
}

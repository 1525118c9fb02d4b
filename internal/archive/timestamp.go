package archive

import (
	"regexp"
	"strconv"
	"time"
)

// Reply timestamps use the localized form "2024年5月7日 21:24:39". Month and
// day are not zero-padded. The format carries no timezone, so instants are
// constructed and compared in the runtime's local zone.
var timestampPattern = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日\s+(\d{1,2}):(\d{1,2}):(\d{1,2})`)

// ParseTimestamp extracts an instant from a localized timestamp string.
// The second return is false when the pattern does not match; callers must
// treat that as "matches no date filter", never as an error.
func ParseTimestamp(s string) (time.Time, bool) {
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	fields := make([]int, 6)
	for i := range fields {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		fields[i] = n
	}

	return time.Date(fields[0], time.Month(fields[1]), fields[2],
		fields[3], fields[4], fields[5], 0, time.Local), true
}

// Instant parses the reply's timestamp. Same contract as ParseTimestamp.
func (r Reply) Instant() (time.Time, bool) {
	return ParseTimestamp(r.Time)
}
